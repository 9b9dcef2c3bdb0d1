package domain

import "math"

// FogResult is the fog-chance estimate for the current readings.
type FogResult struct {
	Probability int     // 0..100
	DecadePct   int     // Probability rounded down to the nearest 10
	Likelihood  string  // display text
	DewpointC   float64 // missing sentinel when not computed
	TempDiffC   float64 // missing sentinel when not computed
	AlertLevel  float64 // 3 only when fog is very likely, else 0
}

// fogAreaMultiplier adjusts the raw probability for local terrain.
// Unknown area types leave the probability unchanged.
var fogAreaMultiplier = map[string]float64{
	"frequent_dense_fog": 1.5,
	"fog_prone":          1.2,
	"normal":             1.0,
	"rare_fog":           0.7,
	"hardly_ever_fog":    0.4,
}

// EstimateFog computes a fog probability from humidity, temperature, and wind.
//
// The dew point comes from the Magnus-Tetens approximation; the spread
// between air temperature and dew point drives a base probability, which is
// then scaled down for warm air (fog needs cooling), for wind (mixing breaks
// fog up), and up or down for how fog-prone the local area is.
//
// Humidity exactly zero or a missing temperature means the sensors are not
// reporting, not that the air is dry; that case returns a zero result with an
// explicit no-data message rather than a numeric guess.
func EstimateFog(humidity, temperature, windSpeed float64, areaType string) FogResult {
	if humidity == 0 || IsMissing(temperature) {
		return FogResult{Likelihood: "No valid sensor data.", DewpointC: Missing(), TempDiffC: Missing()}
	}
	if IsMissing(humidity) || humidity < 20 {
		return FogResult{Likelihood: "No chance of fog. Air is too dry.", DewpointC: Missing(), TempDiffC: Missing()}
	}

	alpha := (17.27*temperature)/(237.7+temperature) + math.Log(humidity/100)
	dewpoint := (237.7 * alpha) / (17.27 - alpha)
	tempDiff := roundTo(temperature-dewpoint, 1)

	var prob float64
	switch {
	case tempDiff > 6:
		prob = 0
	case tempDiff > 3:
		prob = math.Max(0, 100-15*tempDiff)
	default:
		prob = math.Max(0, 100-8*tempDiff)
	}

	switch {
	case temperature > 35:
		prob = 0
	case temperature > 30:
		prob *= 0.1
	case temperature > 25:
		prob *= 0.3
	case temperature > 20:
		prob *= 0.7
	}

	// Missing wind counts as calm.
	wind := windSpeed
	if IsMissing(wind) {
		wind = 0
	}
	switch {
	case wind > 20:
		prob *= 0.1
	case wind > 15:
		prob *= 0.2
	case wind > 10:
		prob *= 0.4
	case wind > 5:
		prob *= 0.7
	}

	if m, ok := fogAreaMultiplier[areaType]; ok {
		prob *= m
	}

	probability := int(math.Max(0, math.Min(100, prob)))

	var likelihood string
	switch {
	case probability > 90:
		likelihood = "Fog is very likely"
	case probability > 70:
		likelihood = "Fog is possible"
	case probability > 40:
		likelihood = "Fog is unlikely"
	case probability > 10:
		likelihood = "Fog is very unlikely"
	default:
		likelihood = "No fog expected"
	}

	var alertLevel float64
	if probability > 90 {
		if wind > 15 {
			likelihood += ", strong winds soon clear it"
		} else {
			likelihood += ". It may persist"
		}
		alertLevel = 3
	} else if probability > 60 {
		if wind > 10 {
			likelihood += ", wind reduces fog"
		} else {
			likelihood += ". It may persist"
		}
	}

	return FogResult{
		Probability: probability,
		DecadePct:   probability / 10 * 10,
		Likelihood:  likelihood,
		DewpointC:   dewpoint,
		TempDiffC:   tempDiff,
		AlertLevel:  alertLevel,
	}
}
