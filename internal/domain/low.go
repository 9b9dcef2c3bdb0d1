package domain

import (
	"fmt"
	"math"
	"strings"
)

// Confidence is the conservative quality grade of a low estimate.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

var confidenceScore = map[Confidence]int{ConfidenceLow: 0, ConfidenceMedium: 1, ConfidenceHigh: 2}

// combineConfidence takes the lowest of the parts, so the estimate never
// claims better quality than its weakest input.
func combineConfidence(parts ...Confidence) Confidence {
	min := ConfidenceHigh
	for _, p := range parts {
		s, ok := confidenceScore[p]
		if !ok {
			s = 0
		}
		if s < confidenceScore[min] {
			min = p
		}
	}
	return min
}

func confidenceText(c Confidence) string {
	switch c {
	case ConfidenceHigh:
		return "high confidence"
	case ConfidenceMedium:
		return "medium confidence"
	case ConfidenceLow:
		return "low confidence"
	}
	return string(c)
}

// DistanceClass is the rough distance bucket of the nearest low.
type DistanceClass string

const (
	DistanceFar         DistanceClass = "Far"
	DistanceDistant     DistanceClass = "Distant"
	DistanceApproaching DistanceClass = "Approaching"
	DistanceNear        DistanceClass = "Near"
	DistanceVeryNear    DistanceClass = "Very near"
	DistanceImminent    DistanceClass = "Imminent"
	DistanceUnknown     DistanceClass = "Unknown"
)

var distanceOrder = []DistanceClass{
	DistanceFar, DistanceDistant, DistanceApproaching,
	DistanceNear, DistanceVeryNear, DistanceImminent,
}

var distanceKmRange = map[DistanceClass]string{
	DistanceFar:         "1000–2000 km",
	DistanceDistant:     "700–1000 km",
	DistanceApproaching: "400–700 km",
	DistanceNear:        "200–400 km",
	DistanceVeryNear:    "80–200 km",
	DistanceImminent:    "0–80 km",
}

// impactWindow maps distance class to (short bucket, display range).
var impactWindow = map[DistanceClass][2]string{
	DistanceFar:         {">24h", "> 24 hours"},
	DistanceDistant:     {"12–24h", "12–24 hours"},
	DistanceApproaching: {"6–12h", "6–12 hours"},
	DistanceNear:        {"3–6h", "3–6 hours"},
	DistanceVeryNear:    {"<3h", "< 3 hours"},
	DistanceImminent:    {"<3h", "< 3 hours"},
}

// Pressure fall-rate breakpoints (hPa/hr magnitude) for the distance classes.
const (
	fallRateDistant  = 0.05
	fallRateApproach = 0.15
	fallRateNear     = 0.35
	fallRateVeryNear = 0.70
	fallRateImminent = 1.50
)

// shiftCloser moves a distance class N steps closer in the ordering, saturating
// at Imminent. Unknown is left alone.
func shiftCloser(c DistanceClass, steps int) DistanceClass {
	for i, d := range distanceOrder {
		if d == c {
			j := i + steps
			if j > len(distanceOrder)-1 {
				j = len(distanceOrder) - 1
			}
			return distanceOrder[j]
		}
	}
	return c
}

// nearish reports whether the low is plausibly influencing local conditions.
func nearish(c DistanceClass) bool {
	switch c {
	case DistanceApproaching, DistanceNear, DistanceVeryNear, DistanceImminent:
		return true
	}
	return false
}

// Movement describes the low's inferred motion relative to the station.
type Movement string

const (
	MovementApproaching Movement = "Approaching"
	MovementPassing     Movement = "Passing"
	MovementMovingAway  Movement = "Moving away"
	MovementUnknown     Movement = "Unknown"
)

// ImpactWindowStatus places the low's impact window in time.
type ImpactWindowStatus string

const (
	ImpactFuture  ImpactWindowStatus = "Future"
	ImpactNow     ImpactWindowStatus = "Now"
	ImpactPassed  ImpactWindowStatus = "Passed"
	ImpactUnknown ImpactWindowStatus = "Unknown"
)

// AnchoringRisk grades how safe it is to stay at anchor.
type AnchoringRisk string

const (
	AnchorSafe    AnchoringRisk = "Safe"
	AnchorCaution AnchoringRisk = "Caution"
	AnchorUnsafe  AnchoringRisk = "Unsafe"
)

// LowInputs are the raw signals the estimator works from. Any scalar may carry
// the missing sentinel; the estimator degrades instead of erroring.
type LowInputs struct {
	WindFromDeg      float64   // meteorological FROM degrees
	PressureSlope    float64   // hPa/hr, negative means falling
	WindSpeed        float64   // knots, now
	WindSpeedHistory []float64 // knots, oldest first
	WindDirDelta     float64   // signed rotation over the history window, + is veering
	Hemisphere       string    // "north" or "south"
}

// LowEstimate is the full low-pressure-system picture derived from one
// station's readings. All fields are display-ready.
type LowEstimate struct {
	BearingDeg     float64
	BearingCompass string
	DistanceClass  DistanceClass
	DistanceKm     string
	WindTrend      string
	WindDeltaKn    float64 // missing sentinel when history too short
	WindTrendNote  string  // "" or a "likely to continue increasing" qualifier
	Confidence     Confidence
	Hemisphere     string
	PressureSlope  float64 // missing sentinel when unavailable

	WeatherTrend       string
	TimeToImpact       string
	TimeToImpactRange  string
	WindRotation       string
	WindDirDelta       float64 // missing sentinel when unavailable
	RelativePosition   string
	Movement           Movement
	ImpactWindowStatus ImpactWindowStatus
	FrontalZone        bool
	AnchoringRisk      AnchoringRisk

	Summary string
}

// EstimateLow infers the bearing, distance, and motion of the nearest
// low-pressure system from local wind and pressure-tendency signals.
//
// The bearing follows the Buys-Ballot rule: stand with your back to the wind
// in the northern hemisphere and the low is on your left, so the low lies
// roughly 90° clockwise of the wind-from direction (counter-clockwise south
// of the equator). Distance is read off the pressure fall rate, nudged closer
// when strong wind accompanies a real fall. Everything else is derived
// deterministically from those two signals plus the wind history.
func EstimateLow(in LowInputs) LowEstimate {
	wdir := in.WindFromDeg
	pslope := in.PressureSlope
	wspd := in.WindSpeed
	wdirDelta := in.WindDirDelta

	// Direction to the low.
	var (
		lowDeg     float64
		lowCompass string
		confDir    Confidence
	)
	if IsMissing(wdir) {
		lowDeg = 0
		lowCompass = "N"
		confDir = ConfidenceLow
	} else {
		if strings.HasPrefix(strings.ToLower(in.Hemisphere), "s") {
			lowDeg = clampDeg(wdir - 90)
		} else {
			lowDeg = clampDeg(wdir + 90)
		}
		lowCompass = Compass8(lowDeg)
		confDir = ConfidenceMedium
	}

	// Distance class from the pressure fall rate.
	var (
		distance DistanceClass
		kmRange  string
		confDist Confidence
		fallRate float64
	)
	if IsMissing(pslope) {
		distance = DistanceUnknown
		kmRange = "Unknown"
		confDist = ConfidenceLow
		fallRate = Missing()
	} else {
		fallRate = math.Max(0, -pslope)
		switch {
		case fallRate < fallRateDistant:
			distance = DistanceFar
		case fallRate < fallRateApproach:
			distance = DistanceDistant
		case fallRate < fallRateNear:
			distance = DistanceApproaching
		case fallRate < fallRateVeryNear:
			distance = DistanceNear
		case fallRate < fallRateImminent:
			distance = DistanceVeryNear
		default:
			distance = DistanceImminent
		}

		// Strong wind together with a real fall means the gradient is
		// already tight here, so the low is closer than the rate alone says.
		if !IsMissing(wspd) && fallRate >= fallRateApproach {
			if wspd >= 30 {
				distance = shiftCloser(distance, 2)
			} else if wspd >= 20 {
				distance = shiftCloser(distance, 1)
			}
		}

		kmRange = distanceKmRange[distance]
		if fallRate >= fallRateApproach {
			confDist = ConfidenceMedium
		} else {
			confDist = ConfidenceLow
		}
	}

	// Wind trend from the speed history window.
	deltaKn := windDelta(in.WindSpeedHistory)
	var (
		windTrend string
		trendNote string
		confWind  Confidence
	)
	if IsMissing(deltaKn) {
		windTrend = "Stable/unknown"
		confWind = ConfidenceLow
	} else {
		switch {
		case deltaKn <= -5:
			windTrend = "Decreasing a lot"
		case deltaKn <= -2:
			windTrend = "Decreasing"
		case deltaKn < 2:
			windTrend = "Stable"
		case deltaKn < 5:
			windTrend = "Increasing"
		default:
			windTrend = "Increasing a lot"
		}
		confWind = ConfidenceMedium
	}
	// A fast pressure fall with non-decreasing wind makes further increase
	// likely. Kept out of the trend label itself so downstream matching on
	// the plain buckets stays exact.
	if !IsMissing(pslope) && pslope < -0.5 && (IsMissing(deltaKn) || deltaKn > -2) {
		trendNote = "likely to continue increasing"
	}

	confidence := combineConfidence(confDir, confDist, confWind)

	weatherTrend := deriveWeatherTrend(distance, windTrend)

	timeToImpact, timeToImpactRange := "Unknown", "Unknown"
	if w, ok := impactWindow[distance]; ok {
		timeToImpact, timeToImpactRange = w[0], w[1]
	}

	rotation := deriveWindRotation(distance, wdirDelta)

	relPos, movement, impactStatus := deriveRelativePosition(pslope, distance)
	if impactStatus == ImpactPassed &&
		(weatherTrend == "Deteriorating" || weatherTrend == "Rapidly deteriorating") {
		// Rising pressure behind the low outranks the distance-based guess.
		weatherTrend = "Improving"
	}

	frontal := deriveFrontalZone(distance, pslope, windTrend)
	anchor := deriveAnchoringRisk(distance, windTrend)

	est := LowEstimate{
		BearingDeg:         roundTo(lowDeg, 1),
		BearingCompass:     lowCompass,
		DistanceClass:      distance,
		DistanceKm:         kmRange,
		WindTrend:          windTrend,
		WindDeltaKn:        roundMissing(deltaKn, 2),
		WindTrendNote:      trendNote,
		Confidence:         confidence,
		Hemisphere:         in.Hemisphere,
		PressureSlope:      roundMissing(pslope, 3),
		WeatherTrend:       weatherTrend,
		TimeToImpact:       timeToImpact,
		TimeToImpactRange:  timeToImpactRange,
		WindRotation:       rotation,
		WindDirDelta:       roundMissing(wdirDelta, 1),
		RelativePosition:   relPos,
		Movement:           movement,
		ImpactWindowStatus: impactStatus,
		FrontalZone:        frontal,
		AnchoringRisk:      anchor,
	}
	est.Summary = buildLowSummary(est)
	return est
}

func roundMissing(v float64, places int) float64 {
	if IsMissing(v) {
		return v
	}
	return roundTo(v, places)
}

// windDelta is last minus first over the usable history values.
func windDelta(history []float64) float64 {
	vals := make([]float64, 0, len(history))
	for _, v := range history {
		if !IsMissing(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) < 2 {
		return Missing()
	}
	return vals[len(vals)-1] - vals[0]
}

func deriveWeatherTrend(distance DistanceClass, windTrend string) string {
	base := "Stable"
	switch distance {
	case DistanceApproaching, DistanceNear:
		base = "Deteriorating"
	case DistanceVeryNear, DistanceImminent:
		base = "Rapidly deteriorating"
	}

	// Wind clearly easing while the system is not yet near reads as improving.
	if strings.Contains(windTrend, "Decreasing") &&
		(distance == DistanceFar || distance == DistanceDistant || distance == DistanceApproaching) {
		return "Improving"
	}

	if strings.Contains(windTrend, "Increasing a lot") {
		if base == "Stable" {
			return "Deteriorating"
		}
		if base == "Deteriorating" {
			return "Rapidly deteriorating"
		}
	}
	return base
}

// Wind-direction rotation thresholds (degrees over the history window).
const (
	rotationSlightDeg = 3.0
	rotationClearDeg  = 10.0
)

// deriveWindRotation reads backing/veering off the observed direction delta.
// The "likely" qualifier is only claimed while a low is plausibly in range;
// otherwise the rotation is reported as observed, with no predictive claim.
func deriveWindRotation(distance DistanceClass, windDirDelta float64) string {
	if IsMissing(windDirDelta) {
		return "Uncertain"
	}
	mag := math.Abs(windDirDelta)
	if mag < rotationSlightDeg {
		return "No significant change"
	}

	var base string
	if windDirDelta > 0 {
		base = "Veering"
	} else {
		base = "Backing"
	}
	if mag < rotationClearDeg {
		base = "Slight " + strings.ToLower(base)
	}

	if nearish(distance) {
		return base + " likely"
	}
	return base + " (observed)"
}

// Pressure-slope thresholds (hPa/hr) for the relative-position read.
const (
	slopeFallingSig = -0.05
	slopeRisingSig  = 0.05
	slopeFlatMax    = 0.03
)

// deriveRelativePosition places the station relative to the low from the
// pressure-slope sign. Slopes between the flat band and the significant
// thresholds are treated as unreadable rather than forced into a class.
func deriveRelativePosition(pslope float64, distance DistanceClass) (string, Movement, ImpactWindowStatus) {
	if IsMissing(pslope) {
		return "Unknown", MovementUnknown, ImpactUnknown
	}
	switch {
	case pslope <= slopeFallingSig:
		return "Ahead of the low", MovementApproaching, ImpactFuture
	case pslope >= slopeRisingSig:
		return "Behind the low", MovementMovingAway, ImpactPassed
	case math.Abs(pslope) <= slopeFlatMax:
		if nearish(distance) {
			return "Under or alongside the low", MovementPassing, ImpactNow
		}
		return "Unknown", MovementUnknown, ImpactUnknown
	default:
		return "Unknown", MovementUnknown, ImpactUnknown
	}
}

func deriveFrontalZone(distance DistanceClass, pslope float64, windTrend string) bool {
	switch distance {
	case DistanceNear, DistanceVeryNear, DistanceImminent:
	default:
		return false
	}
	if IsMissing(pslope) || pslope > -0.5 {
		return false
	}
	return strings.Contains(windTrend, "Increasing")
}

func deriveAnchoringRisk(distance DistanceClass, windTrend string) AnchoringRisk {
	switch distance {
	case DistanceVeryNear, DistanceImminent:
		return AnchorUnsafe
	case DistanceNear:
		if strings.Contains(windTrend, "Increasing") {
			return AnchorUnsafe
		}
		return AnchorCaution
	case DistanceApproaching:
		if strings.Contains(windTrend, "Increasing") || strings.Contains(windTrend, "Stable") {
			return AnchorCaution
		}
		return AnchorSafe
	}
	return AnchorSafe
}

// buildLowSummary renders the compact one-line explanation shown on
// dashboards. It degrades to literal "unknown" phrasing instead of omitting
// sections, so the card layout stays stable.
func buildLowSummary(low LowEstimate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Low to %s (%.0f°), ", low.BearingCompass, low.BearingDeg)
	if low.DistanceClass != DistanceUnknown {
		fmt.Fprintf(&b, "%s (%s). ", strings.ToLower(string(low.DistanceClass)), low.DistanceKm)
	} else {
		b.WriteString("unknown distance. ")
	}

	fmt.Fprintf(&b, "Outlook: %s. ", low.WeatherTrend)
	fmt.Fprintf(&b, "Impact window: %s (%s). ", low.TimeToImpactRange, confidenceText(low.Confidence))

	if IsMissing(low.WindDeltaKn) {
		b.WriteString("Wind trend unknown.")
	} else {
		sign := ""
		if low.WindDeltaKn >= 0 {
			sign = "+"
		}
		fmt.Fprintf(&b, "Wind %s (Δ %s%.1f kn).", strings.ToLower(low.WindTrend), sign, low.WindDeltaKn)
	}
	if low.WindTrendNote != "" {
		fmt.Fprintf(&b, " Wind %s.", low.WindTrendNote)
	}

	if low.WindRotation != "" && low.WindRotation != "Uncertain" {
		fmt.Fprintf(&b, " Rotation: %s.", low.WindRotation)
	} else if low.WindRotation != "" {
		b.WriteString(" Rotation: uncertain.")
	}

	if low.FrontalZone {
		b.WriteString(" Frontal zone likely.")
	}
	if low.AnchoringRisk != "" {
		fmt.Fprintf(&b, " Anchor: %s.", low.AnchoringRisk)
	}

	return strings.TrimSpace(b.String())
}
