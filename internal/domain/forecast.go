package domain

import "math"

// Material-design icon names for the forecast cells, ordered fair to foul.
const (
	IconSunny          = "mdi:weather-sunny"
	IconPartlyCloudy   = "mdi:weather-partly-cloudy"
	IconPartlyRainy    = "mdi:weather-partly-rainy"
	IconCloudy         = "mdi:weather-cloudy"
	IconRainy          = "mdi:weather-rainy"
	IconPouring        = "mdi:weather-pouring"
	IconLightningRainy = "mdi:weather-lightning-rainy"
	IconWindy          = "mdi:weather-windy"
	IconHurricane      = "mdi:weather-hurricane-outline"
)

// ForecastResult is the synthesized forecast for one update cycle.
type ForecastResult struct {
	Text             string
	Icon             string
	AlertLevel       float64
	EstimatedWindKn  float64
	EstimatedMaxWind float64
}

// Synthesize maps the current pressure, its trend bucket, wind, and
// temperature onto a forecast sentence, icon, baseline alert level, and wind
// estimate.
//
// Pressure is judged against the regional normal for the month: each trend
// bucket splits into bands at normal±5 (the two fastest-falling buckets use
// normal−10 and normal−15, since any reading there is already below normal).
// Warm air (>25°C) feeds storms and raises the cell's alert by one; cold air
// (<5°C) steadies things and would lower it, but never below the cell's
// stated floor. Wind estimates are floor-clamped offsets from the current
// speed; the max estimate adds a 20% gust margin.
func Synthesize(pressure float64, bucket TrendBucket, windSpeed, temperature, normalPressure float64) ForecastResult {
	wind := windSpeed
	if IsMissing(wind) {
		wind = 0
	}

	tempModifier := 0.0
	if !IsMissing(temperature) {
		if temperature > 25 {
			tempModifier = 1
		} else if temperature < 5 {
			tempModifier = -1
		}
	}
	cold := !IsMissing(temperature) && temperature < 0

	var (
		text  string
		icon  = IconCloudy
		base  float64
		estKn = wind
	)

	switch bucket {
	case TrendRisingFast:
		switch {
		case pressure > normalPressure+5:
			text = "Rapidly clearing, fine weather ahead"
			icon = IconSunny
			base = 0
			estKn = math.Max(5, wind-3)
		case pressure > normalPressure-5:
			text = "Improving quickly, brighter spells"
			icon = IconPartlyCloudy
			base = 0
			estKn = math.Max(8, wind)
		default:
			text = "Rapid rise after a low, gusty winds while clearing"
			icon = IconWindy
			base = 1
			estKn = math.Max(12, wind+3)
		}

	case TrendRising:
		switch {
		case pressure > normalPressure+5:
			text = "Clear(ish) skies, little to no rain, mild temperatures"
			icon = IconSunny
			base = 0
			estKn = math.Max(5, wind-3)
		case pressure > normalPressure-5:
			text = "Stable, calm, and pleasant weather, possible light clouds"
			icon = IconPartlyCloudy
			base = 0
			estKn = math.Max(5, wind-2)
		default:
			text = "Improving conditions, clearing skies"
			icon = IconPartlyRainy
			base = 0
			estKn = math.Max(10, wind)
		}

	case TrendSteady:
		switch {
		case pressure > normalPressure+5:
			text = "Continued fair, calm and predictable weather"
			icon = IconSunny
			base = 0
			estKn = math.Max(5, wind)
		case pressure > normalPressure-5:
			text = "Fair weather with occasional clouds"
			icon = IconPartlyCloudy
			base = 0
			estKn = math.Max(8, wind)
		default:
			text = "Changeable weather, gusty winds, possible rain later"
			icon = IconCloudy
			base = 1
			estKn = math.Max(12, wind+3)
		}

	case TrendFalling:
		switch {
		case pressure > normalPressure+5:
			text = "Possible deterioration, watch for winds"
			icon = IconPartlyRainy
			base = 1
			estKn = math.Max(15, wind+5)
		case pressure > normalPressure-5:
			text = "Changeable weather, gusty winds, increasing cloud cover"
			icon = IconRainy
			base = 2
			estKn = math.Max(20, wind+8)
		default:
			text = "Stormy conditions likely, heavy rain expected"
			if cold {
				text += " ❄️ Possible snow instead of rain"
			}
			icon = IconPouring
			base = 3
			estKn = math.Max(25, wind+12)
		}

	case TrendFallingFast:
		switch {
		case pressure > normalPressure-10:
			text = "Windy, rain likely"
			icon = IconRainy
			base = 3
			estKn = math.Max(25, wind+12)
		case pressure > normalPressure-15:
			text = "Strong winds, rain, possible squalls"
			if cold {
				text += " ❄️ Snowstorm possible"
			}
			icon = IconRainy
			base = 4
			estKn = math.Max(30, wind+15)
		default:
			text = "Very low pressure. Dangerous weather, high winds, big waves"
			icon = IconLightningRainy
			base = 5
			estKn = math.Max(40, wind+25)
		}

	case TrendPlummeting:
		switch {
		case pressure > normalPressure-10:
			text = "Strong winds, thunderstorms, possible storm system"
			if cold {
				text += " ❄️ Blizzard conditions possible"
			}
			icon = IconLightningRainy
			base = 4
			estKn = math.Max(30, wind+20)
		case pressure > normalPressure-15:
			text = "Low pressure. Major storm system, possible gale-force winds"
			icon = IconWindy
			base = 5
			estKn = math.Max(40, wind+25)
		default:
			text = "Very low pressure. Severe weather, hurricane/cyclone possible"
			icon = IconHurricane
			base = 5
			estKn = math.Max(50, wind+30)
		}

	default: // learning or unknown
		return ForecastResult{
			Text:             "Learning pressure trends",
			Icon:             IconCloudy,
			AlertLevel:       0,
			EstimatedWindKn:  wind,
			EstimatedMaxWind: math.Round(wind * 1.2),
		}
	}

	// The temperature modifier can only add severity; the cell floor holds.
	alert := math.Max(base, base+tempModifier)

	return ForecastResult{
		Text:             text,
		Icon:             icon,
		AlertLevel:       alert,
		EstimatedWindKn:  estKn,
		EstimatedMaxWind: math.Round(estKn * 1.2),
	}
}
