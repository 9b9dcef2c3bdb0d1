package domain

import "time"

// SunWindows carries the next sunrise/sunset instants for the station, when
// an ephemeris source is available. Nil means no adjustment is applied.
type SunWindows struct {
	Sunrise time.Time
	Sunset  time.Time
}

// TemperatureEffect summarizes the recent temperature movement and its alert
// contribution.
type TemperatureEffect struct {
	Text        string
	ChangeC     float64
	SampleCount int
	AlertLevel  float64
}

// AnalyzeTemperature classifies the temperature change over the sample
// window (oldest vs newest usable reading).
//
// Near sunset a falling temperature is ordinary diurnal cooling, and near
// sunrise a rising one is ordinary warming; within those windows (sunset−1h
// to +3h, sunrise−1h to +5h) the change is halved before classification so
// the daily cycle does not read as a front.
func AnalyzeTemperature(samples []Sample, now time.Time, sun *SunWindows) TemperatureEffect {
	usable := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if !IsMissing(s.Value) {
			usable = append(usable, s)
		}
	}
	if len(usable) < 2 {
		n := len(usable)
		if n == 0 {
			n = 1
		}
		return TemperatureEffect{Text: "Learning temperature trends", SampleCount: n}
	}

	change := usable[len(usable)-1].Value - usable[0].Value

	if sun != nil {
		inSunset := !sun.Sunset.IsZero() &&
			!now.Before(sun.Sunset.Add(-1*time.Hour)) && !now.After(sun.Sunset.Add(3*time.Hour))
		inSunrise := !sun.Sunrise.IsZero() &&
			!now.Before(sun.Sunrise.Add(-1*time.Hour)) && !now.After(sun.Sunrise.Add(5*time.Hour))

		if inSunset && change < 0 {
			change /= 2
		} else if inSunrise && change > 0 {
			change /= 2
		}
	}

	var (
		text  string
		alert float64
	)
	switch {
	case change >= 10:
		text = "Rapid significant warming; potential heatwave, strong thermal winds"
		alert = 3
	case change >= 5:
		text = "Noticeable temperature rise; warm air front moving in, wind increase"
	case change <= -10:
		text = "Sharp temperature drop; cold front, strong gusty winds and storms"
		alert = 5
	case change <= -5:
		text = "Rapid significant cooling; unstable weather, wind increase"
		alert = 3
	default:
		text = "No temperature alerts"
	}

	return TemperatureEffect{
		Text:        text,
		ChangeC:     change,
		SampleCount: len(usable),
		AlertLevel:  alert,
	}
}
