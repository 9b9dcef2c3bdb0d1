package domain

import "math"

// Wind-speed ratchet bands. Each entry raises the alert to its level when the
// estimated max wind exceeds the threshold, but only if the current level sits
// at or below the band's ceiling. The sub-decimal levels (2.1, 3.1, ...) keep
// the integer severity while flagging the wind as the reason.
var windRatchet = []struct {
	minWind float64
	level   float64
	ceiling float64
}{
	{50, 5.1, 5},
	{40, 4.1, 4},
	{30, 3.1, 3},
	{25, 2.2, 2},
	{20, 2.1, 2},
}

// AggregateAlert combines the independent alert signals into one level. The
// combination only ever ratchets up: the starting point is the highest of the
// forecast, fog, and temperature alerts, and each wind band can raise it
// further but never lower it.
func AggregateAlert(forecastAlert, fogAlert, temperatureAlert, estimatedMaxWind float64) float64 {
	level := math.Max(forecastAlert, math.Max(fogAlert, temperatureAlert))
	if IsMissing(estimatedMaxWind) {
		return level
	}
	for _, band := range windRatchet {
		if estimatedMaxWind > band.minWind && level <= band.ceiling && band.level > level {
			return band.level
		}
	}
	return level
}

// alertMessages maps each defined level to its severity phrase by exact
// equality. Levels outside the defined set deliberately map to "" rather than
// the nearest phrase.
var alertMessages = map[float64]string{
	0:   "🟦 Fine day.",
	1:   "🟩 No worries.",
	2:   "🟩 Mild day.",
	2.1: "🟩 Mild day. Wind picking up a bit, possibly up to 25kn.",
	2.2: "🟩 Mild day. Wind picking up, possibly up to 30kn.",
	3:   "🟨 Caution. Unstable conditions, moderate winds, squalls possible.",
	3.1: "🟨 Caution. Wind picking up, possibly up to 40kn, squalls possible.",
	4:   "🟧 Alert! Strong winds, rough seas, storm risk increasing.",
	4.1: "🟧 Alert! Rough seas, storm risk, strong winds possibly up to 50kn.",
	5:   "🟥 Alarm! Heavy storm, gale-force winds, dangerous sailing conditions.",
	5.1: "🟥 Alarm! Heavy storm, gale-force winds possibly more than 50kn.",
}

// AlertDescription returns the severity phrase for a level, or "" for levels
// outside the defined set.
func AlertDescription(level float64) string {
	if IsMissing(level) {
		return ""
	}
	return alertMessages[level]
}
