package domain

import (
	"fmt"
	"strings"
	"time"
)

// OutlookResult is the multi-window pressure outlook: the 3/6/12 hour trends
// read together against the regional seasonal normal.
type OutlookResult struct {
	Trend3h      float64
	Trend6h      float64
	Trend12h     float64
	Anomaly      float64
	Context      string
	Summary      string
	WarningLevel int
	Short        string // one-line form, capped at 255 runes
	Full         string // multi-line dashboard form
}

// classifyOutlookTrend renders an arrow label for an hourly pressure rate.
func classifyOutlookTrend(rate float64) string {
	switch {
	case rate > 1.0:
		return "↑↑↑ (rising rapidly)"
	case rate > 0.5:
		return "↑↑ (rising fast)"
	case rate > 0.1:
		return "↑ (rising)"
	case rate > -0.1:
		return "→ (steady)"
	case rate > -0.5:
		return "↓ (falling)"
	case rate > -1.0:
		return "↓↓ (falling fast)"
	default:
		return "⬇⬇⬇ (plummeting)"
	}
}

// PressureOutlook combines the 3, 6, and 12 hour pressure tendencies with the
// regional monthly normal into a situational summary and a 1-5 warning level.
//
// The three windows are fitted independently; reading them together separates
// a brief dip inside a rising pattern from a consistent fall, which a single
// window cannot do. Windows with too little history contribute a zero rate.
func PressureOutlook(currentPressure float64, series []Sample, region Region, now time.Time) OutlookResult {
	trendAt := func(hours float64) float64 {
		window := WindowSince(series, now, time.Duration(hours*float64(time.Hour)))
		res := FitTrend(window, hours)
		if res.Learning {
			return 0
		}
		return res.RatePerHour
	}
	t3 := trendAt(3)
	t6 := trendAt(6)
	t12 := trendAt(12)

	normal := NormalPressure(region, now.Month())
	anomaly := currentPressure - normal

	var context string
	switch {
	case anomaly > 5:
		context = "Unusually high — very stable"
	case anomaly > 2:
		context = "Slightly above average — settled"
	case anomaly > -2:
		context = "Near seasonal average — normal variability"
	case anomaly > -5:
		context = "Below average — increasing instability"
	default:
		context = "Unusually low — stormy pattern likely"
	}

	var (
		summary string
		warning int
	)
	switch {
	case t3 < -1.0:
		summary = "Pressure is plummeting — very likely a storm or squall incoming."
		warning = 5
	case t3 < -0.5 && t6 < -0.5 && t12 < -0.5:
		summary = "Consistent strong fall — stormy or worsening weather is very likely."
		warning = 4
	case t3 > 0.5 && t6 > 0.5 && t12 > 0.5:
		summary = "Strong and consistent rise — improving and settled weather."
		warning = 1
	case t3 < 0 && t6 > 0 && t12 > 0:
		summary = "Short-term drop in a rising trend — weather likely stabilizing after a dip."
		warning = 2
	case t3 > 0 && t6 < 0 && t12 < 0:
		summary = "Short-term rise in a falling pattern — possible temporary improvement."
		warning = 3
	case -0.1 < t3 && t3 < 0.1 && -0.1 < t6 && t6 < 0.1 && -0.1 < t12 && t12 < 0.1:
		summary = "Pressure is steady across all windows — stable conditions."
		warning = 1
		if anomaly < -2 {
			warning = 2
		}
	default:
		summary = "Mixed pressure trends — potential instability or transition."
		warning = 2
		if anomaly < -2 {
			warning = 3
		}
	}

	l3 := classifyOutlookTrend(t3)
	l6 := classifyOutlookTrend(t6)
	l12 := classifyOutlookTrend(t12)

	short := fmt.Sprintf("%.1f hPa (%+.1f vs norm) — %s/%s/%s — %s [Level %d/5]",
		currentPressure, anomaly, l3, l6, l12, summary, warning)
	if runes := []rune(short); len(runes) > 255 {
		short = string(runes[:255])
	}

	monthName := now.Month().String()[:3]
	words := strings.Split(strings.ReplaceAll(string(region), "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	regionTitle := strings.Join(words, " ")
	full := fmt.Sprintf(
		"🧭 Current pressure: %.1f hPa\n"+
			"📊 Pressure vs %s %s normal (%.0f hPa): %+.1f hPa\n"+
			"🌀 Pressure context: %s\n\n"+
			"📉 3h trend: %s (%+.2f hPa/hr)\n"+
			"📉 6h trend: %s (%+.2f hPa/hr)\n"+
			"📉 12h trend: %s (%+.2f hPa/hr)\n\n"+
			"🗺️ Forecast: %s\n"+
			"⚠️ Warning Level: %d/5",
		currentPressure,
		regionTitle, monthName, normal, anomaly,
		context,
		l3, t3, l6, t6, l12, t12,
		summary, warning,
	)

	return OutlookResult{
		Trend3h:      t3,
		Trend6h:      t6,
		Trend12h:     t12,
		Anomaly:      anomaly,
		Context:      context,
		Summary:      summary,
		WarningLevel: warning,
		Short:        short,
		Full:         full,
	}
}
