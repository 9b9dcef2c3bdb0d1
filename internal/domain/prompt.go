package domain

import (
	"fmt"
	"strings"
	"time"
)

// Briefing history defaults: hourly samples over the last day keep the
// rendered prompt a readable size.
const (
	promptHistoryHours  = 24
	promptSampleMinutes = 60
)

// PromptHistory is the raw sample material for the text briefing.
type PromptHistory struct {
	Pressure      []Sample
	Temperature   []Sample
	WindSpeed     []Sample
	WindDirection []Sample
}

// DownsampleHourly reduces a raw series to one sample per step: for each step
// time, the latest observation at or before it. Steps with no observation yet
// are skipped, not zero-filled.
func DownsampleHourly(samples []Sample, start, end time.Time, step time.Duration) []Sample {
	if len(samples) == 0 || step <= 0 {
		return nil
	}
	var out []Sample
	idx := 0
	lastValue := Missing()
	for t := start; !t.After(end); t = t.Add(step) {
		for idx < len(samples) && !samples[idx].Time.After(t) {
			lastValue = samples[idx].Value
			idx++
		}
		if !IsMissing(lastValue) {
			out = append(out, Sample{Time: t, Value: lastValue})
		}
	}
	return out
}

func formatSeries(b *strings.Builder, series []Sample, unit string, formatter func(float64) string) {
	if len(series) == 0 {
		b.WriteString("- (no data)\n")
		return
	}
	for _, s := range series {
		fmt.Fprintf(b, "- %s: %s%s\n", s.Time.Format(time.RFC3339), formatter(s.Value), unit)
	}
}

func fmtNum(v float64) string { return fmt.Sprintf("%.1f", v) }

func fmtPtr(p *float64) string {
	if p == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%g", *p)
}

// BuildPrompt renders a self-contained text briefing of the current report
// plus a day of hourly history, suitable to hand to a language model (or a
// human) for a narrative forecast.
func BuildPrompt(rep *Report, hist PromptHistory, now time.Time) string {
	start := now.Add(-promptHistoryHours * time.Hour)
	step := promptSampleMinutes * time.Minute

	pressure := DownsampleHourly(hist.Pressure, start, now, step)
	temperature := DownsampleHourly(hist.Temperature, start, now, step)
	windSpeed := DownsampleHourly(hist.WindSpeed, start, now, step)
	windDir := DownsampleHourly(hist.WindDirection, start, now, step)

	var b strings.Builder

	fmt.Fprintf(&b, "## Context\n- Region: %s\n- Generated at: %s\n\n", rep.Region, now.Format("15:04 2006-01-02"))

	b.WriteString("## Current observations\n")
	fmt.Fprintf(&b, "- Pressure (hPa): %s\n", fmtPtr(rep.SensorPressure))
	fmt.Fprintf(&b, "- Pressure trend: %s\n", rep.PressureTrend)
	fmt.Fprintf(&b, "- Pressure change per hour (hPa/h): %s\n", fmtPtr(rep.PressureMovePerHour))
	fmt.Fprintf(&b, "- Wind speed (kn): %.1f\n", rep.WindSpeed)
	fmt.Fprintf(&b, "- Wind direction: %s\n", rep.WindDirection)
	fmt.Fprintf(&b, "- Wind direction change: %s\n", rep.WindDirectionChange)
	fmt.Fprintf(&b, "- Temperature (°C): %s\n", fmtPtr(rep.SensorTemperature))
	fmt.Fprintf(&b, "- Humidity (%%): %s\n", fmtPtr(rep.SensorHumidity))
	fmt.Fprintf(&b, "- Dew point: %s\n\n", fmtPtr(rep.Dewpoint))

	b.WriteString("## Fog indicators\n")
	fmt.Fprintf(&b, "- Fog chance: %s (%d%%)\n", rep.FogChance, rep.FogChancePct)
	fmt.Fprintf(&b, "- Temp difference for fog: %s\n\n", fmtPtr(rep.TempDiffFog))

	b.WriteString("## Low-pressure estimator\n")
	fmt.Fprintf(&b, "- Low direction: %s (deg: %g)\n", rep.LowDirection, rep.LowDirectionDeg)
	fmt.Fprintf(&b, "- Low distance class: %s\n", rep.LowDistanceClass)
	fmt.Fprintf(&b, "- Low distance km range: %s\n", rep.LowDistanceKmRange)
	fmt.Fprintf(&b, "- Low wind trend class: %s\n", rep.LowWindTrendClass)
	fmt.Fprintf(&b, "- Low wind delta (kn): %s\n", fmtPtr(rep.LowWindTrendDeltaKn))
	fmt.Fprintf(&b, "- Low wind direction delta (deg): %s\n", fmtPtr(rep.LowWindDirDeltaDeg))
	fmt.Fprintf(&b, "- Low weather trend: %s\n", rep.LowWeatherTrend)
	fmt.Fprintf(&b, "- Time to impact: %s (range: %s)\n", rep.LowTimeToImpact, rep.LowTimeToImpactRng)
	fmt.Fprintf(&b, "- Wind rotation: %s\n", rep.LowWindRotation)
	fmt.Fprintf(&b, "- Frontal zone: %t\n\n", rep.LowFrontalZone)

	b.WriteString("## 24h history (hourly samples)\n### Pressure (hPa)\n")
	formatSeries(&b, pressure, " hPa", fmtNum)
	b.WriteString("### Temperature (°C)\n")
	formatSeries(&b, temperature, " °C", fmtNum)
	b.WriteString("### Wind speed (kn)\n")
	formatSeries(&b, windSpeed, " kn", fmtNum)
	b.WriteString("### Wind direction\n")
	formatSeries(&b, windDir, "", func(v float64) string { return DegreesToCompass16(v) })

	b.WriteString("\nNow produce the forecast.\n")
	return b.String()
}
