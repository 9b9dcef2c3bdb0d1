package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// SensorKind identifies one of the station's sensor channels.
type SensorKind string

const (
	SensorPressure      SensorKind = "pressure"
	SensorTemperature   SensorKind = "temperature"
	SensorHumidity      SensorKind = "humidity"
	SensorWindSpeed     SensorKind = "wind_speed"
	SensorWindDirection SensorKind = "wind_direction"
	SensorLatitude      SensorKind = "latitude"
	SensorLongitude     SensorKind = "longitude"
)

// KnownSensor reports whether kind is one of the channels the engine consumes.
func KnownSensor(kind SensorKind) bool {
	switch kind {
	case SensorPressure, SensorTemperature, SensorHumidity,
		SensorWindSpeed, SensorWindDirection, SensorLatitude, SensorLongitude:
		return true
	}
	return false
}

// Sample is one time-stamped sensor observation. Samples are immutable
// snapshots: created once by the history layer, read by the estimators,
// never mutated.
type Sample struct {
	Time  time.Time `json:"t"`
	Value float64   `json:"v"`
}

// Missing is the sentinel for an absent or unparseable numeric input.
// Estimators check it with IsMissing and degrade instead of erroring.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v carries the missing-value sentinel.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// SafeFloat tolerantly converts an arbitrary decoded value to a float64.
// Strings are trimmed; empty strings and the host sentinels "unknown" and
// "unavailable" count as missing. Anything unconvertible yields the missing
// sentinel, never an error.
func SafeFloat(v any) float64 {
	switch x := v.(type) {
	case nil:
		return Missing()
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case bool:
		return Missing()
	case string:
		s := strings.TrimSpace(x)
		if s == "" || strings.EqualFold(s, "unknown") || strings.EqualFold(s, "unavailable") {
			return Missing()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Missing()
		}
		return f
	default:
		return Missing()
	}
}

// SafeFloatDefault is SafeFloat with a fallback instead of the missing sentinel.
func SafeFloatDefault(v any, def float64) float64 {
	f := SafeFloat(v)
	if IsMissing(f) {
		return def
	}
	return f
}

// clampDeg normalizes degrees into [0, 360).
func clampDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// circularDelta returns the smallest signed angular change from start to end,
// in [-180, 180). Positive means clockwise rotation (veering in the northern
// hemisphere), negative counter-clockwise (backing).
func circularDelta(startDeg, endDeg float64) float64 {
	d := math.Mod(clampDeg(endDeg)-clampDeg(startDeg)+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}

var compass8 = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Compass8 converts degrees to an 8-point compass label.
func Compass8(deg float64) string {
	if IsMissing(deg) {
		return "Unknown"
	}
	idx := int((clampDeg(deg)+22.5)/45) % 8
	return compass8[idx]
}

// EndpointSlope computes a simple last-minus-first rate per hour over a
// sample window. Returns the missing sentinel with fewer than two samples or
// a zero-length time span.
func EndpointSlope(samples []Sample) float64 {
	if len(samples) < 2 {
		return Missing()
	}
	first, last := samples[0], samples[len(samples)-1]
	hours := last.Time.Sub(first.Time).Hours()
	if hours <= 0 {
		return Missing()
	}
	return (last.Value - first.Value) / hours
}

// WindowSince filters an ordered sample series down to the samples observed
// within d of now (inclusive of now itself).
func WindowSince(samples []Sample, now time.Time, d time.Duration) []Sample {
	cutoff := now.Add(-d)
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.Time.Before(cutoff) || s.Time.After(now) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Values extracts the raw value column of a sample window.
func Values(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
