package domain

import (
	"math"
	"strings"
)

// Compass16 is the 16-point compass rose used for wind direction display.
var Compass16 = []string{
	"N", "N-NE", "NE", "E-NE", "E", "E-SE", "SE", "S-SE",
	"S", "S-SW", "SW", "W-SW", "W", "W-NW", "NW", "N-NW",
}

// DegreesToCompass16 converts wind direction degrees to a 16-point label.
func DegreesToCompass16(deg float64) string {
	if IsMissing(deg) {
		return "Unknown"
	}
	idx := int(math.Round(deg/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return Compass16[idx]
}

// veeringMap and backingMap project a 16-point bearing one step around the
// rose, collapsed to the next cardinal. Veering is clockwise, backing
// counter-clockwise.
var veeringMap = map[string]string{
	"N": "E", "N-NE": "E", "NE": "E", "E-NE": "E",
	"E": "S", "E-SE": "S", "SE": "S", "S-SE": "S",
	"S": "W", "S-SW": "W", "SW": "W", "W-SW": "W",
	"W": "N", "W-NW": "N", "NW": "N", "N-NW": "N",
}

var backingMap = map[string]string{
	"N": "W", "N-NE": "N", "NE": "N", "E-NE": "N",
	"E": "N", "E-SE": "E", "SE": "E", "S-SE": "E",
	"S": "E", "S-SW": "S", "SW": "S", "W-SW": "S",
	"W": "S", "W-NW": "W", "NW": "W", "N-NW": "W",
}

// ProjectWindDirection predicts where the wind will turn from its current
// 16-point bearing given the pressure trend. Falling pressure backs the wind,
// rising pressure veers it (northern-hemisphere convention); the fast buckets
// add a "fast" qualifier. The result is display text like
// "SW backing towards S fast" or "N steady".
func ProjectWindDirection(current string, bucket TrendBucket) string {
	valid := false
	for _, d := range Compass16 {
		if d == current {
			valid = true
			break
		}
	}
	if !valid {
		return "Invalid wind direction"
	}

	change := "steady"
	speed := ""
	switch bucket {
	case TrendPlummeting, TrendFallingFast:
		change = "backing"
		speed = "fast"
	case TrendRisingFast:
		change = "veering"
		speed = "fast"
	case TrendRising:
		change = "veering"
	case TrendFalling:
		change = "backing"
	}

	switch change {
	case "veering":
		return strings.TrimSpace(current + " veering towards " + veeringMap[current] + " " + speed)
	case "backing":
		return strings.TrimSpace(current + " backing towards " + backingMap[current] + " " + speed)
	default:
		return current + " steady"
	}
}

// MostFrequentDirection picks the modal 16-point direction from a wind
// direction sample window. Ties break toward the direction seen first.
// Returns the label and the number of usable samples; zero samples yield an
// explicit error label, not a guess.
func MostFrequentDirection(samples []Sample) (string, int) {
	counts := make(map[string]int)
	var order []string
	n := 0
	for _, s := range samples {
		if IsMissing(s.Value) {
			continue
		}
		label := DegreesToCompass16(s.Value)
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
		n++
	}
	if n == 0 {
		return "Error: Wind direction not available.", 0
	}
	best := order[0]
	for _, label := range order {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best, n
}

// AverageWindSpeed averages the usable values of a wind speed sample window.
// Returns the mean and the number of usable samples; zero samples yield 0.
func AverageWindSpeed(samples []Sample) (float64, int) {
	var sum float64
	n := 0
	for _, s := range samples {
		if IsMissing(s.Value) {
			continue
		}
		sum += s.Value
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}
