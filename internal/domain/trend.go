package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// TrendBucket is one of the six qualitative pressure-change classes, plus the
// TrendLearning sentinel returned when history is too short to fit.
type TrendBucket string

const (
	TrendRisingFast  TrendBucket = "rising_fast"
	TrendRising      TrendBucket = "rising"
	TrendSteady      TrendBucket = "steady"
	TrendFalling     TrendBucket = "falling"
	TrendFallingFast TrendBucket = "falling_fast"
	TrendPlummeting  TrendBucket = "plummeting"

	// TrendLearning means fewer than two usable points after resampling.
	// Callers must treat it as "insufficient data", not as a numeric trend.
	TrendLearning TrendBucket = "learning"
)

// Display renders the bucket token for human-facing text, e.g. "Falling Fast".
func (b TrendBucket) Display() string {
	parts := strings.Split(string(b), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// FitMethod records which model produced the trend rate.
type FitMethod string

const (
	FitLinear FitMethod = "straight-line"
	FitUCurve FitMethod = "u-curve"
)

// Trend classification breakpoints in hPa/hr. A rate exactly on a boundary
// belongs to the bucket below it (rate == -0.5 is falling, not steady).
const (
	trendRisingFastMin  = 2.0
	trendRisingMin      = 0.5
	trendSteadyMin      = -0.5
	trendFallingMin     = -2.0
	trendFallingFastMin = -4.0
)

// maxMeanResidual is the mean absolute residual (in the series' native
// units) above which the linear fit is rejected in favour of the U-curve
// model. Raise it if the U-curve triggers too often, lower it if the fit
// sticks to straight lines through obvious dips.
const maxMeanResidual = 1.5

// gridInterval is the fixed resampling grid for trend fitting.
const gridInterval = 15 * time.Minute

// TrendResult is the outcome of one trend fit. Computed fresh every update
// cycle from a sliding window; never persisted.
type TrendResult struct {
	Learning     bool
	RatePerHour  float64
	Bucket       TrendBucket
	Method       FitMethod
	MeanResidual float64
	SampleCount  int

	// Analysis is the one-line display form, e.g. "Falling pressure, -1.2/hr".
	Analysis string
}

// FitTrend fits a scalar time series to a rate of change per hour and
// classifies it into a trend bucket.
//
// The series is resampled onto a fixed 15-minute grid (one sample per slot,
// the first observed in each slot, capped at windowHours*4 slots). A straight
// line is fitted by ordinary least squares; if its mean absolute residual
// exceeds the threshold, the U-curve fallback compares the rate from the
// series minimum and from the series maximum to the latest value and keeps
// whichever has the larger magnitude — this captures a dip-and-recovery a
// straight line would average away. Note the two models can report visibly
// different rates for near-threshold residuals; that discontinuity is part of
// the method.
//
// With fewer than two usable points the Learning sentinel is returned.
func FitTrend(series []Sample, windowHours float64) TrendResult {
	values, _ := resample(series, windowHours)
	if len(values) < 2 {
		return TrendResult{
			Learning:    true,
			RatePerHour: Missing(),
			Bucket:      TrendLearning,
			SampleCount: len(values),
			Analysis:    "Learning pressure trends",
		}
	}

	slope, intercept := leastSquares(values)
	residual := meanAbsResidual(values, slope, intercept)

	var rate float64
	method := FitLinear
	if residual > maxMeanResidual {
		method = FitUCurve
		rate = uCurveRate(values)
	} else {
		// Convert per-second OLS slope to per-hour.
		rate = slope * 3600
	}

	bucket := classifyRate(rate)
	return TrendResult{
		RatePerHour:  rate,
		Bucket:       bucket,
		Method:       method,
		MeanResidual: residual,
		SampleCount:  len(values),
		Analysis:     trendAnalysis(bucket, rate),
	}
}

// gridded is one resampled point: seconds relative to the first slot, value.
type gridded struct {
	x float64
	y float64
}

// resample selects at most one sample per 15-minute grid slot (the first
// observed in each new slot), in time order, dropping unusable values,
// capped at windowHours*4 slots. Returns the points and the slot times.
func resample(series []Sample, windowHours float64) ([]gridded, []time.Time) {
	maxSlots := int(windowHours * 4)
	if maxSlots < 2 {
		maxSlots = 2
	}

	ordered := make([]Sample, 0, len(series))
	for _, s := range series {
		if IsMissing(s.Value) || s.Time.IsZero() {
			continue
		}
		ordered = append(ordered, s)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Time.Before(ordered[j].Time) })

	var (
		points   []gridded
		slots    []time.Time
		lastSlot time.Time
		origin   time.Time
	)
	for _, s := range ordered {
		slot := s.Time.Truncate(gridInterval)
		if !lastSlot.IsZero() && !slot.After(lastSlot) {
			continue
		}
		if origin.IsZero() {
			origin = slot
		}
		points = append(points, gridded{x: slot.Sub(origin).Seconds(), y: s.Value})
		slots = append(slots, slot)
		lastSlot = slot
		if len(points) >= maxSlots {
			break
		}
	}
	return points, slots
}

// leastSquares fits y = slope*x + intercept through the points.
func leastSquares(points []gridded) (slope, intercept float64) {
	n := float64(len(points))
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.x
		sumY += p.y
	}
	meanX, meanY := sumX/n, sumY/n

	var num, den float64
	for _, p := range points {
		num += (p.x - meanX) * (p.y - meanY)
		den += (p.x - meanX) * (p.x - meanX)
	}
	if den == 0 {
		return 0, meanY
	}
	return num / den, meanY - (num/den)*meanX
}

func meanAbsResidual(points []gridded, slope, intercept float64) float64 {
	var sum float64
	for _, p := range points {
		sum += math.Abs(p.y - (slope*p.x + intercept))
	}
	return sum / float64(len(points))
}

// uCurveRate computes the fallback rate: the last value compared against the
// series minimum and maximum, each over the time since that extreme (on the
// 15-minute grid), keeping the candidate with the larger magnitude.
func uCurveRate(points []gridded) float64 {
	minIdx, maxIdx := 0, 0
	for i, p := range points {
		if p.y < points[minIdx].y {
			minIdx = i
		}
		if p.y > points[maxIdx].y {
			maxIdx = i
		}
	}
	last := points[len(points)-1].y
	slotHours := gridInterval.Hours()

	hoursSinceMin := float64(len(points)-minIdx) * slotHours
	hoursSinceMax := float64(len(points)-maxIdx) * slotHours

	var toMin, toMax float64
	if hoursSinceMin > 0 {
		toMin = (last - points[minIdx].y) / hoursSinceMin
	}
	if hoursSinceMax > 0 {
		toMax = (last - points[maxIdx].y) / hoursSinceMax
	}
	if math.Abs(toMin) > math.Abs(toMax) {
		return toMin
	}
	return toMax
}

func classifyRate(rate float64) TrendBucket {
	switch {
	case rate >= trendRisingFastMin:
		return TrendRisingFast
	case rate >= trendRisingMin:
		return TrendRising
	case rate > trendSteadyMin:
		return TrendSteady
	case rate > trendFallingMin:
		return TrendFalling
	case rate > trendFallingFastMin:
		return TrendFallingFast
	default:
		return TrendPlummeting
	}
}

// trendAnalysis formats the one-line pressure analysis, e.g.
// "Steady pressure, ±0.0/hr" or "Falling pressure, -1.2/hr".
func trendAnalysis(bucket TrendBucket, rate float64) string {
	sign := "±"
	if roundTo(rate, 1) > 0 {
		sign = "+"
	} else if roundTo(rate, 2) < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s pressure, %s%.1f/hr", bucket.Display(), sign, math.Abs(roundTo(rate, 1)))
}
