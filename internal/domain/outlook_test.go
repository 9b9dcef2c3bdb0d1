package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// outlookSeries builds 12 hours of 15-minute samples ending at now, where the
// value at an instant h hours before now is base + rate*(-h).
func outlookSeries(now time.Time, base, rate float64) []Sample {
	var out []Sample
	for i := 48; i >= 0; i-- {
		h := float64(i) * 0.25
		out = append(out, Sample{Time: now.Add(-time.Duration(h * float64(time.Hour))), Value: base - rate*h})
	}
	return out
}

func TestPressureOutlookPlummet(t *testing.T) {
	now := time.Date(2025, 11, 3, 18, 0, 0, 0, time.UTC)
	series := outlookSeries(now, 998, -1.2)

	res := PressureOutlook(998, series, RegionUnknown, now)
	require.InDelta(t, -1.2, res.Trend3h, 0.05)
	assert.Equal(t, 5, res.WarningLevel)
	assert.Equal(t, "Pressure is plummeting — very likely a storm or squall incoming.", res.Summary)
	assert.Equal(t, "Unusually low — stormy pattern likely", res.Context)
}

func TestPressureOutlookConsistentFall(t *testing.T) {
	now := time.Date(2025, 11, 3, 18, 0, 0, 0, time.UTC)
	series := outlookSeries(now, 1008, -0.7)

	res := PressureOutlook(1008, series, RegionUnknown, now)
	require.InDelta(t, -0.7, res.Trend3h, 0.05)
	require.InDelta(t, -0.7, res.Trend12h, 0.05)
	assert.Equal(t, 4, res.WarningLevel)
	assert.Equal(t, "Consistent strong fall — stormy or worsening weather is very likely.", res.Summary)
}

func TestPressureOutlookConsistentRise(t *testing.T) {
	now := time.Date(2025, 11, 3, 18, 0, 0, 0, time.UTC)
	series := outlookSeries(now, 1022, 0.7)

	res := PressureOutlook(1022, series, RegionUnknown, now)
	assert.Equal(t, 1, res.WarningLevel)
	assert.Equal(t, "Strong and consistent rise — improving and settled weather.", res.Summary)
	assert.Equal(t, "Unusually high — very stable", res.Context)
}

func TestPressureOutlookSteady(t *testing.T) {
	now := time.Date(2025, 11, 3, 18, 0, 0, 0, time.UTC)

	t.Run("steady near normal", func(t *testing.T) {
		res := PressureOutlook(1015, outlookSeries(now, 1015, 0), RegionUnknown, now)
		assert.Equal(t, 1, res.WarningLevel)
		assert.Equal(t, "Pressure is steady across all windows — stable conditions.", res.Summary)
		assert.Equal(t, "Near seasonal average — normal variability", res.Context)
	})

	t.Run("steady but unusually low raises the level", func(t *testing.T) {
		res := PressureOutlook(1008, outlookSeries(now, 1008, 0), RegionUnknown, now)
		assert.Equal(t, 2, res.WarningLevel)
		assert.Equal(t, "Pressure is steady across all windows — stable conditions.", res.Summary)
	})

	t.Run("empty history reads as steady", func(t *testing.T) {
		res := PressureOutlook(1015, nil, RegionUnknown, now)
		assert.Zero(t, res.Trend3h)
		assert.Zero(t, res.Trend12h)
		assert.Equal(t, 1, res.WarningLevel)
	})
}

func TestClassifyOutlookTrend(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.5, "↑↑↑ (rising rapidly)"},
		{0.8, "↑↑ (rising fast)"},
		{0.3, "↑ (rising)"},
		{0.0, "→ (steady)"},
		{-0.3, "↓ (falling)"},
		{-0.8, "↓↓ (falling fast)"},
		{-1.5, "⬇⬇⬇ (plummeting)"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, classifyOutlookTrend(tc.rate), "rate %v", tc.rate)
	}
}

func TestPressureOutlookShortForm(t *testing.T) {
	now := time.Date(2025, 11, 3, 18, 0, 0, 0, time.UTC)
	res := PressureOutlook(1008, outlookSeries(now, 1008, -0.7), "british_isles", now)

	assert.LessOrEqual(t, len([]rune(res.Short)), 255)
	assert.Contains(t, res.Short, "1008.0 hPa")
	assert.Contains(t, res.Short, "[Level 4/5]")
	assert.Contains(t, res.Full, "🧭 Current pressure: 1008.0 hPa")
	assert.Contains(t, res.Full, "British Isles Nov normal")
	assert.Contains(t, res.Full, "⚠️ Warning Level: 4/5")
}
