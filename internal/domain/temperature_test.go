package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempSeries(start time.Time, values ...float64) []Sample {
	out := make([]Sample, len(values))
	for i, v := range values {
		out[i] = Sample{Time: start.Add(time.Duration(i) * 20 * time.Minute), Value: v}
	}
	return out
}

func TestAnalyzeTemperatureLearning(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("no samples", func(t *testing.T) {
		res := AnalyzeTemperature(nil, now, nil)
		assert.Equal(t, "Learning temperature trends", res.Text)
		assert.Equal(t, 1, res.SampleCount)
		assert.Zero(t, res.AlertLevel)
	})

	t.Run("one sample", func(t *testing.T) {
		res := AnalyzeTemperature(tempSeries(now, 14), now, nil)
		assert.Equal(t, "Learning temperature trends", res.Text)
		assert.Equal(t, 1, res.SampleCount)
	})

	t.Run("missing values do not count", func(t *testing.T) {
		res := AnalyzeTemperature(tempSeries(now, Missing(), 14, Missing()), now, nil)
		assert.Equal(t, "Learning temperature trends", res.Text)
	})
}

func TestAnalyzeTemperatureClassification(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		first     float64
		last      float64
		wantText  string
		wantAlert float64
	}{
		{"heatwave surge", 10, 21, "Rapid significant warming; potential heatwave, strong thermal winds", 3},
		{"warm front", 10, 16, "Noticeable temperature rise; warm air front moving in, wind increase", 0},
		{"cold front crash", 15, 4, "Sharp temperature drop; cold front, strong gusty winds and storms", 5},
		{"rapid cooling", 15, 9, "Rapid significant cooling; unstable weather, wind increase", 3},
		{"quiet day", 14, 16, "No temperature alerts", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := AnalyzeTemperature(tempSeries(now.Add(-time.Hour), tc.first, 0.5*(tc.first+tc.last), tc.last), now, nil)
			assert.Equal(t, tc.wantText, res.Text)
			assert.Equal(t, tc.wantAlert, res.AlertLevel)
			assert.InDelta(t, tc.last-tc.first, res.ChangeC, 1e-9)
			assert.Equal(t, 3, res.SampleCount)
		})
	}
}

func TestAnalyzeTemperatureSunWindows(t *testing.T) {
	now := time.Date(2025, 6, 20, 21, 30, 0, 0, time.UTC)
	sun := &SunWindows{
		Sunrise: time.Date(2025, 6, 20, 4, 0, 0, 0, time.UTC),
		Sunset:  time.Date(2025, 6, 20, 21, 0, 0, 0, time.UTC),
	}

	t.Run("sunset halves a drop", func(t *testing.T) {
		// A -6°C drop becomes -3°C near sunset, below the cooling threshold.
		res := AnalyzeTemperature(tempSeries(now.Add(-time.Hour), 18, 15, 12), now, sun)
		require.InDelta(t, -3.0, res.ChangeC, 1e-9)
		assert.Equal(t, "No temperature alerts", res.Text)
	})

	t.Run("sunset does not touch a rise", func(t *testing.T) {
		res := AnalyzeTemperature(tempSeries(now.Add(-time.Hour), 12, 15, 18), now, sun)
		assert.InDelta(t, 6.0, res.ChangeC, 1e-9)
		assert.Equal(t, "Noticeable temperature rise; warm air front moving in, wind increase", res.Text)
	})

	t.Run("sunrise halves a rise", func(t *testing.T) {
		morning := time.Date(2025, 6, 20, 6, 0, 0, 0, time.UTC)
		res := AnalyzeTemperature(tempSeries(morning.Add(-time.Hour), 12, 15, 18), morning, sun)
		assert.InDelta(t, 3.0, res.ChangeC, 1e-9)
		assert.Equal(t, "No temperature alerts", res.Text)
	})

	t.Run("outside the windows nothing is halved", func(t *testing.T) {
		noon := time.Date(2025, 6, 20, 13, 0, 0, 0, time.UTC)
		res := AnalyzeTemperature(tempSeries(noon.Add(-time.Hour), 18, 15, 12), noon, sun)
		assert.InDelta(t, -6.0, res.ChangeC, 1e-9)
		assert.Equal(t, "Rapid significant cooling; unstable weather, wind increase", res.Text)
	})

	t.Run("nil sun means no adjustment", func(t *testing.T) {
		res := AnalyzeTemperature(tempSeries(now.Add(-time.Hour), 18, 15, 12), now, nil)
		assert.InDelta(t, -6.0, res.ChangeC, 1e-9)
	})
}
