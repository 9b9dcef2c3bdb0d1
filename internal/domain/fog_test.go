package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateFogRejectsBadSensors(t *testing.T) {
	t.Run("zero humidity means dead sensor", func(t *testing.T) {
		res := EstimateFog(0, 15, 5, "normal")
		assert.Equal(t, "No valid sensor data.", res.Likelihood)
		assert.Equal(t, 0, res.Probability)
		assert.Equal(t, 0.0, res.AlertLevel)
	})

	t.Run("missing temperature means dead sensor", func(t *testing.T) {
		res := EstimateFog(80, Missing(), 5, "normal")
		assert.Equal(t, "No valid sensor data.", res.Likelihood)
		assert.Equal(t, 0, res.Probability)
	})

	t.Run("dry air short-circuits regardless of other inputs", func(t *testing.T) {
		res := EstimateFog(15, -5, 0, "frequent_dense_fog")
		assert.Equal(t, "No chance of fog. Air is too dry.", res.Likelihood)
		assert.Equal(t, 0, res.Probability)
	})
}

func TestEstimateFogProneArea(t *testing.T) {
	// Humidity 90 at 15°C gives a dew point near 13.3°C, a spread of about
	// 1.7°C, a base probability near 86, boosted past 100 by the fog-prone
	// area and clamped.
	res := EstimateFog(90, 15, 2, "fog_prone")
	require.Equal(t, 100, res.Probability)
	assert.Equal(t, 100, res.DecadePct)
	assert.InDelta(t, 13.3, res.DewpointC, 0.2)
	assert.InDelta(t, 1.7, res.TempDiffC, 0.2)
	assert.Contains(t, res.Likelihood, "Fog is very likely")
	assert.Contains(t, res.Likelihood, "It may persist")
	assert.Equal(t, 3.0, res.AlertLevel)
}

func TestEstimateFogWindClause(t *testing.T) {
	t.Run("strong wind clears a near-certain fog", func(t *testing.T) {
		// High humidity but wind over 15 kn: the probability collapses via
		// the wind multiplier, so no clause and no alert.
		res := EstimateFog(98, 10, 18, "frequent_dense_fog")
		assert.LessOrEqual(t, res.Probability, 90)
		assert.Equal(t, 0.0, res.AlertLevel)
	})

	t.Run("calm saturated air persists", func(t *testing.T) {
		res := EstimateFog(100, 10, 0, "normal")
		require.Greater(t, res.Probability, 90)
		assert.Equal(t, "Fog is very likely. It may persist", res.Likelihood)
		assert.Equal(t, 3.0, res.AlertLevel)
	})
}

func TestEstimateFogTemperatureScaling(t *testing.T) {
	t.Run("hot air kills fog", func(t *testing.T) {
		res := EstimateFog(95, 36, 0, "normal")
		assert.Equal(t, 0, res.Probability)
		assert.Equal(t, "No fog expected", res.Likelihood)
	})

	t.Run("warm air strongly reduces fog", func(t *testing.T) {
		cool := EstimateFog(90, 15, 0, "normal")
		warm := EstimateFog(90, 28, 0, "normal")
		assert.Less(t, warm.Probability, cool.Probability)
	})
}

func TestEstimateFogBands(t *testing.T) {
	tests := []struct {
		name     string
		humidity float64
		temp     float64
		wind     float64
		area     string
		want     string
	}{
		{"moderate spread is possible", 85, 12, 0, "normal", "Fog is possible"},
		{"wide spread is unlikely", 80, 15, 0, "normal", "Fog is unlikely"},
		{"very wide spread", 75, 20, 0, "normal", "Fog is very unlikely"},
		{"huge spread is no fog", 30, 25, 0, "normal", "No fog expected"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := EstimateFog(tc.humidity, tc.temp, tc.wind, tc.area)
			assert.Contains(t, res.Likelihood, tc.want)
		})
	}
}

func TestEstimateFogProbabilityBounds(t *testing.T) {
	cases := []struct{ h, temp, wind float64 }{
		{100, 0, 0}, {100, 10, 0}, {20, 40, 30}, {50, -10, 0}, {99, 25, 3},
	}
	for _, c := range cases {
		for _, area := range []string{"frequent_dense_fog", "fog_prone", "normal", "rare_fog", "hardly_ever_fog", "bogus"} {
			res := EstimateFog(c.h, c.temp, c.wind, area)
			assert.GreaterOrEqual(t, res.Probability, 0)
			assert.LessOrEqual(t, res.Probability, 100)
			assert.Equal(t, res.Probability/10*10, res.DecadePct)
		}
	}
}

func TestEstimateFogDecadeRoundsDown(t *testing.T) {
	// rare_fog scales an 85-ish base down to the 50s; the decade display
	// must truncate, not round to nearest.
	res := EstimateFog(90, 15, 0, "rare_fog")
	require.Greater(t, res.Probability%10, 0)
	assert.Equal(t, res.Probability-res.Probability%10, res.DecadePct)
}
