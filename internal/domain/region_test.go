package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineRegion(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     Region
	}{
		{"solent", 50.7, -1.3, "british_isles"},
		{"biscay", 45.0, -4.0, "western_europe_coast"},
		{"kattegat", 57.0, 11.0, "north_sea_baltic"},
		{"gulf of lion", 42.5, 4.0, "mediterranean_northwest"},
		{"alboran sea", 36.0, -3.0, "mediterranean_southwest"},
		{"adriatic", 43.0, 16.0, "mediterranean_northeast"},
		{"eastern med", 34.0, 28.0, "mediterranean_southeast"},
		{"windward islands", 13.0, -61.0, "caribbean"},
		{"hatteras", 35.0, -75.0, "american_east_coast"},
		{"open atlantic", 45.0, -35.0, "north_atlantic"},
		{"pacific is unknown", 20.0, -150.0, RegionUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			region, _, _ := DetermineRegion(tc.lat, tc.lon)
			assert.Equal(t, tc.want, region)
		})
	}

	t.Run("small boxes win over the enclosing atlantic", func(t *testing.T) {
		// Dublin sits inside both british_isles and north_atlantic.
		region, name, url := DetermineRegion(53.3, -6.3)
		assert.Equal(t, Region("british_isles"), region)
		assert.Equal(t, "British isles", name)
		assert.NotEmpty(t, url)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		region, name, url := DetermineRegion(Missing(), -6.3)
		assert.Equal(t, RegionUnknown, region)
		assert.Equal(t, "unknown", name)
		assert.Equal(t, "none", url)
	})
}

func TestNormalPressure(t *testing.T) {
	t.Run("unknown region uses the default", func(t *testing.T) {
		assert.Equal(t, 1015.0, NormalPressure(RegionUnknown, time.June))
	})

	t.Run("known regions vary by month", func(t *testing.T) {
		winter := NormalPressure("british_isles", time.December)
		summer := NormalPressure("british_isles", time.June)
		assert.Less(t, winter, summer)
	})

	t.Run("every region yields a plausible value each month", func(t *testing.T) {
		for _, box := range regionBoxes {
			for m := time.January; m <= time.December; m++ {
				p := NormalPressure(box.name, m)
				assert.InDelta(t, 1013, p, 12, "%s %s", box.name, m)
			}
		}
	})
}

func TestLookupWindSystems(t *testing.T) {
	t.Run("calm air reports no system", func(t *testing.T) {
		info := LookupWindSystems("mediterranean_northwest", localWindsEurope, 43, 5, "NW", 3)
		assert.True(t, strings.HasPrefix(info.Description, "No wind, so "))
		assert.Equal(t, localWindsEurope, info.SourceURL)
	})

	t.Run("missing wind speed counts as calm", func(t *testing.T) {
		info := LookupWindSystems("british_isles", localWindsEurope, 50.7, -1.3, "SW", Missing())
		assert.Contains(t, info.Description, "No wind, so ")
	})

	t.Run("mistral in the gulf of lion", func(t *testing.T) {
		info := LookupWindSystems("mediterranean_northwest", localWindsEurope, 43, 5, "NW", 25)
		require.Contains(t, info.Description, "Mistral:")
		assert.Contains(t, info.SourceURL, "wikipedia.org/wiki/Mistral")
		assert.Contains(t, info.SourceURL, localWindsEurope)
	})

	t.Run("multiple candidates join on newlines", func(t *testing.T) {
		info := LookupWindSystems("mediterranean_northwest", localWindsEurope, 43, 4, "N", 20)
		assert.Contains(t, info.Description, "Tramontane:")
		assert.Contains(t, info.Description, "Mistral:")
		assert.Contains(t, info.Description, "\n")
	})

	t.Run("direction with no index entry falls back", func(t *testing.T) {
		info := LookupWindSystems("caribbean", "url", 15, -70, "N-NW", 15)
		// N-NW has only El Norte; a direction absent from the index reports
		// the region default instead.
		infoMissing := LookupWindSystems("caribbean", "url", 15, -70, "E-NE", 15)
		assert.NotContains(t, info.Description, "No systems")
		assert.True(t, strings.HasPrefix(infoMissing.Description, "No systems in region, so "))
	})

	t.Run("bounding box filters candidates outside it", func(t *testing.T) {
		// Tehuantepecer is indexed for caribbean N but bounded to lon -98..-90;
		// a station in the eastern Caribbean only sees El Norte.
		info := LookupWindSystems("caribbean", "url", 15, -62, "N", 20)
		assert.Contains(t, info.Description, "El Norte:")
		assert.NotContains(t, info.Description, "Tehuantepecer")
	})

	t.Run("unknown region has a generic default", func(t *testing.T) {
		info := LookupWindSystems(RegionUnknown, "none", 20, -150, "W", 2)
		assert.Equal(t, "No wind, so no wind description available.", info.Description)
	})
}
