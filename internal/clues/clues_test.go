package clues_test

import (
	"math"
	"testing"

	"github.com/myrjola/terratracker/internal/clues"
	"github.com/stretchr/testify/require"
)

func TestTimeline_YearAt(t *testing.T) {
	timeline := clues.DefaultTimeline
	tests := []struct {
		slider float64
		want   int
	}{
		{slider: 0, want: 2018},
		{slider: 8, want: 2018},
		{slider: 25, want: 2020}, // 1.5 years in, halves round up
		{slider: 50, want: 2021},
		{slider: 66.6, want: 2022},
		{slider: 100, want: 2024},
		{slider: -10, want: 2018},
		{slider: 250, want: 2024},
		{slider: math.NaN(), want: 2018},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, timeline.YearAt(tt.slider), "slider %v", tt.slider)
	}
}

func TestTimeline_YearAtIsLinearAndMonotonic(t *testing.T) {
	timeline := clues.Timeline{StartYear: 2000, EndYear: 2100}
	previous := timeline.StartYear
	for slider := 0; slider <= 100; slider++ {
		year := timeline.YearAt(float64(slider))
		require.Equal(t, 2000+slider, year)
		require.GreaterOrEqual(t, year, previous)
		previous = year
	}
}

func TestTimeline_SliderAtRoundTrips(t *testing.T) {
	timeline := clues.DefaultTimeline
	for _, year := range timeline.Years() {
		require.Equal(t, year, timeline.YearAt(timeline.SliderAt(year)))
	}
	require.InDelta(t, 0, timeline.SliderAt(1990), 1e-9)
	require.InDelta(t, 100, timeline.SliderAt(2090), 1e-9)
	require.InDelta(t, 0, clues.Timeline{StartYear: 2020, EndYear: 2020}.SliderAt(2020), 1e-9)
}

func TestTimeline_Next(t *testing.T) {
	timeline := clues.DefaultTimeline
	require.Equal(t, 2019, timeline.Next(2018))
	require.Equal(t, 2018, timeline.Next(2024), "wraps after the last year")
	require.Equal(t, 2018, timeline.Next(1999))
	require.Len(t, timeline.Years(), 7)
	require.Nil(t, clues.Timeline{StartYear: 2024, EndYear: 2018}.Years())
}

func TestLookup(t *testing.T) {
	modis, ok := clues.Lookup(clues.KeyMODIS)
	require.True(t, ok)
	require.Equal(t, "CLUE 1: M.O. (MODIS) - LONG-TERM NDVI DECLINE", modis.Header)
	require.True(t, modis.ShowControls)
	require.True(t, modis.HasYear())

	aster, ok := clues.Lookup(clues.KeyASTER)
	require.True(t, ok)
	require.False(t, aster.ShowControls)
	require.False(t, aster.HasYear())

	_, ok = clues.Lookup("landsat")
	require.False(t, ok)
	require.Len(t, clues.All(), 4)
}

func TestLayerFor(t *testing.T) {
	modis, _ := clues.Lookup(clues.KeyMODIS)
	layer, ok := clues.LayerFor(modis, 2019)
	require.True(t, ok)
	require.Equal(t, "2019-01-01", layer.Date)
	require.Equal(t, "https://gibs.earthdata.nasa.gov/wmts/epsg3857/best/MODIS_Terra_CorrectedReflectance_TrueColor/"+
		"default/2019-01-01/GoogleMapsCompatible_Level9/{z}/{y}/{x}.jpg", layer.URLTemplate)

	layer, ok = clues.LayerFor(modis, 0)
	require.True(t, ok)
	require.Equal(t, "2021-01-01", layer.Date, "defaults to the clue's year")

	misr, _ := clues.Lookup(clues.KeyMISR)
	layer, ok = clues.LayerFor(misr, 0)
	require.True(t, ok)
	require.Equal(t, "2021-01-01", layer.Date, "static clues fall back to 2021")

	_, ok = clues.LayerFor(clues.Clue{}, 2020)
	require.False(t, ok)
}
