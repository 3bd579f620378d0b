package clues

import (
	"math"
)

const (
	SliderMin = 0.0
	SliderMax = 100.0
)

// Timeline maps the dashboard slider onto a span of years.
type Timeline struct {
	StartYear int
	EndYear   int
}

// DefaultTimeline spans the years covered by the demo data.
var DefaultTimeline = Timeline{StartYear: 2018, EndYear: 2024} //nolint:mnd // demo data coverage

// Valid reports whether the span runs forward.
func (t Timeline) Valid() bool {
	return t.EndYear >= t.StartYear
}

// YearAt linearly interpolates the slider position between the start and end years.
//
// Positions outside [0,100] are clamped. Halves round up, so the same slider position always yields the same year.
func (t Timeline) YearAt(slider float64) int {
	if math.IsNaN(slider) {
		slider = SliderMin
	}
	slider = math.Max(SliderMin, math.Min(SliderMax, slider))
	span := float64(t.EndYear - t.StartYear)
	return t.StartYear + int(math.Floor(slider/SliderMax*span+0.5)) //nolint:mnd // round half up
}

// SliderAt is the inverse of YearAt. Years outside the timeline are clamped.
func (t Timeline) SliderAt(year int) float64 {
	if t.EndYear == t.StartYear {
		return SliderMin
	}
	year = max(t.StartYear, min(t.EndYear, year))
	return float64(year-t.StartYear) / float64(t.EndYear-t.StartYear) * SliderMax
}

// Next returns the year autoplay shows after year, wrapping back to the start after the last year.
func (t Timeline) Next(year int) int {
	if year >= t.EndYear || year < t.StartYear {
		return t.StartYear
	}
	return year + 1
}

// Years lists every year of the timeline in order.
func (t Timeline) Years() []int {
	if !t.Valid() {
		return nil
	}
	years := make([]int, 0, t.EndYear-t.StartYear+1)
	for y := t.StartYear; y <= t.EndYear; y++ {
		years = append(years, y)
	}
	return years
}
