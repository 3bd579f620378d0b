// Package vegetation provides the NDVI (Normalized Difference Vegetation Index) time series shown as the MODIS clue.
package vegetation

import "math"

// Health buckets an NDVI value for the chart colours.
type Health string

const (
	HealthHealthy  Health = "healthy"
	HealthModerate Health = "moderate"
	HealthPoor     Health = "poor"
)

const (
	healthyThreshold  = 0.70
	moderateThreshold = 0.55
)

// Source tells where a series came from.
type Source string

const (
	SourceNASA Source = "nasa"
	SourceDemo Source = "demo"
)

// Point is the mean NDVI of one year.
type Point struct {
	Year int
	NDVI float64
}

// Health classifies the point.
func (p Point) Health() Health {
	switch {
	case p.NDVI >= healthyThreshold:
		return HealthHealthy
	case p.NDVI >= moderateThreshold:
		return HealthModerate
	default:
		return HealthPoor
	}
}

// Series is a yearly NDVI time series in ascending year order.
type Series struct {
	Points []Point
	Source Source
}

// Decline returns by how many percent the last value is below the first. It is zero for short series.
func (s Series) Decline() float64 {
	if len(s.Points) < 2 || s.Points[0].NDVI == 0 { //nolint:mnd // need two ends
		return 0
	}
	first, last := s.Points[0].NDVI, s.Points[len(s.Points)-1].NDVI
	return math.Round((first-last)/first*1000) / 10 //nolint:mnd // one decimal
}

// Peak returns the highest NDVI in the series, used to scale chart bars.
func (s Series) Peak() float64 {
	peak := 0.0
	for _, p := range s.Points {
		peak = math.Max(peak, p.NDVI)
	}
	return peak
}

// Demo returns the hardcoded Amazon Basin series used whenever NASA data is unavailable.
func Demo() Series {
	return Series{
		Points: []Point{
			{Year: 2018, NDVI: 0.75},
			{Year: 2019, NDVI: 0.72},
			{Year: 2020, NDVI: 0.68},
			{Year: 2021, NDVI: 0.61},
			{Year: 2022, NDVI: 0.45},
			{Year: 2023, NDVI: 0.38},
		},
		Source: SourceDemo,
	}
}
