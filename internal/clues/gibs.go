package clues

import (
	"fmt"
)

const (
	gibsEndpoint = "https://gibs.earthdata.nasa.gov/wmts/epsg3857/best"
	gibsMatrix   = "GoogleMapsCompatible_Level9"
	// fallbackLayerYear is used for static clues that have no year of their own.
	fallbackLayerYear = 2021
)

// Layer is a NASA GIBS WMTS tile layer ready for a web map.
type Layer struct {
	Product string
	Date    string
	// URLTemplate contains {z}, {y} and {x} placeholders for the map library.
	URLTemplate string
	Attribution string
	MinZoom     int
	MaxZoom     int
}

// FormatGIBSDate formats the first day of year the way GIBS expects.
func FormatGIBSDate(year int) string {
	return fmt.Sprintf("%04d-01-01", year)
}

// LayerFor builds the GIBS layer of clue at year. Year zero falls back to the clue's own year.
func LayerFor(clue Clue, year int) (Layer, bool) {
	if clue.Product == "" {
		return Layer{}, false //nolint:exhaustruct // zero value signals absence
	}
	if year == 0 {
		year = clue.Year
	}
	if year == 0 {
		year = fallbackLayerYear
	}
	date := FormatGIBSDate(year)
	return Layer{
		Product:     clue.Product,
		Date:        date,
		URLTemplate: fmt.Sprintf("%s/%s/default/%s/%s/{z}/{y}/{x}.jpg", gibsEndpoint, clue.Product, date, gibsMatrix),
		Attribution: "NASA EOSDIS GIBS",
		MinZoom:     1,
		MaxZoom:     9, //nolint:mnd // Level9 tile matrix
	}, true
}
