// Package clues describes the satellite clues a detective examines and the timeline they are shown on.
package clues

// Key identifies a clue by the instrument that produced it.
type Key string

const (
	KeyMODIS  Key = "modis"
	KeyASTER  Key = "aster"
	KeyMISR   Key = "misr"
	KeyMOPITT Key = "mopitt"
)

// Clue is a demo visualisation placeholder backed by a NASA GIBS product.
type Clue struct {
	Key        Key
	Instrument string
	Header     string
	Title      string
	Note       string
	// Year is the year the timeline opens at. Zero means the clue is static and has no year.
	Year int
	// ShowControls toggles the timeline slider and playback buttons.
	ShowControls bool
	// Product is the NASA GIBS layer identifier.
	Product string
}

// HasYear reports whether the clue is tied to a timeline year.
func (c Clue) HasYear() bool {
	return c.Year != 0
}

var catalog = []Clue{
	{
		Key:          KeyMODIS,
		Instrument:   "MODIS",
		Header:       "CLUE 1: M.O. (MODIS) - LONG-TERM NDVI DECLINE",
		Title:        "NDVI Time Series - Amazon Basin",
		Note:         "Declining NDVI values indicate vegetation loss",
		Year:         2021, //nolint:mnd // opening year of the time series
		ShowControls: true,
		Product:      "MODIS_Terra_CorrectedReflectance_TrueColor",
	},
	{
		Key:          KeyASTER,
		Instrument:   "ASTER",
		Header:       "CLUE 2: A.S.T. (ASTER) - HIGH-RES BEFORE/AFTER SCAR",
		Title:        "ASTER True Color Imagery (2020 vs 2023)",
		Note:         "Systematic clearing patterns visible",
		Year:         0,
		ShowControls: false,
		Product:      "ASTER_GED_L3_Topography_Shaded_Relief",
	},
	{
		Key:          KeyMISR,
		Instrument:   "MISR",
		Header:       "CLUE 3: M.I.S.R. (MISR) - AEROSOL/SMOKE PLUME TRACKING",
		Title:        "MISR Smoke Plume 3-Day Movement",
		Note:         "Aerosol plumes affecting 500,000+ people",
		Year:         0,
		ShowControls: false,
		Product:      "MISR_Aerosol_Optical_Depth",
	},
	{
		Key:          KeyMOPITT,
		Instrument:   "MOPITT",
		Header:       "CLUE 4: M.O.P. (MOPITT): The Toxicologist - CARBON MONOXIDE SIGNATURE",
		Title:        "MOPITT CO Emissions Over Region",
		Note:         "Carbon monoxide rises with every burning season",
		Year:         2023, //nolint:mnd // latest available season
		ShowControls: true,
		Product:      "MOPITT_CO_Column",
	},
}

// Lookup returns the clue for key.
func Lookup(key Key) (Clue, bool) {
	for _, c := range catalog {
		if c.Key == key {
			return c, true
		}
	}
	return Clue{}, false //nolint:exhaustruct // zero value signals absence
}

// All returns every clue in dashboard order.
func All() []Clue {
	out := make([]Clue, len(catalog))
	copy(out, catalog)
	return out
}
