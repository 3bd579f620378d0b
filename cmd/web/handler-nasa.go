package main

import (
	"net/http"
	"strings"

	"github.com/myrjola/terratracker/internal/clues"
	"github.com/myrjola/terratracker/internal/dialogue"
	"github.com/myrjola/terratracker/internal/soundscape"
)

type portal struct {
	Name string
	URL  string
}

var dataPortals = []portal{
	{Name: "NASA Earthdata", URL: "https://earthdata.nasa.gov"},
	{Name: "MODIS", URL: "https://modis.gsfc.nasa.gov"},
	{Name: "ASTER", URL: "https://asterweb.jpl.nasa.gov"},
	{Name: "MISR", URL: "https://misr.jpl.nasa.gov"},
	{Name: "NASA Worldview", URL: "https://worldview.earthdata.nasa.gov"},
}

type nasaTemplateData struct {
	BaseTemplateData
	Paragraphs []string
	Portals    []portal
	Clues      []clues.Clue
}

func (app *application) nasa(w http.ResponseWriter, r *http.Request) {
	var paragraphs []string
	if scenario, ok := app.tree.Scenario(dialogue.KeyNASAInfo); ok {
		for _, p := range strings.Split(scenario.Message, "\n\n") {
			if p = strings.TrimSpace(p); p != "" {
				paragraphs = append(paragraphs, p)
			}
		}
	}
	data := nasaTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, soundscape.SectionInvestigation),
		Paragraphs:       paragraphs,
		Portals:          dataPortals,
		Clues:            clues.All(),
	}
	app.render(w, r, http.StatusOK, "nasa", data)
}
