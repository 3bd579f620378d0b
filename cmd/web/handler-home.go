package main

import (
	"net/http"

	"github.com/myrjola/terratracker/internal/models"
	"github.com/myrjola/terratracker/internal/soundscape"
)

type homeTemplateData struct {
	BaseTemplateData
	Stats models.CaseStats
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	stats, err := app.cases.Stats(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	data := homeTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, soundscape.SectionHome),
		Stats:            stats,
	}

	app.render(w, r, http.StatusOK, "home", data)
}
