package main

import (
	"net/http"

	"github.com/myrjola/terratracker/internal/models"
	"github.com/myrjola/terratracker/internal/soundscape"
)

const recentCaseFiles = 20

type casesTemplateData struct {
	BaseTemplateData
	Stats     models.CaseStats
	CaseFiles []models.CaseFile
}

// caseArchive lists the most recently solved cases.
func (app *application) caseArchive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := app.cases.Stats(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	var caseFiles []models.CaseFile
	if caseFiles, err = app.cases.Recent(ctx, recentCaseFiles); err != nil {
		app.serverError(w, r, err)
		return
	}
	data := casesTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, soundscape.SectionHome),
		Stats:            stats,
		CaseFiles:        caseFiles,
	}
	app.render(w, r, http.StatusOK, "cases", data)
}
