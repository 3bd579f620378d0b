package main

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/myrjola/terratracker/internal/clues"
	"github.com/myrjola/terratracker/internal/errors"
)

var ErrInvalidSlider = errors.NewSentinel("invalid slider position")

type timelinePosition struct {
	Year   int     `json:"year"`
	Slider float64 `json:"slider"`
}

// parseSlider parses a slider position. NaN and infinities are rejected, finite values are clamped by the timeline.
func parseSlider(raw string) (float64, error) {
	slider, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(slider) || math.IsInf(slider, 0) {
		return 0, errors.Wrap(ErrInvalidSlider, "parse slider", slog.String("slider", raw))
	}
	return slider, nil
}

// parseYear reads the year query parameter. A missing year is zero.
func parseYear(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrap(err, "parse year", slog.String("year", raw))
	}
	return year, nil
}

// clue shows a clue, optionally at the year the slider points to.
func (app *application) clue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clue, ok := clues.Lookup(clues.Key(r.PathValue("clue")))
	if !ok {
		app.notFound(w, r)
		return
	}
	year := 0
	if raw := r.URL.Query().Get("slider"); raw != "" {
		slider, err := parseSlider(raw)
		if err != nil {
			app.clientError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		year = app.timeline.YearAt(slider)
	}
	app.sessionManager.Put(ctx, clueSessionKey, string(clue.Key))

	if app.htmx.NewHandler(w, r).Request().HxRequest {
		app.renderPartial(w, r, http.StatusOK, "investigation", app.newCluePanelView(ctx, clue, year), "clue-panel")
		return
	}
	state := app.gameState(ctx)
	data := app.newInvestigationTemplateData(r, state, "")
	data.Panel = app.newCluePanelView(ctx, clue, year)
	app.render(w, r, http.StatusOK, "investigation", data)
}

// autoplay streams the timeline years one after another until the client disconnects.
func (app *application) autoplay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clue, ok := clues.Lookup(clues.Key(r.PathValue("clue")))
	if !ok || !clue.ShowControls {
		app.notFound(w, r)
		return
	}
	year, err := parseYear(r.URL.Query().Get("year"))
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rc, err := startEventStream(w)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	ticker := time.NewTicker(app.cfg.AutoplayInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			year = app.timeline.Next(year)
			var payload []byte
			if payload, err = json.Marshal(timelinePosition{Year: year, Slider: app.timeline.SliderAt(year)}); err != nil {
				app.logger.LogAttrs(ctx, slog.LevelError, "failed to encode year", errors.SlogError(err))
				return
			}
			if err = writeEvent(w, "year", string(payload)); err != nil {
				return
			}
			if err = rc.Flush(); err != nil {
				return
			}
		}
	}
}

// timelineYear maps a slider position to its year.
func (app *application) timelineYear(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("slider")
	if raw == "" {
		app.clientError(w, r, http.StatusBadRequest, "missing slider")
		return
	}
	slider, err := parseSlider(raw)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	year := app.timeline.YearAt(slider)
	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(timelinePosition{Year: year, Slider: app.timeline.SliderAt(year)}); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to encode timeline", errors.SlogError(err))
	}
}
