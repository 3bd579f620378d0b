package main

import (
	"context"
	"net/http"
	"time"

	"github.com/myrjola/terratracker/internal/clues"
	"github.com/myrjola/terratracker/internal/dialogue"
	"github.com/myrjola/terratracker/internal/soundscape"
	"github.com/myrjola/terratracker/internal/vegetation"
)

// The render layer turns game state, the clue catalog and the soundscape into the structs templates consume.

type dialogueView struct {
	Scenario     dialogue.Scenario
	Kind         string
	Feedback     string
	RetryPrompt  string
	Progress     float64
	ShowProgress bool
	Completed    bool
	History      []dialogue.ChoiceRecord
}

type cluePanelView struct {
	Clue     clues.Clue
	Clues    []clues.Clue
	Year     int
	Slider   float64
	Timeline clues.Timeline
	Layer    clues.Layer
	HasLayer bool
	NDVI     *vegetation.Series
}

type investigationTemplateData struct {
	BaseTemplateData
	Dialogue dialogueView
	Panel    cluePanelView
}

func (app *application) newDialogueView(state dialogue.GameState, feedback string) dialogueView {
	scenario, _ := app.tree.Scenario(state.Current)
	view := dialogueView{
		Scenario:     scenario,
		Kind:         scenario.Kind.String(),
		Feedback:     feedback,
		RetryPrompt:  "",
		Progress:     state.Progress,
		ShowProgress: scenario.ShowProgress,
		Completed:    app.tree.Completed(state),
		History:      state.History,
	}
	if feedback != "" {
		view.RetryPrompt = dialogue.RetryPrompt
	}
	return view
}

// newCluePanelView shows clue at year. Year zero opens the clue at its own year.
func (app *application) newCluePanelView(ctx context.Context, clue clues.Clue, year int) cluePanelView {
	view := cluePanelView{
		Clue:     clue,
		Clues:    clues.All(),
		Year:     0,
		Slider:   0,
		Timeline: app.timeline,
		Layer:    clues.Layer{}, //nolint:exhaustruct // set below when available
		HasLayer: false,
		NDVI:     nil,
	}
	if clue.ShowControls {
		if year == 0 {
			year = clue.Year
		}
		view.Slider = app.timeline.SliderAt(year)
		// Snap onto the timeline so the year shown always matches the slider.
		view.Year = app.timeline.YearAt(view.Slider)
	}
	view.Layer, view.HasLayer = clues.LayerFor(clue, view.Year)
	if clue.Key == clues.KeyMODIS {
		series := app.ndviSeries(ctx)
		view.NDVI = &series
	}
	return view
}

func (app *application) newInvestigationTemplateData(
	r *http.Request,
	state dialogue.GameState,
	feedback string,
) investigationTemplateData {
	ctx := r.Context()
	return investigationTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r, soundscape.SectionInvestigation),
		Dialogue:         app.newDialogueView(state, feedback),
		Panel:            app.newCluePanelView(ctx, app.selectedClue(ctx), 0),
	}
}

// ndviSeries returns the cached NDVI series, refreshing it once the cache expires. Concurrent views share one
// refresh, and the refresh outlives the request that started it so that a cancelled request cannot poison the cache.
func (app *application) ndviSeries(ctx context.Context) vegetation.Series {
	if series, ok := app.ndvi.fresh(time.Now()); ok {
		return series
	}
	refreshed := app.ndvi.group.DoChan("ndvi", func() (any, error) {
		series := app.vegetation.Series(context.WithoutCancel(ctx), vegetation.AmazonBasin)
		app.ndvi.store(series, time.Now())
		return series, nil
	})
	select {
	case res := <-refreshed:
		return res.Val.(vegetation.Series) //nolint:forcetypeassert // the refresh only returns series
	case <-ctx.Done():
		return vegetation.Demo()
	}
}
