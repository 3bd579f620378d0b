package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/terratracker/internal/contexthelpers"
	"github.com/myrjola/terratracker/internal/dialogue"
	"github.com/myrjola/terratracker/internal/errors"
	"github.com/myrjola/terratracker/internal/models"
)

const (
	caseName              = "The Amazon Case"
	caseOpenedToast       = "CASE FILE OPENED. Awaiting initial data reports from MODIS."
	caseRestartedToast    = "Investigation restarted. The case file is open again."
	caseArchivedToast     = "Case closed! Your case file has been added to the archive."
	staleSubmitToast      = "That question has already been answered. Here is where the case stands."
	investigationPath     = "/investigation"
	malformedScenarioForm = "malformed scenario form"
)

func (app *application) investigation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := app.gameState(ctx)
	app.saveGameState(ctx, state)
	feedback := app.sessionManager.PopString(ctx, feedbackSessionKey)
	app.render(w, r, http.StatusOK, "investigation", app.newInvestigationTemplateData(r, state, feedback))
}

// startInvestigation opens a fresh case file from the home page.
func (app *application) startInvestigation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := app.tree.NewGame()
	app.resetCase(ctx, state)
	app.flash(ctx, caseOpenedToast)
	app.narrate(ctx, state)
	redirect(w, r, investigationPath)
}

func (app *application) restartInvestigation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := app.gameState(ctx)
	app.tree.Restart(&state)
	app.resetCase(ctx, state)
	app.flash(ctx, caseRestartedToast)
	app.narrate(ctx, state)
	app.respondDashboard(w, r, state, "")
}

func (app *application) selectChoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scenario, index, ok := app.parseScenarioForm(w, r, "choice")
	if !ok {
		return
	}
	state := app.gameState(ctx)
	if scenario != state.Current {
		app.staleSubmission(w, r, state, scenario)
		return
	}

	outcome, err := app.tree.SelectChoice(&state, index)
	if errors.Is(err, dialogue.ErrChoiceOutOfRange) || errors.Is(err, dialogue.ErrNoChoices) {
		app.clientError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.saveGameState(ctx, state)
	if !outcome.Correct {
		app.logger.LogAttrs(ctx, slog.LevelDebug, "incorrect choice",
			slog.String("scenario", string(state.Current)), slog.Int("choice", index))
		app.respondDashboard(w, r, state, outcome.Feedback)
		return
	}

	app.enterScenario(ctx, state, outcome.Scenario)
	if app.tree.Completed(state) {
		app.archiveCase(ctx, state)
	}
	app.respondDashboard(w, r, state, "")
}

func (app *application) followLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scenario, index, ok := app.parseScenarioForm(w, r, "link")
	if !ok {
		return
	}
	state := app.gameState(ctx)
	if scenario != state.Current {
		app.staleSubmission(w, r, state, scenario)
		return
	}

	outcome, err := app.tree.FollowLink(&state, index)
	if errors.Is(err, dialogue.ErrLinkOutOfRange) || errors.Is(err, dialogue.ErrNoLinks) {
		app.clientError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if outcome.Restarted {
		app.resetCase(ctx, state)
	} else {
		app.saveGameState(ctx, state)
	}
	app.enterScenario(ctx, state, outcome.Scenario)
	app.respondDashboard(w, r, state, "")
}

// parseScenarioForm reads the scenario the form was rendered for and the picked index from field.
func (app *application) parseScenarioForm(w http.ResponseWriter, r *http.Request, field string) (
	dialogue.Key, int, bool) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest, malformedScenarioForm)
		return "", 0, false
	}
	scenario := dialogue.Key(r.PostForm.Get("scenario"))
	index, err := strconv.Atoi(r.PostForm.Get(field))
	if scenario == "" || err != nil {
		app.clientError(w, r, http.StatusBadRequest, malformedScenarioForm)
		return "", 0, false
	}
	return scenario, index, true
}

// staleSubmission answers a form that was rendered for an earlier scenario, e.g. after a double click or from a
// second tab. The state stays untouched.
func (app *application) staleSubmission(w http.ResponseWriter, r *http.Request, state dialogue.GameState,
	submitted dialogue.Key) {
	app.logger.LogAttrs(r.Context(), slog.LevelInfo, "stale submission",
		slog.String("submitted", string(submitted)), slog.String("current", string(state.Current)))
	app.flash(r.Context(), staleSubmitToast)
	app.respondDashboard(w, r, state, "")
}

// respondDashboard swaps the dashboard for htmx requests and redirects plain form posts.
func (app *application) respondDashboard(w http.ResponseWriter, r *http.Request, state dialogue.GameState,
	feedback string) {
	h := app.htmx.NewHandler(w, r)
	if h.Request().HxRequest {
		h.PushURL(investigationPath)
		data := app.newInvestigationTemplateData(r, state, feedback)
		app.renderPartial(w, r, http.StatusOK, "investigation", data, "dashboard-swap")
		return
	}
	if feedback != "" {
		app.sessionManager.Put(r.Context(), feedbackSessionKey, feedback)
	}
	redirect(w, r, investigationPath)
}

// resetCase stores a fresh state and forgets everything tied to the previous playthrough.
func (app *application) resetCase(ctx context.Context, state dialogue.GameState) {
	app.saveGameState(ctx, state)
	app.sessionManager.Put(ctx, archivedSessionKey, false)
	app.sessionManager.Remove(ctx, clueSessionKey)
	app.sessionManager.Remove(ctx, feedbackSessionKey)
}

// enterScenario follows the story's clue and starts narrating the new message.
func (app *application) enterScenario(ctx context.Context, state dialogue.GameState, scenario dialogue.Scenario) {
	if scenario.Clue != "" {
		app.sessionManager.Put(ctx, clueSessionKey, scenario.Clue)
	}
	app.narrate(ctx, state)
}

func (app *application) narrate(ctx context.Context, state dialogue.GameState) {
	scenario, ok := app.tree.Scenario(state.Current)
	if !ok {
		return
	}
	app.narrator.Narrate(app.sessionManager.GetString(ctx, playerSessionKey), scenario.Message)
}

// archiveCase records the solved case once per playthrough. Failures are logged and never reach the player.
func (app *application) archiveCase(ctx context.Context, state dialogue.GameState) {
	if app.sessionManager.GetBool(ctx, archivedSessionKey) {
		return
	}
	path := make([]string, 0, len(state.History))
	for _, record := range state.History {
		path = append(path, string(record.Scenario))
	}
	caseFile, err := app.cases.Archive(ctx, models.CaseFile{ //nolint:exhaustruct // ID and time are generated
		CaseName:    caseName,
		SessionHash: contexthelpers.SessionHash(ctx),
		Mistakes:    state.Mistakes,
		Path:        path,
	})
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "failed to archive case", errors.SlogError(err))
		return
	}
	app.sessionManager.Put(ctx, archivedSessionKey, true)
	app.flash(ctx, caseArchivedToast)
	app.logger.LogAttrs(ctx, slog.LevelInfo, "case solved",
		slog.String("case_id", caseFile.ID.String()), slog.Int("mistakes", caseFile.Mistakes))
}
