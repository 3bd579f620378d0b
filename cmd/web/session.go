package main

import (
	"context"
	"encoding/gob"
	"log/slog"

	"github.com/myrjola/terratracker/internal/clues"
	"github.com/myrjola/terratracker/internal/dialogue"
	"github.com/myrjola/terratracker/internal/soundscape"
)

const (
	playerSessionKey     = "player"
	gameSessionKey       = "game"
	clueSessionKey       = "clue"
	soundSessionKey      = "soundscape"
	flashSessionKey      = "flash"
	feedbackSessionKey   = "feedback"
	archivedSessionKey   = "archived"
	playerIDLength  uint = 32
)

func init() {
	// scs gob-encodes session values stored behind interfaces.
	gob.Register(dialogue.GameState{})
	gob.Register(soundscape.Settings{})
}

// gameState returns the player's game. A missing or stale game is replaced with a fresh one.
func (app *application) gameState(ctx context.Context) dialogue.GameState {
	state, ok := app.sessionManager.Get(ctx, gameSessionKey).(dialogue.GameState)
	if !ok {
		return app.tree.NewGame()
	}
	if _, known := app.tree.Scenario(state.Current); !known {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "session holds unknown scenario, starting over",
			slog.String("scenario", string(state.Current)))
		return app.tree.NewGame()
	}
	return state
}

func (app *application) saveGameState(ctx context.Context, state dialogue.GameState) {
	app.sessionManager.Put(ctx, gameSessionKey, state)
}

func (app *application) soundSettings(ctx context.Context) soundscape.Settings {
	settings, ok := app.sessionManager.Get(ctx, soundSessionKey).(soundscape.Settings)
	if !ok {
		return soundscape.DefaultSettings()
	}
	return settings
}

// selectedClue is the clue the dashboard shows. It follows the story unless the player picked one.
func (app *application) selectedClue(ctx context.Context) clues.Clue {
	if c, ok := clues.Lookup(clues.Key(app.sessionManager.GetString(ctx, clueSessionKey))); ok {
		return c
	}
	c, _ := clues.Lookup(clues.KeyMODIS)
	return c
}

func (app *application) flash(ctx context.Context, msg string) {
	app.sessionManager.Put(ctx, flashSessionKey, msg)
}
