package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/terratracker/internal/errors"
)

// healthy responds with a JSON object indicating that the server is healthy. The database must answer too.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	if _, err := app.cases.Stats(r.Context()); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "health check failed", errors.SlogError(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
