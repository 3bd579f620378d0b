package main

import (
	"io/fs"
	"net/http"

	htmxmiddleware "github.com/donseba/go-htmx/middleware"
	"github.com/justinas/alice"
	"github.com/myrjola/terratracker/ui"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(ui.Files, "static")
	if err != nil {
		panic(err) // the static directory is embedded at build time
	}
	mux.Handle("GET /static/", cacheHeaders(http.StripPrefix("/static", http.FileServerFS(static))))

	session := alice.New(app.sessionManager.LoadAndSave, noSurf, htmxmiddleware.MiddleWare, app.commonContext,
		app.playerContext)
	timed := func(h http.HandlerFunc) http.Handler {
		return timeoutHandler(session.ThenFunc(h), defaultTimeout)
	}
	// Streams must reach the client unbuffered, so they skip LoadAndSave and the timeout handler.
	stream := alice.New(app.serverSentEventMiddleware)

	mux.Handle("GET /{$}", timed(app.home))
	mux.Handle("POST /investigation/start", timed(app.startInvestigation))
	mux.Handle("GET /investigation", timed(app.investigation))
	mux.Handle("POST /investigation/choices", timed(app.selectChoice))
	mux.Handle("POST /investigation/links", timed(app.followLink))
	mux.Handle("POST /investigation/restart", timed(app.restartInvestigation))
	mux.Handle("GET /investigation/narration", stream.ThenFunc(app.streamNarration))
	mux.Handle("GET /clues/{clue}", timed(app.clue))
	mux.Handle("GET /clues/{clue}/autoplay", stream.ThenFunc(app.autoplay))
	mux.Handle("GET /api/timeline", timeoutHandler(http.HandlerFunc(app.timelineYear), defaultTimeout))
	mux.Handle("POST /soundscape", timed(app.updateSoundscape))
	mux.Handle("GET /nasa", timed(app.nasa))
	mux.Handle("GET /cases", timed(app.caseArchive))
	mux.Handle("GET /api/healthy", http.HandlerFunc(app.healthy))
	mux.Handle("/", session.ThenFunc(app.notFound))

	common := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	return common.Then(mux)
}
