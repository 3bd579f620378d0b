package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/myrjola/terratracker/internal/errors"
)

// startEventStream prepares w for Server Sent Events. The server's write timeout does not apply to streams.
func startEventStream(w http.ResponseWriter) (*http.ResponseController, error) {
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		return nil, errors.Wrap(err, "lift write deadline")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	return rc, nil
}

// writeEvent writes a single SSE event. Multi-line data is split over several data fields.
func writeEvent(w io.Writer, event string, data string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "write event")
	}
	return nil
}

// streamNarration types the current message word by word. Reconnects and late subscribers get the whole message.
func (app *application) streamNarration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc, err := startEventStream(w)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	chunks, ok := app.narrator.Subscribe(ctx, app.sessionManager.GetString(ctx, playerSessionKey))
	if !ok {
		if ctx.Err() != nil {
			return
		}
		scenario, _ := app.tree.Scenario(app.gameState(ctx).Current)
		if err = writeEvent(w, "message", scenario.Message); err != nil {
			return
		}
	} else {
	loop:
		for {
			select {
			case <-ctx.Done():
				return
			case chunk, open := <-chunks:
				if !open {
					break loop
				}
				if err = writeEvent(w, "chunk", chunk); err != nil {
					return
				}
				if err = rc.Flush(); err != nil {
					return
				}
			}
		}
	}

	if err = writeEvent(w, "done", ""); err != nil {
		return
	}
	_ = rc.Flush()
}
