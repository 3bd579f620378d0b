package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/terratracker/internal/e2etest"
	"github.com/myrjola/terratracker/internal/errors"
	"github.com/myrjola/terratracker/internal/logging"
)

// TestPlaythrough solves the case against a deployed server and checks that it reached the archive.
func TestPlaythrough(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second) //nolint:mnd // 30 seconds
	defer cancel()

	doc, mistakes, err := client.Playthrough(ctx)
	if err != nil {
		return errors.Wrap(err, "play through")
	}
	if scenario := e2etest.CurrentScenario(doc); scenario != "mission_complete" {
		return errors.New("unexpected ending", slog.String("scenario", scenario))
	}
	if doc, err = client.GetDoc(ctx, "/cases"); err != nil {
		return errors.Wrap(err, "get case archive")
	}
	if doc.Find("tr[id^='case-']").Length() == 0 {
		return errors.New("solved case missing from archive", slog.Int("mistakes", mistakes))
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestPlaythrough(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error playing through the case", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
