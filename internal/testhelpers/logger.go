// Package testhelpers holds small utilities shared by tests across packages.
package testhelpers

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/myrjola/terratracker/internal/logging"
)

// NewLogger creates a new logger with the given log sink such as io.Discard.
func NewLogger(logSink io.Writer) *slog.Logger {
	handler := logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	return slog.New(handler)
}

// TestingWriter forwards log lines to t.Log so that they only show up for failing tests or with -v.
type TestingWriter struct {
	t testing.TB
}

func NewTestingWriter(t testing.TB) TestingWriter {
	return TestingWriter{t: t}
}

func (w TestingWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
