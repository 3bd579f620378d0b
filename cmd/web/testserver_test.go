package main

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/terratracker/internal/e2etest"
	"github.com/stretchr/testify/require"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "TERRA_ADDR":
		return "localhost:0", true
	case "TERRA_SQLITE_URL":
		return ":memory:", true
	case "TERRA_NARRATION_DELAY":
		return "1ms", true
	case "TERRA_AUTOPLAY_INTERVAL":
		return "10ms", true
	default:
		return "", false
	}
}

// startTestServer runs the application on a random port with an in-memory database until the test ends.
func startTestServer(t *testing.T) *e2etest.Server {
	t.Helper()
	server, err := e2etest.StartServer(context.Background(), io.Discard, testLookupEnv, run)
	require.NoError(t, err)
	t.Cleanup(server.Stop)
	return server
}

// startInvestigation opens a new case and returns the dashboard positioned at the intro.
func startInvestigation(t *testing.T, client *e2etest.Client) *goquery.Document {
	t.Helper()
	doc, err := client.SubmitForm(context.Background(), "/", "/investigation/start")
	require.NoError(t, err)
	require.Equal(t, "intro", e2etest.CurrentScenario(doc))
	return doc
}

func readDoc(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func requireStatus(t *testing.T, want int, resp *http.Response, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, want, resp.StatusCode)
}

type serverSentEvent struct {
	Name string
	Data string
}

// readEvents parses up to limit events from an event stream. A limit of zero reads until the stream ends.
func readEvents(t *testing.T, r io.Reader, limit int) []serverSentEvent {
	t.Helper()
	var (
		events  []serverSentEvent
		current serverSentEvent
		data    []string
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			current.Data = strings.Join(data, "\n")
			events = append(events, current)
			current, data = serverSentEvent{}, nil //nolint:exhaustruct // reset
			if limit > 0 && len(events) == limit {
				return events
			}
		case strings.HasPrefix(line, "event:"):
			current.Name = strings.TrimPrefix(strings.TrimPrefix(line, "event:"), " ")
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	require.NoError(t, scanner.Err())
	return events
}
