package main

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/myrjola/terratracker/internal/dialogue"
	"github.com/myrjola/terratracker/internal/e2etest"
	"github.com/stretchr/testify/require"
)

func Test_application_playthrough(t *testing.T) {
	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	doc, mistakes, err := client.Playthrough(ctx)
	require.NoError(t, err)
	require.Equal(t, "mission_complete", e2etest.CurrentScenario(doc))
	// The first choice is wrong at the MODIS, ASTER, MISR and verdict checkpoints.
	require.Equal(t, 4, mistakes)
	progress, _ := doc.Find(".progress").Attr("aria-valuenow")
	require.Equal(t, "100.00", progress)
	require.Contains(t, doc.Find("#toasts .toast").Text(), "Case closed")
	require.Equal(t, 6, doc.Find(".history li").Length())

	doc, err = client.GetDoc(ctx, "/cases")
	require.NoError(t, err)
	require.Equal(t, "1", doc.Find("#solved-count").Text())
	require.Equal(t, "4", doc.Find("#average-mistakes").Text())
	require.Equal(t, 1, doc.Find("tr[id^='case-']").Length())

	// Browsing the closing briefings does not archive the case again.
	doc, err = client.GetDoc(ctx, "/investigation")
	require.NoError(t, err)
	doc, err = client.Submit(ctx, doc.Find("form[action='/investigation/links']").First(), nil)
	require.NoError(t, err)
	require.Equal(t, "solutions", e2etest.CurrentScenario(doc))
	doc, err = client.GetDoc(ctx, "/cases")
	require.NoError(t, err)
	require.Equal(t, "1", doc.Find("#solved-count").Text())

	// A second playthrough is a new case.
	_, _, err = client.Playthrough(ctx)
	require.NoError(t, err)
	doc, err = client.GetDoc(ctx, "/")
	require.NoError(t, err)
	require.Contains(t, doc.Find(".stats").Text(), "2 detectives")
}

func Test_application_selectChoice(t *testing.T) {
	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	doc := startInvestigation(t, client)
	require.Contains(t, doc.Find("#toasts .toast").Text(), "CASE FILE OPENED")
	progress, _ := doc.Find(".progress").Attr("aria-valuenow")
	require.Equal(t, "0.00", progress)

	t.Run("incorrect choice explains and stays", func(t *testing.T) {
		got, err := client.Choose(ctx, doc, "I need more information first")
		require.NoError(t, err)
		require.Equal(t, "intro", e2etest.CurrentScenario(got))
		require.Contains(t, got.Find(".feedback").Text(), "Time is critical")
		require.Equal(t, dialogue.RetryPrompt, got.Find(".feedback .retry").Text())
		progress, _ = got.Find(".progress").Attr("aria-valuenow")
		require.Equal(t, "0.00", progress)

		// Feedback is shown once.
		got, err = client.GetDoc(ctx, "/investigation")
		require.NoError(t, err)
		require.Equal(t, 0, got.Find(".feedback").Length())
	})

	t.Run("correct choice advances", func(t *testing.T) {
		got, err := client.Choose(ctx, doc, "Yes, let's investigate!")
		require.NoError(t, err)
		require.Equal(t, "clue_selection", e2etest.CurrentScenario(got))
		progress, _ = got.Find(".progress").Attr("aria-valuenow")
		require.Equal(t, "16.67", progress)
	})

	t.Run("stale submission keeps the current scenario", func(t *testing.T) {
		// doc still holds the intro choices.
		got, err := client.Choose(ctx, doc, "Yes, let's investigate!")
		require.NoError(t, err)
		require.Equal(t, "clue_selection", e2etest.CurrentScenario(got))
		require.Contains(t, got.Find("#toasts .toast").Text(), "already been answered")
		progress, _ = got.Find(".progress").Attr("aria-valuenow")
		require.Equal(t, "16.67", progress)
	})

	t.Run("story picks the clue", func(t *testing.T) {
		got, err := client.GetDoc(ctx, "/investigation")
		require.NoError(t, err)
		got, err = client.Choose(ctx, got, "MODIS")
		require.NoError(t, err)
		require.Equal(t, "modis_analysis", e2etest.CurrentScenario(got))
		clue, _ := got.Find("#clue-panel").Attr("data-clue")
		require.Equal(t, "modis", clue)
		require.Equal(t, 6, got.Find("table.ndvi-chart tbody tr").Length())
	})

	t.Run("restart", func(t *testing.T) {
		got, err := client.SubmitForm(ctx, "/investigation", "/investigation/restart")
		require.NoError(t, err)
		require.Equal(t, "intro", e2etest.CurrentScenario(got))
		progress, _ = got.Find(".progress").Attr("aria-valuenow")
		require.Equal(t, "0.00", progress)
		require.Equal(t, 0, got.Find(".history").Length())
	})
}

func Test_application_selectChoice_htmx(t *testing.T) {
	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	doc := startInvestigation(t, client)
	form := doc.Find("form[action='/investigation/choices']").First()

	resp, err := client.PostForm(ctx, "/investigation/choices", e2etest.FormValues(form, nil), true)
	require.NoError(t, err)
	require.Equal(t, "/investigation", resp.Header.Get("HX-Push-Url"))
	got := readDoc(t, resp)
	require.Equal(t, 1, got.Find("#dashboard").Length())
	require.Equal(t, 1, got.Find("#toasts[hx-swap-oob]").Length())
	require.Equal(t, 0, got.Find("header.top-bar").Length(), "htmx gets only the dashboard")
	require.Equal(t, "clue_selection", e2etest.CurrentScenario(got))
}

func Test_application_selectChoice_badRequests(t *testing.T) {
	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	doc := startInvestigation(t, client)
	form := doc.Find("form[action='/investigation/choices']").First()

	tests := []struct {
		name  string
		extra url.Values
		want  int
	}{
		{name: "choice out of range", extra: url.Values{"choice": {"99"}}, want: http.StatusBadRequest},
		{name: "negative choice", extra: url.Values{"choice": {"-1"}}, want: http.StatusBadRequest},
		{name: "choice not a number", extra: url.Values{"choice": {"first"}}, want: http.StatusBadRequest},
		{name: "missing scenario", extra: url.Values{"scenario": {""}}, want: http.StatusBadRequest},
		{name: "missing CSRF token", extra: url.Values{"csrf_token": {""}}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.PostForm(ctx, "/investigation/choices", e2etest.FormValues(form, tt.extra), false)
			requireStatus(t, tt.want, resp, err)
		})
	}

	// Links are not offered at a checkpoint.
	resp, err := client.PostForm(ctx, "/investigation/links",
		e2etest.FormValues(form, url.Values{"link": {"0"}}), false)
	requireStatus(t, http.StatusBadRequest, resp, err)
}

func Test_application_investigation_freshGame(t *testing.T) {
	server := startTestServer(t)

	doc, err := server.Client().GetDoc(context.Background(), "/investigation")
	require.NoError(t, err)
	require.Equal(t, "intro", e2etest.CurrentScenario(doc))
	require.True(t, doc.Find("body").HasClass("section-investigation"))
	src, _ := doc.Find("#ambient-audio").Attr("src")
	require.Equal(t, "/static/audio/investigation-ambient.mp3", src)
}

func Test_application_streamNarration(t *testing.T) {
	server := startTestServer(t)
	client := server.Client()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	startInvestigation(t, client)
	intro := dialogueMessage(t, dialogue.KeyIntro)

	resp, err := client.Get(ctx, "/investigation/narration")
	require.NoError(t, err)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	events := readEvents(t, resp.Body, 0)
	require.NoError(t, resp.Body.Close())
	require.NotEmpty(t, events)
	typed := ""
	for _, e := range events[:len(events)-1] {
		require.Equal(t, "chunk", e.Name)
		typed += e.Data
	}
	require.Equal(t, intro, typed)
	require.Equal(t, "done", events[len(events)-1].Name)

	// A reconnect gets the whole message at once.
	resp, err = client.Get(ctx, "/investigation/narration")
	require.NoError(t, err)
	events = readEvents(t, resp.Body, 0)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, []serverSentEvent{
		{Name: "message", Data: intro},
		{Name: "done", Data: ""},
	}, events)
}

func dialogueMessage(t *testing.T, key dialogue.Key) string {
	t.Helper()
	tree, err := dialogue.NewAmazonTree()
	require.NoError(t, err)
	s, ok := tree.Scenario(key)
	require.True(t, ok)
	return s.Message
}
