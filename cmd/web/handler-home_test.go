package main

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func Test_application_home(t *testing.T) {
	server := startTestServer(t)
	ctx := context.Background()

	resp, err := server.Client().Get(ctx, "/")
	require.NoError(t, err)
	csp := resp.Header.Get("Content-Security-Policy")
	doc := readDoc(t, resp)

	require.Equal(t, 1, doc.Find("form[action='/investigation/start']").Length())
	require.Contains(t, doc.Find("h1").Text(), "Earth Detective")
	require.True(t, doc.Find("body").HasClass("section-home"))
	src, _ := doc.Find("#ambient-audio").Attr("src")
	require.Equal(t, "/static/audio/forest-ambient.mp3", src)
	lang, _ := doc.Find("html").Attr("lang")
	require.Equal(t, "en", lang)

	// Every script carries the nonce announced in the CSP.
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		nonce, ok := s.Attr("nonce")
		require.True(t, ok, "script without nonce")
		require.Contains(t, csp, "'nonce-"+nonce+"'")
	})
}

func Test_application_healthy(t *testing.T) {
	server := startTestServer(t)

	resp, err := server.Client().Get(context.Background(), "/api/healthy")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func Test_application_notFound(t *testing.T) {
	server := startTestServer(t)

	resp, err := server.Client().Get(context.Background(), "/no-such-page")
	requireStatus(t, http.StatusNotFound, resp, err)
}

func Test_application_static(t *testing.T) {
	server := startTestServer(t)

	resp, err := server.Client().Get(context.Background(), "/static/css/main.css")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/css"))
	require.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
}
