package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/myrjola/terratracker/internal/testhelpers"
	"github.com/myrjola/terratracker/internal/vegetation"
	"github.com/stretchr/testify/require"
)

const ndviPayload = `{"subset": [
  {"calendar_date": "2018-01-01", "data": [8000]},
  {"calendar_date": "2019-01-01", "data": [6000]}
]}`

// newNDVIApp serves the NDVI payload from an httptest server once healthy reports true.
func newNDVIApp(t *testing.T, healthy *atomic.Bool, hits *atomic.Int32) *application {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, ndviPayload)
	}))
	t.Cleanup(server.Close)
	return &application{ //nolint:exhaustruct // only the NDVI cache is under test
		vegetation: vegetation.NewClient(server.URL, testhelpers.NewLogger(io.Discard)),
	}
}

func Test_application_ndviSeries(t *testing.T) {
	t.Run("cancelled request does not cache the fallback", func(t *testing.T) {
		var healthy atomic.Bool
		var hits atomic.Int32
		healthy.Store(true)
		app := newNDVIApp(t, &healthy, &hits)

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		app.ndviSeries(cancelled)

		series := app.ndviSeries(context.Background())
		require.Equal(t, vegetation.SourceNASA, series.Source)
		require.Len(t, series.Points, 2)
	})

	t.Run("demo fallback is retried sooner", func(t *testing.T) {
		var healthy atomic.Bool
		var hits atomic.Int32
		app := newNDVIApp(t, &healthy, &hits)
		ctx := context.Background()

		require.Equal(t, vegetation.SourceDemo, app.ndviSeries(ctx).Source)
		healthy.Store(true)
		require.Equal(t, vegetation.SourceDemo, app.ndviSeries(ctx).Source, "cached until the demo TTL passes")
		require.Equal(t, int32(1), hits.Load())

		app.ndvi.store(vegetation.Demo(), time.Now().Add(-ndviDemoTTL-time.Second))
		require.Equal(t, vegetation.SourceNASA, app.ndviSeries(ctx).Source)

		app.ndvi.store(app.ndviSeries(ctx), time.Now().Add(-ndviDemoTTL-time.Second))
		require.Equal(t, vegetation.SourceNASA, app.ndviSeries(ctx).Source)
		require.Equal(t, int32(2), hits.Load(), "NASA data is kept for the full TTL")
	})
}
