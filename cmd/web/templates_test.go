package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_parseTemplates(t *testing.T) {
	templates, err := parseTemplates()
	require.NoError(t, err)
	for _, page := range pageNames {
		require.Contains(t, templates, page)
		for _, name := range []string{"base", "title", "page", "dashboard-swap", "clue-panel", "soundscape"} {
			require.NotNil(t, templates[page].Lookup(name), "page %s lacks template %s", page, name)
		}
	}
}

func Test_templateFuncs_localized(t *testing.T) {
	tests := []struct {
		acceptLanguage string
		wantDecimal    string
		wantPercent    string
	}{
		{acceptLanguage: "", wantDecimal: "1,234.5", wantPercent: "49.3%"},
		{acceptLanguage: "pt-BR,pt;q=0.9", wantDecimal: "1.234,5", wantPercent: "49,3%"},
		{acceptLanguage: "fi", wantDecimal: "1,234.5", wantPercent: "49.3%"},
	}
	for _, tt := range tests {
		t.Run(tt.acceptLanguage, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Accept-Language", tt.acceptLanguage)
			funcs := templateFuncs(r)

			decimal, ok := funcs["decimal"].(func(float64, int) string)
			require.True(t, ok)
			require.Equal(t, tt.wantDecimal, decimal(1234.5, 1))
			percent, ok := funcs["percent"].(func(float64) string)
			require.True(t, ok)
			require.Equal(t, tt.wantPercent, percent(49.3))
		})
	}
}

func Test_templateFuncs_localeFree(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "es")
	funcs := templateFuncs(r)

	cssNumber, ok := funcs["cssNumber"].(func(float64) string)
	require.True(t, ok)
	require.Equal(t, "16.67", cssNumber(100.0/6))

	barWidth, ok := funcs["barWidth"].(func(float64, float64) string)
	require.True(t, ok)
	require.Equal(t, "50.0", barWidth(0.375, 0.75))
	require.Equal(t, "0", barWidth(0.5, 0))
}
