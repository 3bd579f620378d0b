package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/myrjola/terratracker/internal/contexthelpers"
	"github.com/myrjola/terratracker/internal/errors"
	"github.com/myrjola/terratracker/internal/soundscape"
	"github.com/myrjola/terratracker/ui"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var pageNames = []string{"home", "investigation", "nasa", "cases"}

var languageMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.BrazilianPortuguese,
	language.Spanish,
})

type soundView struct {
	soundscape.Settings
	Track string
	// Return is where a plain form post lands after changing the volume.
	Return string
}

type BaseTemplateData struct {
	Lang        string
	CurrentPath string
	Section     soundscape.Section
	Flash       string
	Sound       soundView
}

// newBaseTemplateData pops the flash message, so call it only when rendering a response.
func (app *application) newBaseTemplateData(r *http.Request, section soundscape.Section) BaseTemplateData {
	ctx := r.Context()
	currentPath := contexthelpers.CurrentPath(ctx)
	base, _ := requestLanguage(r).Base()
	return BaseTemplateData{
		Lang:        base.String(),
		CurrentPath: currentPath,
		Section:     section,
		Flash:       app.sessionManager.PopString(ctx, flashSessionKey),
		Sound: soundView{
			Settings: app.soundSettings(ctx),
			Track:    soundscape.TrackFor(section),
			Return:   currentPath,
		},
	}
}

func requestLanguage(r *http.Request) language.Tag {
	tag, _ := language.MatchStrings(languageMatcher, r.Header.Get("Accept-Language"))
	return tag
}

// parseTemplates parses a template set per page. Each set holds the base layout, the shared partials and the page's
// own templates, which must define "title" and "page".
//
// The returned templates are never executed. Rendering clones them to bind request-scoped functions.
func parseTemplates() (map[string]*template.Template, error) {
	partials, err := fs.Glob(ui.Files, "templates/partials/*.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "glob partials")
	}
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		var pageFiles []string
		if pageFiles, err = fs.Glob(ui.Files, path.Join("templates/pages", name, "*.gohtml")); err != nil {
			return nil, errors.Wrap(err, "glob page", slog.String("page", name))
		}
		files := append([]string{"templates/base.gohtml"}, partials...)
		files = append(files, pageFiles...)

		// We need to initialize the FuncMap before parsing the files. Request-scoped ones are overridden in render.
		var t *template.Template
		if t, err = template.New(name).Funcs(templateFuncs(nil)).ParseFS(ui.Files, files...); err != nil {
			return nil, errors.Wrap(err, "parse page", slog.String("page", name))
		}
		templates[name] = t
	}
	return templates, nil
}

// templateFuncs returns the template functions. A nil request yields placeholders used only while parsing.
func templateFuncs(r *http.Request) template.FuncMap {
	var (
		nonce   string
		csrf    string
		printer = message.NewPrinter(language.English)
	)
	if r != nil {
		ctx := r.Context()
		nonce = fmt.Sprintf("nonce=%q", contexthelpers.CSPNonce(ctx))
		csrf = fmt.Sprintf(`<input type="hidden" name="csrf_token" value=%q>`, contexthelpers.CSRFToken(ctx))
		printer = message.NewPrinter(requestLanguage(r))
	}
	return template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // we trust the csrf since it's not provided by user.
		},
		"decimal": func(v float64, digits int) string {
			return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(digits)))
		},
		"percent": func(v float64) string {
			return printer.Sprint(number.Percent(v/100, number.MaxFractionDigits(1))) //nolint:mnd // 0-100 scale
		},
		// cssNumber formats numbers that end up in CSS or form values where locale separators do not belong.
		"cssNumber": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 2, 64) //nolint:mnd // two decimals suffice
		},
		"barWidth": func(v, peak float64) string {
			if peak <= 0 {
				return "0"
			}
			return strconv.FormatFloat(v/peak*100, 'f', 1, 64) //nolint:mnd // percent of the peak
		},
	}
}

func (app *application) execute(r *http.Request, page string, names []string, data any) (*bytes.Buffer, error) {
	master, ok := app.templates[page]
	if !ok {
		return nil, errors.New("unknown page", slog.String("page", page))
	}
	t, err := master.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "clone template", slog.String("page", page))
	}
	t.Funcs(templateFuncs(r))

	buf := new(bytes.Buffer)
	for _, name := range names {
		if err = t.ExecuteTemplate(buf, name, data); err != nil {
			return nil, errors.Wrap(err, "execute template", slog.String("page", page), slog.String("name", name))
		}
	}
	return buf, nil
}

// render writes the full page.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	app.write(w, r, status, page, []string{"base"}, data)
}

// renderPartial writes the named templates of a page one after another, used to answer htmx swaps.
func (app *application) renderPartial(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	page string,
	data any,
	names ...string,
) {
	app.write(w, r, status, page, names, data)
}

func (app *application) write(w http.ResponseWriter, r *http.Request, status int, page string, names []string,
	data any) {
	buf, err := app.execute(r, page, names, data)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
