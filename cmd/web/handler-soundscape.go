package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/myrjola/terratracker/internal/soundscape"
)

// updateSoundscape changes the volume or toggles mute. Fields that are not posted keep their value.
// The volume field is the slider position in percent, with or without a trailing "%".
func (app *application) updateSoundscape(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "malformed soundscape form")
		return
	}
	settings := app.soundSettings(ctx)
	if raw := r.PostForm.Get("volume"); raw != "" {
		volume, err := soundscape.ParseVolume(strings.TrimSuffix(raw, "%") + "%")
		if err != nil {
			app.clientError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		settings.Volume = volume
	}
	if raw := r.PostForm.Get("muted"); raw != "" {
		muted, err := strconv.ParseBool(raw)
		if err != nil {
			app.clientError(w, r, http.StatusBadRequest, "malformed muted flag")
			return
		}
		settings.Muted = muted
	}
	app.sessionManager.Put(ctx, soundSessionKey, settings)

	returnPath := safeReturnPath(r.PostForm.Get("return"))
	if app.htmx.NewHandler(w, r).Request().HxRequest {
		view := soundView{
			Settings: settings,
			Track:    soundscape.TrackFor(sectionFor(returnPath)),
			Return:   returnPath,
		}
		app.renderPartial(w, r, http.StatusOK, "home", view, "soundscape")
		return
	}
	redirect(w, r, returnPath)
}

// safeReturnPath only allows local absolute paths so that the form cannot redirect off-site.
func safeReturnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.ContainsAny(p, `\`) {
		return "/"
	}
	return p
}

// sectionFor tells which ambience plays on the page at p.
func sectionFor(p string) soundscape.Section {
	for _, prefix := range []string{"/investigation", "/clues/", "/nasa"} {
		if strings.HasPrefix(p, prefix) {
			return soundscape.SectionInvestigation
		}
	}
	return soundscape.SectionHome
}
