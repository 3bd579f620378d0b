// Package soundscape decides which ambient track plays and how loud.
package soundscape

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/myrjola/terratracker/internal/errors"
)

// Section of the site that has its own ambience.
type Section string

const (
	SectionHome          Section = "home"
	SectionInvestigation Section = "investigation"
)

// DefaultVolume is used until the player moves the slider.
const DefaultVolume = 0.3

const (
	quietVolume  = 0.3
	mediumVolume = 0.7
)

var ErrInvalidVolume = errors.NewSentinel("invalid volume")

// TrackFor returns the static path of the ambient track of a section.
func TrackFor(section Section) string {
	if section == SectionInvestigation {
		return "/static/audio/investigation-ambient.mp3"
	}
	return "/static/audio/forest-ambient.mp3"
}

// Settings are the player's audio preferences, kept in the session.
type Settings struct {
	Volume float64
	Muted  bool
}

// DefaultSettings returns unmuted settings at [DefaultVolume].
func DefaultSettings() Settings {
	return Settings{Volume: DefaultVolume, Muted: false}
}

// Effective is the volume the player actually hears.
func (s Settings) Effective() float64 {
	if s.Muted {
		return 0
	}
	return s.Volume
}

// Icon is the speaker glyph for the current volume.
func (s Settings) Icon() string {
	volume := s.Effective()
	switch {
	case volume <= 0:
		return "🔇"
	case volume <= quietVolume:
		return "🔈"
	case volume <= mediumVolume:
		return "🔉"
	default:
		return "🔊"
	}
}

// Percent renders the volume for the slider, 0 to 100.
func (s Settings) Percent() int {
	return int(math.Round(s.Volume * 100)) //nolint:mnd // percent
}

// ParseVolume parses a volume either as a fraction (0.4) or as a slider percentage (40%) and clamps it to [0, 1].
func ParseVolume(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	percent := strings.HasSuffix(raw, "%")
	value, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
	if err != nil || math.IsNaN(value) {
		return 0, errors.Wrap(ErrInvalidVolume, "parse volume", slog.String("volume", raw))
	}
	if percent {
		value /= 100
	}
	return math.Max(0, math.Min(1, value)), nil
}
