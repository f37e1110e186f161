package subtitle

import (
	"fmt"
	"time"
)

// Entry is a single timed text cue belonging to one track.
type Entry struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Identity keys an entry for animation purposes. Two entries with the same
// start time and text animate as the same element across frames and seeks.
type Identity struct {
	Start time.Duration
	Text  string
}

// returns the identity of this entry
func (e Entry) Identity() Identity {
	return Identity{Start: e.Start, Text: e.Text}
}

// Track is one of the fixed set of independently timed text channels.
type Track int

const (
	TrackMain Track = iota
	TrackTranslation
	TrackDescription
)

func (t Track) String() string {
	switch t {
	case TrackMain:
		return "main"
	case TrackTranslation:
		return "translation"
	case TrackDescription:
		return "description"
	default:
		return fmt.Sprintf("track(%d)", int(t))
	}
}

// ParseTrack converts a track name from an external boundary (config files,
// CLI flags) into a Track. Unknown names are an error for the caller to
// report; they never reach the compositor as a live track.
func ParseTrack(s string) (Track, error) {
	switch s {
	case "main":
		return TrackMain, nil
	case "translation":
		return TrackTranslation, nil
	case "description":
		return TrackDescription, nil
	default:
		return 0, fmt.Errorf("unknown track %q: use main, translation, or description", s)
	}
}

// Tracks returns all tracks in paint order: main, then translation, then
// description.
func Tracks() []Track {
	return []Track{TrackMain, TrackTranslation, TrackDescription}
}
