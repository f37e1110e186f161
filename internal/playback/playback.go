package playback

import (
	"image"
	"time"
)

// Source is the external playback collaborator. It is owned elsewhere; the
// compositor only reads from it.
type Source interface {
	// CurrentTime is the playback position.
	CurrentTime() time.Duration

	// Duration is the total media length.
	Duration() time.Duration

	// Size is the natural pixel dimensions of the media. Zero until
	// metadata is available.
	Size() (width, height int)

	// Frame returns the decoded frame at t, or nil when no frame is
	// available yet.
	Frame(t time.Duration) image.Image
}

// Seeker is implemented by sources that accept position changes.
type Seeker interface {
	Seek(t time.Duration)
}

// Event is a playback lifecycle notification delivered to the compositor.
type Event int

const (
	EventMetadataReady Event = iota
	EventPlayed
	EventPaused
	EventSeeked
)

func (e Event) String() string {
	switch e {
	case EventMetadataReady:
		return "metadataReady"
	case EventPlayed:
		return "played"
	case EventPaused:
		return "paused"
	case EventSeeked:
		return "seeked"
	default:
		return "unknown"
	}
}
