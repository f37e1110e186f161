package anim

import (
	"math"
	"time"

	"github.com/skylar-Youn/subpreview/internal/style"
	"github.com/skylar-Youn/subpreview/internal/subtitle"
)

// Transform is the visual adjustment an animation applies to one subtitle.
// Zero offsets, Scale 1, Opacity 1, and the full text mean no transform.
type Transform struct {
	OffsetX float64
	OffsetY float64
	Scale   float64
	Opacity float64
	Text    string
}

func settled(text string) Transform {
	return Transform{Scale: 1, Opacity: 1, Text: text}
}

type trackState struct {
	id         subtitle.Identity
	activation time.Duration
}

// Machine tracks, per track, which entry is currently animating and when it
// became active. Progress is a pure function of entry identity and elapsed
// time, never of frame count, so seeking within the same entry replays the
// same curve.
type Machine struct {
	states map[subtitle.Track]trackState
}

func NewMachine() *Machine {
	return &Machine{states: make(map[subtitle.Track]trackState)}
}

// Reset clears every track's state. Called when the global animation type
// changes so stale identities never drive an obsolete curve.
func (m *Machine) Reset() {
	m.states = make(map[subtitle.Track]trackState)
}

// Observe records the active entry for a track at time now and returns the
// transform to apply. A nil entry clears the track's state. A new identity
// arms the track with the entry's start time as its activation time.
func (m *Machine) Observe(track subtitle.Track, entry *subtitle.Entry, now time.Duration, cfg style.AnimationConfig) Transform {
	if entry == nil {
		delete(m.states, track)
		return settled("")
	}

	id := entry.Identity()
	st, ok := m.states[track]
	if !ok || st.id != id {
		st = trackState{id: id, activation: entry.Start}
		m.states[track] = st
	}

	return transformFor(cfg, st.activation, now, entry.Text)
}

// Peek computes the transform the track would observe without mutating any
// state; an unknown identity is treated as settled. Hit-testing uses this so
// hover probing never disturbs animation memory.
func (m *Machine) Peek(track subtitle.Track, entry *subtitle.Entry, now time.Duration, cfg style.AnimationConfig) Transform {
	if entry == nil {
		return settled("")
	}
	st, ok := m.states[track]
	if !ok || st.id != entry.Identity() {
		return settled(entry.Text)
	}
	return transformFor(cfg, st.activation, now, entry.Text)
}

// ActivationTime reports the recorded activation time for a track.
func (m *Machine) ActivationTime(track subtitle.Track) (time.Duration, bool) {
	st, ok := m.states[track]
	return st.activation, ok
}

// Progress evaluates the clamped animation progress for an activation time.
// Before activation+delay the progress is zero; it reaches exactly 1 at
// activation+delay+duration and stays there.
func Progress(activation, now time.Duration, cfg style.AnimationConfig) float64 {
	if cfg.Duration <= 0 {
		return 1
	}
	elapsed := now - activation - cfg.Delay
	if elapsed <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(cfg.Duration)
	if p >= 1 {
		return 1
	}
	return p
}

// Ease is the shared cubic ease-out curve: 1 - (1-p)^3.
func Ease(p float64) float64 {
	inv := 1 - p
	return 1 - inv*inv*inv
}

// transformFor maps animation progress to a visual transform. Progress at or
// past 1, and type none, produce the settled transform: full opacity, no
// offset or scale, full text.
func transformFor(cfg style.AnimationConfig, activation, now time.Duration, text string) Transform {
	if cfg.Type == style.AnimationNone {
		return settled(text)
	}
	p := Progress(activation, now, cfg)
	if p >= 1 {
		return settled(text)
	}

	e := Ease(p)
	tr := settled(text)
	switch cfg.Type {
	case style.AnimationFadeIn:
		tr.Opacity = e
	case style.AnimationSlideUp:
		tr.OffsetY = -(1 - e) * 100
		tr.Opacity = e
	case style.AnimationSlideDown:
		tr.OffsetY = (1 - e) * 100
		tr.Opacity = e
	case style.AnimationSlideLeft:
		tr.OffsetX = (1 - e) * 200
		tr.Opacity = e
	case style.AnimationSlideRight:
		tr.OffsetX = -(1 - e) * 200
		tr.Opacity = e
	case style.AnimationZoom:
		tr.Scale = 0.5 + 0.5*e
		tr.Opacity = e
	case style.AnimationBounce:
		tr.OffsetY = -math.Abs(math.Sin(e*math.Pi)) * 30
	case style.AnimationTyping:
		runes := []rune(text)
		visible := int(float64(len(runes)) * e)
		if visible > len(runes) {
			visible = len(runes)
		}
		tr.Text = string(runes[:visible])
	}
	return tr
}
