package style

import (
	"time"

	"github.com/skylar-Youn/subpreview/internal/subtitle"
)

// TrackStyle holds the mutable visual settings of one subtitle track.
// YPosition is a fraction of canvas height in [0,1]; BorderWidth zero means
// the renderer default of max(4, floor(fontSize/10)).
type TrackStyle struct {
	YPosition   float64
	FontSize    float64
	Color       string
	BorderWidth float64
	BorderColor string
}

// TrackStyleUpdate is a partial style change; nil fields keep the current
// value.
type TrackStyleUpdate struct {
	YPosition   *float64
	FontSize    *float64
	Color       *string
	BorderWidth *float64
	BorderColor *string
}

// Apply merges the non-nil fields of the update into the style.
func (s *TrackStyle) Apply(u TrackStyleUpdate) {
	if u.YPosition != nil {
		s.YPosition = clamp01(*u.YPosition)
	}
	if u.FontSize != nil && *u.FontSize > 0 {
		s.FontSize = *u.FontSize
	}
	if u.Color != nil {
		s.Color = *u.Color
	}
	if u.BorderWidth != nil && *u.BorderWidth >= 0 {
		s.BorderWidth = *u.BorderWidth
	}
	if u.BorderColor != nil {
		s.BorderColor = *u.BorderColor
	}
}

// Overlay is a free-form text element. Nil X or Y centers the element on
// that axis. Background empty means no box. Zero BorderWidth means the
// renderer default, as in TrackStyle. IsSubtitle opts the overlay into the
// global subtitle effects.
type Overlay struct {
	X           *float64
	Y           *float64
	Text        string
	FontSize    float64
	Color       string
	BorderWidth float64
	BorderColor string
	Background  string
	IsSubtitle  bool
}

// AnimationType selects the entrance animation applied to track subtitles.
type AnimationType string

const (
	AnimationNone       AnimationType = "none"
	AnimationFadeIn     AnimationType = "fadeIn"
	AnimationSlideUp    AnimationType = "slideUp"
	AnimationSlideDown  AnimationType = "slideDown"
	AnimationSlideLeft  AnimationType = "slideLeft"
	AnimationSlideRight AnimationType = "slideRight"
	AnimationZoom       AnimationType = "zoom"
	AnimationBounce     AnimationType = "bounce"
	AnimationTyping     AnimationType = "typing"
)

// ParseAnimationType validates an animation name from an external boundary.
func ParseAnimationType(s string) (AnimationType, bool) {
	switch AnimationType(s) {
	case AnimationNone, AnimationFadeIn, AnimationSlideUp, AnimationSlideDown,
		AnimationSlideLeft, AnimationSlideRight, AnimationZoom,
		AnimationBounce, AnimationTyping:
		return AnimationType(s), true
	}
	return "", false
}

// AnimationConfig is the single global animation setting shared by all
// tracks.
type AnimationConfig struct {
	Type     AnimationType
	Duration time.Duration
	Delay    time.Duration
}

// ShadowEffect is a soft drop shadow applied to subtitle stroke and fill.
type ShadowEffect struct {
	Enabled bool
	Blur    float64
	Opacity float64
	Color   string
}

// BackgroundEffect draws a padded box behind subtitle text.
type BackgroundEffect struct {
	Enabled bool
	Color   string
	Opacity float64
	Padding float64
}

// Effects applies uniformly to every paint marked as a subtitle.
type Effects struct {
	Shadow        ShadowEffect
	Background    BackgroundEffect
	GlobalOpacity float64
}

// ShadowUpdate is a partial shadow change; nil fields keep current values.
type ShadowUpdate struct {
	Blur    *float64
	Opacity *float64
	Color   *string
}

func (e *ShadowEffect) Apply(u ShadowUpdate) {
	if u.Blur != nil && *u.Blur >= 0 {
		e.Blur = *u.Blur
	}
	if u.Opacity != nil {
		e.Opacity = clamp01(*u.Opacity)
	}
	if u.Color != nil {
		e.Color = *u.Color
	}
}

// BackgroundUpdate is a partial background change; nil fields keep current
// values.
type BackgroundUpdate struct {
	Color   *string
	Opacity *float64
	Padding *float64
}

func (e *BackgroundEffect) Apply(u BackgroundUpdate) {
	if u.Color != nil {
		e.Color = *u.Color
	}
	if u.Opacity != nil {
		e.Opacity = clamp01(*u.Opacity)
	}
	if u.Padding != nil && *u.Padding >= 0 {
		e.Padding = *u.Padding
	}
}

// EffectKind names a toggleable global effect.
type EffectKind string

const (
	EffectShadow     EffectKind = "shadow"
	EffectBackground EffectKind = "background"
)

// DefaultTrackStyles returns the construction-time style of each track.
func DefaultTrackStyles() map[subtitle.Track]*TrackStyle {
	return map[subtitle.Track]*TrackStyle{
		subtitle.TrackMain: {
			YPosition:   0.85,
			FontSize:    48,
			Color:       "#ffffff",
			BorderColor: "#000000",
		},
		subtitle.TrackTranslation: {
			YPosition:   0.75,
			FontSize:    36,
			Color:       "#ffe066",
			BorderColor: "#000000",
		},
		subtitle.TrackDescription: {
			YPosition:   0.08,
			FontSize:    32,
			Color:       "#e0e0e0",
			BorderColor: "#000000",
		},
	}
}

// DefaultEffects returns the construction-time effect settings.
func DefaultEffects() Effects {
	return Effects{
		Shadow: ShadowEffect{
			Blur:    8,
			Opacity: 0.8,
			Color:   "#000000",
		},
		Background: BackgroundEffect{
			Color:   "#000000",
			Opacity: 0.5,
			Padding: 10,
		},
		GlobalOpacity: 1,
	}
}

// DefaultAnimation returns the construction-time animation settings.
func DefaultAnimation() AnimationConfig {
	return AnimationConfig{
		Type:     AnimationNone,
		Duration: 500 * time.Millisecond,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
