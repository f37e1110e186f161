package compositor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"time"

	"github.com/skylar-Youn/subpreview/internal/anim"
	"github.com/skylar-Youn/subpreview/internal/fonts"
	"github.com/skylar-Youn/subpreview/internal/logging"
	"github.com/skylar-Youn/subpreview/internal/playback"
	"github.com/skylar-Youn/subpreview/internal/style"
	"github.com/skylar-Youn/subpreview/internal/subtitle"
)

// Compositor renders a live preview of a playback source with overlaid
// subtitle tracks and free-form text elements, kept pixel-parity with the
// offline renderer. All state is owned by the instance and mutated only on
// the host's event thread; there is no internal locking.
type Compositor struct {
	log   *logging.Logger
	src   playback.Source
	fonts *fonts.Library
	sched *playback.Scheduler

	canvas *image.RGBA
	width  int
	height int

	entries map[subtitle.Track][]subtitle.Entry
	enabled map[subtitle.Track]bool
	styles  map[subtitle.Track]*style.TrackStyle

	overlays []*style.Overlay
	effects  style.Effects
	animCfg  style.AnimationConfig
	anim     *anim.Machine

	// legacy single-subtitle channel, evaluated independently of the
	// three-track model and painted last
	legacy        []subtitle.Entry
	legacyEnabled bool
	legacyStyle   style.TrackStyle

	mask *image.Rectangle

	drag     dragSession
	hovering bool

	composites int
}

// Options configures construction. Zero values get working defaults.
type Options struct {
	Logger   *logging.Logger
	Fonts    *fonts.Library
	Schedule playback.ScheduleFunc
}

// New builds a compositor over a playback source with default styles,
// effects, and animation settings.
func New(src playback.Source, opts Options) *Compositor {
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	lib := opts.Fonts
	if lib == nil {
		lib = fonts.NewLibrary(log)
	}

	styles := style.DefaultTrackStyles()
	enabled := make(map[subtitle.Track]bool, len(styles))
	for _, tr := range subtitle.Tracks() {
		enabled[tr] = true
	}

	return &Compositor{
		log:         log,
		src:         src,
		fonts:       lib,
		sched:       playback.NewScheduler(opts.Schedule),
		entries:     make(map[subtitle.Track][]subtitle.Entry),
		enabled:     enabled,
		styles:      styles,
		effects:     style.DefaultEffects(),
		animCfg:     style.DefaultAnimation(),
		anim:        anim.NewMachine(),
		legacyStyle: style.TrackStyle{YPosition: 0.92, FontSize: 40, Color: "#ffffff", BorderColor: "#000000"},
	}
}

// HandleEvent reacts to a playback lifecycle event. Play starts the frame
// loop, pause stops it, and seek or metadata arrival while stopped performs
// exactly one synchronous render so the preview reflects the new position
// without starting continuous rendering.
func (c *Compositor) HandleEvent(ev playback.Event) {
	switch ev {
	case playback.EventMetadataReady:
		c.ensureCanvas()
		c.requestRender()
	case playback.EventPlayed:
		c.ensureCanvas()
		c.sched.Start(c.renderFrame)
	case playback.EventPaused:
		c.sched.Stop()
	case playback.EventSeeked:
		c.requestRender()
	default:
		c.log.Warnw("ignoring unknown playback event", "event", ev)
	}
}

// renderFrame samples the clock exactly once per tick; every track in the
// pass observes the same instant.
func (c *Compositor) renderFrame() {
	c.composite(c.src.CurrentTime())
}

// RenderOnce performs a single synchronous render at the current position.
func (c *Compositor) RenderOnce() {
	c.ensureCanvas()
	c.renderFrame()
}

// requestRender renders immediately unless the loop is running, in which
// case the next tick naturally picks the change up.
func (c *Compositor) requestRender() {
	if c.sched.Running() {
		return
	}
	c.RenderOnce()
}

// ensureCanvas sizes the backing store once from the source's natural
// dimensions when metadata becomes available.
func (c *Compositor) ensureCanvas() {
	if c.canvas != nil {
		return
	}
	w, h := c.src.Size()
	if w <= 0 || h <= 0 {
		return
	}
	c.width, c.height = w, h
	c.canvas = image.NewRGBA(image.Rect(0, 0, w, h))
	c.log.Debugw("canvas sized", "width", w, "height", h)
}

// Running reports whether the frame loop is active.
func (c *Compositor) Running() bool {
	return c.sched.Running()
}

// SetTimelineSubtitles replaces a track's entries wholesale. Entries are
// expected sorted by start time and non-overlapping.
func (c *Compositor) SetTimelineSubtitles(tr subtitle.Track, entries []subtitle.Entry) {
	c.entries[tr] = entries
	c.requestRender()
}

// SetSubtitleEnabled toggles a track's visibility.
func (c *Compositor) SetSubtitleEnabled(tr subtitle.Track, enabled bool) {
	c.enabled[tr] = enabled
	c.requestRender()
}

// UpdateSubtitleStyle merges a partial style change into a track.
func (c *Compositor) UpdateSubtitleStyle(tr subtitle.Track, update style.TrackStyleUpdate) {
	if st, ok := c.styles[tr]; ok {
		st.Apply(update)
	}
	c.requestRender()
}

// UpdateSubtitlePosition moves a track's anchor to a canvas-height fraction,
// clamped to [0,1].
func (c *Compositor) UpdateSubtitlePosition(tr subtitle.Track, yFraction float64) {
	if st, ok := c.styles[tr]; ok {
		st.Apply(style.TrackStyleUpdate{YPosition: &yFraction})
	}
	c.requestRender()
}

// SetEffectEnabled toggles a global subtitle effect. An unknown kind is
// reported to the log and ignored.
func (c *Compositor) SetEffectEnabled(kind style.EffectKind, enabled bool) {
	switch kind {
	case style.EffectShadow:
		c.effects.Shadow.Enabled = enabled
	case style.EffectBackground:
		c.effects.Background.Enabled = enabled
	default:
		c.log.Warnw("unknown effect kind", "kind", kind)
		return
	}
	c.requestRender()
}

// UpdateShadowEffect merges a partial shadow change.
func (c *Compositor) UpdateShadowEffect(update style.ShadowUpdate) {
	c.effects.Shadow.Apply(update)
	c.requestRender()
}

// UpdateBackgroundEffect merges a partial background change.
func (c *Compositor) UpdateBackgroundEffect(update style.BackgroundUpdate) {
	c.effects.Background.Apply(update)
	c.requestRender()
}

// SetGlobalOpacity sets the opacity multiplier applied to every subtitle
// paint, clamped to [0,1].
func (c *Compositor) SetGlobalOpacity(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	c.effects.GlobalOpacity = v
	c.requestRender()
}

// SetAnimationType switches the global animation and resets every track's
// animation state so stale identities never drive the new curve.
func (c *Compositor) SetAnimationType(t style.AnimationType) {
	if c.animCfg.Type == t {
		return
	}
	c.animCfg.Type = t
	c.anim.Reset()
	c.requestRender()
}

// SetAnimationDuration sets how long the entrance animation runs.
func (c *Compositor) SetAnimationDuration(d time.Duration) {
	if d <= 0 {
		c.log.Warnw("ignoring non-positive animation duration", "duration", d)
		return
	}
	c.animCfg.Duration = d
	c.requestRender()
}

// SetAnimationDelay sets the wait before the entrance animation starts.
func (c *Compositor) SetAnimationDelay(d time.Duration) {
	if d < 0 {
		c.log.Warnw("ignoring negative animation delay", "delay", d)
		return
	}
	c.animCfg.Delay = d
	c.requestRender()
}

// AddOverlay appends a free-form text element. Insertion order is paint and
// hit-test priority.
func (c *Compositor) AddOverlay(ov style.Overlay) {
	c.overlays = append(c.overlays, &ov)
	c.requestRender()
}

// ClearOverlays removes every overlay.
func (c *Compositor) ClearOverlays() {
	c.overlays = nil
	c.requestRender()
}

// SetMaskRect draws an opaque masking rectangle over the video each frame.
func (c *Compositor) SetMaskRect(r image.Rectangle) {
	c.mask = &r
	c.requestRender()
}

// ClearMaskRect removes the masking rectangle.
func (c *Compositor) ClearMaskRect() {
	c.mask = nil
	c.requestRender()
}

// SeekToTime moves the playback position when the source supports it.
func (c *Compositor) SeekToTime(t time.Duration) {
	if s, ok := c.src.(playback.Seeker); ok {
		s.Seek(t)
	}
	c.requestRender()
}

// LoadLegacySRT parses the legacy single-subtitle channel from SRT content.
// Malformed blocks are skipped by the parser.
func (c *Compositor) LoadLegacySRT(r io.Reader) error {
	entries, err := subtitle.Parse(r)
	if err != nil {
		return fmt.Errorf("load legacy subtitles: %w", err)
	}
	c.legacy = entries
	c.legacyEnabled = true
	c.requestRender()
	return nil
}

// SetLegacyEnabled toggles the legacy channel.
func (c *Compositor) SetLegacyEnabled(enabled bool) {
	c.legacyEnabled = enabled
	c.requestRender()
}

// LoadFonts loads font files from dir and re-renders. Failure is non-fatal:
// it is logged and the embedded fallback faces keep serving.
func (c *Compositor) LoadFonts(dir string) {
	if err := c.fonts.LoadDir(dir); err != nil {
		c.log.Warnw("font load failed, using fallback fonts", "dir", dir, "error", err)
	}
	c.requestRender()
}

// Animation returns the current global animation settings.
func (c *Compositor) Animation() style.AnimationConfig {
	return c.animCfg
}

// EffectsSettings returns the current global effect settings.
func (c *Compositor) EffectsSettings() style.Effects {
	return c.effects
}

// TrackStyle returns a copy of a track's current style.
func (c *Compositor) TrackStyle(tr subtitle.Track) style.TrackStyle {
	if st, ok := c.styles[tr]; ok {
		return *st
	}
	return style.TrackStyle{}
}

// TrackEnabled reports whether a track is visible.
func (c *Compositor) TrackEnabled(tr subtitle.Track) bool {
	return c.enabled[tr]
}

// Overlays returns copies of the current overlays in insertion order.
func (c *Compositor) Overlays() []style.Overlay {
	out := make([]style.Overlay, len(c.overlays))
	for i, ov := range c.overlays {
		out[i] = *ov
	}
	return out
}

// CaptureFrame encodes the current canvas as PNG bytes.
func (c *Compositor) CaptureFrame() ([]byte, error) {
	if c.canvas == nil {
		return nil, errors.New("no frame rendered yet")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.canvas); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// CaptureFrameAsDataURL encodes the current canvas as a PNG data URL.
func (c *Compositor) CaptureFrameAsDataURL() (string, error) {
	data, err := c.CaptureFrame()
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
