package compositor

import (
	"image"
	"math"

	"github.com/skylar-Youn/subpreview/internal/subtitle"
)

// dragTarget identifies what a drag session moves: a subtitle track or an
// overlay by insertion index.
type dragTarget struct {
	overlay int // -1 for track targets
	track   subtitle.Track
}

type dragSession struct {
	active  bool
	target  dragTarget
	offsetY float64 // vertical pixels between pointer and element anchor
}

// candidate is one hit-testable element with its current bounding box and
// anchor.
type candidate struct {
	target  dragTarget
	bounds  image.Rectangle
	anchorY float64
}

// hit-test priority is a fixed list, not visual z-order: translation,
// description, main, then overlays in insertion order.
var hitOrder = []subtitle.Track{
	subtitle.TrackTranslation,
	subtitle.TrackDescription,
	subtitle.TrackMain,
}

// canvasPoint converts client coordinates to canvas-pixel coordinates using
// the ratio of backing-store size to displayed size, which absorbs any CSS
// style scaling of the surface.
func (c *Compositor) canvasPoint(clientX, clientY, displayW, displayH float64) (float64, float64) {
	if displayW <= 0 || displayH <= 0 || c.width == 0 || c.height == 0 {
		return clientX, clientY
	}
	return clientX * float64(c.width) / displayW,
		clientY * float64(c.height) / displayH
}

// candidates re-derives, at the current timestamp, each enabled track's
// active entry and bounding box via the same measurement path used for
// painting, followed by every overlay box in insertion order.
func (c *Compositor) candidates() []candidate {
	now := c.src.CurrentTime()
	var out []candidate

	for _, tr := range hitOrder {
		if !c.enabled[tr] {
			continue
		}
		entry := subtitle.Resolve(c.entries[tr], now)
		if entry == nil {
			continue
		}
		trf := c.anim.Peek(tr, entry, now, c.animCfg)
		u := c.trackUnit(tr, trf)
		bounds, ok := c.unitBounds(u)
		if !ok {
			continue
		}
		out = append(out, candidate{
			target:  dragTarget{overlay: -1, track: tr},
			bounds:  bounds,
			anchorY: u.y,
		})
	}

	for i, ov := range c.overlays {
		u := c.overlayUnit(ov)
		bounds, ok := c.unitBounds(u)
		if !ok {
			continue
		}
		out = append(out, candidate{
			target:  dragTarget{overlay: i},
			bounds:  bounds,
			anchorY: u.y,
		})
	}
	return out
}

// unitBounds computes the on-screen bounding box of a unit: the measured
// text block plus the background padding when the box is drawn, otherwise
// the stroke width.
func (c *Compositor) unitBounds(u unit) (image.Rectangle, bool) {
	lay, ok := c.layout(u)
	if !ok {
		return image.Rectangle{}, false
	}

	margin := u.borderWidth
	if margin <= 0 {
		margin = defaultBorderWidth(u.fontSize)
	}
	if u.isSubtitle && c.effects.Background.Enabled {
		margin = c.effects.Background.Padding * lay.scale
	}

	return image.Rect(
		int(math.Floor(u.x-lay.blockW/2-margin)),
		int(math.Floor(u.y-lay.blockH/2-margin)),
		int(math.Ceil(u.x+lay.blockW/2+margin)),
		int(math.Ceil(u.y+lay.blockH/2+margin)),
	), true
}

func hitAt(cands []candidate, px, py float64) (candidate, bool) {
	pt := image.Pt(int(math.Round(px)), int(math.Round(py)))
	for _, cand := range cands {
		if pt.In(cand.bounds) {
			return cand, true
		}
	}
	return candidate{}, false
}

// PointerDown starts a drag session when the pointer lands inside an
// element's bounding box; the first geometric hit in priority order wins.
// Returns whether a drag began.
func (c *Compositor) PointerDown(clientX, clientY, displayW, displayH float64) bool {
	px, py := c.canvasPoint(clientX, clientY, displayW, displayH)
	cand, ok := hitAt(c.candidates(), px, py)
	if !ok {
		return false
	}
	c.drag = dragSession{
		active:  true,
		target:  cand.target,
		offsetY: py - cand.anchorY,
	}
	return true
}

// PointerMove repositions the dragged element and forces an immediate
// render outside the loop. While not dragging it only updates the hover
// affordance and mutates no persisted state.
func (c *Compositor) PointerMove(clientX, clientY, displayW, displayH float64) {
	px, py := c.canvasPoint(clientX, clientY, displayW, displayH)

	if !c.drag.active {
		_, c.hovering = hitAt(c.candidates(), px, py)
		return
	}

	anchorY := py - c.drag.offsetY
	if c.drag.target.overlay >= 0 {
		if c.drag.target.overlay < len(c.overlays) {
			y := anchorY
			c.overlays[c.drag.target.overlay].Y = &y
		}
	} else if c.height > 0 {
		fraction := anchorY / float64(c.height)
		if fraction < 0 {
			fraction = 0
		} else if fraction > 1 {
			fraction = 1
		}
		if st, ok := c.styles[c.drag.target.track]; ok {
			st.YPosition = fraction
		}
	}
	c.RenderOnce()
}

// PointerUp ends the drag session unconditionally.
func (c *Compositor) PointerUp() {
	c.drag = dragSession{}
}

// PointerLeave ends the drag session exactly like PointerUp.
func (c *Compositor) PointerLeave() {
	c.PointerUp()
}

// Hovering reports whether the pointer currently rests over a draggable
// element, for cursor affordance.
func (c *Compositor) Hovering() bool {
	return c.hovering
}
