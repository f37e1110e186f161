package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/skylar-Youn/subpreview/internal/anim"
	"github.com/skylar-Youn/subpreview/internal/fonts"
	"github.com/skylar-Youn/subpreview/internal/style"
	"github.com/skylar-Youn/subpreview/internal/subtitle"
)

// unit carries everything needed to paint one styled text element. The
// position is the center anchor on both axes.
type unit struct {
	x, y        float64
	text        string
	fontSize    float64
	color       string
	borderWidth float64
	borderColor string
	background  string
	isSubtitle  bool
	opacity     float64
	scale       float64
	family      []string
}

// composite paints one full frame at timestamp t in fixed order: video,
// bars and mask, overlays, the three tracks, then the legacy channel.
func (c *Compositor) composite(t time.Duration) {
	if c.canvas == nil {
		return
	}

	c.paintVideo(t)
	c.paintMask()

	for _, ov := range c.overlays {
		c.paintUnit(c.overlayUnit(ov))
	}

	for _, tr := range subtitle.Tracks() {
		var entry *subtitle.Entry
		if c.enabled[tr] {
			entry = subtitle.Resolve(c.entries[tr], t)
		}
		trf := c.anim.Observe(tr, entry, t, c.animCfg)
		if entry == nil {
			continue
		}
		c.paintUnit(c.trackUnit(tr, trf))
	}

	if c.legacyEnabled {
		if e := subtitle.Resolve(c.legacy, t); e != nil {
			c.paintUnit(c.legacyUnit(e))
		}
	}

	c.composites++
}

// paintVideo fills the canvas black and scales the current frame into an
// aspect-fit rectangle; the remaining black area forms the letterbox or
// pillarbox bars.
func (c *Compositor) paintVideo(t time.Duration) {
	b := c.canvas.Bounds()
	draw.Draw(c.canvas, b, image.Black, image.Point{}, draw.Src)

	frame := c.src.Frame(t)
	if frame == nil {
		return
	}
	fb := frame.Bounds()
	if fb.Dx() <= 0 || fb.Dy() <= 0 {
		return
	}

	scale := math.Min(
		float64(b.Dx())/float64(fb.Dx()),
		float64(b.Dy())/float64(fb.Dy()),
	)
	dw := int(float64(fb.Dx()) * scale)
	dh := int(float64(fb.Dy()) * scale)
	x0 := (b.Dx() - dw) / 2
	y0 := (b.Dy() - dh) / 2

	dst := image.Rect(x0, y0, x0+dw, y0+dh)
	xdraw.ApproxBiLinear.Scale(c.canvas, dst, frame, fb, xdraw.Src, nil)
}

func (c *Compositor) paintMask() {
	if c.mask == nil {
		return
	}
	r := c.mask.Intersect(c.canvas.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.canvas, r, image.Black, image.Point{}, draw.Src)
}

func (c *Compositor) trackUnit(tr subtitle.Track, trf anim.Transform) unit {
	st := c.styles[tr]
	return unit{
		x:           float64(c.width)/2 + trf.OffsetX,
		y:           st.YPosition*float64(c.height) + trf.OffsetY,
		text:        trf.Text,
		fontSize:    st.FontSize,
		color:       st.Color,
		borderWidth: st.BorderWidth,
		borderColor: st.BorderColor,
		isSubtitle:  true,
		opacity:     trf.Opacity,
		scale:       trf.Scale,
	}
}

func (c *Compositor) overlayUnit(ov *style.Overlay) unit {
	x := float64(c.width) / 2
	if ov.X != nil {
		x = *ov.X
	}
	y := float64(c.height) / 2
	if ov.Y != nil {
		y = *ov.Y
	}
	size := ov.FontSize
	if size <= 0 {
		size = 32
	}
	return unit{
		x:           x,
		y:           y,
		text:        ov.Text,
		fontSize:    size,
		color:       ov.Color,
		borderWidth: ov.BorderWidth,
		borderColor: ov.BorderColor,
		background:  ov.Background,
		isSubtitle:  ov.IsSubtitle,
		opacity:     1,
		scale:       1,
	}
}

func (c *Compositor) legacyUnit(e *subtitle.Entry) unit {
	st := c.legacyStyle
	return unit{
		x:           float64(c.width) / 2,
		y:           st.YPosition * float64(c.height),
		text:        e.Text,
		fontSize:    st.FontSize,
		color:       st.Color,
		borderWidth: st.BorderWidth,
		borderColor: st.BorderColor,
		isSubtitle:  true,
		opacity:     1,
		scale:       1,
	}
}

// textLayout is the measured geometry of a unit's text block. The same
// measurement path feeds painting, background sizing, and hit-testing.
type textLayout struct {
	face       font.Face
	lines      []string
	widths     []float64
	ascent     float64
	lineHeight float64
	blockW     float64
	blockH     float64
	scale      float64
}

func (c *Compositor) layout(u unit) (textLayout, bool) {
	if u.text == "" {
		return textLayout{}, false
	}
	scale := u.scale
	if scale <= 0 {
		scale = 1
	}

	stack := u.family
	if len(stack) == 0 {
		stack = fonts.FamilyFor(u.text)
	}
	face := c.fonts.Face(stack, u.fontSize*scale)
	if face == nil {
		return textLayout{}, false
	}

	lines := strings.Split(u.text, "\n")
	ascent, descent := fonts.LineMetrics(face)
	lineHeight := ascent + descent

	widths := make([]float64, len(lines))
	blockW := 0.0
	for i, line := range lines {
		widths[i] = fonts.Measure(face, line)
		if widths[i] > blockW {
			blockW = widths[i]
		}
	}

	return textLayout{
		face:       face,
		lines:      lines,
		widths:     widths,
		ascent:     ascent,
		lineHeight: lineHeight,
		blockW:     blockW,
		blockH:     lineHeight * float64(len(lines)),
		scale:      scale,
	}, true
}

// paintUnit draws one text unit: background box, shadow, stroke, then fill,
// in that order. The background box is never shadowed. Typing substitution
// already happened upstream, so the box is sized to the visible prefix.
func (c *Compositor) paintUnit(u unit) {
	opacity := u.opacity
	if u.isSubtitle {
		opacity *= c.effects.GlobalOpacity
	}
	if opacity <= 0 {
		return
	}

	lay, ok := c.layout(u)
	if !ok {
		return
	}

	if u.isSubtitle && c.effects.Background.Enabled {
		pad := c.effects.Background.Padding * lay.scale
		col := style.ParseColorDefault(c.effects.Background.Color, color.NRGBA{A: 0xff})
		col = style.WithAlpha(col, opacity*c.effects.Background.Opacity)
		c.fillRect(u.x-lay.blockW/2-pad, u.y-lay.blockH/2-pad,
			lay.blockW+2*pad, lay.blockH+2*pad, col)
	} else if u.background != "" {
		if col, err := style.ParseColor(u.background); err == nil {
			pad := 8 * lay.scale
			c.fillRect(u.x-lay.blockW/2-pad, u.y-lay.blockH/2-pad,
				lay.blockW+2*pad, lay.blockH+2*pad, style.WithAlpha(col, opacity))
		}
	}

	bw := u.borderWidth
	if bw <= 0 {
		bw = defaultBorderWidth(u.fontSize)
	}
	bw *= lay.scale

	fill := style.WithAlpha(style.ParseColorDefault(u.color, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}), opacity)
	border := style.WithAlpha(style.ParseColorDefault(u.borderColor, color.NRGBA{A: 0xff}), opacity)

	top := u.y - lay.blockH/2
	for i, line := range lay.lines {
		if line == "" {
			continue
		}
		baseline := top + lay.lineHeight*float64(i) + lay.ascent
		left := u.x - lay.widths[i]/2

		if u.isSubtitle && c.effects.Shadow.Enabled {
			c.paintShadow(lay.face, line, left, baseline, opacity)
		}
		c.paintStroke(lay.face, line, left, baseline, bw, border)
		c.drawString(lay.face, line, left, baseline, fill)
	}
}

// defaultBorderWidth is the renderer default shared with the offline
// pipeline: max(4, floor(fontSize/10)).
func defaultBorderWidth(fontSize float64) float64 {
	w := math.Floor(fontSize * 0.1)
	if w < 4 {
		return 4
	}
	return w
}

// paintStroke renders the outline as a ring of offset fill passes, the
// pure-Go equivalent of round-join stroking.
func (c *Compositor) paintStroke(face font.Face, line string, left, baseline, bw float64, col color.NRGBA) {
	if bw <= 0 || col.A == 0 {
		return
	}
	const steps = 16
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / steps
		c.drawString(face, line, left+bw*math.Cos(a), baseline+bw*math.Sin(a), col)
	}
	if bw > 2 {
		// inner ring keeps thick strokes solid
		for i := 0; i < 8; i++ {
			a := 2 * math.Pi * float64(i) / 8
			c.drawString(face, line, left+bw/2*math.Cos(a), baseline+bw/2*math.Sin(a), col)
		}
	}
}

// paintShadow approximates a soft drop shadow with concentric low-alpha
// rings out to the blur radius. Applied to stroke and fill only; the caller
// suspends it for the background box by painting the box first.
func (c *Compositor) paintShadow(face font.Face, line string, left, baseline, opacity float64) {
	sh := c.effects.Shadow
	col := style.ParseColorDefault(sh.Color, color.NRGBA{A: 0xff})
	blur := sh.Blur
	if blur <= 0 {
		blur = 1
	}

	const rings = 3
	soft := style.WithAlpha(col, opacity*sh.Opacity/rings)
	if soft.A == 0 {
		return
	}
	for r := 1; r <= rings; r++ {
		radius := blur * float64(r) / rings
		for i := 0; i < 8; i++ {
			a := 2 * math.Pi * float64(i) / 8
			c.drawString(face, line, left+radius*math.Cos(a), baseline+radius*math.Sin(a), soft)
		}
	}
}

func (c *Compositor) drawString(face font.Face, text string, x, baseline float64, col color.NRGBA) {
	if col.A == 0 {
		return
	}
	d := font.Drawer{
		Dst:  c.canvas,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: floatToFixed(x),
			Y: floatToFixed(baseline),
		},
	}
	d.DrawString(text)
}

func (c *Compositor) fillRect(x, y, w, h float64, col color.NRGBA) {
	if col.A == 0 {
		return
	}
	r := image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+w)), int(math.Round(y+h)),
	).Intersect(c.canvas.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.canvas, r, image.NewUniform(col), image.Point{}, draw.Over)
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
