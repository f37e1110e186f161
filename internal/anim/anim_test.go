package anim

import (
	"math"
	"testing"
	"time"

	"github.com/skylar-Youn/subpreview/internal/style"
	"github.com/skylar-Youn/subpreview/internal/subtitle"
)

func sec(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func fadeIn(duration, delay float64) style.AnimationConfig {
	return style.AnimationConfig{
		Type:     style.AnimationFadeIn,
		Duration: sec(duration),
		Delay:    sec(delay),
	}
}

func TestActivationTimeIsEntryStart(t *testing.T) {
	m := NewMachine()
	entry := &subtitle.Entry{Start: sec(2), End: sec(5), Text: "A"}

	// resolver happens to be called mid-entry; activation must still be
	// the entry's start time
	m.Observe(subtitle.TrackMain, entry, sec(3.5), fadeIn(1, 0))

	activation, ok := m.ActivationTime(subtitle.TrackMain)
	if !ok {
		t.Fatal("expected armed state for main track")
	}
	if activation != sec(2) {
		t.Errorf("activation = %v, want 2s", activation)
	}
}

func TestSeekWithinEntryKeepsActivation(t *testing.T) {
	m := NewMachine()
	cfg := fadeIn(1, 0)
	entry := &subtitle.Entry{Start: sec(2), End: sec(8), Text: "A"}

	first := m.Observe(subtitle.TrackMain, entry, sec(2.5), cfg)

	// seek backward and forward within the same entry
	m.Observe(subtitle.TrackMain, entry, sec(2.1), cfg)
	again := m.Observe(subtitle.TrackMain, entry, sec(2.5), cfg)

	activation, _ := m.ActivationTime(subtitle.TrackMain)
	if activation != sec(2) {
		t.Errorf("activation after seek = %v, want 2s", activation)
	}
	if first.Opacity != again.Opacity {
		t.Errorf("replay at same instant differs: %v vs %v", first.Opacity, again.Opacity)
	}
}

func TestProgressMonotonicAndClamped(t *testing.T) {
	cfg := fadeIn(1, 0.5)
	activation := sec(2)

	if p := Progress(activation, sec(2.4), cfg); p != 0 {
		t.Errorf("progress before activation+delay = %v, want 0", p)
	}

	prev := -1.0
	for _, at := range []float64{2.5, 2.6, 2.9, 3.2, 3.5, 4, 10} {
		p := Progress(activation, sec(at), cfg)
		if p < prev {
			t.Errorf("progress at %vs = %v, decreased from %v", at, p, prev)
		}
		if p < 0 || p > 1 {
			t.Errorf("progress at %vs = %v, out of [0,1]", at, p)
		}
		prev = p
	}

	// exactly 1 at activation + delay + duration
	if p := Progress(activation, sec(3.5), cfg); p != 1 {
		t.Errorf("progress at end = %v, want exactly 1", p)
	}
}

func TestFadeInOpacity(t *testing.T) {
	m := NewMachine()
	entry := &subtitle.Entry{Start: 0, End: sec(2), Text: "A"}

	tr := m.Observe(subtitle.TrackMain, entry, sec(0.5), fadeIn(1, 0))

	// ease(0.5) = 1 - 0.5^3 = 0.875
	if math.Abs(tr.Opacity-0.875) > 1e-9 {
		t.Errorf("opacity = %v, want 0.875", tr.Opacity)
	}
}

func TestTypingPrefix(t *testing.T) {
	m := NewMachine()
	cfg := style.AnimationConfig{Type: style.AnimationTyping, Duration: sec(1)}
	entry := &subtitle.Entry{Start: 0, End: sec(2), Text: "ABCDE"}

	// ease(0.4) = 0.784, floor(5 * 0.784) = 3
	tr := m.Observe(subtitle.TrackMain, entry, sec(0.4), cfg)
	if tr.Text != "ABC" {
		t.Errorf("visible text = %q, want %q", tr.Text, "ABC")
	}
	if tr.Opacity != 1 {
		t.Errorf("typing must not change opacity, got %v", tr.Opacity)
	}

	// settled: full text
	tr = m.Observe(subtitle.TrackMain, entry, sec(5), cfg)
	if tr.Text != "ABCDE" {
		t.Errorf("settled text = %q, want full text", tr.Text)
	}
}

func TestTypingMultibyteText(t *testing.T) {
	m := NewMachine()
	cfg := style.AnimationConfig{Type: style.AnimationTyping, Duration: sec(1)}
	entry := &subtitle.Entry{Start: 0, End: sec(2), Text: "안녕하세요"}

	tr := m.Observe(subtitle.TrackMain, entry, sec(0.4), cfg)
	if tr.Text != "안녕하" {
		t.Errorf("visible text = %q, want %q", tr.Text, "안녕하")
	}
}

func TestIdentityChangeRearms(t *testing.T) {
	m := NewMachine()
	cfg := fadeIn(1, 0)
	first := &subtitle.Entry{Start: 0, End: sec(2), Text: "A"}
	second := &subtitle.Entry{Start: sec(2), End: sec(4), Text: "B"}

	m.Observe(subtitle.TrackMain, first, sec(1), cfg)
	m.Observe(subtitle.TrackMain, second, sec(2.1), cfg)

	activation, _ := m.ActivationTime(subtitle.TrackMain)
	if activation != sec(2) {
		t.Errorf("activation after identity change = %v, want 2s", activation)
	}
}

func TestNilEntryClearsState(t *testing.T) {
	m := NewMachine()
	cfg := fadeIn(1, 0)
	entry := &subtitle.Entry{Start: 0, End: sec(2), Text: "A"}

	m.Observe(subtitle.TrackMain, entry, sec(1), cfg)
	m.Observe(subtitle.TrackMain, nil, sec(3), cfg)

	if _, ok := m.ActivationTime(subtitle.TrackMain); ok {
		t.Error("expected cleared state after nil entry")
	}

	// re-entering the entry later re-arms with the same activation
	m.Observe(subtitle.TrackMain, entry, sec(1.5), cfg)
	activation, ok := m.ActivationTime(subtitle.TrackMain)
	if !ok || activation != 0 {
		t.Errorf("re-armed activation = %v, %v; want 0s, true", activation, ok)
	}
}

func TestTracksAreIndependent(t *testing.T) {
	m := NewMachine()
	cfg := fadeIn(1, 0)
	a := &subtitle.Entry{Start: 0, End: sec(2), Text: "A"}
	b := &subtitle.Entry{Start: sec(1), End: sec(3), Text: "B"}

	m.Observe(subtitle.TrackMain, a, sec(1.5), cfg)
	m.Observe(subtitle.TrackTranslation, b, sec(1.5), cfg)

	mainAct, _ := m.ActivationTime(subtitle.TrackMain)
	trAct, _ := m.ActivationTime(subtitle.TrackTranslation)
	if mainAct != 0 || trAct != sec(1) {
		t.Errorf("activations = %v, %v; want 0s, 1s", mainAct, trAct)
	}
}

func TestReset(t *testing.T) {
	m := NewMachine()
	entry := &subtitle.Entry{Start: 0, End: sec(2), Text: "A"}
	m.Observe(subtitle.TrackMain, entry, sec(1), fadeIn(1, 0))

	m.Reset()

	if _, ok := m.ActivationTime(subtitle.TrackMain); ok {
		t.Error("expected no state after reset")
	}
}

func TestNoneTypeIsSettled(t *testing.T) {
	m := NewMachine()
	cfg := style.AnimationConfig{Type: style.AnimationNone, Duration: sec(1)}
	entry := &subtitle.Entry{Start: 0, End: sec(10), Text: "A"}

	tr := m.Observe(subtitle.TrackMain, entry, sec(0.01), cfg)
	if tr.Opacity != 1 || tr.OffsetX != 0 || tr.OffsetY != 0 || tr.Scale != 1 || tr.Text != "A" {
		t.Errorf("none type must apply no transform, got %+v", tr)
	}
}

func TestTransformTable(t *testing.T) {
	entry := &subtitle.Entry{Start: 0, End: sec(10), Text: "A"}

	tests := []struct {
		typ     style.AnimationType
		offsetX float64
		offsetY float64
		scale   float64
		opacity float64
	}{
		// observed at t=0: progress 0, ease 0
		{style.AnimationSlideUp, 0, -100, 1, 0},
		{style.AnimationSlideDown, 0, 100, 1, 0},
		{style.AnimationSlideLeft, 200, 0, 1, 0},
		{style.AnimationSlideRight, -200, 0, 1, 0},
		{style.AnimationZoom, 0, 0, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			m := NewMachine()
			cfg := style.AnimationConfig{Type: tt.typ, Duration: sec(1)}
			tr := m.Observe(subtitle.TrackMain, entry, 0, cfg)

			if math.Abs(tr.OffsetX-tt.offsetX) > 1e-9 ||
				math.Abs(tr.OffsetY-tt.offsetY) > 1e-9 ||
				math.Abs(tr.Scale-tt.scale) > 1e-9 ||
				math.Abs(tr.Opacity-tt.opacity) > 1e-9 {
				t.Errorf("transform = %+v, want offsets (%v,%v) scale %v opacity %v",
					tr, tt.offsetX, tt.offsetY, tt.scale, tt.opacity)
			}
		})
	}
}

func TestBounceKeepsOpacity(t *testing.T) {
	m := NewMachine()
	cfg := style.AnimationConfig{Type: style.AnimationBounce, Duration: sec(1)}
	entry := &subtitle.Entry{Start: 0, End: sec(10), Text: "A"}

	tr := m.Observe(subtitle.TrackMain, entry, sec(0.5), cfg)
	if tr.Opacity != 1 {
		t.Errorf("bounce must not change opacity, got %v", tr.Opacity)
	}
	if tr.OffsetY > 0 {
		t.Errorf("bounce offset must be upward or zero, got %v", tr.OffsetY)
	}
	// ease(0.5) = 0.875, offset = -|sin(0.875π)| * 30
	want := -math.Abs(math.Sin(0.875*math.Pi)) * 30
	if math.Abs(tr.OffsetY-want) > 1e-9 {
		t.Errorf("bounce offset = %v, want %v", tr.OffsetY, want)
	}
}

func TestPeekDoesNotMutate(t *testing.T) {
	m := NewMachine()
	cfg := fadeIn(1, 0)
	entry := &subtitle.Entry{Start: sec(3), End: sec(5), Text: "A"}

	// peeking an unobserved entry treats it as settled and records nothing
	tr := m.Peek(subtitle.TrackMain, entry, sec(3.1), cfg)
	if tr.Opacity != 1 {
		t.Errorf("peek of unknown identity should be settled, got opacity %v", tr.Opacity)
	}
	if _, ok := m.ActivationTime(subtitle.TrackMain); ok {
		t.Error("peek must not record state")
	}

	// once observed, peek matches observe
	observed := m.Observe(subtitle.TrackMain, entry, sec(3.5), cfg)
	peeked := m.Peek(subtitle.TrackMain, entry, sec(3.5), cfg)
	if observed.Opacity != peeked.Opacity {
		t.Errorf("peek %v != observe %v", peeked.Opacity, observed.Opacity)
	}
}

func TestEase(t *testing.T) {
	tests := []struct {
		p, want float64
	}{
		{0, 0},
		{0.4, 0.784},
		{0.5, 0.875},
		{1, 1},
	}
	for _, tt := range tests {
		if got := Ease(tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Ease(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
