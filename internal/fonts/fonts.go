package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/skylar-Youn/subpreview/internal/logging"
)

// Family fallback stacks mirror the offline renderer. Text containing CJK
// code points prefers the Korean-first stack; everything else prefers the
// latin-first stack with CJK fonts second.
var (
	cjkStack     = []string{"Noto Sans KR", "Malgun Gothic", "Apple SD Gothic Neo", "Go"}
	defaultStack = []string{"Roboto", "Noto Sans KR", "Arial", "Go"}
)

// FamilyFor maps text to a deterministic font-family fallback stack by
// script detection. Called on every paint unless the unit overrides the
// family explicitly.
func FamilyFor(text string) []string {
	for _, r := range text {
		if isCJK(r) {
			return cjkStack
		}
	}
	return defaultStack
}

// isCJK reports whether the rune falls in the Hangul, kana, or CJK
// ideograph ranges the renderer keys on.
func isCJK(r rune) bool {
	switch {
	case r >= 0xAC00 && r <= 0xD7A3: // Hangul syllables
		return true
	case r >= 0x1100 && r <= 0x11FF: // Hangul jamo
		return true
	case r >= 0x3130 && r <= 0x318F: // Hangul compatibility jamo
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
		return true
	case r >= 0x3040 && r <= 0x30FF: // Hiragana and katakana
		return true
	}
	return false
}

type faceKey struct {
	family string
	size   int // quarter-point units
}

// Library resolves family stacks to concrete faces. Fonts load from disk at
// startup; until then (or on load failure) the embedded Go fonts serve as
// the fallback so rendering degrades instead of halting.
type Library struct {
	log *logging.Logger

	mu       sync.Mutex
	families map[string]*sfnt.Font
	faces    map[faceKey]font.Face
	fallback *sfnt.Font
}

func NewLibrary(log *logging.Logger) *Library {
	if log == nil {
		log = logging.NewNop()
	}
	l := &Library{
		log:      log,
		families: make(map[string]*sfnt.Font),
		faces:    make(map[faceKey]font.Face),
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err == nil {
		l.fallback = regular
		l.families["Go"] = regular
	}
	if bold, err := opentype.Parse(gobold.TTF); err == nil {
		l.families["Go Bold"] = bold
	}
	return l
}

// LoadDir parses every .ttf/.otf file in dir and registers each font under
// its family name. Individual file failures are logged and skipped.
func (l *Library) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read fonts dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := l.loadFile(path); err != nil {
			l.log.Warnw("skipping font file", "path", path, "error", err)
		}
	}
	return nil
}

func (l *Library) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}

	name, err := f.Name(nil, sfnt.NameIDFamily)
	if err != nil || name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	l.mu.Lock()
	l.families[name] = f
	l.mu.Unlock()
	l.log.Debugw("font registered", "family", name, "path", path)
	return nil
}

// Face returns a face for the first loaded family in the stack at the given
// pixel size, falling back to the embedded Go font. Faces are cached per
// family and size.
func (l *Library) Face(stack []string, size float64) font.Face {
	if size <= 0 {
		size = 12
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var chosen *sfnt.Font
	var family string
	for _, name := range stack {
		if f, ok := l.families[name]; ok {
			chosen = f
			family = name
			break
		}
	}
	if chosen == nil {
		chosen = l.fallback
		family = "Go"
	}
	if chosen == nil {
		return nil
	}

	key := faceKey{family: family, size: int(size * 4)}
	if face, ok := l.faces[key]; ok {
		return face
	}

	face, err := opentype.NewFace(chosen, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		l.log.Warnw("face creation failed", "family", family, "size", size, "error", err)
		return nil
	}
	l.faces[key] = face
	return face
}

// Measure returns the advance width of text in pixels for a face.
func Measure(face font.Face, text string) float64 {
	if face == nil || text == "" {
		return 0
	}
	return fixedToFloat(font.MeasureString(face, text))
}

// LineMetrics returns the ascent and descent of a face in pixels.
func LineMetrics(face font.Face) (ascent, descent float64) {
	if face == nil {
		return 0, 0
	}
	m := face.Metrics()
	return fixedToFloat(m.Ascent), fixedToFloat(m.Descent)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
