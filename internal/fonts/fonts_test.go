package fonts

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) error {
	t.Helper()
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
}

func TestFamilyFor(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string // first family in the stack
	}{
		{"latin", "Hello world", "Roboto"},
		{"hangul syllables", "안녕하세요", "Noto Sans KR"},
		{"hangul jamo", "가", "Noto Sans KR"},
		{"cjk ideograph", "日本語", "Noto Sans KR"},
		{"kana", "こんにちは", "Noto Sans KR"},
		{"mixed text prefers cjk", "Hello 안녕", "Noto Sans KR"},
		{"digits and punctuation", "12:34 -- ok!", "Roboto"},
		{"empty", "", "Roboto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack := FamilyFor(tt.text)
			if len(stack) == 0 {
				t.Fatal("empty fallback stack")
			}
			if stack[0] != tt.want {
				t.Errorf("FamilyFor(%q)[0] = %q, want %q", tt.text, stack[0], tt.want)
			}
			if last := stack[len(stack)-1]; last != "Go" {
				t.Errorf("stack must end with the embedded fallback, got %q", last)
			}
		})
	}
}

func TestFaceFallsBackToEmbedded(t *testing.T) {
	lib := NewLibrary(nil)

	face := lib.Face([]string{"No Such Family", "Also Missing"}, 24)
	if face == nil {
		t.Fatal("expected embedded fallback face, got nil")
	}

	// Same stack and size must hit the cache and return the same face.
	again := lib.Face([]string{"No Such Family", "Also Missing"}, 24)
	if face != again {
		t.Error("expected cached face for repeated lookup")
	}
}

func TestFaceZeroSize(t *testing.T) {
	lib := NewLibrary(nil)
	if lib.Face([]string{"Go"}, 0) == nil {
		t.Error("zero size must fall back to a usable face, not nil")
	}
}

func TestMeasure(t *testing.T) {
	lib := NewLibrary(nil)
	face := lib.Face([]string{"Go"}, 32)
	if face == nil {
		t.Fatal("no face")
	}

	short := Measure(face, "Hi")
	long := Measure(face, "Hello, subtitles")
	if short <= 0 {
		t.Errorf("Measure short = %v, want > 0", short)
	}
	if long <= short {
		t.Errorf("longer text must measure wider: %v vs %v", long, short)
	}
	if Measure(face, "") != 0 {
		t.Error("empty text must measure 0")
	}
	if Measure(nil, "text") != 0 {
		t.Error("nil face must measure 0")
	}
}

func TestLineMetrics(t *testing.T) {
	lib := NewLibrary(nil)
	face := lib.Face([]string{"Go"}, 48)

	ascent, descent := LineMetrics(face)
	if ascent <= 0 || descent <= 0 {
		t.Errorf("metrics = (%v, %v), want both positive", ascent, descent)
	}

	if a, d := LineMetrics(nil); a != 0 || d != 0 {
		t.Error("nil face must report zero metrics")
	}
}

func TestLoadDirMissing(t *testing.T) {
	lib := NewLibrary(nil)
	if err := lib.LoadDir("/no/such/dir"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLoadDirSkipsNonFonts(t *testing.T) {
	dir := t.TempDir()
	// Not a font; LoadDir must not fail, only skip.
	if err := writeFile(t, dir, "notes.txt", "hello"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(t, dir, "broken.ttf", "not a real font"); err != nil {
		t.Fatal(err)
	}

	lib := NewLibrary(nil)
	if err := lib.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if lib.Face([]string{"Go"}, 16) == nil {
		t.Error("embedded fonts must survive a directory of junk")
	}
}
