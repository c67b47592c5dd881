package morph

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-scroll", "after-scroll"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	return NewGame(newTestField(t), RunConfig{})
}

func TestScreenshotQueueAppend(t *testing.T) {
	g := newTestGame(t)
	g.Screenshot("a")
	g.Screenshot("b")
	if len(g.screenshotQueue) != 2 {
		t.Fatalf("expected 2 queued, got %d", len(g.screenshotQueue))
	}
	if g.screenshotQueue[0] != "a" || g.screenshotQueue[1] != "b" {
		t.Errorf("queue = %v, want [a b]", g.screenshotQueue)
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	g := newTestGame(t)
	if g.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want %q", g.ScreenshotDir, "screenshots")
	}
	g2 := NewGame(g.Field(), RunConfig{ScreenshotDir: "out"})
	if g2.ScreenshotDir != "out" {
		t.Errorf("ScreenshotDir = %q, want %q", g2.ScreenshotDir, "out")
	}
}

func TestScreenshotPath(t *testing.T) {
	got := screenshotPath("shots", "20260101_120000", "after scroll", "ring")
	want := filepath.Join("shots", "20260101_120000_after_scroll_ring.png")
	if got != want {
		t.Errorf("screenshotPath = %q, want %q", got, want)
	}
}

func TestWritePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Pix[0] = 200
	path := filepath.Join(t.TempDir(), "out.png")
	if err := writePNG(path, img); err != nil {
		t.Fatalf("writePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	back, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := back.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 3x2", b)
	}
}

func TestWritePNG_BadDir(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	if err := writePNG(path, img); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestStraightAlpha(t *testing.T) {
	pixels := []byte{
		10, 20, 30, 255, // opaque stays as is
		64, 32, 0, 128, // half coverage doubles
		0, 0, 0, 0,
	}
	img := straightAlpha(pixels, 3, 1)

	want := []color.NRGBA{{10, 20, 30, 255}, {127, 63, 0, 128}, {}}
	for x, w := range want {
		if got := img.NRGBAAt(x, 0); got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}
