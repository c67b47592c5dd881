package morph

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled capture of the next drawn frame. The PNG is
// written to ScreenshotDir as <timestamp>_<label>_<shape>.png so recordings
// of a scroll script sort by time and show which shape was on screen.
func (g *Game) Screenshot(label string) {
	g.screenshotQueue = append(g.screenshotQueue, label)
}

// flushScreenshots writes the drawn frame once per queued label. Game.Draw
// calls it last so the capture holds the whole frame.
func (g *Game) flushScreenshots(screen *ebiten.Image) {
	if len(g.screenshotQueue) == 0 {
		return
	}

	if err := os.MkdirAll(g.ScreenshotDir, 0o755); err != nil {
		Logger().Warn("morph: screenshot mkdir failed", "dir", g.ScreenshotDir, "err", err)
		g.screenshotQueue = g.screenshotQueue[:0]
		return
	}

	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	img := straightAlpha(pixels, b.Dx(), b.Dy())

	stamp := time.Now().Format("20060102_150405")
	shape := string(g.field.Orchestrator().TargetShape())

	for _, label := range g.screenshotQueue {
		path := screenshotPath(g.ScreenshotDir, stamp, label, shape)
		if err := writePNG(path, img); err != nil {
			Logger().Warn("morph: screenshot failed", "err", err)
			continue
		}
		Logger().Info("morph: screenshot", "path", path)
	}

	g.screenshotQueue = g.screenshotQueue[:0]
}

func screenshotPath(dir, stamp, label, shape string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s.png", stamp, sanitizeLabel(label), sanitizeLabel(shape)))
}

// straightAlpha wraps premultiplied RGBA pixels, as returned by ReadPixels,
// and converts them to the non-premultiplied form PNG stores.
func straightAlpha(pixels []byte, w, h int) *image.NRGBA {
	rect := image.Rect(0, 0, w, h)
	src := &image.RGBA{Pix: pixels, Stride: 4 * w, Rect: rect}
	dst := image.NewNRGBA(rect)
	draw.Draw(dst, rect, src, image.Point{}, draw.Src)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	if err := errors.Join(png.Encode(f, img), f.Close()); err != nil {
		return fmt.Errorf("screenshot %s: %w", filepath.Base(path), err)
	}
	return nil
}

// sanitizeLabel keeps letters, digits, '-' and '.' and maps every other rune
// to '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' || ('0' <= r && r <= '9') ||
			('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			return r
		}
		return '_'
	}, label)
}
