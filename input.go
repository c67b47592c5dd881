package morph

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// --- Constants ---

const (
	// WheelStep is the page distance scrolled per wheel notch.
	WheelStep = 100.0
	// KeyStep is the page distance scrolled by the arrow keys.
	KeyStep = 60.0
	// pageFraction is the share of the viewport scrolled by Page Up/Down.
	pageFraction = 0.9
)

// inputState remembers the last pointer so only movement is forwarded.
type inputState struct {
	lastX, lastY int
	seen         bool
	touchIDs     []ebiten.TouchID
}

// processInput reads mouse, touch, wheel and keyboard state and forwards
// changes to the field. Called from Game.Update.
func (g *Game) processInput() {
	g.processPointer()
	g.processScroll()
}

// processPointer forwards cursor or first-touch movement.
func (g *Game) processPointer() {
	in := &g.input
	x, y := ebiten.CursorPosition()

	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	if len(in.touchIDs) > 0 {
		x, y = ebiten.TouchPosition(in.touchIDs[0])
	}

	if in.seen && x == in.lastX && y == in.lastY {
		return
	}
	// Cursor positions outside the window are stale on some platforms.
	if !g.field.Camera().Viewport.Contains(float64(x), float64(y)) {
		return
	}
	in.seen = true
	in.lastX, in.lastY = x, y
	g.field.PointerMoved(float64(x), float64(y))
}

// processScroll turns the mouse wheel and paging keys into page scrolling.
func (g *Game) processScroll() {
	// Wheel up reports positive y; the page moves up.
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.field.Scrolled(-wy * WheelStep)
	}

	page := g.field.Scroll().ViewportHeight() * pageFraction
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.field.Scrolled(KeyStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.field.Scrolled(-KeyStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown),
		inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.field.Scrolled(page)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.field.Scrolled(-page)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		g.field.ScrollTo(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		if m := g.field.Scroll().MaxScroll(); m >= 0 {
			g.field.ScrollTo(m)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.field.Reset()
	}
}
