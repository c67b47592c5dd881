package morph

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Game adapts a Field to ebiten.Game: Update feeds input and ticks the
// field, Draw renders the evaluated frame as glowing point sprites.
//
// For full control, skip Run and drive a Game yourself:
//
//	g := morph.NewGame(field, morph.RunConfig{})
//	ebiten.RunGame(g)
type Game struct {
	field *Field
	cfg   RunConfig
	batch *pointBatch
	input inputState

	injectQueue     []syntheticEvent
	script          *Script
	screenshotQueue []string

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	layoutW, layoutH int
}

// NewGame wraps field for use with ebiten.RunGame.
func NewGame(field *Field, cfg RunConfig) *Game {
	dir := cfg.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	return &Game{
		field:         field,
		cfg:           cfg,
		batch:         newPointBatch(),
		script:        cfg.Script,
		ScreenshotDir: dir,
	}
}

// Field returns the wrapped field.
func (g *Game) Field() *Field { return g.field }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if g.script != nil {
		g.script.step(g)
	}
	if !g.processInjectedInput() {
		g.processInput()
	}
	g.field.Tick(dt)

	if g.script != nil && g.script.Done() && g.cfg.ExitOnScriptDone && len(g.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.cfg.ClearColor != (Color{}) {
		screen.Fill(g.cfg.ClearColor.toRGBA())
	}

	cfg := &g.field.cfg
	cam := g.field.Camera()

	t0 := time.Now()
	drawn := g.batch.build(g.field.Frame(), cam)
	t1 := time.Now()
	g.batch.submit(screen, cam, cfg.Color1, cfg.Color2, cfg.Blend)
	g.field.recordDraw(t1.Sub(t0), time.Since(t1), drawn)

	if g.cfg.ShowFPS {
		orch := g.field.Orchestrator()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.1f\nTPS: %.1f\nshape: %s (%s)\nscroll: %.0f",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			orch.TargetShape(), orch.State(), g.field.Scroll().ScrollY()))
	}

	g.flushScreenshots(screen)
}

// Layout implements ebiten.Game. A change of outside size is forwarded to
// the field as a resize.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.layoutW || outsideHeight != g.layoutH {
		g.layoutW, g.layoutH = outsideWidth, outsideHeight
		scale := 1.0
		if m := ebiten.Monitor(); m != nil {
			scale = m.DeviceScaleFactor()
		}
		g.field.Resize(float64(outsideWidth), float64(outsideHeight), scale)
	}
	return outsideWidth, outsideHeight
}
