package morph

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window opened by Run.
type RunConfig struct {
	// Title is the window title.
	Title string
	// Width and Height are the initial window size. Zero uses the field's
	// configured viewport.
	Width, Height int
	// Resizable lets the user resize the window.
	Resizable bool
	// ShowFPS draws frame rate and morph state in the top-left corner.
	ShowFPS bool
	// ClearColor fills the screen before particles are drawn. The zero
	// value leaves the screen as ebiten cleared it.
	ClearColor Color
	// Script, when set, drives injected input for automated runs.
	Script *Script
	// ExitOnScriptDone ends the run once Script has finished.
	ExitOnScriptDone bool
	// ScreenshotDir is where screenshots are written. Defaults to "screenshots".
	ScreenshotDir string
}

// Run opens a window and runs field until the window is closed.
//
//	field, _ := morph.NewField(morph.DefaultConfig())
//	morph.Run(field, morph.RunConfig{Title: "Portfolio", Width: 1280, Height: 720})
func Run(field *Field, cfg RunConfig) error {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = int(field.cfg.ViewportWidth)
	}
	if h <= 0 {
		h = int(field.cfg.ViewportHeight)
	}
	if cfg.Title == "" {
		cfg.Title = "morph"
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, h)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	Logger().Info("morph: window", "title", cfg.Title, "width", w, "height", h)
	// RunGame returns nil when Update ends the run with ebiten.Termination.
	return ebiten.RunGame(NewGame(field, cfg))
}
