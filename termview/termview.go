// Package termview draws a morph.Field in a terminal with tcell.
//
// Each terminal cell stands for a CellWidth x CellHeight block of virtual
// pixels, so the field's camera, scroll sections and pointer mapping work
// unchanged. Particle density per cell picks a glyph from a brightness ramp
// and the cell's height picks the cyan-to-purple gradient color.
package termview

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/morph"
)

const (
	// CellWidth and CellHeight are the virtual pixel size of one cell.
	// Terminal cells are roughly twice as tall as they are wide.
	CellWidth  = 8
	CellHeight = 16

	defaultFrameRate  = 30
	defaultScrollStep = 120.0
	defaultGlyphs     = " .:-=+*#%@"
	// saturation is the cell intensity that maps to the last glyph.
	saturation = 6.0
)

// Options tunes a View. Zero values select defaults.
type Options struct {
	// FrameRate is the number of ticks per second.
	FrameRate int
	// ScrollStep is the page distance per wheel notch or arrow key.
	ScrollStep float64
	// Glyphs is the brightness ramp, darkest first. The first glyph marks
	// empty cells; ramps shorter than two runes select the default.
	Glyphs string
}

// View renders a field into a tcell screen.
type View struct {
	field  *morph.Field
	screen tcell.Screen
	opts   Options
	glyphs []rune

	cols, rows int
	intensity  []float64
}

// New wraps an initialized screen. The caller keeps ownership of screen.
func New(field *morph.Field, screen tcell.Screen, opts Options) *View {
	if opts.FrameRate <= 0 {
		opts.FrameRate = defaultFrameRate
	}
	if opts.ScrollStep <= 0 {
		opts.ScrollStep = defaultScrollStep
	}
	if utf8.RuneCountInString(opts.Glyphs) < 2 {
		opts.Glyphs = defaultGlyphs
	}
	v := &View{
		field:  field,
		screen: screen,
		opts:   opts,
		glyphs: []rune(opts.Glyphs),
	}
	v.resize()
	return v
}

// Open creates and initializes a terminal screen, enables mouse reporting
// and returns a View on it. Call Close when done.
func Open(field *morph.Field, opts Options) (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	return New(field, screen, opts), nil
}

// Close restores the terminal.
func (v *View) Close() {
	v.screen.Fini()
}

// Size returns the grid size in cells.
func (v *View) Size() (cols, rows int) {
	return v.cols, v.rows
}

// resize reads the screen size and reports the matching virtual viewport
// to the field.
func (v *View) resize() {
	v.cols, v.rows = v.screen.Size()
	if n := v.cols * v.rows; cap(v.intensity) < n {
		v.intensity = make([]float64, n)
	}
	v.intensity = v.intensity[:v.cols*v.rows]
	v.field.Resize(float64(v.cols*CellWidth), float64(v.rows*CellHeight), 1)
}

// Run ticks and draws the field until ctx is canceled or the user quits.
func (v *View) Run(ctx context.Context) error {
	frame := time.Second / time.Duration(v.opts.FrameRate)
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	// done releases the poller if Run returns while it holds an event.
	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			v.field.Tick(now.Sub(last).Seconds())
			last = now
			v.Draw()
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyDown:
			v.field.Scrolled(v.opts.ScrollStep)
		case tcell.KeyUp:
			v.field.Scrolled(-v.opts.ScrollStep)
		case tcell.KeyPgDn:
			v.field.Scrolled(float64(v.rows * CellHeight))
		case tcell.KeyPgUp:
			v.field.Scrolled(-float64(v.rows * CellHeight))
		case tcell.KeyHome:
			v.field.ScrollTo(0)
		case tcell.KeyEnd:
			if m := v.field.Scroll().MaxScroll(); m >= 0 {
				v.field.ScrollTo(m)
			}
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'r':
				v.field.Reset()
			case ' ':
				v.field.Scrolled(float64(v.rows * CellHeight))
			}
		}

	case *tcell.EventMouse:
		btn := ev.Buttons()
		if btn&tcell.WheelUp != 0 {
			v.field.Scrolled(-v.opts.ScrollStep)
		}
		if btn&tcell.WheelDown != 0 {
			v.field.Scrolled(v.opts.ScrollStep)
		}
		x, y := ev.Position()
		v.field.PointerMoved((float64(x)+0.5)*CellWidth, (float64(y)+0.5)*CellHeight)

	case *tcell.EventResize:
		v.resize()
		v.screen.Sync()
	}
	return true
}

// Draw renders the field's current frame and shows it.
func (v *View) Draw() {
	v.accumulate(v.field.Frame())

	cfg := v.field.Config()
	v.screen.Clear()
	for row := 0; row < v.rows; row++ {
		// Gradient weight is measured up from the bottom edge, as on screen.
		fragY := float64(v.rows-row) * CellHeight
		c := morph.MixColor(cfg.Color1, cfg.Color2, morph.GradientMix(fragY))
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(
			int32(c.R*255), int32(c.G*255), int32(c.B*255)))
		for col := 0; col < v.cols; col++ {
			g := v.glyph(v.intensity[row*v.cols+col])
			if g == ' ' {
				continue
			}
			v.screen.SetContent(col, row, g, nil, style)
		}
	}
	v.screen.Show()
}

// accumulate projects every point and sums its glow into the cell under it.
func (v *View) accumulate(points []morph.Point) {
	for i := range v.intensity {
		v.intensity[i] = 0
	}
	if v.cols == 0 || v.rows == 0 {
		return
	}
	cam := v.field.Camera()
	for _, p := range points {
		sx, sy, depth, ok := cam.Project(p)
		if !ok {
			continue
		}
		cx := float64(sx) / CellWidth
		cy := float64(sy) / CellHeight
		col, row := int(math.Floor(cx)), int(math.Floor(cy))
		if col < 0 || row < 0 || col >= v.cols || row >= v.rows {
			continue
		}
		// Distance from the cell center, scaled so cell corners stay inside
		// the glow circle.
		r := math.Hypot(cx-float64(col)-0.5, cy-float64(row)-0.5) / math.Sqrt2
		a, ok := morph.Glow(r)
		if !ok {
			continue
		}
		size := float64(morph.PointSize(cam.PixelRatio, depth)) / morph.PointScale
		v.intensity[row*v.cols+col] += a * size * morph.DefaultCameraZ
	}
}

// glyph maps a cell intensity onto the brightness ramp.
func (v *View) glyph(intensity float64) rune {
	if intensity <= 0 {
		return v.glyphs[0]
	}
	n := len(v.glyphs) - 1
	i := 1 + int(intensity/saturation*float64(n-1))
	if i > n {
		i = n
	}
	return v.glyphs[i]
}
