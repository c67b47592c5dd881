package morph

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// fieldEventType identifies a queued host event.
type fieldEventType uint8

const (
	fieldPointerMove fieldEventType = iota
	fieldScrollBy
	fieldScrollTo
	fieldResize
	fieldMorph
	fieldReset
)

// fieldEvent is a host event waiting for the next Tick.
type fieldEvent struct {
	typ   fieldEventType
	x, y  float64
	scale float64
	shape ShapeName
}

// Field is the top-level controller. It owns the shapes, the particle
// buffer (through its Orchestrator), the scroll observer, the camera and
// the pointer, and produces one evaluated frame per Tick.
//
// Host callbacks (pointer, scroll, resize, morph) are queued and applied at
// the start of the next Tick, so every frame is evaluated against a single
// consistent state.
type Field struct {
	cfg     Config
	shapes  ShapeSet
	orch    *Orchestrator
	scroll  *ScrollObserver
	cam     *Camera
	eval    Evaluator
	pointer Point
	elapsed float64
	frame   []Point
	queue   []fieldEvent
	debug   bool
	stats   frameStats
}

// NewField validates cfg, generates every shape and builds an idle field
// holding cfg.InitialShape.
func NewField(cfg Config) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new field: %w", err)
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	t0 := time.Now()
	shapes, err := GenerateShapes(cfg.Particles, rng)
	if err != nil {
		return nil, fmt.Errorf("new field: %w", err)
	}
	for _, s := range cfg.Sections {
		for _, name := range []ShapeName{s.Enter, s.LeaveBack} {
			if _, err := shapes.Lookup(name); err != nil {
				return nil, fmt.Errorf("new field: section %q: %w", s.Name, err)
			}
		}
	}

	orch, err := NewOrchestrator(shapes, cfg.InitialShape, OrchestratorConfig{
		Duration: float32(cfg.MorphDuration),
		Policy:   cfg.Policy,
	})
	if err != nil {
		return nil, fmt.Errorf("new field: %w", err)
	}

	f := &Field{
		cfg:    cfg,
		shapes: shapes,
		orch:   orch,
		scroll: NewScrollObserver(cfg.Sections, cfg.ViewportHeight, cfg.PageHeight),
		cam:    NewCamera(cfg.ViewportWidth, cfg.ViewportHeight),
		debug:  cfg.Debug,
	}
	f.applyCrossings(f.scroll.Refresh())
	f.frame = f.eval.Evaluate(orch.Buffer(), 0, f.pointer)

	Logger().Info("morph: field ready",
		"particles", cfg.Particles,
		"shapes", len(shapes),
		"initial", cfg.InitialShape,
		"policy", cfg.Policy,
		"elapsed", time.Since(t0))
	return f, nil
}

// Config returns the configuration the field was built with.
func (f *Field) Config() Config { return f.cfg }

// Shapes returns the generated shapes. They must not be modified.
func (f *Field) Shapes() ShapeSet { return f.shapes }

// Orchestrator returns the morph state machine.
func (f *Field) Orchestrator() *Orchestrator { return f.orch }

// Buffer returns the particle buffer. Callers must treat it as read-only.
func (f *Field) Buffer() *ParticleBuffer { return f.orch.Buffer() }

// Scroll returns the scroll observer.
func (f *Field) Scroll() *ScrollObserver { return f.scroll }

// Camera returns the camera.
func (f *Field) Camera() *Camera { return f.cam }

// Pointer returns the pointer position on the z=0 plane. It is the origin
// until the pointer first moves.
func (f *Field) Pointer() Point { return f.pointer }

// Elapsed returns the session time in seconds.
func (f *Field) Elapsed() float64 { return f.elapsed }

// Frame returns the positions evaluated by the last Tick. The slice is
// reused by the next Tick.
func (f *Field) Frame() []Point { return f.frame }

// SetDebugMode enables or disables per-frame timing logs.
func (f *Field) SetDebugMode(enabled bool) { f.debug = enabled }

// PointerMoved queues a pointer position in screen pixels.
func (f *Field) PointerMoved(sx, sy float64) {
	f.queue = append(f.queue, fieldEvent{typ: fieldPointerMove, x: sx, y: sy})
}

// Scrolled queues a relative scroll; positive dy moves down the page.
func (f *Field) Scrolled(dy float64) {
	f.queue = append(f.queue, fieldEvent{typ: fieldScrollBy, y: dy})
}

// ScrollTo queues an absolute scroll position.
func (f *Field) ScrollTo(y float64) {
	f.queue = append(f.queue, fieldEvent{typ: fieldScrollTo, y: y})
}

// Resize queues a viewport change. deviceScale sets the pixel ratio.
func (f *Field) Resize(w, h, deviceScale float64) {
	f.queue = append(f.queue, fieldEvent{typ: fieldResize, x: w, y: h, scale: deviceScale})
}

// MorphTo queues a transition to the named shape.
func (f *Field) MorphTo(name ShapeName) error {
	if _, err := f.shapes.Lookup(name); err != nil {
		return fmt.Errorf("morph to: %w", err)
	}
	f.queue = append(f.queue, fieldEvent{typ: fieldMorph, shape: name})
	return nil
}

// Reset queues a jump back to the initial shape and the top of the page.
func (f *Field) Reset() {
	f.queue = append(f.queue, fieldEvent{typ: fieldReset})
}

// Tick applies queued events, advances time, rotation and the running
// transition by dt seconds, and evaluates the frame.
func (f *Field) Tick(dt float64) {
	if !(dt >= 0) {
		dt = 0
	}
	var t0 time.Time
	if f.debug {
		t0 = time.Now()
	}

	f.drainQueue()

	f.elapsed += dt
	f.cam.SetRotation(float32(f.elapsed * f.cfg.RotationSpeed))
	f.orch.Update(float32(dt))

	if f.debug {
		f.stats.updateTime = time.Since(t0)
		t0 = time.Now()
	}

	f.frame = f.eval.Evaluate(f.orch.Buffer(), f.elapsed, f.pointer)

	if f.debug {
		f.stats.evalTime = time.Since(t0)
		f.stats.particles = len(f.frame)
		f.stats.morphFactor = f.orch.Buffer().MorphFactor()
		f.stats.state = f.orch.State()
	}
}

// drainQueue applies every event received since the previous Tick in
// arrival order.
func (f *Field) drainQueue() {
	for i := range f.queue {
		ev := &f.queue[i]
		switch ev.typ {
		case fieldPointerMove:
			if p, ok := f.cam.PointerToPlane(ev.x, ev.y); ok {
				f.pointer = p
			} else {
				Logger().Debug("morph: pointer projection rejected", "x", ev.x, "y", ev.y)
			}
		case fieldScrollBy:
			f.applyCrossings(f.scroll.ScrollBy(ev.y))
		case fieldScrollTo:
			f.applyCrossings(f.scroll.ScrollTo(ev.y))
		case fieldResize:
			f.cam.SetViewport(ev.x, ev.y)
			f.cam.SetDeviceScale(ev.scale)
			f.applyCrossings(f.scroll.SetViewport(f.cam.Viewport.Height))
		case fieldMorph:
			f.dispatchMorph(ev.shape)
		case fieldReset:
			// Crossings from the jump are dropped; Reset decides the shape.
			f.scroll.ScrollTo(0)
			f.orch.Reset()
		}
	}
	f.queue = f.queue[:0]
}

func (f *Field) applyCrossings(crossings []Crossing) {
	for _, c := range crossings {
		Logger().Debug("morph: section crossed",
			"section", c.Section, "direction", c.Direction, "shape", c.Shape)
		f.dispatchMorph(c.Shape)
	}
}

func (f *Field) dispatchMorph(name ShapeName) {
	if err := f.orch.MorphTo(name); err != nil {
		Logger().Warn("morph: request dropped", "shape", name, "err", err)
	}
}
