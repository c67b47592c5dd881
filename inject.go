package morph

// syntheticKind identifies an injected input event.
type syntheticKind uint8

const (
	syntheticPointer syntheticKind = iota
	syntheticScrollBy
	syntheticScrollTo
)

// syntheticEvent is a single injected input event. Pointer coordinates are
// screen pixels, identical to real cursor input.
type syntheticEvent struct {
	kind syntheticKind
	x, y float64
}

// InjectPointer queues a pointer move to the given screen coordinates. The
// event is consumed on a later Update in place of real input.
func (g *Game) InjectPointer(x, y float64) {
	g.injectQueue = append(g.injectQueue, syntheticEvent{kind: syntheticPointer, x: x, y: y})
}

// InjectScroll queues a relative scroll of dy page pixels.
func (g *Game) InjectScroll(dy float64) {
	g.injectQueue = append(g.injectQueue, syntheticEvent{kind: syntheticScrollBy, y: dy})
}

// InjectScrollTo queues an absolute scroll to page offset y.
func (g *Game) InjectScrollTo(y float64) {
	g.injectQueue = append(g.injectQueue, syntheticEvent{kind: syntheticScrollTo, y: y})
}

// InjectSweep queues a pointer sweep from (fromX, fromY) to (toX, toY),
// linearly interpolated over frames events. Minimum frames is 2.
func (g *Game) InjectSweep(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		g.InjectPointer(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// processInjectedInput pops one event from the inject queue and forwards it
// to the field. Returns true if an event was consumed (real input should be
// skipped).
func (g *Game) processInjectedInput() bool {
	if len(g.injectQueue) == 0 {
		return false
	}
	evt := g.injectQueue[0]
	copy(g.injectQueue, g.injectQueue[1:])
	g.injectQueue = g.injectQueue[:len(g.injectQueue)-1]

	switch evt.kind {
	case syntheticPointer:
		g.field.PointerMoved(evt.x, evt.y)
	case syntheticScrollBy:
		g.field.Scrolled(evt.y)
	case syntheticScrollTo:
		g.field.ScrollTo(evt.y)
	}
	return true
}
