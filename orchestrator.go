package morph

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// DefaultMorphDuration is the length of one shape transition in seconds.
const DefaultMorphDuration = 2.0

// State is the orchestrator's morph state.
type State uint8

const (
	StateIdle          State = iota // morph factor fixed at 0, current holds the settled shape
	StateTransitioning              // morph factor animating 0 -> 1
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTransitioning:
		return "transitioning"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// EventKind identifies an input to the orchestrator's state machine.
type EventKind uint8

const (
	EventMorph         EventKind = iota // start a transition to Event.Shape
	EventTweenComplete                  // the morph factor reached 1
	EventReset                          // jump back to the initial shape without animating
)

func (k EventKind) String() string {
	switch k {
	case EventMorph:
		return "morph"
	case EventTweenComplete:
		return "tween-complete"
	case EventReset:
		return "reset"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is a message dispatched into the Orchestrator.
type Event struct {
	Kind  EventKind
	Shape ShapeName // valid for EventMorph
}

// RetargetPolicy decides what a morph request does while another transition
// is still running.
type RetargetPolicy uint8

const (
	// RetargetRestart replaces the target and restarts the factor from 0.
	// Current is left as it was, so the particles jump from their blended
	// position back to the old baseline before heading to the new target.
	RetargetRestart RetargetPolicy = iota
	// RetargetSnap bakes the in-flight blend into current before retargeting,
	// so motion continues from where the particles are.
	RetargetSnap
	// RetargetQueue lets the running transition finish, then starts the most
	// recent request. Earlier queued requests are dropped.
	RetargetQueue
)

func (p RetargetPolicy) String() string {
	switch p {
	case RetargetRestart:
		return "restart"
	case RetargetSnap:
		return "snap"
	case RetargetQueue:
		return "queue"
	default:
		return fmt.Sprintf("RetargetPolicy(%d)", uint8(p))
	}
}

type transitionKey struct {
	state State
	kind  EventKind
}

// transitionFunc performs the action for one table row and returns the next state.
type transitionFunc func(o *Orchestrator, ev Event) State

// transitions is the complete state machine. Pairs missing from the table
// are ignored.
var transitions = map[transitionKey]transitionFunc{
	{StateIdle, EventMorph}:                  (*Orchestrator).beginMorph,
	{StateTransitioning, EventMorph}:         (*Orchestrator).retarget,
	{StateTransitioning, EventTweenComplete}: (*Orchestrator).complete,
	{StateIdle, EventReset}:                  (*Orchestrator).reset,
	{StateTransitioning, EventReset}:         (*Orchestrator).reset,
}

// OrchestratorConfig controls transition timing and retarget behavior.
type OrchestratorConfig struct {
	// Duration is the transition length in seconds. Zero or negative values
	// settle on the next Update.
	Duration float32
	// Ease is the easing curve. Nil selects DefaultEase.
	Ease ease.TweenFunc
	// Policy selects how a request during a transition is handled.
	Policy RetargetPolicy
}

type settleHandler struct {
	id uint32
	fn func(ShapeName)
}

type settleRegistry struct {
	handlers []settleHandler
	nextID   uint32
}

// registered reports whether the handler with id has not been removed.
func (r *settleRegistry) registered(id uint32) bool {
	for _, h := range r.handlers {
		if h.id == id {
			return true
		}
	}
	return false
}

// fire calls every handler registered when fire began. Handlers may add or
// remove handlers; removed ones are skipped, added ones wait for the next
// settle.
func (r *settleRegistry) fire(name ShapeName) {
	if len(r.handlers) == 0 {
		return
	}
	hs := append([]settleHandler(nil), r.handlers...)
	for _, h := range hs {
		if r.registered(h.id) {
			h.fn(name)
		}
	}
}

// CallbackHandle allows removing a registered settle callback.
type CallbackHandle struct {
	id  uint32
	reg *settleRegistry
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.handlers
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = settleHandler{}
			h.reg.handlers = s[:len(s)-1]
			return
		}
	}
}

// Orchestrator sequences shape transitions on a ParticleBuffer. It is the
// only writer of the buffer.
type Orchestrator struct {
	shapes  ShapeSet
	buf     *ParticleBuffer
	initial ShapeName
	cfg     OrchestratorConfig

	state   State
	active  ShapeName // last settled shape
	target  ShapeName // shape currently loaded into the target positions
	pending ShapeName // RetargetQueue only
	driver  *TweenDriver

	settle   settleRegistry
	notified ShapeName // settle handlers still owed a call, fired by Dispatch
}

// NewOrchestrator creates an idle orchestrator whose buffer holds the
// initial shape.
func NewOrchestrator(shapes ShapeSet, initial ShapeName, cfg OrchestratorConfig) (*Orchestrator, error) {
	shape, err := shapes.Lookup(initial)
	if err != nil {
		return nil, fmt.Errorf("new orchestrator: %w", err)
	}
	if cfg.Ease == nil {
		cfg.Ease = DefaultEase
	}
	return &Orchestrator{
		shapes:  shapes,
		buf:     NewParticleBuffer(shape),
		initial: initial,
		cfg:     cfg,
		active:  initial,
		target:  initial,
	}, nil
}

// Buffer returns the particle buffer. Callers must treat it as read-only.
func (o *Orchestrator) Buffer() *ParticleBuffer { return o.buf }

// State returns the current state.
func (o *Orchestrator) State() State { return o.state }

// ActiveShape returns the most recently settled shape.
func (o *Orchestrator) ActiveShape() ShapeName { return o.active }

// TargetShape returns the shape loaded into the target positions.
func (o *Orchestrator) TargetShape() ShapeName { return o.target }

// PendingShape returns the queued request under RetargetQueue, or "".
func (o *Orchestrator) PendingShape() ShapeName { return o.pending }

// Policy returns the retarget policy.
func (o *Orchestrator) Policy() RetargetPolicy { return o.cfg.Policy }

// OnSettle registers fn to run after each transition settles, with the
// name of the new baseline shape. fn runs once the orchestrator is in its
// next state, so it may call MorphTo or Reset.
func (o *Orchestrator) OnSettle(fn func(ShapeName)) CallbackHandle {
	o.settle.nextID++
	id := o.settle.nextID
	o.settle.handlers = append(o.settle.handlers, settleHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &o.settle}
}

// MorphTo requests a transition to the named shape.
func (o *Orchestrator) MorphTo(name ShapeName) error {
	return o.Dispatch(Event{Kind: EventMorph, Shape: name})
}

// Reset returns to the initial shape immediately.
func (o *Orchestrator) Reset() {
	_ = o.Dispatch(Event{Kind: EventReset})
}

// Dispatch feeds one event through the transition table. Only a morph to an
// unknown shape is an error; events with no table entry are ignored.
func (o *Orchestrator) Dispatch(ev Event) error {
	if ev.Kind == EventMorph {
		if _, err := o.shapes.Lookup(ev.Shape); err != nil {
			return fmt.Errorf("morph to %q: %w", ev.Shape, err)
		}
	}
	fn, ok := transitions[transitionKey{o.state, ev.Kind}]
	if !ok {
		Logger().Debug("morph: event ignored", "state", o.state, "event", ev.Kind)
		return nil
	}
	prev := o.state
	o.state = fn(o, ev)
	Logger().Debug("morph: transition",
		"from", prev, "event", ev.Kind, "shape", ev.Shape, "to", o.state)

	if name := o.notified; name != "" {
		o.notified = ""
		o.settle.fire(name)
	}
	return nil
}

// Update advances the running transition by dt seconds.
func (o *Orchestrator) Update(dt float32) {
	if o.state != StateTransitioning || o.driver == nil {
		return
	}
	val, done := o.driver.Update(dt)
	o.buf.setMorphFactor(val)
	if done {
		_ = o.Dispatch(Event{Kind: EventTweenComplete})
	}
}

// startTween loads the target and restarts the factor at 0.
func (o *Orchestrator) startTween(name ShapeName) {
	shape := o.shapes[name]
	o.buf.setTarget(shape)
	o.buf.setMorphFactor(0)
	o.target = name
	o.driver = NewTweenDriver(0, 1, o.cfg.Duration, o.cfg.Ease)
}

func (o *Orchestrator) beginMorph(ev Event) State {
	o.startTween(ev.Shape)
	return StateTransitioning
}

func (o *Orchestrator) retarget(ev Event) State {
	switch o.cfg.Policy {
	case RetargetQueue:
		o.pending = ev.Shape
		return StateTransitioning
	case RetargetSnap:
		o.buf.snap()
	}
	o.startTween(ev.Shape)
	return StateTransitioning
}

func (o *Orchestrator) complete(Event) State {
	o.buf.settle()
	o.driver = nil
	o.active = o.target
	o.notified = o.active
	if o.pending != "" {
		next := o.pending
		o.pending = ""
		o.startTween(next)
		return StateTransitioning
	}
	return StateIdle
}

func (o *Orchestrator) reset(Event) State {
	shape := o.shapes[o.initial]
	o.buf.setCurrent(shape)
	o.buf.setTarget(shape)
	o.buf.setMorphFactor(0)
	o.driver = nil
	o.pending = ""
	o.active = o.initial
	o.target = o.initial
	return StateIdle
}
