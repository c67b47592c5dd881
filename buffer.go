package morph

import "fmt"

// ParticleBuffer holds the two position sets the evaluator blends between and
// the shared morph factor. Only the Orchestrator mutates it.
type ParticleBuffer struct {
	current     []Point
	target      []Point
	morphFactor float32
}

// NewParticleBuffer creates a buffer whose current and target positions are
// both copies of initial.
func NewParticleBuffer(initial *Shape) *ParticleBuffer {
	b := &ParticleBuffer{
		current: make([]Point, initial.Len()),
		target:  make([]Point, initial.Len()),
	}
	copy(b.current, initial.Points)
	copy(b.target, initial.Points)
	return b
}

// Len returns the particle count.
func (b *ParticleBuffer) Len() int {
	return len(b.current)
}

// Current returns the positions rendered at morph factor 0.
// The returned slice MUST NOT be mutated.
func (b *ParticleBuffer) Current() []Point {
	return b.current
}

// Target returns the positions rendered at morph factor 1.
// The returned slice MUST NOT be mutated.
func (b *ParticleBuffer) Target() []Point {
	return b.target
}

// MorphFactor returns the blend weight between current and target.
func (b *ParticleBuffer) MorphFactor() float32 {
	return b.morphFactor
}

// setTarget copies the shape's points into the target positions.
func (b *ParticleBuffer) setTarget(s *Shape) {
	if s.Len() != len(b.target) {
		panic(fmt.Sprintf("morph: shape %q has %d points, buffer has %d", s.Name, s.Len(), len(b.target)))
	}
	copy(b.target, s.Points)
}

// setCurrent copies the shape's points into the current positions.
func (b *ParticleBuffer) setCurrent(s *Shape) {
	if s.Len() != len(b.current) {
		panic(fmt.Sprintf("morph: shape %q has %d points, buffer has %d", s.Name, s.Len(), len(b.current)))
	}
	copy(b.current, s.Points)
}

// setMorphFactor stores f clamped to [0, 1].
func (b *ParticleBuffer) setMorphFactor(f float32) {
	switch {
	case f < 0 || f != f:
		f = 0
	case f > 1:
		f = 1
	}
	b.morphFactor = f
}

// settle makes the target the new baseline.
func (b *ParticleBuffer) settle() {
	copy(b.current, b.target)
	b.morphFactor = 0
}

// snap bakes the in-flight blend into current so a new target can start
// from where the particles are.
func (b *ParticleBuffer) snap() {
	f := b.morphFactor
	for i := range b.current {
		b.current[i] = Lerp(b.current[i], b.target[i], f)
	}
	b.morphFactor = 0
}
