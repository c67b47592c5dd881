package morph

import "math"

// Per-frame displacement constants.
const (
	NoiseAmplitude = 0.1
	noiseFreqX     = 0.5
	noiseFreqY     = 0.3

	// RepelRadius is the planar distance inside which the pointer pushes
	// particles away.
	RepelRadius = 2.0
	// RepelStrength scales the push: force = (RepelRadius - d) * RepelStrength.
	RepelStrength = 0.5
)

// Lerp linearly interpolates between a and b by t. It returns a exactly at
// t=0 and b exactly at t=1.
func Lerp(a, b Point, t float32) Point {
	u := 1 - t
	return Point{
		u*a[0] + t*b[0],
		u*a[1] + t*b[1],
		u*a[2] + t*b[2],
	}
}

// Displace applies the time-varying drift. Y reads the already displaced X.
func Displace(p Point, t float64) Point {
	p[0] += float32(NoiseAmplitude * math.Sin(t*noiseFreqX+float64(p[1])))
	p[1] += float32(NoiseAmplitude * math.Cos(t*noiseFreqY+float64(p[0])))
	return p
}

// Repel pushes p away from pointer when their XY distance is below
// RepelRadius. The push follows the full 3D direction from pointer to p.
// Points at or beyond the radius are returned unchanged, as are all points
// when the pointer is not finite.
func Repel(p, pointer Point) Point {
	if !finite(pointer) {
		return p
	}
	dx := float64(p[0] - pointer[0])
	dy := float64(p[1] - pointer[1])
	d := math.Sqrt(dx*dx + dy*dy)
	if d >= RepelRadius {
		return p
	}
	dir := p.Sub(pointer)
	l := dir.Len()
	if l == 0 || l != l {
		return p
	}
	force := float32((RepelRadius - d) * RepelStrength)
	return p.Add(dir.Mul(force / l))
}

// EvaluateParticle computes one rendered position: blend, drift, then repel.
func EvaluateParticle(cur, tgt Point, factor float32, t float64, pointer Point) Point {
	p := Lerp(cur, tgt, factor)
	p = Displace(p, t)
	return Repel(p, pointer)
}

// Evaluator runs EvaluateParticle over a whole buffer, reusing its output
// slice between frames.
type Evaluator struct {
	out []Point
}

// Evaluate writes the rendered positions for every particle in buf and
// returns them. The returned slice is owned by the Evaluator and is
// overwritten by the next call.
func (e *Evaluator) Evaluate(buf *ParticleBuffer, t float64, pointer Point) []Point {
	n := buf.Len()
	if cap(e.out) < n {
		e.out = make([]Point, n)
	}
	e.out = e.out[:n]

	cur, tgt, f := buf.current, buf.target, buf.morphFactor
	for i := 0; i < n; i++ {
		e.out[i] = EvaluateParticle(cur[i], tgt[i], f, t, pointer)
	}
	return e.out
}

// finite reports whether every component of p is a finite number.
func finite(p Point) bool {
	for _, v := range p {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
