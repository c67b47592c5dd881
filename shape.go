package morph

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// Point is a position in scene space.
type Point = mgl32.Vec3

// ShapeName identifies one of the generated point clouds.
type ShapeName string

const (
	ShapeSphere ShapeName = "sphere" // solid ball, uniform volume density
	ShapeRing   ShapeName = "ring"   // flattened torus-like band in the XZ plane
	ShapeCloud  ShapeName = "cloud"  // stretched cluster, dense toward the center
	ShapeWave   ShapeName = "wave"   // sine surface over a 10x10 square
	ShapeShell  ShapeName = "shell"  // hollow sphere surface of radius 3
)

// ShapeNames returns the scroll-table shapes in page order.
func ShapeNames() []ShapeName {
	return []ShapeName{ShapeSphere, ShapeRing, ShapeCloud, ShapeWave}
}

// Generator shape constants.
const (
	SphereRadius = 2.5
	ShellRadius  = 3.0
	RingRadius   = 3.0
	RingJitter   = 1.0 // total radial spread, centred on RingRadius
	RingHeight   = 0.5 // total spread of the flattened axis
	WaveExtent   = 10.0
	CloudRadius  = 4.0
)

// cloudScale stretches the cloud into a wide, flat cluster.
var cloudScale = Point{2, 0.5, 1.5}

// Shape is a named, fixed-length point set. Points must not be modified
// after generation.
type Shape struct {
	Name   ShapeName
	Points []Point
}

// Len returns the number of points in the shape.
func (s *Shape) Len() int {
	return len(s.Points)
}

// GeneratorFunc produces n points using rng.
type GeneratorFunc func(n int, rng *rand.Rand) []Point

// generators maps every known shape to its generation rule.
var generators = map[ShapeName]GeneratorFunc{
	ShapeSphere: GenerateSphere,
	ShapeRing:   GenerateRing,
	ShapeCloud:  GenerateCloud,
	ShapeWave:   GenerateWave,
	ShapeShell:  GenerateShell,
}

// GenerateSphere samples n points uniformly over the volume of a ball of
// radius SphereRadius.
func GenerateSphere(n int, rng *rand.Rand) []Point {
	pts := make([]Point, n)
	for i := range pts {
		r := SphereRadius * math.Cbrt(rng.Float64())
		pts[i] = spherical(r, rng)
	}
	return pts
}

// GenerateShell samples n points uniformly over a sphere surface of radius
// ShellRadius.
func GenerateShell(n int, rng *rand.Rand) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = spherical(ShellRadius, rng)
	}
	return pts
}

// GenerateRing samples n points around a circle in the XZ plane with radial
// jitter and a thin Y spread.
func GenerateRing(n int, rng *rand.Rand) []Point {
	pts := make([]Point, n)
	for i := range pts {
		r := RingRadius + (rng.Float64()-0.5)*RingJitter
		theta := rng.Float64() * 2 * math.Pi
		pts[i] = Point{
			float32(r * math.Cos(theta)),
			float32((rng.Float64() - 0.5) * RingHeight),
			float32(r * math.Sin(theta)),
		}
	}
	return pts
}

// GenerateWave scatters n points over a square in the XZ plane and lifts
// each onto the surface y = sin(0.5x + 0.5z).
func GenerateWave(n int, rng *rand.Rand) []Point {
	pts := make([]Point, n)
	for i := range pts {
		x := float32((rng.Float64() - 0.5) * WaveExtent)
		z := float32((rng.Float64() - 0.5) * WaveExtent)
		pts[i] = Point{x, WaveHeight(x, z), z}
	}
	return pts
}

// WaveHeight is the deterministic surface used by GenerateWave.
func WaveHeight(x, z float32) float32 {
	return float32(math.Sin(float64(x)*0.5 + float64(z)*0.5))
}

// GenerateCloud samples n points inside a ball with linear (center-heavy)
// radius density, then stretches the result by cloudScale.
func GenerateCloud(n int, rng *rand.Rand) []Point {
	pts := make([]Point, n)
	for i := range pts {
		p := spherical(CloudRadius*rng.Float64(), rng)
		pts[i] = Point{p[0] * cloudScale[0], p[1] * cloudScale[1], p[2] * cloudScale[2]}
	}
	return pts
}

// spherical converts radius r and a random direction to Cartesian
// coordinates. The inclination uses acos(2u-1) so directions are uniform
// over the sphere.
func spherical(r float64, rng *rand.Rand) Point {
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*rng.Float64() - 1)
	return Point{
		float32(r * math.Sin(phi) * math.Cos(theta)),
		float32(r * math.Sin(phi) * math.Sin(theta)),
		float32(r * math.Cos(phi)),
	}
}

// ShapeSet holds every generated shape by name.
type ShapeSet map[ShapeName]*Shape

// Lookup returns the named shape or ErrUnknownShape.
func (s ShapeSet) Lookup(name ShapeName) (*Shape, error) {
	shape, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", name, ErrUnknownShape)
	}
	return shape, nil
}

// GenerateShape runs a single named generator and checks its length.
func GenerateShape(name ShapeName, n int, rng *rand.Rand) (*Shape, error) {
	if n <= 0 {
		return nil, fmt.Errorf("generate %q with n=%d: %w", name, n, ErrParticleCount)
	}
	gen, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("generate %q: %w", name, ErrUnknownShape)
	}
	return checkedShape(name, gen(n, rng), n)
}

// checkedShape wraps pts as a Shape after verifying its length.
func checkedShape(name ShapeName, pts []Point, n int) (*Shape, error) {
	if len(pts) != n {
		return nil, fmt.Errorf("generate %q: got %d points, want %d: %w", name, len(pts), n, ErrShapeLength)
	}
	return &Shape{Name: name, Points: pts}, nil
}

// GenerateShapes builds every known shape with n points each. It fails fast
// if any generator returns the wrong count.
func GenerateShapes(n int, rng *rand.Rand) (ShapeSet, error) {
	set := make(ShapeSet, len(generators))
	// Fixed order keeps seeded runs reproducible.
	for _, name := range append(ShapeNames(), ShapeShell) {
		shape, err := GenerateShape(name, n, rng)
		if err != nil {
			return nil, err
		}
		set[name] = shape
	}
	return set, nil
}
