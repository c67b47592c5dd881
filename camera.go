package morph

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera defaults.
const (
	DefaultFOV        = 75.0 // vertical field of view in degrees
	DefaultNear       = 0.1
	DefaultFar        = 1000.0
	DefaultCameraZ    = 5.0
	MaxPixelRatio     = 2.0
	minViewportExtent = 1.0
)

// Camera is a perspective camera looking down -Z at the particle field.
type Camera struct {
	// Position is the eye position in scene space.
	Position Point
	// FOV is the vertical field of view in degrees.
	FOV float32
	// Near and Far bound the view depth.
	Near, Far float32
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect
	// Rotation spins the field about the Y axis, in radians.
	Rotation float32
	// PixelRatio scales point sizes for high-density displays. Capped at
	// MaxPixelRatio.
	PixelRatio float32

	proj, view, model mgl32.Mat4
	invProjView       mgl32.Mat4
	dirty             bool
}

// NewCamera creates a camera with default values and a w x h viewport.
func NewCamera(w, h float64) *Camera {
	c := &Camera{
		Position:   Point{0, 0, DefaultCameraZ},
		FOV:        DefaultFOV,
		Near:       DefaultNear,
		Far:        DefaultFar,
		PixelRatio: 1,
		dirty:      true,
	}
	c.SetViewport(w, h)
	return c
}

// SetViewport resizes the viewport. Degenerate sizes are clamped to one
// pixel so the aspect ratio stays finite.
func (c *Camera) SetViewport(w, h float64) {
	if !(w >= minViewportExtent) {
		w = minViewportExtent
	}
	if !(h >= minViewportExtent) {
		h = minViewportExtent
	}
	c.Viewport.Width = w
	c.Viewport.Height = h
	c.dirty = true
}

// SetDeviceScale sets PixelRatio from the display's device scale factor.
func (c *Camera) SetDeviceScale(scale float64) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	c.PixelRatio = float32(min(scale, MaxPixelRatio))
}

// SetRotation sets the Y rotation of the field.
func (c *Camera) SetRotation(rad float32) {
	if rad != c.Rotation {
		c.Rotation = rad
		c.dirty = true
	}
}

// Aspect returns the viewport width over height.
func (c *Camera) Aspect() float32 {
	return float32(c.Viewport.Width / c.Viewport.Height)
}

// computeMatrices recomputes the cached matrices if dirty.
func (c *Camera) computeMatrices() {
	if !c.dirty {
		return
	}
	c.dirty = false
	c.proj = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
	c.view = mgl32.LookAtV(c.Position, c.Position.Add(Point{0, 0, -1}), Point{0, 1, 0})
	c.model = mgl32.HomogRotate3DY(c.Rotation)
	c.invProjView = c.proj.Mul4(c.view).Inv()
}

// Project converts a field-space point to screen coordinates. depth is the
// distance in front of the eye. ok is false for points behind the near
// plane.
func (c *Camera) Project(p Point) (sx, sy, depth float32, ok bool) {
	c.computeMatrices()
	eye := c.view.Mul4(c.model).Mul4x1(p.Vec4(1))
	depth = -eye.Z()
	if depth < c.Near {
		return 0, 0, depth, false
	}
	clip := c.proj.Mul4x1(eye)
	if clip.W() == 0 {
		return 0, 0, depth, false
	}
	nx := clip.X() / clip.W()
	ny := clip.Y() / clip.W()
	sx = float32(c.Viewport.X) + (nx+1)/2*float32(c.Viewport.Width)
	sy = float32(c.Viewport.Y) + (1-ny)/2*float32(c.Viewport.Height)
	return sx, sy, depth, true
}

// PointerToPlane casts a ray from the eye through screen point (sx, sy) and
// returns where it meets the z=0 plane. ok is false when the ray runs
// parallel to the plane or the result is not finite.
func (c *Camera) PointerToPlane(sx, sy float64) (Point, bool) {
	c.computeMatrices()
	nx := float32((sx-c.Viewport.X)/c.Viewport.Width*2 - 1)
	ny := float32(-(sy-c.Viewport.Y)/c.Viewport.Height*2 + 1)

	v := c.invProjView.Mul4x1(mgl32.Vec4{nx, ny, 0.5, 1})
	if v.W() == 0 {
		return Point{}, false
	}
	world := v.Vec3().Mul(1 / v.W())
	dir := world.Sub(c.Position)
	if dir.Len() == 0 {
		return Point{}, false
	}
	dir = dir.Normalize()
	if float32(math.Abs(float64(dir.Z()))) < 1e-6 {
		return Point{}, false
	}
	dist := -c.Position.Z() / dir.Z()
	pos := c.Position.Add(dir.Mul(dist))
	if !finite(pos) {
		return Point{}, false
	}
	return pos, true
}
