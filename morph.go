package morph

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorCyan and ColorPurple are the two ends of the vertical particle gradient.
var (
	ColorCyan   = Color{R: 0x00 / 255.0, G: 0xf3 / 255.0, B: 0xff / 255.0, A: 1}
	ColorPurple = Color{R: 0xbc / 255.0, G: 0x13 / 255.0, B: 0xfe / 255.0, A: 1}
)

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendAdd    BlendMode = iota // additive / lighter (default for the field)
	BlendNormal                  // source-over (standard alpha blending)
	BlendScreen                  // screen (1 - (1-src)*(1-dst); only brightens)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendLighter
	}
}

var (
	// ErrUnknownShape is returned when a morph names a shape that was never generated.
	ErrUnknownShape = errors.New("morph: unknown shape")
	// ErrParticleCount is returned for a non-positive particle count.
	ErrParticleCount = errors.New("morph: particle count must be positive")
	// ErrShapeLength is returned when a generator produces the wrong number of points.
	ErrShapeLength = errors.New("morph: shape length mismatch")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("morph: invalid config")
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
