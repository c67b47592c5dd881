package morph

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Point sprite constants.
const (
	// PointScale is the point size in pixels at a view depth of 1.
	PointScale = 4.0
	// MinPointSize keeps far particles from vanishing between pixel centers.
	MinPointSize = 1.0
	// GradientSpan is the number of pixels, measured up from the bottom of
	// the viewport, over which the color shifts from cyan to purple.
	GradientSpan = 1000.0
	glowExponent = 1.5
)

// PointSize returns the rendered diameter of a particle at the given view
// depth. Non-positive depths yield 0.
func PointSize(pixelRatio, depth float32) float32 {
	if !(depth > 0) {
		return 0
	}
	return PointScale * pixelRatio / depth
}

// GradientMix returns the cyan->purple blend weight for a pixel fragY pixels
// above the bottom edge of the viewport.
func GradientMix(fragY float64) float64 {
	return clamp01(fragY / GradientSpan)
}

// MixColor linearly blends a toward b by t. Alpha is taken from a.
func MixColor(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A,
	}
}

// Glow returns the alpha of a sprite pixel at distance r from the sprite
// center, where r=0.5 is the sprite edge. ok is false outside the circle;
// such pixels are discarded.
func Glow(r float64) (alpha float64, ok bool) {
	if r > 0.5 || r != r {
		return 0, false
	}
	return math.Pow(1-r*2, glowExponent), true
}

// --- Kage shader source ---
// Ebitengine uses premultiplied alpha, so the output color is scaled by the
// glow alpha. src carries the sprite-local coordinate in [0, 1].

const particleShaderSrc = `//kage:unit pixels
package main

var Color1 vec3
var Color2 vec3
var ViewportBottom float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	r := distance(src, vec2(0.5))
	if r > 0.5 {
		discard()
	}
	glow := pow(1.0-r*2.0, 1.5)
	t := clamp((ViewportBottom-dst.y)/1000.0, 0.0, 1.0)
	c := mix(Color1, Color2, t)
	a := glow * color.a
	return vec4(c*a, a)
}
`

// --- Lazy shader compilation (drawing is single-threaded, no sync.Once) ---

var particleShader *ebiten.Shader

func ensureParticleShader() *ebiten.Shader {
	if particleShader == nil {
		s, err := ebiten.NewShader([]byte(particleShaderSrc))
		if err != nil {
			panic("morph: failed to compile particle shader: " + err.Error())
		}
		particleShader = s
	}
	return particleShader
}

// pointBatch accumulates one quad per visible particle for a single
// DrawTrianglesShader32 call.
type pointBatch struct {
	verts    []ebiten.Vertex
	inds     []uint32
	uniforms map[string]any
	color1   [3]float32
	color2   [3]float32
	shaderOp ebiten.DrawTrianglesShaderOptions
}

func newPointBatch() *pointBatch {
	b := &pointBatch{uniforms: make(map[string]any, 3)}
	return b
}

// build projects every point through cam and appends its quad. Returns the
// number of particles emitted.
func (b *pointBatch) build(points []Point, cam *Camera) int {
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]

	for _, p := range points {
		sx, sy, depth, ok := cam.Project(p)
		if !ok {
			continue
		}
		size := max(PointSize(cam.PixelRatio, depth), MinPointSize)
		half := size / 2
		x0, y0 := sx-half, sy-half
		x1, y1 := sx+half, sy+half
		if x1 < float32(cam.Viewport.X) || y1 < float32(cam.Viewport.Y) ||
			x0 > float32(cam.Viewport.X+cam.Viewport.Width) || y0 > float32(cam.Viewport.Y+cam.Viewport.Height) {
			continue
		}

		base := uint32(len(b.verts))
		qx := [4]float32{x0, x1, x0, x1}
		qy := [4]float32{y0, y0, y1, y1}
		qu := [4]float32{0, 1, 0, 1}
		qv := [4]float32{0, 0, 1, 1}
		for j := 0; j < 4; j++ {
			b.verts = append(b.verts, ebiten.Vertex{
				DstX:   qx[j],
				DstY:   qy[j],
				SrcX:   qu[j],
				SrcY:   qv[j],
				ColorR: 1,
				ColorG: 1,
				ColorB: 1,
				ColorA: 1,
			})
		}
		b.inds = append(b.inds,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
	}
	return len(b.verts) / 4
}

// submit draws the accumulated quads into target.
func (b *pointBatch) submit(target *ebiten.Image, cam *Camera, c1, c2 Color, blend BlendMode) {
	if len(b.verts) == 0 {
		return
	}
	b.color1 = [3]float32{float32(c1.R), float32(c1.G), float32(c1.B)}
	b.color2 = [3]float32{float32(c2.R), float32(c2.G), float32(c2.B)}
	b.uniforms["Color1"] = b.color1[:]
	b.uniforms["Color2"] = b.color2[:]
	b.uniforms["ViewportBottom"] = float32(cam.Viewport.Y + cam.Viewport.Height)

	b.shaderOp.Uniforms = b.uniforms
	b.shaderOp.Blend = blend.EbitenBlend()
	target.DrawTrianglesShader32(b.verts, b.inds, ensureParticleShader(), &b.shaderOp)
}
