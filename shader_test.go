package morph

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestPointSize(t *testing.T) {
	tests := []struct {
		ratio, depth, want float32
	}{
		{1, 5, 0.8},
		{2, 5, 1.6},
		{1, 1, 4},
		{1, 0, 0},
		{1, -3, 0},
	}
	for _, tt := range tests {
		got := PointSize(tt.ratio, tt.depth)
		if math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("PointSize(%v, %v) = %v, want %v", tt.ratio, tt.depth, got, tt.want)
		}
	}
}

func TestGlow(t *testing.T) {
	if a, ok := Glow(0); !ok || a != 1 {
		t.Errorf("Glow(0) = %v, %v; want 1, true", a, ok)
	}
	if a, ok := Glow(0.5); !ok || a != 0 {
		t.Errorf("Glow(0.5) = %v, %v; want 0, true", a, ok)
	}
	if a, ok := Glow(0.25); !ok || math.Abs(a-math.Pow(0.5, 1.5)) > 1e-12 {
		t.Errorf("Glow(0.25) = %v, %v; want %v", a, ok, math.Pow(0.5, 1.5))
	}
	if _, ok := Glow(0.51); ok {
		t.Error("Glow outside the circle should discard")
	}
	if _, ok := Glow(math.NaN()); ok {
		t.Error("Glow(NaN) should discard")
	}
	prev := 2.0
	for r := 0.0; r <= 0.5; r += 0.01 {
		a, _ := Glow(r)
		if a > prev {
			t.Fatalf("glow increased at r=%v", r)
		}
		prev = a
	}
}

func TestGradientMix(t *testing.T) {
	tests := []struct {
		fragY, want float64
	}{
		{0, 0},
		{500, 0.5},
		{1000, 1},
		{1500, 1},
		{-20, 0},
	}
	for _, tt := range tests {
		if got := GradientMix(tt.fragY); got != tt.want {
			t.Errorf("GradientMix(%v) = %v, want %v", tt.fragY, got, tt.want)
		}
	}
}

func TestMixColor(t *testing.T) {
	if got := MixColor(ColorCyan, ColorPurple, 0); got != ColorCyan {
		t.Errorf("MixColor(t=0) = %v, want cyan", got)
	}
	got := MixColor(ColorCyan, ColorPurple, 1)
	if math.Abs(got.R-ColorPurple.R) > 1e-12 || math.Abs(got.G-ColorPurple.G) > 1e-12 || math.Abs(got.B-ColorPurple.B) > 1e-12 {
		t.Errorf("MixColor(t=1) = %v, want purple", got)
	}
	mid := MixColor(Color{A: 0.5}, Color{R: 1, G: 1, B: 1, A: 1}, 0.5)
	if mid != (Color{R: 0.5, G: 0.5, B: 0.5, A: 0.5}) {
		t.Errorf("MixColor mid = %v", mid)
	}
}

func TestBatchBuildCountsVisible(t *testing.T) {
	cam := NewCamera(800, 600)
	b := newPointBatch()

	pts := []Point{
		{0, 0, 0},    // center
		{1, -1, 0},   // on screen
		{0, 0, 10},   // behind the camera
		{500, 0, -1}, // far off to the right
	}
	if n := b.build(pts, cam); n != 2 {
		t.Fatalf("build = %d, want 2", n)
	}
	if len(b.verts) != 8 || len(b.inds) != 12 {
		t.Errorf("verts/inds = %d/%d, want 8/12", len(b.verts), len(b.inds))
	}

	// The center quad is centred on the projected point with src spanning 0..1.
	v := b.verts[:4]
	cx := (v[0].DstX + v[3].DstX) / 2
	cy := (v[0].DstY + v[3].DstY) / 2
	if math.Abs(float64(cx)-400) > 1e-3 || math.Abs(float64(cy)-300) > 1e-3 {
		t.Errorf("quad center = (%v,%v), want (400,300)", cx, cy)
	}
	if v[0].SrcX != 0 || v[0].SrcY != 0 || v[3].SrcX != 1 || v[3].SrcY != 1 {
		t.Errorf("src corners = (%v,%v)-(%v,%v), want (0,0)-(1,1)", v[0].SrcX, v[0].SrcY, v[3].SrcX, v[3].SrcY)
	}
}

func TestBatchBuildMinPointSize(t *testing.T) {
	cam := NewCamera(800, 600)
	b := newPointBatch()
	// Depth 500 gives 4/500 px, below the minimum.
	b.build([]Point{{0, 0, DefaultCameraZ - 500}}, cam)
	if len(b.verts) != 4 {
		t.Fatalf("verts = %d, want 4", len(b.verts))
	}
	if w := b.verts[1].DstX - b.verts[0].DstX; math.Abs(float64(w-MinPointSize)) > 1e-4 {
		t.Errorf("quad width = %v, want %v", w, MinPointSize)
	}
}

func TestBatchBuildReuses(t *testing.T) {
	cam := NewCamera(800, 600)
	b := newPointBatch()
	b.build(make([]Point, 100), cam)
	first := &b.verts[0]
	if n := b.build(make([]Point, 10), cam); n != 10 {
		t.Fatalf("build = %d, want 10", n)
	}
	if &b.verts[0] != first {
		t.Error("build should reuse its vertex buffer")
	}
}

func TestBlendModes(t *testing.T) {
	if BlendAdd.EbitenBlend() != ebiten.BlendLighter {
		t.Error("BlendAdd should map to BlendLighter")
	}
	if BlendNormal.EbitenBlend() != ebiten.BlendSourceOver {
		t.Error("BlendNormal should map to BlendSourceOver")
	}
	if BlendScreen.EbitenBlend().BlendFactorDestinationRGB != ebiten.BlendFactorOneMinusSourceColor {
		t.Error("BlendScreen destination factor mismatch")
	}
	if DefaultConfig().Blend != BlendAdd {
		t.Error("default blend should be additive")
	}
}
