package morph

import (
	"errors"
	"testing"

	"github.com/tanema/gween/ease"
)

// testShapes returns a small, reproducible shape set.
func testShapes(t testing.TB, n int) ShapeSet {
	t.Helper()
	set, err := GenerateShapes(n, testRNG())
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func newTestOrchestrator(t testing.TB, policy RetargetPolicy) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(testShapes(t, 64), ShapeSphere, OrchestratorConfig{
		Duration: 2,
		Ease:     ease.Linear,
		Policy:   policy,
	})
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func samePoints(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewOrchestratorIdle(t *testing.T) {
	o := newTestOrchestrator(t, RetargetRestart)
	if o.State() != StateIdle {
		t.Errorf("State() = %v, want idle", o.State())
	}
	if o.ActiveShape() != ShapeSphere || o.TargetShape() != ShapeSphere {
		t.Errorf("active/target = %q/%q, want sphere", o.ActiveShape(), o.TargetShape())
	}
	if !samePoints(o.Buffer().Current(), o.shapes[ShapeSphere].Points) {
		t.Error("current does not hold the initial shape")
	}
}

func TestNewOrchestratorUnknownInitial(t *testing.T) {
	_, err := NewOrchestrator(testShapes(t, 8), "cube", OrchestratorConfig{})
	if !errors.Is(err, ErrUnknownShape) {
		t.Errorf("err = %v, want ErrUnknownShape", err)
	}
}

func TestMorphCompletesAndSettles(t *testing.T) {
	o := newTestOrchestrator(t, RetargetRestart)
	ring := o.shapes[ShapeRing].Points

	if err := o.MorphTo(ShapeRing); err != nil {
		t.Fatal(err)
	}
	if o.State() != StateTransitioning {
		t.Fatalf("State() = %v, want transitioning", o.State())
	}
	if o.Buffer().MorphFactor() != 0 {
		t.Errorf("factor at start = %v, want 0", o.Buffer().MorphFactor())
	}
	if !samePoints(o.Buffer().Target(), ring) {
		t.Error("target not loaded with ring")
	}

	o.Update(1)
	if f := o.Buffer().MorphFactor(); f < 0.49 || f > 0.51 {
		t.Errorf("factor at half = %v, want ~0.5", f)
	}

	o.Update(1)
	if o.State() != StateIdle {
		t.Fatalf("State() after duration = %v, want idle", o.State())
	}
	if o.Buffer().MorphFactor() != 0 {
		t.Errorf("factor after settle = %v, want 0", o.Buffer().MorphFactor())
	}
	if !samePoints(o.Buffer().Current(), ring) || !samePoints(o.Buffer().Target(), ring) {
		t.Error("current and target should both hold the ring after settling")
	}
	if o.ActiveShape() != ShapeRing {
		t.Errorf("ActiveShape() = %q, want ring", o.ActiveShape())
	}
}

func TestSecondMorphStartsFromSettledShape(t *testing.T) {
	o := newTestOrchestrator(t, RetargetRestart)
	o.MorphTo(ShapeRing)
	o.Update(2)

	o.MorphTo(ShapeSphere)
	o.Update(1)

	buf := o.Buffer()
	if !samePoints(buf.Current(), o.shapes[ShapeRing].Points) {
		t.Fatal("second morph should interpolate from the settled ring")
	}
	var e Evaluator
	out := e.Evaluate(buf, 0, farPointer)
	for i := range out {
		want := Displace(Lerp(o.shapes[ShapeRing].Points[i], o.shapes[ShapeSphere].Points[i], buf.MorphFactor()), 0)
		if out[i] != want {
			t.Fatalf("particle %d = %v, want %v", i, out[i], want)
		}
	}
}

func TestRapidRetargetLatestWins(t *testing.T) {
	for _, policy := range []RetargetPolicy{RetargetRestart, RetargetSnap, RetargetQueue} {
		t.Run(policy.String(), func(t *testing.T) {
			o := newTestOrchestrator(t, policy)
			o.MorphTo(ShapeCloud)
			o.Update(0.5)
			o.MorphTo(ShapeWave)

			for i := 0; i < 10 && !(o.State() == StateIdle && o.ActiveShape() == ShapeWave); i++ {
				o.Update(1)
			}
			if o.State() != StateIdle {
				t.Fatalf("State() = %v, want idle", o.State())
			}
			if o.ActiveShape() != ShapeWave {
				t.Errorf("ActiveShape() = %q, want wave", o.ActiveShape())
			}
			if !samePoints(o.Buffer().Current(), o.shapes[ShapeWave].Points) {
				t.Error("current should hold the wave")
			}
		})
	}
}

func TestRetargetRestartKeepsBaseline(t *testing.T) {
	o := newTestOrchestrator(t, RetargetRestart)
	sphere := o.shapes[ShapeSphere].Points

	o.MorphTo(ShapeCloud)
	o.Update(1)
	o.MorphTo(ShapeWave)

	buf := o.Buffer()
	if buf.MorphFactor() != 0 {
		t.Errorf("factor after retarget = %v, want 0", buf.MorphFactor())
	}
	// Current was never settled to the cloud, so the particles snap back to
	// the sphere before heading for the wave.
	if !samePoints(buf.Current(), sphere) {
		t.Error("restart should leave current at the sphere")
	}
	if !samePoints(buf.Target(), o.shapes[ShapeWave].Points) {
		t.Error("target should be the wave")
	}
	if o.State() != StateTransitioning || o.TargetShape() != ShapeWave {
		t.Errorf("state/target = %v/%q, want transitioning/wave", o.State(), o.TargetShape())
	}
}

func TestRetargetSnapContinuesFromBlend(t *testing.T) {
	o := newTestOrchestrator(t, RetargetSnap)
	sphere := o.shapes[ShapeSphere].Points
	cloud := o.shapes[ShapeCloud].Points

	o.MorphTo(ShapeCloud)
	o.Update(1)
	f := o.Buffer().MorphFactor()
	o.MorphTo(ShapeWave)

	buf := o.Buffer()
	for i, p := range buf.Current() {
		if want := Lerp(sphere[i], cloud[i], f); p != want {
			t.Fatalf("current[%d] = %v, want blended %v", i, p, want)
		}
	}
	if buf.MorphFactor() != 0 {
		t.Errorf("factor = %v, want 0", buf.MorphFactor())
	}
}

func TestRetargetQueueFinishesFirst(t *testing.T) {
	o := newTestOrchestrator(t, RetargetQueue)
	var settled []ShapeName
	o.OnSettle(func(name ShapeName) { settled = append(settled, name) })

	o.MorphTo(ShapeCloud)
	o.Update(1)
	o.MorphTo(ShapeRing)
	o.MorphTo(ShapeWave) // replaces the ring request

	if o.PendingShape() != ShapeWave {
		t.Errorf("PendingShape() = %q, want wave", o.PendingShape())
	}
	if o.TargetShape() != ShapeCloud {
		t.Errorf("TargetShape() = %q, want cloud until it settles", o.TargetShape())
	}

	o.Update(1)
	if o.State() != StateTransitioning || o.TargetShape() != ShapeWave {
		t.Fatalf("after cloud settles: state/target = %v/%q, want transitioning/wave", o.State(), o.TargetShape())
	}
	if !samePoints(o.Buffer().Current(), o.shapes[ShapeCloud].Points) {
		t.Error("wave should start from the settled cloud")
	}

	o.Update(2)
	if len(settled) != 2 || settled[0] != ShapeCloud || settled[1] != ShapeWave {
		t.Errorf("settled = %v, want [cloud wave]", settled)
	}
}

func TestOnSettleRemove(t *testing.T) {
	o := newTestOrchestrator(t, RetargetRestart)
	var a, b int
	ha := o.OnSettle(func(ShapeName) { a++ })
	o.OnSettle(func(ShapeName) { b++ })

	o.MorphTo(ShapeRing)
	o.Update(2)
	ha.Remove()
	ha.Remove() // second remove is a no-op
	o.MorphTo(ShapeCloud)
	o.Update(2)

	if a != 1 || b != 2 {
		t.Errorf("callback counts = %d/%d, want 1/2", a, b)
	}
	CallbackHandle{}.Remove()
}

func TestOnSettleSelfRemove(t *testing.T) {
	o := newTestOrchestrator(t, RetargetRestart)
	var once, every int
	var h CallbackHandle
	h = o.OnSettle(func(ShapeName) {
		once++
		h.Remove()
	})
	o.OnSettle(func(ShapeName) { every++ })

	o.MorphTo(ShapeRing)
	o.Update(2)
	o.MorphTo(ShapeCloud)
	o.Update(2)

	if once != 1 || every != 2 {
		t.Errorf("callback counts = %d/%d, want 1/2", once, every)
	}
}

func TestOnSettleChainsMorph(t *testing.T) {
	o := newTestOrchestrator(t, RetargetRestart)
	o.OnSettle(func(name ShapeName) {
		if name == ShapeRing {
			if err := o.MorphTo(ShapeCloud); err != nil {
				t.Errorf("MorphTo(cloud): %v", err)
			}
		}
	})

	o.MorphTo(ShapeRing)
	o.Update(2)
	if o.State() != StateTransitioning || o.TargetShape() != ShapeCloud {
		t.Fatalf("after ring settles: state/target = %v/%q, want transitioning/cloud", o.State(), o.TargetShape())
	}
	if o.ActiveShape() != ShapeRing {
		t.Errorf("ActiveShape() = %q, want ring", o.ActiveShape())
	}

	for i := 0; i < 5; i++ {
		o.Update(1)
	}
	if o.State() != StateIdle || o.ActiveShape() != ShapeCloud {
		t.Fatalf("state/active = %v/%q, want idle/cloud", o.State(), o.ActiveShape())
	}
	if !samePoints(o.Buffer().Current(), o.shapes[ShapeCloud].Points) {
		t.Error("current does not hold the cloud after the chained morph")
	}
}

func TestResetFromTransition(t *testing.T) {
	o := newTestOrchestrator(t, RetargetQueue)
	o.MorphTo(ShapeWave)
	o.Update(0.7)
	o.MorphTo(ShapeRing)

	o.Reset()

	buf := o.Buffer()
	sphere := o.shapes[ShapeSphere].Points
	if o.State() != StateIdle {
		t.Errorf("State() = %v, want idle", o.State())
	}
	if buf.MorphFactor() != 0 {
		t.Errorf("factor = %v, want 0", buf.MorphFactor())
	}
	if !samePoints(buf.Current(), sphere) || !samePoints(buf.Target(), sphere) {
		t.Error("reset should restore the initial shape on both sides")
	}
	if o.PendingShape() != "" {
		t.Errorf("PendingShape() = %q, want empty", o.PendingShape())
	}

	// A stale completion after reset must not move anything.
	o.Update(5)
	if !samePoints(buf.Current(), sphere) {
		t.Error("Update after reset changed current")
	}
}

func TestDispatchUnknownShape(t *testing.T) {
	o := newTestOrchestrator(t, RetargetRestart)
	err := o.MorphTo("cube")
	if !errors.Is(err, ErrUnknownShape) {
		t.Errorf("err = %v, want ErrUnknownShape", err)
	}
	if o.State() != StateIdle {
		t.Errorf("State() = %v, want idle after rejected morph", o.State())
	}
}

func TestDispatchIgnoredPair(t *testing.T) {
	o := newTestOrchestrator(t, RetargetRestart)
	if err := o.Dispatch(Event{Kind: EventTweenComplete}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if o.State() != StateIdle {
		t.Errorf("State() = %v, want idle", o.State())
	}
}

func TestZeroDurationSettlesNextUpdate(t *testing.T) {
	o, err := NewOrchestrator(testShapes(t, 16), ShapeSphere, OrchestratorConfig{})
	if err != nil {
		t.Fatal(err)
	}
	o.MorphTo(ShapeWave)
	o.Update(0)
	if o.State() != StateIdle || o.ActiveShape() != ShapeWave {
		t.Errorf("state/active = %v/%q, want idle/wave", o.State(), o.ActiveShape())
	}
}

func TestMorphToSameShape(t *testing.T) {
	o := newTestOrchestrator(t, RetargetRestart)
	before := append([]Point(nil), o.Buffer().Current()...)
	o.MorphTo(ShapeSphere)
	o.Update(1)
	var e Evaluator
	out := e.Evaluate(o.Buffer(), 0, farPointer)
	for i := range out {
		if !approxPoint(out[i], Displace(before[i], 0), 1e-5) {
			t.Fatalf("particle %d moved during a morph to the same shape", i)
		}
	}
}

func TestStringers(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{StateIdle.String(), "idle"},
		{StateTransitioning.String(), "transitioning"},
		{State(9).String(), "State(9)"},
		{EventMorph.String(), "morph"},
		{EventTweenComplete.String(), "tween-complete"},
		{EventReset.String(), "reset"},
		{RetargetRestart.String(), "restart"},
		{RetargetSnap.String(), "snap"},
		{RetargetQueue.String(), "queue"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
