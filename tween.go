package morph

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultEase is the morph easing curve: quadratic in-out, the curve web
// animation libraries call "power2.inOut".
var DefaultEase ease.TweenFunc = ease.InOutQuad

// TweenDriver advances one float32 value from a start to an end over a
// duration. Call Update(dt) each tick; Done flips once the end is reached.
//
// There is no global animation manager. The Orchestrator owns its driver.
type TweenDriver struct {
	tween *gween.Tween
	end   float32
	value float32
	Done  bool
}

// NewTweenDriver creates a driver from begin to end over duration seconds.
// A non-positive duration yields a driver that is already done at end.
func NewTweenDriver(begin, end, duration float32, fn ease.TweenFunc) *TweenDriver {
	if fn == nil {
		fn = DefaultEase
	}
	d := &TweenDriver{end: end, value: begin}
	if duration <= 0 {
		d.value = end
		d.Done = true
		return d
	}
	d.tween = gween.New(begin, end, duration, fn)
	return d
}

// Update advances the tween by dt seconds and returns the new value and
// whether the tween has finished. Updates after completion return the end
// value without advancing.
func (d *TweenDriver) Update(dt float32) (float32, bool) {
	if d.Done {
		return d.value, true
	}
	val, finished := d.tween.Update(dt)
	d.value = val
	if finished {
		d.value = d.end
		d.Done = true
	}
	return d.value, d.Done
}

// Value returns the most recent value.
func (d *TweenDriver) Value() float32 {
	return d.value
}
