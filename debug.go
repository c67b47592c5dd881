package morph

import "time"

// frameStats holds per-frame timing and draw metrics.
// Only populated when debug mode is on.
type frameStats struct {
	updateTime  time.Duration
	evalTime    time.Duration
	buildTime   time.Duration
	submitTime  time.Duration
	particles   int
	drawn       int
	morphFactor float32
	state       State
}

// debugLog writes the last frame's stats to the logger at debug level.
func (f *Field) debugLog() {
	if !f.debug {
		return
	}
	st := &f.stats
	total := st.updateTime + st.evalTime + st.buildTime + st.submitTime
	Logger().Debug("morph: frame",
		"update", st.updateTime,
		"eval", st.evalTime,
		"build", st.buildTime,
		"submit", st.submitTime,
		"total", total)
	Logger().Debug("morph: particles",
		"count", st.particles,
		"drawn", st.drawn,
		"factor", st.morphFactor,
		"state", st.state)
}

// recordDraw stores draw-side timings measured by a host.
func (f *Field) recordDraw(build, submit time.Duration, drawn int) {
	if !f.debug {
		return
	}
	f.stats.buildTime = build
	f.stats.submitTime = submit
	f.stats.drawn = drawn
	f.debugLog()
}
