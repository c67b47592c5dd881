package morph

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a script.
type scriptStep struct {
	Action string    `json:"action"`
	Label  string    `json:"label,omitempty"`
	Shape  ShapeName `json:"shape,omitempty"`
	X      float64   `json:"x,omitempty"`
	Y      float64   `json:"y,omitempty"`
	FromX  float64   `json:"fromX,omitempty"`
	FromY  float64   `json:"fromY,omitempty"`
	ToX    float64   `json:"toX,omitempty"`
	ToY    float64   `json:"toY,omitempty"`
	Frames int       `json:"frames,omitempty"`
}

// scriptFile is the top-level JSON structure for a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences injected input, morph requests and screenshots across
// frames for automated visual checks and recordings. Attach it through
// RunConfig.Script.
//
// Supported actions: "scroll" (y), "scrollBy" (y), "pointer" (x, y),
// "sweep" (fromX, fromY, toX, toY, frames), "morph" (shape),
// "wait" (frames), "screenshot" (label).
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "scroll", "scrollBy", "pointer", "sweep", "wait", "screenshot":
		case "morph":
			if st.Shape == "" {
				return nil, fmt.Errorf("parse script: step %d: morph needs a shape", i)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether all steps have been executed.
func (s *Script) Done() bool {
	return s.done
}

// step advances the script by one frame. Called from Game.Update.
func (s *Script) step(g *Game) {
	if s.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(g.injectQueue) > 0 {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "screenshot":
		g.Screenshot(st.Label)
	case "scroll":
		g.InjectScrollTo(st.Y)
	case "scrollBy":
		g.InjectScroll(st.Y)
	case "pointer":
		g.InjectPointer(st.X, st.Y)
	case "sweep":
		g.InjectSweep(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "morph":
		if err := g.field.MorphTo(st.Shape); err != nil {
			Logger().Warn("morph: script step failed", "step", s.cursor-1, "err", err)
		}
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && len(g.injectQueue) == 0 {
		s.done = true
	}
}
