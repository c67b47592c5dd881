// Package morph renders a scroll-driven particle field for [Ebitengine].
//
// A fixed-size point cloud morphs between procedurally generated shapes
// (sphere, ring, cloud, wave) as page sections scroll past the middle of
// the viewport. Every frame the particles drift on slow sine waves and part
// around the pointer.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	field, err := morph.NewField(morph.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	morph.Run(field, morph.RunConfig{Title: "Portfolio", Width: 1280, Height: 720})
//
// For full control, pass a [Game] to [ebiten.RunGame] yourself, or skip
// ebiten entirely: call [Field.Tick] once per frame and read [Field.Frame].
// The termview sub-package does the latter to draw the field in a terminal.
//
// # Data flow
//
// [GenerateShapes] builds every shape once. The [Orchestrator] copies a
// shape into the target half of the [ParticleBuffer] and tweens the morph
// factor from 0 to 1 (gween, quadratic in-out, 2 seconds). When the tween
// completes the target becomes the new baseline and the factor returns to 0.
// [EvaluateParticle] turns (current, target, factor, time, pointer) into the
// rendered position.
//
// # Events
//
// Host input reaches the field as queued events ([Field.PointerMoved],
// [Field.Scrolled], [Field.Resize], [Field.MorphTo]) that take effect at the
// start of the next [Field.Tick]. Section crossings reported by the
// [ScrollObserver] become morph events for the orchestrator, whose
// transition table is the single place that decides what each event does.
//
// A morph requested while another is running follows the [RetargetPolicy].
// The default, [RetargetRestart], restarts the tween toward the new target
// without first settling, so the particles visibly jump back to the old
// baseline before moving on.
//
// [Ebitengine]: https://ebitengine.org
package morph
