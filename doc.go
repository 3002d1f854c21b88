// Package gesturear places a model in a simulated augmented-reality scene and
// drives it with touch gestures, on top of [Ebitengine].
//
// # Quick start
//
// [NewApp] builds a [Scene] on a [Session], configures the session, connects a
// [Controller] and starts loading the model. [Run] opens the window:
//
//	cfg := gesturear.ConfigFromEnv()
//	app, err := gesturear.NewApp(ctx, cfg, gesturear.AppDeps{
//		Session: gesturear.NewSimulatedSession(),
//		Sound:   gesturear.NewStreamPlayer(audio.NewContext(44100), nil),
//		Log:     gesturear.NewLogger(cfg.Log),
//	})
//	if err != nil { ... }
//	gesturear.Run(app, gesturear.RunConfig{Title: "Panda", Width: 640, Height: 480})
//
// # Gestures
//
// Raw input becomes [MotionEvent] values that the scene hit-tests and hands to
// the controller's touch listener. The controller feeds them through a
// [GestureDetector] into a [GestureClassifier], a latch holding the last
// completed gesture. After acting on the latched gesture the controller resets
// it, so every event starts from [GestureNone]:
//
//   - single tap: a notice only
//   - double tap on a node: the node's anchor is detached and the node is
//     removed from the scene graph
//   - long press on a node: the node is shrunk to a fixed world scale
//
// Single taps are confirmed only after the double-tap window and long presses
// fire while the finger is still down. Both complete on a timer, so the
// controller must be ticked every frame ([Controller.Update] does this).
//
// # Placement
//
// The first tap on a tracked plane after both assets have loaded creates an
// [Anchor], an anchor node, the model with its idle animation and a label
// above it. Later plane taps do nothing. Sound follows the animation through
// an [AnimatorListener].
//
// # Threads
//
// Everything runs on the game loop except asset fetching. Results are posted
// to a [Dispatcher] and applied only if the controller is still alive.
//
// [Ebitengine]: https://ebitengine.org
package gesturear
