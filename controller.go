package gesturear

import (
	"context"
	"time"
	"weak"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// User-visible feedback.
const (
	MsgSingleTap       = "SINGLE TAP performed"
	MsgSingleTapOnNode = "SINGLE TAP performed on a node"
	MsgDoubleTap       = "DOUBLE TAP performed"
	MsgDoubleTapOnNode = "DOUBLE TAP performed on a node"
	MsgLongPress       = "LONG PRESS performed"
	MsgLongPressOnNode = "LONG PRESS performed on a node"
	MsgLoading         = "Loading..."
	MsgLoadFailed      = "Unable to load model"
)

// PlacementState is the one-shot object placement latch.
type PlacementState uint8

const (
	PlacementNotCreated PlacementState = iota
	PlacementCreated
)

// PlaybackState tracks the model sound.
type PlaybackState uint8

const (
	PlaybackIdle      PlaybackState = iota // no clip prepared
	PlaybackPreparing                      // Prepare in flight
	PlaybackPlaying
	PlaybackPaused
)

func (s PlaybackState) String() string {
	switch s {
	case PlaybackPreparing:
		return "preparing"
	case PlaybackPlaying:
		return "playing"
	case PlaybackPaused:
		return "paused"
	default:
		return "idle"
	}
}

// GestureEvent describes one dispatched gesture classification.
type GestureEvent struct {
	Type GestureType
	// NodeID is the ID of the node the gesture landed on, or 0.
	NodeID uint32
	X, Y   float64
	OnNode bool
	Time   time.Duration
}

// EventSink receives every gesture the controller dispatches.
type EventSink interface {
	PublishGesture(ev GestureEvent)
}

// AssetSource loads the renderables the controller places.
type AssetSource interface {
	LoadModel(ctx context.Context, url string) *Future[*ModelRenderable]
	LoadView(ctx context.Context, text string) *Future[*ViewRenderable]
}

// ControllerDeps are the collaborators of a Controller. Every field is
// optional: a nil Loader fetches over http.DefaultClient, a nil Dispatcher is
// created, a nil Sound or Toaster disables that output.
type ControllerDeps struct {
	Loader     AssetSource
	Dispatcher *Dispatcher
	Sound      SoundPlayer
	Toaster    Toaster
	Events     EventSink
	Log        zerolog.Logger
}

// Controller turns classified touch gestures into scene actions and places
// the model on the first plane tap. All methods must be called from the game
// loop.
type Controller struct {
	cfg        Config
	log        zerolog.Logger
	assets     AssetSource
	dispatcher *Dispatcher
	sound      SoundPlayer
	toaster    Toaster
	events     EventSink

	classifier *GestureClassifier
	detector   *GestureDetector
	// Hits of the last down and up, reused when a timer completes the
	// gesture those events started.
	lastDown, lastUp touchHit

	scene *Scene
	model *ModelRenderable
	label *ViewRenderable

	placement  PlacementState
	anchorNode *Node
	modelNode  *Node
	labelNode  *Node
	animator   *ModelAnimator

	playback PlaybackState
	soundGen uint64

	ctx       context.Context
	cancel    context.CancelFunc
	self      weak.Pointer[Controller]
	destroyed bool
}

// NewController creates a controller. Call OnViewCreated to connect it to a
// scene and LoadAssets to start fetching the model.
func NewController(cfg Config, deps ControllerDeps) *Controller {
	c := &Controller{
		cfg:        cfg,
		log:        deps.Log,
		assets:     deps.Loader,
		dispatcher: deps.Dispatcher,
		sound:      deps.Sound,
		toaster:    deps.Toaster,
		events:     deps.Events,
		classifier: NewGestureClassifier(),
	}
	if c.assets == nil {
		c.assets = NewAssetLoader(nil, deps.Log)
	}
	if c.dispatcher == nil {
		c.dispatcher = &Dispatcher{}
	}
	c.detector = NewGestureDetector(c.classifier, cfg.Gesture)
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.self = weak.Make(c)
	return c
}

// Dispatcher returns the queue asset completions are posted to.
func (c *Controller) Dispatcher() *Dispatcher { return c.dispatcher }

// Classifier returns the gesture latch fed by the controller's detector.
func (c *Controller) Classifier() *GestureClassifier { return c.classifier }

// Placement returns the placement latch state.
func (c *Controller) Placement() PlacementState { return c.placement }

// Playback returns the sound state.
func (c *Controller) Playback() PlaybackState { return c.playback }

// Animator returns the model animator, or nil before placement.
func (c *Controller) Animator() *ModelAnimator { return c.animator }

// ModelNode returns the placed model node, or nil before placement.
func (c *Controller) ModelNode() *Node { return c.modelNode }

// LabelNode returns the placed label node, or nil before placement.
func (c *Controller) LabelNode() *Node { return c.labelNode }

// AnchorNode returns the anchor node of the placed model, or nil.
func (c *Controller) AnchorNode() *Node { return c.anchorNode }

// AssetsReady reports whether both the model and the label have loaded.
func (c *Controller) AssetsReady() bool { return c.model != nil && c.label != nil }

// Wait blocks until every in-flight asset load and sound preparation has
// posted its completion to the dispatcher.
func (c *Controller) Wait() { c.dispatcher.Wait() }

// --- Scene wiring ---

// OnViewCreated connects the controller to scene. Only the first call has
// an effect.
func (c *Controller) OnViewCreated(scene *Scene) {
	if c.scene != nil || scene == nil {
		return
	}
	c.scene = scene
	scene.SetOnTouchListener(c.OnTouch)
	scene.SetOnTapPlaneListener(c.OnTapPlane)
}

// OnSessionConfiguration applies the fixed session options and picks the
// preferred camera config. The session keeps its default camera config when
// no supported config has the preferred image size.
func (c *Controller) OnSessionConfiguration(s Session, cfg *SessionConfig) error {
	cfg.Depth = DepthDisabled
	cfg.Update = UpdateLatestCameraImage
	cfg.CloudAnchor = CloudAnchorDisabled
	cfg.AugmentedFace = AugmentedFaceDisabled
	cfg.InstantPlacement = InstantPlacementDisabled
	cfg.LightEstimation = LightEstimationDisabled
	cfg.Focus = FocusAuto

	configs := s.SupportedCameraConfigs(CameraConfigFilter{TargetFPS: c.cfg.TargetFPS})
	if cc, ok := SelectCameraConfig(configs, c.cfg.PreferredImageSize); ok {
		s.SetCameraConfig(cc)
		c.log.Info().Stringer("image", cc.ImageSize).Msg("camera config selected")
	} else {
		c.log.Info().Stringer("want", c.cfg.PreferredImageSize).Int("candidates", len(configs)).
			Msg("no matching camera config, keeping default")
	}
	if err := s.Configure(cfg); err != nil {
		c.log.Error().Err(err).Msg("configure session")
		return err
	}
	return nil
}

// --- Touch ---

// touchHit pairs a touch event with the scene hit delivered alongside it.
type touchHit struct {
	ev  MotionEvent
	hit HitTestResult
}

// OnTouch is the scene touch listener. It feeds ev to the gesture detector,
// acts on whatever gesture that completed, and resets the classifier. It
// always consumes the event.
func (c *Controller) OnTouch(hit HitTestResult, ev MotionEvent) bool {
	c.Tick(ev.Time)
	switch ev.Action {
	case ActionDown:
		c.lastDown = touchHit{ev: ev, hit: hit}
	case ActionUp:
		c.lastUp = touchHit{ev: ev, hit: hit}
	}
	c.detector.OnTouchEvent(ev)
	c.dispatch(hit, c.classifier.Event())
	c.classifier.Reset()
	return true
}

// Tick advances the gesture detector clock to now. Gestures that complete on
// a timer (a single tap confirmed after the double-tap window, a long press)
// are dispatched immediately with the hit delivered with the touch that
// started them, not with whatever is under that point now.
func (c *Controller) Tick(now time.Duration) {
	c.detector.Advance(now)
	if c.classifier.GestureType() == GestureNone {
		return
	}
	ev := c.classifier.Event()
	c.dispatch(c.recordedHit(ev), ev)
	c.classifier.Reset()
}

// recordedHit returns the hit delivered with ev. Nodes disposed since then
// count as empty space.
func (c *Controller) recordedHit(ev MotionEvent) HitTestResult {
	var hit HitTestResult
	switch ev {
	case c.lastDown.ev:
		hit = c.lastDown.hit
	case c.lastUp.ev:
		hit = c.lastUp.hit
	}
	if hit.Node != nil && hit.Node.IsDisposed() {
		return HitTestResult{}
	}
	return hit
}

// dispatch performs the action for the latched gesture.
func (c *Controller) dispatch(hit HitTestResult, ev MotionEvent) {
	gesture := c.classifier.GestureType()
	if gesture == GestureNone {
		return
	}
	node := hit.Node
	switch gesture {
	case GestureSingleTap:
		if node == nil {
			c.toast(MsgSingleTap, ToastShort)
		} else {
			c.toast(MsgSingleTapOnNode, ToastShort)
		}
	case GestureDoubleTap:
		if node == nil {
			c.toast(MsgDoubleTap, ToastShort)
		} else {
			c.detachNode(node)
			c.toast(MsgDoubleTapOnNode, ToastShort)
		}
	case GestureLongPress:
		if node == nil {
			c.toast(MsgLongPress, ToastShort)
		} else {
			s := c.cfg.ShrinkScale
			node.SetWorldScale(mgl64.Vec3{s, s, s})
			c.toast(MsgLongPressOnNode, ToastShort)
		}
	}

	gev := GestureEvent{Type: gesture, X: ev.X, Y: ev.Y, Time: ev.Time, OnNode: node != nil}
	if node != nil {
		gev.NodeID = node.ID
	}
	c.log.Debug().Stringer("gesture", gesture).Bool("on_node", gev.OnNode).
		Float64("x", ev.X).Float64("y", ev.Y).Msg("gesture")
	if c.events != nil {
		c.events.PublishGesture(gev)
	}
}

// detachNode releases the anchor holding node and unlinks node from its
// parent. The model animation is cancelled when the model leaves the scene
// or loses its anchor.
func (c *Controller) detachNode(node *Node) {
	an := FindAnchorNode(node)
	if an != nil {
		an.Anchor().Detach()
	}
	if c.animator != nil && (node.Contains(c.modelNode) || (an != nil && an.Contains(c.modelNode))) {
		c.animator.Cancel()
	}
	node.SetParent(nil)
	c.log.Info().Uint32("node", node.ID).Str("name", node.Name).Msg("node detached")
}

func (c *Controller) toast(msg string, d ToastDuration) {
	if c.toaster != nil {
		c.toaster.Show(msg, d)
	}
}

// --- Placement ---

// OnTapPlane places the model on the first plane tap after both assets have
// loaded. Later taps do nothing.
func (c *Controller) OnTapPlane(hit HitResult, ev MotionEvent) {
	if c.model == nil || c.label == nil {
		c.toast(MsgLoading, ToastShort)
		return
	}
	if c.placement == PlacementCreated {
		return
	}
	if c.scene == nil {
		return
	}
	anchor := hit.CreateAnchor()
	if anchor == nil {
		c.log.Warn().Msg("plane hit produced no anchor")
		return
	}

	anchorNode := NewAnchorNode(anchor)
	anchorNode.SetParent(c.scene.Root())

	modelNode := NewNode("model")
	modelNode.SetParent(anchorNode)
	modelNode.SetRenderable(c.model)
	animator := NewModelAnimator(modelNode, c.cfg.AnimationPeriod, true)
	animator.AddListener(AnimatorListener{
		OnStart:  func(*ModelAnimator) { c.playSound() },
		OnEnd:    func(*ModelAnimator) { c.stopSound() },
		OnCancel: func(*ModelAnimator) { c.stopSound() },
		OnRepeat: func(*ModelAnimator) { c.playSound() },
	})
	c.animator = animator
	animator.Start()
	ms := c.cfg.ModelScale
	modelNode.SetWorldScale(mgl64.Vec3{ms, ms, ms})

	labelNode := NewNode("label")
	labelNode.SetParent(modelNode)
	labelNode.Enabled = false
	labelNode.SetLocalPosition(mgl64.Vec3{0, c.cfg.LabelOffset, 0})
	ls := c.cfg.LabelScale
	labelNode.SetWorldScale(mgl64.Vec3{ls, ls, ls})
	labelNode.SetRenderable(c.label)
	labelNode.Enabled = true

	c.anchorNode, c.modelNode, c.labelNode = anchorNode, modelNode, labelNode
	c.placement = PlacementCreated
	c.log.Info().Stringer("anchor", anchor.ID).
		Float64("x", hit.Pose.Translation.X()).Float64("z", hit.Pose.Translation.Z()).
		Msg("model placed")
}

// --- Sound ---

// playSound prepares the clip off the game loop and starts it once ready.
// The clip loops natively, so a repeat while playing changes nothing.
func (c *Controller) playSound() {
	if c.sound == nil || c.destroyed {
		return
	}
	switch c.playback {
	case PlaybackPreparing, PlaybackPlaying:
		return
	case PlaybackPaused:
		c.sound.Start()
		c.playback = PlaybackPlaying
		return
	}
	if err := c.sound.SetDataSource(c.cfg.SoundURL); err != nil {
		c.log.Warn().Err(err).Str("url", c.cfg.SoundURL).Msg("set sound source")
		return
	}
	c.soundGen++
	gen := c.soundGen
	c.playback = PlaybackPreparing

	sound, ctx := c.sound, c.ctx
	f := newFuture[struct{}]()
	go func() {
		f.complete(struct{}{}, sound.Prepare(ctx))
	}()
	self := c.self
	prepared := func(err error) {
		if ctl := self.Value(); ctl != nil {
			ctl.onSoundPrepared(gen, err)
		}
	}
	f.Then(c.dispatcher, func(struct{}) { prepared(nil) }, prepared)
}

func (c *Controller) onSoundPrepared(gen uint64, err error) {
	if c.destroyed || gen != c.soundGen || c.playback != PlaybackPreparing {
		return
	}
	if err != nil {
		c.playback = PlaybackIdle
		c.log.Warn().Err(err).Str("url", c.cfg.SoundURL).Msg("prepare sound")
		return
	}
	if c.animator != nil && c.animator.IsPaused() {
		c.playback = PlaybackPaused
		return
	}
	c.sound.Start()
	c.playback = PlaybackPlaying
}

// stopSound halts and rewinds the clip and drops the prepared source. A
// preparation still in flight is discarded when it completes.
func (c *Controller) stopSound() {
	if c.sound == nil {
		return
	}
	c.soundGen++
	c.sound.Stop()
	c.sound.Reset()
	c.playback = PlaybackIdle
}

// --- Lifecycle ---

// OnStart resumes the animation and sound if they were paused by OnStop.
func (c *Controller) OnStart() {
	if c.animator == nil || !c.animator.IsPaused() {
		return
	}
	c.animator.Resume()
	if c.sound != nil && c.playback == PlaybackPaused {
		c.sound.Start()
		c.playback = PlaybackPlaying
	}
}

// OnStop pauses a running animation and its sound.
func (c *Controller) OnStop() {
	if c.animator == nil || !c.animator.IsRunning() {
		return
	}
	c.animator.Pause()
	if c.sound != nil && c.playback == PlaybackPlaying {
		c.sound.Pause()
		c.playback = PlaybackPaused
	}
}

// OnDestroy stops and releases the sound. Completions still in flight are
// dropped. Calling it again does nothing.
func (c *Controller) OnDestroy() {
	if c.destroyed {
		return
	}
	c.stopSound()
	if c.sound != nil {
		c.sound.Release()
	}
	c.destroyed = true
	c.cancel()
	c.log.Debug().Msg("controller destroyed")
}

// --- Assets ---

// LoadAssets starts loading the model and the label card. Results are
// applied on the game loop when the dispatcher is drained, and only while the
// controller is alive. A failure shows a notice; nothing is retried.
func (c *Controller) LoadAssets(ctx context.Context) {
	self := c.self
	log := c.log

	c.assets.LoadModel(ctx, c.cfg.ModelURL).Then(c.dispatcher,
		func(m *ModelRenderable) {
			if ctl := liveController(self, log, "model"); ctl != nil {
				ctl.model = m
			}
		},
		func(err error) {
			if ctl := liveController(self, log, "model"); ctl != nil {
				ctl.onLoadFailed("model", err)
			}
		})
	c.assets.LoadView(ctx, c.cfg.Label).Then(c.dispatcher,
		func(v *ViewRenderable) {
			if ctl := liveController(self, log, "label"); ctl != nil {
				ctl.label = v
			}
		},
		func(err error) {
			if ctl := liveController(self, log, "label"); ctl != nil {
				ctl.onLoadFailed("label", err)
			}
		})
}

// liveController returns the controller behind self, or nil once it has been
// collected or destroyed.
func liveController(self weak.Pointer[Controller], log zerolog.Logger, asset string) *Controller {
	ctl := self.Value()
	if ctl == nil || ctl.destroyed {
		log.Debug().Str("asset", asset).Msg("load completed after controller was gone")
		return nil
	}
	return ctl
}

func (c *Controller) onLoadFailed(asset string, err error) {
	c.log.Error().Err(err).Str("asset", asset).Msg("load failed")
	c.toast(MsgLoadFailed, ToastLong)
}

// --- Frame ---

// Update applies posted completions, delivers timer-driven gestures and
// advances the model animation by dt seconds.
func (c *Controller) Update(dt float64) {
	c.dispatcher.Drain()
	if c.scene != nil {
		c.Tick(c.scene.Now())
	}
	if c.animator != nil {
		c.animator.Update(float32(dt))
	}
}
