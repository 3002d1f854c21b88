package gesturear

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// HitTestResult is the result of casting a screen touch into the scene.
// Node is nil when the ray hit no node.
type HitTestResult struct {
	Node     *Node
	Point    mgl64.Vec3
	Distance float64
}

// HitResult is a ray hit on a tracked plane.
type HitResult struct {
	Plane    *Plane
	Pose     Pose
	Distance float64

	session Session
}

// CreateAnchor creates an anchor at the hit pose in the session that produced
// the hit. Returns nil for a zero HitResult.
func (h HitResult) CreateAnchor() *Anchor {
	if h.session == nil {
		return nil
	}
	return h.session.CreateAnchor(h.Pose)
}

// TouchListener handles a touch event after the scene hit-tested it. The
// return value reports whether the event was consumed.
type TouchListener func(hit HitTestResult, ev MotionEvent) bool

// PeekTouchListener observes every touch event before the TouchListener.
type PeekTouchListener func(hit HitTestResult, ev MotionEvent)

// TapPlaneListener is called when a tap lands on a tracked plane without
// hitting a node.
type TapPlaneListener func(hit HitResult, ev MotionEvent)

// Scene is the top-level object that owns the node tree, camera, input state
// and the link to the tracking session.
type Scene struct {
	root    *Node
	camera  *Camera
	session Session
	debug   bool

	// ClearColor fills the screen before the scene is drawn.
	ClearColor Color
	// LabelFont draws label cards. Nil uses Go Regular.
	LabelFont *Font

	// CaptureDir is where Capture writes PNG files.
	CaptureDir   string
	captureQueue []string

	// now is the scene uptime clock used to timestamp touch events.
	now time.Duration

	// Input state
	onTouch    TouchListener
	peek       []peekHandler
	nextPeekID uint32
	onTapPlane TapPlaneListener
	planeTap   planeTapDetector

	pointers     [maxPointers]pointerState
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	injectQueue  []syntheticPointerEvent
	testRunner   *TestRunner
	hitBuf       []*Node

	// Render state
	commands []RenderCommand
	vertBuf  []ebiten.Vertex
	indBuf   []uint16
}

type peekHandler struct {
	id uint32
	fn PeekTouchListener
}

// CallbackHandle allows removing a registered peek listener.
type CallbackHandle struct {
	id    uint32
	scene *Scene
}

// Remove unregisters the listener so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.scene == nil {
		return
	}
	s := h.scene
	for i := range s.peek {
		if s.peek[i].id == h.id {
			copy(s.peek[i:], s.peek[i+1:])
			s.peek[len(s.peek)-1] = peekHandler{}
			s.peek = s.peek[:len(s.peek)-1]
			return
		}
	}
}

// NewScene creates a scene with a root node, a default 640x480 camera, and
// the built-in plane tap detector. session may be nil, in which case plane
// hit tests always miss.
func NewScene(session Session, gesture GestureConfig) *Scene {
	s := &Scene{
		root:       NewNode("root"),
		camera:     newCamera(Rect{Width: 640, Height: 480}),
		session:    session,
		ClearColor: Color{R: 0.09, G: 0.09, B: 0.11, A: 1},
		CaptureDir: "captures",
	}
	s.planeTap = planeTapDetector{cfg: gesture}
	s.AddOnPeekTouchListener(s.peekPlaneTap)
	return s
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Session returns the tracking session, or nil.
func (s *Scene) Session() Session {
	return s.session
}

// Now returns the scene uptime clock.
func (s *Scene) Now() time.Duration {
	return s.now
}

// SetOnTouchListener installs the touch listener, replacing any previous one.
// Pass nil to remove it.
func (s *Scene) SetOnTouchListener(fn TouchListener) {
	s.onTouch = fn
}

// AddOnPeekTouchListener registers a listener that sees every event first.
func (s *Scene) AddOnPeekTouchListener(fn PeekTouchListener) CallbackHandle {
	s.nextPeekID++
	id := s.nextPeekID
	s.peek = append(s.peek, peekHandler{id: id, fn: fn})
	return CallbackHandle{id: id, scene: s}
}

// SetOnTapPlaneListener installs the plane tap listener. Pass nil to remove it.
func (s *Scene) SetOnTapPlaneListener(fn TapPlaneListener) {
	s.onTapPlane = fn
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and every
// dispatched touch event is logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene.
var globalDebug bool

// Update advances the clock by dt seconds, re-snaps anchor nodes to their
// anchors, and processes input.
func (s *Scene) Update(dt float64) {
	s.now += time.Duration(dt * float64(time.Second))
	s.root.walk(func(n *Node) { n.syncAnchor() })
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInput()
}

// DispatchTouch hit-tests ev and delivers it to the peek listeners and then
// the touch listener. Returns whether the touch listener consumed it.
func (s *Scene) DispatchTouch(ev MotionEvent) bool {
	hit := s.HitTest(ev.X, ev.Y)
	if s.debug {
		debugLogTouch(ev, hit)
	}
	for _, h := range s.peek {
		h.fn(hit, ev)
	}
	if s.onTouch == nil {
		return false
	}
	return s.onTouch(hit, ev)
}

// --- Hit testing ---

// collectHittable appends active nodes with a collision sphere to buf.
func (s *Scene) collectHittable(n *Node, buf []*Node) []*Node {
	if !n.Enabled {
		return buf
	}
	if n.anchor != nil && n.anchor.TrackingState() != TrackingTracking {
		return buf
	}
	if n.CollisionRadius > 0 {
		buf = append(buf, n)
	}
	for _, c := range n.children {
		buf = s.collectHittable(c, buf)
	}
	return buf
}

// HitTest casts a ray through screen point (x, y) and returns the nearest
// node whose collision sphere it crosses.
func (s *Scene) HitTest(x, y float64) HitTestResult {
	ray := s.camera.ScreenToRay(x, y)
	s.hitBuf = s.collectHittable(s.root, s.hitBuf[:0])

	var best HitTestResult
	bestDist := math.Inf(1)
	for _, n := range s.hitBuf {
		center := n.WorldPosition()
		radius := n.CollisionRadius * n.maxWorldScale()
		if t, ok := raySphere(ray, center, radius); ok && t < bestDist {
			bestDist = t
			best = HitTestResult{Node: n, Point: ray.At(t), Distance: t}
		}
	}
	for i := range s.hitBuf {
		s.hitBuf[i] = nil
	}
	return best
}

// HitTestPlane casts a ray through screen point (x, y) against the session's
// tracked planes and returns the nearest hit.
func (s *Scene) HitTestPlane(x, y float64) (HitResult, bool) {
	if s.session == nil {
		return HitResult{}, false
	}
	ray := s.camera.ScreenToRay(x, y)
	var best HitResult
	found := false
	for _, p := range s.session.Planes() {
		pt, t, ok := p.intersect(ray)
		if !ok || (found && t >= best.Distance) {
			continue
		}
		best = HitResult{
			Plane:    p,
			Pose:     NewPose(pt, p.CenterPose.Rotation),
			Distance: t,
			session:  s.session,
		}
		found = true
	}
	return best, found
}

// raySphere returns the distance along r to the first intersection with the
// sphere, or ok=false if it misses. Origins inside the sphere hit at 0.
func raySphere(r Ray, center mgl64.Vec3, radius float64) (float64, bool) {
	if radius <= 0 {
		return 0, false
	}
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	if c <= 0 {
		return 0, true
	}
	disc := b*b - c
	if disc < 0 || b > 0 {
		return 0, false
	}
	return -b - math.Sqrt(disc), true
}

// --- Plane taps ---

// planeTapDetector recognizes a short tap that lands on empty space.
type planeTapDetector struct {
	cfg       GestureConfig
	down      MotionEvent
	tracking  bool
	overNode  bool
	outOfSlop bool
}

func (s *Scene) peekPlaneTap(hit HitTestResult, ev MotionEvent) {
	d := &s.planeTap
	switch ev.Action {
	case ActionDown:
		if d.tracking {
			// Second pointer: not a tap.
			d.tracking = false
			return
		}
		d.down = ev
		d.tracking = true
		d.overNode = hit.Node != nil
		d.outOfSlop = false
	case ActionMove:
		if d.tracking && ev.PointerID == d.down.PointerID &&
			distanceSq(ev, d.down) > d.cfg.TouchSlop*d.cfg.TouchSlop {
			d.outOfSlop = true
		}
	case ActionUp:
		if !d.tracking || ev.PointerID != d.down.PointerID {
			return
		}
		d.tracking = false
		if d.overNode || d.outOfSlop || hit.Node != nil {
			return
		}
		if ev.Time-d.down.Time >= d.cfg.LongPressTimeout {
			return
		}
		if s.onTapPlane == nil {
			return
		}
		if ph, ok := s.HitTestPlane(ev.X, ev.Y); ok {
			s.onTapPlane(ph, ev)
		}
	case ActionCancel:
		d.tracking = false
	}
}
