package gesturear

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrUnsupportedConfiguration is returned by Session.Configure when the
// session cannot honor a requested mode.
var ErrUnsupportedConfiguration = errors.New("gesturear: unsupported session configuration")

// --- Session configuration modes ---

// DepthMode selects depth estimation.
type DepthMode uint8

const (
	DepthDisabled  DepthMode = iota // no depth estimation
	DepthAutomatic                  // smoothed depth
	DepthRawOnly                    // unsmoothed depth only
)

// UpdateMode selects how frame updates are delivered.
type UpdateMode uint8

const (
	UpdateBlocking          UpdateMode = iota // update waits for a new camera frame
	UpdateLatestCameraImage                   // update returns immediately with the latest frame
)

// CloudAnchorMode enables hosting and resolving cloud anchors.
type CloudAnchorMode uint8

const (
	CloudAnchorDisabled CloudAnchorMode = iota
	CloudAnchorEnabled
)

// AugmentedFaceMode enables face tracking (front camera only).
type AugmentedFaceMode uint8

const (
	AugmentedFaceDisabled AugmentedFaceMode = iota
	AugmentedFaceMesh3D
)

// InstantPlacementMode enables placing content before planes are found.
type InstantPlacementMode uint8

const (
	InstantPlacementDisabled InstantPlacementMode = iota
	InstantPlacementLocalYUp
)

// LightEstimationMode selects lighting estimation.
type LightEstimationMode uint8

const (
	LightEstimationDisabled LightEstimationMode = iota
	LightEstimationAmbientIntensity
	LightEstimationEnvironmentalHDR
)

// FocusMode selects the camera focus behavior.
type FocusMode uint8

const (
	FocusFixed FocusMode = iota
	FocusAuto
)

// SessionConfig is the full set of options applied to a Session at
// configuration time.
type SessionConfig struct {
	Depth            DepthMode
	Update           UpdateMode
	CloudAnchor      CloudAnchorMode
	AugmentedFace    AugmentedFaceMode
	InstantPlacement InstantPlacementMode
	LightEstimation  LightEstimationMode
	Focus            FocusMode
}

// DefaultSessionConfig returns the configuration a new session starts with.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		Depth:            DepthDisabled,
		Update:           UpdateBlocking,
		CloudAnchor:      CloudAnchorDisabled,
		AugmentedFace:    AugmentedFaceDisabled,
		InstantPlacement: InstantPlacementDisabled,
		LightEstimation:  LightEstimationAmbientIntensity,
		Focus:            FocusFixed,
	}
}

// --- Camera configs ---

// TargetFPS is a bit set of camera capture frame rates.
type TargetFPS uint8

const (
	TargetFPS30 TargetFPS = 1 << iota
	TargetFPS60
)

// Has reports whether every rate in other is in f.
func (f TargetFPS) Has(other TargetFPS) bool {
	return f&other == other
}

// CameraConfig describes one capture mode a session supports.
type CameraConfig struct {
	ImageSize   Size
	TextureSize Size
	FPS         TargetFPS
}

// CameraConfigFilter narrows Session.SupportedCameraConfigs. Zero fields
// match everything.
type CameraConfigFilter struct {
	// TargetFPS keeps configs that can run at any of the listed rates.
	TargetFPS TargetFPS
}

// Matches reports whether c passes the filter.
func (f CameraConfigFilter) Matches(c CameraConfig) bool {
	if f.TargetFPS != 0 && f.TargetFPS&c.FPS == 0 {
		return false
	}
	return true
}

// SelectCameraConfig returns the first config whose image size is size.
func SelectCameraConfig(configs []CameraConfig, size Size) (CameraConfig, bool) {
	for _, c := range configs {
		if c.ImageSize.String() == size.String() {
			return c, true
		}
	}
	return CameraConfig{}, false
}

// --- Planes ---

// Plane is a tracked flat surface. Its center pose's local Y axis is the
// surface normal; the extents are measured along local X and Z.
type Plane struct {
	CenterPose Pose
	ExtentX    float64
	ExtentZ    float64
}

// normal returns the plane's world-space normal.
func (p *Plane) normal() mgl64.Vec3 {
	return p.CenterPose.Rotation.Normalize().Rotate(mgl64.Vec3{0, 1, 0})
}

// IsPointInExtents reports whether a point on the plane lies within its
// rectangular bounds.
func (p *Plane) IsPointInExtents(pt mgl64.Vec3) bool {
	local := p.CenterPose.Rotation.Normalize().Inverse().Rotate(pt.Sub(p.CenterPose.Translation))
	return math.Abs(local.X()) <= p.ExtentX/2 && math.Abs(local.Z()) <= p.ExtentZ/2
}

// intersect casts r against the plane, returning the hit point and distance.
func (p *Plane) intersect(r Ray) (mgl64.Vec3, float64, bool) {
	n := p.normal()
	denom := n.Dot(r.Direction)
	if math.Abs(denom) < 1e-9 {
		return mgl64.Vec3{}, 0, false
	}
	t := n.Dot(p.CenterPose.Translation.Sub(r.Origin)) / denom
	if t < 0 {
		return mgl64.Vec3{}, 0, false
	}
	pt := r.At(t)
	if !p.IsPointInExtents(pt) {
		return mgl64.Vec3{}, 0, false
	}
	return pt, t, true
}

// --- Session ---

// Session is the AR tracking engine: it owns the camera configuration,
// detected planes and live anchors.
type Session interface {
	SupportedCameraConfigs(filter CameraConfigFilter) []CameraConfig
	CameraConfig() CameraConfig
	SetCameraConfig(c CameraConfig)
	Configure(c *SessionConfig) error
	Config() SessionConfig
	CreateAnchor(pose Pose) *Anchor
	Planes() []*Plane
	Anchors() []*Anchor
}

// SimulatedSession is a Session without a camera: it reports a fixed set of
// camera configs and a single horizontal floor plane. It stands in for a
// device tracking engine on desktop and in tests.
type SimulatedSession struct {
	configs []CameraConfig
	current CameraConfig
	config  SessionConfig
	planes  []*Plane
	anchors []*Anchor
}

// NewSimulatedSession creates a session with a 4x4 m floor plane at y=0
// centered 1.5 m in front of the origin.
func NewSimulatedSession() *SimulatedSession {
	configs := []CameraConfig{
		{ImageSize: Size{1920, 1080}, TextureSize: Size{1920, 1080}, FPS: TargetFPS30},
		{ImageSize: Size{1280, 720}, TextureSize: Size{1920, 1080}, FPS: TargetFPS30 | TargetFPS60},
		{ImageSize: Size{640, 480}, TextureSize: Size{1920, 1080}, FPS: TargetFPS30 | TargetFPS60},
	}
	return &SimulatedSession{
		configs: configs,
		current: configs[0],
		config:  *DefaultSessionConfig(),
		planes: []*Plane{{
			CenterPose: NewPose(mgl64.Vec3{0, 0, -1.5}, mgl64.QuatIdent()),
			ExtentX:    4,
			ExtentZ:    4,
		}},
	}
}

// SetCameraConfigs replaces the supported camera configs. The current config
// becomes the first entry, or the zero config when configs is empty.
func (s *SimulatedSession) SetCameraConfigs(configs []CameraConfig) {
	s.configs = append([]CameraConfig(nil), configs...)
	s.current = CameraConfig{}
	if len(configs) > 0 {
		s.current = configs[0]
	}
}

// AddPlane registers an additional tracked plane.
func (s *SimulatedSession) AddPlane(p *Plane) {
	s.planes = append(s.planes, p)
}

// SupportedCameraConfigs returns the configs matching filter.
func (s *SimulatedSession) SupportedCameraConfigs(filter CameraConfigFilter) []CameraConfig {
	var out []CameraConfig
	for _, c := range s.configs {
		if filter.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// CameraConfig returns the active camera config.
func (s *SimulatedSession) CameraConfig() CameraConfig {
	return s.current
}

// SetCameraConfig selects the active camera config.
func (s *SimulatedSession) SetCameraConfig(c CameraConfig) {
	s.current = c
}

// Configure applies c. A simulated camera has no depth sensor and no front
// camera, so depth and face tracking are rejected.
func (s *SimulatedSession) Configure(c *SessionConfig) error {
	if c.Depth != DepthDisabled {
		return fmt.Errorf("depth mode %d: %w", c.Depth, ErrUnsupportedConfiguration)
	}
	if c.AugmentedFace != AugmentedFaceDisabled {
		return fmt.Errorf("augmented face mode %d: %w", c.AugmentedFace, ErrUnsupportedConfiguration)
	}
	s.config = *c
	return nil
}

// Config returns the last applied configuration.
func (s *SimulatedSession) Config() SessionConfig {
	return s.config
}

// CreateAnchor creates and registers a tracking anchor at pose.
func (s *SimulatedSession) CreateAnchor(pose Pose) *Anchor {
	a := newAnchor(pose, s)
	s.anchors = append(s.anchors, a)
	return a
}

// Planes returns the tracked planes. The returned slice MUST NOT be mutated.
func (s *SimulatedSession) Planes() []*Plane {
	return s.planes
}

// Anchors returns the live anchors. The returned slice MUST NOT be mutated.
func (s *SimulatedSession) Anchors() []*Anchor {
	return s.anchors
}

// SetTrackingLost simulates losing (true) or regaining (false) tracking for
// every live anchor.
func (s *SimulatedSession) SetTrackingLost(lost bool) {
	state := TrackingTracking
	if lost {
		state = TrackingPaused
	}
	for _, a := range s.anchors {
		a.setTrackingState(state)
	}
}

func (s *SimulatedSession) releaseAnchor(a *Anchor) {
	for i, c := range s.anchors {
		if c == a {
			copy(s.anchors[i:], s.anchors[i+1:])
			s.anchors[len(s.anchors)-1] = nil
			s.anchors = s.anchors[:len(s.anchors)-1]
			return
		}
	}
}
