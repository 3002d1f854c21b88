package gesturear

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSizeString(t *testing.T) {
	if got := (Size{640, 480}).String(); got != "640x480" {
		t.Errorf("String = %q, want 640x480", got)
	}
}

func TestTargetFPSHas(t *testing.T) {
	both := TargetFPS30 | TargetFPS60
	if !both.Has(TargetFPS30) || !both.Has(TargetFPS60) || !both.Has(both) {
		t.Error("30|60 should have 30 and 60")
	}
	if TargetFPS30.Has(TargetFPS60) {
		t.Error("30 should not have 60")
	}
}

func TestCameraConfigFilter(t *testing.T) {
	c30 := CameraConfig{FPS: TargetFPS30}
	c60 := CameraConfig{FPS: TargetFPS60}
	tests := []struct {
		name   string
		filter CameraConfigFilter
		c      CameraConfig
		want   bool
	}{
		{"zero filter", CameraConfigFilter{}, c60, true},
		{"30 matches 30", CameraConfigFilter{TargetFPS: TargetFPS30}, c30, true},
		{"30 rejects 60", CameraConfigFilter{TargetFPS: TargetFPS30}, c60, false},
		{"30|60 matches 60", CameraConfigFilter{TargetFPS: TargetFPS30 | TargetFPS60}, c60, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.c); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectCameraConfig(t *testing.T) {
	configs := []CameraConfig{
		{ImageSize: Size{1280, 720}},
		{ImageSize: Size{640, 480}, TextureSize: Size{1, 1}},
		{ImageSize: Size{640, 480}, TextureSize: Size{2, 2}},
	}
	got, ok := SelectCameraConfig(configs, Size{640, 480})
	if !ok || got.TextureSize != (Size{1, 1}) {
		t.Errorf("SelectCameraConfig = %+v, %v; want the first 640x480", got, ok)
	}
	if _, ok := SelectCameraConfig(configs, Size{320, 240}); ok {
		t.Error("expected no match for 320x240")
	}
	if _, ok := SelectCameraConfig(nil, Size{640, 480}); ok {
		t.Error("expected no match for empty list")
	}
}

func TestSimulatedSessionDefaults(t *testing.T) {
	s := NewSimulatedSession()
	if got := s.CameraConfig().ImageSize; got != (Size{1920, 1080}) {
		t.Errorf("default camera config = %v, want 1920x1080", got)
	}
	if len(s.Planes()) != 1 {
		t.Fatalf("planes = %d, want 1", len(s.Planes()))
	}
	if len(s.SupportedCameraConfigs(CameraConfigFilter{TargetFPS: TargetFPS60})) != 2 {
		t.Error("expected two 60 fps configs")
	}
	if s.Config() != *DefaultSessionConfig() {
		t.Errorf("Config = %+v, want defaults", s.Config())
	}
}

func TestSimulatedSessionConfigure(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *SessionConfig)
		wantErr bool
	}{
		{"defaults", func(*SessionConfig) {}, false},
		{"latest image", func(c *SessionConfig) { c.Update = UpdateLatestCameraImage }, false},
		{"depth", func(c *SessionConfig) { c.Depth = DepthAutomatic }, true},
		{"faces", func(c *SessionConfig) { c.AugmentedFace = AugmentedFaceMesh3D }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSimulatedSession()
			c := DefaultSessionConfig()
			tt.mutate(c)
			err := s.Configure(c)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedConfiguration) {
					t.Errorf("err = %v, want ErrUnsupportedConfiguration", err)
				}
				if s.Config() != *DefaultSessionConfig() {
					t.Error("rejected config was applied")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Config() != *c {
				t.Errorf("Config = %+v, want %+v", s.Config(), *c)
			}
		})
	}
}

func TestSetCameraConfigsEmpty(t *testing.T) {
	s := NewSimulatedSession()
	s.SetCameraConfigs(nil)
	if s.CameraConfig() != (CameraConfig{}) {
		t.Errorf("CameraConfig = %+v, want zero", s.CameraConfig())
	}
	if len(s.SupportedCameraConfigs(CameraConfigFilter{})) != 0 {
		t.Error("expected no configs")
	}
}

// --- Planes ---

func TestPlaneIntersect(t *testing.T) {
	p := &Plane{CenterPose: NewPose(mgl64.Vec3{0, 0, -1.5}, mgl64.QuatIdent()), ExtentX: 4, ExtentZ: 4}
	tests := []struct {
		name    string
		ray     Ray
		wantHit bool
		wantPt  mgl64.Vec3
	}{
		{"straight down", Ray{Origin: mgl64.Vec3{0, 1, -1}, Direction: mgl64.Vec3{0, -1, 0}}, true, mgl64.Vec3{0, 0, -1}},
		{"pointing up", Ray{Origin: mgl64.Vec3{0, 1, -1}, Direction: mgl64.Vec3{0, 1, 0}}, false, mgl64.Vec3{}},
		{"parallel", Ray{Origin: mgl64.Vec3{0, 1, -1}, Direction: mgl64.Vec3{1, 0, 0}}, false, mgl64.Vec3{}},
		{"outside extents", Ray{Origin: mgl64.Vec3{5, 1, -1}, Direction: mgl64.Vec3{0, -1, 0}}, false, mgl64.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt, dist, ok := p.intersect(tt.ray)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			if !vecApprox(pt, tt.wantPt) {
				t.Errorf("point = %v, want %v", pt, tt.wantPt)
			}
			if math.Abs(dist-1) > 1e-9 {
				t.Errorf("distance = %v, want 1", dist)
			}
		})
	}
}

func TestPlaneIsPointInExtentsRotated(t *testing.T) {
	// Rotated 90° about Y: the 4 m X extent now runs along world Z.
	p := &Plane{CenterPose: NewPose(mgl64.Vec3{}, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})), ExtentX: 4, ExtentZ: 1}
	if !p.IsPointInExtents(mgl64.Vec3{0, 0, 1.9}) {
		t.Error("(0, 0, 1.9) should be inside")
	}
	if p.IsPointInExtents(mgl64.Vec3{1.9, 0, 0}) {
		t.Error("(1.9, 0, 0) should be outside")
	}
}
