package gesturear

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// placedScene returns a scene with a model and a label hanging off an anchor
// at the camera target.
func placedScene(t *testing.T) (*Scene, *SimulatedSession, *Node, *Node) {
	t.Helper()
	s, sess := newTestScene()
	m, err := ParseModel("panda.glb", buildGLB(2, pandaJSON))
	if err != nil {
		t.Fatal(err)
	}
	anchorNode := NewAnchorNode(sess.CreateAnchor(NewPose(s.Camera().Target, mgl64.QuatIdent())))
	s.Root().AddChild(anchorNode)
	model := NewNode("model")
	model.SetRenderable(m)
	anchorNode.AddChild(model)
	model.SetWorldScale(mgl64.Vec3{0.1, 0.1, 0.1})
	label := NewNode("label")
	label.SetRenderable(NewViewRenderable("Panda"))
	label.SetLocalPosition(mgl64.Vec3{0, 1, 0})
	model.AddChild(label)
	return s, sess, model, label
}

func TestTraverseEmitsCommands(t *testing.T) {
	s, _, model, label := placedScene(t)
	s.commands = s.commands[:0]
	s.traverse(s.root)

	if len(s.commands) != 2 {
		t.Fatalf("commands = %d, want 2", len(s.commands))
	}
	mc, lc := s.commands[0], s.commands[1]
	if mc.Type != CommandModel || mc.Node != model {
		t.Errorf("first command = %+v, want model", mc)
	}
	if lc.Type != CommandView || lc.Node != label {
		t.Errorf("second command = %+v, want label", lc)
	}
	if mc.X < 319 || mc.X > 321 || mc.Y < 239 || mc.Y > 241 {
		t.Errorf("model at (%v, %v), want screen center", mc.X, mc.Y)
	}
	if lc.Y >= mc.Y {
		t.Error("label should be drawn above the model")
	}
	if mc.Radius <= 0 || mc.Depth <= 0 {
		t.Errorf("radius = %v depth = %v, want positive", mc.Radius, mc.Depth)
	}
}

func TestTraverseSkipsInactive(t *testing.T) {
	s, sess, model, label := placedScene(t)

	label.Enabled = false
	s.commands = s.commands[:0]
	s.traverse(s.root)
	if len(s.commands) != 1 || s.commands[0].Node != model {
		t.Errorf("disabled label should not be drawn, got %d commands", len(s.commands))
	}

	sess.SetTrackingLost(true)
	s.commands = s.commands[:0]
	s.traverse(s.root)
	if len(s.commands) != 0 {
		t.Errorf("paused anchor subtree should not be drawn, got %d commands", len(s.commands))
	}
}

func TestTraverseSkipsBehindCamera(t *testing.T) {
	s, _ := newTestScene()
	n := NewNode("behind")
	n.SetRenderable(NewViewRenderable("x"))
	n.SetLocalPosition(mgl64.Vec3{0, 1.4, 3})
	s.Root().AddChild(n)
	s.commands = s.commands[:0]
	s.traverse(s.root)
	if len(s.commands) != 0 {
		t.Errorf("commands = %d, want 0", len(s.commands))
	}
}

func TestDrawSortsFarToNear(t *testing.T) {
	s, _, _, _ := placedScene(t)
	near := NewNode("near")
	near.SetRenderable(NewViewRenderable("near"))
	cam := s.Camera()
	near.SetLocalPosition(cam.Eye.Add(cam.Target.Sub(cam.Eye).Mul(0.5)))
	s.Root().AddChild(near)

	screen := ebiten.NewImage(640, 480)
	s.Draw(screen)

	if len(s.commands) != 3 {
		t.Fatalf("commands = %d, want 3", len(s.commands))
	}
	for i := 1; i < len(s.commands); i++ {
		if s.commands[i].Depth > s.commands[i-1].Depth {
			t.Errorf("command %d is farther than command %d", i, i-1)
		}
	}
	for i := range s.commands {
		if s.commands[i].Node != nil {
			t.Error("Draw should drop node references after drawing")
		}
	}
}

func TestToastLayerDraw(t *testing.T) {
	l := NewToastLayer()
	screen := ebiten.NewImage(640, 480)
	l.Draw(screen) // nothing visible
	l.Show(MsgLoading, ToastShort)
	l.Draw(screen)
}
