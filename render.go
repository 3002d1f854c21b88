package gesturear

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandModel CommandType = iota // shaded disc standing in for a model
	CommandView                     // text card
)

// RenderCommand is a single draw instruction emitted during scene traversal.
type RenderCommand struct {
	Type   CommandType
	Node   *Node
	X, Y   float64 // screen-space center
	Radius float64 // screen-space radius
	Depth  float64 // distance from the camera eye
	Scale  float64 // pixels per local unit at Depth
	Color  Color
}

// planeColor tints tracked planes.
var planeColor = Color{R: 1, G: 1, B: 1, A: 0.12}

// modelSegments is the number of triangles in a model disc.
const modelSegments = 24

// SetViewport resizes the camera viewport, usually from ebiten's Layout.
func (s *Scene) SetViewport(width, height int) {
	s.camera.Viewport = Rect{Width: float64(width), Height: float64(height)}
}

// Draw renders the planes and every active renderable node onto screen.
// Nodes are drawn far to near.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.ClearColor.toRGBA())
	if s.session != nil {
		for _, p := range s.session.Planes() {
			s.drawPlane(screen, p)
		}
	}

	s.commands = s.commands[:0]
	s.traverse(s.root)
	sort.SliceStable(s.commands, func(i, j int) bool {
		return s.commands[i].Depth > s.commands[j].Depth
	})
	for i := range s.commands {
		cmd := &s.commands[i]
		switch cmd.Type {
		case CommandModel:
			s.drawModel(screen, cmd)
		case CommandView:
			s.drawView(screen, cmd)
		}
	}
	for i := range s.commands {
		s.commands[i].Node = nil
	}
	s.flushCaptures(screen)
}

// traverse walks the node tree depth-first and emits render commands for
// active nodes with a renderable in front of the camera.
func (s *Scene) traverse(n *Node) {
	if !n.Enabled {
		return
	}
	if n.anchor != nil && n.anchor.TrackingState() != TrackingTracking {
		return
	}
	if n.Renderable != nil {
		s.emit(n)
	}
	for _, c := range n.children {
		s.traverse(c)
	}
}

func (s *Scene) emit(n *Node) {
	center := n.WorldPosition()
	x, y, ok := s.camera.WorldToScreen(center)
	if !ok {
		return
	}
	scale := s.camera.ScreenRadius(center, n.maxWorldScale())
	cmd := RenderCommand{
		Node:  n,
		X:     x,
		Y:     y,
		Depth: center.Sub(s.camera.Eye).Len(),
		Scale: scale,
	}
	switch r := n.Renderable.(type) {
	case *ModelRenderable:
		cmd.Type = CommandModel
		cmd.Radius = r.Radius * scale
		cmd.Color = r.Color
	case *ViewRenderable:
		cmd.Type = CommandView
		cmd.Color = r.Background
	default:
		return
	}
	s.commands = append(s.commands, cmd)
}

// drawPlane projects the plane's corners and fills the quad.
func (s *Scene) drawPlane(screen *ebiten.Image, p *Plane) {
	hx, hz := p.ExtentX/2, p.ExtentZ/2
	corners := [4]mgl64.Vec3{{-hx, 0, -hz}, {hx, 0, -hz}, {hx, 0, hz}, {-hx, 0, hz}}
	m := p.CenterPose.Matrix()
	var verts [4]ebiten.Vertex
	for i, c := range corners {
		x, y, ok := s.camera.WorldToScreen(mgl64.TransformCoordinate(c, m))
		if !ok {
			return
		}
		verts[i] = solidVertex(x, y, planeColor)
	}
	screen.DrawTriangles(verts[:], []uint16{0, 1, 2, 0, 2, 3}, whitePixel(), nil)
}

// drawModel draws a shaded disc: a lit center fading toward the rim.
func (s *Scene) drawModel(screen *ebiten.Image, cmd *RenderCommand) {
	if cmd.Radius < 0.5 {
		return
	}
	rim := Color{R: cmd.Color.R * 0.55, G: cmd.Color.G * 0.55, B: cmd.Color.B * 0.55, A: cmd.Color.A}
	verts := s.vertBuf[:0]
	inds := s.indBuf[:0]
	verts = append(verts, solidVertex(cmd.X, cmd.Y, cmd.Color))
	for i := 0; i < modelSegments; i++ {
		a := 2 * math.Pi * float64(i) / modelSegments
		verts = append(verts, solidVertex(cmd.X+cmd.Radius*math.Cos(a), cmd.Y+cmd.Radius*math.Sin(a), rim))
		next := uint16(1 + (i+1)%modelSegments)
		inds = append(inds, 0, uint16(1+i), next)
	}
	screen.DrawTriangles(verts, inds, whitePixel(), nil)
	s.vertBuf, s.indBuf = verts, inds
}

// drawView draws a label card with its text centered on the node.
func (s *Scene) drawView(screen *ebiten.Image, cmd *RenderCommand) {
	v := cmd.Node.Renderable.(*ViewRenderable)
	font := fontOrDefault(s.LabelFont)
	tw, th := font.MeasureString(v.Text)
	w, h := tw+12, th+6
	if cw := v.Width * cmd.Scale; cw > w {
		w = cw
	}
	x, y := cmd.X-w/2, cmd.Y-h/2

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	c := cmd.Color
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	screen.DrawImage(whitePixel(), &op)
	drawText(screen, v.Text, font, cmd.X-tw/2, y+3, ColorWhite)
}

// solidVertex returns a vertex sampling the white pixel with a premultiplied
// color.
func solidVertex(x, y float64, c Color) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(c.R * c.A),
		ColorG: float32(c.G * c.A),
		ColorB: float32(c.B * c.A),
		ColorA: float32(c.A),
	}
}
