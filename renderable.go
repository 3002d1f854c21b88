package gesturear

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidModel is returned when model data is not a binary glTF container.
var ErrInvalidModel = errors.New("gesturear: invalid model")

// Renderable is drawable content attachable to a Node.
type Renderable interface {
	// BoundingRadius is the radius of a sphere around the node origin that
	// encloses the content, in the node's local units.
	BoundingRadius() float64
}

// glb container constants.
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbHeaderLen = 12
)

// ModelRenderable is a loaded binary glTF model.
type ModelRenderable struct {
	// Source is the URL or path the model was loaded from.
	Source string
	// Version is the container version from the GLB header.
	Version uint32
	// Generator is the asset.generator field of the glTF JSON, if any.
	Generator string
	// Animations lists the model's animation names in file order.
	// Unnamed animations appear as "".
	Animations []string
	// Color tints the model's stand-in shape when drawn.
	Color Color
	// Radius is the model's bounding radius in model units.
	Radius float64

	size int
}

// Size returns the container length in bytes.
func (m *ModelRenderable) Size() int {
	return m.size
}

// BoundingRadius implements Renderable.
func (m *ModelRenderable) BoundingRadius() float64 {
	return m.Radius
}

// defaultModelRadius is the bounding radius assumed for loaded models, in
// model units. Scaled to 0.1 it gives a 15 cm touch target.
const defaultModelRadius = 1.5

// ParseModel validates a binary glTF container and reads the metadata the
// scene needs from its JSON chunk.
func ParseModel(source string, data []byte) (*ModelRenderable, error) {
	if len(data) < glbHeaderLen+8 {
		return nil, fmt.Errorf("%s: %d bytes is too short: %w", source, len(data), ErrInvalidModel)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != glbMagic {
		return nil, fmt.Errorf("%s: bad magic: %w", source, ErrInvalidModel)
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != 2 {
		return nil, fmt.Errorf("%s: unsupported container version %d: %w", source, version, ErrInvalidModel)
	}
	length := binary.LittleEndian.Uint32(data[8:12])
	if int(length) > len(data) || length < glbHeaderLen+8 {
		return nil, fmt.Errorf("%s: declared length %d, have %d: %w", source, length, len(data), ErrInvalidModel)
	}

	chunkLen := binary.LittleEndian.Uint32(data[12:16])
	chunkType := binary.LittleEndian.Uint32(data[16:20])
	if chunkType != glbChunkJSON {
		return nil, fmt.Errorf("%s: first chunk is not JSON: %w", source, ErrInvalidModel)
	}
	end := uint64(glbHeaderLen+8) + uint64(chunkLen)
	if end > uint64(length) {
		return nil, fmt.Errorf("%s: JSON chunk overruns container: %w", source, ErrInvalidModel)
	}

	var doc struct {
		Asset struct {
			Version   string `json:"version"`
			Generator string `json:"generator"`
		} `json:"asset"`
		Animations []struct {
			Name string `json:"name"`
		} `json:"animations"`
	}
	if err := json.Unmarshal(data[glbHeaderLen+8:end], &doc); err != nil {
		return nil, fmt.Errorf("%s: parse JSON chunk: %v: %w", source, err, ErrInvalidModel)
	}

	m := &ModelRenderable{
		Source:    source,
		Version:   version,
		Generator: doc.Asset.Generator,
		Color:     Color{R: 0.92, G: 0.92, B: 0.92, A: 1},
		Radius:    defaultModelRadius,
		size:      int(length),
	}
	for _, a := range doc.Animations {
		m.Animations = append(m.Animations, a.Name)
	}
	return m, nil
}

// ViewRenderable is a flat text card, used for labels floating above models.
type ViewRenderable struct {
	Text string
	// Width and Height are the card size in local units.
	Width, Height float64
	// Background fills the card behind the text.
	Background Color
}

// NewViewRenderable creates a label card sized to fit text.
func NewViewRenderable(text string) *ViewRenderable {
	const charWidth, lineHeight = 0.12, 0.3
	w := float64(len(text))*charWidth + 0.2
	return &ViewRenderable{
		Text:       text,
		Width:      w,
		Height:     lineHeight,
		Background: Color{R: 0.1, G: 0.1, B: 0.1, A: 0.75},
	}
}

// BoundingRadius implements Renderable.
func (v *ViewRenderable) BoundingRadius() float64 {
	return v.Width / 2
}
