package scene

import (
	"encoding/binary"
	"math"
)

// Kind selects how the rasterizer interprets a Prim's fields.
type Kind uint32

// Primitive kinds. Values are part of the shader contract.
const (
	// KindCircle: CVs[0] center, Radius.
	KindCircle Kind = iota
	// KindArc: CVs[0] center, CVs[1] (sin, cos) of rotation, CVs[2] (sin, cos)
	// of half aperture, Radius, Width.
	KindArc
	// KindRect: CVs[0] min, CVs[1] max, Radius is the corner radius.
	KindRect
	// KindRectStroke: as KindRect plus Width.
	KindRectStroke
	// KindSegment: CVs[0], CVs[1] endpoints, Width.
	KindSegment
	// KindBezier: quadratic bezier CVs[0..2], Width.
	KindBezier
)

var kindNames = [...]string{"circle", "arc", "rect", "rect_stroke", "segment", "bezier"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Vec2 is a point in world space, in logical pixels.
type Vec2 struct {
	X, Y float32
}

// Prim is one drawable shape.
//
// GPU layout (PrimSize bytes, std430):
//
//	offset 0   kind   u32
//	offset 4   (pad)
//	offset 8   cvs    array<vec2<f32>, 3>
//	offset 32  radius f32
//	offset 36  width  f32
//	offset 40  paint  u32
//	offset 44  (pad)
type Prim struct {
	Kind   Kind
	CVs    [3]Vec2
	Radius float32
	Width  float32
	Paint  uint32
}

// PrimSize is the byte size of one Prim in the storage buffer.
const PrimSize = 48

// AppendBytes appends the GPU encoding of p to dst.
func (p *Prim) AppendBytes(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(p.Kind))
	dst = binary.LittleEndian.AppendUint32(dst, 0)
	for _, cv := range p.CVs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(cv.X))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(cv.Y))
	}
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(p.Radius))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(p.Width))
	dst = binary.LittleEndian.AppendUint32(dst, p.Paint)
	dst = binary.LittleEndian.AppendUint32(dst, 0)
	return dst
}
