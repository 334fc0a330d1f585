package scene

import (
	"encoding/binary"
	"math"
)

// PaintRecord is the GPU form of a paint table entry.
//
// Xform holds A..F of the world-to-paint affine map
// (t.x = A*p.x + B*p.y + C, t.y = D*p.x + E*p.y + F). The shader mixes
// Inner to Outer along t.x clamped to [0, 1].
// When Image is nonzero it samples the atlas at UV instead.
//
// GPU layout (PaintSize bytes):
//
//	offset 0   xform_abcd vec4<f32>
//	offset 16  xform_ef   vec2<f32>
//	offset 24  glow       f32
//	offset 28  image      u32
//	offset 32  inner      vec4<f32>
//	offset 48  outer      vec4<f32>
//	offset 64  uv         vec4<f32>
type PaintRecord struct {
	Xform [6]float32
	Glow  float32
	Image uint32
	Inner [4]float32
	Outer [4]float32
	UV    [4]float32
}

// PaintSize is the byte size of one PaintRecord.
const PaintSize = 80

// AppendBytes appends the GPU encoding of r to dst.
func (r *PaintRecord) AppendBytes(dst []byte) []byte {
	dst = appendFloats(dst, r.Xform[:]...)
	dst = appendFloats(dst, r.Glow)
	dst = binary.LittleEndian.AppendUint32(dst, r.Image)
	dst = appendFloats(dst, r.Inner[:]...)
	dst = appendFloats(dst, r.Outer[:]...)
	dst = appendFloats(dst, r.UV[:]...)
	return dst
}

// Uniforms are the per-frame viewport parameters.
//
//	offset 0  size  vec2<f32>  viewport in logical pixels
//	offset 8  ratio f32        device pixels per logical pixel
//	offset 12 (pad)
type Uniforms struct {
	Width, Height float32
	PixelRatio    float32
}

// UniformSize is the byte size of Uniforms.
const UniformSize = 16

// AppendBytes appends the GPU encoding of u to dst.
func (u *Uniforms) AppendBytes(dst []byte) []byte {
	return appendFloats(dst, u.Width, u.Height, u.PixelRatio, 0)
}

func appendFloats(dst []byte, fs ...float32) []byte {
	for _, f := range fs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}
