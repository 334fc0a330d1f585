package vger

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/gogpu/vger/scene"
)

func vec(p Point) scene.Vec2 {
	return scene.Vec2{X: float32(p.X), Y: float32(p.Y)}
}

// push appends p to the current layer. Primitives past the layer capacity
// are dropped; the first drop of a frame is logged.
func (r *Renderer) push(p scene.Prim) bool {
	if !r.recording {
		return false
	}
	if r.slots[r.cur].scene.Append(r.layer, p) {
		return true
	}
	r.dropped++
	if r.dropped == 1 {
		slogger().Warn("layer full, dropping primitives", "layer", r.layer, "max", MaxPrims, "frame", r.frame)
	}
	return false
}

// FillCircle draws a filled circle. A negative radius is clamped to zero.
// It returns false if the primitive was dropped.
func (r *Renderer) FillCircle(center Point, radius float64, paint PaintIndex) bool {
	if radius < 0 {
		radius = 0
	}
	m := r.tx.top()
	return r.push(scene.Prim{
		Kind:   scene.KindCircle,
		CVs:    [3]scene.Vec2{vec(m.TransformPoint(center))},
		Radius: float32(radius * m.ScaleFactor()),
		Paint:  r.paintRef(paint),
	})
}

// StrokeArc draws an arc of the circle at center. rotation is the angle of
// the arc's midpoint direction and aperture its half-angle, both in
// radians. The angles are stored as (sin, cos) pairs.
func (r *Renderer) StrokeArc(center Point, radius, width, rotation, aperture float64, paint PaintIndex) bool {
	if radius < 0 {
		radius = 0
	}
	m := r.tx.top()
	s := m.ScaleFactor()

	// The arc is symmetric about the axis (-sin, cos) of rotation, so
	// mapping that axis keeps the arc correct under reflections too.
	sr, cr := math.Sincos(rotation)
	axis := m.TransformVector(Pt(-sr, cr))
	if l := axis.Length(); l > 0 {
		axis = axis.Mul(1 / l)
	} else {
		axis = Pt(-sr, cr)
	}
	ap := float32(aperture)
	return r.push(scene.Prim{
		Kind: scene.KindArc,
		CVs: [3]scene.Vec2{
			vec(m.TransformPoint(center)),
			{X: float32(-axis.X), Y: float32(axis.Y)},
			{X: math32.Sin(ap), Y: math32.Cos(ap)},
		},
		Radius: float32(radius * s),
		Width:  float32(width * s),
		Paint:  r.paintRef(paint),
	})
}

// FillRect draws a rectangle with rounded corners. The rectangle stays
// axis-aligned in world space; rotations only move its corners.
func (r *Renderer) FillRect(min, max Point, cornerRadius float64, paint PaintIndex) bool {
	return r.rect(scene.KindRect, min, max, cornerRadius, 0, paint)
}

// StrokeRect outlines a rectangle with rounded corners.
func (r *Renderer) StrokeRect(min, max Point, cornerRadius, width float64, paint PaintIndex) bool {
	return r.rect(scene.KindRectStroke, min, max, cornerRadius, width, paint)
}

func (r *Renderer) rect(kind scene.Kind, min, max Point, cornerRadius, width float64, paint PaintIndex) bool {
	if cornerRadius < 0 {
		cornerRadius = 0
	}
	m := r.tx.top()
	s := m.ScaleFactor()
	a, b := m.TransformPoint(min), m.TransformPoint(max)
	lo := Pt(math.Min(a.X, b.X), math.Min(a.Y, b.Y))
	hi := Pt(math.Max(a.X, b.X), math.Max(a.Y, b.Y))
	return r.push(scene.Prim{
		Kind:   kind,
		CVs:    [3]scene.Vec2{vec(lo), vec(hi)},
		Radius: float32(cornerRadius * s),
		Width:  float32(width * s),
		Paint:  r.paintRef(paint),
	})
}

// StrokeSegment draws a line segment with round caps.
func (r *Renderer) StrokeSegment(a, b Point, width float64, paint PaintIndex) bool {
	m := r.tx.top()
	return r.push(scene.Prim{
		Kind:  scene.KindSegment,
		CVs:   [3]scene.Vec2{vec(m.TransformPoint(a)), vec(m.TransformPoint(b))},
		Width: float32(width * m.ScaleFactor()),
		Paint: r.paintRef(paint),
	})
}

// StrokeBezier draws a quadratic bezier from a to c with control point b.
func (r *Renderer) StrokeBezier(a, b, c Point, width float64, paint PaintIndex) bool {
	m := r.tx.top()
	return r.push(scene.Prim{
		Kind: scene.KindBezier,
		CVs: [3]scene.Vec2{
			vec(m.TransformPoint(a)),
			vec(m.TransformPoint(b)),
			vec(m.TransformPoint(c)),
		},
		Width: float32(width * m.ScaleFactor()),
		Paint: r.paintRef(paint),
	})
}
