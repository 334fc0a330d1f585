package vger

import (
	"github.com/gogpu/vger/atlas"
	"github.com/gogpu/vger/scene"
)

// PaintIndex refers to an entry in the current frame's paint table.
type PaintIndex uint32

type paintKind uint8

const (
	paintSolid paintKind = iota
	paintLinear
	paintImage
)

// Paint describes how a primitive is colored. Build one with SolidPaint,
// LinearGradientPaint or ImagePaint and register it with Renderer.AddPaint.
type Paint struct {
	kind         paintKind
	inner, outer Color
	start, end   Point
	region       atlas.RegionID
	origin       Point
	scale        float64
	glow         float64
}

// SolidPaint fills with a single color.
func SolidPaint(c Color) Paint {
	return Paint{kind: paintSolid, inner: c, outer: c}
}

// LinearGradientPaint blends from inner at start to outer at end.
// Points before start or past end take the end colors.
func LinearGradientPaint(start, end Point, inner, outer Color) Paint {
	return Paint{kind: paintLinear, start: start, end: end, inner: inner, outer: outer}
}

// ImagePaint tiles an atlas region with its top-left at origin, scaled by
// scale, and multiplied by alpha. The region may still be pending; it is
// resolved when the frame is encoded.
func ImagePaint(region atlas.RegionID, origin Point, scale, alpha float64) Paint {
	if scale <= 0 {
		scale = 1
	}
	return Paint{
		kind:   paintImage,
		region: region,
		origin: origin,
		scale:  scale,
		inner:  RGBA(1, 1, 1, alpha),
	}
}

// WithGlow returns p with a glow amount passed through to the shader.
func (p Paint) WithGlow(glow float64) Paint {
	p.glow = glow
	return p
}

// paintEntry is a paint plus the world-to-local transform in effect when
// it was added.
type paintEntry struct {
	paint Paint
	inv   Matrix
}

// AddPaint registers p in the current frame's paint table. Gradient and
// image coordinates are interpreted in the current transform. When the
// table is full the paint is dropped and index 0 is returned.
func (r *Renderer) AddPaint(p Paint) PaintIndex {
	if len(r.paints) >= MaxPaints {
		slogger().Warn("paint table full", "max", MaxPaints, "frame", r.frame)
		return 0
	}
	r.paints = append(r.paints, paintEntry{paint: p, inv: r.tx.top().Invert()})
	return PaintIndex(len(r.paints) - 1) //nolint:gosec // bounded by MaxPaints
}

// ColorPaint adds a solid color paint.
func (r *Renderer) ColorPaint(c Color) PaintIndex {
	return r.AddPaint(SolidPaint(c))
}

// LinearGradient adds a linear gradient paint.
func (r *Renderer) LinearGradient(start, end Point, inner, outer Color) PaintIndex {
	return r.AddPaint(LinearGradientPaint(start, end, inner, outer))
}

// ImagePattern adds an image paint for an atlas region.
func (r *Renderer) ImagePattern(region atlas.RegionID, origin Point, scale, alpha float64) PaintIndex {
	return r.AddPaint(ImagePaint(region, origin, scale, alpha))
}

// paintRef maps an index to the table, falling back to entry 0 for
// indices the frame never issued.
func (r *Renderer) paintRef(i PaintIndex) uint32 {
	if int(i) >= len(r.paints) {
		return 0
	}
	return uint32(i)
}

// paintRecords converts the paint table to its GPU form. Image regions are
// resolved here, after the atlas flush placed them. The table is never
// empty so that index 0 is always valid. The returned slice is reused by
// the next call.
func (r *Renderer) paintRecords() []scene.PaintRecord {
	r.records = r.records[:0]
	if len(r.paints) == 0 {
		r.records = append(r.records, SolidPaint(Black).record(Identity(), r.atlas))
		return r.records
	}
	for _, e := range r.paints {
		r.records = append(r.records, e.paint.record(e.inv, r.atlas))
	}
	return r.records
}

// record builds the GPU paint. inv maps world to the paint's local space.
func (p Paint) record(inv Matrix, at *atlas.Atlas) scene.PaintRecord {
	rec := scene.PaintRecord{
		Glow:  float32(p.glow),
		Inner: p.inner.array(),
		Outer: p.outer.array(),
	}
	switch p.kind {
	case paintLinear:
		rec.Xform = gradientMatrix(p.start, p.end).Multiply(inv).array()
	case paintImage:
		rect, state := at.Region(p.region)
		uv, ok := at.UV(p.region)
		if !ok {
			slogger().Warn("image paint region unavailable", "region", p.region, "state", state)
			rec.Inner = Transparent.array()
			rec.Outer = Transparent.array()
			return rec
		}
		m := Scale(1/(float64(rect.Width)*p.scale), 1/(float64(rect.Height)*p.scale)).
			Multiply(Translate(-p.origin.X, -p.origin.Y)).
			Multiply(inv)
		rec.Xform = m.array()
		rec.Image = 1
		rec.UV = uv
	}
	return rec
}

// gradientMatrix maps start to x=0 and end to x=1; y runs along the
// perpendicular in the same units.
func gradientMatrix(start, end Point) Matrix {
	d := end.Sub(start)
	l2 := d.Dot(d)
	if l2 == 0 {
		return Matrix{}
	}
	return Matrix{
		A: d.X / l2,
		B: d.Y / l2,
		C: -start.Dot(d) / l2,
		D: -d.Y / l2,
		E: d.X / l2,
		F: (start.X*d.Y - start.Y*d.X) / l2,
	}
}
