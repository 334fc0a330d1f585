package vger

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/vger/atlas"
)

// AddAtlasRegion queues premultiplied RGBA8 pixels for the atlas. The
// region is placed when the next frame is encoded.
func (r *Renderer) AddAtlasRegion(pixels []byte, width, height int) (atlas.RegionID, error) {
	if r.closed {
		return 0, ErrClosed
	}
	return r.atlas.AddRegion(pixels, width, height)
}

// AddImage converts img to premultiplied RGBA and queues it for the atlas.
func (r *Renderer) AddImage(img image.Image) (atlas.RegionID, error) {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return r.AddAtlasRegion(dst.Pix, b.Dx(), b.Dy())
}

// AddImageScaled resamples img to width x height with Catmull-Rom
// filtering before queueing it.
func (r *Renderer) AddImageScaled(img image.Image, width, height int) (atlas.RegionID, error) {
	if width <= 0 || height <= 0 {
		return 0, atlas.ErrInvalidSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return r.AddAtlasRegion(dst.Pix, width, height)
}

// Region reports where an atlas region was placed.
func (r *Renderer) Region(id atlas.RegionID) (atlas.Rect, atlas.RegionState) {
	if r.closed {
		return atlas.Rect{}, atlas.RegionUnknown
	}
	return r.atlas.Region(id)
}
