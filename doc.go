// Package vger encodes 2D vector graphics frames for a GPU rasterizer.
//
// # Overview
//
// A [Renderer] records shapes into fixed-capacity layers and submits them
// to a gogpu/wgpu HAL device once per frame. Each frame is written into one
// of N rotating frame slots (three by default) so the CPU can record the
// next frame while the GPU still reads earlier ones. Every slot remembers
// its queue submission; [Renderer.Begin] waits for it to complete before
// reusing the slot and reports [ErrFrameInFlight] when the GPU falls too
// far behind.
//
// # Quick Start
//
//	r, err := vger.New(device, queue)
//	if err != nil { ... }
//	defer r.Close()
//
//	if err := r.Begin(800, 600, 2); err != nil { ... }
//	red := r.ColorPaint(vger.RGB(1, 0, 0))
//	r.FillCircle(vger.Pt(100, 100), 40, red)
//	r.StrokeArc(vger.Pt(300, 300), 60, 4, 0, math.Pi/3, red)
//	sub, err := r.Encode(vger.Target{View: surfaceView})
//
// # Layers and capacity
//
// A frame has [MaxLayers] layers drawn in index order. Each holds up to
// [MaxPrims] primitives; drawing calls past that return false and the
// primitive is dropped.
//
// # Images
//
// Raster images go into a shared texture atlas with [Renderer.AddImage] or
// [Renderer.AddAtlasRegion]. Regions are packed and copied at the next
// Encode, before any draw that samples them. Regions that do not fit are
// reported in [Submission.Failed].
//
// # Coordinate System
//
// Logical pixels, origin at the top-left, Y down. The device pixel ratio
// given to Begin scales antialiasing to physical pixels.
package vger

// Version is the library version.
const Version = "0.1.0"
