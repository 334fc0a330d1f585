package atlas

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// BytesPerPixel is the size of one RGBA8 texel.
const BytesPerPixel = 4

// copyPitchAlignment is the BytesPerRow alignment WebGPU and DX12 require
// for buffer/texture copies.
const copyPitchAlignment = 256

// RegionID identifies a region added to an Atlas. The zero value is never
// issued.
type RegionID uint32

// RegionState describes where a region is in its lifecycle.
type RegionState uint8

const (
	// RegionUnknown is returned for IDs the atlas never issued.
	RegionUnknown RegionState = iota
	// RegionPending means the region waits for the next Flush.
	RegionPending
	// RegionPlaced means the region has a rectangle in the texture.
	RegionPlaced
	// RegionFailed means the region did not fit and was discarded.
	RegionFailed
)

func (s RegionState) String() string {
	switch s {
	case RegionPending:
		return "pending"
	case RegionPlaced:
		return "placed"
	case RegionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type pendingRegion struct {
	id     RegionID
	width  int
	height int
	pixels []byte
}

type regionEntry struct {
	state RegionState
	rect  Rect
}

// Placement is a region that Flush copied into the texture.
type Placement struct {
	ID   RegionID
	Rect Rect
}

// Failure is a region that Flush discarded.
type Failure struct {
	ID  RegionID
	Err error
}

// FlushResult reports what a Flush recorded.
type FlushResult struct {
	Placed []Placement
	Failed []Failure

	// Copies holds one entry per recorded buffer-to-texture copy, in
	// recording order.
	Copies []hal.BufferTextureCopy

	// Staging buffers back the recorded copies. They must stay alive until
	// the command buffer has finished executing; release them with
	// DestroyStaging.
	Staging []hal.Buffer

	// firstWrite is set when this flush performs the texture's first upload.
	firstWrite bool
}

// Stats is a snapshot of atlas usage.
type Stats struct {
	Regions     int
	Pending     int
	Placed      int
	Failed      int
	Flushes     int
	Copies      int
	Utilization float64
}

// Atlas manages one fixed-size RGBA8 texture filled by a Packer.
type Atlas struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	packer *Packer

	texture hal.Texture
	view    hal.TextureView
	sampler hal.Sampler

	pending []pendingRegion
	regions []regionEntry // indexed by RegionID-1

	// written is set once the texture received its first copy, so the
	// layout transition knows whether prior contents exist.
	written bool
	closed  bool

	flushes int
	copies  int
	placed  int
	failed  int
}

// New creates the atlas texture, its view and sampler.
func New(device hal.Device, queue hal.Queue, cfg Config) (*Atlas, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	cfg = cfg.withDefaults()

	texture, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: "vger_atlas",
		Size: hal.Extent3D{
			Width:              uint32(cfg.Width),  //nolint:gosec // validated by withDefaults
			Height:             uint32(cfg.Height), //nolint:gosec // validated by withDefaults
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create atlas texture: %w", err)
	}

	view, err := device.CreateTextureView(texture, &hal.TextureViewDescriptor{
		Label:         "vger_atlas_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(texture)
		return nil, fmt.Errorf("create atlas texture view: %w", err)
	}

	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "vger_atlas_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		device.DestroyTextureView(view)
		device.DestroyTexture(texture)
		return nil, fmt.Errorf("create atlas sampler: %w", err)
	}

	slogger().Debug("atlas created", "width", cfg.Width, "height", cfg.Height,
		"border", cfg.BorderPadding, "spacing", cfg.RectanglePadding)

	return &Atlas{
		device:  device,
		queue:   queue,
		packer:  NewPacker(cfg),
		texture: texture,
		view:    view,
		sampler: sampler,
	}, nil
}

// AddRegion queues an RGBA8 image for the next Flush and returns its handle.
// The pixels are copied. No GPU work happens here.
func (a *Atlas) AddRegion(pixels []byte, width, height int) (RegionID, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if want := width * height * BytesPerPixel; len(pixels) != want {
		return 0, fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrPixelSizeMismatch, width, height, want, len(pixels))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return 0, ErrAtlasClosed
	}

	a.regions = append(a.regions, regionEntry{state: RegionPending})
	id := RegionID(len(a.regions)) //nolint:gosec // region count fits in uint32
	a.pending = append(a.pending, pendingRegion{
		id:     id,
		width:  width,
		height: height,
		pixels: append([]byte(nil), pixels...),
	})
	return id, nil
}

// Flush packs every pending region in insertion order and records a
// buffer-to-texture copy for each placed one into encoder. Regions that
// do not fit are reported in FlushResult.Failed. The pending list is
// empty afterwards whatever the outcome.
//
// Placed regions are reported as RegionPlaced right away so that the
// caller can resolve their UVs while recording the same frame. If the
// recorded commands never reach the GPU, pass the result to Abort.
//
// A non-nil error means a staging buffer could not be created. The
// regions of this flush are then marked failed and the staging buffers
// created so far destroyed; the caller should discard the encoder. Packer
// space is never reclaimed, so the rectangles already packed by this
// flush stay reserved. Regions after the failing one are not packed.
func (a *Atlas) Flush(encoder hal.CommandEncoder) (FlushResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var res FlushResult
	if a.closed {
		return res, ErrAtlasClosed
	}
	if len(a.pending) == 0 {
		return res, nil
	}

	pending := a.pending
	a.pending = nil
	a.flushes++

	type placedRegion struct {
		id   RegionID
		rect Rect
	}
	toCopy := make([]placedRegion, 0, len(pending))
	for i, p := range pending {
		rect, ok := a.packer.Pack(p.width, p.height)
		if !ok {
			a.setState(p.id, RegionFailed, Rect{})
			err := fmt.Errorf("%w: region %d (%dx%d)", ErrPackingFailed, p.id, p.width, p.height)
			res.Failed = append(res.Failed, Failure{ID: p.id, Err: err})
			slogger().Warn("atlas region does not fit", "id", p.id, "width", p.width, "height", p.height,
				"utilization", a.packer.Utilization())
			continue
		}
		buf, cp, err := a.stage(p, rect)
		if err != nil {
			a.DestroyStaging(res.Staging)
			for _, q := range toCopy {
				a.setState(q.id, RegionFailed, Rect{})
				res.Failed = append(res.Failed, Failure{ID: q.id, Err: err})
			}
			for _, q := range pending[i:] {
				a.setState(q.id, RegionFailed, Rect{})
				res.Failed = append(res.Failed, Failure{ID: q.id, Err: err})
			}
			res.Placed, res.Copies, res.Staging = nil, nil, nil
			return res, err
		}
		toCopy = append(toCopy, placedRegion{id: p.id, rect: rect})
		res.Staging = append(res.Staging, buf)
		res.Copies = append(res.Copies, cp)
	}
	if len(toCopy) == 0 {
		return res, nil
	}

	oldUsage := gputypes.TextureUsageTextureBinding
	if !a.written {
		oldUsage = 0
		res.firstWrite = true
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: a.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: oldUsage,
			NewUsage: gputypes.TextureUsageCopyDst,
		},
	}})
	for i, pr := range toCopy {
		encoder.CopyBufferToTexture(res.Staging[i], a.texture, []hal.BufferTextureCopy{res.Copies[i]})
		a.setState(pr.id, RegionPlaced, pr.rect)
		res.Placed = append(res.Placed, Placement{ID: pr.id, Rect: pr.rect})
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: a.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopyDst,
			NewUsage: gputypes.TextureUsageTextureBinding,
		},
	}})
	a.written = true
	a.copies += len(res.Copies)

	slogger().Debug("atlas flushed", "placed", len(res.Placed), "failed", len(res.Failed),
		"utilization", a.packer.Utilization())
	return res, nil
}

// Abort rolls back a Flush whose commands were never submitted: its placed
// regions become RegionFailed and its staging buffers are destroyed. The
// packer space they took is not reclaimed. Abort returns res.Failed
// followed by the aborted regions.
func (a *Atlas) Abort(res FlushResult, cause error) []Failure {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.DestroyStaging(res.Staging)
	failed := make([]Failure, 0, len(res.Failed)+len(res.Placed))
	failed = append(failed, res.Failed...)
	for _, p := range res.Placed {
		if a.regions[p.ID-1].state == RegionPlaced {
			a.placed--
		}
		a.setState(p.ID, RegionFailed, Rect{})
		failed = append(failed, Failure{ID: p.ID, Err: fmt.Errorf("%w: %w", ErrUploadAborted, cause)})
	}
	a.copies -= len(res.Copies)
	if res.firstWrite {
		a.written = false
	}
	if len(res.Placed) > 0 {
		slogger().Warn("atlas upload aborted", "regions", len(res.Placed), "err", cause)
	}
	return failed
}

// stage creates the transient upload buffer for one region and describes
// its copy. Rows are padded to copyPitchAlignment.
func (a *Atlas) stage(p pendingRegion, rect Rect) (hal.Buffer, hal.BufferTextureCopy, error) {
	rowBytes := p.width * BytesPerPixel
	pitch := (rowBytes + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)

	data := p.pixels
	if pitch != rowBytes {
		data = make([]byte, pitch*p.height)
		for y := 0; y < p.height; y++ {
			copy(data[y*pitch:], p.pixels[y*rowBytes:(y+1)*rowBytes])
		}
	}

	buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "vger_atlas_staging",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, hal.BufferTextureCopy{}, fmt.Errorf("create atlas staging buffer: %w", err)
	}
	if err := a.queue.WriteBuffer(buf, 0, data); err != nil {
		a.device.DestroyBuffer(buf)
		return nil, hal.BufferTextureCopy{}, fmt.Errorf("write atlas staging buffer: %w", err)
	}

	cp := hal.BufferTextureCopy{
		BufferLayout: hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(pitch),    //nolint:gosec // bounded by atlas width
			RowsPerImage: uint32(p.height), //nolint:gosec // bounded by atlas height
		},
		TextureBase: hal.ImageCopyTexture{
			Texture:  a.texture,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(rect.X), Y: uint32(rect.Y), Z: 0}, //nolint:gosec // inside atlas
			Aspect:   gputypes.TextureAspectAll,
		},
		Size: hal.Extent3D{
			Width:              uint32(p.width),  //nolint:gosec // bounded by atlas width
			Height:             uint32(p.height), //nolint:gosec // bounded by atlas height
			DepthOrArrayLayers: 1,
		},
	}
	return buf, cp, nil
}

func (a *Atlas) setState(id RegionID, state RegionState, rect Rect) {
	a.regions[id-1] = regionEntry{state: state, rect: rect}
	switch state {
	case RegionPlaced:
		a.placed++
	case RegionFailed:
		a.failed++
	}
}

// DestroyStaging releases staging buffers returned by Flush.
func (a *Atlas) DestroyStaging(bufs []hal.Buffer) {
	for _, b := range bufs {
		if b != nil {
			a.device.DestroyBuffer(b)
		}
	}
}

// Region returns the rectangle and state of a region. The rectangle is only
// meaningful for RegionPlaced.
func (a *Atlas) Region(id RegionID) (Rect, RegionState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id == 0 || int(id) > len(a.regions) {
		return Rect{}, RegionUnknown
	}
	e := a.regions[id-1]
	return e.rect, e.state
}

// UV returns the normalized texture rectangle of a placed region as
// (u0, v0, u1, v1).
func (a *Atlas) UV(id RegionID) ([4]float32, bool) {
	r, state := a.Region(id)
	if state != RegionPlaced {
		return [4]float32{}, false
	}
	cfg := a.packer.Config()
	w, h := float32(cfg.Width), float32(cfg.Height)
	return [4]float32{
		float32(r.X) / w,
		float32(r.Y) / h,
		float32(r.X+r.Width) / w,
		float32(r.Y+r.Height) / h,
	}, true
}

// Size returns the texture dimensions.
func (a *Atlas) Size() (width, height int) {
	cfg := a.packer.Config()
	return cfg.Width, cfg.Height
}

// Pending returns the number of regions waiting for Flush.
func (a *Atlas) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Stats returns a usage snapshot.
func (a *Atlas) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Stats{
		Regions:     len(a.regions),
		Pending:     len(a.pending),
		Placed:      a.placed,
		Failed:      a.failed,
		Flushes:     a.flushes,
		Copies:      a.copies,
		Utilization: a.packer.Utilization(),
	}
}

// Texture returns the atlas texture.
func (a *Atlas) Texture() hal.Texture { return a.texture }

// View returns the texture view bound for sampling.
func (a *Atlas) View() hal.TextureView { return a.view }

// Sampler returns the sampler bound alongside the view.
func (a *Atlas) Sampler() hal.Sampler { return a.sampler }

// Close releases the GPU resources. Pending regions are dropped.
// Close is idempotent.
func (a *Atlas) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.pending = nil
	if a.sampler != nil {
		a.device.DestroySampler(a.sampler)
		a.sampler = nil
	}
	if a.view != nil {
		a.device.DestroyTextureView(a.view)
		a.view = nil
	}
	if a.texture != nil {
		a.device.DestroyTexture(a.texture)
		a.texture = nil
	}
}

// IsClosed reports whether Close has been called.
func (a *Atlas) IsClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}
