package vger

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vger/atlas"
	"github.com/gogpu/vger/scene"
)

// Capacity limits of a frame.
const (
	MaxLayers = scene.MaxLayers
	MaxPrims  = scene.MaxPrims
	MaxPaints = scene.MaxPaints
)

// Target is the render target of one Encode.
type Target struct {
	// View is the color attachment, in the renderer's target format.
	View hal.TextureView

	// Clear is the color the target is cleared to, unless Load is set.
	Clear Color

	// Load keeps the existing contents instead of clearing.
	Load bool
}

// Submission describes a submitted frame.
type Submission struct {
	// Slot is the frame slot the frame was recorded into.
	Slot int
	// Frame is the frame number, starting at 1.
	Frame uint64
	// Prims is the number of primitives drawn.
	Prims int
	// Dropped is the number of primitives rejected for capacity.
	Dropped int
	// Placed lists atlas regions copied to the texture by this frame.
	Placed []atlas.Placement
	// Failed lists atlas regions that did not fit.
	Failed []atlas.Failure
}

// Stats is a snapshot of renderer activity.
type Stats struct {
	Frames           uint64
	Submitted        uint64
	Prims            uint64
	Dropped          uint64
	InFlight         int
	AtlasUtilization float64
}

// Renderer is the frame encoder. It rotates frame slots, keeps the transform
// stack and paint table of the current frame, and submits frames to the
// queue.
//
// Renderer is not safe for concurrent use; record each frame from one
// goroutine.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	opts   options

	layout   hal.BindGroupLayout
	atlas    *atlas.Atlas
	pipeline Pipeline
	slots    []*frameSlot

	cur       int
	frame     uint64
	recording bool
	layer     int
	tx        transformStack
	paints    []paintEntry
	records   []scene.PaintRecord
	uniforms  scene.Uniforms
	dropped   int

	stats  Stats
	closed bool
}

// New creates a renderer on an initialized device. All frame slots, the
// atlas and the pipeline are created here and live until Close.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{
		device: device,
		queue:  queue,
		opts:   o,
		paints:  make([]paintEntry, 0, 64),
		records: make([]scene.PaintRecord, 0, 64),
	}
	r.tx.reset()

	if err := r.init(); err != nil {
		r.destroy()
		return nil, err
	}

	slogger().Info("renderer created", "slots", o.slots, "format", o.format,
		"atlas_width", o.atlas.Width, "atlas_height", o.atlas.Height)
	return r, nil
}

func (r *Renderer) init() error {
	var err error
	r.atlas, err = atlas.New(r.device, r.queue, r.opts.atlas)
	if err != nil {
		return fmt.Errorf("vger: %w", err)
	}
	r.layout, err = scene.NewBindGroupLayout(r.device)
	if err != nil {
		return fmt.Errorf("vger: %w", err)
	}
	r.pipeline, err = r.opts.pipelineFactory()(r.device, r.layout)
	if err != nil {
		return fmt.Errorf("vger: create pipeline: %w", err)
	}
	slogger().Info("pipeline built", "format", r.opts.format, "custom", r.opts.pipeline != nil)

	r.slots = make([]*frameSlot, r.opts.slots)
	for i := range r.slots {
		sc, err := scene.New(r.device, scene.Config{
			Label:     fmt.Sprintf("%s_slot%d", r.opts.label, i),
			Layout:    r.layout,
			AtlasView: r.atlas.View(),
			Sampler:   r.atlas.Sampler(),
		})
		if err != nil {
			return fmt.Errorf("vger: slot %d: %w", i, err)
		}
		r.slots[i] = &frameSlot{index: i, scene: sc}
	}
	return nil
}

// Begin starts a frame of the given logical size. It advances to the next
// frame slot, waiting up to the frame timeout for the GPU to finish that
// slot's previous frame. If the slot is still busy Begin returns
// ErrFrameInFlight and nothing changes; the caller may retry.
//
// Begin resets the slot's layers and paints, the transform stack, and the
// current layer. A frame that was begun but never encoded is discarded.
func (r *Renderer) Begin(width, height, pixelRatio float32) error {
	if r.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %vx%v", ErrInvalidViewport, width, height)
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}

	next := (r.cur + 1) % len(r.slots)
	slot := r.slots[next]
	if !slot.wait(r.device, r.queue, r.atlas, r.opts.frameTimeout) {
		slogger().Warn("frame slot busy", "slot", next, "frame", slot.frame, "timeout", r.opts.frameTimeout)
		return fmt.Errorf("%w: slot %d", ErrFrameInFlight, next)
	}

	if r.recording {
		slogger().Debug("discarding unencoded frame", "slot", r.cur, "frame", r.frame)
	}

	r.cur = next
	r.frame++
	r.recording = true
	r.layer = 0
	r.dropped = 0
	r.tx.reset()
	r.paints = r.paints[:0]
	r.uniforms = scene.Uniforms{Width: width, Height: height, PixelRatio: pixelRatio}
	slot.scene.Reset()
	r.stats.Frames++

	slogger().Debug("frame begun", "slot", next, "frame", r.frame, "width", width, "height", height)
	return nil
}

// SceneIndex returns the index of the active frame slot.
func (r *Renderer) SceneIndex() int { return r.cur }

// Frame returns the number of the current frame; zero before the first Begin.
func (r *Renderer) Frame() uint64 { return r.frame }

// Recording reports whether a frame is open.
func (r *Renderer) Recording() bool { return r.recording }

// Slots returns the number of frame slots.
func (r *Renderer) Slots() int { return len(r.slots) }

// SelectLayer directs subsequent drawing to layer i.
func (r *Renderer) SelectLayer(i int) error {
	if i < 0 || i >= MaxLayers {
		return fmt.Errorf("%w: %d", ErrLayerOutOfRange, i)
	}
	r.layer = i
	return nil
}

// Layer returns the current layer.
func (r *Renderer) Layer() int { return r.layer }

// LayerLen returns the number of primitives recorded into layer i this frame.
func (r *Renderer) LayerLen(i int) int {
	if r.closed {
		return 0
	}
	return r.slots[r.cur].scene.Len(i)
}

// Prims returns the primitives recorded into layer i this frame. The slice
// is only valid until the next Begin.
func (r *Renderer) Prims(i int) []scene.Prim {
	if r.closed {
		return nil
	}
	return r.slots[r.cur].scene.Prims(i)
}

// BindGroupLayout returns the layout every layer bind group uses.
func (r *Renderer) BindGroupLayout() hal.BindGroupLayout { return r.layout }

// Atlas returns the shared texture atlas.
func (r *Renderer) Atlas() *atlas.Atlas { return r.atlas }

// Encode flushes pending atlas uploads, uploads the frame, records one draw
// per non-empty layer into target and submits it. The frame slot is in
// flight until the queue reports its submission complete; Begin waits for
// that before reusing it.
//
// Device failures are returned wrapped in ErrSubmit. The frame is lost and
// the slot stays free. Atlas regions flushed into the lost frame are marked
// failed and listed in Submission.Failed.
func (r *Renderer) Encode(target Target) (Submission, error) {
	if r.closed {
		return Submission{}, ErrClosed
	}
	if !r.recording {
		return Submission{}, ErrNotRecording
	}
	if target.View == nil {
		return Submission{}, ErrNilTarget
	}
	slot := r.slots[r.cur]
	sc := slot.scene

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: r.opts.label + "_frame"})
	if err != nil {
		r.recording = false
		return Submission{}, fmt.Errorf("%w: create command encoder: %w", ErrSubmit, err)
	}
	if err := encoder.BeginEncoding(r.opts.label + "_frame"); err != nil {
		r.recording = false
		return Submission{}, fmt.Errorf("%w: begin encoding: %w", ErrSubmit, err)
	}

	// Copies go first so draws in this submission see the new regions.
	flush, err := r.atlas.Flush(encoder)
	if err != nil {
		encoder.DiscardEncoding()
		r.recording = false
		return Submission{Failed: flush.Failed}, fmt.Errorf("%w: %w", ErrSubmit, err)
	}
	fail := func(step string, err error) (Submission, error) {
		r.recording = false
		err = fmt.Errorf("%s: %w", step, err)
		failed := r.atlas.Abort(flush, err)
		return Submission{Failed: failed}, fmt.Errorf("%w: %w", ErrSubmit, err)
	}

	sc.SetPaints(r.paintRecords())
	sc.SetUniforms(r.uniforms)
	if err := sc.Upload(r.queue); err != nil {
		encoder.DiscardEncoding()
		return fail("upload scene", err)
	}

	loadOp := gputypes.LoadOpClear
	if target.Load {
		loadOp = gputypes.LoadOpLoad
	}
	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: r.opts.label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    target.View,
			LoadOp:  loadOp,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: target.Clear.R, G: target.Clear.G, B: target.Clear.B, A: target.Clear.A,
			},
		}},
	})
	for layer := 0; layer < MaxLayers; layer++ {
		n := sc.Len(layer)
		if n == 0 {
			continue
		}
		bg, err := sc.GPUView(layer)
		if err != nil {
			pass.End()
			encoder.DiscardEncoding()
			return fail("bind layer", err)
		}
		pass.SetBindGroup(0, bg, nil)
		r.pipeline.Draw(pass, n)
	}
	pass.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		return fail("end encoding", err)
	}
	idx, err := r.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		r.device.FreeCommandBuffer(cmd)
		return fail("submit", err)
	}

	slot.inFlight = true
	slot.frame = r.frame
	slot.submission = idx
	slot.cmd = cmd
	slot.staging = flush.Staging
	r.recording = false

	total := sc.Total()
	r.stats.Submitted++
	r.stats.Prims += uint64(total)       //nolint:gosec // non-negative count
	r.stats.Dropped += uint64(r.dropped) //nolint:gosec // non-negative count

	slogger().Debug("frame submitted", "slot", r.cur, "frame", r.frame, "prims", total,
		"dropped", r.dropped, "copies", len(flush.Copies))

	return Submission{
		Slot:    r.cur,
		Frame:   r.frame,
		Prims:   total,
		Dropped: r.dropped,
		Placed:  flush.Placed,
		Failed:  flush.Failed,
	}, nil
}

// Wait blocks until every submitted frame has completed or timeout
// elapses, in which case it returns ErrFrameInFlight.
func (r *Renderer) Wait(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for _, s := range r.slots {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		if !s.wait(r.device, r.queue, r.atlas, remaining) {
			return fmt.Errorf("%w: slot %d", ErrFrameInFlight, s.index)
		}
	}
	return nil
}

// Stats returns activity counters.
func (r *Renderer) Stats() Stats {
	st := r.stats
	for _, s := range r.slots {
		if s.inFlight {
			st.InFlight++
		}
	}
	if r.atlas != nil {
		st.AtlasUtilization = r.atlas.Stats().Utilization
	}
	return st
}

// Close waits up to the frame timeout for in-flight frames and releases all
// GPU resources. Close is idempotent.
//
// If a frame is still in flight when the wait times out, Close returns
// ErrFrameInFlight and leaks the resources that frame may still use: its
// slot's scene and staging buffers, the atlas, the pipeline and the bind
// group layout. Free slots are released either way.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	err := r.Wait(r.opts.frameTimeout)
	if err != nil {
		busy := 0
		for _, s := range r.slots {
			if s.inFlight {
				busy++
			}
		}
		slogger().Warn("closing with frames in flight, leaking their GPU resources", "busy", busy, "err", err)
		r.releaseIdle()
	} else {
		r.destroy()
	}
	r.closed = true
	r.recording = false
	slogger().Info("renderer closed", "frames", r.stats.Frames, "submitted", r.stats.Submitted)
	return err
}

// releaseIdle closes the scenes of slots that are not in flight and drops
// every reference to shared resources without destroying them.
func (r *Renderer) releaseIdle() {
	for _, s := range r.slots {
		if s != nil && !s.inFlight {
			s.scene.Close()
		}
	}
	r.slots = nil
	r.pipeline = nil
	r.layout = nil
	r.atlas = nil
}

// destroy releases everything. Only call when no frame is in flight.
func (r *Renderer) destroy() {
	for _, s := range r.slots {
		if s == nil {
			continue
		}
		if s.inFlight {
			s.release(r.device, r.atlas)
		}
		s.scene.Close()
	}
	r.slots = nil
	if r.pipeline != nil {
		r.pipeline.Close()
		r.pipeline = nil
	}
	if r.layout != nil {
		r.device.DestroyBindGroupLayout(r.layout)
		r.layout = nil
	}
	if r.atlas != nil {
		r.atlas.Close()
		r.atlas = nil
	}
}
