package vger

import (
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vger/atlas"
	"github.com/gogpu/vger/pipeline"
)

// Defaults used by New.
const (
	// DefaultSlots is the number of rotating frame slots.
	DefaultSlots = 3

	// DefaultFrameTimeout bounds how long Begin waits for a busy slot.
	DefaultFrameTimeout = 2 * time.Second
)

// Pipeline rasterizes one layer. The layer's bind group is set at group 0
// before Draw is called; prims is the number of primitives in the layer.
type Pipeline interface {
	Draw(pass hal.RenderPassEncoder, prims int)
	Close()
}

// PipelineFactory builds a Pipeline against the renderer's bind group
// layout (see scene.BindGroupLayoutEntries).
type PipelineFactory func(device hal.Device, layout hal.BindGroupLayout) (Pipeline, error)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := vger.New(device, queue,
//	    vger.WithSlots(2),
//	    vger.WithTargetFormat(gputypes.TextureFormatRGBA8Unorm),
//	)
type Option func(*options)

type options struct {
	slots        int
	atlas        atlas.Config
	frameTimeout time.Duration
	format       gputypes.TextureFormat
	pipeline     PipelineFactory
	label        string
}

func defaultOptions() options {
	return options{
		slots:        DefaultSlots,
		atlas:        atlas.DefaultConfig(),
		frameTimeout: DefaultFrameTimeout,
		format:       gputypes.TextureFormatBGRA8Unorm,
		label:        "vger",
	}
}

// WithSlots sets the number of frame slots. Values below 1 are ignored.
func WithSlots(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.slots = n
		}
	}
}

// WithAtlasConfig sets the atlas size and padding.
func WithAtlasConfig(cfg atlas.Config) Option {
	return func(o *options) {
		o.atlas = cfg
	}
}

// WithFrameTimeout sets how long Begin waits for a slot's previous frame
// before returning ErrFrameInFlight. Zero polls without waiting.
func WithFrameTimeout(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.frameTimeout = d
		}
	}
}

// WithTargetFormat sets the color format of the render targets passed to
// Encode. It selects the format of the default pipeline.
func WithTargetFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithPipeline replaces the default rasterization pipeline.
func WithPipeline(f PipelineFactory) Option {
	return func(o *options) {
		o.pipeline = f
	}
}

// WithLabel prefixes GPU object labels.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}

func (o *options) pipelineFactory() PipelineFactory {
	if o.pipeline != nil {
		return o.pipeline
	}
	format := o.format
	return func(device hal.Device, layout hal.BindGroupLayout) (Pipeline, error) {
		p, err := pipeline.New(device, layout, format)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
