package scene

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Capacity limits. Part of the shader contract.
const (
	MaxLayers = 4
	MaxPrims  = 1024
	MaxPaints = 1024
)

// Buffer sizes derived from the capacity limits.
const (
	// LayerBytes is the size of one layer's range in the prim buffer.
	// It is a multiple of 256 so every layer offset satisfies the storage
	// buffer offset alignment.
	LayerBytes = MaxPrims * PrimSize

	primBufferSize  = MaxLayers * LayerBytes
	paintBufferSize = MaxPaints * PaintSize
)

// Bind group slots seen by the rasterization shader.
const (
	BindingPrims    = 0
	BindingPaints   = 1
	BindingUniforms = 2
	BindingAtlas    = 3
	BindingSampler  = 4
)

// BindGroupLayoutEntries describes the per-layer bind group.
func BindGroupLayoutEntries() []gputypes.BindGroupLayoutEntry {
	vis := gputypes.ShaderStageVertex | gputypes.ShaderStageFragment
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    BindingPrims,
			Visibility: vis,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
		},
		{
			Binding:    BindingPaints,
			Visibility: vis,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
		},
		{
			Binding:    BindingUniforms,
			Visibility: vis,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
		{
			Binding:    BindingAtlas,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    BindingSampler,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
	}
}

// NewBindGroupLayout creates the layout shared by every scene and the
// rasterization pipeline.
func NewBindGroupLayout(device hal.Device) (hal.BindGroupLayout, error) {
	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "vger_scene_layout",
		Entries: BindGroupLayoutEntries(),
	})
	if err != nil {
		return nil, fmt.Errorf("create scene bind group layout: %w", err)
	}
	return layout, nil
}

// Config holds the shared resources every layer view binds.
type Config struct {
	Label     string
	Layout    hal.BindGroupLayout
	AtlasView hal.TextureView
	Sampler   hal.Sampler
}

// Scene is one frame slot: fixed-capacity layers, a paint table and their
// GPU mirror.
//
// Scene is not safe for concurrent use.
type Scene struct {
	device hal.Device
	cfg    Config

	prims  [MaxLayers][MaxPrims]Prim
	counts [MaxLayers]int

	paints   [MaxPaints]PaintRecord
	nPaints  int
	uniforms Uniforms

	primBuf    hal.Buffer
	paintBuf   hal.Buffer
	uniformBuf hal.Buffer
	bindGroups [MaxLayers]hal.BindGroup

	scratch []byte
	closed  bool
}

// New allocates the scene's GPU buffers. They live until Close.
func New(device hal.Device, cfg Config) (*Scene, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if cfg.Layout == nil || cfg.AtlasView == nil || cfg.Sampler == nil {
		return nil, ErrMissingBinding
	}
	if cfg.Label == "" {
		cfg.Label = "vger_scene"
	}

	s := &Scene{device: device, cfg: cfg}
	var err error
	s.primBuf, err = s.createBuffer("prims", primBufferSize,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	s.paintBuf, err = s.createBuffer("paints", paintBufferSize,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.uniformBuf, err = s.createBuffer("uniforms", UniformSize,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		s.Close()
		return nil, err
	}

	slogger().Debug("scene created", "label", cfg.Label,
		"prim_bytes", primBufferSize, "paint_bytes", paintBufferSize)
	return s, nil
}

func (s *Scene) createBuffer(name string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: s.cfg.Label + "_" + name,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", name, err)
	}
	return buf, nil
}

// Reset empties every layer and the paint table. Backing storage is kept;
// entries past the active counts are never read.
func (s *Scene) Reset() {
	s.counts = [MaxLayers]int{}
	s.nPaints = 0
}

// Append copies p into the given layer. It returns false when the layer is
// full or out of range; the primitive is dropped in that case.
func (s *Scene) Append(layer int, p Prim) bool {
	if layer < 0 || layer >= MaxLayers {
		return false
	}
	n := s.counts[layer]
	if n >= MaxPrims {
		return false
	}
	s.prims[layer][n] = p
	s.counts[layer] = n + 1
	return true
}

// Len returns the number of primitives in a layer.
func (s *Scene) Len(layer int) int {
	if layer < 0 || layer >= MaxLayers {
		return 0
	}
	return s.counts[layer]
}

// Total returns the number of primitives across all layers.
func (s *Scene) Total() int {
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// Prims returns the active primitives of a layer. The slice aliases scene
// storage and is only valid until the next Reset.
func (s *Scene) Prims(layer int) []Prim {
	if layer < 0 || layer >= MaxLayers {
		return nil
	}
	return s.prims[layer][:s.counts[layer]]
}

// SetPaints replaces the paint table. Entries beyond MaxPaints are
// ignored; the number stored is returned.
func (s *Scene) SetPaints(paints []PaintRecord) int {
	n := copy(s.paints[:], paints)
	s.nPaints = n
	return n
}

// Paints returns the active paint table.
func (s *Scene) Paints() []PaintRecord {
	return s.paints[:s.nPaints]
}

// SetUniforms sets the viewport parameters uploaded with the frame.
func (s *Scene) SetUniforms(u Uniforms) {
	s.uniforms = u
}

// Uniforms returns the viewport parameters.
func (s *Scene) Uniforms() Uniforms {
	return s.uniforms
}

// Upload writes the active layer ranges, paints and uniforms to the GPU.
// Only the populated part of each buffer is written.
func (s *Scene) Upload(queue hal.Queue) error {
	if s.closed {
		return ErrSceneClosed
	}
	written := 0
	for layer := 0; layer < MaxLayers; layer++ {
		n := s.counts[layer]
		if n == 0 {
			continue
		}
		s.scratch = s.scratch[:0]
		for i := 0; i < n; i++ {
			s.scratch = s.prims[layer][i].AppendBytes(s.scratch)
		}
		if err := queue.WriteBuffer(s.primBuf, uint64(layer*LayerBytes), s.scratch); err != nil {
			return fmt.Errorf("write layer %d: %w", layer, err)
		}
		written += len(s.scratch)
	}

	if s.nPaints > 0 {
		s.scratch = s.scratch[:0]
		for i := 0; i < s.nPaints; i++ {
			s.scratch = s.paints[i].AppendBytes(s.scratch)
		}
		if err := queue.WriteBuffer(s.paintBuf, 0, s.scratch); err != nil {
			return fmt.Errorf("write paints: %w", err)
		}
		written += len(s.scratch)
	}

	s.scratch = s.uniforms.AppendBytes(s.scratch[:0])
	if err := queue.WriteBuffer(s.uniformBuf, 0, s.scratch); err != nil {
		return fmt.Errorf("write uniforms: %w", err)
	}

	slogger().Debug("scene uploaded", "label", s.cfg.Label, "prims", s.Total(),
		"paints", s.nPaints, "bytes", written+UniformSize)
	return nil
}

// GPUView returns the bind group exposing one layer's primitives together
// with the paint table, uniforms and atlas. Bind groups are created on
// first use and cached; they reference fixed buffers, so they always see
// the latest Upload.
func (s *Scene) GPUView(layer int) (hal.BindGroup, error) {
	if s.closed {
		return nil, ErrSceneClosed
	}
	if layer < 0 || layer >= MaxLayers {
		return nil, fmt.Errorf("%w: %d", ErrLayerOutOfRange, layer)
	}
	if bg := s.bindGroups[layer]; bg != nil {
		return bg, nil
	}

	bg, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  fmt.Sprintf("%s_layer%d", s.cfg.Label, layer),
		Layout: s.cfg.Layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: BindingPrims, Resource: gputypes.BufferBinding{
				Buffer: s.primBuf.NativeHandle(), Offset: uint64(layer * LayerBytes), Size: LayerBytes,
			}},
			{Binding: BindingPaints, Resource: gputypes.BufferBinding{
				Buffer: s.paintBuf.NativeHandle(), Offset: 0, Size: paintBufferSize,
			}},
			{Binding: BindingUniforms, Resource: gputypes.BufferBinding{
				Buffer: s.uniformBuf.NativeHandle(), Offset: 0, Size: UniformSize,
			}},
			{Binding: BindingAtlas, Resource: gputypes.TextureViewBinding{
				TextureView: s.cfg.AtlasView.NativeHandle(),
			}},
			{Binding: BindingSampler, Resource: gputypes.SamplerBinding{
				Sampler: s.cfg.Sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create layer %d bind group: %w", layer, err)
	}
	s.bindGroups[layer] = bg
	return bg, nil
}

// Close destroys the bind groups and buffers. Close is idempotent.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for i, bg := range s.bindGroups {
		if bg != nil {
			s.device.DestroyBindGroup(bg)
			s.bindGroups[i] = nil
		}
	}
	for _, buf := range []*hal.Buffer{&s.uniformBuf, &s.paintBuf, &s.primBuf} {
		if *buf != nil {
			s.device.DestroyBuffer(*buf)
			*buf = nil
		}
	}
}
