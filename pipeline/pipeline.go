// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipeline provides the default render pipeline that rasterizes
// vger primitives.
//
// The pipeline draws one instanced quad per primitive and evaluates the
// primitive's signed distance field per fragment. It consumes the bind
// group layout from package scene.
package pipeline

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/vger.wgsl
var shaderSource string

// verticesPerPrim is the quad drawn for every primitive instance.
const verticesPerPrim = 6

// ErrNilDevice is returned when New receives no device or layout.
var ErrNilDevice = errors.New("pipeline: nil device or bind group layout")

// Source returns the WGSL source of the rasterization shader.
func Source() string { return shaderSource }

// Validate compiles the shader to SPIR-V with naga. Backends compile the
// WGSL themselves; this is a standalone check for tooling.
func Validate() error {
	if _, err := naga.Compile(shaderSource); err != nil {
		return fmt.Errorf("pipeline: compile shader: %w", err)
	}
	return nil
}

// Pipeline is the primitive rasterization pipeline for one target format.
type Pipeline struct {
	device     hal.Device
	format     gputypes.TextureFormat
	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// New builds the pipeline for render targets of the given format.
// layout must be the scene bind group layout.
func New(device hal.Device, layout hal.BindGroupLayout, format gputypes.TextureFormat) (*Pipeline, error) {
	if device == nil || layout == nil {
		return nil, ErrNilDevice
	}
	p := &Pipeline{device: device, format: format}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "vger_shader",
		Source: hal.ShaderSource{WGSL: shaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("compile vger shader: %w", err)
	}
	p.shader = shader

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "vger_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{layout},
	})
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "vger_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline
	return p, nil
}

// Format returns the color target format the pipeline was built for.
func (p *Pipeline) Format() gputypes.TextureFormat { return p.format }

// Draw records the draw for one layer. The layer's bind group must already
// be set at group 0.
func (p *Pipeline) Draw(pass hal.RenderPassEncoder, prims int) {
	if prims <= 0 {
		return
	}
	pass.SetPipeline(p.pipeline)
	pass.Draw(verticesPerPrim, uint32(prims), 0, 0) //nolint:gosec // bounded by scene.MaxPrims
}

// Close destroys the pipeline objects. Close is idempotent.
func (p *Pipeline) Close() {
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
