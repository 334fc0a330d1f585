package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// gpu is an opened device and the objects that must outlive it.
type gpu struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
}

func openGPU(backend string) (*gpu, error) {
	var (
		instance hal.Instance
		err      error
	)
	switch backend {
	case "noop":
		api := noop.API{}
		instance, err = api.CreateInstance(nil)
	case "vulkan":
		b, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, errors.New("vulkan backend not available")
		}
		instance, err = b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, errors.New("no GPU adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	slog.Info("device opened", "backend", backend, "adapter", selected.Info.Name)
	return &gpu{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		name:     selected.Info.Name,
	}, nil
}

func (g *gpu) close() {
	g.device.Destroy()
	g.instance.Destroy()
}

// target is an offscreen color attachment.
type target struct {
	texture hal.Texture
	view    hal.TextureView
}

func (g *gpu) newTarget(width, height int, format gputypes.TextureFormat) (*target, error) {
	tex, err := g.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "vgerdemo_target",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // validated positive
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create target texture: %w", err)
	}
	view, err := g.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "vgerdemo_target_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		g.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create target view: %w", err)
	}
	return &target{texture: tex, view: view}, nil
}

func (g *gpu) destroyTarget(t *target) {
	g.device.DestroyTextureView(t.view)
	g.device.DestroyTexture(t.texture)
}
