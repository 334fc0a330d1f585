// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vger

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// halProvider is implemented by device providers that expose their HAL
// device and queue, such as gogpu's application context.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewFromProvider creates a renderer on a host application's device. The
// target format defaults to the provider's surface format; options given
// here override it.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Renderer, error) {
	if provider == nil {
		return nil, ErrNilDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrNoHALProvider
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, ErrNoHALProvider
	}

	all := make([]Option, 0, len(opts)+1)
	all = append(all, WithTargetFormat(provider.SurfaceFormat()))
	all = append(all, opts...)
	return New(device, queue, all...)
}
