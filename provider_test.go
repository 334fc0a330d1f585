// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vger

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vger/internal/gputest"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

type mockQueue struct{}

type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct {
	format gputypes.TextureFormat
}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

// halMockProvider also exposes a noop HAL device and queue.
type halMockProvider struct {
	mockProvider
	device any
	queue  any
}

func (m *halMockProvider) HalDevice() any { return m.device }
func (m *halMockProvider) HalQueue() any  { return m.queue }

func TestNewFromProvider(t *testing.T) {
	device, queue := gputest.NewDevice(t)
	p := &halMockProvider{
		mockProvider: mockProvider{format: gputypes.TextureFormatRGBA8Unorm},
		device:       device,
		queue:        queue,
	}
	r, err := NewFromProvider(p)
	if err != nil {
		t.Fatalf("NewFromProvider: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	if r.opts.format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("format = %v, want provider surface format", r.opts.format)
	}
}

func TestNewFromProvider_OptionOverridesFormat(t *testing.T) {
	device, queue := gputest.NewDevice(t)
	p := &halMockProvider{
		mockProvider: mockProvider{format: gputypes.TextureFormatRGBA8Unorm},
		device:       device,
		queue:        queue,
	}
	r, err := NewFromProvider(p, WithTargetFormat(gputypes.TextureFormatBGRA8Unorm))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = r.Close() })
	if r.opts.format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("format = %v, want BGRA8Unorm", r.opts.format)
	}
}

func TestNewFromProvider_Errors(t *testing.T) {
	device, _ := gputest.NewDevice(t)
	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		want     error
	}{
		{"nil", nil, ErrNilDevice},
		{"no hal", &mockProvider{}, ErrNoHALProvider},
		{"wrong device type", &halMockProvider{device: "gpu", queue: "q"}, ErrNoHALProvider},
		{"missing queue", &halMockProvider{device: device, queue: (hal.Queue)(nil)}, ErrNoHALProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFromProvider(tt.provider); !errors.Is(err, tt.want) {
				t.Errorf("NewFromProvider error = %v, want %v", err, tt.want)
			}
		})
	}
}
