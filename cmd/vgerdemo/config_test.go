package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
backend: vulkan
width: 1280
height: 720
frames: 3
frame_timeout: 500ms
atlas:
  width: 2048
  height: 512
  border_padding: 2
  rectangle_padding: 4
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "vulkan", cfg.Backend)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, 3, cfg.Frames)
	assert.Equal(t, 500*time.Millisecond, cfg.FrameTimeout)
	assert.Equal(t, 2048, cfg.Atlas.Width)
	assert.Equal(t, 512, cfg.Atlas.Height)
	assert.Equal(t, 2, cfg.Atlas.BorderPadding)
	assert.Equal(t, 4, cfg.Atlas.RectanglePadding)

	// Unset keys keep defaults.
	assert.Equal(t, DefaultConfig().Slots, cfg.Slots)
	assert.Equal(t, 1.0, cfg.PixelRatio)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad backend", "backend: metal\n"},
		{"bad size", "width: 0\n"},
		{"bad slots", "slots: 0\n"},
		{"bad yaml", "width: [1, 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRender_Noop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 128, 96
	cfg.Frames = 5
	require.NoError(t, render(cfg))
}

func TestCheckerboard(t *testing.T) {
	img := checkerboard(16, 4)
	assert.Equal(t, 16, img.Bounds().Dx())
	r0, _, _, _ := img.At(0, 0).RGBA()
	r1, _, _, _ := img.At(4, 0).RGBA()
	assert.NotEqual(t, r0, r1)
}
