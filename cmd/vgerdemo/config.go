package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/vger"
	"github.com/gogpu/vger/atlas"
)

// Config is the demo configuration, loaded from YAML and overridden by
// command-line flags.
type Config struct {
	Backend      string        `yaml:"backend"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	PixelRatio   float64       `yaml:"pixel_ratio"`
	Frames       int           `yaml:"frames"`
	Slots        int           `yaml:"slots"`
	FrameTimeout time.Duration `yaml:"frame_timeout"`
	Image        string        `yaml:"image"`
	Atlas        atlas.Config  `yaml:"atlas"`
}

// DefaultConfig renders a few frames on the noop backend.
func DefaultConfig() Config {
	return Config{
		Backend:      "noop",
		Width:        800,
		Height:       600,
		PixelRatio:   1,
		Frames:       10,
		Slots:        vger.DefaultSlots,
		FrameTimeout: vger.DefaultFrameTimeout,
		Atlas:        atlas.DefaultConfig(),
	}
}

// LoadConfig reads a YAML file on top of the defaults. Keys missing from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Backend {
	case "noop", "vulkan":
	default:
		return fmt.Errorf("unknown backend %q (want noop or vulkan)", c.Backend)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.Frames < 0 {
		return errors.New("frames must not be negative")
	}
	if c.Slots < 1 {
		return errors.New("slots must be at least 1")
	}
	if c.FrameTimeout < 0 {
		return errors.New("frame_timeout must not be negative")
	}
	return nil
}

// Options converts the configuration to renderer options.
func (c Config) Options() []vger.Option {
	return []vger.Option{
		vger.WithSlots(c.Slots),
		vger.WithFrameTimeout(c.FrameTimeout),
		vger.WithAtlasConfig(c.Atlas),
		vger.WithLabel("vgerdemo"),
	}
}
