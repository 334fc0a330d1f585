package vger

import (
	"testing"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/vger/atlas"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.slots != DefaultSlots {
		t.Errorf("slots = %d, want %d", o.slots, DefaultSlots)
	}
	if o.frameTimeout != DefaultFrameTimeout {
		t.Errorf("frameTimeout = %v, want %v", o.frameTimeout, DefaultFrameTimeout)
	}
	if o.format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("format = %v, want BGRA8Unorm", o.format)
	}
	if o.atlas != atlas.DefaultConfig() {
		t.Errorf("atlas = %+v, want defaults", o.atlas)
	}
	if o.pipelineFactory() == nil {
		t.Error("default pipeline factory is nil")
	}
}

func TestOptions_Apply(t *testing.T) {
	o := defaultOptions()
	cfg := atlas.Config{Width: 256, Height: 128, BorderPadding: 1, RectanglePadding: 2}
	for _, opt := range []Option{
		WithSlots(2),
		WithAtlasConfig(cfg),
		WithFrameTimeout(time.Millisecond),
		WithTargetFormat(gputypes.TextureFormatRGBA8Unorm),
		WithLabel("ui"),
	} {
		opt(&o)
	}
	if o.slots != 2 || o.atlas != cfg || o.frameTimeout != time.Millisecond ||
		o.format != gputypes.TextureFormatRGBA8Unorm || o.label != "ui" {
		t.Errorf("options not applied: %+v", o)
	}
}

func TestOptions_IgnoreInvalid(t *testing.T) {
	o := defaultOptions()
	WithSlots(0)(&o)
	WithFrameTimeout(-time.Second)(&o)
	WithLabel("")(&o)
	if o.slots != DefaultSlots || o.frameTimeout != DefaultFrameTimeout || o.label != "vger" {
		t.Errorf("invalid values should be ignored: %+v", o)
	}
}

func TestWithSlots_Renderer(t *testing.T) {
	r := newTestRenderer(t, WithSlots(1))
	if r.Slots() != 1 {
		t.Fatalf("Slots() = %d, want 1", r.Slots())
	}
	target := newTestTarget(t, r)
	for i := 0; i < 3; i++ {
		if err := r.Begin(10, 10, 1); err != nil {
			t.Fatal(err)
		}
		if r.SceneIndex() != 0 {
			t.Errorf("SceneIndex() = %d, want 0", r.SceneIndex())
		}
		if _, err := r.Encode(target); err != nil {
			t.Fatal(err)
		}
	}
}
