package vger

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/vger/atlas"
)

func TestAddImage(t *testing.T) {
	r := beginFrame(t)
	img := image.NewNRGBA(image.Rect(10, 10, 26, 18))
	for y := 10; y < 18; y++ {
		for x := 10; x < 26; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 128})
		}
	}
	id, err := r.AddImage(img)
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if _, state := r.Region(id); state != atlas.RegionPending {
		t.Errorf("state before Encode = %v, want pending", state)
	}
	if _, err := r.Encode(newTestTarget(t, r)); err != nil {
		t.Fatal(err)
	}
	rect, state := r.Region(id)
	if state != atlas.RegionPlaced {
		t.Fatalf("state after Encode = %v, want placed", state)
	}
	if rect.Width != 16 || rect.Height != 8 {
		t.Errorf("placed size = %dx%d, want 16x8", rect.Width, rect.Height)
	}
}

func TestAddImageScaled(t *testing.T) {
	r := beginFrame(t)
	src := image.NewRGBA(image.Rect(0, 0, 64, 64))
	id, err := r.AddImageScaled(src, 8, 4)
	if err != nil {
		t.Fatalf("AddImageScaled: %v", err)
	}
	sub, err := r.Encode(newTestTarget(t, r))
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.Placed) != 1 || sub.Placed[0].ID != id || sub.Placed[0].Rect.Width != 8 {
		t.Errorf("Placed = %+v", sub.Placed)
	}
	if _, err := r.AddImageScaled(src, 0, 4); !errors.Is(err, atlas.ErrInvalidSize) {
		t.Errorf("zero width error = %v, want ErrInvalidSize", err)
	}
}

func TestAddImage_Empty(t *testing.T) {
	r := beginFrame(t)
	if _, err := r.AddImage(image.NewRGBA(image.Rect(0, 0, 0, 0))); !errors.Is(err, atlas.ErrInvalidSize) {
		t.Errorf("empty image error = %v, want ErrInvalidSize", err)
	}
}

func TestAddImage_TooLarge(t *testing.T) {
	r := newTestRenderer(t, WithAtlasConfig(atlas.Config{Width: 64, Height: 64, BorderPadding: 5, RectanglePadding: 10}))
	if err := r.Begin(10, 10, 1); err != nil {
		t.Fatal(err)
	}
	id, err := r.AddImage(image.NewRGBA(image.Rect(0, 0, 60, 60)))
	if err != nil {
		t.Fatal(err)
	}
	sub, err := r.Encode(newTestTarget(t, r))
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.Failed) != 1 || sub.Failed[0].ID != id {
		t.Errorf("Failed = %+v, want region %d", sub.Failed, id)
	}
	if _, state := r.Region(id); state != atlas.RegionFailed {
		t.Errorf("state = %v, want failed", state)
	}
}
