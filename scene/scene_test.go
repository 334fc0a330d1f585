package scene

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vger/atlas"
	"github.com/gogpu/vger/internal/gputest"
)

func newTestScene(t *testing.T) (*Scene, hal.Queue) {
	t.Helper()
	device, queue := gputest.NewDevice(t)
	at, err := atlas.New(device, queue, atlas.DefaultConfig())
	if err != nil {
		t.Fatalf("atlas.New failed: %v", err)
	}
	t.Cleanup(at.Close)

	layout, err := NewBindGroupLayout(device)
	if err != nil {
		t.Fatalf("NewBindGroupLayout failed: %v", err)
	}
	t.Cleanup(func() { device.DestroyBindGroupLayout(layout) })

	s, err := New(device, Config{Layout: layout, AtlasView: at.View(), Sampler: at.Sampler()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s, queue
}

func circle(x, y float32) Prim {
	return Prim{Kind: KindCircle, CVs: [3]Vec2{{X: x, Y: y}}, Radius: 1}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, Config{}); !errors.Is(err, ErrNilDevice) {
		t.Errorf("expected ErrNilDevice, got %v", err)
	}
	device, _ := gputest.NewDevice(t)
	if _, err := New(device, Config{}); !errors.Is(err, ErrMissingBinding) {
		t.Errorf("expected ErrMissingBinding, got %v", err)
	}
}

func TestScene_AppendLayerBound(t *testing.T) {
	s, _ := newTestScene(t)

	for i := 0; i < MaxPrims; i++ {
		if !s.Append(0, circle(float32(i), 0)) {
			t.Fatalf("append %d failed before capacity", i)
		}
	}
	if s.Append(0, circle(-1, -1)) {
		t.Error("append past MaxPrims must report failure")
	}
	if got := s.Len(0); got != MaxPrims {
		t.Errorf("expected %d prims, got %d", MaxPrims, got)
	}
	if last := s.Prims(0)[MaxPrims-1]; last.CVs[0].X != MaxPrims-1 {
		t.Errorf("dropped append overwrote storage: %+v", last)
	}

	// Other layers are unaffected by a full layer.
	if !s.Append(1, circle(0, 0)) {
		t.Error("layer 1 should accept prims")
	}
}

func TestScene_AppendOutOfRange(t *testing.T) {
	s, _ := newTestScene(t)
	for _, layer := range []int{-1, MaxLayers, 100} {
		if s.Append(layer, circle(0, 0)) {
			t.Errorf("append to layer %d should fail", layer)
		}
		if s.Len(layer) != 0 || s.Prims(layer) != nil {
			t.Errorf("layer %d should report empty", layer)
		}
	}
}

func TestScene_OrderAndValueCopy(t *testing.T) {
	s, _ := newTestScene(t)

	p := circle(1, 2)
	s.Append(2, p)
	p.CVs[0].X = 99
	s.Append(2, p)

	got := s.Prims(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 prims, got %d", len(got))
	}
	if got[0].CVs[0].X != 1 || got[1].CVs[0].X != 99 {
		t.Errorf("expected FIFO value copies, got %+v", got)
	}
}

func TestScene_Reset(t *testing.T) {
	s, _ := newTestScene(t)
	s.Append(0, circle(0, 0))
	s.Append(3, circle(0, 0))
	s.SetPaints([]PaintRecord{{}, {}})

	s.Reset()

	if s.Total() != 0 {
		t.Errorf("expected empty scene after reset, got %d prims", s.Total())
	}
	if len(s.Paints()) != 0 {
		t.Errorf("expected empty paint table, got %d", len(s.Paints()))
	}
	if !s.Append(0, circle(5, 5)) || s.Prims(0)[0].CVs[0].X != 5 {
		t.Error("append after reset must start at index 0")
	}
}

func TestScene_SetPaintsTruncates(t *testing.T) {
	s, _ := newTestScene(t)
	if n := s.SetPaints(make([]PaintRecord, MaxPaints+10)); n != MaxPaints {
		t.Errorf("expected %d paints stored, got %d", MaxPaints, n)
	}
}

func TestScene_GPUViewCached(t *testing.T) {
	s, queue := newTestScene(t)
	s.Append(0, circle(0, 0))
	if err := s.Upload(queue); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	bg0, err := s.GPUView(0)
	if err != nil {
		t.Fatalf("GPUView failed: %v", err)
	}
	again, err := s.GPUView(0)
	if err != nil {
		t.Fatal(err)
	}
	if bg0 != again {
		t.Error("expected cached bind group")
	}
	if _, err := s.GPUView(1); err != nil {
		t.Fatal(err)
	}
	if s.bindGroups[1] == nil {
		t.Error("expected layer 1 bind group to be cached")
	}

	if _, err := s.GPUView(MaxLayers); !errors.Is(err, ErrLayerOutOfRange) {
		t.Errorf("expected ErrLayerOutOfRange, got %v", err)
	}
}

func TestScene_Closed(t *testing.T) {
	s, queue := newTestScene(t)
	s.Close()
	s.Close()
	if err := s.Upload(queue); !errors.Is(err, ErrSceneClosed) {
		t.Errorf("expected ErrSceneClosed, got %v", err)
	}
	if _, err := s.GPUView(0); !errors.Is(err, ErrSceneClosed) {
		t.Errorf("expected ErrSceneClosed, got %v", err)
	}
}

func TestPrim_AppendBytes(t *testing.T) {
	p := Prim{
		Kind:   KindArc,
		CVs:    [3]Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}},
		Radius: 7,
		Width:  8,
		Paint:  9,
	}
	b := p.AppendBytes(nil)
	if len(b) != PrimSize {
		t.Fatalf("expected %d bytes, got %d", PrimSize, len(b))
	}

	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }
	f32 := func(off int) float32 { return math.Float32frombits(u32(off)) }

	if u32(0) != uint32(KindArc) {
		t.Errorf("kind: got %d", u32(0))
	}
	for i, want := range []float32{1, 2, 3, 4, 5, 6} {
		if got := f32(8 + 4*i); got != want {
			t.Errorf("cv float %d: got %v, want %v", i, got, want)
		}
	}
	if f32(32) != 7 || f32(36) != 8 || u32(40) != 9 {
		t.Errorf("radius/width/paint: got %v %v %d", f32(32), f32(36), u32(40))
	}
}

func TestRecordSizes(t *testing.T) {
	var pr PaintRecord
	if got := len(pr.AppendBytes(nil)); got != PaintSize {
		t.Errorf("PaintRecord: expected %d bytes, got %d", PaintSize, got)
	}
	var u Uniforms
	if got := len(u.AppendBytes(nil)); got != UniformSize {
		t.Errorf("Uniforms: expected %d bytes, got %d", UniformSize, got)
	}
	if LayerBytes%256 != 0 {
		t.Errorf("LayerBytes %d is not 256-aligned", LayerBytes)
	}
}

func TestKind_String(t *testing.T) {
	if KindCircle.String() != "circle" || KindBezier.String() != "bezier" {
		t.Error("unexpected kind names")
	}
	if Kind(42).String() != "unknown" {
		t.Error("expected unknown for out-of-range kind")
	}
}
