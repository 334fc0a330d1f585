package vger

import (
	"testing"

	"github.com/gogpu/vger/internal/gputest"
)

func newBenchRenderer(b *testing.B) (*Renderer, Target) {
	b.Helper()
	device, queue := gputest.NewDevice(b)
	r, err := New(device, queue)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = r.Close() })
	return r, Target{View: gputest.NewTarget(b, device, 256, 256)}
}

// BenchmarkRenderer_FillCircle measures recording a full layer.
func BenchmarkRenderer_FillCircle(b *testing.B) {
	r, _ := newBenchRenderer(b)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := r.Begin(256, 256, 1); err != nil {
			b.Fatal(err)
		}
		p := r.ColorPaint(Black)
		for j := 0; j < MaxPrims; j++ {
			r.FillCircle(Pt(float64(j%256), float64(j/256)), 3, p)
		}
	}
}

// BenchmarkRenderer_Frame measures a full record, encode and submit cycle.
func BenchmarkRenderer_Frame(b *testing.B) {
	sizes := []struct {
		name  string
		prims int
	}{
		{"16", 16},
		{"256", 256},
		{"4x1024", MaxLayers * MaxPrims},
	}
	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			r, target := newBenchRenderer(b)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := r.Begin(256, 256, 1); err != nil {
					b.Fatal(err)
				}
				p := r.LinearGradient(Pt(0, 0), Pt(256, 0), Black, White)
				for j := 0; j < size.prims; j++ {
					if j%MaxPrims == 0 {
						_ = r.SelectLayer(j / MaxPrims)
					}
					r.StrokeSegment(Pt(0, float64(j)), Pt(256, float64(j)), 1, p)
				}
				if _, err := r.Encode(target); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
