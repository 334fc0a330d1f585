package scene

import "testing"

// BenchmarkScene_Append measures filling one layer.
func BenchmarkScene_Append(b *testing.B) {
	s := &Scene{}
	p := Prim{Kind: KindCircle, CVs: [3]Vec2{{X: 1, Y: 2}}, Radius: 3}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Reset()
		for j := 0; j < MaxPrims; j++ {
			s.Append(0, p)
		}
	}
}

// BenchmarkPrim_AppendBytes measures the GPU encoding of a full layer.
func BenchmarkPrim_AppendBytes(b *testing.B) {
	p := Prim{Kind: KindBezier, CVs: [3]Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}}, Width: 2, Paint: 7}
	buf := make([]byte, 0, LayerBytes)
	b.SetBytes(LayerBytes)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf = buf[:0]
		for j := 0; j < MaxPrims; j++ {
			buf = p.AppendBytes(buf)
		}
	}
}
