package vger

import (
	"math"
	"testing"
)

func matrixNear(a, b Matrix) bool {
	const eps = 1e-9
	return math.Abs(a.A-b.A) < eps && math.Abs(a.B-b.B) < eps && math.Abs(a.C-b.C) < eps &&
		math.Abs(a.D-b.D) < eps && math.Abs(a.E-b.E) < eps && math.Abs(a.F-b.F) < eps
}

func TestMatrix_TransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		in   Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Translate(10, -5), Pt(1, 1), Pt(11, -4)},
		{"scale", Scale(2, 3), Pt(1, 1), Pt(2, 3)},
		{"rotate 90deg", Rotate(math.Pi / 2), Pt(1, 0), Pt(0, 1)},
		{"translate after scale", Translate(10, 0).Multiply(Scale(2, 2)), Pt(1, 1), Pt(12, 2)},
		{"scale after translate", Scale(2, 2).Multiply(Translate(10, 0)), Pt(1, 1), Pt(22, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformPoint(tt.in)
			if got.Distance(tt.want) > 1e-9 {
				t.Errorf("TransformPoint(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatrix_TransformVectorIgnoresTranslation(t *testing.T) {
	m := Translate(100, 100).Multiply(Scale(2, 2))
	if got := m.TransformVector(Pt(1, 1)); got != Pt(2, 2) {
		t.Errorf("TransformVector = %v, want (2, 2)", got)
	}
}

func TestMatrix_Invert(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"translate", Translate(5, -7)},
		{"scale", Scale(4, 0.5)},
		{"rotate", Rotate(0.3)},
		{"combined", Translate(3, 4).Multiply(Rotate(1.1)).Multiply(Scale(2, 3))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Multiply(tt.m.Invert()); !matrixNear(got, Identity()) {
				t.Errorf("m * m^-1 = %+v, want identity", got)
			}
		})
	}
}

func TestMatrix_InvertSingular(t *testing.T) {
	if got := Scale(0, 1).Invert(); !got.IsIdentity() {
		t.Errorf("singular Invert() = %+v, want identity", got)
	}
}

func TestMatrix_ScaleFactorAndAngle(t *testing.T) {
	tests := []struct {
		name  string
		m     Matrix
		scale float64
		angle float64
	}{
		{"identity", Identity(), 1, 0},
		{"uniform", Scale(3, 3), 3, 0},
		{"non-uniform", Scale(2, 8), 4, 0},
		{"rotated", Rotate(math.Pi / 3).Multiply(Scale(2, 2)), 2, math.Pi / 3},
		{"mirrored", Scale(-1, 1), 1, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.ScaleFactor(); math.Abs(got-tt.scale) > 1e-9 {
				t.Errorf("ScaleFactor() = %v, want %v", got, tt.scale)
			}
			if got := tt.m.Angle(); math.Abs(got-tt.angle) > 1e-9 {
				t.Errorf("Angle() = %v, want %v", got, tt.angle)
			}
		})
	}
}

func TestMatrix_Array(t *testing.T) {
	m := Matrix{A: 1, B: 2, C: 3, D: 4, E: 5, F: 6}
	if got := m.array(); got != [6]float32{1, 2, 3, 4, 5, 6} {
		t.Errorf("array() = %v", got)
	}
}
