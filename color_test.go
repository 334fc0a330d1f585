package vger

import (
	"image/color"
	"math"
	"testing"
)

func colorNear(a, b Color) bool {
	const eps = 1e-6
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#fff", White},
		{"000", Black},
		{"#f008", RGBA(1, 0, 0, 136.0/255)},
		{"#00ff00", RGB(0, 1, 0)},
		{"0000FF80", RGBA(0, 0, 1, 128.0/255)},
		{"", Black},
		{"#12", Black},
		{"#zzzzzz", Black},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Hex(tt.in); !colorNear(got, tt.want) {
				t.Errorf("Hex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.NRGBA{R: 255, G: 0, B: 51, A: 102})
	want := RGBA(1, 0, 0.2, 0.4)
	if !colorNear(got, want) {
		t.Errorf("FromColor = %+v, want %+v", got, want)
	}
}

func TestColor_Premultiply(t *testing.T) {
	got := RGBA(1, 0.5, 0.2, 0.5).Premultiply()
	if !colorNear(got, RGBA(0.5, 0.25, 0.1, 0.5)) {
		t.Errorf("Premultiply = %+v", got)
	}
}

func TestColor_Lerp(t *testing.T) {
	if got := Black.Lerp(White, 0.5); !colorNear(got, RGB(0.5, 0.5, 0.5)) {
		t.Errorf("Lerp = %+v", got)
	}
}
