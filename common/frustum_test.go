package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestExtractFrustum(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 100)
	f := ExtractFrustum(proj)

	for i, p := range f.Planes {
		if l := p.Normal.Len(); mgl32.Abs(l-1) > eps {
			t.Fatalf("plane %d normal length = %v, want 1", i, l)
		}
	}

	tests := []struct {
		name  string
		point mgl32.Vec3
		want  bool
	}{
		{name: "center", point: mgl32.Vec3{0, 0, -5}, want: true},
		{name: "behind", point: mgl32.Vec3{0, 0, 5}, want: false},
		{name: "before near", point: mgl32.Vec3{0, 0, -0.05}, want: false},
		{name: "past far", point: mgl32.Vec3{0, 0, -101}, want: false},
		{name: "inside 45 degree edge", point: mgl32.Vec3{4.9, 0, -5}, want: true},
		{name: "outside 45 degree edge", point: mgl32.Vec3{5.1, 0, -5}, want: false},
		{name: "above", point: mgl32.Vec3{0, 6, -5}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsPoint(tt.point); got != tt.want {
				t.Fatalf("ContainsPoint(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}

	if !f.ContainsSphere(mgl32.Vec3{0, 0, 1}, 2) {
		t.Fatal("sphere straddling the near plane reported invisible")
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "b", "c"); got != "b" {
		t.Fatalf("Coalesce = %q, want b", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Fatalf("Coalesce = %d, want 0", got)
	}
}
