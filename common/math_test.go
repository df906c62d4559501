package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

// vecNear reports whether a and b lie within tol of each other.
func vecNear(a, b mgl32.Vec3, tol float32) bool {
	return a.Sub(b).Len() < tol
}

func quatNear(a, b mgl32.Quat, tol float32) bool {
	return a.V.Sub(b.V).Len() < tol && mgl32.Abs(a.W-b.W) < tol
}

func TestYawRotationTurnsRight(t *testing.T) {
	forward := mgl32.Vec3{0, 0, -1}

	got := YawRotation(90).Rotate(forward)
	want := mgl32.Vec3{1, 0, 0}
	if !vecNear(got, want, eps) {
		t.Fatalf("yaw 90 forward = %v, want %v", got, want)
	}

	if got := YawRotation(0); !quatNear(got, mgl32.QuatIdent(), eps) {
		t.Fatalf("yaw 0 = %v, want identity", got)
	}
}

func TestPitchRotationSign(t *testing.T) {
	forward := mgl32.Vec3{0, 0, -1}

	down := PitchRotation(45).Rotate(forward)
	if down.Y() >= 0 {
		t.Fatalf("positive pitch should look down, got %v", down)
	}
	up := PitchRotation(-45).Rotate(forward)
	if up.Y() <= 0 {
		t.Fatalf("negative pitch should look up, got %v", up)
	}
}

func TestLocalPlanar(t *testing.T) {
	tests := []struct {
		name string
		in   mgl32.Vec2
		want mgl32.Vec3
	}{
		{name: "zero", in: mgl32.Vec2{0, 0}, want: mgl32.Vec3{0, 0, 0}},
		{name: "right", in: mgl32.Vec2{1, 0}, want: mgl32.Vec3{1, 0, 0}},
		{name: "forward", in: mgl32.Vec2{0, 1}, want: mgl32.Vec3{0, 0, -1}},
		{name: "back", in: mgl32.Vec2{0, -1}, want: mgl32.Vec3{0, 0, 1}},
		{name: "analog kept", in: mgl32.Vec2{0.5, 0}, want: mgl32.Vec3{0.5, 0, 0}},
		{name: "diagonal normalized", in: mgl32.Vec2{1, 1}, want: mgl32.Vec3{0.70710677, 0, -0.70710677}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalPlanar(tt.in)
			if !vecNear(got, tt.want, eps) {
				t.Fatalf("LocalPlanar(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeyCode(t *testing.T) {
	tests := []struct {
		name    string
		want    uint32
		wantErr bool
	}{
		{name: "w", want: KeyW},
		{name: "E", want: KeyE},
		{name: "7", want: 55},
		{name: " space ", want: KeySpace},
		{name: "left_shift", want: KeyLeftShift},
		{name: "up", want: KeyUp},
		{name: "hyper", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeyCode(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("KeyCode(%q) expected error, got %d", tt.name, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("KeyCode(%q) returned error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Fatalf("KeyCode(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}
