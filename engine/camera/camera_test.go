package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

// vecNear reports whether a and b lie within tol of each other.
func vecNear(a, b mgl32.Vec3, tol float32) bool {
	return a.Sub(b).Len() < tol
}

func matNear(a, b mgl32.Mat4, tol float32) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) >= tol {
			return false
		}
	}
	return true
}

func TestCameraWithoutNode(t *testing.T) {
	c := NewCamera()

	if got := c.View(); !matNear(got, mgl32.Ident4(), eps) {
		t.Fatalf("view = %v, want identity", got)
	}
	if got := c.Horizon(); mgl32.Abs(got-0.5) > eps {
		t.Fatalf("horizon = %v, want 0.5", got)
	}
}

func TestCameraFollowsHead(t *testing.T) {
	body := game_object.NewGameObject(game_object.WithPosition(3, 0, 4))
	head := game_object.NewGameObject(game_object.WithParent(body), game_object.WithPosition(0, 1.7, 0))
	c := NewCamera(WithNode(head))

	if got, want := c.Position(), (mgl32.Vec3{3, 1.7, 4}); !vecNear(got, want, eps) {
		t.Fatalf("position = %v, want %v", got, want)
	}

	// The eye maps to the view-space origin.
	eye := c.View().Mul4x1(c.Position().Vec4(1)).Vec3()
	if !vecNear(eye, mgl32.Vec3{}, 1e-4) {
		t.Fatalf("eye in view space = %v, want origin", eye)
	}

	body.SetRotation(common.YawRotation(90))
	if got, want := c.Forward(), (mgl32.Vec3{1, 0, 0}); !vecNear(got, want, eps) {
		t.Fatalf("forward after yaw = %v, want %v", got, want)
	}
}

func TestHorizon(t *testing.T) {
	head := game_object.NewGameObject()
	c := NewCamera(WithNode(head))

	tests := []struct {
		name  string
		pitch float32
		want  float32
	}{
		{name: "level", pitch: 0, want: 0.5},
		{name: "straight up", pitch: -90, want: 1},
		{name: "straight down", pitch: 90, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head.SetRotation(common.PitchRotation(tt.pitch))
			if got := c.Horizon(); mgl32.Abs(got-tt.want) > 1e-4 {
				t.Fatalf("horizon = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetAspectIgnoresNonPositive(t *testing.T) {
	c := NewCamera(WithAspect(2))
	c.SetAspect(0)
	c.SetAspect(-1)
	if got := c.Aspect(); got != 2 {
		t.Fatalf("aspect = %v, want 2", got)
	}
	c.SetAspect(1.5)
	if got := c.Aspect(); got != 1.5 {
		t.Fatalf("aspect = %v, want 1.5", got)
	}
}

func TestSees(t *testing.T) {
	body := game_object.NewGameObject()
	head := game_object.NewGameObject(game_object.WithParent(body))
	c := NewCamera(WithNode(head), WithAspect(1))

	tests := []struct {
		name   string
		point  mgl32.Vec3
		radius float32
		want   bool
	}{
		{name: "ahead", point: mgl32.Vec3{0, 0, -10}, want: true},
		{name: "behind", point: mgl32.Vec3{0, 0, 10}, want: false},
		{name: "beyond far plane", point: mgl32.Vec3{0, 0, -2000}, want: false},
		{name: "far off to the side", point: mgl32.Vec3{50, 0, -1}, want: false},
		{name: "sphere overlapping the edge", point: mgl32.Vec3{50, 0, -1}, radius: 60, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Sees(tt.point, tt.radius); got != tt.want {
				t.Fatalf("Sees(%v, %v) = %v, want %v", tt.point, tt.radius, got, tt.want)
			}
		})
	}

	body.SetRotation(common.YawRotation(90))
	if !c.Sees(mgl32.Vec3{10, 0, 0}, 0) {
		t.Fatal("point to the right not visible after turning right")
	}
	if c.Sees(mgl32.Vec3{0, 0, -10}, 0) {
		t.Fatal("point formerly ahead still visible after turning right")
	}
}
