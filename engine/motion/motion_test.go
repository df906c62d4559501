package motion

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
)

const eps = 1e-5

// vecNear reports whether a and b lie within tol of each other.
func vecNear(a, b mgl32.Vec3, tol float32) bool {
	return a.Sub(b).Len() < tol
}

func newMover(t *testing.T, speed, interval float32) (*System, ecs.Entity, game_object.GameObject) {
	t.Helper()
	s := NewSystem()
	node := game_object.NewGameObject()
	return s, s.Spawn(node, speed, interval), node
}

func TestSingleStepDisplacement(t *testing.T) {
	s, e, node := newMover(t, 5, 0)

	s.Start(e, mgl32.Vec2{1, 0})
	s.Update(0.1)

	got := node.Position()
	want := mgl32.Vec3{0.5, 0, 0}
	if !vecNear(got, want, eps) {
		t.Fatalf("position after one step = %v, want %v", got, want)
	}
	if mgl32.Abs(got.Len()-0.5) > eps {
		t.Fatalf("step magnitude = %v, want 0.5", got.Len())
	}
}

func TestStartThenCancelAppliesNothing(t *testing.T) {
	s, e, node := newMover(t, 5, 0)

	s.Start(e, mgl32.Vec2{1, 0})
	s.Cancel(e)
	if s.Active(e) {
		t.Fatal("loop still active after cancel")
	}
	if got := s.State(e); got != StateRunning {
		t.Fatalf("state before checkpoint = %v, want running", got)
	}

	for i := 0; i < 5; i++ {
		s.Update(0.1)
	}

	if got := node.Position(); got.Len() > eps {
		t.Fatalf("canceled loop moved node to %v", got)
	}
	if got := s.State(e); got != StateIdle {
		t.Fatalf("state after checkpoint = %v, want idle", got)
	}
}

func TestCancelAfterStepsStops(t *testing.T) {
	s, e, node := newMover(t, 1, 0)

	s.Start(e, mgl32.Vec2{0, 1})
	s.Update(1)
	s.Update(1)
	s.Cancel(e)
	s.Update(1)
	s.Update(1)

	want := mgl32.Vec3{0, 0, -2}
	if got := node.Position(); !vecNear(got, want, eps) {
		t.Fatalf("position = %v, want %v", got, want)
	}
}

func TestSupersedeUsesLatestVectorOnly(t *testing.T) {
	s, e, node := newMover(t, 1, 0)

	s.Start(e, mgl32.Vec2{1, 0})
	s.Start(e, mgl32.Vec2{0, 1})
	for i := 0; i < 3; i++ {
		s.Update(1)
	}

	want := mgl32.Vec3{0, 0, -3}
	if got := node.Position(); !vecNear(got, want, eps) {
		t.Fatalf("position = %v, want %v (no displacement from the first vector)", got, want)
	}
	snap, ok := s.Snapshot(e)
	if !ok {
		t.Fatal("snapshot of live entity failed")
	}
	if snap.Steps != 3 {
		t.Fatalf("steps = %d, want 3 (one per tick)", snap.Steps)
	}
	if snap.Loop != snap.Context || snap.Context != 2 {
		t.Fatalf("loop/context = %d/%d, want 2/2", snap.Loop, snap.Context)
	}
}

func TestRestartAfterCancel(t *testing.T) {
	s, e, node := newMover(t, 1, 0)

	s.Start(e, mgl32.Vec2{1, 0})
	s.Update(1)
	s.Cancel(e)
	s.Update(1)
	s.Start(e, mgl32.Vec2{-1, 0})
	s.Update(1)

	if got := node.Position(); !vecNear(got, mgl32.Vec3{}, eps) {
		t.Fatalf("position = %v, want origin", got)
	}
	if !s.Active(e) {
		t.Fatal("restarted loop is not active")
	}
}

func TestZeroVectorKeepsRunning(t *testing.T) {
	s, e, node := newMover(t, 5, 0)

	s.Start(e, mgl32.Vec2{})
	for i := 0; i < 10; i++ {
		s.Update(0.1)
	}

	if got := s.State(e); got != StateRunning {
		t.Fatalf("state = %v, want running", got)
	}
	if got := node.Position(); got.Len() > eps {
		t.Fatalf("zero vector moved node to %v", got)
	}
	snap, _ := s.Snapshot(e)
	if snap.Steps != 10 {
		t.Fatalf("steps = %d, want 10", snap.Steps)
	}
}

func TestFacingOrientsDisplacement(t *testing.T) {
	s, e, node := newMover(t, 2, 0)
	node.SetRotation(common.YawRotation(90))

	s.Start(e, mgl32.Vec2{0, 1})
	s.Update(0.5)

	want := mgl32.Vec3{1, 0, 0}
	if got := node.Position(); !vecNear(got, want, eps) {
		t.Fatalf("position = %v, want %v", got, want)
	}
}

func TestFacingChangeMidLoop(t *testing.T) {
	s, e, node := newMover(t, 1, 0)

	s.Start(e, mgl32.Vec2{0, 1})
	s.Update(1)
	node.SetRotation(common.YawRotation(180))
	s.Update(1)

	if got := node.Position(); !vecNear(got, mgl32.Vec3{}, 1e-4) {
		t.Fatalf("position = %v, want origin after turning around", got)
	}
}

func TestIntervalGatesSteps(t *testing.T) {
	s, e, node := newMover(t, 1, 0.1)

	s.Start(e, mgl32.Vec2{1, 0})
	for i := 0; i < 4; i++ {
		s.Update(0.025)
	}

	snap, _ := s.Snapshot(e)
	if snap.Steps != 1 {
		t.Fatalf("steps = %d, want 1", snap.Steps)
	}
	if got, want := node.Position(), (mgl32.Vec3{0.1, 0, 0}); !vecNear(got, want, eps) {
		t.Fatalf("position = %v, want %v", got, want)
	}

	// cancellation is still observed on ticks that would not step
	s.Cancel(e)
	s.Update(0.025)
	if got := s.State(e); got != StateIdle {
		t.Fatalf("state = %v, want idle", got)
	}
}

func TestMoversAreIndependent(t *testing.T) {
	s := NewSystem()
	a := game_object.NewGameObject()
	b := game_object.NewGameObject()
	ea := s.Spawn(a, 1, 0)
	eb := s.Spawn(b, 1, 0)

	s.Start(ea, mgl32.Vec2{1, 0})
	s.Start(eb, mgl32.Vec2{-1, 0})
	s.Cancel(eb)
	s.Update(1)

	if got := a.Position(); !vecNear(got, mgl32.Vec3{1, 0, 0}, eps) {
		t.Fatalf("a = %v, want (1,0,0)", got)
	}
	if got := b.Position(); got.Len() > eps {
		t.Fatalf("b = %v, want origin", got)
	}
}

func TestDespawn(t *testing.T) {
	s, e, node := newMover(t, 1, 0)
	s.Start(e, mgl32.Vec2{1, 0})
	s.Despawn(e)
	s.Despawn(e)
	s.Update(1)

	if got := node.Position(); got.Len() > eps {
		t.Fatalf("despawned mover moved to %v", got)
	}
	if _, ok := s.Snapshot(e); ok {
		t.Fatal("snapshot of despawned entity succeeded")
	}
	// operations on dead entities are ignored
	s.Start(e, mgl32.Vec2{1, 0})
	s.Cancel(e)
	if s.State(e) != StateIdle {
		t.Fatal("dead entity reports running")
	}
}

func TestChildMoverUsesWorldFacing(t *testing.T) {
	s := NewSystem()
	root := game_object.NewGameObject(game_object.WithRotation(common.YawRotation(90)))
	node := game_object.NewGameObject(game_object.WithParent(root))
	e := s.Spawn(node, 1, 0)

	s.Start(e, mgl32.Vec2{0, 1})
	s.Update(1)

	if got, want := node.WorldPosition(), (mgl32.Vec3{1, 0, 0}); !vecNear(got, want, eps) {
		t.Fatalf("world position = %v, want %v", got, want)
	}
}

func TestScaledParentKeepsWorldSpeed(t *testing.T) {
	s := NewSystem()
	root := game_object.NewGameObject(
		game_object.WithScale(2, 2, 2),
		game_object.WithRotation(common.YawRotation(90)),
	)
	node := game_object.NewGameObject(game_object.WithParent(root))
	e := s.Spawn(node, 5, 0)

	s.Start(e, mgl32.Vec2{1, 0})
	s.Update(0.1)

	got := node.WorldPosition()
	if step := got.Len(); mgl32.Abs(step-0.5) > eps {
		t.Fatalf("world step = %v (%v), want magnitude 0.5", got, step)
	}
	// yawed 90 right, local right points at +Z in world space
	if want := (mgl32.Vec3{0, 0, 0.5}); !vecNear(got, want, eps) {
		t.Fatalf("world position = %v, want %v", got, want)
	}
}
