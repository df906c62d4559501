package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/input"
	"github.com/Carmen-Shannon/oxy-fps/engine/motion"
	"github.com/Carmen-Shannon/oxy-fps/engine/player"
	"github.com/go-gl/mathgl/mgl32"
)

type recordingSystem struct {
	name  string
	order *[]string
}

func (s recordingSystem) Update(float32) {
	*s.order = append(*s.order, s.name)
}

func TestTickOrder(t *testing.T) {
	var order []string
	e := NewEngine(
		WithSystem(recordingSystem{name: "a", order: &order}),
		WithSystem(recordingSystem{name: "b", order: &order}),
	).(*engine)
	e.AddSystem(recordingSystem{name: "c", order: &order})
	e.SetTickCallback(func(float32) { order = append(order, "callback") })

	e.tick(1.0 / 60)

	want := []string{"a", "b", "c", "callback"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestTickFlushesInputBeforeSystems(t *testing.T) {
	sys := motion.NewSystem()
	d := input.NewDispatcher()
	e := NewEngine(WithInput(d), WithSystem(sys)).(*engine)

	p := player.NewController(sys, player.WithMoveSpeed(2))
	if err := p.Enable(d); err != nil {
		t.Fatal(err)
	}

	d.KeyDown(common.KeyD)
	e.tick(0.5)

	if got, want := p.Body().Position(), (mgl32.Vec3{1, 0, 0}); !vecNear(got, want, 1e-5) {
		t.Fatalf("body = %v, want %v (move applied in the same tick as the key press)", got, want)
	}

	d.KeyUp(common.KeyD)
	e.tick(0.5)
	e.tick(0.5)
	if got, want := p.Body().Position(), (mgl32.Vec3{1, 0, 0}); !vecNear(got, want, 1e-5) {
		t.Fatalf("body = %v, want %v after release", got, want)
	}
}

func TestHeadlessRunAndQuit(t *testing.T) {
	e := NewEngine(WithTickRate(500))

	var mu sync.Mutex
	ticks := 0
	e.SetTickCallback(func(float32) {
		mu.Lock()
		ticks++
		n := ticks
		mu.Unlock()
		if n == 5 {
			e.Quit()
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		e.Quit()
		t.Fatal("Run did not return after Quit")
	}

	select {
	case <-e.Done():
	default:
		t.Fatal("Done not closed after Run returned")
	}
	e.Quit()
}

func TestSetTickRateWhileRunning(t *testing.T) {
	e := NewEngine(WithTickRate(1)).(*engine)

	ticked := make(chan struct{}, 1)
	e.SetTickCallback(func(float32) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	defer func() {
		e.Quit()
		<-done
	}()

	deadline := time.Now().Add(time.Second)
	for !e.running.Load() {
		if time.Now().After(deadline) {
			t.Fatal("engine never started")
		}
		time.Sleep(time.Millisecond)
	}
	e.SetTickRate(1000)

	select {
	case <-ticked:
	case <-time.After(900 * time.Millisecond):
		t.Fatal("no tick after raising the tick rate")
	}
}

func TestRateConversions(t *testing.T) {
	tests := []struct {
		name string
		fps  float64
		tick time.Duration
		cap  time.Duration
	}{
		{name: "60hz", fps: 60, tick: time.Second / 60, cap: time.Second / 60},
		{name: "zero", fps: 0, tick: time.Second / 60, cap: 0},
		{name: "negative", fps: -5, tick: time.Second / 60, cap: 0},
		{name: "fractional", fps: 0.5, tick: 2 * time.Second, cap: 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tickDuration(tt.fps); got != tt.tick {
				t.Fatalf("tickDuration(%v) = %v, want %v", tt.fps, got, tt.tick)
			}
			if got := frameDuration(tt.fps); got != tt.cap {
				t.Fatalf("frameDuration(%v) = %v, want %v", tt.fps, got, tt.cap)
			}
		})
	}
}

// vecNear reports whether a and b lie within tol of each other.
func vecNear(a, b mgl32.Vec3, tol float32) bool {
	return a.Sub(b).Len() < tol
}
