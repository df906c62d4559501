package interaction

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

func waitOrFail(t *testing.T, d Dispatcher) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for hooks")
	}
}

func TestDispatchRunsEveryHook(t *testing.T) {
	d := NewDispatcher(WithWorkers(4))
	defer d.Close()

	ev := Event{PlayerID: uuid.New(), Position: mgl32.Vec3{1, 2, 3}, Forward: mgl32.Vec3{0, 0, -1}, Time: time.Now()}

	var mu sync.Mutex
	var got []Event
	for i := 0; i < 3; i++ {
		d.Subscribe(func(e Event) error {
			mu.Lock()
			got = append(got, e)
			mu.Unlock()
			return nil
		})
	}

	d.Dispatch(ev)
	waitOrFail(t, d)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 {
		t.Fatalf("hook calls = %d, want 3", len(got))
	}
	for _, e := range got {
		if e.PlayerID != ev.PlayerID || e.Position != ev.Position {
			t.Fatalf("hook got %+v, want %+v", e, ev)
		}
	}
}

func TestFailingHooksDoNotStopOthers(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var ok atomic.Int32
	d.Subscribe(func(Event) error { return errors.New("boom") })
	d.Subscribe(func(Event) error { panic("hook bug") })
	d.Subscribe(func(Event) error {
		ok.Add(1)
		return nil
	})

	d.Dispatch(Event{PlayerID: uuid.New()})
	d.Dispatch(Event{PlayerID: uuid.New()})
	waitOrFail(t, d)

	if got := ok.Load(); got != 2 {
		t.Fatalf("healthy hook calls = %d, want 2", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var calls atomic.Int32
	unsubscribe := d.Subscribe(func(Event) error {
		calls.Add(1)
		return nil
	})
	unsubscribe()
	unsubscribe()

	d.Dispatch(Event{})
	waitOrFail(t, d)
	if calls.Load() != 0 {
		t.Fatal("unsubscribed hook ran")
	}
}

func TestDispatchAfterCloseIsDropped(t *testing.T) {
	d := NewDispatcher()
	var calls atomic.Int32
	d.Subscribe(func(Event) error {
		calls.Add(1)
		return nil
	})
	d.Close()
	d.Close()

	d.Dispatch(Event{})
	waitOrFail(t, d)
	if calls.Load() != 0 {
		t.Fatal("hook ran after close")
	}
}

func TestCloseWhileDispatching(t *testing.T) {
	d := NewDispatcher(WithWorkers(4))
	var calls atomic.Int32
	d.Subscribe(func(Event) error {
		calls.Add(1)
		return nil
	})

	var senders sync.WaitGroup
	for i := 0; i < 8; i++ {
		senders.Add(1)
		go func() {
			defer senders.Done()
			for j := 0; j < 50; j++ {
				d.Dispatch(Event{PlayerID: uuid.New()})
			}
		}()
	}

	time.Sleep(time.Millisecond)
	d.Close()
	atClose := calls.Load()

	senders.Wait()
	waitOrFail(t, d)
	if got := calls.Load(); got != atClose {
		t.Fatalf("hooks ran after Close returned: %d at close, %d later", atClose, got)
	}
}
