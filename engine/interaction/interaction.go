// Package interaction fans player interact events out to subscribed hooks on a worker pool,
// keeping hook latency and failures off the engine tick.
package interaction

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event describes one interact press.
type Event struct {
	// PlayerID identifies the controller that interacted.
	PlayerID uuid.UUID
	// Position is the world position of the player's head at the time of the press.
	Position mgl32.Vec3
	// Forward is the world-space look direction at the time of the press.
	Forward mgl32.Vec3
	// Time is when the press was observed on the tick goroutine.
	Time time.Time
}

// Hook handles an interact event. Returned errors are logged.
type Hook func(Event) error

// Dispatcher delivers interact events to hooks.
type Dispatcher interface {
	// Subscribe adds a hook.
	//
	// Parameters:
	//   - h: the hook to run for every dispatched event
	//
	// Returns:
	//   - func(): removes the hook; safe to call more than once
	Subscribe(h Hook) func()

	// Dispatch submits one task per subscribed hook and returns without waiting for them.
	//
	// Parameters:
	//   - ev: the event to deliver
	Dispatch(ev Event)

	// Wait blocks until every task submitted so far has finished.
	Wait()

	// Close stops accepting events and waits for in-flight hooks.
	Close()
}

type subscription struct {
	id   uint64
	hook Hook
}

// dispatcherImpl implements the Dispatcher interface.
type dispatcherImpl struct {
	mu *sync.Mutex

	pool        worker.DynamicWorkerPool
	workers     int
	queueSize   int
	idleTimeout time.Duration

	hooks  []subscription
	nextID uint64
	taskID atomic.Int64

	// inflight is only incremented under mu while closed is false, so Close's Wait never races an Add.
	inflight sync.WaitGroup
	closed   bool

	logger *zap.Logger
}

var _ Dispatcher = &dispatcherImpl{}

// NewDispatcher creates an interaction Dispatcher backed by a dynamic worker pool.
//
// Parameters:
//   - options: functional options to configure the dispatcher
//
// Returns:
//   - Dispatcher: the newly created dispatcher
func NewDispatcher(options ...DispatcherBuilderOption) Dispatcher {
	d := &dispatcherImpl{
		mu:          &sync.Mutex{},
		workers:     2,
		queueSize:   64,
		idleTimeout: time.Second,
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		opt(d)
	}

	// Created after options so WithWorkers/WithQueueSize apply.
	d.pool = worker.NewDynamicWorkerPool(d.workers, d.queueSize, d.idleTimeout)
	return d
}

func (d *dispatcherImpl) Subscribe(h Hook) func() {
	if h == nil {
		return func() {}
	}

	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.hooks = append(d.hooks, subscription{id: id, hook: h})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			for i, s := range d.hooks {
				if s.id == id {
					d.hooks = append(d.hooks[:i], d.hooks[i+1:]...)
					return
				}
			}
		})
	}
}

func (d *dispatcherImpl) Dispatch(ev Event) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("interaction dropped after close", zap.Stringer("player", ev.PlayerID))
		return
	}
	hooks := slices.Clone(d.hooks)
	d.inflight.Add(len(hooks))
	d.mu.Unlock()

	for _, s := range hooks {
		sub := s
		d.pool.SubmitTask(worker.Task{
			ID: int(d.taskID.Add(1)),
			Do: func() (any, error) {
				defer d.inflight.Done()
				err := d.run(sub, ev)
				if err != nil {
					d.logger.Warn("interaction hook failed",
						zap.Uint64("hook", sub.id),
						zap.Stringer("player", ev.PlayerID),
						zap.Error(err),
					)
				}
				return nil, err
			},
		})
	}
}

// run invokes a hook, converting a panic into an error.
func (d *dispatcherImpl) run(s subscription, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panicked: %v", r)
		}
	}()
	return s.hook(ev)
}

func (d *dispatcherImpl) Wait() {
	// A WaitGroup barrier instead of pool.Wait, which only returns once workers idle-exit.
	d.inflight.Wait()
}

// Close rejects further events and waits for the in-flight hooks. The pool's workers are left to
// exit on their own once they have been idle for the configured idle timeout.
func (d *dispatcherImpl) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.inflight.Wait()
	d.logger.Debug("interaction dispatcher closed")
}
