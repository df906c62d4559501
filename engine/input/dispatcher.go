package input

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Dispatcher owns the capability-typed handler tables and the action state machines.
type Dispatcher interface {
	// Register files h under every handler interface it implements.
	//
	// Parameters:
	//   - h: a MoveHandler, LookHandler and/or InteractHandler
	//
	// Returns:
	//   - *Registration: handle used to remove h again
	//   - error: ErrNoCapability if h implements none of the handler interfaces
	Register(h any) (*Registration, error)

	// Enable turns the given actions on. Enabling move while bound keys are already held emits
	// Started and Performed for the held value; enabling look drops the pointer baseline.
	// Handlers are notified on the calling goroutine, so call it from the tick goroutine (or before
	// the engine runs). Other goroutines use RequestEnable.
	//
	// Parameters:
	//   - actions: the actions to enable
	Enable(actions ...Action)

	// Disable turns the given actions off. An actuated move or interact emits Canceled first.
	// Same goroutine rules as Enable; other goroutines use RequestDisable.
	//
	// Parameters:
	//   - actions: the actions to disable
	Disable(actions ...Action)

	// RequestEnable queues Enable for the next Flush. Safe for concurrent use.
	RequestEnable(actions ...Action)

	// RequestDisable queues Disable for the next Flush. Safe for concurrent use.
	RequestDisable(actions ...Action)

	// Enabled reports whether an action is enabled.
	//
	// Parameters:
	//   - a: the action
	//
	// Returns:
	//   - bool: true if enabled
	Enabled(a Action) bool

	// Move returns the move value last reported to handlers (zero while at rest).
	//
	// Returns:
	//   - mgl32.Vec2: the current move value
	Move() mgl32.Vec2

	// Observe registers fn to receive every emitted Event before the handlers do.
	//
	// Parameters:
	//   - fn: the observer
	Observe(fn func(Event))

	// KeyDown queues a key press. Safe for concurrent use.
	KeyDown(keyCode uint32)

	// KeyUp queues a key release. Safe for concurrent use.
	KeyUp(keyCode uint32)

	// MouseMove queues an absolute cursor position. Safe for concurrent use.
	MouseMove(x, y float64)

	// ResetPointer queues a look baseline reset, used after the cursor is locked or warped.
	ResetPointer()

	// Flush interprets every queued raw event in arrival order and delivers the resulting actions.
	// Call it from the tick goroutine.
	Flush()

	// Attach wires a Source's callbacks into the raw event queue.
	//
	// Parameters:
	//   - src: the event source, usually the engine window
	Attach(src Source)
}

// Registration is the handle returned by Register.
type Registration struct {
	d    *dispatcherImpl
	e    *entry
	once sync.Once
}

// Deregister removes the handler from every table it was filed under. Calling it more than once is a no-op.
func (r *Registration) Deregister() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		r.d.deregister(r.e)
	})
}

type entry struct {
	move     MoveHandler
	look     LookHandler
	interact InteractHandler
	alive    atomic.Bool
}

type rawKind uint8

const (
	rawKeyDown rawKind = iota
	rawKeyUp
	rawMouseMove
	rawPointerReset
	rawEnable
	rawDisable
)

type rawEvent struct {
	kind   rawKind
	key    uint32
	x, y   float64
	action Action
}

// dispatcherImpl implements the Dispatcher interface.
type dispatcherImpl struct {
	mu *sync.Mutex

	bindings Bindings
	logger   *zap.Logger

	queue     []rawEvent
	entries   []*entry
	observers []func(Event)

	enabled map[Action]bool
	pressed map[uint32]bool

	move         mgl32.Vec2
	interactHeld bool

	hasPointer   bool
	lastX, lastY float64
}

var _ Dispatcher = &dispatcherImpl{}

// NewDispatcher creates a Dispatcher with WASD/E bindings and every action disabled.
//
// Parameters:
//   - options: functional options to configure the dispatcher
//
// Returns:
//   - Dispatcher: the newly created dispatcher
func NewDispatcher(options ...DispatcherBuilderOption) Dispatcher {
	d := &dispatcherImpl{
		mu:       &sync.Mutex{},
		bindings: DefaultBindings(),
		logger:   zap.NewNop(),
		enabled:  make(map[Action]bool, len(AllActions)),
		pressed:  make(map[uint32]bool),
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *dispatcherImpl) Register(h any) (*Registration, error) {
	e := &entry{}
	if m, ok := h.(MoveHandler); ok {
		e.move = m
	}
	if l, ok := h.(LookHandler); ok {
		e.look = l
	}
	if i, ok := h.(InteractHandler); ok {
		e.interact = i
	}
	if e.move == nil && e.look == nil && e.interact == nil {
		return nil, ErrNoCapability
	}
	e.alive.Store(true)

	d.mu.Lock()
	d.entries = append(d.entries, e)
	d.mu.Unlock()

	d.logger.Debug("handler registered",
		zap.Bool("move", e.move != nil),
		zap.Bool("look", e.look != nil),
		zap.Bool("interact", e.interact != nil),
	)
	return &Registration{d: d, e: e}, nil
}

func (d *dispatcherImpl) deregister(e *entry) {
	e.alive.Store(false)

	d.mu.Lock()
	defer d.mu.Unlock()
	for i, cur := range d.entries {
		if cur == e {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			break
		}
	}
	d.logger.Debug("handler deregistered")
}

func (d *dispatcherImpl) Enable(actions ...Action) {
	var out []Event

	d.mu.Lock()
	for _, a := range actions {
		out = d.enable(a, out)
	}
	d.mu.Unlock()

	d.deliver(out)
}

func (d *dispatcherImpl) Disable(actions ...Action) {
	var out []Event

	d.mu.Lock()
	for _, a := range actions {
		out = d.disable(a, out)
	}
	d.mu.Unlock()

	d.deliver(out)
}

func (d *dispatcherImpl) RequestEnable(actions ...Action) {
	for _, a := range actions {
		d.enqueue(rawEvent{kind: rawEnable, action: a})
	}
}

func (d *dispatcherImpl) RequestDisable(actions ...Action) {
	for _, a := range actions {
		d.enqueue(rawEvent{kind: rawDisable, action: a})
	}
}

// enable turns one action on. Must be called with mu held.
func (d *dispatcherImpl) enable(a Action, out []Event) []Event {
	if d.enabled[a] {
		return out
	}
	d.enabled[a] = true
	switch a {
	case ActionMove:
		out = d.syncMove(out)
	case ActionLook:
		d.hasPointer = false
	}
	d.logger.Debug("action enabled", zap.Stringer("action", a))
	return out
}

// disable turns one action off. Must be called with mu held.
func (d *dispatcherImpl) disable(a Action, out []Event) []Event {
	if !d.enabled[a] {
		return out
	}
	d.enabled[a] = false
	switch a {
	case ActionMove:
		if d.move != (mgl32.Vec2{}) {
			d.move = mgl32.Vec2{}
			out = append(out, Event{Action: ActionMove, Phase: PhaseCanceled})
		}
	case ActionLook:
		d.hasPointer = false
	case ActionInteract:
		if d.interactHeld {
			d.interactHeld = false
			out = append(out, Event{Action: ActionInteract, Phase: PhaseCanceled})
		}
	}
	d.logger.Debug("action disabled", zap.Stringer("action", a))
	return out
}

func (d *dispatcherImpl) Enabled(a Action) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled[a]
}

func (d *dispatcherImpl) Move() mgl32.Vec2 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.move
}

func (d *dispatcherImpl) Observe(fn func(Event)) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	d.observers = append(d.observers, fn)
	d.mu.Unlock()
}

func (d *dispatcherImpl) KeyDown(keyCode uint32) {
	d.enqueue(rawEvent{kind: rawKeyDown, key: keyCode})
}

func (d *dispatcherImpl) KeyUp(keyCode uint32) {
	d.enqueue(rawEvent{kind: rawKeyUp, key: keyCode})
}

func (d *dispatcherImpl) MouseMove(x, y float64) {
	d.enqueue(rawEvent{kind: rawMouseMove, x: x, y: y})
}

func (d *dispatcherImpl) ResetPointer() {
	d.enqueue(rawEvent{kind: rawPointerReset})
}

func (d *dispatcherImpl) enqueue(r rawEvent) {
	d.mu.Lock()
	d.queue = append(d.queue, r)
	d.mu.Unlock()
}

func (d *dispatcherImpl) Flush() {
	var out []Event

	d.mu.Lock()
	raw := d.queue
	d.queue = nil
	for _, r := range raw {
		out = d.apply(r, out)
	}
	d.mu.Unlock()

	d.deliver(out)
}

func (d *dispatcherImpl) Attach(src Source) {
	if src == nil {
		return
	}
	src.SetKeyDownCallback(d.KeyDown)
	src.SetKeyUpCallback(d.KeyUp)
	src.SetMouseMoveCallback(d.MouseMove)
}

// apply interprets one raw event. Must be called with mu held.
func (d *dispatcherImpl) apply(r rawEvent, out []Event) []Event {
	switch r.kind {
	case rawKeyDown:
		if d.pressed[r.key] {
			// key repeat
			return out
		}
		d.pressed[r.key] = true
		if r.key == d.bindings.Interact && d.enabled[ActionInteract] {
			d.interactHeld = true
			out = append(out,
				Event{Action: ActionInteract, Phase: PhaseStarted},
				Event{Action: ActionInteract, Phase: PhasePerformed},
			)
		}
		return d.syncMove(out)

	case rawKeyUp:
		if !d.pressed[r.key] {
			return out
		}
		delete(d.pressed, r.key)
		if r.key == d.bindings.Interact && d.interactHeld {
			d.interactHeld = false
			out = append(out, Event{Action: ActionInteract, Phase: PhaseCanceled})
		}
		return d.syncMove(out)

	case rawMouseMove:
		if !d.enabled[ActionLook] {
			d.hasPointer = false
			return out
		}
		if !d.hasPointer {
			d.hasPointer = true
			d.lastX, d.lastY = r.x, r.y
			return out
		}
		dx, dy := r.x-d.lastX, r.y-d.lastY
		d.lastX, d.lastY = r.x, r.y
		if dx == 0 && dy == 0 {
			return out
		}
		// screen y grows downward; moving the mouse up is a positive look delta
		return append(out, Event{
			Action: ActionLook,
			Phase:  PhasePerformed,
			Value:  mgl32.Vec2{float32(dx), float32(-dy)},
		})

	case rawPointerReset:
		d.hasPointer = false

	case rawEnable:
		return d.enable(r.action, out)

	case rawDisable:
		return d.disable(r.action, out)
	}
	return out
}

// syncMove compares the composite of the held keys with the last reported move and emits the
// transition. Must be called with mu held.
func (d *dispatcherImpl) syncMove(out []Event) []Event {
	if !d.enabled[ActionMove] {
		return out
	}
	v := mgl32.Vec2{
		d.axis(d.bindings.Right, d.bindings.Left),
		d.axis(d.bindings.Forward, d.bindings.Back),
	}
	prev := d.move
	if v == prev {
		return out
	}
	d.move = v

	switch {
	case prev == (mgl32.Vec2{}):
		out = append(out,
			Event{Action: ActionMove, Phase: PhaseStarted, Value: v},
			Event{Action: ActionMove, Phase: PhasePerformed, Value: v},
		)
	case v == (mgl32.Vec2{}):
		out = append(out, Event{Action: ActionMove, Phase: PhaseCanceled})
	default:
		out = append(out, Event{Action: ActionMove, Phase: PhasePerformed, Value: v})
	}
	return out
}

func (d *dispatcherImpl) axis(positive, negative uint32) float32 {
	var v float32
	if d.pressed[positive] {
		v++
	}
	if d.pressed[negative] {
		v--
	}
	return v
}

// deliver hands events to observers and handlers outside the lock, so handlers may call back into
// the dispatcher (Disable, Deregister) while being notified.
func (d *dispatcherImpl) deliver(events []Event) {
	for _, ev := range events {
		d.mu.Lock()
		entries := slices.Clone(d.entries)
		observers := slices.Clone(d.observers)
		d.mu.Unlock()

		if ev.Action != ActionLook {
			d.logger.Debug("action",
				zap.Stringer("action", ev.Action),
				zap.Stringer("phase", ev.Phase),
				zap.Float32("x", ev.Value.X()),
				zap.Float32("y", ev.Value.Y()),
			)
		}

		for _, fn := range observers {
			fn(ev)
		}
		for _, e := range entries {
			if !e.alive.Load() {
				continue
			}
			switch ev.Action {
			case ActionMove:
				if e.move == nil {
					continue
				}
				switch ev.Phase {
				case PhasePerformed:
					e.move.OnMove(ev.Value)
				case PhaseCanceled:
					e.move.OnMoveCanceled()
				}
			case ActionLook:
				if e.look != nil && ev.Phase == PhasePerformed {
					e.look.OnLook(ev.Value)
				}
			case ActionInteract:
				if e.interact != nil && ev.Phase == PhasePerformed {
					e.interact.OnInteract()
				}
			}
		}
	}
}
