// Package input turns raw window events into the move, look and interact actions a player consumes.
//
// Raw events may arrive on any goroutine (the window runs on the main thread); they are queued and only
// interpreted when the engine calls Flush from its tick goroutine, so every handler callback runs on the
// same logical thread as the systems that read the resulting state.
package input

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNoCapability is returned by Register when the value implements none of the handler interfaces.
	ErrNoCapability = errors.New("input: handler implements no input capability")
	// ErrUnknownKey is returned when a binding names a key the engine does not know.
	ErrUnknownKey = errors.New("input: unknown key")
)

// Action identifies a bound input action.
type Action uint8

const (
	ActionMove Action = iota
	ActionLook
	ActionInteract
)

// AllActions lists every action in a stable order.
var AllActions = []Action{ActionMove, ActionLook, ActionInteract}

func (a Action) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionLook:
		return "look"
	case ActionInteract:
		return "interact"
	default:
		return "unknown"
	}
}

// Phase is the point in an action's lifecycle an event reports.
type Phase uint8

const (
	// PhaseStarted fires when an action leaves its resting value.
	PhaseStarted Phase = iota
	// PhasePerformed fires on actuation and on every value change while actuated.
	PhasePerformed
	// PhaseCanceled fires when an action returns to rest or is disabled while actuated.
	PhaseCanceled
)

func (p Phase) String() string {
	switch p {
	case PhaseStarted:
		return "started"
	case PhasePerformed:
		return "performed"
	case PhaseCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Event is one emitted action phase. Value carries the move vector or look delta; it is zero for
// interact and for cancellations.
type Event struct {
	Action Action
	Phase  Phase
	Value  mgl32.Vec2
}

// MoveHandler receives move actions. OnMove fires on every performed value, OnMoveCanceled when
// the move returns to rest.
type MoveHandler interface {
	OnMove(v mgl32.Vec2)
	OnMoveCanceled()
}

// LookHandler receives per-sample look deltas.
type LookHandler interface {
	OnLook(delta mgl32.Vec2)
}

// InteractHandler receives interact presses.
type InteractHandler interface {
	OnInteract()
}

// Source is a window-like producer of raw device events.
type Source interface {
	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))
	SetMouseMoveCallback(callback func(x, y float64))
}

// Bindings maps the composite move axes and the interact action to key codes.
type Bindings struct {
	Forward  uint32
	Back     uint32
	Left     uint32
	Right    uint32
	Interact uint32
}

// DefaultBindings returns WASD movement with E to interact.
//
// Returns:
//   - Bindings: the default key bindings
func DefaultBindings() Bindings {
	return Bindings{
		Forward:  common.KeyW,
		Back:     common.KeyS,
		Left:     common.KeyA,
		Right:    common.KeyD,
		Interact: common.KeyE,
	}
}

// BindingsFromNames resolves key names (as written in configuration) into Bindings.
//
// Parameters:
//   - forward, back, left, right: the composite move keys
//   - interact: the interact key
//
// Returns:
//   - Bindings: the resolved bindings
//   - error: ErrUnknownKey (wrapped) naming the first key that could not be resolved
func BindingsFromNames(forward, back, left, right, interact string) (Bindings, error) {
	var b Bindings
	fields := []struct {
		name string
		key  string
		dst  *uint32
	}{
		{"forward", forward, &b.Forward},
		{"back", back, &b.Back},
		{"left", left, &b.Left},
		{"right", right, &b.Right},
		{"interact", interact, &b.Interact},
	}
	for _, f := range fields {
		code, err := common.KeyCode(f.key)
		if err != nil {
			return Bindings{}, fmt.Errorf("bind %s to %q: %w", f.name, f.key, ErrUnknownKey)
		}
		*f.dst = code
	}
	return b, nil
}
