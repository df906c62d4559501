package player

import (
	"github.com/Carmen-Shannon/oxy-fps/engine/game_object"
	"github.com/Carmen-Shannon/oxy-fps/engine/interaction"
	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(*controllerImpl)

// WithID sets the controller identity instead of generating a random one.
//
// Parameters:
//   - id: the controller id
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithID(id uuid.UUID) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.id = id
	}
}

// WithMoveSpeed sets the movement speed.
//
// Parameters:
//   - speed: units per second (negative values are ignored)
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithMoveSpeed(speed float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if speed >= 0 {
			c.speed = speed
		}
	}
}

// WithLookSensitivity sets the multiplier applied to look deltas.
//
// Parameters:
//   - sensitivity: degrees per unit of look delta
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithLookSensitivity(sensitivity float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.sensitivity = sensitivity
	}
}

// WithPitchLimits sets the pitch clamp range in degrees.
//
// Parameters:
//   - lowest: lowest pitch (looking up)
//   - highest: highest pitch (looking down)
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithPitchLimits(lowest, highest float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.minPitch = lowest
		c.maxPitch = highest
	}
}

// WithBody uses an existing node as the body.
//
// Parameters:
//   - body: the node to translate and yaw
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithBody(body game_object.GameObject) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.body = body
	}
}

// WithHead uses an existing node as the head.
//
// Parameters:
//   - head: the node to pitch
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithHead(head game_object.GameObject) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.head = head
	}
}

// WithEyeHeight sets the local height of the generated head node. Ignored when WithHead is used.
func WithEyeHeight(height float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.eyeHeight = height
	}
}

// WithMoveInterval sets the minimum seconds between movement steps. Zero steps every tick.
func WithMoveInterval(seconds float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if seconds >= 0 {
			c.moveInterval = seconds
		}
	}
}

// WithInteractions sets the dispatcher interact presses are forwarded to.
func WithInteractions(d interaction.Dispatcher) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.interactions = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.logger = logger.OrNop(l).Named("player")
	}
}
