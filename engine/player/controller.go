// Package player implements the first-person controller: WASD translation through the motion
// system and mouse look split into body yaw and head pitch.
package player

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/game_object"
	"github.com/Carmen-Shannon/oxy-fps/engine/input"
	"github.com/Carmen-Shannon/oxy-fps/engine/interaction"
	"github.com/Carmen-Shannon/oxy-fps/engine/motion"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"
	"go.uber.org/zap"
)

const (
	DefaultMoveSpeed       float32 = 5
	DefaultLookSensitivity float32 = 0.1
	DefaultMinPitch        float32 = -80
	DefaultMaxPitch        float32 = 80
	DefaultEyeHeight       float32 = 1.7
)

// Controller is a first-person player. It implements input.MoveHandler, input.LookHandler and
// input.InteractHandler so it can be registered with an input.Dispatcher.
//
// The handlers, Enable, Disable and Release drive the motion system and must run on the engine's tick
// goroutine, or before the engine runs.
type Controller interface {
	input.MoveHandler
	input.LookHandler
	input.InteractHandler

	// Enable registers the controller with d and enables the move, look and interact actions.
	// Enabling an already enabled controller is a no-op.
	//
	// Parameters:
	//   - d: the input dispatcher to register with
	//
	// Returns:
	//   - error: error if registration fails
	Enable(d input.Dispatcher) error

	// Disable disables the actions, cancels any running move and deregisters from the dispatcher.
	// Disabling an already disabled controller is a no-op.
	Disable()

	// Enabled reports whether the controller is currently registered.
	//
	// Returns:
	//   - bool: true between Enable and Disable
	Enabled() bool

	// Moving reports whether a translation loop is running and has not been canceled.
	//
	// Returns:
	//   - bool: true if the next tick will move the body
	Moving() bool

	// Yaw returns the accumulated yaw in degrees (unbounded, positive turns right).
	//
	// Returns:
	//   - float32: yaw in degrees
	Yaw() float32

	// Pitch returns the clamped pitch in degrees (positive looks down).
	//
	// Returns:
	//   - float32: pitch in degrees
	Pitch() float32

	// Body returns the node that is translated and yawed.
	//
	// Returns:
	//   - game_object.GameObject: the body node
	Body() game_object.GameObject

	// Head returns the node that is pitched and carries the camera.
	//
	// Returns:
	//   - game_object.GameObject: the head node
	Head() game_object.GameObject

	// ID returns the controller's identity.
	//
	// Returns:
	//   - uuid.UUID: the controller id
	ID() uuid.UUID

	// Release disables the controller and removes its mover from the motion system.
	Release()
}

// controllerImpl implements the Controller interface.
type controllerImpl struct {
	mu *sync.Mutex

	id     uuid.UUID
	motion *motion.System
	mover  ecs.Entity

	body game_object.GameObject
	head game_object.GameObject

	speed        float32
	sensitivity  float32
	minPitch     float32
	maxPitch     float32
	eyeHeight    float32
	moveInterval float32

	yaw   float32
	pitch float32

	dispatcher   input.Dispatcher
	registration *input.Registration
	interactions interaction.Dispatcher

	logger *zap.Logger
}

var _ Controller = &controllerImpl{}

// NewController creates a player controller and spawns its mover in system.
// Without WithBody a new body node is created; without WithHead a head node is created as a
// child of the body at eye height.
//
// Parameters:
//   - system: the motion system that translates the body
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(system *motion.System, options ...ControllerBuilderOption) Controller {
	c := &controllerImpl{
		mu:          &sync.Mutex{},
		id:          uuid.New(),
		motion:      system,
		speed:       DefaultMoveSpeed,
		sensitivity: DefaultLookSensitivity,
		minPitch:    DefaultMinPitch,
		maxPitch:    DefaultMaxPitch,
		eyeHeight:   DefaultEyeHeight,
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.minPitch > c.maxPitch {
		c.minPitch, c.maxPitch = c.maxPitch, c.minPitch
	}

	if c.body == nil {
		c.body = game_object.NewGameObject(game_object.WithName("player"))
	}
	if c.head == nil {
		c.head = game_object.NewGameObject(
			game_object.WithName("head"),
			game_object.WithParent(c.body),
			game_object.WithPosition(0, c.eyeHeight, 0),
		)
	}

	c.logger = c.logger.With(zap.Stringer("player", c.id))
	c.mover = c.motion.Spawn(c.body, c.speed, c.moveInterval)
	return c
}

func (c *controllerImpl) OnMove(v mgl32.Vec2) {
	c.motion.Start(c.mover, v)
}

func (c *controllerImpl) OnMoveCanceled() {
	c.motion.Cancel(c.mover)
}

// OnLook scales delta by the sensitivity, adds x to yaw, subtracts y from pitch, clamps pitch and
// writes yaw to the body and pitch to the head.
func (c *controllerImpl) OnLook(delta mgl32.Vec2) {
	if delta == (mgl32.Vec2{}) {
		return
	}
	scaled := delta.Mul(c.sensitivity)

	c.mu.Lock()
	yaw := c.yaw + scaled.X()
	raw := c.pitch - scaled.Y()
	pitch := mgl32.Clamp(raw, c.minPitch, c.maxPitch)
	yawChanged, pitchChanged := yaw != c.yaw, pitch != c.pitch
	c.yaw, c.pitch = yaw, pitch
	c.mu.Unlock()

	if raw != pitch {
		c.logger.Debug("pitch clamped", zap.Float32("requested", raw), zap.Float32("pitch", pitch))
	}
	if yawChanged {
		c.body.SetRotation(common.YawRotation(yaw))
	}
	if pitchChanged {
		c.head.SetRotation(common.PitchRotation(pitch))
	}
}

func (c *controllerImpl) OnInteract() {
	if c.interactions == nil {
		c.logger.Debug("interact with no interaction dispatcher")
		return
	}
	c.interactions.Dispatch(interaction.Event{
		PlayerID: c.id,
		Position: c.head.WorldPosition(),
		Forward:  c.head.Forward(),
		Time:     time.Now(),
	})
}

func (c *controllerImpl) Enable(d input.Dispatcher) error {
	c.mu.Lock()
	if c.registration != nil {
		c.mu.Unlock()
		return nil
	}
	reg, err := d.Register(c)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.dispatcher = d
	c.registration = reg
	c.mu.Unlock()

	d.Enable(input.AllActions...)
	c.logger.Info("player enabled")
	return nil
}

func (c *controllerImpl) Disable() {
	c.mu.Lock()
	d, reg := c.dispatcher, c.registration
	c.dispatcher, c.registration = nil, nil
	c.mu.Unlock()
	if reg == nil {
		return
	}

	// Disabling emits the move cancel to this controller while it is still registered.
	d.Disable(input.AllActions...)
	c.motion.Cancel(c.mover)
	reg.Deregister()
	c.logger.Info("player disabled")
}

func (c *controllerImpl) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registration != nil
}

func (c *controllerImpl) Moving() bool {
	return c.motion.Active(c.mover)
}

func (c *controllerImpl) Yaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw
}

func (c *controllerImpl) Pitch() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitch
}

func (c *controllerImpl) Body() game_object.GameObject {
	return c.body
}

func (c *controllerImpl) Head() game_object.GameObject {
	return c.head
}

func (c *controllerImpl) ID() uuid.UUID {
	return c.id
}

func (c *controllerImpl) Release() {
	c.Disable()
	c.motion.Despawn(c.mover)
}
