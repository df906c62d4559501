// Package motion runs restartable translation loops for movable nodes.
//
// Every mover is an ECS entity carrying a Motion state component. Starting a loop bumps the entity's
// context generation and binds a new loop to it; canceling only bumps the generation. The System's
// Update is the single checkpoint: a loop whose generation no longer matches the context is stopped
// before it can apply any displacement, so two loops for one entity can never both move it.
package motion

import (
	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
	"go.uber.org/zap"
)

// State is the lifecycle state of an entity's translation loop.
type State uint8

const (
	// StateIdle means no loop is applying displacement.
	StateIdle State = iota
	// StateRunning means a loop is bound and will be stepped on the next Update.
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Motion is the per-entity loop state.
type Motion struct {
	// Context is the latest issued cancellation context. Every Start and Cancel advances it.
	Context uint64
	// Loop is the context generation the current loop was started with.
	Loop uint64
	// Vector is the input the current loop is bound to.
	Vector mgl32.Vec2
	// State is Running from Start until Update observes a generation mismatch.
	State State
	// Steps counts displacement applications of the current loop.
	Steps uint64

	elapsed float32
}

// Mover binds an entity to the node it moves and its tuning.
type Mover struct {
	Node game_object.GameObject
	// Speed is in units per second.
	Speed float32
	// Interval is the minimum time between steps in seconds. Zero steps on every Update.
	Interval float32
}

// System owns the ECS world holding all movers and steps their loops once per tick.
// It is not safe for concurrent use; the engine calls it from the tick goroutine only.
type System struct {
	world  ecs.World
	movers *ecs.Map2[Motion, Mover]
	filter *ecs.Filter2[Motion, Mover]

	logger *zap.Logger
}

// NewSystem creates an empty motion system.
//
// Parameters:
//   - options: functional options to configure the system
//
// Returns:
//   - *System: the newly created system
func NewSystem(options ...SystemOption) *System {
	s := &System{
		world:  ecs.NewWorld(),
		logger: zap.NewNop(),
	}
	s.movers = ecs.NewMap2[Motion, Mover](&s.world)
	s.filter = ecs.NewFilter2[Motion, Mover](&s.world)
	for _, option := range options {
		option(s)
	}
	return s
}

// Spawn registers a node as a mover and returns its entity. The entity starts Idle.
//
// Parameters:
//   - node: the node to translate
//   - speed: movement speed in units per second
//   - interval: minimum seconds between steps (0 = every tick)
//
// Returns:
//   - ecs.Entity: the mover entity
func (s *System) Spawn(node game_object.GameObject, speed, interval float32) ecs.Entity {
	return s.movers.NewEntity(
		&Motion{State: StateIdle},
		&Mover{Node: node, Speed: speed, Interval: interval},
	)
}

// Despawn removes a mover. Unknown or already removed entities are ignored.
//
// Parameters:
//   - e: the mover entity
func (s *System) Despawn(e ecs.Entity) {
	if !s.world.Alive(e) {
		return
	}
	s.world.RemoveEntity(e)
}

// Start cancels the entity's current loop (if any) and binds a new loop to v under a fresh context.
// The new loop's first step happens on the next Update.
//
// Parameters:
//   - e: the mover entity
//   - v: the 2D input vector; zero is valid and moves nothing until canceled
func (s *System) Start(e ecs.Entity, v mgl32.Vec2) {
	m := s.motion(e)
	if m == nil {
		return
	}
	superseded := m.State == StateRunning
	m.Context++
	m.Loop = m.Context
	m.Vector = v
	m.State = StateRunning
	m.Steps = 0
	m.elapsed = 0
	s.logger.Debug("motion started",
		zap.Any("entity", e),
		zap.Uint64("generation", m.Loop),
		zap.Float32("x", v.X()),
		zap.Float32("y", v.Y()),
		zap.Bool("superseded", superseded),
	)
}

// Cancel signals cancellation to the entity's current loop. Canceling an idle or already canceled
// entity is a no-op beyond advancing the context.
//
// Parameters:
//   - e: the mover entity
func (s *System) Cancel(e ecs.Entity) {
	m := s.motion(e)
	if m == nil {
		return
	}
	m.Context++
	s.logger.Debug("motion canceled", zap.Any("entity", e), zap.Uint64("context", m.Context))
}

// State returns the entity's loop state as of the last Update/Start.
// A canceled loop reads Running until the next Update observes the cancellation.
//
// Parameters:
//   - e: the mover entity
//
// Returns:
//   - State: the loop state (Idle for unknown entities)
func (s *System) State(e ecs.Entity) State {
	m := s.motion(e)
	if m == nil {
		return StateIdle
	}
	return m.State
}

// Active reports whether the entity has a running loop whose context has not been canceled.
//
// Parameters:
//   - e: the mover entity
//
// Returns:
//   - bool: true if the next Update will step the loop
func (s *System) Active(e ecs.Entity) bool {
	m := s.motion(e)
	return m != nil && m.State == StateRunning && m.Loop == m.Context
}

// Generation returns the context generation the entity's current loop was started with.
//
// Parameters:
//   - e: the mover entity
//
// Returns:
//   - uint64: the loop generation (0 before the first Start or for unknown entities)
func (s *System) Generation(e ecs.Entity) uint64 {
	m := s.motion(e)
	if m == nil {
		return 0
	}
	return m.Loop
}

// Snapshot returns a copy of the entity's Motion component.
//
// Parameters:
//   - e: the mover entity
//
// Returns:
//   - Motion: the component copy
//   - bool: false if the entity is not a live mover
func (s *System) Snapshot(e ecs.Entity) (Motion, bool) {
	m := s.motion(e)
	if m == nil {
		return Motion{}, false
	}
	return *m, true
}

// SetSpeed changes the entity's movement speed.
//
// Parameters:
//   - e: the mover entity
//   - speed: units per second
func (s *System) SetSpeed(e ecs.Entity, speed float32) {
	if !s.world.Alive(e) {
		return
	}
	if _, mv := s.movers.Get(e); mv != nil {
		mv.Speed = speed
	}
}

// Update is the central per-tick routine. For every running loop it first checks cancellation
// (generation mismatch stops the loop without side effects), then applies at most one step of
// displacement * speed * elapsed to the mover's node.
//
// Parameters:
//   - deltaTime: seconds since the previous tick
func (s *System) Update(deltaTime float32) {
	query := s.filter.Query()
	for query.Next() {
		m, mv := query.Get()
		if m.State != StateRunning {
			continue
		}
		if m.Loop != m.Context {
			m.State = StateIdle
			s.logger.Debug("motion stopped",
				zap.Any("entity", query.Entity()),
				zap.Uint64("generation", m.Loop),
				zap.Uint64("steps", m.Steps),
			)
			continue
		}
		if mv.Node == nil {
			continue
		}

		elapsed := deltaTime
		if mv.Interval > 0 {
			m.elapsed += deltaTime
			if m.elapsed < mv.Interval {
				continue
			}
			elapsed = m.elapsed
			m.elapsed = 0
		}

		delta := Displacement(mv.Node, m.Vector, mv.Speed, elapsed)
		if parent := mv.Node.Parent(); parent != nil {
			delta = toParentSpace(parent, delta)
		}
		mv.Node.Translate(delta)
		m.Steps++
	}
}

// Displacement computes one step of movement for node: the input mapped onto the local horizontal
// plane, rotated into world space by the node's current facing, scaled by speed and elapsed time.
//
// Parameters:
//   - node: the node whose facing orients the step
//   - v: the 2D input vector
//   - speed: units per second
//   - elapsed: seconds covered by this step
//
// Returns:
//   - mgl32.Vec3: the world-space offset
func Displacement(node game_object.GameObject, v mgl32.Vec2, speed, elapsed float32) mgl32.Vec3 {
	local := common.LocalPlanar(v)
	if local.Len() == 0 {
		return mgl32.Vec3{}
	}
	return node.WorldRotation().Rotate(local).Mul(speed * elapsed)
}

// toParentSpace maps a world-space offset into parent's local space, undoing the parent's
// rotation and scale so the world distance travelled stays speed * elapsed.
func toParentSpace(parent game_object.GameObject, delta mgl32.Vec3) mgl32.Vec3 {
	return parent.WorldMatrix().Inv().Mul4x1(delta.Vec4(0)).Vec3()
}

func (s *System) motion(e ecs.Entity) *Motion {
	if !s.world.Alive(e) {
		return nil
	}
	m, _ := s.movers.Get(e)
	return m
}
