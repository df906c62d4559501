package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// nextID hands out identifiers to objects created without WithID.
var nextID atomic.Uint64

type gameObject struct {
	mu *sync.RWMutex

	id      uint64
	name    string
	enabled atomic.Bool

	parent   *gameObject
	children []*gameObject

	// local transform relative to parent (or world when parent is nil)
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3
}

// GameObject defines the interface for a scene-graph node.
// A node holds a local transform (position, rotation, scale) relative to its parent and derives its
// world transform by walking up the parent chain. Transform reads are safe from any goroutine so the
// render loop can sample nodes that the tick loop is moving.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's display name.
	//
	// Returns:
	//   - string: the name, possibly empty
	Name() string

	// Enabled returns whether this object is enabled.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Parent returns the parent node, or nil for a root node.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// Children returns a copy of the node's direct children.
	//
	// Returns:
	//   - []GameObject: the children in insertion order
	Children() []GameObject

	// AddChild attaches child under this node, detaching it from any previous parent.
	// The child's local transform is kept as-is, so its world transform changes to follow the new parent.
	// Adding a node to itself or to one of its descendants is ignored.
	//
	// Parameters:
	//   - child: the node to attach
	AddChild(child GameObject)

	// Position returns the local position.
	//
	// Returns:
	//   - mgl32.Vec3: position relative to the parent
	Position() mgl32.Vec3

	// SetPosition sets the local position.
	//
	// Parameters:
	//   - p: new position relative to the parent
	SetPosition(p mgl32.Vec3)

	// Translate adds delta to the local position in a single locked step.
	//
	// Parameters:
	//   - delta: offset in parent space
	Translate(delta mgl32.Vec3)

	// Rotation returns the local rotation.
	//
	// Returns:
	//   - mgl32.Quat: rotation relative to the parent
	Rotation() mgl32.Quat

	// SetRotation sets the local rotation.
	//
	// Parameters:
	//   - q: new rotation relative to the parent
	SetRotation(q mgl32.Quat)

	// Scale returns the local scale.
	//
	// Returns:
	//   - mgl32.Vec3: scale factors
	Scale() mgl32.Vec3

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - s: new scale factors
	SetScale(s mgl32.Vec3)

	// WorldPosition returns the node's origin in world space.
	//
	// Returns:
	//   - mgl32.Vec3: world-space position
	WorldPosition() mgl32.Vec3

	// WorldRotation returns the node's accumulated rotation in world space.
	//
	// Returns:
	//   - mgl32.Quat: world-space rotation
	WorldRotation() mgl32.Quat

	// WorldMatrix returns the node's full local-to-world transform (T * R * S chained through parents).
	//
	// Returns:
	//   - mgl32.Mat4: column-major local-to-world matrix
	WorldMatrix() mgl32.Mat4

	// Forward returns the node's world-space forward direction (local -Z).
	//
	// Returns:
	//   - mgl32.Vec3: unit forward vector
	Forward() mgl32.Vec3

	// Right returns the node's world-space right direction (local +X).
	//
	// Returns:
	//   - mgl32.Vec3: unit right vector
	Right() mgl32.Vec3
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects start enabled, at the origin, unrotated, with unit scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:       &sync.RWMutex{},
		id:       nextID.Add(1),
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Parent() GameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.parent == nil {
		return nil
	}
	return g.parent
}

func (g *gameObject) Children() []GameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]GameObject, len(g.children))
	for i, c := range g.children {
		out[i] = c
	}
	return out
}

func (g *gameObject) AddChild(child GameObject) {
	c, ok := child.(*gameObject)
	if !ok || c == nil || c.isAncestorOrSelf(g) {
		return
	}

	if old := c.parentNode(); old != nil {
		old.removeChild(c)
	}

	g.mu.Lock()
	g.children = append(g.children, c)
	g.mu.Unlock()

	c.mu.Lock()
	c.parent = g
	c.mu.Unlock()
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p
}

func (g *gameObject) Translate(delta mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = g.position.Add(delta)
}

func (g *gameObject) Rotation() mgl32.Quat {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotation
}

func (g *gameObject) SetRotation(q mgl32.Quat) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = q
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = s
}

func (g *gameObject) WorldPosition() mgl32.Vec3 {
	m := g.WorldMatrix()
	return mgl32.Vec3{m[12], m[13], m[14]}
}

func (g *gameObject) WorldRotation() mgl32.Quat {
	parent, _, rot, _ := g.snapshot()
	if parent == nil {
		return rot
	}
	return parent.WorldRotation().Mul(rot)
}

func (g *gameObject) WorldMatrix() mgl32.Mat4 {
	parent, pos, rot, scale := g.snapshot()
	local := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
	if parent == nil {
		return local
	}
	return parent.WorldMatrix().Mul4(local)
}

func (g *gameObject) Forward() mgl32.Vec3 {
	return g.WorldRotation().Rotate(mgl32.Vec3{0, 0, -1}).Normalize()
}

func (g *gameObject) Right() mgl32.Vec3 {
	return g.WorldRotation().Rotate(mgl32.Vec3{1, 0, 0}).Normalize()
}

// --- internal helpers ---

// snapshot copies the local transform and parent pointer under the read lock.
// Parent transforms are resolved after the lock is released so locks are never held up the chain.
func (g *gameObject) snapshot() (parent *gameObject, pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.parent, g.position, g.rotation, g.scale
}

func (g *gameObject) parentNode() *gameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.parent
}

func (g *gameObject) removeChild(c *gameObject) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, existing := range g.children {
		if existing == c {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return
		}
	}
}

// isAncestorOrSelf reports whether g is n or one of n's ancestors.
func (g *gameObject) isAncestorOrSelf(n *gameObject) bool {
	for cur := n; cur != nil; cur = cur.parentNode() {
		if cur == g {
			return true
		}
	}
	return false
}
