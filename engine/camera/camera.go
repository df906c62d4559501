package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	node game_object.GameObject
}

// Camera defines the interface for a first-person camera.
// The camera holds perspective settings and reads its eye position and orientation from an attached
// node (usually the player's head) every time a matrix is requested, so it never lags the scene graph.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetAspect updates the aspect ratio, typically from a window resize.
	// Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// Node returns the node the camera is attached to, or nil.
	//
	// Returns:
	//   - game_object.GameObject: the eye node
	Node() game_object.GameObject

	// SetNode attaches the camera to a node.
	//
	// Parameters:
	//   - node: the eye node
	SetNode(node game_object.GameObject)

	// Position returns the eye position in world space (origin when no node is attached).
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Forward returns the world-space view direction (-Z when no node is attached).
	//
	// Returns:
	//   - mgl32.Vec3: unit view direction
	Forward() mgl32.Vec3

	// Horizon maps the view direction's elevation to [0, 1]: 0 looking straight down,
	// 0.5 level, 1 straight up.
	//
	// Returns:
	//   - float32: normalized elevation
	Horizon() float32

	// View returns the world-to-view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: column-major view matrix
	View() mgl32.Mat4

	// Projection returns the perspective projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: column-major projection matrix
	Projection() mgl32.Mat4

	// Frustum returns the world-space view frustum.
	//
	// Returns:
	//   - common.Frustum: the six clip planes
	Frustum() common.Frustum

	// Sees reports whether a sphere is at least partly inside the view frustum.
	//
	// Parameters:
	//   - center: sphere center in world space
	//   - radius: sphere radius (0 tests a point)
	//
	// Returns:
	//   - bool: true if visible
	Sees(center mgl32.Vec3, radius float32) bool
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		fov:    70.0 * (math.Pi / 180.0), // radians
		aspect: 16.0 / 9.0,
		near:   0.05,
		far:    1000.0,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *cameraImpl) Node() game_object.GameObject {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.node
}

func (c *cameraImpl) SetNode(node game_object.GameObject) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.node = node
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	n := c.Node()
	if n == nil {
		return mgl32.Vec3{}
	}
	return n.WorldPosition()
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	n := c.Node()
	if n == nil {
		return mgl32.Vec3{0, 0, -1}
	}
	return n.Forward()
}

func (c *cameraImpl) Horizon() float32 {
	y := mgl32.Clamp(c.Forward().Y(), -1, 1)
	return (y + 1) / 2
}

func (c *cameraImpl) View() mgl32.Mat4 {
	n := c.Node()
	if n == nil {
		return mgl32.Ident4()
	}
	eye := n.WorldPosition()
	rot := n.WorldRotation()
	forward := rot.Rotate(mgl32.Vec3{0, 0, -1})
	up := rot.Rotate(mgl32.Vec3{0, 1, 0})
	return mgl32.LookAtV(eye, eye.Add(forward), up)
}

func (c *cameraImpl) Projection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
}

func (c *cameraImpl) Frustum() common.Frustum {
	return common.ExtractFrustum(c.Projection().Mul4(c.View()))
}

func (c *cameraImpl) Sees(center mgl32.Vec3, radius float32) bool {
	return c.Frustum().ContainsSphere(center, radius)
}
