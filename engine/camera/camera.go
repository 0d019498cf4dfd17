package camera

import (
	"sync"

	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/chewxy/math32"
)

// Projection selects how a Camera projects view space onto clip space.
type Projection int

const (
	// ProjectionPerspective is a right-handed perspective projection.
	ProjectionPerspective Projection = iota
	// ProjectionOrthographic is an orthographic projection of a box centered on the view axis.
	ProjectionOrthographic
)

type cameraImpl struct {
	mu *sync.Mutex

	projection Projection

	position [3]float32
	target   [3]float32
	up       [3]float32

	fov        float32
	aspect     float32
	near       float32
	far        float32
	orthoScale float32

	viewMatrix           common.Mat4
	projectionMatrix     common.Mat4
	viewProjectionMatrix common.Mat4
}

// Camera holds an eye, a look-at target and projection settings, and computes the view,
// projection and combined matrices whenever any of them change.
type Camera interface {
	// Projection returns the projection mode.
	//
	// Returns:
	//   - Projection: perspective or orthographic
	Projection() Projection

	// Position returns the eye position.
	//
	// Returns:
	//   - x, y, z: world-space eye position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// SetPosition moves the eye without moving the target.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// SetTarget sets the look-at point.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Move translates both the eye and the target.
	//
	// Parameters:
	//   - dx, dy, dz: world-space offset
	Move(dx, dy, dz float32)

	// Forward returns the unit vector from the eye toward the target, flattened onto the XZ plane.
	// It is zero when the eye looks straight up or down.
	//
	// Returns:
	//   - x, z: the flattened forward direction
	Forward() (x, z float32)

	Aspect() float32

	// SetAspect sets the aspect ratio (width / height), typically on resize.
	//
	// Parameters:
	//   - aspect: the new aspect ratio; non-positive values are ignored
	SetAspect(aspect float32)

	// ViewMatrix returns the current view matrix (column-major).
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the current projection matrix (column-major).
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns projection * view (column-major).
	//
	// Returns:
	//   - common.Mat4: the combined matrix
	ViewProjectionMatrix() common.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera. The defaults are a 45 degree perspective projection with the
// eye at (0, 0, 3) looking at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		projection: ProjectionPerspective,
		position:   [3]float32{0, 0, 3},
		up:         [3]float32{0, 1, 0},
		fov:        45.0 * (math32.Pi / 180.0),
		aspect:     1.0,
		near:       0.1,
		far:        100.0,
		orthoScale: 1.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position[0], c.position[1], c.position[2]
}

func (c *cameraImpl) Target() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target[0], c.target[1], c.target[2]
}

func (c *cameraImpl) SetPosition(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) Move(dx, dy, dz float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position[0] += dx
	c.position[1] += dy
	c.position[2] += dz
	c.target[0] += dx
	c.target[1] += dy
	c.target[2] += dz
	c.updateMatrices()
}

func (c *cameraImpl) Forward() (x, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fx := c.target[0] - c.position[0]
	fz := c.target[2] - c.position[2]
	l := math32.Sqrt(fx*fx + fz*fz)
	if l < 1e-8 {
		return 0, 0
	}
	return fx / l, fz / l
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.LookAt(c.viewMatrix[:],
		c.position[0], c.position[1], c.position[2],
		c.target[0], c.target[1], c.target[2],
		c.up[0], c.up[1], c.up[2],
	)

	switch c.projection {
	case ProjectionOrthographic:
		hw := c.orthoScale * c.aspect
		hh := c.orthoScale
		common.Orthographic(c.projectionMatrix[:], -hw, hw, -hh, hh, c.near, c.far)
	default:
		common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	}

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
