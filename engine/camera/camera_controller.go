package camera

import (
	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine/scene_object"
)

// Controller moves a camera once per engine tick.
type Controller interface {
	// Update advances the controller by one tick.
	//
	// Parameters:
	//   - cam: the camera to move
	//   - dt: the tick duration in seconds
	Update(cam Camera, dt float32)
}

// ControllerSet holds the controllers driving one camera, addressed by handle.
type ControllerSet struct {
	camera      Camera
	controllers *scene_object.Arena[Controller]
}

// NewControllerSet creates an empty ControllerSet for cam.
func NewControllerSet(cam Camera) *ControllerSet {
	return &ControllerSet{
		camera:      cam,
		controllers: scene_object.NewArena[Controller](),
	}
}

// Add registers a controller and returns its handle.
func (s *ControllerSet) Add(c Controller) scene_object.Handle {
	return s.controllers.Insert(c)
}

// Remove unregisters a controller.
//
// Returns:
//   - bool: false if the handle was stale
func (s *ControllerSet) Remove(h scene_object.Handle) bool {
	_, ok := s.controllers.Remove(h)
	return ok
}

func (s *ControllerSet) Len() int {
	return s.controllers.Len()
}

func (s *ControllerSet) Camera() Camera {
	return s.camera
}

// SetCamera retargets every controller to cam.
func (s *ControllerSet) SetCamera(cam Camera) {
	s.camera = cam
}

// Update runs every controller against the camera in registration order.
//
// Parameters:
//   - dt: the tick duration in seconds
func (s *ControllerSet) Update(dt float32) {
	if s.camera == nil {
		return
	}
	s.controllers.Each(func(_ scene_object.Handle, c Controller) bool {
		c.Update(s.camera, dt)
		return true
	})
}

// KeyInput reports which keys are held.
type KeyInput interface {
	Pressed(key uint32) bool
}

// WalkController moves the camera on the XZ plane: W and S along the view direction, A and D
// sideways, Space and LeftShift vertically.
type WalkController struct {
	Keys  KeyInput
	Speed float32
}

var _ Controller = &WalkController{}

// NewWalkController creates a WalkController moving speed world units per second.
func NewWalkController(keys KeyInput, speed float32) *WalkController {
	return &WalkController{Keys: keys, Speed: speed}
}

func (w *WalkController) Update(cam Camera, dt float32) {
	fx, fz := cam.Forward()
	// right = forward x up, with up = +Y
	rx, rz := -fz, fx

	var dx, dy, dz float32
	if w.Keys.Pressed(common.KeyW) {
		dx += fx
		dz += fz
	}
	if w.Keys.Pressed(common.KeyS) {
		dx -= fx
		dz -= fz
	}
	if w.Keys.Pressed(common.KeyD) {
		dx += rx
		dz += rz
	}
	if w.Keys.Pressed(common.KeyA) {
		dx -= rx
		dz -= rz
	}
	if w.Keys.Pressed(common.KeySpace) {
		dy++
	}
	if w.Keys.Pressed(common.KeyLeftShift) {
		dy--
	}
	if dx == 0 && dy == 0 && dz == 0 {
		return
	}
	step := w.Speed * dt
	cam.Move(dx*step, dy*step, dz*step)
}
