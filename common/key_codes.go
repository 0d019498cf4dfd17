package common

import "sync"

// Virtual key codes delivered by the window layer. Printable keys use their ASCII value,
// non-printable keys use the GLFW key constants.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87
	KeyA     = 65
	KeyS     = 83
	KeyD     = 68
	KeyQ     = 81
	KeyE     = 69
	KeyR     = 82
	KeySpace = 32

	KeyEsc   = 256
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265

	KeyLeftShift = 340
)

// KeyState tracks which keys are currently held. The window's key callbacks feed it and
// controllers poll it.
type KeyState struct {
	mu   *sync.Mutex
	down map[uint32]bool
}

// NewKeyState creates an empty KeyState.
func NewKeyState() *KeyState {
	return &KeyState{mu: &sync.Mutex{}, down: map[uint32]bool{}}
}

func (k *KeyState) Press(key uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.down[key] = true
}

func (k *KeyState) Release(key uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.down, key)
}

// Pressed reports whether key is held.
func (k *KeyState) Pressed(key uint32) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.down[key]
}
