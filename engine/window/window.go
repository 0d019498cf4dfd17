// Package window opens the GLFW window the engine presents to and turns its input events into
// engine callbacks and a queryable key state.
package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine/logger"
	"github.com/cogentcore/webgpu/wgpu"
)

var log = logger.New("window")

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Window provides the presentation surface, the event loop and input.
type Window interface {
	// SetUpdateCallback sets the function called once per event loop iteration, after events
	// were dispatched.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer size changes.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyCallback sets the function called on key press, repeat and release. The key state
	// returned by Keys is updated before the callback runs.
	//
	// Parameters:
	//   - callback: function receiving the key code from common and whether it is held
	SetKeyCallback(callback func(key uint32, pressed bool))

	// SetMouseButtonCallback sets the function called on mouse button press and release.
	//
	// Parameters:
	//   - callback: function receiving the button, whether it is held and the cursor position
	//     in window pixels with the origin at the bottom left
	SetMouseButtonCallback(callback func(button MouseButton, pressed bool, x, y float32))

	// SetScrollCallback sets the callback for mouse wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical scroll delta
	SetScrollCallback(callback func(delta float32))

	// Keys returns the live key state.
	Keys() *common.KeyState

	// SurfaceDescriptor returns the platform surface descriptor for the GPU context.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open.
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: an error if the window was never opened
	Close() error

	// ProcessMessages runs the event loop until the window closes.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

type engineWindow struct {
	title string

	minWidth, minHeight int
	maxWidth, maxHeight int
	width, height       int
	resizable           bool
	closeOnEscape       bool

	keys *common.KeyState

	// platform is the GLFW window state
	platform *glfwWindow

	onUpdate      func()
	onResize      func(width, height int)
	onKey         func(key uint32, pressed bool)
	onMouseButton func(button MouseButton, pressed bool, x, y float32)
	onScroll      func(delta float32)
}

var _ Window = &engineWindow{}

// NewWindow opens a window. It must be called from the main goroutine; the calling thread is
// locked to it.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:         "safehouse",
		minWidth:      200,
		minHeight:     200,
		maxWidth:      3840,
		maxHeight:     2160,
		width:         800,
		height:        800,
		resizable:     true,
		closeOnEscape: true,
		keys:          common.NewKeyState(),
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("window: %v", err))
	}
	log.Infof("opened %q at %dx%d", w.title, w.width, w.height)
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyCallback(callback func(key uint32, pressed bool)) {
	w.onKey = callback
}

func (w *engineWindow) SetMouseButtonCallback(callback func(button MouseButton, pressed bool, x, y float32)) {
	w.onMouseButton = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) Keys() *common.KeyState {
	return w.keys
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunning(w)
}

func (w *engineWindow) Close() error {
	return platformClose(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if !platformPollEvents(w) {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// key records a key transition and forwards it.
func (w *engineWindow) key(code uint32, pressed bool) {
	if pressed {
		w.keys.Press(code)
	} else {
		w.keys.Release(code)
	}
	if w.onKey != nil {
		w.onKey(code, pressed)
	}
}

// resize records a framebuffer size change and forwards it. Minimizing reports 0x0, which is
// dropped.
func (w *engineWindow) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w.width, w.height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
