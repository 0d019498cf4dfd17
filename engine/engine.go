// Package engine runs the main loop: it polls window events, ticks game logic and camera
// controllers at a fixed rate, applies queued shader reloads and renders at a throttled rate,
// all on the locked main thread.
package engine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/safehouse/engine/camera"
	"github.com/Carmen-Shannon/safehouse/engine/hotreload"
	"github.com/Carmen-Shannon/safehouse/engine/logger"
	"github.com/Carmen-Shannon/safehouse/engine/profiler"
	"github.com/Carmen-Shannon/safehouse/engine/render_manager"
	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/Carmen-Shannon/safehouse/engine/window"
)

var log = logger.New("engine")

const (
	defaultTickRate   = time.Second / 60
	defaultFrameLimit = 16 * time.Millisecond
)

type engine struct {
	window      window.Window
	rm          render_manager.RenderManager
	controllers *camera.ControllerSet
	watcher     hotreload.Watcher

	windowOptions []window.WindowBuilderOption
	gpuOptions    []renderer.GPUContextBuilderOption
	rmOptions     []render_manager.RenderManagerBuilderOption

	profiler         *profiler.Profiler
	profilingEnabled bool
	profileMode      profiler.Mode
	profileDir       string

	clock          func() time.Time
	tickRate       time.Duration
	frameLimit     time.Duration
	lastTick       time.Time
	lastRender     time.Time
	tickCallback   func(dt float32)
	renderCallback func(dt float32)

	quitOnce sync.Once
}

// Engine owns the window, the render manager and the main loop.
type Engine interface {
	// Window returns the window the engine presents to.
	Window() window.Window

	// RenderManager returns the render manager entities are loaded into.
	RenderManager() render_manager.RenderManager

	// Controllers returns the camera controllers updated every tick. They drive the render
	// manager's current camera and are skipped while it has none.
	Controllers() *camera.ControllerSet

	// EnableProfiler turns on the per-second FPS and memory report.
	EnableProfiler()

	// DisableProfiler turns off the per-second report.
	DisableProfiler()

	// SetTickRate sets the game logic rate.
	//
	// Parameters:
	//   - fps: ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called every tick, after the camera controllers.
	//
	// Parameters:
	//   - callback: function receiving the time since the previous tick in seconds
	SetTickCallback(callback func(dt float32))

	// SetRenderCallback registers the function called before every frame is rendered. Use it to
	// update uniforms.
	//
	// Parameters:
	//   - callback: function receiving the time since the previous frame in seconds
	SetRenderCallback(callback func(dt float32))

	// SetRenderFrameLimit caps the frame rate.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 renders every loop iteration)
	SetRenderFrameLimit(fps float64)

	// WatchShader re-runs reload on the main thread after the file at path changes.
	//
	// Parameters:
	//   - path: the shader file
	//   - reload: typically a render_manager.Reload call for the kind using the file
	//
	// Returns:
	//   - error: an error if the file cannot be watched
	WatchShader(path string, reload func()) error

	// Run runs the main loop until the window closes or Quit is called.
	Run()

	// Quit closes the window, ending Run after the current iteration. Safe to call repeatedly.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine. Without WithWindow it opens a window; without WithRenderManager
// it creates a GPU context on the window's surface and a render manager on that context.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Engine: the engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		controllers: camera.NewControllerSet(nil),
		clock:       time.Now,
		tickRate:    defaultTickRate,
		frameLimit:  defaultFrameLimit,
	}
	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		e.window = window.NewWindow(e.windowOptions...)
	}
	if e.rm == nil {
		w, h := e.window.Width(), e.window.Height()
		ctx := renderer.NewGPUContext(e.window.SurfaceDescriptor(), w, h, e.gpuOptions...)
		e.rm = render_manager.NewRenderManager(ctx, w, h, e.rmOptions...)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithClock(e.clock))
	}
	e.controllers.SetCamera(e.rm.Camera())

	e.window.SetResizeCallback(e.rm.SetResize)
	e.window.SetUpdateCallback(e.update)

	now := e.clock()
	e.lastTick, e.lastRender = now, now
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) RenderManager() render_manager.RenderManager {
	return e.rm
}

func (e *engine) Controllers() *camera.ControllerSet {
	return e.controllers
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	e.tickRate = tickInterval(fps)
}

func (e *engine) SetTickCallback(callback func(dt float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(dt float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.frameLimit = frameInterval(fps)
}

func (e *engine) WatchShader(path string, reload func()) error {
	if e.watcher == nil {
		w, err := hotreload.NewWatcher()
		if err != nil {
			return err
		}
		e.watcher = w
	}
	return e.watcher.Watch(path, reload)
}

func (e *engine) Run() {
	stop := profiler.Start(e.profileMode, e.profileDir)
	defer stop()

	log.Info("engine running")
	e.window.ProcessMessages()

	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			log.Warningf("failed to close shader watcher: %v", err)
		}
	}
	e.Quit()
	log.Info("engine stopped")
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window.IsRunning() {
			if err := e.window.Close(); err != nil {
				log.Warningf("failed to close window: %v", err)
			}
		}
	})
}

// update is one main loop iteration.
func (e *engine) update() {
	now := e.clock()

	if dt := now.Sub(e.lastTick); dt >= e.tickRate {
		e.lastTick = now
		e.tick(float32(dt.Seconds()))
	}

	if e.watcher != nil {
		e.watcher.Drain()
	}

	if dt := now.Sub(e.lastRender); dt >= e.frameLimit {
		e.lastRender = now
		e.render(float32(dt.Seconds()))
	}
}

func (e *engine) tick(dt float32) {
	if cam := e.rm.Camera(); cam != e.controllers.Camera() {
		e.controllers.SetCamera(cam)
	}
	e.controllers.Update(dt)
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
}

// render draws one frame. A panic while rendering is logged and stops the engine.
func (e *engine) render(dt float32) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("render recovered from panic: %v", r)
			e.Quit()
		}
	}()

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	if err := e.rm.Render(); err != nil {
		log.Warningf("frame skipped: %v", err)
		return
	}
	if e.profilingEnabled {
		e.profiler.Tick()
	}
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		return defaultTickRate
	}
	return time.Duration(float64(time.Second) / fps)
}

func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
