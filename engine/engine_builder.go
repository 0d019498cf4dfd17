package engine

import (
	"time"

	"github.com/Carmen-Shannon/safehouse/engine/camera"
	"github.com/Carmen-Shannon/safehouse/engine/hotreload"
	"github.com/Carmen-Shannon/safehouse/engine/profiler"
	"github.com/Carmen-Shannon/safehouse/engine/render_manager"
	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/Carmen-Shannon/safehouse/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables the per-second FPS and memory report.
//
// Parameters:
//   - enabled: if true, enables the report
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfileMode records a pkg/profile session for the duration of Run.
//
// Parameters:
//   - mode: what to record
//   - dir: the output directory
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfileMode(mode profiler.Mode, dir string) EngineBuilderOption {
	return func(e *engine) {
		e.profileMode = mode
		e.profileDir = dir
	}
}

// WithTickRate sets the game logic rate in ticks per second. Values <= 0 select 60.
//
// Parameters:
//   - fps: target ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.tickRate = tickInterval(fps)
	}
}

// WithRenderFrameLimit caps the frame rate. The default is about 60 frames per second; 0
// renders every loop iteration.
//
// Parameters:
//   - fps: maximum render frames per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.frameLimit = frameInterval(fps)
	}
}

// WithWindow uses w instead of opening a window.
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithWindowOptions configures the window the engine opens. Ignored with WithWindow.
func WithWindowOptions(options ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, options...)
	}
}

// WithGPUOptions configures the GPU context the engine creates. Ignored with WithRenderManager.
func WithGPUOptions(options ...renderer.GPUContextBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.gpuOptions = append(e.gpuOptions, options...)
	}
}

// WithRenderManager uses rm instead of creating a GPU context and render manager.
func WithRenderManager(rm render_manager.RenderManager) EngineBuilderOption {
	return func(e *engine) {
		e.rm = rm
	}
}

// WithRenderManagerOptions configures the render manager the engine creates. Ignored with
// WithRenderManager.
func WithRenderManagerOptions(options ...render_manager.RenderManagerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rmOptions = append(e.rmOptions, options...)
	}
}

// WithController adds a camera controller.
func WithController(c camera.Controller) EngineBuilderOption {
	return func(e *engine) {
		e.controllers.Add(c)
	}
}

// WithWatcher uses w for WatchShader instead of creating a file watcher on first use.
func WithWatcher(w hotreload.Watcher) EngineBuilderOption {
	return func(e *engine) {
		e.watcher = w
	}
}

// WithClock replaces time.Now as the loop's time source.
func WithClock(clock func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		e.clock = clock
	}
}
