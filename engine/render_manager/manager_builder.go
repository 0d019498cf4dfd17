package render_manager

import (
	"time"

	"github.com/Carmen-Shannon/safehouse/engine/camera"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RenderManagerBuilderOption is a functional option for configuring a RenderManager.
type RenderManagerBuilderOption func(*renderManager)

// WithClearColor sets the color every frame is cleared to.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RenderManagerBuilderOption: option function to apply
func WithClearColor(c wgpu.Color) RenderManagerBuilderOption {
	return func(m *renderManager) {
		m.clearColor = c
	}
}

// WithCamera sets the initial camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - RenderManagerBuilderOption: option function to apply
func WithCamera(cam camera.Camera) RenderManagerBuilderOption {
	return func(m *renderManager) {
		m.camera = cam
	}
}

// WithDefaultPipeline replaces the pipeline state used for kinds that return no descriptor.
//
// Parameters:
//   - d: the default descriptor
//
// Returns:
//   - RenderManagerBuilderOption: option function to apply
func WithDefaultPipeline(d *pipeline.Descriptor) RenderManagerBuilderOption {
	return func(m *renderManager) {
		m.defaultPipelineDescriptor = d
	}
}

// WithClock sets the time source of the time uniform.
//
// Parameters:
//   - clock: returns the current time
//
// Returns:
//   - RenderManagerBuilderOption: option function to apply
func WithClock(clock func() time.Time) RenderManagerBuilderOption {
	return func(m *renderManager) {
		m.clock = clock
	}
}
