package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// GPUContextBuilderOption is a functional option applied to a GPU context during construction via NewGPUContext.
type GPUContextBuilderOption func(*wgpuContext)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the present mode option to a context
func WithPresentMode(mode PresentMode) GPUContextBuilderOption {
	return func(c *wgpuContext) {
		switch mode {
		case PresentModeUncapped:
			c.presentMode = wgpu.PresentModeImmediate
		default:
			c.presentMode = wgpu.PresentModeFifo
		}
	}
}

// WithMSAA sets the multisample anti-aliasing sample count. Defaults to MSAAOff.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the MSAA option to a context
func WithMSAA(count MSAASampleCount) GPUContextBuilderOption {
	return func(c *wgpuContext) {
		c.sampleCount = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware acceleration. Requires a software Vulkan ICD (e.g. lavapipe) to be installed.
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the option to a context
func WithForceSoftwareRenderer(force bool) GPUContextBuilderOption {
	return func(c *wgpuContext) {
		c.forceFallbackAdapter = force
	}
}
