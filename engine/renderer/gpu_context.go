package renderer

import (
	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing.
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing. This is the default.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing.
	MSAA4x MSAASampleCount = 4
)

// DepthFormat is the format of the depth attachment every frame's render pass carries.
// Pipelines must declare a depth-stencil state with this format.
const DepthFormat = wgpu.TextureFormatDepth24Plus

// GPUContext owns the device, queue and surface and exposes the creation primitives the render
// manager builds on. All calls are synchronous and must be made from the thread that owns the
// context.
type GPUContext interface {
	// CreateShaderModule compiles WGSL source into a shader module.
	//
	// Parameters:
	//   - label: debug label for the module
	//   - source: the WGSL source code
	//
	// Returns:
	//   - *wgpu.ShaderModule: the compiled module
	//   - error: an error if compilation fails
	CreateShaderModule(label, source string) (*wgpu.ShaderModule, error)

	// CreateBindGroupLayout creates a bind group layout from a descriptor.
	//
	// Parameters:
	//   - desc: the layout descriptor
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the created layout
	//   - error: an error if the descriptor is invalid
	CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)

	// CreateBindGroup creates a bind group against a layout.
	//
	// Parameters:
	//   - desc: the bind group descriptor; its entries must match the layout's entries
	//
	// Returns:
	//   - *wgpu.BindGroup: the created bind group
	//   - error: an error if the entries do not match the layout
	CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)

	// CreatePipelineLayout creates a pipeline layout from an ordered list of bind group layouts.
	//
	// Parameters:
	//   - desc: the pipeline layout descriptor
	//
	// Returns:
	//   - *wgpu.PipelineLayout: the created layout
	//   - error: an error if creation fails
	CreatePipelineLayout(desc *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error)

	// CreateRenderPipeline compiles a render pipeline.
	//
	// Parameters:
	//   - desc: the full render pipeline descriptor
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the compiled pipeline
	//   - error: an error if creation fails
	CreateRenderPipeline(desc *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)

	// CreateBuffer allocates an uninitialized GPU buffer.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - size: buffer size in bytes
	//   - usage: the buffer usage flags
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: an error if allocation fails
	CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error)

	// CreateVertexBuffer allocates a vertex buffer and uploads data into it.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - data: the raw vertex bytes
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: an error if allocation fails or data is empty
	CreateVertexBuffer(label string, data []byte) (*wgpu.Buffer, error)

	// CreateTexture creates an RGBA8 texture from staging data and returns a view of it.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - staging: the pixel data and dimensions
	//
	// Returns:
	//   - *wgpu.TextureView: a view over the whole texture
	//   - error: an error if creation fails
	CreateTexture(label string, staging common.TextureStagingData) (*wgpu.TextureView, error)

	// CreateSampler creates a sampler. Zero fields in staging fall back to linear/repeat.
	//
	// Parameters:
	//   - label: debug label for the sampler
	//   - staging: the sampler configuration
	//
	// Returns:
	//   - *wgpu.Sampler: the created sampler
	//   - error: an error if creation fails
	CreateSampler(label string, staging common.SamplerStagingData) (*wgpu.Sampler, error)

	// WriteBuffer queues a write of data into buf at offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: byte offset into buf
	//   - data: the bytes to write
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte)

	// ReleaseBuffer releases a buffer created by this context. A nil buffer is ignored.
	ReleaseBuffer(buf *wgpu.Buffer)

	// ReleaseBindGroup releases a bind group created by this context. A nil bind group is ignored.
	ReleaseBindGroup(bg *wgpu.BindGroup)

	// ConfigureSurface (re)configures the surface and its attachments for a new size.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	ConfigureSurface(width, height int)

	// SurfaceFormat returns the color format render pipelines must target.
	SurfaceFormat() wgpu.TextureFormat

	// SampleCount returns the multisample count render pipelines must use.
	SampleCount() uint32

	// BeginFrame acquires the next surface texture and begins a render pass that clears it.
	// Must be paired with EndFrame and Present.
	//
	// Parameters:
	//   - clear: the clear color for the color attachment
	//
	// Returns:
	//   - RenderPass: the pass to record draw commands into
	//   - error: an error if the surface texture could not be acquired
	BeginFrame(clear wgpu.Color) (RenderPass, error)

	// EndFrame ends the current render pass and submits the recorded commands.
	EndFrame()

	// Present presents the current surface texture.
	Present()
}

// RenderPass records draw commands for the frame begun by GPUContext.BeginFrame.
type RenderPass interface {
	SetPipeline(p *wgpu.RenderPipeline)
	SetBindGroup(slot uint32, bg *wgpu.BindGroup)
	SetVertexBuffer(slot uint32, buf *wgpu.Buffer)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}
