package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine/logger"
	"github.com/cogentcore/webgpu/wgpu"
)

var log = logger.New("gpu")

type wgpuContext struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	forceFallbackAdapter bool
	presentMode          wgpu.PresentMode
	sampleCount          MSAASampleCount

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRenderPass struct {
	pass *wgpu.RenderPassEncoder
}

var (
	_ GPUContext = &wgpuContext{}
	_ RenderPass = &wgpuRenderPass{}
)

// NewGPUContext creates a WebGPU device, queue and surface for the given surface descriptor and
// configures the surface at the initial size. It panics if no adapter or device is available.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor, usually from the window
//   - width, height: the initial surface size in pixels
//   - options: functional options applied before the adapter is requested
//
// Returns:
//   - GPUContext: the ready-to-use context
func NewGPUContext(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...GPUContextBuilderOption) GPUContext {
	runtime.LockOSThread()

	c := &wgpuContext{
		mu:          &sync.Mutex{},
		presentMode: wgpu.PresentModeFifo,
		sampleCount: MSAAOff,
	}
	for _, opt := range options {
		opt(c)
	}

	c.instance = wgpu.CreateInstance(nil)
	c.surface = c.instance.CreateSurface(surfaceDescriptor)

	adapter, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: c.forceFallbackAdapter,
		CompatibleSurface:    c.surface,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to request adapter: %v", err))
	}
	c.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Safehouse Device",
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to request device: %v", err))
	}
	c.device = device
	c.queue = device.GetQueue()

	c.ConfigureSurface(width, height)
	return c
}

func (c *wgpuContext) CreateShaderModule(label, source string) (*wgpu.ShaderModule, error) {
	return c.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
}

func (c *wgpuContext) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	return c.device.CreateBindGroupLayout(desc)
}

func (c *wgpuContext) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	if desc.Layout == nil {
		return nil, fmt.Errorf("bind group %q has no layout", desc.Label)
	}
	return c.device.CreateBindGroup(desc)
}

func (c *wgpuContext) CreatePipelineLayout(desc *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	return c.device.CreatePipelineLayout(desc)
}

func (c *wgpuContext) CreateRenderPipeline(desc *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	return c.device.CreateRenderPipeline(desc)
}

func (c *wgpuContext) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	return c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
}

func (c *wgpuContext) CreateVertexBuffer(label string, data []byte) (*wgpu.Buffer, error) {
	if len(data) == 0 {
		return nil, errors.New("vertex buffer data is empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	buf, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	c.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (c *wgpuContext) CreateTexture(label string, staging common.TextureStagingData) (*wgpu.TextureView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := wgpu.Extent3D{
		Width:              staging.Width,
		Height:             staging.Height,
		DepthOrArrayLayers: 1,
	}
	tex, err := c.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	c.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&size,
	)

	return tex.CreateView(nil)
}

func (c *wgpuContext) CreateSampler(label string, staging common.SamplerStagingData) (*wgpu.Sampler, error) {
	return c.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  common.Coalesce(staging.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(staging.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(staging.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(staging.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staging.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   staging.LodMinClamp,
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
	})
}

func (c *wgpuContext) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queue.WriteBuffer(buf, offset, data)
}

func (c *wgpuContext) ReleaseBuffer(buf *wgpu.Buffer) {
	if buf != nil {
		buf.Release()
	}
}

func (c *wgpuContext) ReleaseBindGroup(bg *wgpu.BindGroup) {
	if bg != nil {
		bg.Release()
	}
}

func (c *wgpuContext) ConfigureSurface(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if width <= 0 || height <= 0 {
		// minimized; keep the previous configuration
		return
	}

	capabilities := c.surface.GetCapabilities(c.adapter)
	c.surfaceFormat = capabilities.Formats[0]

	c.surface.Configure(c.adapter, c.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      c.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: c.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(c.sampleCount)
	msaaEnabled := count > 1

	if c.msaaTextureView != nil {
		c.msaaTextureView.Release()
		c.msaaTextureView = nil
	}
	if msaaEnabled {
		c.msaaTextureView = c.attachmentView("MSAA Texture", width, height, count, c.surfaceFormat)
	}
	if c.depthTextureView != nil {
		c.depthTextureView.Release()
	}
	c.depthTextureView = c.attachmentView("Depth Texture", width, height, count, DepthFormat)

	// With MSAA the pass draws into the MSAA texture and resolves into the swapchain view
	// set per frame; without it the swapchain view is the color attachment itself.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	c.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    c.msaaTextureView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: storeOp,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            c.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	log.Debugf("surface configured %dx%d (format %v, samples %d)", width, height, c.surfaceFormat, count)
}

// attachmentView creates a render attachment texture and returns its view. Must be called with mu held.
func (c *wgpuContext) attachmentView(label string, width, height int, samples uint32, format wgpu.TextureFormat) *wgpu.TextureView {
	tex, err := c.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to create %s: %v", label, err))
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to create %s view: %v", label, err))
	}
	return view
}

func (c *wgpuContext) SurfaceFormat() wgpu.TextureFormat {
	return c.surfaceFormat
}

func (c *wgpuContext) SampleCount() uint32 {
	return uint32(c.sampleCount)
}

func (c *wgpuContext) BeginFrame(clear wgpu.Color) (RenderPass, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frameSurface != nil {
		return nil, errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := c.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, err
	}
	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return nil, err
	}

	attachment := &c.renderPassDescriptor.ColorAttachments[0]
	attachment.ClearValue = clear
	if c.sampleCount > 1 {
		attachment.ResolveTarget = view
	} else {
		attachment.View = view
	}

	c.frameEncoder = encoder
	c.framePass = encoder.BeginRenderPass(c.renderPassDescriptor)
	c.frameSurface = surfaceTexture
	c.frameView = view

	return &wgpuRenderPass{pass: c.framePass}, nil
}

func (c *wgpuContext) EndFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.framePass == nil {
		return
	}
	c.framePass.End()
	c.framePass = nil

	commandBuffer, err := c.frameEncoder.Finish(nil)
	c.frameEncoder.Release()
	c.frameEncoder = nil
	if err != nil {
		log.Errorf("failed to finish frame encoder: %v", err)
		c.releaseFrameSurface()
		return
	}

	c.queue.Submit(commandBuffer)
	commandBuffer.Release()
}

func (c *wgpuContext) Present() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frameSurface == nil {
		return
	}
	c.surface.Present()
	c.releaseFrameSurface()
}

// releaseFrameSurface drops the frame's swapchain references. Must be called with mu held.
func (c *wgpuContext) releaseFrameSurface() {
	if c.frameView != nil {
		c.frameView.Release()
		c.frameView = nil
	}
	if c.frameSurface != nil {
		c.frameSurface.Release()
		c.frameSurface = nil
	}
}

func (p *wgpuRenderPass) SetPipeline(rp *wgpu.RenderPipeline) {
	p.pass.SetPipeline(rp)
}

func (p *wgpuRenderPass) SetBindGroup(slot uint32, bg *wgpu.BindGroup) {
	p.pass.SetBindGroup(slot, bg, nil)
}

func (p *wgpuRenderPass) SetVertexBuffer(slot uint32, buf *wgpu.Buffer) {
	p.pass.SetVertexBuffer(slot, buf, 0, wgpu.WholeSize)
}

func (p *wgpuRenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}
