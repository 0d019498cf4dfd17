// Package pipeline describes and compiles render pipelines for entity kinds.
package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Descriptor holds the fixed-function state of a render pipeline. The shader program, the pipeline
// layout and the vertex layout are supplied when the descriptor is compiled.
type Descriptor struct {
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	cullMode     wgpu.CullMode
	depthStencil *wgpu.DepthStencilState
	blendState   *wgpu.BlendState
	writeMask    wgpu.ColorWriteMask
	vertexLayout *wgpu.VertexBufferLayout
}

// AlphaBlend is the default blend state: straight alpha over, additive alpha.
var AlphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOne,
		Operation: wgpu.BlendOperationAdd,
	},
}

// New creates a Descriptor with the default state applied before options.
//
// Defaults: triangle list, clockwise front faces, no culling, alpha blending, no depth test.
//
// Parameters:
//   - options: functional options that override the defaults
//
// Returns:
//   - *Descriptor: the descriptor
func New(options ...DescriptorBuilderOption) *Descriptor {
	blend := AlphaBlend
	d := &Descriptor{
		topology:   wgpu.PrimitiveTopologyTriangleList,
		frontFace:  wgpu.FrontFaceCW,
		cullMode:   wgpu.CullModeNone,
		blendState: &blend,
		writeMask:  wgpu.ColorWriteMaskAll,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *Descriptor) Topology() wgpu.PrimitiveTopology {
	return d.topology
}

func (d *Descriptor) FrontFace() wgpu.FrontFace {
	return d.frontFace
}

func (d *Descriptor) CullMode() wgpu.CullMode {
	return d.cullMode
}

func (d *Descriptor) BlendState() *wgpu.BlendState {
	return d.blendState
}

func (d *Descriptor) WriteMask() wgpu.ColorWriteMask {
	return d.writeMask
}

// VertexLayout returns the vertex layout override, or nil to use the model's layout.
func (d *Descriptor) VertexLayout() *wgpu.VertexBufferLayout {
	return d.vertexLayout
}

// DepthStencil returns the depth state the pipeline is compiled with. Every render pass carries a
// depth attachment, so a descriptor without depth state gets a pass-through state that never
// rejects or writes fragments.
func (d *Descriptor) DepthStencil() *wgpu.DepthStencilState {
	if d.depthStencil != nil {
		ds := *d.depthStencil
		if ds.Format == wgpu.TextureFormatUndefined {
			ds.Format = renderer.DepthFormat
		}
		return &ds
	}
	return &wgpu.DepthStencilState{
		Format:            renderer.DepthFormat,
		DepthWriteEnabled: false,
		DepthCompare:      wgpu.CompareFunctionAlways,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
}

// Compile creates the render pipeline for this descriptor.
//
// Parameters:
//   - ctx: the GPU context
//   - label: the debug label, conventionally "<entity>_pipeline"
//   - layout: the pipeline layout the shader's groups are bound against
//   - module: the compiled shader module
//   - program: the program the module was compiled from, for its entry points
//   - vertexLayout: the model's vertex layout, used unless the descriptor overrides it
//
// Returns:
//   - *wgpu.RenderPipeline: the compiled pipeline
//   - error: an error if compilation failed
func (d *Descriptor) Compile(
	ctx renderer.GPUContext,
	label string,
	layout *wgpu.PipelineLayout,
	module *wgpu.ShaderModule,
	program shader.Program,
	vertexLayout wgpu.VertexBufferLayout,
) (*wgpu.RenderPipeline, error) {
	if d.vertexLayout != nil {
		vertexLayout = *d.vertexLayout
	}
	if program.VertexEntryPoint() == "" || program.FragmentEntryPoint() == "" {
		return nil, fmt.Errorf("shader %q is missing a vertex or fragment entry point", program.Key())
	}

	rp, err := ctx.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: program.VertexEntryPoint(),
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  d.topology,
			FrontFace: d.frontFace,
			CullMode:  d.cullMode,
		},
		DepthStencil: d.DepthStencil(),
		Multisample: wgpu.MultisampleState{
			Count:                  ctx.SampleCount(),
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: program.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{{
				Format:    ctx.SurfaceFormat(),
				Blend:     d.blendState,
				WriteMask: d.writeMask,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile pipeline %q: %w", label, err)
	}
	return rp, nil
}
