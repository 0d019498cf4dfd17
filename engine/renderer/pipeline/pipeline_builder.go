package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// DescriptorBuilderOption is a functional option used to configure a Descriptor during construction.
type DescriptorBuilderOption func(*Descriptor)

// WithTopology sets the primitive topology.
//
// Parameters:
//   - t: the primitive topology
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the topology
func WithTopology(t wgpu.PrimitiveTopology) DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.topology = t
	}
}

// WithFrontFace sets the front face winding order.
//
// Parameters:
//   - f: the winding order considered front facing
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the front face
func WithFrontFace(f wgpu.FrontFace) DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.frontFace = f
	}
}

// WithCullMode sets the face culling mode.
//
// Parameters:
//   - c: the cull mode
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the cull mode
func WithCullMode(c wgpu.CullMode) DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.cullMode = c
	}
}

// WithDepthTest enables depth testing with a less-than comparison against the pass depth attachment.
//
// Parameters:
//   - write: whether fragments that pass also write depth
//
// Returns:
//   - DescriptorBuilderOption: a function that enables the depth test
func WithDepthTest(write bool) DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.depthStencil = &wgpu.DepthStencilState{
			DepthWriteEnabled: write,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}
}

// WithDepthStencil sets an explicit depth stencil state. A zero Format is replaced by the pass depth format.
//
// Parameters:
//   - ds: the depth stencil state
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the depth stencil state
func WithDepthStencil(ds wgpu.DepthStencilState) DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.depthStencil = &ds
	}
}

// WithBlendState sets the color blend state. Passing nil disables blending.
//
// Parameters:
//   - b: the blend state, or nil
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the blend state
func WithBlendState(b *wgpu.BlendState) DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.blendState = b
	}
}

// WithWriteMask sets the color write mask.
//
// Parameters:
//   - m: the color write mask
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the write mask
func WithWriteMask(m wgpu.ColorWriteMask) DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.writeMask = m
	}
}

// WithVertexLayout overrides the vertex layout that would otherwise come from the model.
//
// Parameters:
//   - l: the vertex buffer layout
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the vertex layout
func WithVertexLayout(l wgpu.VertexBufferLayout) DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.vertexLayout = &l
	}
}
