package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Vertex is implemented by every CPU vertex type uploaded with SliceToBytes. The declared layout
// must match the Go struct's field order, offsets and size exactly.
type Vertex interface {
	// VertexLayout returns the vertex buffer layout describing this type. It must not depend on
	// the receiver's value.
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the stride and (format, offset, location) attributes of the type
	VertexLayout() wgpu.VertexBufferLayout
}

// ColorVertex is a position + RGBA color vertex.
//
// WGSL:
//
//	@location(0) pos: vec4<f32>
//	@location(1) color: vec4<f32>
type ColorVertex struct {
	Pos   [4]float32
	Color [4]float32
}

// TexVertex is a position + texture coordinate vertex.
//
// WGSL:
//
//	@location(0) pos: vec4<f32>
//	@location(1) tex_coord: vec2<f32>
type TexVertex struct {
	Pos      [4]float32
	TexCoord [2]float32
}

// AdvVertex is a position + texture coordinate + normal vertex.
//
// WGSL:
//
//	@location(0) pos: vec4<f32>
//	@location(1) tex_coord: vec2<f32>
//	@location(2) normal: vec3<f32>
type AdvVertex struct {
	Pos      [4]float32
	TexCoord [2]float32
	Normal   [3]float32
}

var (
	_ Vertex = ColorVertex{}
	_ Vertex = TexVertex{}
	_ Vertex = AdvVertex{}
)

func (ColorVertex) VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 32,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
		},
	}
}

func (TexVertex) VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 24,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 1},
		},
	}
}

func (AdvVertex) VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 36,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 2},
		},
	}
}
