// Package model holds GPU-resident vertex data and the vertex ranges that are drawn from it.
package model

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/binding"
	"github.com/cogentcore/webgpu/wgpu"
)

// Range is a half-open vertex range [Start, End) drawn with one draw call.
type Range struct {
	Start uint32
	End   uint32
}

// Len returns the number of vertices in the range.
func (r Range) Len() uint32 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// ModelData is one registered model: a vertex buffer, its layout, an optional model-level bind
// group and the ordered, disjoint vertex ranges that partition the buffer.
type ModelData struct {
	name         string
	vertexBuffer *wgpu.Buffer
	vertexLayout wgpu.VertexBufferLayout
	vertexCount  uint32
	group        *binding.Group
	groups       []Range
}

// New creates a ModelData over an existing vertex buffer. Without WithGroups the whole buffer
// is a single group.
//
// Parameters:
//   - name: the model name
//   - vertexBuffer: the GPU vertex buffer
//   - vertexLayout: the layout of one vertex in the buffer
//   - vertexCount: the number of vertices in the buffer
//   - options: functional options
//
// Returns:
//   - *ModelData: the model
func New(name string, vertexBuffer *wgpu.Buffer, vertexLayout wgpu.VertexBufferLayout, vertexCount uint32, options ...ModelBuilderOption) *ModelData {
	m := &ModelData{
		name:         name,
		vertexBuffer: vertexBuffer,
		vertexLayout: vertexLayout,
		vertexCount:  vertexCount,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.groups == nil {
		m.groups = []Range{{Start: 0, End: vertexCount}}
	}
	return m
}

// FromVertices uploads verts into a new vertex buffer and wraps it in a ModelData.
//
// Parameters:
//   - ctx: the GPU context
//   - name: the model name, also the buffer label
//   - verts: the vertices
//   - options: functional options
//
// Returns:
//   - *ModelData: the model
//   - error: an error if the upload failed or the groups are invalid
func FromVertices[V common.Vertex](ctx renderer.GPUContext, name string, verts []V, options ...ModelBuilderOption) (*ModelData, error) {
	if len(verts) == 0 {
		return nil, fmt.Errorf("model %q has no vertices", name)
	}
	buf, err := ctx.CreateVertexBuffer(name, common.SliceToBytes(verts))
	if err != nil {
		return nil, fmt.Errorf("failed to upload model %q: %w", name, err)
	}
	m := New(name, buf, verts[0].VertexLayout(), uint32(len(verts)), options...)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromRaw uploads a raw vertex blob laid out as V. The vertex count is len(data) divided by the
// stride of V; trailing bytes are ignored.
//
// Parameters:
//   - ctx: the GPU context
//   - name: the model name, also the buffer label
//   - data: the raw vertex bytes
//   - options: functional options
//
// Returns:
//   - *ModelData: the model
//   - error: an error if the blob holds no whole vertex, the upload failed or the groups are invalid
func FromRaw[V common.Vertex](ctx renderer.GPUContext, name string, data []byte, options ...ModelBuilderOption) (*ModelData, error) {
	return FromVertices(ctx, name, common.BytesToSlice[V](data), options...)
}

func (m *ModelData) Name() string {
	return m.name
}

func (m *ModelData) VertexBuffer() *wgpu.Buffer {
	return m.vertexBuffer
}

func (m *ModelData) VertexLayout() wgpu.VertexBufferLayout {
	return m.vertexLayout
}

func (m *ModelData) VertexCount() uint32 {
	return m.vertexCount
}

// BindGroup returns the model-level bind group, or nil when the model has none.
func (m *ModelData) BindGroup() *binding.Group {
	return m.group
}

// HasBindGroup reports whether the model contributes a bind group to the pipeline layout.
func (m *ModelData) HasBindGroup() bool {
	return m.group != nil && m.group.Layout != nil
}

// Groups returns the vertex ranges in draw order.
func (m *ModelData) Groups() []Range {
	return m.groups
}

// Validate checks that the groups partition the vertex buffer: sorted by start, each group is
// non-empty and begins where the previous one ends, the first starts at 0 and the last ends at
// the vertex count.
//
// Returns:
//   - error: an error naming the first bad group, or nil
func (m *ModelData) Validate() error {
	if m.vertexBuffer == nil {
		return fmt.Errorf("model %q has no vertex buffer", m.name)
	}
	sorted := slices.Clone(m.groups)
	slices.SortFunc(sorted, func(a, b Range) int { return int(a.Start) - int(b.Start) })
	for i, r := range sorted {
		if r.Len() == 0 {
			return fmt.Errorf("model %q group [%d, %d) is empty", m.name, r.Start, r.End)
		}
		if r.End > m.vertexCount {
			return fmt.Errorf("model %q group [%d, %d) exceeds %d vertices", m.name, r.Start, r.End, m.vertexCount)
		}
		if i > 0 && r.Start < sorted[i-1].End {
			return fmt.Errorf("model %q group [%d, %d) overlaps [%d, %d)", m.name, r.Start, r.End, sorted[i-1].Start, sorted[i-1].End)
		}
		var prevEnd uint32
		if i > 0 {
			prevEnd = sorted[i-1].End
		}
		if r.Start > prevEnd {
			return fmt.Errorf("model %q leaves vertices [%d, %d) outside every group", m.name, prevEnd, r.Start)
		}
	}
	if n := len(sorted); n > 0 && sorted[n-1].End < m.vertexCount {
		return fmt.Errorf("model %q leaves vertices [%d, %d) outside every group", m.name, sorted[n-1].End, m.vertexCount)
	}
	return nil
}
