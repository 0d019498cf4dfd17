package binding

import (
	"fmt"

	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// Group pairs a bind group with the layout it was created against.
type Group struct {
	Layout    *wgpu.BindGroupLayout
	BindGroup *wgpu.BindGroup
}

// NewGroup creates a bind group from entries against layout.
//
// Parameters:
//   - ctx: the GPU context
//   - label: the debug label of the bind group
//   - layout: the layout the entries must satisfy
//   - entries: the bind group entries
//
// Returns:
//   - *Group: the group
//   - error: an error if the bind group could not be created
func NewGroup(ctx renderer.GPUContext, label string, layout *wgpu.BindGroupLayout, entries []wgpu.BindGroupEntry) (*Group, error) {
	if layout == nil {
		return nil, fmt.Errorf("bind group %q has no layout", label)
	}
	bg, err := ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group %q: %w", label, err)
	}
	return &Group{Layout: layout, BindGroup: bg}, nil
}

// NewLayout creates a bind group layout from entries.
//
// Parameters:
//   - ctx: the GPU context
//   - label: the debug label of the layout
//   - entries: the layout entries
//
// Returns:
//   - *wgpu.BindGroupLayout: the layout
//   - error: an error if the layout could not be created
func NewLayout(ctx renderer.GPUContext, label string, entries []wgpu.BindGroupLayoutEntry) (*wgpu.BindGroupLayout, error) {
	bgl, err := ctx.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group layout %q: %w", label, err)
	}
	return bgl, nil
}

// Release releases the bind group. The layout is shared and is not released.
func (g *Group) Release(ctx renderer.GPUContext) {
	if g == nil || g.BindGroup == nil {
		return
	}
	ctx.ReleaseBindGroup(g.BindGroup)
	g.BindGroup = nil
}
