// Package binding maps fields of an entity instance onto bind group slots.
//
// A Binder declares one slot of an entity kind's bind group. Its layout entry is a pure function
// of the slot, the visibility and the binding kind, so the shared bind group layout can be built
// before any instance exists. Its binding entry evaluates the accessor against a live instance.
package binding

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Kind is the closed set of resource kinds a Binder can bind.
type Kind int

const (
	// KindUniformBuffer binds a uniform buffer.
	KindUniformBuffer Kind = iota
	// KindTexture binds a filterable 2D float texture view.
	KindTexture
	// KindSampler binds a filtering sampler.
	KindSampler
)

func (k Kind) String() string {
	switch k {
	case KindUniformBuffer:
		return "uniform_buffer"
	case KindTexture:
		return "texture"
	case KindSampler:
		return "sampler"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// LayoutEntry returns the layout entry for a resource of this kind at slot.
//
// Parameters:
//   - slot: the binding index within the group
//   - visibility: the shader stages that can access the binding
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func (k Kind) LayoutEntry(slot uint32, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    slot,
		Visibility: visibility,
	}
	switch k {
	case KindUniformBuffer:
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case KindTexture:
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	case KindSampler:
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	}
	return entry
}

// UniformResource is a field that can be bound as a uniform buffer.
type UniformResource interface {
	Buffer() *wgpu.Buffer
	Size() uint64
}

// TextureResource is a field that can be bound as a texture view.
type TextureResource interface {
	TextureView() *wgpu.TextureView
}

// SamplerResource is a field that can be bound as a sampler.
type SamplerResource interface {
	Sampler() *wgpu.Sampler
}

// Binder maps one field of a T instance to one bind group slot.
type Binder[T any] struct {
	slot       uint32
	visibility wgpu.ShaderStage
	kind       Kind

	uniform func(T) UniformResource
	texture func(T) TextureResource
	sampler func(T) SamplerResource
}

// Uniform declares a uniform buffer binding at slot.
//
// Parameters:
//   - slot: the binding index within the entity group
//   - visibility: the shader stages that can access the binding
//   - accessor: selects the uniform field from an instance
//
// Returns:
//   - Binder[T]: the binder
func Uniform[T any](slot uint32, visibility wgpu.ShaderStage, accessor func(T) UniformResource) Binder[T] {
	return Binder[T]{slot: slot, visibility: visibility, kind: KindUniformBuffer, uniform: accessor}
}

// Texture declares a texture view binding at slot.
//
// Parameters:
//   - slot: the binding index within the entity group
//   - visibility: the shader stages that can access the binding
//   - accessor: selects the texture field from an instance
//
// Returns:
//   - Binder[T]: the binder
func Texture[T any](slot uint32, visibility wgpu.ShaderStage, accessor func(T) TextureResource) Binder[T] {
	return Binder[T]{slot: slot, visibility: visibility, kind: KindTexture, texture: accessor}
}

// Sampler declares a sampler binding at slot.
//
// Parameters:
//   - slot: the binding index within the entity group
//   - visibility: the shader stages that can access the binding
//   - accessor: selects the sampler field from an instance
//
// Returns:
//   - Binder[T]: the binder
func Sampler[T any](slot uint32, visibility wgpu.ShaderStage, accessor func(T) SamplerResource) Binder[T] {
	return Binder[T]{slot: slot, visibility: visibility, kind: KindSampler, sampler: accessor}
}

func (b Binder[T]) Slot() uint32 {
	return b.slot
}

func (b Binder[T]) Kind() Kind {
	return b.kind
}

// LayoutEntry returns the layout entry for this binder. It does not need an instance.
func (b Binder[T]) LayoutEntry() wgpu.BindGroupLayoutEntry {
	return b.kind.LayoutEntry(b.slot, b.visibility)
}

// BindingEntry evaluates the accessor against instance and returns the bind group entry for it.
// It panics if the accessed field has no GPU resource yet.
//
// Parameters:
//   - instance: the live entity instance
//
// Returns:
//   - wgpu.BindGroupEntry: the bind group entry at this binder's slot
func (b Binder[T]) BindingEntry(instance T) wgpu.BindGroupEntry {
	entry := wgpu.BindGroupEntry{Binding: b.slot}
	switch b.kind {
	case KindUniformBuffer:
		res := b.uniform(instance)
		if res == nil || res.Buffer() == nil {
			panic(fmt.Sprintf("binding: slot %d uniform buffer is not initialized", b.slot))
		}
		entry.Buffer = res.Buffer()
		entry.Offset = 0
		entry.Size = res.Size()
	case KindTexture:
		res := b.texture(instance)
		if res == nil || res.TextureView() == nil {
			panic(fmt.Sprintf("binding: slot %d texture view is not initialized", b.slot))
		}
		entry.TextureView = res.TextureView()
	case KindSampler:
		res := b.sampler(instance)
		if res == nil || res.Sampler() == nil {
			panic(fmt.Sprintf("binding: slot %d sampler is not initialized", b.slot))
		}
		entry.Sampler = res.Sampler()
	}
	return entry
}

// LayoutEntries returns the layout entries of a binding manifest in manifest order.
//
// Parameters:
//   - binders: the binding manifest
//
// Returns:
//   - []wgpu.BindGroupLayoutEntry: one entry per binder
func LayoutEntries[T any](binders []Binder[T]) []wgpu.BindGroupLayoutEntry {
	entries := make([]wgpu.BindGroupLayoutEntry, len(binders))
	for i, b := range binders {
		entries[i] = b.LayoutEntry()
	}
	return entries
}

// BindingEntries evaluates a binding manifest against an instance, in manifest order.
//
// Parameters:
//   - binders: the binding manifest
//   - instance: the live entity instance
//
// Returns:
//   - []wgpu.BindGroupEntry: one entry per binder
func BindingEntries[T any](binders []Binder[T], instance T) []wgpu.BindGroupEntry {
	entries := make([]wgpu.BindGroupEntry, len(binders))
	for i, b := range binders {
		entries[i] = b.BindingEntry(instance)
	}
	return entries
}

// Validate checks a binding manifest for duplicate slots.
//
// Parameters:
//   - binders: the binding manifest
//
// Returns:
//   - error: an error naming the first duplicated slot, or nil
func Validate[T any](binders []Binder[T]) error {
	seen := make(map[uint32]Kind, len(binders))
	for _, b := range binders {
		if prev, ok := seen[b.slot]; ok {
			return fmt.Errorf("slot %d bound twice (%s and %s)", b.slot, prev, b.kind)
		}
		seen[b.slot] = b.kind
	}
	return nil
}
