package binding

import (
	"testing"

	"github.com/Carmen-Shannon/safehouse/engine/renderer/gputest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct{ view *wgpu.TextureView }

func (f *fakeView) TextureView() *wgpu.TextureView { return f.view }

type fakeSampler struct{ sampler *wgpu.Sampler }

func (f *fakeSampler) Sampler() *wgpu.Sampler { return f.sampler }

type pane struct {
	color   *UniformBuffer[[4]float32]
	texture *fakeView
	sampler *fakeSampler
}

func paneManifest() []Binder[*pane] {
	return []Binder[*pane]{
		Uniform(0, wgpu.ShaderStageFragment, func(p *pane) UniformResource { return p.color }),
		Texture(1, wgpu.ShaderStageFragment, func(p *pane) TextureResource { return p.texture }),
		Sampler(2, wgpu.ShaderStageFragment, func(p *pane) SamplerResource { return p.sampler }),
	}
}

func TestLayoutEntriesByKind(t *testing.T) {
	entries := LayoutEntries(paneManifest())
	require.Len(t, entries, 3)

	assert.Equal(t, uint32(0), entries[0].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entries[0].Buffer.Type)

	assert.Equal(t, uint32(1), entries[1].Binding)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, entries[1].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[1].Texture.ViewDimension)

	assert.Equal(t, uint32(2), entries[2].Binding)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[2].Sampler.Type)

	for _, e := range entries {
		assert.Equal(t, wgpu.ShaderStageFragment, e.Visibility)
	}
}

func TestBindingEntriesMatchLayout(t *testing.T) {
	rec := gputest.NewRecorder()
	color, err := NewUniformBuffer(rec, "pane_color", [4]float32{1, 0, 0, 1})
	require.NoError(t, err)

	p := &pane{
		color:   color,
		texture: &fakeView{view: &wgpu.TextureView{}},
		sampler: &fakeSampler{sampler: &wgpu.Sampler{}},
	}
	manifest := paneManifest()
	entries := BindingEntries(manifest, p)
	require.Len(t, entries, 3)

	assert.Same(t, color.Buffer(), entries[0].Buffer)
	assert.Equal(t, uint64(16), entries[0].Size)
	assert.Same(t, p.texture.view, entries[1].TextureView)
	assert.Same(t, p.sampler.sampler, entries[2].Sampler)

	layout, err := NewLayout(rec, "pane_bglayout", LayoutEntries(manifest))
	require.NoError(t, err)
	group, err := NewGroup(rec, "pane", layout, entries)
	require.NoError(t, err)
	assert.Same(t, layout, group.Layout)
	assert.NotNil(t, group.BindGroup)
}

func TestBindingEntryPanicsOnMissingResource(t *testing.T) {
	b := Texture(0, wgpu.ShaderStageFragment, func(p *pane) TextureResource { return p.texture })
	assert.PanicsWithValue(t, "binding: slot 0 texture view is not initialized", func() {
		b.BindingEntry(&pane{texture: &fakeView{}})
	})
}

func TestValidateRejectsDuplicateSlots(t *testing.T) {
	assert.NoError(t, Validate(paneManifest()))
	assert.NoError(t, Validate[*pane](nil))

	dup := append(paneManifest(), Sampler(1, wgpu.ShaderStageFragment, func(p *pane) SamplerResource { return p.sampler }))
	err := Validate(dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slot 1 bound twice")
}

func TestUniformBufferUpdateOnlyWhenDirty(t *testing.T) {
	rec := gputest.NewRecorder()
	u, err := NewUniformBuffer(rec, "color", [3]float32{0.5, 0.5, 0.5})
	require.NoError(t, err)
	assert.Equal(t, uint64(16), u.Size())
	require.Len(t, rec.Writes, 1)

	assert.False(t, u.Update(rec))
	u.Set([3]float32{1, 0, 0})
	assert.Equal(t, [3]float32{1, 0, 0}, u.Value())
	assert.True(t, u.Update(rec))
	assert.False(t, u.Update(rec))
	require.Len(t, rec.Writes, 2)
	assert.Len(t, rec.Writes[1].Data, 12)
	assert.Same(t, u.Buffer(), rec.Writes[1].Buffer)
}

func TestNewGroupFailsOnMismatch(t *testing.T) {
	rec := gputest.NewRecorder()
	layout, err := NewLayout(rec, "l", LayoutEntries(paneManifest()))
	require.NoError(t, err)
	_, err = NewGroup(rec, "g", layout, nil)
	assert.Error(t, err)
	_, err = NewGroup(rec, "g", nil, nil)
	assert.Error(t, err)
}
