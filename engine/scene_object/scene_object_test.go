package scene_object

import (
	"testing"

	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine/model"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/binding"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/gputest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaInsertGetRemove(t *testing.T) {
	a := NewArena[string]()
	h1 := a.Insert("a")
	h2 := a.Insert("b")
	assert.Equal(t, 2, a.Len())
	assert.False(t, h1.IsZero())

	v, ok := a.Get(h2)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	removed, ok := a.Remove(h1)
	require.True(t, ok)
	assert.Equal(t, "a", removed)
	assert.Equal(t, 1, a.Len())

	_, ok = a.Get(h1)
	assert.False(t, ok, "removed handle must not resolve")
	_, ok = a.Remove(h1)
	assert.False(t, ok)

	// the freed slot is reused under a new generation
	h3 := a.Insert("c")
	assert.Equal(t, h1.Index(), h3.Index())
	assert.NotEqual(t, h1.Generation(), h3.Generation())
	_, ok = a.Get(h1)
	assert.False(t, ok, "stale handle must not resolve to the new occupant")
	v, ok = a.Get(h3)
	require.True(t, ok)
	assert.Equal(t, "c", v)
}

func TestArenaRejectsZeroAndForeignHandles(t *testing.T) {
	a := NewArena[int]()
	a.Insert(1)
	_, ok := a.Get(Handle{})
	assert.False(t, ok)
	_, ok = a.Get(Handle{index: 7, generation: 1})
	assert.False(t, ok)
	assert.False(t, a.Set(Handle{}, 3))
}

func TestArenaEachInSlotOrder(t *testing.T) {
	a := NewArena[int]()
	h := a.Insert(10)
	a.Insert(20)
	a.Insert(30)
	a.Remove(h)

	var seen []int
	a.Each(func(_ Handle, v int) bool {
		seen = append(seen, v)
		return true
	})
	assert.Equal(t, []int{20, 30}, seen)
}

func newObject(t *testing.T, rec *gputest.Recorder) *SceneObject {
	t.Helper()
	verts := []common.ColorVertex{{}, {}, {}}
	m, err := model.FromVertices(rec, "tri", verts)
	require.NoError(t, err)
	layout, err := binding.NewLayout(rec, "scene_object_bglayout", SceneLayoutEntries())
	require.NoError(t, err)

	a := NewArena[*SceneObject]()
	h := a.Insert(nil)
	o, err := New(rec, h, "tri_0", m, "tri_pipeline", &wgpu.RenderPipeline{}, layout)
	require.NoError(t, err)
	a.Set(h, o)
	return o
}

func TestNewSceneObjectIdentityTransform(t *testing.T) {
	rec := gputest.NewRecorder()
	o := newObject(t, rec)

	assert.Equal(t, common.IdentityMat4(), o.Transform())
	assert.Nil(t, o.EntityGroup())
	require.NotNil(t, o.SceneGroup())

	desc := rec.BindGroups[o.SceneGroup().BindGroup]
	require.Len(t, desc.Entries, 1)
	assert.Equal(t, uint32(TransformBinding), desc.Entries[0].Binding)
	assert.Equal(t, uint64(64), desc.Entries[0].Size)
	assert.Equal(t, "tri_0_transform", rec.Buffers[desc.Entries[0].Buffer])
}

func TestTranslateAndUpload(t *testing.T) {
	rec := gputest.NewRecorder()
	o := newObject(t, rec)

	o.Translate(0.5, -0.25, 0)
	o.Translate(0.5, 0, 0)
	x, y, z := o.Position()
	assert.InDelta(t, 1.0, x, 1e-6)
	assert.InDelta(t, -0.25, y, 1e-6)
	assert.InDelta(t, 0.0, z, 1e-6)

	m := o.Transform()
	assert.InDelta(t, 1.0, m[12], 1e-6)
	assert.InDelta(t, -0.25, m[13], 1e-6)

	o.UploadTransform(rec, nil)
	last := rec.Writes[len(rec.Writes)-1]
	got := common.BytesToSlice[float32](last.Data)
	require.Len(t, got, 16)
	assert.InDelta(t, 1.0, got[12], 1e-6)
}

func TestUploadAppliesViewProjection(t *testing.T) {
	rec := gputest.NewRecorder()
	o := newObject(t, rec)
	o.SetTransform(common.IdentityMat4())

	vp := common.IdentityMat4()
	vp[0] = 2
	o.UploadTransform(rec, &vp)
	got := common.BytesToSlice[float32](rec.Writes[len(rec.Writes)-1].Data)
	assert.InDelta(t, 2.0, got[0], 1e-6)
	assert.InDelta(t, 1.0, got[5], 1e-6)
}

func TestReleaseGoesThroughContext(t *testing.T) {
	rec := gputest.NewRecorder()
	o := newObject(t, rec)
	bg := o.SceneGroup().BindGroup
	o.Release(rec)
	assert.Equal(t, []*wgpu.BindGroup{bg}, rec.ReleasedBindGroups)
	assert.Len(t, rec.ReleasedBuffers, 1)
}
