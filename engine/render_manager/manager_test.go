package render_manager

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine/camera"
	"github.com/Carmen-Shannon/safehouse/engine/entity"
	"github.com/Carmen-Shannon/safehouse/engine/model"
	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/binding"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/gputest"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/shader"
	"github.com/Carmen-Shannon/safehouse/engine/resource"
	"github.com/Carmen-Shannon/safehouse/engine/scene_object"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colorQuad() []common.ColorVertex {
	c := [4]float32{1, 1, 1, 1}
	return []common.ColorVertex{
		{Pos: [4]float32{-0.1, -0.1, 0, 1}, Color: c},
		{Pos: [4]float32{0.1, -0.1, 0, 1}, Color: c},
		{Pos: [4]float32{0.1, 0.1, 0, 1}, Color: c},
		{Pos: [4]float32{-0.1, -0.1, 0, 1}, Color: c},
		{Pos: [4]float32{0.1, 0.1, 0, 1}, Color: c},
		{Pos: [4]float32{-0.1, 0.1, 0, 1}, Color: c},
	}
}

func texQuad() []common.TexVertex {
	return []common.TexVertex{
		{Pos: [4]float32{-1, -1, 0, 1}, TexCoord: [2]float32{0, 1}},
		{Pos: [4]float32{1, -1, 0, 1}, TexCoord: [2]float32{1, 1}},
		{Pos: [4]float32{1, 1, 0, 1}, TexCoord: [2]float32{1, 0}},
		{Pos: [4]float32{-1, -1, 0, 1}, TexCoord: [2]float32{0, 1}},
		{Pos: [4]float32{1, 1, 0, 1}, TexCoord: [2]float32{1, 0}},
		{Pos: [4]float32{-1, 1, 0, 1}, TexCoord: [2]float32{0, 0}},
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// ball: no bindings, default shader and pipeline.

type ball struct{ handle scene_object.Handle }

type ballKind struct{ name string }

func (k ballKind) Name() string { return k.name }

func (ballKind) OnInstantiate(_ entity.Manager, h scene_object.Handle) *ball {
	return &ball{handle: h}
}

func (ballKind) LoadBindings() []binding.Binder[*ball] { return nil }

func (k ballKind) LoadModel(ctx renderer.GPUContext) *model.ModelData {
	return must(model.FromVertices(ctx, k.name, colorQuad()))
}

func (ballKind) LoadPipeline(entity.Manager) *pipeline.Descriptor { return nil }

func (ballKind) LoadShader(entity.Manager, uint32, uint32) shader.Program { return nil }

// pane: texture and sampler bindings on the entity group, symbolic groups in its shader.

const paneSource = `
@group(scene_object) @binding(0) var<uniform> model_mat: mat4x4<f32>;
@group(entity) @binding(0) var pane_texture: texture_2d<f32>;
@group(entity) @binding(1) var pane_sampler: sampler;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) tex_coord: vec2<f32>,
};

@vertex
fn vs_main(@location(0) pos: vec4<f32>, @location(1) tex_coord: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = model_mat * pos;
    out.tex_coord = tex_coord;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(pane_texture, pane_sampler, in.tex_coord);
}
`

type pane struct {
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

func (p *pane) TextureView() *wgpu.TextureView { return p.view }
func (p *pane) Sampler() *wgpu.Sampler         { return p.sampler }

type paneKind struct{}

func (paneKind) Name() string { return "pane" }

func (paneKind) OnInstantiate(rm entity.Manager, _ scene_object.Handle) *pane {
	view := must(rm.GPU().CreateTexture("pane", common.TextureStagingData{
		Pixels: make([]byte, 4*4*4), Width: 4, Height: 4,
	}))
	return &pane{view: view, sampler: rm.DefaultSampler()}
}

func (paneKind) LoadBindings() []binding.Binder[*pane] {
	return []binding.Binder[*pane]{
		binding.Texture(0, wgpu.ShaderStageFragment, func(p *pane) binding.TextureResource { return p }),
		binding.Sampler(1, wgpu.ShaderStageFragment, func(p *pane) binding.SamplerResource { return p }),
	}
}

func (paneKind) LoadModel(ctx renderer.GPUContext) *model.ModelData {
	return must(model.FromVertices(ctx, "pane", texQuad()))
}

func (paneKind) LoadPipeline(entity.Manager) *pipeline.Descriptor {
	return pipeline.New(pipeline.WithCullMode(wgpu.CullModeBack))
}

func (paneKind) LoadShader(entity.Manager, uint32, uint32) shader.Program {
	return shader.NewProgram("pane", paneSource)
}

// tinted: a model bind group plus a uniform entity binding, numeric groups in its shader.

type tinted struct {
	color *binding.UniformBuffer[[4]float32]
}

type tintedKind struct{}

func (tintedKind) Name() string { return "tinted" }

func (tintedKind) OnInstantiate(rm entity.Manager, _ scene_object.Handle) *tinted {
	return &tinted{color: must(binding.NewUniformBuffer(rm.GPU(), "tint", [4]float32{1, 0, 0, 1}))}
}

func (tintedKind) LoadBindings() []binding.Binder[*tinted] {
	return []binding.Binder[*tinted]{
		binding.Uniform(0, wgpu.ShaderStageFragment, func(t *tinted) binding.UniformResource { return t.color }),
	}
}

func (tintedKind) LoadModel(ctx renderer.GPUContext) *model.ModelData {
	entries := []wgpu.BindGroupLayoutEntry{binding.KindUniformBuffer.LayoutEntry(0, wgpu.ShaderStageFragment)}
	layout := must(binding.NewLayout(ctx, "tinted_material_bglayout", entries))
	buf := must(ctx.CreateBuffer("tinted_material", 16, wgpu.BufferUsageUniform))
	group := must(binding.NewGroup(ctx, "tinted_material", layout, []wgpu.BindGroupEntry{{Binding: 0, Buffer: buf, Size: 16}}))
	return must(model.FromVertices(ctx, "tinted", colorQuad(),
		model.WithBindGroup(group),
		model.WithGroups(model.Range{Start: 0, End: 3}, model.Range{Start: 3, End: 6}),
	))
}

func (tintedKind) LoadPipeline(entity.Manager) *pipeline.Descriptor { return nil }

func (tintedKind) LoadShader(_ entity.Manager, modelGroup, entityGroup uint32) shader.Program {
	return shader.NewProgram("tinted", fmt.Sprintf(`
@group(%d) @binding(0) var<uniform> material: vec4<f32>;
@group(%d) @binding(0) var<uniform> tint: vec4<f32>;
@vertex fn vs_main(@location(0) pos: vec4<f32>) -> @builtin(position) vec4<f32> { return pos; }
@fragment fn fs_main() -> @location(0) vec4<f32> { return material * tint; }
`, modelGroup, entityGroup))
}

// broken: a shader that references a group the kind does not have.

type brokenKind struct {
	ballKind
	source string
}

func (k brokenKind) LoadShader(entity.Manager, uint32, uint32) shader.Program {
	return shader.NewProgram("broken", k.source)
}

// brokenPaneKind is a pane whose shader source is supplied by the test.
type brokenPaneKind struct {
	paneKind
	source string
}

func (k brokenPaneKind) LoadShader(entity.Manager, uint32, uint32) shader.Program {
	return shader.NewProgram("pane", k.source)
}

func newManager(t *testing.T, options ...RenderManagerBuilderOption) (*gputest.Recorder, RenderManager) {
	t.Helper()
	rec := gputest.NewRecorder()
	return rec, NewRenderManager(rec, 800, 800, options...)
}

func panicValue(f func()) (v any) {
	defer func() { v = recover() }()
	f()
	return nil
}

func TestLoadEntityCachesUnderDerivedKeys(t *testing.T) {
	_, rm := newManager(t)
	LoadEntity(rm, paneKind{})
	m := rm.core()

	assert.True(t, m.models.Has("pane"))
	assert.True(t, m.shaders.Has("pane_shader"))
	assert.True(t, m.pipelineLayouts.Has("pane_pipelayout"))
	assert.True(t, m.pipelines.Has("pane_pipeline"))
	assert.True(t, m.layouts.Has("pane_bglayout"))

	mdl, ok := rm.Model("pane")
	require.True(t, ok)
	assert.Equal(t, uint32(6), mdl.VertexCount())
}

func TestEntityLayoutIsGetOrCreate(t *testing.T) {
	_, rm := newManager(t)
	LoadEntity(rm, paneKind{})
	first := rm.core().layouts.Fetch("pane_bglayout")
	LoadEntity(rm, paneKind{})
	assert.Same(t, first, rm.core().layouts.Fetch("pane_bglayout"))

	Reload(rm, paneKind{})
	assert.NotSame(t, first, rm.core().layouts.Fetch("pane_bglayout"))
}

func TestDefaultPipelineForKindWithoutBindings(t *testing.T) {
	rec, rm := newManager(t)
	LoadEntity(rm, ballKind{name: "ball"})
	m := rm.core()

	assert.Same(t, m.pipelines.FetchDefault(), m.pipelines.Fetch("ball_pipeline"))
	assert.Same(t, m.shaders.FetchDefault(), m.shaders.Fetch("ball_shader"))
	assert.False(t, m.layouts.Has("ball_bglayout"))

	desc := rec.Pipelines[m.pipelines.FetchDefault()]
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, desc.Primitive.Topology)
	assert.Equal(t, wgpu.FrontFaceCW, desc.Primitive.FrontFace)
	assert.Equal(t, wgpu.CullModeNone, desc.Primitive.CullMode)
	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, renderer.DepthFormat, desc.DepthStencil.Format)
	assert.Equal(t, wgpu.CompareFunctionAlways, desc.DepthStencil.DepthCompare)
}

func TestCustomPipelineLayoutOrder(t *testing.T) {
	rec, rm := newManager(t)
	LoadEntity(rm, paneKind{})
	m := rm.core()

	layout := rec.PipelineLayouts[m.pipelineLayouts.Fetch("pane_pipelayout")]
	require.Len(t, layout.BindGroupLayouts, 3)
	assert.Same(t, m.layouts.Fetch(GlobalLayoutKey), layout.BindGroupLayouts[0])
	assert.Same(t, m.layouts.Fetch(SceneObjectLayoutKey), layout.BindGroupLayouts[1])
	assert.Same(t, m.layouts.Fetch("pane_bglayout"), layout.BindGroupLayouts[2])

	desc := rec.Pipelines[m.pipelines.Fetch("pane_pipeline")]
	assert.Equal(t, wgpu.CullModeBack, desc.Primitive.CullMode)
	assert.Equal(t, "vs_main", desc.Vertex.EntryPoint)
	assert.Equal(t, uint64(24), desc.Vertex.Buffers[0].ArrayStride)

	// symbolic groups were resolved before compilation
	src := rec.ShaderSources[m.shaders.Fetch("pane_shader").module]
	assert.Contains(t, src, "@group(2) @binding(0) var pane_texture")
	assert.NotContains(t, src, "@group(entity)")
}

func TestEntityBindGroupMatchesLayout(t *testing.T) {
	rec, rm := newManager(t)
	LoadEntity(rm, paneKind{})
	p := SpawnSceneObjectEntity(rm, paneKind{}, "pane_0")

	h := rm.Queue()[0]
	obj, ok := rm.SceneObject(h)
	require.True(t, ok)
	require.NotNil(t, obj.EntityGroup())

	bg := rec.BindGroups[obj.EntityGroup().BindGroup]
	layout := rec.BindGroupLayouts[bg.Layout]
	require.Len(t, bg.Entries, len(layout.Entries))
	for i := range bg.Entries {
		assert.Equal(t, layout.Entries[i].Binding, bg.Entries[i].Binding)
	}
	assert.Same(t, p.view, bg.Entries[0].TextureView)
	assert.Same(t, rm.DefaultSampler(), bg.Entries[1].Sampler)
}

func TestNoEntityBindGroupForEmptyManifest(t *testing.T) {
	_, rm := newManager(t)
	LoadEntity(rm, ballKind{name: "ball"})
	b := SpawnSceneObjectEntity(rm, ballKind{name: "ball"}, "ball_0")

	obj, ok := rm.SceneObject(b.handle)
	require.True(t, ok)
	assert.Nil(t, obj.EntityGroup())
	assert.NotNil(t, obj.SceneGroup())
	assert.Equal(t, common.IdentityMat4(), obj.Transform())
}

func TestRenderDrawsEachGroup(t *testing.T) {
	rec, rm := newManager(t)
	LoadEntity(rm, ballKind{name: "ball"})
	SpawnSceneObjectEntity(rm, ballKind{name: "ball"}, "ball_0")

	require.NoError(t, rm.Render())
	frame := rec.LastFrame()
	require.NotNil(t, frame)
	assert.True(t, frame.Submitted)
	assert.True(t, frame.Presented)

	draws := frame.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, uint32(6), draws[0].VertexCount)
	assert.Equal(t, uint32(1), draws[0].InstanceCount)
	assert.Equal(t, uint32(0), draws[0].FirstVertex)
}

func TestRenderOrderFollowsSpawnOrder(t *testing.T) {
	rec, rm := newManager(t)
	for _, name := range []string{"a", "b", "c"} {
		LoadEntity(rm, ballKind{name: name})
	}
	var objects []*scene_object.SceneObject
	var want []*wgpu.BindGroup
	for _, name := range []string{"a", "b", "c"} {
		b := SpawnSceneObjectEntity(rm, ballKind{name: name}, name+"_0")
		obj, _ := rm.SceneObject(b.handle)
		objects = append(objects, obj)
		want = append(want, obj.SceneGroup().BindGroup)
	}

	order := func(frame *gputest.Frame) ([]*wgpu.BindGroup, []string) {
		var groups []*wgpu.BindGroup
		var buffers []string
		for _, c := range frame.Commands {
			if c.Op == gputest.OpSetBindGroup && c.Slot == 1 {
				groups = append(groups, c.BindGroup)
			}
			if c.Op == gputest.OpSetVertexBuffer {
				buffers = append(buffers, rec.Buffers[c.Buffer])
			}
		}
		return groups, buffers
	}

	require.NoError(t, rm.Render())
	groups, buffers := order(rec.LastFrame())
	assert.Equal(t, want, groups)
	assert.Equal(t, []string{"a", "b", "c"}, buffers)

	objects[2].SetPosition(0, 0, -5)
	objects[0].SetPosition(0.5, 0.5, 3)

	require.NoError(t, rm.Render())
	require.Len(t, rec.Frames, 2)
	groups, buffers = order(rec.LastFrame())
	assert.Equal(t, want, groups)
	assert.Equal(t, []string{"a", "b", "c"}, buffers)
}

func TestRenderBindsGroupsPositionally(t *testing.T) {
	rec, rm := newManager(t)
	LoadEntity(rm, tintedKind{})
	tint := SpawnSceneObjectEntity(rm, tintedKind{}, "tinted_0")
	m := rm.core()

	layout := rec.PipelineLayouts[m.pipelineLayouts.Fetch("tinted_pipelayout")]
	require.Len(t, layout.BindGroupLayouts, 4)
	assert.Same(t, m.layouts.Fetch("tinted_bglayout"), layout.BindGroupLayouts[3])

	require.NoError(t, rm.Render())
	obj, _ := rm.SceneObject(rm.Queue()[0])
	mdl, _ := rm.Model("tinted")

	slots := map[uint32]*wgpu.BindGroup{}
	for _, c := range rec.LastFrame().Commands {
		if c.Op == gputest.OpSetBindGroup {
			slots[c.Slot] = c.BindGroup
		}
	}
	assert.Same(t, m.global.BindGroup, slots[0])
	assert.Same(t, obj.SceneGroup().BindGroup, slots[1])
	assert.Same(t, mdl.BindGroup().BindGroup, slots[2])
	assert.Same(t, obj.EntityGroup().BindGroup, slots[3])

	bg := rec.BindGroups[obj.EntityGroup().BindGroup]
	assert.Same(t, tint.color.Buffer(), bg.Entries[0].Buffer)

	draws := rec.LastFrame().Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, uint32(3), draws[0].VertexCount)
	assert.Equal(t, uint32(3), draws[1].FirstVertex)
}

func TestGroupSlots(t *testing.T) {
	assert.Equal(t, uint32(2), groupSlots(false, true).Entity)
	assert.Equal(t, uint32(3), groupSlots(true, true).Entity)
	assert.Equal(t, uint32(2), groupSlots(true, false).Model)
	assert.Equal(t, 2, groupSlots(false, false).Count())
	assert.Equal(t, 4, groupSlots(true, true).Count())
}

func TestShaderReferencingAbsentGroupPanics(t *testing.T) {
	_, rm := newManager(t)
	v := panicValue(func() {
		LoadEntity(rm, brokenKind{ballKind: ballKind{name: "broken"}, source: paneSource})
	})
	require.NotNil(t, v)
	assert.Contains(t, fmt.Sprint(v), `shader "broken_shader"`)

	v = panicValue(func() {
		LoadEntity(rm, brokenKind{ballKind: ballKind{name: "far"}, source: "@group(5) @binding(0) var<uniform> x: f32;"})
	})
	require.NotNil(t, v)
	assert.Contains(t, fmt.Sprint(v), `shader "far_shader" references @group(5)`)
}

func TestSpawnUnloadedKindPanicsNamingKey(t *testing.T) {
	_, rm := newManager(t)
	v := panicValue(func() {
		SpawnSceneObjectEntity(rm, ballKind{name: "ghost"}, "ghost_0")
	})
	err, ok := v.(error)
	require.True(t, ok)
	var missing *resource.MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "ghost", missing.Key)
	assert.Empty(t, rm.Queue())
}

func TestBindGroupFailurePanicsWithObjectName(t *testing.T) {
	rec, rm := newManager(t)
	LoadEntity(rm, paneKind{})
	rec.FailBindGroups = true
	v := panicValue(func() {
		SpawnSceneObjectEntity(rm, paneKind{}, "pane_bad")
	})
	require.NotNil(t, v)
	assert.Contains(t, fmt.Sprint(v), "pane_bad")
}

func TestResizeIsDeferredToRender(t *testing.T) {
	cam := camera.NewCamera()
	rec, rm := newManager(t, WithCamera(cam))
	require.Equal(t, [][2]int{{800, 800}}, rec.Configures)

	rm.SetResize(1600, 800)
	assert.Len(t, rec.Configures, 1)
	w, h := rm.Size()
	assert.Equal(t, [2]int{800, 800}, [2]int{w, h})

	require.NoError(t, rm.Render())
	assert.Equal(t, [2]int{1600, 800}, rec.Configures[1])
	w, h = rm.Size()
	assert.Equal(t, [2]int{1600, 800}, [2]int{w, h})
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)

	assert.False(t, rm.UpdateResize())
	require.NoError(t, rm.Render())
	assert.Len(t, rec.Configures, 2)
}

func TestCoordinateRoundTrip(t *testing.T) {
	_, rm := newManager(t)
	for _, p := range [][2]float32{{0, 0}, {-1, -1}, {1, 1}, {0.25, -0.75}} {
		wx, wy := rm.WorldToWindow(p[0], p[1])
		x, y := rm.WindowToWorld(wx, wy)
		assert.InDelta(t, p[0], x, 1e-5)
		assert.InDelta(t, p[1], y, 1e-5)
	}
	x, y := rm.WorldToWindow(0, 0)
	assert.Equal(t, float32(400), x)
	assert.Equal(t, float32(400), y)
}

func TestTimeUniform(t *testing.T) {
	base := time.Unix(1000, 0)
	now := base
	rec, rm := newManager(t, WithClock(func() time.Time { return now }))
	now = base.Add(1500 * time.Millisecond)

	require.NoError(t, rm.Render())
	timeBuf := rec.BufferByLabel("global_time")
	var found bool
	for _, w := range rec.LastFrame().Writes {
		if w.Buffer == timeBuf {
			found = true
			assert.Equal(t, float32(1.5), common.BytesToSlice[float32](w.Data)[0])
		}
	}
	assert.True(t, found)
}

func TestCameraAppliedToTransforms(t *testing.T) {
	cam := camera.NewCamera(camera.WithOrthographic(2, 0.1, 10), camera.WithPosition(0, 0, 1))
	rec, rm := newManager(t, WithCamera(cam))
	LoadEntity(rm, ballKind{name: "ball"})
	SpawnSceneObjectEntity(rm, ballKind{name: "ball"}, "ball_0")

	require.NoError(t, rm.Render())
	transform := rec.BufferByLabel("ball_0_transform")
	var last []float32
	for _, w := range rec.LastFrame().Writes {
		if w.Buffer == transform {
			last = common.BytesToSlice[float32](w.Data)
		}
	}
	require.Len(t, last, 16)
	vp := cam.ViewProjectionMatrix()
	assert.InDeltaSlice(t, vp[:], last, 1e-6)
}

func TestDespawnInvalidatesHandle(t *testing.T) {
	rec, rm := newManager(t)
	LoadEntity(rm, ballKind{name: "ball"})
	a := SpawnSceneObjectEntity(rm, ballKind{name: "ball"}, "ball_a")
	b := SpawnSceneObjectEntity(rm, ballKind{name: "ball"}, "ball_b")

	assert.True(t, rm.Despawn(a.handle))
	assert.False(t, rm.Despawn(a.handle))
	_, ok := rm.SceneObject(a.handle)
	assert.False(t, ok)
	assert.Equal(t, []scene_object.Handle{b.handle}, rm.Queue())
	assert.Len(t, rec.ReleasedBindGroups, 1)

	c := SpawnSceneObjectEntity(rm, ballKind{name: "ball"}, "ball_c")
	assert.Equal(t, a.handle.Index(), c.handle.Index())
	_, ok = rm.SceneObject(a.handle)
	assert.False(t, ok, "stale handle must not resolve to the reused slot")

	require.NoError(t, rm.Render())
	assert.Len(t, rec.LastFrame().Draws(), 2)
}

func TestReloadSwapsLivePipelines(t *testing.T) {
	_, rm := newManager(t)
	LoadEntity(rm, paneKind{})
	SpawnSceneObjectEntity(rm, paneKind{}, "pane_0")
	obj, _ := rm.SceneObject(rm.Queue()[0])
	old := obj.Pipeline()

	Reload(rm, paneKind{})
	assert.NotSame(t, old, obj.Pipeline())
	assert.Same(t, rm.core().pipelines.Fetch("pane_pipeline"), obj.Pipeline())
}

func TestFailedReloadKeepsPreviousRegistration(t *testing.T) {
	_, rm := newManager(t)
	LoadEntity(rm, paneKind{})
	SpawnSceneObjectEntity(rm, paneKind{}, "pane_0")
	obj, _ := rm.SceneObject(rm.Queue()[0])
	m := rm.core()

	mdl := m.models.Fetch("pane")
	shd := m.shaders.Fetch("pane_shader")
	pl := m.pipelineLayouts.Fetch("pane_pipelayout")
	rp := m.pipelines.Fetch("pane_pipeline")
	bgl := m.layouts.Fetch("pane_bglayout")

	bad := brokenPaneKind{source: `
@group(5) @binding(0) var<uniform> far: f32;
@vertex fn vs_main(@location(0) pos: vec4<f32>) -> @builtin(position) vec4<f32> { return pos; }
@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(far); }
`}
	require.NotNil(t, panicValue(func() { Reload(rm, bad) }))

	assert.Same(t, mdl, m.models.Fetch("pane"))
	assert.Same(t, shd, m.shaders.Fetch("pane_shader"))
	assert.Same(t, pl, m.pipelineLayouts.Fetch("pane_pipelayout"))
	assert.Same(t, rp, m.pipelines.Fetch("pane_pipeline"))
	assert.Same(t, bgl, m.layouts.Fetch("pane_bglayout"))
	assert.Same(t, rp, obj.Pipeline())
}

func TestAddModel(t *testing.T) {
	rec, rm := newManager(t)
	mdl := must(model.FromVertices(rec, "manual", colorQuad()))
	rm.AddModel("manual", mdl)
	got, ok := rm.Model("manual")
	require.True(t, ok)
	assert.Same(t, mdl, got)

	_, ok = rm.Model("missing")
	assert.False(t, ok)
	assert.Panics(t, func() { rm.AddModel("nil", nil) })
}
