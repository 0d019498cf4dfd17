// Package render_manager turns entity declarations into cached GPU objects and draws the scene.
//
// Every entity kind is registered once with LoadEntity, which builds and caches its model,
// shader, bind group layouts, pipeline layout and pipeline under keys derived from the kind's
// name. SpawnSceneObjectEntity then creates any number of scene objects of that kind, and
// Render draws every live object in spawn order.
package render_manager

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine/camera"
	"github.com/Carmen-Shannon/safehouse/engine/entity"
	"github.com/Carmen-Shannon/safehouse/engine/logger"
	"github.com/Carmen-Shannon/safehouse/engine/model"
	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/binding"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/shader"
	"github.com/Carmen-Shannon/safehouse/engine/resource"
	"github.com/Carmen-Shannon/safehouse/engine/scene_object"
	"github.com/cogentcore/webgpu/wgpu"
)

var log = logger.New("render")

// compiledShader pairs a processed program with the module compiled from it.
type compiledShader struct {
	program shader.Program
	module  *wgpu.ShaderModule
}

type renderManager struct {
	mu *sync.Mutex

	ctx          renderer.GPUContext
	preProcessor shader.PreProcessor
	clock        func() time.Time
	start        time.Time

	width, height             int
	pendingW, pendingH        int
	resizeDirty               bool
	clearColor                wgpu.Color
	camera                    camera.Camera
	defaultPipelineDescriptor *pipeline.Descriptor

	models          resource.Cache[*model.ModelData]
	shaders         resource.Cache[*compiledShader]
	layouts         resource.Cache[*wgpu.BindGroupLayout]
	pipelineLayouts resource.Cache[*wgpu.PipelineLayout]
	pipelines       resource.Cache[*wgpu.RenderPipeline]
	samplers        resource.Cache[*wgpu.Sampler]

	globalTime     *wgpu.Buffer
	globalViewProj *wgpu.Buffer
	global         *binding.Group

	objects    *scene_object.Arena[*scene_object.SceneObject]
	sceneQueue []scene_object.Handle
}

// RenderManager owns every cached GPU resource of the scene and the ordered queue of scene
// objects drawn each frame. Entity kinds are registered with LoadEntity and instantiated with
// SpawnSceneObjectEntity.
type RenderManager interface {
	entity.Manager

	// Render draws one frame: it applies a pending resize, binds the global group, uploads time
	// and transforms, and issues one draw per model group for every queued scene object in
	// spawn order.
	//
	// Returns:
	//   - error: an error if the frame could not be acquired
	Render() error

	// SetResize records a new surface size. It is applied at the start of the next Render or
	// UpdateResize, never during a frame.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	SetResize(width, height int)

	// UpdateResize applies a pending resize.
	//
	// Returns:
	//   - bool: true if a resize was applied
	UpdateResize() bool

	// SetCamera sets the camera whose projection * view matrix is applied to every transform.
	// A nil camera draws transforms as given.
	//
	// Parameters:
	//   - cam: the camera, or nil
	SetCamera(cam camera.Camera)

	// Camera returns the current camera, or nil.
	Camera() camera.Camera

	// SetClearColor sets the color every frame is cleared to.
	SetClearColor(c wgpu.Color)

	// AddModel registers a model under name, replacing any previous model of that name.
	//
	// Parameters:
	//   - name: the model name
	//   - m: the model
	AddModel(name string, m *model.ModelData)

	// Queue returns the handles of the queued scene objects in draw order.
	//
	// Returns:
	//   - []scene_object.Handle: a copy of the scene queue
	Queue() []scene_object.Handle

	// Elapsed returns the time since the manager was created, as written to the time uniform.
	Elapsed() time.Duration

	core() *renderManager
}

var _ RenderManager = &renderManager{}

// NewRenderManager creates a RenderManager on ctx. It creates the global and scene object bind
// group layouts, the global bind group, the default sampler and the default shader and pipeline,
// and configures the surface to width x height. It panics if any of these cannot be created.
//
// Parameters:
//   - ctx: the GPU context
//   - width: the initial surface width in pixels
//   - height: the initial surface height in pixels
//   - options: functional options
//
// Returns:
//   - RenderManager: the render manager
func NewRenderManager(ctx renderer.GPUContext, width, height int, options ...RenderManagerBuilderOption) RenderManager {
	m := &renderManager{
		mu:                        &sync.Mutex{},
		ctx:                       ctx,
		preProcessor:              shader.NewPreProcessor(),
		clock:                     time.Now,
		width:                     width,
		height:                    height,
		clearColor:                wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		defaultPipelineDescriptor: pipeline.New(),
		objects:                   scene_object.NewArena[*scene_object.SceneObject](),
	}
	for _, opt := range options {
		opt(m)
	}
	m.start = m.clock()
	m.ctx.ConfigureSurface(width, height)

	globalLayout := mustCreate(binding.NewLayout(ctx, GlobalLayoutKey, globalLayoutEntries()))
	sceneLayout := mustCreate(binding.NewLayout(ctx, SceneObjectLayoutKey, scene_object.SceneLayoutEntries()))
	m.layouts = resource.NewCache("bind group layout", sceneLayout)
	m.layouts.Set(GlobalLayoutKey, globalLayout)
	m.layouts.Set(SceneObjectLayoutKey, sceneLayout)

	m.globalTime = mustCreate(ctx.CreateBuffer("global_time", camera.TimeSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst))
	m.globalViewProj = mustCreate(ctx.CreateBuffer("global_view_proj", camera.ViewProjSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst))
	m.global = mustCreate(binding.NewGroup(ctx, "global", globalLayout, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: m.globalTime, Size: camera.TimeSize},
		{Binding: 1, Buffer: m.globalViewProj, Size: camera.ViewProjSize},
	}))

	sampler := mustCreate(ctx.CreateSampler(resource.DefaultKey, common.SamplerStagingData{}))
	m.samplers = resource.NewCache("sampler", sampler)

	slots := groupSlots(false, false)
	defaultShader := m.compileShader(shader.NewProgram(resource.DefaultKey, shader.DefaultSource), slots)
	m.shaders = resource.NewCache("shader", defaultShader)

	defaultLayout := mustCreate(ctx.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            PipelineLayoutKey(resource.DefaultKey),
		BindGroupLayouts: []*wgpu.BindGroupLayout{globalLayout, sceneLayout},
	}))
	m.pipelineLayouts = resource.NewCache("pipeline layout", defaultLayout)

	defaultPipeline := mustCreate(m.defaultPipelineDescriptor.Compile(ctx, PipelineKey(resource.DefaultKey),
		defaultLayout, defaultShader.module, defaultShader.program, common.ColorVertex{}.VertexLayout()))
	m.pipelines = resource.NewCache("pipeline", defaultPipeline)

	m.models = resource.NewCache[*model.ModelData]("model", nil)

	log.Debugf("render manager ready at %dx%d", width, height)
	return m
}

func globalLayoutEntries() []wgpu.BindGroupLayoutEntry {
	vis := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	return []wgpu.BindGroupLayoutEntry{
		binding.KindUniformBuffer.LayoutEntry(0, vis),
		binding.KindUniformBuffer.LayoutEntry(1, vis),
	}
}

func mustCreate[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Errorf("render_manager: %w", err))
	}
	return v
}

func (m *renderManager) core() *renderManager {
	return m
}

func (m *renderManager) GPU() renderer.GPUContext {
	return m.ctx
}

func (m *renderManager) SceneObject(h scene_object.Handle) (*scene_object.SceneObject, bool) {
	return m.objects.Get(h)
}

func (m *renderManager) Despawn(h scene_object.Handle) bool {
	obj, ok := m.objects.Remove(h)
	if !ok {
		return false
	}
	m.sceneQueue = slices.DeleteFunc(m.sceneQueue, func(q scene_object.Handle) bool { return q == h })
	obj.Release(m.ctx)
	log.Debugf("despawned scene object %q (%s)", obj.Name(), h)
	return true
}

func (m *renderManager) Model(name string) (*model.ModelData, bool) {
	mdl, ok := m.models.Lookup(ModelKey(name))
	return mdl, ok && mdl != nil
}

func (m *renderManager) DefaultSampler() *wgpu.Sampler {
	return m.samplers.FetchDefault()
}

func (m *renderManager) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

func (m *renderManager) WorldToWindow(x, y float32) (float32, float32) {
	w, h := m.Size()
	return common.WorldToWindow(x, y, float32(w), float32(h))
}

func (m *renderManager) WindowToWorld(x, y float32) (float32, float32) {
	w, h := m.Size()
	return common.WindowToWorld(x, y, float32(w), float32(h))
}

func (m *renderManager) SetResize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingW, m.pendingH = width, height
	m.resizeDirty = true
}

func (m *renderManager) UpdateResize() bool {
	m.mu.Lock()
	if !m.resizeDirty {
		m.mu.Unlock()
		return false
	}
	w, h := m.pendingW, m.pendingH
	m.resizeDirty = false
	if w <= 0 || h <= 0 {
		m.mu.Unlock()
		return false
	}
	m.width, m.height = w, h
	cam := m.camera
	m.mu.Unlock()

	m.ctx.ConfigureSurface(w, h)
	if cam != nil {
		cam.SetAspect(float32(w) / float32(h))
	}
	log.Infof("surface resized to %dx%d", w, h)
	return true
}

func (m *renderManager) SetCamera(cam camera.Camera) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.camera = cam
	if cam != nil && m.height > 0 {
		cam.SetAspect(float32(m.width) / float32(m.height))
	}
}

func (m *renderManager) Camera() camera.Camera {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.camera
}

func (m *renderManager) SetClearColor(c wgpu.Color) {
	m.clearColor = c
}

func (m *renderManager) AddModel(name string, mdl *model.ModelData) {
	if mdl == nil {
		panic(fmt.Sprintf("render_manager: model %q is nil", name))
	}
	if err := mdl.Validate(); err != nil {
		panic(fmt.Errorf("render_manager: %w", err))
	}
	if m.models.Set(ModelKey(name), mdl) {
		log.Noticef("model %q replaced", name)
	} else {
		log.Debugf("model %q registered", name)
	}
}

func (m *renderManager) Queue() []scene_object.Handle {
	return slices.Clone(m.sceneQueue)
}

func (m *renderManager) Elapsed() time.Duration {
	return m.clock().Sub(m.start)
}

func (m *renderManager) Render() error {
	m.UpdateResize()

	pass, err := m.ctx.BeginFrame(m.clearColor)
	if err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}

	pass.SetBindGroup(groupSlots(false, false).Global, m.global.BindGroup)

	globals := camera.GPUGlobalUniform{
		Time:     float32(m.Elapsed().Seconds()),
		ViewProj: common.IdentityMat4(),
	}
	var viewProj *common.Mat4
	if cam := m.Camera(); cam != nil {
		globals.ViewProj = cam.ViewProjectionMatrix()
		viewProj = &globals.ViewProj
	}
	buf := globals.Marshal()
	m.ctx.WriteBuffer(m.globalTime, 0, buf[:camera.TimeSize])
	m.ctx.WriteBuffer(m.globalViewProj, 0, buf[camera.TimeSize:])

	for _, h := range m.sceneQueue {
		obj, ok := m.objects.Get(h)
		if !ok {
			continue
		}
		obj.UploadTransform(m.ctx, viewProj)

		mdl := obj.Model()
		slots := groupSlots(mdl.HasBindGroup(), obj.EntityGroup() != nil)
		pass.SetBindGroup(slots.SceneObject, obj.SceneGroup().BindGroup)
		if slots.HasModel {
			pass.SetBindGroup(slots.Model, mdl.BindGroup().BindGroup)
		}
		if slots.HasEntity {
			pass.SetBindGroup(slots.Entity, obj.EntityGroup().BindGroup)
		}

		pass.SetVertexBuffer(0, mdl.VertexBuffer())
		rp := obj.Pipeline()
		if rp == nil {
			rp = m.pipelines.FetchDefault()
		}
		pass.SetPipeline(rp)

		for _, r := range mdl.Groups() {
			pass.Draw(r.Len(), 1, r.Start, 0)
		}
	}

	m.ctx.EndFrame()
	m.ctx.Present()
	return nil
}

// compileShader resolves symbolic groups in program, checks every referenced group exists in a
// layout of slots.Count() groups and compiles the result. It panics naming the program key.
func (m *renderManager) compileShader(program shader.Program, slots shader.GroupSlots) *compiledShader {
	processed, err := m.preProcessor.Process(program.Source(), slots)
	if err != nil {
		panic(fmt.Errorf("render_manager: shader %q: %w", program.Key(), err))
	}
	p := shader.NewProgram(program.Key(), processed)
	for _, g := range p.Groups() {
		if int(g) >= slots.Count() {
			panic(fmt.Sprintf("render_manager: shader %q references @group(%d) but the pipeline layout has %d groups",
				p.Key(), g, slots.Count()))
		}
	}
	module, err := m.ctx.CreateShaderModule(p.Key(), processed)
	if err != nil {
		panic(fmt.Errorf("render_manager: failed to compile shader %q: %w", p.Key(), err))
	}
	return &compiledShader{program: p, module: module}
}

// registration is the type-erased result of evaluating an entity kind's declarations.
type registration struct {
	name          string
	layoutEntries []wgpu.BindGroupLayoutEntry
	slotNumbers   []uint32
	loadModel     func(renderer.GPUContext) *model.ModelData
	loadShader    func(modelGroup, entityGroup uint32) shader.Program
	loadPipeline  func() *pipeline.Descriptor
	replace       bool
}

// register builds every resource of one entity kind, then caches them. Nothing is cached when
// any step panics, so a failed reload leaves the previous registration intact.
func (m *renderManager) register(r registration) {
	name := r.name

	// entity bind group layout
	var entityLayout *wgpu.BindGroupLayout
	newLayout := false
	if len(r.layoutEntries) > 0 {
		if existing, ok := m.layouts.Lookup(BindGroupLayoutKey(name)); ok && !r.replace {
			entityLayout = existing
		} else {
			entityLayout = mustCreate(binding.NewLayout(m.ctx, BindGroupLayoutKey(name), r.layoutEntries))
			newLayout = true
		}
	}

	// model
	mdl := r.loadModel(m.ctx)
	if mdl == nil {
		panic(fmt.Sprintf("render_manager: entity %q returned no model", name))
	}
	if err := mdl.Validate(); err != nil {
		panic(fmt.Errorf("render_manager: %w", err))
	}

	// layouts in positional order
	slots := groupSlots(mdl.HasBindGroup(), entityLayout != nil)
	layouts := []*wgpu.BindGroupLayout{
		m.layouts.Fetch(GlobalLayoutKey),
		m.layouts.Fetch(SceneObjectLayoutKey),
	}
	if slots.HasModel {
		layouts = append(layouts, mdl.BindGroup().Layout)
	}
	if slots.HasEntity {
		layouts = append(layouts, entityLayout)
	}

	// shader
	var compiled *compiledShader
	if program := r.loadShader(slots.Model, slots.Entity); program != nil {
		compiled = m.compileShader(shader.NewProgram(ShaderKey(name), program.Source()), slots)
		m.checkEntityDeclarations(name, compiled.program, slots, r.slotNumbers)
	} else {
		compiled = m.shaders.FetchDefault()
	}

	// pipeline layout and pipeline
	desc := r.loadPipeline()
	var pl *wgpu.PipelineLayout
	var rp *wgpu.RenderPipeline
	if desc == nil && len(layouts) == 2 && compiled == m.shaders.FetchDefault() {
		pl = m.pipelineLayouts.FetchDefault()
		rp = m.pipelines.FetchDefault()
	} else {
		if desc == nil {
			desc = m.defaultPipelineDescriptor
		}
		pl = mustCreate(m.ctx.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
			Label:            PipelineLayoutKey(name),
			BindGroupLayouts: layouts,
		}))
		rp = mustCreate(desc.Compile(m.ctx, PipelineKey(name), pl, compiled.module, compiled.program, mdl.VertexLayout()))
	}

	// commit
	if newLayout {
		setLogged(m.layouts, "bind group layout", BindGroupLayoutKey(name), entityLayout)
	}
	m.AddModel(ModelKey(name), mdl)
	setLogged(m.shaders, "shader", ShaderKey(name), compiled)
	setLogged(m.pipelineLayouts, "pipeline layout", PipelineLayoutKey(name), pl)
	setLogged(m.pipelines, "pipeline", PipelineKey(name), rp)

	if r.replace {
		m.objects.Each(func(_ scene_object.Handle, obj *scene_object.SceneObject) bool {
			if obj.PipelineKey() == PipelineKey(name) {
				obj.SetPipeline(PipelineKey(name), rp)
			}
			return true
		})
	}
	log.Debugf("entity %q registered with %d bind groups", name, len(layouts))
}

// setLogged stores v under key and logs when it replaces an earlier entry.
func setLogged[T any](c resource.Cache[T], kind, key string, v T) {
	if c.Set(key, v) {
		log.Noticef("%s %q replaced", kind, key)
	}
}

// checkEntityDeclarations warns about entity group bindings the shader declares but the binding
// manifest does not provide.
func (m *renderManager) checkEntityDeclarations(name string, p shader.Program, slots shader.GroupSlots, manifest []uint32) {
	if !slots.HasEntity {
		return
	}
	for _, d := range p.GroupDeclarations(slots.Entity) {
		if !slices.Contains(manifest, d.Binding) {
			log.Warningf("entity %q shader declares %s at @binding(%d) with no matching binder", name, d.Name, d.Binding)
		}
	}
}

// spawn creates the scene object for a new instance. instantiate runs after the object exists
// and returns the entity bind group entries for the instance, or nil when the kind has none.
func (m *renderManager) spawn(name, objectName string, instantiate func(h scene_object.Handle) []wgpu.BindGroupEntry, hasBindings bool) scene_object.Handle {
	mdl := m.models.Fetch(ModelKey(name))
	rp := m.pipelines.Fetch(PipelineKey(name))

	h := m.objects.Insert(nil)
	obj, err := scene_object.New(m.ctx, h, objectName, mdl, PipelineKey(name), rp, m.layouts.Fetch(SceneObjectLayoutKey))
	if err != nil {
		m.objects.Remove(h)
		panic(fmt.Errorf("render_manager: %w", err))
	}
	m.objects.Set(h, obj)

	entries := instantiate(h)
	if hasBindings {
		layout := m.layouts.Fetch(BindGroupLayoutKey(name))
		g, err := binding.NewGroup(m.ctx, objectName+"_entity", layout, entries)
		if err != nil {
			panic(fmt.Errorf("render_manager: entity bind group for %q: %w", objectName, err))
		}
		obj.AttachEntityGroup(g)
	}

	m.sceneQueue = append(m.sceneQueue, h)
	log.Debugf("spawned %q as %q (%s)", name, objectName, h)
	return h
}
