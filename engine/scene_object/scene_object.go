package scene_object

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine/model"
	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/binding"
	"github.com/cogentcore/webgpu/wgpu"
)

// TransformBinding is the binding index of the transform uniform within the scene object group.
const TransformBinding = 0

// SceneObject is one spawned renderable. It shares its model and pipeline with every other
// object of the same entity kind and owns its transform buffer and bind groups.
type SceneObject struct {
	mu *sync.Mutex

	handle      Handle
	name        string
	model       *model.ModelData
	pipelineKey string
	pipeline    *wgpu.RenderPipeline

	position [3]float32
	rotation [3]float32
	scale    [3]float32
	local    common.Mat4

	transform   *binding.UniformBuffer[common.Mat4]
	sceneGroup  *binding.Group
	entityGroup *binding.Group
}

// SceneLayoutEntries returns the layout entries of the scene object group.
func SceneLayoutEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		binding.KindUniformBuffer.LayoutEntry(TransformBinding, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment),
	}
}

// New creates a scene object with an identity transform and its scene object bind group.
//
// Parameters:
//   - ctx: the GPU context
//   - h: the handle the object is stored under
//   - name: the object name, used for buffer and bind group labels
//   - m: the shared model
//   - pipelineKey: the cache key of the shared pipeline
//   - rp: the shared pipeline
//   - sceneLayout: the shared scene object bind group layout
//
// Returns:
//   - *SceneObject: the scene object
//   - error: an error if the transform buffer or bind group could not be created
func New(
	ctx renderer.GPUContext,
	h Handle,
	name string,
	m *model.ModelData,
	pipelineKey string,
	rp *wgpu.RenderPipeline,
	sceneLayout *wgpu.BindGroupLayout,
) (*SceneObject, error) {
	transform, err := binding.NewUniformBuffer(ctx, name+"_transform", common.IdentityMat4())
	if err != nil {
		return nil, err
	}
	group, err := binding.NewGroup(ctx, name+"_scene_object", sceneLayout, []wgpu.BindGroupEntry{{
		Binding: TransformBinding,
		Buffer:  transform.Buffer(),
		Size:    transform.Size(),
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to create scene object %q: %w", name, err)
	}
	return &SceneObject{
		mu:          &sync.Mutex{},
		handle:      h,
		name:        name,
		model:       m,
		pipelineKey: pipelineKey,
		pipeline:    rp,
		scale:       [3]float32{1, 1, 1},
		local:       common.IdentityMat4(),
		transform:   transform,
		sceneGroup:  group,
	}, nil
}

func (o *SceneObject) Handle() Handle {
	return o.handle
}

func (o *SceneObject) Name() string {
	return o.name
}

func (o *SceneObject) Model() *model.ModelData {
	return o.model
}

func (o *SceneObject) PipelineKey() string {
	return o.pipelineKey
}

func (o *SceneObject) Pipeline() *wgpu.RenderPipeline {
	return o.pipeline
}

// SetPipeline swaps the pipeline the object is drawn with, after its kind was re-registered.
func (o *SceneObject) SetPipeline(key string, rp *wgpu.RenderPipeline) {
	o.pipelineKey = key
	o.pipeline = rp
}

func (o *SceneObject) SceneGroup() *binding.Group {
	return o.sceneGroup
}

// EntityGroup returns the entity bind group, or nil if the entity kind declares no bindings.
func (o *SceneObject) EntityGroup() *binding.Group {
	return o.entityGroup
}

// AttachEntityGroup sets the entity bind group built from the kind's binding manifest.
func (o *SceneObject) AttachEntityGroup(g *binding.Group) {
	o.entityGroup = g
}

// Transform returns the object's model matrix.
func (o *SceneObject) Transform() common.Mat4 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.local
}

// SetTransform replaces the model matrix. A later SetPosition, SetRotation, SetScale or
// Translate rebuilds the matrix from position, rotation and scale.
func (o *SceneObject) SetTransform(m common.Mat4) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.local = m
}

func (o *SceneObject) Position() (x, y, z float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.position[0], o.position[1], o.position[2]
}

func (o *SceneObject) SetPosition(x, y, z float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.position = [3]float32{x, y, z}
	o.rebuild()
}

// Translate moves the object by the given offset.
func (o *SceneObject) Translate(dx, dy, dz float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.position[0] += dx
	o.position[1] += dy
	o.position[2] += dz
	o.rebuild()
}

// SetRotation sets the Euler rotation in radians.
func (o *SceneObject) SetRotation(rx, ry, rz float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rotation = [3]float32{rx, ry, rz}
	o.rebuild()
}

func (o *SceneObject) SetScale(sx, sy, sz float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scale = [3]float32{sx, sy, sz}
	o.rebuild()
}

func (o *SceneObject) rebuild() {
	common.BuildModelMatrix(o.local[:],
		o.position[0], o.position[1], o.position[2],
		o.rotation[0], o.rotation[1], o.rotation[2],
		o.scale[0], o.scale[1], o.scale[2])
}

// UploadTransform writes the object's transform to its uniform buffer. When viewProj is non-nil
// the uploaded matrix is viewProj * model.
//
// Parameters:
//   - ctx: the GPU context
//   - viewProj: the camera projection * view matrix, or nil
func (o *SceneObject) UploadTransform(ctx renderer.GPUContext, viewProj *common.Mat4) {
	m := o.Transform()
	if viewProj != nil {
		var out common.Mat4
		common.Mul4(out[:], viewProj[:], m[:])
		m = out
	}
	o.transform.Set(m)
	o.transform.Update(ctx)
}

// Release releases the buffers and bind groups the object owns.
func (o *SceneObject) Release(ctx renderer.GPUContext) {
	o.entityGroup.Release(ctx)
	o.sceneGroup.Release(ctx)
	o.transform.Release(ctx)
}
