// Package entity defines the contract a renderable kind implements to be loaded and spawned by
// the render manager.
package entity

import (
	"github.com/Carmen-Shannon/safehouse/engine/model"
	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/binding"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/shader"
	"github.com/Carmen-Shannon/safehouse/engine/scene_object"
	"github.com/cogentcore/webgpu/wgpu"
)

// Manager is the view of the render manager an entity sees while it is loaded or instantiated.
type Manager interface {
	// GPU returns the GPU context resources are created on.
	//
	// Returns:
	//   - renderer.GPUContext: the GPU context
	GPU() renderer.GPUContext

	// SceneObject resolves a handle to its scene object.
	//
	// Parameters:
	//   - h: the handle
	//
	// Returns:
	//   - *scene_object.SceneObject: the scene object, or nil
	//   - bool: false if the handle is stale
	SceneObject(h scene_object.Handle) (*scene_object.SceneObject, bool)

	// Despawn removes a scene object from the scene.
	//
	// Parameters:
	//   - h: the handle
	//
	// Returns:
	//   - bool: false if the handle was already stale
	Despawn(h scene_object.Handle) bool

	// Model returns a registered model.
	//
	// Parameters:
	//   - name: the model name
	//
	// Returns:
	//   - *model.ModelData: the model, or nil
	//   - bool: false if no model is registered under name
	Model(name string) (*model.ModelData, bool)

	// DefaultSampler returns the shared linear sampler.
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	DefaultSampler() *wgpu.Sampler

	// Size returns the current surface size in pixels.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)

	// WorldToWindow maps normalized device coordinates to window pixels.
	WorldToWindow(x, y float32) (float32, float32)

	// WindowToWorld maps window pixels to normalized device coordinates.
	WindowToWorld(x, y float32) (float32, float32)
}

// Entity is a renderable kind whose instances are values of T. Every instance of a kind shares
// the kind's model, pipeline, shader and entity bind group layout.
type Entity[T any] interface {
	// Name returns the kind name every cache key of the kind is derived from.
	//
	// Returns:
	//   - string: the kind name
	Name() string

	// OnInstantiate creates the instance for a freshly spawned scene object. GPU resources the
	// binding manifest reads must exist when it returns.
	//
	// Parameters:
	//   - rm: the render manager
	//   - h: the handle of the new scene object
	//
	// Returns:
	//   - T: the instance
	OnInstantiate(rm Manager, h scene_object.Handle) T

	// LoadBindings returns the binding manifest. An empty manifest means the kind has no entity
	// bind group.
	//
	// Returns:
	//   - []binding.Binder[T]: the binding manifest
	LoadBindings() []binding.Binder[T]

	// LoadModel creates the kind's model.
	//
	// Parameters:
	//   - ctx: the GPU context
	//
	// Returns:
	//   - *model.ModelData: the model
	LoadModel(ctx renderer.GPUContext) *model.ModelData

	// LoadPipeline returns the kind's pipeline state, or nil to use the default pipeline.
	//
	// Parameters:
	//   - rm: the render manager
	//
	// Returns:
	//   - *pipeline.Descriptor: the pipeline state, or nil
	LoadPipeline(rm Manager) *pipeline.Descriptor

	// LoadShader returns the kind's shader, or nil to use the default shader. The source may use
	// numeric group indices built from modelGroup and entityGroup, or the symbolic names
	// @group(model) and @group(entity).
	//
	// Parameters:
	//   - rm: the render manager
	//   - modelGroup: the bind group index of the model group
	//   - entityGroup: the bind group index of the entity group
	//
	// Returns:
	//   - shader.Program: the shader, or nil
	LoadShader(rm Manager, modelGroup, entityGroup uint32) shader.Program
}
