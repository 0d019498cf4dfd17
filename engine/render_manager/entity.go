package render_manager

import (
	"fmt"

	"github.com/Carmen-Shannon/safehouse/engine/entity"
	"github.com/Carmen-Shannon/safehouse/engine/model"
	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/binding"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/shader"
	"github.com/Carmen-Shannon/safehouse/engine/scene_object"
	"github.com/cogentcore/webgpu/wgpu"
)

// LoadEntity registers an entity kind: its entity bind group layout (get-or-create), model,
// shader, pipeline layout and pipeline, each cached under a key derived from e.Name().
// Registering a kind again overwrites its model, shader and pipeline entries.
//
// It panics if the binding manifest repeats a slot, the model is nil or invalid, the shader
// references a group the kind does not have, or any GPU object cannot be created.
//
// Parameters:
//   - rm: the render manager
//   - e: the entity kind
func LoadEntity[T any](rm RenderManager, e entity.Entity[T]) {
	rm.core().register(newRegistration(rm, e, false))
}

// Reload re-registers an entity kind, replacing every cached resource of the kind including
// its entity bind group layout. Live scene objects of the kind switch to the new pipeline.
//
// Parameters:
//   - rm: the render manager
//   - e: the entity kind
func Reload[T any](rm RenderManager, e entity.Entity[T]) {
	rm.core().register(newRegistration(rm, e, true))
	log.Noticef("entity %q reloaded", e.Name())
}

func newRegistration[T any](rm RenderManager, e entity.Entity[T], replace bool) registration {
	binders := e.LoadBindings()
	if err := binding.Validate(binders); err != nil {
		panic(fmt.Sprintf("render_manager: entity %q: %v", e.Name(), err))
	}
	slotNumbers := make([]uint32, len(binders))
	for i, b := range binders {
		slotNumbers[i] = b.Slot()
	}
	return registration{
		name:          e.Name(),
		layoutEntries: binding.LayoutEntries(binders),
		slotNumbers:   slotNumbers,
		loadModel:     func(ctx renderer.GPUContext) *model.ModelData { return e.LoadModel(ctx) },
		loadShader: func(modelGroup, entityGroup uint32) shader.Program {
			return e.LoadShader(rm, modelGroup, entityGroup)
		},
		loadPipeline: func() *pipeline.Descriptor { return e.LoadPipeline(rm) },
		replace:      replace,
	}
}

// SpawnSceneObjectEntity creates a scene object of a registered kind and appends it to the
// scene queue. The object gets an identity transform and its scene object bind group before
// e.OnInstantiate runs; if the kind declares bindings, the entity bind group is then built from
// the returned instance.
//
// It panics with a *resource.MissingError if the kind was not loaded, or with a wrapped GPU
// error if the entity bind group cannot be created.
//
// Parameters:
//   - rm: the render manager
//   - e: the entity kind
//   - objectName: the scene object name, used for GPU labels
//
// Returns:
//   - T: the instance returned by e.OnInstantiate
func SpawnSceneObjectEntity[T any](rm RenderManager, e entity.Entity[T], objectName string) T {
	binders := e.LoadBindings()
	var inst T
	rm.core().spawn(e.Name(), objectName, func(h scene_object.Handle) []wgpu.BindGroupEntry {
		inst = e.OnInstantiate(rm, h)
		if len(binders) == 0 {
			return nil
		}
		return binding.BindingEntries(binders, inst)
	}, len(binders) > 0)
	return inst
}
