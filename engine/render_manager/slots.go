package render_manager

import "github.com/Carmen-Shannon/safehouse/engine/renderer/shader"

// groupSlots assigns bind group indices positionally: global and scene object always occupy
// 0 and 1, the model group takes the next index if present, the entity group the one after.
// An absent group reports the index it would occupy. Layout assembly, shader pre-processing
// and render-time binding all go through this function.
func groupSlots(hasModel, hasEntity bool) shader.GroupSlots {
	s := shader.GroupSlots{
		Global:      0,
		SceneObject: 1,
		Model:       2,
		Entity:      2,
		HasModel:    hasModel,
		HasEntity:   hasEntity,
	}
	if hasModel {
		s.Entity = 3
	}
	return s
}
