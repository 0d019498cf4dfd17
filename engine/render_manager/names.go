package render_manager

// Cache keys of the engine-wide resources.
const (
	GlobalLayoutKey      = "global_bglayout"
	SceneObjectLayoutKey = "scene_object_bglayout"
)

// ModelKey returns the model cache key of an entity kind.
func ModelKey(name string) string {
	return name
}

// ShaderKey returns the shader cache key of an entity kind.
func ShaderKey(name string) string {
	return name + "_shader"
}

// PipelineLayoutKey returns the pipeline layout cache key of an entity kind.
func PipelineLayoutKey(name string) string {
	return name + "_pipelayout"
}

// PipelineKey returns the pipeline cache key of an entity kind.
func PipelineKey(name string) string {
	return name + "_pipeline"
}

// BindGroupLayoutKey returns the entity bind group layout cache key of an entity kind.
func BindGroupLayoutKey(name string) string {
	return name + "_bglayout"
}
