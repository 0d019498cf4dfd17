// pre_processor.go resolves the symbolic bind group names a WGSL source may use in place of
// numeric indices. The names are global, scene_object, model and entity; their numbers depend on
// which optional groups the entity kind has, so they are only known at registration time.
package shader

import (
	"fmt"
	"strings"
)

// Symbolic group names accepted in @group(...) attributes.
const (
	GroupGlobal      = "global"
	GroupSceneObject = "scene_object"
	GroupModel       = "model"
	GroupEntity      = "entity"
)

// GroupSlots is the positional bind group assignment of one entity kind.
type GroupSlots struct {
	Global      uint32
	SceneObject uint32
	Model       uint32
	Entity      uint32
	HasModel    bool
	HasEntity   bool
}

// Count returns the number of bind groups in the pipeline layout.
func (s GroupSlots) Count() int {
	n := 2
	if s.HasModel {
		n++
	}
	if s.HasEntity {
		n++
	}
	return n
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct{}

// PreProcessor rewrites symbolic @group names into numeric indices.
type PreProcessor interface {
	// Process replaces every @group(global), @group(scene_object), @group(model) and @group(entity)
	// in source with the index assigned by slots. Numeric @group attributes are left untouched.
	//
	// Parameters:
	//   - source: the WGSL source
	//   - slots: the group assignment of the entity kind
	//
	// Returns:
	//   - string: the processed source
	//   - error: an error if the source names an unknown group or a group the kind does not have
	Process(source string, slots GroupSlots) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor.
func NewPreProcessor() PreProcessor {
	return &preProcessor{}
}

func (p *preProcessor) Process(source string, slots GroupSlots) (string, error) {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		code, comment := line, ""
		if idx := strings.Index(line, "//"); idx >= 0 {
			code, comment = line[:idx], line[idx:]
		}
		var lineErr error
		code = symbolicGroupRegex.ReplaceAllStringFunc(code, func(m string) string {
			name := symbolicGroupRegex.FindStringSubmatch(m)[1]
			idx, err := resolveGroup(name, slots)
			if err != nil {
				if lineErr == nil {
					lineErr = fmt.Errorf("line %d: %w", i+1, err)
				}
				return m
			}
			return fmt.Sprintf("@group(%d)", idx)
		})
		if lineErr != nil {
			return "", lineErr
		}
		lines[i] = code + comment
	}
	return strings.Join(lines, "\n"), nil
}

func resolveGroup(name string, slots GroupSlots) (uint32, error) {
	switch name {
	case GroupGlobal:
		return slots.Global, nil
	case GroupSceneObject:
		return slots.SceneObject, nil
	case GroupModel:
		if !slots.HasModel {
			return 0, fmt.Errorf("@group(%s) referenced but the model has no bind group", name)
		}
		return slots.Model, nil
	case GroupEntity:
		if !slots.HasEntity {
			return 0, fmt.Errorf("@group(%s) referenced but the entity has no bindings", name)
		}
		return slots.Entity, nil
	}
	return 0, fmt.Errorf("unknown symbolic group %q", name)
}
