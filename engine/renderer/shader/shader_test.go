package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paneSource = `
@group(global) @binding(0) var<uniform> time: f32;
@group(scene_object) @binding(0) var<uniform> model_mat: mat4x4<f32>;
@group(entity) @binding(0) var pane_texture: texture_2d<f32>;
@group(entity) @binding(1) var pane_sampler: sampler;

// @group(model) is not referenced here
@vertex
fn vert(@location(0) pos: vec4<f32>) -> @builtin(position) vec4<f32> {
    return model_mat * pos; // @group(model)
}

@fragment
fn frag() -> @location(0) vec4<f32> {
    return textureSample(pane_texture, pane_sampler, vec2<f32>(0.0, 0.0));
}
`

func TestDefaultProgram(t *testing.T) {
	p := NewProgram("default", DefaultSource)
	assert.Equal(t, "vs_main", p.VertexEntryPoint())
	assert.Equal(t, "fs_main", p.FragmentEntryPoint())
	// symbolic groups are not numeric yet
	assert.Empty(t, p.Groups())

	out, err := NewPreProcessor().Process(DefaultSource, GroupSlots{Global: 0, SceneObject: 1, Model: 2, Entity: 2})
	require.NoError(t, err)
	processed := NewProgram("default", out)
	assert.Equal(t, []uint32{0, 1}, processed.Groups())

	decls := processed.Declarations()
	require.Len(t, decls, 3)
	assert.Equal(t, Declaration{Group: 0, Binding: 0, AddressSpace: "uniform", Name: "time", Type: "f32"}, decls[0])
	assert.Equal(t, "view_proj", decls[1].Name)
	assert.Equal(t, uint32(1), decls[2].Group)
	assert.Equal(t, "model_mat", decls[2].Name)
}

func TestProcessWithoutModelGroup(t *testing.T) {
	slots := GroupSlots{Global: 0, SceneObject: 1, Model: 2, Entity: 2, HasEntity: true}
	out, err := NewPreProcessor().Process(paneSource, slots)
	require.NoError(t, err)

	p := NewProgram("pane_shader", out)
	assert.Equal(t, []uint32{0, 1, 2}, p.Groups())
	assert.Equal(t, "vert", p.VertexEntryPoint())
	assert.Equal(t, "frag", p.FragmentEntryPoint())

	entity := p.GroupDeclarations(2)
	require.Len(t, entity, 2)
	assert.Equal(t, "pane_texture", entity[0].Name)
	assert.Equal(t, "texture_2d<f32>", entity[0].Type)
	assert.Equal(t, "sampler", entity[1].Type)

	// comments keep their symbolic text
	assert.True(t, strings.Contains(out, "// @group(model)"))
}

func TestProcessWithModelGroup(t *testing.T) {
	slots := GroupSlots{Global: 0, SceneObject: 1, Model: 2, Entity: 3, HasModel: true, HasEntity: true}
	out, err := NewPreProcessor().Process(paneSource, slots)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 3}, NewProgram("pane_shader", out).Groups())
	assert.Equal(t, 4, slots.Count())
}

func TestProcessRejectsAbsentGroup(t *testing.T) {
	slots := GroupSlots{Global: 0, SceneObject: 1, Model: 2, Entity: 2}
	_, err := NewPreProcessor().Process(paneSource, slots)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "@group(entity)")
	assert.Contains(t, err.Error(), "line 4")

	_, err = NewPreProcessor().Process("@group(lights) @binding(0) var<uniform> l: f32;", slots)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown symbolic group "lights"`)
}

func TestNumericGroupsUntouched(t *testing.T) {
	src := "@group(0) @binding(0) var<uniform> a: f32;\n@group(5) @binding(2) var<uniform> b: f32;"
	out, err := NewPreProcessor().Process(src, GroupSlots{SceneObject: 1})
	require.NoError(t, err)
	assert.Equal(t, src, out)
	assert.Equal(t, []uint32{0, 5}, NewProgram("k", out).Groups())
}

func TestStripBlockCommentsNested(t *testing.T) {
	src := "a /* b /* @group(7) */ c */ d\n// @group(9)\n@group(1)"
	assert.Equal(t, []uint32{1}, NewProgram("k", src).Groups())
}
