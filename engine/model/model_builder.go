package model

import (
	"github.com/Carmen-Shannon/safehouse/engine/renderer/binding"
)

// ModelBuilderOption is a functional option for configuring a ModelData.
type ModelBuilderOption func(*ModelData)

// WithGroups is an option builder that sets the vertex ranges drawn for the model.
//
// Parameters:
//   - groups: the vertex ranges in draw order
//
// Returns:
//   - ModelBuilderOption: a function that applies the groups option to a model
func WithGroups(groups ...Range) ModelBuilderOption {
	return func(m *ModelData) {
		m.groups = groups
	}
}

// WithBindGroup is an option builder that attaches a model-level bind group. The group's layout
// becomes the model slot of every pipeline layout built for the model.
//
// Parameters:
//   - g: the bind group and its layout
//
// Returns:
//   - ModelBuilderOption: a function that applies the bind group option to a model
func WithBindGroup(g *binding.Group) ModelBuilderOption {
	return func(m *ModelData) {
		m.group = g
	}
}
