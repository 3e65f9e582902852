package model

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMesh is an option builder that sets the extracted mesh of the Model.
//
// Parameters:
//   - mesh: the mesh streams
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh option to a model
func WithMesh(mesh *Mesh) ModelBuilderOption {
	return func(m *model) {
		m.mesh = mesh
	}
}

// WithMaterial is an option builder that sets the flattened material of the Model.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - ModelBuilderOption: a function that applies the material option to a model
func WithMaterial(mat material.Material) ModelBuilderOption {
	return func(m *model) {
		m.material = mat
	}
}

// WithTransform is an option builder that sets the model-to-world transform.
// The matrix is copied, so later changes by the caller do not affect the Model.
//
// Parameters:
//   - transform: the accumulated transform
//
// Returns:
//   - ModelBuilderOption: a function that applies the transform option to a model
func WithTransform(transform mgl32.Mat4) ModelBuilderOption {
	return func(m *model) {
		m.transform = transform
	}
}
