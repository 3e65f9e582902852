package model

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// model is the implementation of the Model interface.
type model struct {
	name                  string
	mesh                  *Mesh
	material              material.Material
	transform             mgl32.Mat4
	boundingRadius        float32
	vertexData, indexData []byte
	indexCount            int
}

// Model defines the interface for one draw object: an extracted mesh paired with
// its flattened material and the world transform accumulated down the scene graph.
// It is produced by the Loader and consumed by whatever uploads and draws it.
type Model interface {
	// Name retrieves the draw object identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Mesh retrieves the extracted vertex streams.
	//
	// Returns:
	//   - *Mesh: the mesh
	Mesh() *Mesh

	// Material retrieves the flattened material.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// Transform retrieves the model-to-world transform snapshot.
	//
	// Returns:
	//   - mgl32.Mat4: the transform
	Transform() mgl32.Mat4

	// Kind retrieves the primitive assembly mode of the mesh.
	//
	// Returns:
	//   - DrawKind: the draw kind, DrawNone when no mesh is set
	Kind() DrawKind

	// ModelData packs the transform for GPU upload.
	//
	// Returns:
	//   - GPUModelData: the packed transform
	ModelData() GPUModelData

	// VertexData returns the interleaved vertex bytes of the mesh.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the index bytes of the mesh, nil for non-indexed meshes.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the bounding sphere radius for this model, measured as
	// the maximum vertex distance from the origin in model space.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// Vertex and index bytes are derived from the mesh once all options are applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{transform: mgl32.Ident4()}
	for _, opt := range options {
		opt(m)
	}
	if m.mesh != nil {
		m.vertexData = MarshalVertices(m.mesh.Interleave())
		m.indexData = MarshalIndices(m.mesh.Indices)
		m.indexCount = len(m.mesh.Indices)
		m.boundingRadius = ComputeBoundingRadius(m.mesh.Positions)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Mesh() *Mesh {
	return m.mesh
}

func (m *model) Material() material.Material {
	return m.material
}

func (m *model) Transform() mgl32.Mat4 {
	return m.transform
}

func (m *model) Kind() DrawKind {
	if m.mesh == nil {
		return DrawNone
	}
	return m.mesh.Kind
}

func (m *model) ModelData() GPUModelData {
	return NewGPUModelData(m.transform)
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}
