package loader

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defineNames(m material.Material) []string {
	var names []string
	for _, d := range m.Defines() {
		names = append(names, d.Name)
	}
	return names
}

func TestSingleTriangleScene(t *testing.T) {
	b := newDocBuilder()
	mat := b.material(&gltf.Material{
		Name:                 "Red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 0, 0, 1}},
	})
	b.scene("root", b.node(&gltf.Node{Mesh: ptr(b.mesh("tri", b.triangle(ptr(mat))))}))

	ctx := newTestContext(t, b.doc)
	require.NoError(t, walkScene(ctx))
	require.Len(t, ctx.models, 1)

	m := ctx.models[0]
	assert.Equal(t, "tri", m.Name())
	assert.Equal(t, model.DrawTriangles, m.Kind())
	assert.Equal(t, mgl32.Ident4(), m.Transform())

	mesh := m.Mesh()
	assert.Equal(t, 3, mesh.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	require.Len(t, mesh.Normals, 3)
	for _, n := range mesh.Normals {
		assert.InDeltaSlice(t, []float32{0, 0, 1}, n[:], 1e-6)
	}
	assert.Empty(t, mesh.Tangents, "no texcoords means no tangents")

	assert.Equal(t, "red", m.Material().Name())
	assert.Equal(t, []string{
		"MATERIAL_NAME_RED",
		material.BaseColor,
		material.Emissive,
		material.Roughness,
		material.Metallic,
	}, defineNames(m.Material()))
	assert.Empty(t, m.Material().TextureBindings())

	base, ok := m.Material().Define(material.BaseColor)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 0, 0, 1}, base.Values)
	rough, _ := m.Material().Define(material.Roughness)
	assert.Equal(t, float32(1), rough.Float())
	assert.Equal(t, 0, ctx.uniforms.Len())
}

func TestExtractPrimitiveSequenceLengths(t *testing.T) {
	b := newDocBuilder()
	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION:   b.floats(gltf.AccessorVec3, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0),
			gltf.TEXCOORD_0: b.floats(gltf.AccessorVec2, 0, 0, 1, 0, 1, 1, 0, 1),
			gltf.COLOR_0:    b.floats(gltf.AccessorVec3, 1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 1),
			"_BATCHID":      b.floats(gltf.AccessorScalar, 0, 0, 0, 0),
		},
		Indices: ptr(b.indices(0, 1, 2, 2, 3, 0)),
		Mode:    gltf.PrimitiveTriangles,
	}

	ctx := newTestContext(t, b.doc)
	require.NoError(t, extractPrimitive(ctx, prim, mgl32.Ident4(), "quad"))
	require.Len(t, ctx.models, 1)

	mesh := ctx.models[0].Mesh()
	n := mesh.VertexCount()
	assert.Equal(t, 4, n)
	assert.Len(t, mesh.Normals, n)
	assert.Len(t, mesh.TexCoords, n)
	assert.Len(t, mesh.Colors, n)
	assert.Len(t, mesh.Tangents, n)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, mesh.Colors[0], "rgb colors keep opaque alpha")

	// UVs increase along +X, so the generated tangent points along +X with right handedness.
	for _, tan := range mesh.Tangents {
		assert.InDeltaSlice(t, []float32{1, 0, 0, 1}, tan[:], 1e-5)
	}
	assert.Equal(t, material.DefaultName, ctx.models[0].Material().Name())
}

func TestExtractPrimitiveTangentSource(t *testing.T) {
	build := func() (*gltf.Document, *gltf.Primitive) {
		b := newDocBuilder()
		prim := b.triangle(nil)
		prim.Attributes[gltf.TEXCOORD_0] = b.floats(gltf.AccessorVec2, 0, 0, 1, 0, 0, 1)
		prim.Attributes[gltf.TANGENT] = b.floats(gltf.AccessorVec4, 0, 1, 0, -1, 0, 1, 0, -1, 0, 1, 0, -1)
		return b.doc, prim
	}

	t.Run("overwritten by default", func(t *testing.T) {
		doc, prim := build()
		ctx := newTestContext(t, doc)
		require.NoError(t, extractPrimitive(ctx, prim, mgl32.Ident4(), "tri"))
		assert.InDeltaSlice(t, []float32{1, 0, 0, 1}, ctx.models[0].Mesh().Tangents[0][:], 1e-5)
	})

	t.Run("preserved on request", func(t *testing.T) {
		doc, prim := build()
		ctx := newTestContext(t, doc)
		ctx.preserveTangents = true
		require.NoError(t, extractPrimitive(ctx, prim, mgl32.Ident4(), "tri"))
		assert.Equal(t, [4]float32{0, 1, 0, -1}, ctx.models[0].Mesh().Tangents[0])
	})
}

func TestExtractPrimitiveModes(t *testing.T) {
	tests := []struct {
		mode   gltf.PrimitiveMode
		kind   model.DrawKind
		normal [3]float32
	}{
		{gltf.PrimitivePoints, model.DrawPoints, [3]float32{0, 1, 0}},
		{gltf.PrimitiveLines, model.DrawLines, [3]float32{0, 1, 0}},
		{gltf.PrimitiveTriangleStrip, model.DrawTriangleStrip, [3]float32{0, 0, 1}},
		{gltf.PrimitiveTriangleFan, model.DrawTriangleFan, [3]float32{0, 0, 1}},
		{gltf.PrimitiveLineStrip, model.DrawNone, [3]float32{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			b := newDocBuilder()
			prim := &gltf.Primitive{
				Attributes: map[string]int{
					gltf.POSITION: b.floats(gltf.AccessorVec3, 0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0),
				},
				Mode: tt.mode,
			}
			ctx := newTestContext(t, b.doc)
			require.NoError(t, extractPrimitive(ctx, prim, mgl32.Ident4(), "p"))

			mesh := ctx.models[0].Mesh()
			assert.Equal(t, tt.kind, mesh.Kind)
			require.Len(t, mesh.Normals, 4, "computed normals match the vertex count")
			assert.InDeltaSlice(t, tt.normal[:], mesh.Normals[1][:], 1e-6)
		})
	}
}

func TestExtractPrimitiveVerboseDiagnostics(t *testing.T) {
	b := newDocBuilder()
	mat := b.material(&gltf.Material{Name: "Red"})
	mesh := b.mesh("tri", b.triangle(ptr(mat)))

	ctx, logs := observedContext(t, b.doc)
	ctx.verbose = true
	require.NoError(t, extractMesh(ctx, mesh, "", mgl32.Ident4()))

	decoded := logs.FilterMessage("primitive decoded").All()
	require.Len(t, decoded, 1)
	fields := decoded[0].ContextMap()
	assert.Equal(t, "triangles", fields["kind"])
	assert.Equal(t, int64(3), fields["vertices"])
	assert.Equal(t, int64(0), fields["colors"])
	assert.Equal(t, int64(0), fields["normals"])
	assert.Equal(t, int64(0), fields["uvs"])
	assert.Equal(t, int64(3), fields["indices"])
	assert.Equal(t, int64(1), fields["triangles"])

	assert.Equal(t, 1, logs.FilterMessage("parsing mesh").Len())
	assert.Equal(t, 1, logs.FilterMessage("parsing primitive").Len())
	assert.Equal(t, 1, logs.FilterMessage("computed normals").Len())
	assert.Zero(t, logs.FilterMessage("computed tangents").Len(), "no texcoords, no tangents")
}

func TestExtractPrimitiveErrors(t *testing.T) {
	b := newDocBuilder()
	shorts := b.accessor(b.view(make([]byte, 20), 0), 0, gltf.ComponentShort, gltf.AccessorVec3, 3)
	floatIdx := b.floats(gltf.AccessorScalar, 0, 1, 2)
	pos := b.floats(gltf.AccessorVec3, 0, 0, 0, 1, 0, 0, 0, 1, 0)

	tests := []struct {
		name string
		prim *gltf.Primitive
		want error
	}{
		{"short positions", &gltf.Primitive{Attributes: map[string]int{gltf.POSITION: shorts}}, ErrUnsupportedComponentType},
		{"float indices", &gltf.Primitive{Attributes: map[string]int{gltf.POSITION: pos}, Indices: ptr(floatIdx)}, ErrUnsupportedIndexType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(t, b.doc)
			err := extractPrimitive(ctx, tt.prim, mgl32.Ident4(), "bad")
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, ctx.models)
		})
	}

	ctx := newTestContext(t, b.doc)
	err := extractPrimitive(ctx, &gltf.Primitive{Attributes: map[string]int{gltf.POSITION: pos}, Material: ptr(7)}, mgl32.Ident4(), "bad")
	assert.Error(t, err)
}

func TestExtractMeshNaming(t *testing.T) {
	b := newDocBuilder()
	named := b.mesh("body", b.triangle(nil), b.triangle(nil))
	anonymous := b.mesh("", b.triangle(nil))

	ctx := newTestContext(t, b.doc)
	require.NoError(t, extractMesh(ctx, named, "node", mgl32.Ident4()))
	require.NoError(t, extractMesh(ctx, anonymous, "node", mgl32.Ident4()))
	require.NoError(t, extractMesh(ctx, anonymous, "", mgl32.Ident4()))

	var names []string
	for _, m := range ctx.models {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"body", "body_prim1", "node", "mesh_1"}, names)
	assert.Same(t, ctx.models[0].Material(), ctx.models[1].Material(), "the default material is shared")

	assert.Error(t, extractMesh(ctx, 5, "", mgl32.Ident4()))
}

func TestGenerateNormalsDegenerate(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {5, 5, 5}}
	normals := generateNormals(positions, [][3]uint32{{0, 1, 2}})
	require.Len(t, normals, 4)
	for _, n := range normals {
		assert.Equal(t, [3]float32{0, 1, 0}, n)
	}
}
