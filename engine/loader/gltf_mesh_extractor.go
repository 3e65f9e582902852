package loader

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// gltfDrawKind maps a glTF primitive mode to a draw kind. Line strips and unknown
// modes map to DrawNone.
func gltfDrawKind(mode gltf.PrimitiveMode) model.DrawKind {
	switch mode {
	case gltf.PrimitivePoints:
		return model.DrawPoints
	case gltf.PrimitiveLines:
		return model.DrawLines
	case gltf.PrimitiveLineLoop:
		return model.DrawLineLoop
	case gltf.PrimitiveTriangles:
		return model.DrawTriangles
	case gltf.PrimitiveTriangleStrip:
		return model.DrawTriangleStrip
	case gltf.PrimitiveTriangleFan:
		return model.DrawTriangleFan
	default:
		return model.DrawNone
	}
}

// extractMesh extracts every primitive of a mesh with the node's world transform.
func extractMesh(ctx *loadContext, meshIndex int, nodeName string, transform mgl32.Mat4) error {
	if meshIndex < 0 || meshIndex >= len(ctx.doc.Meshes) {
		return fmt.Errorf("mesh index %d out of range", meshIndex)
	}
	mesh := ctx.doc.Meshes[meshIndex]

	name := common.Coalesce(mesh.Name, nodeName, fmt.Sprintf("mesh_%d", meshIndex))

	ctx.soft("parsing mesh", zap.String("mesh", name), zap.Int("primitives", len(mesh.Primitives)))
	for primIdx, prim := range mesh.Primitives {
		ctx.soft("parsing primitive", zap.String("mesh", name), zap.Int("primitive", primIdx+1), zap.Int("of", len(mesh.Primitives)))
		primName := name
		if primIdx > 0 {
			primName = fmt.Sprintf("%s_prim%d", name, primIdx)
		}
		if err := extractPrimitive(ctx, prim, transform, primName); err != nil {
			return fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
	}
	return nil
}

// extractPrimitive decodes one primitive into a mesh, fills in missing normals and
// tangents, resolves its material and appends the resulting draw object to ctx.
//
// Parameters:
//   - ctx: the load context receiving the draw object
//   - prim: the primitive to extract
//   - transform: the world transform of the owning node
//   - name: the draw object name
//
// Returns:
//   - error: error if an index or attribute stream cannot be decoded, or the material cannot be resolved
func extractPrimitive(ctx *loadContext, prim *gltf.Primitive, transform mgl32.Mat4, name string) error {
	mesh := &model.Mesh{Kind: gltfDrawKind(prim.Mode)}
	if mesh.Kind == model.DrawNone {
		ctx.soft("unrecognized draw mode", zap.String("model", name), zap.Int("mode", int(prim.Mode)))
	}

	if prim.Indices != nil {
		indices, err := readIndices(ctx.doc, *prim.Indices)
		if err != nil {
			return fmt.Errorf("failed to read indices: %w", err)
		}
		mesh.Indices = indices
	}

	attrs := make([]string, 0, len(prim.Attributes))
	for attr := range prim.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	hasTangents := false
	counts := make(map[string]int, len(attrs))
	for _, attr := range attrs {
		sem := parseSemantic(attr)
		if sem == semanticUnknown {
			fields := []zap.Field{zap.String("model", name), zap.String("semantic", attr)}
			if i := prim.Attributes[attr]; i >= 0 && i < len(ctx.doc.Accessors) {
				acc := ctx.doc.Accessors[i]
				fields = append(fields,
					zap.Stringer("type", acc.Type),
					zap.Stringer("component", acc.ComponentType),
					zap.Bool("normalized", acc.Normalized),
					zap.Int("count", acc.Count))
			}
			ctx.soft("skipping unrecognized attribute", fields...)
			continue
		}

		records, err := readAttribute(ctx.doc, prim.Attributes[attr], sem.defaults())
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", attr, err)
		}
		counts[attr] = len(records)

		for _, r := range records {
			switch sem {
			case semanticPosition:
				mesh.Positions = append(mesh.Positions, [3]float32{r[0], r[1], r[2]})
			case semanticColor:
				mesh.Colors = append(mesh.Colors, r)
			case semanticNormal:
				mesh.Normals = append(mesh.Normals, [3]float32{r[0], r[1], r[2]})
			case semanticTexCoord:
				mesh.TexCoords = append(mesh.TexCoords, [2]float32{r[0], r[1]})
			case semanticTangent:
				mesh.Tangents = append(mesh.Tangents, r)
			}
		}
		if sem == semanticTangent {
			hasTangents = true
		}
	}

	vertexCount := mesh.VertexCount()
	if _, ok := counts[gltf.POSITION]; !ok {
		ctx.log.Warn("primitive has no POSITION attribute", zap.String("model", name))
	}
	for attr, n := range counts {
		if n != vertexCount {
			ctx.log.Warn("attribute count differs from vertex count",
				zap.String("model", name),
				zap.String("semantic", attr),
				zap.Int("count", n),
				zap.Int("vertices", vertexCount))
		}
	}

	fields := []zap.Field{
		zap.String("model", name),
		zap.Stringer("kind", mesh.Kind),
		zap.Int("vertices", vertexCount),
		zap.Int("colors", len(mesh.Colors)),
		zap.Int("normals", len(mesh.Normals)),
		zap.Int("uvs", len(mesh.TexCoords)),
		zap.Int("indices", len(mesh.Indices)),
	}
	switch mesh.Kind {
	case model.DrawTriangles:
		fields = append(fields, zap.Int("triangles", len(mesh.Indices)/3))
	case model.DrawLines:
		fields = append(fields, zap.Int("lines", len(mesh.Indices)/2))
	}
	ctx.soft("primitive decoded", fields...)

	tris := mesh.Triangles()
	if len(mesh.Normals) == 0 && vertexCount > 0 {
		mesh.Normals = generateNormals(mesh.Positions, tris)
		ctx.soft("computed normals", zap.String("model", name))
	}

	canGenerate := len(tris) > 0 && len(mesh.Normals) == vertexCount && len(mesh.TexCoords) == vertexCount
	if canGenerate && !(hasTangents && ctx.preserveTangents) {
		if hasTangents {
			ctx.log.Debug("overwriting source tangents", zap.String("model", name))
		}
		mesh.Tangents = generateTangents(mesh.Positions, mesh.Normals, mesh.TexCoords, tris)
		ctx.soft("computed tangents", zap.String("model", name))
	}

	mat, err := resolveMaterial(ctx, prim.Material)
	if err != nil {
		return err
	}

	ctx.models = append(ctx.models, model.NewModel(
		model.WithName(name),
		model.WithMesh(mesh),
		model.WithMaterial(mat),
		model.WithTransform(transform),
	))
	return nil
}

// resolveMaterial flattens the referenced material once per load. Primitives
// without a material get the default material.
func resolveMaterial(ctx *loadContext, index *int) (material.Material, error) {
	if index == nil {
		if ctx.defaultMaterial == nil {
			ctx.defaultMaterial = material.NewDefaultMaterial()
		}
		return ctx.defaultMaterial, nil
	}
	if mat, ok := ctx.materials[*index]; ok {
		return mat, nil
	}
	mat, err := flattenMaterial(ctx, *index)
	if err != nil {
		return nil, fmt.Errorf("material %d: %w", *index, err)
	}
	ctx.materials[*index] = mat
	return mat, nil
}

// generateNormals computes smooth vertex normals from triangle geometry. Each face
// normal is the cross product of two edges, so its length weights the contribution
// by triangle area. Vertices touched by no triangle, or only by degenerate ones,
// get the up vector.
//
// Parameters:
//   - positions: the vertex positions
//   - tris: the triangles assembled from the draw kind
//
// Returns:
//   - [][3]float32: one normal per position
func generateNormals(positions [][3]float32, tris [][3]uint32) [][3]float32 {
	n := len(positions)
	accum := make([]mgl32.Vec3, n)

	for _, tri := range tris {
		if int(tri[0]) >= n || int(tri[1]) >= n || int(tri[2]) >= n {
			continue
		}
		p0, p1, p2 := mgl32.Vec3(positions[tri[0]]), mgl32.Vec3(positions[tri[1]]), mgl32.Vec3(positions[tri[2]])
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, idx := range tri {
			accum[idx] = accum[idx].Add(face)
		}
	}

	normals := make([][3]float32, n)
	for i, a := range accum {
		if a.Len() < 1e-6 {
			normals[i] = [3]float32{0, 1, 0}
			continue
		}
		normals[i] = a.Normalize()
	}
	return normals
}

// generateTangents computes per-vertex tangents with the UV-gradient method: per-triangle
// tangent and bitangent directions are accumulated per vertex, then each tangent is
// Gram-Schmidt orthonormalized against the vertex normal. W stores handedness (±1).
//
// Parameters:
//   - positions: the vertex positions
//   - normals: one normal per position
//   - uvs: one texture coordinate per position
//   - tris: the triangles assembled from the draw kind
//
// Returns:
//   - [][4]float32: one tangent per position
func generateTangents(positions, normals [][3]float32, uvs [][2]float32, tris [][3]uint32) [][4]float32 {
	n := len(positions)
	tan := make([]mgl32.Vec3, n)
	btan := make([]mgl32.Vec3, n)

	for _, tri := range tris {
		if int(tri[0]) >= n || int(tri[1]) >= n || int(tri[2]) >= n {
			continue
		}
		p0 := mgl32.Vec3(positions[tri[0]])
		edge1 := mgl32.Vec3(positions[tri[1]]).Sub(p0)
		edge2 := mgl32.Vec3(positions[tri[2]]).Sub(p0)

		uv0 := mgl32.Vec2(uvs[tri[0]])
		duv1 := mgl32.Vec2(uvs[tri[1]]).Sub(uv0)
		duv2 := mgl32.Vec2(uvs[tri[2]]).Sub(uv0)

		det := duv1[0]*duv2[1] - duv1[1]*duv2[0]
		if det == 0 {
			continue
		}
		invDet := 1 / det

		t := edge1.Mul(duv2[1]).Sub(edge2.Mul(duv1[1])).Mul(invDet)
		b := edge2.Mul(duv1[0]).Sub(edge1.Mul(duv2[0])).Mul(invDet)
		for _, idx := range tri {
			tan[idx] = tan[idx].Add(t)
			btan[idx] = btan[idx].Add(b)
		}
	}

	tangents := make([][4]float32, n)
	for i := range tangents {
		normal := mgl32.Vec3(normals[i])
		ortho := tan[i].Sub(normal.Mul(normal.Dot(tan[i])))
		if ortho.Len() < 1e-6 {
			tangents[i] = [4]float32{1, 0, 0, 1}
			continue
		}
		ortho = ortho.Normalize()

		w := float32(1)
		if normal.Cross(ortho).Dot(btan[i]) < 0 {
			w = -1
		}
		tangents[i] = [4]float32{ortho[0], ortho[1], ortho[2], w}
	}
	return tangents
}
