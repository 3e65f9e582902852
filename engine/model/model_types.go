package model

import (
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// --- Draw Kind ---

// DrawKind is the primitive assembly mode of an extracted mesh.
type DrawKind int

const (
	// DrawNone marks a primitive whose mode is not recognized.
	DrawNone DrawKind = iota
	DrawPoints
	DrawLines
	DrawLineLoop
	DrawTriangles
	DrawTriangleStrip
	DrawTriangleFan
)

var drawKindNames = [...]string{
	DrawNone:          "none",
	DrawPoints:        "points",
	DrawLines:         "lines",
	DrawLineLoop:      "line_loop",
	DrawTriangles:     "triangles",
	DrawTriangleStrip: "triangle_strip",
	DrawTriangleFan:   "triangle_fan",
}

func (k DrawKind) String() string {
	if k < 0 || int(k) >= len(drawKindNames) {
		return "unknown"
	}
	return drawKindNames[k]
}

// Topology maps the draw kind to a WebGPU primitive topology.
// Line loops and triangle fans have no WebGPU equivalent and report false.
//
// Returns:
//   - wgpu.PrimitiveTopology: the topology
//   - bool: whether the kind can be drawn directly
func (k DrawKind) Topology() (wgpu.PrimitiveTopology, bool) {
	switch k {
	case DrawPoints:
		return wgpu.PrimitiveTopologyPointList, true
	case DrawLines:
		return wgpu.PrimitiveTopologyLineList, true
	case DrawTriangles:
		return wgpu.PrimitiveTopologyTriangleList, true
	case DrawTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip, true
	default:
		return wgpu.PrimitiveTopologyTriangleList, false
	}
}

// --- Mesh ---

// Mesh holds the per-vertex streams of one extracted primitive.
// Every non-empty stream has one entry per vertex.
type Mesh struct {
	Positions [][3]float32
	Colors    [][4]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Tangents  [][4]float32
	Indices   []uint32
	Kind      DrawKind
}

// VertexCount returns the number of vertices, taken from the position stream.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Indexed reports whether the mesh carries an index list.
func (m *Mesh) Indexed() bool {
	return len(m.Indices) > 0
}

// Triangles assembles the triangles described by the draw kind, using the index
// list when present and sequential indices otherwise. Point and line kinds yield none.
// Strip triangles alternate winding so every triangle keeps the strip's orientation.
//
// Returns:
//   - [][3]uint32: vertex index triples
func (m *Mesh) Triangles() [][3]uint32 {
	n := len(m.Indices)
	at := func(i int) uint32 { return m.Indices[i] }
	if n == 0 {
		n = len(m.Positions)
		at = func(i int) uint32 { return uint32(i) }
	}

	var tris [][3]uint32
	switch m.Kind {
	case DrawTriangles:
		for i := 0; i+2 < n; i += 3 {
			tris = append(tris, [3]uint32{at(i), at(i + 1), at(i + 2)})
		}
	case DrawTriangleStrip:
		for i := 0; i+2 < n; i++ {
			if i%2 == 0 {
				tris = append(tris, [3]uint32{at(i), at(i + 1), at(i + 2)})
			} else {
				tris = append(tris, [3]uint32{at(i + 1), at(i), at(i + 2)})
			}
		}
	case DrawTriangleFan:
		for i := 1; i+1 < n; i++ {
			tris = append(tris, [3]uint32{at(0), at(i), at(i + 1)})
		}
	}
	return tris
}

// Interleave packs the streams into GPU vertices. Missing streams take neutral
// values: up normal, zero texcoord, opaque white color and +X tangent.
//
// Returns:
//   - []GPUVertex: one vertex per position
func (m *Mesh) Interleave() []GPUVertex {
	out := make([]GPUVertex, len(m.Positions))
	for i, p := range m.Positions {
		v := GPUVertex{
			Position: p,
			Normal:   [3]float32{0, 1, 0},
			Color:    [4]float32{1, 1, 1, 1},
			Tangent:  [4]float32{1, 0, 0, 1},
		}
		if i < len(m.Normals) {
			v.Normal = m.Normals[i]
		}
		if i < len(m.TexCoords) {
			v.TexCoord = m.TexCoords[i]
		}
		if i < len(m.Colors) {
			v.Color = m.Colors[i]
		}
		if i < len(m.Tangents) {
			v.Tangent = m.Tangents[i]
		}
		out[i] = v
	}
	return out
}

// ComputeBoundingRadius calculates the bounding sphere radius of a position stream,
// the maximum distance from the origin across all positions.
//
// Parameters:
//   - positions: the vertex positions
//
// Returns:
//   - float32: the maximum distance from the origin
func ComputeBoundingRadius(positions [][3]float32) float32 {
	var maxDistSq float32
	for _, p := range positions {
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return float32(math.Sqrt(float64(maxDistSq)))
}
