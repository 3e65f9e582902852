package model

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertex is the GPU-aligned representation of a single interleaved mesh vertex.
// Size: 64 bytes (std430 aligned, no padding required).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
	Color    [4]float32 // offset 32: per-vertex RGBA color (16 bytes)
	Tangent  [4]float32 // offset 48: tangent vector (xyz) + handedness (w) for normal mapping (16 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 64)
	g.put(buf)
	return buf
}

func (g *GPUVertex) put(buf []byte) {
	fields := [16]float32{
		g.Position[0], g.Position[1], g.Position[2],
		g.Normal[0], g.Normal[1], g.Normal[2],
		g.TexCoord[0], g.TexCoord[1],
		g.Color[0], g.Color[1], g.Color[2], g.Color[3],
		g.Tangent[0], g.Tangent[1], g.Tangent[2], g.Tangent[3],
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(f))
	}
}

// MarshalVertices serializes a vertex slice into one contiguous upload buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: 64 bytes per vertex, or nil if vertices is empty
func MarshalVertices(vertices []GPUVertex) []byte {
	return common.SliceToBytes(vertices, 64, func(buf []byte, v GPUVertex) { v.put(buf) })
}

// MarshalIndices serializes an index list as little-endian uint32 values.
//
// Parameters:
//   - indices: the indices to serialize
//
// Returns:
//   - []byte: 4 bytes per index, or nil if indices is empty
func MarshalIndices(indices []uint32) []byte {
	return common.SliceToBytes(indices, 4, func(buf []byte, v uint32) { binary.LittleEndian.PutUint32(buf, v) })
}

// GPUModelData is the GPU-aligned representation of a single per-instance model matrix.
// Size: 64 bytes (mat4x4<f32> = 16 × float32, std430 aligned, no padding required).
type GPUModelData struct {
	Model [16]float32 // offset 0: 4×4 model-to-world transform matrix, column-major (64 bytes)
}

// NewGPUModelData packs a transform for upload.
//
// Parameters:
//   - m: the model-to-world transform
//
// Returns:
//   - GPUModelData: the packed matrix
func NewGPUModelData(m mgl32.Mat4) GPUModelData {
	return GPUModelData{Model: [16]float32(m)}
}

// Size returns the size of the GPUModelData struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUModelData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUModelData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUModelData) Marshal() []byte {
	buf := make([]byte, 64)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.Model[i]))
	}
	return buf
}
