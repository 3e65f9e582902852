package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialParams is the GPU-aligned uniform holding a material's factors.
// Size: 48 bytes (three vec4<f32>, std430 aligned).
type GPUMaterialParams struct {
	BaseColor         [4]float32 // offset 0: RGBA base color factor (16 bytes)
	Emissive          [3]float32 // offset 16: RGB emissive factor (12 bytes)
	Roughness         float32    // offset 28: roughness factor (4 bytes)
	Metallic          float32    // offset 32: metallic factor (4 bytes)
	NormalScale       float32    // offset 36: normal map scale (4 bytes)
	OcclusionStrength float32    // offset 40: occlusion strength (4 bytes)
	AlphaCutoff       float32    // offset 44: alpha mask cutoff, 0 when not masked (4 bytes)
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, 48)
	for i, v := range g.BaseColor {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range g.Emissive {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Roughness))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Metallic))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.NormalScale))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(g.OcclusionStrength))
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.AlphaCutoff))
	return buf
}
