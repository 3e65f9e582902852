package loader

import (
	"encoding/binary"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAttributeInterleaved(t *testing.T) {
	b := newDocBuilder()
	view := b.view(floatBytes(
		1, 2, 3, 0.5, 0.25,
		4, 5, 6, 0.75, 1,
	), 20)
	pos := b.accessor(view, 0, gltf.ComponentFloat, gltf.AccessorVec3, 2)
	uv := b.accessor(view, 12, gltf.ComponentFloat, gltf.AccessorVec2, 2)

	records, err := readAttribute(b.doc, pos, [4]float32{})
	require.NoError(t, err)
	assert.Equal(t, [][4]float32{{1, 2, 3, 0}, {4, 5, 6, 0}}, records)

	records, err = readAttribute(b.doc, uv, [4]float32{9, 9, 9, 9})
	require.NoError(t, err)
	assert.Equal(t, [][4]float32{{0.5, 0.25, 9, 9}, {0.75, 1, 9, 9}}, records, "slots beyond the arity keep their defaults")
}

func TestDecodeRecord(t *testing.T) {
	tests := []struct {
		name   string
		values any
		record int
		want   [4]float32
		err    error
	}{
		{"scalar", []float32{7, 8}, 1, [4]float32{8, 1, 1, 1}, nil},
		{"vec3", [][3]float32{{1, 2, 3}}, 0, [4]float32{1, 2, 3, 1}, nil},
		{"vec4", [][4]float32{{1, 2, 3, 4}}, 0, [4]float32{1, 2, 3, 4}, nil},
		{"past the end", [][2]float32{{1, 2}}, 1, [4]float32{1, 1, 1, 1}, ErrAccessorOutOfBounds},
		{"non-float values", [][3]uint16{{1, 2, 3}}, 0, [4]float32{1, 1, 1, 1}, ErrUnsupportedComponentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeRecord(tt.values, tt.record, [4]float32{1, 1, 1, 1})
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadAttributeErrors(t *testing.T) {
	b := newDocBuilder()
	shorts := b.accessor(b.view(make([]byte, 12), 0), 0, gltf.ComponentUshort, gltf.AccessorVec3, 2)
	mat4 := b.accessor(b.view(make([]byte, 64), 0), 0, gltf.ComponentFloat, gltf.AccessorMat4, 1)
	short := b.accessor(b.view(floatBytes(1, 2, 3), 0), 0, gltf.ComponentFloat, gltf.AccessorVec3, 2)

	tests := []struct {
		name  string
		index int
		want  error
	}{
		{"non-float component", shorts, ErrUnsupportedComponentType},
		{"matrix arity", mat4, ErrUnsupportedComponentArity},
		{"count exceeds view", short, ErrAccessorOutOfBounds},
		{"offset past view", b.accessor(b.view(floatBytes(1, 2, 3), 0), 64, gltf.ComponentFloat, gltf.AccessorVec3, 1), ErrAccessorOutOfBounds},
		{"missing accessor", 99, ErrAccessorOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAttribute(b.doc, tt.index, [4]float32{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadAttributeWithoutBufferView(t *testing.T) {
	doc := &gltf.Document{Accessors: []*gltf.Accessor{
		{ComponentType: gltf.ComponentFloat, Type: gltf.AccessorVec3, Count: 2},
	}}
	records, err := readAttribute(doc, 0, semanticColor.defaults())
	require.NoError(t, err)
	assert.Equal(t, [][4]float32{{0, 0, 0, 1}, {0, 0, 0, 1}}, records)
}

func TestReadIndices(t *testing.T) {
	b := newDocBuilder()
	ubyte := b.accessor(b.view([]byte{2, 1, 0}, 0), 0, gltf.ComponentUbyte, gltf.AccessorScalar, 3)
	ushort := b.indices(0, 300, 2)
	uintData := make([]byte, 12)
	binary.LittleEndian.PutUint32(uintData[0:], 70000)
	binary.LittleEndian.PutUint32(uintData[4:], 1)
	binary.LittleEndian.PutUint32(uintData[8:], 2)
	uint32Idx := b.accessor(b.view(uintData, 0), 0, gltf.ComponentUint, gltf.AccessorScalar, 3)
	float := b.floats(gltf.AccessorScalar, 0, 1, 2)
	vec2 := b.accessor(b.view(make([]byte, 12), 0), 0, gltf.ComponentUshort, gltf.AccessorVec2, 3)

	tests := []struct {
		name  string
		index int
		want  []uint32
		err   error
	}{
		{"ubyte", ubyte, []uint32{2, 1, 0}, nil},
		{"ushort", ushort, []uint32{0, 300, 2}, nil},
		{"uint", uint32Idx, []uint32{70000, 1, 2}, nil},
		{"float rejected", float, nil, ErrUnsupportedIndexType},
		{"vec2 rejected", vec2, nil, ErrUnsupportedComponentArity},
		{"signed short rejected", b.accessor(b.view(make([]byte, 6), 0), 0, gltf.ComponentShort, gltf.AccessorScalar, 3), nil, ErrUnsupportedIndexType},
		{"count exceeds view", b.accessor(b.view([]byte{0, 1}, 0), 0, gltf.ComponentUbyte, gltf.AccessorScalar, 3), nil, ErrAccessorOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readIndices(b.doc, tt.index)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadBufferViewBounds(t *testing.T) {
	b := newDocBuilder()
	v := b.view([]byte{1, 2, 3, 4}, 0)
	data, err := readBufferView(b.doc, v)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)

	_, err = readBufferView(b.doc, 42)
	assert.ErrorIs(t, err, ErrAccessorOutOfBounds)

	b.doc.BufferViews[v].ByteLength = 64
	_, err = readBufferView(b.doc, v)
	assert.ErrorIs(t, err, ErrAccessorOutOfBounds)

	b.doc.BufferViews[v].Buffer = 3
	_, err = readBufferView(b.doc, v)
	assert.ErrorIs(t, err, ErrAccessorOutOfBounds)
}
