package loader

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfAccessorArity returns the component count of SCALAR through VEC4 accessors, or 0.
func gltfAccessorArity(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorScalar:
		return 1
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4:
		return 4
	default:
		return 0
	}
}

// gltfAccessor resolves an accessor and checks that its window starts inside its
// buffer view. Element bounds are checked by the modeler reads.
//
// Parameters:
//   - doc: the scene document
//   - index: the accessor index
//
// Returns:
//   - *gltf.Accessor: a copy of the accessor with sparse substitution removed
//   - error: ErrAccessorOutOfBounds if the accessor or its buffer view is out of range
func gltfAccessor(doc *gltf.Document, index int) (*gltf.Accessor, error) {
	if index < 0 || index >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d of %d", ErrAccessorOutOfBounds, index, len(doc.Accessors))
	}
	acc := *doc.Accessors[index]
	acc.Sparse = nil

	if acc.BufferView != nil {
		bv, err := gltfBufferView(doc, *acc.BufferView)
		if err != nil {
			return nil, err
		}
		if acc.ByteOffset < 0 || acc.ByteOffset > bv.ByteLength {
			return nil, fmt.Errorf("%w: accessor %d starts at byte %d of a %d byte view",
				ErrAccessorOutOfBounds, index, acc.ByteOffset, bv.ByteLength)
		}
	}
	return &acc, nil
}

// gltfBufferView resolves a buffer view index, rejecting negative offsets and buffer indices.
func gltfBufferView(doc *gltf.Document, index int) (*gltf.BufferView, error) {
	if index < 0 || index >= len(doc.BufferViews) {
		return nil, fmt.Errorf("%w: bufferView %d of %d", ErrAccessorOutOfBounds, index, len(doc.BufferViews))
	}
	bv := doc.BufferViews[index]
	if bv.Buffer < 0 || bv.ByteOffset < 0 || bv.ByteLength < 0 {
		return nil, fmt.Errorf("%w: bufferView %d has buffer %d offset %d length %d",
			ErrAccessorOutOfBounds, index, bv.Buffer, bv.ByteOffset, bv.ByteLength)
	}
	return bv, nil
}

// readBufferView returns the bytes of a buffer view. The slice aliases the buffer
// and must not be modified.
func readBufferView(doc *gltf.Document, index int) ([]byte, error) {
	bv, err := gltfBufferView(doc, index)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadBufferView(doc, bv)
	if err != nil {
		return nil, fmt.Errorf("%w: bufferView %d: %w", ErrAccessorOutOfBounds, index, err)
	}
	return data, nil
}

// decodeRecord reads one record from the float slice returned by modeler.ReadAccessor.
// Output slots beyond the slice's arity keep the caller's defaults.
//
// Parameters:
//   - values: a []float32, [][2]float32, [][3]float32 or [][4]float32
//   - record: the element index
//   - defaults: the values of the slots the record does not cover
//
// Returns:
//   - [4]float32: the decoded record
//   - error: ErrUnsupportedComponentType or ErrAccessorOutOfBounds
func decodeRecord(values any, record int, defaults [4]float32) ([4]float32, error) {
	out := defaults
	var n int
	switch v := values.(type) {
	case []float32:
		if n = len(v); record >= 0 && record < n {
			out[0] = v[record]
		}
	case [][2]float32:
		if n = len(v); record >= 0 && record < n {
			copy(out[:], v[record][:])
		}
	case [][3]float32:
		if n = len(v); record >= 0 && record < n {
			copy(out[:], v[record][:])
		}
	case [][4]float32:
		if n = len(v); record >= 0 && record < n {
			out = v[record]
		}
	default:
		return defaults, fmt.Errorf("%w: %T", ErrUnsupportedComponentType, values)
	}
	if record < 0 || record >= n {
		return defaults, fmt.Errorf("%w: record %d of %d", ErrAccessorOutOfBounds, record, n)
	}
	return out, nil
}

// readAttribute decodes every record of a float accessor.
//
// Parameters:
//   - doc: the scene document
//   - index: the accessor index
//   - defaults: the seed for slots beyond the accessor's arity
//
// Returns:
//   - [][4]float32: one record per element
//   - error: ErrUnsupportedComponentType, ErrUnsupportedComponentArity or ErrAccessorOutOfBounds
func readAttribute(doc *gltf.Document, index int, defaults [4]float32) ([][4]float32, error) {
	acc, err := gltfAccessor(doc, index)
	if err != nil {
		return nil, err
	}
	if acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("%w: accessor %d has %v components", ErrUnsupportedComponentType, index, acc.ComponentType)
	}
	if gltfAccessorArity(acc.Type) == 0 {
		return nil, fmt.Errorf("%w: accessor %d has type %v", ErrUnsupportedComponentArity, index, acc.Type)
	}

	values, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: accessor %d: %w", ErrAccessorOutOfBounds, index, err)
	}

	records := make([][4]float32, acc.Count)
	for i := range records {
		if records[i], err = decodeRecord(values, i, defaults); err != nil {
			return nil, fmt.Errorf("accessor %d: %w", index, err)
		}
	}
	return records, nil
}

// readIndices decodes an unsigned integer index accessor, preserving order.
//
// Parameters:
//   - doc: the scene document
//   - index: the accessor index
//
// Returns:
//   - []uint32: the indices
//   - error: ErrUnsupportedIndexType, ErrUnsupportedComponentArity or ErrAccessorOutOfBounds
func readIndices(doc *gltf.Document, index int) ([]uint32, error) {
	acc, err := gltfAccessor(doc, index)
	if err != nil {
		return nil, err
	}
	// modeler reports these as untyped errors.
	switch acc.ComponentType {
	case gltf.ComponentUbyte, gltf.ComponentUshort, gltf.ComponentUint:
	default:
		return nil, fmt.Errorf("%w: accessor %d has %v components", ErrUnsupportedIndexType, index, acc.ComponentType)
	}
	if acc.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("%w: index accessor %d has type %v", ErrUnsupportedComponentArity, index, acc.Type)
	}

	indices, err := modeler.ReadIndices(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: accessor %d: %w", ErrAccessorOutOfBounds, index, err)
	}
	return indices, nil
}
