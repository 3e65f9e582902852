package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/imageio"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func ptr[T any](v T) *T { return &v }

// docBuilder assembles an in-memory document backed by a single buffer.
type docBuilder struct {
	doc *gltf.Document
}

func newDocBuilder() *docBuilder {
	return &docBuilder{doc: &gltf.Document{
		Asset:   gltf.Asset{Version: "2.0"},
		Buffers: []*gltf.Buffer{{}},
	}}
}

// view appends data as a new 4-byte aligned buffer view.
func (b *docBuilder) view(data []byte, stride int) int {
	buf := b.doc.Buffers[0]
	for len(buf.Data)%4 != 0 {
		buf.Data = append(buf.Data, 0)
	}
	b.doc.BufferViews = append(b.doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: len(buf.Data),
		ByteLength: len(data),
		ByteStride: stride,
	})
	buf.Data = append(buf.Data, data...)
	buf.ByteLength = len(buf.Data)
	return len(b.doc.BufferViews) - 1
}

func (b *docBuilder) accessor(view int, offset int, ct gltf.ComponentType, at gltf.AccessorType, count int) int {
	b.doc.Accessors = append(b.doc.Accessors, &gltf.Accessor{
		BufferView:    ptr(view),
		ByteOffset:    offset,
		ComponentType: ct,
		Type:          at,
		Count:         count,
	})
	return len(b.doc.Accessors) - 1
}

func floatBytes(values ...float32) []byte {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data
}

// floats adds a tightly packed float accessor.
func (b *docBuilder) floats(at gltf.AccessorType, values ...float32) int {
	return b.accessor(b.view(floatBytes(values...), 0), 0, gltf.ComponentFloat, at, len(values)/gltfAccessorArity(at))
}

// indices adds an unsigned short index accessor.
func (b *docBuilder) indices(values ...uint16) int {
	data := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(data[i*2:], v)
	}
	return b.accessor(b.view(data, 0), 0, gltf.ComponentUshort, gltf.AccessorScalar, len(values))
}

func (b *docBuilder) mesh(name string, prims ...*gltf.Primitive) int {
	b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{Name: name, Primitives: prims})
	return len(b.doc.Meshes) - 1
}

func (b *docBuilder) material(m *gltf.Material) int {
	b.doc.Materials = append(b.doc.Materials, m)
	return len(b.doc.Materials) - 1
}

// texture adds an image with the given name and source plus a texture sampling it.
func (b *docBuilder) texture(name, uri string) int {
	b.doc.Images = append(b.doc.Images, &gltf.Image{Name: name, URI: uri})
	b.doc.Textures = append(b.doc.Textures, &gltf.Texture{Source: ptr(len(b.doc.Images) - 1)})
	return len(b.doc.Textures) - 1
}

func (b *docBuilder) node(n *gltf.Node) int {
	b.doc.Nodes = append(b.doc.Nodes, n)
	return len(b.doc.Nodes) - 1
}

func (b *docBuilder) scene(name string, roots ...int) {
	b.doc.Scenes = append(b.doc.Scenes, &gltf.Scene{Name: name, Nodes: roots})
	b.doc.Scene = ptr(len(b.doc.Scenes) - 1)
}

// triangle adds the unit right triangle in the XY plane, indexed [0,1,2].
func (b *docBuilder) triangle(material *int) *gltf.Primitive {
	return &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION: b.floats(gltf.AccessorVec3, 0, 0, 0, 1, 0, 0, 0, 1, 0),
		},
		Indices:  ptr(b.indices(0, 1, 2)),
		Material: material,
		Mode:     gltf.PrimitiveTriangles,
	}
}

func newTestContext(t *testing.T, doc *gltf.Document) *loadContext {
	t.Helper()
	log := zaptest.NewLogger(t)
	return newLoadContext(doc, t.TempDir(), importOptions{
		log:   log,
		codec: imageio.NewCodec(imageio.WithLogger(log)),
	})
}

// observedContext is newTestContext with a log observer capturing info and above.
func observedContext(t *testing.T, doc *gltf.Document) (*loadContext, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	ctx := newLoadContext(doc, t.TempDir(), importOptions{
		log:   zap.New(core),
		codec: imageio.NewCodec(),
	})
	return ctx, logs
}

// pngDataURI encodes a 2x1 red/blue PNG as a base64 data URI.
func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
