package loader

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-scene/engine/imageio"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

var (
	// ErrParse wraps any failure reported by the document parser.
	ErrParse = errors.New("failed to parse scene document")
	// ErrUnsupportedComponentType is returned for vertex data that is not 32-bit float.
	ErrUnsupportedComponentType = errors.New("unsupported vertex component type")
	// ErrUnsupportedComponentArity is returned for accessors that are not SCALAR, VEC2, VEC3 or VEC4.
	ErrUnsupportedComponentArity = errors.New("unsupported component arity")
	// ErrUnsupportedIndexType is returned for index data that is not an unsigned 8, 16 or 32-bit integer.
	ErrUnsupportedIndexType = errors.New("unsupported index component type")
	// ErrAccessorOutOfBounds is returned when an accessor, buffer view or record lies outside its buffer.
	ErrAccessorOutOfBounds = errors.New("accessor out of bounds")
)

// --- Attribute Semantics ---

// semantic identifies the vertex stream an attribute feeds.
type semantic int

const (
	semanticUnknown semantic = iota
	semanticPosition
	semanticColor
	semanticNormal
	semanticTexCoord
	semanticTangent
)

// parseSemantic resolves an attribute name once per stream.
func parseSemantic(name string) semantic {
	switch name {
	case gltf.POSITION:
		return semanticPosition
	case gltf.COLOR_0:
		return semanticColor
	case gltf.NORMAL:
		return semanticNormal
	case gltf.TEXCOORD_0:
		return semanticTexCoord
	case gltf.TANGENT:
		return semanticTangent
	default:
		return semanticUnknown
	}
}

// defaults returns the values seeded into a record before its components are decoded.
// Colors start opaque white so RGB accessors keep alpha = 1.
func (s semantic) defaults() [4]float32 {
	if s == semanticColor {
		return [4]float32{1, 1, 1, 1}
	}
	return [4]float32{}
}

// --- Load Context ---

// loadContext carries the per-load state shared by the walker and the extractors.
// It lives for one load call and is discarded with it.
type loadContext struct {
	doc     *gltf.Document
	baseDir string

	uniforms        *material.Uniforms
	images          map[int]*imageio.Pixels
	materials       map[int]material.Material
	defaultMaterial material.Material
	models          []model.Model

	log              *zap.Logger
	codec            imageio.Codec
	verbose          bool
	preserveTangents bool
	flipTextures     bool
}

// newLoadContext creates a fresh context for one document.
func newLoadContext(doc *gltf.Document, baseDir string, opts importOptions) *loadContext {
	return &loadContext{
		doc:              doc,
		baseDir:          baseDir,
		uniforms:         material.NewUniforms(),
		images:           make(map[int]*imageio.Pixels),
		materials:        make(map[int]material.Material),
		log:              opts.log,
		codec:            opts.codec,
		verbose:          opts.verbose,
		preserveTangents: opts.preserveTangents,
		flipTextures:     opts.flipTextures,
	}
}

// soft logs an ignorable anomaly: at info level when verbose, otherwise at debug level.
func (c *loadContext) soft(msg string, fields ...zap.Field) {
	if c.verbose {
		c.log.Info(msg, fields...)
		return
	}
	c.log.Debug(msg, fields...)
}

// --- Import Options ---

// importOptions is the loader configuration handed to each import.
type importOptions struct {
	log              *zap.Logger
	codec            imageio.Codec
	verbose          bool
	preserveTangents bool
	flipTextures     bool
}

// Result is the output of loading one scene document.
type Result struct {
	// Name identifies the load, the default scene name or else the source path.
	Name string
	// Models are the draw objects in traversal order.
	Models []model.Model
	// Uniforms holds the textures referenced by the materials of Models.
	Uniforms *material.Uniforms
	// Warning is the non-fatal message reported by the parser, if any.
	Warning string
}
