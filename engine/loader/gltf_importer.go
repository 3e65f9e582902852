package loader

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct {
	parser gltfParser
	opts   importOptions
}

// gltfImporter defines the interface for orchestrating a full glTF/GLB import.
// It combines the parser, the scene walker and the extractors to produce a Result.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts every draw object of its default scene.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *Result: the draw objects and texture registry of the load
	//   - error: error if parsing or extraction fails; no partial result is returned
	Import(path string) (*Result, error)

	// ImportReader loads a glTF document from a reader and extracts every draw object.
	// Relative image files resolve against the working directory.
	//
	// Parameters:
	//   - name: the fallback result name when the default scene is unnamed
	//   - r: the reader providing glTF/GLB data
	//
	// Returns:
	//   - *Result: the draw objects and texture registry of the load
	//   - error: error if parsing or extraction fails
	ImportReader(name string, r io.Reader) (*Result, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Parameters:
//   - opts: the loader configuration applied to every import
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter(opts importOptions) gltfImporter {
	return &gltfImporterImpl{
		parser: newGLTFParser(),
		opts:   opts,
	}
}

func (imp *gltfImporterImpl) Import(path string) (*Result, error) {
	doc, warning, err := imp.parser.Parse(path)
	if err != nil {
		return nil, err
	}
	return imp.importDocument(doc, warning, filepath.Dir(path), path)
}

func (imp *gltfImporterImpl) ImportReader(name string, r io.Reader) (*Result, error) {
	doc, warning, err := imp.parser.ParseReader(r)
	if err != nil {
		return nil, err
	}
	return imp.importDocument(doc, warning, "", name)
}

// importDocument walks a parsed document in a fresh load context.
//
// Parameters:
//   - doc: the parsed document
//   - warning: the parser warning, carried into the result
//   - baseDir: the directory external images resolve against
//   - fallbackName: the result name when the default scene is unnamed
func (imp *gltfImporterImpl) importDocument(doc *gltf.Document, warning, baseDir, fallbackName string) (*Result, error) {
	name := gltfDocumentName(doc, fallbackName)
	log := imp.opts.log.With(zap.String("scene", name))
	if warning != "" {
		log.Warn("parser warning", zap.String("warning", warning))
	}

	opts := imp.opts
	opts.log = log
	ctx := newLoadContext(doc, baseDir, opts)
	if err := walkScene(ctx); err != nil {
		return nil, fmt.Errorf("extraction of %s failed: %w", name, err)
	}

	log.Debug("scene extracted",
		zap.Int("models", len(ctx.models)),
		zap.Int("textures", ctx.uniforms.Len()))

	return &Result{
		Name:     name,
		Models:   ctx.models,
		Uniforms: ctx.uniforms,
		Warning:  warning,
	}, nil
}
