package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/qmuntal/gltf"
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct{}

// gltfParser defines the interface for turning glTF/GLB input into a document.
// A parse reports a warning and an error independently: a document can parse
// cleanly and still carry a warning about its content.
type gltfParser interface {
	// Parse loads a .gltf (JSON) or .glb (binary) file, chosen by extension.
	// External buffers are resolved relative to the file's directory.
	//
	// Parameters:
	//   - path: path to the glTF or GLB file
	//
	// Returns:
	//   - *gltf.Document: the parsed document, nil on error
	//   - string: a non-fatal warning, or ""
	//   - error: an ErrParse-wrapped error if parsing fails
	Parse(path string) (*gltf.Document, string, error)

	// ParseReader parses a glTF document from a reader. Binary and JSON input are
	// told apart by content. Only embedded buffers can be resolved.
	//
	// Parameters:
	//   - r: reader containing glTF JSON or GLB data
	//
	// Returns:
	//   - *gltf.Document: the parsed document, nil on error
	//   - string: a non-fatal warning, or ""
	//   - error: an ErrParse-wrapped error if parsing fails
	ParseReader(r io.Reader) (*gltf.Document, string, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a new glTF parser instance.
//
// Returns:
//   - gltfParser: a new parser instance
func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Parse(path string) (*gltf.Document, string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".gltf" && ext != ".glb" {
		return nil, "", fmt.Errorf("%w: unsupported extension %q", ErrParse, ext)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return doc, gltfDocumentWarning(doc), nil
}

func (p *gltfParserImpl) ParseReader(r io.Reader) (*gltf.Document, string, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrParse, err)
	}
	return doc, gltfDocumentWarning(doc), nil
}

// gltfDocumentWarning reports content that parses but may not extract as expected.
func gltfDocumentWarning(doc *gltf.Document) string {
	var warnings []string
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		warnings = append(warnings, fmt.Sprintf("unexpected asset version %q", doc.Asset.Version))
	}
	if len(doc.Scenes) == 0 {
		warnings = append(warnings, "document has no scenes, using parentless nodes as roots")
	}
	return strings.Join(warnings, "; ")
}

// gltfDocumentName derives a result name from the default scene, falling back to the source path.
func gltfDocumentName(doc *gltf.Document, fallback string) string {
	var sceneName string
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		sceneName = doc.Scenes[*doc.Scene].Name
	}
	return common.Coalesce(sceneName, fallback, "unnamed_scene")
}
