package loader

import (
	"io"
)

// loaderBackend defines the generic interface for loading scenes from files or streams.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load performs a full scene import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *Result: the extracted draw objects and textures
	//   - error: error if loading fails
	Load(path string) (*Result, error)

	// LoadReader imports a scene from a reader stream.
	//
	// Parameters:
	//   - name: the fallback result name
	//   - r: the reader providing scene data
	//
	// Returns:
	//   - *Result: the extracted draw objects and textures
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*Result, error)
}
