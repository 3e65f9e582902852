package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-scene/engine/imageio"
	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
	"go.uber.org/zap"
)

// LoaderBackendType identifies the scene file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	resultCache map[string]*Result

	backendType LoaderBackendType
	backend     loaderBackend
	pool        worker.DynamicWorkerPool

	profiler         *profiler.Profiler
	profilingEnabled bool

	log              *zap.Logger
	codec            imageio.Codec
	workers          int
	verbose          bool
	preserveTangents bool
	flipTextures     bool
}

// Loader defines the public-facing interface for loading and caching extracted scenes.
// It abstracts the file format (glTF, GLB, etc.) behind a generic backend. Every load
// runs in its own context, so independent files can be loaded concurrently.
type Loader interface {
	// Load imports a scene file and caches the result by path.
	// If the file is already cached, the cached result is returned.
	// The backend is selected based on the file extension (.gltf/.glb → glTF backend).
	//
	// Parameters:
	//   - path: the file path to the scene file
	//
	// Returns:
	//   - *Result: the draw objects and texture registry of the scene
	//   - error: error if loading fails
	Load(path string) (*Result, error)

	// LoadReader imports a scene from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded scene
	//   - r: the reader providing glTF JSON or GLB data
	//
	// Returns:
	//   - *Result: the draw objects and texture registry of the scene
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*Result, error)

	// LoadAll loads several files in parallel on the loader's worker pool.
	// Results keep the order of paths; a failed path leaves a nil entry and its
	// error is joined into the returned error.
	//
	// Parameters:
	//   - paths: the scene files to load
	//
	// Returns:
	//   - []*Result: one entry per path
	//   - error: the joined errors of all failed loads, or nil
	LoadAll(paths []string) ([]*Result, error)

	// Get retrieves a cached result by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *Result: the cached result or nil
	Get(name string) *Result

	// Results returns a copy of the result cache.
	//
	// Returns:
	//   - map[string]*Result: all cached results keyed by name
	Results() map[string]*Result
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:          sync.RWMutex{},
		resultCache: make(map[string]*Result),
		backendType: backendType,
		log:         zap.NewNop(),
		workers:     1,
	}

	for _, option := range options {
		option(l)
	}

	if l.profilingEnabled {
		l.profiler = profiler.NewProfiler(l.log)
	}
	if l.codec == nil {
		l.codec = imageio.NewCodec(imageio.WithLogger(l.log))
	}
	opts := importOptions{
		log:              l.log.Named("loader"),
		codec:            l.codec,
		verbose:          l.verbose,
		preserveTangents: l.preserveTangents,
		flipTextures:     l.flipTextures,
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend(opts)
	}

	// Initialize the pool after options so WithWorkers can override the default.
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) Load(path string) (*Result, error) {
	l.mu.RLock()
	if cached, ok := l.resultCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	var span *profiler.Span
	if l.profiler != nil {
		span = l.profiler.Start(path)
	}
	result, err := backend.Load(path)
	if span != nil {
		if err != nil {
			span.End(zap.Error(err))
		} else {
			span.End(zap.Int("models", len(result.Models)), zap.Int("textures", result.Uniforms.Len()))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.resultCache[path] = result
	l.mu.Unlock()

	return result, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*Result, error) {
	l.mu.RLock()
	if cached, ok := l.resultCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if l.backend == nil {
		return nil, fmt.Errorf("no backend configured for type %d", l.backendType)
	}

	result, err := l.backend.LoadReader(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.mu.Lock()
	l.resultCache[name] = result
	l.mu.Unlock()

	return result, nil
}

func (l *loader) LoadAll(paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))
	errs := make([]error, len(paths))

	// A WaitGroup gives a per-batch barrier; the pool itself only drains on idle exit.
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		idx, p := i, path
		l.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				results[idx], errs[idx] = l.Load(p)
				return nil, nil
			},
		})
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

func (l *loader) Get(name string) *Result {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.resultCache[name]
}

func (l *loader) Results() map[string]*Result {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*Result, len(l.resultCache))
	for k, v := range l.resultCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		if l.backend == nil {
			return nil, fmt.Errorf("no backend configured for type %d", l.backendType)
		}
		return l.backend, nil
	default:
		return nil, fmt.Errorf("unsupported scene format: %q", ext)
	}
}
