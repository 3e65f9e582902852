package loader

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/imageio"
	"go.uber.org/zap"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger is an option builder that sets the logger used by the Loader and its default codec.
//
// Parameters:
//   - log: the logger instance; nil keeps the no-op logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(log *zap.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithVerbose is an option builder that raises skipped-anomaly messages from debug to info level.
//
// Parameters:
//   - verbose: whether soft anomalies are logged at info level
//
// Returns:
//   - LoaderBuilderOption: a function that applies the verbose option to a loader
func WithVerbose(verbose bool) LoaderBuilderOption {
	return func(l *loader) {
		l.verbose = verbose
	}
}

// WithWorkers is an option builder that sets the number of workers used by LoadAll.
//
// Parameters:
//   - n: the worker count, values below 1 are ignored
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithPreserveSourceTangents is an option builder that keeps TANGENT data supplied by the
// asset instead of regenerating it.
//
// Parameters:
//   - preserve: whether source tangents are kept
//
// Returns:
//   - LoaderBuilderOption: a function that applies the tangent option to a loader
func WithPreserveSourceTangents(preserve bool) LoaderBuilderOption {
	return func(l *loader) {
		l.preserveTangents = preserve
	}
}

// WithFlipTextures is an option builder that flips decoded texture rows before registration.
//
// Parameters:
//   - flip: whether textures are flipped vertically
//
// Returns:
//   - LoaderBuilderOption: a function that applies the flip option to a loader
func WithFlipTextures(flip bool) LoaderBuilderOption {
	return func(l *loader) {
		l.flipTextures = flip
	}
}

// WithCodec is an option builder that replaces the image codec used to decode textures.
//
// Parameters:
//   - codec: the codec instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the codec option to a loader
func WithCodec(codec imageio.Codec) LoaderBuilderOption {
	return func(l *loader) {
		l.codec = codec
	}
}

// WithResult is an option builder that pre-populates the result cache.
//
// Parameters:
//   - key: the cache key for the result
//   - result: the result to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the result option to a loader
func WithResult(key string, result *Result) LoaderBuilderOption {
	return func(l *loader) {
		l.resultCache[key] = result
	}
}

// WithProfiling is an option builder that logs wall time and memory statistics of every file load.
//
// Parameters:
//   - enabled: whether loads are profiled
//
// Returns:
//   - LoaderBuilderOption: a function that applies the profiling option to a loader
func WithProfiling(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.profilingEnabled = enabled
	}
}
