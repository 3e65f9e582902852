package imageio

import "go.uber.org/zap"

// CodecBuilderOption is a functional option for configuring a Codec via NewCodec.
type CodecBuilderOption func(*codec)

// WithLogger is an option builder that sets the logger receiving save failures.
//
// Parameters:
//   - log: the logger; nil keeps the no-op logger
//
// Returns:
//   - CodecBuilderOption: a function that applies the logger option to a codec
func WithLogger(log *zap.Logger) CodecBuilderOption {
	return func(c *codec) {
		if log != nil {
			c.log = log.Named("imageio")
		}
	}
}
