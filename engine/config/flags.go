package config

import "flag"

// Flags holds the command-line overrides registered on a FlagSet.
type Flags struct {
	Config       string
	Debug        bool
	Verbose      bool
	Workers      int
	KeepTangents bool
	FlipTextures bool
	Profile      bool
	TextureDir   string
	LogFile      string
}

// RegisterFlags registers the override flags on fs.
//
// Parameters:
//   - fs: the flag set to register on
//
// Returns:
//   - *Flags: the flag values, populated once fs is parsed
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Verbose, "verbose", false, "Log per-primitive counts and skipped data at info level")
	fs.IntVar(&f.Workers, "workers", 0, "Number of files loaded in parallel")
	fs.BoolVar(&f.KeepTangents, "keep-tangents", false, "Keep TANGENT data supplied by the asset")
	fs.BoolVar(&f.FlipTextures, "flip-textures", false, "Flip decoded textures vertically")
	fs.BoolVar(&f.Profile, "profile", false, "Log timing and memory statistics per loaded file")
	fs.StringVar(&f.TextureDir, "texture-dir", "", "Directory receiving PNG dumps of registered textures")
	fs.StringVar(&f.LogFile, "log-file", "", "Rotated log file path")
	return f
}

// Apply applies the flag overrides to cfg. Flags win over file values.
//
// Parameters:
//   - cfg: the configuration to update
func (f *Flags) Apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Verbose {
		cfg.Loader.Verbose = true
	}
	if f.Workers > 0 {
		cfg.Loader.Workers = f.Workers
	}
	if f.KeepTangents {
		cfg.Loader.PreserveSourceTangents = true
	}
	if f.FlipTextures {
		cfg.Loader.FlipTextures = true
	}
	if f.Profile {
		cfg.Loader.Profile = true
	}
	if f.TextureDir != "" {
		cfg.Output.TextureDir = f.TextureDir
	}
}
