// Package config handles loading and merging of oxyscene settings.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds all settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Loader  LoaderConfig  `yaml:"loader"`
	Output  OutputConfig  `yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// LoaderConfig holds scene extraction settings.
type LoaderConfig struct {
	// Verbose enables per-anomaly debug logging during extraction.
	Verbose bool `yaml:"verbose"`
	// Workers bounds the number of files loaded in parallel by LoadAll.
	Workers int `yaml:"workers"`
	// PreserveSourceTangents keeps TANGENT data supplied by the asset instead of recomputing it.
	PreserveSourceTangents bool `yaml:"preserve_source_tangents"`
	// FlipTextures flips decoded texture rows vertically before registration.
	FlipTextures bool `yaml:"flip_textures"`
	// Profile logs wall time and memory statistics of every file load.
	Profile bool `yaml:"profile"`
}

// OutputConfig holds CLI output settings.
type OutputConfig struct {
	// TextureDir, when set, receives a PNG dump of every registered 8-bit texture.
	TextureDir string `yaml:"texture_dir"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Loader: LoaderConfig{
			Workers: max(runtime.NumCPU()-1, 1),
		},
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
//
// Parameters:
//   - path: the YAML file to read, or ""
//
// Returns:
//   - *Config: the merged configuration
//   - error: error if the file cannot be read or parsed
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Loader.Workers < 1 {
		cfg.Loader.Workers = 1
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
//
// Parameters:
//   - cfg: the configuration to write
//   - path: the destination file
//
// Returns:
//   - error: error if encoding or writing fails
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
