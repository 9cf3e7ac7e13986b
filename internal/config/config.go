package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultDBPath is the default database location
const DefaultDBPath = "~/.standoc/standoc.db"

// Config represents the complete standoc configuration.
// It can be loaded from .standoc/config.yml with environment variable overrides.
type Config struct {
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Storage  StorageConfig  `yaml:"storage" mapstructure:"storage"`
	Indexer  IndexerConfig  `yaml:"indexer" mapstructure:"indexer"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// PathsConfig defines which files to document and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include" validate:"min=1,dive,required"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore" validate:"dive,required"`         // glob patterns to ignore
}

// StorageConfig defines where the function database lives.
type StorageConfig struct {
	DBPath string `yaml:"db_path" mapstructure:"db_path" validate:"required"`
}

// IndexerConfig tunes the project build.
type IndexerConfig struct {
	Workers   int `yaml:"workers" mapstructure:"workers" validate:"gte=0"`       // 0 means runtime.NumCPU()
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size" validate:"gte=0"` // files per transaction
}

// ResolverConfig tunes reference resolution.
type ResolverConfig struct {
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size" validate:"gte=1"` // parsed target cache entries
}

// OutputConfig controls CLI output.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=yaml json"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{"**/*.stan", "**/*.stanfunctions"},
			Ignore:  []string{".git/**", ".standoc/**"},
		},
		Storage: StorageConfig{
			DBPath: DefaultDBPath,
		},
		Indexer: IndexerConfig{
			Workers:   0,
			BatchSize: 20,
		},
		Resolver: ResolverConfig{
			CacheSize: 256,
		},
		Output: OutputConfig{
			Format: "yaml",
		},
	}
}

// ExpandPath replaces a leading "~" with the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// DatabaseFile returns the expanded database path
func (c *Config) DatabaseFile() (string, error) {
	return ExpandPath(c.Storage.DBPath)
}
