// Package config loads codeintel's configuration from TOML, YAML, or JSON
// files via koanf, falling back to sensible defaults when no file exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for codeintel.
type Config struct {
	Index      IndexConfig      `koanf:"index" toml:"index"`
	Languages  LanguageConfig   `koanf:"languages" toml:"languages"`
	Cache      CacheConfig      `koanf:"cache" toml:"cache"`
	Resolution ResolutionConfig `koanf:"resolution" toml:"resolution"`
	Exclude    ExcludeConfig    `koanf:"exclude" toml:"exclude"`
	Output     OutputConfig     `koanf:"output" toml:"output"`
}

// IndexConfig controls how a source tree is walked and parsed.
type IndexConfig struct {
	MaxWorkers      int   `koanf:"max_workers" toml:"max_workers"` // 0 = runtime.NumCPU()-based default
	MaxFileSize     int64 `koanf:"max_file_size" toml:"max_file_size"`
	FollowSymlinks  bool  `koanf:"follow_symlinks" toml:"follow_symlinks"`
	PerFileSymbolID int   `koanf:"per_file_symbol_budget" toml:"per_file_symbol_budget"`
}

// LanguageConfig enables or disables individual language extractors.
// An empty Enabled list means every registered language runs.
type LanguageConfig struct {
	Enabled []string `koanf:"enabled" toml:"enabled"`
}

// Enables reports whether lang should run, honoring an empty Enabled list
// as "all languages enabled".
func (l LanguageConfig) Enables(lang string) bool {
	if len(l.Enabled) == 0 {
		return true
	}
	for _, e := range l.Enabled {
		if strings.EqualFold(e, lang) {
			return true
		}
	}
	return false
}

// CacheConfig controls the hash-mmap symbol cache's location.
type CacheConfig struct {
	Dir          string `koanf:"dir" toml:"dir"`
	SymbolsFile  string `koanf:"symbols_file" toml:"symbols_file"`
	MetadataFile string `koanf:"metadata_file" toml:"metadata_file"`
}

// ResolutionConfig controls where the path-resolution document is persisted.
type ResolutionConfig struct {
	Dir  string `koanf:"dir" toml:"dir"`
	File string `koanf:"file" toml:"file"`
}

// ExcludeConfig defines file exclusion patterns using gitignore-style syntax.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			MaxWorkers:      0,
			MaxFileSize:     10 * 1024 * 1024,
			FollowSymlinks:  false,
			PerFileSymbolID: 100_000,
		},
		Languages: LanguageConfig{
			Enabled: []string{},
		},
		Cache: CacheConfig{
			Dir:          ".codeintel",
			SymbolsFile:  "symbols.cache",
			MetadataFile: "symbols.meta.json",
		},
		Resolution: ResolutionConfig{
			Dir:  ".codeintel",
			File: "resolution.json",
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*_test.go",
				"*.min.js",
				"*.lock",
				"go.sum",
				"vendor/",
				"node_modules/",
				"third_party/",
				"external/",
				".git/",
				".codeintel/",
				"dist/",
				"build/",
				"target/",
				"bin/",
				"**/generated/",
				"**/gen/",
				"**/*.pb.go",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// CachePath returns the full path to the symbol cache file.
func (c *Config) CachePath() string {
	return filepath.Join(c.Cache.Dir, c.Cache.SymbolsFile)
}

// MetadataPath returns the full path to the metadata store file.
func (c *Config) MetadataPath() string {
	return filepath.Join(c.Cache.Dir, c.Cache.MetadataFile)
}

// ResolutionPath returns the full path to the resolution document.
func (c *Config) ResolutionPath() string {
	return filepath.Join(c.Resolution.Dir, c.Resolution.File)
}

// Load loads configuration from a file, choosing a parser from the
// extension (falling back to TOML when it's unrecognized).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches standard locations for a codeintel config file.
func FindConfigFile() string {
	names := []string{"codeintel.toml", "codeintel.yaml", "codeintel.yml", "codeintel.json"}
	dirs := []string{".", ".codeintel"}
	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadOption configures how configuration is loaded.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
}

// WithPath specifies an explicit config file path.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// LoadResult contains the loaded configuration and its source path.
type LoadResult struct {
	Config *Config
	Source string
}

// LoadConfig loads configuration with the provided options, searching
// standard locations when no explicit path is given, and validates the
// result before returning.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var cfg *Config
	var source string
	var err error

	if o.path != "" {
		if _, statErr := os.Stat(o.path); os.IsNotExist(statErr) {
			return nil, fmt.Errorf("config file not found: %s", o.path)
		}
		cfg, err = Load(o.path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", o.path, err)
		}
		source = o.path
	} else {
		source = FindConfigFile()
		if source == "" {
			cfg = DefaultConfig()
		} else {
			cfg, err = Load(source)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", source, err)
			}
		}
	}

	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("config validation failed: %w", validationErr)
	}
	return &LoadResult{Config: cfg, Source: source}, nil
}

// LoadOrDefault loads config from standard locations or returns defaults.
func LoadOrDefault() (*Config, error) {
	result, err := LoadConfig()
	if err != nil {
		if FindConfigFile() == "" {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return result.Config, nil
}

// ErrFileTooLarge is returned when a file exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// IsFileTooLarge reports whether size exceeds maxSize. maxSize <= 0 means
// no limit.
func IsFileTooLarge(size int64, maxSize int64) bool {
	if maxSize <= 0 {
		return false
	}
	return size > maxSize
}

// Validate checks that all config values are within acceptable ranges.
func (c *Config) Validate() error {
	var errs []error

	if c.Index.MaxWorkers < 0 {
		errs = append(errs, errors.New("index.max_workers must be non-negative"))
	}
	if c.Index.MaxFileSize < 0 {
		errs = append(errs, errors.New("index.max_file_size must be non-negative"))
	}
	if c.Index.PerFileSymbolID < 1 {
		errs = append(errs, errors.New("index.per_file_symbol_budget must be at least 1"))
	}
	if c.Cache.Dir == "" {
		errs = append(errs, errors.New("cache.dir must not be empty"))
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		errs = append(errs, fmt.Errorf("output.format must be text or json, got %q", c.Output.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
