// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "KCHASH_CONFIG"

// defaultCharacters mirrors the engine's reference alphabet without
// its leading NUL, which YAML cannot carry comfortably.
const defaultCharacters = " -0123456789[\\]_abcdefghijklmnopqrstuvwxyz{}"

// Config is the complete kchash configuration.
type Config struct {
	// Alphabet configures the characters searches may place.
	Alphabet AlphabetConfig `yaml:"alphabet"`

	// Search configures the reversal engine.
	Search SearchConfig `yaml:"search"`

	// Cache configures the on-disk table cache.
	Cache CacheConfig `yaml:"cache"`

	// Log configures diagnostic logging.
	Log LogConfig `yaml:"log"`
}

// AlphabetConfig configures the search alphabet.
type AlphabetConfig struct {
	// Characters lists the characters unknown positions may take.
	// The NUL sentinel is added automatically.
	Characters string `yaml:"characters"`
}

// SearchConfig configures the reversal engine.
type SearchConfig struct {
	// MaxUnknownsPerNibble is the deepest search tree to build.
	// Default: 2. Depth 3 needs tens of gigabytes.
	MaxUnknownsPerNibble int `yaml:"max_unknowns_per_nibble"`

	// Workers bounds the goroutines a single search uses. Zero picks
	// the number of CPUs; one searches sequentially.
	Workers int `yaml:"workers"`

	// AllowRepeat enables repeat mode for templates with two equal
	// wildcard runs. Default: true.
	AllowRepeat bool `yaml:"allow_repeat"`

	// MaxWidth caps the run width tried by repeat and suffix
	// searches. Zero means the full range.
	MaxWidth int `yaml:"max_width"`
}

// CacheConfig configures the on-disk table cache.
type CacheConfig struct {
	// Enabled turns the cache on. Default: true.
	Enabled bool `yaml:"enabled"`

	// Dir is where cached tables are stored. ${VAR} and
	// ${VAR:-default} patterns are expanded.
	// Default: $XDG_CACHE_HOME/kchash, else ~/.cache/kchash.
	Dir string `yaml:"dir"`

	// Compression is the algorithm for cached tables: none, lz4, or
	// zstd. Default: zstd.
	Compression string `yaml:"compression"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: warn.
	Level string `yaml:"level"`

	// Format is one of auto, text, json. Auto picks text for a
	// terminal and JSON otherwise. Default: auto.
	Format string `yaml:"format"`
}

// Default returns the built-in configuration, used as the base that a
// config file is merged into.
func Default() *Config {
	return &Config{
		Alphabet: AlphabetConfig{
			Characters: defaultCharacters,
		},
		Search: SearchConfig{
			MaxUnknownsPerNibble: 2,
			Workers:              0,
			AllowRepeat:          true,
		},
		Cache: CacheConfig{
			Enabled:     true,
			Dir:         defaultCacheDir(),
			Compression: "zstd",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "auto",
		},
	}
}

func defaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "kchash")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "kchash")
	}
	return filepath.Join(os.TempDir(), "kchash-cache")
}

// Load loads the file named by KCHASH_CONFIG, or returns [Default]
// when the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Resolve loads path when it is non-empty and otherwise defers to
// [Load]. This is the precedence used by the CLI: --config, then
// KCHASH_CONFIG, then built-in defaults.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	return Load()
}

// LoadFile loads configuration from a specific file path. Fields the
// file omits keep their defaults. Environment variables never override
// values; they are only expanded inside the cache directory.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// AlphabetCharacters returns the configured characters with the NUL
// sentinel included exactly once.
func (c *Config) AlphabetCharacters() string {
	if strings.IndexByte(c.Alphabet.Characters, 0) >= 0 {
		return c.Alphabet.Characters
	}
	return "\x00" + c.Alphabet.Characters
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// cache directory.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Cache.Dir = expandVars(c.Cache.Dir, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, consulting
// vars before the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors, reporting all of them
// at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Alphabet.Characters == "" {
		errs = append(errs, fmt.Errorf("alphabet.characters is required"))
	}

	if c.Search.MaxUnknownsPerNibble < 1 || c.Search.MaxUnknownsPerNibble > 3 {
		errs = append(errs, fmt.Errorf("search.max_unknowns_per_nibble must be 1, 2, or 3, got %d",
			c.Search.MaxUnknownsPerNibble))
	}
	if c.Search.Workers < 0 {
		errs = append(errs, fmt.Errorf("search.workers must not be negative, got %d", c.Search.Workers))
	}
	if c.Search.MaxWidth < 0 || c.Search.MaxWidth > 8 {
		errs = append(errs, fmt.Errorf("search.max_width must be between 0 and 8, got %d", c.Search.MaxWidth))
	}

	if c.Cache.Enabled && c.Cache.Dir == "" {
		errs = append(errs, fmt.Errorf("cache.dir is required when the cache is enabled"))
	}
	compressions := []string{"none", "lz4", "zstd"}
	if !slices.Contains(compressions, c.Cache.Compression) {
		errs = append(errs, fmt.Errorf("cache.compression must be one of: %v", compressions))
	}

	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", levels))
	}
	formats := []string{"auto", "text", "json"}
	if !slices.Contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formats))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsureCacheDir creates the cache directory when the cache is
// enabled.
func (c *Config) EnsureCacheDir() error {
	if !c.Cache.Enabled {
		return nil
	}
	if err := os.MkdirAll(c.Cache.Dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", c.Cache.Dir, err)
	}
	return nil
}
