// Package config loads diaglint configuration from a TOML file.
//
// Configuration lives at ~/.config/diaglint/config.toml by default. Every
// field is optional; a missing file yields the defaults, so a fresh install
// works with no setup. Example:
//
//	[mermaid]
//	command = "mmdc"
//	config = "/home/me/.config/diaglint/mermaid-config.json"
//	timeout_seconds = 30
//
//	[plantuml]
//	command = "plantuml"
//
//	[cache]
//	backend = "file"   # file, redis, none
//	ttl_hours = 168
//
//	[server]
//	addr = ":8440"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/diagramlab/diaglint/pkg/errors"
)

// Tool configures one external renderer command.
type Tool struct {
	// Command is the executable name or path. Resolved through PATH.
	Command string `toml:"command"`

	// Config is an optional renderer config file passed through verbatim.
	Config string `toml:"config"`

	// TimeoutSeconds bounds a single render invocation.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Timeout returns the tool's render timeout as a duration.
func (t Tool) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// CacheConfig selects and configures the artifact cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`

	// RedisAddr is the host:port of the Redis backend.
	RedisAddr string `toml:"redis_addr"`

	// TTLHours is the artifact lifetime. Zero means the built-in default.
	TTLHours int `toml:"ttl_hours"`
}

// TTL returns the configured artifact lifetime.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLHours == 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.TTLHours) * time.Hour
}

// ServerConfig configures the validation HTTP API.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8440".
	Addr string `toml:"addr"`
}

// Config is the full diaglint configuration.
type Config struct {
	Mermaid  Tool         `toml:"mermaid"`
	PlantUML Tool         `toml:"plantuml"`
	Cache    CacheConfig  `toml:"cache"`
	Server   ServerConfig `toml:"server"`
}

// Cache backend names.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Mermaid:  Tool{Command: "mmdc", TimeoutSeconds: 30},
		PlantUML: Tool{Command: "plantuml", TimeoutSeconds: 30},
		Cache:    CacheConfig{Backend: CacheBackendFile},
		Server:   ServerConfig{Addr: ":8440"},
	}
}

// DefaultPath returns the default config file location,
// ~/.config/diaglint/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "diaglint", "config.toml"), nil
}

// Load reads the config file at path, applying defaults for absent fields.
// An empty path means the default location. A missing file is not an
// error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, nil // no home dir, run on defaults
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	if err := validate(cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// validate rejects config values that would fail confusingly later.
func validate(cfg Config) error {
	switch cfg.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid cache backend: %s (must be 'file', 'redis', or 'none')", cfg.Cache.Backend)
	}

	if err := errors.ValidateToolName(cfg.Mermaid.Command); err != nil {
		return err
	}
	return errors.ValidateToolName(cfg.PlantUML.Command)
}
