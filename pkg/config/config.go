// Package config loads the depview configuration file.
//
// Configuration lives at ~/.config/depview/config.toml (respecting
// os.UserConfigDir). Every field has a working default, so a missing file is
// not an error: the CLI runs fine without any configuration at all, and
// flags override whatever the file provides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Viewer ViewerConfig `toml:"viewer"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis" or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory (default: XDG cache dir).
	Dir string `toml:"dir"`

	// Redis connection settings, used when Backend is "redis".
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ViewerConfig tunes the interactive viewer.
type ViewerConfig struct {
	MinZoom float64 `toml:"min_zoom"`
	MaxZoom float64 `toml:"max_zoom"`
	Padding float64 `toml:"padding"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Backend:   "file",
			RedisAddr: "localhost:6379",
		},
		Viewer: ViewerConfig{
			MinZoom: 1.0,
			MaxZoom: 10.0,
			Padding: 20.0,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			MongoURI: "mongodb://localhost:27017",
			MongoDB:  "depview",
		},
	}
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path. A missing file
// yields the defaults; a malformed file is an error.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the standard configuration file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "depview", "config.toml"), nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return fmt.Errorf("invalid cache backend %q (expected file, redis or none)", c.Cache.Backend)
	}
	if c.Viewer.MinZoom <= 0 || c.Viewer.MaxZoom <= 0 {
		return fmt.Errorf("zoom bounds must be positive")
	}
	if c.Viewer.MinZoom > c.Viewer.MaxZoom {
		return fmt.Errorf("min_zoom %v exceeds max_zoom %v", c.Viewer.MinZoom, c.Viewer.MaxZoom)
	}
	return nil
}
