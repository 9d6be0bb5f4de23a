// Package config loads the optional depalyze configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/depalyze/config.toml
// (falling back to ~/.config/depalyze/config.toml):
//
//	[heuristics]
//	recency_days = 365
//	min_upstream = 2
//
//	[cache]
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
// Keys that are absent keep their defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depalyze/pkg/heuristics"
)

const appName = "depalyze"

// Config holds all file-based settings.
type Config struct {
	Heuristics heuristics.Config `toml:"heuristics"`
	Cache      CacheConfig       `toml:"cache"`
}

// CacheConfig selects and tunes the report cache backend.
type CacheConfig struct {
	Disabled  bool          `toml:"disabled"`
	Dir       string        `toml:"dir"`        // file backend directory; empty means the XDG cache dir
	RedisAddr string        `toml:"redis_addr"` // selects the Redis backend when set
	TTL       time.Duration `toml:"ttl"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Heuristics: heuristics.DefaultConfig(),
		Cache:      CacheConfig{TTL: 7 * 24 * time.Hour},
	}
}

// DefaultPath returns the config file location following the XDG standard.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path over the defaults. An empty path means
// [DefaultPath], which may be missing; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings no heuristic can work with.
func (c Config) Validate() error {
	h := c.Heuristics
	switch {
	case h.RecencyDays <= 0:
		return fmt.Errorf("heuristics.recency_days must be positive, got %d", h.RecencyDays)
	case h.ActiveThreshold < 0, h.MinUpstream < 0, h.MinBusyUpstream < 0,
		h.MinDownstream < 0, h.ChurnThreshold < 0, h.AuthorOverlap < 0:
		return fmt.Errorf("heuristics thresholds must not be negative")
	case c.Cache.TTL < 0:
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	return nil
}
