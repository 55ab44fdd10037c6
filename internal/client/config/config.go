// Package config holds the client configuration: where the working
// directory lives, which hub to talk to, and the engine knobs.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/hubtools/hubsync/internal/utils"
)

const (
	// StateDirName is the hidden directory inside the working dir holding
	// the hash database and the sync lock.
	StateDirName = ".hubsync"

	DefaultConcurrentLimit = 4
	DefaultPageLimit       = 100
)

var DefaultConfigPath = filepath.Join(StateDirName, "config.json")

// Config is the client configuration, loaded from the working directory's
// config file and overridable via flags and environment.
type Config struct {
	Dir             string `json:"dir"`
	ServerURL       string `json:"server_url"`
	APIKey          string `json:"api_key"`
	ConcurrentLimit int    `json:"concurrent_limit"`
	PageLimit       int    `json:"page_limit"`
	ContinueOnError bool   `json:"continue_on_error"`
	Path            string `json:"-"`
}

// Load reads a config file. A missing file is not an error; the zero
// config plus flag/env values may be complete on their own.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ConcurrentLimit: DefaultConcurrentLimit,
		PageLimit:       DefaultPageLimit,
		ContinueOnError: true,
		Path:            path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Save writes the config file, creating the state directory if needed.
func (c *Config) Save(path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate normalizes the config and rejects unusable values.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return errors.New("working directory is required")
	}
	dir, err := utils.ResolvePath(c.Dir)
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	c.Dir = dir

	if c.ServerURL == "" {
		return errors.New("server url is required")
	}
	parsed, err := url.Parse(c.ServerURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("invalid server url %q", c.ServerURL)
	}

	if c.ConcurrentLimit < 1 {
		c.ConcurrentLimit = DefaultConcurrentLimit
	}
	if c.PageLimit < 1 {
		c.PageLimit = DefaultPageLimit
	}
	return nil
}

// StateDir returns the hidden state directory inside the working dir.
func (c *Config) StateDir() string {
	return filepath.Join(c.Dir, StateDirName)
}

// HashDBPath returns the path of the hash database.
func (c *Config) HashDBPath() string {
	return filepath.Join(c.StateDir(), "hashes.db")
}

// LockPath returns the path of the working-directory lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.StateDir(), "sync.lock")
}
