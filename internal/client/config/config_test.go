package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConcurrentLimit, cfg.ConcurrentLimit)
	assert.Equal(t, DefaultPageLimit, cfg.PageLimit)
	assert.True(t, cfg.ContinueOnError)
}

func TestConfig_SaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateDirName, "config.json")

	cfg := &Config{
		Dir:             "/work/site",
		ServerURL:       "https://hub.example.com",
		APIKey:          "secret",
		ConcurrentLimit: 8,
		PageLimit:       50,
	}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Dir, loaded.Dir)
	assert.Equal(t, cfg.ServerURL, loaded.ServerURL)
	assert.Equal(t, cfg.APIKey, loaded.APIKey)
	assert.Equal(t, 8, loaded.ConcurrentLimit)
	assert.Equal(t, 50, loaded.PageLimit)
	assert.Equal(t, path, loaded.Path)
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Dir: dir, ServerURL: "https://hub.example.com"},
		},
		{
			name:    "missing dir",
			cfg:     Config{ServerURL: "https://hub.example.com"},
			wantErr: "working directory",
		},
		{
			name:    "missing server",
			cfg:     Config{Dir: dir},
			wantErr: "server url",
		},
		{
			name:    "bad scheme",
			cfg:     Config{Dir: dir, ServerURL: "ftp://hub.example.com"},
			wantErr: "invalid server url",
		},
		{
			name:    "not a url",
			cfg:     Config{Dir: dir, ServerURL: "hub.example.com"},
			wantErr: "invalid server url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateClampsLimits(t *testing.T) {
	cfg := Config{
		Dir:             t.TempDir(),
		ServerURL:       "http://localhost:8080",
		ConcurrentLimit: -3,
		PageLimit:       0,
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultConcurrentLimit, cfg.ConcurrentLimit)
	assert.Equal(t, DefaultPageLimit, cfg.PageLimit)
}

func TestConfig_StatePaths(t *testing.T) {
	cfg := Config{Dir: "/work/site"}
	assert.Equal(t, filepath.Join("/work/site", StateDirName), cfg.StateDir())
	assert.Equal(t, filepath.Join("/work/site", StateDirName, "hashes.db"), cfg.HashDBPath())
	assert.Equal(t, filepath.Join("/work/site", StateDirName, "sync.lock"), cfg.LockPath())
}
