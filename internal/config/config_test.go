package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fifocat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Human sizes", func(t *testing.T) {
		path := writeConfig(t, `
capacity: 16KiB
max_capacity: 1MB
chunk_size: 512
grow: true
log_level: debug
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ByteSize(16*1024), cfg.Capacity)
		assert.Equal(t, ByteSize(1000*1000), cfg.MaxCapacity)
		assert.Equal(t, ByteSize(512), cfg.ChunkSize)
		assert.True(t, cfg.Grow)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Missing keys keep defaults", func(t *testing.T) {
		path := writeConfig(t, "grow: true\n")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultCapacity, cfg.Capacity)
		assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
		assert.Equal(t, int(DefaultCapacity), cfg.EffectiveMaxCapacity())
	})

	t.Run("Bad size", func(t *testing.T) {
		path := writeConfig(t, "capacity: lots\n")

		_, err := Load(path)
		assert.ErrorContains(t, err, "invalid byte size")
	})

	t.Run("Size must be scalar", func(t *testing.T) {
		path := writeConfig(t, "capacity: [1, 2]\n")

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestValidate(t *testing.T) {
	for name, tc := range map[string]struct {
		mutate func(*Config)
		err    string
	}{
		"default":           {mutate: func(*Config) {}},
		"zero capacity":     {mutate: func(c *Config) { c.Capacity = 0 }, err: "capacity must be"},
		"zero chunk":        {mutate: func(c *Config) { c.ChunkSize = 0 }, err: "chunk_size must be"},
		"max below initial": {mutate: func(c *Config) { c.MaxCapacity = c.Capacity - 1 }, err: "max_capacity"},
		"unknown level":     {mutate: func(c *Config) { c.LogLevel = "loud" }, err: "log_level"},
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.err)
		})
	}
}

func TestByteSizeString(t *testing.T) {
	assert.Equal(t, "64 KiB", DefaultCapacity.String())
	assert.Equal(t, "512 B", ByteSize(512).String())
}
