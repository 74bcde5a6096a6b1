package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", c.Store)
	assert.Equal(t, time.Minute, c.DecayInterval)
	assert.Equal(t, 5*time.Second, c.WriteTimeout)
	assert.Equal(t, zerolog.InfoLevel, c.Level())
	assert.Contains(t, c.DataDir, "puppyparty")
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PUPPY_STORE", "file")
	t.Setenv("PUPPY_DATA_DIR", dir)
	t.Setenv("PUPPY_DECAY_INTERVAL", "30s")
	t.Setenv("PUPPY_LOG_LEVEL", "debug")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", c.Store)
	assert.Equal(t, dir, c.DataDir)
	assert.Equal(t, 30*time.Second, c.DecayInterval)
	assert.Equal(t, zerolog.DebugLevel, c.Level())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown store", "PUPPY_STORE", "redis"},
		{"zero interval", "PUPPY_DECAY_INTERVAL", "0s"},
		{"unparsable interval", "PUPPY_DECAY_INTERVAL", "soon"},
		{"bad level", "PUPPY_LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PUPPY_DATA_DIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
