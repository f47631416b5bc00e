package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultMaxSolutions, cfg.GetInt(ConfigMaxSolutions))
	assert.Equal(t, 1, cfg.GetInt(ConfigThreads))
	assert.False(t, cfg.GetBool(ConfigDebug))
	assert.Equal(t, time.Second, cfg.GetDuration(ConfigPollInterval))
	assert.NoError(t, cfg.Validate())
}

func TestLoadFlags(t *testing.T) {
	cfg := &Config{}
	err := cfg.Load([]string{"--max-solutions", "7", "--threads=2", "--debug"})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.GetInt(ConfigMaxSolutions))
	assert.Equal(t, 2, cfg.GetInt(ConfigThreads))
	assert.True(t, cfg.GetBool(ConfigDebug))
	assert.Contains(t, cfg.SanitizedSettings(), "max-solutions=7")
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("ONLYONELEFT_MAX_SOLUTIONS", "12")
	cfg := &Config{}
	require.NoError(t, cfg.Load(nil))
	assert.Equal(t, 12, cfg.GetInt(ConfigMaxSolutions))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "onlyoneleft.yaml")
	require.NoError(t, os.WriteFile(path, []byte("memory-fraction: 0.25\nthreads: 3\n"), 0644))
	cfg := &Config{}
	require.NoError(t, cfg.Load([]string{"--config-file", path}))
	assert.InDelta(t, 0.25, cfg.GetFloat64(ConfigMemoryFraction), 1e-9)
	assert.Equal(t, 3, cfg.GetInt(ConfigThreads))
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.ErrorIs(t, cfg.Load([]string{"--max-solutions", "0"}), errBadMaxSolutions)
	assert.ErrorIs(t, cfg.Load([]string{"--threads", "0"}), errBadThreads)
	assert.ErrorIs(t, cfg.Load([]string{"--memory-fraction", "2"}), errBadMemoryFraction)
	assert.Error(t, cfg.Load([]string{"--no-such-flag"}))
}
