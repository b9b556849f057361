package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultThreads, cfg.Threads)
	d, err := cfg.GetTimeout()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, d)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `threads: 4
timeout: 5s
rate: 2.5
noColor: true
history: runs.db
headers:
  X-Agent: httpspec
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".httpspec.yaml"), []byte(content), 0o644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, 2.5, cfg.Rate)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "runs.db", cfg.History)
	assert.Equal(t, "httpspec", cfg.Headers["X-Agent"])

	d, err := cfg.GetTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)
}

func TestThreadCount_EnvWins(t *testing.T) {
	cfg := &Config{Threads: 2}
	t.Setenv(ThreadCountEnv, "8")
	assert.Equal(t, 8, cfg.ThreadCount())
}

func TestThreadCount_ClampsToOne(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 1, cfg.ThreadCount())

	t.Setenv(ThreadCountEnv, "-3")
	assert.Equal(t, 1, cfg.ThreadCount())
}

func TestGetTimeout_Invalid(t *testing.T) {
	cfg := &Config{Timeout: "soon"}
	_, err := cfg.GetTimeout()
	assert.Error(t, err)
}
