package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/shmslot/pkg/shm"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "shmslot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
log_level: 1
region:
  name: orders
  size: 8192
  access: ro
demo:
  workers: 2
  hold: 10ms
serve:
  addr: 127.0.0.1:0
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.LogLevel)
	assert.Equal(t, "orders", cfg.Region.Name)
	assert.Equal(t, 8192, cfg.Region.Size)
	assert.Equal(t, 2, cfg.Demo.Workers)
	assert.Equal(t, 1000, cfg.Demo.Records, "unset keys keep their defaults")
	assert.Equal(t, 10*time.Millisecond, cfg.Demo.Hold)
	assert.Equal(t, "127.0.0.1:0", cfg.Serve.Addr)

	rcfg, err := cfg.regionConfig(false)
	require.NoError(t, err)
	assert.Equal(t, shm.ReadOnly, rcfg.Access)
	assert.False(t, rcfg.Create)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Verify())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "region: [1, 2"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "region:\n  access: exec\n"))
	assert.ErrorIs(t, err, shm.ErrInvalidConfig)

	_, err = LoadConfig(writeConfig(t, "region:\n  name: a/b\n"))
	assert.ErrorIs(t, err, shm.ErrInvalidConfig)

	_, err = LoadConfig(writeConfig(t, "demo:\n  workers: 0\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "region:\n  size: 16\n"))
	assert.ErrorContains(t, err, "at least one 24-byte record")

	_, err = LoadConfig(writeConfig(t, "demo:\n  wait: 0s\n"))
	assert.ErrorContains(t, err, "demo.wait must be positive")
}

func TestVerifyRecordSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Region.Size = shm.SizeOf[event]()
	assert.NoError(t, cfg.Verify())

	cfg.Region.Size--
	assert.Error(t, cfg.Verify())
}
