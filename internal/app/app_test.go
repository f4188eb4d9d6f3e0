package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anthanhphan/go-secure-file-storage/internal/adapter/outbound/disk"
	"github.com/anthanhphan/go-secure-file-storage/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_CreatesStorageRoot(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.RootDir = filepath.Join(t.TempDir(), "nested", "uploads")

	a, err := build(cfg)
	require.NoError(t, err)
	assert.NotNil(t, a.server)
	assert.Nil(t, a.redisClient)

	info, err := os.Stat(filepath.Join(cfg.Storage.RootDir, disk.PartialDir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestBuild_RedisClock(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.RootDir = t.TempDir()
	cfg.Clock.Source = config.ClockRedis
	cfg.Redis.Addr = "127.0.0.1:1"

	a, err := build(cfg)
	require.NoError(t, err)
	require.NotNil(t, a.redisClient)
	assert.NoError(t, a.redisClient.Close())
}

func TestBuild_RootIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	cfg := config.DefaultConfig()
	cfg.Storage.RootDir = file

	_, err := build(cfg)
	assert.Error(t, err)
}
