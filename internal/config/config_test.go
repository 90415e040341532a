package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "postgres", cfg.StorageBackend)
	assert.Equal(t, "useraccounts", cfg.Realm)
	assert.NotEmpty(t, cfg.ConnectionString)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("REALM=gridusers\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("REALM") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gridusers", cfg.Realm)
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}
