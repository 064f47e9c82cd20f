package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  driver: memory
jwt:
  secret: s3cret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, int64(50*1024*1024), cfg.Upload.MaxSize)
	assert.NotEmpty(t, cfg.Upload.AllowedTypes)
	assert.Equal(t, ":8080", cfg.Address())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  driver: memory
jwt:
  secret: from-file
`)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "env-only")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-only", cfg.JWT.Secret)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("postgres without dsn", func(t *testing.T) {
		path := writeConfig(t, "jwt:\n  secret: x\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		path := writeConfig(t, "database:\n  driver: memory\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "eighty")
		path := writeConfig(t, "database:\n  driver: memory\njwt:\n  secret: x\n")
		_, err := Load(path)
		assert.Error(t, err)
	})
}
