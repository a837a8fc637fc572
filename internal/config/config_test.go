package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, StorageBackendLocal, cfg.Storage.Backend)
	assert.Equal(t, DefaultStoragePrefix, cfg.Storage.Prefix)
	assert.Equal(t, DefaultMediaExtensions, cfg.Media.Extensions)
	assert.Equal(t, 20*time.Second, cfg.Media.FetchTimeout)
	assert.Equal(t, DefaultMaxArchiveEntryBytes, cfg.Media.MaxArchiveEntrySize)
	assert.Empty(t, cfg.Media.PassthroughPrefixes)
	assert.True(t, cfg.Tasks.Enabled)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "assets")
	t.Setenv("MEDIA_EXTENSIONS", "JPG, png ,,tiff")
	t.Setenv("MEDIA_PASSTHROUGH_PREFIXES", "https://cdn.example.com/, /uploads/")
	t.Setenv("MEDIA_FETCH_TIMEOUT", "5s")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, StorageBackendS3, cfg.Storage.Backend)
	assert.Equal(t, "assets", cfg.Storage.S3Bucket)
	assert.Equal(t, []string{".jpg", ".png", ".tiff"}, cfg.Media.Extensions)
	assert.Equal(t, []string{"https://cdn.example.com/", "/uploads/"}, cfg.Media.PassthroughPrefixes)
	assert.Equal(t, 5*time.Second, cfg.Media.FetchTimeout)
}

func TestNewConfig_DefaultExtensionsNotShared(t *testing.T) {
	cfg := NewConfig()
	cfg.Media.Extensions[0] = ".changed"

	assert.Equal(t, ".jpg", DefaultMediaExtensions[0])
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORTFOLIO_DOTENV_TEST=from-file\nHOST=ignored\n"), 0o600))
	t.Setenv("HOST", "127.0.0.1")
	t.Cleanup(func() { _ = os.Unsetenv("PORTFOLIO_DOTENV_TEST") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))

	assert.Equal(t, "from-file", os.Getenv("PORTFOLIO_DOTENV_TEST"))
	assert.Equal(t, "127.0.0.1", os.Getenv("HOST"))
}
