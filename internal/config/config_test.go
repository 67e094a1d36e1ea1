package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.vimeo.com", cfg.VimeoAPIURL)
	assert.Equal(t, "https://vimeo.com/api/oembed.json", cfg.VimeoOEmbedURL)
	assert.Equal(t, "https://vimeo.com/{}", cfg.VimeoVideoURLPattern)
	assert.Equal(t, 300*time.Second, cfg.CacheExpires)
	assert.Equal(t, "", cfg.CacheBackend)
	assert.Equal(t, "vimeo_cache", cfg.CacheKeyPrefix)
	assert.False(t, cfg.IsPostgresLibrary())
	assert.False(t, cfg.IsSQLiteLibrary())
	assert.Equal(t, "vimeo_storage.db", cfg.SQLitePath)
	assert.False(t, cfg.S3Enabled())
	assert.Equal(t, ":8295", cfg.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VIMEO_ACCESS_TOKEN", "  token  ")
	t.Setenv("VIMEO_API_URL", "http://localhost:9999/")
	t.Setenv("VIMEO_CACHE_BACKEND", " Memory ")
	t.Setenv("VIMEO_CACHE_EXPIRES", "90s")
	t.Setenv("LIBRARY_BACKEND", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.VimeoAccessToken)
	assert.Equal(t, "http://localhost:9999", cfg.VimeoAPIURL)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 90*time.Second, cfg.CacheExpires)
	assert.True(t, cfg.IsPostgresLibrary())
}

func TestSQLiteLibrary(t *testing.T) {
	t.Setenv("LIBRARY_BACKEND", " SQLite ")
	t.Setenv("SQLITE_PATH", "/var/lib/vimeo/library.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsSQLiteLibrary())
	assert.False(t, cfg.IsPostgresLibrary())
	assert.Equal(t, "/var/lib/vimeo/library.db", cfg.SQLitePath)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"redis without url", map[string]string{"VIMEO_CACHE_BACKEND": "redis"}},
		{"pattern without placeholder", map[string]string{"VIMEO_VIDEO_URL_PATTERN": "https://vimeo.com/"}},
		{"auth without issuer", map[string]string{"AUTH_ENABLED": "true", "AUTH_JWKS_URL": "http://jwks"}},
		{"auth without jwks", map[string]string{"AUTH_ENABLED": "true", "AUTH_ISSUER": "issuer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
