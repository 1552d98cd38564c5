package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CASTLE_CONFIG", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("CASTLE_CONFIG", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("API_URL", "https://api.example.com/api/")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("EMAIL_PORT", "465")
	t.Setenv("EMAIL_USE_TLS", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("UPLOAD_DRIVER", "")
	t.Setenv("UPLOAD_PUBLIC_URL", "")
	t.Setenv("UPLOAD_POST_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://api.example.com/api", cfg.APIURL)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 465, cfg.Email.Port)
	assert.True(t, cfg.Email.UseTLS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "KES", cfg.Paystack.Currency)
	assert.Equal(t, "Nairobi", cfg.PODRegion)
	assert.Equal(t, "http://localhost:9090/uploads", cfg.Upload.PublicURL)
	assert.Equal(t, "http://localhost:9090/api/upload/file", cfg.Upload.PostURL)
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "castle.yaml")
	yml := `
port: "7070"
pod_region: Mombasa
catalog_cache_ttl: 5m
storage:
  driver: memory
session:
  jwt_secret: from-file
paystack:
  currency: NGN
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("CASTLE_CONFIG", path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("POD_REGION", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CATALOG_CACHE_TTL", "")
	t.Setenv("PAYSTACK_CURRENCY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "Mombasa", cfg.PODRegion)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, "from-file", cfg.Session.JWTSecret)
	assert.Equal(t, "NGN", cfg.Paystack.Currency)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Session.JWTSecret = "x"
	require.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "postgres"
	assert.Error(t, cfg.Validate())

	cfg.Storage.DatabaseURL = "postgres://localhost/castle"
	require.NoError(t, cfg.Validate())

	cfg.Upload.Driver = "s3"
	assert.Error(t, cfg.Validate())

	cfg.Upload.Bucket = "castle-media"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "mongo"
	assert.Error(t, cfg.Validate())
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "maybe")

	assert.Equal(t, 3, getEnvInt("X_INT", 3))
	assert.Equal(t, time.Minute, getEnvDuration("X_DUR", time.Minute))
	assert.True(t, getEnvBool("X_BOOL", true))
}
