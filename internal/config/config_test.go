package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "STORE_DRIVER", "UPLOAD_DIR", "PUBLIC_MEDIA_PATH", "MAX_UPLOAD_MB", "ACCESS_KEY_ATTEMPTS", "ACCESS_TOKEN_TTL", "CORS_ORIGINS", "SMTP_HOST"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, "/uploads", cfg.PublicMediaPath)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 10, cfg.AccessKeyAttempts)
	assert.Equal(t, 20*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("PUBLIC_MEDIA_PATH", "media/")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("ACCESS_KEY_ATTEMPTS", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg := Load()

	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "/media", cfg.PublicMediaPath)
	assert.Equal(t, int64(2<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 3, cfg.AccessKeyAttempts)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ACCESS_KEY_ATTEMPTS", "-4")
	t.Setenv("REFRESH_TOKEN_TTL", "abc")

	cfg := Load()

	assert.Equal(t, 10, cfg.AccessKeyAttempts)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
}
