package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DB_DRIVER", "DB_DSN_PRIMARY", "JWT_SECRET", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL",
		"REDIS_ADDR", "REDIS_PASSWORD", "UPLOAD_DIR", "BASE_URL", "CORS_ORIGINS", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Contains(t, cfg.DBDSN, "parseTime=true")
	assert.Contains(t, cfg.DBDSN, "clientFoundRows=true")
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 72*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL", "10m")
	t.Setenv("BASE_URL", "https://shop.example.com/")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Contains(t, cfg.DBDSN, "foreign_keys(1)")
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 10*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "https://shop.example.com", cfg.BaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "DB_DRIVER", "postgres"},
		{"bad duration", "ACCESS_TOKEN_TTL", "soon"},
		{"access longer than refresh", "ACCESS_TOKEN_TTL", "100h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
