package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// devJWTSecret is only used when JWT_SECRET is not set.
const devJWTSecret = "A_VERY_SECURE_SECRET_KEY_REPLACE_LATER"

// Config holds everything the API server reads from the environment.
type Config struct {
	Port string

	// DBDriver is "mysql" (default) or "sqlite".
	DBDriver string
	DBDSN    string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// RedisAddr enables the catalog cache when non-empty.
	RedisAddr     string
	RedisPassword string

	UploadDir   string
	BaseURL     string
	CORSOrigins []string

	AdminEmail    string
	AdminPassword string
}

// Load reads the configuration from environment variables.
// Call godotenv.Load() first if a .env file should be honoured.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBDSN:         os.Getenv("DB_DSN_PRIMARY"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		BaseURL:       strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = getDuration("REFRESH_TOKEN_TTL", 72*time.Hour); err != nil {
		return nil, err
	}

	switch cfg.DBDriver {
	case "mysql":
		if cfg.DBDSN == "" {
			// clientFoundRows makes RowsAffected count matched rows, like SQLite does.
			cfg.DBDSN = "root:root@tcp(127.0.0.1:3306)/storefront?parseTime=true&multiStatements=true&clientFoundRows=true"
		}
	case "sqlite":
		if cfg.DBDSN == "" {
			cfg.DBDSN = "file:storefront.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want mysql or sqlite)", cfg.DBDriver)
	}

	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is not set. Falling back to the development secret.")
		cfg.JWTSecret = devJWTSecret
	}

	if cfg.AccessTokenTTL >= cfg.RefreshTokenTTL {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL (%s) must be shorter than REFRESH_TOKEN_TTL (%s)", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
