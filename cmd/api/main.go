package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/cache"
	"github.com/01moynul/storefront-golang/internal/config"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/routes"
	"github.com/01moynul/storefront-golang/internal/store"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// tokenPurgeInterval is how often expired token revocations are dropped.
const tokenPurgeInterval = time.Hour

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 1. --- Database Connection and Schema ---
	dialect, err := database.ParseDialect(cfg.DBDriver)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	db, err := database.OpenDB(dialect, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, dialect); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	st := store.New(db, dialect)

	// 2. --- Catalog Cache (optional) ---
	ctx := context.Background()
	var catalogCache cache.CatalogCache = cache.NoopCache{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("WARNING: Redis at %s is unreachable (%v). Serving the catalog without a cache.", cfg.RedisAddr, err)
		} else {
			log.Printf("Catalog cache connected to Redis at %s", cfg.RedisAddr)
			catalogCache = cache.NewRedisCache(redisClient)
		}
	}

	// 3. --- Bootstrap Admin ---
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		admin, err := st.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatalf("Failed to provision admin account: %v", err)
		}
		log.Printf("Admin account ready: %s", admin.Email)
	}

	app := &handlers.Handlers{
		Store:     st,
		Catalog:   cache.NewCatalog(st, catalogCache),
		Tokens:    auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		UploadDir: cfg.UploadDir,
		BaseURL:   cfg.BaseURL,
	}

	// --- 4. Background Workers ---
	// Revocations outlive their token only until it expires.
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	go func() {
		ticker := time.NewTicker(tokenPurgeInterval)
		defer ticker.Stop()

		log.Println("Background Worker Started: purging expired token revocations...")

		for {
			select {
			case <-workerCtx.Done():
				return
			case now := <-ticker.C:
				n, err := st.PurgeExpiredTokens(workerCtx, now)
				if err != nil {
					log.Printf("Token purge failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("Purged %d expired token revocations", n)
				}
			}
		}
	}()

	// --- Router Setup ---
	router := routes.SetupRouter(app, cfg.CORSOrigins)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start Server ---
	go func() {
		log.Printf("Starting Storefront API server on %s (%s)...", cfg.Addr(), dialect)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopWorkers()
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shut down: %v", err)
	}
	log.Println("Server stopped")
}
