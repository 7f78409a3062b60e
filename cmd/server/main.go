package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/kinnovative-other-websites/transport-field-check/internal/adapters/cache"
	"github.com/kinnovative-other-websites/transport-field-check/internal/adapters/directions"
	"github.com/kinnovative-other-websites/transport-field-check/internal/adapters/repositories"
	"github.com/kinnovative-other-websites/transport-field-check/internal/api"
	"github.com/kinnovative-other-websites/transport-field-check/internal/config"
	"github.com/kinnovative-other-websites/transport-field-check/internal/metrics"
	"github.com/kinnovative-other-websites/transport-field-check/internal/platform/db"
	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (postgres, Redis, Google Directions) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if strings.TrimSpace(cfg.MapsAPIKey) == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is required")
	}

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	engine, err := directions.NewGoogleDirections(cfg.MapsAPIKey, cfg.EngineTimeout)
	if err != nil {
		log.Fatal(err)
	}

	stops := repositories.NewPostgresStopRepository(pool)

	// Latest-result reads go through Redis when configured; without
	// REDIS_ADDR the decorator passes straight through to postgres.
	var results ports.ResultRepository = repositories.NewPostgresResultRepository(pool)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		results = cache.NewCachedResultRepository(results, cache.NewRedisResultCache(client, 5*time.Minute))
		log.Printf("result cache enabled addr=%s", cfg.RedisAddr)
	}

	m := metrics.New()
	router := api.NewRouter(stops, results, engine, m)

	// Write timeout leaves headroom for one bounded engine call.
	addr := ":" + cfg.Port
	log.Printf("Server listening addr=%s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.EngineTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
