package config

import (
	"os"
	"time"
)

// Runtime configuration resolved from the environment.
type Config struct {
	Port          string
	DatabaseURL   string
	MapsAPIKey    string
	RedisAddr     string
	EngineTimeout time.Duration
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from the environment. Validation of required
// values (DATABASE_URL, GOOGLE_MAPS_API_KEY) happens at the composition root
// so each binary can decide what it actually needs.
func Load() *Config {
	timeout := 15 * time.Second
	if v := os.Getenv("ENGINE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			timeout = d
		}
	}

	return &Config{
		Port:          Get("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MapsAPIKey:    os.Getenv("GOOGLE_MAPS_API_KEY"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		EngineTimeout: timeout,
	}
}
