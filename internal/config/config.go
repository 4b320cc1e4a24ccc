package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all runtime configuration, read from the environment.
type AppConfig struct {
	Port        string
	Env         string
	DatabaseURL string

	// IdentityVerifyURL is the identity provider's token verification
	// endpoint. Empty means every presented token is rejected.
	IdentityVerifyURL string

	// AllowAnonymous lets requests without an Authorization header through
	// as an anonymous dev identity. Development convenience; keep false in
	// production.
	AllowAnonymous bool

	// CacheTTL is how long an aggregated snapshot stays fresh.
	CacheTTL time.Duration

	// WarmInterval controls the background cache warm-up job. Zero disables it.
	WarmInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg := &AppConfig{
		Port:              getenvDefault("PORT", "8080"),
		Env:               getenvDefault("GO_ENV", "development"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		IdentityVerifyURL: os.Getenv("IDENTITY_VERIFY_URL"),
		AllowAnonymous:    getenvBool("AUTH_ALLOW_ANONYMOUS", true),
	}

	ttl, err := getenvDuration("CACHE_TTL", "15m")
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	warm, err := getenvDuration("WARM_INTERVAL", "10m")
	if err != nil {
		return nil, fmt.Errorf("invalid WARM_INTERVAL: %w", err)
	}
	cfg.WarmInterval = warm

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}
