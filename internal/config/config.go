package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Env         string
	HTTPPort    string
	Store       string
	DatabaseURL string
	Migrate     bool

	// StoreLatency is the max random delay the memory tables add to each call.
	StoreLatency time.Duration
	LockTimeout  time.Duration
	RateRPS      int

	JWTSecret        string
	JWTRefreshSecret string
	JWTIssuer        string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	CORSAllowedOrigins []string
}

// AuthEnabled reports whether point routes require a bearer token.
func (c Config) AuthEnabled() bool { return c.JWTSecret != "" }

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                get("APP_ENV", "dev"),
		HTTPPort:           get("HTTP_PORT", "8080"),
		Store:              strings.ToLower(get("STORE", StoreMemory)),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		Migrate:            getBool("APP_MIGRATE", false),
		StoreLatency:       getDuration("STORE_LATENCY", 0),
		LockTimeout:        getDuration("LOCK_TIMEOUT", 0),
		RateRPS:            getInt("RATE_RPS", 100),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTRefreshSecret:   os.Getenv("JWT_REFRESH_SECRET"),
		JWTIssuer:          get("JWT_ISSUER", "point-ledger"),
		AccessTTL:          getDuration("JWT_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:         getDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		CORSAllowedOrigins: strings.Split(get("CORS_ALLOWED_ORIGINS", "*"), ","),
	}
	if cfg.JWTRefreshSecret == "" {
		cfg.JWTRefreshSecret = cfg.JWTSecret
	}

	switch cfg.Store {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required when STORE=postgres")
		}
	default:
		return Config{}, errors.New("STORE must be memory or postgres, got " + cfg.Store)
	}
	return cfg, nil
}

func get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
