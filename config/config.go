// Package config loads runtime settings from an optional .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds everything main needs to wire the API and web servers.
type Config struct {
	MongoURI      string
	MongoDatabase string
	Store         string

	APIAddr    string
	WebAddr    string
	APIBaseURL string

	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool
	CORSOrigins  []string

	RedisAddr    string
	RedisChannel string

	LogLevel string
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		MongoURI:      get("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: get("MONGODB_DATABASE", "recipebox"),
		Store:         strings.ToLower(get("STORE", StoreMongo)),
		APIAddr:       get("API_ADDR", ":3001"),
		WebAddr:       get("WEB_ADDR", ":3000"),
		APIBaseURL:    strings.TrimRight(get("API_BASE_URL", "http://localhost:3001"), "/"),
		JWTSecret:     getenv("JWT_SECRET"),
		RedisAddr:     get("REDIS_ADDR", ""),
		RedisChannel:  get("REDIS_CHANNEL", "recipebox.events"),
		LogLevel:      get("LOG_LEVEL", "info"),
	}

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "2h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	secure, err := strconv.ParseBool(get("COOKIE_SECURE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}
	cfg.CookieSecure = secure

	for _, o := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	switch cfg.Store {
	case StoreMongo, StoreMemory:
	default:
		return nil, fmt.Errorf("unknown STORE %q", cfg.Store)
	}

	if cfg.JWTSecret == "" {
		if cfg.Store != StoreMemory {
			return nil, errors.New("JWT_SECRET environment variable is not set")
		}
		cfg.JWTSecret = "dev-secret"
	}

	return cfg, nil
}
