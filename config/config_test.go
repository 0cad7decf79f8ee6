package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"JWT_SECRET": "s3cret"}))
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "recipebox", cfg.MongoDatabase)
	assert.Equal(t, StoreMongo, cfg.Store)
	assert.Equal(t, ":3001", cfg.APIAddr)
	assert.Equal(t, ":3000", cfg.WebAddr)
	assert.Equal(t, "http://localhost:3001", cfg.APIBaseURL)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "recipebox.events", cfg.RedisChannel)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"JWT_SECRET":    "k",
		"STORE":         "Memory",
		"API_BASE_URL":  "http://api:8080/",
		"TOKEN_TTL":     "30m",
		"COOKIE_SECURE": "true",
		"CORS_ORIGINS":  "http://a.test, http://b.test",
		"REDIS_ADDR":    "redis:6379",
	}))
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "http://api:8080", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
}

func TestFromEnv_SecretRequiredForMongo(t *testing.T) {
	_, err := FromEnv(envOf(map[string]string{}))
	require.Error(t, err)

	cfg, err := FromEnv(envOf(map[string]string{"STORE": "memory"}))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestFromEnv_Invalid(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"ttl":    {"JWT_SECRET": "k", "TOKEN_TTL": "soon"},
		"secure": {"JWT_SECRET": "k", "COOKIE_SECURE": "maybe"},
		"store":  {"JWT_SECRET": "k", "STORE": "postgres"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envOf(env))
			assert.Error(t, err)
		})
	}
}
