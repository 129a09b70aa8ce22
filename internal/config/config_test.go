package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("CAMPUS_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnvDefault("CAMPUS_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnvDefault("CAMPUS_TEST_MISSING", "fallback"))
}

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADDR", ":9090")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("FEATURED_TTL", "30s")
	t.Setenv("BCRYPT_COST", "4")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.FeaturedTTL)
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADDR", "")
	t.Setenv("TOKEN_TTL", "not-a-duration")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("FEATURED_TTL", "")
	t.Setenv("BCRYPT_COST", "ten")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, time.Minute, cfg.FeaturedTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestDSN(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "campus")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "campusconnect")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_SSLMODE", "")

	assert.Equal(t, "host=localhost user=campus password=pw dbname=campusconnect port=5432 sslmode=disable", DSN())
}
