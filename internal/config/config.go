package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	JWTSecret   string
	TokenTTL    time.Duration
	RedisAddr   string // пустой адрес - кеш выключен
	FeaturedTTL time.Duration
	BcryptCost  int
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found")
	}
}

func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("environment variable %s is not set", key)
	}
	return value
}

func GetEnvDefault(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

func durationEnv(key string, def time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("invalid %s, using %s", key, def)
		return def
	}
	return d
}

func intEnv(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s, using %d", key, def)
		return def
	}
	return n
}

// DSN строка подключения к PostgreSQL, все DB_* переменные обязательны
func DSN() string {
	return "host=" + GetEnv("DB_HOST") +
		" user=" + GetEnv("DB_USER") +
		" password=" + GetEnv("DB_PASSWORD") +
		" dbname=" + GetEnv("DB_NAME") +
		" port=" + GetEnv("DB_PORT") +
		" sslmode=" + GetEnvDefault("DB_SSLMODE", "disable")
}

func BcryptCost() int {
	return intEnv("BCRYPT_COST", 10)
}

// Load собирает конфигурацию сервера из окружения. JWT_SECRET обязателен.
func Load() Config {
	return Config{
		Addr:        GetEnvDefault("ADDR", ":8080"),
		JWTSecret:   GetEnv("JWT_SECRET"),
		TokenTTL:    durationEnv("TOKEN_TTL", 72*time.Hour),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		FeaturedTTL: durationEnv("FEATURED_TTL", time.Minute),
		BcryptCost:  BcryptCost(),
	}
}
