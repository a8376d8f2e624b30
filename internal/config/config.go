package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string
	AppPort string

	// Upstream marketplace API.
	APIBaseURL     string
	RequestTimeout time.Duration

	// Persistent key-value backend: memory, file, sqlite, postgres or redis.
	StorageDriver string
	StoragePath   string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionCookie   string
	AllowedOrigins  []string
	RateLimitEnable bool

	// Stub backend.
	StubPort  string
	JWTSecret string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:          getenv("APP_ENV", "development"),
		AppPort:         getenv("APP_PORT", "8080"),
		APIBaseURL:      getenv("API_BASE_URL", "http://localhost:3500"),
		RequestTimeout:  getDuration("API_TIMEOUT", 15*time.Second),
		StorageDriver:   getenv("STORAGE_DRIVER", "file"),
		StoragePath:     getenv("STORAGE_PATH", ".farmer-market"),
		DatabaseURL:     os.Getenv("DB_URL"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getInt("REDIS_DB", 0),
		SessionCookie:   getenv("SESSION_COOKIE", "fm_session"),
		AllowedOrigins:  []string{getenv("CORS_ORIGIN", "http://localhost:5173")},
		RateLimitEnable: getBool("RATE_LIMIT", true),
		StubPort:        getenv("STUB_PORT", "3500"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
