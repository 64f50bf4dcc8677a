package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr       string
	APIBaseURL     string
	RedisAddr      string
	RedisPassword  string
	CookieSecure   bool
	SessionTTL     time.Duration
	CacheTTL       time.Duration
	CacheSize      int
	RequestTimeout time.Duration
}

func Load() Config {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	return Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		APIBaseURL:     getenv("API_BASE_URL", "http://localhost:8000/api"),
		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		CookieSecure:   getenvBool("COOKIE_SECURE", false),
		SessionTTL:     getenvDuration("SESSION_TTL", 24*time.Hour),
		CacheTTL:       getenvDuration("CACHE_TTL", 5*time.Minute),
		CacheSize:      getenvInt("CACHE_SIZE", 256),
		RequestTimeout: getenvDuration("REQUEST_TIMEOUT", 30*time.Second),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
