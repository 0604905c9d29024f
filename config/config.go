package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Environment string
	Port        string

	// Central fire-service API
	APIBaseURL   string
	EventsURL    string
	SessionToken string
	JWTSecret    string

	// Optional warm-start snapshot cache
	RedisURL    string
	SnapshotTTL time.Duration

	// Transport tuning
	RequestTimeout      time.Duration
	ReconnectMinBackoff time.Duration
	ReconnectMaxBackoff time.Duration
	SnapshotInterval    time.Duration
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8090"),

		APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:8080/api/v1"),
		EventsURL:    getEnv("EVENTS_URL", "ws://localhost:8080/ws"),
		SessionToken: getEnv("SESSION_TOKEN", ""),
		JWTSecret:    getEnv("JWT_SECRET", ""),

		RedisURL:    getEnv("REDIS_URL", ""),
		SnapshotTTL: getEnvAsDuration("SNAPSHOT_TTL", 24*time.Hour),

		RequestTimeout:      getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
		ReconnectMinBackoff: getEnvAsDuration("RECONNECT_MIN_BACKOFF", time.Second),
		ReconnectMaxBackoff: getEnvAsDuration("RECONNECT_MAX_BACKOFF", 30*time.Second),
		SnapshotInterval:    getEnvAsDuration("SNAPSHOT_INTERVAL", time.Minute),
	}
}

// InitRedis returns a client for the snapshot cache, or nil when no
// redis is configured. Every consumer is nil-safe.
func InitRedis(cfg *Config) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Warnf("Invalid REDIS_URL, snapshot cache disabled: %v", err)
		return nil
	}

	return redis.NewClient(opt)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
