package config

import (
	"os"
	"strconv"
)

type Config struct {
	// HTTP
	HTTPPort string

	// Postgres
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBMaxConns int32

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Identity of this deployment instance, stamped on every
	// truck record and history entry it writes.
	ServerID string

	// Cache write-through tuning
	CacheChannelSize int
	CacheTTLSeconds  int
	CacheTimeoutMS   int

	// Store call bounds
	StoreTimeoutMS int

	// Read path
	HistoryLimit int
}

func Load() *Config {
	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "tracking_user"),
		DBPassword:       getEnv("DB_PASSWORD", "tracking_password"),
		DBName:           getEnv("DB_NAME", "aid_tracking"),
		DBMaxConns:       int32(getEnvInt("DB_MAX_CONNS", 15)),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		ServerID:         getEnv("SERVER_ID", "server-1"),
		CacheChannelSize: getEnvInt("CACHE_CHANNEL_SIZE", 10000),
		CacheTTLSeconds:  getEnvInt("CACHE_TTL_SECONDS", 300),
		CacheTimeoutMS:   getEnvInt("CACHE_TIMEOUT_MS", 500),
		StoreTimeoutMS:   getEnvInt("STORE_TIMEOUT_MS", 3000),
		HistoryLimit:     getEnvInt("HISTORY_LIMIT", 50),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
