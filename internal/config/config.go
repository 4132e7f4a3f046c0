package config

import (
	"os"
	"strconv"
)

type Config struct {
	StorageDriver string // file | sqlite | postgres | redis

	DataDir     string
	SQLitePath  string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret string

	// LoginRatePerMinute bounds authentication attempts per username.
	LoginRatePerMinute int
	LoginBurst         int
}

func Load() *Config {
	return &Config{
		StorageDriver:      GetEnvAsString("STORAGE_DRIVER", "file"),
		DataDir:            GetEnvAsString("DATA_DIR", "./data"),
		SQLitePath:         GetEnvAsString("SQLITE_PATH", "./data/social.db"),
		PostgresDSN:        os.Getenv("POSTGRES_DSN"),
		RedisAddr:          GetEnvAsString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            GetEnvAsInt("REDIS_DB", 0),
		SessionSecret:      GetEnvAsString("SESSION_SECRET", "dev-session-secret"),
		LoginRatePerMinute: GetEnvAsInt("LOGIN_RATE_PER_MINUTE", 10),
		LoginBurst:         GetEnvAsInt("LOGIN_BURST", 5),
	}
}

// GetEnvAsInt gets environment variable as int with default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvAsString gets environment variable as string with default value
func GetEnvAsString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
