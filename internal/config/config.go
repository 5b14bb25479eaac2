package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	Port                 string
	Environment          string
	LogLevel             string
	AllowedOrigins       []string
	FrontendURL          string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	RedisDB              int
	OpponentSeed         int64
	ReplayCacheTTL       time.Duration
	SessionIdleTTL       time.Duration
	FinishedSessionTTL   time.Duration
	CleanupSchedule      string
}

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOriginsStr := GetEnv("ALLOWED_ORIGINS", "")

	// Build allowed origins list (Frontend URL + CSV values)
	allowedOrigins := []string{frontendURL}
	if allowedOriginsStr != "" {
		for _, origin := range strings.Split(allowedOriginsStr, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	// empty means the in-memory store
	dbURL := GetEnv("DATABASE_URL", "")

	return &Config{
		Port:                 port,
		Environment:          GetEnv("ENVIRONMENT", "development"),
		LogLevel:             GetEnv("LOG_LEVEL", "info"),
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisURL:             GetEnv("REDIS_URL", ""),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		RedisDB:              GetEnvAsInt("REDIS_DB", 0),
		OpponentSeed:         int64(GetEnvAsInt("OPPONENT_SEED", 0)),
		ReplayCacheTTL:       GetEnvAsDuration("REPLAY_CACHE_TTL_SECONDS", 10*time.Minute, time.Second),
		SessionIdleTTL:       GetEnvAsDuration("SESSION_IDLE_TTL_MINUTES", 24*time.Hour, time.Minute),
		FinishedSessionTTL:   GetEnvAsDuration("FINISHED_SESSION_TTL_MINUTES", time.Hour, time.Minute),
		CleanupSchedule:      GetEnv("CLEANUP_SCHEDULE", "@hourly"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		zap.L().Warn("invalid integer value, using default",
			zap.String("key", key),
			zap.String("value", valueStr),
			zap.Int("default", defaultValue),
		)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit. Non-positive values fall
// back to the default.
func GetEnvAsDuration(key string, defaultValue, unit time.Duration) time.Duration {
	n := GetEnvAsInt(key, -1)
	if n <= 0 {
		return defaultValue
	}
	return time.Duration(n) * unit
}
