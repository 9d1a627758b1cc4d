package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Port           string
	DBPath         string
	JWTSecret      string
	TokenTTL       time.Duration
	CORSOrigins    []string
	MigrationsDir  string
	StreakTimezone string
}

func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", "./data/focustrack.db"),
		JWTSecret:      getEnv("JWT_SECRET", "change-this-secret"),
		TokenTTL:       time.Duration(getEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", ""),
		StreakTimezone: getEnv("STREAK_TIMEZONE", "Local"),
	}
}

// Location resolves the single reference zone calendar days are cut in.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.StreakTimezone)
	if err != nil {
		return nil, fmt.Errorf("load STREAK_TIMEZONE %q: %w", c.StreakTimezone, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
