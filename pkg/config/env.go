// Package config provides environment variable helpers shared by the
// service's typed configuration loaders.
//
// Every getter treats an unset or empty variable as "use the default". A
// value that is present but malformed also yields the default, with a
// warning, so a typo never stops the process from starting.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the variable's value, or defaultValue when unset or empty.
func GetEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt parses a base-10 integer. Surrounding whitespace is ignored;
// values like "80.5" or "8000abc" fall back to defaultValue.
//
// Example:
//
//	port := GetEnvInt("PORT", 8000)
func GetEnvInt(key string, defaultValue int) int {
	return getEnv(key, defaultValue, "integer", func(s string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(s))
	})
}

// GetEnvFloat parses a float64.
//
// Example:
//
//	score := GetEnvFloat("SCORER_NOOP_SCORE", 0.5)
func GetEnvFloat(key string, defaultValue float64) float64 {
	return getEnv(key, defaultValue, "float", func(s string) (float64, error) {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	})
}

// GetEnvDuration parses a time.ParseDuration string such as "30s" or "1m30s".
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return getEnv(key, defaultValue, "duration", func(s string) (time.Duration, error) {
		return time.ParseDuration(strings.TrimSpace(s))
	})
}

// GetEnvStringList splits a comma-separated value, trimming each entry and
// dropping empty ones. If nothing is left, defaultValue is returned.
//
// Example:
//
//	// ALLOWED_ORIGINS="http://localhost:3000, https://app.example.com"
//	origins := GetEnvStringList("ALLOWED_ORIGINS", nil)
func GetEnvStringList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for part := range strings.SplitSeq(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

func getEnv[T any](key string, defaultValue T, kind string, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	value, err := parse(raw)
	if err != nil {
		slog.Warn("invalid "+kind+" value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Any("default", defaultValue),
			slog.String("error", err.Error()))
		return defaultValue
	}
	return value
}
