package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	LogLevel  string
	LogFormat string

	// PlacementClearance is the gap between a surface and a placed device.
	PlacementClearance float64
	// BodyLimitMB caps uploaded plans and documents.
	BodyLimitMB int
	// CatalogPath optionally points at a YAML/JSON device catalog.
	CatalogPath string
	// CORSOrigins is a comma-separated allow list; empty allows any origin.
	CORSOrigins []string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "3000"),
		Environment:        getEnv("ENV", "development"),
		ReadTimeout:        getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout:       getEnvAsInt("WRITE_TIMEOUT", 10),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		PlacementClearance: getEnvAsFloat("PLACEMENT_CLEARANCE", 0.01),
		BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 10),
		CatalogPath:        getEnv("CATALOG_PATH", ""),
		CORSOrigins:        getEnvAsList("CORS_ORIGINS"),
	}
}

func (c *Config) IsProduction() bool { return c.Environment == "production" }

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
