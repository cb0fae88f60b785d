package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// GetDefaultConfig returns the default configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	config := &entities.Config{
		Server: entities.ServerConfig{
			Host:            getEnvOrDefault("DECKFORGE_HOST", "localhost"),
			Port:            getEnvIntOrDefault("DECKFORGE_PORT", 8080),
			ReadTimeout:     getEnvIntOrDefault("DECKFORGE_READ_TIMEOUT", 30),
			WriteTimeout:    getEnvIntOrDefault("DECKFORGE_WRITE_TIMEOUT", 120),
			ShutdownTimeout: getEnvIntOrDefault("DECKFORGE_SHUTDOWN_TIMEOUT", 5),
			MaxUploadBytes:  getEnvInt64OrDefault("DECKFORGE_MAX_UPLOAD_BYTES", 12<<20),
			CORSOrigins: getEnvSliceOrDefault("DECKFORGE_CORS_ORIGINS", []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost:8080",
				"http://127.0.0.1:8080",
			}),
		},
		Planner: entities.PlannerConfig{
			Provider:       getEnvOrDefault("DECKFORGE_PLANNER_PROVIDER", "none"),
			Model:          getEnvOrDefault("DECKFORGE_PLANNER_MODEL", "gpt-4o-mini"),
			BaseURL:        getEnvOrDefault("DECKFORGE_PLANNER_BASE_URL", ""),
			APIKeyEnv:      getEnvOrDefault("DECKFORGE_PLANNER_API_KEY_ENV", "OPENAI_API_KEY"),
			TimeoutSeconds: getEnvIntOrDefault("DECKFORGE_PLANNER_TIMEOUT", 30),
			MaxInputBytes:  getEnvInt64OrDefault("DECKFORGE_MAX_INPUT_BYTES", 64<<10),
			MaxSlides:      getEnvIntOrDefault("DECKFORGE_MAX_SLIDES", 14),
			MaxBullets:     getEnvIntOrDefault("DECKFORGE_MAX_BULLETS", entities.DefaultMaxBullets),
			SpeakerNotes:   getEnvBoolOrDefault("DECKFORGE_SPEAKER_NOTES", false),
		},
		Renderer: entities.RendererConfig{
			PreviewWidth: getEnvIntOrDefault("DECKFORGE_PREVIEW_WIDTH", 960),
			PreviewCount: getEnvIntOrDefault("DECKFORGE_PREVIEW_COUNT", 12),
			ReuseMedia:   getEnvBoolOrDefault("DECKFORGE_REUSE_MEDIA", true),
		},
		Logging: entities.LoggingConfig{
			Level:   getEnvOrDefault("DECKFORGE_LOG_LEVEL", "info"),
			Verbose: getEnvBoolOrDefault("DECKFORGE_LOG_VERBOSE", false),
		},
	}

	return config
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvInt64OrDefault returns environment variable as int64 or default
func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault returns environment variable as slice or default
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		// Split by comma and trim whitespace
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
