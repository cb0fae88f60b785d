package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		config := Config{
			Server: ServerConfig{
				Host:            "localhost",
				Port:            8080,
				ReadTimeout:     30,
				WriteTimeout:    120,
				ShutdownTimeout: 5,
				MaxUploadBytes:  12 << 20,
			},
			Planner: PlannerConfig{
				Provider:       "openai",
				Model:          "gpt-4o-mini",
				TimeoutSeconds: 30,
				MaxSlides:      14,
				MaxBullets:     8,
			},
			Renderer: RendererConfig{
				PreviewWidth: 960,
				PreviewCount: 12,
			},
			Logging: LoggingConfig{
				Level: "info",
			},
		}

		require.NoError(t, config.Validate())
	})

	t.Run("empty config is valid", func(t *testing.T) {
		// Zero values all fall back to defaults
		config := Config{}
		assert.NoError(t, config.Validate())
	})

	t.Run("reports which section failed", func(t *testing.T) {
		config := Config{
			Planner: PlannerConfig{Provider: "mystery"},
		}

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "planner config")
	})
}

func TestServerConfig_Validate(t *testing.T) {
	t.Run("valid server config", func(t *testing.T) {
		config := ServerConfig{Host: "localhost", Port: 8080}
		assert.NoError(t, config.Validate())
	})

	t.Run("port out of range", func(t *testing.T) {
		config := ServerConfig{Port: 70000}
		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "port")
	})

	t.Run("negative port", func(t *testing.T) {
		config := ServerConfig{Port: -1}
		assert.Error(t, config.Validate())
	})

	t.Run("negative timeouts", func(t *testing.T) {
		assert.Error(t, ServerConfig{ReadTimeout: -1}.Validate())
		assert.Error(t, ServerConfig{WriteTimeout: -1}.Validate())
		assert.Error(t, ServerConfig{ShutdownTimeout: -1}.Validate())
	})

	t.Run("negative upload limit", func(t *testing.T) {
		config := ServerConfig{MaxUploadBytes: -1}
		assert.Error(t, config.Validate())
	})

	t.Run("IP host is accepted without lookup", func(t *testing.T) {
		config := ServerConfig{Host: "127.0.0.1", Port: 8080}
		assert.NoError(t, config.Validate())
	})
}

func TestServerConfig_Defaults(t *testing.T) {
	config := ServerConfig{}

	assert.Equal(t, 30*time.Second, config.GetReadTimeout())
	assert.Equal(t, 120*time.Second, config.GetWriteTimeout())
	assert.Equal(t, 5*time.Second, config.GetShutdownTimeout())
	assert.Equal(t, int64(12<<20), config.GetMaxUploadBytes())

	configured := ServerConfig{
		ReadTimeout:     10,
		WriteTimeout:    20,
		ShutdownTimeout: 3,
		MaxUploadBytes:  1024,
	}

	assert.Equal(t, 10*time.Second, configured.GetReadTimeout())
	assert.Equal(t, 20*time.Second, configured.GetWriteTimeout())
	assert.Equal(t, 3*time.Second, configured.GetShutdownTimeout())
	assert.Equal(t, int64(1024), configured.GetMaxUploadBytes())
}

func TestPlannerConfig_Validate(t *testing.T) {
	t.Run("valid providers", func(t *testing.T) {
		for _, provider := range []string{"", "none", "openai"} {
			config := PlannerConfig{Provider: provider}
			assert.NoError(t, config.Validate(), "provider %q", provider)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		config := PlannerConfig{Provider: "anthropic"}
		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "anthropic")
	})

	t.Run("negative limits", func(t *testing.T) {
		assert.Error(t, PlannerConfig{TimeoutSeconds: -1}.Validate())
		assert.Error(t, PlannerConfig{MaxInputBytes: -1}.Validate())
		assert.Error(t, PlannerConfig{MaxSlides: -1}.Validate())
		assert.Error(t, PlannerConfig{MaxBullets: -1}.Validate())
	})
}

func TestPlannerConfig_Defaults(t *testing.T) {
	config := PlannerConfig{}

	assert.Equal(t, 30*time.Second, config.GetTimeout())
	assert.Equal(t, int64(64<<10), config.GetMaxInputBytes())
	assert.Equal(t, 14, config.GetMaxSlides())
	assert.Equal(t, DefaultMaxBullets, config.GetMaxBullets())

	configured := PlannerConfig{
		TimeoutSeconds: 5,
		MaxInputBytes:  100,
		MaxSlides:      6,
		MaxBullets:     4,
	}

	assert.Equal(t, 5*time.Second, configured.GetTimeout())
	assert.Equal(t, int64(100), configured.GetMaxInputBytes())
	assert.Equal(t, 6, configured.GetMaxSlides())
	assert.Equal(t, 4, configured.GetMaxBullets())
}

func TestRendererConfig_Validate(t *testing.T) {
	t.Run("valid renderer config", func(t *testing.T) {
		config := RendererConfig{PreviewWidth: 960, PreviewCount: 12}
		assert.NoError(t, config.Validate())
	})

	t.Run("negative values", func(t *testing.T) {
		assert.Error(t, RendererConfig{PreviewWidth: -1}.Validate())
		assert.Error(t, RendererConfig{PreviewCount: -1}.Validate())
	})
}

func TestRendererConfig_Defaults(t *testing.T) {
	config := RendererConfig{}

	assert.Equal(t, 960, config.GetPreviewWidth())
	assert.Equal(t, 12, config.GetPreviewCount())
}

func TestLoggingConfig_Validate(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"", "debug", "info", "warn", "error"} {
			config := LoggingConfig{Level: level}
			assert.NoError(t, config.Validate(), "level %q", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		config := LoggingConfig{Level: "trace"}
		assert.Error(t, config.Validate())
	})
}

func TestLoggingConfig_GetLevel(t *testing.T) {
	assert.Equal(t, LogLevelInfo, LoggingConfig{}.GetLevel())
	assert.Equal(t, LogLevelDebug, LoggingConfig{Level: "debug"}.GetLevel())
}
