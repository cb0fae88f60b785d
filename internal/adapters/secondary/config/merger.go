package config

import (
	"os"
	"strconv"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	// Start with first config as base
	result := deepCopy(configs[0])

	// Merge subsequent configs
	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	// Apply CLI flag overrides
	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}

	if provider, ok := flags["provider"].(string); ok && provider != "" {
		result.Planner.Provider = provider
	}

	if model, ok := flags["model"].(string); ok && model != "" {
		result.Planner.Model = model
	}

	if maxSlides, ok := flags["max-slides"].(int); ok && maxSlides > 0 {
		result.Planner.MaxSlides = maxSlides
	}

	if notes, ok := flags["notes"].(bool); ok {
		result.Planner.SpeakerNotes = notes
	}

	if previewWidth, ok := flags["preview-width"].(int); ok && previewWidth > 0 {
		result.Renderer.PreviewWidth = previewWidth
	}

	if noMedia, ok := flags["no-media"].(bool); ok {
		result.Renderer.ReuseMedia = !noMedia
	}

	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
		result.Logging.Level = string(entities.LogLevelDebug)
	}

	return result
}

// ApplyEnvVars applies environment variable overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	// Server configuration from environment
	if host := os.Getenv("DECKFORGE_HOST"); host != "" {
		result.Server.Host = host
	}

	if portStr := os.Getenv("DECKFORGE_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			result.Server.Port = port
		}
	}

	if maxUploadStr := os.Getenv("DECKFORGE_MAX_UPLOAD_BYTES"); maxUploadStr != "" {
		if maxUpload, err := strconv.ParseInt(maxUploadStr, 10, 64); err == nil && maxUpload > 0 {
			result.Server.MaxUploadBytes = maxUpload
		}
	}

	// Planner configuration from environment
	if provider := os.Getenv("DECKFORGE_PLANNER_PROVIDER"); provider != "" {
		result.Planner.Provider = provider
	}

	if model := os.Getenv("DECKFORGE_PLANNER_MODEL"); model != "" {
		result.Planner.Model = model
	}

	if baseURL := os.Getenv("DECKFORGE_PLANNER_BASE_URL"); baseURL != "" {
		result.Planner.BaseURL = baseURL
	}

	if keyEnv := os.Getenv("DECKFORGE_PLANNER_API_KEY_ENV"); keyEnv != "" {
		result.Planner.APIKeyEnv = keyEnv
	}

	if maxSlidesStr := os.Getenv("DECKFORGE_MAX_SLIDES"); maxSlidesStr != "" {
		if maxSlides, err := strconv.Atoi(maxSlidesStr); err == nil && maxSlides > 0 {
			result.Planner.MaxSlides = maxSlides
		}
	}

	if notesStr := os.Getenv("DECKFORGE_SPEAKER_NOTES"); notesStr != "" {
		if notes, err := strconv.ParseBool(notesStr); err == nil {
			result.Planner.SpeakerNotes = notes
		}
	}

	// Renderer configuration from environment
	if widthStr := os.Getenv("DECKFORGE_PREVIEW_WIDTH"); widthStr != "" {
		if width, err := strconv.Atoi(widthStr); err == nil && width > 0 {
			result.Renderer.PreviewWidth = width
		}
	}

	if reuseStr := os.Getenv("DECKFORGE_REUSE_MEDIA"); reuseStr != "" {
		if reuse, err := strconv.ParseBool(reuseStr); err == nil {
			result.Renderer.ReuseMedia = reuse
		}
	}

	// Logging configuration from environment
	if level := os.Getenv("DECKFORGE_LOG_LEVEL"); level != "" {
		result.Logging.Level = level
	}

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Server config
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
	}
	if source.Server.Host != "" {
		target.Server.Host = source.Server.Host
	}
	if source.Server.ReadTimeout != 0 {
		target.Server.ReadTimeout = source.Server.ReadTimeout
	}
	if source.Server.WriteTimeout != 0 {
		target.Server.WriteTimeout = source.Server.WriteTimeout
	}
	if source.Server.ShutdownTimeout != 0 {
		target.Server.ShutdownTimeout = source.Server.ShutdownTimeout
	}
	if source.Server.MaxUploadBytes != 0 {
		target.Server.MaxUploadBytes = source.Server.MaxUploadBytes
	}
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = make([]string, len(source.Server.CORSOrigins))
		copy(target.Server.CORSOrigins, source.Server.CORSOrigins)
	}

	// Planner config
	if source.Planner.Provider != "" {
		target.Planner.Provider = source.Planner.Provider
	}
	if source.Planner.Model != "" {
		target.Planner.Model = source.Planner.Model
	}
	if source.Planner.BaseURL != "" {
		target.Planner.BaseURL = source.Planner.BaseURL
	}
	if source.Planner.APIKeyEnv != "" {
		target.Planner.APIKeyEnv = source.Planner.APIKeyEnv
	}
	if source.Planner.TimeoutSeconds != 0 {
		target.Planner.TimeoutSeconds = source.Planner.TimeoutSeconds
	}
	if source.Planner.MaxInputBytes != 0 {
		target.Planner.MaxInputBytes = source.Planner.MaxInputBytes
	}
	if source.Planner.MaxSlides != 0 {
		target.Planner.MaxSlides = source.Planner.MaxSlides
	}
	if source.Planner.MaxBullets != 0 {
		target.Planner.MaxBullets = source.Planner.MaxBullets
	}
	// For boolean fields, we need to check if they were explicitly set
	// This is a limitation of TOML - we can't distinguish between false and unset
	// We'll always merge boolean fields for now (this is a known TOML limitation)
	target.Planner.SpeakerNotes = source.Planner.SpeakerNotes

	// Renderer config
	if source.Renderer.PreviewWidth != 0 {
		target.Renderer.PreviewWidth = source.Renderer.PreviewWidth
	}
	if source.Renderer.PreviewCount != 0 {
		target.Renderer.PreviewCount = source.Renderer.PreviewCount
	}
	target.Renderer.ReuseMedia = source.Renderer.ReuseMedia

	// Logging config
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	target.Logging.Verbose = source.Logging.Verbose
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	// Manual copy to avoid reflection for performance
	dst := &entities.Config{
		Server: entities.ServerConfig{
			Host:            src.Server.Host,
			Port:            src.Server.Port,
			ReadTimeout:     src.Server.ReadTimeout,
			WriteTimeout:    src.Server.WriteTimeout,
			ShutdownTimeout: src.Server.ShutdownTimeout,
			MaxUploadBytes:  src.Server.MaxUploadBytes,
		},
		Planner: entities.PlannerConfig{
			Provider:       src.Planner.Provider,
			Model:          src.Planner.Model,
			BaseURL:        src.Planner.BaseURL,
			APIKeyEnv:      src.Planner.APIKeyEnv,
			TimeoutSeconds: src.Planner.TimeoutSeconds,
			MaxInputBytes:  src.Planner.MaxInputBytes,
			MaxSlides:      src.Planner.MaxSlides,
			MaxBullets:     src.Planner.MaxBullets,
			SpeakerNotes:   src.Planner.SpeakerNotes,
		},
		Renderer: entities.RendererConfig{
			PreviewWidth: src.Renderer.PreviewWidth,
			PreviewCount: src.Renderer.PreviewCount,
			ReuseMedia:   src.Renderer.ReuseMedia,
		},
		Logging: entities.LoggingConfig{
			Level:   src.Logging.Level,
			Verbose: src.Logging.Verbose,
		},
	}

	// Copy slices
	if src.Server.CORSOrigins != nil {
		dst.Server.CORSOrigins = make([]string, len(src.Server.CORSOrigins))
		copy(dst.Server.CORSOrigins, src.Server.CORSOrigins)
	}

	return dst
}

// Ensure ConfigMerger implements ports.ConfigMerger
var _ ports.ConfigMerger = (*ConfigMerger)(nil)
