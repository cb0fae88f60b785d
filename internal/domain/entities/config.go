package entities

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Planner  PlannerConfig  `toml:"planner"`
	Renderer RendererConfig `toml:"renderer"`
	Logging  LoggingConfig  `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner config: %w", err)
	}

	if err := c.Renderer.Validate(); err != nil {
		return fmt.Errorf("renderer config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	MaxUploadBytes  int64    `toml:"max_upload_bytes"`
	CORSOrigins     []string `toml:"cors_origins"`
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" {
		if ip := net.ParseIP(s.Host); ip == nil {
			if _, err := net.LookupHost(s.Host); err != nil {
				return fmt.Errorf("invalid host: %w", err)
			}
		}
	}

	if s.ReadTimeout < 0 {
		return errors.New("read timeout must be non-negative")
	}

	if s.WriteTimeout < 0 {
		return errors.New("write timeout must be non-negative")
	}

	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must be non-negative")
	}

	if s.MaxUploadBytes < 0 {
		return errors.New("max upload bytes must be non-negative")
	}

	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		if origin == "*" {
			continue
		}
		if len(origin) < 7 || (!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://")) {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	return nil
}

// GetReadTimeout returns the read timeout as a duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration
func (s ServerConfig) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		// Rendering and the model round-trip both happen inside a request
		return 120 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetMaxUploadBytes returns the template upload cap with default (12 MiB)
func (s ServerConfig) GetMaxUploadBytes() int64 {
	if s.MaxUploadBytes <= 0 {
		return 12 << 20
	}
	return s.MaxUploadBytes
}

// GetCORSOrigins returns CORS origins with defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		return []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}
	}
	return s.CORSOrigins
}

// PlannerConfig contains content planner configuration
type PlannerConfig struct {
	// Provider selects the content model backend: "openai" or "none"
	// (heuristic only)
	Provider string `toml:"provider"`

	// Model is the model name passed to the provider
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible servers)
	BaseURL string `toml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key; the key
	// itself never lives in config files
	APIKeyEnv string `toml:"api_key_env"`

	// TimeoutSeconds bounds a single model call
	TimeoutSeconds int `toml:"timeout_seconds"`

	// MaxInputBytes is the raw text guardrail
	MaxInputBytes int64 `toml:"max_input_bytes"`

	// MaxSlides caps the outline length
	MaxSlides int `toml:"max_slides"`

	// MaxBullets caps bullets per slide
	MaxBullets int `toml:"max_bullets"`

	// SpeakerNotes enables the per-slide notes generation pass
	SpeakerNotes bool `toml:"speaker_notes"`
}

// Validate validates planner configuration
func (p PlannerConfig) Validate() error {
	switch p.Provider {
	case "", "none", "openai":
		// Valid providers
	default:
		return fmt.Errorf("unknown planner provider: %s (must be openai or none)", p.Provider)
	}

	if p.TimeoutSeconds < 0 {
		return errors.New("planner timeout must be non-negative")
	}

	if p.MaxInputBytes < 0 {
		return errors.New("max input bytes must be non-negative")
	}

	if p.MaxSlides < 0 {
		return errors.New("max slides must be non-negative")
	}

	if p.MaxBullets < 0 {
		return errors.New("max bullets must be non-negative")
	}

	return nil
}

// GetTimeout returns the model call timeout with default (30s)
func (p PlannerConfig) GetTimeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// GetMaxInputBytes returns the text guardrail with default (64 KiB)
func (p PlannerConfig) GetMaxInputBytes() int64 {
	if p.MaxInputBytes <= 0 {
		return 64 << 10
	}
	return p.MaxInputBytes
}

// GetMaxSlides returns the slide cap with default
func (p PlannerConfig) GetMaxSlides() int {
	if p.MaxSlides <= 0 {
		return 14
	}
	return p.MaxSlides
}

// GetMaxBullets returns the bullet cap with default
func (p PlannerConfig) GetMaxBullets() int {
	if p.MaxBullets <= 0 {
		return DefaultMaxBullets
	}
	return p.MaxBullets
}

// RendererConfig contains deck renderer configuration
type RendererConfig struct {
	// PreviewWidth is the pixel width of generated slide previews
	PreviewWidth int `toml:"preview_width"`

	// PreviewCount caps how many slides get a preview image
	PreviewCount int `toml:"preview_count"`

	// ReuseMedia places images found in the template onto content slides
	ReuseMedia bool `toml:"reuse_media"`
}

// Validate validates renderer configuration
func (r RendererConfig) Validate() error {
	if r.PreviewWidth < 0 {
		return errors.New("preview width must be non-negative")
	}

	if r.PreviewCount < 0 {
		return errors.New("preview count must be non-negative")
	}

	return nil
}

// GetPreviewWidth returns the preview width with default
func (r RendererConfig) GetPreviewWidth() int {
	if r.PreviewWidth <= 0 {
		return 960
	}
	return r.PreviewWidth
}

// GetPreviewCount returns the preview cap with default
func (r RendererConfig) GetPreviewCount() int {
	if r.PreviewCount <= 0 {
		return 12
	}
	return r.PreviewCount
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `toml:"level"`   // debug, info, warn, error
	Verbose bool   `toml:"verbose"` // Enable verbose logging
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// Valid levels
	case "":
		// Empty is okay, will use default
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}

	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}
