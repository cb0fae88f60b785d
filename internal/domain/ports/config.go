package ports

import (
	"context"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// ConfigLoader reads configuration files from their well-known locations.
type ConfigLoader interface {
	// LoadGlobal loads the global configuration, creating it with defaults
	// on first run
	LoadGlobal(ctx context.Context) (*entities.Config, error)

	// LoadLocal loads the per-project configuration from dir, returning nil
	// when the directory has none
	LoadLocal(ctx context.Context, dir string) (*entities.Config, error)
}

// ConfigMerger combines configuration layers into one effective config.
type ConfigMerger interface {
	// Merge merges configurations with later ones taking precedence; with no
	// arguments it returns the defaults
	Merge(configs ...*entities.Config) *entities.Config

	// ApplyFlags applies CLI flag overrides
	ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config

	// ApplyEnvVars applies environment variable overrides
	ApplyEnvVars(config *entities.Config) *entities.Config
}

// ConfigService resolves the effective configuration for a run.
type ConfigService interface {
	// LoadConfig resolves defaults, config files, environment, and flags
	LoadConfig(ctx context.Context, workingDir string, flags map[string]interface{}) (*entities.Config, error)

	// GetDefaultConfig returns the built-in defaults
	GetDefaultConfig() *entities.Config

	// ValidateConfig validates a configuration
	ValidateConfig(config *entities.Config) error
}
