package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/deckforge/deckforge/internal/adapters/secondary/config"
	"github.com/deckforge/deckforge/internal/adapters/secondary/llm"
	"github.com/deckforge/deckforge/internal/adapters/secondary/outline"
	"github.com/deckforge/deckforge/internal/adapters/secondary/renderer"
	"github.com/deckforge/deckforge/internal/adapters/secondary/template"
	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
	"github.com/deckforge/deckforge/internal/domain/services"
)

// Logger provides leveled logging for the CLI commands
type Logger struct {
	verbose bool
	level   entities.LogLevel
}

// shouldLog checks if the message should be logged based on level
func (l *Logger) shouldLog(msgLevel entities.LogLevel) bool {
	levelMap := map[entities.LogLevel]int{
		entities.LogLevelDebug: 0,
		entities.LogLevelInfo:  1,
		entities.LogLevelWarn:  2,
		entities.LogLevelError: 3,
	}

	currentLevel := levelMap[l.level]
	messageLevel := levelMap[msgLevel]

	return messageLevel >= currentLevel
}

// Info logs informational messages
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) && l.verbose {
		log.Printf("[INFO] "+msg, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelWarn) {
		log.Printf("[WARN] "+msg, args...)
	}
}

// Error logs error messages
func (l *Logger) Error(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelError) {
		log.Printf("[ERROR] "+msg, args...)
	}
}

// newLoggerWithLevel creates a new logger instance with specific level
func newLoggerWithLevel(verbose bool, level entities.LogLevel) *Logger {
	return &Logger{
		verbose: verbose,
		level:   level,
	}
}

// loadConfig resolves the final configuration from defaults, config files,
// environment, and CLI flags
func loadConfig(ctx context.Context, cmd *cobra.Command, flags map[string]interface{}) (*entities.Config, error) {
	loader := config.NewTOMLLoader()
	merger := config.NewConfigMerger()
	svc := services.NewConfigService(loader, merger)

	workingDir, err := os.Getwd()
	if err != nil {
		workingDir = "."
	}

	if flags == nil {
		flags = map[string]interface{}{}
	}
	if verbose, ferr := cmd.Flags().GetBool("verbose"); ferr == nil && verbose {
		flags["verbose"] = verbose
	}

	return svc.LoadConfig(ctx, workingDir, flags)
}

// buildGenerationService wires the planning and rendering adapters into the
// pipeline service according to the configuration
func buildGenerationService(ctx context.Context, cfg *entities.Config, logger *Logger) (*services.GenerationService, error) {
	heuristic := outline.NewHeuristicPlanner(cfg.Planner)

	planner, notesWriter, err := plannerComponents(ctx, cfg.Planner, heuristic)
	if err != nil {
		return nil, err
	}

	svc := services.NewGenerationService(
		planner,
		heuristic,
		template.NewLoader(),
		renderer.NewRenderer(cfg.Renderer),
		cfg.Planner,
		logger,
	)

	if notesWriter != nil {
		svc = svc.WithNotesWriter(notesWriter)
	}

	return svc.WithPreviewer(renderer.NewPreviewer()), nil
}

// plannerComponents selects the outline planner and notes writer for the
// configured provider. The notes writer is wired whenever a model is
// available; whether a request wants notes is decided per request.
func plannerComponents(ctx context.Context, cfg entities.PlannerConfig, heuristic ports.OutlinePlanner) (ports.OutlinePlanner, ports.NotesWriter, error) {
	if cfg.Provider != "openai" {
		return heuristic, nil, nil
	}

	model, err := llm.NewOpenAIContentModel(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	return llm.NewPlanner(model, cfg), llm.NewNotesWriter(model, cfg), nil
}
