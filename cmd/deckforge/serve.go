package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	httpserver "github.com/deckforge/deckforge/internal/adapters/primary/http"
	"github.com/deckforge/deckforge/internal/domain/entities"
)

var (
	// Serve command flags
	servePort int
	serveHost string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the deck generation HTTP API",
	Long: `Start an HTTP server exposing the generation pipeline.
POST text plus a template .pptx to /generate and receive the
finished deck.

Example:
  deckforge serve
  deckforge serve --port 9090 --host 0.0.0.0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to serve on (overrides config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (overrides config)")
}

// validateServeConfig validates configuration after it's loaded
func validateServeConfig(config *entities.Config) error {
	// Port validation
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Server.Port)
	}

	// Host validation
	if strings.Contains(config.Server.Host, " ") || strings.Contains(config.Server.Host, "!") {
		return fmt.Errorf("invalid host: %s", config.Server.Host)
	}

	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	flags := map[string]interface{}{}
	if cmd.Flags().Changed("port") {
		flags["port"] = servePort
	}
	if cmd.Flags().Changed("host") {
		flags["host"] = serveHost
	}

	cfg, err := loadConfig(ctx, cmd, flags)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if err := validateServeConfig(cfg); err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if !cmd.Flags().Changed("verbose") {
		verbose = cfg.Logging.Verbose
	}
	logger := newLoggerWithLevel(verbose, cfg.Logging.GetLevel())

	generator, err := buildGenerationService(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	server := httpserver.NewServerWithLogging(generator, &cfg.Server, &cfg.Logging)

	if err := server.Start(ctx, cfg.Server.Port, cfg.Server.Host); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	fmt.Printf("deckforge API listening at http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	if cfg.Planner.Provider == "openai" {
		logger.Info("Planner: openai model %s", cfg.Planner.Model)
	} else {
		logger.Info("Planner: heuristic only")
	}

	// Wait for interrupt or context cancellation
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	fmt.Println("\nShutting down server...")
	// The command context may already be cancelled by the signal handler
	return server.Stop(context.Background())
}
