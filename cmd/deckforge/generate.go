package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/services"
)

var (
	// Generate command flags
	generateInput    string
	generateTemplate string
	generateOutput   string
	generatePreset   string
	generateSlides   int
	generateNotes    bool
	generatePreviews string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a deck from a text file and a template",
	Long: `Generate a PowerPoint deck from plain text or markdown.
The template .pptx supplies fonts, colors, and layouts; the text
supplies the content.

Example:
  deckforge generate -i notes.md -t corporate.pptx -o deck.pptx
  deckforge generate -i pitch.txt -t brand.pptx --preset investor-pitch --notes`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "Input text file, or - for stdin (required)")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Template .pptx file (required)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output .pptx path (default: derived from input)")
	generateCmd.Flags().StringVar(&generatePreset, "preset", "", "Planning preset (see 'deckforge presets')")
	generateCmd.Flags().IntVar(&generateSlides, "max-slides", 0, "Slide count cap (overrides config)")
	generateCmd.Flags().BoolVar(&generateNotes, "notes", false, "Generate speaker notes (overrides config)")
	generateCmd.Flags().StringVar(&generatePreviews, "previews", "", "Directory to write slide preview PNGs into")

	_ = generateCmd.MarkFlagRequired("input")
	_ = generateCmd.MarkFlagRequired("template")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	flags := map[string]interface{}{}
	if cmd.Flags().Changed("max-slides") {
		flags["max-slides"] = generateSlides
	}
	if cmd.Flags().Changed("notes") {
		flags["notes"] = generateNotes
	}

	cfg, err := loadConfig(ctx, cmd, flags)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if !cmd.Flags().Changed("verbose") {
		verbose = cfg.Logging.Verbose
	}
	logger := newLoggerWithLevel(verbose, cfg.Logging.GetLevel())

	preset, err := entities.ParsePreset(generatePreset)
	if err != nil {
		return err
	}

	text, err := readInputText(generateInput)
	if err != nil {
		return err
	}

	templateFile, templateSize, err := openTemplate(generateTemplate)
	if err != nil {
		return err
	}
	defer func() { _ = templateFile.Close() }()

	generator, err := buildGenerationService(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	opts := services.GenerateOptions{
		Preset:       preset,
		MaxSlides:    generateSlides,
		SpeakerNotes: generateNotes || cfg.Planner.SpeakerNotes,
		Previews:     generatePreviews != "",
		PreviewWidth: cfg.Renderer.GetPreviewWidth(),
		PreviewCount: cfg.Renderer.GetPreviewCount(),
	}

	logger.Info("Planning deck from %s (%d bytes)", generateInput, len(text))

	result, err := generator.Generate(ctx, text, templateFile, templateSize, opts)
	if err != nil {
		return err
	}

	if result.UsedFallback {
		logger.Warn("Language model planning failed, used the heuristic outline")
	}

	outputPath := generateOutput
	if outputPath == "" {
		outputPath = deriveOutputPath(generateInput)
	}

	if err := os.WriteFile(outputPath, result.Deck, 0644); err != nil { // #nosec G306 - deck is not sensitive
		return fmt.Errorf("writing deck to %s: %w", outputPath, err)
	}

	fmt.Printf("Wrote %s (%d slides)\n", outputPath, len(result.Outline.Slides)+1)

	if generatePreviews != "" {
		if err := writePreviews(generatePreviews, result); err != nil {
			logger.Warn("Writing previews failed: %v", err)
		}
	}

	return nil
}

// readInputText reads the input file, or stdin when the path is "-"
func readInputText(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - user-supplied input path
	if err != nil {
		return "", fmt.Errorf("reading input file: %w", err)
	}
	return string(data), nil
}

// openTemplate opens the template file and reports its size
func openTemplate(path string) (*os.File, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("accessing template file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, 0, fmt.Errorf("template path is not a regular file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - user-supplied template path
	if err != nil {
		return nil, 0, fmt.Errorf("opening template file: %w", err)
	}

	return file, info.Size(), nil
}

// deriveOutputPath turns notes.md into notes.pptx, stdin into deck.pptx
func deriveOutputPath(inputPath string) string {
	if inputPath == "-" {
		return "deck.pptx"
	}

	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + ".pptx"
}

// writePreviews writes slide preview PNGs into the given directory
func writePreviews(dir string, result *services.GenerationResult) error {
	if len(result.Previews) == 0 {
		return fmt.Errorf("no previews were rendered")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating preview directory: %w", err)
	}

	for _, p := range result.Previews {
		name := filepath.Join(dir, fmt.Sprintf("slide-%02d.png", p.Index))
		if err := os.WriteFile(name, p.PNG, 0644); err != nil { // #nosec G306 - previews are not sensitive
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	fmt.Printf("Wrote %d previews to %s\n", len(result.Previews), dir)
	return nil
}
