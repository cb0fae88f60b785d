package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
)

// Logger is the minimal logging surface the generation service needs.
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
}

// GenerationService runs the conversion pipeline: plan the outline from raw
// text, load the style template, render the deck. One request is one
// single-threaded pass; the service itself holds no per-request state.
type GenerationService struct {
	planner   ports.OutlinePlanner // primary planner, may be the heuristic itself
	fallback  ports.OutlinePlanner // heuristic used when the primary fails
	notes     ports.NotesWriter    // optional, nil disables the notes pass
	loader    ports.TemplateLoader
	renderer  ports.DeckRenderer
	previewer ports.DeckPreviewer // optional, nil disables previews
	logger    Logger
	cfg       entities.PlannerConfig
}

// NewGenerationService creates a new generation service instance.
func NewGenerationService(
	planner ports.OutlinePlanner,
	fallback ports.OutlinePlanner,
	loader ports.TemplateLoader,
	renderer ports.DeckRenderer,
	cfg entities.PlannerConfig,
	logger Logger,
) *GenerationService {
	return &GenerationService{
		planner:  planner,
		fallback: fallback,
		loader:   loader,
		renderer: renderer,
		logger:   logger,
		cfg:      cfg,
	}
}

// WithNotesWriter enables the speaker-notes pass.
func (s *GenerationService) WithNotesWriter(w ports.NotesWriter) *GenerationService {
	s.notes = w
	return s
}

// WithPreviewer enables slide preview rendering.
func (s *GenerationService) WithPreviewer(p ports.DeckPreviewer) *GenerationService {
	s.previewer = p
	return s
}

// GenerateResult is the output of one conversion request.
type GenerationResult struct {
	// Deck is the serialized presentation file
	Deck []byte

	// Outline is the plan the deck was rendered from
	Outline *entities.Outline

	// UsedFallback reports whether the heuristic planner produced the outline
	UsedFallback bool

	// Previews holds optional slide thumbnails
	Previews []ports.Preview
}

// GenerateOptions selects per-request behavior.
type GenerateOptions struct {
	Preset       entities.Preset
	MaxSlides    int
	SpeakerNotes bool
	Previews     bool
	PreviewWidth int
	PreviewCount int
}

// Generate runs the full pipeline for one request.
func (s *GenerationService) Generate(ctx context.Context, text string, template io.ReaderAt, templateSize int64, opts GenerateOptions) (*GenerationResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("input text cannot be empty")
	}
	if template == nil {
		return nil, errors.New("style template is required")
	}

	if limit := s.cfg.GetMaxInputBytes(); int64(len(text)) > limit {
		return nil, entities.NewSizeLimitError("input text", int64(len(text)), limit)
	}

	outline, usedFallback, err := s.Plan(ctx, text, opts)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.loader.Load(ctx, template, templateSize)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}

	if opts.SpeakerNotes {
		s.writeNotes(ctx, outline)
	}

	deck, err := s.renderer.Render(ctx, outline, tmpl)
	if err != nil {
		return nil, fmt.Errorf("rendering deck: %w", err)
	}

	result := &GenerationResult{
		Deck:         deck,
		Outline:      outline,
		UsedFallback: usedFallback,
	}

	if opts.Previews && s.previewer != nil {
		previews, err := s.previewer.Previews(ctx, deck, opts.PreviewWidth, opts.PreviewCount)
		if err != nil {
			// Previews are an extra; a failure never sinks the request
			s.logger.Warn("preview rendering failed: %v", err)
		} else {
			result.Previews = previews
		}
	}

	return result, nil
}

// Plan produces the outline, falling back to the heuristic planner when the
// primary planner reports a planning failure. Size-limit violations are not
// recoverable and propagate as-is.
func (s *GenerationService) Plan(ctx context.Context, text string, opts GenerateOptions) (*entities.Outline, bool, error) {
	req := ports.PlanRequest{
		Text:       text,
		Preset:     opts.Preset,
		MaxSlides:  opts.MaxSlides,
		MaxBullets: s.cfg.GetMaxBullets(),
	}
	if req.MaxSlides <= 0 {
		req.MaxSlides = s.cfg.GetMaxSlides()
	}

	outline, err := s.planner.Plan(ctx, req)
	if err == nil {
		return outline, false, nil
	}

	if errors.Is(err, entities.ErrSizeLimitExceeded) {
		return nil, false, err
	}

	if s.fallback == nil || s.planner == s.fallback {
		return nil, false, err
	}

	s.logger.Warn("planner failed, using heuristic outline: %v", err)

	outline, ferr := s.fallback.Plan(ctx, req)
	if ferr != nil {
		return nil, false, fmt.Errorf("heuristic fallback: %w", ferr)
	}

	return outline, true, nil
}

// writeNotes fills in speaker notes for slides that have none. Notes are an
// enhancement; a missing writer or a failed call degrades to bullet-joined
// notes rather than dropping them.
func (s *GenerationService) writeNotes(ctx context.Context, outline *entities.Outline) {
	for i := range outline.Slides {
		slide := &outline.Slides[i]
		if slide.HasNotes() {
			continue
		}

		if s.notes == nil {
			slide.Notes = strings.Join(slide.Bullets, " ")
			continue
		}

		text, err := s.notes.WriteNotes(ctx, *slide)
		if err != nil {
			s.logger.Warn("notes for slide %d failed: %v", i+1, err)
			text = strings.Join(slide.Bullets, " ")
		}
		slide.Notes = text
	}
}
