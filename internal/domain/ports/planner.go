package ports

import (
	"context"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// PlanRequest carries one planning call's inputs.
type PlanRequest struct {
	// Text is the raw text or markdown to structure
	Text string

	// Preset selects the guidance configuration
	Preset entities.Preset

	// MaxSlides caps the outline length (0 means planner default)
	MaxSlides int

	// MaxBullets caps bullets per slide (0 means planner default)
	MaxBullets int
}

// OutlinePlanner turns raw text into a slide outline.
type OutlinePlanner interface {
	Plan(ctx context.Context, req PlanRequest) (*entities.Outline, error)
}

// NotesWriter produces speaker notes for a planned slide. Implementations
// may call a content model; the fallback is joining the slide's bullets.
type NotesWriter interface {
	WriteNotes(ctx context.Context, slide entities.Slide) (string, error)
}
