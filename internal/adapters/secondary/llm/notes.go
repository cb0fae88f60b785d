package llm

import (
	"context"
	"strings"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
)

// NotesWriter implements ports.NotesWriter with a content model, falling
// back to the slide's bullets when the model is unavailable.
type NotesWriter struct {
	model ports.ContentModel
	cfg   entities.PlannerConfig
}

// NewNotesWriter creates a model-backed speaker notes writer.
func NewNotesWriter(model ports.ContentModel, cfg entities.PlannerConfig) *NotesWriter {
	return &NotesWriter{model: model, cfg: cfg}
}

// WriteNotes implements ports.NotesWriter.
func (w *NotesWriter) WriteNotes(ctx context.Context, slide entities.Slide) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, w.cfg.GetTimeout())
	defer cancel()

	raw, err := w.model.Complete(callCtx, notesSystemPrompt, notesPrompt(slide))
	if err != nil {
		// Degrade to bullet text; the notes pass never fails a request
		return strings.Join(slide.Bullets, " "), nil
	}

	notes := strings.TrimSpace(raw)
	if notes == "" {
		return strings.Join(slide.Bullets, " "), nil
	}

	return notes, nil
}
