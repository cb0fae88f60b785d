package ports

import (
	"context"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// DeckRenderer turns an outline plus a style template into a serialized
// presentation file. Rendering is deterministic: the same outline and
// template always produce byte-identical output.
type DeckRenderer interface {
	Render(ctx context.Context, outline *entities.Outline, tmpl *entities.StyleTemplate) ([]byte, error)
}

// Preview is one rendered slide thumbnail.
type Preview struct {
	// Index is the slide position the preview shows (0-based, cover included)
	Index int

	// PNG is the encoded image
	PNG []byte
}

// DeckPreviewer renders thumbnails of a serialized deck.
type DeckPreviewer interface {
	Previews(ctx context.Context, deck []byte, width, count int) ([]Preview, error)
}
