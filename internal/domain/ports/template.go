package ports

import (
	"context"
	"io"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// TemplateLoader extracts styling attributes from an uploaded PPTX/POTX
// template. The returned template is read-only.
type TemplateLoader interface {
	Load(ctx context.Context, r io.ReaderAt, size int64) (*entities.StyleTemplate, error)
}
