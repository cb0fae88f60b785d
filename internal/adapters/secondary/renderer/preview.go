package renderer

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/deckforge/deckforge/internal/domain/ports"
)

// Previewer implements ports.DeckPreviewer by reading the serialized deck
// back and rasterizing slides. The reader wants a file path, so the deck
// bytes take a short trip through a temp file.
type Previewer struct{}

// NewPreviewer creates a new deck previewer.
func NewPreviewer() *Previewer {
	return &Previewer{}
}

// Previews implements ports.DeckPreviewer.
func (p *Previewer) Previews(ctx context.Context, deck []byte, width, count int) ([]ports.Preview, error) {
	if width <= 0 {
		width = 960
	}
	if count <= 0 {
		count = 12
	}

	tmp, err := os.CreateTemp("", "deckforge-preview-*.pptx")
	if err != nil {
		return nil, fmt.Errorf("creating temp deck: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(deck); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("writing temp deck: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp deck: %w", err)
	}

	reader, err := ppt.NewReader(ppt.ReaderPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("creating reader: %w", err)
	}

	pres, err := reader.Read(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}

	opts := ppt.DefaultRenderOptions()
	opts.Width = width

	total := pres.GetSlideCount()
	if total > count {
		total = count
	}

	previews := make([]ports.Preview, 0, total)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := pres.SlideToImage(i, opts)
		if err != nil {
			return nil, fmt.Errorf("rendering slide %d: %w", i+1, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding slide %d: %w", i+1, err)
		}

		previews = append(previews, ports.Preview{Index: i, PNG: buf.Bytes()})
	}

	return previews, nil
}
