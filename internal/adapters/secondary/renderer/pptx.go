// Package renderer writes the generated deck. GoPPT handles shape and text
// serialization; a zip post-pass injects speaker notes parts and normalizes
// the archive so identical inputs produce identical bytes.
package renderer

import (
	"bytes"
	"context"
	"fmt"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// Slide geometry, 16:9 widescreen, in EMU.
const (
	emuPerInch = 914400

	slideWidth  = int64(10.0 * emuPerInch)
	slideHeight = int64(5.625 * emuPerInch)

	marginLeft   = int64(0.4 * emuPerInch)
	contentWidth = int64(9.2 * emuPerInch)

	// Body column narrows when a media image sits on the right
	bodyWidthFull  = int64(9.2 * emuPerInch)
	bodyWidthSplit = int64(5.4 * emuPerInch)

	fontTitle    = 36
	fontSubtitle = 20
	fontHeading  = 28
	fontBody     = 16
	fontNote     = 12
)

// Fallback palette used when a template theme omits a color.
const (
	defaultAccent = "FF3B82F6"
	defaultDark   = "FF1E293B"
	defaultBody   = "FF334155"
	defaultMuted  = "FF64748B"
)

// Renderer implements ports.DeckRenderer using GoPPT.
type Renderer struct {
	cfg entities.RendererConfig
}

// NewRenderer creates a new deck renderer.
func NewRenderer(cfg entities.RendererConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// palette resolves the working colors for one render from the template
// theme, falling back per-color.
type palette struct {
	accent string
	title  string
	body   string
	muted  string
}

func resolvePalette(tmpl *entities.StyleTemplate) palette {
	p := palette{
		accent: defaultAccent,
		title:  defaultDark,
		body:   defaultBody,
		muted:  defaultMuted,
	}
	if tmpl.Colors.Accent1 != "" {
		p.accent = tmpl.Colors.Accent1
	}
	if tmpl.Colors.Dark2 != "" {
		p.title = tmpl.Colors.Dark2
	}
	if tmpl.Colors.Dark1 != "" {
		p.body = tmpl.Colors.Dark1
	}
	return p
}

// Render implements ports.DeckRenderer. Every outline slide produces exactly
// one deck slide after the cover; nothing is dropped.
func (r *Renderer) Render(ctx context.Context, outline *entities.Outline, tmpl *entities.StyleTemplate) ([]byte, error) {
	if outline == nil || len(outline.Slides) == 0 {
		return nil, fmt.Errorf("outline has no slides")
	}
	if tmpl == nil {
		return nil, entities.ErrTemplateIncompatible
	}
	if _, ok := tmpl.BodyLayout(); !ok {
		return nil, entities.ErrTemplateIncompatible
	}

	pal := resolvePalette(tmpl)

	p := ppt.New()
	p.GetDocumentProperties().Title = outline.Title
	p.GetDocumentProperties().Creator = "deckforge"

	r.coverSlide(p, outline, tmpl, pal)

	mediaIdx := 0
	for i := range outline.Slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slide := &outline.Slides[i]

		layout := r.layoutFor(slide, tmpl)
		withMedia := r.cfg.ReuseMedia && len(tmpl.Media) > 0 && layout.Kind != entities.LayoutTitleOnly

		r.contentSlide(p, slide, tmpl, pal, layout, withMedia, mediaIdx)
		if withMedia {
			mediaIdx++
		}
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("creating writer: %w", err)
	}

	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serializing deck: %w", err)
	}

	deck, err := injectNotes(buf.Bytes(), collectNotes(outline))
	if err != nil {
		return nil, fmt.Errorf("injecting notes: %w", err)
	}

	deck, err = finalize(deck)
	if err != nil {
		return nil, fmt.Errorf("finalizing deck: %w", err)
	}

	return deck, nil
}

// layoutFor selects the template layout a slide maps to: title+body by
// default, title-only when the slide carries no bullets.
func (r *Renderer) layoutFor(slide *entities.Slide, tmpl *entities.StyleTemplate) entities.Layout {
	if len(slide.Bullets) == 0 {
		if l, ok := tmpl.TitleOnlyLayout(); ok {
			return l
		}
	}
	l, _ := tmpl.BodyLayout()
	return l
}

// coverSlide fills the first slide with the deck title and the guidance
// subtitle, framed by accent bars in the theme color.
func (r *Renderer) coverSlide(p *ppt.Presentation, outline *entities.Outline, tmpl *entities.StyleTemplate, pal palette) {
	slide := p.GetActiveSlide()

	r.accentBars(slide, pal)

	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(marginLeft).SetOffsetY(int64(1.8 * emuPerInch))
	titleShape.SetWidth(contentWidth).SetHeight(int64(1.2 * emuPerInch))
	tr := titleShape.CreateTextRun(outline.Title)
	f := tr.GetFont()
	f.SetSize(fontTitle).SetBold(true).SetColor(ppt.NewColor(pal.title))
	f.Name = tmpl.Fonts.Major
	alignCenter(titleShape.GetActiveParagraph())

	if outline.Guidance != "" {
		subShape := slide.CreateRichTextShape()
		subShape.SetOffsetX(int64(1.0 * emuPerInch)).SetOffsetY(int64(3.2 * emuPerInch))
		subShape.SetWidth(int64(8.0 * emuPerInch)).SetHeight(int64(0.6 * emuPerInch))
		str := subShape.CreateTextRun(outline.Guidance)
		sf := str.GetFont()
		sf.SetSize(fontSubtitle).SetColor(ppt.NewColor(pal.muted))
		sf.Name = tmpl.Fonts.Minor
		alignCenter(subShape.GetActiveParagraph())
	}
}

// contentSlide fills one slide from the plan: heading, bullets, and an
// optional template image on the right.
func (r *Renderer) contentSlide(p *ppt.Presentation, slide *entities.Slide, tmpl *entities.StyleTemplate, pal palette, layout entities.Layout, withMedia bool, mediaIdx int) {
	s := p.CreateSlide()

	topBar := s.CreateRichTextShape()
	topBar.SetOffsetX(0).SetOffsetY(0)
	topBar.SetWidth(slideWidth).SetHeight(int64(0.08 * emuPerInch))
	topBar.SetFill(solidFill(pal.accent))

	titleShape := s.CreateRichTextShape()
	titleShape.SetOffsetX(marginLeft).SetOffsetY(int64(0.3 * emuPerInch))
	titleShape.SetWidth(contentWidth).SetHeight(int64(0.7 * emuPerInch))
	tr := titleShape.CreateTextRun(slide.Title)
	f := tr.GetFont()
	f.SetSize(fontHeading).SetBold(true).SetColor(ppt.NewColor(pal.title))
	f.Name = tmpl.Fonts.Major

	if layout.Kind != entities.LayoutTitleOnly && len(slide.Bullets) > 0 {
		bodyWidth := bodyWidthFull
		if withMedia {
			bodyWidth = bodyWidthSplit
		}

		bodyShape := s.CreateRichTextShape()
		bodyShape.SetOffsetX(marginLeft).SetOffsetY(int64(1.2 * emuPerInch))
		bodyShape.SetWidth(bodyWidth).SetHeight(int64(4.0 * emuPerInch))

		for i, bullet := range slide.Bullets {
			if i > 0 {
				bodyShape.CreateParagraph()
			}
			btr := bodyShape.CreateTextRun("• " + bullet)
			bf := btr.GetFont()
			bf.SetSize(fontBody).SetColor(ppt.NewColor(pal.body))
			bf.Name = tmpl.Fonts.Minor
		}
	}

	if withMedia {
		img := tmpl.Media[mediaIdx%len(tmpl.Media)]
		imgShape := s.CreateDrawingShape()
		imgShape.SetImageData(img.Data, img.MIME)
		imgShape.SetOffsetX(int64(6.2 * emuPerInch)).SetOffsetY(int64(1.4 * emuPerInch))
		imgShape.SetWidth(int64(3.2 * emuPerInch)).SetHeight(int64(2.4 * emuPerInch))
	}
}

// accentBars draws the top and bottom color bars used on the cover.
func (r *Renderer) accentBars(slide *ppt.Slide, pal palette) {
	top := slide.CreateRichTextShape()
	top.SetOffsetX(0).SetOffsetY(0)
	top.SetWidth(slideWidth).SetHeight(int64(0.15 * emuPerInch))
	top.SetFill(solidFill(pal.accent))

	bottom := slide.CreateRichTextShape()
	bottom.SetOffsetX(0).SetOffsetY(int64(5.5 * emuPerInch))
	bottom.SetWidth(slideWidth).SetHeight(int64(0.125 * emuPerInch))
	bottom.SetFill(solidFill(pal.accent))
}

// collectNotes maps deck slide numbers (1-based, cover included) to notes
// text for the slides that have any.
func collectNotes(outline *entities.Outline) map[int]string {
	notes := make(map[int]string)
	for i := range outline.Slides {
		if outline.Slides[i].HasNotes() {
			// Cover is slide 1, outline slide i lands on slide i+2
			notes[i+2] = outline.Slides[i].Notes
		}
	}
	return notes
}

func solidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}

func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}
