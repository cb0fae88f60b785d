package entities

import (
	"errors"
	"strings"
)

// LayoutKind classifies a template slide layout by what it can hold.
type LayoutKind int

const (
	LayoutUnknown LayoutKind = iota
	LayoutTitle
	LayoutTitleAndBody
	LayoutTitleOnly
	LayoutSection
	LayoutBlank
)

// Layout describes one slide layout found in an uploaded template.
type Layout struct {
	// Name is the layout name as declared in the template part
	Name string

	// Part is the zip path of the layout XML, e.g. ppt/slideLayouts/slideLayout2.xml
	Part string

	// Kind is derived from Name during loading
	Kind LayoutKind
}

// ThemeFonts holds the template's major (heading) and minor (body) typefaces.
type ThemeFonts struct {
	Major string
	Minor string
}

// ThemeColors holds the template's color scheme as ARGB hex strings in the
// FFRRGGBB form the deck writer consumes.
type ThemeColors struct {
	Dark1   string
	Light1  string
	Dark2   string
	Light2  string
	Accent1 string
	Accent2 string
}

// MediaImage is an image carried inside the template's media folder.
type MediaImage struct {
	// Name is the zip entry name, e.g. ppt/media/image1.png
	Name string

	// MIME is the detected content type
	MIME string

	// Data is the raw image bytes
	Data []byte
}

// StyleTemplate is the styling source extracted from an uploaded PPTX/POTX
// file. Attributes are read-only once loaded; the loader never mutates a
// template after returning it.
type StyleTemplate struct {
	// Layouts lists the slide layouts the template exposes, in part order
	Layouts []Layout

	// Fonts holds the theme typefaces
	Fonts ThemeFonts

	// Colors holds the theme color scheme
	Colors ThemeColors

	// Media lists reusable images found in the template, sorted by name
	Media []MediaImage
}

// Validate ensures the template can style at least one slide.
func (t *StyleTemplate) Validate() error {
	if len(t.Layouts) == 0 {
		return errors.New("template declares no slide layouts")
	}
	return nil
}

// BodyLayout returns the best layout for a title+content slide: the first
// layout classified as title-and-body, else the first layout of any kind.
func (t *StyleTemplate) BodyLayout() (Layout, bool) {
	for _, l := range t.Layouts {
		if l.Kind == LayoutTitleAndBody {
			return l, true
		}
	}
	if len(t.Layouts) > 0 {
		return t.Layouts[0], true
	}
	return Layout{}, false
}

// TitleOnlyLayout returns the layout for slides without body content,
// falling back to the first layout when none is declared.
func (t *StyleTemplate) TitleOnlyLayout() (Layout, bool) {
	for _, l := range t.Layouts {
		if l.Kind == LayoutTitleOnly {
			return l, true
		}
	}
	if len(t.Layouts) > 0 {
		return t.Layouts[0], true
	}
	return Layout{}, false
}

// ClassifyLayout derives a LayoutKind from a layout's declared name. The
// matching mirrors how PowerPoint names its built-in layouts.
func ClassifyLayout(name string) LayoutKind {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "title only"):
		return LayoutTitleOnly
	case strings.Contains(n, "section"):
		return LayoutSection
	case strings.Contains(n, "blank"):
		return LayoutBlank
	case strings.Contains(n, "title") && (strings.Contains(n, "content") || strings.Contains(n, "text") || strings.Contains(n, "body")):
		return LayoutTitleAndBody
	case strings.Contains(n, "title"):
		return LayoutTitle
	default:
		return LayoutUnknown
	}
}
