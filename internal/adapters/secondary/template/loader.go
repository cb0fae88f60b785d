// Package template extracts styling attributes from uploaded PPTX/POTX
// files: the layout inventory, theme fonts and colors, and reusable media.
// A presentation file is a zip of XML parts, so no presentation library is
// needed on the read side.
package template

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

const (
	presentationPart = "ppt/presentation.xml"
	themePart        = "ppt/theme/theme1.xml"
	layoutPrefix     = "ppt/slideLayouts/slideLayout"
	mediaPrefix      = "ppt/media/"
)

// Loader implements ports.TemplateLoader.
type Loader struct{}

// NewLoader creates a new template loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the uploaded archive and extracts its styling attributes.
func (l *Loader) Load(ctx context.Context, r io.ReaderAt, size int64) (*entities.StyleTemplate, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: not a PPTX/POTX archive: %v", entities.ErrTemplateIncompatible, err)
	}

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	if _, ok := parts[presentationPart]; !ok {
		return nil, fmt.Errorf("%w: archive has no %s part", entities.ErrTemplateIncompatible, presentationPart)
	}

	tmpl := &entities.StyleTemplate{}

	tmpl.Layouts, err = loadLayouts(parts)
	if err != nil {
		return nil, err
	}

	if theme, ok := parts[themePart]; ok {
		if err := loadTheme(theme, tmpl); err != nil {
			return nil, fmt.Errorf("reading theme: %w", err)
		}
	}

	tmpl.Media, err = loadMedia(zr.File)
	if err != nil {
		return nil, fmt.Errorf("reading media: %w", err)
	}

	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrTemplateIncompatible, err)
	}

	return tmpl, nil
}

// loadLayouts reads every slideLayout part in numeric order and classifies
// it by its declared name.
func loadLayouts(parts map[string]*zip.File) ([]entities.Layout, error) {
	var names []string
	for name := range parts {
		if strings.HasPrefix(name, layoutPrefix) && strings.HasSuffix(name, ".xml") {
			names = append(names, name)
		}
	}

	sort.Slice(names, func(i, j int) bool {
		return layoutNumber(names[i]) < layoutNumber(names[j])
	})

	layouts := make([]entities.Layout, 0, len(names))
	for i, part := range names {
		data, err := readPart(parts[part])
		if err != nil {
			return nil, fmt.Errorf("reading layout %s: %w", part, err)
		}

		name, err := layoutName(data)
		if err != nil {
			return nil, fmt.Errorf("parsing layout %s: %w", part, err)
		}
		if name == "" {
			name = fmt.Sprintf("Layout %d", i+1)
		}

		layouts = append(layouts, entities.Layout{
			Name: name,
			Part: part,
			Kind: entities.ClassifyLayout(name),
		})
	}

	return layouts, nil
}

// layoutNumber extracts the numeric suffix so slideLayout2 sorts before
// slideLayout10.
func layoutNumber(part string) int {
	base := strings.TrimSuffix(path.Base(part), ".xml")
	digits := strings.TrimPrefix(base, "slideLayout")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// layoutName pulls the name attribute off the layout's cSld element.
func layoutName(data []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return "", nil
			}
			return "", err
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "cSld" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "name" {
				return attr.Value, nil
			}
		}
		return "", nil
	}
}

// themeXML matches the parts of theme1.xml the renderer consumes.
type themeXML struct {
	Elements struct {
		ColorScheme struct {
			Dark1   themeColor `xml:"dk1"`
			Light1  themeColor `xml:"lt1"`
			Dark2   themeColor `xml:"dk2"`
			Light2  themeColor `xml:"lt2"`
			Accent1 themeColor `xml:"accent1"`
			Accent2 themeColor `xml:"accent2"`
		} `xml:"clrScheme"`
		FontScheme struct {
			Major struct {
				Latin struct {
					Typeface string `xml:"typeface,attr"`
				} `xml:"latin"`
			} `xml:"majorFont"`
			Minor struct {
				Latin struct {
					Typeface string `xml:"typeface,attr"`
				} `xml:"latin"`
			} `xml:"minorFont"`
		} `xml:"fontScheme"`
	} `xml:"themeElements"`
}

type themeColor struct {
	Srgb struct {
		Val string `xml:"val,attr"`
	} `xml:"srgbClr"`
	Sys struct {
		LastColor string `xml:"lastClr,attr"`
	} `xml:"sysClr"`
}

// argb returns the color as FFRRGGBB, or "" when the part declares neither
// an sRGB nor a system color.
func (c themeColor) argb() string {
	if c.Srgb.Val != "" {
		return "FF" + strings.ToUpper(c.Srgb.Val)
	}
	if c.Sys.LastColor != "" {
		return "FF" + strings.ToUpper(c.Sys.LastColor)
	}
	return ""
}

func loadTheme(part *zip.File, tmpl *entities.StyleTemplate) error {
	data, err := readPart(part)
	if err != nil {
		return err
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var theme themeXML
	if err := decoder.Decode(&theme); err != nil {
		return err
	}

	tmpl.Fonts = entities.ThemeFonts{
		Major: theme.Elements.FontScheme.Major.Latin.Typeface,
		Minor: theme.Elements.FontScheme.Minor.Latin.Typeface,
	}
	tmpl.Colors = entities.ThemeColors{
		Dark1:   theme.Elements.ColorScheme.Dark1.argb(),
		Light1:  theme.Elements.ColorScheme.Light1.argb(),
		Dark2:   theme.Elements.ColorScheme.Dark2.argb(),
		Light2:  theme.Elements.ColorScheme.Light2.argb(),
		Accent1: theme.Elements.ColorScheme.Accent1.argb(),
		Accent2: theme.Elements.ColorScheme.Accent2.argb(),
	}

	return nil
}

var mediaMIMEs = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// loadMedia collects reusable raster images, sorted by entry name so the
// renderer's round-robin placement stays deterministic.
func loadMedia(files []*zip.File) ([]entities.MediaImage, error) {
	var media []entities.MediaImage
	for _, f := range files {
		if !strings.HasPrefix(f.Name, mediaPrefix) {
			continue
		}
		mime, ok := mediaMIMEs[strings.ToLower(path.Ext(f.Name))]
		if !ok {
			continue
		}

		data, err := readPart(f)
		if err != nil {
			return nil, fmt.Errorf("reading media %s: %w", f.Name, err)
		}

		media = append(media, entities.MediaImage{
			Name: f.Name,
			MIME: mime,
			Data: data,
		})
	}

	sort.Slice(media, func(i, j int) bool { return media[i].Name < media[j].Name })
	return media, nil
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return io.ReadAll(rc)
}
