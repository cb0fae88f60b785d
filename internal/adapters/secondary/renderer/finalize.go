package renderer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"time"
)

// Rendering must be deterministic: the same outline and template always
// yield byte-identical output. Zip entries carry modification times and the
// document properties part carries creation stamps, so the final pass
// rewrites both to fixed values.

var fixedStamp = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	createdPattern  = regexp.MustCompile(`(?s)(<dcterms:created[^>]*>).*?(</dcterms:created>)`)
	modifiedPattern = regexp.MustCompile(`(?s)(<dcterms:modified[^>]*>).*?(</dcterms:modified>)`)
)

const corePropsPart = "docProps/core.xml"

// finalize rewrites the deck archive with normalized timestamps.
func finalize(deck []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(deck), int64(len(deck)))
	if err != nil {
		return nil, fmt.Errorf("reading deck archive: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	stamp := fixedStamp.Format("2006-01-02T15:04:05Z")

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}

		if f.Name == corePropsPart {
			data = createdPattern.ReplaceAll(data, []byte("${1}"+stamp+"${2}"))
			data = modifiedPattern.ReplaceAll(data, []byte("${1}"+stamp+"${2}"))
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: fixedStamp,
		})
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("creating %s: %w", f.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}

	return buf.Bytes(), nil
}
