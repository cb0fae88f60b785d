package renderer

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDeck builds a minimal deck archive with the given slide count.
func fakeDeck(t *testing.T, slideCount int) []byte {
	t.Helper()

	parts := map[string]string{
		contentTypesPart: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`</Types>`,
		presentationXML: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"` +
			` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
			`<p:sldIdLst><p:sldId id="256" r:id="rId2"/></p:sldIdLst>` +
			`</p:presentation>`,
		presentationRels: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>` +
			`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>` +
			`</Relationships>`,
		deckThemePart: `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"/>`,
	}
	for i := 1; i <= slideCount; i++ {
		parts[partNameForSlide(i)] = `<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func partNameForSlide(n int) string {
	return "ppt/slides/slide" + string(rune('0'+n)) + ".xml"
}

// readDeckParts unpacks an archive into name keyed contents.
func readDeckParts(t *testing.T, deck []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(deck), int64(len(deck)))
	require.NoError(t, err)

	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		parts[f.Name] = string(data)
	}
	return parts
}

func TestInjectNotes(t *testing.T) {
	t.Run("empty notes leave the deck untouched", func(t *testing.T) {
		deck := fakeDeck(t, 1)

		out, err := injectNotes(deck, nil)
		require.NoError(t, err)
		assert.Equal(t, deck, out)
	})

	t.Run("adds notes parts and wiring", func(t *testing.T) {
		deck := fakeDeck(t, 2)

		out, err := injectNotes(deck, map[int]string{2: "speak slowly"})
		require.NoError(t, err)

		parts := readDeckParts(t, out)

		notesSlide, ok := parts["ppt/notesSlides/notesSlide1.xml"]
		require.True(t, ok)
		assert.Contains(t, notesSlide, "speak slowly")
		assert.Contains(t, notesSlide, `<p:ph type="body"`)

		rels, ok := parts["ppt/notesSlides/_rels/notesSlide1.xml.rels"]
		require.True(t, ok)
		assert.Contains(t, rels, "../slides/slide2.xml")
		assert.Contains(t, rels, "../notesMasters/notesMaster1.xml")

		slideRels, ok := parts["ppt/slides/_rels/slide2.xml.rels"]
		require.True(t, ok)
		assert.Contains(t, slideRels, "../notesSlides/notesSlide1.xml")

		assert.Contains(t, parts[presentationXML], "<p:notesMasterIdLst>")
		assert.Contains(t, parts[contentTypesPart], "/ppt/notesSlides/notesSlide1.xml")
		assert.Contains(t, parts[contentTypesPart], "/"+notesMasterPart)

		masterRels, ok := parts[notesMasterRels]
		require.True(t, ok)
		assert.Contains(t, masterRels, "../theme/theme1.xml")
	})

	t.Run("numbers notes slides in slide order", func(t *testing.T) {
		deck := fakeDeck(t, 3)

		out, err := injectNotes(deck, map[int]string{3: "third", 1: "first"})
		require.NoError(t, err)

		parts := readDeckParts(t, out)
		assert.Contains(t, parts["ppt/notesSlides/notesSlide1.xml"], "first")
		assert.Contains(t, parts["ppt/notesSlides/notesSlide2.xml"], "third")
		assert.Contains(t, parts["ppt/notesSlides/_rels/notesSlide2.xml.rels"], "../slides/slide3.xml")
	})

	t.Run("escapes markup in notes text", func(t *testing.T) {
		deck := fakeDeck(t, 1)

		out, err := injectNotes(deck, map[int]string{1: `close the <deal> & "celebrate"`})
		require.NoError(t, err)

		parts := readDeckParts(t, out)
		notesSlide := parts["ppt/notesSlides/notesSlide1.xml"]
		assert.Contains(t, notesSlide, "&lt;deal&gt;")
		assert.Contains(t, notesSlide, "&amp;")
		assert.NotContains(t, notesSlide, "<deal>")
	})

	t.Run("multiline notes become separate paragraphs", func(t *testing.T) {
		deck := fakeDeck(t, 1)

		out, err := injectNotes(deck, map[int]string{1: "line one\nline two"})
		require.NoError(t, err)

		parts := readDeckParts(t, out)
		assert.Equal(t, 2, bytes.Count([]byte(parts["ppt/notesSlides/notesSlide1.xml"]), []byte("<a:p>")))
	})

	t.Run("fails when the slide does not exist", func(t *testing.T) {
		deck := fakeDeck(t, 1)

		_, err := injectNotes(deck, map[int]string{9: "orphan"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "slide9.xml")
	})

	t.Run("relationship ids continue from the existing ones", func(t *testing.T) {
		deck := fakeDeck(t, 1)

		out, err := injectNotes(deck, map[int]string{1: "note"})
		require.NoError(t, err)

		parts := readDeckParts(t, out)
		assert.Contains(t, parts[presentationRels], `Id="rId3"`)
		assert.Contains(t, parts[presentationXML], `r:id="rId3"`)
	})
}

func TestNextRelationshipID(t *testing.T) {
	tests := []struct {
		name     string
		rels     string
		expected string
	}{
		{"empty rels", `<Relationships></Relationships>`, "rId1"},
		{"single id", `<Relationship Id="rId1"/>`, "rId2"},
		{"gap in ids", `<Relationship Id="rId1"/><Relationship Id="rId7"/>`, "rId8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nextRelationshipID([]byte(tt.rels)))
		})
	}
}
