package renderer

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// The deck writer has no speaker-notes surface, so notes land in the
// serialized archive directly: one notesSlide part per annotated slide plus
// the notesMaster, relationship, and content-type entries PowerPoint
// expects.

const (
	contentTypesPart = "[Content_Types].xml"
	presentationXML  = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
	notesMasterPart  = "ppt/notesMasters/notesMaster1.xml"
	notesMasterRels  = "ppt/notesMasters/_rels/notesMaster1.xml.rels"
	deckThemePart    = "ppt/theme/theme1.xml"

	notesSlideType   = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"
	notesMasterType  = "application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml"
	relNotesSlide    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	relNotesMaster   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster"
	relSlide         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTheme         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relsXMLNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// archiveEntry is one part of the deck archive held in memory during the
// rewrite.
type archiveEntry struct {
	name string
	data []byte
}

// injectNotes adds speaker-notes parts to a serialized deck. notes maps
// 1-based slide numbers to notes text; an empty map returns the deck
// untouched.
func injectNotes(deck []byte, notes map[int]string) ([]byte, error) {
	if len(notes) == 0 {
		return deck, nil
	}

	entries, index, err := readArchive(deck)
	if err != nil {
		return nil, err
	}

	slideNums := make([]int, 0, len(notes))
	for n := range notes {
		slideNums = append(slideNums, n)
	}
	sort.Ints(slideNums)

	// One notesSlide part per annotated slide, numbered in slide order
	for k, slideNum := range slideNums {
		noteIdx := k + 1
		notesPart := fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", noteIdx)
		notesRels := fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", noteIdx)
		slidePart := fmt.Sprintf("ppt/slides/slide%d.xml", slideNum)
		slideRels := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNum)

		if _, ok := index[slidePart]; !ok {
			return nil, fmt.Errorf("deck has no %s to attach notes to", slidePart)
		}

		entries = append(entries,
			archiveEntry{notesPart, notesSlideXML(notes[slideNum])},
			archiveEntry{notesRels, notesSlideRelsXML(slideNum)},
		)

		entries, err = upsertRelationship(entries, index, slideRels,
			relNotesSlide, fmt.Sprintf("../notesSlides/notesSlide%d.xml", noteIdx))
		if err != nil {
			return nil, err
		}
	}

	entries = append(entries,
		archiveEntry{notesMasterPart, notesMasterXML()},
		archiveEntry{notesMasterRels, notesMasterRelsXML(index)},
	)

	entries, masterRID, err := appendRelationship(entries, index, presentationRels,
		relNotesMaster, "notesMasters/notesMaster1.xml")
	if err != nil {
		return nil, err
	}

	entries, err = patchPresentation(entries, index, masterRID)
	if err != nil {
		return nil, err
	}

	entries, err = patchContentTypes(entries, index, len(slideNums))
	if err != nil {
		return nil, err
	}

	return writeArchive(entries)
}

// readArchive loads all parts, preserving order, and indexes them by name.
func readArchive(deck []byte) ([]archiveEntry, map[string]int, error) {
	zr, err := zip.NewReader(bytes.NewReader(deck), int64(len(deck)))
	if err != nil {
		return nil, nil, fmt.Errorf("reading deck archive: %w", err)
	}

	entries := make([]archiveEntry, 0, len(zr.File))
	index := make(map[string]int, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		index[f.Name] = len(entries)
		entries = append(entries, archiveEntry{f.Name, data})
	}

	return entries, index, nil
}

// writeArchive serializes the entries back into a zip in entry order.
func writeArchive(entries []archiveEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("creating entry %s: %w", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("writing entry %s: %w", e.name, err)
		}
	}

	// Close explicitly so central directory errors surface
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	return buf.Bytes(), nil
}

var relationshipIDPattern = regexp.MustCompile(`Id="rId(\d+)"`)

// nextRelationshipID returns the first unused rId in a rels document.
func nextRelationshipID(rels []byte) string {
	max := 0
	for _, m := range relationshipIDPattern.FindAllSubmatch(rels, -1) {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n > max {
			max = n
		}
	}
	return "rId" + strconv.Itoa(max+1)
}

// appendRelationship adds a relationship to an existing rels part and
// returns the assigned rId.
func appendRelationship(entries []archiveEntry, index map[string]int, relsName, relType, target string) ([]archiveEntry, string, error) {
	i, ok := index[relsName]
	if !ok {
		return nil, "", fmt.Errorf("deck has no %s", relsName)
	}

	rid := nextRelationshipID(entries[i].data)
	rel := fmt.Sprintf(`<Relationship Id=%q Type=%q Target=%q/>`, rid, relType, target)

	patched := bytes.Replace(entries[i].data, []byte("</Relationships>"), []byte(rel+"</Relationships>"), 1)
	if bytes.Equal(patched, entries[i].data) {
		return nil, "", fmt.Errorf("%s has no Relationships element", relsName)
	}
	entries[i].data = patched

	return entries, rid, nil
}

// upsertRelationship appends to the part's rels, creating the rels part when
// the writer emitted none for that slide.
func upsertRelationship(entries []archiveEntry, index map[string]int, relsName, relType, target string) ([]archiveEntry, error) {
	if _, ok := index[relsName]; ok {
		patched, _, err := appendRelationship(entries, index, relsName, relType, target)
		return patched, err
	}

	doc := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<Relationships xmlns=%q><Relationship Id="rId1" Type=%q Target=%q/></Relationships>`,
		relsXMLNamespace, relType, target)
	index[relsName] = len(entries)
	return append(entries, archiveEntry{relsName, []byte(doc)}), nil
}

// patchPresentation declares the notes master in the presentation part.
func patchPresentation(entries []archiveEntry, index map[string]int, masterRID string) ([]archiveEntry, error) {
	i, ok := index[presentationXML]
	if !ok {
		return nil, fmt.Errorf("deck has no %s", presentationXML)
	}

	decl := fmt.Sprintf(`<p:notesMasterIdLst><p:notesMasterId r:id=%q/></p:notesMasterIdLst>`, masterRID)
	data := entries[i].data

	// The notes master list belongs right after the slide master list
	if anchor := []byte("</p:sldMasterIdLst>"); bytes.Contains(data, anchor) {
		entries[i].data = bytes.Replace(data, anchor, append(anchor, []byte(decl)...), 1)
		return entries, nil
	}
	if anchor := []byte("<p:sldIdLst>"); bytes.Contains(data, anchor) {
		entries[i].data = bytes.Replace(data, anchor, append([]byte(decl), anchor...), 1)
		return entries, nil
	}

	return nil, fmt.Errorf("%s has no master or slide list element", presentationXML)
}

// patchContentTypes registers the new parts.
func patchContentTypes(entries []archiveEntry, index map[string]int, notesCount int) ([]archiveEntry, error) {
	i, ok := index[contentTypesPart]
	if !ok {
		return nil, fmt.Errorf("deck has no %s", contentTypesPart)
	}

	var sb strings.Builder
	for k := 1; k <= notesCount; k++ {
		fmt.Fprintf(&sb, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType=%q/>`, k, notesSlideType)
	}
	fmt.Fprintf(&sb, `<Override PartName="/%s" ContentType=%q/>`, notesMasterPart, notesMasterType)

	patched := bytes.Replace(entries[i].data, []byte("</Types>"), []byte(sb.String()+"</Types>"), 1)
	if bytes.Equal(patched, entries[i].data) {
		return nil, fmt.Errorf("%s has no Types element", contentTypesPart)
	}
	entries[i].data = patched

	return entries, nil
}

// notesSlideXML builds a minimal notes slide with the text in the body
// placeholder, one paragraph per input line.
func notesSlideXML(text string) []byte {
	var paras strings.Builder
	for _, line := range strings.Split(text, "\n") {
		paras.WriteString("<a:p><a:r><a:t>")
		xmlEscape(&paras, line)
		paras.WriteString("</a:t></a:r></a:p>")
	}

	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:notes xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder"/>` +
		`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>` +
		`<p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>` +
		`<p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>` + paras.String() + `</p:txBody></p:sp>` +
		`</p:spTree></p:cSld>` +
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:notes>`

	return []byte(doc)
}

// notesSlideRelsXML links a notes slide to its slide and the notes master.
func notesSlideRelsXML(slideNum int) []byte {
	doc := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<Relationships xmlns=%q>`+
		`<Relationship Id="rId1" Type=%q Target="../notesMasters/notesMaster1.xml"/>`+
		`<Relationship Id="rId2" Type=%q Target="../slides/slide%d.xml"/>`+
		`</Relationships>`,
		relsXMLNamespace, relNotesMaster, relSlide, slideNum)
	return []byte(doc)
}

// notesMasterXML builds a minimal notes master.
func notesMasterXML() []byte {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:notesMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		`</p:spTree></p:cSld>` +
		`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2"` +
		` accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6"` +
		` hlink="hlink" folHlink="folHlink"/>` +
		`</p:notesMaster>`
	return []byte(doc)
}

// notesMasterRelsXML links the notes master to the deck theme when one
// exists.
func notesMasterRelsXML(index map[string]int) []byte {
	var rel string
	if _, ok := index[deckThemePart]; ok {
		rel = fmt.Sprintf(`<Relationship Id="rId1" Type=%q Target="../theme/theme1.xml"/>`, relTheme)
	}
	doc := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<Relationships xmlns=%q>%s</Relationships>`, relsXMLNamespace, rel)
	return []byte(doc)
}

func xmlEscape(sb *strings.Builder, s string) {
	_ = xml.EscapeText(sb, []byte(s))
}
