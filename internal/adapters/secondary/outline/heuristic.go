// Package outline provides the deterministic heuristic planner used when no
// content model is configured or the model call fails.
package outline

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
)

const (
	maxTitleRunes = 90
	// headings deeper than this start bullets, not slides
	maxSectionHeadingLevel = 3
)

// HeuristicPlanner builds an outline without any external collaborator.
// Markdown headings become slides when present; otherwise each paragraph
// becomes a slide titled by its first sentence.
type HeuristicPlanner struct {
	md  goldmark.Markdown
	cfg entities.PlannerConfig
}

// NewHeuristicPlanner creates a new heuristic planner.
func NewHeuristicPlanner(cfg entities.PlannerConfig) *HeuristicPlanner {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
	)

	return &HeuristicPlanner{md: md, cfg: cfg}
}

// section is a slide candidate collected during the document walk.
type section struct {
	title   string
	bullets []string
}

// Plan implements ports.OutlinePlanner.
func (p *HeuristicPlanner) Plan(ctx context.Context, req ports.PlanRequest) (*entities.Outline, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, entities.NewPlanningError(errEmptyInput)
	}
	if limit := p.cfg.GetMaxInputBytes(); int64(len(req.Text)) > limit {
		return nil, entities.NewSizeLimitError("input text", int64(len(req.Text)), limit)
	}

	input := norm.NFC.String(req.Text)
	frontmatter, body := extractFrontmatter([]byte(input))

	sections := p.collectSections(body)
	if len(sections) == 0 {
		sections = paragraphSections(string(body))
	}
	if len(sections) == 0 {
		return nil, entities.NewPlanningError(errNoContent)
	}

	maxSlides := req.MaxSlides
	if maxSlides <= 0 {
		maxSlides = p.cfg.GetMaxSlides()
	}
	sections = mergeToCap(sections, maxSlides)

	outline := &entities.Outline{
		Title:    deckTitle(frontmatter, sections),
		Guidance: req.Preset.Spec().Guidance,
		Slides:   make([]entities.Slide, 0, len(sections)),
	}

	for i, sec := range sections {
		slide := entities.Slide{
			Index:   i,
			Title:   truncateRunes(sec.title, maxTitleRunes),
			Bullets: sec.bullets,
		}
		slide.ClampBullets(req.MaxBullets)
		outline.Slides = append(outline.Slides, slide)
	}

	if err := outline.Validate(req.MaxBullets); err != nil {
		return nil, entities.NewPlanningError(err)
	}

	return outline, nil
}

// collectSections walks top-level markdown nodes, starting a section at each
// heading and turning lists and paragraphs into bullets.
func (p *HeuristicPlanner) collectSections(body []byte) []section {
	doc := p.md.Parser().Parse(text.NewReader(body))

	var sections []section
	var current *section
	sawHeading := false

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			if n.Level <= maxSectionHeadingLevel {
				sawHeading = true
				sections = append(sections, section{title: nodeText(n, body)})
				current = &sections[len(sections)-1]
				continue
			}
			// Deep headings read as emphasized body lines
			if current != nil {
				current.bullets = append(current.bullets, nodeText(n, body))
			}
		case *ast.List:
			if current == nil {
				sections = append(sections, section{title: "Overview"})
				current = &sections[len(sections)-1]
			}
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				if line := nodeText(item, body); line != "" {
					current.bullets = append(current.bullets, line)
				}
			}
		case *ast.Paragraph:
			if current == nil {
				continue // pre-heading prose handled by paragraph mode
			}
			if line := nodeText(n, body); line != "" {
				current.bullets = append(current.bullets, line)
			}
		}
	}

	if !sawHeading {
		return nil
	}

	// Drop heading-only sections that collected nothing and have siblings
	out := sections[:0]
	for _, s := range sections {
		if s.title != "" || len(s.bullets) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// paragraphSections chunks plain prose: one slide per paragraph, titled by
// the paragraph's first sentence.
func paragraphSections(body string) []section {
	var sections []section
	for _, para := range splitParagraphs(body) {
		sentences := splitSentences(para)
		if len(sentences) == 0 {
			continue
		}
		sec := section{title: truncateRunes(sentences[0], 80)}
		if sec.title == "" {
			sec.title = "Topic"
		}
		if len(sentences) > 1 {
			sec.bullets = sentences[1:]
		} else {
			sec.bullets = sentences
		}
		sections = append(sections, sec)
	}
	return sections
}

// mergeToCap merges adjacent sections until at most max remain, keeping the
// first section's title for each merged bucket.
func mergeToCap(sections []section, max int) []section {
	if max <= 0 || len(sections) <= max {
		return sections
	}

	per := len(sections) / max
	if per < 1 {
		per = 1
	}

	var merged []section
	var bucket section
	count := 0
	for _, s := range sections {
		if count == 0 {
			bucket = section{title: s.title}
		}
		bucket.bullets = append(bucket.bullets, s.bullets...)
		count++
		if count >= per && len(merged) < max-1 {
			merged = append(merged, bucket)
			count = 0
		}
	}
	if count > 0 {
		merged = append(merged, bucket)
	}
	if len(merged) > max {
		merged = merged[:max]
	}
	return merged
}

func deckTitle(frontmatter map[string]interface{}, sections []section) string {
	if t, ok := frontmatter["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if len(sections) > 0 && sections[0].title != "" {
		return sections[0].title
	}
	return "Presentation"
}

// nodeText renders the plain text of a markdown node.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.List:
			if child != n {
				return ast.WalkSkipChildren, nil // nested lists stay with their parent bullet
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func splitParagraphs(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	var paras []string
	for _, p := range strings.Split(body, "\n\n") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paras = append(paras, trimmed)
		}
	}
	return paras
}

func splitSentences(para string) []string {
	fields := strings.FieldsFunc(para, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	var out []string
	for _, f := range fields {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}

// extractFrontmatter strips a leading YAML frontmatter block if present.
func extractFrontmatter(content []byte) (map[string]interface{}, []byte) {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return nil, content
	}

	lines := bytes.Split(content, []byte("\n"))
	endIndex := -1
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			endIndex = i
			break
		}
	}
	if endIndex == -1 {
		return nil, content
	}

	var frontmatter map[string]interface{}
	raw := bytes.Join(lines[1:endIndex], []byte("\n"))
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &frontmatter); err != nil {
			return nil, content
		}
	}

	return frontmatter, bytes.Join(lines[endIndex+1:], []byte("\n"))
}
