package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
)

// Planner implements ports.OutlinePlanner by delegating structure inference
// to a content model. Each call is bounded by the configured timeout and
// retried once; callers fall back to the heuristic planner on failure.
type Planner struct {
	model ports.ContentModel
	cfg   entities.PlannerConfig
}

// NewPlanner creates a model-backed outline planner.
func NewPlanner(model ports.ContentModel, cfg entities.PlannerConfig) *Planner {
	return &Planner{model: model, cfg: cfg}
}

// plannedOutline mirrors the JSON shape the prompt asks for.
type plannedOutline struct {
	Title  string         `json:"title"`
	Slides []plannedSlide `json:"slides"`
}

type plannedSlide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Notes   string   `json:"notes"`
}

// Plan implements ports.OutlinePlanner.
func (p *Planner) Plan(ctx context.Context, req ports.PlanRequest) (*entities.Outline, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, entities.NewPlanningError(errors.New("input text is empty"))
	}
	if limit := p.cfg.GetMaxInputBytes(); int64(len(req.Text)) > limit {
		return nil, entities.NewSizeLimitError("input text", int64(len(req.Text)), limit)
	}

	maxSlides := req.MaxSlides
	if maxSlides <= 0 {
		maxSlides = p.cfg.GetMaxSlides()
	}

	prompt := outlinePrompt(req.Text, req.Preset, maxSlides)

	raw, err := p.complete(ctx, plannerSystemPrompt, prompt)
	if err != nil {
		return nil, entities.NewPlanningError(err)
	}

	planned, err := parsePlannedOutline(raw)
	if err != nil {
		return nil, entities.NewPlanningError(fmt.Errorf("malformed model output: %w", err))
	}

	outline := p.toOutline(planned, req, maxSlides)
	if err := outline.Validate(req.MaxBullets); err != nil {
		return nil, entities.NewPlanningError(err)
	}

	return outline, nil
}

// complete runs one model call with the configured timeout and a single
// retry on failure.
func (p *Planner) complete(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, p.cfg.GetTimeout())
		raw, err := p.model.Complete(callCtx, system, user)
		cancel()
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break // caller is gone, retrying is pointless
		}
	}
	return "", lastErr
}

// toOutline converts a parsed plan into the domain outline, applying the
// slide and bullet caps.
func (p *Planner) toOutline(planned *plannedOutline, req ports.PlanRequest, maxSlides int) *entities.Outline {
	slides := planned.Slides
	if len(slides) > maxSlides {
		slides = slides[:maxSlides]
	}

	outline := &entities.Outline{
		Title:    strings.TrimSpace(planned.Title),
		Guidance: req.Preset.Spec().Guidance,
		Slides:   make([]entities.Slide, 0, len(slides)),
	}

	for _, ps := range slides {
		title := strings.TrimSpace(ps.Title)
		if title == "" {
			continue
		}
		slide := entities.Slide{
			Index:   len(outline.Slides),
			Title:   title,
			Bullets: trimAll(ps.Bullets),
			Notes:   strings.TrimSpace(ps.Notes),
		}
		slide.ClampBullets(req.MaxBullets)
		outline.Slides = append(outline.Slides, slide)
	}

	if outline.Title == "" && len(outline.Slides) > 0 {
		outline.Title = outline.Slides[0].Title
	}

	return outline
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// parsePlannedOutline decodes model output into a plan. Models wrap JSON in
// code fences or prose often enough that both are stripped before giving up.
func parsePlannedOutline(raw string) (*plannedOutline, error) {
	content := extractJSON(raw)

	var planned plannedOutline
	if err := json.Unmarshal([]byte(content), &planned); err != nil {
		match := jsonObjectPattern.FindString(content)
		if match == "" {
			return nil, err
		}
		if err := json.Unmarshal([]byte(match), &planned); err != nil {
			return nil, err
		}
	}

	if len(planned.Slides) == 0 {
		return nil, errors.New("plan contains no slides")
	}

	return &planned, nil
}

// extractJSON strips markdown code fences around a JSON payload.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+7:]
		if endIdx := strings.Index(content, "```"); endIdx >= 0 {
			content = content[:endIdx]
		}
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+3:]
		if endIdx := strings.Index(content, "```"); endIdx >= 0 {
			content = content[:endIdx]
		}
	}

	return strings.TrimSpace(content)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
