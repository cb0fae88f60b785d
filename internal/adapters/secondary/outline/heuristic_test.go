package outline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
)

func planText(t *testing.T, text string, opts ...func(*ports.PlanRequest)) *entities.Outline {
	t.Helper()

	planner := NewHeuristicPlanner(entities.PlannerConfig{})
	req := ports.PlanRequest{Text: text}
	for _, opt := range opts {
		opt(&req)
	}

	outline, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, outline)
	return outline
}

func TestHeuristicPlanner_Headings(t *testing.T) {
	t.Run("headings become slides", func(t *testing.T) {
		outline := planText(t, `# Quarterly Review

## Revenue

- Up 12% year over year
- New enterprise accounts

## Risks

Churn ticked up in March.
`)

		require.Len(t, outline.Slides, 3)
		assert.Equal(t, "Quarterly Review", outline.Title)
		assert.Equal(t, "Revenue", outline.Slides[1].Title)
		assert.Equal(t, []string{"Up 12% year over year", "New enterprise accounts"}, outline.Slides[1].Bullets)
		assert.Equal(t, []string{"Churn ticked up in March."}, outline.Slides[2].Bullets)
	})

	t.Run("deep headings stay as bullets", func(t *testing.T) {
		outline := planText(t, `## Section

#### Detail heading

Some prose.
`)

		require.Len(t, outline.Slides, 1)
		assert.Contains(t, outline.Slides[0].Bullets, "Detail heading")
	})

	t.Run("list before any heading gets an overview slide", func(t *testing.T) {
		outline := planText(t, `- first point
- second point

## Later
`)

		require.NotEmpty(t, outline.Slides)
		assert.Equal(t, "Overview", outline.Slides[0].Title)
		assert.Equal(t, []string{"first point", "second point"}, outline.Slides[0].Bullets)
	})

	t.Run("slide indexes are sequential", func(t *testing.T) {
		outline := planText(t, "# A\n\n## B\n\n## C\n")
		for i, slide := range outline.Slides {
			assert.Equal(t, i, slide.Index)
		}
	})
}

func TestHeuristicPlanner_Paragraphs(t *testing.T) {
	t.Run("prose without headings chunks by paragraph", func(t *testing.T) {
		outline := planText(t, `The launch went well. Signups doubled in the first week.

Support load stayed flat. The new docs absorbed most questions.
`)

		require.Len(t, outline.Slides, 2)
		assert.Equal(t, "The launch went well", outline.Slides[0].Title)
		assert.Equal(t, []string{"Signups doubled in the first week"}, outline.Slides[0].Bullets)
	})

	t.Run("single sentence paragraph keeps itself as the bullet", func(t *testing.T) {
		outline := planText(t, "Ship the beta by Friday")

		require.Len(t, outline.Slides, 1)
		assert.Equal(t, []string{"Ship the beta by Friday"}, outline.Slides[0].Bullets)
	})
}

func TestHeuristicPlanner_Frontmatter(t *testing.T) {
	t.Run("frontmatter title wins", func(t *testing.T) {
		outline := planText(t, `---
title: Board Update
---

# Something Else

Content here.
`)

		assert.Equal(t, "Board Update", outline.Title)
	})

	t.Run("invalid frontmatter is treated as body", func(t *testing.T) {
		outline := planText(t, `---
: not yaml at all [
---

# Real Title

Content.
`)

		require.NotEmpty(t, outline.Slides)
		assert.NotEqual(t, "Board Update", outline.Title)
	})

	t.Run("missing title falls back to first slide", func(t *testing.T) {
		outline := planText(t, `---
author: someone
---

# First Heading

Content.
`)

		assert.Equal(t, "First Heading", outline.Title)
	})
}

func TestHeuristicPlanner_Caps(t *testing.T) {
	t.Run("merges sections down to the slide cap", func(t *testing.T) {
		var sb strings.Builder
		for i := 0; i < 10; i++ {
			sb.WriteString("## Section ")
			sb.WriteByte(byte('A' + i))
			sb.WriteString("\n\n- a bullet\n\n")
		}

		outline := planText(t, sb.String(), func(req *ports.PlanRequest) {
			req.MaxSlides = 4
		})

		assert.LessOrEqual(t, len(outline.Slides), 4)
		assert.Equal(t, "Section A", outline.Slides[0].Title)
		// merged buckets keep all the bullets
		total := 0
		for _, s := range outline.Slides {
			total += len(s.Bullets)
		}
		assert.Equal(t, 10, total)
	})

	t.Run("clamps bullets per slide", func(t *testing.T) {
		text := "## Busy Slide\n\n" + strings.Repeat("- bullet\n", 20)
		outline := planText(t, text, func(req *ports.PlanRequest) {
			req.MaxBullets = 3
		})

		require.Len(t, outline.Slides, 1)
		assert.Len(t, outline.Slides[0].Bullets, 3)
	})

	t.Run("long titles are truncated", func(t *testing.T) {
		text := "# " + strings.Repeat("word ", 40) + "\n\ncontent\n"
		outline := planText(t, text)

		assert.LessOrEqual(t, len([]rune(outline.Title)), maxTitleRunes)
	})
}

func TestHeuristicPlanner_Errors(t *testing.T) {
	planner := NewHeuristicPlanner(entities.PlannerConfig{MaxInputBytes: 64})

	t.Run("empty input fails planning", func(t *testing.T) {
		_, err := planner.Plan(context.Background(), ports.PlanRequest{Text: "  \n\t"})
		assert.True(t, errors.Is(err, entities.ErrPlanningFailed))
	})

	t.Run("oversized input hits the size limit", func(t *testing.T) {
		_, err := planner.Plan(context.Background(), ports.PlanRequest{
			Text: strings.Repeat("x", 100),
		})
		assert.True(t, errors.Is(err, entities.ErrSizeLimitExceeded))
		assert.False(t, errors.Is(err, entities.ErrPlanningFailed))
	})
}

func TestHeuristicPlanner_Deterministic(t *testing.T) {
	text := `# Title

## First

- alpha
- beta

## Second

Some prose here. More prose there.
`

	first := planText(t, text)
	second := planText(t, text)
	assert.Equal(t, first, second)
}

func TestHeuristicPlanner_PresetGuidance(t *testing.T) {
	outline := planText(t, "# Pitch\n\ncontent\n", func(req *ports.PlanRequest) {
		req.Preset = entities.PresetInvestorPitch
	})

	assert.Equal(t, entities.PresetInvestorPitch.Spec().Guidance, outline.Guidance)
}
