package llm

import (
	"fmt"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// maxPromptInputRunes bounds how much raw text rides along in the prompt.
// The guardrail on total input size is separate; this only protects the
// model's context window.
const maxPromptInputRunes = 15000

const plannerSystemPrompt = "You are a presentation planner. You read raw text and propose a slide outline. Output only valid JSON."

// outlinePrompt builds the user prompt for an outline planning call.
func outlinePrompt(text string, preset entities.Preset, maxSlides int) string {
	spec := preset.Spec()
	target := spec.TargetSlides
	if maxSlides > 0 && maxSlides < target {
		target = maxSlides
	}

	runes := []rune(text)
	if len(runes) > maxPromptInputRunes {
		runes = runes[:maxPromptInputRunes]
	}

	return fmt.Sprintf(`Read the input and propose a slide outline.

GUIDANCE: %s
MAX_SLIDES: %d

Return JSON with this shape:
{"title":"...","slides":[{"title":"...","bullets":["...","..."],"notes":"..."}]}

Rules:
- every slide needs a non-empty title
- at most 8 bullets per slide, each a short standalone statement
- notes are optional one-paragraph speaker notes

INPUT:
%s`, spec.Guidance, target, string(runes))
}

const notesSystemPrompt = "You write concise speaker notes for presentation slides. Output plain text only, no markup."

// notesPrompt builds the user prompt for a speaker-notes call.
func notesPrompt(slide entities.Slide) string {
	prompt := fmt.Sprintf("Write speaker notes of 60-100 words for a slide titled %q.", slide.Title)
	if len(slide.Bullets) > 0 {
		prompt += "\nBullets:"
		for _, b := range slide.Bullets {
			prompt += "\n- " + b
		}
	}
	return prompt
}
