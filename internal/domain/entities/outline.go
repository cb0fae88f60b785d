package entities

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxBullets is the bullet cap applied when no limit is configured.
// Anything beyond this tends to overflow a body placeholder.
const DefaultMaxBullets = 8

// MaxBulletRunes is the length cap for a single bullet line.
const MaxBulletRunes = 240

// Outline is the structured slide plan derived from raw text. It is built
// once per conversion request and not mutated afterwards.
type Outline struct {
	// Title is the deck title, shown on the cover slide
	Title string `json:"title"`

	// Guidance is the instruction line that shaped the plan (preset text)
	Guidance string `json:"guidance,omitempty"`

	// Slides contains the planned slides in presentation order
	Slides []Slide `json:"slides"`
}

// Slide is a single planned slide.
type Slide struct {
	// Index is the slide position in the outline (0-based)
	Index int `json:"index"`

	// Title is the slide heading
	Title string `json:"title"`

	// Bullets are the body lines, in order
	Bullets []string `json:"bullets"`

	// Notes holds optional speaker notes
	Notes string `json:"notes,omitempty"`
}

// Validate ensures the outline satisfies the planning invariants.
func (o *Outline) Validate(maxBullets int) error {
	if len(o.Slides) == 0 {
		return errors.New("outline must have at least one slide")
	}

	if maxBullets <= 0 {
		maxBullets = DefaultMaxBullets
	}

	for i := range o.Slides {
		if err := o.Slides[i].Validate(maxBullets); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
	}

	return nil
}

// SlideCount returns the number of planned slides.
func (o *Outline) SlideCount() int {
	return len(o.Slides)
}

// Validate ensures the slide satisfies the planning invariants.
func (s *Slide) Validate(maxBullets int) error {
	if strings.TrimSpace(s.Title) == "" {
		return errors.New("slide title cannot be empty")
	}

	if s.Index < 0 {
		return errors.New("slide index must be non-negative")
	}

	if len(s.Bullets) > maxBullets {
		return fmt.Errorf("slide has %d bullets, maximum is %d", len(s.Bullets), maxBullets)
	}

	return nil
}

// HasNotes returns true if the slide carries speaker notes.
func (s *Slide) HasNotes() bool {
	return strings.TrimSpace(s.Notes) != ""
}

// ClampBullets trims the bullet list to max entries and shortens any bullet
// longer than MaxBulletRunes, appending an ellipsis. Planners call this
// before validation so oversized model output degrades instead of failing.
func (s *Slide) ClampBullets(max int) {
	if max <= 0 {
		max = DefaultMaxBullets
	}
	if len(s.Bullets) > max {
		s.Bullets = s.Bullets[:max]
	}
	for i, b := range s.Bullets {
		runes := []rune(b)
		if len(runes) > MaxBulletRunes {
			s.Bullets[i] = string(runes[:MaxBulletRunes-1]) + "…"
		}
	}
}
