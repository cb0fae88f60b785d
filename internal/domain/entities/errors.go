package entities

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Every failure the pipeline can surface to a caller
// wraps one of these sentinels so adapters can classify with errors.Is.
var (
	// ErrSizeLimitExceeded means the input text or uploaded template is over
	// the configured guardrail.
	ErrSizeLimitExceeded = errors.New("size limit exceeded")

	// ErrPlanningFailed means the content model was unavailable or returned
	// output the planner could not use. Callers fall back to the heuristic
	// planner rather than aborting.
	ErrPlanningFailed = errors.New("content planning failed")

	// ErrTemplateIncompatible means the uploaded template exposes no usable
	// slide layout.
	ErrTemplateIncompatible = errors.New("template has no usable layout")
)

// NewSizeLimitError reports an input of actual bytes against a limit.
func NewSizeLimitError(what string, actual, limit int64) error {
	return fmt.Errorf("%w: %s is %d bytes, maximum is %d", ErrSizeLimitExceeded, what, actual, limit)
}

// NewPlanningError wraps a content model failure so both the taxonomy
// sentinel and the underlying cause stay matchable.
func NewPlanningError(cause error) error {
	return fmt.Errorf("%w: %w", ErrPlanningFailed, cause)
}
