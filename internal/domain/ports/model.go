package ports

import "context"

// ContentModel is the pluggable text-understanding capability the LLM
// planner delegates to. Keeping it this narrow lets tests substitute a
// deterministic implementation for the hosted model.
type ContentModel interface {
	// Complete sends a system and user prompt and returns the raw model
	// output. Implementations must honor ctx cancellation and deadlines.
	Complete(ctx context.Context, system, user string) (string, error)
}
