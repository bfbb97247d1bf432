package llm

import (
	"context"
)

// Provider abstracts the completion call so the engine can be tested
// against a canned implementation.
type Provider interface {
	// Complete sends a single-turn prompt and returns the generated text.
	Complete(ctx context.Context, prompt string, temperature float32, model string) (string, error)
}
