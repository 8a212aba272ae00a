// Package llm abstracts the remote completion service. The rest of the
// program only sees Client; the Gemini implementation lives alongside it.
package llm

import (
	"context"

	"genforge/internal/model"
)

// Client is the minimal interface operations use to call a completion model.
type Client interface {
	// Complete sends a single prompt with no history.
	Complete(ctx context.Context, prompt string) (string, error)
	// Chat sends the full conversation, last turn included, and returns the
	// model's reply.
	Chat(ctx context.Context, turns []model.Turn) (string, error)
}
