// Package llm provides the generative language model client.
package llm

import "context"

// Params are the decoding parameters passed through on every request.
type Params struct {
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
	TopK            int
}

// Client is the interface the chat adapter depends on, so tests can
// substitute a fake backend.
type Client interface {
	// Complete sends a single prompt and returns the generated text.
	Complete(ctx context.Context, prompt string, params Params) (string, error)

	// ModelName returns the configured model identifier.
	ModelName() string
}
