package llm

import "context"

// CompletionRequest is one call to a text-completion provider: a system
// instruction, the user turn, and sampling bounds.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Client defines the interface for text-completion providers. Any provider
// that can turn a prompt into text is substitutable; implementations must be
// safe for concurrent use.
type Client interface {
	// Complete runs a single completion and returns the generated text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
