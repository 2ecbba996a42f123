package ai

import "context"

// Client is the port for the LLM used to draft governance philosophy text.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
