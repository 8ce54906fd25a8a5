// Package llm binds the agent pipeline to a text-completion service.
// Cross-cutting concerns (logging, run hooks) are attached via context,
// keeping the client itself a thin wrapper around the API call.
package llm

import (
	"context"
	"errors"
)

var ErrEmptyResponse = errors.New("llm: empty response from model")

// Client is the minimal surface the pipeline needs from an LLM provider.
type Client interface {
	Name() string
	// GenerateText sends a system/role instruction plus a task prompt and
	// returns the model's free text. No schema is enforced on either side.
	GenerateText(ctx context.Context, system, prompt string) (string, error)
	Close() error
}
