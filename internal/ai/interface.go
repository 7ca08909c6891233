// README: LLM provider contract used by the invocation adapter.
package ai

import (
	"context"
)

// LLMProvider defines the contract for interacting with AI models.
// Implementations send one prompt and return the model's raw text; they never
// retry and never interpret the answer.
type LLMProvider interface {
	// PlanItinerary sends a compiled itinerary prompt and returns the raw reply.
	// An empty reply is returned as "" with a nil error.
	PlanItinerary(ctx context.Context, prompt string) (string, error)

	// Name identifies the backend and model, e.g. "gemini/gemini-2.0-flash".
	Name() string

	Close() error
}

// ProviderFunc adapts a function to LLMProvider.
type ProviderFunc func(ctx context.Context, prompt string) (string, error)

func (f ProviderFunc) PlanItinerary(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func (f ProviderFunc) Name() string { return "func" }
func (f ProviderFunc) Close() error { return nil }
