// README: Provider factory keyed by configured provider name.
package ai

import (
	"context"
	"fmt"
	"strings"
)

// NewProvider builds the provider named by cfg.Provider.
func NewProvider(ctx context.Context, cfg Config) (LLMProvider, error) {
	cfg = cfg.withDefaults()
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg)
	case ProviderGroq, ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	case ProviderStatic:
		return NewStaticProvider(cfg.StaticReply), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
