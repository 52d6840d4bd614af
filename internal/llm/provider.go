package llm

import (
	"context"
	"fmt"

	"cozinha-magica/internal/config"
)

// NewClient returns the client for the configured AI provider.
func NewClient(ctx context.Context, cfg *config.Config) (LLMClient, error) {
	switch cfg.AIProvider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case config.ProviderGroq:
		return NewGroqClient(cfg, 0.7), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.AIProvider)
	}
}
