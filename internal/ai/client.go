package ai

import (
	"context"
	"fmt"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/config"
)

// Completer produces a text completion for a prompt. With jsonMode the
// provider is asked to answer with a bare JSON object.
type Completer interface {
	GenerateCompletion(ctx context.Context, prompt string, jsonMode bool) (string, error)
}

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// NewClient builds the completer for the configured provider. The returned
// Embedder is nil when the provider has no embedding endpoint.
func NewClient(ctx context.Context, cfg config.AIConfig) (Completer, Embedder, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		c := NewOllamaClient(cfg.BaseURL, cfg.EmbedModel, cfg.Model, cfg.Timeout)
		return c, c, nil
	case config.ProviderOpenAI:
		c, err := NewOpenAIClient(ctx, cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.RequestsPerMinute, cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
}
