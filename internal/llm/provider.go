package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dooshek/typozap/internal/types"
)

// Provider sends a single prompt and returns the generated text, trimmed.
// Implementations make exactly one attempt per call.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewProvider creates the provider selected in cfg, authorized with apiKey
func NewProvider(cfg types.LLMConfig, apiKey string, httpClient *http.Client) (Provider, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	switch cfg.Provider {
	case types.ProviderGemini, "":
		return NewGeminiProvider(apiKey, cfg.Gemini, httpClient), nil
	case types.ProviderOpenAI:
		return NewOpenAIProvider(apiKey, cfg.OpenAI, httpClient), nil
	default:
		return nil, fmt.Errorf("%w: unsupported provider type: %s", ErrInvalidRequest, cfg.Provider)
	}
}
