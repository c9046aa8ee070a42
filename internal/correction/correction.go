// Package correction turns selected text and a tone into one provider call.
package correction

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dooshek/typozap/internal/llm"
	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/tone"
	"github.com/dooshek/typozap/internal/types"
)

// CredentialSource yields the API key at call time, so a key set from the
// menu is used by the next correction without restarting
type CredentialSource interface {
	Get() (string, bool)
}

// ProviderFactory builds a provider for one call
type ProviderFactory func(cfg types.LLMConfig, apiKey string) (llm.Provider, error)

type Client struct {
	credentials CredentialSource
	tones       *tone.Catalog
	cfg         types.LLMConfig
	newProvider ProviderFactory
}

// NewClient creates a correction client using the shared HTTP client.
// No timeout is set: a request lives as long as its context.
func NewClient(credentials CredentialSource, tones *tone.Catalog, cfg types.LLMConfig) *Client {
	httpClient := &http.Client{}
	return NewClientWithFactory(credentials, tones, cfg, func(cfg types.LLMConfig, apiKey string) (llm.Provider, error) {
		return llm.NewProvider(cfg, apiKey, httpClient)
	})
}

func NewClientWithFactory(credentials CredentialSource, tones *tone.Catalog, cfg types.LLMConfig, factory ProviderFactory) *Client {
	return &Client{
		credentials: credentials,
		tones:       tones,
		cfg:         cfg,
		newProvider: factory,
	}
}

// Prompt renders text into the named tone, or into the default tone
func (c *Client) Prompt(text, toneTitle string) string {
	return c.tones.Resolve(toneTitle).Render(text)
}

// Correct makes exactly one provider call. No retries.
func (c *Client) Correct(ctx context.Context, text, toneTitle string) (string, error) {
	apiKey, ok := c.credentials.Get()
	if !ok {
		return "", llm.ErrMissingCredential
	}

	provider, err := c.newProvider(c.cfg, apiKey)
	if err != nil {
		return "", err
	}

	prompt := c.Prompt(text, toneTitle)
	logger.Debugf("Correcting %d chars with tone %q via %s", len(text), toneTitle, c.cfg.Provider)

	corrected, err := provider.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("correction failed: %w", err)
	}
	return corrected, nil
}
