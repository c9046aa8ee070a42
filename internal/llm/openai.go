package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/types"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using any OpenAI-compatible chat API,
// including Gemini's OpenAI compatibility endpoint
type OpenAIProvider struct {
	client *openai.Client
	cfg    types.OpenAIConfig
}

// NewOpenAIProvider creates new OpenAI provider instance
func NewOpenAIProvider(apiKey string, cfg types.OpenAIConfig, httpClient *http.Client) *OpenAIProvider {
	logger.Debugf("Creating OpenAI provider (model %s)", cfg.Model)

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// Generate sends a single-message chat completion request
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.cfg.Model == "" {
		return "", fmt.Errorf("%w: no model configured", ErrInvalidRequest)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", ErrMissingField)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: first choice has no content", ErrMissingField)
	}
	return text, nil
}

// classifyOpenAIError maps go-openai errors onto the correction error taxonomy
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{Code: apiErr.HTTPStatusCode, Body: truncate(apiErr.Message, 200)}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 && reqErr.HTTPStatusCode != http.StatusOK {
		return &StatusError{Code: reqErr.HTTPStatusCode}
	}

	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return fmt.Errorf("%w: %w", ErrTransport, err)
}
