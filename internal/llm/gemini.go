package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/types"
)

const geminiKeyHeader = "X-goog-api-key"

// GeminiProvider implements Provider against the generateContent endpoint
type GeminiProvider struct {
	apiKey     string
	cfg        types.GeminiConfig
	httpClient *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// NewGeminiProvider creates a Gemini provider instance
func NewGeminiProvider(apiKey string, cfg types.GeminiConfig, httpClient *http.Client) *GeminiProvider {
	logger.Debug("Creating Gemini provider")
	return &GeminiProvider{
		apiKey:     apiKey,
		cfg:        cfg,
		httpClient: httpClient,
	}
}

// Generate sends one generateContent request
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	endpoint, err := url.Parse(p.cfg.Endpoint)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return "", fmt.Errorf("%w: bad endpoint %q", ErrInvalidRequest, p.cfg.Endpoint)
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     p.cfg.Temperature,
			TopK:            p.cfg.TopK,
			TopP:            p.cfg.TopP,
			MaxOutputTokens: p.cfg.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(geminiKeyHeader, p.apiKey)

	logger.Debugf("Gemini request: POST %s (key %s, %d byte body)", endpoint.Redacted(), logger.Redact(p.apiKey), len(body))

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: error reading response: %w", ErrTransport, err)
	}

	logger.Debugf("Gemini response: HTTP %d, %d bytes", resp.StatusCode, len(respBody))

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, Body: truncate(string(respBody), 200)}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return "", ErrEmptyBody
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMissingField)
	}
	content := parsed.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0].Text == nil {
		return "", fmt.Errorf("%w: first candidate has no text part", ErrMissingField)
	}

	text := strings.TrimSpace(*content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("%w: first candidate text is empty", ErrMissingField)
	}
	return text, nil
}
