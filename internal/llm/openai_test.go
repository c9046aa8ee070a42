package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dooshek/typozap/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAIConfig(baseURL string) types.OpenAIConfig {
	cfg := (&types.Config{}).GetLLMConfig().OpenAI
	cfg.BaseURL = baseURL
	return cfg
}

func TestOpenAIGenerateSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotReq)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" The cat sat. "}}]}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("sk-test", openAIConfig(server.URL+"/v1/"), server.Client())
	got, err := p.Generate(context.Background(), "fix: teh cat sat")

	require.NoError(t, err)
	assert.Equal(t, "The cat sat.", got)
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, types.DefaultOpenAIModel, gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "fix: teh cat sat", gotReq.Messages[0].Content)
}

func TestOpenAINonOKStatusCarriesCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("sk-bad", openAIConfig(server.URL), server.Client())
	_, err := p.Generate(context.Background(), "x")

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
}

func TestOpenAINonOKStatusWithoutErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("sk", openAIConfig(server.URL), server.Client())
	_, err := p.Generate(context.Background(), "x")

	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
}

func TestOpenAINoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("sk", openAIConfig(server.URL), server.Client())
	_, err := p.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestOpenAITransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p := NewOpenAIProvider("sk", openAIConfig(url), http.DefaultClient)
	_, err := p.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestOpenAIMissingModel(t *testing.T) {
	p := NewOpenAIProvider("sk", types.OpenAIConfig{}, http.DefaultClient)
	_, err := p.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestNewProvider(t *testing.T) {
	cfg := (&types.Config{}).GetLLMConfig()

	_, err := NewProvider(cfg, "", nil)
	assert.ErrorIs(t, err, ErrMissingCredential)

	p, err := NewProvider(cfg, "k", nil)
	require.NoError(t, err)
	assert.IsType(t, &GeminiProvider{}, p)

	cfg.Provider = types.ProviderOpenAI
	p, err = NewProvider(cfg, "k", nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, p)

	cfg.Provider = "carrier-pigeon"
	_, err = NewProvider(cfg, "k", nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
