package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Provider computes embedding vectors for a batch of texts. Implementations
// must return one vector per input text, in input order.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// HTTPConfig configures the HTTP embedding provider.
type HTTPConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// HTTPProvider talks to an OpenAI-compatible embeddings endpoint.
type HTTPProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ Provider = (*HTTPProvider)(nil)

// NewHTTPProvider creates an embeddings client. Returns an error when no API
// key is configured; callers treat that as the capability being unavailable.
func NewHTTPProvider(cfg HTTPConfig) (*HTTPProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embeddings api key required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPProvider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type embeddingRequest struct {
	Input          []string `json:"input"`
	Model          string   `json:"model"`
	EncodingFormat string   `json:"encoding_format,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Embed generates embeddings for multiple texts in one request.
func (p *HTTPProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embeddingRequest{
		Input:          texts,
		Model:          p.model,
		EncodingFormat: "float",
	})
	if err != nil {
		return nil, fmt.Errorf("encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}

	var decoded embeddingResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("embedding provider: %s (%s)", decoded.Error.Message, decoded.Error.Type)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding provider: unexpected status %d", resp.StatusCode)
	}

	// The provider may reorder results; index restores input order.
	vectors := make([][]float32, len(texts))
	for _, item := range decoded.Data {
		if item.Index >= 0 && item.Index < len(vectors) {
			vectors[item.Index] = item.Embedding
		}
	}
	for i, vector := range vectors {
		if vector == nil {
			return nil, fmt.Errorf("embedding provider: missing vector for input %d", i)
		}
	}
	return vectors, nil
}
