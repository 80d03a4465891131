package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "http://localhost:11434"
	embedEndpoint      = "/api/embed"
	defaultHTTPTimeout = 30 * time.Second
)

// Provider computes embeddings against an Ollama-compatible HTTP endpoint.
// Pooling and normalization are fixed at construction and sent with every
// request: mean pooling, normalized output.
type Provider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Config configures the Ollama provider.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type embedRequest struct {
	Model   string       `json:"model"`
	Input   []string     `json:"input"`
	Options embedOptions `json:"options"`
}

type embedOptions struct {
	Pooling   string `json:"pooling"`
	Normalize bool   `json:"normalize"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error"`
}

// New creates an Ollama provider. The model must be a pulled model name,
// never a filesystem path; the endpoint must be an http(s) URL.
func New(cfg Config) (*Provider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	if cfg.Model[0] == '/' || cfg.Model[0] == '.' || cfg.Model[0] == '~' {
		return nil, fmt.Errorf("local model paths are not allowed: %s", cfg.Model)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("ollama base URL must be http(s): %s", baseURL)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the identifier of this provider.
func (p *Provider) Name() string { return "ollama" }

// Embed returns one embedding per input text, in input order.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no input texts provided")
	}
	reqBody, err := json.Marshal(embedRequest{
		Model:   p.model,
		Input:   texts,
		Options: embedOptions{Pooling: "mean", Normalize: true},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+embedEndpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error: %s", strings.TrimSpace(string(body)))
	}
	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("ollama API error: %s", out.Error)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(out.Embeddings), len(texts))
	}
	return out.Embeddings, nil
}
