package openai

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// Provider computes embeddings through the OpenAI API.
type Provider struct {
	client *openai.Client
	model  string
}

// Config configures the OpenAI embedding provider.
type Config struct {
	APIKeyEnv string
	Model     string
}

// New creates an OpenAI provider. The API key is read from the environment;
// the model must be a hosted model identifier, never a filesystem path.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if err := rejectLocalModel(cfg.Model); err != nil {
		return nil, err
	}
	return &Provider{client: openai.NewClient(key), model: cfg.Model}, nil
}

// Name returns the identifier of this provider.
func (p *Provider) Name() string { return "openai" }

// Embed returns one embedding per input text, in input order.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.New("no input texts provided")
	}
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("openai returned embedding with index %d out of range", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		for i, x := range d.Embedding {
			vec[i] = float32(x)
		}
		out[d.Index] = vec
	}
	return out, nil
}

func rejectLocalModel(model string) error {
	if len(model) > 0 && (model[0] == '/' || model[0] == '.' || model[0] == '~') {
		return fmt.Errorf("local model paths are not allowed: %s", model)
	}
	return nil
}
