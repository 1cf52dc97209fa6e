// Package embedding wraps an OpenAI-compatible embeddings endpoint.
// Knowledge writes use it best-effort: a failed embedding never fails
// the write, it only degrades semantic search for that entity.
package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client computes embedding vectors for text.
type Client interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

type openaiClient struct {
	client openai.Client
	model  string
}

// NewClient creates a Client against any OpenAI-compatible endpoint
// (OpenAI itself, or a local server exposing /v1/embeddings).
func NewClient(cfg Config) Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openaiClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (c *openaiClient) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("computing embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}
	return resp.Data[0].Embedding, nil
}
