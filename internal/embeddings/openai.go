// ABOUTME: OpenAI-compatible embedding model using the official openai-go SDK.
// ABOUTME: A custom base URL allows self-hosted endpoints that speak the /embeddings API.
package embeddings

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultOpenAIModel is the embedding model used when none is configured.
	DefaultOpenAIModel = "text-embedding-3-small"

	defaultOpenAIDimension = 1536
)

// OpenAIConfig configures the OpenAI embedding provider.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string // Optional custom endpoint
	Model     string
	Dimension int
}

type openAIModel struct {
	client *openai.Client
	model  string
	dim    int
}

// OpenAILoader returns a Loader that builds an OpenAI client.
func OpenAILoader(cfg OpenAIConfig) Loader {
	return func(ctx context.Context) (Model, error) {
		if cfg.APIKey == "" {
			return nil, errors.New("openai api key is required")
		}
		if cfg.Model == "" {
			cfg.Model = DefaultOpenAIModel
		}
		if cfg.Dimension <= 0 {
			cfg.Dimension = defaultOpenAIDimension
		}

		opts := []option.RequestOption{
			option.WithAPIKey(cfg.APIKey),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		client := openai.NewClient(opts...)

		return &openAIModel{
			client: &client,
			model:  cfg.Model,
			dim:    cfg.Dimension,
		}, nil
	}
}

// Encode requests one embedding and converts it to float32.
func (m *openAIModel) Encode(ctx context.Context, text string) ([]float32, error) {
	resp, err := m.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(m.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("no embeddings returned")
	}

	values := resp.Data[0].Embedding
	vec := make([]float32, len(values))
	for i, v := range values {
		vec[i] = float32(v)
	}
	return vec, nil
}

func (m *openAIModel) Dimension() int {
	return m.dim
}

func (m *openAIModel) Close() error {
	return nil
}
