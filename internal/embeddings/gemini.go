// ABOUTME: Gemini embedding model backed by google.golang.org/genai.
// ABOUTME: The API client is created lazily by the loader, on the first embedding request.
package embeddings

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const (
	// DefaultGeminiModel is the embedding model used when none is configured.
	DefaultGeminiModel = "text-embedding-004"

	defaultGeminiDimension = 768
)

// GeminiConfig configures the Gemini embedding provider.
type GeminiConfig struct {
	APIKey    string
	Model     string
	Dimension int
}

type geminiModel struct {
	client    *genai.Client
	modelName string
	dim       int
}

// GeminiLoader returns a Loader that creates a Gemini API client.
func GeminiLoader(cfg GeminiConfig) Loader {
	return func(ctx context.Context) (Model, error) {
		if cfg.APIKey == "" {
			return nil, errors.New("gemini api key is required")
		}
		if cfg.Model == "" {
			cfg.Model = DefaultGeminiModel
		}
		if cfg.Dimension <= 0 {
			cfg.Dimension = defaultGeminiDimension
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}

		return &geminiModel{
			client:    client,
			modelName: cfg.Model,
			dim:       cfg.Dimension,
		}, nil
	}
}

// Encode calls the EmbedContent endpoint for a single text.
func (m *geminiModel) Encode(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: text},
			},
		},
	}

	result, err := m.client.Models.EmbedContent(ctx, m.modelName, contents, &genai.EmbedContentConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, errors.New("no embeddings returned")
	}

	return result.Embeddings[0].Values, nil
}

func (m *geminiModel) Dimension() int {
	return m.dim
}

func (m *geminiModel) Close() error {
	return nil
}
