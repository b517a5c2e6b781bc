// ABOUTME: Provider selection for the embedding model behind the embedder service.
// ABOUTME: Maps a provider name to the Loader that builds its model.
package embeddings

import (
	"fmt"
	"strings"
)

// Provider names accepted by NewLoader.
const (
	ProviderONNX    = "onnx"
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderHashing = "hashing"
)

// Options selects and configures an embedding provider.
type Options struct {
	Provider         string
	ONNX             ONNXConfig
	Gemini           GeminiConfig
	OpenAI           OpenAIConfig
	HashingDimension int
}

// NewLoader returns the Loader for the configured provider. Empty means onnx.
func NewLoader(opts Options) (Loader, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderONNX:
		return ONNXLoader(opts.ONNX), nil
	case ProviderGemini:
		return GeminiLoader(opts.Gemini), nil
	case ProviderOpenAI:
		return OpenAILoader(opts.OpenAI), nil
	case ProviderHashing:
		return HashingLoader(opts.HashingDimension), nil
	default:
		return nil, fmt.Errorf("unknown embeddings provider %q (valid: onnx, gemini, openai, hashing)", opts.Provider)
	}
}
