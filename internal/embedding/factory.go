package embedding

import (
	"fmt"

	"github.com/hyperjump/toikake/internal/config"
)

// NewEmbedder creates an embedder for the configured provider.
// Supported providers: "onnx" (local model, CGO), "openai" (OpenAI-compatible API), "mock".
func NewEmbedder(cfg *config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "onnx", "":
		return NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
	case "openai":
		return NewOpenAIEmbedder(cfg.BaseURL, cfg.Model, cfg.APIKey, cfg.Dimensions, cfg.CacheSize)
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: onnx, openai, mock)", cfg.Provider)
	}
}
