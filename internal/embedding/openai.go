package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/hyperjump/toikake/pkg/utils"
)

// OpenAIEmbedder calls an OpenAI-compatible embeddings API. Works with OpenAI
// itself and with local servers (Ollama, llama.cpp) that speak the same protocol.
type OpenAIEmbedder struct {
	embedder   embeddings.Embedder
	dimensions int
	cache      *Cache
}

// NewOpenAIEmbedder creates an embedder against the given base URL and model.
// token may be any non-empty string for local services that skip auth.
func NewOpenAIEmbedder(baseURL, model, token string, dimensions, cacheSize int) (*OpenAIEmbedder, error) {
	if token == "" {
		token = "none"
	}
	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithEmbeddingModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return &OpenAIEmbedder{
		embedder:   embedder,
		dimensions: dimensions,
		cache:      NewCache(cacheSize),
	}, nil
}

// Embed returns the unit-norm embedding for text, using cache when available.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}
	vecs, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embed text: expected 1 vector, got %d", len(vecs))
	}
	emb := vecs[0]
	if len(emb) != e.dimensions {
		return nil, fmt.Errorf("embed text: dimension mismatch: got %d, expected %d", len(emb), e.dimensions)
	}
	utils.NormalizeL2(emb)
	e.cache.Set(text, emb)
	return emb, nil
}

// EmbedBatch embeds texts, serving cached entries and batching the rest in one request.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if cached, ok := e.cache.Get(text); ok {
			out[i] = cached
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}
	vecs, err := e.embedder.EmbedDocuments(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("embed batch: expected %d vectors, got %d", len(missing), len(vecs))
	}
	for j, emb := range vecs {
		if len(emb) != e.dimensions {
			return nil, fmt.Errorf("embed batch: dimension mismatch: got %d, expected %d", len(emb), e.dimensions)
		}
		utils.NormalizeL2(emb)
		e.cache.Set(missing[j], emb)
		out[missingIdx[j]] = emb
	}
	return out, nil
}

// Dimensions returns the embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the underlying HTTP client needs no teardown.
func (e *OpenAIEmbedder) Close() error {
	return nil
}
