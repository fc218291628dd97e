// Package embedding provides text embedding backends (ONNX, OpenAI-compatible, mock)
// behind one interface. All implementations return unit-norm vectors so that
// inner product equals cosine similarity downstream.
package embedding

import "context"

// Embedder produces vector embeddings for text. Embed must be deterministic:
// the same input yields the same vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
