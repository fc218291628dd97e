package weighting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/toikake/internal/embedding"
	"github.com/hyperjump/toikake/pkg/utils"
)

// ErrDegenerateQuery is returned when the weighted keyword embeddings sum to
// the zero vector, which has no direction to search in.
var ErrDegenerateQuery = errors.New("degenerate query: weighted embedding sum is the zero vector")

// ComposeQuery builds one unit-norm query embedding for a whole keyword set:
// each term is embedded individually, scaled by its weight, and the scaled
// vectors are summed and L2-normalized. Higher-weight terms dominate the query
// direction, and the result stays commensurable with unit-norm stored
// question embeddings.
func ComposeQuery(ctx context.Context, embedder embedding.Embedder, terms []string, weights []float64) ([]float32, error) {
	if len(terms) == 0 {
		return nil, ErrDegenerateQuery
	}
	if len(terms) != len(weights) {
		return nil, fmt.Errorf("terms and weights length mismatch: %d vs %d", len(terms), len(weights))
	}

	embs, err := embedder.EmbedBatch(ctx, terms)
	if err != nil {
		return nil, fmt.Errorf("embed terms: %w", err)
	}

	query := make([]float32, embedder.Dimensions())
	for i, emb := range embs {
		w := float32(weights[i])
		if w == 0 {
			continue
		}
		if len(emb) != len(query) {
			return nil, fmt.Errorf("term %q: dimension mismatch: got %d, expected %d", terms[i], len(emb), len(query))
		}
		for j, v := range emb {
			query[j] += w * v
		}
	}

	if !utils.NormalizeL2(query) {
		return nil, ErrDegenerateQuery
	}
	return query, nil
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
