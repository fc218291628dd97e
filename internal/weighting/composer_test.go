package weighting

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/hyperjump/toikake/internal/embedding"
	"github.com/hyperjump/toikake/pkg/utils"
)

func TestComposeQuery_UnitNorm(t *testing.T) {
	e := embedding.NewMockEmbedder(32)
	q, err := ComposeQuery(context.Background(), e, []string{"rest", "graphql"}, []float64{0.4, 0.9})
	if err != nil {
		t.Fatal(err)
	}
	if len(q) != 32 {
		t.Fatalf("dimensions = %d", len(q))
	}
	if math.Abs(utils.L2Norm(q)-1.0) > 1e-6 {
		t.Errorf("query norm = %f, want 1.0", utils.L2Norm(q))
	}
}

func TestComposeQuery_Deterministic(t *testing.T) {
	e := embedding.NewMockEmbedder(16)
	ctx := context.Background()
	a, err := ComposeQuery(ctx, e, []string{"go", "channels"}, []float64{0.7, 0.7})
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComposeQuery(ctx, e, []string{"go", "channels"}, []float64{0.7, 0.7})
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("composition not deterministic at %d", i)
		}
	}
}

func TestComposeQuery_AllZeroWeights(t *testing.T) {
	e := embedding.NewMockEmbedder(8)
	_, err := ComposeQuery(context.Background(), e, []string{"a", "b"}, []float64{0, 0})
	if !errors.Is(err, ErrDegenerateQuery) {
		t.Errorf("expected ErrDegenerateQuery, got %v", err)
	}
}

func TestComposeQuery_NoTerms(t *testing.T) {
	e := embedding.NewMockEmbedder(8)
	if _, err := ComposeQuery(context.Background(), e, nil, nil); !errors.Is(err, ErrDegenerateQuery) {
		t.Errorf("expected ErrDegenerateQuery, got %v", err)
	}
}

func TestComposeQuery_LengthMismatch(t *testing.T) {
	e := embedding.NewMockEmbedder(8)
	if _, err := ComposeQuery(context.Background(), e, []string{"a"}, []float64{1, 2}); err == nil {
		t.Error("length mismatch must fail")
	}
}

func TestComposeQuery_WeightDominance(t *testing.T) {
	e := embedding.NewMockEmbedder(32)
	ctx := context.Background()

	heavy, err := ComposeQuery(ctx, e, []string{"kafka", "filler"}, []float64{1.0, 0.01})
	if err != nil {
		t.Fatal(err)
	}
	kafka, err := e.Embed(ctx, "kafka")
	if err != nil {
		t.Fatal(err)
	}
	filler, err := e.Embed(ctx, "filler")
	if err != nil {
		t.Fatal(err)
	}

	var dotKafka, dotFiller float64
	for i := range heavy {
		dotKafka += float64(heavy[i]) * float64(kafka[i])
		dotFiller += float64(heavy[i]) * float64(filler[i])
	}
	if dotKafka <= dotFiller {
		t.Errorf("heavily weighted term should dominate the query direction: kafka=%f filler=%f", dotKafka, dotFiller)
	}
}
