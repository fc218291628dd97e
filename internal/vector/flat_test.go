package vector

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFlatIndex_AddAssignsPositions(t *testing.T) {
	idx, err := NewFlatIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for i, vec := range [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		pos, err := idx.Add(ctx, vec)
		if err != nil {
			t.Fatal(err)
		}
		if pos != i {
			t.Errorf("position = %d, want %d", pos, i)
		}
	}
	if idx.Count() != 3 {
		t.Errorf("Count = %d", idx.Count())
	}
}

func TestFlatIndex_SearchOrdering(t *testing.T) {
	idx, _ := NewFlatIndex(3)
	ctx := context.Background()
	_, _ = idx.Add(ctx, []float32{1, 0, 0})
	_, _ = idx.Add(ctx, []float32{0.9, 0.436, 0}) // roughly unit norm
	_, _ = idx.Add(ctx, []float32{0, 1, 0})

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Position != 0 {
		t.Errorf("top result position = %d, want 0", results[0].Position)
	}
	if results[1].Position != 1 {
		t.Errorf("second result position = %d, want 1", results[1].Position)
	}
	if results[0].Score < results[1].Score {
		t.Error("results not in descending score order")
	}
}

func TestFlatIndex_EmptySearch(t *testing.T) {
	idx, _ := NewFlatIndex(2)
	results, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("empty index returned %d results", len(results))
	}
}

func TestFlatIndex_DimensionMismatch(t *testing.T) {
	idx, _ := NewFlatIndex(3)
	ctx := context.Background()
	if _, err := idx.Add(ctx, []float32{1, 0}); err == nil {
		t.Error("Add with wrong dimension must fail")
	}
	if _, err := idx.Search(ctx, []float32{1, 0}, 1); err == nil {
		t.Error("Search with wrong dimension must fail")
	}
}

func TestFlatIndex_SaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.index")
	ctx := context.Background()

	idx, _ := NewFlatIndex(2)
	_, _ = idx.Add(ctx, []float32{1, 0})
	_, _ = idx.Add(ctx, []float32{0, 1})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, _ := NewFlatIndex(2)
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if loaded.Count() != 2 {
		t.Fatalf("loaded count = %d", loaded.Count())
	}
	results, err := loaded.Search(ctx, []float32{0, 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Position != 1 {
		t.Errorf("loaded search position = %d, want 1", results[0].Position)
	}
}

func TestFlatIndex_LoadMissingFile(t *testing.T) {
	idx, _ := NewFlatIndex(2)
	if err := idx.Load(filepath.Join(t.TempDir(), "absent.index")); err != nil {
		t.Fatalf("missing snapshot should not error: %v", err)
	}
	if idx.Count() != 0 {
		t.Errorf("count = %d", idx.Count())
	}
}

func TestFlatIndex_LoadDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.index")
	ctx := context.Background()
	idx, _ := NewFlatIndex(2)
	_, _ = idx.Add(ctx, []float32{1, 0})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}

	other, _ := NewFlatIndex(3)
	if err := other.Load(path); err == nil {
		t.Error("dimension mismatch on load must fail")
	}
}

func TestInnerProduct(t *testing.T) {
	if got := InnerProduct([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Errorf("identical unit vectors = %f", got)
	}
	if got := InnerProduct([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors = %f", got)
	}
	if got := InnerProduct([]float32{1}, []float32{1, 2}); got != 0 {
		t.Errorf("length mismatch = %f", got)
	}
}
