package keywords

import "testing"

func TestExpander_KnownSynonyms(t *testing.T) {
	e := NewExpander(nil)
	got := e.Expand([]string{"ai"})

	want := map[string]bool{"ai": true, "artificial intelligence": true, "machine learning": true}
	if len(got) != len(want) {
		t.Fatalf("Expand([ai]) = %v", got)
	}
	for _, kw := range got {
		if !want[kw] {
			t.Errorf("unexpected keyword %q", kw)
		}
	}
	// Originals come before synonyms.
	if got[0] != "ai" {
		t.Errorf("original keyword not first: %v", got)
	}
}

func TestExpander_UnknownPassthrough(t *testing.T) {
	e := NewExpander(nil)
	got := e.Expand([]string{"kubernetes", "grpc"})
	if len(got) != 2 || got[0] != "kubernetes" || got[1] != "grpc" {
		t.Errorf("unknown keywords must pass through unchanged: %v", got)
	}
}

func TestExpander_Dedup(t *testing.T) {
	e := NewExpander(nil)
	got := e.Expand([]string{"javascript", "js", "javascript"})
	counts := make(map[string]int)
	for _, kw := range got {
		counts[kw]++
	}
	for kw, n := range counts {
		if n > 1 {
			t.Errorf("keyword %q appears %d times", kw, n)
		}
	}
	if counts["node"] != 1 || counts["react"] != 1 {
		t.Errorf("javascript synonyms missing: %v", got)
	}
}

func TestExpander_ExtraTable(t *testing.T) {
	e := NewExpander(map[string][]string{"go": {"golang", "goroutines"}})
	got := e.Expand([]string{"go"})
	if len(got) != 3 {
		t.Fatalf("Expand([go]) = %v", got)
	}
	// Built-ins still present alongside extras.
	if ai := e.Expand([]string{"ai"}); len(ai) != 3 {
		t.Errorf("built-in table lost: %v", ai)
	}
}
