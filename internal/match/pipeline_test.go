package match

import (
	"testing"
)

func TestThresholdStage(t *testing.T) {
	stage := ThresholdStage(0.7)
	in := []Candidate{
		{Position: 0, Score: 0.9},
		{Position: 1, Score: 0.69},
		{Position: 2, Score: 0.7},
	}
	out := stage.Apply(in)
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0].Position != 0 || out[1].Position != 2 {
		t.Errorf("wrong survivors: %+v", out)
	}
}

func TestQualityStage(t *testing.T) {
	stage := QualityStage(5)
	in := []Candidate{
		{Question: "What are the tradeoffs of eventual consistency in practice?", Score: 0.8},
		{Question: "bad entry", Score: 0.99},
		{Question: "Six whole words but no question mark", Score: 0.95},
	}
	out := stage.Apply(in)
	if len(out) != 1 {
		t.Fatalf("len = %d: %+v", len(out), out)
	}
	if out[0].Score != 0.8 {
		t.Errorf("wrong survivor: %+v", out[0])
	}
}

func TestKeywordOverlapStage(t *testing.T) {
	stage := KeywordOverlapStage([]string{"rest", "graphql", "caching"})
	in := []Candidate{
		{Question: "What are the main differences between REST and GraphQL APIs?"},
		{Question: "How do you tune garbage collection pauses in production?"},
	}
	out := stage.Apply(in)
	if len(out) != 1 {
		t.Fatalf("len = %d", len(out))
	}
	if len(out[0].MatchedKeywords) != 2 {
		t.Errorf("matched = %v", out[0].MatchedKeywords)
	}
	// "rest" and "graphql" appear as whole tokens; "caching" does not.
	for _, kw := range out[0].MatchedKeywords {
		if kw != "rest" && kw != "graphql" {
			t.Errorf("unexpected matched keyword %q", kw)
		}
	}
}

func TestSortStage_ScoreBeforeMatchCount(t *testing.T) {
	stage := SortStage()
	in := []Candidate{
		{Position: 0, Score: 0.85, MatchedKeywords: []string{"a", "b", "c"}},
		{Position: 1, Score: 0.9, MatchedKeywords: []string{"a"}},
	}
	out := stage.Apply(in)
	// Higher score wins even against more matched keywords.
	if out[0].Position != 1 {
		t.Errorf("0.9-score result should rank first: %+v", out)
	}
}

func TestSortStage_TieBreaksOnMatchCount(t *testing.T) {
	stage := SortStage()
	in := []Candidate{
		{Position: 0, Score: 0.8, MatchedKeywords: []string{"a"}},
		{Position: 1, Score: 0.8, MatchedKeywords: []string{"a", "b"}},
		{Position: 2, Score: 0.8, MatchedKeywords: []string{"c"}},
	}
	out := stage.Apply(in)
	if out[0].Position != 1 {
		t.Errorf("higher match count should win the tie: %+v", out)
	}
	// Equal score and match count: retrieval order preserved (stable sort).
	if out[1].Position != 0 || out[2].Position != 2 {
		t.Errorf("stable order not preserved: %+v", out)
	}
}

func TestTruncateStage(t *testing.T) {
	stage := TruncateStage(2)
	in := []Candidate{{Position: 0}, {Position: 1}, {Position: 2}}
	out := stage.Apply(in)
	if len(out) != 2 {
		t.Errorf("len = %d", len(out))
	}
	if len(TruncateStage(5).Apply(in)) != 3 {
		t.Error("truncate beyond length should be a no-op")
	}
}

func TestPipeline_RunsStagesInOrder(t *testing.T) {
	p := NewPipeline(
		ThresholdStage(0.5),
		SortStage(),
		TruncateStage(1),
	)
	in := []Candidate{
		{Position: 0, Score: 0.6},
		{Position: 1, Score: 0.4},
		{Position: 2, Score: 0.8},
	}
	out := p.Run(in)
	if len(out) != 1 || out[0].Position != 2 {
		t.Errorf("pipeline result: %+v", out)
	}
}
