package match

import (
	"sort"
	"strings"

	"github.com/hyperjump/toikake/internal/models"
)

// Candidate is a raw vector-index hit resolved to its question text, carried
// through the ranking pipeline.
type Candidate struct {
	Position        int
	Score           float64
	Question        string
	MatchedKeywords []string
}

// Stage is one named step of the ranking pipeline. Stages are pure: they
// return a (possibly filtered or reordered) candidate list.
type Stage struct {
	Name  string
	Apply func([]Candidate) []Candidate
}

// Pipeline applies stages in order.
type Pipeline struct {
	stages []Stage
}

// NewPipeline builds a pipeline from the given stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run feeds candidates through every stage.
func (p *Pipeline) Run(candidates []Candidate) []Candidate {
	for _, s := range p.stages {
		candidates = s.Apply(candidates)
	}
	return candidates
}

// ThresholdStage drops candidates scoring below threshold.
func ThresholdStage(threshold float64) Stage {
	return Stage{
		Name: "threshold",
		Apply: func(in []Candidate) []Candidate {
			out := in[:0]
			for _, c := range in {
				if c.Score >= threshold {
					out = append(out, c)
				}
			}
			return out
		},
	}
}

// QualityStage drops candidates whose question is not high-quality. Noise
// entries that slipped into the store never reach callers, whatever their
// vector score.
func QualityStage(minWords int) Stage {
	return Stage{
		Name: "quality",
		Apply: func(in []Candidate) []Candidate {
			out := in[:0]
			for _, c := range in {
				if models.IsHighQuality(c.Question, minWords) {
					out = append(out, c)
				}
			}
			return out
		},
	}
}

// KeywordOverlapStage computes MatchedKeywords as the subset of keywords that
// appear as whole lowercase tokens in the question, and drops candidates with
// no overlap: a high vector score with zero lexical overlap is treated as a
// false positive here.
func KeywordOverlapStage(keywords []string) Stage {
	return Stage{
		Name: "keyword-overlap",
		Apply: func(in []Candidate) []Candidate {
			out := in[:0]
			for _, c := range in {
				tokens := models.TokenSet(c.Question)
				var matched []string
				for _, kw := range keywords {
					if _, ok := tokens[strings.ToLower(kw)]; ok {
						matched = append(matched, kw)
					}
				}
				if len(matched) == 0 {
					continue
				}
				c.MatchedKeywords = matched
				out = append(out, c)
			}
			return out
		},
	}
}

// SortStage orders candidates by (score, match count) descending. The sort is
// stable, so ties keep their original retrieval order.
func SortStage() Stage {
	return Stage{
		Name: "sort",
		Apply: func(in []Candidate) []Candidate {
			sort.SliceStable(in, func(i, j int) bool {
				if in[i].Score != in[j].Score {
					return in[i].Score > in[j].Score
				}
				return len(in[i].MatchedKeywords) > len(in[j].MatchedKeywords)
			})
			return in
		},
	}
}

// TruncateStage keeps at most topK candidates.
func TruncateStage(topK int) Stage {
	return Stage{
		Name: "truncate",
		Apply: func(in []Candidate) []Candidate {
			if topK >= 0 && len(in) > topK {
				return in[:topK]
			}
			return in
		},
	}
}
