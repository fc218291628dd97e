package models

import "fmt"

const (
	defaultTopK = 5
	maxTopK     = 50
)

// StoreRequest is the payload for storing a question.
type StoreRequest struct {
	Question string `json:"question"`
}

// Validate ensures the store request has a question.
func (r *StoreRequest) Validate() error {
	if r.Question == "" {
		return fmt.Errorf("question is required")
	}
	return nil
}

// MatchRequest is the payload for keyword-driven matching. Threshold is a
// pointer so that an explicit 0 can be told apart from "use the configured default".
type MatchRequest struct {
	Keywords  []string `json:"keywords"`
	Threshold *float64 `json:"threshold,omitempty"`
	TopK      int      `json:"top_k,omitempty"`
}

// Validate ensures the match request has keywords and clamps top_k.
func (r *MatchRequest) Validate() error {
	if len(r.Keywords) == 0 {
		return fmt.Errorf("keywords are required")
	}
	r.TopK = clampTopK(r.TopK)
	return nil
}

// SearchRequest is the payload for direct semantic search.
type SearchRequest struct {
	Query     string   `json:"query"`
	Threshold *float64 `json:"threshold,omitempty"`
	TopK      int      `json:"top_k,omitempty"`
}

// Validate ensures the search request has a query and clamps top_k.
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query is required")
	}
	r.TopK = clampTopK(r.TopK)
	return nil
}

// AnalyzeRequest is the payload for document analysis: extract text from the
// file, derive keywords, and match them against the stored questions.
type AnalyzeRequest struct {
	FilePath  string   `json:"file_path"`
	Threshold *float64 `json:"threshold,omitempty"`
	TopK      int      `json:"top_k,omitempty"`
}

// Validate ensures the analyze request has a file path and clamps top_k.
func (r *AnalyzeRequest) Validate() error {
	if r.FilePath == "" {
		return fmt.Errorf("file_path is required")
	}
	r.TopK = clampTopK(r.TopK)
	return nil
}

func clampTopK(k int) int {
	if k <= 0 {
		return defaultTopK
	}
	if k > maxTopK {
		return maxTopK
	}
	return k
}
