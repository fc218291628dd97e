package models

// MatchResult is a single ranked question match. MatchedKeywords is the subset
// of the query's expanded keywords that literally appear as whole lowercase
// tokens in the question; it is empty on the direct-query path.
type MatchResult struct {
	Question        string   `json:"question"`
	Similarity      float64  `json:"similarity"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	MatchCount      int      `json:"match_count"`
}

// StoreResult describes a successfully stored question.
type StoreResult struct {
	Position   int `json:"position"`
	Dimensions int `json:"dimensions"`
}
