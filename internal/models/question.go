// Package models defines core data structures for questions, match requests, and results.
package models

import "strings"

// DefaultMinQuestionWords is the minimum word count (exclusive) for a stored question.
const DefaultMinQuestionWords = 5

// IsHighQuality reports whether q is a storable question: more than minWords
// whitespace-separated tokens and a literal '?' somewhere in the text.
// Entries failing this rule are rejected at store time and filtered out of
// match results if they ever reach the store through a corrupted snapshot.
func IsHighQuality(q string, minWords int) bool {
	if minWords <= 0 {
		minWords = DefaultMinQuestionWords
	}
	return len(strings.Fields(q)) > minWords && strings.Contains(q, "?")
}

// TokenSet returns the set of lowercase whitespace-separated tokens in s.
func TokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
