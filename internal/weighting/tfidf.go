// Package weighting computes per-keyword TF-IDF weights against the question
// corpus and composes them into a single weighted query embedding.
package weighting

import "math"

// DefaultCorpusPrefix is how many leading words of each question participate
// in term weighting. Questions carry their discriminating terms up front, and
// the cap bounds cost on long entries.
const DefaultCorpusPrefix = 20

// TermWeights computes one non-negative weight per term, aligned by position
// with terms. The vocabulary is fixed to exactly these terms. The weighted
// document set is the joined term list itself plus every corpus question
// truncated to its first corpusPrefix words; IDF is smoothed
// (ln((1+N)/(1+df)) + 1) and the resulting weight row is L2-normalized, so
// terms common across the corpus score lower than query-specific ones.
//
// The corpus must be non-empty; callers short-circuit to "no matches" before
// weighting when nothing is stored.
func TermWeights(terms []string, corpus []string, corpusPrefix int) []float64 {
	if corpusPrefix <= 0 {
		corpusPrefix = DefaultCorpusPrefix
	}

	termTokens := make([][]string, len(terms))
	for i, t := range terms {
		termTokens[i] = tokenize(t)
	}

	queryDoc := make([]string, 0, len(terms))
	for _, t := range termTokens {
		queryDoc = append(queryDoc, t...)
	}

	docs := make([][]string, 0, len(corpus)+1)
	docs = append(docs, queryDoc)
	for _, q := range corpus {
		tokens := tokenize(q)
		if len(tokens) > corpusPrefix {
			tokens = tokens[:corpusPrefix]
		}
		docs = append(docs, tokens)
	}

	n := float64(len(docs))
	weights := make([]float64, len(terms))
	for i, tt := range termTokens {
		if len(tt) == 0 {
			continue
		}
		var df float64
		for _, doc := range docs {
			if countRuns(doc, tt) > 0 {
				df++
			}
		}
		tf := float64(countRuns(queryDoc, tt))
		idf := math.Log((1+n)/(1+df)) + 1
		weights[i] = tf * idf
	}

	var sum float64
	for _, w := range weights {
		sum += w * w
	}
	if sum > 0 {
		norm := 1 / math.Sqrt(sum)
		for i := range weights {
			weights[i] *= norm
		}
	}
	return weights
}

// countRuns counts occurrences of the term token sequence in doc tokens.
// Multi-word terms (synonym expansions) match as consecutive runs.
func countRuns(doc, term []string) int {
	if len(term) == 0 || len(term) > len(doc) {
		return 0
	}
	count := 0
	for i := 0; i+len(term) <= len(doc); i++ {
		match := true
		for j := range term {
			if doc[i+j] != term[j] {
				match = false
				break
			}
		}
		if match {
			count++
		}
	}
	return count
}
