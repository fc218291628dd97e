// Package keywords provides keyword extraction from document text and synonym
// expansion of keyword sets.
package keywords

// defaultSynonyms bridges common vocabulary gaps between document text and
// stored question phrasing. Keys and values are lowercase.
var defaultSynonyms = map[string][]string{
	"ai":         {"artificial intelligence", "machine learning"},
	"python":     {"django", "flask"},
	"javascript": {"js", "node", "react"},
}

// Expander expands keyword sets with configured synonyms.
type Expander struct {
	synonyms map[string][]string
}

// NewExpander returns an expander over the built-in synonym table merged with
// extra entries (extra wins on key collision).
func NewExpander(extra map[string][]string) *Expander {
	merged := make(map[string][]string, len(defaultSynonyms)+len(extra))
	for k, v := range defaultSynonyms {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return &Expander{synonyms: merged}
}

// Expand returns the keywords plus synonyms for every recognized term,
// deduplicated. Order is deterministic: originals first, then synonyms in
// table order per matched keyword. Unknown keywords pass through unchanged.
func (e *Expander) Expand(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	add := func(kw string) {
		if _, ok := seen[kw]; ok {
			return
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	for _, kw := range keywords {
		add(kw)
	}
	for _, kw := range keywords {
		for _, syn := range e.synonyms[kw] {
			add(syn)
		}
	}
	return out
}
