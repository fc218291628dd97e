package keywords

import (
	"context"
	"strings"
)

// Extractor turns raw document text into a keyword list. Implementations may
// call external services; the output contract is fixed by ParseKeywords.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// ParseKeywords parses a comma-separated keyword string into lowercase trimmed
// keywords, dropping empties. This is the full contract the engine relies on;
// anything else the extraction service does with the text is opaque.
func ParseKeywords(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		kw := strings.ToLower(strings.TrimSpace(p))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
