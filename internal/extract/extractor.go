// Package extract pulls plain text out of inbox documents so their content
// can be run through keyword extraction and matching.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat reports a file extension the extractor has no handler
// for. Unknown binary formats are rejected rather than decoded as text, which
// would feed garbage into keyword extraction.
var ErrUnsupportedFormat = errors.New("unsupported document format")

type handler func(content []byte) (string, error)

var handlers = map[string]handler{
	".pdf":  fromPDF,
	".docx": fromDOCX,
	".xlsx": fromXLSX,
	".txt":  fromPlain,
	".md":   fromPlain,
}

// Extractor converts supported document files to plain text.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supported reports whether the extension (with leading dot) has a handler.
func (e *Extractor) Supported(ext string) bool {
	_, ok := handlers[strings.ToLower(ext)]
	return ok
}

// Extract reads the file at path and returns its text content, routed by
// extension.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, filepath.Ext(path))
}

// ExtractBytes extracts text from content. ext includes the leading dot;
// matching is case-insensitive. An empty extension is treated as plain text.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	ext = strings.ToLower(ext)
	if ext == "" {
		return fromPlain(content)
	}
	h, ok := handlers[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return h(content)
}
