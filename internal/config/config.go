// Package config provides configuration loading and structs for the Toikake server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Keywords  KeywordsConfig  `yaml:"keywords"`
	Matching  MatchingConfig  `yaml:"matching"`
	Inbox     InboxConfig     `yaml:"inbox"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the question database and the vector index snapshot.
// Both artifacts belong together: they are loaded together on startup and their
// counts must match.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	VectorIndexPath string `yaml:"vector_index_path"`
}

// EmbeddingConfig holds embedder settings. Provider selects the implementation:
// "mock", "onnx", or "openai".
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	ModelPath  string `yaml:"model_path"` // onnx: path to the .onnx model file
	BaseURL    string `yaml:"base_url"`   // openai: API base URL
	Model      string `yaml:"model"`      // openai: embedding model name
	APIKey     string `yaml:"api_key"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// KeywordsConfig holds the keyword-extraction LLM settings and optional synonym
// table extensions merged into the built-in expansion table.
type KeywordsConfig struct {
	BaseURL  string              `yaml:"base_url"`
	Model    string              `yaml:"model"`
	APIKey   string              `yaml:"api_key"`
	MaxChars int                 `yaml:"max_chars"` // document text sent to the LLM is capped at this length
	Synonyms map[string][]string `yaml:"synonyms"`
}

// MatchingConfig holds thresholds and limits for the matching engine.
type MatchingConfig struct {
	KeywordThreshold float64 `yaml:"keyword_threshold"` // minimum similarity on the keyword path
	QueryThreshold   float64 `yaml:"query_threshold"`   // minimum similarity on the direct-query path
	TopK             int     `yaml:"top_k"`
	OverfetchFactor  int     `yaml:"overfetch_factor"` // index candidates fetched per requested result
	MinQuestionWords int     `yaml:"min_question_words"`
	CorpusPrefix     int     `yaml:"corpus_prefix"` // words per question considered for term weighting
}

// InboxConfig holds directory-watch settings for automatic document analysis.
type InboxConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (c *InboxConfig) RecursiveOrDefault() bool {
	if c.Recursive != nil {
		return *c.Recursive
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.VectorIndexPath = expandPath(cfg.Storage.VectorIndexPath, configDir)
	if cfg.Embedding.ModelPath != "" {
		cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	}
	for i := range cfg.Inbox.Directories {
		cfg.Inbox.Directories[i] = expandPath(cfg.Inbox.Directories[i], configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
