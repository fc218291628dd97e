package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Server.Port != 7700 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("default dimensions = %d", cfg.Embedding.Dimensions)
	}
	if cfg.Matching.KeywordThreshold != 0.7 {
		t.Errorf("default keyword threshold = %f", cfg.Matching.KeywordThreshold)
	}
	if cfg.Matching.QueryThreshold != 0.5 {
		t.Errorf("default query threshold = %f", cfg.Matching.QueryThreshold)
	}
	if cfg.Matching.TopK != 5 {
		t.Errorf("default top_k = %d", cfg.Matching.TopK)
	}
	if cfg.Matching.OverfetchFactor != 2 {
		t.Errorf("default overfetch = %d", cfg.Matching.OverfetchFactor)
	}
	if cfg.Matching.MinQuestionWords != 5 {
		t.Errorf("default min question words = %d", cfg.Matching.MinQuestionWords)
	}
}

func TestApplyDefaults_PreservesSetValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9000
	cfg.Matching.KeywordThreshold = 0.9
	ApplyDefaults(cfg)

	if cfg.Server.Port != 9000 {
		t.Errorf("port overwritten: %d", cfg.Server.Port)
	}
	if cfg.Matching.KeywordThreshold != 0.9 {
		t.Errorf("threshold overwritten: %f", cfg.Matching.KeywordThreshold)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  port: 8123
storage:
  database_path: ./data/questions.db
matching:
  top_k: 3
keywords:
  synonyms:
    golang: ["go", "goroutines"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug {
		t.Error("debug not loaded")
	}
	if cfg.Server.Port != 8123 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Matching.TopK != 3 {
		t.Errorf("top_k = %d", cfg.Matching.TopK)
	}
	// ./-relative paths resolve against the config directory.
	want := filepath.Join(dir, "data/questions.db")
	if cfg.Storage.DatabasePath != want {
		t.Errorf("database path = %s, want %s", cfg.Storage.DatabasePath, want)
	}
	if syn := cfg.Keywords.Synonyms["golang"]; len(syn) != 2 {
		t.Errorf("synonyms not loaded: %v", cfg.Keywords.Synonyms)
	}
	// Defaults still applied for unset fields.
	if cfg.Matching.QueryThreshold != 0.5 {
		t.Errorf("query threshold default missing: %f", cfg.Matching.QueryThreshold)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
