package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 7700
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/toikake/data/questions.db"
	}
	if cfg.Storage.VectorIndexPath == "" {
		cfg.Storage.VectorIndexPath = "/usr/local/var/toikake/data/vectors.index"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "onnx"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/toikake/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Keywords.Model == "" {
		cfg.Keywords.Model = "gpt-4o-mini"
	}
	if cfg.Keywords.MaxChars == 0 {
		cfg.Keywords.MaxChars = 16000
	}
	if cfg.Matching.KeywordThreshold == 0 {
		cfg.Matching.KeywordThreshold = 0.7
	}
	if cfg.Matching.QueryThreshold == 0 {
		cfg.Matching.QueryThreshold = 0.5
	}
	if cfg.Matching.TopK == 0 {
		cfg.Matching.TopK = 5
	}
	if cfg.Matching.OverfetchFactor == 0 {
		cfg.Matching.OverfetchFactor = 2
	}
	if cfg.Matching.MinQuestionWords == 0 {
		cfg.Matching.MinQuestionWords = 5
	}
	if cfg.Matching.CorpusPrefix == 0 {
		cfg.Matching.CorpusPrefix = 20
	}
	if cfg.Inbox.Extensions == nil {
		cfg.Inbox.Extensions = []string{".pdf", ".docx", ".xlsx", ".txt", ".md"}
	}
	if len(cfg.Inbox.Directories) > 0 && cfg.Inbox.Recursive == nil {
		t := true
		cfg.Inbox.Recursive = &t
	}
}
