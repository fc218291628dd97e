// Package main is the Toikake CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/toikake/internal/config"
	"github.com/hyperjump/toikake/internal/embedding"
	"github.com/hyperjump/toikake/internal/extract"
	"github.com/hyperjump/toikake/internal/keywords"
	"github.com/hyperjump/toikake/internal/match"
	"github.com/hyperjump/toikake/internal/models"
	"github.com/hyperjump/toikake/internal/server"
	"github.com/hyperjump/toikake/internal/storage"
	"github.com/hyperjump/toikake/internal/vector"
	"github.com/hyperjump/toikake/internal/watcher"
	"github.com/hyperjump/toikake/pkg/utils"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/toikake/config.yaml"
	defaultServerURL  = "http://localhost:7700"
)

// loadConfig loads config from path. When path is the default, a config.yaml
// in the current directory takes precedence so that running from the project
// dir picks up the local config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "store":
		runStore()
	case "match":
		runMatch()
	case "search":
		runSearch()
	case "analyze":
		runAnalyze()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("toikake version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var inbox *watcher.Watcher
	if len(cfg.Inbox.Directories) > 0 {
		if components.KeywordSource == nil {
			logger.Warn("inbox directories configured but keyword extraction is not; inbox disabled")
		} else {
			inbox = newInboxWatcher(cfg, components, logger)
			if err := inbox.Start(watchCtx); err != nil {
				logger.Fatal("Failed to start inbox watcher", zap.Error(err))
			}
			inbox.SyncExisting()
		}
	}

	srv := server.NewServer(
		components.Engine,
		components.Extractor,
		components.KeywordSource,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if inbox != nil {
		inbox.Stop()
	}
	watchCancel()
	if err := components.VectorIndex.Save(cfg.Storage.VectorIndexPath); err != nil {
		logger.Warn("vector index save failed", zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// newInboxWatcher wires the inbox to the full analysis pipeline: extract the
// document text, derive keywords, and log any question matches.
func newInboxWatcher(cfg *config.Config, components *Components, logger *zap.Logger) *watcher.Watcher {
	onDocument := func(path string) {
		ctx := context.Background()
		text, err := components.Extractor.Extract(path)
		if err != nil {
			logger.Warn("inbox extraction failed", zap.String("path", path), zap.Error(err))
			return
		}
		kws, err := components.KeywordSource.Extract(ctx, text)
		if err != nil {
			logger.Warn("inbox keyword extraction failed", zap.String("path", path), zap.Error(err))
			return
		}
		if len(kws) == 0 {
			logger.Info("inbox document yielded no keywords", zap.String("path", path))
			return
		}
		results, err := components.Engine.MatchFromKeywords(ctx, kws, cfg.Matching.KeywordThreshold, cfg.Matching.TopK)
		if err != nil {
			logger.Warn("inbox match failed", zap.String("path", path), zap.Error(err))
			return
		}
		logger.Info("inbox document analyzed",
			zap.String("path", path),
			zap.Strings("keywords", kws),
			zap.Int("matches", len(results)),
		)
		for _, r := range results {
			logger.Info("inbox match",
				zap.String("question", r.Question),
				zap.Float64("similarity", r.Similarity),
				zap.Int("match_count", r.MatchCount),
			)
		}
	}
	return watcher.New(
		cfg.Inbox.Directories,
		cfg.Inbox.Extensions,
		cfg.Inbox.RecursiveOrDefault(),
		onDocument,
		logger,
	)
}

func runStore() {
	fs := flag.NewFlagSet("store", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: toikake store [flags] <question>")
		os.Exit(1)
	}
	question := strings.TrimSpace(strings.Join(fs.Args(), " "))

	var result models.StoreResult
	if err := postJSON(*serverURL+"/api/v1/questions", models.StoreRequest{Question: question}, &result, http.StatusCreated); err != nil {
		fmt.Fprintf(os.Stderr, "Store failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Stored at position %d (%d dimensions)\n", result.Position, result.Dimensions)
}

func runMatch() {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	threshold := fs.Float64("threshold", -1, "minimum similarity (default from server config)")
	topK := fs.Int("top-k", 0, "number of results (default from server config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: toikake match [flags] <keyword> [keyword...]")
		os.Exit(1)
	}
	req := models.MatchRequest{Keywords: fs.Args(), TopK: *topK}
	if *threshold >= 0 {
		req.Threshold = threshold
	}

	var resp matchResponse
	if err := postJSON(*serverURL+"/api/v1/match", req, &resp, http.StatusOK); err != nil {
		fmt.Fprintf(os.Stderr, "Match failed: %v\n", err)
		os.Exit(1)
	}
	writeMatches(resp, *outputFormat)
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	threshold := fs.Float64("threshold", -1, "minimum similarity (default from server config)")
	topK := fs.Int("top-k", 0, "number of results (default from server config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: toikake search [flags] <query>")
		os.Exit(1)
	}
	req := models.SearchRequest{Query: strings.Join(fs.Args(), " "), TopK: *topK}
	if *threshold >= 0 {
		req.Threshold = threshold
	}

	var resp matchResponse
	if err := postJSON(*serverURL+"/api/v1/search", req, &resp, http.StatusOK); err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	writeMatches(resp, *outputFormat)
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	threshold := fs.Float64("threshold", -1, "minimum similarity (default from server config)")
	topK := fs.Int("top-k", 0, "number of results (default from server config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: toikake analyze [flags] <file>")
		os.Exit(1)
	}
	path, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid path: %v\n", err)
		os.Exit(1)
	}
	req := models.AnalyzeRequest{FilePath: path, TopK: *topK}
	if *threshold >= 0 {
		req.Threshold = threshold
	}

	var resp analyzeResponse
	if err := postJSON(*serverURL+"/api/v1/analyze", req, &resp, http.StatusOK); err != nil {
		fmt.Fprintf(os.Stderr, "Analyze failed: %v\n", err)
		os.Exit(1)
	}
	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(resp)
		return
	}
	fmt.Printf("Keywords: %s\n", strings.Join(resp.Keywords, ", "))
	writeMatches(matchResponse{Results: resp.Results, Count: resp.Count}, "text")
}

type matchResponse struct {
	Results []models.MatchResult `json:"results"`
	Count   int                  `json:"count"`
}

type analyzeResponse struct {
	Keywords []string             `json:"keywords"`
	Results  []models.MatchResult `json:"results"`
	Count    int                  `json:"count"`
}

func writeMatches(resp matchResponse, format string) {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(resp)
		return
	}
	if resp.Count == 0 {
		fmt.Println("No matches.")
		return
	}
	for i, r := range resp.Results {
		fmt.Printf("%d. [%.3f] %s\n", i+1, r.Similarity, r.Question)
		if len(r.MatchedKeywords) > 0 {
			fmt.Printf("   matched: %s\n", strings.Join(r.MatchedKeywords, ", "))
		}
	}
}

type statusResponse struct {
	Questions      int                    `json:"questions"`
	DiskUsageBytes *int64                 `json:"disk_usage_bytes,omitempty"`
	Config         map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(status)
	case "text":
		fmt.Printf("questions:         %d\n", status.Questions)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:  %d\n", *status.DiskUsageBytes)
		}
		for _, key := range []string{"embedding_provider", "embedding_dimensions", "keyword_threshold", "query_threshold", "top_k", "database_path", "vector_index_path"} {
			if v, ok := status.Config[key]; ok {
				fmt.Printf("%-18s %v\n", key+":", v)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func postJSON(url string, payload, out interface{}, wantStatus int) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Components holds initialized services.
type Components struct {
	Store         storage.QuestionStore
	Embedder      embedding.Embedder
	VectorIndex   *vector.FlatIndex
	Engine        *match.Engine
	Extractor     *extract.Extractor
	KeywordSource keywords.Extractor
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize question store: %w", err)
	}

	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		logger.Warn("embedder unavailable, falling back to mock",
			zap.String("provider", cfg.Embedding.Provider),
			zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	}

	index, err := vector.NewFlatIndex(embedder.Dimensions())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	if err := index.Load(cfg.Storage.VectorIndexPath); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load vector index: %w", err)
	}
	logger.Info("vector index loaded",
		zap.String("path", cfg.Storage.VectorIndexPath),
		zap.Int("vectors", index.Count()),
	)

	engine, err := match.NewEngine(
		context.Background(),
		store,
		embedder,
		index,
		keywords.NewExpander(cfg.Keywords.Synonyms),
		&cfg.Matching,
		cfg.Storage.VectorIndexPath,
		logger,
	)
	if err != nil {
		_ = store.Close()
		_ = embedder.Close()
		return nil, err
	}

	var kwSource keywords.Extractor
	if cfg.Keywords.APIKey != "" || cfg.Keywords.BaseURL != "" {
		llm, err := keywords.NewLLMExtractor(
			cfg.Keywords.BaseURL,
			cfg.Keywords.Model,
			cfg.Keywords.APIKey,
			cfg.Keywords.MaxChars,
			logger,
		)
		if err != nil {
			logger.Warn("keyword extraction unavailable; analyze disabled", zap.Error(err))
		} else {
			kwSource = llm
		}
	}

	return &Components{
		Store:         store,
		Embedder:      embedder,
		VectorIndex:   index,
		Engine:        engine,
		Extractor:     extract.NewExtractor(),
		KeywordSource: kwSource,
	}, nil
}

func printUsage() {
	fmt.Println(`toikake - Question matching engine

Usage:
  toikake server [flags]                Start the HTTP server
  toikake store [flags] <question>      Store a question
  toikake match [flags] <keyword>...    Match stored questions by keywords
  toikake search [flags] <query>        Match stored questions by free-text query
  toikake analyze [flags] <file>        Extract keywords from a document and match
  toikake status [flags]                Show engine status
  toikake version                       Show version
  toikake help                          Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/toikake/config.yaml)
  --debug            Enable debug logging

Client Flags (store, match, search, analyze, status):
  --server string      Server URL (default: http://localhost:7700)
  --threshold float    Minimum similarity (match, search, analyze)
  --top-k int          Number of results (match, search, analyze)
  --output string      Output format: text or json

Examples:
  toikake server
  toikake store "What are the main differences between REST and GraphQL APIs?"
  toikake match rest graphql
  toikake search "How does connection pooling work?"
  toikake analyze ./report.pdf
  toikake status --output json`)
}
