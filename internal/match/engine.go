// Package match implements the question-matching engine: keyword expansion,
// term-weighted query composition, vector search, and staged result ranking,
// with the question store and vector index held in lock-step behind one owner.
package match

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/toikake/internal/config"
	"github.com/hyperjump/toikake/internal/embedding"
	"github.com/hyperjump/toikake/internal/keywords"
	"github.com/hyperjump/toikake/internal/models"
	"github.com/hyperjump/toikake/internal/storage"
	"github.com/hyperjump/toikake/internal/vector"
	"github.com/hyperjump/toikake/internal/weighting"
	"github.com/hyperjump/toikake/pkg/utils"
)

// Engine owns the question store and the vector index. All mutation goes
// through Store under one mutex, so readers never observe the store and the
// index at different lengths. The raw structures are never handed to callers.
type Engine struct {
	questions storage.QuestionStore
	embedder  embedding.Embedder
	index     *vector.FlatIndex
	expander  *keywords.Expander
	cfg       *config.MatchingConfig
	indexPath string
	logger    *zap.Logger
	mu        sync.Mutex
}

// NewEngine creates the engine and verifies the alignment invariant between
// the loaded question store and vector index. A count mismatch is corruption:
// the engine refuses to start rather than serve misaligned results.
func NewEngine(
	ctx context.Context,
	questions storage.QuestionStore,
	embedder embedding.Embedder,
	index *vector.FlatIndex,
	expander *keywords.Expander,
	cfg *config.MatchingConfig,
	indexPath string,
	logger *zap.Logger,
) (*Engine, error) {
	count, err := questions.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if count != index.Count() {
		return nil, fmt.Errorf("%w: %d questions, %d vectors", ErrCorruptState, count, index.Count())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		questions: questions,
		embedder:  embedder,
		index:     index,
		expander:  expander,
		cfg:       cfg,
		indexPath: indexPath,
		logger:    logger,
	}, nil
}

// Store validates, embeds, and persists a question, returning its assigned
// position. The index add, store append, and snapshot write form one critical
// section. Store is not idempotent: retrying a successful call duplicates the
// entry.
func (e *Engine) Store(ctx context.Context, question string) (*models.StoreResult, error) {
	question = strings.TrimSpace(question)
	if !models.IsHighQuality(question, e.cfg.MinQuestionWords) {
		return nil, fmt.Errorf("%w: %q", ErrLowQualityQuestion, utils.Truncate(question, 80))
	}

	emb, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	utils.NormalizeL2(emb)

	e.mu.Lock()
	defer e.mu.Unlock()

	count, err := e.questions.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if count != e.index.Count() {
		return nil, fmt.Errorf("%w: %d questions, %d vectors", ErrCorruptState, count, e.index.Count())
	}

	position, err := e.index.Add(ctx, emb)
	if err != nil {
		return nil, fmt.Errorf("add to vector index: %w", err)
	}
	if err := e.questions.Append(ctx, position, question); err != nil {
		// The index already holds the new row. Flag it loudly: the snapshot on
		// disk is still consistent, but this process must not take more writes.
		e.logger.Error("question append failed after index add; in-memory index is ahead of store",
			zap.Int("position", position),
			zap.Error(err),
		)
		return nil, fmt.Errorf("append question: %w", err)
	}
	if err := e.index.Save(e.indexPath); err != nil {
		e.logger.Error("vector index snapshot failed; on-disk index is behind question store",
			zap.Int("position", position),
			zap.String("path", e.indexPath),
			zap.Error(err),
		)
		return nil, fmt.Errorf("persist vector index: %w", err)
	}

	e.logger.Debug("stored question",
		zap.Int("position", position),
		zap.String("question", utils.Truncate(question, 120)),
	)
	return &models.StoreResult{Position: position, Dimensions: len(emb)}, nil
}

// MatchFromKeywords expands the keywords, weights them against the corpus,
// composes a single weighted query embedding, and returns ranked matches.
// An empty corpus yields empty results without error.
func (e *Engine) MatchFromKeywords(ctx context.Context, kws []string, threshold float64, topK int) ([]models.MatchResult, error) {
	if topK <= 0 {
		topK = e.cfg.TopK
	}

	corpus, err := e.questions.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if len(corpus) == 0 {
		e.logger.Debug("keyword match on empty corpus")
		return nil, nil
	}

	normalized := make([]string, 0, len(kws))
	for _, kw := range kws {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			normalized = append(normalized, kw)
		}
	}
	expanded := e.expander.Expand(normalized)
	if len(expanded) == 0 {
		return nil, nil
	}

	weights := weighting.TermWeights(expanded, corpus, e.cfg.CorpusPrefix)
	query, err := weighting.ComposeQuery(ctx, e.embedder, expanded, weights)
	if err != nil {
		return nil, err
	}

	candidates, err := e.retrieve(ctx, query, corpus, topK)
	if err != nil {
		return nil, err
	}

	pipeline := NewPipeline(
		ThresholdStage(threshold),
		QualityStage(e.cfg.MinQuestionWords),
		KeywordOverlapStage(expanded),
		SortStage(),
		TruncateStage(topK),
	)
	return toResults(pipeline.Run(candidates)), nil
}

// MatchFromQuery embeds the query text directly and returns ranked matches,
// bypassing expansion and weighting. The quality stage still applies; the
// keyword-overlap stage does not (there are no keywords).
func (e *Engine) MatchFromQuery(ctx context.Context, query string, threshold float64, topK int) ([]models.MatchResult, error) {
	if topK <= 0 {
		topK = e.cfg.TopK
	}

	corpus, err := e.questions.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if len(corpus) == 0 {
		e.logger.Debug("query match on empty corpus")
		return nil, nil
	}

	emb, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	utils.NormalizeL2(emb)

	candidates, err := e.retrieve(ctx, emb, corpus, topK)
	if err != nil {
		return nil, err
	}

	pipeline := NewPipeline(
		ThresholdStage(threshold),
		QualityStage(e.cfg.MinQuestionWords),
		SortStage(),
		TruncateStage(topK),
	)
	return toResults(pipeline.Run(candidates)), nil
}

// retrieve over-fetches from the index (filtering may discard candidates, and
// better-ranked survivors can sit past the first topK hits) and resolves hits
// to question text, discarding invalid positions.
func (e *Engine) retrieve(ctx context.Context, query []float32, corpus []string, topK int) ([]Candidate, error) {
	factor := e.cfg.OverfetchFactor
	if factor < 1 {
		factor = 1
	}
	hits, err := e.index.Search(ctx, query, topK*factor)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	candidates := make([]Candidate, 0, len(hits))
	for _, h := range hits {
		if h.Position < 0 || h.Position >= len(corpus) {
			continue
		}
		candidates = append(candidates, Candidate{
			Position: h.Position,
			Score:    h.Score,
			Question: corpus[h.Position],
		})
	}
	return candidates, nil
}

func toResults(candidates []Candidate) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, models.MatchResult{
			Question:        c.Question,
			Similarity:      c.Score,
			MatchedKeywords: c.MatchedKeywords,
			MatchCount:      len(c.MatchedKeywords),
		})
	}
	return results
}

// CountQuestions returns the stored question count.
func (e *Engine) CountQuestions(ctx context.Context) (int, error) {
	return e.questions.Count(ctx)
}

// Dimensions returns the embedding dimension in use.
func (e *Engine) Dimensions() int {
	return e.embedder.Dimensions()
}
