package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/hyperjump/toikake/internal/extract"
	"github.com/hyperjump/toikake/internal/match"
	"github.com/hyperjump/toikake/internal/models"
	"github.com/hyperjump/toikake/internal/storage"
	"github.com/hyperjump/toikake/internal/weighting"
)

func (s *Server) handleStoreQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.StoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.engine.Store(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, match.ErrLowQualityQuestion) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("store question failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	threshold := s.config.Matching.KeywordThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	s.logger.Debug("match request", zap.Strings("keywords", req.Keywords), zap.Float64("threshold", threshold))
	results, err := s.engine.MatchFromKeywords(r.Context(), req.Keywords, threshold, req.TopK)
	if err != nil {
		if errors.Is(err, weighting.ErrDegenerateQuery) {
			s.respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("keyword match failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondMatches(w, results)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	threshold := s.config.Matching.QueryThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	s.logger.Debug("search request", zap.String("query", req.Query), zap.Float64("threshold", threshold))
	results, err := s.engine.MatchFromQuery(r.Context(), req.Query, threshold, req.TopK)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondMatches(w, results)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil || s.kwSource == nil {
		s.respondError(w, http.StatusNotImplemented, "document analysis not enabled")
		return
	}
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, err := s.extractor.Extract(req.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.respondError(w, http.StatusNotFound, "file not found")
			return
		}
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("text extraction failed", zap.String("path", req.FilePath), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	kws, err := s.kwSource.Extract(r.Context(), text)
	if err != nil {
		s.logger.Error("keyword extraction failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(kws) == 0 {
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"keywords":          []string{},
			"results":           []models.MatchResult{},
			"matched_questions": []string{},
			"count":             0,
		})
		return
	}

	threshold := s.config.Matching.KeywordThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	results, err := s.engine.MatchFromKeywords(r.Context(), kws, threshold, req.TopK)
	if err != nil {
		if errors.Is(err, weighting.ErrDegenerateQuery) {
			s.respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("keyword match failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if results == nil {
		results = []models.MatchResult{}
	}
	questions := make([]string, 0, len(results))
	for _, r := range results {
		questions = append(questions, r.Question)
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"keywords":          kws,
		"results":           results,
		"matched_questions": questions,
		"count":             len(results),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.engine.CountQuestions(r.Context())
	if err != nil {
		s.logger.Error("status: count questions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"questions": count,
		"config": map[string]interface{}{
			"vector_index_type":    "flat",
			"embedding_provider":   s.config.Embedding.Provider,
			"embedding_dimensions": s.engine.Dimensions(),
			"keyword_threshold":    s.config.Matching.KeywordThreshold,
			"query_threshold":      s.config.Matching.QueryThreshold,
			"top_k":                s.config.Matching.TopK,
			"database_path":        s.config.Storage.DatabasePath,
			"vector_index_path":    s.config.Storage.VectorIndexPath,
		},
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.VectorIndexPath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondMatches wraps match results so an empty result set serializes as an
// empty list, not null.
func (s *Server) respondMatches(w http.ResponseWriter, results []models.MatchResult) {
	if results == nil {
		results = []models.MatchResult{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
