package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/qanoon/internal/assistant"
	"github.com/hyperjump/qanoon/internal/confidence"
	"github.com/hyperjump/qanoon/internal/corpus"
	"github.com/hyperjump/qanoon/internal/entity"
	"github.com/hyperjump/qanoon/internal/glossary"
	"github.com/hyperjump/qanoon/internal/intent"
	"github.com/hyperjump/qanoon/internal/models"
	"github.com/hyperjump/qanoon/internal/storage"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

type assistantRequest struct {
	Question   json.RawMessage       `json:"question"`
	ContextLaw *assistant.ContextLaw `json:"contextLaw,omitempty"`
}

func (s *Server) handleAiAssistant(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var body assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Question is required")
		return
	}
	var question string
	if len(body.Question) == 0 || json.Unmarshal(body.Question, &question) != nil {
		respondError(w, http.StatusBadRequest, "Question is required")
		return
	}

	resp, err := s.assistant.Ask(r.Context(), &assistant.Request{Question: question, ContextLaw: body.ContextLaw})
	if errors.Is(err, assistant.ErrQuestionRequired) {
		respondError(w, http.StatusBadRequest, "Question is required")
		return
	}
	if err != nil {
		s.logger.Error("assistant failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Failed to process your question",
			Message: err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.SearchQuery{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	var err error
	if query.Limit, err = intParam(q.Get("limit")); err != nil {
		respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if query.Offset, err = intParam(q.Get("offset")); err != nil {
		respondError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	s.logger.Debug("search request", zap.String("query", query.Query), zap.String("category", query.Category))
	response, err := s.engine.Search(r.Context(), &query)
	if errors.Is(err, models.ErrEmptyQuery) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, response)
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

type categoryInfo struct {
	models.Category
	Documents int `json:"documents"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	snap := s.corpus.Snapshot()
	out := make([]categoryInfo, 0, len(snap.Categories()))
	for _, c := range snap.Categories() {
		out = append(out, categoryInfo{Category: c, Documents: len(snap.ByCategory(c.ID))})
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handleGetLaw(w http.ResponseWriter, r *http.Request) {
	doc, err := s.corpus.Get(chi.URLParam(r, "id"))
	if errors.Is(err, corpus.ErrDocumentNotFound) {
		respondError(w, http.StatusNotFound, "law not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

type classifyRequest struct {
	Query string `json:"query"`
}

type classifyResponse struct {
	intent.Intent
	HighConfidence bool `json:"highConfidence"`
	Complex        bool `json:"complex"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in := s.assistant.Classifier().Classify(req.Query)
	respondJSON(w, http.StatusOK, classifyResponse{
		Intent:         in,
		HighConfidence: intent.IsHighConfidence(in),
		Complex:        intent.IsComplexQuery(req.Query),
	})
}

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	*entity.Extraction
	Citations []string `json:"citations"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	respondJSON(w, http.StatusOK, extractResponse{
		Extraction: s.assistant.Extractor().Extract(req.Text),
		Citations:  entity.CitationIDs(req.Text),
	})
}

type confidenceRequest struct {
	Query     string                     `json:"query"`
	Documents []confidence.FoundDocument `json:"documents"`
	Quality   confidence.Quality         `json:"quality"`
}

type confidenceResponse struct {
	*confidence.ResponseConfidence
	SuitableForHighStakes bool   `json:"suitableForHighStakes"`
	RequiresHumanReview   bool   `json:"requiresHumanReview"`
	Indicator             string `json:"indicator"`
	Formatted             string `json:"formatted"`
}

func (s *Server) handleConfidence(w http.ResponseWriter, r *http.Request) {
	var req confidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c := s.assistant.Scorer().Score(req.Query, req.Documents, req.Quality)
	respondJSON(w, http.StatusOK, confidenceResponse{
		ResponseConfidence:    c,
		SuitableForHighStakes: confidence.SuitableForHighStakes(c),
		RequiresHumanReview:   confidence.RequiresHumanReview(c),
		Indicator:             confidence.VisualIndicator(c.Level),
		Formatted:             confidence.FormatScore(c.OverallScore),
	})
}

func (s *Server) handleGlossary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var entries []*glossary.Entry
	switch {
	case q.Get("q") != "":
		entries = s.glossary.Search(q.Get("q"))
	case q.Get("category") != "":
		entries = s.glossary.ByCategory(q.Get("category"))
	case q.Get("complexity") != "":
		entries = s.glossary.ByComplexity(glossary.Complexity(strings.ToLower(q.Get("complexity"))))
	default:
		entries = s.glossary.All()
	}
	if entries == nil {
		entries = []*glossary.Entry{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"terms":      entries,
		"categories": s.glossary.Categories(),
	})
}

// handleGlossaryAdd registers a custom term in the glossary and in the
// assistant's entity extractor.
func (s *Server) handleGlossaryAdd(w http.ResponseWriter, r *http.Request) {
	var entry glossary.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry.Term = strings.TrimSpace(entry.Term)
	if entry.Term == "" || strings.TrimSpace(entry.Definition) == "" {
		respondError(w, http.StatusBadRequest, "term and definition are required")
		return
	}
	if entry.Category == "" {
		entry.Category = "general"
	}
	if entry.Complexity == "" {
		entry.Complexity = glossary.Moderate
	}
	if !s.glossary.AddCustomTerm(&entry) {
		respondError(w, http.StatusConflict, "term already exists")
		return
	}
	if s.assistant != nil {
		s.assistant.Extractor().Terms().AddCustomTerm(entry.Term, entry.Definition, entry.Category)
	}
	s.logger.Info("custom term added", zap.String("term", entry.Term))
	respondJSON(w, http.StatusCreated, &entry)
}

func (s *Server) handleGlossaryTerm(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")
	entry, ok := s.glossary.Definition(term)
	if !ok {
		respondError(w, http.StatusNotFound, "term not found")
		return
	}
	related := s.glossary.Related(entry.Term)
	if related == nil {
		related = []*glossary.Entry{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"term":    entry,
		"related": related,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.corpus.Snapshot()
	resp := map[string]any{
		"documents":      snap.Len(),
		"categories":     len(snap.Categories()),
		"glossary_terms": s.glossary.Len(),
		"review_queue":   s.storage != nil,
	}
	if s.storage != nil {
		pending, err := s.storage.CountReviews(r.Context(), models.ReviewPending)
		if err != nil {
			s.logger.Error("status: count reviews failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["pending_reviews"] = pending
		if size, err := storage.DatabaseSize(s.config.Storage.DatabasePath); err == nil {
			resp["database_size_bytes"] = size
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewsList(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		respondError(w, http.StatusNotImplemented, "review queue not enabled")
		return
	}
	q := r.URL.Query()
	status := models.ReviewPending
	switch v := strings.ToLower(q.Get("status")); v {
	case "":
	case "all":
		status = ""
	default:
		status = models.ReviewStatus(v)
		if !status.Valid() {
			respondError(w, http.StatusBadRequest, "invalid status")
			return
		}
	}
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	reviews, err := s.storage.ListReviews(r.Context(), status, offset, limit)
	if err != nil {
		s.logger.Error("list reviews failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

type resolveRequest struct {
	Status models.ReviewStatus `json:"status"`
	Note   string              `json:"note"`
}

func (s *Server) handleReviewResolve(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		respondError(w, http.StatusNotImplemented, "review queue not enabled")
		return
	}
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != models.ReviewApproved && req.Status != models.ReviewRejected {
		respondError(w, http.StatusBadRequest, "status must be approved or rejected")
		return
	}

	id := chi.URLParam(r, "id")
	review, err := s.storage.ResolveReview(r.Context(), id, req.Status, req.Note)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "review not found")
		return
	case errors.Is(err, storage.ErrAlreadyResolved):
		respondError(w, http.StatusConflict, "review already resolved")
		return
	case err != nil:
		s.logger.Error("resolve review failed", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, review)
}

func (s *Server) handleFeedbackList(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		respondError(w, http.StatusNotImplemented, "review queue not enabled")
		return
	}
	items, err := s.storage.ListFeedback(r.Context(), 0, 100)
	if err != nil {
		s.logger.Error("list feedback failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"feedback": items})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Error: message})
}
