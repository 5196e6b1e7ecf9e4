// Package server provides the HTTP API for qanoon.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/qanoon/internal/assistant"
	"github.com/hyperjump/qanoon/internal/config"
	"github.com/hyperjump/qanoon/internal/corpus"
	"github.com/hyperjump/qanoon/internal/glossary"
	"github.com/hyperjump/qanoon/internal/search"
	"github.com/hyperjump/qanoon/internal/storage"
	"github.com/hyperjump/qanoon/pkg/utils"
)

// Server is the HTTP server for the qanoon API.
type Server struct {
	assistant *assistant.Assistant
	engine    *search.Engine
	glossary  *glossary.Glossary
	corpus    *corpus.Store
	// storage is nil when the review queue is disabled.
	storage storage.Storage
	config  *config.Config
	logger  *zap.Logger
	limiter *rateLimiter
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	asst *assistant.Assistant,
	engine *search.Engine,
	gloss *glossary.Glossary,
	store *corpus.Store,
	st storage.Storage,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		assistant: asst,
		engine:    engine,
		glossary:  gloss,
		corpus:    store,
		storage:   st,
		config:    cfg,
		logger:    utils.LoggerOrNop(logger),
	}
	if cfg.Server.RateLimitRPS > 0 {
		s.limiter = newRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	}
	return s
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Get("/search", s.handleSearch)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if s.limiter != nil {
				r.Use(s.limiter.Middleware)
			}
			r.HandleFunc("/ai-assistant", s.handleAiAssistant)
		})

		r.Get("/search", s.handleSearch)
		r.Get("/categories", s.handleCategories)
		r.Get("/laws/{id}", s.handleGetLaw)
		r.Get("/status", s.handleStatus)

		r.Post("/classify", s.handleClassify)
		r.Post("/extract", s.handleExtract)
		r.Post("/confidence", s.handleConfidence)

		r.Get("/glossary", s.handleGlossary)
		r.Post("/glossary", s.handleGlossaryAdd)
		r.Get("/glossary/{term}", s.handleGlossaryTerm)

		r.Get("/reviews", s.handleReviewsList)
		r.Post("/reviews/{id}/resolve", s.handleReviewResolve)
		r.Get("/feedback", s.handleFeedbackList)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
