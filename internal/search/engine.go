// Package search answers corpus searches with ranked results, category
// facets, summary suggestions, and spelling corrections.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/qanoon/internal/config"
	"github.com/hyperjump/qanoon/internal/corpus"
	"github.com/hyperjump/qanoon/internal/keyword"
	"github.com/hyperjump/qanoon/internal/models"
	"github.com/hyperjump/qanoon/internal/ranking"
	"github.com/hyperjump/qanoon/pkg/utils"
)

// Engine runs searches over the current corpus snapshot.
type Engine struct {
	store  *corpus.Store
	ranker *ranking.Ranker
	config *config.SearchConfig
	logger *zap.Logger

	// index and speller are nil when spell checking is disabled.
	index   *keyword.BleveIndex
	speller *keyword.SpellChecker
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a search engine over store. The spelling dictionary is
// rebuilt whenever the store reloads.
func NewEngine(store *corpus.Store, cfg *config.SearchConfig, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = &config.Default().Search
	}
	e := &Engine{
		store:  store,
		ranker: ranking.NewRanker(&cfg.Ranking),
		config: cfg,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = utils.LoggerOrNop(e.logger)

	if cfg.SpellCheckEnabled() {
		index, err := keyword.NewBleveIndex(store.Documents())
		if err != nil {
			return nil, fmt.Errorf("failed to build spelling dictionary: %w", err)
		}
		e.index = index
		e.speller = keyword.NewSpellChecker(index, keyword.WithMinTermLength(cfg.SpellMinTermLength))
		store.OnReload(e.rebuildDictionary)
	}
	return e, nil
}

func (e *Engine) rebuildDictionary(snap *corpus.Snapshot) {
	if err := e.index.Rebuild(snap.Documents()); err != nil {
		e.logger.Warn("failed to rebuild spelling dictionary", zap.Error(err))
		return
	}
	if err := e.speller.RefreshCache(); err != nil {
		e.logger.Warn("failed to refresh spelling cache", zap.Error(err))
		return
	}
	count, err := e.index.DocCount()
	if err != nil {
		e.logger.Warn("failed to count dictionary documents", zap.Error(err))
		return
	}
	e.logger.Info("spelling dictionary rebuilt", zap.Uint64("documents", count))
}

// Close releases the spelling index.
func (e *Engine) Close() error {
	if e.index != nil {
		return e.index.Close()
	}
	return nil
}

// Ranker returns the engine's ranker.
func (e *Engine) Ranker() *ranking.Ranker {
	return e.ranker
}

// Rank returns every matching document, best first, optionally restricted to
// one category.
func (e *Engine) Rank(query, category string) []*models.SearchResult {
	var opts *ranking.RankOptions
	if category != "" {
		opts = &ranking.RankOptions{Category: category}
	}
	return e.ranker.Rank(query, e.store.Documents(), opts)
}

// Search ranks the corpus against query and returns one page of results.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := ProcessQuery(query, e.config); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := e.store.Snapshot()
	all := e.ranker.Rank(query.Query, snap.Documents(), nil)
	results := all
	if query.Category != "" {
		results = e.ranker.Rank(query.Query, snap.Documents(), &ranking.RankOptions{Category: query.Category})
	}

	response := &models.SearchResponse{
		Query:       query.Query,
		Category:    query.Category,
		Results:     ranking.Paginate(results, query.Offset, query.Limit),
		Total:       len(results),
		Facets:      Facets(snap, all),
		Suggestions: Suggestions(snap, results),
	}
	if len(results) == 0 && e.speller != nil {
		response.DidYouMean = e.speller.SuggestedQuery(query.Query)
	}
	response.QueryTime = time.Since(startTime).Milliseconds()

	e.logger.Debug("search",
		zap.String("query", query.Query),
		zap.String("category", query.Category),
		zap.Int("total", response.Total),
		zap.Int64("query_time_ms", response.QueryTime))
	return response, nil
}
