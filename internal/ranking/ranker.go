package ranking

import (
	"sort"

	"github.com/hyperjump/qanoon/internal/models"
)

// Ranker scores documents against a query by weighted field matching.
// A Ranker holds no mutable state and is safe for concurrent use.
type Ranker struct {
	config   *RankingConfig
	analyzer *QueryAnalyzer
	scorers  []Scorer
}

// NewRanker creates a new Ranker with the given configuration.
func NewRanker(config *RankingConfig) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()

	return &Ranker{
		config:   config,
		analyzer: NewQueryAnalyzer(),
		scorers:  DefaultScorers(config),
	}
}

// AnalyzeQuery parses and analyzes a query string.
func (r *Ranker) AnalyzeQuery(query string) *AnalyzedQuery {
	return r.analyzer.Analyze(query)
}

// Score returns the normalized relevance of doc for the query, in [0, 100].
func (r *Ranker) Score(query *AnalyzedQuery, doc *models.Document) models.Percentage {
	return r.ScoreWithBreakdown(query, doc).Score
}

// ScoreWithBreakdown returns detailed scoring information.
//
// raw = Σ field weight × matched tokens; score = min(100, raw / (tokens × 30) × 100).
// A document with no matching field scores exactly 0.
func (r *Ranker) ScoreWithBreakdown(query *AnalyzedQuery, doc *models.Document) *ScoreBreakdown {
	breakdown := NewScoreBreakdown()
	if query == nil || doc == nil || len(query.Tokens) == 0 {
		return breakdown
	}
	ctx := NewScoringContext(query, doc)
	return r.scoreContext(ctx)
}

func (r *Ranker) scoreContext(ctx *ScoringContext) *ScoreBreakdown {
	breakdown := NewScoreBreakdown()
	for _, s := range r.scorers {
		n := s.Matches(ctx)
		breakdown.FieldMatches[s.Field()] = n
		breakdown.RawScore += s.Weight() * float64(n)
	}
	if !breakdown.Matched() {
		return breakdown
	}
	normalized := breakdown.RawScore / (float64(len(ctx.Query.Tokens)) * normalizationWeight) * 100
	breakdown.Score = models.Percentage(normalized).Clamp()
	return breakdown
}

// RankedResult holds a search result with its score breakdown.
type RankedResult struct {
	*models.SearchResult
	Breakdown *ScoreBreakdown
}

// Rank scores every document against query and returns those with a positive
// score, highest first. Equal scores keep corpus order. An empty query or
// corpus yields an empty, non-nil slice.
func (r *Ranker) Rank(query string, docs []*models.Document, opts *RankOptions) []*models.SearchResult {
	ranked := r.RankWithBreakdown(query, docs, opts)
	out := make([]*models.SearchResult, len(ranked))
	for i, rr := range ranked {
		out[i] = rr.SearchResult
	}
	return out
}

// RankWithBreakdown is Rank with per-document score breakdowns attached.
func (r *Ranker) RankWithBreakdown(query string, docs []*models.Document, opts *RankOptions) []*RankedResult {
	analyzed := r.AnalyzeQuery(query)
	results := make([]*RankedResult, 0)
	if len(analyzed.Tokens) == 0 {
		return results
	}

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		ctx := NewScoringContext(analyzed, doc)
		breakdown := r.scoreContext(ctx)
		if breakdown.Score <= 0 {
			continue
		}
		excerpt, matchType, _ := r.Excerpt(ctx)
		results = append(results, &RankedResult{
			SearchResult: &models.SearchResult{
				Document:       doc,
				RelevanceScore: breakdown.Score,
				MatchedContent: excerpt,
				MatchType:      matchType,
			},
			Breakdown: breakdown,
		})
	}

	if opts != nil && opts.Category != "" {
		results = filterByCategory(results, opts.Category)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

func filterByCategory(results []*RankedResult, category string) []*RankedResult {
	filtered := results[:0]
	for _, rr := range results {
		if rr.Document.Category == category {
			filtered = append(filtered, rr)
		}
	}
	return filtered
}

// TopN returns the top N results.
func TopN(results []*models.SearchResult, n int) []*models.SearchResult {
	if n >= len(results) {
		return results
	}
	return results[:n]
}

// Paginate returns a page of results.
func Paginate(results []*models.SearchResult, offset, limit int) []*models.SearchResult {
	if offset >= len(results) {
		return []*models.SearchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
