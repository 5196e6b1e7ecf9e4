// Package ranking provides weighted field-match relevance ranking of legal documents.
package ranking

import (
	"strings"

	"github.com/hyperjump/qanoon/internal/models"
)

// AnalyzedQuery represents a parsed search query.
type AnalyzedQuery struct {
	// Original is the original query string.
	Original string
	// Tokens are the distinct lower-cased whitespace-separated tokens, in query order.
	Tokens []string
}

// ScoringContext provides all the context needed for scoring a document.
// Lower-cased field text is computed once per document and shared by all scorers.
type ScoringContext struct {
	Query    *AnalyzedQuery
	Document *models.Document

	title       string
	description string
	content     string
	keywords    []string
}

// NewScoringContext creates a ScoringContext from a query and document.
func NewScoringContext(query *AnalyzedQuery, doc *models.Document) *ScoringContext {
	ctx := &ScoringContext{
		Query:       query,
		Document:    doc,
		title:       strings.ToLower(doc.Title),
		description: strings.ToLower(doc.Description),
		content:     strings.ToLower(doc.Content),
		keywords:    make([]string, len(doc.Keywords)),
	}
	for i, kw := range doc.Keywords {
		ctx.keywords[i] = strings.ToLower(kw)
	}
	return ctx
}

// Scorer counts how many query tokens match one document field.
type Scorer interface {
	// Field is the match type reported when this field supplies the excerpt.
	Field() models.MatchType
	// Weight is the per-token multiplier for this field.
	Weight() float64
	// Matches returns the number of distinct query tokens found in the field.
	Matches(ctx *ScoringContext) int
}

// ScoreBreakdown provides detailed scoring information for debugging and tuning.
type ScoreBreakdown struct {
	// FieldMatches maps each field to its matched token count.
	FieldMatches map[models.MatchType]int
	// RawScore is the weighted sum before normalization.
	RawScore float64
	// Score is the normalized relevance on the 0–100 scale.
	Score models.Percentage
}

// NewScoreBreakdown creates an empty ScoreBreakdown.
func NewScoreBreakdown() *ScoreBreakdown {
	return &ScoreBreakdown{FieldMatches: make(map[models.MatchType]int, 4)}
}

// Matched reports whether any field matched at least one token.
func (b *ScoreBreakdown) Matched() bool {
	for _, n := range b.FieldMatches {
		if n > 0 {
			return true
		}
	}
	return false
}

// RankOptions narrows a ranking run.
type RankOptions struct {
	// Category, when set, keeps only documents of that category. It is applied
	// after scoring and before sorting.
	Category string
}
