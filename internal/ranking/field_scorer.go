package ranking

import "github.com/hyperjump/qanoon/internal/models"

// textFieldScorer scores a single free-text document field.
type textFieldScorer struct {
	field  models.MatchType
	weight float64
	text   func(ctx *ScoringContext) string
}

func (s *textFieldScorer) Field() models.MatchType { return s.field }
func (s *textFieldScorer) Weight() float64         { return s.weight }

func (s *textFieldScorer) Matches(ctx *ScoringContext) int {
	if ctx == nil || ctx.Query == nil {
		return 0
	}
	return CountMatchingTerms(ctx.Query.Tokens, s.text(ctx))
}

// KeywordScorer scores the keyword list: a token matches when it is a
// substring of any keyword.
type KeywordScorer struct {
	weight float64
}

func (s *KeywordScorer) Field() models.MatchType { return models.MatchKeyword }
func (s *KeywordScorer) Weight() float64         { return s.weight }

func (s *KeywordScorer) Matches(ctx *ScoringContext) int {
	if ctx == nil || ctx.Query == nil {
		return 0
	}
	return CountMatchingTermsAny(ctx.Query.Tokens, ctx.keywords)
}

// NewTitleScorer returns the title field scorer.
func NewTitleScorer(config *RankingConfig) Scorer {
	return &textFieldScorer{field: models.MatchTitle, weight: config.TitleWeight,
		text: func(ctx *ScoringContext) string { return ctx.title }}
}

// NewDescriptionScorer returns the description field scorer.
func NewDescriptionScorer(config *RankingConfig) Scorer {
	return &textFieldScorer{field: models.MatchDescription, weight: config.DescriptionWeight,
		text: func(ctx *ScoringContext) string { return ctx.description }}
}

// NewContentScorer returns the full-text content scorer.
func NewContentScorer(config *RankingConfig) Scorer {
	return &textFieldScorer{field: models.MatchContent, weight: config.ContentWeight,
		text: func(ctx *ScoringContext) string { return ctx.content }}
}

// NewKeywordScorer returns the keyword list scorer.
func NewKeywordScorer(config *RankingConfig) Scorer {
	return &KeywordScorer{weight: config.KeywordWeight}
}

// DefaultScorers returns the four field scorers in excerpt priority order:
// title, description, content, keywords.
func DefaultScorers(config *RankingConfig) []Scorer {
	return []Scorer{
		NewTitleScorer(config),
		NewDescriptionScorer(config),
		NewContentScorer(config),
		NewKeywordScorer(config),
	}
}
