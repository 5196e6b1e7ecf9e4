package ranking

// RankingConfig holds all configuration for the ranking system.
type RankingConfig struct {
	// Per-token field weights
	TitleWeight       float64 `yaml:"title_weight"`       // default: 30
	DescriptionWeight float64 `yaml:"description_weight"` // default: 20
	ContentWeight     float64 `yaml:"content_weight"`     // default: 10
	KeywordWeight     float64 `yaml:"keyword_weight"`     // default: 15

	// Content excerpt window around the first matching token, in characters
	ExcerptBefore int `yaml:"excerpt_before"` // default: 50
	ExcerptAfter  int `yaml:"excerpt_after"`  // default: 100
}

// normalizationWeight is the per-token denominator of the 0–100 normalization.
// It equals the default title weight so that a query whose every token hits the
// title alone scores exactly 100.
const normalizationWeight = 30.0

// DefaultRankingConfig returns the default ranking configuration.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		TitleWeight:       30,
		DescriptionWeight: 20,
		ContentWeight:     10,
		KeywordWeight:     15,
		ExcerptBefore:     50,
		ExcerptAfter:      100,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *RankingConfig) ApplyDefaults() {
	defaults := DefaultRankingConfig()

	if c.TitleWeight == 0 {
		c.TitleWeight = defaults.TitleWeight
	}
	if c.DescriptionWeight == 0 {
		c.DescriptionWeight = defaults.DescriptionWeight
	}
	if c.ContentWeight == 0 {
		c.ContentWeight = defaults.ContentWeight
	}
	if c.KeywordWeight == 0 {
		c.KeywordWeight = defaults.KeywordWeight
	}
	if c.ExcerptBefore == 0 {
		c.ExcerptBefore = defaults.ExcerptBefore
	}
	if c.ExcerptAfter == 0 {
		c.ExcerptAfter = defaults.ExcerptAfter
	}
}
