// Package confidence turns retrieval-quality signals into a calibrated trust
// verdict for a generated legal answer.
package confidence

import "github.com/hyperjump/qanoon/internal/models"

// Level is the confidence tier of an answer.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// FoundDocument is one retrieved document as seen by the scorer. Score is the
// document's relevance on the unit scale.
type FoundDocument struct {
	ID          string           `json:"id"`
	Score       models.UnitScore `json:"score"`
	LastUpdated string           `json:"lastUpdated,omitempty"`
}

// Quality describes the answer that was assembled from the documents.
type Quality struct {
	HasDirectMatch     bool `json:"hasDirectMatch"`
	HasSemanticMatch   bool `json:"hasSemanticMatch"`
	MultipleMatches    bool `json:"multipleMatches"`
	CitationsProvided  bool `json:"citationsProvided"`
	DisclaimerIncluded bool `json:"disclaimerIncluded"`
}

// Factors are the boolean signals derived from the documents and quality.
type Factors struct {
	LawFound             bool `json:"lawFound"`
	DirectMatch          bool `json:"directMatch"`
	SemanticMatch        bool `json:"semanticMatch"`
	MultipleSourcesAgree bool `json:"multipleSourcesAgree"`
	RecentlyUpdated      bool `json:"recentlyUpdated"`
	UniqueMatch          bool `json:"uniqueMatch"`
}

// ResponseConfidence is the trust verdict for one answer. OverallScore is
// always 0.40·SourceAccuracy + 0.35·RelevanceScore + 0.25·DataFreshness.
type ResponseConfidence struct {
	OverallScore       models.UnitScore `json:"overallScore"`
	SourceAccuracy     models.UnitScore `json:"sourceAccuracy"`
	RelevanceScore     models.UnitScore `json:"relevanceScore"`
	DataFreshness      models.UnitScore `json:"dataFreshness"`
	Factors            Factors          `json:"factors"`
	Disclaimers        []string         `json:"disclaimers"`
	Level              Level            `json:"confidenceLevel"`
	RecommendedActions []string         `json:"recommendedActions"`
}

const (
	accuracyWeight  = 0.40
	relevanceWeight = 0.35
	freshnessWeight = 0.25

	highThreshold      = 0.8
	mediumThreshold    = 0.5
	highStakesMinimum  = 0.85
	humanReviewMinimum = 0.6

	recentDays = 90
)
