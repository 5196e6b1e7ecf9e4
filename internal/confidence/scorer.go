package confidence

import (
	"fmt"
	"math"
	"time"

	"github.com/hyperjump/qanoon/internal/models"
	"github.com/hyperjump/qanoon/pkg/utils"
)

const day = 24 * time.Hour

// Scorer computes ResponseConfidence values. It holds only a clock and is
// safe for concurrent use.
type Scorer struct {
	now func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithClock sets the clock used to age documents.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScorer creates a scorer using the wall clock unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score never fails; docs may be empty. The query is accepted for parity with
// callers that log it but does not influence the verdict.
func (s *Scorer) Score(query string, docs []FoundDocument, quality Quality) *ResponseConfidence {
	now := s.now()
	ages := documentAges(docs, now)

	f := Factors{
		LawFound:             len(docs) > 0,
		DirectMatch:          quality.HasDirectMatch,
		SemanticMatch:        quality.HasSemanticMatch,
		MultipleSourcesAgree: len(docs) >= 2,
		RecentlyUpdated:      recentlyUpdated(ages),
		UniqueMatch:          len(docs) == 1,
	}

	accuracy := sourceAccuracy(f, docs)
	relevance := relevanceScore(docs)
	freshness := dataFreshness(ages)
	overall := Overall(accuracy, relevance, freshness)
	level := LevelFor(overall)

	return &ResponseConfidence{
		OverallScore:       overall,
		SourceAccuracy:     accuracy,
		RelevanceScore:     relevance,
		DataFreshness:      freshness,
		Factors:            f,
		Disclaimers:        disclaimers(f, level),
		Level:              level,
		RecommendedActions: recommendedActions(f, level),
	}
}

// Overall combines the three sub-scores with fixed weights.
func Overall(accuracy, relevance, freshness models.UnitScore) models.UnitScore {
	v := accuracyWeight*float64(accuracy) + relevanceWeight*float64(relevance) + freshnessWeight*float64(freshness)
	return models.UnitScore(v).Clamp()
}

// LevelFor maps an overall score to its tier.
func LevelFor(overall models.UnitScore) Level {
	switch {
	case overall >= highThreshold:
		return LevelHigh
	case overall >= mediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// documentAges returns whole days since each document was last updated, or
// -1 when the date is missing or unparseable.
func documentAges(docs []FoundDocument, now time.Time) []int {
	ages := make([]int, len(docs))
	for i, d := range docs {
		ages[i] = -1
		updated, ok := models.ParseDate(d.LastUpdated)
		if !ok {
			continue
		}
		ages[i] = int(math.Floor(float64(now.Sub(updated)) / float64(day)))
		if ages[i] < 0 {
			ages[i] = 0
		}
	}
	return ages
}

func recentlyUpdated(ages []int) bool {
	for _, a := range ages {
		if a >= 0 && a < recentDays {
			return true
		}
	}
	return false
}

func averageScore(docs []FoundDocument) float64 {
	scores := make([]float64, len(docs))
	for i, d := range docs {
		scores[i] = float64(d.Score.Clamp())
	}
	return utils.Mean(scores)
}

func sourceAccuracy(f Factors, docs []FoundDocument) models.UnitScore {
	score := 0.3
	if f.LawFound {
		score += 0.25
	} else {
		score -= 0.3
	}
	if f.DirectMatch {
		score += 0.2
	}
	if f.MultipleSourcesAgree {
		score += 0.15
	}
	if f.RecentlyUpdated {
		score += 0.1
	}
	if f.UniqueMatch {
		score -= 0.05
	}
	score += averageScore(docs) * 0.15
	return models.UnitScore(score).Clamp()
}

func relevanceScore(docs []FoundDocument) models.UnitScore {
	if len(docs) == 0 {
		return 0.2
	}
	score := averageScore(docs)
	if len(docs) >= 2 {
		score += 0.1
	}
	if docs[0].Score > 0.8 {
		score += 0.05
	}
	return models.UnitScore(score).Clamp()
}

// freshnessStep scores one document's age in days.
func freshnessStep(age int) float64 {
	switch {
	case age < 0:
		return 0.5
	case age < 30:
		return 1.0
	case age < 90:
		return 0.9
	case age < 180:
		return 0.8
	case age < 365:
		return 0.7
	case age < 730:
		return 0.6
	default:
		return 0.4
	}
}

func dataFreshness(ages []int) models.UnitScore {
	if len(ages) == 0 {
		return 0
	}
	steps := make([]float64, len(ages))
	for i, a := range ages {
		steps[i] = freshnessStep(a)
	}
	return models.UnitScore(utils.Mean(steps)).Clamp()
}

// SuitableForHighStakes reports whether the answer may back a consequential
// decision.
func SuitableForHighStakes(c *ResponseConfidence) bool {
	return c.OverallScore >= highStakesMinimum &&
		c.Factors.LawFound &&
		c.Factors.MultipleSourcesAgree &&
		c.Factors.RecentlyUpdated
}

// RequiresHumanReview reports whether the answer should be escalated.
func RequiresHumanReview(c *ResponseConfidence) bool {
	return c.OverallScore < humanReviewMinimum ||
		!c.Factors.LawFound ||
		c.Factors.UniqueMatch
}

// VisualIndicator returns the traffic-light glyph for a tier.
func VisualIndicator(level Level) string {
	switch level {
	case LevelHigh:
		return "🟢"
	case LevelMedium:
		return "🟡"
	case LevelLow:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatScore renders a unit score as a whole percentage, e.g. "85%".
func FormatScore(score models.UnitScore) string {
	return fmt.Sprintf("%d%%", int(math.Round(float64(score)*100)))
}
