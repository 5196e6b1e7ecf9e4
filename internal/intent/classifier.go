package intent

import (
	"strings"

	"github.com/hyperjump/qanoon/pkg/utils"
)

// HighConfidenceThreshold is the confidence above which an intent is trusted
// without asking the user to rephrase.
const HighConfidenceThreshold = 0.7

// Classifier classifies queries using fixed rule tables. The tables are never
// mutated after construction so a Classifier is safe for concurrent use.
type Classifier struct {
	intents    RuleTable
	categories RuleTable
	vocabulary []string
}

// NewClassifier creates a classifier over the built-in rule tables.
func NewClassifier() *Classifier {
	return &Classifier{
		intents:    intentRules,
		categories: categoryRules,
		vocabulary: vocabulary,
	}
}

// Categories returns the category labels in evaluation order.
func (c *Classifier) Categories() []string {
	return c.categories.Labels()
}

// Classify never fails: a blank query yields a low-confidence Query intent
// asking for clarification.
func (c *Classifier) Classify(query string) Intent {
	if strings.TrimSpace(query) == "" {
		return Intent{
			Type:            TypeQuery,
			Confidence:      0.3,
			Category:        CategoryGeneral,
			Entities:        []string{},
			SuggestedAction: ActionRequestClarification,
		}
	}

	lower := strings.ToLower(utils.NormalizeText(query))

	primary := c.DetectTypes(lower)[0]
	category := c.DetectCategory(lower)

	return Intent{
		Type:            primary,
		Confidence:      confidence(lower, primary, category),
		Category:        category,
		Entities:        c.ExtractEntities(lower),
		SuggestedAction: SuggestAction(primary),
	}
}

// DetectTypes returns the matched intent types ranked by accumulated score.
// The result always has at least one element; TypeQuery is the default.
func (c *Classifier) DetectTypes(lower string) []Type {
	scores := c.intents.Accumulate(lower)
	if len(scores) == 0 {
		return []Type{TypeQuery}
	}
	types := make([]Type, len(scores))
	for i, s := range scores {
		types[i] = Type(s.Label)
	}
	return types
}

// DetectCategory returns the first category with a matching rule.
func (c *Classifier) DetectCategory(lower string) string {
	if label, ok := c.categories.First(lower); ok {
		return label
	}
	return CategoryGeneral
}

// ExtractEntities collects vocabulary nouns, digit runs and quoted phrases,
// deduplicated in order of discovery.
func (c *Classifier) ExtractEntities(lower string) []string {
	entities := make([]string, 0)
	for _, term := range c.vocabulary {
		if strings.Contains(lower, term) {
			entities = append(entities, term)
		}
	}
	entities = append(entities, digitRun.FindAllString(lower, -1)...)
	for _, m := range quotedPhrase.FindAllStringSubmatch(lower, -1) {
		entities = append(entities, m[1])
	}
	return dedupe(entities)
}

// dedupe keeps empty strings, unlike utils.Dedupe: an empty quoted phrase is
// still an entity.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func confidence(lower string, primary Type, category string) float64 {
	c := 0.5
	if len(strings.Fields(lower)) > 3 {
		c += 0.1
	}
	if category != CategoryGeneral {
		c += 0.15
	}
	if strings.Contains(lower, "?") {
		c += 0.1
	}
	if primary != TypeQuery {
		c += 0.05
	}
	return utils.Clamp(c, 0, 1)
}

// IsHighConfidence reports whether the intent's confidence exceeds 0.7.
func IsHighConfidence(in Intent) bool {
	return in.Confidence > HighConfidenceThreshold
}

// IsComplexQuery reports whether the query contains a word that usually
// signals several facts or conditions.
func IsComplexQuery(query string) bool {
	return complexWords.MatchString(query)
}
