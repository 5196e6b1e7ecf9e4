package intent

import (
	"regexp"
	"sort"
)

// seedScore is what a label earns from its first matching rule. Every further
// matching rule of the same label adds that rule's Weight.
const seedScore = 0.5

// Rule is one entry of an ordered pattern table.
type Rule struct {
	Pattern *regexp.Regexp
	Weight  float64
	Label   string
}

// LabelScore is the accumulated score of one label.
type LabelScore struct {
	Label string
	Score float64
}

// RuleTable is an ordered list of rules. Labels are grouped: all rules of a
// label are contiguous and the group order is the table order.
type RuleTable []Rule

// rule compiles a case-insensitive pattern.
func rule(label, pattern string, weight float64) Rule {
	return Rule{
		Pattern: regexp.MustCompile("(?i)" + pattern),
		Weight:  weight,
		Label:   label,
	}
}

// group builds the rules for one label, all with the same weight.
func group(label string, weight float64, patterns ...string) RuleTable {
	rules := make(RuleTable, 0, len(patterns))
	for _, p := range patterns {
		rules = append(rules, rule(label, p, weight))
	}
	return rules
}

// Accumulate evaluates every rule against text and returns the labels that
// matched at least once, highest score first. Ties keep table order.
func (t RuleTable) Accumulate(text string) []LabelScore {
	scores := make([]LabelScore, 0)
	index := make(map[string]int)

	for _, r := range t {
		if !r.Pattern.MatchString(text) {
			continue
		}
		if i, ok := index[r.Label]; ok {
			scores[i].Score += r.Weight
			continue
		}
		index[r.Label] = len(scores)
		scores = append(scores, LabelScore{Label: r.Label, Score: seedScore})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

// First returns the label of the first rule, in table order, matching text.
func (t RuleTable) First(text string) (string, bool) {
	for _, r := range t {
		if r.Pattern.MatchString(text) {
			return r.Label, true
		}
	}
	return "", false
}

// Labels returns the distinct labels in table order.
func (t RuleTable) Labels() []string {
	seen := make(map[string]bool)
	labels := make([]string, 0)
	for _, r := range t {
		if !seen[r.Label] {
			seen[r.Label] = true
			labels = append(labels, r.Label)
		}
	}
	return labels
}
