package ranking

import (
	"strings"

	"github.com/hyperjump/qanoon/pkg/utils"
)

// QueryAnalyzer tokenizes search queries.
type QueryAnalyzer struct{}

// NewQueryAnalyzer creates a new QueryAnalyzer.
func NewQueryAnalyzer() *QueryAnalyzer {
	return &QueryAnalyzer{}
}

// Analyze splits the query on whitespace, lower-cases each token and drops
// repeats. Punctuation is kept: tokens are matched as raw substrings.
func (qa *QueryAnalyzer) Analyze(query string) *AnalyzedQuery {
	normalized := strings.ToLower(utils.NormalizeText(query))
	return &AnalyzedQuery{
		Original: query,
		Tokens:   utils.Dedupe(strings.Fields(normalized)),
	}
}

// CountMatchingTerms counts how many tokens are substrings of the lower-cased text.
func CountMatchingTerms(tokens []string, textLower string) int {
	count := 0
	for _, token := range tokens {
		if strings.Contains(textLower, token) {
			count++
		}
	}
	return count
}

// CountMatchingTermsAny counts how many tokens are a substring of at least one
// of the lower-cased values.
func CountMatchingTermsAny(tokens []string, valuesLower []string) int {
	count := 0
	for _, token := range tokens {
		for _, v := range valuesLower {
			if strings.Contains(v, token) {
				count++
				break
			}
		}
	}
	return count
}
