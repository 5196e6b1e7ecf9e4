package search

import (
	"fmt"
	"strings"

	"github.com/hyperjump/qanoon/internal/corpus"
	"github.com/hyperjump/qanoon/internal/models"
)

const relatedTitles = 3

var noResultSuggestions = []string{
	"No direct matches found. Try using different keywords.",
	"Consider searching for related terms or browse by category.",
}

// Suggestions summarizes ranked results for display above the result list.
func Suggestions(snap *corpus.Snapshot, results []*models.SearchResult) []string {
	if len(results) == 0 {
		return append([]string(nil), noResultSuggestions...)
	}

	plural := "s"
	if len(results) == 1 {
		plural = ""
	}
	top := results[0].Document
	categoryTitle := top.Category
	if c, ok := snap.Category(top.Category); ok {
		categoryTitle = c.Title
	}

	lines := []string{
		fmt.Sprintf("Found %d relevant legal document%s.", len(results), plural),
		fmt.Sprintf("Top match: \"%s\" from %s.", top.Title, categoryTitle),
	}
	if len(results) > 1 {
		end := min(len(results), 1+relatedTitles)
		titles := make([]string, 0, end-1)
		for _, r := range results[1:end] {
			titles = append(titles, `"`+r.Document.Title+`"`)
		}
		lines = append(lines, "Your search also relates to: "+strings.Join(titles, ", ")+".")
	}
	return lines
}

// Facets counts results per category. Declared categories come first in
// corpus order; undeclared ones follow in order of first appearance.
func Facets(snap *corpus.Snapshot, results []*models.SearchResult) []models.CategoryFacet {
	counts := make(map[string]int)
	var seen []string
	for _, r := range results {
		if counts[r.Document.Category] == 0 {
			seen = append(seen, r.Document.Category)
		}
		counts[r.Document.Category]++
	}

	facets := make([]models.CategoryFacet, 0, len(counts))
	declared := make(map[string]bool)
	for _, c := range snap.Categories() {
		declared[c.ID] = true
		if n := counts[c.ID]; n > 0 {
			facets = append(facets, models.CategoryFacet{Category: c, Count: n})
		}
	}
	for _, id := range seen {
		if declared[id] {
			continue
		}
		c, _ := snap.Category(id)
		facets = append(facets, models.CategoryFacet{Category: c, Count: counts[id]})
	}
	return facets
}
