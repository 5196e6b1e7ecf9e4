package entity

import "strings"

// CitationIDs returns the distinct document ids cited with "[id]" markers,
// lower-cased, in order of first occurrence.
func CitationIDs(text string) []string {
	matches := citationMarks.FindAllStringSubmatch(text, -1)
	ids := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		id := strings.ToLower(m[1])
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
