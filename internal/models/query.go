package models

import (
	"errors"
	"strings"
)

// ErrEmptyQuery is returned when a search query has no text.
var ErrEmptyQuery = errors.New("query cannot be empty")

// SearchQuery represents a search request with an optional category filter.
type SearchQuery struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Validate ensures the search query has valid fields and sets defaults.
// Returns ErrEmptyQuery if the query is blank; otherwise normalizes limit and offset.
func (q *SearchQuery) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return ErrEmptyQuery
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	return nil
}
