// Package models defines core data structures for legal documents, queries, and search results.
package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date layout used for LastUpdated values.
const DateLayout = "2006-01-02"

// Document is one legal-topic record in the corpus. Documents are loaded once
// and never mutated by the core; treat them as read-only.
type Document struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Content        string   `json:"content" yaml:"content"`
	Category       string   `json:"category" yaml:"category"`
	Keywords       []string `json:"keywords" yaml:"keywords"`
	LegalReference string   `json:"legalReference" yaml:"legal_reference"`
	Emirate        string   `json:"emirate,omitempty" yaml:"emirate,omitempty"`
	// LastUpdated is a YYYY-MM-DD date; empty when unknown.
	LastUpdated     string   `json:"lastUpdated,omitempty" yaml:"last_updated,omitempty"`
	Summary         string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	CrossReferences []string `json:"crossReferences,omitempty" yaml:"cross_references,omitempty"`
}

// UpdatedAt parses LastUpdated as a calendar date or an RFC 3339 timestamp.
// ok is false when the date is missing or malformed.
func (d *Document) UpdatedAt() (t time.Time, ok bool) {
	if d == nil {
		return time.Time{}, false
	}
	return ParseDate(d.LastUpdated)
}

// ParseDate parses a YYYY-MM-DD date or an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Category describes one corpus category.
type Category struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// LawReference is a corpus document cited by an answer.
type LawReference struct {
	LawID          string `json:"lawId"`
	Title          string `json:"title"`
	LegalReference string `json:"legalReference"`
	Excerpt        string `json:"excerpt"`
}
