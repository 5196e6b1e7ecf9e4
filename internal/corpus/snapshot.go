// Package corpus loads the legal-document corpus and serves read-only
// snapshots of it.
package corpus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/qanoon/internal/models"
)

// ErrDocumentNotFound is returned when a document id is not in the corpus.
var ErrDocumentNotFound = errors.New("document not found")

// Data is the on-disk shape of a corpus file.
type Data struct {
	Categories []models.Category  `json:"categories" yaml:"categories"`
	Documents  []*models.Document `json:"documents" yaml:"documents"`
}

// Snapshot is an immutable view of the corpus. Callers must not modify the
// documents it returns.
type Snapshot struct {
	documents  []*models.Document
	byID       map[string]*models.Document
	categories []models.Category
	byCategory map[string][]*models.Document
}

// NewSnapshot validates data and indexes it. Ids are matched
// case-insensitively and must be unique.
func NewSnapshot(data *Data) (*Snapshot, error) {
	s := &Snapshot{
		documents:  make([]*models.Document, 0, len(data.Documents)),
		byID:       make(map[string]*models.Document, len(data.Documents)),
		categories: append([]models.Category(nil), data.Categories...),
		byCategory: make(map[string][]*models.Document),
	}
	for i, doc := range data.Documents {
		if doc == nil {
			continue
		}
		id := strings.ToLower(strings.TrimSpace(doc.ID))
		if id == "" {
			return nil, fmt.Errorf("document %d: missing id", i)
		}
		if strings.TrimSpace(doc.Title) == "" {
			return nil, fmt.Errorf("document %q: missing title", doc.ID)
		}
		if _, dup := s.byID[id]; dup {
			return nil, fmt.Errorf("document %q: duplicate id", doc.ID)
		}
		d := *doc
		d.ID = id
		d.Category = strings.ToLower(strings.TrimSpace(d.Category))
		s.byID[id] = &d
		s.documents = append(s.documents, &d)
		s.byCategory[d.Category] = append(s.byCategory[d.Category], &d)
	}
	return s, nil
}

// Documents returns every document in corpus order.
func (s *Snapshot) Documents() []*models.Document {
	return s.documents
}

// Len returns the number of documents.
func (s *Snapshot) Len() int {
	return len(s.documents)
}

// Get returns the document with the given id.
func (s *Snapshot) Get(id string) (*models.Document, error) {
	doc, ok := s.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrDocumentNotFound)
	}
	return doc, nil
}

// ByCategory returns the documents of one category in corpus order.
func (s *Snapshot) ByCategory(category string) []*models.Document {
	return s.byCategory[strings.ToLower(strings.TrimSpace(category))]
}

// Categories returns the declared categories.
func (s *Snapshot) Categories() []models.Category {
	return s.categories
}

// Category looks a category up by id. Undeclared categories that documents
// use are reported with their id as title.
func (s *Snapshot) Category(id string) (models.Category, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	if _, ok := s.byCategory[id]; ok {
		return models.Category{ID: id, Title: id}, true
	}
	return models.Category{}, false
}
