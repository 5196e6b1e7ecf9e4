package keyword

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/hyperjump/qanoon/internal/models"
)

// BleveIndex is an in-memory Bleve index over the corpus. Only its term
// dictionary is used; the index is rebuilt whenever the corpus changes.
type BleveIndex struct {
	mu    sync.RWMutex
	index bleve.Index
	// freqs holds, per term, the highest document frequency over all fields.
	freqs map[string]int
	terms []string
}

// indexedDocument is the shape stored in Bleve.
type indexedDocument struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Keywords    string `json:"keywords"`
}

func newIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Simple analyzer (letters only, lower-cased, no stemming or stop words)
	// so dictionary terms line up with what users type.
	textFieldMapping.Analyzer = simple.Name
	for _, field := range indexedFields {
		docMapping.AddFieldMappingsAt(field, textFieldMapping)
	}
	im.AddDocumentMapping("document", docMapping)
	im.DefaultType = "document"
	im.DefaultMapping = docMapping
	return im
}

// NewBleveIndex builds an in-memory index over docs.
func NewBleveIndex(docs []*models.Document) (*BleveIndex, error) {
	b := &BleveIndex{}
	if err := b.Rebuild(docs); err != nil {
		return nil, err
	}
	return b, nil
}

// Rebuild replaces the index with one over docs.
func (b *BleveIndex) Rebuild(docs []*models.Document) error {
	index, err := bleve.NewMemOnly(newIndexMapping())
	if err != nil {
		return fmt.Errorf("failed to create Bleve index: %w", err)
	}

	batch := index.NewBatch()
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		err := batch.Index(doc.ID, indexedDocument{
			Title:       doc.Title,
			Description: doc.Description,
			Content:     doc.Content,
			Keywords:    strings.Join(doc.Keywords, " "),
		})
		if err != nil {
			_ = index.Close()
			return fmt.Errorf("failed to index %s: %w", doc.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return fmt.Errorf("failed to index corpus: %w", err)
	}

	freqs, terms, err := readDictionary(index)
	if err != nil {
		_ = index.Close()
		return err
	}

	b.mu.Lock()
	old := b.index
	b.index, b.freqs, b.terms = index, freqs, terms
	b.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

func readDictionary(index bleve.Index) (map[string]int, []string, error) {
	freqs := make(map[string]int)
	terms := make([]string, 0)
	for _, field := range indexedFields {
		dict, err := index.FieldDict(field)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s dictionary: %w", field, err)
		}
		for {
			entry, err := dict.Next()
			if err != nil || entry == nil {
				break
			}
			count := int(entry.Count)
			prev, seen := freqs[entry.Term]
			if !seen {
				terms = append(terms, entry.Term)
			}
			if count > prev {
				freqs[entry.Term] = count
			}
		}
		_ = dict.Close()
	}
	return freqs, terms, nil
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.index == nil {
		return nil
	}
	err := b.index.Close()
	b.index = nil
	return err
}

// DocCount returns the total number of documents in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.index == nil {
		return 0, fmt.Errorf("index closed")
	}
	return b.index.DocCount()
}

// GetAllTerms returns all unique terms from the index dictionary.
func (b *BleveIndex) GetAllTerms() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.terms...), nil
}

// GetTermFrequency returns the number of documents containing the term in
// its most frequent field.
func (b *BleveIndex) GetTermFrequency(term string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.freqs[strings.ToLower(term)], nil
}

// ContainsTerm checks if a term exists in the index.
func (b *BleveIndex) ContainsTerm(term string) (bool, error) {
	freq, err := b.GetTermFrequency(term)
	if err != nil {
		return false, err
	}
	return freq > 0, nil
}
