// Package keyword keeps a term dictionary of the corpus and offers spelling
// suggestions against it.
package keyword

// TermDictionary provides access to the term dictionary for spell checking.
type TermDictionary interface {
	// GetAllTerms returns all unique terms in the index.
	GetAllTerms() ([]string, error)
	// GetTermFrequency returns the document frequency for a term.
	GetTermFrequency(term string) (int, error)
	// ContainsTerm checks if a term exists in the index.
	ContainsTerm(term string) (bool, error)
}

// indexedFields are the document fields whose terms enter the dictionary.
var indexedFields = []string{"title", "description", "content", "keywords"}
