// Package glossary serves plain-language definitions of legal terms.
package glossary

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

//go:embed data/glossary.yaml
var defaultGlossary []byte

// Complexity grades how hard a term is to grasp.
type Complexity string

const (
	Simple   Complexity = "simple"
	Moderate Complexity = "moderate"
	Complex  Complexity = "complex"
)

// Entry is one glossary term.
type Entry struct {
	Term         string     `json:"term" yaml:"term"`
	Definition   string     `json:"definition" yaml:"definition"`
	Category     string     `json:"category" yaml:"category"`
	Complexity   Complexity `json:"complexity" yaml:"complexity"`
	Examples     []string   `json:"examples" yaml:"examples"`
	RelatedTerms []string   `json:"relatedTerms" yaml:"related_terms"`
	// Citations are corpus document ids.
	Citations []string `json:"citations" yaml:"citations"`
	Synonyms  []string `json:"synonyms" yaml:"synonyms"`
}

func (e *Entry) matches(term string) bool {
	if strings.EqualFold(e.Term, term) {
		return true
	}
	for _, s := range e.Synonyms {
		if strings.EqualFold(s, term) {
			return true
		}
	}
	return false
}

// Glossary holds the term list. Reads use the current immutable slice; writes
// are serialised and publish a copy.
type Glossary struct {
	mu      sync.Mutex
	entries atomic.Pointer[[]*Entry]
}

// New creates a glossary from entries.
func New(entries []*Entry) *Glossary {
	g := &Glossary{}
	list := append([]*Entry(nil), entries...)
	g.entries.Store(&list)
	return g
}

// Default returns the built-in glossary.
func Default() (*Glossary, error) {
	return Parse(defaultGlossary)
}

// Parse decodes a YAML glossary document with a top-level "terms" list.
func Parse(content []byte) (*Glossary, error) {
	var doc struct {
		Terms []*Entry `yaml:"terms"`
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse glossary: %w", err)
	}
	return New(doc.Terms), nil
}

func (g *Glossary) list() []*Entry {
	return *g.entries.Load()
}

func (g *Glossary) filter(keep func(*Entry) bool) []*Entry {
	out := make([]*Entry, 0)
	for _, e := range g.list() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// All returns every entry.
func (g *Glossary) All() []*Entry {
	return g.list()
}

// Definition finds an entry by term or synonym, case-insensitively.
func (g *Glossary) Definition(term string) (*Entry, bool) {
	term = strings.TrimSpace(term)
	for _, e := range g.list() {
		if e.matches(term) {
			return e, true
		}
	}
	return nil, false
}

// ByCategory returns the entries of one category.
func (g *Glossary) ByCategory(category string) []*Entry {
	return g.filter(func(e *Entry) bool { return strings.EqualFold(e.Category, category) })
}

// ByComplexity returns the entries of one complexity grade.
func (g *Glossary) ByComplexity(c Complexity) []*Entry {
	return g.filter(func(e *Entry) bool { return e.Complexity == c })
}

// Related returns the entries listed in term's related terms or sharing one of
// its citations. The term itself is excluded.
func (g *Glossary) Related(term string) []*Entry {
	main, ok := g.Definition(term)
	if !ok {
		return []*Entry{}
	}
	return g.filter(func(e *Entry) bool {
		if e == main {
			return false
		}
		if slices.Contains(main.RelatedTerms, e.Term) {
			return true
		}
		for _, c := range main.Citations {
			if slices.Contains(e.Citations, c) {
				return true
			}
		}
		return false
	})
}

// Search returns entries whose term, definition, examples or synonyms contain
// keyword, case-insensitively.
func (g *Glossary) Search(keyword string) []*Entry {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return []*Entry{}
	}
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), kw) }
	return g.filter(func(e *Entry) bool {
		return contains(e.Term) ||
			contains(e.Definition) ||
			slices.ContainsFunc(e.Examples, contains) ||
			slices.ContainsFunc(e.Synonyms, contains)
	})
}

// Categories returns the distinct categories in first-seen order.
func (g *Glossary) Categories() []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, e := range g.list() {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}

// AddCustomTerm appends entry unless a term with the same name exists. It
// reports whether the entry was added.
func (g *Glossary) AddCustomTerm(entry *Entry) bool {
	if entry == nil || strings.TrimSpace(entry.Term) == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	current := g.list()
	for _, e := range current {
		if e.Term == entry.Term {
			return false
		}
	}
	next := make([]*Entry, len(current), len(current)+1)
	copy(next, current)
	next = append(next, entry)
	g.entries.Store(&next)
	return true
}

// Len returns the number of entries.
func (g *Glossary) Len() int {
	return len(g.list())
}
