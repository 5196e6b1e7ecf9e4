package entity

import (
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
)

// Term is a legal term with its plain-language definition.
type Term struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
	Category   string `json:"category" yaml:"category"`
}

type compiledTerm struct {
	Term
	pattern *regexp.Regexp
}

// termSnapshot is never modified once published.
type termSnapshot struct {
	terms []compiledTerm
	index map[string]int
}

// TermRegistry holds the legal-term table. Readers take the current snapshot
// without locking; writers are serialised and publish a fresh copy.
type TermRegistry struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[termSnapshot]
}

// NewTermRegistry creates a registry seeded with terms. Later duplicates
// replace earlier ones.
func NewTermRegistry(terms []Term) *TermRegistry {
	r := &TermRegistry{}
	snap := &termSnapshot{index: make(map[string]int)}
	for _, t := range terms {
		snap.put(t)
	}
	r.snapshot.Store(snap)
	return r
}

// NewDefaultTermRegistry creates a registry seeded with the built-in terms.
func NewDefaultTermRegistry() *TermRegistry {
	return NewTermRegistry(DefaultTerms())
}

func (s *termSnapshot) put(t Term) {
	t.Term = strings.ToLower(strings.TrimSpace(t.Term))
	if t.Term == "" {
		return
	}
	ct := compiledTerm{
		Term:    t,
		pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(t.Term) + `s?\b`),
	}
	if i, ok := s.index[t.Term]; ok {
		s.terms[i] = ct
		return
	}
	s.index[t.Term] = len(s.terms)
	s.terms = append(s.terms, ct)
}

func (s *termSnapshot) clone() *termSnapshot {
	c := &termSnapshot{
		terms: make([]compiledTerm, len(s.terms)),
		index: make(map[string]int, len(s.index)),
	}
	copy(c.terms, s.terms)
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}

func (r *TermRegistry) load() *termSnapshot {
	return r.snapshot.Load()
}

// AddCustomTerm registers a term or replaces the definition of an existing one.
func (r *TermRegistry) AddCustomTerm(term, definition, category string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.load().clone()
	next.put(Term{Term: term, Definition: definition, Category: category})
	r.snapshot.Store(next)
}

// Definition looks a term up case-insensitively.
func (r *TermRegistry) Definition(term string) (Term, bool) {
	snap := r.load()
	i, ok := snap.index[strings.ToLower(strings.TrimSpace(term))]
	if !ok {
		return Term{}, false
	}
	return snap.terms[i].Term, true
}

// IsLegalTerm reports whether term is registered.
func (r *TermRegistry) IsLegalTerm(term string) bool {
	_, ok := r.Definition(term)
	return ok
}

// Terms returns the registered terms in registration order.
func (r *TermRegistry) Terms() []Term {
	snap := r.load()
	out := make([]Term, len(snap.terms))
	for i, t := range snap.terms {
		out[i] = t.Term
	}
	return out
}

// Len returns the number of registered terms.
func (r *TermRegistry) Len() int {
	return len(r.load().terms)
}
