package entity

import (
	"regexp"
	"strings"
)

// Extractor runs the five entity sweeps over text. It only reads registry
// snapshots and is safe for concurrent use.
type Extractor struct {
	terms *TermRegistry
}

// NewExtractor creates an extractor. A nil registry uses the built-in terms.
func NewExtractor(terms *TermRegistry) *Extractor {
	if terms == nil {
		terms = NewDefaultTermRegistry()
	}
	return &Extractor{terms: terms}
}

// Terms returns the term registry backing the extractor.
func (e *Extractor) Terms() *TermRegistry {
	return e.terms
}

// Extract scans text for legal terms, organisations, references, dates and
// amounts, in that order. Entities are deduplicated by surface text: a text
// keeps the position of its first sighting and the record of its last.
func (e *Extractor) Extract(text string) *Extraction {
	terms := e.legalTerms(text)
	orgs := organizations(text)
	refs := sweep(text, referencePatterns, TypeReference, referenceConfidence)
	dates := sweep(text, datePatterns, TypeDate, dateConfidence)
	amounts := sweep(text, amountPatterns, TypeAmount, amountConfidence)

	all := make([]Entity, 0, len(terms)+len(orgs)+len(refs)+len(dates)+len(amounts))
	all = append(all, terms...)
	all = append(all, orgs...)
	all = append(all, refs...)
	all = append(all, dates...)
	all = append(all, amounts...)

	out := &Extraction{
		Entities:      dedupeEntities(all),
		KeyTerms:      distinctTexts(terms),
		LawReferences: distinctTexts(refs),
		Dates:         distinctTexts(dates),
		Amounts:       make([]Amount, 0, len(amounts)),
	}
	for _, a := range amounts {
		out.Amounts = append(out.Amounts, Amount{Value: a.Text, Currency: ParseCurrency(a.Text)})
	}
	return out
}

func (e *Extractor) legalTerms(text string) []Entity {
	var out []Entity
	for _, t := range e.terms.load().terms {
		for _, loc := range t.pattern.FindAllStringIndex(text, -1) {
			out = append(out, Entity{
				Text:       text[loc[0]:loc[1]],
				Type:       TypeLegalTerm,
				Start:      loc[0],
				End:        loc[1],
				Confidence: termConfidence,
				Definition: t.Definition,
			})
		}
	}
	return out
}

func organizations(text string) []Entity {
	var out []Entity
	for _, p := range organizationPatterns {
		loc := p.FindStringIndex(text)
		if loc == nil {
			continue
		}
		out = append(out, Entity{
			Text:       text[loc[0]:loc[1]],
			Type:       TypeOrganization,
			Start:      loc[0],
			End:        loc[1],
			Confidence: organizationConfidence,
		})
	}
	return out
}

// sweep reports every non-empty match of every pattern.
func sweep(text string, patterns []*regexp.Regexp, typ Type, confidence float64) []Entity {
	var out []Entity
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			if loc[1] <= loc[0] {
				continue
			}
			out = append(out, Entity{
				Text:       text[loc[0]:loc[1]],
				Type:       typ,
				Start:      loc[0],
				End:        loc[1],
				Confidence: confidence,
			})
		}
	}
	return out
}

func dedupeEntities(entities []Entity) []Entity {
	index := make(map[string]int, len(entities))
	out := make([]Entity, 0, len(entities))
	for _, ent := range entities {
		if i, ok := index[ent.Text]; ok {
			out[i] = ent
			continue
		}
		index[ent.Text] = len(out)
		out = append(out, ent)
	}
	return out
}

func distinctTexts(entities []Entity) []string {
	seen := make(map[string]bool, len(entities))
	out := make([]string, 0, len(entities))
	for _, ent := range entities {
		if !seen[ent.Text] {
			seen[ent.Text] = true
			out = append(out, ent.Text)
		}
	}
	return out
}

// ParseCurrency derives an ISO currency code from the first run of letters in
// an amount. Spelled-out names map to their code; unknown words yield "unknown".
func ParseCurrency(amount string) string {
	word := strings.ToUpper(currencyWord.FindString(amount))
	switch word {
	case "":
		return "unknown"
	case "DIRHAM", "DIRHAMS":
		return "AED"
	case "DOLLAR", "DOLLARS":
		return "USD"
	case "EURO", "EUROS":
		return "EUR"
	}
	if len(word) == 3 {
		return word
	}
	return "unknown"
}

// Definition looks a legal term up in the extractor's registry.
func (e *Extractor) Definition(term string) (Term, bool) {
	return e.terms.Definition(term)
}

// IsLegalTerm reports whether term is a registered legal term.
func (e *Extractor) IsLegalTerm(term string) bool {
	return e.terms.IsLegalTerm(term)
}
