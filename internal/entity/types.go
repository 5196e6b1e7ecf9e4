// Package entity recognises legal terms, organisations, citations, dates and
// monetary amounts in free text.
package entity

// Type is the kind of a recognised span.
type Type string

const (
	TypeLegalTerm    Type = "LEGAL_TERM"
	TypeReference    Type = "REFERENCE"
	TypeOrganization Type = "ORGANIZATION"
	TypeDate         Type = "DATE"
	TypeAmount       Type = "AMOUNT"
)

// Entity is one recognised span. Start and End are byte offsets into the
// scanned text with 0 <= Start < End <= len(text).
type Entity struct {
	Text       string  `json:"text"`
	Type       Type    `json:"type"`
	Start      int     `json:"startIndex"`
	End        int     `json:"endIndex"`
	Confidence float64 `json:"confidence"`
	Definition string  `json:"definition,omitempty"`
}

// Amount is a monetary amount with its currency code.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Extraction is the result of scanning one text.
type Extraction struct {
	Entities      []Entity `json:"entities"`
	KeyTerms      []string `json:"keyTerms"`
	LawReferences []string `json:"lawReferences"`
	Dates         []string `json:"dates"`
	Amounts       []Amount `json:"amounts"`
}

const (
	termConfidence         = 0.95
	organizationConfidence = 0.9
	referenceConfidence    = 0.95
	dateConfidence         = 0.95
	amountConfidence       = 0.9
)
