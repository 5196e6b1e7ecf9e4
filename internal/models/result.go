package models

// MatchType names the document field that determined a result's excerpt.
type MatchType string

const (
	MatchTitle       MatchType = "title"
	MatchDescription MatchType = "description"
	MatchContent     MatchType = "content"
	MatchKeyword     MatchType = "keyword"
)

// SearchResult is one corpus document scored against a query.
type SearchResult struct {
	Document       *Document  `json:"law"`
	RelevanceScore Percentage `json:"relevanceScore"`
	MatchedContent string     `json:"matchedContent"`
	MatchType      MatchType  `json:"matchType"`
	Rank           int        `json:"rank"`
}

// CategoryFacet counts results per category.
type CategoryFacet struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Query       string          `json:"query"`
	Category    string          `json:"category,omitempty"`
	Results     []*SearchResult `json:"results"`
	Total       int             `json:"total"`
	Facets      []CategoryFacet `json:"facets,omitempty"`
	Suggestions []string        `json:"suggestions"`
	// DidYouMean is a spelling-corrected query, set only when the original found nothing.
	DidYouMean string `json:"didYouMean,omitempty"`
	QueryTime  int64  `json:"queryTimeMs"`
}
