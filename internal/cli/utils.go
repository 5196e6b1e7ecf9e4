// Package cli renders qanoon results for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/qanoon/internal/assistant"
	"github.com/hyperjump/qanoon/internal/confidence"
	"github.com/hyperjump/qanoon/internal/entity"
	"github.com/hyperjump/qanoon/internal/glossary"
	"github.com/hyperjump/qanoon/internal/intent"
	"github.com/hyperjump/qanoon/internal/models"
	"github.com/hyperjump/qanoon/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one line per item.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const rule = "─────────────────────────────────────────────────────────"

// ParseOutputFormat validates a format name; empty selects text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return OutputText, nil
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, compact or json)", s)
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, response)
	case OutputCompact:
		for _, r := range response.Results {
			fmt.Fprintf(w, "%d\t%.1f\t%s\t%s\n", r.Rank, float64(r.RelevanceScore), r.Document.ID, r.Document.Title)
		}
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms\n", response.Total, response.QueryTime)
	if response.DidYouMean != "" {
		fmt.Fprintf(w, "Did you mean: %s\n", response.DidYouMean)
	}
	for _, s := range response.Suggestions {
		fmt.Fprintf(w, "  %s\n", s)
	}
	fmt.Fprintln(w)
	for _, result := range response.Results {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Rank: %d | Score: %.1f | Matched: %s\n", result.Rank, float64(result.RelevanceScore), result.MatchType)
		fmt.Fprintf(w, "ID: %s\n", result.Document.ID)
		fmt.Fprintf(w, "Title: %s\n", result.Document.Title)
		if result.Document.LegalReference != "" {
			fmt.Fprintf(w, "Reference: %s\n", result.Document.LegalReference)
		}
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(result.MatchedContent, 200))
	}
	if len(response.Facets) > 0 {
		parts := make([]string, len(response.Facets))
		for i, f := range response.Facets {
			parts[i] = fmt.Sprintf("%s (%d)", f.Category.Title, f.Count)
		}
		fmt.Fprintf(w, "Categories: %s\n", strings.Join(parts, ", "))
	}
}

// WriteAnswer writes an assistant answer.
func WriteAnswer(w io.Writer, resp *assistant.Response, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, resp)
	case OutputCompact:
		ids := make([]string, len(resp.References))
		for i, r := range resp.References {
			ids[i] = r.LawID
		}
		level := ""
		if resp.Confidence != nil {
			level = string(resp.Confidence.Level)
		}
		fmt.Fprintf(w, "%s\t%s\n", level, strings.Join(ids, ","))
		return nil
	}

	fmt.Fprintf(w, "\n%s\n\n", resp.Answer)
	if len(resp.References) > 0 {
		fmt.Fprintln(w, "References:")
		for _, r := range resp.References {
			fmt.Fprintf(w, "  [%s] %s (%s)\n", r.LawID, r.Title, r.LegalReference)
		}
		fmt.Fprintln(w)
	}
	if c := resp.Confidence; c != nil {
		fmt.Fprintf(w, "%s Confidence: %s (%s)\n", confidence.VisualIndicator(c.Level), confidence.FormatScore(c.OverallScore), c.Level)
		for _, d := range c.Disclaimers {
			fmt.Fprintf(w, "  * %s\n", d)
		}
	}
	if resp.ReviewID != "" {
		fmt.Fprintf(w, "Queued for review: %s\n", resp.ReviewID)
	}
	return nil
}

// WriteIntent writes a classified intent.
func WriteIntent(w io.Writer, query string, in intent.Intent, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, in)
	case OutputCompact:
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", in.Type, in.Category, in.Confidence, in.SuggestedAction)
		return nil
	}
	fmt.Fprintf(w, "Type:       %s\n", in.Type)
	fmt.Fprintf(w, "Category:   %s\n", in.Category)
	fmt.Fprintf(w, "Confidence: %.2f (high: %t)\n", in.Confidence, intent.IsHighConfidence(in))
	fmt.Fprintf(w, "Action:     %s\n", in.SuggestedAction)
	fmt.Fprintf(w, "Complex:    %t\n", intent.IsComplexQuery(query))
	if len(in.Entities) > 0 {
		fmt.Fprintf(w, "Entities:   %s\n", strings.Join(in.Entities, ", "))
	}
	return nil
}

// WriteExtraction writes extracted entities.
func WriteExtraction(w io.Writer, ex *entity.Extraction, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, ex)
	case OutputCompact:
		for _, e := range ex.Entities {
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", e.Type, e.Start, e.End, e.Text)
		}
		return nil
	}
	if len(ex.Entities) == 0 {
		fmt.Fprintln(w, "No entities found")
		return nil
	}
	for _, e := range ex.Entities {
		fmt.Fprintf(w, "%-12s %q [%d:%d] %.2f\n", e.Type, e.Text, e.Start, e.End, e.Confidence)
		if e.Definition != "" {
			fmt.Fprintf(w, "             %s\n", e.Definition)
		}
	}
	for _, a := range ex.Amounts {
		fmt.Fprintf(w, "Amount: %s (%s)\n", a.Value, a.Currency)
	}
	return nil
}

// WriteGlossary writes glossary entries.
func WriteGlossary(w io.Writer, entries []*glossary.Entry, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, entries)
	case OutputCompact:
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Term, e.Category, e.Complexity)
		}
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%s (%s, %s)\n", e.Term, e.Category, e.Complexity)
		fmt.Fprintf(w, "%s\n", e.Definition)
		if len(e.RelatedTerms) > 0 {
			fmt.Fprintf(w, "Related: %s\n", strings.Join(e.RelatedTerms, ", "))
		}
	}
	return nil
}

// WriteReviews writes queued reviews.
func WriteReviews(w io.Writer, reviews []*models.Review, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, reviews)
	case OutputCompact:
		for _, r := range reviews {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Status, r.ConfidenceLevel, r.Question)
		}
		return nil
	}
	if len(reviews) == 0 {
		fmt.Fprintln(w, "No reviews")
		return nil
	}
	for _, r := range reviews {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "ID: %s | %s | confidence %s (%s)\n", r.ID, r.Status, confidence.FormatScore(r.ConfidenceScore), r.ConfidenceLevel)
		fmt.Fprintf(w, "Created: %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(w, "Q: %s\n", r.Question)
		fmt.Fprintf(w, "A: %s\n", TruncateWords(r.Answer, 40))
		if r.Note != "" {
			fmt.Fprintf(w, "Note: %s\n", r.Note)
		}
	}
	return nil
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
