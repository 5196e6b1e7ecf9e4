package ranking

import (
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/qanoon/internal/models"
)

const ellipsis = "..."

// Excerpt picks the matched excerpt and match type for a document. The first
// field, in priority order title > description > content > keywords, that
// contains any query token decides both. ok is false when nothing matched.
func (r *Ranker) Excerpt(ctx *ScoringContext) (excerpt string, matchType models.MatchType, ok bool) {
	tokens := ctx.Query.Tokens
	doc := ctx.Document

	if CountMatchingTerms(tokens, ctx.title) > 0 {
		return doc.Title, models.MatchTitle, true
	}
	if CountMatchingTerms(tokens, ctx.description) > 0 {
		return doc.Description, models.MatchDescription, true
	}
	for _, token := range tokens {
		if !strings.Contains(ctx.content, token) {
			continue
		}
		return contentWindow(doc.Content, ctx.content, token, r.config.ExcerptBefore, r.config.ExcerptAfter), models.MatchContent, true
	}
	if CountMatchingTermsAny(tokens, ctx.keywords) > 0 {
		return strings.Join(doc.Keywords, ", "), models.MatchKeyword, true
	}
	return doc.Description, models.MatchDescription, false
}

// contentWindow returns the text from before characters ahead of the first
// occurrence of token in lowered to after characters past its start, with
// "..." marking each side that was cut. lowered is content passed through
// strings.ToLower, which maps rune for rune, so rune offsets carry over.
func contentWindow(content, lowered, token string, before, after int) string {
	runes := []rune(content)
	at := 0
	if i := strings.Index(lowered, token); i > 0 {
		at = min(utf8.RuneCountInString(lowered[:i]), len(runes))
	}
	start := max(0, at-before)
	end := min(len(runes), at+after)

	var b strings.Builder
	if start > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString(ellipsis)
	}
	return b.String()
}
