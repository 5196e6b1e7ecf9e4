package entity

import "regexp"

// organizationPatterns match named authorities; only the first occurrence of
// each is reported.
var organizationPatterns = compileAll(
	`(?i)\bGeneral Directorate of Residency and Foreigners Affairs\b`,
	`(?i)\bGDRFA\b`,
	`(?i)\bDepartment of Commerce and Tourism\b`,
	`(?i)\bDCAT\b`,
	`(?i)\bMinistry of Human Resources\b`,
	`(?i)\bMHR\b`,
	`(?i)\bLabour Courts\b`,
	`(?i)\bEmirates ID\b`,
)

var referencePatterns = compileAll(
	`(?i)Federal Decree\s+(?:No\.|#)?\s*\d+\s+of\s+\d+`,
	`(?i)Cabinet Resolution\s+(?:No\.|#)?\s*\d+\s+of\s+\d+`,
	`(?i)Article\s+\d+`,
	`(?i)Section\s+\d+`,
	`(?i)Law\s+No\.\s*\d+\s+of\s+\d+`,
)

var datePatterns = compileAll(
	`\b\d{1,2}/\d{1,2}/\d{4}\b`,
	`\b\d{4}-\d{2}-\d{2}\b`,
	`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2},?\s+\d{4}\b`,
)

var amountPatterns = compileAll(
	`(?i)AED\s*\d[\d,]*(?:\.\d{2})?`,
	`(?i)USD\s*\$?\s*\d[\d,]*(?:\.\d{2})?`,
	`(?i)EUR\s*€?\s*\d[\d,]*(?:\.\d{2})?`,
	`(?i)\d[\d,]*\s*(?:Dirhams?|Dollars?|Euros?|AED|USD|EUR)`,
)

var (
	currencyWord  = regexp.MustCompile(`[A-Za-z]+`)
	citationMarks = regexp.MustCompile(`(?i)\[([a-z]+-\d+)\]`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}
