// Package e2e provides end-to-end tests with a generated corpus and multiple queries.
package e2e

import (
	"fmt"
	"strings"

	"github.com/hyperjump/qanoon/internal/corpus"
	"github.com/hyperjump/qanoon/internal/models"
)

// QueryTestCase defines a query, the document ID(s) that must appear in search
// results, and the category the intent classifier must assign.
type QueryTestCase struct {
	Query            string
	ExpectedDocIDs   []string
	ExpectedCategory string
	Description      string
}

// Corpus holds documents and query test cases for E2E tests.
type Corpus struct {
	Data         *corpus.Data
	TestCases    []QueryTestCase
	TotalDocs    int
	TotalQueries int
}

type topic struct {
	category string
	title    string
	phrase   string
	content  string
	keywords []string
	// intentCategory is the classifier category expected for phrase.
	intentCategory string
}

var topics = []topic{
	{"labor", "Probation Period Rules", "probation period", "An employee may be placed on a probation period of up to six months. During the probation period either party may end the contract with notice.", []string{"probation", "trial"}, "general"},
	{"labor", "Maternity Leave Entitlement", "maternity leave", "A female worker is entitled to maternity leave of sixty days. Maternity leave is paid in full for the first forty-five days.", []string{"maternity", "leave"}, "labor"},
	{"labor", "Salary Transfer System", "salary transfer", "Employers must pay wages through the salary transfer system. Salary transfer records are monitored by the ministry.", []string{"wps", "wages"}, "labor"},
	{"labor", "Non-Compete Clauses", "non-compete clause", "A non-compete clause must be limited in time and place. The non-compete clause may not exceed two years.", []string{"restrictive covenant"}, "general"},
	{"civil", "Tenancy Disputes", "tenancy dispute", "A tenancy dispute is heard by the rental committee. Landlords must give notice before eviction in a tenancy dispute.", []string{"rent", "landlord", "eviction"}, "civil"},
	{"civil", "Tort Compensation", "tort compensation", "Any harm done to another requires tort compensation. Tort compensation covers material and moral damage.", []string{"harm", "damages"}, "civil"},
	{"civil", "Statute of Limitations", "statute of limitations", "Most civil claims are barred by the statute of limitations after fifteen years. The statute of limitations is interrupted by a judicial claim.", []string{"prescription"}, "general"},
	{"civil", "Power of Attorney", "power of attorney", "A power of attorney must be notarised. A general power of attorney may be revoked at any time.", []string{"agency", "notary"}, "general"},
	{"criminal", "Cybercrime Offences", "cybercrime offence", "Unauthorised access to a computer system is a cybercrime offence. A cybercrime offence is punished by imprisonment and fine.", []string{"hacking", "online"}, "criminal"},
	{"criminal", "Bail Procedures", "bail application", "A detained person may file a bail application with the public prosecution. A bail application may require a guarantee.", []string{"release", "detention"}, "general"},
	{"criminal", "Bounced Cheques", "bounced cheque", "Issuing a bounced cheque in bad faith is punishable. A bounced cheque may also be enforced as an executive instrument.", []string{"cheque", "payment"}, "general"},
	{"family", "Child Custody Rights", "custody rights", "Custody rights of the mother continue until the child reaches a set age. Custody rights may be transferred by court order.", []string{"custody", "guardianship"}, "family"},
	{"family", "Alimony Obligations", "alimony after divorce", "A husband owes alimony after divorce during the waiting period. Alimony after divorce is set by the court when the parties disagree.", []string{"maintenance", "nafaqa"}, "family"},
	{"family", "Inheritance Distribution", "inheritance share", "Each heir receives a fixed inheritance share. An inheritance share may be waived by agreement of the heirs.", []string{"estate", "heirs", "will"}, "family"},
	{"corporate", "Company Formation", "limited liability company", "A limited liability company requires at least one partner. A limited liability company must file a memorandum of association.", []string{"llc", "incorporation"}, "business"},
	{"corporate", "Commercial Agencies", "commercial agency", "A commercial agency must be registered with the ministry. The commercial agency may be exclusive within a territory.", []string{"distributor", "agent"}, "general"},
	{"corporate", "Bankruptcy Procedures", "bankruptcy procedure", "A debtor may apply for a bankruptcy procedure when unable to pay debts. The bankruptcy procedure protects creditors.", []string{"insolvency", "debt"}, "general"},
	{"intellectual", "Trademark Registration", "trademark registration", "A trademark registration lasts ten years. Trademark registration is renewable for similar periods.", []string{"brand", "logo"}, "ip"},
	{"intellectual", "Patent Protection", "patent protection", "Patent protection lasts twenty years from filing. Patent protection requires novelty and industrial application.", []string{"invention"}, "ip"},
	{"intellectual", "Copyright Duration", "copyright term", "The copyright term extends fifty years after the death of the author. The copyright term for works of companies runs from publication.", []string{"author", "works"}, "ip"},
}

var categories = []models.Category{
	{ID: "labor", Title: "Labour Law", Description: "Employment relationships"},
	{ID: "civil", Title: "Civil Law", Description: "Obligations and property"},
	{ID: "criminal", Title: "Criminal Law", Description: "Offences and procedure"},
	{ID: "family", Title: "Family Law", Description: "Personal status"},
	{ID: "corporate", Title: "Corporate & Commercial Law", Description: "Companies and trade"},
	{ID: "intellectual", Title: "Intellectual Property", Description: "Marks, patents and copyright"},
}

// BuildCorpus returns a corpus of n documents with one query test case per
// topic. Each topic has a unique signature phrase so queries can assert the
// correct document is returned.
func BuildCorpus(n int) *Corpus {
	docs := buildDocuments(n)
	cases := buildQueryTestCases(docs)
	return &Corpus{
		Data:         &corpus.Data{Categories: categories, Documents: docs},
		TestCases:    cases,
		TotalDocs:    len(docs),
		TotalQueries: len(cases),
	}
}

func buildDocuments(n int) []*models.Document {
	out := make([]*models.Document, 0, n)
	for i := 0; i < n; i++ {
		t := topics[i%len(topics)]
		title := t.title
		// Topics repeat with different IDs once every topic is used.
		if i >= len(topics) {
			title = fmt.Sprintf("%s (%d)", t.title, i+1)
		}
		out = append(out, &models.Document{
			ID:             fmt.Sprintf("%s-%03d", t.category, i+1),
			Title:          title,
			Description:    fmt.Sprintf("Rules on %s under UAE law", t.phrase),
			Content:        t.content,
			Category:       t.category,
			Keywords:       t.keywords,
			LegalReference: fmt.Sprintf("Federal Law No. %d of %d", i+1, 2000+i%24),
			LastUpdated:    fmt.Sprintf("%d-%02d-01", 2015+i%10, 1+i%12),
		})
	}
	return out
}

func buildQueryTestCases(docs []*models.Document) []QueryTestCase {
	var cases []QueryTestCase
	for _, t := range topics {
		for _, d := range docs {
			if containsPhrase(d, t.phrase) {
				cases = append(cases, QueryTestCase{
					Query:            t.phrase,
					ExpectedDocIDs:   []string{d.ID},
					ExpectedCategory: t.intentCategory,
					Description:      fmt.Sprintf("query %q should return doc %s", t.phrase, d.ID),
				})
				break
			}
		}
	}
	return cases
}

func containsPhrase(d *models.Document, phrase string) bool {
	phrase = strings.ToLower(phrase)
	return strings.Contains(strings.ToLower(d.Title), phrase) || strings.Contains(strings.ToLower(d.Content), phrase)
}
