package e2e

import (
	"testing"

	"github.com/hyperjump/qanoon/internal/models"
)

func TestBuildCorpus_ReturnsRequestedDocuments(t *testing.T) {
	c := BuildCorpus(100)
	if c.TotalDocs != 100 || len(c.Data.Documents) != 100 {
		t.Errorf("expected 100 documents, got %d (%d)", c.TotalDocs, len(c.Data.Documents))
	}
	seen := make(map[string]bool)
	for _, d := range c.Data.Documents {
		if seen[d.ID] {
			t.Errorf("duplicate id %q", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestBuildCorpus_QueryTestCasesExist(t *testing.T) {
	c := BuildCorpus(100)
	if c.TotalQueries != len(topics) {
		t.Fatalf("expected %d query test cases, got %d", len(topics), c.TotalQueries)
	}
	for i, tc := range c.TestCases {
		if tc.Query == "" {
			t.Errorf("test case %d: empty query", i)
		}
		if len(tc.ExpectedDocIDs) == 0 {
			t.Errorf("test case %d: no expected doc IDs", i)
		}
	}
}

func TestBuildCorpus_ExpectedDocsContainQueryPhrase(t *testing.T) {
	c := BuildCorpus(100)
	docByID := make(map[string]*models.Document)
	for _, d := range c.Data.Documents {
		docByID[d.ID] = d
	}
	for _, tc := range c.TestCases {
		for _, docID := range tc.ExpectedDocIDs {
			doc, ok := docByID[docID]
			if !ok {
				t.Errorf("expected doc ID %q not in corpus", docID)
				continue
			}
			if !containsPhrase(doc, tc.Query) {
				t.Errorf("doc %q (title=%q) does not contain query phrase %q", docID, doc.Title, tc.Query)
			}
		}
	}
}

func TestContainsPhrase(t *testing.T) {
	tests := []struct {
		doc     *models.Document
		phrase  string
		contain bool
	}{
		{&models.Document{Title: "Bail", Content: "File a bail application"}, "bail application", true},
		{&models.Document{Title: "Bail", Content: "File a bail application"}, "custody", false},
		{&models.Document{Title: "Patent Protection", Content: "Twenty years"}, "patent protection", true},
	}
	for _, tt := range tests {
		if got := containsPhrase(tt.doc, tt.phrase); got != tt.contain {
			t.Errorf("containsPhrase(%q, %q) = %v, want %v", tt.doc.Title, tt.phrase, got, tt.contain)
		}
	}
}
