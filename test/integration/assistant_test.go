// Package integration provides end-to-end tests over the HTTP API (requires real storage and a corpus file).
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/qanoon/internal/assistant"
	"github.com/hyperjump/qanoon/internal/config"
	"github.com/hyperjump/qanoon/internal/corpus"
	"github.com/hyperjump/qanoon/internal/entity"
	"github.com/hyperjump/qanoon/internal/glossary"
	"github.com/hyperjump/qanoon/internal/models"
	"github.com/hyperjump/qanoon/internal/search"
	"github.com/hyperjump/qanoon/internal/server"
	"github.com/hyperjump/qanoon/internal/storage"
	"github.com/hyperjump/qanoon/internal/watcher"
)

const initialCorpus = `
categories:
- id: labor
  title: Labour Law
  description: Employment relationships
documents:
- id: labor-1
  title: Working Hours and Overtime
  description: Maximum working hours and overtime pay
  content: Normal working hours shall not exceed eight hours per day. Overtime is paid at 125 percent.
  category: labor
  keywords: [overtime, hours]
  legal_reference: Federal Decree-Law No. 33 of 2021
  last_updated: "2023-01-15"
- id: labor-2
  title: Annual Leave
  description: Paid annual leave for employees
  content: Every worker is entitled to thirty days of paid annual leave per year of service.
  category: labor
  keywords: [leave, vacation]
  legal_reference: Federal Decree-Law No. 33 of 2021
  last_updated: "2023-01-15"
`

const arbitrationDocument = `
- id: civil-1
  title: Arbitration Procedures
  description: Resolving disputes through arbitration
  content: Parties may agree in writing to refer a dispute to arbitration instead of the courts.
  category: civil
  keywords: [arbitration, dispute]
  legal_reference: Federal Law No. 6 of 2018
  last_updated: "2023-06-01"
`

type stack struct {
	url     string
	corpus  string
	storage *storage.SQLiteStorage
}

func newStack(t *testing.T) *stack {
	t.Helper()
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "corpus.yaml")
	if err := os.WriteFile(corpusPath, []byte(initialCorpus), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Corpus.Path = corpusPath
	cfg.Storage.DatabasePath = filepath.Join(dir, "reviews.db")

	store, err := corpus.Open(cfg.Corpus.Path, nil)
	if err != nil {
		t.Fatal(err)
	}
	engine, err := search.NewEngine(store, &cfg.Search)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { engine.Close() })

	st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	gloss, err := glossary.Default()
	if err != nil {
		t.Fatal(err)
	}

	asst := assistant.New(store, engine, entity.NewExtractor(entity.NewDefaultTermRegistry()), &cfg.Assistant,
		assistant.WithStorage(st))
	ts := httptest.NewServer(server.NewServer(asst, engine, gloss, store, st, cfg, nil).Router())
	t.Cleanup(ts.Close)

	w, err := watcher.NewWatcher([]string{corpusPath}, func(string) {
		if err := store.Reload(); err != nil {
			t.Logf("reload: %v", err)
		}
	}, watcher.WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)

	return &stack{url: ts.URL, corpus: corpusPath, storage: st}
}

func postJSON(t *testing.T, url string, body any, v any) int {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestIntegration_AnswerWithReferences(t *testing.T) {
	s := newStack(t)

	var resp assistant.Response
	if code := postJSON(t, s.url+"/api/ai-assistant", assistant.Request{Question: "How is overtime paid?"}, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(resp.References) == 0 || resp.References[0].LawID != "labor-1" {
		t.Errorf("references = %+v, want labor-1 first", resp.References)
	}
	if resp.Confidence == nil || resp.Confidence.OverallScore <= 0 {
		t.Errorf("confidence = %+v", resp.Confidence)
	}
}

func TestIntegration_ReviewQueue(t *testing.T) {
	s := newStack(t)

	var resp assistant.Response
	if code := postJSON(t, s.url+"/api/ai-assistant", assistant.Request{Question: "zzqx"}, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.ReviewID == "" {
		t.Fatal("unmatched question should be queued for review")
	}

	var list struct {
		Reviews []*models.Review `json:"reviews"`
	}
	if code := getJSON(t, s.url+"/api/reviews", &list); code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	if len(list.Reviews) != 1 || list.Reviews[0].ID != resp.ReviewID {
		t.Fatalf("pending reviews = %+v", list.Reviews)
	}

	resolveURL := s.url + "/api/reviews/" + resp.ReviewID + "/resolve"
	var resolved models.Review
	if code := postJSON(t, resolveURL, map[string]string{"status": "rejected", "note": "out of scope"}, &resolved); code != http.StatusOK {
		t.Fatalf("resolve status = %d", code)
	}
	if resolved.Status != models.ReviewRejected || resolved.ResolvedAt == nil {
		t.Errorf("resolved review = %+v", resolved)
	}
	if code := postJSON(t, resolveURL, map[string]string{"status": "approved"}, nil); code != http.StatusConflict {
		t.Errorf("second resolve status = %d, want %d", code, http.StatusConflict)
	}

	n, err := s.storage.CountReviews(context.Background(), models.ReviewPending)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("pending reviews = %d, want 0", n)
	}
}

func TestIntegration_CorpusReload(t *testing.T) {
	s := newStack(t)

	var before models.SearchResponse
	if code := getJSON(t, s.url+"/api/search?q=arbitration", &before); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if before.Total != 0 {
		t.Fatalf("arbitration found before reload: %+v", before.Results)
	}

	if err := os.WriteFile(s.corpus, []byte(initialCorpus+arbitrationDocument), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		var after models.SearchResponse
		if code := getJSON(t, s.url+"/api/search?q=arbitration", &after); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if after.Total > 0 {
			if after.Results[0].Document.ID != "civil-1" {
				t.Errorf("top result = %s, want civil-1", after.Results[0].Document.ID)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("corpus was not reloaded after the file changed")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
