package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/qanoon/internal/assistant"
	"github.com/hyperjump/qanoon/internal/config"
	"github.com/hyperjump/qanoon/internal/corpus"
	"github.com/hyperjump/qanoon/internal/glossary"
	"github.com/hyperjump/qanoon/internal/models"
	"github.com/hyperjump/qanoon/internal/search"
	"github.com/hyperjump/qanoon/internal/storage"
)

type testEnv struct {
	handler http.Handler
	storage *storage.SQLiteStorage
}

func testSnapshot(t *testing.T) *corpus.Snapshot {
	t.Helper()
	snap, err := corpus.NewSnapshot(&corpus.Data{
		Categories: []models.Category{
			{ID: "labor", Title: "Labour Law", Description: "Employment rights"},
			{ID: "civil", Title: "Civil Law", Description: "Contracts and property"},
		},
		Documents: []*models.Document{
			{
				ID: "labor-1", Title: "End of Service Gratuity", Category: "labor",
				Description:    "Gratuity owed to departing workers",
				Content:        "An employee who completes one year of service is entitled to gratuity.",
				Keywords:       []string{"gratuity"},
				LegalReference: "Federal Decree-Law No. 33 of 2021, Article 51",
				LastUpdated:    "2024-01-15",
			},
			{
				ID: "civil-1", Title: "Tenancy Contracts", Category: "civil",
				Description:    "Residential leases",
				Content:        "A tenancy contract must be registered with Ejari.",
				Keywords:       []string{"rent"},
				LegalReference: "Law No. 26 of 2007",
				LastUpdated:    "2022-01-01",
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func newTestEnv(t *testing.T, withStorage bool, mutate func(*config.Config)) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DatabasePath = filepath.Join(t.TempDir(), "reviews.db")
	if mutate != nil {
		mutate(cfg)
	}

	store := corpus.NewStore(testSnapshot(t))
	engine, err := search.NewEngine(store, &cfg.Search)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { engine.Close() })

	gloss, err := glossary.Default()
	if err != nil {
		t.Fatal(err)
	}

	env := &testEnv{}
	var st storage.Storage
	var opts []assistant.Option
	if withStorage {
		env.storage, err = storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { env.storage.Close() })
		st = env.storage
		opts = append(opts, assistant.WithStorage(st))
	}

	asst := assistant.New(store, engine, nil, &cfg.Assistant, opts...)
	env.handler = NewServer(asst, engine, gloss, store, st, cfg, nil).Router()
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func assertCORS(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	h := w.Header()
	if h.Get("Access-Control-Allow-Origin") != "*" ||
		h.Get("Access-Control-Allow-Methods") != "POST, OPTIONS" ||
		h.Get("Access-Control-Allow-Headers") != "Content-Type" {
		t.Errorf("CORS headers = %v", h)
	}
}

func TestHandleAiAssistant_preflight(t *testing.T) {
	env := newTestEnv(t, false, nil)
	w := env.do(t, http.MethodOptions, "/api/ai-assistant", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
	assertCORS(t, w)
}

func TestHandleAiAssistant_methodNotAllowed(t *testing.T) {
	env := newTestEnv(t, false, nil)
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := env.do(t, method, "/api/ai-assistant", "")
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d, want 405", method, w.Code)
		}
		var body map[string]string
		decode(t, w, &body)
		if body["error"] != "Method not allowed" {
			t.Errorf("%s: body = %v", method, body)
		}
		assertCORS(t, w)
	}
}

func TestHandleAiAssistant_validation(t *testing.T) {
	env := newTestEnv(t, false, nil)
	for _, body := range []string{
		`{}`,
		`{"question": ""}`,
		`{"question": 42}`,
		`{"question": null}`,
		`{"question": ["a"]}`,
		`not json`,
	} {
		w := env.do(t, http.MethodPost, "/api/ai-assistant", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, w.Code)
			continue
		}
		var out map[string]string
		decode(t, w, &out)
		if out["error"] != "Question is required" {
			t.Errorf("%s: body = %v", body, out)
		}
	}
}

func TestHandleAiAssistant_answer(t *testing.T) {
	env := newTestEnv(t, false, nil)
	w := env.do(t, http.MethodPost, "/api/ai-assistant",
		`{"question": "Is an employee owed gratuity?", "contextLaw": {"id": "civil-1", "title": "Tenancy Contracts"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	assertCORS(t, w)

	var out struct {
		Answer     string                `json:"answer"`
		References []models.LawReference `json:"references"`
		Intent     map[string]any        `json:"intent"`
		Confidence map[string]any        `json:"confidence"`
	}
	decode(t, w, &out)
	if !strings.Contains(out.Answer, "UAE Labour Law") {
		t.Errorf("answer = %q", out.Answer)
	}
	if len(out.References) < 2 || out.References[0].LawID != "civil-1" || out.References[1].LawID != "labor-1" {
		t.Fatalf("references = %+v", out.References)
	}
	if out.References[1].Excerpt != "An employee who completes one year of service is entitled to gratuity." {
		t.Errorf("excerpt = %q", out.References[1].Excerpt)
	}
	if out.Intent["category"] != "labor" {
		t.Errorf("intent = %v", out.Intent)
	}
	if _, ok := out.Confidence["confidenceLevel"]; !ok {
		t.Errorf("confidence = %v", out.Confidence)
	}
}

func TestHandleAiAssistant_internalError(t *testing.T) {
	env := newTestEnv(t, false, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := httptest.NewRequest(http.MethodPost, "/api/ai-assistant", strings.NewReader(`{"question": "gratuity"}`)).WithContext(ctx)
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var out map[string]string
	decode(t, w, &out)
	if out["error"] != "Failed to process your question" || out["message"] == "" {
		t.Errorf("body = %v", out)
	}
}

func TestHandleAiAssistant_rateLimited(t *testing.T) {
	env := newTestEnv(t, false, func(cfg *config.Config) {
		cfg.Server.RateLimitRPS = 0.001
		cfg.Server.RateLimitBurst = 1
	})
	body := `{"question": "gratuity"}`
	if w := env.do(t, http.MethodPost, "/api/ai-assistant", body); w.Code != http.StatusOK {
		t.Fatalf("first request: status = %d", w.Code)
	}
	w := env.do(t, http.MethodPost, "/api/ai-assistant", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", w.Code)
	}
	assertCORS(t, w)
	if w := env.do(t, http.MethodOptions, "/api/ai-assistant", ""); w.Code != http.StatusOK {
		t.Errorf("preflight should not be limited, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/search?q=gratuity", ""); w.Code != http.StatusOK {
		t.Errorf("search should not be limited, got %d", w.Code)
	}
}

func TestHandleAiAssistant_rateLimitIgnoresForwardedHeaders(t *testing.T) {
	env := newTestEnv(t, false, func(cfg *config.Config) {
		cfg.Server.RateLimitRPS = 0.001
		cfg.Server.RateLimitBurst = 1
	})
	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/ai-assistant", strings.NewReader(`{"question": "gratuity"}`))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		r.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i+1))
		w := httptest.NewRecorder()
		env.handler.ServeHTTP(w, r)
		codes[w.Code]++
	}
	if codes[http.StatusOK] != 1 || codes[http.StatusTooManyRequests] != 4 {
		t.Errorf("status counts = %v, want one 200 and four 429", codes)
	}
}

func TestHandleSearch(t *testing.T) {
	env := newTestEnv(t, false, nil)

	for _, target := range []string{"/search?q=contract", "/api/search?q=contract"} {
		w := env.do(t, http.MethodGet, target, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", target, w.Code)
		}
		var resp models.SearchResponse
		decode(t, w, &resp)
		if resp.Total != 1 || resp.Results[0].Document.ID != "civil-1" {
			t.Errorf("%s: response = %+v", target, resp)
		}
	}

	w := env.do(t, http.MethodGet, "/api/search?q=gratuity&category=civil", "")
	var resp models.SearchResponse
	decode(t, w, &resp)
	if resp.Total != 0 || len(resp.Facets) != 1 || resp.Facets[0].Category.ID != "labor" {
		t.Errorf("filtered response = %+v", resp)
	}

	if w := env.do(t, http.MethodGet, "/api/search", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing q: status = %d, want 400", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/search?q=rent&limit=ten", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit: status = %d, want 400", w.Code)
	}
}

func TestHandleCategoriesAndLaws(t *testing.T) {
	env := newTestEnv(t, false, nil)

	w := env.do(t, http.MethodGet, "/api/categories", "")
	var cats struct {
		Categories []categoryInfo `json:"categories"`
	}
	decode(t, w, &cats)
	if len(cats.Categories) != 2 || cats.Categories[0].ID != "labor" || cats.Categories[0].Documents != 1 {
		t.Errorf("categories = %+v", cats)
	}

	w = env.do(t, http.MethodGet, "/api/laws/LABOR-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var doc models.Document
	decode(t, w, &doc)
	if doc.ID != "labor-1" {
		t.Errorf("doc = %+v", doc)
	}

	if w := env.do(t, http.MethodGet, "/api/laws/none-1", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing law: status = %d, want 404", w.Code)
	}
}

func TestHandleAnalysisEndpoints(t *testing.T) {
	env := newTestEnv(t, false, nil)

	w := env.do(t, http.MethodPost, "/api/classify", `{"query": "What is the minimum wage in the UAE?"}`)
	var cls map[string]any
	decode(t, w, &cls)
	if cls["type"] != "QUERY" || cls["category"] != "labor" {
		t.Errorf("classify = %v", cls)
	}
	if _, ok := cls["highConfidence"]; !ok {
		t.Errorf("classify response missing highConfidence: %v", cls)
	}

	w = env.do(t, http.MethodPost, "/api/extract", `{"text": "The fine is AED 2,500 under Article 84 [labor-1]."}`)
	var ext struct {
		LawReferences []string `json:"lawReferences"`
		Amounts       []struct {
			Value    string `json:"value"`
			Currency string `json:"currency"`
		} `json:"amounts"`
		Dates     []string `json:"dates"`
		Citations []string `json:"citations"`
	}
	decode(t, w, &ext)
	if len(ext.Amounts) != 1 || ext.Amounts[0].Value != "AED 2,500" || ext.Amounts[0].Currency != "AED" {
		t.Errorf("amounts = %+v", ext.Amounts)
	}
	if len(ext.LawReferences) != 1 || ext.LawReferences[0] != "Article 84" || len(ext.Dates) != 0 {
		t.Errorf("extract = %+v", ext)
	}
	if len(ext.Citations) != 1 || ext.Citations[0] != "labor-1" {
		t.Errorf("citations = %v", ext.Citations)
	}

	w = env.do(t, http.MethodPost, "/api/confidence", `{"query": "anything", "documents": [], "quality": {}}`)
	var conf map[string]any
	decode(t, w, &conf)
	if conf["confidenceLevel"] != "low" || conf["requiresHumanReview"] != true || conf["indicator"] != "🔴" {
		t.Errorf("confidence = %v", conf)
	}

	for _, target := range []string{"/api/classify", "/api/extract", "/api/confidence"} {
		if w := env.do(t, http.MethodPost, target, "{"); w.Code != http.StatusBadRequest {
			t.Errorf("%s malformed body: status = %d, want 400", target, w.Code)
		}
	}
}

func TestHandleGlossary(t *testing.T) {
	env := newTestEnv(t, false, nil)

	w := env.do(t, http.MethodGet, "/api/glossary/contract", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out struct {
		Term    glossary.Entry    `json:"term"`
		Related []*glossary.Entry `json:"related"`
	}
	decode(t, w, &out)
	if out.Term.Term != "Contract" {
		t.Errorf("term = %+v", out.Term)
	}

	if w := env.do(t, http.MethodGet, "/api/glossary/nonexistent", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing term: status = %d, want 404", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/glossary?complexity=complex", "")
	var list struct {
		Terms      []*glossary.Entry `json:"terms"`
		Categories []string          `json:"categories"`
	}
	decode(t, w, &list)
	if len(list.Terms) == 0 || len(list.Categories) == 0 {
		t.Errorf("glossary list = %+v", list)
	}
	for _, e := range list.Terms {
		if e.Complexity != glossary.Complex {
			t.Errorf("term %q has complexity %q", e.Term, e.Complexity)
		}
	}
}

func TestHandleGlossaryAdd(t *testing.T) {
	env := newTestEnv(t, false, nil)

	body := `{"term": "Emiratisation", "definition": "Quota for hiring UAE nationals", "synonyms": ["nafis"]}`
	w := env.do(t, http.MethodPost, "/api/glossary", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var added glossary.Entry
	decode(t, w, &added)
	if added.Category != "general" || added.Complexity != glossary.Moderate {
		t.Errorf("defaults not applied: %+v", added)
	}

	if w := env.do(t, http.MethodGet, "/api/glossary/nafis", ""); w.Code != http.StatusOK {
		t.Errorf("lookup by synonym: status = %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/extract", `{"text": "Emiratisation targets apply."}`)
	if !strings.Contains(w.Body.String(), "Quota for hiring UAE nationals") {
		t.Errorf("extractor should define the new term, got %s", w.Body.String())
	}

	if w := env.do(t, http.MethodPost, "/api/glossary", body); w.Code != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want 409", w.Code)
	}
	for _, bad := range []string{`{"term": "X"}`, `{"definition": "no term"}`, `not json`} {
		if w := env.do(t, http.MethodPost, "/api/glossary", bad); w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", bad, w.Code)
		}
	}
}

func TestHandleReviews(t *testing.T) {
	env := newTestEnv(t, true, nil)

	w := env.do(t, http.MethodPost, "/api/ai-assistant", `{"question": "zzzz qqqq"}`)
	var answer struct {
		ReviewID string `json:"reviewId"`
	}
	decode(t, w, &answer)
	if answer.ReviewID == "" {
		t.Fatal("expected the answer to be queued")
	}

	w = env.do(t, http.MethodGet, "/api/reviews", "")
	var list struct {
		Reviews []models.Review `json:"reviews"`
	}
	decode(t, w, &list)
	if len(list.Reviews) != 1 || list.Reviews[0].ID != answer.ReviewID {
		t.Fatalf("reviews = %+v", list.Reviews)
	}

	resolve := "/api/reviews/" + answer.ReviewID + "/resolve"
	if w := env.do(t, http.MethodPost, resolve, `{"status": "pending"}`); w.Code != http.StatusBadRequest {
		t.Errorf("invalid status: %d, want 400", w.Code)
	}
	w = env.do(t, http.MethodPost, resolve, `{"status": "approved", "note": "fine"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("resolve: status = %d, body %s", w.Code, w.Body.String())
	}
	var resolved models.Review
	decode(t, w, &resolved)
	if resolved.Status != models.ReviewApproved || resolved.Note != "fine" {
		t.Errorf("resolved = %+v", resolved)
	}
	if w := env.do(t, http.MethodPost, resolve, `{"status": "rejected"}`); w.Code != http.StatusConflict {
		t.Errorf("second resolve: %d, want 409", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/reviews/missing/resolve", `{"status": "rejected"}`); w.Code != http.StatusNotFound {
		t.Errorf("unknown review: %d, want 404", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/reviews?status=all", "")
	decode(t, w, &list)
	if len(list.Reviews) != 1 {
		t.Errorf("all reviews = %d, want 1", len(list.Reviews))
	}
	if w := env.do(t, http.MethodGet, "/api/reviews?status=bogus", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bogus status: %d, want 400", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/status", "")
	var status map[string]any
	decode(t, w, &status)
	if status["documents"] != float64(2) || status["pending_reviews"] != float64(0) {
		t.Errorf("status = %v", status)
	}
}

func TestHandleReviews_disabled(t *testing.T) {
	env := newTestEnv(t, false, nil)
	for _, target := range []string{"/api/reviews", "/api/feedback"} {
		if w := env.do(t, http.MethodGet, target, ""); w.Code != http.StatusNotImplemented {
			t.Errorf("%s: status = %d, want 501", target, w.Code)
		}
	}
}

func TestHandleFeedback(t *testing.T) {
	env := newTestEnv(t, true, nil)
	env.do(t, http.MethodPost, "/api/ai-assistant", `{"question": "Thank you, the answer was great"}`)

	w := env.do(t, http.MethodGet, "/api/feedback", "")
	var out struct {
		Feedback []models.Feedback `json:"feedback"`
	}
	decode(t, w, &out)
	if len(out.Feedback) != 1 || out.Feedback[0].Message != "Thank you, the answer was great" {
		t.Errorf("feedback = %+v", out.Feedback)
	}
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t, false, nil)
	w := env.do(t, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}
