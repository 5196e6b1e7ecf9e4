package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path should be set")
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
	if cfg.Corpus.Path != "" {
		t.Errorf("corpus path should stay empty for the built-in corpus, got %q", cfg.Corpus.Path)
	}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "debug: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Search.DefaultLimit != 10 || cfg.Search.MaxLimit != 100 {
		t.Errorf("unexpected search limits: %d/%d", cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	}
	if cfg.Search.Ranking.TitleWeight != 30 || cfg.Search.Ranking.ExcerptAfter != 100 {
		t.Errorf("ranking defaults not applied: %+v", cfg.Search.Ranking)
	}
	if cfg.Search.SpellMinTermLength != 4 {
		t.Errorf("spell_min_term_length = %d, want 4", cfg.Search.SpellMinTermLength)
	}
	if !cfg.Search.SpellCheckEnabled() {
		t.Error("spell check should default to true")
	}
	if !cfg.Assistant.ReviewQueueEnabled() {
		t.Error("review queue should default to true")
	}
	if cfg.Assistant.ReferenceLimit() != 0 {
		t.Errorf("ReferenceLimit() = %d, want 0", cfg.Assistant.ReferenceLimit())
	}
}

func TestLoad_explicitFalse(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
search:
  spell_check: false
assistant:
  review_queue: false
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Search.SpellCheckEnabled() {
		t.Error("spell check should be disabled")
	}
	if cfg.Assistant.ReviewQueueEnabled() {
		t.Error("review queue should be disabled")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
corpus:
  path: "./data/laws.yaml"
storage:
  database_path: "./data/db/reviews.db"
`)
	dir := filepath.Dir(path)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(dir, "data", "db", "reviews.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("DatabasePath = %q, want %q", cfg.Storage.DatabasePath, wantDB)
	}
	wantCorpus := filepath.Join(dir, "data", "laws.yaml")
	if cfg.Corpus.Path != wantCorpus {
		t.Errorf("Corpus.Path = %q, want %q", cfg.Corpus.Path, wantCorpus)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [unterminated")); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Server.Port = 9191
	cfg.Storage.DatabasePath = "/tmp/qanoon/reviews.db"
	cfg.Assistant.LegacyMock = true
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Server.Port != 9191 || !got.Assistant.LegacyMock {
		t.Errorf("round trip lost values: %+v", got)
	}
	if got.Storage.DatabasePath != "/tmp/qanoon/reviews.db" {
		t.Errorf("DatabasePath = %q", got.Storage.DatabasePath)
	}
}

func TestApplyDefaults_rateLimitBurst(t *testing.T) {
	cfg := &Config{Server: ServerConfig{RateLimitRPS: 5}}
	ApplyDefaults(cfg)
	if cfg.Server.RateLimitBurst != 11 {
		t.Errorf("RateLimitBurst = %d, want 11", cfg.Server.RateLimitBurst)
	}

	cfg = &Config{Server: ServerConfig{RateLimitRPS: -1}}
	ApplyDefaults(cfg)
	if cfg.Server.RateLimitRPS != 0 || cfg.Server.RateLimitBurst != 0 {
		t.Errorf("negative rate should disable limiting: %+v", cfg.Server)
	}
}

func TestAssistantConfig_ReferenceLimit(t *testing.T) {
	tests := []struct {
		name string
		cfg  AssistantConfig
		want int
	}{
		{"uncapped", AssistantConfig{}, 0},
		{"explicit", AssistantConfig{MaxReferences: 5}, 5},
		{"legacy", AssistantConfig{LegacyMock: true}, 3},
		{"legacy above three", AssistantConfig{LegacyMock: true, MaxReferences: 8}, 3},
		{"legacy below three", AssistantConfig{LegacyMock: true, MaxReferences: 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ReferenceLimit(); got != tt.want {
				t.Errorf("ReferenceLimit() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("QANOON_PORT", "7070")
	t.Setenv("QANOON_DEBUG", "true")
	t.Setenv("QANOON_CORPUS_PATH", "/srv/laws.xlsx")
	t.Setenv("QANOON_RATE_LIMIT_RPS", "2.5")
	t.Setenv("QANOON_LEGACY_MOCK", "1")

	cfg := Default()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7070 || !cfg.Debug {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.Corpus.Path != "/srv/laws.xlsx" {
		t.Errorf("Corpus.Path = %q", cfg.Corpus.Path)
	}
	if cfg.Server.RateLimitRPS != 2.5 || cfg.Server.RateLimitBurst != 6 {
		t.Errorf("rate limit = %v/%d", cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	}
	if !cfg.Assistant.LegacyMock {
		t.Error("legacy mock should be enabled")
	}
}

func TestApplyEnv_invalid(t *testing.T) {
	t.Setenv("QANOON_PORT", "eighty")
	t.Setenv("QANOON_DEBUG", "maybe")
	if err := ApplyEnv(Default()); err == nil {
		t.Error("expected error for invalid values")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("QANOON_TEST_DOTENV_HOST=0.0.0.0\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("QANOON_TEST_DOTENV_HOST") })

	if err := LoadDotEnv(filepath.Join(dir, "absent.env"), envFile); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("QANOON_TEST_DOTENV_HOST"); got != "0.0.0.0" {
		t.Errorf("QANOON_TEST_DOTENV_HOST = %q", got)
	}
}

func TestLoad_customTerms(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
glossary:
  custom_terms:
    - term: "Emiratisation"
      definition: "Quota for hiring UAE nationals in the private sector"
      category: "labor"
      synonyms: ["nafis"]
    - term: "Ejari"
      definition: "Dubai tenancy contract registration"
`))
	if err != nil {
		t.Fatal(err)
	}
	terms := cfg.Glossary.CustomTerms
	if len(terms) != 2 {
		t.Fatalf("custom terms = %+v", terms)
	}
	if terms[0].Category != "labor" || terms[0].Complexity != "moderate" || len(terms[0].Synonyms) != 1 {
		t.Errorf("first term = %+v", terms[0])
	}
	if terms[1].Category != "general" {
		t.Errorf("category should default to general, got %q", terms[1].Category)
	}
}
