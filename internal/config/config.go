// Package config provides configuration loading and structs for the qanoon server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/qanoon/internal/ranking"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Storage   StorageConfig   `yaml:"storage"`
	Search    SearchConfig    `yaml:"search"`
	Assistant AssistantConfig `yaml:"assistant"`
	Glossary  GlossaryConfig  `yaml:"glossary"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Per-client request rate on the public API; 0 disables limiting.
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// CorpusConfig locates the legal-document corpus. An empty path selects the
// built-in corpus.
type CorpusConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// StorageConfig holds the review database location.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// SearchConfig holds search settings.
type SearchConfig struct {
	DefaultLimit int                   `yaml:"default_limit"`
	MaxLimit     int                   `yaml:"max_limit"`
	SpellCheck   *bool                 `yaml:"spell_check"`
	Ranking      ranking.RankingConfig `yaml:"ranking"`

	// SpellMinTermLength is the shortest query word the spell checker corrects.
	SpellMinTermLength int `yaml:"spell_min_term_length"`
}

// SpellCheckEnabled returns whether "did you mean" suggestions are on; defaults to true when unset.
func (s *SearchConfig) SpellCheckEnabled() bool {
	if s.SpellCheck != nil {
		return *s.SpellCheck
	}
	return true
}

// GlossaryConfig holds site-specific terms added on top of the built-in
// glossary and entity tables at startup.
type GlossaryConfig struct {
	CustomTerms []CustomTerm `yaml:"custom_terms"`
}

// CustomTerm is a legal term registered from configuration.
type CustomTerm struct {
	Term         string   `yaml:"term"`
	Definition   string   `yaml:"definition"`
	Category     string   `yaml:"category"`
	Complexity   string   `yaml:"complexity"`
	Synonyms     []string `yaml:"synonyms"`
	RelatedTerms []string `yaml:"related_terms"`
}

// AssistantConfig holds the answer endpoint settings.
type AssistantConfig struct {
	// MaxReferences caps resolved citations; 0 means no cap.
	MaxReferences int `yaml:"max_references"`
	// LegacyMock reproduces the original mock endpoint: at most three references.
	LegacyMock  bool  `yaml:"legacy_mock"`
	ReviewQueue *bool `yaml:"review_queue"`
}

// ReviewQueueEnabled returns whether low-trust answers are queued; defaults to true when unset.
func (a *AssistantConfig) ReviewQueueEnabled() bool {
	if a.ReviewQueue != nil {
		return *a.ReviewQueue
	}
	return true
}

// ReferenceLimit returns the effective citation cap, 0 for none.
func (a *AssistantConfig) ReferenceLimit() int {
	if a.LegacyMock && (a.MaxReferences == 0 || a.MaxReferences > legacyMaxReferences) {
		return legacyMaxReferences
	}
	return a.MaxReferences
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Corpus.Path != "" {
		cfg.Corpus.Path = expandPath(cfg.Corpus.Path, configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
