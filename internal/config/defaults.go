package config

const legacyMaxReferences = 3

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitRPS < 0 {
		cfg.Server.RateLimitRPS = 0
	}
	if cfg.Server.RateLimitRPS > 0 && cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = int(cfg.Server.RateLimitRPS*2) + 1
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/qanoon/data/db/reviews.db"
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.DefaultLimit > cfg.Search.MaxLimit {
		cfg.Search.DefaultLimit = cfg.Search.MaxLimit
	}
	if cfg.Search.SpellMinTermLength <= 0 {
		cfg.Search.SpellMinTermLength = 4
	}
	cfg.Search.Ranking.ApplyDefaults()
	for i := range cfg.Glossary.CustomTerms {
		t := &cfg.Glossary.CustomTerms[i]
		if t.Category == "" {
			t.Category = "general"
		}
		if t.Complexity == "" {
			t.Complexity = "moderate"
		}
	}
	if cfg.Assistant.MaxReferences < 0 {
		cfg.Assistant.MaxReferences = 0
	}
}
