package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "QANOON_"

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with QANOON_* environment variables and re-applies
// defaults.
func ApplyEnv(cfg *Config) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	float := func(name string, dst *float64) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}

	boolean("DEBUG", &cfg.Debug)
	str("HOST", &cfg.Server.Host)
	integer("PORT", &cfg.Server.Port)
	float("RATE_LIMIT_RPS", &cfg.Server.RateLimitRPS)
	integer("RATE_LIMIT_BURST", &cfg.Server.RateLimitBurst)
	str("CORPUS_PATH", &cfg.Corpus.Path)
	boolean("CORPUS_WATCH", &cfg.Corpus.Watch)
	str("DATABASE_PATH", &cfg.Storage.DatabasePath)
	boolean("LEGACY_MOCK", &cfg.Assistant.LegacyMock)
	integer("MAX_REFERENCES", &cfg.Assistant.MaxReferences)

	if err := errors.Join(errs...); err != nil {
		return err
	}
	ApplyDefaults(cfg)
	return nil
}
