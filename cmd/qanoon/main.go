// Package main is the qanoon CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/qanoon/internal/assistant"
	"github.com/hyperjump/qanoon/internal/cli"
	"github.com/hyperjump/qanoon/internal/config"
	"github.com/hyperjump/qanoon/internal/corpus"
	"github.com/hyperjump/qanoon/internal/entity"
	"github.com/hyperjump/qanoon/internal/glossary"
	"github.com/hyperjump/qanoon/internal/intent"
	"github.com/hyperjump/qanoon/internal/models"
	"github.com/hyperjump/qanoon/internal/search"
	"github.com/hyperjump/qanoon/internal/server"
	"github.com/hyperjump/qanoon/internal/storage"
	"github.com/hyperjump/qanoon/internal/watcher"
	"github.com/hyperjump/qanoon/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/qanoon/config.yaml"

// loadConfig loads config from path, then applies .env and QANOON_* overrides.
// When path is the default, config.yaml in the current directory wins if it
// exists; when neither exists the built-in defaults are used.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, "", err
	}

	resolved := path
	if path == defaultConfigPath {
		resolved = ""
		if cwd, err := os.Getwd(); err == nil {
			if fallback := filepath.Join(cwd, "config.yaml"); fileExists(fallback) {
				resolved = fallback
			}
		}
		if resolved == "" && fileExists(defaultConfigPath) {
			resolved = defaultConfigPath
		}
	}

	cfg := config.Default()
	if resolved != "" {
		loaded, err := config.Load(resolved)
		if err != nil {
			return nil, "", err
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, "", err
	}
	return cfg, resolved, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "ask":
		runAsk()
	case "classify":
		runClassify()
	case "extract":
		runExtract()
	case "glossary":
		runGlossary()
	case "reviews":
		runReviews()
	case "version", "--version", "-v":
		fmt.Printf("qanoon version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds the initialized core services.
type Components struct {
	Corpus    *corpus.Store
	Engine    *search.Engine
	Glossary  *glossary.Glossary
	Extractor *entity.Extractor
	// Storage is nil when the review queue is disabled.
	Storage   storage.Storage
	Assistant *assistant.Assistant
}

// Close releases the search index and the review database.
func (c *Components) Close() {
	if c.Engine != nil {
		_ = c.Engine.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, withStorage bool) (*Components, error) {
	store, err := corpus.Open(cfg.Corpus.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	engine, err := search.NewEngine(store, &cfg.Search, search.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize search engine: %w", err)
	}

	gloss, err := glossary.Default()
	if err != nil {
		_ = engine.Close()
		return nil, fmt.Errorf("failed to load glossary: %w", err)
	}

	c := &Components{
		Corpus:    store,
		Engine:    engine,
		Glossary:  gloss,
		Extractor: entity.NewExtractor(entity.NewDefaultTermRegistry()),
	}
	registerCustomTerms(cfg.Glossary.CustomTerms, c.Glossary, c.Extractor, logger)

	opts := []assistant.Option{assistant.WithLogger(logger)}
	if withStorage {
		st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		c.Storage = st
		opts = append(opts, assistant.WithStorage(st))
	}
	c.Assistant = assistant.New(store, engine, c.Extractor, &cfg.Assistant, opts...)
	return c, nil
}

// registerCustomTerms adds configured terms to the glossary and to the
// extractor's term table. Terms without a definition are skipped.
func registerCustomTerms(terms []config.CustomTerm, gloss *glossary.Glossary, extractor *entity.Extractor, logger *zap.Logger) {
	for _, t := range terms {
		if strings.TrimSpace(t.Term) == "" || strings.TrimSpace(t.Definition) == "" {
			logger.Warn("skipping custom term without a definition", zap.String("term", t.Term))
			continue
		}
		extractor.Terms().AddCustomTerm(t.Term, t.Definition, t.Category)
		added := gloss.AddCustomTerm(&glossary.Entry{
			Term:         t.Term,
			Definition:   t.Definition,
			Category:     t.Category,
			Complexity:   glossary.Complexity(t.Complexity),
			RelatedTerms: t.RelatedTerms,
			Synonyms:     t.Synonyms,
		})
		if !added {
			logger.Debug("custom term already in glossary", zap.String("term", t.Term))
		}
	}
}

// setup loads config, creates the logger and initializes components. It exits
// on failure.
func setup(configPath string, debug, withStorage bool) (*config.Config, *zap.Logger, *Components) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger, withStorage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return cfg, logger, components
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, cfg.Assistant.ReviewQueueEnabled())
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Corpus.Watch && cfg.Corpus.Path != "" {
		store := components.Corpus
		watchSvc, err := watcher.NewWatcher([]string{cfg.Corpus.Path}, func(path string) {
			if err := store.Reload(); err != nil {
				logger.Warn("corpus reload failed", zap.String("path", path), zap.Error(err))
			}
		}, watcher.WithLogger(logger))
		if err != nil {
			logger.Fatal("Failed to create watcher", zap.Error(err))
		}
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(
		components.Assistant,
		components.Engine,
		components.Glossary,
		components.Corpus,
		components.Storage,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseFormat(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

func exitOnOutputError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: qanoon search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  qanoon search end of service gratuity
  qanoon search --category labor notice period
  qanoon search --server http://localhost:8080 --output json visa
`)
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = search the corpus directly)")
	category := fs.String("category", "", "restrict results to a category id")
	limit := fs.Int("limit", 10, "number of results")
	offset := fs.Int("offset", 0, "number of results to skip")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)

	searchQuery := &models.SearchQuery{
		Query:    queryStr,
		Category: *category,
		Limit:    *limit,
		Offset:   *offset,
	}

	if *serverURL != "" {
		response, err := searchViaHTTP(*serverURL, searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		exitOnOutputError(cli.WriteSearchResults(os.Stdout, response, format))
		return
	}

	_, logger, components := setup(*configPath, false, false)
	defer logger.Sync()
	defer components.Close()

	response, err := components.Engine.Search(context.Background(), searchQuery)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	exitOnOutputError(cli.WriteSearchResults(os.Stdout, response, format))
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query.Query)
	if query.Category != "" {
		params.Set("category", query.Category)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		params.Set("offset", strconv.Itoa(query.Offset))
	}
	resp, err := http.Get(strings.TrimRight(serverURL, "/") + "/api/search?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	var response models.SearchResponse
	if err := decodeResponse(resp, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func askViaHTTP(serverURL string, req *assistant.Request) (*assistant.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(strings.TrimRight(serverURL, "/")+"/api/ai-assistant", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	var response assistant.Response
	if err := decodeResponse(resp, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func decodeResponse(resp *http.Response, v any) error {
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = answer directly)")
	contextLaw := fs.String("law", "", "id of the law the question is about")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	question := buildQuery(fs.Args())
	if question == "" {
		fmt.Fprintln(os.Stderr, "Usage: qanoon ask [flags] <question>")
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)

	req := &assistant.Request{Question: question}
	if *contextLaw != "" {
		req.ContextLaw = &assistant.ContextLaw{ID: *contextLaw}
	}

	if *serverURL != "" {
		resp, err := askViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		exitOnOutputError(cli.WriteAnswer(os.Stdout, resp, format))
		return
	}

	// Questions asked from the CLI are not queued for review.
	_, logger, components := setup(*configPath, false, false)
	defer logger.Sync()
	defer components.Close()

	resp, err := components.Assistant.Ask(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	exitOnOutputError(cli.WriteAnswer(os.Stdout, resp, format))
}

func runClassify() {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	query := buildQuery(fs.Args())
	format := parseFormat(*outputFormat)
	in := intent.NewClassifier().Classify(query)
	exitOnOutputError(cli.WriteIntent(os.Stdout, query, in, format))
}

func runExtract() {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	file := fs.String("file", "", "read text from file instead of arguments (- for stdin)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	format := parseFormat(*outputFormat)
	text, err := readText(*file, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read text: %v\n", err)
		os.Exit(1)
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "Usage: qanoon extract [flags] <text>")
		os.Exit(1)
	}
	ex := entity.NewExtractor(entity.NewDefaultTermRegistry()).Extract(text)
	exitOnOutputError(cli.WriteExtraction(os.Stdout, ex, format))
}

// readText returns the content of file ("-" for stdin) or the joined args.
func readText(file string, args []string) (string, error) {
	switch file {
	case "":
		return buildQuery(args), nil
	case "-":
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	default:
		b, err := os.ReadFile(file)
		return string(b), err
	}
}

func runGlossary() {
	fs := flag.NewFlagSet("glossary", flag.ExitOnError)
	category := fs.String("category", "", "list terms in a category")
	complexity := fs.String("complexity", "", "list terms of a complexity: simple, moderate, or complex")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	format := parseFormat(*outputFormat)
	gloss, err := glossary.Default()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load glossary: %v\n", err)
		os.Exit(1)
	}
	exitOnOutputError(cli.WriteGlossary(os.Stdout, lookupGlossary(gloss, buildQuery(fs.Args()), *category, *complexity), format))
}

// lookupGlossary resolves an exact term first (with its related terms), then
// falls back to keyword search, category and complexity filters.
func lookupGlossary(gloss *glossary.Glossary, query, category, complexity string) []*glossary.Entry {
	switch {
	case query != "":
		if entry, ok := gloss.Definition(query); ok {
			return append([]*glossary.Entry{entry}, gloss.Related(entry.Term)...)
		}
		return gloss.Search(query)
	case category != "":
		return gloss.ByCategory(category)
	case complexity != "":
		return gloss.ByComplexity(glossary.Complexity(strings.ToLower(complexity)))
	default:
		return gloss.All()
	}
}

func runReviews() {
	args := os.Args[2:]
	action := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		action, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet("reviews", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	status := fs.String("status", "", "list: pending (default), approved, rejected, or all; resolve: approved or rejected")
	note := fs.String("note", "", "reviewer note (resolve)")
	limit := fs.Int("limit", 20, "number of reviews to list")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(argsReorder(args))
	format := parseFormat(*outputFormat)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open review database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()
	ctx := context.Background()

	switch action {
	case "list":
		filter, err := listStatus(*status)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		reviews, err := st.ListReviews(ctx, filter, 0, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "List reviews failed: %v\n", err)
			os.Exit(1)
		}
		exitOnOutputError(cli.WriteReviews(os.Stdout, reviews, format))
	case "resolve":
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: qanoon reviews resolve --status approved|rejected [--note text] <id>")
			os.Exit(1)
		}
		resolution := models.ReviewStatus(*status)
		if resolution != models.ReviewApproved && resolution != models.ReviewRejected {
			fmt.Fprintln(os.Stderr, "--status must be approved or rejected")
			os.Exit(1)
		}
		review, err := st.ResolveReview(ctx, fs.Arg(0), resolution, *note)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Resolve failed: %v\n", err)
			os.Exit(1)
		}
		exitOnOutputError(cli.WriteReviews(os.Stdout, []*models.Review{review}, format))
	default:
		fmt.Fprintf(os.Stderr, "Unknown reviews action: %s (want list or resolve)\n", action)
		os.Exit(1)
	}
}

// listStatus maps the --status flag to a filter. Empty selects pending; "all"
// selects every status.
func listStatus(s string) (models.ReviewStatus, error) {
	switch s {
	case "":
		return models.ReviewPending, nil
	case "all":
		return "", nil
	}
	status := models.ReviewStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown review status %q", s)
	}
	return status, nil
}

func printUsage() {
	fmt.Println(`qanoon - Legal question understanding and answer confidence

Usage:
  qanoon server [flags]              Start the HTTP server
  qanoon search [flags] <query>      Rank corpus documents for a query
  qanoon ask [flags] <question>      Answer a question with references and confidence
  qanoon classify [flags] <query>    Classify the intent of a query
  qanoon extract [flags] <text>      Extract legal entities from text
  qanoon glossary [flags] [term]     Look up legal terms
  qanoon reviews [list|resolve]      Manage the human review queue
  qanoon version                     Show version
  qanoon help                        Show this help

Common flags:
  --config <path>    Config file (default /usr/local/etc/qanoon/config.yaml,
                     or ./config.yaml when present)
  --output <format>  text, compact, or json

Environment:
  QANOON_* variables override the config file; a .env file in the working
  directory is loaded first.`)
}
