package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/courserec"
	"github.com/fwojciec/courserec/crawl"
	"github.com/fwojciec/courserec/gemini"
	"github.com/fwojciec/courserec/gobreaker"
	"github.com/fwojciec/courserec/goquery"
	"github.com/fwojciec/courserec/htmltomarkdown"
	cchttp "github.com/fwojciec/courserec/http"
	"github.com/fwojciec/courserec/openai"
	"github.com/fwojciec/courserec/postgres"
	ccprom "github.com/fwojciec/courserec/prometheus"
	"github.com/fwojciec/courserec/rag"
	ccslog "github.com/fwojciec/courserec/slog"
	"github.com/fwojciec/courserec/sqlite"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services used instead of the configured ones when set. Intended for
	// end-to-end tests.
	Courses   courserec.CourseService
	Search    courserec.SearchService
	Embedder  courserec.Embedder
	Generator courserec.Generator
	Judge     courserec.Judge
	Source    courserec.CourseSource

	// Registry collects the metrics served on /metrics.
	Registry *prometheus.Registry

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Main{Registry: reg}
}

// Close releases the resources opened by Run.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i]())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("courserec"),
		kong.Description("Recommend university courses from an indexed course catalog."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{
			"year":        strconv.Itoa(defaultYear(time.Now())),
			"dimensions":  strconv.Itoa(courserec.DefaultEmbeddingDimensions),
			"top_k":       strconv.Itoa(courserec.DefaultTopK),
			"catalog_url": courserec.DefaultCatalogURL,
			"institution": courserec.DefaultInstitution,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'courserec --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	if cli.Year <= 0 {
		return courserec.Errorf(courserec.EINVALID, "catalog year must be positive")
	}
	deps.Year = cli.Year
	deps.Logger = newLogger(stderr, cli.LogLevel)

	defer m.Close()
	if err := m.wire(ctx, cli, cmd, deps); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire builds the services the command needs.
func (m *Main) wire(ctx context.Context, cli *CLI, cmd string, deps *Dependencies) error {
	logger := deps.Logger

	if err := m.openStore(ctx, cli, cmd, deps.Stderr); err != nil {
		return err
	}
	deps.Courses = m.Courses
	deps.Gatherer = m.Registry
	deps.Metrics = ccprom.NewMetrics(m.Registry)

	if cmd == "count" || cmd == "list" {
		return nil
	}

	if err := m.openModels(ctx, cli, deps.Stderr); err != nil {
		return err
	}
	deps.Embedder = m.Embedder
	deps.Judge = m.Judge

	generator := gobreaker.NewGenerator(
		ccslog.NewLoggingGenerator(m.Generator, logger),
		gobreaker.Settings{Name: cli.Provider, Logger: logger},
	)

	deps.Retriever = ccslog.NewLoggingRetriever(ccprom.NewRetriever(&rag.Retriever{
		Embedder: m.Embedder,
		Search:   m.Search,
		Year:     cli.Year,
		TopK:     cli.TopK,
	}, deps.Metrics), logger)

	deps.Recommender = ccslog.NewLoggingRecommender(ccprom.NewRecommender(&rag.Recommender{
		Retriever:   deps.Retriever,
		Generator:   generator,
		Year:        cli.Year,
		Institution: cli.Institution,
		TopK:        cli.TopK,
	}, deps.Metrics), logger)

	var flags *ScrapeFlags
	switch {
	case cmd == "index":
		flags = &cli.Index.ScrapeFlags
	case cmd == "serve" && cli.Serve.Index:
		flags = &cli.Serve.ScrapeFlags
	default:
		return nil
	}

	policy, err := courserec.ParseDuplicatePolicy(flags.Policy)
	if err != nil {
		return err
	}
	deps.Indexer = &rag.Indexer{
		Courses:   m.Courses,
		Embedder:  m.Embedder,
		BatchSize: flags.BatchSize,
		Policy:    policy,
		Logger:    logger,
	}
	if tc, err := gemini.NewTokenCounter(gemini.DefaultModel); err != nil {
		logger.Warn("token counting disabled", "error", err)
	} else {
		deps.Indexer.TokenCounter = tc
	}

	deps.Source = m.Source
	if deps.Source == nil {
		deps.Source = m.newScraper(cli, flags, cmd, deps)
	}
	return nil
}

func (m *Main) openStore(ctx context.Context, cli *CLI, cmd string, stderr io.Writer) error {
	if m.Courses != nil {
		return nil
	}

	switch cli.Store {
	case "postgres":
		db := postgres.NewDB(cli.PGConnStr)
		db.Dimensions = cli.Dimensions
		db.Recreate = cli.RecreateRequested(cmd)
		if err := db.Open(ctx); err != nil {
			fmt.Fprintln(stderr, "Hint: Set PG_CONN_STR to a PostgreSQL database with the pgvector extension available")
			return fmt.Errorf("failed to open postgres store: %w", err)
		}
		m.closers = append(m.closers, db.Close)
		m.Courses = postgres.NewCourseService(db)
		m.Search = postgres.NewSearchService(db)
	default:
		db := sqlite.NewDB(cli.DB)
		if err := db.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set COURSEREC_DB to use a different database path")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		m.closers = append(m.closers, db.Close)
		m.Courses = sqlite.NewCourseService(db)
		m.Search = sqlite.NewSearchService(db)
	}
	return nil
}

func (m *Main) openModels(ctx context.Context, cli *CLI, stderr io.Writer) error {
	if m.Embedder != nil && m.Generator != nil {
		return nil
	}

	switch cli.Provider {
	case "openai":
		client, err := openai.NewClient(openai.ClientOptions{
			APIKey:  cli.APIToken,
			BaseURL: cli.OpenAIBaseURL,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set API_TOKEN to a token for the OpenAI-compatible endpoint")
			return err
		}
		m.Embedder = openai.NewEmbedder(client, orDefault(cli.EmbeddingModel, openai.DefaultEmbeddingModel), cli.Dimensions)
		m.Generator = openai.NewGenerator(client, orDefault(cli.Model, openai.DefaultModel))
	default:
		if cli.GeminiAPIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return courserec.Errorf(courserec.EINVALID, "GEMINI_API_KEY not set")
		}
		client, err := gemini.NewClient(ctx, cli.GeminiAPIKey)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		model := orDefault(cli.Model, gemini.DefaultModel)
		m.Embedder = gemini.NewEmbedder(client.Models, orDefault(cli.EmbeddingModel, gemini.DefaultEmbeddingModel), cli.Dimensions)
		m.Generator = gemini.NewGenerator(client.Models, model)
		if m.Judge == nil {
			m.Judge = gemini.NewJudge(client.Models, model)
		}
	}
	return nil
}

func (m *Main) newScraper(cli *CLI, flags *ScrapeFlags, cmd string, deps *Dependencies) *crawl.Scraper {
	logger := deps.Logger
	fetchOpts := []cchttp.Option{}
	if flags.FetchTimeout > 0 {
		fetchOpts = append(fetchOpts, cchttp.WithTimeout(flags.FetchTimeout))
	}
	if flags.MaxPageBytes > 0 {
		fetchOpts = append(fetchOpts, cchttp.WithMaxBodyBytes(flags.MaxPageBytes))
	}
	if flags.UserAgent != "" {
		fetchOpts = append(fetchOpts, cchttp.WithUserAgent(flags.UserAgent))
	}

	fetcher := gobreaker.NewFetcher(
		ccslog.NewLoggingFetcher(cchttp.NewFetcher(fetchOpts...), logger),
		gobreaker.Settings{Name: "catalog", Logger: logger},
	)
	m.closers = append(m.closers, fetcher.Close)

	s := &crawl.Scraper{
		BaseURL:     cli.CatalogURL,
		Fetcher:     fetcher,
		Parser:      ccslog.NewLoggingCatalogParser(goquery.NewCatalogParser(), logger),
		Converter:   htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(orDefault(cli.CatalogURL, courserec.DefaultCatalogURL))),
		RateLimiter: crawl.NewDomainLimiter(flags.RPS, 1),
		Concurrency: flags.Concurrency,
		Limit:       flags.Limit,
		Logger: func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		},
	}

	if cmd == "index" {
		stdout, stderr := deps.Stdout, deps.Stderr
		s.Progress = func(event crawl.ProgressEvent) {
			switch event.Type {
			case crawl.ProgressStarted:
				fmt.Fprintf(stdout, "  Page %d: fetching %d courses\n", event.Page, event.Total)
			case crawl.ProgressFailed:
				fmt.Fprintf(stderr, "  skip %s: %v\n", crawl.ShortLink(event.URL, 80), event.Error)
			}
		}
	}
	return s
}

// defaultYear is the start year of the academic year in progress: the
// current year from August on, the previous year before.
func defaultYear(now time.Time) int {
	if now.Month() >= time.August {
		return now.Year()
	}
	return now.Year() - 1
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
