package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/courserec"
	ccprom "github.com/fwojciec/courserec/prometheus"
	"github.com/fwojciec/courserec/rag"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Year int

	Courses     courserec.CourseService
	Source      courserec.CourseSource
	Indexer     *rag.Indexer
	Retriever   courserec.Retriever
	Recommender courserec.Recommender
	Embedder    courserec.Embedder
	Judge       courserec.Judge

	Metrics  *ccprom.Metrics
	Gatherer prometheus.Gatherer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB        string `name:"db" env:"COURSEREC_DB" default:"courserec.db" help:"SQLite database path"`
	Store     string `env:"COURSEREC_STORE" enum:"sqlite,postgres" default:"sqlite" help:"Vector store (${enum})"`
	PGConnStr string `name:"pg-conn-str" env:"PG_CONN_STR" help:"PostgreSQL connection string for the postgres store"`
	Year      int    `env:"COURSEREC_YEAR" default:"${year}" help:"Catalog year, e.g. 2024 for fall 2024 to spring 2025"`

	Provider       string `env:"COURSEREC_PROVIDER" enum:"gemini,openai" default:"gemini" help:"Model provider (${enum})"`
	GeminiAPIKey   string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	APIToken       string `name:"api-token" env:"API_TOKEN" help:"Token for the OpenAI-compatible endpoint"`
	OpenAIBaseURL  string `name:"openai-base-url" env:"OPENAI_BASE_URL" help:"OpenAI-compatible endpoint"`
	Model          string `env:"COURSEREC_MODEL" help:"Generation model (provider default when empty)"`
	EmbeddingModel string `env:"COURSEREC_EMBEDDING_MODEL" help:"Embedding model (provider default when empty)"`
	Dimensions     int    `env:"COURSEREC_EMBEDDING_DIMENSIONS" default:"${dimensions}" help:"Embedding dimensions"`
	TopK           int    `name:"top-k" env:"COURSEREC_TOP_K" default:"${top_k}" help:"Courses retrieved per question"`

	CatalogURL  string `env:"COURSEREC_CATALOG_URL" default:"${catalog_url}" help:"Catalog site root"`
	Institution string `env:"COURSEREC_INSTITUTION" default:"${institution}" help:"Institution named in prompts"`

	LogLevel string `env:"COURSEREC_LOG_LEVEL" enum:"debug,info,warn,error" default:"info" help:"Log level (${enum})"`

	Index     IndexCmd     `cmd:"" help:"Scrape the catalog and index course embeddings"`
	Count     CountCmd     `cmd:"" help:"Count indexed courses"`
	List      ListCmd      `cmd:"" help:"List indexed courses"`
	Query     QueryCmd     `cmd:"" help:"Show the courses most similar to a question"`
	Recommend RecommendCmd `cmd:"" help:"Recommend courses for a question"`
	Serve     ServeCmd     `cmd:"" help:"Serve the recommendation API"`
	Eval      EvalCmd      `cmd:"" help:"Evaluate retrieval and answers against a labelled dataset"`
}

// RecreateRequested reports whether cmd starts by dropping the indexed
// courses of the configured year.
func (c *CLI) RecreateRequested(cmd string) bool {
	switch cmd {
	case "index":
		return c.Index.Recreate
	case "serve":
		return c.Serve.Index && c.Serve.Recreate
	}
	return false
}

// ScrapeFlags configure catalog scraping and indexing.
type ScrapeFlags struct {
	Limit       int     `help:"Stop after this many courses (0 for all)"`
	Concurrency int     `short:"c" default:"4" help:"Concurrent course page fetches"`
	RPS         float64 `name:"rps" default:"1" help:"Requests per second to the catalog site"`
	BatchSize   int     `default:"10" help:"Courses embedded per request"`
	Policy      string  `enum:"skip,overwrite,fail" default:"skip" help:"What to do with already indexed courses (${enum})"`
	Recreate    bool    `help:"Delete the year's courses before indexing"`

	UserAgent    string        `help:"User-Agent sent to the catalog site (identifies courserec when empty)"`
	FetchTimeout time.Duration `default:"10s" help:"Timeout for one catalog page request"`
	MaxPageBytes int64         `default:"5242880" help:"Reject catalog pages larger than this many bytes"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	ScrapeFlags `embed:""`
}

// CountCmd is the "count" subcommand.
type CountCmd struct {
	All bool `help:"Count courses of every year"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	All    bool     `help:"List courses of every year"`
	Codes  []string `arg:"" optional:"" help:"Only list these course codes"`
	Offset int      `help:"Skip this many courses"`
	Limit  int      `short:"n" help:"Show at most this many courses (0 for all)"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	Question string `arg:"" help:"Question to match courses against"`
	K        int    `short:"k" help:"Number of courses to show (defaults to --top-k)"`
}

// RecommendCmd is the "recommend" subcommand.
type RecommendCmd struct {
	Question string `arg:"" help:"Question to answer"`
	Sources  bool   `short:"s" help:"List the retrieved courses after the answer"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string  `env:"COURSEREC_ADDR" default:":8080" help:"Listen address"`
	RateLimit float64 `default:"5" help:"Requests per second per client (0 disables)"`
	Burst     int     `default:"10" help:"Request burst per client"`
	Index     bool    `help:"Index the catalog in the background at startup"`

	ScrapeFlags `embed:"" prefix:"index-"`
}

// EvalCmd is the "eval" subcommand.
type EvalCmd struct {
	Dataset          string `arg:"" type:"existingfile" help:"YAML dataset of labelled questions"`
	RecallMode       string `enum:"single_hit,multi_hit" default:"single_hit" help:"Recall mode (${enum})"`
	RetrievalOnly    bool   `help:"Skip answer generation and judged metrics"`
	FailOnJudgeError bool   `help:"Abort when the judge fails instead of skipping the metric"`
}
