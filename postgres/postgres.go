// Package postgres stores courses in PostgreSQL with the pgvector
// extension. Each academic term gets its own table (f2024_s2025) holding
// one row per course and a fixed-dimension embedding column.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/fwojciec/courserec"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

// DefaultMaxConns is the default size of the connection pool.
const DefaultMaxConns = 4

// termTablePattern matches tables created by this package.
var termTablePattern = regexp.MustCompile(`^f(\d{4})_s\d{4}$`)

// DB wraps a pgx connection pool.
type DB struct {
	pool *pgxpool.Pool
	dsn  string

	// Dimensions is the size of the embedding column of new tables.
	Dimensions int

	// Recreate drops and recreates a term table the first time it is used.
	Recreate bool

	MaxConns int32

	sb    sq.StatementBuilderType
	mu    sync.Mutex
	ready map[int]bool
}

// NewDB creates a new DB for the given connection string.
func NewDB(dsn string) *DB {
	return &DB{
		dsn:        dsn,
		Dimensions: courserec.DefaultEmbeddingDimensions,
		MaxConns:   DefaultMaxConns,
		sb:         sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		ready:      make(map[int]bool),
	}
}

// Open enables the vector extension and connects a pool whose connections
// know the vector type.
func (db *DB) Open(ctx context.Context) error {
	if db.dsn == "" {
		return courserec.Errorf(courserec.EINVALID, "postgres connection string required")
	}

	cfg, err := pgxpool.ParseConfig(db.dsn)
	if err != nil {
		return courserec.Errorf(courserec.EINVALID, "invalid postgres connection string: %v", err)
	}
	if db.MaxConns > 0 {
		cfg.MaxConns = db.MaxConns
	}
	cfg.MaxConnLifetime = time.Hour

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Type registration looks up the vector OID, so the extension has to
	// exist before the first pooled connection is made.
	conn, err := pgx.ConnectConfig(ctx, cfg.ConnConfig.Copy())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	_, err = conn.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`)
	_ = conn.Close(ctx)
	if err != nil {
		return fmt.Errorf("failed to enable pgvector: %w", err)
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	db.pool = pool
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// tableName returns the quoted table name for the term starting in year.
func tableName(year int) string {
	return pgx.Identifier{courserec.TermLabel(year)}.Sanitize()
}

// ensureTable creates the term table for year on first use, dropping it
// first when Recreate is set.
func (db *DB) ensureTable(ctx context.Context, year int) error {
	if year <= 0 {
		return courserec.Errorf(courserec.EINVALID, "catalog year required")
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if db.ready[year] {
		return nil
	}

	table := tableName(year)
	if db.Recreate {
		if _, err := db.pool.Exec(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}

	_, err := db.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			link TEXT NOT NULL,
			credits TEXT NOT NULL DEFAULT '',
			prerequisites TEXT NOT NULL DEFAULT '',
			corequisites TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			embedding vector(%d),
			indexed_at TIMESTAMPTZ NOT NULL
		)`, table, db.Dimensions))
	if err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	db.ready[year] = true
	return nil
}

// termYears lists the years that have a term table, in ascending order.
func (db *DB) termYears(ctx context.Context) ([]int, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema()
		ORDER BY table_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if m := termTablePattern.FindStringSubmatch(name); m != nil {
			year, _ := strconv.Atoi(m[1])
			years = append(years, year)
		}
	}
	return years, rows.Err()
}
