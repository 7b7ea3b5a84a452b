package postgres

import (
	"context"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/fwojciec/courserec"
	"github.com/pgvector/pgvector-go"
)

// Compile-time interface verification.
var _ courserec.SearchService = (*SearchService)(nil)

// SearchService ranks courses by pgvector cosine distance.
// Without an index on the embedding column the scan is exact.
type SearchService struct {
	db *DB
}

// NewSearchService creates a new SearchService.
func NewSearchService(db *DB) *SearchService {
	return &SearchService{db: db}
}

// Search returns the opts.Limit nearest courses, scored as 1 - cosine
// distance and ordered by descending score and then by code. A zero
// opts.Year searches every term table.
func (s *SearchService) Search(ctx context.Context, embedding []float32, opts courserec.SearchOptions) ([]courserec.SearchResult, error) {
	if len(embedding) == 0 {
		return nil, courserec.Errorf(courserec.EINVALID, "query embedding required")
	}
	if len(embedding) != s.db.Dimensions {
		return nil, courserec.Errorf(courserec.EINVALID,
			"query embedding has %d dimensions but the store uses %d", len(embedding), s.db.Dimensions)
	}

	years := []int{opts.Year}
	if opts.Year == 0 {
		var err error
		if years, err = s.db.termYears(ctx); err != nil {
			return nil, err
		}
	} else if err := s.db.ensureTable(ctx, opts.Year); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = courserec.DefaultTopK
	}

	vector := pgvector.NewVector(embedding)
	var results []courserec.SearchResult
	for _, year := range years {
		found, err := s.searchTerm(ctx, year, vector, limit, opts.MinScore)
		if err != nil {
			return nil, err
		}
		results = append(results, found...)
	}

	if len(years) > 1 {
		sortResults(results)
		if len(results) > limit {
			results = results[:limit]
		}
	}
	return results, nil
}

func (s *SearchService) searchTerm(ctx context.Context, year int, vector pgvector.Vector, limit int, minScore float32) ([]courserec.SearchResult, error) {
	query, args, err := searchQuery(s.db.sb, year, vector, limit, minScore)
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []courserec.SearchResult
	for rows.Next() {
		var score float64
		course, err := scanCourse(rows, year, &score)
		if err != nil {
			return nil, err
		}
		course.Embedding = nil
		results = append(results, courserec.SearchResult{Course: course, Score: float32(score)})
	}
	return results, rows.Err()
}

// searchQuery builds the nearest-neighbour query for one term table.
func searchQuery(sb sq.StatementBuilderType, year int, vector pgvector.Vector, limit int, minScore float32) (string, []any, error) {
	sel := sb.Select(courseColumns...).
		Column(sq.Expr("1 - (embedding <=> ?) AS score", vector)).
		From(courserec.TermLabel(year)).
		Where("embedding IS NOT NULL")
	if minScore > 0 {
		sel = sel.Where(sq.Expr("1 - (embedding <=> ?) >= ?", vector, minScore))
	}
	return sel.
		OrderBy("score DESC", "code").
		Limit(uint64(limit)).
		ToSql()
}

// sortResults orders results merged from several terms the way a single
// term query orders them.
func sortResults(results []courserec.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Course.Code < results[j].Course.Code
	})
}
