package sqlite

import (
	"context"
	"sort"
	"strings"

	"github.com/fwojciec/courserec"
)

// Compile-time interface verification.
var _ courserec.SearchService = (*SearchService)(nil)

// SearchService ranks stored courses by cosine similarity to a query
// embedding. It scans every embedded course of the requested year, so
// results are exact rather than approximate.
type SearchService struct {
	db *DB
}

// NewSearchService creates a new SearchService.
func NewSearchService(db *DB) *SearchService {
	return &SearchService{db: db}
}

// Search returns the opts.Limit courses most similar to embedding, ordered
// by descending score and then by code.
func (s *SearchService) Search(ctx context.Context, embedding []float32, opts courserec.SearchOptions) ([]courserec.SearchResult, error) {
	if len(embedding) == 0 {
		return nil, courserec.Errorf(courserec.EINVALID, "query embedding required")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = courserec.DefaultTopK
	}

	var query strings.Builder
	var args []any
	query.WriteString(`SELECT ` + courseColumns + ` FROM courses WHERE embedding IS NOT NULL`)
	if opts.Year != 0 {
		query.WriteString(" AND year = ?")
		args = append(args, opts.Year)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []courserec.SearchResult
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		if len(course.Embedding) != len(embedding) {
			return nil, courserec.Errorf(courserec.EINVALID,
				"query embedding has %d dimensions but course %s has %d; re-index with the same embedding model",
				len(embedding), course.Code, len(course.Embedding))
		}

		score := courserec.CosineSimilarity(embedding, course.Embedding)
		if opts.MinScore > 0 && score < opts.MinScore {
			continue
		}
		course.Embedding = nil
		results = append(results, courserec.SearchResult{Course: course, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Course.Code < results[j].Course.Code
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
