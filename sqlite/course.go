package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/courserec"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ courserec.CourseService = (*CourseService)(nil)

const courseColumns = `id, year, code, name, description, link, credits, prerequisites,
	corequisites, content_hash, embedding, indexed_at`

// CourseService implements courserec.CourseService using SQLite.
type CourseService struct {
	db *DB
}

// NewCourseService creates a new CourseService.
func NewCourseService(db *DB) *CourseService {
	return &CourseService{db: db}
}

// WriteCourse stores course, resolving an existing (year, code) row
// according to policy. It reports whether the row was written.
func (s *CourseService) WriteCourse(ctx context.Context, course *courserec.Course, policy courserec.DuplicatePolicy) (bool, error) {
	if err := course.Validate(); err != nil {
		return false, err
	}

	existing, err := s.FindCourseByCode(ctx, course.Year, course.Code)
	if err != nil && courserec.ErrorCode(err) != courserec.ENOTFOUND {
		return false, err
	}

	if course.IndexedAt.IsZero() {
		course.IndexedAt = time.Now().UTC()
	}

	if existing == nil {
		course.ID = uuid.New().String()
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO courses (`+courseColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, course.ID, course.Year, course.Code, course.Name, course.Description, course.Link,
			course.Credits, course.Prerequisites, course.Corequisites, course.ContentHash,
			encodeEmbedding(course.Embedding), course.IndexedAt.Format(time.RFC3339Nano))
		if err != nil {
			return false, fmt.Errorf("insert course %s: %w", course.Code, err)
		}
		return true, nil
	}

	switch policy {
	case courserec.DuplicateOverwrite:
	case courserec.DuplicateFail:
		return false, courserec.Errorf(courserec.ECONFLICT, "course %s already indexed for %d", course.Code, course.Year)
	default:
		return false, nil
	}

	course.ID = existing.ID
	_, err = s.db.ExecContext(ctx, `
		UPDATE courses
		SET name = ?, description = ?, link = ?, credits = ?, prerequisites = ?,
			corequisites = ?, content_hash = ?, embedding = ?, indexed_at = ?
		WHERE id = ?
	`, course.Name, course.Description, course.Link, course.Credits, course.Prerequisites,
		course.Corequisites, course.ContentHash, encodeEmbedding(course.Embedding),
		course.IndexedAt.Format(time.RFC3339Nano), course.ID)
	if err != nil {
		return false, fmt.Errorf("update course %s: %w", course.Code, err)
	}
	return true, nil
}

// FindCourseByCode retrieves a course of the given year by code.
func (s *CourseService) FindCourseByCode(ctx context.Context, year int, code string) (*courserec.Course, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+courseColumns+`
		FROM courses
		WHERE year = ? AND code = ?
	`, year, code)

	course, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, courserec.Errorf(courserec.ENOTFOUND, "course %s not found for %d", code, year)
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

// FindCourses retrieves courses matching the filter, ordered by year and code.
func (s *CourseService) FindCourses(ctx context.Context, filter courserec.CourseFilter) ([]*courserec.Course, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT ` + courseColumns + ` FROM courses WHERE 1=1`)

	if filter.Year != nil {
		query.WriteString(" AND year = ?")
		args = append(args, *filter.Year)
	}
	if len(filter.Codes) > 0 {
		query.WriteString(" AND code IN (?" + strings.Repeat(", ?", len(filter.Codes)-1) + ")")
		for _, code := range filter.Codes {
			args = append(args, code)
		}
	}

	query.WriteString(" ORDER BY year, code")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*courserec.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// CountCourses returns the number of stored courses for year, or for all
// years when year is 0.
func (s *CourseService) CountCourses(ctx context.Context, year int) (int, error) {
	var n int
	var err error
	if year == 0 {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses WHERE year = ?`, year).Scan(&n)
	}
	return n, err
}

// DeleteCourses removes every course of year.
func (s *CourseService) DeleteCourses(ctx context.Context, year int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE year = ?`, year)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCourse(row scanner) (*courserec.Course, error) {
	var course courserec.Course
	var embedding []byte
	var indexedAt string

	err := row.Scan(&course.ID, &course.Year, &course.Code, &course.Name, &course.Description,
		&course.Link, &course.Credits, &course.Prerequisites, &course.Corequisites,
		&course.ContentHash, &embedding, &indexedAt)
	if err != nil {
		return nil, err
	}

	if course.Embedding, err = decodeEmbedding(embedding); err != nil {
		return nil, fmt.Errorf("course %s: %w", course.Code, err)
	}
	if course.IndexedAt, err = parseRFC3339(indexedAt, "indexed_at"); err != nil {
		return nil, err
	}
	return &course, nil
}
