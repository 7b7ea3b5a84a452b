package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/fwojciec/courserec"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

// Compile-time interface verification.
var _ courserec.CourseService = (*CourseService)(nil)

var courseColumns = []string{
	"id", "code", "name", "description", "link", "credits", "prerequisites",
	"corequisites", "content_hash", "embedding", "indexed_at",
}

// CourseService implements courserec.CourseService on term tables.
type CourseService struct {
	db *DB
}

// NewCourseService creates a new CourseService.
func NewCourseService(db *DB) *CourseService {
	return &CourseService{db: db}
}

// WriteCourse stores course in its term table. Conflicts on code are
// resolved by policy; the result reports whether the row was written.
func (s *CourseService) WriteCourse(ctx context.Context, course *courserec.Course, policy courserec.DuplicatePolicy) (bool, error) {
	if err := course.Validate(); err != nil {
		return false, err
	}
	if err := s.db.ensureTable(ctx, course.Year); err != nil {
		return false, err
	}

	if course.IndexedAt.IsZero() {
		course.IndexedAt = time.Now().UTC()
	}

	insert := s.db.sb.Insert(courserec.TermLabel(course.Year)).
		Columns("id", "code", "name", "description", "link", "credits", "prerequisites",
			"corequisites", "content_hash", "embedding", "indexed_at").
		Values(uuid.New().String(), course.Code, course.Name, course.Description, course.Link,
			course.Credits, course.Prerequisites, course.Corequisites, course.ContentHash,
			embeddingValue(course.Embedding), course.IndexedAt)

	switch policy {
	case courserec.DuplicateOverwrite:
		insert = insert.Suffix(`ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description, link = EXCLUDED.link,
			credits = EXCLUDED.credits, prerequisites = EXCLUDED.prerequisites,
			corequisites = EXCLUDED.corequisites, content_hash = EXCLUDED.content_hash,
			embedding = EXCLUDED.embedding, indexed_at = EXCLUDED.indexed_at
			RETURNING id`)
	case courserec.DuplicateFail:
		insert = insert.Suffix("RETURNING id")
	default:
		insert = insert.Suffix("ON CONFLICT (code) DO NOTHING RETURNING id")
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build insert query: %w", err)
	}

	var id string
	err = s.db.pool.QueryRow(ctx, query, args...).Scan(&id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	case isDuplicateKeyError(err):
		return false, courserec.Errorf(courserec.ECONFLICT, "course %s already indexed for %d", course.Code, course.Year)
	case err != nil:
		return false, fmt.Errorf("insert course %s: %w", course.Code, err)
	}

	course.ID = id
	return true, nil
}

// FindCourseByCode retrieves a course of the given year by code.
func (s *CourseService) FindCourseByCode(ctx context.Context, year int, code string) (*courserec.Course, error) {
	if err := s.db.ensureTable(ctx, year); err != nil {
		return nil, err
	}

	query, args, err := s.db.sb.Select(courseColumns...).
		From(courserec.TermLabel(year)).
		Where(sq.Eq{"code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	course, err := scanCourse(s.db.pool.QueryRow(ctx, query, args...), year)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, courserec.Errorf(courserec.ENOTFOUND, "course %s not found for %d", code, year)
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

// FindCourses retrieves courses matching the filter, ordered by year and
// code. Without a year every term table is searched.
func (s *CourseService) FindCourses(ctx context.Context, filter courserec.CourseFilter) ([]*courserec.Course, error) {
	var years []int
	if filter.Year != nil {
		if err := s.db.ensureTable(ctx, *filter.Year); err != nil {
			return nil, err
		}
		years = []int{*filter.Year}
	} else {
		var err error
		if years, err = s.db.termYears(ctx); err != nil {
			return nil, err
		}
	}

	var courses []*courserec.Course
	for _, year := range years {
		sel := s.db.sb.Select(courseColumns...).
			From(courserec.TermLabel(year)).
			OrderBy("code")
		if len(filter.Codes) > 0 {
			sel = sel.Where(sq.Eq{"code": filter.Codes})
		}

		query, args, err := sel.ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build select query: %w", err)
		}

		found, err := s.query(ctx, year, query, args...)
		if err != nil {
			return nil, err
		}
		courses = append(courses, found...)
	}

	return paginate(courses, filter.Offset, filter.Limit), nil
}

// CountCourses returns the number of courses for year, or across all
// term tables when year is 0.
func (s *CourseService) CountCourses(ctx context.Context, year int) (int, error) {
	years := []int{year}
	if year == 0 {
		var err error
		if years, err = s.db.termYears(ctx); err != nil {
			return 0, err
		}
	} else if err := s.db.ensureTable(ctx, year); err != nil {
		return 0, err
	}

	var total int
	for _, y := range years {
		var n int
		if err := s.db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+tableName(y)).Scan(&n); err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// DeleteCourses empties the term table of year.
func (s *CourseService) DeleteCourses(ctx context.Context, year int) error {
	if err := s.db.ensureTable(ctx, year); err != nil {
		return err
	}
	_, err := s.db.pool.Exec(ctx, `DELETE FROM `+tableName(year))
	return err
}

func (s *CourseService) query(ctx context.Context, year int, query string, args ...any) ([]*courserec.Course, error) {
	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*courserec.Course
	for rows.Next() {
		course, err := scanCourse(rows, year)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// isDuplicateKeyError reports whether err is a PostgreSQL unique violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanCourse(row pgx.Row, year int, extra ...any) (*courserec.Course, error) {
	course := courserec.Course{Year: year}
	var embedding *pgvector.Vector

	dest := []any{&course.ID, &course.Code, &course.Name, &course.Description, &course.Link,
		&course.Credits, &course.Prerequisites, &course.Corequisites, &course.ContentHash,
		&embedding, &course.IndexedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if embedding != nil {
		course.Embedding = embedding.Slice()
	}
	return &course, nil
}

// embeddingValue stores an empty embedding as NULL.
func embeddingValue(v []float32) *pgvector.Vector {
	if len(v) == 0 {
		return nil
	}
	vec := pgvector.NewVector(v)
	return &vec
}

func paginate(courses []*courserec.Course, offset, limit int) []*courserec.Course {
	if offset > 0 {
		if offset >= len(courses) {
			return nil
		}
		courses = courses[offset:]
	}
	if limit > 0 && len(courses) > limit {
		courses = courses[:limit]
	}
	return courses
}
