package courserec

import (
	"context"
	"strings"
	"time"
)

// Course represents a single catalog course and its embedding.
type Course struct {
	ID            string    `json:"id"`
	Year          int       `json:"year"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Link          string    `json:"link"`
	Credits       string    `json:"credits,omitempty"`
	Prerequisites string    `json:"prerequisites,omitempty"`
	Corequisites  string    `json:"corequisites,omitempty"`
	ContentHash   string    `json:"contentHash"`
	Embedding     []float32 `json:"embedding,omitempty"`
	IndexedAt     time.Time `json:"indexedAt"`
}

// Validate returns an error if the course contains invalid fields.
func (c *Course) Validate() error {
	if c.Year <= 0 {
		return Errorf(EINVALID, "course year required")
	}
	if c.Code == "" {
		return Errorf(EINVALID, "course code required")
	}
	if c.Name == "" {
		return Errorf(EINVALID, "course name required")
	}
	if c.Description == "" {
		return Errorf(EINVALID, "course description required")
	}
	if c.Link == "" {
		return Errorf(EINVALID, "course link required")
	}
	return nil
}

// EmbeddingText returns the text that is embedded for retrieval.
// The course name is prepended so that short descriptions still carry the topic.
func (c *Course) EmbeddingText() string {
	if c.Name == "" {
		return c.Description
	}
	return c.Name + "\n" + c.Description
}

// DuplicatePolicy controls what a write does when the course code already
// exists for the year.
type DuplicatePolicy string

// DuplicatePolicy constants.
const (
	DuplicateSkip      DuplicatePolicy = "skip"
	DuplicateOverwrite DuplicatePolicy = "overwrite"
	DuplicateFail      DuplicatePolicy = "fail"
)

// ParseDuplicatePolicy converts a flag value into a DuplicatePolicy.
// An empty value yields DuplicateSkip.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicateSkip:
		return DuplicateSkip, nil
	case DuplicateOverwrite:
		return DuplicateOverwrite, nil
	case DuplicateFail:
		return DuplicateFail, nil
	default:
		return "", Errorf(EINVALID, "unknown duplicate policy %q", s)
	}
}

// CourseService represents a service for managing indexed courses.
type CourseService interface {
	// WriteCourse stores a course according to the duplicate policy.
	// Returns true if the row was written, false if it was skipped.
	// Returns ECONFLICT under DuplicateFail when the code already exists.
	WriteCourse(ctx context.Context, course *Course, policy DuplicatePolicy) (bool, error)

	// FindCourseByCode retrieves a course by year and code.
	// Returns ENOTFOUND if the course does not exist.
	FindCourseByCode(ctx context.Context, year int, code string) (*Course, error)

	// FindCourses retrieves courses matching the filter, ordered by code.
	FindCourses(ctx context.Context, filter CourseFilter) ([]*Course, error)

	// CountCourses returns the number of indexed courses for a year.
	// A zero year counts every year.
	CountCourses(ctx context.Context, year int) (int, error)

	// DeleteCourses removes all courses for a year.
	DeleteCourses(ctx context.Context, year int) error
}

// CourseFilter represents a filter for FindCourses.
type CourseFilter struct {
	Year  *int     `json:"year"`
	Codes []string `json:"codes"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
