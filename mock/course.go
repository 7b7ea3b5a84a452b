package mock

import (
	"context"

	"github.com/fwojciec/courserec"
)

var (
	_ courserec.CourseService = (*CourseService)(nil)
	_ courserec.SearchService = (*SearchService)(nil)
)

// CourseService is a mock implementation of courserec.CourseService.
type CourseService struct {
	WriteCourseFn      func(ctx context.Context, course *courserec.Course, policy courserec.DuplicatePolicy) (bool, error)
	FindCourseByCodeFn func(ctx context.Context, year int, code string) (*courserec.Course, error)
	FindCoursesFn      func(ctx context.Context, filter courserec.CourseFilter) ([]*courserec.Course, error)
	CountCoursesFn     func(ctx context.Context, year int) (int, error)
	DeleteCoursesFn    func(ctx context.Context, year int) error
}

func (s *CourseService) WriteCourse(ctx context.Context, course *courserec.Course, policy courserec.DuplicatePolicy) (bool, error) {
	return s.WriteCourseFn(ctx, course, policy)
}

func (s *CourseService) FindCourseByCode(ctx context.Context, year int, code string) (*courserec.Course, error) {
	return s.FindCourseByCodeFn(ctx, year, code)
}

func (s *CourseService) FindCourses(ctx context.Context, filter courserec.CourseFilter) ([]*courserec.Course, error) {
	return s.FindCoursesFn(ctx, filter)
}

func (s *CourseService) CountCourses(ctx context.Context, year int) (int, error) {
	return s.CountCoursesFn(ctx, year)
}

func (s *CourseService) DeleteCourses(ctx context.Context, year int) error {
	return s.DeleteCoursesFn(ctx, year)
}

// SearchService is a mock implementation of courserec.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, embedding []float32, opts courserec.SearchOptions) ([]courserec.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, embedding []float32, opts courserec.SearchOptions) ([]courserec.SearchResult, error) {
	return s.SearchFn(ctx, embedding, opts)
}
