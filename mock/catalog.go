package mock

import (
	"context"

	"github.com/fwojciec/courserec"
)

var (
	_ courserec.CatalogParser = (*CatalogParser)(nil)
	_ courserec.CourseSource  = (*CourseSource)(nil)
	_ courserec.DomainLimiter = (*DomainLimiter)(nil)
)

// CatalogParser is a mock implementation of courserec.CatalogParser.
type CatalogParser struct {
	ParseListingFn    func(html, pageURL string) (*courserec.Listing, error)
	ParseCoursePageFn func(html string) (*courserec.CoursePage, error)
}

func (p *CatalogParser) ParseListing(html, pageURL string) (*courserec.Listing, error) {
	return p.ParseListingFn(html, pageURL)
}

func (p *CatalogParser) ParseCoursePage(html string) (*courserec.CoursePage, error) {
	return p.ParseCoursePageFn(html)
}

// CourseSource is a mock implementation of courserec.CourseSource.
type CourseSource struct {
	ScrapeFn func(ctx context.Context, year int, fn func(*courserec.Course) error) (*courserec.ScrapeResult, error)
}

func (s *CourseSource) Scrape(ctx context.Context, year int, fn func(*courserec.Course) error) (*courserec.ScrapeResult, error) {
	return s.ScrapeFn(ctx, year, fn)
}

// DomainLimiter is a mock implementation of courserec.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
