// Package crawl scrapes course catalogs. It walks the paginated course
// listing of an academic year, fetches every course page concurrently and
// hands the parsed courses to a callback in listing order.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/courserec"
	"github.com/fwojciec/courserec/bloom"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency is the number of course pages fetched in parallel.
	DefaultConcurrency = 4

	// DefaultMaxPages caps how many listing pages are followed.
	DefaultMaxPages = 50

	// expectedCourses sizes the Bloom filter used for link dedup.
	expectedCourses = 10000
)

var _ courserec.CourseSource = (*Scraper)(nil)

// Scraper collects the courses of one catalog year.
type Scraper struct {
	// BaseURL is the catalog site root. Defaults to courserec.DefaultCatalogURL.
	BaseURL string

	Fetcher     courserec.Fetcher
	Parser      courserec.CatalogParser
	Converter   courserec.Converter
	RateLimiter courserec.DomainLimiter

	Concurrency int
	RetryDelays []time.Duration

	// Limit stops the scrape once this many courses reached the callback.
	// Zero means no limit.
	Limit int

	// MaxPages stops pagination after this many listing pages.
	MaxPages int

	Progress ProgressFunc
	Logger   LogFunc
}

// ProgressEvent reports progress during a scrape.
type ProgressEvent struct {
	Type      ProgressType
	Page      int
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of scraping a single course page.
type pageResult struct {
	position int
	url      string
	course   *courserec.Course
	err      error
}

// Scrape walks the course listing for year, following pagination, and
// calls fn for every course that could be scraped. Courses of one listing
// page reach fn in listing order.
//
// A listing page that cannot be fetched or parsed aborts the scrape, as
// does an error returned by fn. A course page that fails is skipped and
// counted in ScrapeResult.Failed, and Limit counts only courses that
// reached fn.
func (s *Scraper) Scrape(ctx context.Context, year int, fn func(*courserec.Course) error) (*courserec.ScrapeResult, error) {
	if year <= 0 {
		return nil, courserec.Errorf(courserec.EINVALID, "catalog year required")
	}

	base := s.BaseURL
	if base == "" {
		base = courserec.DefaultCatalogURL
	}
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	result := &courserec.ScrapeResult{}
	seenPages := make(map[string]bool)
	seenCourses := bloom.NewSet(expectedCourses, 0.0001)

	pageURL := courserec.CatalogURL(base, year)
	for pageURL != "" {
		if seenPages[pageURL] {
			s.logf("pagination loop at %s, stopping", pageURL)
			break
		}
		if result.Pages >= maxPages {
			s.logf("reached %d listing pages, stopping", maxPages)
			break
		}
		seenPages[pageURL] = true

		html, err := s.fetch(ctx, pageURL)
		if err != nil {
			return result, fmt.Errorf("fetch listing %s: %w", pageURL, err)
		}
		listing, err := s.Parser.ParseListing(html, pageURL)
		if err != nil {
			return result, err
		}
		result.Pages++

		var pending []courserec.ListingEntry
		for _, entry := range listing.Entries {
			if !seenCourses.AddIfAbsent(entry.Link) {
				result.Duplicates++
				s.logf("skipping already seen course %s", entry.Link)
				continue
			}
			pending = append(pending, entry)
		}

		// Courses are fetched in rounds sized to the remaining limit so a
		// failed page makes room for the next entry.
		for len(pending) > 0 && !s.limitReached(result) {
			batch := pending
			if s.Limit > 0 {
				if remaining := s.Limit - result.Scraped; len(batch) > remaining {
					batch = batch[:remaining]
				}
			}
			pending = pending[len(batch):]
			result.Found += len(batch)

			results, err := s.scrapePage(ctx, year, result.Pages, batch)
			if err != nil {
				return result, err
			}
			for _, r := range results {
				if r.err != nil {
					result.Failed++
					continue
				}
				if err := fn(r.course); err != nil {
					return result, err
				}
				result.Scraped++
			}
		}

		if s.limitReached(result) {
			break
		}
		pageURL = listing.NextURL
	}

	s.emit(ProgressEvent{
		Type:      ProgressFinished,
		Page:      result.Pages,
		Completed: result.Scraped,
		Total:     result.Found,
	})

	return result, nil
}

// scrapePage fetches the course pages of one listing page concurrently and
// returns their results in listing order.
func (s *Scraper) scrapePage(ctx context.Context, year, page int, entries []courserec.ListingEntry) ([]pageResult, error) {
	total := len(entries)
	s.emit(ProgressEvent{Type: ProgressStarted, Page: page, Total: total})
	if total == 0 {
		return nil, nil
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan pageResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, entry := range entries {
			g.Go(func() error {
				course, err := s.scrapeCourse(gctx, year, entry)
				resultCh <- pageResult{position: i, url: entry.Link, course: course, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	results := make([]pageResult, total)
	for r := range resultCh {
		completed.Add(1)
		results[r.position] = r

		event := ProgressEvent{
			Type:      ProgressCompleted,
			Page:      page,
			Completed: int(completed.Load()),
			Total:     total,
			URL:       r.url,
		}
		if r.err != nil {
			event.Type = ProgressFailed
			event.Error = r.err
		}
		s.emit(event)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// scrapeCourse fetches and parses a single course page.
func (s *Scraper) scrapeCourse(ctx context.Context, year int, entry courserec.ListingEntry) (*courserec.Course, error) {
	html, err := s.fetch(ctx, entry.Link)
	if err != nil {
		return nil, err
	}

	page, err := s.Parser.ParseCoursePage(html)
	if err != nil {
		return nil, err
	}

	description := page.Description
	if s.Converter != nil && page.DescriptionHTML != "" {
		md, err := s.Converter.Convert(page.DescriptionHTML)
		if err != nil {
			s.logf("convert %s: %v", entry.Link, err)
		} else if md != "" {
			description = md
		}
	}

	name := entry.Name
	if name == "" {
		name = entry.Code
	}

	course := &courserec.Course{
		Year:          year,
		Code:          entry.Code,
		Name:          name,
		Description:   description,
		Link:          entry.Link,
		Credits:       page.Credits,
		Prerequisites: page.Prerequisites,
		Corequisites:  page.Corequisites,
	}
	course.ContentHash = ContentHash(course)

	return course, nil
}

// fetch retrieves rawURL through the rate limiter with retries.
func (s *Scraper) fetch(ctx context.Context, rawURL string) (string, error) {
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	return FetchWithRetry(ctx, rawURL, func(ctx context.Context, u string) (string, error) {
		if s.RateLimiter != nil {
			if err := s.RateLimiter.Wait(ctx, hostOf(u)); err != nil {
				return "", err
			}
		}
		return s.Fetcher.Fetch(ctx, u)
	}, s.Logger, delays)
}

func (s *Scraper) limitReached(result *courserec.ScrapeResult) bool {
	return s.Limit > 0 && result.Scraped >= s.Limit
}

func (s *Scraper) emit(event ProgressEvent) {
	if s.Progress != nil {
		s.Progress(event)
	}
}

func (s *Scraper) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger(format, args...)
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
