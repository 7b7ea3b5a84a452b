package courserec

import (
	"context"
	"fmt"
	"strings"
)

// DefaultCatalogURL is the SmartCatalog site crawled when none is configured.
const DefaultCatalogURL = "https://stevens.smartcatalogiq.com"

// DefaultInstitution names the school in the recommendation prompt.
const DefaultInstitution = "Stevens Institute of Technology"

// CatalogURL returns the course listing URL for the academic year that starts
// in the fall of year and ends in the spring of year+1.
func CatalogURL(base string, year int) string {
	return fmt.Sprintf("%s/en/%d-%d/academic-catalog/courses/", strings.TrimRight(base, "/"), year, year+1)
}

// TermLabel returns the identifier of an academic year, e.g. "f2024_s2025".
func TermLabel(year int) string {
	return fmt.Sprintf("f%d_s%d", year, year+1)
}

// ListingEntry is a course link found on a catalog listing page.
type ListingEntry struct {
	Code string
	Name string
	Link string
}

// Listing is one parsed catalog listing page.
type Listing struct {
	Entries []ListingEntry

	// NextURL is the next listing page, empty on the last page.
	NextURL string
}

// CoursePage holds the fields parsed from a single course page.
type CoursePage struct {
	Description     string
	DescriptionHTML string
	Credits         string
	Prerequisites   string
	Corequisites    string
}

// CatalogParser extracts course data from catalog HTML.
type CatalogParser interface {
	// ParseListing parses a listing page. Relative links are resolved
	// against pageURL. Returns ENOTIMPLEMENTED if the page layout is
	// not recognized.
	ParseListing(html string, pageURL string) (*Listing, error)

	// ParseCoursePage parses a course page.
	// Returns ENOTFOUND if the page has no description.
	ParseCoursePage(html string) (*CoursePage, error)
}

// CourseSource produces catalog courses for a year.
// fn is called once per course; an error from fn aborts the scrape.
type CourseSource interface {
	Scrape(ctx context.Context, year int, fn func(*Course) error) (*ScrapeResult, error)
}

// ScrapeResult summarizes a scrape.
type ScrapeResult struct {
	Pages   int
	Found   int
	Scraped int
	Failed  int

	// Duplicates counts listing entries skipped because their link was
	// already seen. The link set is probabilistic, so on rare occasions a
	// distinct course is counted here too.
	Duplicates int
}
