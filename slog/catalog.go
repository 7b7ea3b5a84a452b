package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/courserec"
)

// Ensure LoggingCatalogParser implements courserec.CatalogParser.
var _ courserec.CatalogParser = (*LoggingCatalogParser)(nil)

// LoggingCatalogParser wraps a CatalogParser and logs each listing page it
// parses. Course pages are parsed far more often and are not logged.
type LoggingCatalogParser struct {
	next   courserec.CatalogParser
	logger *slog.Logger
}

// NewLoggingCatalogParser creates a new LoggingCatalogParser.
func NewLoggingCatalogParser(next courserec.CatalogParser, logger *slog.Logger) *LoggingCatalogParser {
	return &LoggingCatalogParser{next: next, logger: logger}
}

// ParseListing delegates to the wrapped parser and logs the entries found.
func (p *LoggingCatalogParser) ParseListing(html string, pageURL string) (listing *courserec.Listing, err error) {
	defer func(begin time.Time) {
		entries, next := 0, ""
		if listing != nil {
			entries, next = len(listing.Entries), listing.NextURL
		}
		p.logger.Info("listing parsed",
			"url", pageURL,
			"entries", entries,
			"next", next,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseListing(html, pageURL)
}

// ParseCoursePage delegates to the wrapped parser.
func (p *LoggingCatalogParser) ParseCoursePage(html string) (*courserec.CoursePage, error) {
	return p.next.ParseCoursePage(html)
}
