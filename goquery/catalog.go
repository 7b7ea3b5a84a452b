// Package goquery implements catalog parsing on top of goquery CSS selectors.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/courserec"
)

// Ensure CatalogParser implements courserec.CatalogParser at compile time.
var _ courserec.CatalogParser = (*CatalogParser)(nil)

// nextPageSelectors locate the pagination link of a listing page, tried in order.
var nextPageSelectors = []string{
	`a[rel="next"]`,
	".pagination a.next",
	".pager-next a",
}

// CatalogParser parses SmartCatalog listing and course pages.
//
// Listings keep their course links in <div id="main"> as list items whose
// anchor wraps a <span> holding the course code followed by the course name.
// Course pages keep the description in <div class="desc"> inside the same
// main element.
type CatalogParser struct{}

// NewCatalogParser creates a new CatalogParser.
func NewCatalogParser() *CatalogParser {
	return &CatalogParser{}
}

// ParseListing parses a listing page and resolves course links against pageURL.
func (p *CatalogParser) ParseListing(html string, pageURL string) (*courserec.Listing, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, courserec.Errorf(courserec.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, courserec.Errorf(courserec.EINVALID, "failed to parse HTML: %v", err)
	}

	main := doc.Find("div#main").First()
	if main.Length() == 0 {
		return nil, courserec.Errorf(courserec.ENOTIMPLEMENTED, "unsupported catalog layout: no #main element on %s", pageURL)
	}

	listing := &courserec.Listing{}
	main.Find("li").Each(func(_ int, li *goquery.Selection) {
		a := li.Find("a[href]").First()
		if a.Length() == 0 {
			return
		}
		href, _ := a.Attr("href")
		if strings.TrimSpace(href) == "" || isNonHTTPLink(href) {
			return
		}

		code := normalizeSpace(a.Find("span").First().Text())
		if code == "" {
			return
		}

		name := normalizeSpace(strings.Replace(normalizeSpace(a.Text()), code, "", 1))

		link := resolveURL(base, href)
		if link == "" {
			return
		}

		listing.Entries = append(listing.Entries, courserec.ListingEntry{
			Code: code,
			Name: name,
			Link: link,
		})
	})

	for _, selector := range nextPageSelectors {
		href, ok := doc.Find(selector).First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			continue
		}
		if next := resolveURL(base, href); next != "" && next != stripFragment(base) {
			listing.NextURL = next
			break
		}
	}

	return listing, nil
}

// ParseCoursePage extracts the description and optional requisites.
func (p *CatalogParser) ParseCoursePage(html string) (*courserec.CoursePage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, courserec.Errorf(courserec.EINVALID, "failed to parse HTML: %v", err)
	}

	main := doc.Find("div#main").First()
	if main.Length() == 0 {
		return nil, courserec.Errorf(courserec.ENOTFOUND, "course page has no #main element")
	}

	desc := main.Find("div.desc").First()
	if desc.Length() == 0 {
		return nil, courserec.Errorf(courserec.ENOTFOUND, "course page has no description")
	}

	descHTML, err := desc.Html()
	if err != nil {
		return nil, courserec.Errorf(courserec.EINVALID, "failed to render description: %v", err)
	}

	page := &courserec.CoursePage{
		Description:     normalizeSpace(desc.Text()),
		DescriptionHTML: strings.TrimSpace(descHTML),
		Credits:         normalizeSpace(main.Find("div.credits").First().Text()),
		Prerequisites:   normalizeSpace(main.Find("div.sc_prereqs").First().Text()),
		Corequisites:    normalizeSpace(main.Find("div.sc_coreqs").First().Text()),
	}
	if page.Description == "" {
		return nil, courserec.Errorf(courserec.ENOTFOUND, "course page has an empty description")
	}

	return page, nil
}

// normalizeSpace collapses runs of whitespace (tabs, newlines) into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
