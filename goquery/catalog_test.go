package goquery_test

import (
	"testing"

	"github.com/fwojciec/courserec"
	"github.com/fwojciec/courserec/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = "https://stevens.smartcatalogiq.com/en/2024-2025/academic-catalog/courses/"

func TestCatalogParser_ParseListing(t *testing.T) {
	t.Parallel()

	t.Run("extracts code, name and absolute link", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div id="main"><ul>
			<li><a href="/en/2024-2025/academic-catalog/courses/cs-computer-science/500/cs-583/"><span>CS 583</span> Deep Learning</a></li>
			<li><a href="/en/2024-2025/academic-catalog/courses/ma-mathematics/300/ma-331/"><span>MA 331</span>
				Intermediate   Statistics</a></li>
		</ul></div></body></html>`

		listing, err := goquery.NewCatalogParser().ParseListing(html, listingPage)

		require.NoError(t, err)
		require.Len(t, listing.Entries, 2)
		assert.Equal(t, courserec.ListingEntry{
			Code: "CS 583",
			Name: "Deep Learning",
			Link: "https://stevens.smartcatalogiq.com/en/2024-2025/academic-catalog/courses/cs-computer-science/500/cs-583/",
		}, listing.Entries[0])
		assert.Equal(t, "Intermediate Statistics", listing.Entries[1].Name)
		assert.Empty(t, listing.NextURL)
	})

	t.Run("skips items without a code span or link", func(t *testing.T) {
		t.Parallel()

		html := `<div id="main"><ul>
			<li><a href="/departments/">Departments</a></li>
			<li>No link here</li>
			<li><a href="mailto:registrar@example.edu"><span>REG 1</span> Mail</a></li>
			<li><a href="/c/ee-250/"><span>EE 250</span> Circuits</a></li>
		</ul></div>`

		listing, err := goquery.NewCatalogParser().ParseListing(html, listingPage)

		require.NoError(t, err)
		require.Len(t, listing.Entries, 1)
		assert.Equal(t, "EE 250", listing.Entries[0].Code)
	})

	t.Run("ignores list items outside main", func(t *testing.T) {
		t.Parallel()

		html := `<nav><ul><li><a href="/x/"><span>NAV 1</span> Nav</a></li></ul></nav>
			<div id="main"><ul><li><a href="/c/cs-115/"><span>CS 115</span> Intro</a></li></ul></div>`

		listing, err := goquery.NewCatalogParser().ParseListing(html, listingPage)

		require.NoError(t, err)
		require.Len(t, listing.Entries, 1)
		assert.Equal(t, "CS 115", listing.Entries[0].Code)
	})

	t.Run("returns ENOTIMPLEMENTED when main is missing", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewCatalogParser().ParseListing(`<html><body><ul><li>x</li></ul></body></html>`, listingPage)

		require.Error(t, err)
		assert.Equal(t, courserec.ENOTIMPLEMENTED, courserec.ErrorCode(err))
	})

	t.Run("returns EINVALID for unparsable page URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewCatalogParser().ParseListing(`<div id="main"></div>`, "://bad")

		require.Error(t, err)
		assert.Equal(t, courserec.EINVALID, courserec.ErrorCode(err))
	})

	t.Run("discovers rel=next pagination link", func(t *testing.T) {
		t.Parallel()

		html := `<div id="main"><ul><li><a href="/c/1/"><span>A 1</span> One</a></li></ul></div>
			<div class="pagination"><a rel="next" href="?page=2">Next</a></div>`

		listing, err := goquery.NewCatalogParser().ParseListing(html, listingPage)

		require.NoError(t, err)
		assert.Equal(t, listingPage+"?page=2", listing.NextURL)
	})

	t.Run("discovers pagination next class", func(t *testing.T) {
		t.Parallel()

		html := `<div id="main"></div><div class="pagination"><a class="prev" href="?page=1">Prev</a><a class="next" href="?page=3">Next</a></div>`

		listing, err := goquery.NewCatalogParser().ParseListing(html, listingPage+"?page=2")

		require.NoError(t, err)
		assert.Equal(t, listingPage+"?page=3", listing.NextURL)
	})

	t.Run("ignores next link pointing at the same page", func(t *testing.T) {
		t.Parallel()

		html := `<div id="main"></div><a rel="next" href="#top">Next</a>`

		listing, err := goquery.NewCatalogParser().ParseListing(html, listingPage)

		require.NoError(t, err)
		assert.Empty(t, listing.NextURL)
	})
}

func TestCatalogParser_ParseCoursePage(t *testing.T) {
	t.Parallel()

	t.Run("extracts description and requisites", func(t *testing.T) {
		t.Parallel()

		html := `<div id="main">
			<h1>CS 583 Deep Learning</h1>
			<div class="desc">
				<p>Covers neural networks,	backpropagation and
				<a href="/x">optimization</a>.</p>
			</div>
			<div class="credits">3</div>
			<div class="sc_prereqs">Prerequisite: CS 559</div>
		</div>`

		page, err := goquery.NewCatalogParser().ParseCoursePage(html)

		require.NoError(t, err)
		assert.Equal(t, "Covers neural networks, backpropagation and optimization.", page.Description)
		assert.Contains(t, page.DescriptionHTML, `<a href="/x">optimization</a>`)
		assert.Equal(t, "3", page.Credits)
		assert.Equal(t, "Prerequisite: CS 559", page.Prerequisites)
		assert.Empty(t, page.Corequisites)
	})

	t.Run("returns ENOTFOUND when main is missing", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewCatalogParser().ParseCoursePage(`<div class="desc">x</div>`)

		require.Error(t, err)
		assert.Equal(t, courserec.ENOTFOUND, courserec.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND when description is missing", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewCatalogParser().ParseCoursePage(`<div id="main"><h1>Title</h1></div>`)

		require.Error(t, err)
		assert.Equal(t, courserec.ENOTFOUND, courserec.ErrorCode(err))
		assert.Contains(t, courserec.ErrorMessage(err), "no description")
	})

	t.Run("returns ENOTFOUND when description is blank", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewCatalogParser().ParseCoursePage(`<div id="main"><div class="desc">   </div></div>`)

		require.Error(t, err)
		assert.Equal(t, courserec.ENOTFOUND, courserec.ErrorCode(err))
	})
}
