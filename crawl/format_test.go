package crawl_test

import (
	"testing"

	"github.com/fwojciec/courserec"
	"github.com/fwojciec/courserec/crawl"
	"github.com/stretchr/testify/assert"
)

func TestContentHash(t *testing.T) {
	t.Parallel()

	course := func(name, desc string) *courserec.Course {
		return &courserec.Course{Year: 2024, Code: "CH 221", Name: name, Description: desc, Link: "https://catalog.example.edu/ch-221/"}
	}

	t.Run("is stable across scrapes of an unchanged course", func(t *testing.T) {
		t.Parallel()

		a := course("Organic Chemistry I", "Carbon compounds.")
		b := course("Organic Chemistry I", "Carbon compounds.")
		b.Year = 2025

		assert.Equal(t, crawl.ContentHash(a), crawl.ContentHash(b))
	})

	t.Run("changes when the description is revised", func(t *testing.T) {
		t.Parallel()

		before := crawl.ContentHash(course("Organic Chemistry I", "Carbon compounds."))
		after := crawl.ContentHash(course("Organic Chemistry I", "Carbon compounds and spectroscopy."))

		assert.NotEqual(t, before, after)
	})

	t.Run("ignores fields that are not embedded", func(t *testing.T) {
		t.Parallel()

		a := course("Organic Chemistry I", "Carbon compounds.")
		b := course("Organic Chemistry I", "Carbon compounds.")
		b.Credits = "4"
		b.Link = "https://catalog.example.edu/moved/ch-221/"

		assert.Equal(t, crawl.ContentHash(a), crawl.ContentHash(b))
	})

	t.Run("is sixteen hex digits", func(t *testing.T) {
		t.Parallel()
		assert.Regexp(t, `^[0-9a-f]{16}$`, crawl.ContentHash(course("Differential Equations", "Linear systems.")))
	})
}

func TestShortLink(t *testing.T) {
	t.Parallel()

	const link = "https://stevens.smartcatalogiq.com/en/2024-2025/academic-catalog/courses/ch-chemistry/200/ch-221/"

	t.Run("drops the catalog host", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "/en/2024-2025/academic-catalog/courses/ch-chemistry/200/ch-221/", crawl.ShortLink(link, 80))
	})

	t.Run("keeps the course end of long paths", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "...chemistry/200/ch-221/", crawl.ShortLink(link, 24))
	})

	t.Run("leaves non-URL text alone when it fits", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "ch-221", crawl.ShortLink("ch-221", 10))
	})

	t.Run("tiny widths keep the tail without an ellipsis", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "21/", crawl.ShortLink(link, 3))
	})

	t.Run("non-positive widths render nothing", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.ShortLink(link, 0))
		assert.Empty(t, crawl.ShortLink(link, -5))
	})
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		tokens int
		want   string
	}{
		"a few course descriptions": {tokens: 640, want: "~640 tokens"},
		"one department":            {tokens: 4_320, want: "~4.3k tokens"},
		"a full catalog":            {tokens: 182_400, want: "~182k tokens"},
		"several catalog years":     {tokens: 1_340_000, want: "~1.3M tokens"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, crawl.FormatTokens(tc.tokens))
		})
	}
}
