package crawl

import (
	"fmt"
	"net/url"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/courserec"
)

// ContentHash fingerprints the text of c that gets embedded. The indexer
// compares it against the stored row to decide whether a course needs a
// new embedding.
func ContentHash(c *courserec.Course) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(c.EmbeddingText()))
}

// ShortLink renders a course link for progress output. Catalog links
// share one host, so only the path is shown, cut from the front when it
// is longer than maxLen.
func ShortLink(link string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if u, err := url.Parse(link); err == nil && u.Host != "" && u.Path != "" {
		link = u.Path
	}
	if len(link) <= maxLen {
		return link
	}
	if maxLen < 4 {
		return link[len(link)-maxLen:]
	}
	return "..." + link[len(link)-maxLen+3:]
}

// FormatTokens renders an approximate token count, e.g. "~1.5k tokens".
func FormatTokens(tokens int) string {
	switch {
	case tokens < 1000:
		return fmt.Sprintf("~%d tokens", tokens)
	case tokens < 10_000:
		return fmt.Sprintf("~%.1fk tokens", float64(tokens)/1000)
	case tokens < 1_000_000:
		return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
	default:
		return fmt.Sprintf("~%.1fM tokens", float64(tokens)/1_000_000)
	}
}
