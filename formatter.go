package courserec

import (
	"fmt"
	"strings"
)

// FormatResults formats search results for terminal display.
// Each result shows rank, score, code and name, then the link.
// Results are separated by blank lines.
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		if r.Course == nil {
			continue
		}
		header := fmt.Sprintf("%d. [%.3f] %s %s", i+1, r.Score, r.Course.Code, r.Course.Name)
		parts = append(parts, header+"\n   "+r.Course.Link)
	}

	return strings.Join(parts, "\n\n")
}
