package courserec

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as a course description,
	// into Markdown.
	Convert(html string) (string, error)
}
