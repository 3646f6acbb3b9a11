package doccrawl

// Converter converts content HTML to another text format.
type Converter interface {
	// Convert transforms clean HTML (e.g. ExtractedContent.ContentHTML)
	// into the target format. Relative links are resolved against pageURL.
	Convert(html, pageURL string) (string, error)

	// Extension returns the file extension for converted output, with dot.
	Extension() string
}
