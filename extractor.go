package doccrawl

// Extraction strategy names, in cascade order.
const (
	StrategyArticle      = "article"
	StrategySemantic     = "semantic"
	StrategyLargestBlock = "largest-block"
	StrategyBodyCleaned  = "body-cleaned"
	StrategyBody         = "body"
)

// DefaultTitle is used for pages without a title element.
const DefaultTitle = "Untitled"

// ExtractedContent is the primary content found on a page.
type ExtractedContent struct {
	Title string

	// Text is the visible text of the content block, one block-level
	// element per line.
	Text string

	// CodeBlocks are the trimmed code snippets of the block in document order.
	CodeBlocks []string

	// ContentHTML is the cleaned HTML of the content block.
	ContentHTML string

	// Strategy names the cascade stage that produced the block. It is empty
	// when no stage qualified.
	Strategy string
}

// Empty reports whether no content block met the minimum length.
func (c *ExtractedContent) Empty() bool {
	return c == nil || c.Strategy == ""
}

// Extractor finds the primary content of a page.
type Extractor interface {
	// Extract runs the extraction cascade over rawHTML. Stages are tried in
	// order until one yields at least minLength characters of text; if none
	// does the result is Empty. An error is returned only when the markup
	// cannot be read at all.
	Extract(rawHTML, pageURL string, minLength int) (*ExtractedContent, error)
}

// Article is the main article of a page as isolated by a readability-style
// algorithm.
type Article struct {
	Title       string
	ContentHTML string
}

// ArticleLocator isolates the main article of a page, removing
// boilerplate (nav, footer, sidebar, ads) while preserving structure.
type ArticleLocator interface {
	Locate(rawHTML, pageURL string) (*Article, error)
}

// LinkDiscoverer proposes in-scope links found on a page.
type LinkDiscoverer interface {
	// DiscoverLinks returns the normalized targets of the page's hyperlinks
	// that scope accepts, deduplicated and sorted. It does not check which
	// URLs were already visited.
	DiscoverLinks(rawHTML, pageURL string, scope *Scope) ([]string, error)
}
