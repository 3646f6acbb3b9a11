// Package goquery implements HTML analysis on top of PuerkitoBio/goquery:
// content extraction, link discovery, framework detection and readiness
// checks for rendered pages.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doccrawl"
)

var _ doccrawl.Extractor = (*Extractor)(nil)

// MinCodeLength is the shortest code snippet kept, in characters.
const MinCodeLength = 10

// SemanticSelectors are generic content containers, tried in order.
var SemanticSelectors = []string{
	"main",
	`[role="main"]`,
	"article",
	"#main-content",
	".main-content",
	".content",
	".main",
	".documentation",
	".doc-content",
	".api-content",
	"#content",
}

const codeSelector = "pre, code, .code-block"

// Extractor finds the primary content of a page by trying a cascade of
// strategies, from the most to the least specific:
//
//  1. the main article, if an ArticleLocator is configured
//  2. content containers of the detected framework, then SemanticSelectors
//  3. the div or section with the most visible text
//  4. the body with boilerplate removed
//  5. the whole body
//
// The first candidate with enough text wins.
type Extractor struct {
	// Detector selects framework-specific containers. Optional.
	Detector doccrawl.FrameworkDetector

	// Article, if set, is tried before all other strategies. Optional.
	Article doccrawl.ArticleLocator
}

// NewExtractor returns an Extractor with framework detection enabled.
func NewExtractor() *Extractor {
	return &Extractor{Detector: NewDetector()}
}

// strategy locates a candidate block. Returned selections are detached and
// already cleaned; nil means the strategy has no candidate.
type strategy struct {
	name   string
	locate func(doc *goquery.Document, minLength int) *goquery.Selection
}

// Extract runs the cascade over rawHTML.
func (e *Extractor) Extract(rawHTML, pageURL string, minLength int) (*doccrawl.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, doccrawl.Errorf(doccrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &doccrawl.ExtractedContent{Title: pageTitle(doc)}

	for _, s := range e.strategies(rawHTML, pageURL) {
		block := s.locate(doc, minLength)
		if block == nil {
			continue
		}
		text := visibleText(block)
		if textLength(text) < minLength {
			continue
		}

		html, err := goquery.OuterHtml(block)
		if err != nil {
			return nil, doccrawl.Errorf(doccrawl.EINTERNAL, "failed to render content: %v", err)
		}
		result.Text = text
		result.CodeBlocks = codeBlocks(block)
		result.ContentHTML = html
		result.Strategy = s.name
		return result, nil
	}

	return result, nil
}

func (e *Extractor) strategies(rawHTML, pageURL string) []strategy {
	var out []strategy
	if e.Article != nil {
		out = append(out, strategy{doccrawl.StrategyArticle, func(_ *goquery.Document, _ int) *goquery.Selection {
			return e.locateArticle(rawHTML, pageURL)
		}})
	}

	selectors := SemanticSelectors
	if e.Detector != nil {
		if fs := ContentSelectors(e.Detector.Detect(rawHTML)); len(fs) > 0 {
			selectors = append(append([]string{}, fs...), SemanticSelectors...)
		}
	}

	return append(out,
		strategy{doccrawl.StrategySemantic, func(doc *goquery.Document, minLength int) *goquery.Selection {
			return semanticBlock(doc, selectors, minLength)
		}},
		strategy{doccrawl.StrategyLargestBlock, func(doc *goquery.Document, _ int) *goquery.Selection {
			return largestBlock(doc)
		}},
		strategy{doccrawl.StrategyBodyCleaned, func(doc *goquery.Document, _ int) *goquery.Selection {
			return bodyBlock(doc, true)
		}},
		strategy{doccrawl.StrategyBody, func(doc *goquery.Document, _ int) *goquery.Selection {
			return bodyBlock(doc, false)
		}},
	)
}

func (e *Extractor) locateArticle(rawHTML, pageURL string) *goquery.Selection {
	article, err := e.Article.Locate(rawHTML, pageURL)
	if err != nil || article == nil || article.ContentHTML == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.ContentHTML))
	if err != nil {
		return nil
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return nil
	}
	return cleaned(body, true)
}

// semanticBlock returns the first match of the first selector whose match
// holds at least minLength characters.
func semanticBlock(doc *goquery.Document, selectors []string, minLength int) *goquery.Selection {
	for _, sel := range selectors {
		match := doc.Find(sel).First()
		if match.Length() == 0 {
			continue
		}
		block := cleaned(match, true)
		if textLength(visibleText(block)) >= minLength {
			return block
		}
	}
	return nil
}

// largestBlock returns the div or section with the most visible text. The
// earliest one wins a tie.
func largestBlock(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	bestLen := 0
	doc.Find("div, section").Each(func(_ int, s *goquery.Selection) {
		block := cleaned(s, true)
		if n := textLength(visibleText(block)); n > bestLen {
			best, bestLen = block, n
		}
	})
	return best
}

func bodyBlock(doc *goquery.Document, stripBoilerplate bool) *goquery.Selection {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil
	}
	return cleaned(body, stripBoilerplate)
}

// codeBlocks returns the trimmed text of the outermost code elements of
// block in document order, skipping short snippets.
func codeBlocks(block *goquery.Selection) []string {
	blocks := []string{}
	block.Find(codeSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(codeSelector).Length() > 0 {
			return
		}
		code := strings.TrimSpace(s.Text())
		if textLength(code) < MinCodeLength {
			return
		}
		blocks = append(blocks, code)
	})
	return blocks
}

func pageTitle(doc *goquery.Document) string {
	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	if title == "" {
		return doccrawl.DefaultTitle
	}
	return title
}
