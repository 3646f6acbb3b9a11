package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doccrawl"
)

// Default readiness thresholds, in characters.
const (
	DefaultReadyMinText = 100
	DefaultReadyMinBody = 500
)

// ContentVisible returns a readiness check for rendered pages. A page is
// ready when a semantic container holds more than minText characters of
// visible text, or the body holds more than minBody.
func ContentVisible(minText, minBody int) doccrawl.ReadinessFunc {
	return func(html string) bool {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return false
		}
		for _, sel := range SemanticSelectors {
			match := doc.Find(sel).First()
			if match.Length() == 0 {
				continue
			}
			if textLength(visibleText(cleaned(match, false))) > minText {
				return true
			}
		}
		body := doc.Find("body").First()
		if body.Length() == 0 {
			return false
		}
		return textLength(visibleText(cleaned(body, false))) > minBody
	}
}
