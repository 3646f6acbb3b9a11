package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doccrawl"
)

var _ doccrawl.FrameworkDetector = (*Detector)(nil)

// profile describes how to recognize a documentation framework and where it
// puts the page content.
type profile struct {
	framework doccrawl.Framework

	// generator is matched against the lowercased meta generator tag.
	generator string

	// markers are selectors unique to the framework's markup.
	markers []string

	// content are the framework's content containers, most specific first.
	content []string
}

// profiles are checked in order. VitePress precedes VuePress, whose
// successor it is and whose markup it partly shares.
var profiles = []profile{
	{
		framework: doccrawl.FrameworkDocusaurus,
		generator: "docusaurus",
		markers:   []string{"#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container", "html[data-rh][data-theme]"},
		content:   []string{".theme-doc-markdown", "article .markdown"},
	},
	{
		framework: doccrawl.FrameworkMkDocs,
		generator: "mkdocs",
		markers:   []string{"[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"},
		content:   []string{".md-content__inner"},
	},
	{
		framework: doccrawl.FrameworkSphinx,
		generator: "sphinx",
		markers:   []string{".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar"},
		content:   []string{"div.body", `div[role="main"]`},
	},
	{
		framework: doccrawl.FrameworkVitePress,
		generator: "vitepress",
		markers:   []string{"#VPContent", ".VPDoc", ".VPDocAsideOutline"},
		content:   []string{".vp-doc"},
	},
	{
		framework: doccrawl.FrameworkVuePress,
		generator: "vuepress",
		markers:   []string{".theme-default-content", ".sidebar-links", ".vuepress-navbar"},
		content:   []string{".theme-default-content"},
	},
	{
		framework: doccrawl.FrameworkGitBook,
		generator: "gitbook",
		markers:   []string{`[data-testid="space.sidebar"]`, `[data-testid="page.desktopTableOfContents"]`},
		content:   []string{`[data-testid="page.contentEditor"]`},
	},
	{
		framework: doccrawl.FrameworkNextra,
		generator: "nextra",
		markers:   []string{".nextra-navbar", ".nextra-sidebar", ".nextra-toc"},
		content:   []string{".nextra-content", "article main"},
	},
}

// ContentSelectors returns the content container selectors of a framework,
// most specific first. Unknown frameworks have none.
func ContentSelectors(f doccrawl.Framework) []string {
	for _, p := range profiles {
		if p.framework == f {
			return p.content
		}
	}
	return nil
}

// Detector identifies documentation frameworks from HTML content.
// It checks the meta generator tag, then framework-specific classes, data
// attributes and structural markers.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified framework.
// Returns FrameworkUnknown if the framework cannot be determined.
func (d *Detector) Detect(html string) doccrawl.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return doccrawl.FrameworkUnknown
	}
	return detectDocument(doc)
}

func detectDocument(doc *goquery.Document) doccrawl.Framework {
	// The generator tag is the most reliable signal when present.
	if generator, ok := doc.Find(`meta[name="generator"]`).Last().Attr("content"); ok {
		generator = strings.ToLower(generator)
		for _, p := range profiles {
			if strings.Contains(generator, p.generator) {
				return p.framework
			}
		}
	}

	for _, p := range profiles {
		for _, m := range p.markers {
			if doc.Find(m).Length() > 0 {
				return p.framework
			}
		}
		if p.framework == doccrawl.FrameworkGitBook && hasGitBookClasses(doc) {
			return p.framework
		}
	}

	return doccrawl.FrameworkUnknown
}

// hasGitBookClasses reports whether the html element carries at least two
// of GitBook's distinctive classes.
func hasGitBookClasses(doc *goquery.Document) bool {
	class, _ := doc.Find("html").Attr("class")
	count := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(class, c) {
			count++
		}
	}
	return count >= 2
}
