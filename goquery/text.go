package goquery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Selectors for elements removed before measuring or emitting content.
const (
	invisibleSelector = "script, style, noscript, template"

	boilerplateSelector = "nav, header, footer, aside, " +
		`[role="navigation"], [role="banner"], [role="contentinfo"], [role="complementary"], ` +
		".nav, .navigation, .navbar, .sidebar, .header, .footer, .toc, .breadcrumbs"
)

// blockElements start and end a line of text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "dd": true, "details": true, "dialog": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "summary": true, "table": true, "tbody": true,
	"td": true, "tfoot": true, "th": true, "thead": true, "tr": true, "ul": true,
}

// cleaned returns a detached copy of sel with invisible elements removed,
// and boilerplate too when stripBoilerplate is set.
func cleaned(sel *goquery.Selection, stripBoilerplate bool) *goquery.Selection {
	c := sel.Clone()
	c.Find(invisibleSelector).Remove()
	if stripBoilerplate {
		c.Find(boilerplateSelector).Remove()
	}
	return c
}

// visibleText returns the text of sel with one line per block-level element.
// Whitespace is collapsed within lines, lines are trimmed and blank lines
// dropped.
func visibleText(sel *goquery.Selection) string {
	var sb strings.Builder
	for _, n := range sel.Nodes {
		writeText(&sb, n, false)
	}

	lines := strings.Split(sb.String(), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func writeText(sb *strings.Builder, n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			sb.WriteString(n.Data)
			return
		}
		sb.WriteString(collapseSpace(n.Data))
	case html.ElementNode:
		if n.Data == "br" {
			sb.WriteByte('\n')
			return
		}
		block := blockElements[n.Data]
		if block {
			sb.WriteByte('\n')
		}
		pre = pre || n.Data == "pre"
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(sb, c, pre)
		}
		if block {
			sb.WriteByte('\n')
		}
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(sb, c, pre)
		}
	}
}

// collapseSpace replaces every run of whitespace, newlines included, with a
// single space.
func collapseSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				sb.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// textLength is the length of text in characters.
func textLength(text string) int {
	return utf8.RuneCountInString(text)
}
