package doccrawl

import (
	"strings"
	"unicode"
)

// Slugify creates a URL-safe anchor from a heading, the way GitHub-style
// Markdown renderers derive heading IDs: the heading is lowercased, each
// space becomes a hyphen, letters, digits, hyphens and underscores are kept
// and all other characters are dropped. Runs are not collapsed, so
// "Intro - Guide" becomes "intro---guide".
func Slugify(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r == ' ':
			sb.WriteRune('-')
		case r == '-' || r == '_':
			sb.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
