// Package doccrawl crawls documentation sites and extracts their readable
// content. Starting from a seed URL it follows in-scope links, pulls the
// primary content block, text and code examples out of every page, and
// hands the collected documents to sinks that write JSON, a Markdown report
// and a list of failed URLs.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package doccrawl
