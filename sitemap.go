package doccrawl

import "context"

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds the URLs listed in a site's sitemaps.
	// It first checks robots.txt for sitemap directives, then falls back
	// to well-known sitemap locations. Sitemap indexes are resolved
	// recursively. Only URLs that scope accepts are returned, normalized.
	DiscoverURLs(ctx context.Context, baseURL string, scope *Scope) ([]string, error)
}
