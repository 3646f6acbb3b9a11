package http_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/fwojciec/doccrawl"
	doccrawlhttp "github.com/fwojciec/doccrawl/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		path  string // appended to the server URL to form the base URL
		scope func(host string) *doccrawl.Scope
		want  []string // relative to the server URL
	}{
		{
			name: "reads the sitemap declared in robots.txt",
			files: map[string]string{
				"/robots.txt":    "User-agent: *\nDisallow: /private/\nSitemap: {{BASE}}/maps/site.xml\n",
				"/maps/site.xml": urlset("{{BASE}}/docs/intro", "{{BASE}}/docs/guide"),
				"/sitemap.xml":   urlset("{{BASE}}/ignored"),
			},
			want: []string{"/docs/intro", "/docs/guide"},
		},
		{
			name: "reads every declared sitemap in order",
			files: map[string]string{
				"/robots.txt": "User-agent: *\nSitemap: {{BASE}}/one.xml\nsitemap: {{BASE}}/two.xml\n",
				"/one.xml":    urlset("{{BASE}}/page1"),
				"/two.xml":    urlset("{{BASE}}/page2"),
			},
			want: []string{"/page1", "/page2"},
		},
		{
			name: "resolves a relative sitemap directive",
			files: map[string]string{
				"/robots.txt":   "Sitemap: /relative.xml\n",
				"/relative.xml": urlset("{{BASE}}/page1"),
			},
			want: []string{"/page1"},
		},
		{
			name:  "probes /sitemap.xml without robots.txt",
			files: map[string]string{"/sitemap.xml": urlset("{{BASE}}/page1")},
			want:  []string{"/page1"},
		},
		{
			name: "probes /sitemap_index.xml",
			files: map[string]string{
				"/sitemap_index.xml": sitemapIndex("{{BASE}}/pages.xml"),
				"/pages.xml":         urlset("{{BASE}}/page1"),
			},
			want: []string{"/page1"},
		},
		{
			name:  "probes the sitemap under the path prefix",
			files: map[string]string{"/docs/sitemap.xml": urlset("{{BASE}}/docs/a", "{{BASE}}/docs/b")},
			path:  "/docs/",
			scope: prefixScope("/docs/"),
			want:  []string{"/docs/a", "/docs/b"},
		},
		{
			name: "follows sitemap indexes once per sitemap",
			files: map[string]string{
				"/sitemap.xml":      sitemapIndex("{{BASE}}/sitemap-docs.xml", "{{BASE}}/sitemap-api.xml", "{{BASE}}/sitemap-docs.xml"),
				"/sitemap-docs.xml": urlset("{{BASE}}/docs/intro"),
				"/sitemap-api.xml":  urlset("{{BASE}}/api/reference"),
			},
			want: []string{"/docs/intro", "/api/reference"},
		},
		{
			name:  "keeps URLs under the path prefix",
			files: map[string]string{"/sitemap.xml": urlset("{{BASE}}/docs/intro", "{{BASE}}/blog/post1", "{{BASE}}/docs/guide")},
			path:  "/docs/",
			scope: prefixScope("/docs/"),
			want:  []string{"/docs/intro", "/docs/guide"},
		},
		{
			name:  "applies the exclude filter",
			files: map[string]string{"/sitemap.xml": urlset("{{BASE}}/docs/intro", "{{BASE}}/docs/internal/debug", "{{BASE}}/docs/guide")},
			scope: func(host string) *doccrawl.Scope {
				return &doccrawl.Scope{Host: host, Filter: &doccrawl.URLFilter{
					Exclude: []*regexp.Regexp{regexp.MustCompile(`/internal/`)},
				}}
			},
			want: []string{"/docs/intro", "/docs/guide"},
		},
		{
			name:  "normalizes and deduplicates",
			files: map[string]string{"/sitemap.xml": urlset("{{BASE}}/a#top", "{{BASE}}/a", "{{BASE}}/b.pdf", "https://other.example.com/c")},
			scope: func(host string) *doccrawl.Scope {
				return &doccrawl.Scope{Host: host, ExcludedExtensions: doccrawl.DefaultExcludedExtensions}
			},
			want: []string{"/a"},
		},
		{
			name: "decompresses gzipped sitemaps",
			files: map[string]string{
				"/robots.txt":     "Sitemap: {{BASE}}/sitemap.xml.gz\n",
				"/sitemap.xml.gz": urlset("{{BASE}}/zipped"),
			},
			want: []string{"/zipped"},
		},
		{
			name:  "stops following indexes past the depth limit",
			files: indexChain(doccrawlhttp.MaxSitemapDepth + 1),
			want:  []string{},
		},
		{
			name:  "follows indexes up to the depth limit",
			files: indexChain(doccrawlhttp.MaxSitemapDepth),
			want:  []string{"/deep"},
		},
		{
			name:  "returns an empty list when no sitemap exists",
			files: map[string]string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, tt.files)
			defer srv.Close()

			var scope *doccrawl.Scope
			if tt.scope != nil {
				scope = tt.scope(hostOf(t, srv.URL))
			}

			urls, err := doccrawlhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL+tt.path, scope)

			require.NoError(t, err)
			want := make([]string, len(tt.want))
			for i, p := range tt.want {
				want[i] = srv.URL + p
			}
			assert.Equal(t, want, urls)
		})
	}
}

func TestSitemapService_DiscoverURLs_Errors(t *testing.T) {
	t.Parallel()

	t.Run("fails on an empty sitemap", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{"/sitemap.xml": ""})
		defer srv.Close()

		_, err := doccrawlhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "sitemap")
	})

	t.Run("fails on a document that is not a sitemap", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{"/sitemap.xml": "<rss><channel/></rss>"})
		defer srv.Close()

		_, err := doccrawlhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "<rss>")
	})

	t.Run("fails when a declared sitemap is missing", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{"/robots.txt": "Sitemap: {{BASE}}/gone.xml\n"})
		defer srv.Close()

		_, err := doccrawlhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
	})

	t.Run("rejects a base URL without a host", func(t *testing.T) {
		t.Parallel()

		_, err := doccrawlhttp.NewSitemapService(nil).DiscoverURLs(context.Background(), "/docs/", nil)

		assert.Equal(t, doccrawl.EINVALID, doccrawl.ErrorCode(err))
	})

	t.Run("returns the context error when cancelled", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{"/sitemap.xml": urlset("{{BASE}}/page1")})
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := doccrawlhttp.NewSitemapService(srv.Client()).DiscoverURLs(ctx, srv.URL, nil)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSitemapService_DiscoverURLs_HeadNotAllowed(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path != "/sitemap.xml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(urlset(srv.URL + "/page1")))
	}))
	defer srv.Close()

	urls, err := doccrawlhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/page1"}, urls)
}

// newTestServer serves files by path. Occurrences of {{BASE}} are replaced
// with the server URL, and paths ending in .gz are served gzipped.
func newTestServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		body = strings.ReplaceAll(body, "{{BASE}}", srv.URL)

		switch {
		case r.URL.Path == "/robots.txt":
			w.Header().Set("Content-Type", "text/plain")
		case strings.HasSuffix(r.URL.Path, ".gz"):
			w.Header().Set("Content-Type", "application/gzip")
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, _ = zw.Write([]byte(body))
			_ = zw.Close()
			body = buf.String()
		default:
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(body))
	}))

	return srv
}

func hostOf(t *testing.T, serverURL string) string {
	t.Helper()

	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	return u.Host
}

func prefixScope(prefix string) func(host string) *doccrawl.Scope {
	return func(host string) *doccrawl.Scope {
		return &doccrawl.Scope{Host: host, PathPrefix: prefix}
	}
}

// indexChain declares /s0.xml in robots.txt and nests depth sitemap
// indexes below it, the last of which points at a urlset listing /deep.
func indexChain(depth int) map[string]string {
	files := map[string]string{"/robots.txt": "Sitemap: {{BASE}}/s0.xml\n"}
	for i := 0; i < depth; i++ {
		files[fmt.Sprintf("/s%d.xml", i)] = sitemapIndex(fmt.Sprintf("{{BASE}}/s%d.xml", i+1))
	}
	files[fmt.Sprintf("/s%d.xml", depth)] = urlset("{{BASE}}/deep")
	return files
}

func urlset(locs ...string) string {
	return sitemapDoc("urlset", "url", locs)
}

func sitemapIndex(locs ...string) string {
	return sitemapDoc("sitemapindex", "sitemap", locs)
}

func sitemapDoc(root, entry string, locs []string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&sb, `<%s xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`+"\n", root)
	for _, loc := range locs {
		fmt.Fprintf(&sb, "  <%s><loc>%s</loc></%s>\n", entry, loc, entry)
	}
	fmt.Fprintf(&sb, "</%s>", root)
	return sb.String()
}
