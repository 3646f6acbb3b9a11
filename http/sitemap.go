package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/doccrawl"
)

// MaxSitemapDepth is how many levels of sitemap indexes are followed below
// the sitemaps a site declares.
const MaxSitemapDepth = 5

// maxSitemapSize is the protocol limit for an uncompressed sitemap.
const maxSitemapSize = 50 << 20

var _ doccrawl.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs from website sitemaps via HTTP. Gzipped
// sitemaps are decompressed.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs returns the in-scope URLs listed in the sitemaps of
// baseURL's host, normalized and without duplicates, in sitemap order.
// A nil scope accepts every URL on the host of baseURL. The result is
// empty, never nil, when the site has no sitemap.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, scope *doccrawl.Scope) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, doccrawl.Errorf(doccrawl.EINVALID, "invalid base URL %q", baseURL)
	}
	if scope == nil {
		scope = &doccrawl.Scope{Host: base.Host}
	}
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sources, err := s.declared(ctx, origin, scope.PathPrefix)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	kept := make(map[string]bool)
	w := &sitemapWalk{
		svc:     s,
		visited: make(map[string]bool),
		emit: func(loc string) {
			u, ok := scope.Normalize(loc, baseURL)
			if ok && !kept[u] {
				kept[u] = true
				urls = append(urls, u)
			}
		},
	}
	for _, src := range sources {
		if err := w.visit(ctx, src, 0); err != nil {
			return nil, err
		}
	}
	return urls, nil
}

// declared returns the Sitemap directives of the host's robots.txt. A host
// without directives is probed at the conventional locations instead, and
// every one that exists is returned.
func (s *SitemapService) declared(ctx context.Context, origin *url.URL, prefix string) ([]string, error) {
	rules, _ := fetchRobots(ctx, s.client, origin.JoinPath("robots.txt").String())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rules != nil && len(rules.Sitemaps) > 0 {
		out := make([]string, 0, len(rules.Sitemaps))
		for _, sm := range rules.Sitemaps {
			if ref, err := url.Parse(strings.TrimSpace(sm)); err == nil {
				out = append(out, origin.ResolveReference(ref).String())
			}
		}
		return out, nil
	}

	var found []string
	for _, candidate := range conventionalSitemaps(origin, prefix) {
		if s.exists(ctx, candidate) {
			found = append(found, candidate)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return found, nil
}

func conventionalSitemaps(origin *url.URL, prefix string) []string {
	out := []string{
		origin.JoinPath("sitemap.xml").String(),
		origin.JoinPath("sitemap_index.xml").String(),
	}
	if dir := strings.Trim(prefix, "/"); dir != "" {
		out = append(out, origin.JoinPath(dir, "sitemap.xml").String())
	}
	return out
}

// sitemapWalk follows sitemap indexes depth first, loading each sitemap
// at most once, and passes every page location to emit.
type sitemapWalk struct {
	svc     *SitemapService
	visited map[string]bool
	emit    func(loc string)
}

func (w *sitemapWalk) visit(ctx context.Context, sitemapURL string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] || depth > MaxSitemapDepth {
		return nil
	}
	w.visited[sitemapURL] = true

	root, err := w.svc.load(ctx, sitemapURL)
	if err != nil {
		return err
	}

	switch root.Tag {
	case "sitemapindex":
		for _, loc := range locs(root, "sitemap") {
			if err := w.visit(ctx, loc, depth+1); err != nil {
				return err
			}
		}
	case "urlset":
		for _, loc := range locs(root, "url") {
			w.emit(loc)
		}
	default:
		return fmt.Errorf("sitemap %s: unexpected root element <%s>", sitemapURL, root.Tag)
	}
	return nil
}

// load fetches and parses one sitemap and returns its root element.
func (s *SitemapService) load(ctx context.Context, sitemapURL string) (*etree.Element, error) {
	resp, err := s.do(ctx, http.MethodGet, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sitemap %s: HTTP %d", sitemapURL, resp.StatusCode)
	}

	body, err := decompress(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sitemap %s: %w", sitemapURL, err)
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(io.LimitReader(body, maxSitemapSize)); err != nil {
		return nil, fmt.Errorf("parsing sitemap %s: %w", sitemapURL, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("empty sitemap %s", sitemapURL)
	}
	return doc.Root(), nil
}

// decompress unwraps gzip data, recognized by its magic number. Other
// content is returned as is.
func decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		return gzip.NewReader(br)
	}
	return br, nil
}

// locs returns the non-empty <loc> values of root's children named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// exists reports whether targetURL answers 200. Servers that reject HEAD
// are asked again with GET.
func (s *SitemapService) exists(ctx context.Context, targetURL string) bool {
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		resp, err := s.do(ctx, method, targetURL)
		if err != nil {
			return false
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			return resp.StatusCode == http.StatusOK
		}
	}
	return false
}

func (s *SitemapService) do(ctx context.Context, method, targetURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	return s.client.Do(req)
}
