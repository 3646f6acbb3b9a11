// Package fs writes crawl output to the local filesystem.
package fs

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/doccrawl"
)

// pageExtensions are dropped from URL paths before ext is appended.
var pageExtensions = map[string]bool{".html": true, ".htm": true, ".php": true, ".asp": true, ".aspx": true}

// URLToPath converts a page URL to a relative, slash-separated file path
// ending in ext. Example: https://example.com/docs/api/users with ".md"
// becomes docs/api/users.md. A query string adds a short hash suffix so
// that pages differing by query get distinct files.
func URLToPath(rawURL, ext string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", doccrawl.Errorf(doccrawl.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	for _, seg := range strings.Split(u.Path, "/") {
		if seg == ".." {
			return "", doccrawl.Errorf(doccrawl.EINVALID, "path traversal in URL %q", rawURL)
		}
	}

	p := strings.TrimPrefix(u.Path, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}
	if ext := strings.ToLower(path.Ext(p)); pageExtensions[ext] {
		p = p[:len(p)-len(ext)]
	}

	if u.RawQuery != "" {
		p += fmt.Sprintf("-%08x", uint32(xxhash.Sum64String(u.RawQuery)))
	}

	return p + ext, nil
}
