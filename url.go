package doccrawl

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// DefaultExcludedExtensions lists binary and media file extensions that are
// never enqueued.
var DefaultExcludedExtensions = []string{
	".pdf", ".zip", ".exe", ".dmg", ".png", ".jpg", ".jpeg", ".gif",
	".svg", ".ico", ".mp4", ".mp3", ".tar", ".gz",
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(u string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(u) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(u) {
			return false
		}
	}

	return true
}

// Scope restricts which URLs a crawl may visit.
type Scope struct {
	// Host is the only host (including any non-default port) URLs may have.
	Host string

	// PathPrefix, when non-empty, must prefix the path of every URL.
	PathPrefix string

	// ExcludedExtensions are lowercase file extensions, with leading dot,
	// that are rejected.
	ExcludedExtensions []string

	// Filter is applied last to the normalized URL. May be nil.
	Filter *URLFilter
}

// Normalize canonicalizes raw, resolving it against base, and reports
// whether the result is inside the scope. The fragment is removed and the
// query is kept: URLs that differ only by fragment are the same page, URLs
// that differ by query are different pages.
//
// Normalize is pure and idempotent: normalizing an accepted URL again
// returns it unchanged.
func (s *Scope) Normalize(raw, base string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	u := ref
	if !ref.IsAbs() {
		b, err := url.Parse(base)
		if err != nil || !b.IsAbs() {
			return "", false
		}
		u = b.ResolveReference(ref)
	} else {
		// Resolving an empty reference cleans dot segments.
		u = ref.ResolveReference(&url.URL{})
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}

	u.Host = canonicalHost(u.Scheme, u.Host)
	if u.Host == "" || u.Host != canonicalHost(u.Scheme, s.Host) {
		return "", false
	}

	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""
	if u.RawQuery == "" {
		u.ForceQuery = false
	}
	if u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}

	if s.PathPrefix != "" && !strings.HasPrefix(u.Path, s.PathPrefix) {
		return "", false
	}

	if s.excluded(u.Path) {
		return "", false
	}

	normalized := u.String()
	if !s.Filter.Match(normalized) {
		return "", false
	}
	return normalized, true
}

func (s *Scope) excluded(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return false
	}
	for _, e := range s.ExcludedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// canonicalHost lowercases host and drops the scheme's default port.
func canonicalHost(scheme, host string) string {
	host = strings.ToLower(host)
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		return strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		return strings.TrimSuffix(host, ":443")
	}
	return host
}

// PathPrefixOf returns the directory part of a seed URL path, which is the
// default path prefix of a crawl: "/docs/" for both "/docs/" and
// "/docs/intro". The root path yields the empty prefix.
func PathPrefixOf(seedURL string) string {
	u, err := url.Parse(seedURL)
	if err != nil {
		return ""
	}
	p := u.Path
	if p == "" {
		return ""
	}
	if !strings.HasSuffix(p, "/") {
		p = path.Dir(p)
		if !strings.HasSuffix(p, "/") {
			p += "/"
		}
	}
	if p == "/" {
		return ""
	}
	return p
}
