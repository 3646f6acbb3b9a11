package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/doccrawl"
	"github.com/temoto/robotstxt"
)

// DefaultRobotsAgent is the product token matched against robots.txt
// User-agent lines.
const DefaultRobotsAgent = "doccrawl"

const maxRobotsSize = 512 << 10

var _ doccrawl.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy evaluates robots.txt rules. Rules are fetched once per host
// and cached for the lifetime of the policy. Hosts whose robots.txt cannot
// be retrieved are allowed.
type RobotsPolicy struct {
	client *http.Client
	agent  string

	mu    sync.Mutex
	cache map[string]*robotstxt.RobotsData
}

// NewRobotsPolicy creates a policy for agent. If client is nil,
// http.DefaultClient is used; an empty agent means DefaultRobotsAgent.
func NewRobotsPolicy(client *http.Client, agent string) *RobotsPolicy {
	if client == nil {
		client = http.DefaultClient
	}
	if agent == "" {
		agent = DefaultRobotsAgent
	}
	return &RobotsPolicy{
		client: client,
		agent:  agent,
		cache:  make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether the rules of rawURL's host permit fetching it.
func (p *RobotsPolicy) Allowed(ctx context.Context, rawURL string) bool {
	target, err := url.Parse(rawURL)
	if err != nil || !target.IsAbs() {
		return false
	}

	rules := p.rules(ctx, target)
	if rules == nil {
		return true
	}
	return rules.TestAgent(target.RequestURI(), p.agent)
}

// rules returns the cached rules of target's host, fetching them on first
// use. The lock is held while fetching so a host is requested only once.
func (p *RobotsPolicy) rules(ctx context.Context, target *url.URL) *robotstxt.RobotsData {
	key := strings.ToLower(target.Scheme + "://" + target.Host)

	p.mu.Lock()
	defer p.mu.Unlock()

	if rules, ok := p.cache[key]; ok {
		return rules
	}

	rules, err := fetchRobots(ctx, p.client, key+"/robots.txt")
	if err != nil && ctx.Err() != nil {
		return nil
	}
	p.cache[key] = rules
	return rules
}

// fetchRobots returns nil rules for unreachable, failing or unparsable
// robots.txt files. A 4xx response yields rules that allow everything.
func fetchRobots(ctx context.Context, client *http.Client, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return nil, err
	}

	rules, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, nil
	}
	return rules, nil
}
