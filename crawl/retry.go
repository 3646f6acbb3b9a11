package crawl

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/doccrawl"
)

// Backoff schedules retries: retry n waits Initial doubled n-1 times,
// capped at Max when Max is positive.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Retries int
}

// DefaultBackoff retries three times, after 1s, 2s and 4s.
var DefaultBackoff = Backoff{Initial: time.Second, Max: 30 * time.Second, Retries: 3}

// Delay returns the wait before retry n, counting from 1.
func (b Backoff) Delay(n int) time.Duration {
	d := b.Initial
	for i := 1; i < n; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}

// Retryable reports whether a failed fetch may succeed if attempted again.
// Timeouts, network errors, 429 and 5xx responses are retryable; other
// HTTP statuses are not.
func Retryable(err error) bool {
	var fe *doccrawl.FetchError
	if !errors.As(err, &fe) || fe.Kind != doccrawl.FetchHTTPStatus {
		return true
	}
	return fe.Status == http.StatusTooManyRequests || fe.Status >= 500
}

var _ doccrawl.Fetcher = (*RetryFetcher)(nil)

// RetryFetcher wraps a Fetcher and retries retryable failures.
type RetryFetcher struct {
	Fetcher doccrawl.Fetcher

	// Backoff defaults to DefaultBackoff when zero.
	Backoff Backoff

	// OnRetry, if set, is called before each wait.
	OnRetry func(url string, retry int, wait time.Duration, err error)
}

// Fetch fetches url. After the last retry fails its error is returned; a
// context ending during a wait returns the context's error.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (*doccrawl.RawPage, error) {
	b := f.Backoff
	if b == (Backoff{}) {
		b = DefaultBackoff
	}

	for retry := 1; ; retry++ {
		page, err := f.Fetcher.Fetch(ctx, url)
		if err == nil {
			return page, nil
		}
		if retry > b.Retries || !Retryable(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		wait := b.Delay(retry)
		if f.OnRetry != nil {
			f.OnRetry(url, retry, wait, err)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Close closes the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.Fetcher.Close()
}
