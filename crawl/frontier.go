package crawl

import (
	"container/heap"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/doccrawl"
)

// Compile-time interface verification.
var _ doccrawl.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory URL frontier ordered by traversal order.
// Membership is exact: a Bloom filter answers most negative lookups and a
// set confirms the positives. It is safe for concurrent use.
type Frontier struct {
	mu     sync.Mutex
	order  doccrawl.TraversalOrder
	filter *bloom.BloomFilter
	seen   map[string]struct{}
	queue  *entryHeap
	seq    uint64
}

// NewFrontier creates a new Frontier sized for n expected URLs with the
// given Bloom filter false positive rate. An empty order means depth-first.
func NewFrontier(order doccrawl.TraversalOrder, n uint, fpRate float64) *Frontier {
	if order == "" {
		order = doccrawl.OrderDepthFirst
	}
	h := &entryHeap{order: order}
	heap.Init(h)
	return &Frontier{
		order:  order,
		filter: bloom.NewWithEstimates(n, fpRate),
		seen:   make(map[string]struct{}),
		queue:  h,
	}
}

// Push adds a URL to the frontier.
// Returns false if the URL has been pushed before. URLs are expected to be
// normalized already.
func (f *Frontier) Push(entry doccrawl.QueuedURL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seenLocked(entry.URL) {
		return false
	}
	f.filter.AddString(entry.URL)
	f.seen[entry.URL] = struct{}{}

	f.seq++
	heap.Push(f.queue, queued{QueuedURL: entry, seq: f.seq})
	return true
}

// Pop returns the next URL in traversal order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (doccrawl.QueuedURL, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return doccrawl.QueuedURL{}, false
	}
	e, _ := heap.Pop(f.queue).(queued)
	return e.QueuedURL, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been queued or processed.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seenLocked(url)
}

func (f *Frontier) seenLocked(url string) bool {
	if !f.filter.TestString(url) {
		return false
	}
	_, ok := f.seen[url]
	return ok
}

type queued struct {
	doccrawl.QueuedURL
	seq uint64
}

// entryHeap implements heap.Interface over queued URLs.
type entryHeap struct {
	order   doccrawl.TraversalOrder
	entries []queued
}

func (h *entryHeap) Len() int { return len(h.entries) }

// Less orders depth-first as deepest, then lexicographically smallest, and
// breadth-first as shallowest, then first discovered.
func (h *entryHeap) Less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if h.order == doccrawl.OrderBreadthFirst {
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		return a.seq < b.seq
	}
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.URL < b.URL
}

func (h *entryHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *entryHeap) Push(x any) {
	e, _ := x.(queued)
	h.entries = append(h.entries, e)
}

func (h *entryHeap) Pop() any {
	old := h.entries
	n := len(old)
	x := old[n-1]
	h.entries = old[0 : n-1]
	return x
}
