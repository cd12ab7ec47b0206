package crawl

import (
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/webkb/webkb"
)

// Bloom filter sizing for frontier enqueue deduplication.
const (
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// Compile-time interface verification.
var _ webkb.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue with Bloom filter enqueue
// deduplication. The Traverser's visited set remains the exact authority
// on dispatched fetches; the filter only prevents re-enqueueing.
type Frontier struct {
	seen  *bloom.BloomFilter
	queue []webkb.FrontierEntry
}

// NewFrontier creates a Frontier sized for the expected crawl volume.
func NewFrontier() *Frontier {
	return &Frontier{
		seen: bloom.NewWithEstimates(frontierExpectedURLs, frontierFalsePositiveRate),
	}
}

// Push adds an entry to the frontier. Returns false if the URL has already
// been seen. URL fragments are stripped before deduplication - URLs
// differing only by fragment are considered duplicates.
func (f *Frontier) Push(entry webkb.FrontierEntry) bool {
	url := stripFragment(entry.URL)
	if f.seen.TestString(url) {
		return false
	}
	f.seen.AddString(url)

	entry.URL = url
	f.queue = append(f.queue, entry)
	return true
}

// Pop returns the next entry in FIFO order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (webkb.FrontierEntry, bool) {
	if len(f.queue) == 0 {
		return webkb.FrontierEntry{}, false
	}
	entry := f.queue[0]
	f.queue = f.queue[1:]
	return entry, true
}

// Len returns the number of entries in the queue.
func (f *Frontier) Len() int {
	return len(f.queue)
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
