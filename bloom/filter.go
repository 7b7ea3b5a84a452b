// Package bloom tracks already-seen catalog links with a Bloom filter.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Set is a concurrency-safe probabilistic set of strings.
// Membership may report false positives at roughly the configured rate,
// never false negatives.
type Set struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewSet creates a Set sized for n expected keys with the given false
// positive rate.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{f: bloom.NewWithEstimates(n, fpRate)}
}

// AddIfAbsent records key and reports whether it was new.
func (s *Set) AddIfAbsent(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.f.TestOrAddString(key)
}
