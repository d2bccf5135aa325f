// internal/registry/registry.go
package registry

import (
	"sync"

	"github.com/mkrv/airtag-relay/internal/airtag"
)

// Registry is the shared list of captured tags. One writer (the feed
// poller) and one reader (the cycler) at any instant; a single mutex is
// the whole discipline, there is no reader/writer distinction.
//
// Created once at startup, lives for the process lifetime.
type Registry struct {
	mu   sync.Mutex
	cap  int
	tags []airtag.Tag
}

// New creates an empty registry with the given fixed capacity.
func New(capacity int) *Registry {
	return &Registry{
		cap:  capacity,
		tags: make([]airtag.Tag, 0, capacity),
	}
}

// Replace swaps the entire contents in one critical section; never a
// merge or append. The input is copied, truncated to capacity. An empty
// input empties the registry.
func (r *Registry) Replace(tags []airtag.Tag) {
	if len(tags) > r.cap {
		tags = tags[:r.cap]
	}

	fresh := make([]airtag.Tag, len(tags))
	copy(fresh, tags)

	r.mu.Lock()
	r.tags = fresh
	r.mu.Unlock()
}

// SnapshotAt returns a copy of the tag at index i together with the
// count, both observed under the same lock acquisition, so an index
// check and the read it guards cannot straddle a replacement.
// ok is false when i is out of range for the current count.
func (r *Registry) SnapshotAt(i int) (tag airtag.Tag, count int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count = len(r.tags)
	if i < 0 || i >= count {
		return airtag.Tag{}, count, false
	}
	return r.tags[i], count, true
}

// Snapshot returns a copy of the current contents.
func (r *Registry) Snapshot() []airtag.Tag {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]airtag.Tag, len(r.tags))
	copy(out, r.tags)
	return out
}

// Len returns the current count.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tags)
}

// Cap returns the fixed capacity.
func (r *Registry) Cap() int {
	return r.cap
}
