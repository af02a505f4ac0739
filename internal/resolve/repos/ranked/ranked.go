// Package ranked maintains a priority-ordered collection of capability
// providers. Entries are ordered by rank descending, with the earlier
// service ID winning ties, so the order is stable and deterministic for any
// set of bindings. The ordered array is rebuilt after every mutation and
// published atomically; readers holding an older snapshot keep using it.
package ranked

import (
	"sort"
	"sync"
	"sync/atomic"
)

type entry[P any] struct {
	serviceID int64
	rank      int
	provider  P
}

// List is a ranked provider collection safe for concurrent use. The zero
// value is not usable; construct with New.
type List[P any] struct {
	mu       sync.Mutex // serializes Bind/Unbind
	entries  []entry[P]
	snapshot atomic.Pointer[[]P]
}

// New returns an empty list.
func New[P any]() *List[P] {
	l := &List[P]{}
	l.snapshot.Store(&[]P{})
	return l
}

// Bind inserts provider under the given service ID and rank. Binding an
// already-bound service ID replaces its entry.
func (l *List[P]) Bind(serviceID int64, rank int, provider P) {
	l.mu.Lock()
	defer l.mu.Unlock()

	replaced := false
	for i := range l.entries {
		if l.entries[i].serviceID == serviceID {
			l.entries[i] = entry[P]{serviceID: serviceID, rank: rank, provider: provider}
			replaced = true
			break
		}
	}
	if !replaced {
		l.entries = append(l.entries, entry[P]{serviceID: serviceID, rank: rank, provider: provider})
	}
	l.publish()
}

// Unbind removes the entry bound under serviceID. Unknown IDs are a no-op.
func (l *List[P]) Unbind(serviceID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].serviceID == serviceID {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			break
		}
	}
	l.publish()
}

// publish rebuilds the ordered snapshot and swaps it in. Callers must hold mu.
func (l *List[P]) publish() {
	sort.SliceStable(l.entries, func(i, j int) bool {
		if l.entries[i].rank != l.entries[j].rank {
			return l.entries[i].rank > l.entries[j].rank
		}
		return l.entries[i].serviceID < l.entries[j].serviceID
	})
	ordered := make([]P, len(l.entries))
	for i, e := range l.entries {
		ordered[i] = e.provider
	}
	l.snapshot.Store(&ordered)
}

// Snapshot returns the currently published ordered array. The returned slice
// is immutable; callers must not modify it.
func (l *List[P]) Snapshot() []P {
	return *l.snapshot.Load()
}

// Len returns the number of bound providers.
func (l *List[P]) Len() int {
	return len(l.Snapshot())
}
