package livesync

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// DefaultMaxItems is the window kept by the views lists.
const DefaultMaxItems = 500

// Record is an item identified by primary key and ordered by creation time.
type Record interface {
	RecordID() string
	RecordTime() time.Time
}

// List is an ascending, deduplicated sequence of records.
// When MaxItems is set only the newest MaxItems records are kept.
type List[T Record] struct {
	MaxItems int

	mu    sync.RWMutex
	items []T
}

func NewList[T Record](maxItems int) *List[T] {
	return &List[T]{MaxItems: maxItems}
}

func compareRecords[T Record](a, b T) int {
	if c := a.RecordTime().Compare(b.RecordTime()); c != 0 {
		return c
	}
	return cmp.Compare(a.RecordID(), b.RecordID())
}

// Load replaces the whole sequence.
// Later duplicates win over earlier ones.
func (l *List[T]) Load(items []T) {
	latest := make(map[string]T, len(items))
	for _, item := range items {
		latest[item.RecordID()] = item
	}

	out := make([]T, 0, len(latest))
	for _, item := range latest {
		out = append(out, item)
	}
	slices.SortFunc(out, compareRecords[T])

	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = out
	l.trim()
}

// Append merges one record.
// A record already present is replaced in place,
// otherwise it is inserted at its position by creation time.
// It reports whether the record was new and is kept in the window.
func (l *List[T]) Append(item T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := item.RecordID()
	for i := len(l.items) - 1; i >= 0; i-- {
		if l.items[i].RecordID() == id {
			l.items[i] = item
			return false
		}
	}

	i, _ := slices.BinarySearchFunc(l.items, item, compareRecords[T])
	l.items = slices.Insert(l.items, i, item)

	n := len(l.items)
	l.trim()

	// older than the whole window: evicted right away.
	return i >= n-len(l.items)
}

// Merge appends every item.
func (l *List[T]) Merge(items ...T) {
	for _, item := range items {
		l.Append(item)
	}
}

// Items returns a copy of the sequence.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Last returns the newest record.
func (l *List[T]) Last() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var zero T
	if len(l.items) == 0 {
		return zero, false
	}
	return l.items[len(l.items)-1], true
}

// SetMaxItems changes the window size, dropping the oldest records
// that no longer fit.
func (l *List[T]) SetMaxItems(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.MaxItems = n
	l.trim()
}

func (l *List[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

func (l *List[T]) trim() {
	if l.MaxItems > 0 && len(l.items) > l.MaxItems {
		l.items = slices.Delete(l.items, 0, len(l.items)-l.MaxItems)
	}
}
