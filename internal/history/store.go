// Package history keeps a bounded, in-memory record of past runs per test
// and of whole batches. Nothing is persisted across processes.
package history

import (
	"sync"

	"github.com/emirpasic/gods/queues/circularbuffer"

	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// Store retains at most Capacity entries per test, evicting the oldest first.
// The engine is the only writer. Readers outside the engine get copies of
// each record through its progress events.
type Store struct {
	mu       sync.RWMutex
	capacity int
	perTest  map[string]*circularbuffer.Queue
	batches  *circularbuffer.Queue
}

// NewStore creates a store. Capacities below 1 are raised to 1.
func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		capacity: capacity,
		perTest:  make(map[string]*circularbuffer.Queue),
		batches:  circularbuffer.New(capacity),
	}
}

// Capacity returns the per-test bound.
func (s *Store) Capacity() int {
	return s.capacity
}

// Append records entry after all prior entries for name.
func (s *Store) Append(name string, entry yamoritypes.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.perTest[name]
	if !ok {
		q = circularbuffer.New(s.capacity)
		s.perTest[name] = q
	}
	q.Enqueue(entry)
}

// Recent returns up to n of the newest entries for name, oldest first.
// n <= 0 returns every retained entry.
func (s *Store) Recent(name string, n int) []yamoritypes.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.perTest[name]
	if !ok {
		return nil
	}
	values := q.Values()
	if n > 0 && n < len(values) {
		values = values[len(values)-n:]
	}
	out := make([]yamoritypes.HistoryEntry, len(values))
	for i, v := range values {
		out[i] = v.(yamoritypes.HistoryEntry)
	}
	return out
}

// Len returns the number of retained entries for name.
func (s *Store) Len(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if q, ok := s.perTest[name]; ok {
		return q.Size()
	}
	return 0
}

// AppendBatch records a completed batch.
func (s *Store) AppendBatch(b yamoritypes.BatchSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches.Enqueue(b)
}

// Batches returns the retained batches, oldest first.
func (s *Store) Batches() []yamoritypes.BatchSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := s.batches.Values()
	out := make([]yamoritypes.BatchSummary, len(values))
	for i, v := range values {
		out[i] = v.(yamoritypes.BatchSummary)
	}
	return out
}
