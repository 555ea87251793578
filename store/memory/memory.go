package memory

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flowsmith/flowsmith/store"
)

// DefaultCapacity bounds the in-process cache: a handful of flows per
// session, evicted least-recently-used first.
const DefaultCapacity = 10

// MemoryFlowStore implements store.FlowStore with an in-process LRU
// cache. It is the store used when no persistence backend is configured.
type MemoryFlowStore struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type cacheEntry struct {
	id     string
	record *store.Record
}

// NewMemoryFlowStore creates an in-memory store. A capacity of zero or
// less selects DefaultCapacity.
func NewMemoryFlowStore(capacity int) *MemoryFlowStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryFlowStore{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Save stores or replaces the record for a flow ID
func (s *MemoryFlowStore) Save(_ context.Context, id string, record *store.Record) error {
	if record == nil {
		return fmt.Errorf("nil record for flow %s", id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	stored.SavedAt = time.Now()

	if elem, ok := s.entries[id]; ok {
		elem.Value.(*cacheEntry).record = &stored
		s.order.MoveToFront(elem)
		return nil
	}

	s.entries[id] = s.order.PushFront(&cacheEntry{id: id, record: &stored})
	for s.order.Len() > s.capacity {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.entries, oldest.Value.(*cacheEntry).id)
	}
	return nil
}

// Load retrieves a record by flow ID
func (s *MemoryFlowStore) Load(_ context.Context, id string) (*store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	s.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).record, nil
}

// List returns the stored flow IDs, most recently used first
func (s *MemoryFlowStore) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, s.order.Len())
	for elem := s.order.Front(); elem != nil; elem = elem.Next() {
		ids = append(ids, elem.Value.(*cacheEntry).id)
	}
	return ids, nil
}

// Delete removes a stored flow
func (s *MemoryFlowStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[id]
	if !ok {
		return nil
	}
	s.order.Remove(elem)
	delete(s.entries, id)
	return nil
}

// Len returns the number of stored flows.
func (s *MemoryFlowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
