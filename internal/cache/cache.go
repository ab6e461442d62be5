// Package cache holds fetched source images in a bounded LRU keyed by the
// source URL.
package cache

import (
	"sync"

	"github.com/guttosm/image-proxy/internal/metrics"
)

// DefaultCapacity is the number of entries kept when no size is configured.
const DefaultCapacity = 1024

// Cache defines the source image cache operations.
type Cache interface {
	Get(key Key) ([]byte, bool)
	Peek(key Key) ([]byte, bool)
	Put(key Key, data []byte)
	Len() int
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
	Capacity  int   `json:"capacity"`
}

// HitRatio returns hits / (hits + misses), or 0 before any lookup.
func (m Metrics) HitRatio() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total)
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Capacity() int
	Metrics() Metrics
}

// Store is a thread-safe LRU cache of immutable byte slices.
// A single mutex guards the map and the recency list; nothing else runs
// under it.
type Store struct {
	mu        sync.Mutex
	capacity  int
	items     map[Key]*entry
	head      *entry
	tail      *entry
	hits      int64
	misses    int64
	evictions int64
}

// entry is a node of the recency list. data is never modified after insert.
type entry struct {
	key  Key
	data []byte
	prev *entry
	next *entry
}

var _ CacheWithMetrics = (*Store)(nil)

// NewStore creates a Store holding at most capacity entries.
// A non-positive capacity falls back to DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	metrics.UpdateCacheMetrics(0, capacity)
	return &Store{
		capacity: capacity,
		items:    make(map[Key]*entry, capacity),
	}
}

// Get returns a copy of the cached bytes for key and marks it most recently used.
func (s *Store) Get(key Key) ([]byte, bool) {
	s.mu.Lock()
	e, ok := s.items[key]
	if !ok {
		s.misses++
		s.mu.Unlock()
		metrics.RecordCacheOperation("get", "miss")
		return nil, false
	}
	s.moveToFront(e)
	s.hits++
	data := e.data
	s.mu.Unlock()

	metrics.RecordCacheOperation("get", "hit")
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// Peek returns a copy of the cached bytes for key without touching recency
// or the hit and miss counters.
func (s *Store) Peek(key Key) ([]byte, bool) {
	s.mu.Lock()
	e, ok := s.items[key]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	data := e.data
	s.mu.Unlock()

	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// Put stores a private copy of data under key, replacing any previous value.
// When the store is full the least recently used entry is evicted.
func (s *Store) Put(key Key, data []byte) {
	owned := make([]byte, len(data))
	copy(owned, data)

	s.mu.Lock()
	if e, ok := s.items[key]; ok {
		e.data = owned
		s.moveToFront(e)
		size := len(s.items)
		s.mu.Unlock()
		metrics.RecordCacheOperation("put", "replace")
		metrics.UpdateCacheMetrics(size, s.capacity)
		return
	}

	e := &entry{key: key, data: owned}
	s.items[key] = e
	s.addToFront(e)

	evicted := false
	if len(s.items) > s.capacity {
		s.removeTail()
		s.evictions++
		evicted = true
	}
	size := len(s.items)
	s.mu.Unlock()

	if evicted {
		metrics.RecordCacheOperation("evict", "capacity")
	}
	metrics.RecordCacheOperation("put", "insert")
	metrics.UpdateCacheMetrics(size, s.capacity)
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Capacity returns the maximum number of entries.
func (s *Store) Capacity() int {
	return s.capacity
}

// Metrics returns current cache performance metrics.
func (s *Store) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Metrics{
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
		Size:      len(s.items),
		Capacity:  s.capacity,
	}
}

// Keys returns the cached keys from most to least recently used.
func (s *Store) Keys() []Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]Key, 0, len(s.items))
	for e := s.head; e != nil; e = e.next {
		keys = append(keys, e.key)
	}
	return keys
}

func (s *Store) moveToFront(e *entry) {
	if e == s.head {
		return
	}
	s.unlink(e)
	s.addToFront(e)
}

func (s *Store) addToFront(e *entry) {
	e.prev = nil
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

// unlink removes e from the list without touching the map.
func (s *Store) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

func (s *Store) removeTail() {
	if s.tail == nil {
		return
	}
	victim := s.tail
	delete(s.items, victim.key)
	s.unlink(victim)
}
