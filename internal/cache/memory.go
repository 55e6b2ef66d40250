package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/yegors/co-mag/internal/physics"
	"github.com/yegors/co-mag/pkg/logger"
)

// Memory is an in-process LRU with a per-entry TTL
type Memory struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	lst      *list.List
	dict     map[string]*list.Element
	now      func() time.Time
	logger   *logger.Logger
	counters
}

type entry struct {
	key     string
	field   physics.MagneticField
	expires time.Time
}

// NewMemory creates a new memory cache holding at most capacity entries
func NewMemory(capacity int, ttl time.Duration, log *logger.Logger) *Memory {
	if capacity <= 0 {
		capacity = 1
	}
	return &Memory{
		capacity: capacity,
		ttl:      ttl,
		lst:      list.New(),
		dict:     make(map[string]*list.Element),
		now:      time.Now,
		logger:   log.Named("cache-memory"),
	}
}

// Get returns the cached field for key if present and not expired
func (m *Memory) Get(_ context.Context, key string) (physics.MagneticField, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.dict[key]; ok {
		it := e.Value.(entry)
		if m.now().Before(it.expires) {
			m.lst.MoveToFront(e)
			m.record(true)
			return it.field, true, nil
		}
		m.lst.Remove(e)
		delete(m.dict, key)
	}
	m.record(false)
	return physics.MagneticField{}, false, nil
}

// Set stores field under key, evicting the least recently used entries over capacity
func (m *Memory) Set(_ context.Context, key string, field physics.MagneticField) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	it := entry{key: key, field: field, expires: m.now().Add(m.ttl)}
	if e, ok := m.dict[key]; ok {
		e.Value = it
		m.lst.MoveToFront(e)
		return nil
	}
	m.dict[key] = m.lst.PushFront(it)

	for m.lst.Len() > m.capacity {
		back := m.lst.Back()
		if back == nil {
			break
		}
		evicted := back.Value.(entry)
		delete(m.dict, evicted.key)
		m.lst.Remove(back)
		m.logger.Debug("Evicted cache entry", logger.String("key", evicted.key))
	}
	return nil
}

// Stats returns hit/miss counters and the current size
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	size := m.lst.Len()
	m.mu.Unlock()
	return Stats{
		Backend: "memory",
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Size:    size,
	}
}

// Close is a no-op
func (m *Memory) Close() error { return nil }
