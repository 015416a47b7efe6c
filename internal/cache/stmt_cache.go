// Package cache keeps prepared statements for the SQL strings the record layer
// generates repeatedly (finds by id, inserts and updates per model).
package cache

import (
	"container/list"
	"database/sql"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the number of statements kept when no capacity is given.
const DefaultCapacity = 256

// StmtCache is an LRU of prepared statements keyed by SQL text.
// Evicted statements are closed.
type StmtCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type entry struct {
	query string
	stmt  *sql.Stmt
}

// New creates a statement cache holding at most capacity statements.
// A non-positive capacity selects DefaultCapacity.
func New(capacity int) *StmtCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &StmtCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the statement prepared for query, marking it most recently used.
func (c *StmtCache) Get(query string) (*sql.Stmt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[query]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.order.MoveToFront(elem)
	c.hits.Add(1)
	return elem.Value.(*entry).stmt, true
}

// Put stores stmt under query and returns the statement the cache now holds for it.
// If another caller already cached a statement for the same query, that one wins
// and stmt is closed. When full, the least recently used statement is evicted.
func (c *StmtCache) Put(query string, stmt *sql.Stmt) *sql.Stmt {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[query]; ok {
		c.order.MoveToFront(elem)
		existing := elem.Value.(*entry).stmt
		if existing != stmt {
			_ = stmt.Close()
		}
		return existing
	}

	for c.order.Len() >= c.capacity {
		c.removeElement(c.order.Back())
		c.evictions.Add(1)
	}
	c.entries[query] = c.order.PushFront(&entry{query: query, stmt: stmt})
	return stmt
}

// Remove closes and drops the statement cached for query, if any.
func (c *StmtCache) Remove(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[query]; ok {
		c.removeElement(elem)
	}
}

// removeElement must be called with the lock held.
func (c *StmtCache) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	e := c.order.Remove(elem).(*entry)
	delete(c.entries, e.query)
	_ = e.stmt.Close()
}

// Len returns the number of cached statements.
func (c *StmtCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear closes and removes every cached statement.
func (c *StmtCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		_ = elem.Value.(*entry).stmt.Close()
	}
	c.entries = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

// Stats holds cache counters.
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats returns a snapshot of the cache counters.
func (c *StmtCache) Stats() Stats {
	return Stats{
		Size:      c.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
