package cache

import (
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a mock database that accepts one Prepare per query, in
// any order.
func setupTestDB(t *testing.T, queries ...string) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	mock.MatchExpectationsInOrder(false)
	for _, q := range queries {
		mock.ExpectPrepare(q)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func prepare(t *testing.T, db *sql.DB, query string) *sql.Stmt {
	t.Helper()
	stmt, err := db.Prepare(query)
	require.NoError(t, err)
	return stmt
}

func TestNew_Capacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		expected int
	}{
		{"positive", 10, 10},
		{"zero uses default", 0, DefaultCapacity},
		{"negative uses default", -3, DefaultCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.capacity)
			assert.Equal(t, tt.expected, c.Stats().Capacity)
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestStmtCache_GetPut(t *testing.T) {
	db := setupTestDB(t, "SELECT * FROM cats")
	c := New(4)

	_, ok := c.Get("SELECT * FROM cats")
	assert.False(t, ok)

	stmt := prepare(t, db, "SELECT * FROM cats")
	c.Put("SELECT * FROM cats", stmt)

	got, ok := c.Get("SELECT * FROM cats")
	require.True(t, ok)
	assert.Same(t, stmt, got)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate(), 0.0001)
}

func TestStmtCache_PutKeepsFirstStatement(t *testing.T) {
	db := setupTestDB(t, "SELECT 1", "SELECT 1")
	c := New(4)

	first := prepare(t, db, "SELECT 1")
	second := prepare(t, db, "SELECT 1")
	assert.Same(t, first, c.Put("SELECT 1", first))
	assert.Same(t, first, c.Put("SELECT 1", second))

	got, ok := c.Get("SELECT 1")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 1, c.Len())
}

func TestStmtCache_EvictsLeastRecentlyUsed(t *testing.T) {
	db := setupTestDB(t, "a", "b", "c")
	c := New(2)

	c.Put("a", prepare(t, db, "a"))
	c.Put("b", prepare(t, db, "b"))

	// touch a so b becomes the eviction candidate
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", prepare(t, db, "c"))

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestStmtCache_RemoveAndClear(t *testing.T) {
	db := setupTestDB(t, "SELECT 0", "SELECT 1", "SELECT 2")
	c := New(8)

	for i := 0; i < 3; i++ {
		q := fmt.Sprintf("SELECT %d", i)
		c.Put(q, prepare(t, db, q))
	}
	c.Remove("SELECT 1")
	assert.Equal(t, 2, c.Len())
	c.Remove("missing")
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("SELECT 0")
	assert.False(t, ok)
}

func TestStmtCache_Concurrent(t *testing.T) {
	var queries []string
	for i := 0; i < 8; i++ {
		queries = append(queries, fmt.Sprintf("SELECT %d", i%4))
	}
	db := setupTestDB(t, queries...)
	c := New(16)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			q := fmt.Sprintf("SELECT %d", n%4)
			stmt, err := db.Prepare(q)
			if err != nil {
				return
			}
			c.Put(q, stmt)
			c.Get(q)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 4)
}
