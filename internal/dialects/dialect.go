// Package dialects provides the backend-specific pieces of SQL that the record layer
// cannot express portably: positional placeholders, the zero-row schema probe and
// how a freshly inserted primary key is read back.
package dialects

import "sync"

// Dialect defines database-specific behaviors.
type Dialect interface {
	// Name returns the canonical backend name (sqlite, mysql, postgres).
	Name() string
	// Placeholder returns the bind marker for the 1-based argument index.
	Placeholder(int) string
	// ProbeSQL returns a query against table that yields its column header and no rows.
	ProbeSQL(table string) string
	// ReturningClause returns the suffix that makes an INSERT return the generated
	// primary key as a row. Empty when the driver reports it through LastInsertId.
	ReturningClause(pk string) string
}

var (
	mu       sync.RWMutex
	dialects = make(map[string]Dialect)
)

// RegisterDialect registers a database dialect by driver name.
func RegisterDialect(name string, d Dialect) {
	mu.Lock()
	defer mu.Unlock()
	dialects[name] = d
}

// Lookup retrieves a registered dialect by driver name.
func Lookup(name string) (Dialect, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := dialects[name]
	return d, ok
}

// Placeholders returns n comma separated placeholders starting at index start.
func Placeholders(d Dialect, start, n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, d.Placeholder(start+i)...)
	}
	return string(buf)
}
