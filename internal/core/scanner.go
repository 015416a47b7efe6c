package core

import (
	"database/sql"
	"fmt"
)

// Attributes maps column names to values for one row.
//
// Values read from the database are int64, float64, bool, string, time.Time or nil;
// drivers that return []byte for text have it converted to string.
type Attributes map[string]any

// Clone returns a shallow copy of a.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// scanAttributes reads every remaining row into an attribute map.
// The result is never nil.
func scanAttributes(rows *sql.Rows) ([]Attributes, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("scanner: failed to get columns: %w", err)
	}

	out := make([]Attributes, 0)
	values := make([]any, len(columns))
	dests := make([]any, len(columns))
	for i := range values {
		dests[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scanner: scan failed: %w", err)
		}

		row := make(Attributes, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
			values[i] = nil
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanner: rows iteration failed: %w", err)
	}
	return out, nil
}

func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
