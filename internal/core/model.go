package core

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// PrimaryKeyColumn is the column every model uses as its primary key.
const PrimaryKeyColumn = "id"

// Model is a record type: a named mapping onto one table.
//
// Models are created with DB.Define and are safe for concurrent use. Schema,
// accessors and associations are fixed once established.
type Model struct {
	db    *DB
	name  string
	table string

	schemaMu sync.RWMutex
	schema   *Schema
	probes   singleflight.Group

	accessorsOnce sync.Once
	accessors     map[string]*Accessor

	assocMu    sync.RWMutex
	assocs     map[string]*Association
	assocOrder []string
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// Table returns the table the model maps to.
func (m *Model) Table() string {
	return m.table
}

// DB returns the database the model is defined on.
func (m *Model) DB() *DB {
	return m.db
}

// parseAll turns result rows into records of m. Every row column must belong
// to the schema.
func (m *Model) parseAll(ctx context.Context, rows []Attributes) ([]*Record, error) {
	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		rec, err := m.New(ctx, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// statement builds a statement issued on behalf of m.
func (m *Model) statement(sql string, args []any, binds []string) *statement {
	return &statement{sql: sql, args: args, binds: binds, model: m.name, table: m.table}
}
