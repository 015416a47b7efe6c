package core

import (
	"context"
	"fmt"
)

// selectAll returns SELECT * FROM <table>.
func (m *Model) selectAll() string {
	return "SELECT * FROM " + m.table
}

// All loads every row of the model's table in the database's natural order.
func (m *Model) All(ctx context.Context) ([]*Record, error) {
	return m.load(ctx, m.statement(m.selectAll(), nil, nil))
}

// Find loads the row with the given id. It returns nil, nil when there is none.
func (m *Model) Find(ctx context.Context, id any) (*Record, error) {
	query := fmt.Sprintf("%s WHERE %s = %s", m.selectAll(), PrimaryKeyColumn, m.db.dialect.Placeholder(1))
	records, err := m.load(ctx, m.statement(query, []any{id}, []string{PrimaryKeyColumn}))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Where loads the rows matching criteria. The result may be empty but is never nil.
func (m *Model) Where(ctx context.Context, criteria Criteria) ([]*Record, error) {
	fragment, err := m.db.where(criteria)
	if err != nil {
		return nil, err
	}
	return m.load(ctx, m.statement(m.selectAll()+" WHERE "+fragment, nil, nil))
}

// FindBySQL runs a caller-supplied query with bound args and parses every row
// into a record of m. Result columns must belong to the model's schema.
func (m *Model) FindBySQL(ctx context.Context, query string, args ...any) ([]*Record, error) {
	return m.load(ctx, m.statement(query, args, nil))
}

// load executes st and parses the rows into records.
func (m *Model) load(ctx context.Context, st *statement) ([]*Record, error) {
	s, err := m.Schema(ctx)
	if err != nil {
		return nil, err
	}
	m.installAccessors(s)

	rows, err := m.db.queryAttributes(ctx, st)
	if err != nil {
		return nil, err
	}
	return m.parseAll(ctx, rows)
}
