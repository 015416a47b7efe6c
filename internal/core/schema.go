package core

import "context"

// Schema is the ordered column list of a model's table.
type Schema struct {
	Table   string
	Columns []string
	index   map[string]int
}

func newSchema(table string, columns []string) *Schema {
	s := &Schema{
		Table:   table,
		Columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		s.index[c] = i
	}
	return s
}

// Has reports whether column is part of the schema.
func (s *Schema) Has(column string) bool {
	_, ok := s.index[column]
	return ok
}

// Schema returns the model's schema, reading it from the database on first use.
//
// The probe runs once per model; concurrent first callers share it. Once read,
// the schema is never refreshed, even if the table is altered. A probe failure
// (for example a missing table) is returned unmodified and not cached.
func (m *Model) Schema(ctx context.Context) (*Schema, error) {
	if s := m.cachedSchema(); s != nil {
		return s, nil
	}

	v, err, _ := m.probes.Do("schema", func() (any, error) {
		if s := m.cachedSchema(); s != nil {
			return s, nil
		}

		st := m.statement(m.db.dialect.ProbeSQL(m.table), nil, nil)
		columns, err := m.db.probe(ctx, st)
		if err != nil {
			return nil, err
		}

		s := newSchema(m.table, columns)
		m.schemaMu.Lock()
		m.schema = s
		m.schemaMu.Unlock()

		m.db.logger.Debug("schema reflected", "model", m.name, "table", m.table, "columns", columns)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Schema), nil
}

// Columns returns the model's column names in table order.
func (m *Model) Columns(ctx context.Context) ([]string, error) {
	s, err := m.Schema(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(s.Columns))
	copy(out, s.Columns)
	return out, nil
}

func (m *Model) cachedSchema() *Schema {
	m.schemaMu.RLock()
	defer m.schemaMu.RUnlock()
	return m.schema
}
