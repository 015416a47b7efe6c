package core

// Accessor reads and writes one column of a record's attributes.
type Accessor struct {
	Column string
	Get    func(Attributes) any
	Set    func(Attributes, any)
}

// installAccessors builds the accessor table for s. It runs once per model.
func (m *Model) installAccessors(s *Schema) {
	m.accessorsOnce.Do(func() {
		table := make(map[string]*Accessor, len(s.Columns))
		for _, col := range s.Columns {
			table[col] = newAccessor(col)
		}
		m.accessors = table
	})
}

func newAccessor(column string) *Accessor {
	return &Accessor{
		Column: column,
		Get: func(a Attributes) any {
			return a[column]
		},
		Set: func(a Attributes, v any) {
			a[column] = v
		},
	}
}

// Accessor returns the accessor for column. Accessors exist once the schema has
// been read.
func (m *Model) Accessor(column string) (*Accessor, bool) {
	s := m.cachedSchema()
	if s == nil {
		return nil, false
	}
	m.installAccessors(s)
	acc, ok := m.accessors[column]
	return acc, ok
}
