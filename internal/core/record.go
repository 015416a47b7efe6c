package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/sqlobject/internal/dialects"
	"github.com/coregx/sqlobject/internal/util"
)

// Record is one row of a model's table held in memory.
//
// A record without an id is transient: Save inserts it and stores the generated
// id. A record with an id is persisted: Save updates it. Records are independent
// values; loading the same row twice yields two records.
type Record struct {
	model *Model
	attrs Attributes
}

// New builds a record of m from attrs. Every key must be a column of the
// model's schema, otherwise an *UnknownAttributeError is returned. The schema is
// read on first use.
func (m *Model) New(ctx context.Context, attrs Attributes) (*Record, error) {
	s, err := m.Schema(ctx)
	if err != nil {
		return nil, err
	}
	m.installAccessors(s)

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rec := &Record{model: m, attrs: make(Attributes, len(attrs))}
	for _, k := range keys {
		acc, ok := m.accessors[k]
		if !ok {
			return nil, &UnknownAttributeError{Model: m.name, Column: k}
		}
		acc.Set(rec.attrs, normalizeValue(attrs[k]))
	}
	return rec, nil
}

// NewFromStruct builds a record from a struct tagged with db column names.
// A zero id field leaves the record transient.
func (m *Model) NewFromStruct(ctx context.Context, src any) (*Record, error) {
	attrs, err := util.StructToMap(src)
	if err != nil {
		return nil, err
	}
	if id, ok := attrs[PrimaryKeyColumn]; ok && util.IsZeroID(id) {
		delete(attrs, PrimaryKeyColumn)
	}
	return m.New(ctx, attrs)
}

// Create builds a record from attrs and saves it.
func (m *Model) Create(ctx context.Context, attrs Attributes) (*Record, error) {
	rec, err := m.New(ctx, attrs)
	if err != nil {
		return nil, err
	}
	if err := rec.Save(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

// Model returns the record's model.
func (r *Record) Model() *Model {
	return r.model
}

// Get returns the value of column, or nil when unset or not a column.
func (r *Record) Get(column string) any {
	acc, ok := r.model.accessors[column]
	if !ok {
		return nil
	}
	return acc.Get(r.attrs)
}

// Set writes column. Columns outside the schema are rejected.
func (r *Record) Set(column string, value any) error {
	acc, ok := r.model.accessors[column]
	if !ok {
		return &UnknownAttributeError{Model: r.model.name, Column: column}
	}
	acc.Set(r.attrs, normalizeValue(value))
	return nil
}

// Has reports whether column has been assigned, even to nil.
func (r *Record) Has(column string) bool {
	_, ok := r.attrs[column]
	return ok
}

// IsNull reports whether column is unset or nil.
func (r *Record) IsNull(column string) bool {
	return r.Get(column) == nil
}

// ID returns the primary key value, or nil for a transient record.
func (r *Record) ID() any {
	return r.attrs[PrimaryKeyColumn]
}

// IsPersisted reports whether the record has a primary key.
func (r *Record) IsPersisted() bool {
	return r.ID() != nil
}

// Attributes returns a copy of the record's attributes.
func (r *Record) Attributes() Attributes {
	return r.attrs.Clone()
}

// AttributeValues returns one value per schema column, in column order.
func (r *Record) AttributeValues() []any {
	s := r.model.cachedSchema()
	values := make([]any, len(s.Columns))
	for i, col := range s.Columns {
		values[i] = r.attrs[col]
	}
	return values
}

// Scan copies the record's attributes into the db-tagged fields of dest.
func (r *Record) Scan(dest any) error {
	return util.AssignMap(dest, r.attrs)
}

// Inspect returns a debug representation such as Cat{id: 1, name: Tom}.
func (r *Record) Inspect() string {
	s := r.model.cachedSchema()
	parts := make([]string, 0, len(r.attrs))
	for _, col := range s.Columns {
		if v, ok := r.attrs[col]; ok {
			parts = append(parts, fmt.Sprintf("%s: %v", col, v))
		}
	}
	return r.model.name + "{" + strings.Join(parts, ", ") + "}"
}

// nonKeyColumns returns the schema columns other than the primary key.
func nonKeyColumns(s *Schema) []string {
	cols := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c != PrimaryKeyColumn {
			cols = append(cols, c)
		}
	}
	return cols
}

// Insert writes the record as a new row and stores the generated id.
// It does not check whether the record was already inserted.
func (r *Record) Insert(ctx context.Context) error {
	m := r.model
	s := m.cachedSchema()
	d := m.db.dialect

	cols := nonKeyColumns(s)
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = r.attrs[c]
	}

	var query string
	if len(cols) == 0 {
		query = "INSERT INTO " + m.table + " DEFAULT VALUES"
	} else {
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			m.table, strings.Join(cols, ", "), dialects.Placeholders(d, 1, len(cols)))
	}

	if !s.Has(PrimaryKeyColumn) {
		_, err := m.db.exec(ctx, m.statement(query, args, cols))
		return err
	}

	if returning := d.ReturningClause(PrimaryKeyColumn); returning != "" {
		rows, err := m.db.queryAttributes(ctx, m.statement(query+returning, args, cols))
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			r.attrs[PrimaryKeyColumn] = rows[0][PrimaryKeyColumn]
		}
		return nil
	}

	result, err := m.db.exec(ctx, m.statement(query, args, cols))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	r.attrs[PrimaryKeyColumn] = id
	return nil
}

// Update writes every non-id column to the row identified by the record's id.
func (r *Record) Update(ctx context.Context) error {
	id := r.ID()
	if id == nil {
		return ErrMissingPrimaryKey
	}

	m := r.model
	d := m.db.dialect
	cols := nonKeyColumns(m.cachedSchema())
	if len(cols) == 0 {
		return nil
	}

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = c + " = " + d.Placeholder(i+1)
		args = append(args, r.attrs[c])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		m.table, strings.Join(sets, ", "), PrimaryKeyColumn, d.Placeholder(len(cols)+1))
	_, err := m.db.exec(ctx, m.statement(query, args, append(cols, PrimaryKeyColumn)))
	return err
}

// Save inserts a transient record or updates a persisted one.
func (r *Record) Save(ctx context.Context) error {
	if r.IsPersisted() {
		return r.Update(ctx)
	}
	return r.Insert(ctx)
}

// Delete removes the row identified by the record's id. The record keeps its
// attributes; saving it again issues an UPDATE that affects no rows.
func (r *Record) Delete(ctx context.Context) error {
	id := r.ID()
	if id == nil {
		return ErrMissingPrimaryKey
	}
	m := r.model
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", m.table, PrimaryKeyColumn, m.db.dialect.Placeholder(1))
	_, err := m.db.exec(ctx, m.statement(query, []any{id}, []string{PrimaryKeyColumn}))
	return err
}

// Reload reads the record's row again into a new record. It returns nil when the
// row no longer exists.
func (r *Record) Reload(ctx context.Context) (*Record, error) {
	id := r.ID()
	if id == nil {
		return nil, ErrMissingPrimaryKey
	}
	return r.model.Find(ctx, id)
}
