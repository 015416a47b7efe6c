package core

import (
	"context"
	"iter"
	"regexp"
	"strings"
	"unicode"
)

// Relation is a deferred query against one model. Chaining with Where returns a
// new Relation whose SQL extends the parent's; nothing runs until the relation
// is consumed, and every consumption runs the query again.
//
// A failure while building a relation is kept and returned by Err and by every
// consuming method.
type Relation struct {
	model    *Model
	sql      string
	hasWhere bool
	err      error
}

var (
	// SELECT * FROM cats
	seedStarRe = regexp.MustCompile(`(?i)\bSELECT\s+\*\s+FROM\s+(\w+)`)
	// SELECT cats.* FROM ...
	seedQualifiedRe = regexp.MustCompile(`(?i)\bSELECT\s+(\w+)\.\*\s+FROM\b`)
	// ... FROM cats
	seedFromRe = regexp.MustCompile(`(?i)\bFROM\s+(\w+)`)

	whereRe = regexp.MustCompile(`(?i)\bWHERE\b`)
)

// WhereLazy returns a relation selecting the rows matching criteria. Nothing is
// executed.
func (m *Model) WhereLazy(criteria Criteria) *Relation {
	fragment, err := m.db.where(criteria)
	if err != nil {
		return &Relation{model: m, sql: m.selectAll(), err: err}
	}
	return &Relation{
		model:    m,
		sql:      collapseSpace(m.selectAll() + " WHERE " + fragment),
		hasWhere: true,
	}
}

// Scope returns a relation over every row of the model's table.
func (m *Model) Scope() *Relation {
	return &Relation{model: m, sql: m.selectAll()}
}

// Relation returns a relation for seed SQL whose rows are records of m.
func (m *Model) Relation(seed string) *Relation {
	sql := collapseSpace(seed)
	return &Relation{model: m, sql: sql, hasWhere: whereRe.MatchString(sql)}
}

// ParseRelation builds a relation from seed SQL, inferring the model from the
// table the seed selects from. Prefer Model.Relation when the model is known.
func (db *DB) ParseRelation(seed string) (*Relation, error) {
	table := seedTable(seed)
	if table == "" {
		return nil, &MalformedSeedError{SQL: seed}
	}
	m, err := db.lookupTable(table)
	if err != nil {
		return nil, err
	}
	return m.Relation(seed), nil
}

// seedTable extracts the table token from seed SQL, or "" when there is none.
func seedTable(seed string) string {
	for _, re := range []*regexp.Regexp{seedStarRe, seedQualifiedRe, seedFromRe} {
		if m := re.FindStringSubmatch(seed); m != nil {
			return m[1]
		}
	}
	return ""
}

// Where returns a new relation that also requires criteria. The receiver is not
// modified.
func (r *Relation) Where(criteria Criteria) *Relation {
	if r.err != nil {
		return r
	}
	fragment, err := r.model.db.where(criteria)
	if err != nil {
		return &Relation{model: r.model, sql: r.sql, hasWhere: r.hasWhere, err: err}
	}

	joiner := " AND "
	if !r.hasWhere {
		joiner = " WHERE "
	}
	return &Relation{
		model:    r.model,
		sql:      r.sql + joiner + collapseSpace(fragment),
		hasWhere: true,
	}
}

// SQL returns the accumulated statement.
func (r *Relation) SQL() string {
	return r.sql
}

// String returns the accumulated statement.
func (r *Relation) String() string {
	return r.sql
}

// Model returns the model the relation's rows are parsed into.
func (r *Relation) Model() *Model {
	return r.model
}

// Err returns the error recorded while building the relation, if any.
func (r *Relation) Err() error {
	return r.err
}

// Load executes the relation and returns its records.
func (r *Relation) Load(ctx context.Context) ([]*Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.model.load(ctx, r.model.statement(r.sql, nil, nil))
}

// First loads the relation and returns its first record, or nil.
func (r *Relation) First(ctx context.Context) (*Record, error) {
	records, err := r.Load(ctx)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// Last loads the relation and returns its last record, or nil.
func (r *Relation) Last(ctx context.Context) (*Record, error) {
	records, err := r.Load(ctx)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[len(records)-1], nil
}

// Count loads the relation and returns the number of records.
func (r *Relation) Count(ctx context.Context) (int, error) {
	records, err := r.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Each loads the relation and calls fn for every record, stopping at the first
// error fn returns.
func (r *Relation) Each(ctx context.Context, fn func(*Record) error) error {
	records, err := r.Load(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// Pluck loads the relation and returns column from every record.
func (r *Relation) Pluck(ctx context.Context, column string) ([]any, error) {
	records, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := r.model.accessors[column]; !ok {
		return nil, &UnknownAttributeError{Model: r.model.name, Column: column}
	}
	out := make([]any, len(records))
	for i, rec := range records {
		out[i] = rec.Get(column)
	}
	return out, nil
}

// Iter loads the relation when iteration starts and yields its records. A load
// failure is yielded once as (nil, err).
func (r *Relation) Iter(ctx context.Context) iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		records, err := r.Load(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, rec := range records {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Map loads r and applies fn to every record, stopping at the first error.
func Map[T any](ctx context.Context, r *Relation, fn func(*Record) (T, error)) ([]T, error) {
	records, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		v, err := fn(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// collapseSpace trims s and collapses runs of whitespace outside single-quoted
// literals to one space. Each fragment is collapsed on its own, so an
// unbalanced quote in one predicate does not leak into the next.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inLiteral := false
	pendingSpace := false
	for _, r := range strings.TrimSpace(s) {
		if r == '\'' {
			inLiteral = !inLiteral
		}
		if !inLiteral && unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
