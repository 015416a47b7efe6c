package core

import (
	"context"
	"fmt"
)

// Kind is the kind of an association.
type Kind int

// Association kinds.
const (
	KindBelongsTo Kind = iota + 1
	KindHasMany
	KindHasOneThrough
)

// String returns the declaration name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBelongsTo:
		return "belongs_to"
	case KindHasMany:
		return "has_many"
	case KindHasOneThrough:
		return "has_one_through"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Association describes one named link from a model to another.
//
// The target model is referenced by ClassName and resolved on use, so models may
// declare associations to models defined later. Associations are fixed once
// registered; resolving one always queries the database.
type Association struct {
	Kind  Kind
	Name  string
	Owner *Model

	// ClassName is the registered name of the target model.
	ClassName string
	// ForeignKey is the column holding the reference: on the owner for
	// belongs_to, on the target for has_many.
	ForeignKey string
	// PrimaryKey is the referenced column: on the target for belongs_to, on the
	// owner for has_many.
	PrimaryKey string

	// Through and Source name the associations chained by has_one_through.
	Through string
	Source  string
}

// AssociationOption overrides an association default.
type AssociationOption func(*Association)

// ClassName sets the target model name.
func ClassName(name string) AssociationOption {
	return func(a *Association) {
		a.ClassName = name
	}
}

// ForeignKey sets the foreign key column.
func ForeignKey(column string) AssociationOption {
	return func(a *Association) {
		a.ForeignKey = column
	}
}

// PrimaryKey sets the referenced key column.
func PrimaryKey(column string) AssociationOption {
	return func(a *Association) {
		a.PrimaryKey = column
	}
}

// BelongsTo declares that records of m reference one record of another model.
// Defaults: class Classify(name), foreign key <name>_id on m, primary key id.
func (m *Model) BelongsTo(name string, opts ...AssociationOption) error {
	a := &Association{
		Kind:       KindBelongsTo,
		Name:       name,
		Owner:      m,
		ClassName:  Classify(name),
		ForeignKey: foreignKeyFor(name),
		PrimaryKey: PrimaryKeyColumn,
	}
	for _, opt := range opts {
		opt(a)
	}
	return m.register(a)
}

// HasMany declares that records of another model reference records of m.
// Defaults: class Classify(name), foreign key <model>_id on the target, primary
// key id.
func (m *Model) HasMany(name string, opts ...AssociationOption) error {
	a := &Association{
		Kind:       KindHasMany,
		Name:       name,
		Owner:      m,
		ClassName:  Classify(name),
		ForeignKey: foreignKeyFor(m.name),
		PrimaryKey: PrimaryKeyColumn,
	}
	for _, opt := range opts {
		opt(a)
	}
	return m.register(a)
}

// HasOneThrough declares a link that follows the belongs_to association through
// on m, then the belongs_to association source on the through model. Both are
// looked up when the association is resolved.
func (m *Model) HasOneThrough(name, through, source string) error {
	return m.register(&Association{
		Kind:    KindHasOneThrough,
		Name:    name,
		Owner:   m,
		Through: through,
		Source:  source,
	})
}

func (m *Model) register(a *Association) error {
	m.assocMu.Lock()
	defer m.assocMu.Unlock()

	if _, exists := m.assocs[a.Name]; exists {
		return &AssociationError{Model: m.name, Name: a.Name, err: ErrDuplicateAssociation}
	}
	m.assocs[a.Name] = a
	m.assocOrder = append(m.assocOrder, a.Name)
	return nil
}

// Association returns the association registered on m as name.
func (m *Model) Association(name string) (*Association, error) {
	m.assocMu.RLock()
	defer m.assocMu.RUnlock()

	a, ok := m.assocs[name]
	if !ok {
		return nil, &AssociationError{Model: m.name, Name: name, err: ErrUnknownAssociation}
	}
	return a, nil
}

// Associations returns m's associations in registration order.
func (m *Model) Associations() []*Association {
	m.assocMu.RLock()
	defer m.assocMu.RUnlock()

	out := make([]*Association, len(m.assocOrder))
	for i, name := range m.assocOrder {
		out[i] = m.assocs[name]
	}
	return out
}

// associationOf returns the association name, checking that it has kind k.
func (m *Model) associationOf(name string, k Kind) (*Association, error) {
	a, err := m.Association(name)
	if err != nil {
		return nil, err
	}
	if a.Kind != k {
		return nil, &AssociationError{Model: m.name, Name: name, err: ErrAssociationKind}
	}
	return a, nil
}

// Target resolves the model the association points at. has_one_through
// associations have no direct target.
func (a *Association) Target() (*Model, error) {
	if a.Kind == KindHasOneThrough {
		return nil, &AssociationError{Model: a.Owner.name, Name: a.Name, err: ErrAssociationKind}
	}
	return a.Owner.db.Lookup(a.ClassName)
}

// BelongsTo resolves the belongs_to association name. It returns nil, nil when
// the foreign key is unset or no row matches.
func (r *Record) BelongsTo(ctx context.Context, name string) (*Record, error) {
	a, err := r.model.associationOf(name, KindBelongsTo)
	if err != nil {
		return nil, err
	}
	fk := r.Get(a.ForeignKey)
	if fk == nil {
		return nil, nil
	}
	target, err := a.Target()
	if err != nil {
		return nil, err
	}

	records, err := target.Where(ctx, Hash{a.PrimaryKey: fk})
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// HasMany resolves the has_many association name. It returns nil, nil when the
// record has no primary key, and an empty slice when nothing references it.
func (r *Record) HasMany(ctx context.Context, name string) ([]*Record, error) {
	a, err := r.model.associationOf(name, KindHasMany)
	if err != nil {
		return nil, err
	}
	pk := r.Get(a.PrimaryKey)
	if pk == nil {
		return nil, nil
	}
	target, err := a.Target()
	if err != nil {
		return nil, err
	}
	return target.Where(ctx, Hash{a.ForeignKey: pk})
}

// HasManyLazy returns the has_many association name as a relation. Resolution
// errors are recorded on the relation. A record without a primary key yields a
// relation that matches nothing.
func (r *Record) HasManyLazy(name string) *Relation {
	a, err := r.model.associationOf(name, KindHasMany)
	if err != nil {
		return &Relation{err: err}
	}
	target, err := a.Target()
	if err != nil {
		return &Relation{err: err}
	}
	return target.WhereLazy(Hash{a.ForeignKey: r.Get(a.PrimaryKey)})
}

// HasOneThrough resolves the has_one_through association name with a single
// three-table join filtered on the record's id. It returns nil, nil when the
// record has no id or the chain is broken.
func (r *Record) HasOneThrough(ctx context.Context, name string) (*Record, error) {
	a, err := r.model.associationOf(name, KindHasOneThrough)
	if err != nil {
		return nil, err
	}
	through, err := r.model.associationOf(a.Through, KindBelongsTo)
	if err != nil {
		return nil, err
	}
	throughModel, err := through.Target()
	if err != nil {
		return nil, err
	}
	source, err := throughModel.associationOf(a.Source, KindBelongsTo)
	if err != nil {
		return nil, err
	}
	sourceModel, err := source.Target()
	if err != nil {
		return nil, err
	}

	id := r.ID()
	if id == nil {
		return nil, nil
	}

	start, mid, end := r.model.table, throughModel.table, sourceModel.table
	query := fmt.Sprintf(
		"SELECT %[3]s.* FROM %[1]s JOIN %[2]s ON %[1]s.%[4]s = %[2]s.%[5]s JOIN %[3]s ON %[3]s.%[6]s = %[2]s.%[7]s WHERE %[1]s.%[8]s = %[9]s",
		start, mid, end,
		through.ForeignKey, through.PrimaryKey,
		source.PrimaryKey, source.ForeignKey,
		PrimaryKeyColumn, r.model.db.dialect.Placeholder(1),
	)

	records, err := sourceModel.load(ctx, sourceModel.statement(query, []any{id}, []string{PrimaryKeyColumn}))
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}
