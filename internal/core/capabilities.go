package core

import "context"

// Searchable loads records of one model, eagerly or as a Relation.
type Searchable interface {
	All(ctx context.Context) ([]*Record, error)
	Find(ctx context.Context, id any) (*Record, error)
	Where(ctx context.Context, criteria Criteria) ([]*Record, error)
	WhereLazy(criteria Criteria) *Relation
}

// Associatable declares links between models.
type Associatable interface {
	BelongsTo(name string, opts ...AssociationOption) error
	HasMany(name string, opts ...AssociationOption) error
	HasOneThrough(name, through, source string) error
	Association(name string) (*Association, error)
}

// Persistable writes a record back to its table.
type Persistable interface {
	Save(ctx context.Context) error
	Insert(ctx context.Context) error
	Update(ctx context.Context) error
	Delete(ctx context.Context) error
}

var (
	_ Searchable   = (*Model)(nil)
	_ Associatable = (*Model)(nil)
	_ Persistable  = (*Record)(nil)
)
