// Package sqlobject maps table rows to records whose attributes are read from the
// live schema, builds WHERE predicates from column/value criteria, and composes
// lazy relations and associations on top of a single database/sql connection.
//
// Example:
//
//	db, err := sqlobject.Open("sqlite", "pets.db")
//	cat := db.MustDefine("Cat")
//	_ = cat.BelongsTo("human", sqlobject.ForeignKey("owner_id"))
//
//	cats, err := cat.WhereLazy(sqlobject.Hash{"owner_id": 3}).Load(ctx)
package sqlobject

import (
	"context"

	"github.com/coregx/sqlobject/internal/core"
)

type (
	// DB is the data source records are loaded from and saved to.
	DB = core.DB
	// Option is a functional option for configuring DB.
	Option = core.Option
	// Model is a record type mapped onto one table.
	Model = core.Model
	// ModelOption configures a model at definition time.
	ModelOption = core.ModelOption
	// Schema is the ordered column list of a model's table.
	Schema = core.Schema
	// Accessor reads and writes one column of a record.
	Accessor = core.Accessor
	// Record is one row of a model's table held in memory.
	Record = core.Record
	// Attributes maps column names to values.
	Attributes = core.Attributes
	// Relation is a deferred, chainable query against one model.
	Relation = core.Relation

	// Criteria describes a WHERE predicate.
	Criteria = core.Criteria
	// Hash is a column -> value predicate with inlined, unescaped values.
	Hash = core.Hash
	// Raw is a trusted WHERE fragment.
	Raw = core.Raw

	// Association describes one named link between models.
	Association = core.Association
	// AssociationOption overrides an association default.
	AssociationOption = core.AssociationOption
	// Kind is the kind of an association.
	Kind = core.Kind

	// QueryEvent describes one executed statement.
	QueryEvent = core.QueryEvent
	// QueryHook is invoked after every statement.
	QueryHook = core.QueryHook

	// Searchable loads records of one model.
	Searchable = core.Searchable
	// Associatable declares links between models.
	Associatable = core.Associatable
	// Persistable writes a record back to its table.
	Persistable = core.Persistable

	// UnknownAttributeError reports a column outside a model's schema.
	UnknownAttributeError = core.UnknownAttributeError
	// MalformedSeedError reports relation seed SQL without a table.
	MalformedSeedError = core.MalformedSeedError
	// AssociationError reports a failed association lookup.
	AssociationError = core.AssociationError
)

// Association kinds.
const (
	KindBelongsTo     = core.KindBelongsTo
	KindHasMany       = core.KindHasMany
	KindHasOneThrough = core.KindHasOneThrough
)

// PrimaryKeyColumn is the column every model uses as its primary key.
const PrimaryKeyColumn = core.PrimaryKeyColumn

// Re-export core functions.
var (
	Open   = core.Open
	WrapDB = core.WrapDB

	WithLogger            = core.WithLogger
	WithTracer            = core.WithTracer
	WithQueryHook         = core.WithQueryHook
	WithStmtCacheCapacity = core.WithStmtCacheCapacity
	WithoutStmtCache      = core.WithoutStmtCache
	WithSensitiveColumns  = core.WithSensitiveColumns
	WithPredicateAudit    = core.WithPredicateAudit

	Table      = core.Table
	TableName  = core.TableName
	Classify   = core.Classify
	ClassName  = core.ClassName
	ForeignKey = core.ForeignKey
	PrimaryKey = core.PrimaryKey

	BuildWhere = core.BuildWhere
	Literal    = core.Literal

	IsUnknownAttribute = core.IsUnknownAttribute
)

// Re-export errors.
var (
	ErrUnknownAttribute     = core.ErrUnknownAttribute
	ErrMalformedSeed        = core.ErrMalformedSeed
	ErrEmptyCriteria        = core.ErrEmptyCriteria
	ErrMissingPrimaryKey    = core.ErrMissingPrimaryKey
	ErrUnknownModel         = core.ErrUnknownModel
	ErrDuplicateModel       = core.ErrDuplicateModel
	ErrUnknownAssociation   = core.ErrUnknownAssociation
	ErrDuplicateAssociation = core.ErrDuplicateAssociation
	ErrAssociationKind      = core.ErrAssociationKind
	ErrUnsafePredicate      = core.ErrUnsafePredicate
	ErrUnsupportedDialect   = core.ErrUnsupportedDialect
)

// Map loads r and applies fn to every record, stopping at the first error.
func Map[T any](ctx context.Context, r *Relation, fn func(*Record) (T, error)) ([]T, error) {
	return core.Map(ctx, r, fn)
}
