package core

import (
	"errors"
	"fmt"
)

// Predefined errors returned by sqlobject operations.
var (
	// ErrUnknownAttribute is returned when a record is given a column its schema lacks.
	ErrUnknownAttribute = errors.New("sqlobject: unknown attribute")
	// ErrMalformedSeed is returned when no table can be inferred from relation seed SQL.
	ErrMalformedSeed = errors.New("sqlobject: malformed relation seed")
	// ErrEmptyCriteria is returned when a predicate is built from no criteria.
	ErrEmptyCriteria = errors.New("sqlobject: empty criteria")
	// ErrMissingPrimaryKey is returned by operations that need a persisted record.
	ErrMissingPrimaryKey = errors.New("sqlobject: record has no primary key")
	// ErrUnknownModel is returned when a model name is not registered.
	ErrUnknownModel = errors.New("sqlobject: unknown model")
	// ErrDuplicateModel is returned when a model name is registered twice.
	ErrDuplicateModel = errors.New("sqlobject: model already defined")
	// ErrUnknownAssociation is returned when a model has no association by that name.
	ErrUnknownAssociation = errors.New("sqlobject: unknown association")
	// ErrDuplicateAssociation is returned when an association name is registered twice.
	ErrDuplicateAssociation = errors.New("sqlobject: association already defined")
	// ErrAssociationKind is returned when an association is used as the wrong kind.
	ErrAssociationKind = errors.New("sqlobject: wrong association kind")
	// ErrUnsafePredicate is returned by audited databases when a WHERE fragment
	// looks like an inlined value escaped its quotes.
	ErrUnsafePredicate = errors.New("sqlobject: unsafe predicate")
	// ErrUnsupportedDialect is returned when no dialect is registered for a driver.
	ErrUnsupportedDialect = errors.New("sqlobject: unsupported database dialect")
)

// UnknownAttributeError reports a column that is not part of a model's schema.
type UnknownAttributeError struct {
	Model  string
	Column string
}

// Error returns the error string.
func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("sqlobject: unknown attribute '%s' for %s", e.Column, e.Model)
}

// Is reports whether target is ErrUnknownAttribute.
func (e *UnknownAttributeError) Is(target error) bool {
	return target == ErrUnknownAttribute
}

// MalformedSeedError reports relation seed SQL without a recognisable table.
type MalformedSeedError struct {
	SQL string
}

// Error returns the error string.
func (e *MalformedSeedError) Error() string {
	return fmt.Sprintf("sqlobject: cannot infer table from %q", e.SQL)
}

// Is reports whether target is ErrMalformedSeed.
func (e *MalformedSeedError) Is(target error) bool {
	return target == ErrMalformedSeed
}

// AssociationError reports a failed association lookup on a model.
type AssociationError struct {
	Model string
	Name  string
	err   error
}

// Error returns the error string.
func (e *AssociationError) Error() string {
	return fmt.Sprintf("%s: %s.%s", e.err.Error(), e.Model, e.Name)
}

// Unwrap returns the sentinel describing the failure.
func (e *AssociationError) Unwrap() error {
	return e.err
}

// IsUnknownAttribute returns true if err is a schema violation.
func IsUnknownAttribute(err error) bool {
	return errors.Is(err, ErrUnknownAttribute)
}
