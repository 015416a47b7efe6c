package core

import (
	"sort"
	"sync"

	"github.com/go-openapi/inflect"

	"github.com/coregx/sqlobject/internal/util"
)

// registry holds the models defined on a DB. It is the lookup used to resolve
// association class names and relation seeds, so models may be declared in any
// order and refer to each other.
type registry struct {
	mu      sync.RWMutex
	byName  map[string]*Model
	byTable map[string]*Model
}

func newRegistry() *registry {
	return &registry{
		byName:  make(map[string]*Model),
		byTable: make(map[string]*Model),
	}
}

// ModelOption configures a model at definition time.
type ModelOption func(*Model)

// Table overrides the table name derived from the model name.
func Table(name string) ModelOption {
	return func(m *Model) {
		m.table = name
	}
}

// TableName derives the default table for a model name: "Cat" -> "cats",
// "HouseOwner" -> "house_owners", "APIKey" -> "api_keys".
func TableName(modelName string) string {
	return inflect.Pluralize(util.SnakeCase(modelName))
}

// foreignKeyFor derives the default key column referencing name:
// "owner" -> "owner_id", "APIKey" -> "api_key_id".
func foreignKeyFor(name string) string {
	return util.SnakeCase(name) + "_id"
}

// Classify derives a model name from a table or association name:
// "cats" -> "Cat", "owner" -> "Owner".
func Classify(name string) string {
	return inflect.Camelize(inflect.Singularize(name))
}

// Define registers a model named name. The table defaults to TableName(name).
// The schema is not read until first use.
func (db *DB) Define(name string, opts ...ModelOption) (*Model, error) {
	m := &Model{
		db:     db,
		name:   name,
		table:  TableName(name),
		assocs: make(map[string]*Association),
	}
	for _, opt := range opts {
		opt(m)
	}

	db.models.mu.Lock()
	defer db.models.mu.Unlock()

	if _, exists := db.models.byName[name]; exists {
		return nil, &modelError{name: name, err: ErrDuplicateModel}
	}
	db.models.byName[name] = m
	if _, taken := db.models.byTable[m.table]; !taken {
		db.models.byTable[m.table] = m
	}
	return m, nil
}

// MustDefine is like Define but panics on error.
func (db *DB) MustDefine(name string, opts ...ModelOption) *Model {
	m, err := db.Define(name, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Lookup returns the model registered as name.
func (db *DB) Lookup(name string) (*Model, error) {
	db.models.mu.RLock()
	defer db.models.mu.RUnlock()

	if m, ok := db.models.byName[name]; ok {
		return m, nil
	}
	return nil, &modelError{name: name, err: ErrUnknownModel}
}

// lookupTable resolves a table token to a model: by class name first, then by
// the table the model was defined with.
func (db *DB) lookupTable(table string) (*Model, error) {
	if m, err := db.Lookup(Classify(table)); err == nil {
		return m, nil
	}

	db.models.mu.RLock()
	defer db.models.mu.RUnlock()
	if m, ok := db.models.byTable[table]; ok {
		return m, nil
	}
	return nil, &modelError{name: Classify(table), err: ErrUnknownModel}
}

// Models returns every registered model sorted by name.
func (db *DB) Models() []*Model {
	db.models.mu.RLock()
	defer db.models.mu.RUnlock()

	out := make([]*Model, 0, len(db.models.byName))
	for _, m := range db.models.byName {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

type modelError struct {
	name string
	err  error
}

func (e *modelError) Error() string {
	return e.err.Error() + ": " + e.name
}

func (e *modelError) Unwrap() error {
	return e.err
}
