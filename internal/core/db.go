// Package core implements the record layer: schema reflection, records, predicate
// building, eager and lazy queries, and associations over a single database/sql
// connection.
package core

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/coregx/sqlobject/internal/cache"
	"github.com/coregx/sqlobject/internal/dialects"
	"github.com/coregx/sqlobject/internal/logger"
	"github.com/coregx/sqlobject/internal/security"
	"github.com/coregx/sqlobject/internal/tracer"
)

// DB is the data source records are loaded from and saved to. It also owns the
// registry of models defined against it.
//
// A DB opened with Open uses exactly one connection; statements run one at a time.
type DB struct {
	sqlDB      *sql.DB
	driverName string
	dialect    dialects.Dialect
	ownsConn   bool

	stmtCache *cache.StmtCache
	logger    logger.Logger
	sanitizer *logger.Sanitizer
	tracer    tracer.Tracer
	queryHook QueryHook
	validator *security.Validator

	models *registry
}

// Option is a functional option for configuring DB.
type Option func(*DB)

// WithLogger logs every statement to l.
func WithLogger(l *slog.Logger) Option {
	return func(db *DB) {
		db.logger = logger.New(l)
	}
}

// WithTracer emits an OpenTelemetry span per statement.
func WithTracer(t trace.Tracer) Option {
	return func(db *DB) {
		if t != nil {
			db.tracer = tracer.NewOtel(t)
		}
	}
}

// WithQueryHook registers a callback invoked after every statement.
func WithQueryHook(hook QueryHook) Option {
	return func(db *DB) {
		db.queryHook = hook
	}
}

// WithStmtCacheCapacity sets the prepared statement cache capacity.
func WithStmtCacheCapacity(capacity int) Option {
	return func(db *DB) {
		db.stmtCache = cache.New(capacity)
	}
}

// WithoutStmtCache disables statement preparation; every statement is sent as is.
func WithoutStmtCache() Option {
	return func(db *DB) {
		db.stmtCache = nil
	}
}

// WithSensitiveColumns replaces the list of columns whose values are masked in logs.
func WithSensitiveColumns(columns ...string) Option {
	return func(db *DB) {
		db.sanitizer = logger.NewSanitizer(columns)
	}
}

// WithPredicateAudit rejects WHERE fragments that look like an inlined value broke
// out of its quotes. Without it, predicate values are interpolated unescaped.
func WithPredicateAudit() Option {
	return func(db *DB) {
		db.validator = security.NewValidator()
	}
}

func newDB(sqlDB *sql.DB, driverName string, ownsConn bool, opts []Option) (*DB, error) {
	dialect, ok := dialects.Lookup(driverName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, driverName)
	}

	db := &DB{
		sqlDB:      sqlDB,
		driverName: driverName,
		dialect:    dialect,
		ownsConn:   ownsConn,
		stmtCache:  cache.New(cache.DefaultCapacity),
		logger:     logger.NoopLogger{},
		sanitizer:  logger.NewSanitizer(nil),
		tracer:     tracer.Noop{},
		models:     newRegistry(),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Open opens a database with the given driver and DSN, limited to a single
// connection.
func Open(driverName, dsn string, opts ...Option) (*DB, error) {
	if _, ok := dialects.Lookup(driverName); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, driverName)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return newDB(sqlDB, driverName, true, opts)
}

// WrapDB builds a DB over an existing *sql.DB. The caller keeps ownership of the
// connection: Close releases cached statements but does not close sqlDB, and pool
// settings are left untouched.
func WrapDB(sqlDB *sql.DB, driverName string, opts ...Option) (*DB, error) {
	return newDB(sqlDB, driverName, false, opts)
}

// Close releases cached statements and, for databases created by Open, the
// underlying connection.
func (db *DB) Close() error {
	if db.stmtCache != nil {
		db.stmtCache.Clear()
	}
	if !db.ownsConn {
		return nil
	}
	return db.sqlDB.Close()
}

// SQLDB returns the underlying *sql.DB.
func (db *DB) SQLDB() *sql.DB {
	return db.sqlDB
}

// DriverName returns the driver name the DB was opened with.
func (db *DB) DriverName() string {
	return db.driverName
}

// Dialect returns the backend dialect.
func (db *DB) Dialect() dialects.Dialect {
	return db.dialect
}

// StmtCacheStats returns statement cache counters; zero when caching is disabled.
func (db *DB) StmtCacheStats() cache.Stats {
	if db.stmtCache == nil {
		return cache.Stats{}
	}
	return db.stmtCache.Stats()
}

// ExecContext executes a raw statement without instrumentation. Intended for
// setup such as DDL.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.sqlDB.ExecContext(ctx, query, args...)
}

// QueryRows executes a raw query and returns each row as an attribute map.
func (db *DB) QueryRows(ctx context.Context, query string, args ...any) ([]Attributes, error) {
	return db.queryAttributes(ctx, &statement{sql: query, args: args})
}

// Exec executes a raw statement with instrumentation.
func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.exec(ctx, &statement{sql: query, args: args})
}

// Probe executes query and returns its column header without reading rows.
func (db *DB) Probe(ctx context.Context, query string) ([]string, error) {
	return db.probe(ctx, &statement{sql: query})
}
