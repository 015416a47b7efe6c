package core

import (
	"context"
	"time"
)

// QueryEvent describes one executed statement.
// It is passed to the QueryHook after the statement completes.
type QueryEvent struct {
	// SQL is the executed statement.
	SQL string
	// Args are the bound arguments, unmasked.
	Args []any
	// Model is the record type the statement was issued for; empty for raw queries.
	Model string
	// Table is the table the statement targets, when known.
	Table string
	// Duration is how long the statement took.
	Duration time.Duration
	// Rows is the number of rows returned (queries) or affected (writes).
	Rows int64
	// Error is the driver error, nil on success.
	Error error
	// Operation is SELECT, INSERT, UPDATE, DELETE or UNKNOWN.
	Operation string
}

// QueryHook is invoked after every statement.
//
// Example:
//
//	db, _ := sqlobject.Open("sqlite", ":memory:",
//	    sqlobject.WithQueryHook(func(ctx context.Context, e sqlobject.QueryEvent) {
//	        metrics.Observe(e.Operation, e.Duration)
//	    }))
type QueryHook func(ctx context.Context, event QueryEvent)

func (db *DB) invokeHook(ctx context.Context, event QueryEvent) {
	if db.queryHook != nil {
		db.queryHook(ctx, event)
	}
}
