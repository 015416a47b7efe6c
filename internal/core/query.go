package core

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/coregx/sqlobject/internal/tracer"
)

// statement is one SQL statement about to be executed, with enough context to
// instrument it.
type statement struct {
	sql  string
	args []any
	// binds names the column each arg is bound to, for log masking.
	binds []string
	model string
	table string
}

// observe runs fn inside a span, then logs the outcome and invokes the hook.
// fn reports the number of rows returned or affected.
func (db *DB) observe(ctx context.Context, name string, st *statement, fn func(context.Context) (int64, error)) error {
	ctx, span := db.tracer.Start(ctx, "sqlobject."+name)

	start := time.Now()
	n, err := fn(ctx)
	elapsed := time.Since(start)

	span.Finish(&tracer.Statement{
		System:   db.dialect.Name(),
		SQL:      st.sql,
		Model:    st.model,
		Table:    st.table,
		Rows:     n,
		Duration: elapsed,
		Err:      err,
	})
	db.logStatement(name, st, n, elapsed, err)
	db.invokeHook(ctx, QueryEvent{
		SQL:       st.sql,
		Args:      st.args,
		Model:     st.model,
		Table:     st.table,
		Duration:  elapsed,
		Rows:      n,
		Error:     err,
		Operation: tracer.Operation(st.sql),
	})
	return err
}

// logStatement logs a finished statement with sensitive values masked.
func (db *DB) logStatement(name string, st *statement, n int64, elapsed time.Duration, err error) {
	level := slog.LevelInfo
	if name == "probe" {
		level = slog.LevelDebug
	}
	if err != nil {
		level = slog.LevelError
	}
	if !db.logger.Enabled(level) {
		return
	}

	args := []any{
		"sql", db.sanitizer.MaskSQL(st.sql),
		"params", db.sanitizer.FormatArgs(db.sanitizer.MaskArgs(st.binds, st.args)),
		"duration_ms", elapsed.Milliseconds(),
		"database", db.driverName,
	}
	if st.model != "" {
		args = append(args, "model", st.model)
	}

	switch {
	case err != nil:
		db.logger.Error("query execution failed", append(args, "error", err)...)
	case level == slog.LevelDebug:
		db.logger.Debug("query executed", append(args, "rows", n)...)
	default:
		db.logger.Info("query executed", append(args, "rows", n)...)
	}
}

// prepared returns a cached prepared statement for st, or nil when st should be
// sent directly. Only parameterised statements are cached: predicates inline
// their values, so each distinct literal would otherwise occupy a cache slot.
func (db *DB) prepared(ctx context.Context, st *statement) (*sql.Stmt, error) {
	if db.stmtCache == nil || len(st.args) == 0 {
		return nil, nil
	}
	if stmt, ok := db.stmtCache.Get(st.sql); ok {
		return stmt, nil
	}
	stmt, err := db.sqlDB.PrepareContext(ctx, st.sql)
	if err != nil {
		return nil, err
	}
	return db.stmtCache.Put(st.sql, stmt), nil
}

// discard drops the cached statement for st after it failed, so the next call
// prepares it again.
func (db *DB) discard(stmt *sql.Stmt, st *statement, err error) {
	if stmt != nil && err != nil {
		db.stmtCache.Remove(st.sql)
	}
}

func (db *DB) rows(ctx context.Context, st *statement) (*sql.Rows, error) {
	stmt, err := db.prepared(ctx, st)
	if err != nil {
		return nil, err
	}
	if stmt != nil {
		rows, err := stmt.QueryContext(ctx, st.args...)
		db.discard(stmt, st, err)
		return rows, err
	}
	return db.sqlDB.QueryContext(ctx, st.sql, st.args...)
}

// queryAttributes executes st and returns every row as an attribute map.
func (db *DB) queryAttributes(ctx context.Context, st *statement) ([]Attributes, error) {
	var out []Attributes
	err := db.observe(ctx, "query", st, func(ctx context.Context) (int64, error) {
		rows, err := db.rows(ctx, st)
		if err != nil {
			return 0, err
		}
		defer func() { _ = rows.Close() }()

		out, err = scanAttributes(rows)
		return int64(len(out)), err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// exec executes a statement that returns no rows.
func (db *DB) exec(ctx context.Context, st *statement) (sql.Result, error) {
	var result sql.Result
	err := db.observe(ctx, "exec", st, func(ctx context.Context) (int64, error) {
		stmt, err := db.prepared(ctx, st)
		if err != nil {
			return 0, err
		}
		if stmt != nil {
			result, err = stmt.ExecContext(ctx, st.args...)
			db.discard(stmt, st, err)
		} else {
			result, err = db.sqlDB.ExecContext(ctx, st.sql, st.args...)
		}
		if err != nil {
			return 0, err
		}
		n, _ := result.RowsAffected()
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// probe executes a zero-row query and returns the column header in physical order.
func (db *DB) probe(ctx context.Context, st *statement) ([]string, error) {
	var columns []string
	err := db.observe(ctx, "probe", st, func(ctx context.Context) (int64, error) {
		rows, err := db.sqlDB.QueryContext(ctx, st.sql)
		if err != nil {
			return 0, err
		}
		defer func() { _ = rows.Close() }()

		columns, err = rows.Columns()
		if err != nil {
			return 0, err
		}
		// drain so the connection is released even if the probe returned rows
		for rows.Next() {
		}
		return 0, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return columns, nil
}
