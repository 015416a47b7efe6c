package dialects

import "strconv"

// PostgresDialect implements PostgreSQL-specific SQL dialect.
type PostgresDialect struct{}

func init() {
	RegisterDialect("postgres", &PostgresDialect{})
	RegisterDialect("postgresql", &PostgresDialect{})
	RegisterDialect("pgx", &PostgresDialect{})
}

// Name returns "postgres".
func (d *PostgresDialect) Name() string {
	return "postgres"
}

// Placeholder returns PostgreSQL placeholder format ($1, $2, etc.).
func (d *PostgresDialect) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

// ProbeSQL selects no rows from table.
func (d *PostgresDialect) ProbeSQL(table string) string {
	return "SELECT * FROM " + table + " LIMIT 0"
}

// ReturningClause asks the INSERT to hand back the generated key;
// lib/pq does not support LastInsertId.
func (d *PostgresDialect) ReturningClause(pk string) string {
	return " RETURNING " + pk
}
