package dialects

// SQLiteDialect implements SQLite-specific SQL dialect.
type SQLiteDialect struct{}

func init() {
	RegisterDialect("sqlite", &SQLiteDialect{})
	RegisterDialect("sqlite3", &SQLiteDialect{})
}

// Name returns "sqlite".
func (d *SQLiteDialect) Name() string {
	return "sqlite"
}

// Placeholder returns SQLite placeholder format (always "?").
func (d *SQLiteDialect) Placeholder(_ int) string {
	return "?"
}

// ProbeSQL selects no rows from table; SQLite still reports the column header.
func (d *SQLiteDialect) ProbeSQL(table string) string {
	return "SELECT * FROM " + table + " LIMIT 0"
}

// ReturningClause is empty: SQLite drivers implement LastInsertId.
func (d *SQLiteDialect) ReturningClause(_ string) string {
	return ""
}
