package dialects

// MySQLDialect implements MySQL-specific SQL dialect.
type MySQLDialect struct{}

func init() {
	RegisterDialect("mysql", &MySQLDialect{})
}

// Name returns "mysql".
func (d *MySQLDialect) Name() string {
	return "mysql"
}

// Placeholder returns MySQL placeholder format (always "?").
func (d *MySQLDialect) Placeholder(_ int) string {
	return "?"
}

// ProbeSQL selects no rows from table.
func (d *MySQLDialect) ProbeSQL(table string) string {
	return "SELECT * FROM " + table + " LIMIT 0"
}

// ReturningClause is empty: the MySQL driver reports AUTO_INCREMENT ids via LastInsertId.
func (d *MySQLDialect) ReturningClause(_ string) string {
	return ""
}
