package dialects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Registered(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{"sqlite", "sqlite"},
		{"sqlite3", "sqlite"},
		{"mysql", "mysql"},
		{"postgres", "postgres"},
		{"postgresql", "postgres"},
		{"pgx", "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, ok := Lookup(tt.driver)
			require.True(t, ok)
			require.NotNil(t, d)
			assert.Equal(t, tt.name, d.Name())
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := Lookup("oracle")
	assert.False(t, ok)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", Placeholders(&SQLiteDialect{}, 1, 3))
	assert.Equal(t, "$2, $3", Placeholders(&PostgresDialect{}, 2, 2))
	assert.Equal(t, "", Placeholders(&MySQLDialect{}, 1, 0))
}

func TestProbeSQL(t *testing.T) {
	assert.Equal(t, "SELECT * FROM cats LIMIT 0", (&SQLiteDialect{}).ProbeSQL("cats"))
	assert.Equal(t, "SELECT * FROM cats LIMIT 0", (&PostgresDialect{}).ProbeSQL("cats"))
	assert.Equal(t, "SELECT * FROM cats LIMIT 0", (&MySQLDialect{}).ProbeSQL("cats"))
}

func TestReturningClause(t *testing.T) {
	assert.Equal(t, "", (&SQLiteDialect{}).ReturningClause("id"))
	assert.Equal(t, "", (&MySQLDialect{}).ReturningClause("id"))
	assert.Equal(t, " RETURNING id", (&PostgresDialect{}).ReturningClause("id"))
}
