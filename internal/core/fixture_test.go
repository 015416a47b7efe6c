package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const fixtureSchema = `
CREATE TABLE cats (
	id INTEGER PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	owner_id INTEGER
);
CREATE TABLE humans (
	id INTEGER PRIMARY KEY,
	fname VARCHAR(255) NOT NULL,
	lname VARCHAR(255) NOT NULL,
	house_id INTEGER
);
CREATE TABLE houses (
	id INTEGER PRIMARY KEY,
	address VARCHAR(255) NOT NULL
);
INSERT INTO houses (id, address) VALUES (1, '26th and Guerrero'), (2, 'Dolores and Market');
INSERT INTO humans (id, fname, lname, house_id) VALUES
	(1, 'Devon', 'Watts', 1),
	(2, 'Matt', 'Rubens', 1),
	(3, 'Ned', 'Ruggeri', 2),
	(4, 'Catless', 'Human', NULL);
INSERT INTO cats (id, name, owner_id) VALUES
	(1, 'Breakfast', 1),
	(2, 'Earl', 2),
	(3, 'Haskell', 3),
	(4, 'Markov', 3),
	(5, 'Stray Cat', NULL);
`

// fixture is an in-memory database with the Cat, Human and House models and
// their associations.
type fixture struct {
	db    *DB
	cat   *Model
	human *Model
	house *Model
}

func setupFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	db, err := Open("sqlite", ":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(context.Background(), fixtureSchema)
	require.NoError(t, err)

	f := &fixture{
		db:    db,
		cat:   db.MustDefine("Cat"),
		human: db.MustDefine("Human", Table("humans")),
		house: db.MustDefine("House", Table("houses")),
	}

	require.NoError(t, f.cat.BelongsTo("human", ForeignKey("owner_id")))
	require.NoError(t, f.cat.HasOneThrough("home", "human", "house"))
	require.NoError(t, f.human.HasMany("cats", ForeignKey("owner_id")))
	require.NoError(t, f.human.BelongsTo("house"))
	require.NoError(t, f.house.HasMany("humans"))
	return f
}

func names(t *testing.T, records []*Record, column string) []string {
	t.Helper()
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.String(column)
	}
	return out
}
