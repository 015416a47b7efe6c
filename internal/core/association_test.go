package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssociation_Defaults(t *testing.T) {
	f := setupFixture(t)

	owner, err := f.cat.Association("human")
	require.NoError(t, err)
	assert.Equal(t, KindBelongsTo, owner.Kind)
	assert.Equal(t, "Human", owner.ClassName)
	assert.Equal(t, "owner_id", owner.ForeignKey)
	assert.Equal(t, "id", owner.PrimaryKey)

	humans, err := f.house.Association("humans")
	require.NoError(t, err)
	assert.Equal(t, KindHasMany, humans.Kind)
	assert.Equal(t, "Human", humans.ClassName)
	assert.Equal(t, "house_id", humans.ForeignKey)
	assert.Equal(t, "id", humans.PrimaryKey)

	house, err := f.human.Association("house")
	require.NoError(t, err)
	assert.Equal(t, "House", house.ClassName)
	assert.Equal(t, "house_id", house.ForeignKey)

	home, err := f.cat.Association("home")
	require.NoError(t, err)
	assert.Equal(t, KindHasOneThrough, home.Kind)
	assert.Equal(t, "human", home.Through)
	assert.Equal(t, "house", home.Source)
	assert.Equal(t, "has_one_through", home.Kind.String())

	var got []string
	for _, a := range f.cat.Associations() {
		got = append(got, a.Name)
	}
	assert.Equal(t, []string{"human", "home"}, got)
}

func TestAssociation_Registration(t *testing.T) {
	f := setupFixture(t)

	err := f.cat.BelongsTo("human")
	assert.ErrorIs(t, err, ErrDuplicateAssociation)
	var ae *AssociationError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "Cat", ae.Model)
	assert.Equal(t, "human", ae.Name)

	_, err = f.cat.Association("owner")
	assert.ErrorIs(t, err, ErrUnknownAssociation)
}

func TestRecord_BelongsTo(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	cat, err := f.cat.Find(ctx, 1)
	require.NoError(t, err)
	owner, err := cat.BelongsTo(ctx, "human")
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, cat.Get("owner_id"), owner.ID())
	assert.Equal(t, "Devon", owner.Get("fname"))

	stray, err := f.cat.Find(ctx, 5)
	require.NoError(t, err)
	owner, err = stray.BelongsTo(ctx, "human")
	require.NoError(t, err)
	assert.Nil(t, owner)

	dangling, err := f.cat.New(ctx, Attributes{"name": "Ghost", "owner_id": int64(99)})
	require.NoError(t, err)
	owner, err = dangling.BelongsTo(ctx, "human")
	require.NoError(t, err)
	assert.Nil(t, owner)
}

func TestRecord_HasMany(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	ned, err := f.human.Find(ctx, 3)
	require.NoError(t, err)
	cats, err := ned.HasMany(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, []string{"Haskell", "Markov"}, names(t, cats, "name"))

	catless, err := f.human.Find(ctx, 4)
	require.NoError(t, err)
	cats, err = catless.HasMany(ctx, "cats")
	require.NoError(t, err)
	assert.NotNil(t, cats, "no match is an empty slice")
	assert.Empty(t, cats)

	house, err := f.house.Find(ctx, 1)
	require.NoError(t, err)
	humans, err := house.HasMany(ctx, "humans")
	require.NoError(t, err)
	assert.Equal(t, []string{"Devon", "Matt"}, names(t, humans, "fname"))

	transient, err := f.human.New(ctx, Attributes{"fname": "New"})
	require.NoError(t, err)
	cats, err = transient.HasMany(ctx, "cats")
	require.NoError(t, err)
	assert.Nil(t, cats)
}

func TestRecord_HasManyLazy(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	ned, err := f.human.Find(ctx, 3)
	require.NoError(t, err)

	rel := ned.HasManyLazy("cats")
	assert.Equal(t, "SELECT * FROM cats WHERE owner_id = 3", rel.SQL())
	n, err := rel.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	bad := ned.HasManyLazy("house")
	assert.ErrorIs(t, bad.Err(), ErrAssociationKind)
	_, err = bad.Where(Hash{"id": 1}).Load(ctx)
	assert.ErrorIs(t, err, ErrAssociationKind)
}

func TestRecord_HasOneThrough(t *testing.T) {
	var statements []string
	f := setupFixture(t, WithQueryHook(func(_ context.Context, e QueryEvent) {
		statements = append(statements, e.SQL)
	}))
	ctx := context.Background()

	cat, err := f.cat.Find(ctx, 3)
	require.NoError(t, err)

	statements = nil
	home, err := cat.HasOneThrough(ctx, "home")
	require.NoError(t, err)
	require.NotNil(t, home)
	assert.Same(t, f.house, home.Model())
	assert.Equal(t, int64(2), home.ID())
	assert.Equal(t, "Dolores and Market", home.Get("address"))

	assert.Contains(t, statements,
		"SELECT houses.* FROM cats JOIN humans ON cats.owner_id = humans.id JOIN houses ON houses.id = humans.house_id WHERE cats.id = ?")

	// cat 4 differs from its owner id, so the join is keyed on the cat itself
	markov, err := f.cat.Find(ctx, 4)
	require.NoError(t, err)
	home, err = markov.HasOneThrough(ctx, "home")
	require.NoError(t, err)
	require.NotNil(t, home)
	assert.Equal(t, int64(2), home.ID())

	earl, err := f.cat.Find(ctx, 2)
	require.NoError(t, err)
	home, err = earl.HasOneThrough(ctx, "home")
	require.NoError(t, err)
	require.NotNil(t, home)
	assert.Equal(t, int64(1), home.ID())

	stray, err := f.cat.Find(ctx, 5)
	require.NoError(t, err)
	home, err = stray.HasOneThrough(ctx, "home")
	require.NoError(t, err)
	assert.Nil(t, home, "broken chain")
}

func TestRecord_AssociationErrors(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	cat, err := f.cat.Find(ctx, 1)
	require.NoError(t, err)

	_, err = cat.BelongsTo(ctx, "owner")
	assert.ErrorIs(t, err, ErrUnknownAssociation)

	_, err = cat.HasMany(ctx, "human")
	assert.ErrorIs(t, err, ErrAssociationKind)

	_, err = cat.BelongsTo(ctx, "home")
	assert.ErrorIs(t, err, ErrAssociationKind)

	require.NoError(t, f.cat.BelongsTo("vet"))
	vetted, err := f.cat.New(ctx, Attributes{"name": "Patient", "owner_id": int64(1)})
	require.NoError(t, err)
	require.NoError(t, vetted.Set("id", int64(1)))
	require.NoError(t, f.cat.HasOneThrough("clinic", "vet", "clinic"))
	_, err = vetted.HasOneThrough(ctx, "clinic")
	assert.ErrorIs(t, err, ErrUnknownModel)

	home, err := f.cat.Association("home")
	require.NoError(t, err)
	_, err = home.Target()
	assert.ErrorIs(t, err, ErrAssociationKind)
}

func TestAssociation_ForwardReference(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	_, err := f.db.ExecContext(ctx, `
		CREATE TABLE toys (id INTEGER PRIMARY KEY, label TEXT, cat_id INTEGER);
		INSERT INTO toys (label, cat_id) VALUES ('mouse', 4), ('yarn', 4);
	`)
	require.NoError(t, err)

	// the association names a model that does not exist yet
	require.NoError(t, f.cat.HasMany("toys"))
	toy := f.db.MustDefine("Toy")
	require.NoError(t, toy.BelongsTo("cat"))

	markov, err := f.cat.Find(ctx, 4)
	require.NoError(t, err)
	toys, err := markov.HasMany(ctx, "toys")
	require.NoError(t, err)
	assert.Equal(t, []string{"mouse", "yarn"}, names(t, toys, "label"))

	owner, err := toys[0].BelongsTo(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, "Markov", owner.Get("name"))
}
