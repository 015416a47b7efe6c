package util

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Timestamps struct {
	CreatedAt time.Time `db:"created_at"`
}

type Cat struct {
	ID      int64          `db:"id,pk"`
	Name    string         `db:"name"`
	OwnerID *int64         `db:"owner_id"`
	Nick    sql.NullString `db:"nick"`
	Ignored string         `db:"-"`
	Lives   int
	Timestamps
}

func TestFields(t *testing.T) {
	fields, err := Fields(reflect.TypeOf(&Cat{}))
	require.NoError(t, err)

	var cols []string
	for _, f := range fields {
		cols = append(cols, f.Column)
	}
	assert.Equal(t, []string{"id", "name", "owner_id", "nick", "lives", "created_at"}, cols)
}

func TestFields_NotStruct(t *testing.T) {
	_, err := Fields(reflect.TypeOf(42))
	assert.Error(t, err)
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":      "name",
		"OwnerID":   "owner_id",
		"HTTPCode":  "http_code",
		"CreatedAt": "created_at",
		"ID":        "id",
		"already_x": "already_x",
	}
	for in, want := range tests {
		assert.Equal(t, want, SnakeCase(in), in)
	}
}

func TestStructToMap(t *testing.T) {
	owner := int64(7)
	m, err := StructToMap(&Cat{ID: 1, Name: "Tom", OwnerID: &owner, Lives: 9})
	require.NoError(t, err)

	assert.Equal(t, int64(1), m["id"])
	assert.Equal(t, "Tom", m["name"])
	assert.Equal(t, int64(7), m["owner_id"])
	assert.Equal(t, 9, m["lives"])
	assert.NotContains(t, m, "Ignored")

	m, err = StructToMap(Cat{Name: "Felix"})
	require.NoError(t, err)
	assert.Nil(t, m["owner_id"])

	_, err = StructToMap((*Cat)(nil))
	assert.Error(t, err)
	_, err = StructToMap("nope")
	assert.Error(t, err)
}

func TestAssignMap(t *testing.T) {
	var c Cat
	err := AssignMap(&c, map[string]any{
		"id":         int64(3),
		"name":       []byte("Garfield"),
		"owner_id":   int64(2),
		"nick":       "Garf",
		"lives":      int64(9),
		"created_at": "2024-05-01 10:00:00",
		"unknown":    "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), c.ID)
	assert.Equal(t, "Garfield", c.Name)
	require.NotNil(t, c.OwnerID)
	assert.Equal(t, int64(2), *c.OwnerID)
	assert.Equal(t, sql.NullString{String: "Garf", Valid: true}, c.Nick)
	assert.Equal(t, 9, c.Lives)
	assert.Equal(t, 2024, c.CreatedAt.Year())
}

func TestAssignMap_Nulls(t *testing.T) {
	owner := int64(1)
	c := Cat{OwnerID: &owner, Nick: sql.NullString{String: "x", Valid: true}}
	require.NoError(t, AssignMap(&c, map[string]any{"owner_id": nil, "nick": nil}))
	assert.Nil(t, c.OwnerID)
	assert.False(t, c.Nick.Valid)
}

func TestAssignMap_Errors(t *testing.T) {
	var c Cat
	assert.Error(t, AssignMap(c, map[string]any{}))
	assert.Error(t, AssignMap(&c, map[string]any{"name": 12}))
	assert.Error(t, AssignMap(&c, map[string]any{"created_at": "yesterday"}))
}

func TestIsZeroID(t *testing.T) {
	var nilPtr *int64
	one := int64(1)
	assert.True(t, IsZeroID(nil))
	assert.True(t, IsZeroID(int64(0)))
	assert.True(t, IsZeroID(nilPtr))
	assert.False(t, IsZeroID(&one))
	assert.False(t, IsZeroID(int64(5)))
}
