package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drizzle-go/drizzle/schema"
	"github.com/drizzle-go/drizzle/schema/field"
	"github.com/drizzle-go/drizzle/schema/load"
)

func TestResolveInfersPrimaryKeyFromIDConvention(t *testing.T) {
	tables := []*load.Table{{
		Name: "users",
		Fields: []load.FieldDecl{
			{Descriptor: field.Int("id").Descriptor()},
			{Descriptor: field.String("name").Descriptor()},
		},
	}}
	s, err := Resolve("sqlite", tables)
	require.NoError(t, err)
	require.Len(t, s.Tables, 1)
	assert.Equal(t, []string{"id"}, s.Tables[0].PrimaryKey)
	assert.True(t, s.Tables[0].Columns[0].PrimaryKey)
	assert.True(t, s.Tables[0].Columns[0].AutoIncrement)
	assert.False(t, s.Tables[0].Columns[1].PrimaryKey)
}

func TestResolveBuildsForeignKeyFromReferenceAnnotation(t *testing.T) {
	userIDField := field.Int("user_id").Annotations(schema.References("users", "id", schema.Cascade, schema.NoAction))
	tables := []*load.Table{{
		Name:   "orders",
		Fields: []load.FieldDecl{{Descriptor: userIDField.Descriptor()}},
	}}
	s, err := Resolve("sqlite", tables)
	require.NoError(t, err)
	fk := s.Tables[0].Columns[0].ForeignKey
	require.NotNil(t, fk)
	assert.Equal(t, "users", fk.RefTable)
	assert.Equal(t, "id", fk.RefColumn)
	assert.Equal(t, schema.Cascade, fk.OnDelete)
}
