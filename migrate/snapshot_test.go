package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drizzle-go/drizzle/schema"
)

func twoColumnSchema() *schema.Schema {
	return &schema.Schema{
		Dialect: "sqlite",
		Tables: []*schema.Table{
			{
				Name: "users",
				Columns: []*schema.Column{
					{Name: "id", Table: "users", Type: "int64", PrimaryKey: true, AutoIncrement: true},
					{Name: "name", Table: "users", Type: "text"},
				},
				PrimaryKey: []string{"id"},
			},
		},
	}
}

func TestFromSchemaSortsTablesAndKeepsColumnOrder(t *testing.T) {
	s := twoColumnSchema()
	s.Tables = append(s.Tables, &schema.Table{Name: "accounts", Columns: []*schema.Column{{Name: "id", Table: "accounts", Type: "int64"}}})

	snap := FromSchema(s)
	require.Len(t, snap.Tables, 2)
	assert.Equal(t, "accounts", snap.Tables[0].Name)
	assert.Equal(t, "users", snap.Tables[1].Name)

	tbl, ok := snap.Table("users")
	require.True(t, ok)
	require.Len(t, tbl.Columns, 2)
	assert.Equal(t, "id", tbl.Columns[0].Name)
	assert.Equal(t, "name", tbl.Columns[1].Name)
}

func TestFromSchemaIsDeterministic(t *testing.T) {
	s := twoColumnSchema()
	a := FromSchema(s)
	b := FromSchema(s)
	assert.Equal(t, a, b)
}
