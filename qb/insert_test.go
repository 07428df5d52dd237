package qb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnValueIsUnset(t *testing.T) {
	assert.True(t, ColumnValue{}.IsUnset())
	assert.False(t, Value("Alice").IsUnset())
	assert.False(t, Default().IsUnset())
}

func TestInsertEmptyRowsProducesNoStatement(t *testing.T) {
	ins := NewInsert("sqlite", "users")
	sqlText, params, err := ins.Build()
	require.NoError(t, err)
	assert.Empty(t, sqlText)
	assert.Nil(t, params)
}

func TestInsertBasic(t *testing.T) {
	ins := NewInsert("sqlite", "users").Values(Row{"name": Value("Alice")})
	sqlText, params, err := ins.Build()
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("name") VALUES (?)`, sqlText)
	require.Len(t, params, 1)
}

// TestInsertPostgresOnConflictDoUpdate exercises §8 scenario 4.
func TestInsertPostgresOnConflictDoUpdate(t *testing.T) {
	ins := NewInsert("postgres", "users").
		Values(Row{"email": Value("a@x"), "name": Value("AA")}).
		OnConflictDoUpdate([]string{"email"}, Row{"name": Expr(`EXCLUDED."name"`)}, nil)
	sqlText, params, err := ins.Build()
	require.NoError(t, err)
	assert.Equal(t,
		`INSERT INTO "users" ("email", "name") VALUES ($1, $2) ON CONFLICT ("email") DO UPDATE SET "name" = EXCLUDED."name"`,
		sqlText)
	require.Len(t, params, 2)
}

func TestInsertDefaultRequestWithNoDeclaredDefaultFails(t *testing.T) {
	ins := NewInsert("sqlite", "users").Values(Row{"id": Default()})
	require.Error(t, ins.Err())
	_, _, err := ins.Build()
	require.Error(t, err)
}

func TestInsertDefaultRequestWithDeclaredDefaultSucceeds(t *testing.T) {
	ins := NewInsert("sqlite", "users", "created_at").Values(Row{"created_at": Default()})
	sqlText, _, err := ins.Build()
	require.NoError(t, err)
	assert.Contains(t, sqlText, "DEFAULT")
}

func TestInsertPrepareWithNoRowsReturnsNil(t *testing.T) {
	ins := NewInsert("sqlite", "users")
	p, err := ins.Prepare()
	require.NoError(t, err)
	assert.Nil(t, p)
}
