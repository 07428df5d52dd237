package qb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCTESelect(t *testing.T) {
	active := NewSelect("sqlite", "id").From("users").Where(Eq("users", "active", true, "sqlite"))
	cte := NewWith("sqlite").Then("active_users", active, "id").Select("id").From("active_users")
	sqlText, params, err := cte.Build()
	require.NoError(t, err)
	assert.Contains(t, sqlText, "WITH")
	assert.Contains(t, sqlText, `"active_users"`)
	assert.Contains(t, sqlText, `SELECT "active_users"."id" FROM "active_users"`)
	require.Len(t, params, 1)
}
