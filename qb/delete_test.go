package qb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteWithWhere(t *testing.T) {
	d := NewDelete("sqlite", "users").Where(Eq("", "id", 1, "sqlite"))
	sqlText, params, err := d.Build()
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = ?`, sqlText)
	require.Len(t, params, 1)
}

// TestDeleteWithoutWhereStillValid exercises §4.D DELETE semantics:
// without WHERE the builder still emits a valid statement.
func TestDeleteWithoutWhereStillValid(t *testing.T) {
	d := NewDelete("sqlite", "users")
	sqlText, params, err := d.Build()
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users"`, sqlText)
	assert.Empty(t, params)
}
