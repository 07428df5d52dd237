package qb

import (
	"testing"

	"github.com/drizzle-go/drizzle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateBasic(t *testing.T) {
	u := NewUpdate("sqlite", "users").
		Set(Row{"name": Value("Bob")}).
		Where(Eq("", "id", 1, "sqlite"))
	sqlText, params, err := u.Build()
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "name" = ? WHERE "id" = ?`, sqlText)
	require.Len(t, params, 2)
}

func TestUpdateEmptySetIsBuildError(t *testing.T) {
	u := NewUpdate("sqlite", "users")
	_, _, err := u.Build()
	require.ErrorIs(t, err, drizzle.ErrEmptyUpdate)
}

func TestUpdateWhereBeforeSetFails(t *testing.T) {
	u := NewUpdate("sqlite", "users").Where(Eq("", "id", 1, "sqlite"))
	require.Error(t, u.Err())
}
