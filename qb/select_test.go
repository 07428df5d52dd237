package qb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSelectWithWhereLimit exercises §8 scenario 1: SELECT with WHERE
// + LIMIT against SQLite.
func TestSelectWithWhereLimit(t *testing.T) {
	s := NewSelect("sqlite", "name").
		From("users").
		Where(Eq("users", "name", "Bob", "sqlite")).
		Limit(10)
	sqlText, params, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "users"."name" FROM "users" WHERE "users"."name" = ? LIMIT 10`, sqlText)
	assert.Len(t, params, 1)
}

func TestSelectNoProjectionExpandsToStar(t *testing.T) {
	s := NewSelect("sqlite").From("users")
	sqlText, _, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "users".* FROM "users"`, sqlText)
}

func TestSelectIllegalTransitionRecordsBuildError(t *testing.T) {
	s := NewSelect("sqlite")
	s.Where(Eq("", "x", 1, "sqlite"))
	require.Error(t, s.Err())
	_, _, err := s.Build()
	require.Error(t, err)
}

func TestSelectJoinAndOrderBy(t *testing.T) {
	s := NewSelect("postgres", "id").
		From("orders").
		Join(JoinLeft, "users", Eq("orders", "user_id", 1, "postgres")).
		OrderBy("id", Desc, NullsLast)
	sqlText, _, err := s.Build()
	require.NoError(t, err)
	assert.Contains(t, sqlText, "LEFT JOIN")
	assert.Contains(t, sqlText, "ORDER BY")
	assert.Contains(t, sqlText, "DESC")
	assert.Contains(t, sqlText, "NULLS LAST")
}

func TestSelectDistinctOnPostgresOnly(t *testing.T) {
	s := NewSelect("sqlite").From("t").DistinctOn("a")
	require.Error(t, s.Err())
}
