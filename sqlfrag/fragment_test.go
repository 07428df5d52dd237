package sqlfrag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drizzle-go/drizzle/value"
)

func TestRawIsNeverParameterised(t *testing.T) {
	f := Raw("SELECT 1")
	sqlText, params := f.Build("sqlite")
	assert.Equal(t, "SELECT 1", sqlText)
	assert.Empty(t, params)
}

func TestParamPositionalPlaceholderSQLite(t *testing.T) {
	f := Raw("WHERE id =").Append(Param(value.Int(1, "sqlite")))
	sqlText, params := f.Build("sqlite")
	assert.Equal(t, "WHERE id = ?", sqlText)
	require.Len(t, params, 1)
}

func TestParamDollarPlaceholderPostgres(t *testing.T) {
	f := Raw("WHERE id =").Append(Param(value.Int(1, "postgres"))).
		Push("AND name =").Append(Param(value.Text("a", "postgres")))
	sqlText, params := f.Build("postgres")
	assert.Equal(t, "WHERE id = $1 AND name = $2", sqlText)
	assert.Len(t, params, 2)
}

func TestPlaceholderUnboundIsSkippedByParams(t *testing.T) {
	f := Placeholder("name")
	params := f.Params("sqlite")
	assert.Empty(t, params)

	bound := f.Bind(map[string]value.Value{"name": value.Text("bob", "sqlite")})
	params = bound.Params("sqlite")
	require.Len(t, params, 1)
}

func TestJoinFlattensWithSeparator(t *testing.T) {
	f := Join([]*Fragment{Raw("a"), Raw("b"), Raw("c")}, ", ")
	sqlText, _ := f.Build("sqlite")
	assert.Equal(t, "a, b, c", sqlText)
}

func TestColumnQuotingPerDialect(t *testing.T) {
	c := Column("users", "name")
	sqlSQLite, _ := c.Build("sqlite")
	assert.Equal(t, `"users"."name"`, sqlSQLite)

	sqlMySQL, _ := c.Build("mysql")
	assert.Equal(t, "`users`.`name`", sqlMySQL)
}

func TestColumnStarRendersUnquoted(t *testing.T) {
	qualified, _ := Column("users", "*").Build("sqlite")
	assert.Equal(t, `"users".*`, qualified)

	unresolved, _ := Column("", "*").Build("sqlite")
	assert.Equal(t, `*`, unresolved)
}

func TestSubqueryRendersInParentheses(t *testing.T) {
	inner := Raw("SELECT id FROM t")
	f := Raw("WHERE x IN").Append(Subquery(inner))
	sqlText, _ := f.Build("sqlite")
	assert.Equal(t, "WHERE x IN (SELECT id FROM t)", sqlText)
}

func TestAppendDoesNotMutateInputs(t *testing.T) {
	a := Raw("a")
	b := Raw("b")
	_ = a.Append(b)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestSpacingRuleAroundParensAndComma(t *testing.T) {
	f := Raw("f(").Push("x").Push(",").Push("y").Push(")")
	sqlText, _ := f.Build("sqlite")
	assert.Equal(t, "f(x, y)", sqlText)
}

func TestDepthFirstParamOrder(t *testing.T) {
	inner := Raw("x =").Append(Param(value.Int(1, "sqlite")))
	outer := Raw("WHERE a =").Append(Param(value.Int(2, "sqlite"))).
		Push("AND b IN").Append(Subquery(inner))
	_, params := outer.Build("sqlite")
	require.Len(t, params, 2)
	first, _ := params[0].Int64()
	second, _ := params[1].Int64()
	assert.Equal(t, int64(2), first)
	assert.Equal(t, int64(1), second)
}
