package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drizzle-go/drizzle/sqlfrag"
	"github.com/drizzle-go/drizzle/value"
)

func TestRenderPostgresDollarSegments(t *testing.T) {
	f := sqlfrag.Raw("SELECT").Push("*").Push("FROM").Append(sqlfrag.Table("users")).
		Push("WHERE id =").Append(sqlfrag.Param(value.Int(1, "postgres"))).
		Push("AND name =").Append(sqlfrag.Param(value.Text("a", "postgres")))
	p := Render(f, "postgres")
	assert.Equal(t, `SELECT * FROM "users" WHERE id = $1 AND name = $2`, p.SQL)
	require.Len(t, p.Params, 2)
	assert.Len(t, p.Segments, 3)
}

func TestRenderSQLiteNamedPlaceholder(t *testing.T) {
	f := sqlfrag.Raw("WHERE name =").Append(sqlfrag.Placeholder("name"))
	p := Render(f, "sqlite")
	assert.Equal(t, "WHERE name = :name", p.SQL)
	require.Len(t, p.Params, 1)
	assert.Equal(t, "name", p.Params[0].Name)
	assert.False(t, p.Params[0].Bound)
}

func TestBindNamedRequiresExactCoverage(t *testing.T) {
	f := sqlfrag.Placeholder("a").Append(sqlfrag.Raw(",")).Append(sqlfrag.Placeholder("b"))
	p := Render(f, "sqlite")

	_, err := p.Bind(map[string]value.Value{"a": value.Int(1, "sqlite")})
	require.Error(t, err)

	_, err = p.Bind(map[string]value.Value{
		"a": value.Int(1, "sqlite"),
		"b": value.Int(2, "sqlite"),
		"c": value.Int(3, "sqlite"),
	})
	require.Error(t, err)

	vals, err := p.Bind(map[string]value.Value{
		"a": value.Int(1, "sqlite"),
		"b": value.Int(2, "sqlite"),
	})
	require.NoError(t, err)
	assert.Len(t, vals, 2)
}

func TestQuoteIdentDialectSpecific(t *testing.T) {
	assert.Equal(t, `"users"`, QuoteIdent("sqlite", "users"))
	assert.Equal(t, "`users`", QuoteIdent("mysql", "users"))
	assert.Equal(t, `"users"`, QuoteIdent("postgres", "users"))
}
