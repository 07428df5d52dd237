package qb

import (
	"github.com/drizzle-go/drizzle/render"
	"github.com/drizzle-go/drizzle/sqlfrag"
)

// cteDef is one named common table expression chained onto a With
// builder (§4.D "A CTE builder may chain .with(cte).with(cte2)...").
type cteDef struct {
	name      string
	columns   []string
	recursive bool
	body      sqlfrag.Expr
}

// With starts a CTE chain. Call Then (or ThenRecursive) once per CTE,
// then start the SELECT that consumes the CTEs with Select; With does
// not start INSERT, UPDATE or DELETE statements.
type With struct {
	dialectName string
	ctes        []cteDef
}

// NewWith starts a CTE builder (§4.D "A CTE builder may chain
// .with(cte).with(cte2)... and then start either select/insert/
// update/delete").
func NewWith(dialectName string) *With {
	return &With{dialectName: dialectName}
}

// Then adds one CTE to the chain and returns the same builder so calls
// can be chained: NewWith(d).Then("x", body).Then("y", body2)....
func (w *With) Then(name string, body sqlfrag.Expr, columns ...string) *With {
	w.ctes = append(w.ctes, cteDef{name: name, body: body, columns: columns})
	return w
}

// ThenRecursive adds a WITH RECURSIVE member to the chain.
func (w *With) ThenRecursive(name string, body sqlfrag.Expr, columns ...string) *With {
	w.ctes = append(w.ctes, cteDef{name: name, body: body, columns: columns, recursive: true})
	return w
}

// prefix renders the WITH [RECURSIVE] clause shared by whichever
// statement follows.
func (w *With) prefix() *sqlfrag.Fragment {
	if len(w.ctes) == 0 {
		return sqlfrag.Raw("")
	}
	recursive := false
	for _, c := range w.ctes {
		if c.recursive {
			recursive = true
		}
	}
	kw := "WITH"
	if recursive {
		kw = "WITH RECURSIVE"
	}
	parts := make([]*sqlfrag.Fragment, len(w.ctes))
	for i, c := range w.ctes {
		part := sqlfrag.Table(c.name)
		if len(c.columns) > 0 {
			cols := make([]*sqlfrag.Fragment, len(c.columns))
			for j, col := range c.columns {
				cols[j] = sqlfrag.Column("", col)
			}
			part = part.Push("(").Append(sqlfrag.Join(cols, ", ")).Push(")")
		}
		part = part.Push("AS").Append(sqlfrag.Subquery(c.body.Frag()))
		parts[i] = part
	}
	return sqlfrag.Raw(kw).Append(sqlfrag.Join(parts, ", "))
}

// Select starts a SELECT consuming the chained CTEs.
func (w *With) Select(projections ...string) *CTESelect {
	return &CTESelect{with: w, inner: NewSelect(w.dialectName, projections...)}
}

// CTESelect wraps Select so its Frag prefixes the WITH clause; every
// other method delegates to the inner Select.
type CTESelect struct {
	with  *With
	inner *Select
}

func (c *CTESelect) From(table string) *CTESelect       { c.inner.From(table); return c }
func (c *CTESelect) Where(cond Condition) *CTESelect     { c.inner.Where(cond); return c }
func (c *CTESelect) Limit(n int64) *CTESelect            { c.inner.Limit(n); return c }
func (c *CTESelect) OrderBy(col string, dir Direction, nulls NullsOrder) *CTESelect {
	c.inner.OrderBy(col, dir, nulls)
	return c
}

// Frag renders WITH ... followed by the inner SELECT, implementing
// sqlfrag.Expr so the whole CTE statement can itself be used as a
// subquery (D/E subquery correlation).
func (c *CTESelect) Frag() *sqlfrag.Fragment {
	return c.with.prefix().Append(c.inner.Frag())
}

// Build renders the CTE SELECT to dialect SQL and parameters.
func (c *CTESelect) Build() (string, []any, error) {
	if err := c.inner.Err(); err != nil {
		return "", nil, err
	}
	sqlText, params := c.Frag().Build(c.with.dialectName)
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p
	}
	return sqlText, out, nil
}

// Prepare renders a render.Prepared statement for this CTE SELECT.
func (c *CTESelect) Prepare() (*render.Prepared, error) {
	if err := c.inner.Err(); err != nil {
		return nil, err
	}
	return render.Render(c.Frag(), c.with.dialectName), nil
}
