package qb

import (
	"github.com/drizzle-go/drizzle/render"
	"github.com/drizzle-go/drizzle/sqlfrag"
)

// Delete is the type-state DELETE builder (§4.D). Unlike Select/Insert/
// Update, Delete has no intermediate states to enforce beyond an
// optional Where: without one the builder still emits a valid
// statement that deletes every row, matching §4.D DELETE semantics
// ("the builder still emits a valid statement"); warning about a
// missing WHERE is the CLI's explain/strict path, out of scope here.
type Delete struct {
	dialectName string
	table       string
	where       *Condition
	returning   []string
}

// NewDelete starts a DELETE builder in the Initial state
// (§4.D Delete::Initial).
func NewDelete(dialectName, table string) *Delete {
	return &Delete{dialectName: dialectName, table: table}
}

// Where attaches the DELETE's WHERE condition (§4.D).
func (d *Delete) Where(c Condition) *Delete {
	d.where = &c
	return d
}

// Returning projects columns after delete. SQLite ≥ 3.35 and
// PostgreSQL only (§4.D).
func (d *Delete) Returning(columns ...string) *Delete {
	d.returning = columns
	return d
}

// Frag renders the DELETE as a fragment.
func (d *Delete) Frag() *sqlfrag.Fragment {
	f := sqlfrag.Raw("DELETE FROM").Append(sqlfrag.Table(d.table))
	if d.where != nil {
		f = f.Push("WHERE").Append(d.where.frag)
	}
	if len(d.returning) > 0 {
		retCols := make([]*sqlfrag.Fragment, len(d.returning))
		for i, c := range d.returning {
			retCols[i] = sqlfrag.Column("", c)
		}
		f = f.Push("RETURNING").Append(sqlfrag.Join(retCols, ", "))
	}
	return f
}

// Build renders the DELETE to dialect SQL and parameters.
func (d *Delete) Build() (string, []any, error) {
	sqlText, params := d.Frag().Build(d.dialectName)
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p
	}
	return sqlText, out, nil
}

// Prepare renders a render.Prepared statement for this DELETE.
func (d *Delete) Prepare() (*render.Prepared, error) {
	return render.Render(d.Frag(), d.dialectName), nil
}
