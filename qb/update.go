package qb

import (
	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/render"
	"github.com/drizzle-go/drizzle/sqlfrag"
	"github.com/drizzle-go/drizzle/value"
)

// Update is the type-state UPDATE builder (§4.D). Every field of the
// update-shape is optional; Set renders only the fields that were
// actually assigned (§3 Table "update-shape type where every column is
// optional").
type Update struct {
	dialectName string
	err         error

	table     string
	set       Row
	hasSet    bool
	where     *Condition
	returning []string
}

// NewUpdate starts an UPDATE builder in the Initial state
// (§4.D Update::Initial).
func NewUpdate(dialectName, table string) *Update {
	return &Update{dialectName: dialectName, table: table}
}

func (u *Update) fail(msg string) *Update {
	if u.err == nil {
		u.err = drizzle.NewBuildError("update", msg)
	}
	return u
}

// Set transitions Initial → Set (§4.D). An empty update (no fields
// assigned) is a build error at Build/Prepare time (§4.D UPDATE
// semantics "Empty updates are a build error").
func (u *Update) Set(assignments Row) *Update {
	u.set = assignments
	u.hasSet = true
	return u
}

// Where attaches the UPDATE's WHERE condition (§4.D).
func (u *Update) Where(c Condition) *Update {
	if !u.hasSet {
		return u.fail("Where requires Set first")
	}
	u.where = &c
	return u
}

// Returning projects columns after update. SQLite ≥ 3.35 and
// PostgreSQL only (§4.D).
func (u *Update) Returning(columns ...string) *Update {
	u.returning = columns
	return u
}

// Frag renders the UPDATE as a fragment.
func (u *Update) Frag() (*sqlfrag.Fragment, error) {
	if !u.hasSet || len(u.set) == 0 {
		return nil, drizzle.ErrEmptyUpdate
	}
	cols := make([]string, 0, len(u.set))
	for c := range u.set {
		cols = append(cols, c)
	}
	sortStrings(cols)
	parts := make([]*sqlfrag.Fragment, len(cols))
	for i, c := range cols {
		cv := u.set[c]
		var rhs *sqlfrag.Fragment
		switch {
		case cv.kind == colDefault:
			rhs = sqlfrag.Raw("DEFAULT")
		default:
			if raw, ok := cv.value.(*sqlfrag.Fragment); ok {
				rhs = raw
			} else {
				rhs = sqlfrag.Param(value.From(cv.value, u.dialectName))
			}
		}
		parts[i] = sqlfrag.Column("", c).Push("=").Append(rhs)
	}
	f := sqlfrag.Raw("UPDATE").Append(sqlfrag.Table(u.table)).
		Push("SET").Append(sqlfrag.Join(parts, ", "))
	if u.where != nil {
		f = f.Push("WHERE").Append(u.where.frag)
	}
	if len(u.returning) > 0 {
		retCols := make([]*sqlfrag.Fragment, len(u.returning))
		for i, c := range u.returning {
			retCols[i] = sqlfrag.Column("", c)
		}
		f = f.Push("RETURNING").Append(sqlfrag.Join(retCols, ", "))
	}
	return f, nil
}

// Build renders the UPDATE to dialect SQL and parameters.
func (u *Update) Build() (string, []any, error) {
	if u.err != nil {
		return "", nil, u.err
	}
	f, err := u.Frag()
	if err != nil {
		return "", nil, err
	}
	sqlText, params := f.Build(u.dialectName)
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p
	}
	return sqlText, out, nil
}

// Prepare renders a render.Prepared statement for this UPDATE.
func (u *Update) Prepare() (*render.Prepared, error) {
	if u.err != nil {
		return nil, u.err
	}
	f, err := u.Frag()
	if err != nil {
		return nil, err
	}
	return render.Render(f, u.dialectName), nil
}

// Err returns the first BuildError recorded by an illegal transition.
func (u *Update) Err() error { return u.err }
