package qb

import (
	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/render"
	"github.com/drizzle-go/drizzle/sqlfrag"
	"github.com/drizzle-go/drizzle/value"
)

// ColumnValue is one column assignment of an insert/update row: either
// a concrete value, a request for the column's declared default, or
// left unset (§4.C insert-shape "value, default-requested, unset").
type ColumnValue struct {
	kind  colValueKind
	value any
}

type colValueKind uint8

const (
	colUnset colValueKind = iota
	colValue
	colDefault
)

// Value wraps v as an explicit column value.
func Value(v any) ColumnValue { return ColumnValue{kind: colValue, value: v} }

// Default requests the column's declared default be used.
func Default() ColumnValue { return ColumnValue{kind: colDefault} }

// IsUnset reports whether cv is the zero value — left unset rather than
// given a value or a default request. Generated insert-shape types
// (codegen) use this to implement the §4.C constraint check ("no
// NOT-NULL column may remain unset unless it has a default, and PK
// columns may be unset only if auto-increment") without needing access
// to ColumnValue's unexported kind.
func (cv ColumnValue) IsUnset() bool { return cv.kind == colUnset }

// Expr wraps a raw SQL expression (e.g. "EXCLUDED.name") as a column
// value, rendered verbatim rather than bound as a parameter — used for
// ON CONFLICT DO UPDATE SET assignments that reference EXCLUDED
// (§4.D "ON CONFLICT variants").
func Expr(sql string) ColumnValue { return ColumnValue{kind: colValue, value: sqlfrag.Raw(sql)} }

// Row is one insert row: column name to ColumnValue. Every column in a
// Row must be a declared column of the target table; validating that
// is the caller's/codegen's job, not the builder's (§4.D INSERT
// semantics references the insert-shape type generated per table).
type Row map[string]ColumnValue

// conflictKind discriminates ON CONFLICT variants (§4.D "ON CONFLICT
// variants").
type conflictKind uint8

const (
	conflictNone conflictKind = iota
	conflictDoNothing
	conflictDoUpdate
)

type onConflict struct {
	kind          conflictKind
	targetColumns []string
	targetWhere   string
	constraint    string
	set           Row
	where         *Condition
}

// Insert is the type-state INSERT builder (§4.D). The columns that
// carry a declared default, needed to detect a "default-requested"
// value on a column with no default (§4.D INSERT semantics, a
// BuildError), are passed to NewInsert.
type Insert struct {
	dialectName string
	err         error

	table      string
	rows       []Row
	defaults   map[string]bool // columns with a declared default
	conflict   onConflict
	returning  []string
	hasValues  bool
}

// NewInsert starts an INSERT builder in the Initial state
// (§4.D Insert::Initial). defaultCols names the columns of table that
// carry a declared default, so Values can detect an impossible
// default-request.
func NewInsert(dialectName, table string, defaultCols ...string) *Insert {
	ins := &Insert{dialectName: dialectName, table: table, defaults: map[string]bool{}}
	for _, c := range defaultCols {
		ins.defaults[c] = true
	}
	return ins
}

func (ins *Insert) fail(msg string) *Insert {
	if ins.err == nil {
		ins.err = drizzle.NewBuildError("insert", msg)
	}
	return ins
}

// Values transitions Initial → Values (§4.D). An empty rows list is
// legal: it produces zero statements rather than a build error
// (§8 "values([]) for an insert produces zero statements").
func (ins *Insert) Values(rows ...Row) *Insert {
	for _, row := range rows {
		for col, cv := range row {
			if cv.kind == colDefault && !ins.defaults[col] {
				return ins.fail("column " + col + " has no declared default; cannot request default")
			}
		}
	}
	ins.rows = append(ins.rows, rows...)
	ins.hasValues = true
	return ins
}

// OnConflictDoNothing transitions Values → OnConflict (§4.D). target
// is an optional column list naming the conflict target.
func (ins *Insert) OnConflictDoNothing(target ...string) *Insert {
	if !ins.hasValues {
		return ins.fail("OnConflictDoNothing requires Values first")
	}
	ins.conflict = onConflict{kind: conflictDoNothing, targetColumns: target}
	return ins
}

// OnConflictDoUpdate transitions Values → OnConflict with DO UPDATE
// SET ... [WHERE ...] (§4.D). target is an optional column list;
// OnConflictConstraint names a constraint instead.
func (ins *Insert) OnConflictDoUpdate(target []string, set Row, where *Condition) *Insert {
	if !ins.hasValues {
		return ins.fail("OnConflictDoUpdate requires Values first")
	}
	ins.conflict = onConflict{kind: conflictDoUpdate, targetColumns: target, set: set, where: where}
	return ins
}

// OnConflictConstraint names a constraint as the conflict target
// instead of a column list. PostgreSQL-only (§4.D).
func (ins *Insert) OnConflictConstraint(name string, set Row, where *Condition) *Insert {
	if !ins.hasValues {
		return ins.fail("OnConflictConstraint requires Values first")
	}
	ins.conflict = onConflict{kind: conflictDoUpdate, constraint: name, set: set, where: where}
	return ins
}

// Returning projects columns after insert. SQLite ≥ 3.35 and
// PostgreSQL only (§4.D).
func (ins *Insert) Returning(columns ...string) *Insert {
	ins.returning = columns
	return ins
}

// Frag renders the INSERT as a fragment. Returns nil when there are no
// rows to insert (§8 boundary behaviour).
func (ins *Insert) Frag() *sqlfrag.Fragment {
	if len(ins.rows) == 0 {
		return nil
	}
	cols := ins.orderedColumns()
	colFrags := make([]*sqlfrag.Fragment, len(cols))
	for i, c := range cols {
		colFrags[i] = sqlfrag.Column("", c)
	}
	f := sqlfrag.Raw("INSERT INTO").Append(sqlfrag.Table(ins.table)).
		Push("(").Append(sqlfrag.Join(colFrags, ", ")).Push(")").
		Push("VALUES")

	rowFrags := make([]*sqlfrag.Fragment, len(ins.rows))
	for ri, row := range ins.rows {
		vals := make([]*sqlfrag.Fragment, len(cols))
		for ci, c := range cols {
			cv, ok := row[c]
			switch {
			case !ok || cv.kind == colUnset:
				vals[ci] = sqlfrag.Raw("DEFAULT")
			case cv.kind == colDefault:
				vals[ci] = sqlfrag.Raw("DEFAULT")
			default:
				if raw, ok := cv.value.(*sqlfrag.Fragment); ok {
					vals[ci] = raw
				} else {
					vals[ci] = sqlfrag.Param(value.From(cv.value, ins.dialectName))
				}
			}
		}
		rowFrags[ri] = sqlfrag.Raw("(").Append(sqlfrag.Join(vals, ", ")).Push(")")
	}
	f = f.Append(sqlfrag.Join(rowFrags, ", "))

	switch ins.conflict.kind {
	case conflictDoNothing:
		f = f.Push("ON CONFLICT")
		f = ins.appendConflictTarget(f)
		f = f.Push("DO NOTHING")
	case conflictDoUpdate:
		f = f.Push("ON CONFLICT")
		if ins.conflict.constraint != "" {
			f = f.Push("ON CONSTRAINT").Append(sqlfrag.Table(ins.conflict.constraint))
		} else {
			f = ins.appendConflictTarget(f)
		}
		f = f.Push("DO UPDATE SET").Append(ins.setFrag(ins.conflict.set))
		if ins.conflict.where != nil {
			f = f.Push("WHERE").Append(ins.conflict.where.frag)
		}
	}

	if len(ins.returning) > 0 {
		retCols := make([]*sqlfrag.Fragment, len(ins.returning))
		for i, c := range ins.returning {
			retCols[i] = sqlfrag.Column("", c)
		}
		f = f.Push("RETURNING").Append(sqlfrag.Join(retCols, ", "))
	}
	return f
}

func (ins *Insert) appendConflictTarget(f *sqlfrag.Fragment) *sqlfrag.Fragment {
	if len(ins.conflict.targetColumns) == 0 {
		return f
	}
	cols := make([]*sqlfrag.Fragment, len(ins.conflict.targetColumns))
	for i, c := range ins.conflict.targetColumns {
		cols[i] = sqlfrag.Column("", c)
	}
	return f.Push("(").Append(sqlfrag.Join(cols, ", ")).Push(")")
}

func (ins *Insert) setFrag(row Row) *sqlfrag.Fragment {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sortStrings(cols)
	parts := make([]*sqlfrag.Fragment, len(cols))
	for i, c := range cols {
		cv := row[c]
		var rhs *sqlfrag.Fragment
		if raw, ok := cv.value.(*sqlfrag.Fragment); ok {
			rhs = raw
		} else if s, ok := cv.value.(string); ok && cv.kind == colValue {
			rhs = sqlfrag.Raw(s)
		} else {
			rhs = sqlfrag.Param(value.From(cv.value, ins.dialectName))
		}
		parts[i] = sqlfrag.Column("", c).Push("=").Append(rhs)
	}
	return sqlfrag.Join(parts, ", ")
}

// orderedColumns returns the union of all columns across rows, sorted,
// so every row's VALUES tuple aligns with the same column list.
func (ins *Insert) orderedColumns() []string {
	seen := map[string]bool{}
	var cols []string
	for _, row := range ins.rows {
		for c := range row {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	sortStrings(cols)
	return cols
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Build renders the INSERT to dialect SQL and parameters. Returns an
// empty string and nil params for an empty Values call.
func (ins *Insert) Build() (string, []any, error) {
	if ins.err != nil {
		return "", nil, ins.err
	}
	f := ins.Frag()
	if f == nil {
		return "", nil, nil
	}
	sqlText, params := f.Build(ins.dialectName)
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p
	}
	return sqlText, out, nil
}

// Prepare renders a render.Prepared statement for this INSERT.
func (ins *Insert) Prepare() (*render.Prepared, error) {
	if ins.err != nil {
		return nil, ins.err
	}
	f := ins.Frag()
	if f == nil {
		return nil, nil
	}
	return render.Render(f, ins.dialectName), nil
}

// Err returns the first BuildError recorded by an illegal transition.
func (ins *Insert) Err() error { return ins.err }
