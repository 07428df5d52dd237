package qb

import (
	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/dialect"
	"github.com/drizzle-go/drizzle/render"
	"github.com/drizzle-go/drizzle/sqlfrag"
	"github.com/drizzle-go/drizzle/value"
)

// JoinKind enumerates the SELECT JOIN variants (§4.D "JOIN variants").
type JoinKind uint8

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
	JoinNatural
)

func (k JoinKind) keyword() string {
	switch k {
	case JoinLeft:
		return "LEFT JOIN"
	case JoinRight:
		return "RIGHT JOIN"
	case JoinFull:
		return "FULL JOIN"
	case JoinCross:
		return "CROSS JOIN"
	case JoinNatural:
		return "NATURAL JOIN"
	default:
		return "INNER JOIN"
	}
}

type joinClause struct {
	kind  JoinKind
	table string
	alias string
	on    *Condition
}

// Direction is an ORDER BY sort direction (§4.D "ORDER BY").
type Direction uint8

const (
	Asc Direction = iota
	Desc
)

// NullsOrder requests NULLS FIRST/LAST on an ORDER BY term.
type NullsOrder uint8

const (
	NullsDefault NullsOrder = iota
	NullsFirst
	NullsLast
)

type orderTerm struct {
	column    string
	table     string
	direction Direction
	nulls     NullsOrder
}

// Select is the type-state SELECT builder (§4.D). Go enforces the
// legal state transitions at runtime rather than at compile time
// (§9): calling a clause method before From records a *drizzle.
// BuildError that Build and Prepare return (Err reports it too).
type Select struct {
	dialectName string
	err         error

	projections []string
	fromTable   string
	fromAlias   string
	hasFrom     bool

	joins    []joinClause
	where    *Condition
	groupBy  []string
	having   *Condition
	orderBy  []orderTerm
	limit    *sqlfrag.Fragment
	offset   *sqlfrag.Fragment
	distinct bool
	distinctOn []string
	forUpdate  bool
}

// NewSelect starts a SELECT builder in the Initial state (§4.D
// Select::Initial).
func NewSelect(dialectName string, projections ...string) *Select {
	return &Select{dialectName: dialectName, projections: projections}
}

func (s *Select) fail(op, msg string) *Select {
	if s.err == nil {
		s.err = drizzle.NewBuildError(op, msg)
	}
	return s
}

// From transitions Initial → From (§4.D). Only one FROM table is
// modeled directly; additional sources are attached via Join.
func (s *Select) From(table string) *Select {
	return s.FromAs(table, "")
}

// FromAs is From with an explicit alias.
func (s *Select) FromAs(table, alias string) *Select {
	if s.hasFrom {
		return s.fail("select", "FROM already set")
	}
	s.fromTable, s.fromAlias, s.hasFrom = table, alias, true
	return s
}

func (s *Select) requireFrom(op string) bool {
	if s.err != nil {
		return false
	}
	if !s.hasFrom {
		s.fail(op, "no FROM table: call From first")
		return false
	}
	return true
}

// Join adds a join clause (§4.D "JOIN variants"). on is ignored for
// Cross and Natural joins.
func (s *Select) Join(kind JoinKind, table string, on Condition) *Select {
	return s.JoinAs(kind, table, "", on)
}

// JoinAs is Join with an explicit alias for the joined table.
func (s *Select) JoinAs(kind JoinKind, table, alias string, on Condition) *Select {
	if !s.requireFrom("select") {
		return s
	}
	jc := joinClause{kind: kind, table: table, alias: alias}
	if kind != JoinCross && kind != JoinNatural {
		jc.on = &on
	}
	s.joins = append(s.joins, jc)
	return s
}

// Where attaches the WHERE condition (§4.D).
func (s *Select) Where(c Condition) *Select {
	if !s.requireFrom("select") {
		return s
	}
	s.where = &c
	return s
}

// GroupBy takes a list of columns (§4.D).
func (s *Select) GroupBy(columns ...string) *Select {
	if !s.requireFrom("select") {
		return s
	}
	s.groupBy = append(s.groupBy, columns...)
	return s
}

// Having attaches a HAVING condition (§4.D).
func (s *Select) Having(c Condition) *Select {
	if !s.requireFrom("select") {
		return s
	}
	s.having = &c
	return s
}

// OrderBy accepts a heterogeneous list of (column, direction) pairs
// with optional NULLS FIRST/LAST (§4.D).
func (s *Select) OrderBy(column string, dir Direction, nulls NullsOrder) *Select {
	if !s.requireFrom("select") {
		return s
	}
	s.orderBy = append(s.orderBy, orderTerm{column: column, direction: dir, nulls: nulls})
	return s
}

// Limit accepts an integer literal (§4.D, §8 scenario 1: LIMIT renders
// as a literal, not a bound parameter).
func (s *Select) Limit(n int64) *Select {
	if !s.requireFrom("select") {
		return s
	}
	s.limit = sqlfrag.Raw(itoaInt64(n))
	return s
}

// LimitParam accepts a bound parameter instead of a literal (§4.D
// "LIMIT and OFFSET accept integer literals or parameters").
func (s *Select) LimitParam(n int64) *Select {
	if !s.requireFrom("select") {
		return s
	}
	s.limit = sqlfrag.Param(value.Int(n, s.dialectName))
	return s
}

// Offset accepts an integer literal (§4.D).
func (s *Select) Offset(n int64) *Select {
	if !s.requireFrom("select") {
		return s
	}
	s.offset = sqlfrag.Raw(itoaInt64(n))
	return s
}

// OffsetParam accepts a bound parameter instead of a literal.
func (s *Select) OffsetParam(n int64) *Select {
	if !s.requireFrom("select") {
		return s
	}
	s.offset = sqlfrag.Param(value.Int(n, s.dialectName))
	return s
}

func itoaInt64(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Distinct requests SELECT DISTINCT.
func (s *Select) Distinct() *Select {
	if !s.requireFrom("select") {
		return s
	}
	s.distinct = true
	return s
}

// DistinctOn requests SELECT DISTINCT ON (cols). PostgreSQL-only (§4.D).
func (s *Select) DistinctOn(columns ...string) *Select {
	if s.dialectName != dialect.Postgres {
		return s.fail("select", "DISTINCT ON is PostgreSQL-only")
	}
	if !s.requireFrom("select") {
		return s
	}
	s.distinctOn = columns
	return s
}

// ForUpdate requests a locking read.
func (s *Select) ForUpdate() *Select {
	if !s.requireFrom("select") {
		return s
	}
	s.forUpdate = true
	return s
}

// Frag renders the SELECT as a fragment, implementing sqlfrag.Expr so
// a completed Select can be embedded as a correlated subquery in
// another fragment or condition (D/E subquery correlation).
func (s *Select) Frag() *sqlfrag.Fragment {
	f := sqlfrag.Raw("SELECT")
	if s.distinct {
		f = f.Push("DISTINCT")
	}
	if len(s.distinctOn) > 0 {
		cols := make([]*sqlfrag.Fragment, len(s.distinctOn))
		for i, c := range s.distinctOn {
			cols[i] = sqlfrag.Column(s.fromTable, c)
		}
		f = f.Push("DISTINCT ON (").Append(sqlfrag.Join(cols, ", ")).Push(")")
	}
	f = f.Append(s.projectionFrag())
	f = f.Push("FROM").Append(sqlfrag.Table(s.fromTable))
	if s.fromAlias != "" {
		f = f.Push("AS").Append(sqlfrag.Table(s.fromAlias))
	}
	for _, j := range s.joins {
		f = f.Push(j.kind.keyword()).Append(sqlfrag.Table(j.table))
		if j.alias != "" {
			f = f.Push("AS").Append(sqlfrag.Table(j.alias))
		}
		if j.on != nil {
			f = f.Push("ON").Append(j.on.frag)
		}
	}
	if s.where != nil {
		f = f.Push("WHERE").Append(s.where.frag)
	}
	if len(s.groupBy) > 0 {
		cols := make([]*sqlfrag.Fragment, len(s.groupBy))
		for i, c := range s.groupBy {
			cols[i] = sqlfrag.Column(s.fromTable, c)
		}
		f = f.Push("GROUP BY").Append(sqlfrag.Join(cols, ", "))
	}
	if s.having != nil {
		f = f.Push("HAVING").Append(s.having.frag)
	}
	if len(s.orderBy) > 0 {
		terms := make([]*sqlfrag.Fragment, len(s.orderBy))
		for i, o := range s.orderBy {
			term := sqlfrag.Column(o.table, o.column)
			if o.direction == Desc {
				term = term.Push("DESC")
			} else {
				term = term.Push("ASC")
			}
			switch o.nulls {
			case NullsFirst:
				term = term.Push("NULLS FIRST")
			case NullsLast:
				term = term.Push("NULLS LAST")
			}
			terms[i] = term
		}
		f = f.Push("ORDER BY").Append(sqlfrag.Join(terms, ", "))
	}
	if s.limit != nil {
		f = f.Push("LIMIT").Append(s.limit)
	}
	if s.offset != nil {
		f = f.Push("OFFSET").Append(s.offset)
	}
	if s.forUpdate {
		f = f.Push("FOR UPDATE")
	}
	return f
}

// projectionFrag renders the projection list. An empty projection
// means "all columns of the single FROM table" (§4.D SELECT
// semantics); since the builder does not carry the schema here, it
// renders `table.*` (or bare `*` when the table is unresolved, §8
// boundary), which every supported dialect expands the same way a
// fully qualified column list would for single-table queries.
// sqlfrag.Column special-cases the "*" column name so it never gets
// quoted as a literal identifier. Callers needing the literal expanded
// column list (e.g. codegen's select-row type) should pass explicit
// projections built from the loaded schema.Table instead.
func (s *Select) projectionFrag() *sqlfrag.Fragment {
	if len(s.projections) == 0 {
		return sqlfrag.Column(s.fromTable, "*")
	}
	frags := make([]*sqlfrag.Fragment, len(s.projections))
	for i, p := range s.projections {
		if isPlainIdentifier(p) {
			frags[i] = sqlfrag.Column(s.fromTable, p)
		} else {
			// Anything beyond a bare identifier (an expression, a
			// function call, an already-qualified reference) renders
			// verbatim (§4.D "Any explicit projection is rendered
			// verbatim").
			frags[i] = sqlfrag.Raw(p)
		}
	}
	return sqlfrag.Join(frags, ", ")
}

// isPlainIdentifier reports whether p looks like a single unqualified
// column name rather than an expression, so it can be qualified with
// the FROM table (§4.D SELECT semantics "column references are
// qualified with the table").
func isPlainIdentifier(p string) bool {
	if p == "" || p == "*" {
		return false
	}
	for i, r := range p {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Build renders the SELECT to dialect SQL and its parameter list,
// failing if an earlier call recorded a BuildError (§4.D, §9).
func (s *Select) Build() (string, []any, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	sqlText, params := s.Frag().Build(s.dialectName)
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p
	}
	return sqlText, out, nil
}

// Prepare renders a render.Prepared statement for this SELECT
// (§4.E pre-render pass).
func (s *Select) Prepare() (*render.Prepared, error) {
	if s.err != nil {
		return nil, s.err
	}
	return render.Render(s.Frag(), s.dialectName), nil
}

// Err returns the first BuildError recorded by an illegal transition,
// or nil.
func (s *Select) Err() error { return s.err }
