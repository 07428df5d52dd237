// Package qb implements the type-state query builder (§4.D of the
// design). Go has no compile-time type-state mechanism for this shape
// of API (§9), so each builder enforces its legal state transitions at
// runtime: an illegal transition records a *drizzle.BuildError on the
// builder instead of panicking, and that error surfaces the first time
// the caller tries to finish the statement (Build or Prepare).
package qb

import (
	"github.com/drizzle-go/drizzle/sqlfrag"
	"github.com/drizzle-go/drizzle/value"
)

// Condition is a boolean SQL expression used in WHERE/HAVING/ON/join
// predicates (§4.D WHERE fragments).
type Condition struct {
	frag *sqlfrag.Fragment
}

// Frag implements sqlfrag.Expr so a Condition can be embedded directly
// inside a hand-built fragment.
func (c Condition) Frag() *sqlfrag.Fragment { return c.frag }

func cond(f *sqlfrag.Fragment) Condition { return Condition{frag: f} }

func col(table, column string) *sqlfrag.Fragment {
	if table == "" {
		return sqlfrag.Column("", column)
	}
	return sqlfrag.Column(table, column)
}

// Eq builds `column = value`.
func Eq(table, column string, v any, dialectName string) Condition {
	return cond(col(table, column).Push("=").Append(sqlfrag.Param(value.From(v, dialectName))))
}

// Neq builds `column <> value`.
func Neq(table, column string, v any, dialectName string) Condition {
	return cond(col(table, column).Push("<>").Append(sqlfrag.Param(value.From(v, dialectName))))
}

// Gt builds `column > value`.
func Gt(table, column string, v any, dialectName string) Condition {
	return cond(col(table, column).Push(">").Append(sqlfrag.Param(value.From(v, dialectName))))
}

// Gte builds `column >= value`.
func Gte(table, column string, v any, dialectName string) Condition {
	return cond(col(table, column).Push(">=").Append(sqlfrag.Param(value.From(v, dialectName))))
}

// Lt builds `column < value`.
func Lt(table, column string, v any, dialectName string) Condition {
	return cond(col(table, column).Push("<").Append(sqlfrag.Param(value.From(v, dialectName))))
}

// Lte builds `column <= value`.
func Lte(table, column string, v any, dialectName string) Condition {
	return cond(col(table, column).Push("<=").Append(sqlfrag.Param(value.From(v, dialectName))))
}

// In builds `column IN (v1, v2, ...)`. An empty vs list renders a
// condition that is always false (`1 = 0`), since `IN ()` is invalid
// SQL in every target dialect.
func In(table, column string, vs []any, dialectName string) Condition {
	if len(vs) == 0 {
		return cond(sqlfrag.Raw("1 = 0"))
	}
	params := make([]*sqlfrag.Fragment, len(vs))
	for i, v := range vs {
		params[i] = sqlfrag.Param(value.From(v, dialectName))
	}
	return cond(col(table, column).Push("IN (").Append(sqlfrag.Join(params, ", ")).Push(")"))
}

// NotIn builds `column NOT IN (...)`.
func NotIn(table, column string, vs []any, dialectName string) Condition {
	if len(vs) == 0 {
		return cond(sqlfrag.Raw("1 = 1"))
	}
	params := make([]*sqlfrag.Fragment, len(vs))
	for i, v := range vs {
		params[i] = sqlfrag.Param(value.From(v, dialectName))
	}
	return cond(col(table, column).Push("NOT IN (").Append(sqlfrag.Join(params, ", ")).Push(")"))
}

// Between builds `column BETWEEN lo AND hi`.
func Between(table, column string, lo, hi any, dialectName string) Condition {
	return cond(col(table, column).Push("BETWEEN").
		Append(sqlfrag.Param(value.From(lo, dialectName))).
		Push("AND").
		Append(sqlfrag.Param(value.From(hi, dialectName))))
}

// Like builds `column LIKE pattern`.
func Like(table, column, pattern, dialectName string) Condition {
	return cond(col(table, column).Push("LIKE").Append(sqlfrag.Param(value.Text(pattern, dialectName))))
}

// ILike builds `column ILIKE pattern`. PostgreSQL-only (§4.D).
func ILike(table, column, pattern, dialectName string) Condition {
	return cond(col(table, column).Push("ILIKE").Append(sqlfrag.Param(value.Text(pattern, dialectName))))
}

// IsNull builds `column IS NULL`.
func IsNull(table, column string) Condition {
	return cond(col(table, column).Push("IS NULL"))
}

// NotNull builds `column IS NOT NULL`.
func NotNull(table, column string) Condition {
	return cond(col(table, column).Push("IS NOT NULL"))
}

// Exists builds `EXISTS (subquery)`.
func Exists(sub sqlfrag.Expr) Condition {
	return cond(sqlfrag.Raw("EXISTS").Append(sqlfrag.Subquery(sub.Frag())))
}

// NotExists builds `NOT EXISTS (subquery)`.
func NotExists(sub sqlfrag.Expr) Condition {
	return cond(sqlfrag.Raw("NOT EXISTS").Append(sqlfrag.Subquery(sub.Frag())))
}

// And combines conditions with AND. An empty list renders `TRUE`
// (a no-op predicate, §4.D); a single condition is unwrapped rather
// than wrapped in a redundant set of parentheses.
func And(conds ...Condition) Condition {
	return combine(conds, "AND", "TRUE")
}

// Or combines conditions with OR. An empty list renders `TRUE`
// matching And's no-op convention; a single condition is unwrapped.
func Or(conds ...Condition) Condition {
	return combine(conds, "OR", "TRUE")
}

func combine(conds []Condition, op, identity string) Condition {
	switch len(conds) {
	case 0:
		return cond(sqlfrag.Raw(identity))
	case 1:
		return conds[0]
	}
	parts := make([]*sqlfrag.Fragment, len(conds))
	for i, c := range conds {
		parts[i] = sqlfrag.Raw("(").Append(c.frag).Push(")")
	}
	return cond(sqlfrag.Join(parts, op))
}

// Not builds `NOT (condition)`.
func Not(c Condition) Condition {
	return cond(sqlfrag.Raw("NOT (").Append(c.frag).Push(")"))
}
