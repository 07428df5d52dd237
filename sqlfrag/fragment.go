// Package sqlfrag implements the composable SQL fragment/chunk model
// (§4.B of the design): an ordered sequence of chunks that can be built
// up piecewise and rendered, exactly once, into dialect text plus a
// parameter list.
package sqlfrag

import (
	"strings"

	"github.com/drizzle-go/drizzle/value"
)

// PlaceholderStyle selects how a parameter chunk renders its bind mark.
type PlaceholderStyle uint8

const (
	// StylePositional renders "?" (SQLite, MySQL).
	StylePositional PlaceholderStyle = iota
	// StyleDollar renders "$1", "$2", ... (PostgreSQL).
	StyleDollar
	// StyleColon renders ":name" (named bindings, pre-positional).
	StyleColon
	// StyleAt renders "@name" (SQL Server style, reserved for future dialects).
	StyleAt
)

// chunkKind discriminates the chunk variants described in §3 "SQL fragment".
type chunkKind uint8

const (
	chunkRaw chunkKind = iota
	chunkParam
	chunkPlaceholder
	chunkTable
	chunkColumn
	chunkAlias
	chunkSubquery
	chunkNested
)

// chunk is one element of a Fragment. Each chunk is self-contained and
// rendering never mutates it (§3 SQL fragment invariant).
type chunk struct {
	kind chunkKind

	text string // raw text, table name, column name, alias identifier
	tbl  string // owning table, for chunkColumn

	val   value.Value // chunkParam
	name  string       // chunkPlaceholder name
	bound bool         // chunkPlaceholder: whether name was later bound to a value

	inner *Fragment // chunkAlias (wrapped), chunkSubquery, chunkNested
}

// Fragment is an ordered, immutable-once-built sequence of chunks
// (§3 SQL fragment). The zero value is an empty fragment.
type Fragment struct {
	chunks []chunk
}

// Raw returns a fragment containing one literal text chunk, never
// parameterised (§4.B raw).
func Raw(text string) *Fragment {
	return &Fragment{chunks: []chunk{{kind: chunkRaw, text: text}}}
}

// Param returns a fragment containing one parameter chunk bound to a
// positional placeholder (§4.B param).
func Param(v value.Value) *Fragment {
	return &Fragment{chunks: []chunk{{kind: chunkParam, val: v}}}
}

// Placeholder returns a fragment with a named parameter chunk whose
// value is unbound until Bind is called (§4.B placeholder).
func Placeholder(name string) *Fragment {
	return &Fragment{chunks: []chunk{{kind: chunkPlaceholder, name: name}}}
}

// Table returns a fragment that resolves to a quoted table identifier
// at render time (§3 "table reference").
func Table(name string) *Fragment {
	return &Fragment{chunks: []chunk{{kind: chunkTable, text: name}}}
}

// Column returns a fragment that resolves to a quoted `table.column` at
// render time (§3 "column reference").
func Column(table, column string) *Fragment {
	return &Fragment{chunks: []chunk{{kind: chunkColumn, tbl: table, text: column}}}
}

// Alias wraps f with an alias identifier, rendered as "f AS alias";
// f is not parenthesised (§3 "alias").
func Alias(f *Fragment, alias string) *Fragment {
	return &Fragment{chunks: []chunk{{kind: chunkAlias, inner: f, text: alias}}}
}

// Subquery wraps f so it renders inside parentheses (§3 "subquery").
func Subquery(f *Fragment) *Fragment {
	return &Fragment{chunks: []chunk{{kind: chunkSubquery, inner: f}}}
}

// Nested wraps f for composition without surrounding parentheses
// (§3 "nested fragment").
func Nested(f *Fragment) *Fragment {
	return &Fragment{chunks: []chunk{{kind: chunkNested, inner: f}}}
}

// Join flattens fragments with separator text between elements
// (§4.B join).
func Join(fragments []*Fragment, separator string) *Fragment {
	out := &Fragment{}
	for i, f := range fragments {
		if i > 0 {
			out.chunks = append(out.chunks, chunk{kind: chunkRaw, text: separator})
		}
		out.chunks = append(out.chunks, f.chunks...)
	}
	return out
}

// Append returns a new fragment consisting of f followed by other,
// leaving both inputs unmodified (§3 invariant: rendering never
// mutates; Append goes further and never mutates on build either).
func (f *Fragment) Append(other *Fragment) *Fragment {
	out := &Fragment{chunks: make([]chunk, 0, len(f.chunks)+len(other.chunks))}
	out.chunks = append(out.chunks, f.chunks...)
	out.chunks = append(out.chunks, other.chunks...)
	return out
}

// Push returns a new fragment with a single raw-text chunk appended.
func (f *Fragment) Push(text string) *Fragment {
	return f.Append(Raw(text))
}

// Expr is implemented by anything that can appear where a fragment is
// expected: a qb.Select in Executable state implements this so
// correlated subqueries compose the same way a raw Fragment does
// (D/E subquery correlation).
type Expr interface {
	Frag() *Fragment
}

// needsSpace applies the spacing rule from §4.B: exactly one space
// between consecutive rendered pieces, except after an opening
// parenthesis, a dot or whitespace, and before a closing parenthesis,
// a comma or a dot.
func needsSpace(left, right string) bool {
	if left == "" || right == "" {
		return false
	}
	lastByte := left[len(left)-1]
	firstByte := right[0]
	if lastByte == ' ' || lastByte == '\t' || lastByte == '\n' {
		return false
	}
	if lastByte == '(' || firstByte == ')' || firstByte == ',' || firstByte == '.' || lastByte == '.' {
		return false
	}
	return true
}

// renderer accumulates rendered text, positional params, and bound
// placeholder values for one Build pass.
type renderer struct {
	dialect    string
	sb         strings.Builder
	params     []value.Value
	posCounter int
	quoteCol   func(table, col string) string
	quoteTbl   func(table string) string
}

func newRenderer(dialect string, quoteTbl func(string) string, quoteCol func(string, string) string) *renderer {
	return &renderer{dialect: dialect, quoteTbl: quoteTbl, quoteCol: quoteCol}
}

func (r *renderer) emit(s string) {
	if r.sb.Len() > 0 && needsSpace(r.sb.String(), s) {
		r.sb.WriteByte(' ')
	}
	r.sb.WriteString(s)
}

func (r *renderer) placeholder() string {
	r.posCounter++
	switch r.style() {
	case StyleDollar:
		return "$" + itoa(r.posCounter)
	default:
		return "?"
	}
}

func (r *renderer) style() PlaceholderStyle {
	switch r.dialect {
	case "postgres":
		return StyleDollar
	default:
		return StylePositional
	}
}

func itoa(n int) string {
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

func (r *renderer) render(c chunk) {
	switch c.kind {
	case chunkRaw:
		r.emit(c.text)
	case chunkParam:
		r.emit(r.placeholder())
		r.params = append(r.params, c.val)
	case chunkPlaceholder:
		if r.dialect == "sqlite" && c.name != "" {
			r.emit(":" + c.name)
		} else {
			r.emit(r.placeholder())
		}
		if c.bound {
			r.params = append(r.params, c.val)
		}
	case chunkTable:
		r.emit(r.quoteTbl(c.text))
	case chunkColumn:
		r.emit(r.quoteCol(c.tbl, c.text))
	case chunkAlias:
		r.renderFragment(c.inner)
		r.emit("AS")
		r.emit(r.quoteTbl(c.text))
	case chunkSubquery:
		r.sb.WriteString(" (")
		inner := newRenderer(r.dialect, r.quoteTbl, r.quoteCol)
		inner.posCounter = r.posCounter
		inner.renderFragment(c.inner)
		r.sb.WriteString(strings.TrimSpace(inner.sb.String()))
		r.sb.WriteString(")")
		r.params = append(r.params, inner.params...)
		r.posCounter = inner.posCounter
	case chunkNested:
		r.renderFragment(c.inner)
	}
}

func (r *renderer) renderFragment(f *Fragment) {
	if f == nil {
		return
	}
	for _, c := range f.chunks {
		r.render(c)
	}
}

// quoteIdentDouble quotes an identifier with double quotes, doubling
// any embedded quote (SQLite and PostgreSQL style, §4.B).
func quoteIdentDouble(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// quoteIdentBacktick quotes an identifier with backticks (MySQL style,
// §4.B).
func quoteIdentBacktick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

func quoteTableFor(dialectName string) func(string) string {
	if dialectName == "mysql" {
		return quoteIdentBacktick
	}
	return quoteIdentDouble
}

func quoteColumnFor(dialectName string) func(string, string) string {
	quote := quoteTableFor(dialectName)
	return func(table, col string) string {
		// "*" is the all-columns wildcard, never a quotable identifier
		// (§8 boundary: "SELECT () on an unresolved table renders *").
		if col == "*" {
			if table == "" {
				return "*"
			}
			return quote(table) + ".*"
		}
		if table == "" {
			return quote(col)
		}
		return quote(table) + "." + quote(col)
	}
}

// SQL renders f to dialect text only, discarding parameters. It exists
// for diagnostics; Build is the normal entry point (§4.B sql()).
func (f *Fragment) SQL(dialectName string) string {
	sqlText, _ := f.Build(dialectName)
	return sqlText
}

// Params returns the parameter values in depth-first traversal order,
// ignoring unbound named placeholders (§4.B params()).
func (f *Fragment) Params(dialectName string) []value.Value {
	_, params := f.Build(dialectName)
	return params
}

// Build renders f in one pass, returning the dialect text and the
// bound parameter values in depth-first order (§4.B build()).
func (f *Fragment) Build(dialectName string) (string, []value.Value) {
	r := newRenderer(dialectName, quoteTableFor(dialectName), quoteColumnFor(dialectName))
	r.renderFragment(f)
	return strings.TrimSpace(r.sb.String()), r.params
}

// Bind returns a copy of f with every placeholder chunk named in
// values bound to its value, so Params/Build include it. Placeholders
// not present in values remain unbound and are skipped by Params,
// matching §4.B.
func (f *Fragment) Bind(values map[string]value.Value) *Fragment {
	out := &Fragment{chunks: make([]chunk, len(f.chunks))}
	for i, c := range f.chunks {
		if c.kind == chunkPlaceholder {
			if v, ok := values[c.name]; ok {
				c.val = v
				c.bound = true
			}
		}
		if c.kind == chunkAlias || c.kind == chunkSubquery || c.kind == chunkNested {
			c.inner = c.inner.Bind(values)
		}
		out.chunks[i] = c
	}
	return out
}

// Len reports the number of top-level chunks, mainly useful for tests.
func (f *Fragment) Len() int { return len(f.chunks) }
