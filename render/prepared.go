// Package render turns a sqlfrag.Fragment into a dialect-specific
// Prepared statement: text segments, a parameter list, and the fully
// rendered SQL string, in one pre-render pass (§4.E of the design).
package render

import (
	"strings"

	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/dialect"
	"github.com/drizzle-go/drizzle/sqlfrag"
	"github.com/drizzle-go/drizzle/value"
)

// Param is one parameter slot in a Prepared statement: either a value
// already baked in by the builder, or an unbound named placeholder
// waiting for Bind (§4.E Parameters).
type Param struct {
	Name  string // empty for a positional (builder-baked) parameter
	Value value.Value
	Bound bool
}

// Prepared is the product of one pre-render pass over a Fragment
// (§4.E): text segments of length len(Params)+1, the parameter list,
// and the fully rendered SQL with dialect-appropriate placeholders
// interleaved.
type Prepared struct {
	Dialect  string
	Segments []string
	Params   []Param
	SQL      string
}

// Render pre-renders f for dialectName in one pass, producing a
// Prepared statement (§4.E).
func Render(f *sqlfrag.Fragment, dialectName string) *Prepared {
	sqlText, vals := f.Build(dialectName)
	segments, params := splitOnPlaceholders(sqlText, dialectName)
	for i := range params {
		if i < len(vals) {
			params[i].Value = vals[i]
			params[i].Bound = true
		}
	}
	return &Prepared{Dialect: dialectName, Segments: segments, Params: params, SQL: sqlText}
}

// splitOnPlaceholders walks the rendered SQL text and splits it at
// each placeholder mark, returning N+1 segments for N parameters
// (§4.E "Text segments").
func splitOnPlaceholders(sqlText, dialectName string) ([]string, []Param) {
	var segments []string
	var params []Param
	var cur strings.Builder
	runes := []rune(sqlText)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '?':
			segments = append(segments, cur.String())
			cur.Reset()
			params = append(params, Param{})
		case ch == '$' && i+1 < len(runes) && isDigit(runes[i+1]):
			j := i + 1
			for j < len(runes) && isDigit(runes[j]) {
				j++
			}
			segments = append(segments, cur.String())
			cur.Reset()
			params = append(params, Param{})
			i = j - 1
		case ch == ':' && i+1 < len(runes) && isIdentStart(runes[i+1]):
			j := i + 1
			for j < len(runes) && isIdentRune(runes[j]) {
				j++
			}
			name := string(runes[i+1 : j])
			segments = append(segments, cur.String())
			cur.Reset()
			params = append(params, Param{Name: name})
			i = j - 1
		default:
			cur.WriteRune(ch)
		}
	}
	segments = append(segments, cur.String())
	return segments, params
}

func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isIdentStart(r rune) bool { return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isIdentRune(r rune) bool  { return isIdentStart(r) || isDigit(r) }

// Bind resolves p's unbound named placeholders against values and
// returns the full ordered parameter list for execution (§4.E Binding).
// It fails with a ParameterError when values does not cover exactly
// the set of unbound named placeholders.
func (p *Prepared) Bind(values map[string]value.Value) ([]value.Value, error) {
	needed := make(map[string]struct{})
	for _, prm := range p.Params {
		if !prm.Bound && prm.Name != "" {
			needed[prm.Name] = struct{}{}
		}
	}
	for k := range values {
		if _, ok := needed[k]; !ok {
			return nil, drizzle.NewParameterError("unexpected", k)
		}
	}
	out := make([]value.Value, 0, len(p.Params))
	for _, prm := range p.Params {
		switch {
		case prm.Bound:
			out = append(out, prm.Value)
		case prm.Name != "":
			v, ok := values[prm.Name]
			if !ok {
				return nil, drizzle.NewParameterError("missing", prm.Name)
			}
			out = append(out, v)
		default:
			return nil, drizzle.NewParameterError("missing", "")
		}
	}
	return out, nil
}

// BindPositional resolves p's unbound positional placeholders (those
// with no name) against values in order. The count of values must
// equal the count of unbound positional placeholders exactly (§4.E).
func (p *Prepared) BindPositional(values []value.Value) ([]value.Value, error) {
	out := make([]value.Value, 0, len(p.Params))
	idx := 0
	for _, prm := range p.Params {
		switch {
		case prm.Bound:
			out = append(out, prm.Value)
		case prm.Name == "":
			if idx >= len(values) {
				return nil, drizzle.NewParameterError("count", "")
			}
			out = append(out, values[idx])
			idx++
		default:
			return nil, drizzle.NewParameterError("missing", prm.Name)
		}
	}
	if idx != len(values) {
		return nil, drizzle.NewParameterError("count", "")
	}
	return out, nil
}

// QuoteIdent quotes table/column identifiers per dialectName's rule:
// double quotes everywhere except MySQL, which uses backticks (§4.E).
func QuoteIdent(dialectName, ident string) string {
	if dialect.IsMySQL(dialectName) {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
