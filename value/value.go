// Package value implements the dialect-tagged SQL scalar sum type (§4.A
// of the design): the one place every other package in this module goes
// to turn a host Go value into something that can sit inside a SQL
// fragment, and back again.
package value

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/drizzle-go/drizzle/dialect"
)

// Kind discriminates the variant held by a Value. Exactly one Kind is
// ever set; Null is a distinct Kind, not a wrapped absence of one of
// the others (§3 Value invariant).
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindReal
	KindText
	KindBlob
	KindBool
	KindTime
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is the dialect-tagged SQL scalar sum type. Every variant
// carries an explicit SQL type tag (Kind); Array is PostgreSQL-only
// (§3 Value).
type Value struct {
	kind    Kind
	dialect string

	i   int64
	f   float64
	s   string
	b   []byte
	bln bool
	t   time.Time
	arr []Value
}

// Dialect reports which dialect this value was constructed for. The
// zero value ("") means dialect-agnostic: it is accepted by any
// renderer except for Array values, which are always PostgreSQL-tagged.
func (v Value) Dialect() string { return v.dialect }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds the Null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Null returns the distinct null Value for the given dialect.
func Null(d string) Value { return Value{kind: KindNull, dialect: d} }

// Int returns an integer Value (64-bit signed, §3 Value).
func Int(n int64, d string) Value { return Value{kind: KindInt, i: n, dialect: d} }

// Real returns a floating point Value (double, §3 Value).
func Real(f float64, d string) Value { return Value{kind: KindReal, f: f, dialect: d} }

// Text returns a text Value.
func Text(s string, d string) Value { return Value{kind: KindText, s: s, dialect: d} }

// Blob returns a binary blob Value.
func Blob(b []byte, d string) Value { return Value{kind: KindBlob, b: b, dialect: d} }

// Bool returns a boolean Value. Dialects without a native boolean type
// (SQLite, MySQL) encode it as an integer at render time (§3 Value);
// the Value itself still carries KindBool so the renderer knows to do
// that translation.
func Bool(b bool, d string) Value { return Value{kind: KindBool, bln: b, dialect: d} }

// Time returns a timestamp Value. Timestamps are optional at the
// schema level but, once present, are always represented with this
// variant (§3 Value "optional timestamp").
func Time(t time.Time, d string) Value { return Value{kind: KindTime, t: t, dialect: d} }

// Array returns an array Value. Arrays are PostgreSQL-only (§3 Value);
// constructing one for any other dialect returns an error instead of a
// panic, since the caller controls the dialect string at runtime.
func Array(elems []Value, d string) (Value, error) {
	if d != dialect.Postgres {
		return Value{}, fmt.Errorf("value: array values are PostgreSQL-only, got dialect %q", d)
	}
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{kind: KindArray, arr: cp, dialect: d}, nil
}

// From constructs a Value from a host Go value for the given dialect.
// Conversion is total: every supported host type maps to exactly one
// variant, and an unsupported type still produces a Value (least
// surprising: a text Value via fmt.Sprintf) rather than an error,
// since From is the host→value direction described in §4.A as total.
func From(v any, d string) Value {
	switch x := v.(type) {
	case nil:
		return Null(d)
	case Value:
		return x
	case int:
		return Int(int64(x), d)
	case int8:
		return Int(int64(x), d)
	case int16:
		return Int(int64(x), d)
	case int32:
		return Int(int64(x), d)
	case int64:
		return Int(x, d)
	case uint:
		return Int(int64(x), d)
	case uint8:
		return Int(int64(x), d)
	case uint16:
		return Int(int64(x), d)
	case uint32:
		return Int(int64(x), d)
	case uint64:
		return Int(int64(x), d)
	case float32:
		return Real(float64(x), d)
	case float64:
		return Real(x, d)
	case string:
		return Text(x, d)
	case []byte:
		return Blob(x, d)
	case bool:
		return Bool(x, d)
	case time.Time:
		return Time(x, d)
	case uuid.UUID:
		return Text(x.String(), d)
	case fmt.Stringer:
		return Text(x.String(), d)
	default:
		return Text(fmt.Sprintf("%v", x), d)
	}
}

// Int64 converts v to an int64, failing when v is not numeric or when
// a real value cannot be narrowed without loss (§4.A conversion error).
func (v Value) Int64() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindReal:
		if v.f != math.Trunc(v.f) {
			return 0, fmt.Errorf("value: cannot narrow real %v to int64 without loss", v.f)
		}
		return int64(v.f), nil
	case KindBool:
		if v.bln {
			return 1, nil
		}
		return 0, nil
	case KindText:
		var n int64
		if _, err := fmt.Sscanf(v.s, "%d", &n); err != nil {
			return 0, fmt.Errorf("value: cannot convert text %q to int64: %w", v.s, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("value: cannot convert %s to int64", v.kind)
	}
}

// Int32 narrows v to an int32, failing on overflow (§4.A: "i64 → i32
// overflow" is the canonical example of a lossy conversion).
func (v Value) Int32() (int32, error) {
	n, err := v.Int64()
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, fmt.Errorf("value: int64 %d overflows int32", n)
	}
	return int32(n), nil
}

// Float64 converts v to a float64.
func (v Value) Float64() (float64, error) {
	switch v.kind {
	case KindReal:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	default:
		return 0, fmt.Errorf("value: cannot convert %s to float64", v.kind)
	}
}

// String converts v to a string, failing for Null (the caller should
// check IsNull first; String does not silently render "").
func (v Value) String() (string, error) {
	switch v.kind {
	case KindText:
		return v.s, nil
	case KindInt:
		return fmt.Sprintf("%d", v.i), nil
	case KindReal:
		return fmt.Sprintf("%v", v.f), nil
	case KindBool:
		if v.bln {
			return "true", nil
		}
		return "false", nil
	case KindTime:
		return v.t.Format(time.RFC3339Nano), nil
	default:
		return "", fmt.Errorf("value: cannot convert %s to string", v.kind)
	}
}

// Bytes converts v to a []byte (blob passthrough, or the UTF-8 bytes of
// a text value).
func (v Value) Bytes() ([]byte, error) {
	switch v.kind {
	case KindBlob:
		return v.b, nil
	case KindText:
		return []byte(v.s), nil
	default:
		return nil, fmt.Errorf("value: cannot convert %s to bytes", v.kind)
	}
}

// Boolean converts v to a bool. Dialects without a native boolean type
// store it as 0/1 integers; Boolean accepts that encoding back.
func (v Value) Boolean() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.bln, nil
	case KindInt:
		return v.i != 0, nil
	default:
		return false, fmt.Errorf("value: cannot convert %s to bool", v.kind)
	}
}

// TimeValue converts v to a time.Time.
func (v Value) TimeValue() (time.Time, error) {
	switch v.kind {
	case KindTime:
		return v.t, nil
	case KindText:
		t, err := time.Parse(time.RFC3339Nano, v.s)
		if err != nil {
			return time.Time{}, fmt.Errorf("value: cannot convert text %q to time: %w", v.s, err)
		}
		return t, nil
	case KindInt:
		return time.Unix(v.i, 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("value: cannot convert %s to time", v.kind)
	}
}

// Elems returns the elements of an Array value.
func (v Value) Elems() ([]Value, error) {
	if v.kind != KindArray {
		return nil, fmt.Errorf("value: cannot convert %s to array", v.kind)
	}
	return v.arr, nil
}

// Literal renders v as a SQL literal for internal pretty-printing only
// (§4.A "render-literal (for internal pretty-printing only)"); it is
// never used to build executable SQL text, which always goes through a
// placeholder instead.
func (v Value) Literal() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindReal:
		return fmt.Sprintf("%v", v.f)
	case KindText:
		return fmt.Sprintf("%q", v.s)
	case KindBlob:
		return fmt.Sprintf("x'%x'", v.b)
	case KindBool:
		if v.bln {
			return "TRUE"
		}
		return "FALSE"
	case KindTime:
		return fmt.Sprintf("%q", v.t.Format(time.RFC3339Nano))
	case KindArray:
		out := "{"
		for i, e := range v.arr {
			if i > 0 {
				out += ", "
			}
			out += e.Literal()
		}
		return out + "}"
	default:
		return "?"
	}
}

// WithDialect returns a copy of v tagged for dialect d, used when a
// value constructed with no dialect opinion (e.g. via From with d="")
// is adopted into a dialect-specific fragment.
func (v Value) WithDialect(d string) Value {
	v.dialect = d
	return v
}
