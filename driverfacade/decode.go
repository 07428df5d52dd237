package driverfacade

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/drizzle-go/drizzle"
	dsql "github.com/drizzle-go/drizzle/dialect/sql"
)

// DecodeAll scans every row of rows into a freshly allocated T, matching
// result columns to struct fields by `db:"..."` tag or, absent a tag,
// the field's lower-cased name (§4.F row decoding contract: "decode by
// column name"). T must be a struct or a pointer to one.
func DecodeAll[T any](rows *dsql.Rows) ([]T, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, drizzle.NewConversionError("rows", "columns", err)
	}
	var zero T
	rt, ptr := structType(reflect.TypeOf(zero))
	plan, err := planColumns(rt, cols)
	if err != nil {
		return nil, err
	}

	var out []T
	for rows.Next() {
		dest := make([]any, len(cols))
		holder := reflect.New(rt).Elem()
		for i, idx := range plan {
			if idx < 0 {
				var discard any
				dest[i] = &discard
				continue
			}
			dest[i] = holder.Field(idx).Addr().Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, drizzle.NewConversionError("row", rt.Name(), err)
		}
		out = append(out, asT[T](holder, ptr))
	}
	return out, nil
}

// structType unwraps a single level of pointer indirection, reporting
// whether T itself was a pointer type.
func structType(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Ptr {
		return t.Elem(), true
	}
	return t, false
}

func asT[T any](v reflect.Value, ptr bool) T {
	if ptr {
		return reflect.ValueOf(v.Addr().Interface()).Interface().(T)
	}
	return v.Interface().(T)
}

// planColumns maps each result column to a struct field index, or -1
// when the column has no matching field (it is scanned into a
// discarded any, matching §4.F's "extra result columns are ignored").
func planColumns(rt reflect.Type, cols []string) ([]int, error) {
	if rt.Kind() != reflect.Struct {
		return nil, drizzle.NewConversionError("rows", rt.String(), fmt.Errorf("decode target must be a struct, got %s", rt.Kind()))
	}
	byName := make(map[string]int, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get("db")
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		if name == "-" {
			continue
		}
		byName[name] = i
	}
	plan := make([]int, len(cols))
	for i, c := range cols {
		idx, ok := byName[strings.ToLower(c)]
		if !ok {
			plan[i] = -1
			continue
		}
		plan[i] = idx
	}
	return plan, nil
}

// scanTime converts a scanned column value to time.Time when the column
// holds a SQLite/MySQL RFC 3339 text or Unix-seconds integer timestamp
// rather than a native one.
func scanTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		return time.Parse(time.RFC3339Nano, x)
	case int64:
		return time.Unix(x, 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("driverfacade: cannot scan %T into time.Time", v)
	}
}
