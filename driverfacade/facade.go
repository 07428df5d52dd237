// Package driverfacade implements the uniform execute/all/get/
// transaction/savepoint contract over a dialect.Driver, plus row-to-
// struct decoding (§4.F of the design). It is the one place that
// actually talks to database/sql through the dialect/sql adapter;
// every other package only ever produces rendered SQL and parameters.
package driverfacade

import (
	"context"
	"sync/atomic"

	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/dialect"
	dsql "github.com/drizzle-go/drizzle/dialect/sql"
	"github.com/drizzle-go/drizzle/render"
	"github.com/drizzle-go/drizzle/value"
)

// handle is the shared, reference-counted driver handle (§5 "the
// driver handle is reference-counted; mutable access is gated by the
// unique-ownership check").
type handle struct {
	drv  dialect.Driver
	refs int32 // 0 means uniquely owned by the single DB that holds it
}

// DB is the driver façade: Clone-able, Exec/Query-capable, and able to
// start transactions when uniquely owned (§4.F, §5).
type DB struct {
	h *handle
}

// New wraps drv in a façade with a single owner.
func New(drv dialect.Driver) *DB {
	return &DB{h: &handle{drv: drv}}
}

// Clone returns a new DB sharing the same underlying driver handle,
// marking it non-uniquely-owned (§5 "Shared resources"). Starting a
// transaction on either clone fails until every clone is dropped by
// being garbage collected is not observable in Go, so Clone instead
// requires an explicit Release to give up its share (see Release).
func (d *DB) Clone() *DB {
	atomic.AddInt32(&d.h.refs, 1)
	return &DB{h: d.h}
}

// Release gives up this DB's share of a cloned handle. Calling it on
// the original, never-cloned DB is a no-op.
func (d *DB) Release() {
	if atomic.LoadInt32(&d.h.refs) > 0 {
		atomic.AddInt32(&d.h.refs, -1)
	}
}

// Dialect returns the underlying driver's dialect name.
func (d *DB) Dialect() string { return d.h.drv.Dialect() }

// Close closes the underlying driver.
func (d *DB) Close() error { return d.h.drv.Close() }

// Execute runs p and returns the number of rows affected (§4.F
// "execute(query) → rows-affected count").
func (d *DB) Execute(ctx context.Context, p *render.Prepared) (int64, error) {
	return execute(ctx, d.h.drv, p)
}

func execute(ctx context.Context, ex dialect.ExecQuerier, p *render.Prepared) (int64, error) {
	args, err := positionalArgs(p)
	if err != nil {
		return 0, err
	}
	var res dsql.Result
	if err := ex.Exec(ctx, p.SQL, args, &res); err != nil {
		return 0, drizzle.NewExecutionError(p.SQL, args, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, drizzle.NewExecutionError(p.SQL, args, err)
	}
	return n, nil
}

// All runs p and decodes every row into a T using Decode (§4.F
// "all(query) → collection of user rows").
func All[T any](ctx context.Context, d *DB, p *render.Prepared) ([]T, error) {
	return all[T](ctx, d.h.drv, p)
}

func all[T any](ctx context.Context, ex dialect.ExecQuerier, p *render.Prepared) ([]T, error) {
	args, err := positionalArgs(p)
	if err != nil {
		return nil, err
	}
	var rows dsql.Rows
	if err := ex.Query(ctx, p.SQL, args, &rows); err != nil {
		return nil, drizzle.NewExecutionError(p.SQL, args, err)
	}
	defer rows.Close()
	out, err := DecodeAll[T](rows)
	if err != nil {
		return nil, err
	}
	return out, rows.Err()
}

// Get runs p and decodes exactly one row into a T, failing with
// ErrNotFound when the result set is empty (§4.F "get(query) → exactly
// one row, otherwise a NotFound error").
func Get[T any](ctx context.Context, d *DB, p *render.Prepared) (T, error) {
	return get[T](ctx, d.h.drv, p)
}

func get[T any](ctx context.Context, ex dialect.ExecQuerier, p *render.Prepared) (T, error) {
	rows, err := all[T](ctx, ex, p)
	var zero T
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, drizzle.ErrNotFound
	}
	return rows[0], nil
}

// positionalArgs resolves p's already-bound parameters into a []any
// for database/sql. It fails if any parameter is still an unbound
// named placeholder (§4.E Binding: positional params must be resolved
// before Exec/Query).
func positionalArgs(p *render.Prepared) ([]any, error) {
	args := make([]any, 0, len(p.Params))
	for _, prm := range p.Params {
		if !prm.Bound {
			return nil, drizzle.NewParameterError("missing", prm.Name)
		}
		args = append(args, toDriverArg(prm.Value))
	}
	return args, nil
}

// toDriverArg converts a value.Value to whatever database/sql driver
// argument best represents it, encoding Bool as 0/1 for dialects
// without a native boolean (§3 Value invariant, §4.F row decoding
// contract describes the reverse direction).
func toDriverArg(v value.Value) any {
	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindBool:
		b, _ := v.Boolean()
		if v.Dialect() == dialect.Postgres {
			return b
		}
		if b {
			return int64(1)
		}
		return int64(0)
	case value.KindInt:
		n, _ := v.Int64()
		return n
	case value.KindReal:
		f, _ := v.Float64()
		return f
	case value.KindText:
		s, _ := v.String()
		return s
	case value.KindBlob:
		b, _ := v.Bytes()
		return b
	case value.KindTime:
		t, _ := v.TimeValue()
		return t
	default:
		return v.Literal()
	}
}
