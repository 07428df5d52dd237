package driverfacade

import (
	"context"
	"database/sql"

	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/dialect"
	dsql "github.com/drizzle-go/drizzle/dialect/sql"
	"github.com/drizzle-go/drizzle/render"
)

// IsolationLevel names a transaction isolation level. Not every
// dialect accepts every level; Tx translates the common ones and lets
// the driver reject the rest (§4.F transactions).
type IsolationLevel int

const (
	// LevelDefault lets the driver/dialect pick its default level.
	LevelDefault IsolationLevel = iota
	// LevelReadCommitted is accepted by PostgreSQL and MySQL.
	LevelReadCommitted
	// LevelRepeatableRead is accepted by PostgreSQL and MySQL.
	LevelRepeatableRead
	// LevelSerializable is accepted by PostgreSQL and SQLite.
	LevelSerializable
	// LevelDeferred, LevelImmediate and LevelExclusive are SQLite's
	// three BEGIN modes. modernc.org/sqlite keys BEGIN IMMEDIATE/EXCLUSIVE
	// off a driver-specific sql.IsolationLevel value rather than the
	// standard SQL ones, so these map to that convention instead of
	// LevelSerializable.
	LevelDeferred
	LevelImmediate
	LevelExclusive
)

// TxOptions configures a Tx started by DB.Transaction.
type TxOptions struct {
	Isolation IsolationLevel
	ReadOnly  bool
}

func (o TxOptions) toDriver() *dsql.TxOptions {
	iso, ok := sqlIsolation(o.Isolation)
	if !ok && !o.ReadOnly {
		return nil
	}
	return &dsql.TxOptions{Isolation: iso, ReadOnly: o.ReadOnly}
}

// sqliteImmediate and sqliteExclusive are the non-standard
// sql.IsolationLevel values modernc.org/sqlite recognizes for BEGIN
// IMMEDIATE and BEGIN EXCLUSIVE, respectively.
const (
	sqliteImmediate = sql.IsolationLevel(2)
	sqliteExclusive = sql.IsolationLevel(3)
)

func sqlIsolation(l IsolationLevel) (sql.IsolationLevel, bool) {
	switch l {
	case LevelReadCommitted:
		return sql.LevelReadCommitted, true
	case LevelRepeatableRead:
		return sql.LevelRepeatableRead, true
	case LevelSerializable:
		return sql.LevelSerializable, true
	case LevelDeferred:
		return sql.LevelDefault, true
	case LevelImmediate:
		return sqliteImmediate, true
	case LevelExclusive:
		return sqliteExclusive, true
	default:
		return sql.LevelDefault, false
	}
}

// txBeginner is implemented by dialect/sql.Driver; driverfacade uses it
// when available to pass isolation options through to database/sql,
// falling back to the plain dialect.Driver.Tx(ctx) otherwise.
type txBeginner interface {
	BeginTx(ctx context.Context, opts *dsql.TxOptions) (dialect.Tx, error)
}

// Tx is a façade transaction handle: it runs statements (Execute,
// TxAll, TxGet) and opens nested savepoints (Savepoint). Commit and
// rollback are done by DB.Transaction according to fn's result.
type Tx struct {
	tx    dialect.Tx
	depth int // current savepoint nesting depth, 0 = no open savepoint
}

// Transaction starts a transaction on d and runs fn with it. fn's
// returned error (or a panic) rolls the transaction back; otherwise
// it is committed. Starting a transaction on a non-uniquely-owned
// handle fails with ErrTxStarted (§5 "Shared resources").
func (d *DB) Transaction(ctx context.Context, opts TxOptions, fn func(ctx context.Context, tx *Tx) error) (err error) {
	if d.h.refs > 0 {
		return drizzle.ErrTxStarted
	}
	var dtx dialect.Tx
	if b, ok := d.h.drv.(txBeginner); ok {
		dtx, err = b.BeginTx(ctx, opts.toDriver())
	} else {
		dtx, err = d.h.drv.Tx(ctx)
	}
	if err != nil {
		return drizzle.NewExecutionError("BEGIN", nil, err)
	}
	tx := &Tx{tx: dtx}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rerr := tx.tx.Rollback(); rerr != nil {
			return drizzle.NewAggregateError(err, rerr)
		}
		return err
	}
	if cerr := tx.tx.Commit(); cerr != nil {
		return drizzle.NewExecutionError("COMMIT", nil, cerr)
	}
	return nil
}

// Dialect returns the transaction's dialect name.
func (t *Tx) Dialect() string { return t.tx.Dialect() }

// Execute runs p inside the transaction (see DB.Execute).
func (t *Tx) Execute(ctx context.Context, p *render.Prepared) (int64, error) {
	return execute(ctx, t.tx, p)
}

// TxAll runs p inside the transaction and decodes every row into a T.
func TxAll[T any](ctx context.Context, t *Tx, p *render.Prepared) ([]T, error) {
	return all[T](ctx, t.tx, p)
}

// TxGet runs p inside the transaction and decodes exactly one row.
func TxGet[T any](ctx context.Context, t *Tx, p *render.Prepared) (T, error) {
	return get[T](ctx, t.tx, p)
}
