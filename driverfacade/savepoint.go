package driverfacade

import (
	"context"
	"fmt"

	"github.com/drizzle-go/drizzle"
)

// Savepointer is implemented by dialect/sql.Tx. Tx.Savepoint type-
// asserts to it rather than widening the dialect.Tx interface, since
// savepoints are a SQL-specific, not a general, transaction concept
// (§4.F "Savepoints").
type Savepointer interface {
	Savepoint(ctx context.Context, name string) error
	RollbackTo(ctx context.Context, name string) error
	ReleaseSavepoint(ctx context.Context, name string) error
}

// Savepoint creates a nested savepoint named "drizzle_sp_<depth>" and
// runs fn inside it. A fn error (or panic) rolls back to the
// savepoint, leaving the enclosing transaction (and any savepoints
// above this one) untouched; success releases it (§4.F, §8 scenario
// 3 "savepoint rollback preserves outer transaction state").
func (t *Tx) Savepoint(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) (err error) {
	sp, ok := t.tx.(Savepointer)
	if !ok {
		return drizzle.NewExecutionError("SAVEPOINT", nil, fmt.Errorf("driverfacade: underlying transaction does not support savepoints"))
	}
	t.depth++
	name := savepointName(t.depth)
	nested := &Tx{tx: t.tx, depth: t.depth}

	if err = sp.Savepoint(ctx, name); err != nil {
		t.depth--
		return drizzle.NewExecutionError("SAVEPOINT "+name, nil, err)
	}

	defer func() {
		t.depth--
		if p := recover(); p != nil {
			_ = sp.RollbackTo(ctx, name)
			panic(p)
		}
	}()

	if err = fn(ctx, nested); err != nil {
		if rerr := sp.RollbackTo(ctx, name); rerr != nil {
			return drizzle.NewAggregateError(err, rerr)
		}
		return err
	}
	if rerr := sp.ReleaseSavepoint(ctx, name); rerr != nil {
		return drizzle.NewExecutionError("RELEASE SAVEPOINT "+name, nil, rerr)
	}
	return nil
}

func savepointName(depth int) string {
	return fmt.Sprintf("drizzle_sp_%d", depth)
}
