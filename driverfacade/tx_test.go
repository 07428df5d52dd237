package driverfacade

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/drizzle-go/drizzle/dialect"
	dsql "github.com/drizzle-go/drizzle/dialect/sql"
)

func TestTransactionCommit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	facade := New(dsql.OpenDB(dialect.SQLite, db))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = facade.Transaction(context.Background(), TxOptions{}, func(ctx context.Context, tx *Tx) error {
		return execRaw(ctx, tx, "INSERT INTO users (name) VALUES ('x')")
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	facade := New(dsql.OpenDB(dialect.SQLite, db))
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = facade.Transaction(context.Background(), TxOptions{}, func(ctx context.Context, tx *Tx) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestSavepointRollbackPreservesOuterTransaction exercises the
// savepoint rollback scenario: a failed nested savepoint rolls back to
// itself without aborting the enclosing transaction, which still
// commits its own, earlier statement.
func TestSavepointRollbackPreservesOuterTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	facade := New(dsql.OpenDB(dialect.SQLite, db))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`SAVEPOINT drizzle_sp_1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO users`).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(`ROLLBACK TO SAVEPOINT drizzle_sp_1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	boom := errors.New("duplicate key")
	var spErr error
	err = facade.Transaction(context.Background(), TxOptions{}, func(ctx context.Context, tx *Tx) error {
		if err := execRaw(ctx, tx, "INSERT INTO users (name) VALUES ('outer')"); err != nil {
			return err
		}
		spErr = tx.Savepoint(ctx, func(ctx context.Context, nested *Tx) error {
			if err := execRaw(ctx, nested, "INSERT INTO users (name) VALUES ('inner')"); err != nil {
				return err
			}
			return boom
		})
		return nil
	})
	require.NoError(t, err)
	require.ErrorIs(t, spErr, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func execRaw(ctx context.Context, tx *Tx, query string) error {
	return tx.tx.Exec(ctx, query, []any{}, nil)
}
