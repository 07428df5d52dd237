package driverfacade

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/dialect"
	dsql "github.com/drizzle-go/drizzle/dialect/sql"
	"github.com/drizzle-go/drizzle/render"
	"github.com/drizzle-go/drizzle/sqlfrag"
	"github.com/drizzle-go/drizzle/value"
)

type user struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func TestExecute(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	facade := New(dsql.OpenDB(dialect.SQLite, db))
	mock.ExpectExec(`UPDATE "users" SET "name" = \?`).WithArgs("Bob").WillReturnResult(sqlmock.NewResult(0, 1))

	f := sqlfrag.Raw(`UPDATE "users" SET "name" =`).Append(sqlfrag.Param(value.Text("Bob", dialect.SQLite)))
	p := render.Render(f, dialect.SQLite)

	n, err := facade.Execute(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllDecodesRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	facade := New(dsql.OpenDB(dialect.SQLite, db))
	mock.ExpectQuery(`SELECT "id", "name" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Alice").AddRow(2, "Bob"))

	p := render.Render(sqlfrag.Raw(`SELECT "id", "name" FROM "users"`), dialect.SQLite)
	users, err := All[user](context.Background(), facade, p)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, int64(2), users[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	facade := New(dsql.OpenDB(dialect.SQLite, db))
	mock.ExpectQuery(`SELECT "id", "name" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	p := render.Render(sqlfrag.Raw(`SELECT "id", "name" FROM "users"`), dialect.SQLite)
	_, err = Get[user](context.Background(), facade, p)
	require.ErrorIs(t, err, drizzle.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloneBlocksTransaction(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	facade := New(dsql.OpenDB(dialect.SQLite, db))
	clone := facade.Clone()
	defer clone.Release()

	err = facade.Transaction(context.Background(), TxOptions{}, func(ctx context.Context, tx *Tx) error {
		return nil
	})
	require.ErrorIs(t, err, drizzle.ErrTxStarted)
}
