package migrate

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/drizzle-go/drizzle/dialect"
	dsql "github.com/drizzle-go/drizzle/dialect/sql"
	"github.com/drizzle-go/drizzle/driverfacade"
)

func TestMigrateAppliesPendingInJournalOrder(t *testing.T) {
	sdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sdb.Close()

	facade := driverfacade.New(dsql.OpenDB(dialect.SQLite, sdb))

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "__drizzle_migrations"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT hash FROM __drizzle_migrations ORDER BY id;`).WillReturnRows(sqlmock.NewRows([]string{"hash"}))

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "__drizzle_migrations"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	j := &Journal{Entries: []*JournalEntry{{Idx: 0, Tag: "0000_quick_river", Hash: "abc"}}}
	// MigrationSQL reads from disk; point the journal at a temp dir with
	// the migration file already in place.
	dir := t.TempDir()
	j.Dir = dir
	require.NoError(t, writeMigrationFixture(dir, j.Entries[0], `CREATE TABLE "users" ("id" INTEGER PRIMARY KEY);`))

	ran, err := Migrate(context.Background(), facade, j, func() int64 { return 1700000000 })
	require.NoError(t, err)
	require.Len(t, ran, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func writeMigrationFixture(dir string, entry *JournalEntry, sqlText string) error {
	j := &Journal{Dir: dir}
	return j.AppendAndWrite(context.Background(), &JournalEntry{Idx: entry.Idx, Tag: entry.Tag, Hash: entry.Hash}, sqlText, empty("sqlite"))
}
