package migrate

import (
	"context"
	"strings"

	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/driverfacade"
	"github.com/drizzle-go/drizzle/render"
)

// ledgerRow mirrors one row of __drizzle_migrations.
type ledgerRow struct {
	Hash string `db:"hash"`
}

// AppliedHashes reads every hash already recorded in the migration
// ledger, in application order (§4.I migrate step 2).
func AppliedHashes(ctx context.Context, db *driverfacade.DB) ([]string, error) {
	p := &render.Prepared{Dialect: db.Dialect(), SQL: "SELECT hash FROM __drizzle_migrations ORDER BY id;"}
	rows, err := driverfacade.All[ledgerRow](ctx, db, p)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Hash
	}
	return out, nil
}

// EnsureLedger creates the __drizzle_migrations table if it is not
// already present (§4.I migrate step 1).
func EnsureLedger(ctx context.Context, db *driverfacade.DB) error {
	p := &render.Prepared{Dialect: db.Dialect(), SQL: CreateLedgerSQL(db.Dialect())}
	_, err := db.Execute(ctx, p)
	return err
}

// Pending returns the journal entries not yet present in applied,
// preserving declared (journal) order (§4.I migrate step 3).
func Pending(j *Journal, applied []string) []*JournalEntry {
	appliedSet := make(map[string]bool, len(applied))
	for _, h := range applied {
		appliedSet[h] = true
	}
	var out []*JournalEntry
	for _, e := range j.Entries {
		if !appliedSet[e.Hash] {
			out = append(out, e)
		}
	}
	return out
}

// NowFunc supplies the applied-ledger row's created_at timestamp.
// Migrate never reads the clock itself; callers inject it (mirrors
// migrate/generate.go's TimestampSeconds convention).
type NowFunc func() int64

// Migrate runs every pending migration from j against db, one
// transaction per migration: each statement (split on the
// --> statement-breakpoint marker) executes in order, then the ledger
// row is inserted; any failure rolls back that migration and migration
// only, and Migrate stops and reports which one failed (§4.I migrate
// flow, §5 "the migrator applies migrations in strict journal order").
// Running Migrate again with nothing new to apply leaves both the
// ledger and the database unchanged (§8 "The migrator is idempotent").
func Migrate(ctx context.Context, db *driverfacade.DB, j *Journal, now NowFunc) ([]*JournalEntry, error) {
	if err := EnsureLedger(ctx, db); err != nil {
		return nil, drizzle.NewMigrationError("", "create migration ledger", err)
	}
	applied, err := AppliedHashes(ctx, db)
	if err != nil {
		return nil, drizzle.NewMigrationError("", "read applied migrations", err)
	}
	pending := Pending(j, applied)

	var ran []*JournalEntry
	for _, entry := range pending {
		sqlText, err := j.MigrationSQL(entry)
		if err != nil {
			return ran, err
		}
		if err := applyOne(ctx, db, entry, sqlText, now()); err != nil {
			return ran, drizzle.NewMigrationError(entry.Tag, "apply migration", err)
		}
		ran = append(ran, entry)
	}
	return ran, nil
}

func applyOne(ctx context.Context, db *driverfacade.DB, entry *JournalEntry, sqlText string, createdAt int64) error {
	return db.Transaction(ctx, driverfacade.TxOptions{}, func(ctx context.Context, tx *driverfacade.Tx) error {
		for _, stmt := range splitStatements(sqlText) {
			if stmt == "" {
				continue
			}
			if _, err := tx.Execute(ctx, &render.Prepared{Dialect: tx.Dialect(), SQL: stmt}); err != nil {
				return err
			}
		}
		insert := &render.Prepared{
			Dialect: tx.Dialect(),
			SQL:     insertLedgerSQL(tx.Dialect(), entry.Hash, createdAt),
		}
		_, err := tx.Execute(ctx, insert)
		return err
	})
}

// splitStatements breaks sqlText into individual statements. Each
// statement Emit produces is a single line, so splitting first on the
// breakpoint marker (when present) and then on newlines recovers the
// original statement list regardless of whether GenerateOptions.Breakpoints
// was set (§4.I migrate step 4 "split by --> statement-breakpoint when
// present").
func splitStatements(sqlText string) []string {
	var out []string
	for _, chunk := range strings.Split(sqlText, Breakpoint) {
		for _, line := range strings.Split(chunk, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func insertLedgerSQL(dialectName string, hash string, createdAt int64) string {
	return "INSERT INTO " + quote(dialectName, "__drizzle_migrations") +
		" (" + quote(dialectName, "hash") + ", " + quote(dialectName, "created_at") + ") VALUES (" +
		sqlLiteral(dialectName, nil, hash) + ", " + sqlLiteral(dialectName, nil, createdAt) + ");"
}
