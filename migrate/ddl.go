package migrate

import (
	"fmt"
	"strings"

	"github.com/drizzle-go/drizzle/dialect"
	"github.com/drizzle-go/drizzle/render"
	"github.com/drizzle-go/drizzle/schema"
)

// Breakpoint is the literal marker separating statements in a migration
// file when breakpoints are enabled (GLOSSARY "Breakpoint").
const Breakpoint = "--> statement-breakpoint"

// Join concatenates stmts the way the emitter's caller is expected to
// (§4.H "The emitter produces a list of SQL statements; the caller
// joins them with \n--> statement-breakpoint\n when breakpoints are
// enabled, otherwise plain \n").
func Join(stmts []string, breakpoints bool) string {
	if len(stmts) == 0 {
		return ""
	}
	sep := "\n"
	if breakpoints {
		sep = "\n" + Breakpoint + "\n"
	}
	return strings.Join(stmts, sep)
}

// Emit produces the ordered list of SQL statements for d against
// dialectName: enum creations, then created tables (FK-topological
// order), then altered tables, then deleted tables (reverse order).
func Emit(dialectName string, d *Diff) []string {
	canon, _ := dialect.Canonical(dialectName)
	var stmts []string
	for _, e := range d.CreatedEnums {
		stmts = append(stmts, emitCreateEnum(canon, e))
	}
	for _, t := range d.Created {
		stmts = append(stmts, emitCreateTable(canon, t)...)
	}
	for _, alt := range d.Altered {
		stmts = append(stmts, emitAlterTable(canon, alt)...)
	}
	for _, t := range d.Deleted {
		stmts = append(stmts, emitDropTable(canon, t))
	}
	for _, e := range d.DeletedEnums {
		stmts = append(stmts, emitDropEnum(canon, e))
	}
	return stmts
}

func quote(dialectName, ident string) string { return render.QuoteIdent(dialectName, ident) }

func qualify(dialectName string, t *TableSnapshot) string {
	if dialect.IsPostgres(dialectName) && t.Namespace != "" {
		return quote(dialectName, t.Namespace) + "." + quote(dialectName, t.Name)
	}
	return quote(dialectName, t.Name)
}

// emitCreateTable renders CREATE TABLE for t per dialectName's rules
// (§4.H SQLite/PostgreSQL/MySQL sections).
func emitCreateTable(dialectName string, t *TableSnapshot) []string {
	var stmts []string
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (", qualify(dialectName, t))
	var parts []string
	for _, c := range t.Columns {
		parts = append(parts, columnDefinition(dialectName, t, c))
	}
	if len(t.PrimaryKey) > 1 || (len(t.PrimaryKey) == 1 && !dialect.IsSQLite(dialectName)) {
		parts = append(parts, "PRIMARY KEY ("+quoteList(dialectName, t.PrimaryKey)+")")
	}
	for _, c := range t.Columns {
		if c.ForeignKey != nil {
			parts = append(parts, foreignKeyClause(dialectName, t, c))
		}
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString(")")
	if dialect.IsSQLite(dialectName) && t.Strict {
		b.WriteString(" STRICT")
	}
	b.WriteString(";")
	stmts = append(stmts, b.String())
	for _, ix := range t.Indexes {
		stmts = append(stmts, emitCreateIndex(dialectName, t, ix))
	}
	return stmts
}

func columnDefinition(dialectName string, t *TableSnapshot, c *schema.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", quote(dialectName, c.Name), columnType(dialectName, c))
	inlinePK := len(t.PrimaryKey) == 1 && t.PrimaryKey[0] == c.Name && dialect.IsSQLite(dialectName)
	if inlinePK {
		b.WriteString(" PRIMARY KEY")
		if c.AutoIncrement {
			b.WriteString(" AUTOINCREMENT")
		}
	}
	// An SQLite INTEGER PRIMARY KEY is the rowid alias and is never NULL.
	if !c.Nullable && !(inlinePK && columnType(dialectName, c) == "INTEGER") {
		b.WriteString(" NOT NULL")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.Default != nil {
		if lit, ok := defaultLiteral(dialectName, c); ok {
			b.WriteString(" DEFAULT " + lit)
		}
	}
	if c.Check != "" {
		fmt.Fprintf(&b, " CHECK (%s)", c.Check)
	}
	return b.String()
}

// columnType maps a dialect-neutral type tag (migrate/resolve.go's
// typeTag) to the concrete per-dialect SQL type (§4.H per-dialect
// rules).
func columnType(dialectName string, c *schema.Column) string {
	if c.Storage == schema.StorageEnum {
		if dialect.IsPostgres(dialectName) {
			return c.EnumName
		}
		return "TEXT" // SQLite/MySQL: enum is check-constrained text, see Check
	}
	switch {
	case strings.HasPrefix(c.Type, "varchar("):
		if dialect.IsSQLite(dialectName) {
			return "TEXT"
		}
		return strings.ToUpper(c.Type)
	}
	switch c.Type {
	case "int64":
		if c.AutoIncrement {
			if dialect.IsPostgres(dialectName) {
				return "SERIAL"
			}
			if dialect.IsMySQL(dialectName) {
				return "BIGINT AUTO_INCREMENT"
			}
			return "INTEGER" // SQLite: INTEGER PRIMARY KEY is itself the rowid alias
		}
		if dialect.IsPostgres(dialectName) {
			return "BIGINT"
		}
		if dialect.IsMySQL(dialectName) {
			return "BIGINT"
		}
		return "INTEGER"
	case "float64":
		if dialect.IsSQLite(dialectName) {
			return "REAL"
		}
		return "DOUBLE PRECISION"
	case "text":
		if dialect.IsMySQL(dialectName) {
			return "TEXT"
		}
		return "TEXT"
	case "bool":
		if dialect.IsPostgres(dialectName) {
			return "BOOLEAN"
		}
		return "INTEGER" // SQLite/MySQL encode bool as 0/1 (§3 Value)
	case "timestamp":
		if dialect.IsSQLite(dialectName) {
			return "INTEGER" // unix seconds, see driverfacade row decode
		}
		if dialect.IsMySQL(dialectName) {
			return "DATETIME"
		}
		return "TIMESTAMPTZ"
	case "blob":
		if dialect.IsPostgres(dialectName) {
			return "BYTEA"
		}
		return "BLOB"
	case "json":
		if dialect.IsPostgres(dialectName) {
			return "JSONB"
		}
		return "TEXT"
	case "uuid":
		return "TEXT"
	default:
		return "TEXT"
	}
}

// defaultLiteral renders c's default as SQL text. Literal string
// defaults are single-quoted with doubled single quotes, numbers and
// booleans render verbatim (as 1/0 where the dialect has no native
// bool), and a callable default (Go function) has no literal
// representation and is skipped at DDL time — the column gets its
// value from the application layer on insert instead (§4.H "Default
// literals").
func defaultLiteral(dialectName string, c *schema.Column) (string, bool) {
	switch c.Default.Kind {
	case schema.DefaultLiteral:
		return sqlLiteral(dialectName, c, c.Default.Literal), true
	case schema.DefaultExpr:
		return c.Default.Expr, true
	default:
		return "", false
	}
}

func sqlLiteral(dialectName string, c *schema.Column, v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case bool:
		if dialect.IsPostgres(dialectName) {
			if x {
				return "TRUE"
			}
			return "FALSE"
		}
		if x {
			return "1"
		}
		return "0"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32, float64:
		return fmt.Sprintf("%v", x)
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(x), "'", "''") + "'"
	}
}

func foreignKeyClause(dialectName string, t *TableSnapshot, c *schema.Column) string {
	fk := c.ForeignKey
	var b strings.Builder
	if dialect.IsPostgres(dialectName) {
		fmt.Fprintf(&b, "CONSTRAINT %s ", quote(dialectName, fkSymbol(t.Name, c.Name)))
	}
	fmt.Fprintf(&b, "FOREIGN KEY (%s) REFERENCES %s (%s)",
		quote(dialectName, c.Name), quote(dialectName, fk.RefTable), quote(dialectName, fk.RefColumn))
	if fk.OnDelete != schema.NoAction {
		b.WriteString(" ON DELETE " + fk.OnDelete.String())
	}
	if fk.OnUpdate != schema.NoAction {
		b.WriteString(" ON UPDATE " + fk.OnUpdate.String())
	}
	return b.String()
}

func fkSymbol(table, column string) string { return table + "_" + column + "_fkey" }

func quoteList(dialectName string, names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quote(dialectName, n)
	}
	return strings.Join(out, ", ")
}

func emitDropTable(dialectName string, t *TableSnapshot) string {
	return fmt.Sprintf("DROP TABLE %s;", qualify(dialectName, t))
}

func emitCreateIndex(dialectName string, t *TableSnapshot, ix *schema.Index) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if ix.Unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")
	if ix.Concurrent && dialect.IsPostgres(dialectName) {
		b.WriteString("CONCURRENTLY ")
	}
	if ix.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(quote(dialectName, ix.Name))
	b.WriteString(" ON " + qualify(dialectName, t))
	if ix.Method != "" && dialect.IsPostgres(dialectName) {
		fmt.Fprintf(&b, " USING %s", ix.Method)
	}
	cols := make([]string, len(ix.Columns))
	for i, c := range ix.Columns {
		if i < len(ix.Expressions) && ix.Expressions[i] != "" {
			cols[i] = ix.Expressions[i]
		} else {
			cols[i] = quote(dialectName, c)
		}
	}
	b.WriteString(" (" + strings.Join(cols, ", ") + ")")
	if ix.Tablespace != "" && dialect.IsPostgres(dialectName) {
		fmt.Fprintf(&b, " TABLESPACE %s", ix.Tablespace)
	}
	if ix.Where != "" && dialect.IsPostgres(dialectName) {
		fmt.Fprintf(&b, " WHERE %s", ix.Where)
	}
	b.WriteString(";")
	return b.String()
}

func emitDropIndex(dialectName string, t *TableSnapshot, ix *schema.Index) string {
	if dialect.IsMySQL(dialectName) {
		return fmt.Sprintf("DROP INDEX %s ON %s;", quote(dialectName, ix.Name), qualify(dialectName, t))
	}
	return fmt.Sprintf("DROP INDEX %s;", quote(dialectName, ix.Name))
}

func emitCreateEnum(dialectName string, e *schema.Enum) string {
	if !dialect.IsPostgres(dialectName) {
		return "" // SQLite/MySQL represent enums as check-constrained text (§4.H)
	}
	variants := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		variants[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return fmt.Sprintf("CREATE TYPE %s AS ENUM(%s);", quote(dialectName, e.Name), strings.Join(variants, ", "))
}

func emitDropEnum(dialectName string, e *schema.Enum) string {
	if !dialect.IsPostgres(dialectName) {
		return ""
	}
	return fmt.Sprintf("DROP TYPE %s;", quote(dialectName, e.Name))
}

// emitAlterTable implements §4.H's ALTER rule: an add-only column
// change uses ALTER TABLE ADD COLUMN on every dialect; any other change
// (drop, type change, nullability change, FK change, or any index/PK
// change on SQLite) triggers SQLite's table-recreation fallback, while
// PostgreSQL/MySQL can express drops and modifications directly.
func emitAlterTable(dialectName string, alt *TableAlteration) []string {
	var stmts []string
	for _, ix := range alt.DroppedIndexes {
		stmts = append(stmts, emitDropIndex(dialectName, alt.Before, ix))
	}

	if dialect.IsSQLite(dialectName) {
		if alt.OnlyAddsColumns() {
			for _, c := range alt.AddedColumns {
				stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;",
					quote(dialectName, alt.After.Name), columnDefinition(dialectName, alt.After, c)))
			}
			for _, ix := range alt.AddedIndexes {
				stmts = append(stmts, emitCreateIndex(dialectName, alt.After, ix))
			}
			return stmts
		}
		return append(stmts, sqliteRecreate(alt)...)
	}

	if len(alt.DroppedColumns) > 0 || len(alt.ChangedColumns) > 0 || alt.PrimaryKeyChanged {
		for _, c := range alt.DroppedColumns {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;",
				qualify(dialectName, alt.After), quote(dialectName, c.Name)))
		}
		for _, ch := range alt.ChangedColumns {
			stmts = append(stmts, alterColumnStatements(dialectName, alt.After, ch)...)
		}
	}
	for _, c := range alt.AddedColumns {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;",
			qualify(dialectName, alt.After), columnDefinition(dialectName, alt.After, c)))
	}
	for _, ix := range alt.AddedIndexes {
		stmts = append(stmts, emitCreateIndex(dialectName, alt.After, ix))
	}
	return stmts
}

func alterColumnStatements(dialectName string, t *TableSnapshot, ch ColumnChange) []string {
	tbl := qualify(dialectName, t)
	col := quote(dialectName, ch.After.Name)
	if dialect.IsPostgres(dialectName) {
		var stmts []string
		if ch.Before.Type != ch.After.Type {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s;", tbl, col, columnType(dialectName, ch.After)))
		}
		if ch.Before.Nullable != ch.After.Nullable {
			if ch.After.Nullable {
				stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL;", tbl, col))
			} else {
				stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL;", tbl, col))
			}
		}
		return stmts
	}
	// MySQL: a single MODIFY COLUMN expresses type/nullability together.
	return []string{fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s;", tbl, columnDefinition(dialectName, t, ch.After))}
}

// sqliteRecreate implements the exact 6-step table-recreation sequence
// from §4.H / §8 scenario 5.
func sqliteRecreate(alt *TableAlteration) []string {
	newName := "__new_" + alt.After.Name
	shadow := &TableSnapshot{
		Name:       newName,
		Columns:    alt.After.Columns,
		PrimaryKey: alt.After.PrimaryKey,
		Strict:     alt.After.Strict,
	}
	kept := keptColumnNames(alt.Before, alt.After)

	var stmts []string
	stmts = append(stmts, "PRAGMA foreign_keys=OFF;")
	create := emitCreateTable(dialect.SQLite, shadow)
	stmts = append(stmts, create[0]) // table only; indexes are rebuilt against the final name below
	stmts = append(stmts, fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s;",
		quote(dialect.SQLite, newName), quoteList(dialect.SQLite, kept), quoteList(dialect.SQLite, kept), quote(dialect.SQLite, alt.Before.Name)))
	stmts = append(stmts, fmt.Sprintf("DROP TABLE %s;", quote(dialect.SQLite, alt.Before.Name)))
	stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s RENAME TO %s;", quote(dialect.SQLite, newName), quote(dialect.SQLite, alt.After.Name)))
	stmts = append(stmts, "PRAGMA foreign_keys=ON;")
	for _, ix := range alt.After.Indexes {
		stmts = append(stmts, emitCreateIndex(dialect.SQLite, alt.After, ix))
	}
	return stmts
}

// keptColumnNames returns the columns present in both before and
// after, in after's declared order (§8 scenario 5: only "a" survives
// the b→c rename/drop, in declaration order).
func keptColumnNames(before, after *TableSnapshot) []string {
	beforeSet := make(map[string]bool, len(before.Columns))
	for _, c := range before.Columns {
		beforeSet[c.Name] = true
	}
	var kept []string
	for _, c := range after.Columns {
		if beforeSet[c.Name] {
			kept = append(kept, c.Name)
		}
	}
	return kept
}

// LedgerTable returns the __drizzle_migrations table definition for
// dialectName (SPEC_FULL.md §I "ledger table per dialect").
func LedgerTable(dialectName string) *TableSnapshot {
	canon, _ := dialect.Canonical(dialectName)
	switch canon {
	case dialect.Postgres:
		return &TableSnapshot{
			Name: "__drizzle_migrations",
			Columns: []*schema.Column{
				{Name: "id", Type: "int64", AutoIncrement: true, PrimaryKey: true},
				{Name: "hash", Type: "text"},
				{Name: "created_at", Type: "int64"},
			},
			PrimaryKey: []string{"id"},
		}
	case dialect.MySQL:
		return &TableSnapshot{
			Name: "__drizzle_migrations",
			Columns: []*schema.Column{
				{Name: "id", Type: "int64", AutoIncrement: true, PrimaryKey: true},
				{Name: "hash", Type: "varchar(255)"},
				{Name: "created_at", Type: "int64"},
			},
			PrimaryKey: []string{"id"},
		}
	default: // SQLite/Turso
		return &TableSnapshot{
			Name: "__drizzle_migrations",
			Columns: []*schema.Column{
				{Name: "id", Type: "int64", AutoIncrement: true, PrimaryKey: true},
				{Name: "hash", Type: "text"},
				{Name: "created_at", Type: "int64"},
			},
			PrimaryKey: []string{"id"},
		}
	}
}

// CreateLedgerSQL renders the `CREATE TABLE IF NOT EXISTS
// __drizzle_migrations` statement for dialectName (§4.I migrate step 1).
func CreateLedgerSQL(dialectName string) string {
	canon, _ := dialect.Canonical(dialectName)
	t := LedgerTable(canon)
	stmts := emitCreateTable(canon, t)
	return strings.Replace(stmts[0], "CREATE TABLE ", "CREATE TABLE IF NOT EXISTS ", 1)
}
