package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drizzle-go/drizzle/dialect"
	"github.com/drizzle-go/drizzle/schema"
)

func TestEmitCreateTablePostgresForeignKeyAndEnum(t *testing.T) {
	t1 := &TableSnapshot{
		Name:      "orders",
		Namespace: "public",
		Columns: []*schema.Column{
			{Name: "id", Type: "int64", PrimaryKey: true, AutoIncrement: true},
			{Name: "status", Type: "enum", Storage: schema.StorageEnum, EnumName: "order_status"},
			{Name: "user_id", Type: "int64", ForeignKey: &schema.ForeignKey{RefTable: "users", RefColumn: "id", OnDelete: schema.Cascade}},
		},
		PrimaryKey: []string{"id"},
	}
	stmts := emitCreateTable(dialect.Postgres, t1)
	assert.Contains(t, stmts[0], `CREATE TABLE "public"."orders"`)
	assert.Contains(t, stmts[0], `"status" order_status`)
	assert.Contains(t, stmts[0], `FOREIGN KEY ("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`)
}

func TestEmitCreateEnumPostgresOnly(t *testing.T) {
	e := &schema.Enum{Name: "order_status", Variants: []string{"pending", "paid"}}
	assert.Equal(t, `CREATE TYPE "order_status" AS ENUM('pending', 'paid');`, emitCreateEnum(dialect.Postgres, e))
	assert.Equal(t, "", emitCreateEnum(dialect.MySQL, e))
}

func TestColumnTypeMySQLAutoIncrement(t *testing.T) {
	c := &schema.Column{Type: "int64", AutoIncrement: true}
	assert.Equal(t, "BIGINT AUTO_INCREMENT", columnType(dialect.MySQL, c))
}

func TestSQLLiteralQuotesStrings(t *testing.T) {
	assert.Equal(t, `'O''Brien'`, sqlLiteral(dialect.SQLite, nil, "O'Brien"))
	assert.Equal(t, "NULL", sqlLiteral(dialect.SQLite, nil, nil))
	assert.Equal(t, "1", sqlLiteral(dialect.SQLite, nil, true))
	assert.Equal(t, "TRUE", sqlLiteral(dialect.Postgres, nil, true))
}

func TestEmitAlterTableOnlyAddsColumnUsesAddColumnOnSQLite(t *testing.T) {
	before := &TableSnapshot{Name: "t", Columns: []*schema.Column{{Name: "a", Type: "int64"}}}
	after := &TableSnapshot{Name: "t", Columns: []*schema.Column{{Name: "a", Type: "int64"}, {Name: "b", Type: "text"}}}
	alt := diffTable(before, after)
	assert.True(t, alt.OnlyAddsColumns())

	stmts := emitAlterTable(dialect.SQLite, alt)
	assert.Equal(t, []string{`ALTER TABLE "t" ADD COLUMN "b" TEXT NOT NULL;`}, stmts)
}
