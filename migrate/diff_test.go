package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drizzle-go/drizzle/schema"
)

func snapOf(tables ...*schema.Table) *Snapshot {
	return FromSchema(&schema.Schema{Dialect: "sqlite", Tables: tables})
}

func TestComputeCreatedAndDeleted(t *testing.T) {
	prior := snapOf(&schema.Table{Name: "old", Columns: []*schema.Column{{Name: "id", Table: "old", Type: "int64"}}})
	next := snapOf(&schema.Table{Name: "new", Columns: []*schema.Column{{Name: "id", Table: "new", Type: "int64"}}})

	d := Compute(prior, next)
	require.Len(t, d.Created, 1)
	assert.Equal(t, "new", d.Created[0].Name)
	require.Len(t, d.Deleted, 1)
	assert.Equal(t, "old", d.Deleted[0].Name)
	assert.Empty(t, d.Altered)
}

func TestComputeIsEmptyForIdenticalSnapshots(t *testing.T) {
	s := snapOf(&schema.Table{Name: "t", Columns: []*schema.Column{{Name: "a", Table: "t", Type: "int64"}}})
	d := Compute(s, s)
	assert.Empty(t, d.Created)
	assert.Empty(t, d.Deleted)
	assert.Empty(t, d.Altered)
}

// TestSQLiteRecreateScenario mirrors §8 scenario 5: diffing t(a int pk,
// b text) against t(a int pk, c text) must emit the exact six-step
// table-recreation sequence.
func TestSQLiteRecreateScenario(t *testing.T) {
	before := snapOf(&schema.Table{
		Name: "t",
		Columns: []*schema.Column{
			{Name: "a", Table: "t", Type: "int64", PrimaryKey: true},
			{Name: "b", Table: "t", Type: "text"},
		},
		PrimaryKey: []string{"a"},
	})
	after := snapOf(&schema.Table{
		Name: "t",
		Columns: []*schema.Column{
			{Name: "a", Table: "t", Type: "int64", PrimaryKey: true},
			{Name: "c", Table: "t", Type: "text", Nullable: true},
		},
		PrimaryKey: []string{"a"},
	})

	d := Compute(before, after)
	require.Len(t, d.Altered, 1)
	stmts := Emit("sqlite", d)

	want := []string{
		`PRAGMA foreign_keys=OFF;`,
		`CREATE TABLE "__new_t" ("a" INTEGER PRIMARY KEY, "c" TEXT);`,
		`INSERT INTO "__new_t" ("a") SELECT "a" FROM "t";`,
		`DROP TABLE "t";`,
		`ALTER TABLE "__new_t" RENAME TO "t";`,
		`PRAGMA foreign_keys=ON;`,
	}
	assert.Equal(t, want, stmts)
}

func TestTopoOrderPlacesReferencedTableFirst(t *testing.T) {
	tables := []*TableSnapshot{
		{Name: "orders", Columns: []*schema.Column{{Name: "user_id", ForeignKey: &schema.ForeignKey{RefTable: "users"}}}},
		{Name: "users"},
	}
	order := topoOrder(tables)
	assert.Equal(t, []string{"users", "orders"}, order)
}

func TestTopoOrderBreaksTiesAlphabetically(t *testing.T) {
	tables := []*TableSnapshot{{Name: "b"}, {Name: "a"}, {Name: "c"}}
	assert.Equal(t, []string{"a", "b", "c"}, topoOrder(tables))
}
