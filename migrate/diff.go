package migrate

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/drizzle-go/drizzle/schema"
)

// ColumnChange pairs a column's prior and next shape when it is
// considered altered: any attribute differs, including default
// expression string equality (§4.G "Diff algorithm").
type ColumnChange struct {
	Before *schema.Column
	After  *schema.Column
}

// TableAlteration is the recursive diff of one table kept across both
// snapshots: its columns, primary key, foreign keys and indexes
// (§4.G "For each Kept table, recursively diff...").
type TableAlteration struct {
	Before, After  *TableSnapshot
	AddedColumns   []*schema.Column
	DroppedColumns []*schema.Column
	ChangedColumns []ColumnChange
	AddedIndexes   []*schema.Index
	DroppedIndexes []*schema.Index
	PrimaryKeyChanged bool
}

// Empty reports whether the alteration carries no changes at all.
func (a *TableAlteration) Empty() bool {
	return len(a.AddedColumns) == 0 && len(a.DroppedColumns) == 0 && len(a.ChangedColumns) == 0 &&
		len(a.AddedIndexes) == 0 && len(a.DroppedIndexes) == 0 && !a.PrimaryKeyChanged
}

// OnlyAddsColumns reports whether this alteration is exactly an
// additive column change with no drops, type changes, nullability
// changes, FK changes, index changes or PK changes — the one case
// SQLite can express as ALTER TABLE ADD COLUMN instead of a full
// table recreation (§4.H).
func (a *TableAlteration) OnlyAddsColumns() bool {
	return len(a.AddedColumns) > 0 && len(a.DroppedColumns) == 0 && len(a.ChangedColumns) == 0 &&
		len(a.AddedIndexes) == 0 && len(a.DroppedIndexes) == 0 && !a.PrimaryKeyChanged
}

// Diff is the structural diff between two snapshots: a pure function
// of its two inputs (§3 Diff invariant). Tables are already ordered:
// Created and Altered follow the foreign-key topological order
// (leaves first) with an alphabetical tie-break; Deleted is the
// reverse of that order (§4.G "Ordering of emitted statements").
type Diff struct {
	Created []*TableSnapshot
	Altered []*TableAlteration
	Deleted []*TableSnapshot

	CreatedEnums []*schema.Enum
	DeletedEnums []*schema.Enum
}

// Compute diffs prior against next: Deleted = prior − next, Created =
// next − prior, Kept = intersection, each kept table recursively
// diffed (§4.G "Diff algorithm").
func Compute(prior, next *Snapshot) *Diff {
	priorByName := indexTables(prior.Tables)
	nextByName := indexTables(next.Tables)

	var createdNames, deletedNames, keptNames []string
	for name := range nextByName {
		if _, ok := priorByName[name]; !ok {
			createdNames = append(createdNames, name)
		} else {
			keptNames = append(keptNames, name)
		}
	}
	for name := range priorByName {
		if _, ok := nextByName[name]; !ok {
			deletedNames = append(deletedNames, name)
		}
	}

	order := topoOrder(next.Tables)
	d := &Diff{}
	for _, name := range order {
		if contains(createdNames, name) {
			d.Created = append(d.Created, nextByName[name])
		}
	}
	for _, name := range order {
		if !contains(keptNames, name) {
			continue
		}
		alt := diffTable(priorByName[name], nextByName[name])
		if !alt.Empty() {
			d.Altered = append(d.Altered, alt)
		}
	}
	// Deletions run in the reverse of the order their tables would have
	// been created in, computed over the PRIOR schema (the next schema
	// no longer declares them).
	delOrder := topoOrder(prior.Tables)
	for i := len(delOrder) - 1; i >= 0; i-- {
		name := delOrder[i]
		if contains(deletedNames, name) {
			d.Deleted = append(d.Deleted, priorByName[name])
		}
	}

	d.CreatedEnums, d.DeletedEnums = diffEnums(prior.Enums, next.Enums)
	return d
}

func diffEnums(prior, next []*schema.Enum) (created, deleted []*schema.Enum) {
	priorByName := make(map[string]*schema.Enum, len(prior))
	for _, e := range prior {
		priorByName[e.Name] = e
	}
	nextByName := make(map[string]*schema.Enum, len(next))
	for _, e := range next {
		nextByName[e.Name] = e
	}
	for _, name := range sortedEnumNames(next) {
		if _, ok := priorByName[name]; !ok {
			created = append(created, nextByName[name])
		}
	}
	for _, name := range sortedEnumNames(prior) {
		if _, ok := nextByName[name]; !ok {
			deleted = append(deleted, priorByName[name])
		}
	}
	return created, deleted
}

func sortedEnumNames(enums []*schema.Enum) []string {
	names := make([]string, 0, len(enums))
	for _, e := range enums {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

func diffTable(before, after *TableSnapshot) *TableAlteration {
	alt := &TableAlteration{Before: before, After: after}

	beforeCols := make(map[string]*schema.Column, len(before.Columns))
	for _, c := range before.Columns {
		beforeCols[c.Name] = c
	}
	afterCols := make(map[string]*schema.Column, len(after.Columns))
	for _, c := range after.Columns {
		afterCols[c.Name] = c
	}
	for _, c := range after.Columns {
		prev, ok := beforeCols[c.Name]
		if !ok {
			alt.AddedColumns = append(alt.AddedColumns, c)
			continue
		}
		if !columnsEqual(prev, c) {
			alt.ChangedColumns = append(alt.ChangedColumns, ColumnChange{Before: prev, After: c})
		}
	}
	for _, c := range before.Columns {
		if _, ok := afterCols[c.Name]; !ok {
			alt.DroppedColumns = append(alt.DroppedColumns, c)
		}
	}

	beforeIdx := make(map[string]*schema.Index, len(before.Indexes))
	for _, ix := range before.Indexes {
		beforeIdx[ix.Name] = ix
	}
	afterIdx := make(map[string]*schema.Index, len(after.Indexes))
	for _, ix := range after.Indexes {
		afterIdx[ix.Name] = ix
	}
	for _, ix := range after.Indexes {
		prev, ok := beforeIdx[ix.Name]
		if !ok || !indexesEqual(prev, ix) {
			alt.AddedIndexes = append(alt.AddedIndexes, ix)
		}
	}
	for _, ix := range before.Indexes {
		if _, ok := afterIdx[ix.Name]; !ok {
			alt.DroppedIndexes = append(alt.DroppedIndexes, ix)
		} else if prev := ix; !indexesEqual(prev, afterIdx[ix.Name]) {
			alt.DroppedIndexes = append(alt.DroppedIndexes, ix)
		}
	}

	alt.PrimaryKeyChanged = !stringSlicesEqual(before.PrimaryKey, after.PrimaryKey)
	return alt
}

func columnsEqual(a, b *schema.Column) bool {
	if a.Type != b.Type || a.Nullable != b.Nullable || a.PrimaryKey != b.PrimaryKey ||
		a.Unique != b.Unique || a.AutoIncrement != b.AutoIncrement || a.Check != b.Check ||
		a.Storage != b.Storage || a.EnumName != b.EnumName {
		return false
	}
	if !defaultsEqual(a.Default, b.Default) {
		return false
	}
	return foreignKeysEqual(a.ForeignKey, b.ForeignKey)
}

func defaultsEqual(a, b *schema.Default) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case schema.DefaultLiteral:
		return fmt.Sprint(a.Literal) == fmt.Sprint(b.Literal)
	case schema.DefaultExpr:
		return a.Expr == b.Expr
	default:
		return true
	}
}

func foreignKeysEqual(a, b *schema.ForeignKey) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func indexesEqual(a, b *schema.Index) bool {
	return reflect.DeepEqual(a, b)
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexTables(tables []*TableSnapshot) map[string]*TableSnapshot {
	m := make(map[string]*TableSnapshot, len(tables))
	for _, t := range tables {
		m[t.Name] = t
	}
	return m
}

func sortedNames(names []string) []string {
	cp := append([]string{}, names...)
	sort.Strings(cp)
	return cp
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// topoOrder returns table names in depth-first order over the
// foreign-key graph, the same walk as schema.Schema.Sorted(): every
// table appears after every table its foreign keys reference (leaves
// first), and tables and their references are visited in name order.
// Tables in a foreign-key cycle come out in the order the walk reaches
// them; they are not grouped after the acyclic tables.
func topoOrder(tables []*TableSnapshot) []string {
	byName := indexTables(tables)
	var (
		out     []string
		visited = make(map[string]int) // 0=unvisited,1=in-progress,2=done
	)
	var visit func(name string)
	visit = func(name string) {
		if visited[name] == 2 || visited[name] == 1 {
			return
		}
		t, ok := byName[name]
		if !ok {
			return
		}
		visited[name] = 1
		deps := make([]string, 0)
		for _, c := range t.Columns {
			if c.ForeignKey != nil && c.ForeignKey.RefTable != name {
				deps = append(deps, c.ForeignKey.RefTable)
			}
		}
		sort.Strings(deps)
		for _, dep := range deps {
			visit(dep)
		}
		visited[name] = 2
		out = append(out, name)
	}
	for _, name := range sortedTableNames(tables) {
		visit(name)
	}
	return out
}

func sortedTableNames(tables []*TableSnapshot) []string {
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
