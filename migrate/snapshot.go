package migrate

import (
	"sort"

	"github.com/drizzle-go/drizzle/schema"
)

// snapshotVersion is the folder-layout version this package writes;
// OpenJournal also understands "legacy" (§9 Open Question, see
// DESIGN.md "Snapshot versioning beyond v3").
const snapshotVersion = "3"

// Snapshot is the canonical serialized form of a schema at a point in
// time (§3 Snapshot): sorted table entries, each with its columns in
// declaration order plus its constraints and indexes, tagged with the
// dialect it was taken for.
type Snapshot struct {
	Version string           `json:"version"`
	Dialect string           `json:"dialect"`
	Tables  []*TableSnapshot `json:"tables"`
	Enums   []*schema.Enum   `json:"enums"`
}

// TableSnapshot is one table's canonicalized shape.
type TableSnapshot struct {
	Name       string           `json:"name"`
	Namespace  string           `json:"namespace"`
	Columns    []*schema.Column `json:"columns"` // declaration order, never re-sorted (§4.G step 2)
	PrimaryKey []string         `json:"primaryKey"`
	Indexes    []*schema.Index  `json:"indexes"`
	Unlogged   bool             `json:"unlogged,omitempty"`
	Temporary  bool             `json:"temporary,omitempty"`
	Strict     bool             `json:"strict,omitempty"`
	Tablespace string           `json:"tablespace,omitempty"`
	Inherits   string           `json:"inherits,omitempty"`
}

// FromSchema snapshots s: columns keep declaration order, every other
// collection is sorted by name so that two semantically identical
// schemas always produce byte-identical snapshots (§4.G steps 1-3).
func FromSchema(s *schema.Schema) *Snapshot {
	snap := &Snapshot{Version: snapshotVersion, Dialect: s.Dialect}
	tables := append([]*schema.Table{}, s.Tables...)
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	for _, t := range tables {
		ts := &TableSnapshot{
			Name:       t.Name,
			Namespace:  t.Namespace,
			Columns:    append([]*schema.Column{}, t.Columns...),
			Unlogged:   t.Unlogged,
			Temporary:  t.Temporary,
			Strict:     t.Strict,
			Tablespace: t.Tablespace,
			Inherits:   t.Inherits,
		}
		ts.PrimaryKey = append(ts.PrimaryKey, t.PrimaryKey...)
		sort.Strings(ts.PrimaryKey)
		idx := append([]*schema.Index{}, t.Indexes...)
		sort.Slice(idx, func(i, j int) bool { return idx[i].Name < idx[j].Name })
		ts.Indexes = idx
		snap.Tables = append(snap.Tables, ts)
	}
	enums := append([]*schema.Enum{}, s.Enums...)
	sort.Slice(enums, func(i, j int) bool { return enums[i].Name < enums[j].Name })
	snap.Enums = enums
	return snap
}

// Table looks up a table by name.
func (s *Snapshot) Table(name string) (*TableSnapshot, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Column looks up a column by name.
func (t *TableSnapshot) Column(name string) (*schema.Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Index looks up an index by name.
func (t *TableSnapshot) Index(name string) (*schema.Index, bool) {
	for _, ix := range t.Indexes {
		if ix.Name == name {
			return ix, true
		}
	}
	return nil, false
}

// empty returns the zero schema snapshot, the "prior" state for the
// very first migration (§4.I generate step 1: "or empty schema").
func empty(dialectName string) *Snapshot {
	return &Snapshot{Version: snapshotVersion, Dialect: dialectName}
}
