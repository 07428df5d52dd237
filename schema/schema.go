// Package schema implements the declarative schema model (§3 Entities,
// §4.C of the design): Column, Table, Index, Enum and Schema, plus the
// constraint rules a schema must satisfy before it can be diffed or
// rendered.
package schema

import (
	"errors"
	"fmt"
	"sort"
)

// OnAction enumerates the referential actions a foreign key may take
// on delete/update (§3 Column "on-delete/on-update actions").
type OnAction uint8

const (
	NoAction OnAction = iota
	Restrict
	Cascade
	SetNull
	SetDefault
)

func (a OnAction) String() string {
	switch a {
	case Restrict:
		return "RESTRICT"
	case Cascade:
		return "CASCADE"
	case SetNull:
		return "SET NULL"
	case SetDefault:
		return "SET DEFAULT"
	default:
		return "NO ACTION"
	}
}

// DefaultKind discriminates how a Column's Default is supplied.
type DefaultKind uint8

const (
	DefaultNone DefaultKind = iota
	DefaultLiteral
	DefaultExpr
	DefaultCallable
)

// Default describes a column default (§3 Column "default expression").
type Default struct {
	Kind     DefaultKind
	Literal  any
	Expr     string
	Callable func() any
}

// ForeignKey references a target table/column with referential actions
// (§3 Column "optional foreign-key reference").
type ForeignKey struct {
	RefTable  string
	RefColumn string
	OnDelete  OnAction
	OnUpdate  OnAction
}

// StorageFormat is relevant for JSON/JSONB/enum columns (§3 Column
// "storage format").
type StorageFormat uint8

const (
	StoragePlain StorageFormat = iota
	StorageJSON
	StorageJSONB
	StorageEnum
)

// Column is identified by (table name, column name) (§3 Column).
type Column struct {
	Name          string
	Table         string
	Type          string // SQL type tag, dialect-neutral (e.g. "text", "int8", "bool")
	Nullable      bool
	PrimaryKey    bool
	Unique        bool
	AutoIncrement bool
	Default       *Default
	ForeignKey    *ForeignKey
	Check         string
	Storage       StorageFormat
	EnumName      string // set when Storage == StorageEnum
}

// Index is identified by (table, name) (§3 Index).
type Index struct {
	Name        string
	Table       string
	Unique      bool
	Method      string // btree/hash/gin/gist/spgist/brin — PostgreSQL only
	Columns     []string
	Expressions []string // optional expressions aligned by position with Columns (empty string = plain column)
	Where       string   // optional partial-index predicate
	Tablespace  string
	Concurrent  bool
	IfNotExists bool
}

// Enum is a PostgreSQL-native enum type (§3 Enum). Variant order is the
// wire order and variants are stable identifiers.
type Enum struct {
	Name     string
	Variants []string
}

// Table is identified by (schema namespace, name) (§3 Table).
type Table struct {
	Namespace   string
	Name        string
	Columns     []*Column
	PrimaryKey  []string // composite or single-column PK, by column name
	Indexes     []*Index
	Unlogged    bool // PostgreSQL-specific
	Temporary   bool
	Strict      bool   // SQLite STRICT tables
	Tablespace  string // PostgreSQL-specific
	Inherits    string // PostgreSQL-specific
}

// Schema is a set of tables, indexes, and enums in foreign-key
// dependency order, leaves first (§3 Schema).
type Schema struct {
	Dialect string
	Tables  []*Table
	Enums   []*Enum
}

// Annotation is implemented by metadata values attachable to a Table
// or Column declaration (e.g. Comment). Name distinguishes annotation
// kinds when two annotations of different concrete types are merged.
type Annotation interface {
	Name() string
}

// Merger is implemented by an Annotation that knows how to combine
// itself with a previous annotation of the same Name (e.g. a mixin's
// Comment overridden by the embedding schema's own Comment).
type Merger interface {
	Merge(Annotation) Annotation
}

// CommentAnnotation attaches a human-readable comment to a table or
// column.
type CommentAnnotation struct{ Text string }

func (CommentAnnotation) Name() string { return "Comment" }

func (c CommentAnnotation) Merge(other Annotation) Annotation {
	if o, ok := other.(CommentAnnotation); ok && o.Text != "" {
		return o
	}
	return c
}

// Comment returns a CommentAnnotation for text.
func Comment(text string) CommentAnnotation { return CommentAnnotation{Text: text} }

// ReferenceAnnotation declares a column as a foreign key, since
// field.Descriptor carries no FK of its own (§3 Column "optional
// foreign-key reference"; column-level declared FKs are in scope,
// ORM-style relation navigation is not).
type ReferenceAnnotation struct {
	RefTable  string
	RefColumn string
	OnDelete  OnAction
	OnUpdate  OnAction
}

func (ReferenceAnnotation) Name() string { return "ForeignKey" }

func (r ReferenceAnnotation) Merge(other Annotation) Annotation {
	if o, ok := other.(ReferenceAnnotation); ok {
		return o
	}
	return r
}

// ForeignKey builds the schema.ForeignKey this annotation describes.
func (r ReferenceAnnotation) ForeignKey() *ForeignKey {
	return &ForeignKey{RefTable: r.RefTable, RefColumn: r.RefColumn, OnDelete: r.OnDelete, OnUpdate: r.OnUpdate}
}

// References declares that a field's column is a foreign key targeting
// table.column, with the given referential actions.
func References(table, column string, onDelete, onUpdate OnAction) ReferenceAnnotation {
	return ReferenceAnnotation{RefTable: table, RefColumn: column, OnDelete: onDelete, OnUpdate: onUpdate}
}

// Validate checks the constraint rules from §3 Column/Table invariants
// and §4.C's compile-time rules, enforced here at runtime since Go has
// no type-state mechanism (§9 fallback note): primary-key columns are
// NOT NULL; a serial column has no user default; foreign-key source
// columns belong to the table; foreign-key arities/host types match;
// at most one primary-key declaration per table; composite primary
// keys have ≥1 columns and no duplicates.
func (s *Schema) Validate() error {
	var errs []error
	byName := make(map[string]*Table, len(s.Tables))
	for _, t := range s.Tables {
		byName[t.Name] = t
	}
	for _, t := range s.Tables {
		errs = append(errs, t.validate(byName)...)
	}
	return errors.Join(errs...)
}

func (t *Table) validate(byName map[string]*Table) []error {
	var errs []error
	cols := make(map[string]*Column, len(t.Columns))
	for _, c := range t.Columns {
		cols[c.Name] = c
		if c.PrimaryKey && c.Nullable {
			errs = append(errs, fmt.Errorf("schema: table %q: primary key column %q must not be nullable", t.Name, c.Name))
		}
		if c.AutoIncrement && c.Default != nil && c.Default.Kind != DefaultNone {
			errs = append(errs, fmt.Errorf("schema: table %q: serial column %q must not carry a user default", t.Name, c.Name))
		}
		if c.ForeignKey != nil {
			fk := c.ForeignKey
			target, ok := byName[fk.RefTable]
			if !ok {
				errs = append(errs, fmt.Errorf("schema: table %q: column %q references undeclared table %q", t.Name, c.Name, fk.RefTable))
				continue
			}
			var targetCol *Column
			for _, tc := range target.Columns {
				if tc.Name == fk.RefColumn {
					targetCol = tc
					break
				}
			}
			if targetCol == nil {
				errs = append(errs, fmt.Errorf("schema: table %q: column %q references undeclared column %q.%q", t.Name, c.Name, fk.RefTable, fk.RefColumn))
				continue
			}
			if targetCol.Type != c.Type {
				errs = append(errs, fmt.Errorf("schema: table %q: foreign key %q.%q type %q does not match target %q.%q type %q",
					t.Name, t.Name, c.Name, c.Type, fk.RefTable, fk.RefColumn, targetCol.Type))
			}
		}
	}
	if len(t.PrimaryKey) == 0 {
		var pkCount int
		for _, c := range t.Columns {
			if c.PrimaryKey {
				pkCount++
			}
		}
		if pkCount > 1 {
			errs = append(errs, fmt.Errorf("schema: table %q: at most one primary-key declaration is allowed unless a composite key is declared", t.Name))
		}
	} else {
		seen := make(map[string]struct{}, len(t.PrimaryKey))
		for _, name := range t.PrimaryKey {
			if _, dup := seen[name]; dup {
				errs = append(errs, fmt.Errorf("schema: table %q: composite primary key lists column %q more than once", t.Name, name))
			}
			seen[name] = struct{}{}
			if _, ok := cols[name]; !ok {
				errs = append(errs, fmt.Errorf("schema: table %q: composite primary key references undeclared column %q", t.Name, name))
			}
		}
	}
	return errs
}

// Sorted returns a copy of s.Tables in depth-first order over the
// foreign-key graph: every table appears after the tables its foreign
// keys reference (leaves first, §3 Schema), and tables and their
// references are visited in name order. Tables in a foreign-key cycle
// come out in the order the walk reaches them; they are not grouped
// after the acyclic tables.
func (s *Schema) Sorted() []*Table {
	byName := make(map[string]*Table, len(s.Tables))
	for _, t := range s.Tables {
		byName[t.Name] = t
	}
	var (
		out     []*Table
		visited = make(map[string]int) // 0=unvisited,1=in-progress,2=done
	)
	var visit func(t *Table)
	visit = func(t *Table) {
		if visited[t.Name] == 2 || visited[t.Name] == 1 {
			return
		}
		visited[t.Name] = 1
		deps := make([]string, 0)
		for _, c := range t.Columns {
			if c.ForeignKey != nil && c.ForeignKey.RefTable != t.Name {
				deps = append(deps, c.ForeignKey.RefTable)
			}
		}
		sort.Strings(deps)
		for _, dep := range deps {
			if target, ok := byName[dep]; ok {
				visit(target)
			}
		}
		visited[t.Name] = 2
		out = append(out, t)
	}
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	for _, name := range names {
		visit(byName[name])
	}
	return out
}
