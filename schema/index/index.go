// Package index implements the index-declaration DSL used inside a
// schema.Table declaration: index.Fields("a", "b").Unique() and so on
// (§3 Index, §4.C "Indexes are declared as their own tuple-struct
// tokens referencing columns").
package index

// Descriptor is the fully resolved description of one declared index.
// It names no table: schema/load attaches it to the table whose
// declaration (or mixin) lists it.
type Descriptor struct {
	Fields      []string
	Unique      bool
	Method      string
	Expressions []string
	Where       string
	Tablespace  string
	Concurrent  bool
	IfNotExists bool
	StorageKey  string
}

// Builder is the fluent index builder returned by Fields.
type Builder struct{ desc Descriptor }

// Fields declares an index over one or more columns, in order. A
// single column yields a single-column index; more than one yields a
// composite index (§3 Index "column list").
func Fields(fields ...string) *Builder {
	return &Builder{desc: Descriptor{Fields: fields}}
}

// Unique marks the index as enforcing uniqueness.
func (b *Builder) Unique() *Builder { b.desc.Unique = true; return b }

// Method selects the index access method: btree/hash/gin/gist/spgist/
// brin. PostgreSQL-only (§3 Index).
func (b *Builder) Method(m string) *Builder { b.desc.Method = m; return b }

// Where attaches a partial-index predicate.
func (b *Builder) Where(predicate string) *Builder { b.desc.Where = predicate; return b }

// Tablespace sets the index's tablespace (PostgreSQL-specific).
func (b *Builder) Tablespace(ts string) *Builder { b.desc.Tablespace = ts; return b }

// Concurrent requests CREATE INDEX CONCURRENTLY (PostgreSQL-only).
func (b *Builder) Concurrent() *Builder { b.desc.Concurrent = true; return b }

// IfNotExists requests the if-not-exists guard for CREATE INDEX.
func (b *Builder) IfNotExists() *Builder { b.desc.IfNotExists = true; return b }

// StorageKey overrides the generated index name.
func (b *Builder) StorageKey(name string) *Builder { b.desc.StorageKey = name; return b }

// Descriptor returns the resolved index descriptor.
func (b *Builder) Descriptor() *Descriptor { return &b.desc }
