// Package load implements the reflective schema loader (§4.C "Schema
// model — supplemented"): given one value satisfying drizzle.Interface,
// it recovers the declarative descriptor by calling the declared
// methods (Fields/Mixin/Indexes/Annotations, and those of each mixin)
// and merges mixin contributions into a flat Table ready for codegen
// or direct use.
package load

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/schema"
	"github.com/drizzle-go/drizzle/schema/field"
	"github.com/drizzle-go/drizzle/schema/index"
)

// Position records where a field/index originated: directly on the
// table, or via a mixin at a given index (grounded on the teacher's
// compiler/load.Position, trimmed to Index/MixinIndex since hooks,
// interceptors and edges are out of scope here).
type Position struct {
	Index      int
	MixedIn    bool
	MixinIndex int
}

// FieldDecl is one loaded field, its resolved descriptor, and its
// origin.
type FieldDecl struct {
	Descriptor *field.Descriptor
	Position   Position
}

// IndexDecl is one loaded index and its origin.
type IndexDecl struct {
	Descriptor *index.Descriptor
	Position   Position
}

// Table is the fully loaded, mixin-resolved descriptor of one
// declared table (before it becomes a schema.Table — that
// translation additionally needs the dialect-specific type mapping,
// performed by the codegen/migrate layers that consume this package).
type Table struct {
	Name        string
	GoType      reflect.Type
	Fields      []FieldDecl
	Indexes     []IndexDecl
	Annotations []schema.Annotation
}

// safeFields/safeIndexes/safeMixin/safeAnnotations guard against a
// user Interface implementation panicking while we're only trying to
// read its declarative shape, matching the teacher's
// compiler/load.safeFields panic-recovery pattern.
func safeFields(decl drizzle.Interface) (fields []drizzle.Field, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("schema/load: Fields() panicked: %v", r)
		}
	}()
	return decl.Fields(), nil
}

func safeIndexes(decl drizzle.Interface) (idxs []drizzle.Index, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("schema/load: Indexes() panicked: %v", r)
		}
	}()
	return decl.Indexes(), nil
}

func safeMixin(decl drizzle.Interface) (mixins []drizzle.Mixin, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("schema/load: Mixin() panicked: %v", r)
		}
	}()
	return decl.Mixin(), nil
}

func safeAnnotations(decl drizzle.Interface) (as []schema.Annotation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("schema/load: Annotations() panicked: %v", r)
		}
	}()
	return decl.Annotations(), nil
}

// Load recovers the declarative descriptor of one table declaration.
// name is the table name to record on the loaded Table; Load does not
// derive it from the Go type.
func Load(name string, decl drizzle.Interface) (*Table, error) {
	t := &Table{Name: name, GoType: reflect.TypeOf(decl)}

	mixins, err := safeMixin(decl)
	if err != nil {
		return nil, err
	}
	for mi, m := range mixins {
		mfields := m.Fields()
		for fi, f := range mfields {
			t.Fields = append(t.Fields, FieldDecl{
				Descriptor: f.Descriptor(),
				Position:   Position{Index: fi, MixedIn: true, MixinIndex: mi},
			})
		}
		midx := m.Indexes()
		for _, ix := range midx {
			t.Indexes = append(t.Indexes, IndexDecl{
				Descriptor: ix.Descriptor(),
				Position:   Position{MixedIn: true, MixinIndex: mi},
			})
		}
		t.Annotations = mergeAnnotations(t.Annotations, m.Annotations())
	}

	fields, err := safeFields(decl)
	if err != nil {
		return nil, err
	}
	for fi, f := range fields {
		t.Fields = append(t.Fields, FieldDecl{
			Descriptor: f.Descriptor(),
			Position:   Position{Index: fi},
		})
	}

	idxs, err := safeIndexes(decl)
	if err != nil {
		return nil, err
	}
	for _, ix := range idxs {
		t.Indexes = append(t.Indexes, IndexDecl{Descriptor: ix.Descriptor(), Position: Position{}})
	}

	as, err := safeAnnotations(decl)
	if err != nil {
		return nil, err
	}
	t.Annotations = mergeAnnotations(t.Annotations, as)

	dedupeFieldsByName(t)
	return t, nil
}

// dedupeFieldsByName keeps the last declaration of a given field name,
// so a table's own Fields() can override a mixin field with the same
// name (§9 "Mixin Order" convention: later/own declarations win).
func dedupeFieldsByName(t *Table) {
	last := make(map[string]int, len(t.Fields))
	for i, f := range t.Fields {
		last[f.Descriptor.Name] = i
	}
	out := make([]FieldDecl, 0, len(last))
	seen := make(map[string]struct{}, len(last))
	for i, f := range t.Fields {
		if last[f.Descriptor.Name] != i {
			continue
		}
		if _, ok := seen[f.Descriptor.Name]; ok {
			continue
		}
		seen[f.Descriptor.Name] = struct{}{}
		out = append(out, f)
	}
	t.Fields = out
}

// mergeAnnotations applies schema.Merger when two annotations share a
// Name, otherwise appends (§4.C "addAnnotation merge-via-Merger
// pattern").
func mergeAnnotations(existing []schema.Annotation, add []schema.Annotation) []schema.Annotation {
	out := append([]schema.Annotation{}, existing...)
	for _, a := range add {
		merged := false
		for i, e := range out {
			if e.Name() == a.Name() {
				if m, ok := e.(schema.Merger); ok {
					out[i] = m.Merge(a)
				} else {
					out[i] = a
				}
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, a)
		}
	}
	return out
}

// Indirect dereferences a pointer type down to its underlying element
// type, matching the teacher's compiler/load.indirect helper used
// while reflecting over schema declaration values.
func Indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// SortedNames returns the table names of decls in a deterministic
// order, used by codegen to make generated output order stable.
func SortedNames(decls map[string]drizzle.Interface) []string {
	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
