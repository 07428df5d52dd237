// Package migrate implements the snapshot, diff, DDL emission, journal
// and migrator components (§4.G, §4.H, §4.I of the design).
package migrate

import (
	"fmt"
	"sort"

	"github.com/drizzle-go/drizzle/schema"
	"github.com/drizzle-go/drizzle/schema/field"
	"github.com/drizzle-go/drizzle/schema/index"
	"github.com/drizzle-go/drizzle/schema/load"
)

// Resolve turns a set of loaded table declarations into a schema.Schema,
// inferring the primary key from a field named "id" (§4.C "Schema model
// — supplemented": PK-by-convention, see DESIGN.md) and foreign keys
// from schema.ReferenceAnnotation. tables must already be namespace-
// unique; Resolve does not deduplicate.
func Resolve(dialectName string, tables []*load.Table) (*schema.Schema, error) {
	s := &schema.Schema{Dialect: dialectName}
	var errs []error
	for _, t := range tables {
		tbl, err := resolveTable(t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.Tables = append(s.Tables, tbl)
	}
	if len(errs) > 0 {
		return nil, joinErrors(errs)
	}
	return s, nil
}

func resolveTable(t *load.Table) (*schema.Table, error) {
	tbl := &schema.Table{Name: t.Name}
	for _, fd := range t.Fields {
		col, err := resolveColumn(t.Name, fd.Descriptor)
		if err != nil {
			return nil, err
		}
		tbl.Columns = append(tbl.Columns, col)
		if col.PrimaryKey {
			tbl.PrimaryKey = append(tbl.PrimaryKey, col.Name)
		}
	}
	for _, id := range t.Indexes {
		tbl.Indexes = append(tbl.Indexes, resolveIndex(t.Name, id.Descriptor))
	}
	sort.Strings(tbl.PrimaryKey)
	return tbl, nil
}

// resolveColumn maps one field.Descriptor to a schema.Column, resolving
// its dialect-neutral type tag, default, and any attached
// schema.ReferenceAnnotation into a schema.ForeignKey.
func resolveColumn(table string, d *field.Descriptor) (*schema.Column, error) {
	typeTag, err := typeTag(d)
	if err != nil {
		return nil, fmt.Errorf("migrate: table %q column %q: %w", table, d.Name, err)
	}
	col := &schema.Column{
		Name:          d.Name,
		Table:         table,
		Type:          typeTag,
		Nullable:      d.Optional || d.Nillable,
		Unique:        d.Unique,
		AutoIncrement: d.Name == "id" && (d.Info.Type == field.TypeInt || d.Info.Type == field.TypeInt64),
		Check:         d.Check,
	}
	if d.Name == "id" {
		col.PrimaryKey = true
		col.Nullable = false
	}
	if d.Info.Type == field.TypeEnum {
		col.Storage = schema.StorageEnum
		col.EnumName = table + "_" + d.Name
	}
	if d.DefaultKind == field.DefaultKindValue {
		col.Default = &schema.Default{Kind: schema.DefaultLiteral, Literal: d.Default}
	} else if d.DefaultKind == field.DefaultKindFunc {
		col.Default = &schema.Default{Kind: schema.DefaultCallable}
	}
	for _, a := range d.Annotations {
		if ref, ok := a.(schema.ReferenceAnnotation); ok {
			col.ForeignKey = ref.ForeignKey()
		}
	}
	return col, nil
}

// typeTag maps a field.Type to the dialect-neutral SQL type tag
// consumed by migrate/ddl.go's per-dialect type table.
func typeTag(d *field.Descriptor) (string, error) {
	switch d.Info.Type {
	case field.TypeInt, field.TypeInt64:
		return "int64", nil
	case field.TypeFloat64:
		return "float64", nil
	case field.TypeString:
		if d.Size > 0 {
			return fmt.Sprintf("varchar(%d)", d.Size), nil
		}
		return "text", nil
	case field.TypeBool:
		return "bool", nil
	case field.TypeTime:
		return "timestamp", nil
	case field.TypeBytes:
		return "blob", nil
	case field.TypeJSON:
		return "json", nil
	case field.TypeUUID:
		return "uuid", nil
	case field.TypeEnum:
		return "enum", nil
	default:
		return "", fmt.Errorf("unrecognized field type %v", d.Info.Type)
	}
}

func resolveIndex(table string, d *index.Descriptor) *schema.Index {
	name := d.StorageKey
	if name == "" {
		name = table
		for _, f := range d.Fields {
			name += "_" + f
		}
		name += "_idx"
	}
	return &schema.Index{
		Name:        name,
		Table:       table,
		Unique:      d.Unique,
		Method:      d.Method,
		Columns:     d.Fields,
		Expressions: d.Expressions,
		Where:       d.Where,
		Tablespace:  d.Tablespace,
		Concurrent:  d.Concurrent,
		IfNotExists: d.IfNotExists,
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msg := "migrate: multiple resolve errors:"
	for _, e := range errs {
		msg += "\n  " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
