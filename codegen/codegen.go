package codegen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/drizzle-go/drizzle/schema"
)

// Generate builds the *jen.File for one table: the zero-sized table
// token, one zero-sized token per column, an insert-shape type, an
// update-shape type, and a select-row type (§4.C). The output is a
// deterministic, pure function of t — no I/O, matching §4.G's "pure
// function of" idiom for deterministic generators.
func Generate(pkgName string, t *schema.Table) (*jen.File, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("codegen: table %q has no columns", t.Name)
	}
	f := jen.NewFile(pkgName)
	f.HeaderComment("Code generated by drizzle codegen. DO NOT EDIT.")
	f.ImportName("github.com/drizzle-go/drizzle/qb", "qb")

	singular := typeName(t.Name)
	plural := pluralTypeName(t.Name)

	genTableToken(f, t, plural, singular)
	for _, c := range t.Columns {
		genColumnToken(f, t, c, plural)
	}
	genRowType(f, t, singular)
	genInsertType(f, t, plural, singular)
	genUpdateType(f, t, plural)

	return f, nil
}

// genTableToken emits the zero-sized table token. Its "associated
// type" (§4.C: "a zero-sized table token whose associated type is the
// table's select-row type") is expressed as a Row method returning the
// select-row type's zero value, since Go has no associated types.
func genTableToken(f *jen.File, t *schema.Table, plural, singular string) {
	tableType := plural + "Table"
	recv := receiverName(tableType)

	f.Commentf("%s is the zero-sized token for the %q table.", tableType, t.Name)
	f.Type().Id(tableType).Struct()

	f.Commentf("Name returns the %q table's SQL name.", t.Name)
	f.Func().Params(jen.Id(recv).Id(tableType)).Id("Name").Params().String().Block(
		jen.Return(jen.Lit(t.Name)),
	)

	f.Commentf("Row returns the zero value of the table's select-row type, standing in for the associated type Go lacks (§4.C).")
	f.Func().Params(jen.Id(recv).Id(tableType)).Id("Row").Params().Id(singular + "Row").Block(
		jen.Return(jen.Id(singular + "Row").Values()),
	)
}

// receiverName picks a one-letter receiver name from typeName's first
// rune, lowercased, matching the teacher's short-receiver convention
// (compiler/gen/sql/globalid.go uses "g" for GlobalID).
func receiverName(goTypeName string) string {
	return strings.ToLower(goTypeName[:1])
}

// genColumnToken emits one zero-sized column token per column, with
// its PK/NOT-NULL/UNIQUE/auto-increment flags as untyped bool constants and a
// Name accessor (§4.C "one zero-sized token per column ... whose
// associated constants expose PK/NN/UNIQUE/auto-increment flags").
func genColumnToken(f *jen.File, t *schema.Table, c *schema.Column, plural string) {
	tokenName := plural + columnFieldName(c.Name) + "Column"
	f.Commentf("%s is the column token for %s.%s.", tokenName, t.Name, c.Name)
	f.Type().Id(tokenName).Struct()

	f.Const().Defs(
		jen.Id(tokenName+"PrimaryKey").Op("=").Lit(c.PrimaryKey),
		jen.Id(tokenName+"NotNull").Op("=").Lit(!c.Nullable),
		jen.Id(tokenName+"Unique").Op("=").Lit(c.Unique),
		jen.Id(tokenName+"AutoIncrement").Op("=").Lit(c.AutoIncrement),
	)

	f.Func().Params(jen.Id(receiverName(tokenName)).Id(tokenName)).Id("Name").Params().String().Block(
		jen.Return(jen.Lit(c.Name)),
	)
}

// genRowType emits the select-row type: field types match each
// column's scalar host type, tagged for driverfacade's `db:"..."` row
// decoding (§4.C "a select-row type whose fields match the column
// types"; driverfacade.DecodeAll's by-tag matching).
func genRowType(f *jen.File, t *schema.Table, singular string) {
	f.Commentf("%sRow is the select-row type for %q.", singular, t.Name)
	f.Type().Id(singular + "Row").StructFunc(func(g *jen.Group) {
		for _, c := range t.Columns {
			stmt := hostType(c)
			if c.Nullable {
				stmt = jen.Op("*").Add(stmt)
			}
			g.Id(columnFieldName(c.Name)).Add(stmt).Tag(map[string]string{"db": c.Name})
		}
	})
}

// genInsertType emits the insert-shape type: one qb.ColumnValue field
// per column, defaulting to unset (§4.C "value, default-requested,
// unset"), plus Row (to qb.Row) and Validate (the compile-time
// constraint re-expressed as a runtime check, per §9's "enforce the
// state at runtime with a discrete enum and panic-free error returns"
// fallback).
func genInsertType(f *jen.File, t *schema.Table, plural, singular string) {
	insertName := plural + "Insert"
	f.Commentf("%s is the insert-shape type for %q: every column starts unset.", insertName, t.Name)
	f.Type().Id(insertName).StructFunc(func(g *jen.Group) {
		for _, c := range t.Columns {
			g.Id(columnFieldName(c.Name)).Qual("github.com/drizzle-go/drizzle/qb", "ColumnValue")
		}
	})

	f.Commentf("New%s returns a %s with every column unset.", insertName, insertName)
	f.Func().Id("New"+insertName).Params().Op("*").Id(insertName).Block(
		jen.Return(jen.Op("&").Id(insertName).Values()),
	)

	f.Commentf("Row converts r to a qb.Row keyed by SQL column name.")
	f.Func().Params(jen.Id("r").Id(insertName)).Id("Row").Params().Qual("github.com/drizzle-go/drizzle/qb", "Row").BlockFunc(func(g *jen.Group) {
		g.Id("row").Op(":=").Qual("github.com/drizzle-go/drizzle/qb", "Row").Values(jen.DictFunc(func(d jen.Dict) {
			for _, c := range t.Columns {
				d[jen.Lit(c.Name)] = jen.Id("r").Dot(columnFieldName(c.Name))
			}
		}))
		g.Return(jen.Id("row"))
	})

	f.Commentf("Validate checks %s against §4.C's insert-shape constraint: no NOT-NULL column without a default may stay unset, and a primary-key column may stay unset only if it is auto-increment.", insertName)
	f.Func().Params(jen.Id("r").Id(insertName)).Id("Validate").Params().Error().BlockFunc(func(g *jen.Group) {
		for _, c := range t.Columns {
			if c.AutoIncrement || c.Default != nil {
				continue
			}
			if !c.PrimaryKey && c.Nullable {
				continue
			}
			field := columnFieldName(c.Name)
			g.If(jen.Id("r").Dot(field).Dot("IsUnset").Call()).Block(
				jen.Return(jen.Qual("errors", "New").Call(jen.Lit(fmt.Sprintf("%s: column %s has no default and cannot be left unset", insertName, c.Name)))),
			)
		}
		g.Return(jen.Nil())
	})
}

// genUpdateType emits the update-shape type: identical field shape to
// the insert-shape (every column is optional by construction of
// qb.ColumnValue), named distinctly per §4.C ("an update-shape type
// where every column is optional").
func genUpdateType(f *jen.File, t *schema.Table, plural string) {
	updateName := plural + "Update"
	f.Commentf("%s is the update-shape type for %q: every column is optional.", updateName, t.Name)
	f.Type().Id(updateName).StructFunc(func(g *jen.Group) {
		for _, c := range t.Columns {
			g.Id(columnFieldName(c.Name)).Qual("github.com/drizzle-go/drizzle/qb", "ColumnValue")
		}
	})

	f.Commentf("Row converts u to a qb.Row containing only the columns that were set.")
	f.Func().Params(jen.Id("u").Id(updateName)).Id("Row").Params().Qual("github.com/drizzle-go/drizzle/qb", "Row").BlockFunc(func(g *jen.Group) {
		g.Id("row").Op(":=").Make(jen.Qual("github.com/drizzle-go/drizzle/qb", "Row"))
		for _, c := range t.Columns {
			field := columnFieldName(c.Name)
			g.If(jen.Op("!").Id("u").Dot(field).Dot("IsUnset").Call()).Block(
				jen.Id("row").Index(jen.Lit(c.Name)).Op("=").Id("u").Dot(field),
			)
		}
		g.Return(jen.Id("row"))
	})
}

// hostType maps a column's dialect-neutral type tag to its Go host
// type, mirroring migrate/ddl.go's columnType (same tag set, see
// migrate/resolve.go's typeTag) but targeting Go types rather than SQL
// type names.
func hostType(c *schema.Column) *jen.Statement {
	if c.Storage == schema.StorageEnum {
		return jen.String()
	}
	switch {
	case strings.HasPrefix(c.Type, "varchar("):
		return jen.String()
	}
	switch c.Type {
	case "int64":
		return jen.Int64()
	case "float64":
		return jen.Float64()
	case "text":
		return jen.String()
	case "bool":
		return jen.Bool()
	case "timestamp":
		return jen.Qual("time", "Time")
	case "blob":
		return jen.Index().Byte()
	case "json":
		return jen.Qual("encoding/json", "RawMessage")
	case "uuid":
		return jen.Qual("github.com/google/uuid", "UUID")
	default:
		return jen.String()
	}
}
