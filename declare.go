package drizzle

import (
	"github.com/drizzle-go/drizzle/schema"
	"github.com/drizzle-go/drizzle/schema/field"
	"github.com/drizzle-go/drizzle/schema/index"
)

// Field is implemented by every schema/field builder: Int, String,
// Bool, and so on (§4.C).
type Field interface {
	Descriptor() *field.Descriptor
}

// Index is implemented by schema/index.Builder (§4.C).
type Index interface {
	Descriptor() *index.Descriptor
}

// Mixin is a reusable set of fields and indexes that can be embedded in
// multiple table declarations (schema/mixin.Schema implements this).
type Mixin interface {
	Fields() []Field
	Indexes() []Index
	Annotations() []schema.Annotation
}

// Interface is implemented by a table declaration: a Go type that
// embeds Schema and overrides Fields/Indexes/Mixin/Annotations. The
// schema/load package reads values satisfying this interface by calling
// these methods; it does not type-check source code (§3 "encoded as
// data that is also reflectable at runtime").
type Interface interface {
	Fields() []Field
	Mixin() []Mixin
	Indexes() []Index
	Annotations() []schema.Annotation
}

// Schema is the base type every table declaration embeds, the same
// way ent schemas embed ent.Schema. Overriding any of Fields/Mixin/
// Indexes/Annotations customizes the table; the rest default to empty.
type Schema struct{}

func (Schema) Fields() []Field                  { return nil }
func (Schema) Mixin() []Mixin                   { return nil }
func (Schema) Indexes() []Index                 { return nil }
func (Schema) Annotations() []schema.Annotation { return nil }

var _ Interface = (*Schema)(nil)
