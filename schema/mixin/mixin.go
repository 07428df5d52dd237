// Package mixin provides the base mixin implementation for drizzle
// table declarations.
//
// A mixin is a reusable set of fields and indexes that can be embedded
// in multiple table declarations.
//
// To create a custom mixin, embed Schema and override the methods you
// need:
//
//	type AuditMixin struct {
//	    mixin.Schema
//	}
//
//	func (AuditMixin) Fields() []drizzle.Field {
//	    return []drizzle.Field{
//	        field.Time("created_at").Default(time.Now).Immutable(),
//	        field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
//	    }
//	}
//
//	func (User) Mixin() []drizzle.Mixin {
//	    return []drizzle.Mixin{
//	        AuditMixin{},
//	    }
//	}
//
// Time, CreateTime, UpdateTime, SoftDelete and TimeSoftDelete below
// cover timestamps and soft delete; the contrib/mixin package adds the
// ID and TenantID mixins.
package mixin

import (
	"time"

	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/schema"
	"github.com/drizzle-go/drizzle/schema/field"
)

// Schema is the default implementation of drizzle.Mixin. It should be
// embedded in all custom mixin definitions.
type Schema struct{}

// Fields returns the fields of the mixin. Override to add custom fields.
func (Schema) Fields() []drizzle.Field { return nil }

// Indexes returns the indexes of the mixin. Override to add indexes.
func (Schema) Indexes() []drizzle.Index { return nil }

// Annotations returns the annotations of the mixin. Override to add
// custom annotations for code generators.
func (Schema) Annotations() []schema.Annotation { return nil }

var _ drizzle.Mixin = (*Schema)(nil)

// Time adds created_at and updated_at timestamp fields to a table.
// created_at is set automatically on creation and is immutable;
// updated_at is set on creation and refreshed on every update.
type Time struct{ Schema }

func (Time) Fields() []drizzle.Field {
	return []drizzle.Field{
		field.Time("created_at").
			Default(time.Now).
			Immutable().
			Comment("timestamp when the row was created"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now).
			Comment("timestamp when the row was last updated"),
	}
}

// CreateTime adds only created_at to a table.
type CreateTime struct{ Schema }

func (CreateTime) Fields() []drizzle.Field {
	return []drizzle.Field{
		field.Time("created_at").Default(time.Now).Immutable(),
	}
}

// UpdateTime adds only updated_at to a table.
type UpdateTime struct{ Schema }

func (UpdateTime) Fields() []drizzle.Field {
	return []drizzle.Field{
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

// SoftDelete adds a nullable deleted_at field. A non-null value means
// the row is considered deleted while remaining in the table.
type SoftDelete struct{ Schema }

func (SoftDelete) Fields() []drizzle.Field {
	return []drizzle.Field{
		field.Time("deleted_at").
			Optional().
			Nillable().
			Comment("set when the row is soft-deleted"),
	}
}

// TimeSoftDelete combines Time and SoftDelete.
type TimeSoftDelete struct{ Schema }

func (TimeSoftDelete) Fields() []drizzle.Field {
	return append(Time{}.Fields(), SoftDelete{}.Fields()...)
}

// AnnotateFields wraps a mixin and adds annotations to all its fields.
func AnnotateFields(m drizzle.Mixin, annotations ...schema.Annotation) drizzle.Mixin {
	return fieldAnnotator{Mixin: m, annotations: annotations}
}

type fieldAnnotator struct {
	drizzle.Mixin
	annotations []schema.Annotation
}

func (a fieldAnnotator) Fields() []drizzle.Field {
	fields := a.Mixin.Fields()
	for i := range fields {
		desc := fields[i].Descriptor()
		desc.Annotations = append(desc.Annotations, a.annotations...)
	}
	return fields
}
