// Package mixin provides common, ready-to-use mixin implementations
// built on top of schema/mixin. They are optional starting points; see
// schema/mixin to write project-specific ones.
//
//	import "github.com/drizzle-go/drizzle/contrib/mixin"
//
//	func (User) Mixin() []drizzle.Mixin {
//	    return []drizzle.Mixin{
//	        mixin.Time{},
//	        mixin.SoftDelete{},
//	    }
//	}
package mixin

import (
	"github.com/google/uuid"

	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/schema/field"
	basemixin "github.com/drizzle-go/drizzle/schema/mixin"
)

// Time, CreateTime, UpdateTime, SoftDelete and TimeSoftDelete are
// re-exported from schema/mixin so contrib callers do not need to
// import both packages for the common case.
type (
	Time           = basemixin.Time
	CreateTime     = basemixin.CreateTime
	UpdateTime     = basemixin.UpdateTime
	SoftDelete     = basemixin.SoftDelete
	TimeSoftDelete = basemixin.TimeSoftDelete
)

// ID adds a UUID primary key field generated with google/uuid.
//
// Generated column: id TEXT NOT NULL PRIMARY KEY (UUID text encoding,
// per value.From's uuid.UUID case).
type ID struct{ basemixin.Schema }

func (ID) Fields() []drizzle.Field {
	return []drizzle.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Unique().
			Immutable(),
	}
}

var _ drizzle.Mixin = (*ID)(nil)

// TenantID adds an immutable tenant_id column for multi-tenant row
// ownership. It only declares the column; row-level tenant filtering
// is the caller's responsibility (query-interceptor/privacy layers are
// out of scope for this toolkit).
type TenantID struct{ basemixin.Schema }

func (TenantID) Fields() []drizzle.Field {
	return []drizzle.Field{
		field.String("tenant_id").
			Immutable().
			NotEmpty(),
	}
}

var _ drizzle.Mixin = (*TenantID)(nil)
