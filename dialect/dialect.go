// Package dialect defines the SQL dialect names and the minimal driver
// contracts shared by every other package in this module: the fragment
// renderer (package render) needs to know which placeholder style and
// identifier quoting to use, and the driver façade (package driverfacade)
// needs a uniform Driver/Tx/ExecQuerier surface that works the same way
// whether it is backed by database/sql or by an async driver.
package dialect

import "context"

// Dialect name constants. These are also the values accepted by
// database/sql.Open's driverName for the drivers registered by this
// module (see dialect/sql).
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
	MySQL    = "mysql"

	// Turso and SingleStore are not first-class dialects: per the
	// REDESIGN / Open Questions in the design, Turso maps to the
	// SQLite DDL rules and SingleStore maps to the MySQL DDL rules.
	// They exist as constants so config loaders and CLI front ends
	// (out of scope here) can accept the name and translate it before
	// it ever reaches the renderer or DDL emitter.
	Turso       = "turso"
	SingleStore = "singlestore"
)

// Canonical maps a possibly-aliased dialect name to the dialect whose
// rendering/DDL rules actually apply, per the Open Question in §9 of
// the design: SingleStore behaves like MySQL and Turso behaves like
// SQLite. It returns ("", false) for an unrecognized name so callers
// can surface a warning instead of silently guessing.
func Canonical(name string) (string, bool) {
	switch name {
	case SQLite, Postgres, MySQL:
		return name, true
	case Turso:
		return SQLite, true
	case SingleStore:
		return MySQL, true
	default:
		return "", false
	}
}

// ExecQuerier wraps the two database operations every dialect driver
// must support. Both database/sql-backed and hypothetical async
// drivers implement it the same way: args is a []any, v is an output
// parameter whose concrete type is defined by the implementation
// (typically *sql.Result or *Rows).
type ExecQuerier interface {
	Exec(ctx Ctx, query string, args, v any) error
	Query(ctx Ctx, query string, args, v any) error
}

// Driver is the top-level handle: an ExecQuerier that can also start
// transactions, report its dialect, and close its underlying
// connection(s) (§4.F).
type Driver interface {
	ExecQuerier
	Tx(ctx Ctx) (Tx, error)
	Dialect() string
	Close() error
}

// Tx is the transaction handle returned by Driver.Tx: an ExecQuerier
// that also knows its dialect and can be committed or rolled back
// (§4.F, §5). It intentionally does not require Close/nested-Tx so a
// plain database/sql.Tx-backed value satisfies it directly.
type Tx interface {
	ExecQuerier
	Dialect() string
	Commit() error
	Rollback() error
}

// Ctx is an alias for context.Context, kept local so the driver
// contracts in this file read without an extra import at every call
// site in the dialect sub-packages.
type Ctx = context.Context

// IsSQLite reports whether the canonical dialect for name is SQLite
// (covers SQLite and Turso).
func IsSQLite(name string) bool { c, ok := Canonical(name); return ok && c == SQLite }

// IsPostgres reports whether the canonical dialect for name is PostgreSQL.
func IsPostgres(name string) bool { c, ok := Canonical(name); return ok && c == Postgres }

// IsMySQL reports whether the canonical dialect for name is MySQL
// (covers MySQL and SingleStore).
func IsMySQL(name string) bool { c, ok := Canonical(name); return ok && c == MySQL }
