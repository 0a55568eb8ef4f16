// Package fluentql provides a fluent query builder that compiles to
// dialect-correct SQL.
//
// A Builder accumulates the clause state of one statement. A terminal call
// moves that state into the grammar compiler and leaves the builder empty,
// so the same builder can be reused for an unrelated statement.
//
// # Basic Usage
//
//	import "github.com/zoobzio/fluentql/pkg/postgres"
//
//	sql, err := fluentql.New(postgres.New(), "users").
//		Where("active", 1).
//		OrWhere("gender", "W").
//		ToSQL()
//	// SELECT * FROM "users" WHERE "active" = 1 OR "gender" = 'W'
//
// # Placeholder Mode
//
// ToQmark renders the dialect's native marker (?, $n or @pn) in place of
// each value and records the values, in marker order, as bindings:
//
//	b := fluentql.New(mysql.New(), "users").Where("active", 2).OrWhere("gender", "W")
//	sql, err := b.ToQmark()
//	// SELECT * FROM `users` WHERE `active` = ? OR `gender` = ?
//	// b.Bindings(): []any{2, "W"}
//
// # Nesting
//
// Sub-selects and sub-groups are built on a derived builder obtained from
// New, so nested state never aliases the parent's:
//
//	users := fluentql.New(postgres.New(), "users")
//	users.WhereInSub("id", users.New().Table("orders").Select("user_id")).
//		WhereGroup(func(q *fluentql.Builder) {
//			q.Where("age", 18).OrWhere("verified", true)
//		})
//
// # Scopes
//
// Named query modifiers can be registered on a Model (or a Scopes registry)
// and invoked by name:
//
//	users := fluentql.NewModel("users", postgres.New())
//	users.AddScope("active", func(b *fluentql.Builder, args ...any) *fluentql.Builder {
//		return b.Where("active", args[0])
//	})
//	sql, err := users.Query().Scope("active", 1).Where("name", "joe").ToSQL()
//
// # Supported Dialects
//
// MySQL and MariaDB (pkg/mysql), PostgreSQL (pkg/postgres), SQLite
// (pkg/sqlite) and SQL Server (pkg/mssql). Dialects differ only in
// identifier quoting, placeholder tokens, literal escaping and
// pagination syntax.
package fluentql

import (
	"github.com/zoobzio/fluentql/internal/render"
	"github.com/zoobzio/fluentql/internal/types"
)

// Dialect is the per-database surface consulted by the compiler.
type Dialect = render.Dialect

// Capabilities describes optional syntax supported by a dialect.
type Capabilities = render.Capabilities

// Mode selects literal or placeholder compilation.
type Mode = render.Mode

// Re-export mode constants for public API.
const (
	ModeLiteral     = render.ModeLiteral
	ModePlaceholder = render.ModePlaceholder
)

// Statement is the clause state of a statement in progress.
type Statement = types.Statement

// Action represents which SQL statement a builder targets.
type Action = types.Action

// Re-export action constants for public API.
const (
	ActionNone   = types.ActionNone
	ActionSelect = types.ActionSelect
	ActionInsert = types.ActionInsert
	ActionUpdate = types.ActionUpdate
	ActionDelete = types.ActionDelete
)

// Direction represents sort direction.
type Direction = types.Direction

// Re-export direction constants for public API.
const (
	ASC  = types.ASC
	DESC = types.DESC
)

// Operator represents SQL comparison operators.
type Operator = types.Operator

// Re-export operator constants for public API.
const (
	// Basic comparison operators.
	EQ = types.EQ
	NE = types.NE
	GT = types.GT
	GE = types.GE
	LT = types.LT
	LE = types.LE

	// Extended operators.
	IN        = types.IN
	NotIn     = types.NotIn
	LIKE      = types.LIKE
	NotLike   = types.NotLike
	IsNull    = types.IsNull
	IsNotNull = types.IsNotNull
	EXISTS    = types.EXISTS
	NotExists = types.NotExists
)

// AggregateFunc represents SQL aggregate functions.
type AggregateFunc = types.AggregateFunc

// Re-export aggregate function constants for public API.
const (
	AggSum   = types.AggSum
	AggCount = types.AggCount
	AggMax   = types.AggMax
	AggMin   = types.AggMin
	AggAvg   = types.AggAvg
)

// UnsupportedFeatureError indicates a feature not supported by the dialect.
type UnsupportedFeatureError = render.UnsupportedFeatureError

// UnsupportedActionError indicates an action the compiler cannot render.
type UnsupportedActionError = render.UnsupportedActionError

// MalformedExpressionError indicates a predicate the compiler cannot render.
type MalformedExpressionError = render.MalformedExpressionError
