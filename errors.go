package fluentql

import (
	"errors"

	"github.com/zoobzio/fluentql/internal/render"
)

var (
	// ErrUnknownCapability is returned when a scope name is not registered.
	ErrUnknownCapability = errors.New("unknown capability")

	// ErrMalformedCall is returned when a fluent method is invoked with
	// arguments or in a state it cannot accept.
	ErrMalformedCall = errors.New("malformed call")

	// ErrReservedScope is returned when a scope name collides with a
	// built-in builder method.
	ErrReservedScope = errors.New("scope name is reserved")

	// ErrUnsupportedAction is returned when the compiler has no render
	// routine for the statement's action.
	ErrUnsupportedAction = render.ErrUnsupportedAction

	// ErrMalformedExpression is returned when a predicate cannot be rendered.
	ErrMalformedExpression = render.ErrMalformedExpression

	// ErrUnsupportedFeature is returned when a dialect lacks required syntax.
	ErrUnsupportedFeature = render.ErrUnsupportedFeature

	// ErrSchemaViolation is returned when a statement references a table or
	// column the schema does not define.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrNotFound is returned by First when the query yields no rows.
	ErrNotFound = errors.New("no rows found")

	// ErrNoConnection is returned by terminal operations on a builder with
	// no connection.
	ErrNoConnection = errors.New("no connection configured")
)
