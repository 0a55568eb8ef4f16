package fluentql

import (
	"fmt"

	"github.com/zoobzio/fluentql/internal/render"
	"github.com/zoobzio/fluentql/internal/types"
)

// QueryResult contains compiled SQL and, in placeholder mode, the values
// bound to its markers in marker order.
type QueryResult struct {
	SQL      string
	Bindings []any
}

// Compile moves the statement in progress out of the builder and renders
// it in mode. The builder is left empty whether or not compilation
// succeeds, and no partial SQL is ever returned.
func (b *Builder) Compile(mode Mode) (*QueryResult, error) {
	b.bindings = nil
	stmt, err := b.take()
	if err != nil {
		return nil, err
	}
	return b.compile(stmt, mode)
}

func (b *Builder) compile(stmt *types.Statement, mode Mode) (*QueryResult, error) {
	if b.schema != nil {
		if err := b.schema.Validate(stmt); err != nil {
			return nil, err
		}
	}

	result, err := render.Compile(b.dialect, stmt, mode)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("compiled statement",
		"dialect", b.dialect.Name(),
		"action", actionName(stmt.Action),
		"mode", mode.String(),
		"bindings", len(result.Bindings))

	return &QueryResult{SQL: result.SQL, Bindings: result.Bindings}, nil
}

// ToSQL compiles with every value inlined as a quoted literal.
func (b *Builder) ToSQL() (string, error) {
	result, err := b.Compile(ModeLiteral)
	if err != nil {
		return "", err
	}
	return result.SQL, nil
}

// MustSQL is ToSQL that panics on error.
func (b *Builder) MustSQL() string {
	sql, err := b.ToSQL()
	if err != nil {
		panic(fmt.Sprintf("fluentql: %v", err))
	}
	return sql
}

// ToQmark compiles with the dialect's placeholder markers. The values for
// the markers are available from Bindings until the next compile.
func (b *Builder) ToQmark() (string, error) {
	result, err := b.Compile(ModePlaceholder)
	if err != nil {
		return "", err
	}
	b.bindings = result.Bindings
	return result.SQL, nil
}

// Bindings returns the values recorded by the last ToQmark call.
func (b *Builder) Bindings() []any {
	return b.bindings
}

func actionName(action types.Action) string {
	if action == types.ActionNone {
		return string(types.ActionSelect)
	}
	return string(action)
}
