package fluentql

import (
	"context"
	"fmt"

	"github.com/zoobzio/fluentql/internal/types"
)

// First runs the statement as a SELECT capped at one row and returns
// that row, or ErrNotFound.
func (b *Builder) First(ctx context.Context) (Row, error) {
	if b.err == nil {
		one := 1
		b.stmt.Action = types.ActionSelect
		b.stmt.Limit = &one
	}
	rows, err := b.query(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// All runs the statement as built and returns every row.
func (b *Builder) All(ctx context.Context) ([]Row, error) {
	return b.query(ctx, 0)
}

// Get runs the statement as a SELECT and returns every row.
func (b *Builder) Get(ctx context.Context) ([]Row, error) {
	if b.err == nil {
		b.stmt.Action = types.ActionSelect
	}
	return b.query(ctx, 0)
}

// Exec runs an INSERT, UPDATE or DELETE and returns the affected row count.
func (b *Builder) Exec(ctx context.Context) (int64, error) {
	if b.err == nil {
		switch b.stmt.Action {
		case types.ActionInsert, types.ActionUpdate, types.ActionDelete:
		default:
			b.fail("Exec() requires an insert, update or delete, got %s", actionName(b.stmt.Action))
		}
	}
	sql, bindings, err := b.prepare()
	if err != nil {
		return 0, err
	}

	session, err := b.conn.MakeConnection(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to open connection: %w", err)
	}
	affected, err := session.Exec(ctx, sql, bindings)
	if err != nil {
		return 0, fmt.Errorf("exec failed: %w", err)
	}
	return affected, nil
}

func (b *Builder) query(ctx context.Context, results int) ([]Row, error) {
	sql, bindings, err := b.prepare()
	if err != nil {
		return nil, err
	}

	session, err := b.conn.MakeConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	rows, err := session.Query(ctx, sql, bindings, results)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return rows, nil
}

// prepare compiles in placeholder mode for execution. The statement is
// consumed even when no connection is configured.
func (b *Builder) prepare() (string, []any, error) {
	sql, err := b.ToQmark()
	if err != nil {
		return "", nil, err
	}
	if b.conn == nil {
		return "", nil, ErrNoConnection
	}
	return sql, b.bindings, nil
}
