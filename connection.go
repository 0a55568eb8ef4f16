package fluentql

import "context"

// Row is one result row keyed by column name.
type Row map[string]any

// ConnectionDetails holds the settings for one named connection.
type ConnectionDetails struct {
	Options  map[string]string `koanf:"options"`
	Driver   string            `koanf:"driver"`
	Host     string            `koanf:"host"`
	Database string            `koanf:"database"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Prefix   string            `koanf:"prefix"`
	Port     int               `koanf:"port"`
}

// Connection produces sessions against one configured database.
type Connection interface {
	// MakeConnection returns a session, opening the database on first use.
	MakeConnection(ctx context.Context) (Session, error)

	// Details returns the settings the connection was built from.
	Details() ConnectionDetails
}

// Session executes compiled SQL.
type Session interface {
	// Query runs sql with bindings and returns the rows read. A positive
	// results caps the number of rows read.
	Query(ctx context.Context, sql string, bindings []any, results int) ([]Row, error)

	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, sql string, bindings []any) (int64, error)

	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
}
