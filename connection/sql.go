package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zoobzio/fluentql"
)

var (
	// ErrTransactionActive is returned by Begin while a transaction is open.
	ErrTransactionActive = errors.New("transaction already in progress")

	// ErrNoTransaction is returned by Commit and Rollback with no open
	// transaction.
	ErrNoTransaction = errors.New("no transaction in progress")
)

// executor is satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLConnection is a fluentql.Connection backed by database/sql. The
// database is opened on the first MakeConnection call. Statements run
// inside the open transaction, if any.
type SQLConnection struct {
	db      *sql.DB
	tx      *sql.Tx
	logger  *slog.Logger
	details fluentql.ConnectionDetails
	mu      sync.Mutex
}

// SQLOption configures an SQLConnection.
type SQLOption func(*SQLConnection)

// WithDB uses an already open database instead of opening one from the
// connection details.
func WithDB(db *sql.DB) SQLOption {
	return func(c *SQLConnection) {
		c.db = db
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) SQLOption {
	return func(c *SQLConnection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewSQLConnection creates a connection for details. The driver must be
// one of Drivers().
func NewSQLConnection(details fluentql.ConnectionDetails, opts ...SQLOption) (*SQLConnection, error) {
	if _, err := lookupDriver(details.Driver); err != nil {
		return nil, err
	}
	c := &SQLConnection{
		details: WithDefaults(details),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Details returns the settings the connection was built from.
func (c *SQLConnection) Details() fluentql.ConnectionDetails {
	return c.details
}

// Dialect returns the SQL dialect for the connection's driver.
func (c *SQLConnection) Dialect() fluentql.Dialect {
	d, _ := DialectFor(c.details.Driver)
	return d
}

// MakeConnection opens the database on first use and returns a session.
func (c *SQLConnection) MakeConnection(ctx context.Context) (fluentql.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		d, err := lookupDriver(c.details.Driver)
		if err != nil {
			return nil, err
		}
		dsn, err := d.dsn(c.details)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open(d.sqlName, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s database: %w", c.details.Driver, err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to %s database: %w", c.details.Driver, err)
		}
		c.logger.Debug("opened database connection",
			"driver", c.details.Driver,
			"host", c.details.Host,
			"database", c.details.Database)
		c.db = db
	}
	return &sqlSession{conn: c}, nil
}

// Close rolls back any open transaction and closes the database.
func (c *SQLConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	if c.db == nil {
		return nil
	}
	c.logger.Debug("closing database connection", "driver", c.details.Driver)
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *SQLConnection) executor() (executor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx != nil {
		return c.tx, nil
	}
	if c.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	return c.db, nil
}

type sqlSession struct {
	conn *SQLConnection
}

func (s *sqlSession) Query(ctx context.Context, query string, bindings []any, results int) ([]fluentql.Row, error) {
	ex, err := s.conn.executor()
	if err != nil {
		return nil, err
	}
	s.conn.logger.Debug("executing query", "sql", query, "bindings", len(bindings))

	rows, err := ex.QueryContext(ctx, query, bindings...)
	if err != nil {
		s.conn.logger.Error("query failed", "sql", query, "error", err)
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []fluentql.Row
	for (results <= 0 || len(out) < results) && rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(fluentql.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func (s *sqlSession) Exec(ctx context.Context, query string, bindings []any) (int64, error) {
	ex, err := s.conn.executor()
	if err != nil {
		return 0, err
	}
	s.conn.logger.Debug("executing statement", "sql", query, "bindings", len(bindings))

	res, err := ex.ExecContext(ctx, query, bindings...)
	if err != nil {
		s.conn.logger.Error("statement failed", "sql", query, "error", err)
		return 0, fmt.Errorf("failed to execute SQL: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

func (s *sqlSession) Begin(ctx context.Context) error {
	c := s.conn
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return fmt.Errorf("database connection not established")
	}
	if c.tx != nil {
		return ErrTransactionActive
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	c.tx = tx
	c.logger.Debug("began transaction", "driver", c.details.Driver)
	return nil
}

func (s *sqlSession) Commit() error {
	return s.finish("commit", (*sql.Tx).Commit)
}

func (s *sqlSession) Rollback() error {
	return s.finish("rollback", (*sql.Tx).Rollback)
}

func (s *sqlSession) finish(verb string, fn func(*sql.Tx) error) error {
	c := s.conn
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx == nil {
		return ErrNoTransaction
	}
	tx := c.tx
	c.tx = nil
	if err := fn(tx); err != nil {
		c.logger.Error("transaction failed", "action", verb, "error", err)
		return fmt.Errorf("failed to %s transaction: %w", verb, err)
	}
	c.logger.Debug("finished transaction", "action", verb)
	return nil
}
