package connection

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/zoobzio/fluentql"
)

// Factory builds a connection from its details.
type Factory func(details fluentql.ConnectionDetails, logger *slog.Logger) (fluentql.Connection, error)

func sqlFactory(details fluentql.ConnectionDetails, logger *slog.Logger) (fluentql.Connection, error) {
	return NewSQLConnection(details, WithLogger(logger))
}

// Resolver hands out connections by name, creating each on first use, and
// tracks one open transaction per name. It is safe for concurrent use.
type Resolver struct {
	cfg         *Config
	factory     Factory
	logger      *slog.Logger
	connections map[string]fluentql.Connection
	txs         map[string]fluentql.Session
	mu          sync.Mutex
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFactory replaces the database/sql connection factory.
func WithFactory(factory Factory) ResolverOption {
	return func(r *Resolver) {
		if factory != nil {
			r.factory = factory
		}
	}
}

// WithResolverLogger sets the logger passed to created connections.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver over cfg.
func NewResolver(cfg *Config, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		factory:     sqlFactory,
		logger:      slog.Default(),
		connections: make(map[string]fluentql.Connection),
		txs:         make(map[string]fluentql.Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.SetConnectionDetails(cfg)
	return r
}

// SetConnectionDetails replaces the configuration. Connections already
// created are kept; names resolved afterwards use the new details.
func (r *Resolver) SetConnectionDetails(cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Connections == nil {
		cfg.Connections = make(map[string]fluentql.ConnectionDetails)
	}
	cfg.ApplyDefaults()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
}

// DefaultName returns the name used when an empty name is resolved.
func (r *Resolver) DefaultName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg.Default
}

func (r *Resolver) resolveName(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if r.cfg.Default == "" {
		return "", fmt.Errorf("no connection name given and no default configured")
	}
	return r.cfg.Default, nil
}

// Connection returns the connection registered under name, or the default
// connection when name is empty.
func (r *Resolver) Connection(name string) (fluentql.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connection(name)
}

func (r *Resolver) connection(name string) (fluentql.Connection, error) {
	name, err := r.resolveName(name)
	if err != nil {
		return nil, err
	}
	if conn, ok := r.connections[name]; ok {
		return conn, nil
	}
	details, ok := r.cfg.Connections[name]
	if !ok {
		return nil, fmt.Errorf("connection %q is not configured", name)
	}
	conn, err := r.factory(details, r.logger)
	if err != nil {
		return nil, fmt.Errorf("connection %q: %w", name, err)
	}
	r.connections[name] = conn
	return conn, nil
}

// Dialect returns the SQL dialect of the named connection.
func (r *Resolver) Dialect(name string) (fluentql.Dialect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, err := r.resolveName(name)
	if err != nil {
		return nil, err
	}
	details, ok := r.cfg.Connections[name]
	if !ok {
		return nil, fmt.Errorf("connection %q is not configured", name)
	}
	return DialectFor(details.Driver)
}

// Query returns a builder for table bound to the named connection and its
// dialect.
func (r *Resolver) Query(name, table string, opts ...fluentql.Option) (*fluentql.Builder, error) {
	dialect, err := r.Dialect(name)
	if err != nil {
		return nil, err
	}
	conn, err := r.Connection(name)
	if err != nil {
		return nil, err
	}
	opts = append([]fluentql.Option{fluentql.WithConnection(conn), fluentql.WithLogger(r.logger)}, opts...)
	return fluentql.New(dialect, table, opts...), nil
}

// BeginTransaction opens a transaction on the named connection. Builders
// executing through that connection run inside it until Commit or
// Rollback.
func (r *Resolver) BeginTransaction(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, err := r.resolveName(name)
	if err != nil {
		return err
	}
	if _, open := r.txs[name]; open {
		return fmt.Errorf("connection %q: %w", name, ErrTransactionActive)
	}
	conn, err := r.connection(name)
	if err != nil {
		return err
	}
	session, err := conn.MakeConnection(ctx)
	if err != nil {
		return fmt.Errorf("connection %q: %w", name, err)
	}
	if err := session.Begin(ctx); err != nil {
		return fmt.Errorf("connection %q: %w", name, err)
	}
	r.txs[name] = session
	return nil
}

// Commit commits the transaction open on the named connection.
func (r *Resolver) Commit(name string) error {
	return r.finish(name, fluentql.Session.Commit)
}

// Rollback rolls back the transaction open on the named connection.
func (r *Resolver) Rollback(name string) error {
	return r.finish(name, fluentql.Session.Rollback)
}

func (r *Resolver) finish(name string, fn func(fluentql.Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, err := r.resolveName(name)
	if err != nil {
		return err
	}
	session, open := r.txs[name]
	if !open {
		return fmt.Errorf("connection %q: %w", name, ErrNoTransaction)
	}
	delete(r.txs, name)
	if err := fn(session); err != nil {
		return fmt.Errorf("connection %q: %w", name, err)
	}
	return nil
}

// InTransaction reports whether a transaction is open on the named
// connection.
func (r *Resolver) InTransaction(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, err := r.resolveName(name)
	if err != nil {
		return false
	}
	_, open := r.txs[name]
	return open
}

// Close closes every connection the resolver created. Open transactions
// are rolled back by the connections themselves.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for name, conn := range r.connections {
		if closer, ok := conn.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("connection %q: %w", name, err)
			}
		}
	}
	r.connections = make(map[string]fluentql.Connection)
	r.txs = make(map[string]fluentql.Session)
	return firstErr
}
