package fluentql

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Scope is a named query modifier. It receives the builder and the
// caller's arguments and returns the builder with its predicates applied.
type Scope func(b *Builder, args ...any) *Builder

// builtins holds the normalized names of the Builder's fluent methods.
// Scopes may not shadow them.
var builtins = func() map[string]struct{} {
	names := []string{
		"select", "table", "where", "or_where", "where_op", "or_where_op",
		"where_sub", "or_where_sub", "where_group", "or_where_group",
		"where_exists", "where_not_exists", "where_exists_raw",
		"where_null", "where_not_null", "or_where_null", "or_where_not_null", "where_in", "where_not_in",
		"where_in_sub", "where_column", "or_where_column",
		"limit", "offset", "update", "increment", "decrement", "create",
		"delete", "delete_where", "order_by", "group_by",
		"sum", "count", "max", "min", "avg",
		"join", "left_join", "right_join",
		"new", "scope", "scopes", "try_scope", "set_scope",
		"table_name", "dialect", "details", "statement", "err",
		"compile", "to_sql", "must_sql", "to_qmark", "bindings",
		"first", "all", "get", "exec",
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[normalizeScopeName(name)] = struct{}{}
	}
	return set
}()

// normalizeScopeName folds case and underscores so "or_where", "OrWhere"
// and "orwhere" compare equal.
func normalizeScopeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

// IsBuiltin reports whether name refers to a built-in builder method.
func IsBuiltin(name string) bool {
	_, ok := builtins[normalizeScopeName(name)]
	return ok
}

// Scopes is a registry of named query modifiers. It is safe for
// concurrent use.
type Scopes struct {
	scopes map[string]Scope
	mu     sync.RWMutex
}

// NewScopes creates an empty registry.
func NewScopes() *Scopes {
	return &Scopes{scopes: make(map[string]Scope)}
}

// Register adds scope under name, replacing any scope already registered
// under that name.
func (s *Scopes) Register(name string, scope Scope) error {
	if name == "" {
		return fmt.Errorf("%w: scope name is required", ErrMalformedCall)
	}
	if scope == nil {
		return fmt.Errorf("%w: scope %q is nil", ErrMalformedCall, name)
	}
	if IsBuiltin(name) {
		return fmt.Errorf("%w: %q is a built-in method", ErrReservedScope, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopes[name] = scope
	return nil
}

// Lookup returns the scope registered under name.
func (s *Scopes) Lookup(name string) (Scope, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	scope, ok := s.scopes[name]
	return scope, ok
}

// Names returns the registered scope names in sorted order.
func (s *Scopes) Names() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.scopes))
	for name := range s.scopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scopes) clone() *Scopes {
	c := NewScopes()
	if s == nil {
		return c
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, scope := range s.scopes {
		c.scopes[name] = scope
	}
	return c
}

// SetScope registers scope under name for this builder and the builders
// derived from it. A registry shared with other builders is copied first
// and left unchanged.
func (b *Builder) SetScope(scope Scope, name string) *Builder {
	if b.err != nil {
		return b
	}
	scopes := b.scopes.clone()
	if err := scopes.Register(name, scope); err != nil {
		b.err = err
		return b
	}
	b.scopes = scopes
	return b
}

// Scopes returns the builder's scope registry, which may be nil.
func (b *Builder) Scopes() *Scopes {
	return b.scopes
}

// Scope applies the scope registered under name. An unregistered name
// records ErrUnknownCapability.
func (b *Builder) Scope(name string, args ...any) *Builder {
	if b.err != nil {
		return b
	}
	result, err := b.TryScope(name, args...)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	return result
}

// TryScope applies the scope registered under name and returns the
// resulting builder along with its error state.
func (b *Builder) TryScope(name string, args ...any) (*Builder, error) {
	if IsBuiltin(name) {
		return b, fmt.Errorf("%w: %q is a built-in method, call it directly", ErrUnknownCapability, name)
	}
	scope, ok := b.scopes.Lookup(name)
	if !ok {
		return b, fmt.Errorf("%w: %q", ErrUnknownCapability, name)
	}
	result := scope(b, args...)
	if result == nil {
		result = b
	}
	return result, result.err
}
