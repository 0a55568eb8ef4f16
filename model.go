package fluentql

// Model binds a table, a dialect and a set of scopes defined once and
// queried many times.
type Model struct {
	dialect Dialect
	scopes  *Scopes
	table   string
	opts    []Option
}

// NewModel defines a model over table. The options are applied to every
// builder returned by Query.
func NewModel(table string, dialect Dialect, opts ...Option) *Model {
	return &Model{
		dialect: dialect,
		scopes:  NewScopes(),
		table:   table,
		opts:    opts,
	}
}

// AddScope registers a scope available to every query on the model.
func (m *Model) AddScope(name string, scope Scope) error {
	return m.scopes.Register(name, scope)
}

// Scopes returns the model's registry.
func (m *Model) Scopes() *Scopes {
	return m.scopes
}

// Table returns the model's table.
func (m *Model) Table() string {
	return m.table
}

// Query returns a fresh builder carrying the model's scopes.
func (m *Model) Query() *Builder {
	opts := make([]Option, 0, len(m.opts)+1)
	opts = append(opts, m.opts...)
	opts = append(opts, WithScopes(m.scopes))
	return New(m.dialect, m.table, opts...)
}
