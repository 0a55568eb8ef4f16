package fluentql

import (
	"fmt"
	"log/slog"

	"github.com/zoobzio/fluentql/internal/render"
	"github.com/zoobzio/fluentql/internal/types"
)

// Builder accumulates the clause state of one statement.
//
// Errors raised by fluent calls are sticky: the first one is kept, later
// calls become no-ops, and the error surfaces from the terminal call.
// A Builder is not safe for concurrent use.
type Builder struct {
	dialect    Dialect
	conn       Connection
	scopes     *Scopes
	schema     *Schema
	logger     *slog.Logger
	stmt       *types.Statement
	err        error
	table      string
	details    ConnectionDetails
	bindings   []any
	detailsSet bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithConnection attaches the connection used by First, All, Get and Exec.
// Its details supply the table prefix unless WithConnectionDetails is given.
func WithConnection(conn Connection) Option {
	return func(b *Builder) {
		b.conn = conn
	}
}

// WithConnectionDetails sets the connection settings explicitly.
func WithConnectionDetails(details ConnectionDetails) Option {
	return func(b *Builder) {
		b.details = details
		b.detailsSet = true
	}
}

// WithScopes attaches a scope registry.
func WithScopes(scopes *Scopes) Option {
	return func(b *Builder) {
		b.scopes = scopes
	}
}

// WithSchema validates every statement against schema before rendering.
func WithSchema(schema *Schema) Option {
	return func(b *Builder) {
		b.schema = schema
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a builder targeting table.
func New(dialect Dialect, table string, opts ...Option) *Builder {
	b := &Builder{
		dialect: dialect,
		table:   table,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if !b.detailsSet && b.conn != nil {
		b.details = b.conn.Details()
	}
	b.stmt = types.NewStatement(b.table, b.details.Prefix)

	if dialect == nil {
		b.err = fmt.Errorf("%w: dialect is required", ErrMalformedCall)
	}
	return b
}

// New derives a fresh builder with the same dialect, connection, scopes,
// schema, logger and table but no clause state.
func (b *Builder) New() *Builder {
	return &Builder{
		dialect:    b.dialect,
		conn:       b.conn,
		scopes:     b.scopes,
		schema:     b.schema,
		logger:     b.logger,
		table:      b.table,
		details:    b.details,
		detailsSet: b.detailsSet,
		stmt:       types.NewStatement(b.table, b.details.Prefix),
	}
}

// Table retargets the builder, including the statement in progress.
func (b *Builder) Table(name string) *Builder {
	if b.err != nil {
		return b
	}
	if name == "" {
		return b.fail("Table() requires a name")
	}
	b.table = name
	b.stmt.Table = name
	return b
}

// TableName returns the target table.
func (b *Builder) TableName() string {
	return b.table
}

// Dialect returns the builder's dialect.
func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// Details returns the builder's connection settings.
func (b *Builder) Details() ConnectionDetails {
	return b.details
}

// Statement returns the statement in progress.
func (b *Builder) Statement() *Statement {
	return b.stmt
}

// Err returns the sticky error, if any.
func (b *Builder) Err() error {
	return b.err
}

// fail records a malformed-call error unless one is already recorded.
func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = fmt.Errorf("%w: "+format, append([]any{ErrMalformedCall}, args...)...)
	}
	return b
}

// take moves the statement in progress out of the builder, leaving an
// empty one behind. The sticky error moves with it.
func (b *Builder) take() (*types.Statement, error) {
	stmt, err := b.stmt, b.err
	b.stmt = types.NewStatement(b.table, b.details.Prefix)
	b.err = nil
	return stmt, err
}

// capture takes sub's statement for nesting under b.
func (b *Builder) capture(sub *Builder) *types.Statement {
	if sub == nil {
		b.fail("nested builder is nil")
		return nil
	}
	if sub == b {
		b.fail("builder cannot be nested in itself; derive one with New()")
		return nil
	}
	stmt, err := sub.take()
	if err != nil && b.err == nil {
		b.err = err
	}
	return stmt
}

// Select sets the projection. An empty call selects all columns.
func (b *Builder) Select(columns ...string) *Builder {
	if b.err != nil {
		return b
	}
	if b.stmt.Action != types.ActionNone && b.stmt.Action != types.ActionSelect {
		return b.fail("Select() called on a %s statement", b.stmt.Action)
	}
	b.stmt.Columns = append([]string(nil), columns...)
	return b
}

// Limit caps the number of rows. Repeated calls overwrite.
func (b *Builder) Limit(n int) *Builder {
	if b.err != nil {
		return b
	}
	if n < 1 {
		return b.fail("Limit() must be positive, got %d", n)
	}
	b.stmt.Limit = &n
	return b
}

// Offset skips n rows. Repeated calls overwrite.
func (b *Builder) Offset(n int) *Builder {
	if b.err != nil {
		return b
	}
	if n < 0 {
		return b.fail("Offset() cannot be negative, got %d", n)
	}
	b.stmt.Offset = &n
	return b
}

// checkUpdatable rejects update forms on statements that cannot become
// an UPDATE.
func (b *Builder) checkUpdatable(method string) bool {
	switch b.stmt.Action {
	case types.ActionInsert, types.ActionDelete:
		b.fail("%s() called on a %s statement", method, b.stmt.Action)
		return false
	}
	if len(b.stmt.Columns) > 0 || len(b.stmt.Aggregates) > 0 {
		b.fail("%s() called on a builder with a select projection", method)
		return false
	}
	return true
}

// Update sets the assignments to values and targets an UPDATE.
func (b *Builder) Update(values map[string]any) *Builder {
	if b.err != nil {
		return b
	}
	if len(values) == 0 {
		return b.fail("Update() requires at least one column")
	}
	if !b.checkUpdatable("Update") {
		return b
	}
	b.stmt.Action = types.ActionUpdate
	b.stmt.Updates = []types.UpdateAction{types.Set(values)}
	return b
}

// Increment targets an UPDATE adding amount (default 1) to column.
func (b *Builder) Increment(column string, amount ...any) *Builder {
	return b.step("Increment", column, amount, types.Increment)
}

// Decrement targets an UPDATE subtracting amount (default 1) from column.
func (b *Builder) Decrement(column string, amount ...any) *Builder {
	return b.step("Decrement", column, amount, types.Decrement)
}

func (b *Builder) step(method, column string, amount []any, build func(string, any) types.UpdateAction) *Builder {
	if b.err != nil {
		return b
	}
	if column == "" {
		return b.fail("%s() requires a column", method)
	}
	var delta any = 1
	switch len(amount) {
	case 0:
	case 1:
		delta = amount[0]
	default:
		return b.fail("%s() accepts at most one amount, got %d", method, len(amount))
	}
	if !render.IsNumeric(delta) {
		return b.fail("%s() amount must be numeric, got %T", method, delta)
	}
	if !b.checkUpdatable(method) {
		return b
	}
	b.stmt.Action = types.ActionUpdate
	b.stmt.Updates = []types.UpdateAction{build(column, delta)}
	return b
}

// Create sets the columns to insert and targets an INSERT.
func (b *Builder) Create(values map[string]any) *Builder {
	if b.err != nil {
		return b
	}
	if len(values) == 0 {
		return b.fail("Create() requires at least one column")
	}
	if !b.checkCreatable() {
		return b
	}
	inserts := make(map[string]any, len(values))
	for k, v := range values {
		inserts[k] = v
	}
	b.stmt.Action = types.ActionInsert
	b.stmt.Inserts = inserts
	return b
}

// checkCreatable records a malformed call when the builder carries
// clause state an INSERT cannot express.
func (b *Builder) checkCreatable() bool {
	s := b.stmt
	switch {
	case s.Action == types.ActionUpdate || s.Action == types.ActionDelete:
		b.fail("Create() called on a %s statement", s.Action)
	case len(s.Columns) > 0 || len(s.Aggregates) > 0:
		b.fail("Create() called on a builder with a select projection")
	case len(s.Wheres) > 0:
		b.fail("Create() called on a builder with where conditions")
	case len(s.Joins) > 0 || len(s.GroupBy) > 0 || len(s.Ordering) > 0:
		b.fail("Create() called on a builder with join, group or order clauses")
	case s.Limit != nil || s.Offset != nil:
		b.fail("Create() called on a builder with pagination")
	default:
		return true
	}
	return false
}

// checkDeletable records a malformed call when the builder carries
// clause state a DELETE cannot express. Where conditions are kept.
func (b *Builder) checkDeletable() bool {
	s := b.stmt
	switch {
	case s.Action == types.ActionInsert || s.Action == types.ActionUpdate:
		b.fail("Delete() called on a %s statement", s.Action)
	case len(s.Columns) > 0 || len(s.Aggregates) > 0:
		b.fail("Delete() called on a builder with a select projection")
	case len(s.Joins) > 0 || len(s.GroupBy) > 0 || len(s.Ordering) > 0:
		b.fail("Delete() called on a builder with join, group or order clauses")
	case s.Limit != nil || s.Offset != nil:
		b.fail("Delete() called on a builder with pagination")
	default:
		return true
	}
	return false
}

// Delete targets a DELETE.
func (b *Builder) Delete() *Builder {
	if b.err != nil {
		return b
	}
	if !b.checkDeletable() {
		return b
	}
	b.stmt.Action = types.ActionDelete
	return b
}

// DeleteWhere appends column = value and targets a DELETE.
func (b *Builder) DeleteWhere(column string, value any) *Builder {
	return b.Where(column, value).Delete()
}

// OrderBy appends an ordering term. Direction defaults to ASC.
func (b *Builder) OrderBy(column string, direction ...Direction) *Builder {
	if b.err != nil {
		return b
	}
	if column == "" {
		return b.fail("OrderBy() requires a column")
	}
	dir := types.ASC
	switch len(direction) {
	case 0:
	case 1:
		dir = direction[0]
	default:
		return b.fail("OrderBy() accepts at most one direction, got %d", len(direction))
	}
	if dir != types.ASC && dir != types.DESC {
		return b.fail("OrderBy() direction must be ASC or DESC, got %q", dir)
	}
	b.stmt.Ordering = append(b.stmt.Ordering, types.OrderBy{Column: column, Direction: dir})
	return b
}

// GroupBy appends grouping columns.
func (b *Builder) GroupBy(columns ...string) *Builder {
	if b.err != nil {
		return b
	}
	if len(columns) == 0 {
		return b.fail("GroupBy() requires at least one column")
	}
	b.stmt.GroupBy = append(b.stmt.GroupBy, columns...)
	return b
}

// Sum appends SUM(column).
func (b *Builder) Sum(column string) *Builder {
	return b.aggregate(types.AggSum, column)
}

// Count appends COUNT(column), or COUNT(*) when no column is given.
func (b *Builder) Count(column ...string) *Builder {
	switch len(column) {
	case 0:
		return b.aggregate(types.AggCount, "*")
	case 1:
		return b.aggregate(types.AggCount, column[0])
	default:
		if b.err != nil {
			return b
		}
		return b.fail("Count() accepts at most one column, got %d", len(column))
	}
}

// Max appends MAX(column).
func (b *Builder) Max(column string) *Builder {
	return b.aggregate(types.AggMax, column)
}

// Min appends MIN(column).
func (b *Builder) Min(column string) *Builder {
	return b.aggregate(types.AggMin, column)
}

// Avg appends AVG(column).
func (b *Builder) Avg(column string) *Builder {
	return b.aggregate(types.AggAvg, column)
}

func (b *Builder) aggregate(fn types.AggregateFunc, column string) *Builder {
	if b.err != nil {
		return b
	}
	if column == "" {
		return b.fail("%s() requires a column", fn)
	}
	b.stmt.Aggregates = append(b.stmt.Aggregates, types.Aggregate{Func: fn, Column: column})
	return b
}

// Join appends an INNER JOIN table ON left op right.
func (b *Builder) Join(table, left string, op Operator, right string) *Builder {
	return b.join(types.InnerJoin, table, left, op, right)
}

// LeftJoin appends a LEFT JOIN table ON left op right.
func (b *Builder) LeftJoin(table, left string, op Operator, right string) *Builder {
	return b.join(types.LeftJoin, table, left, op, right)
}

// RightJoin appends a RIGHT JOIN table ON left op right.
func (b *Builder) RightJoin(table, left string, op Operator, right string) *Builder {
	return b.join(types.RightJoin, table, left, op, right)
}

func (b *Builder) join(kind types.JoinType, table, left string, op Operator, right string) *Builder {
	if b.err != nil {
		return b
	}
	if table == "" || left == "" || right == "" {
		return b.fail("%s requires a table and two columns", kind)
	}
	if op == "" || op.IsMembership() || op.IsExistence() || op.IsNullCheck() {
		return b.fail("%s requires a comparison operator, got %q", kind, op)
	}
	b.stmt.Joins = append(b.stmt.Joins, types.Join{
		Type:     kind,
		Table:    table,
		Left:     left,
		Operator: op,
		Right:    right,
	})
	return b
}
