package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/fluentql/internal/types"
)

// Result holds compiled SQL and, in placeholder mode, its bindings in
// marker order.
type Result struct {
	SQL      string
	Bindings []any
}

// renderContext carries the dialect, the emission mode and the binding
// sequence shared by a statement and everything nested inside it.
type renderContext struct {
	dialect  Dialect
	caps     Capabilities
	bindings []any
	mode     Mode
	err      error
}

// bind renders value at the current position. In placeholder mode the
// value is appended to the binding sequence in the same step that emits
// its marker, so the two can never drift apart. A value that cannot be
// bound is rejected in both modes; the first such error is kept on ctx.
func (ctx *renderContext) bind(value any) string {
	if ctx.mode == ModeLiteral {
		s, err := Literal(ctx.dialect, value)
		if err != nil {
			ctx.fail(err)
		}
		return s
	}
	if _, err := Normalize(value); err != nil {
		ctx.fail(err)
		return ""
	}
	ctx.bindings = append(ctx.bindings, value)
	return ctx.dialect.Placeholder(len(ctx.bindings))
}

func (ctx *renderContext) fail(err error) {
	if ctx.err == nil {
		ctx.err = err
	}
}

// Compile renders stmt for dialect d. It never returns partial SQL.
func Compile(d Dialect, stmt *types.Statement, mode Mode) (*Result, error) {
	if d == nil {
		return nil, fmt.Errorf("dialect is required")
	}
	if stmt == nil {
		return nil, fmt.Errorf("statement is required")
	}

	ctx := &renderContext{dialect: d, caps: d.Capabilities(), mode: mode}
	var sql strings.Builder

	var render func(*types.Statement, *strings.Builder) error
	switch stmt.Action {
	case types.ActionNone, types.ActionSelect:
		render = ctx.renderSelect
	case types.ActionInsert:
		render = ctx.renderInsert
	case types.ActionUpdate:
		render = ctx.renderUpdate
	case types.ActionDelete:
		render = ctx.renderDelete
	default:
		return nil, UnsupportedActionError{Dialect: d.Name(), Action: string(stmt.Action)}
	}

	if err := stmt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid statement: %w", err)
	}
	if err := render(stmt, &sql); err != nil {
		return nil, err
	}
	if ctx.err != nil {
		return nil, ctx.err
	}

	return &Result{SQL: sql.String(), Bindings: ctx.bindings}, nil
}

func (ctx *renderContext) renderSelect(stmt *types.Statement, sql *strings.Builder) error {
	sql.WriteString("SELECT ")

	top := ctx.caps.Pagination == PaginationOffsetFetch && stmt.Limit != nil && stmt.Offset == nil
	if top {
		fmt.Fprintf(sql, "TOP %d ", *stmt.Limit)
	}

	if len(stmt.Columns) == 0 && len(stmt.Aggregates) == 0 {
		sql.WriteString("*")
	} else {
		selections := make([]string, 0, len(stmt.Columns)+len(stmt.Aggregates))
		for _, column := range stmt.Columns {
			selections = append(selections, ctx.column(column))
		}
		for _, agg := range stmt.Aggregates {
			selections = append(selections, ctx.aggregate(agg))
		}
		sql.WriteString(strings.Join(selections, ", "))
	}

	sql.WriteString(" FROM ")
	sql.WriteString(ctx.source(stmt.Table, stmt.Prefix))

	for _, join := range stmt.Joins {
		fmt.Fprintf(sql, " %s %s ON %s %s %s",
			join.Type,
			ctx.source(join.Table, stmt.Prefix),
			ctx.column(join.Left),
			join.Operator,
			ctx.column(join.Right))
	}

	if err := ctx.renderWhere(stmt.Wheres, sql); err != nil {
		return err
	}

	if len(stmt.GroupBy) > 0 {
		groupFields := make([]string, 0, len(stmt.GroupBy))
		for _, column := range stmt.GroupBy {
			groupFields = append(groupFields, ctx.column(column))
		}
		sql.WriteString(" GROUP BY ")
		sql.WriteString(strings.Join(groupFields, ", "))
	}

	if len(stmt.Ordering) > 0 {
		orderParts := make([]string, 0, len(stmt.Ordering))
		for _, order := range stmt.Ordering {
			orderParts = append(orderParts, fmt.Sprintf("%s %s", ctx.column(order.Column), order.Direction))
		}
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(orderParts, ", "))
	}

	if top {
		return nil
	}
	return ctx.renderPagination(stmt, sql)
}

func (ctx *renderContext) renderPagination(stmt *types.Statement, sql *strings.Builder) error {
	switch ctx.caps.Pagination {
	case PaginationOffsetFetch:
		if stmt.Offset == nil {
			return nil
		}
		// OFFSET/FETCH requires ORDER BY
		if len(stmt.Ordering) == 0 {
			return NewUnsupportedFeatureError(ctx.dialect.Name(), "OFFSET without ORDER BY",
				"add an ORDER BY clause when using Offset")
		}
		fmt.Fprintf(sql, " OFFSET %d ROWS", *stmt.Offset)
		if stmt.Limit != nil {
			fmt.Fprintf(sql, " FETCH NEXT %d ROWS ONLY", *stmt.Limit)
		}
	default:
		if stmt.Offset != nil && stmt.Limit == nil && !ctx.caps.OffsetWithoutLimit {
			return NewUnsupportedFeatureError(ctx.dialect.Name(), "OFFSET without LIMIT",
				"add a Limit when using Offset")
		}
		if stmt.Limit != nil {
			fmt.Fprintf(sql, " LIMIT %d", *stmt.Limit)
		}
		if stmt.Offset != nil {
			fmt.Fprintf(sql, " OFFSET %d", *stmt.Offset)
		}
	}
	return nil
}

func (ctx *renderContext) renderInsert(stmt *types.Statement, sql *strings.Builder) error {
	sql.WriteString("INSERT INTO ")
	sql.WriteString(ctx.table(stmt.Table, stmt.Prefix))

	columns := sortedKeys(stmt.Inserts)
	quoted := make([]string, 0, len(columns))
	values := make([]string, 0, len(columns))
	for _, column := range columns {
		quoted = append(quoted, ctx.column(column))
		values = append(values, ctx.bind(stmt.Inserts[column]))
	}

	sql.WriteString(" (")
	sql.WriteString(strings.Join(quoted, ", "))
	sql.WriteString(") VALUES (")
	sql.WriteString(strings.Join(values, ", "))
	sql.WriteString(")")
	return nil
}

func (ctx *renderContext) renderUpdate(stmt *types.Statement, sql *strings.Builder) error {
	sql.WriteString("UPDATE ")
	sql.WriteString(ctx.table(stmt.Table, stmt.Prefix))
	sql.WriteString(" SET ")

	var assignments []string
	for _, update := range stmt.Updates {
		switch update.Kind {
		case types.UpdateSet:
			for _, column := range sortedKeys(update.Values) {
				assignments = append(assignments,
					fmt.Sprintf("%s = %s", ctx.column(column), ctx.bind(update.Values[column])))
			}
		case types.UpdateIncrement, types.UpdateDecrement:
			sign := "+"
			if update.Kind == types.UpdateDecrement {
				sign = "-"
			}
			column := ctx.column(update.Column)
			assignments = append(assignments,
				fmt.Sprintf("%s = %s %s %s", column, column, sign, ctx.bind(update.Value)))
		default:
			return MalformedExpressionError{Kind: "update", Reason: fmt.Sprintf("unknown update kind %q", update.Kind)}
		}
	}
	sql.WriteString(strings.Join(assignments, ", "))

	return ctx.renderWhere(stmt.Wheres, sql)
}

func (ctx *renderContext) renderDelete(stmt *types.Statement, sql *strings.Builder) error {
	sql.WriteString("DELETE FROM ")
	sql.WriteString(ctx.table(stmt.Table, stmt.Prefix))
	return ctx.renderWhere(stmt.Wheres, sql)
}

func (ctx *renderContext) renderWhere(predicates []types.Predicate, sql *strings.Builder) error {
	if len(predicates) == 0 {
		return nil
	}
	sql.WriteString(" WHERE ")
	return ctx.renderPredicates(predicates, sql)
}

// renderPredicates walks predicates in recorded order. Each predicate is
// preceded by its own keyword except the first.
func (ctx *renderContext) renderPredicates(predicates []types.Predicate, sql *strings.Builder) error {
	for i, p := range predicates {
		if i > 0 {
			fmt.Fprintf(sql, " %s ", p.Joiner())
		}
		if err := ctx.renderPredicate(p, sql); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *renderContext) renderPredicate(p types.Predicate, sql *strings.Builder) error {
	switch p.Kind {
	case types.ValueLiteral:
		return ctx.renderLiteralPredicate(p, sql)
	case types.ValueColumn:
		right, ok := p.Value.(string)
		if !ok || right == "" || p.Column == "" {
			return malformed(p.Kind, "column comparison requires two column names")
		}
		fmt.Fprintf(sql, "%s %s %s", ctx.column(p.Column), p.Operator, ctx.column(right))
	case types.ValueSubSelect:
		return ctx.renderSubSelect(p, sql)
	case types.ValueSubGroup:
		if p.Nested == nil || len(p.Nested.Wheres) == 0 {
			return malformed(p.Kind, "empty sub-group")
		}
		sql.WriteString("(")
		if err := ctx.renderPredicates(p.Nested.Wheres, sql); err != nil {
			return err
		}
		sql.WriteString(")")
	default:
		return malformed(p.Kind, "unrecognized value kind %d", int(p.Kind))
	}
	return nil
}

func (ctx *renderContext) renderLiteralPredicate(p types.Predicate, sql *strings.Builder) error {
	switch {
	case p.Operator.IsExistence():
		raw, ok := p.Value.(string)
		if !ok || raw == "" {
			return malformed(p.Kind, "%s requires a sub-select or raw SQL", p.Operator)
		}
		fmt.Fprintf(sql, "%s (%s)", p.Operator, raw)
		return nil
	case p.Column == "":
		return malformed(p.Kind, "%s requires a column", p.Operator)
	case p.Operator.IsNullCheck():
		fmt.Fprintf(sql, "%s %s", ctx.column(p.Column), p.Operator)
	case p.Operator.IsMembership():
		if len(p.Values) == 0 {
			// An empty IN list is always false; an empty NOT IN is always true.
			if p.Operator == types.IN {
				sql.WriteString("1 = 0")
			} else {
				sql.WriteString("1 = 1")
			}
			return nil
		}
		members := make([]string, 0, len(p.Values))
		for _, v := range p.Values {
			members = append(members, ctx.bind(v))
		}
		fmt.Fprintf(sql, "%s %s (%s)", ctx.column(p.Column), p.Operator, strings.Join(members, ", "))
	case p.Operator == "":
		return malformed(p.Kind, "missing operator for %s", p.Column)
	default:
		fmt.Fprintf(sql, "%s %s %s", ctx.column(p.Column), p.Operator, ctx.bind(p.Value))
	}
	return nil
}

func (ctx *renderContext) renderSubSelect(p types.Predicate, sql *strings.Builder) error {
	if p.Nested == nil {
		return malformed(p.Kind, "missing nested statement")
	}
	if p.Nested.Action != types.ActionNone && p.Nested.Action != types.ActionSelect {
		return malformed(p.Kind, "nested statement must be a SELECT, got %s", p.Nested.Action)
	}
	if err := p.Nested.Validate(); err != nil {
		return malformed(p.Kind, "%v", err)
	}

	if p.Operator.IsExistence() {
		sql.WriteString(string(p.Operator))
	} else {
		if p.Column == "" {
			return malformed(p.Kind, "operator %s requires a column", p.Operator)
		}
		fmt.Fprintf(sql, "%s %s", ctx.column(p.Column), p.Operator)
	}

	sql.WriteString(" (")
	if err := ctx.renderSelect(p.Nested, sql); err != nil {
		return err
	}
	sql.WriteString(")")
	return nil
}

func (ctx *renderContext) aggregate(agg types.Aggregate) string {
	if agg.Column == "" || agg.Column == "*" {
		return fmt.Sprintf("%s(*)", agg.Func)
	}
	alias := agg.Column
	if i := strings.LastIndex(alias, "."); i >= 0 {
		alias = alias[i+1:]
	}
	return fmt.Sprintf("%s(%s) AS %s", agg.Func, ctx.column(agg.Column), ctx.dialect.QuoteIdentifier(alias))
}

// column quotes a possibly qualified column reference part by part,
// leaving * untouched.
func (ctx *renderContext) column(name string) string {
	if name == "*" {
		return name
	}
	parts := strings.Split(name, ".")
	for i, part := range parts {
		if part != "*" {
			parts[i] = ctx.dialect.QuoteIdentifier(part)
		}
	}
	return strings.Join(parts, ".")
}

// table quotes a table reference with the connection prefix applied to
// the unqualified table name.
func (ctx *renderContext) table(name, prefix string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return ctx.column(name[:i+1] + prefix + name[i+1:])
	}
	return ctx.dialect.QuoteIdentifier(prefix + name)
}

// source renders a FROM or JOIN table. A prefixed table is aliased back
// to its bare name.
func (ctx *renderContext) source(name, prefix string) string {
	if prefix == "" {
		return ctx.table(name, prefix)
	}
	bare := name[strings.LastIndex(name, ".")+1:]
	return ctx.table(name, prefix) + " AS " + ctx.dialect.QuoteIdentifier(bare)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
