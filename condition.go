package fluentql

import (
	"fmt"
	"time"

	"github.com/zoobzio/fluentql/internal/render"
	"github.com/zoobzio/fluentql/internal/types"
)

func (b *Builder) add(p types.Predicate) *Builder {
	b.stmt.Wheres = append(b.stmt.Wheres, p)
	return b
}

// Where appends column = value, AND-joined.
func (b *Builder) Where(column string, value any) *Builder {
	return b.whereOp("Where", column, types.EQ, value, types.AND)
}

// OrWhere appends column = value, OR-joined.
func (b *Builder) OrWhere(column string, value any) *Builder {
	return b.whereOp("OrWhere", column, types.EQ, value, types.OR)
}

// WhereOp appends column op value, AND-joined.
func (b *Builder) WhereOp(column string, op Operator, value any) *Builder {
	return b.whereOp("WhereOp", column, op, value, types.AND)
}

// OrWhereOp appends column op value, OR-joined.
func (b *Builder) OrWhereOp(column string, op Operator, value any) *Builder {
	return b.whereOp("OrWhereOp", column, op, value, types.OR)
}

func (b *Builder) whereOp(method, column string, op Operator, value any, kw types.Keyword) *Builder {
	if b.err != nil {
		return b
	}
	if column == "" {
		return b.fail("%s() requires a column", method)
	}
	switch {
	case op == "":
		return b.fail("%s() requires an operator", method)
	case op.IsMembership():
		return b.fail("%s() cannot take %s; use WhereIn", method, op)
	case op.IsExistence():
		return b.fail("%s() cannot take %s; use WhereExists", method, op)
	case op.IsNullCheck():
		return b.add(types.Literal(column, op, nil, kw))
	}
	if _, nested := value.(*Builder); nested {
		return b.fail("%s() value is a builder; use WhereSub", method)
	}
	return b.add(types.Literal(column, op, value, kw))
}

// WhereSub appends column = (sub-select), AND-joined. The sub-builder's
// statement is moved into the predicate and sub is left empty.
func (b *Builder) WhereSub(column string, sub *Builder) *Builder {
	return b.whereSub("WhereSub", column, types.EQ, sub, types.AND)
}

// OrWhereSub appends column = (sub-select), OR-joined.
func (b *Builder) OrWhereSub(column string, sub *Builder) *Builder {
	return b.whereSub("OrWhereSub", column, types.EQ, sub, types.OR)
}

// WhereInSub appends column IN (sub-select).
func (b *Builder) WhereInSub(column string, sub *Builder) *Builder {
	return b.whereSub("WhereInSub", column, types.IN, sub, types.AND)
}

func (b *Builder) whereSub(method, column string, op Operator, sub *Builder, kw types.Keyword) *Builder {
	if b.err != nil {
		return b
	}
	if column == "" {
		return b.fail("%s() requires a column", method)
	}
	nested := b.capture(sub)
	if b.err != nil {
		return b
	}
	return b.add(types.SubSelect(column, op, nested, kw))
}

// WhereGroup appends a parenthesized group built by fn on a derived
// builder, AND-joined.
func (b *Builder) WhereGroup(fn func(*Builder)) *Builder {
	return b.whereGroup("WhereGroup", fn, types.AND)
}

// OrWhereGroup appends a parenthesized group built by fn, OR-joined.
func (b *Builder) OrWhereGroup(fn func(*Builder)) *Builder {
	return b.whereGroup("OrWhereGroup", fn, types.OR)
}

func (b *Builder) whereGroup(method string, fn func(*Builder), kw types.Keyword) *Builder {
	if b.err != nil {
		return b
	}
	if fn == nil {
		return b.fail("%s() requires a function", method)
	}
	sub := b.New()
	fn(sub)
	nested := b.capture(sub)
	if b.err != nil {
		return b
	}
	if len(nested.Wheres) == 0 {
		return b.fail("%s() function added no predicates", method)
	}
	return b.add(types.SubGroup(nested, kw))
}

// WhereExists appends EXISTS (sub-select).
func (b *Builder) WhereExists(sub *Builder) *Builder {
	return b.whereExists("WhereExists", types.EXISTS, sub)
}

// WhereNotExists appends NOT EXISTS (sub-select).
func (b *Builder) WhereNotExists(sub *Builder) *Builder {
	return b.whereExists("WhereNotExists", types.NotExists, sub)
}

func (b *Builder) whereExists(method string, op Operator, sub *Builder) *Builder {
	if b.err != nil {
		return b
	}
	if sub == nil {
		return b.fail("%s() requires a builder", method)
	}
	nested := b.capture(sub)
	if b.err != nil {
		return b
	}
	return b.add(types.SubSelect("", op, nested, types.AND))
}

// WhereExistsRaw appends EXISTS (sql). The fragment is emitted verbatim
// and is never bound, so it must not contain untrusted input.
func (b *Builder) WhereExistsRaw(sql string) *Builder {
	if b.err != nil {
		return b
	}
	if sql == "" {
		return b.fail("WhereExistsRaw() requires SQL")
	}
	return b.add(types.Literal("", types.EXISTS, sql, types.AND))
}

// WhereNull appends column IS NULL.
func (b *Builder) WhereNull(column string) *Builder {
	return b.whereOp("WhereNull", column, types.IsNull, nil, types.AND)
}

// WhereNotNull appends column IS NOT NULL.
func (b *Builder) WhereNotNull(column string) *Builder {
	return b.whereOp("WhereNotNull", column, types.IsNotNull, nil, types.AND)
}

// OrWhereNull appends column IS NULL, OR-joined.
func (b *Builder) OrWhereNull(column string) *Builder {
	return b.whereOp("OrWhereNull", column, types.IsNull, nil, types.OR)
}

// OrWhereNotNull appends column IS NOT NULL, OR-joined.
func (b *Builder) OrWhereNotNull(column string) *Builder {
	return b.whereOp("OrWhereNotNull", column, types.IsNotNull, nil, types.OR)
}

// WhereIn appends column IN (values). Each value is stored as its text
// form; nil values are rejected. An empty list renders an always-false
// clause.
func (b *Builder) WhereIn(column string, values []any) *Builder {
	return b.whereIn("WhereIn", column, types.IN, values)
}

// WhereNotIn appends column NOT IN (values). An empty list renders an
// always-true clause.
func (b *Builder) WhereNotIn(column string, values []any) *Builder {
	return b.whereIn("WhereNotIn", column, types.NotIn, values)
}

func (b *Builder) whereIn(method, column string, op Operator, values []any) *Builder {
	if b.err != nil {
		return b
	}
	if column == "" {
		return b.fail("%s() requires a column", method)
	}
	members := make([]string, 0, len(values))
	for i, v := range values {
		if _, nested := v.(*Builder); nested {
			return b.fail("%s() value is a builder; use WhereInSub", method)
		}
		n, err := render.Normalize(v)
		if err != nil {
			return b.fail("%s() value %d: %v", method, i, err)
		}
		switch n := n.(type) {
		case nil:
			return b.fail("%s() value %d is nil; use WhereNull", method, i)
		case []byte:
			members = append(members, string(n))
		case time.Time:
			members = append(members, n.Format(render.TimeLayout))
		default:
			members = append(members, fmt.Sprint(n))
		}
	}
	return b.add(types.Membership(column, op, members, types.AND))
}

// WhereColumn appends left = right where both sides are columns.
func (b *Builder) WhereColumn(left, right string) *Builder {
	return b.whereColumn("WhereColumn", left, right, types.AND)
}

// OrWhereColumn appends left = right, OR-joined.
func (b *Builder) OrWhereColumn(left, right string) *Builder {
	return b.whereColumn("OrWhereColumn", left, right, types.OR)
}

func (b *Builder) whereColumn(method, left, right string, kw types.Keyword) *Builder {
	if b.err != nil {
		return b
	}
	if left == "" || right == "" {
		return b.fail("%s() requires two columns", method)
	}
	return b.add(types.ColumnRef(left, types.EQ, right, kw))
}
