package types

// ValueKind tags how the right-hand side of a predicate is rendered.
type ValueKind int

const (
	ValueLiteral ValueKind = iota
	ValueColumn
	ValueSubSelect
	ValueSubGroup
)

func (k ValueKind) String() string {
	switch k {
	case ValueLiteral:
		return "literal"
	case ValueColumn:
		return "column"
	case ValueSubSelect:
		return "sub-select"
	case ValueSubGroup:
		return "sub-group"
	default:
		return "unknown"
	}
}

// Keyword joins a predicate to the predicate before it.
type Keyword string

const (
	AND Keyword = "AND"
	OR  Keyword = "OR"
)

// Predicate is one WHERE term. It is written once by the builder and
// only read afterwards.
//
// Column is empty for existence checks and sub-groups. Values holds the
// text-coerced members of an IN list. Nested is set for sub-selects and
// sub-groups and is owned exclusively by the predicate.
type Predicate struct {
	Nested   *Statement
	Value    any
	Column   string
	Operator Operator
	Keyword  Keyword
	Values   []string
	Kind     ValueKind
}

// Joiner returns the keyword that precedes the predicate, defaulting to AND.
func (p Predicate) Joiner() Keyword {
	if p.Keyword == "" {
		return AND
	}
	return p.Keyword
}

// Literal builds a column-to-value comparison.
func Literal(column string, op Operator, value any, kw Keyword) Predicate {
	return Predicate{
		Column:   column,
		Operator: op,
		Value:    value,
		Kind:     ValueLiteral,
		Keyword:  kw,
	}
}

// Membership builds an IN / NOT IN predicate over a list of values.
func Membership(column string, op Operator, values []string, kw Keyword) Predicate {
	return Predicate{
		Column:   column,
		Operator: op,
		Values:   values,
		Kind:     ValueLiteral,
		Keyword:  kw,
	}
}

// ColumnRef builds a column-to-column comparison.
func ColumnRef(left string, op Operator, right string, kw Keyword) Predicate {
	return Predicate{
		Column:   left,
		Operator: op,
		Value:    right,
		Kind:     ValueColumn,
		Keyword:  kw,
	}
}

// SubSelect builds a comparison whose right-hand side is a nested SELECT.
// Column is empty for EXISTS checks.
func SubSelect(column string, op Operator, nested *Statement, kw Keyword) Predicate {
	return Predicate{
		Column:   column,
		Operator: op,
		Nested:   nested,
		Kind:     ValueSubSelect,
		Keyword:  kw,
	}
}

// SubGroup builds a parenthesized group from a nested statement's predicates.
func SubGroup(nested *Statement, kw Keyword) Predicate {
	return Predicate{
		Nested:  nested,
		Kind:    ValueSubGroup,
		Keyword: kw,
	}
}
