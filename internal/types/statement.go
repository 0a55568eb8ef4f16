package types

import "fmt"

// Action represents which SQL statement a Statement renders to.
type Action string

const (
	ActionNone   Action = ""
	ActionSelect Action = "SELECT"
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Direction represents sort direction.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// OrderBy represents an ORDER BY term.
type OrderBy struct {
	Column    string
	Direction Direction
}

// AggregateFunc represents SQL aggregate functions.
type AggregateFunc string

const (
	AggSum   AggregateFunc = "SUM"
	AggCount AggregateFunc = "COUNT"
	AggMax   AggregateFunc = "MAX"
	AggMin   AggregateFunc = "MIN"
	AggAvg   AggregateFunc = "AVG"
)

// Aggregate is a projected aggregate function call.
type Aggregate struct {
	Func   AggregateFunc
	Column string
}

// JoinType represents the type of SQL join.
type JoinType string

const (
	InnerJoin JoinType = "INNER JOIN"
	LeftJoin  JoinType = "LEFT JOIN"
	RightJoin JoinType = "RIGHT JOIN"
)

// Join represents a JOIN ... ON left op right clause.
type Join struct {
	Type     JoinType
	Table    string
	Left     string
	Operator Operator
	Right    string
}

// Statement is the clause state of one statement in progress. The
// builder owns exactly one at a time and hands it to the compiler by
// moving it out.
//
//nolint:govet // fieldalignment: Logical grouping is preferred over memory optimization
type Statement struct {
	Action     Action
	Table      string
	Prefix     string
	Columns    []string
	Inserts    map[string]any
	Wheres     []Predicate
	Updates    []UpdateAction
	Joins      []Join
	Ordering   []OrderBy
	GroupBy    []string
	Aggregates []Aggregate
	Limit      *int
	Offset     *int
}

// NewStatement returns an empty statement targeting table.
func NewStatement(table, prefix string) *Statement {
	return &Statement{Table: table, Prefix: prefix}
}

// IsEmpty reports whether no clause state has been accumulated.
func (s *Statement) IsEmpty() bool {
	return s.Action == ActionNone &&
		len(s.Columns) == 0 &&
		len(s.Inserts) == 0 &&
		len(s.Wheres) == 0 &&
		len(s.Updates) == 0 &&
		len(s.Joins) == 0 &&
		len(s.Ordering) == 0 &&
		len(s.GroupBy) == 0 &&
		len(s.Aggregates) == 0 &&
		s.Limit == nil &&
		s.Offset == nil
}

// Validate performs basic structural validation.
func (s *Statement) Validate() error {
	if s.Table == "" {
		return fmt.Errorf("target table is required")
	}

	switch s.Action {
	case ActionNone, ActionSelect:
	case ActionInsert:
		if len(s.Inserts) == 0 {
			return fmt.Errorf("INSERT requires at least one column")
		}
	case ActionUpdate:
		if len(s.Updates) == 0 {
			return fmt.Errorf("UPDATE requires at least one assignment")
		}
		for _, u := range s.Updates {
			if u.Kind == UpdateSet && len(u.Values) == 0 {
				return fmt.Errorf("UPDATE requires at least one assignment")
			}
		}
		if len(s.Joins) > 0 || len(s.GroupBy) > 0 || len(s.Aggregates) > 0 {
			return fmt.Errorf("UPDATE cannot have SELECT features like JOIN, GROUP BY, or aggregates")
		}
	case ActionDelete:
		if len(s.Joins) > 0 || len(s.GroupBy) > 0 || len(s.Aggregates) > 0 {
			return fmt.Errorf("DELETE cannot have SELECT features like JOIN, GROUP BY, or aggregates")
		}
	default:
		return fmt.Errorf("unsupported operation: %s", s.Action)
	}

	if s.Limit != nil && *s.Limit < 1 {
		return fmt.Errorf("LIMIT must be positive, got %d", *s.Limit)
	}
	if s.Offset != nil && *s.Offset < 0 {
		return fmt.Errorf("OFFSET cannot be negative, got %d", *s.Offset)
	}

	return nil
}
