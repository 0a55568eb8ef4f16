package types

// UpdateKind identifies the assignment form of an UpdateAction.
type UpdateKind string

const (
	UpdateSet       UpdateKind = "set"
	UpdateIncrement UpdateKind = "increment"
	UpdateDecrement UpdateKind = "decrement"
)

// UpdateAction is one assignment in an UPDATE statement. A set action
// carries a column->value mapping in Values; increment and decrement
// carry a single Column and a numeric delta in Value.
type UpdateAction struct {
	Values map[string]any
	Value  any
	Column string
	Kind   UpdateKind
}

// Set builds a bulk set action from a copy of values.
func Set(values map[string]any) UpdateAction {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return UpdateAction{Values: copied, Kind: UpdateSet}
}

// Increment builds a "column = column + amount" action.
func Increment(column string, amount any) UpdateAction {
	return UpdateAction{Column: column, Value: amount, Kind: UpdateIncrement}
}

// Decrement builds a "column = column - amount" action.
func Decrement(column string, amount any) UpdateAction {
	return UpdateAction{Column: column, Value: amount, Kind: UpdateDecrement}
}
