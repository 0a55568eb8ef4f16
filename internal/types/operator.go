package types

// Operator represents a predicate comparison operator.
type Operator string

const (
	// Basic comparison operators.
	EQ Operator = "="
	NE Operator = "!="
	GT Operator = ">"
	GE Operator = ">="
	LT Operator = "<"
	LE Operator = "<="

	// Extended operators.
	IN        Operator = "IN"
	NotIn     Operator = "NOT IN"
	LIKE      Operator = "LIKE"
	NotLike   Operator = "NOT LIKE"
	IsNull    Operator = "IS NULL"
	IsNotNull Operator = "IS NOT NULL"
	EXISTS    Operator = "EXISTS"
	NotExists Operator = "NOT EXISTS"
)

// IsMembership reports whether the operator tests set membership.
func (op Operator) IsMembership() bool {
	return op == IN || op == NotIn
}

// IsExistence reports whether the operator is an EXISTS check.
func (op Operator) IsExistence() bool {
	return op == EXISTS || op == NotExists
}

// IsNullCheck reports whether the operator takes no right-hand side.
func (op Operator) IsNullCheck() bool {
	return op == IsNull || op == IsNotNull
}
