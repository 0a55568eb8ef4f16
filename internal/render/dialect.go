package render

// Dialect is the per-database surface the compiler consults. Everything
// else about compilation is shared.
type Dialect interface {
	// Name identifies the dialect in errors and logs.
	Name() string

	// QuoteIdentifier quotes a single unqualified identifier.
	QuoteIdentifier(name string) string

	// Placeholder returns the marker for the index-th binding (1-based).
	Placeholder(index int) string

	// QuoteString renders a string literal with the dialect's escaping.
	QuoteString(s string) string

	// FormatBool renders a boolean literal.
	FormatBool(b bool) string

	// Capabilities reports optional syntax support.
	Capabilities() Capabilities
}

// Mode selects how values are emitted.
type Mode int

const (
	ModeLiteral     Mode = iota // values inlined as quoted literals
	ModePlaceholder             // values replaced by markers and returned as bindings
)

func (m Mode) String() string {
	if m == ModePlaceholder {
		return "placeholder"
	}
	return "literal"
}
