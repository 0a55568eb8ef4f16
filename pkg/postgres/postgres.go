// Package postgres provides the PostgreSQL dialect for fluentql.
package postgres

import (
	"strconv"
	"strings"

	"github.com/zoobzio/fluentql/internal/render"
)

// Dialect implements the PostgreSQL dialect.
type Dialect struct{}

// New creates a new PostgreSQL dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (*Dialect) Name() string { return "postgres" }

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes.
func (*Dialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Placeholder returns the numbered marker $n.
func (*Dialect) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

// QuoteString renders a standard-conforming string literal.
func (*Dialect) QuoteString(s string) string {
	return render.DoubleQuote(s)
}

// FormatBool renders TRUE or FALSE.
func (*Dialect) FormatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Capabilities returns the SQL features supported by PostgreSQL.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		Pagination:         render.PaginationLimitOffset,
		OffsetWithoutLimit: true,
	}
}
