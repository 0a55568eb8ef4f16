// Package sqlite provides the SQLite dialect for fluentql.
package sqlite

import (
	"strings"

	"github.com/zoobzio/fluentql/internal/render"
)

// Dialect implements the SQLite dialect.
type Dialect struct{}

// New creates a new SQLite dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (*Dialect) Name() string { return "sqlite" }

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes.
func (*Dialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Placeholder returns the anonymous marker.
func (*Dialect) Placeholder(int) string { return "?" }

// QuoteString doubles single quotes.
func (*Dialect) QuoteString(s string) string {
	return render.DoubleQuote(s)
}

// FormatBool renders 1 or 0; SQLite has no boolean storage class.
func (*Dialect) FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Capabilities returns the SQL features supported by SQLite.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		Pagination:         render.PaginationLimitOffset,
		OffsetWithoutLimit: false,
	}
}
