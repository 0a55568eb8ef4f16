// Package mssql provides the SQL Server dialect for fluentql.
package mssql

import (
	"strconv"
	"strings"

	"github.com/zoobzio/fluentql/internal/render"
)

// Dialect implements the SQL Server dialect.
type Dialect struct{}

// New creates a new SQL Server dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (*Dialect) Name() string { return "mssql" }

// QuoteIdentifier wraps name in square brackets, doubling embedded ]
func (*Dialect) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// Placeholder returns the named marker @pn understood by go-mssqldb.
func (*Dialect) Placeholder(index int) string {
	return "@p" + strconv.Itoa(index)
}

// QuoteString doubles single quotes.
func (*Dialect) QuoteString(s string) string {
	return render.DoubleQuote(s)
}

// FormatBool renders BIT values.
func (*Dialect) FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Capabilities returns the SQL features supported by SQL Server.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		Pagination:         render.PaginationOffsetFetch,
		OffsetWithoutLimit: true,
	}
}
