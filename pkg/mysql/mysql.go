// Package mysql provides the MySQL and MariaDB dialect for fluentql.
package mysql

import (
	"strings"

	"github.com/zoobzio/fluentql/internal/render"
)

// Dialect implements the MySQL dialect.
type Dialect struct{}

// New creates a new MySQL dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (*Dialect) Name() string { return "mysql" }

// QuoteIdentifier wraps name in backticks, doubling embedded backticks.
func (*Dialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// Placeholder returns the positional marker. MySQL markers carry no index.
func (*Dialect) Placeholder(int) string { return "?" }

// QuoteString escapes backslashes before doubling single quotes, since
// MySQL treats backslash as an escape character inside string literals.
func (*Dialect) QuoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// FormatBool renders booleans as TINYINT values.
func (*Dialect) FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Capabilities returns the SQL features supported by MySQL.
// OFFSET is only valid after LIMIT.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		Pagination:         render.PaginationLimitOffset,
		OffsetWithoutLimit: false,
	}
}
