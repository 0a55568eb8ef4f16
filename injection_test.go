package fluentql_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/fluentql"
	"github.com/zoobzio/fluentql/pkg/mysql"
	"github.com/zoobzio/fluentql/pkg/postgres"
	fqltest "github.com/zoobzio/fluentql/testing"
)

var injectionAttempts = []struct {
	name    string
	payload string
}{
	{"DROP TABLE", "joe'; DROP TABLE users; --"},
	{"OR 1=1", "' OR '1'='1"},
	{"Union injection", "' UNION SELECT * FROM passwords --"},
	{"Comment injection", "joe'/**/OR/**/1=1"},
	{"Backslash escape", `joe\'; DROP TABLE users; --`},
	{"Double quote injection", `joe" OR "1"="1`},
	{"Whitespace tricks", "joe'\nOR\n1=1"},
}

// TestInjection_LiteralValues verifies that inlined values never leave
// their string literal.
func TestInjection_LiteralValues(t *testing.T) {
	for _, attempt := range injectionAttempts {
		t.Run(attempt.name, func(t *testing.T) {
			sql := fluentql.New(postgres.New(), "users").Where("name", attempt.payload).MustSQL()
			expected := `SELECT * FROM "users" WHERE "name" = '` + strings.ReplaceAll(attempt.payload, "'", "''") + `'`
			fqltest.AssertSQL(t, expected, sql)

			sql = fluentql.New(mysql.New(), "users").Where("name", attempt.payload).MustSQL()
			escaped := strings.ReplaceAll(strings.ReplaceAll(attempt.payload, `\`, `\\`), "'", "''")
			fqltest.AssertSQL(t, "SELECT * FROM `users` WHERE `name` = '"+escaped+"'", sql)
		})
	}
}

// TestInjection_Placeholders verifies that placeholder mode keeps values
// out of the SQL text entirely.
func TestInjection_Placeholders(t *testing.T) {
	for _, attempt := range injectionAttempts {
		t.Run(attempt.name, func(t *testing.T) {
			b := fluentql.New(postgres.New(), "users")
			sql, err := b.Where("name", attempt.payload).
				WhereIn("role", []any{attempt.payload}).
				ToQmark()
			fqltest.AssertNoError(t, err)
			fqltest.AssertSQL(t, `SELECT * FROM "users" WHERE "name" = $1 AND "role" IN ($2)`, sql)
			fqltest.AssertBindings(t, []any{attempt.payload, attempt.payload}, b.Bindings())
		})
	}
}

// TestInjection_Identifiers verifies that identifier quotes are doubled.
func TestInjection_Identifiers(t *testing.T) {
	sql := fluentql.New(postgres.New(), `users" WHERE 1=1; --`).Select(`id" FROM admins; --`).MustSQL()
	fqltest.AssertSQL(t, `SELECT "id"" FROM admins; --" FROM "users"" WHERE 1=1; --"`, sql)

	sql = fluentql.New(mysql.New(), "users").Where("name` = 1 OR `1", 1).MustSQL()
	fqltest.AssertSQL(t, "SELECT * FROM `users` WHERE `name`` = 1 OR ``1` = 1", sql)
}

// TestInjection_SchemaRejectsUnknownIdentifiers verifies that a schema
// blocks identifiers it does not define.
func TestInjection_SchemaRejectsUnknownIdentifiers(t *testing.T) {
	schema := fqltest.TestSchema(t)

	for _, column := range []string{
		"email; DROP TABLE users; --",
		"id OR 1=1",
		"id) OR SLEEP(10)--",
		"ID",
	} {
		t.Run(column, func(t *testing.T) {
			_, err := fluentql.New(postgres.New(), "users", fluentql.WithSchema(schema)).
				Where(column, 1).
				ToSQL()
			if !errors.Is(err, fluentql.ErrSchemaViolation) {
				t.Errorf("expected ErrSchemaViolation for %q, got %v", column, err)
			}
		})
	}
}
