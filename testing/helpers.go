// Package testing provides test utilities for fluentql.
package testing

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/fluentql"
)

// TestSchema creates a schema for testing.
// Includes users, posts, comments, orders, and products tables.
func TestSchema(t *testing.T) *fluentql.Schema {
	t.Helper()

	project := dbml.NewProject("test")

	// Users table
	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("name", "varchar"))
	users.AddColumn(dbml.NewColumn("email", "varchar"))
	users.AddColumn(dbml.NewColumn("age", "int"))
	users.AddColumn(dbml.NewColumn("gender", "varchar"))
	users.AddColumn(dbml.NewColumn("active", "int"))
	users.AddColumn(dbml.NewColumn("manager_id", "bigint"))
	users.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	users.AddColumn(dbml.NewColumn("updated_at", "timestamp"))
	users.AddColumn(dbml.NewColumn("deleted_at", "timestamp"))
	project.AddTable(users)

	// Posts table
	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "bigint"))
	posts.AddColumn(dbml.NewColumn("user_id", "bigint"))
	posts.AddColumn(dbml.NewColumn("title", "varchar"))
	posts.AddColumn(dbml.NewColumn("body", "text"))
	posts.AddColumn(dbml.NewColumn("published", "boolean"))
	posts.AddColumn(dbml.NewColumn("views", "int"))
	project.AddTable(posts)

	// Comments table
	comments := dbml.NewTable("comments")
	comments.AddColumn(dbml.NewColumn("id", "bigint"))
	comments.AddColumn(dbml.NewColumn("post_id", "bigint"))
	comments.AddColumn(dbml.NewColumn("user_id", "bigint"))
	comments.AddColumn(dbml.NewColumn("body", "text"))
	project.AddTable(comments)

	// Orders table
	orders := dbml.NewTable("orders")
	orders.AddColumn(dbml.NewColumn("id", "bigint"))
	orders.AddColumn(dbml.NewColumn("user_id", "bigint"))
	orders.AddColumn(dbml.NewColumn("total", "numeric"))
	orders.AddColumn(dbml.NewColumn("status", "varchar"))
	project.AddTable(orders)

	// Products table
	products := dbml.NewTable("products")
	products.AddColumn(dbml.NewColumn("id", "bigint"))
	products.AddColumn(dbml.NewColumn("name", "varchar"))
	products.AddColumn(dbml.NewColumn("price", "numeric"))
	products.AddColumn(dbml.NewColumn("stock", "int"))
	project.AddTable(products)

	schema, err := fluentql.NewFromDBML(project)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}
	return schema
}

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertBindings checks that bindings match expected values in order.
func AssertBindings(t *testing.T, expected, actual []any) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("Binding count mismatch: expected %d, got %d\nExpected: %v\nActual: %v",
			len(expected), len(actual), expected, actual)
		return
	}
	for i := range expected {
		if !reflect.DeepEqual(expected[i], actual[i]) {
			t.Errorf("Binding %d mismatch: expected %#v, got %#v", i, expected[i], actual[i])
		}
	}
}

// AssertPlaceholders checks that sql contains exactly one marker per binding.
func AssertPlaceholders(t *testing.T, marker, sql string, bindings []any) {
	t.Helper()
	if got := strings.Count(sql, marker); got != len(bindings) {
		t.Errorf("Placeholder count %d does not match binding count %d in %s", got, len(bindings), sql)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertErrorIs checks that err wraps target.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error wrapping %v but got nil", target)
	}
	if !errors.Is(err, target) {
		t.Errorf("Expected error wrapping %v, got: %v", target, err)
	}
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertPanics verifies that a function panics.
func AssertPanics(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic but function completed normally")
		}
	}()
	fn()
}

// Call is one statement received by a StubConnection.
type Call struct {
	SQL      string
	Bindings []any
	Results  int
	Exec     bool
}

// StubConnection is an in-memory fluentql.Connection that records every
// statement and answers with canned rows.
type StubConnection struct {
	Err      error
	Rows     []fluentql.Row
	calls    []Call
	Info     fluentql.ConnectionDetails
	Affected int64
	mu       sync.Mutex
}

// MakeConnection returns a session recording into s.
func (s *StubConnection) MakeConnection(context.Context) (fluentql.Session, error) {
	return stubSession{s}, nil
}

// Details returns s.Info.
func (s *StubConnection) Details() fluentql.ConnectionDetails {
	return s.Info
}

// Calls returns the recorded statements in order.
func (s *StubConnection) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *StubConnection) record(c Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

type stubSession struct {
	conn *StubConnection
}

func (s stubSession) Query(_ context.Context, sql string, bindings []any, results int) ([]fluentql.Row, error) {
	s.conn.record(Call{SQL: sql, Bindings: bindings, Results: results})
	if s.conn.Err != nil {
		return nil, s.conn.Err
	}
	rows := s.conn.Rows
	if results > 0 && len(rows) > results {
		rows = rows[:results]
	}
	return rows, nil
}

func (s stubSession) Exec(_ context.Context, sql string, bindings []any) (int64, error) {
	s.conn.record(Call{SQL: sql, Bindings: bindings, Exec: true})
	if s.conn.Err != nil {
		return 0, s.conn.Err
	}
	return s.conn.Affected, nil
}

func (stubSession) Begin(context.Context) error { return nil }
func (stubSession) Commit() error               { return nil }
func (stubSession) Rollback() error             { return nil }
