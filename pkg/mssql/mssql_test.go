package mssql

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/fluentql/internal/render"
	"github.com/zoobzio/fluentql/internal/types"
)

func intPtr(n int) *int { return &n }

func TestNew(t *testing.T) {
	d := New()
	if d == nil {
		t.Fatal("New() returned nil")
	}
	if d.Name() != "mssql" {
		t.Errorf("Name() = %q, want %q", d.Name(), "mssql")
	}
}

func TestQuoteIdentifier(t *testing.T) {
	d := New()
	if got := d.QuoteIdentifier("we]ird"); got != "[we]]ird]" {
		t.Errorf("QuoteIdentifier() = %q, want %q", got, "[we]]ird]")
	}
}

func TestRender_SimpleSelect(t *testing.T) {
	stmt := &types.Statement{Table: "users", Columns: []string{"id", "name"}}

	result, err := render.Compile(New(), stmt, render.ModeLiteral)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	// SQL Server uses square brackets for quoting
	expected := "SELECT [id], [name] FROM [users]"
	if result.SQL != expected {
		t.Errorf("SQL = %q, want %q", result.SQL, expected)
	}
}

func TestRender_NamedPlaceholders(t *testing.T) {
	stmt := &types.Statement{
		Table: "users",
		Wheres: []types.Predicate{
			types.Literal("active", types.EQ, 2, types.AND),
			types.Literal("gender", types.EQ, "W", types.OR),
		},
	}

	result, err := render.Compile(New(), stmt, render.ModePlaceholder)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	expected := "SELECT * FROM [users] WHERE [active] = @p1 OR [gender] = @p2"
	if result.SQL != expected {
		t.Errorf("SQL = %q, want %q", result.SQL, expected)
	}
	if want := []any{2, "W"}; !reflect.DeepEqual(result.Bindings, want) {
		t.Errorf("Bindings = %v, want %v", result.Bindings, want)
	}
}

func TestRender_Top(t *testing.T) {
	stmt := &types.Statement{
		Table:    "users",
		Columns:  []string{"id"},
		Ordering: []types.OrderBy{{Column: "id", Direction: types.ASC}},
		Limit:    intPtr(1),
	}

	result, err := render.Compile(New(), stmt, render.ModeLiteral)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	expected := "SELECT TOP 1 [id] FROM [users] ORDER BY [id] ASC"
	if result.SQL != expected {
		t.Errorf("SQL = %q, want %q", result.SQL, expected)
	}
}

func TestRender_OffsetFetch(t *testing.T) {
	stmt := &types.Statement{
		Table:    "users",
		Ordering: []types.OrderBy{{Column: "id", Direction: types.DESC}},
		Limit:    intPtr(10),
		Offset:   intPtr(20),
	}

	result, err := render.Compile(New(), stmt, render.ModeLiteral)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	expected := "SELECT * FROM [users] ORDER BY [id] DESC OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY"
	if result.SQL != expected {
		t.Errorf("SQL = %q, want %q", result.SQL, expected)
	}
}

func TestRender_OffsetRequiresOrderBy(t *testing.T) {
	stmt := &types.Statement{Table: "users", Limit: intPtr(10), Offset: intPtr(20)}

	_, err := render.Compile(New(), stmt, render.ModeLiteral)
	if !errors.Is(err, render.ErrUnsupportedFeature) {
		t.Fatalf("expected ErrUnsupportedFeature, got %v", err)
	}
}
