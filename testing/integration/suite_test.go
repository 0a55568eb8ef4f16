package integration

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/zoobzio/fluentql"
	"github.com/zoobzio/fluentql/connection"
)

var schemaDDL = []string{
	`DROP TABLE IF EXISTS posts`,
	`DROP TABLE IF EXISTS users`,
	`CREATE TABLE users (
		id INT PRIMARY KEY,
		name VARCHAR(64) NOT NULL,
		email VARCHAR(128) NULL,
		age INT,
		active INT
	)`,
	`CREATE TABLE posts (
		id INT PRIMARY KEY,
		user_id INT,
		title VARCHAR(128),
		views INT
	)`,
}

var seedUsers = []map[string]any{
	{"id": 1, "name": "ann", "email": "ann@example.com", "age": 30, "active": 1},
	{"id": 2, "name": "bob", "email": nil, "age": 17, "active": 1},
	{"id": 3, "name": "cid", "email": "cid@example.com", "age": 45, "active": 0},
	{"id": 4, "name": "dee", "email": nil, "age": 22, "active": 1},
}

var seedPosts = []map[string]any{
	{"id": 1, "user_id": 1, "title": "first", "views": 100},
	{"id": 2, "user_id": 1, "title": "second", "views": 50},
	{"id": 3, "user_id": 3, "title": "third", "views": 10},
}

// suite runs the shared scenarios against one database.
type suite struct {
	conn *connection.SQLConnection
}

func newSuite(t *testing.T, conn *connection.SQLConnection) *suite {
	t.Helper()
	ctx := context.Background()

	session, err := conn.MakeConnection(ctx)
	if err != nil {
		t.Fatalf("Failed to open session: %v", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := session.Exec(ctx, ddl, nil); err != nil {
			t.Fatalf("Failed to execute SQL: %v\nSQL: %s", err, ddl)
		}
	}

	s := &suite{conn: conn}
	for _, row := range seedUsers {
		s.create(t, "users", row)
	}
	for _, row := range seedPosts {
		s.create(t, "posts", row)
	}
	return s
}

func (s *suite) query(table string) *fluentql.Builder {
	return fluentql.New(s.conn.Dialect(), table, fluentql.WithConnection(s.conn))
}

func (s *suite) create(t *testing.T, table string, row map[string]any) {
	t.Helper()
	if _, err := s.query(table).Create(row).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to insert into %s: %v", table, err)
	}
}

// names runs b and returns the "name" column of each row.
func names(t *testing.T, b *fluentql.Builder) []string {
	t.Helper()
	rows, err := b.Get(context.Background())
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, fmt.Sprint(row["name"]))
	}
	return out
}

func assertNames(t *testing.T, want, got []string) {
	t.Helper()
	if fmt.Sprint(want) != fmt.Sprint(got) {
		t.Errorf("names = %v, want %v", got, want)
	}
}

func runSuite(t *testing.T, conn *connection.SQLConnection) {
	s := newSuite(t, conn)
	ctx := context.Background()

	t.Run("where", func(t *testing.T) {
		got := names(t, s.query("users").WhereOp("age", fluentql.GT, 20).Where("active", 1).OrderBy("id"))
		assertNames(t, []string{"ann", "dee"}, got)
	})

	t.Run("or where", func(t *testing.T) {
		got := names(t, s.query("users").Where("name", "bob").OrWhere("name", "cid").OrderBy("id"))
		assertNames(t, []string{"bob", "cid"}, got)
	})

	t.Run("group", func(t *testing.T) {
		got := names(t, s.query("users").
			Where("active", 1).
			WhereGroup(func(q *fluentql.Builder) {
				q.WhereOp("age", fluentql.LT, 18).OrWhere("name", "ann")
			}).
			OrderBy("id"))
		assertNames(t, []string{"ann", "bob"}, got)
	})

	t.Run("null checks", func(t *testing.T) {
		assertNames(t, []string{"bob", "dee"}, names(t, s.query("users").WhereNull("email").OrderBy("id")))
		assertNames(t, []string{"ann", "cid"}, names(t, s.query("users").WhereNotNull("email").OrderBy("id")))
	})

	t.Run("membership", func(t *testing.T) {
		assertNames(t, []string{"ann", "cid"},
			names(t, s.query("users").WhereIn("name", []any{"ann", "cid"}).OrderBy("id")))
		assertNames(t, []string{"bob", "dee"},
			names(t, s.query("users").WhereNotIn("name", []any{"ann", "cid"}).OrderBy("id")))
		assertNames(t, []string{},
			names(t, s.query("users").WhereIn("name", nil)))
		assertNames(t, []string{"ann", "bob", "cid", "dee"},
			names(t, s.query("users").WhereNotIn("name", nil).OrderBy("id")))
	})

	t.Run("sub-select", func(t *testing.T) {
		b := s.query("users")
		got := names(t, b.WhereInSub("id", b.New().Table("posts").Select("user_id").WhereOp("views", fluentql.GE, 50)))
		assertNames(t, []string{"ann"}, got)
	})

	t.Run("exists", func(t *testing.T) {
		b := s.query("users")
		posted := func() *fluentql.Builder {
			return b.New().Table("posts").Select("id").WhereColumn("posts.user_id", "users.id")
		}
		assertNames(t, []string{"ann", "cid"}, names(t, b.WhereExists(posted()).OrderBy("id")))
		assertNames(t, []string{"bob", "dee"}, names(t, b.WhereNotExists(posted()).OrderBy("id")))
	})

	t.Run("join and aggregate", func(t *testing.T) {
		rows, err := s.query("users").
			Select("users.name").
			Sum("posts.views").
			Join("posts", "users.id", fluentql.EQ, "posts.user_id").
			GroupBy("users.name").
			OrderBy("users.name").
			Get(ctx)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rows))
		}
		if got := fmt.Sprint(rows[0]["views"]); got != "150" {
			t.Errorf("ann views = %s, want 150", got)
		}
		if got := fmt.Sprint(rows[1]["views"]); got != "10" {
			t.Errorf("cid views = %s, want 10", got)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		assertNames(t, []string{"ann", "bob"}, names(t, s.query("users").OrderBy("id").Limit(2)))
		assertNames(t, []string{"bob", "cid"}, names(t, s.query("users").OrderBy("id").Limit(2).Offset(1)))
	})

	t.Run("first", func(t *testing.T) {
		row, err := s.query("users").Where("name", "dee").First(ctx)
		if err != nil {
			t.Fatalf("First failed: %v", err)
		}
		if got := fmt.Sprint(row["age"]); got != "22" {
			t.Errorf("age = %s, want 22", got)
		}

		_, err = s.query("users").Where("name", "zed").First(ctx)
		if !errors.Is(err, fluentql.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("increment and decrement", func(t *testing.T) {
		b := s.query("users")
		s.exec(t, b.Where("id", 2).Increment("age", 3), 1)
		s.exec(t, b.Where("id", 2).Decrement("age"), 1)

		row, err := b.Where("id", 2).First(ctx)
		if err != nil {
			t.Fatalf("First failed: %v", err)
		}
		if got := fmt.Sprint(row["age"]); got != "19" {
			t.Errorf("age = %s, want 19", got)
		}
	})

	t.Run("update", func(t *testing.T) {
		b := s.query("users")
		s.exec(t, b.Where("id", 4).Update(map[string]any{"email": "dee@example.com"}), 1)
		assertNames(t, []string{"bob"}, names(t, b.WhereNull("email")))
	})

	t.Run("transaction rollback", func(t *testing.T) {
		session, err := s.conn.MakeConnection(ctx)
		if err != nil {
			t.Fatalf("Failed to open session: %v", err)
		}
		if err := session.Begin(ctx); err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		s.create(t, "users", map[string]any{"id": 5, "name": "eve", "age": 50, "active": 1})
		if err := session.Rollback(); err != nil {
			t.Fatalf("Rollback failed: %v", err)
		}

		_, err = s.query("users").Where("name", "eve").First(ctx)
		if !errors.Is(err, fluentql.ErrNotFound) {
			t.Errorf("expected rolled back row to be gone, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		b := s.query("users")
		s.exec(t, b.DeleteWhere("id", 3), 1)
		assertNames(t, []string{"ann", "bob", "dee"}, names(t, b.OrderBy("id")))
	})
}

func (s *suite) exec(t *testing.T, b *fluentql.Builder, want int64) {
	t.Helper()
	affected, err := b.Exec(context.Background())
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if affected != want {
		t.Errorf("affected = %d, want %d", affected, want)
	}
}
