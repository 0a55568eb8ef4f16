// Package benchmarks provides performance benchmarks for fluentql.
package benchmarks

import (
	"io"
	"log/slog"
	"testing"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/fluentql"
	"github.com/zoobzio/fluentql/pkg/mssql"
	"github.com/zoobzio/fluentql/pkg/mysql"
	"github.com/zoobzio/fluentql/pkg/postgres"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func createBenchmarkSchema(b *testing.B) *fluentql.Schema {
	b.Helper()

	project := dbml.NewProject("bench")

	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("username", "varchar"))
	users.AddColumn(dbml.NewColumn("email", "varchar"))
	users.AddColumn(dbml.NewColumn("age", "int"))
	users.AddColumn(dbml.NewColumn("active", "boolean"))
	project.AddTable(users)

	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "bigint"))
	posts.AddColumn(dbml.NewColumn("user_id", "bigint"))
	posts.AddColumn(dbml.NewColumn("title", "varchar"))
	posts.AddColumn(dbml.NewColumn("views", "int"))
	project.AddTable(posts)

	schema, err := fluentql.NewFromDBML(project)
	if err != nil {
		b.Fatalf("Failed to create schema: %v", err)
	}
	return schema
}

func newBuilder(table string, opts ...fluentql.Option) *fluentql.Builder {
	return fluentql.New(postgres.New(), table, append(opts, fluentql.WithLogger(discard))...)
}

// BenchmarkSimpleSelect measures simple SELECT compilation.
func BenchmarkSimpleSelect(b *testing.B) {
	q := newBuilder("users")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := q.ToSQL(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithColumns measures SELECT with explicit columns.
func BenchmarkSelectWithColumns(b *testing.B) {
	q := newBuilder("users")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := q.Select("id", "username", "email", "age").ToSQL(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithWhere measures SELECT with one condition in both modes.
func BenchmarkSelectWithWhere(b *testing.B) {
	q := newBuilder("users")

	b.Run("literal", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := q.Where("active", true).ToSQL(); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("placeholder", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := q.Where("active", true).ToQmark(); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkSelectWithGroups measures nested predicate groups.
func BenchmarkSelectWithGroups(b *testing.B) {
	q := newBuilder("users")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := q.Where("active", true).
			WhereGroup(func(g *fluentql.Builder) {
				g.WhereOp("age", fluentql.GE, 18).
					OrWhereGroup(func(inner *fluentql.Builder) {
						inner.WhereNull("email").Where("username", "admin")
					})
			}).
			ToQmark()
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithJoin measures SELECT with a JOIN and aggregate.
func BenchmarkSelectWithJoin(b *testing.B) {
	q := newBuilder("users")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := q.Select("users.username").
			Sum("posts.views").
			Join("posts", "users.id", fluentql.EQ, "posts.user_id").
			GroupBy("users.username").
			ToSQL()
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkPagination measures LIMIT/OFFSET and OFFSET/FETCH rendering.
func BenchmarkPagination(b *testing.B) {
	dialects := map[string]fluentql.Dialect{
		"mysql": mysql.New(),
		"mssql": mssql.New(),
	}
	for name, d := range dialects {
		q := fluentql.New(d, "users", fluentql.WithLogger(discard))
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := q.OrderBy("id", fluentql.DESC).Limit(10).Offset(20).ToSQL(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSubquery measures IN (sub-select) and EXISTS.
func BenchmarkSubquery(b *testing.B) {
	q := newBuilder("users")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := q.WhereInSub("id", q.New().Table("posts").Select("user_id").WhereOp("views", fluentql.GT, 100)).
			WhereExists(q.New().Table("posts").Select("id").WhereColumn("posts.user_id", "users.id")).
			ToQmark()
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkInsert measures INSERT compilation.
func BenchmarkInsert(b *testing.B) {
	q := newBuilder("users")
	values := map[string]any{"username": "joe", "email": "joe@example.com", "age": 30}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := q.Create(values).ToQmark(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkUpdate measures UPDATE compilation.
func BenchmarkUpdate(b *testing.B) {
	q := newBuilder("users")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := q.Where("id", 1).Increment("age", 1).ToQmark(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDelete measures DELETE compilation.
func BenchmarkDelete(b *testing.B) {
	q := newBuilder("users")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := q.DeleteWhere("id", 1).ToQmark(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSchemaValidation measures compilation with schema checks enabled.
func BenchmarkSchemaValidation(b *testing.B) {
	q := newBuilder("users", fluentql.WithSchema(createBenchmarkSchema(b)))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := q.Select("users.username").
			Join("posts", "users.id", fluentql.EQ, "posts.user_id").
			WhereOp("posts.views", fluentql.GT, 10).
			ToSQL()
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkScope measures scope lookup and application.
func BenchmarkScope(b *testing.B) {
	model := fluentql.NewModel("users", postgres.New(), fluentql.WithLogger(discard))
	if err := model.AddScope("active", func(q *fluentql.Builder, args ...any) *fluentql.Builder {
		return q.Where("active", args[0])
	}); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := model.Query().Scope("active", true).ToSQL(); err != nil {
			b.Fatal(err)
		}
	}
}
