package fluentql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/fluentql/internal/types"
)

// Schema validates statements against a DBML project before they are
// rendered.
type Schema struct {
	project *dbml.Project
	// Internal indexes for fast validation
	tables map[string]*dbml.Table
	fields map[string]map[string]*dbml.Column // table -> column -> definition
}

// NewFromDBML creates a schema from a DBML project.
func NewFromDBML(project *dbml.Project) (*Schema, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}

	s := &Schema{
		project: project,
		tables:  make(map[string]*dbml.Table),
		fields:  make(map[string]map[string]*dbml.Column),
	}

	for _, table := range project.Tables {
		s.tables[table.Name] = table
		s.fields[table.Name] = make(map[string]*dbml.Column)
		for _, col := range table.Columns {
			s.fields[table.Name][col.Name] = col
		}
	}

	return s, nil
}

// Project returns the underlying DBML project.
func (s *Schema) Project() *dbml.Project {
	return s.project
}

// Tables returns the table names in sorted order.
func (s *Schema) Tables() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateTable checks that a table exists in the schema.
func (s *Schema) ValidateTable(name string) error {
	if _, ok := s.tables[name]; !ok {
		return fmt.Errorf("%w: table '%s' not found in schema", ErrSchemaViolation, name)
	}
	return nil
}

// ValidateColumn checks that column exists. A qualified column must exist
// in its table; an unqualified one in any of tables, or in any schema
// table when tables is empty.
func (s *Schema) ValidateColumn(column string, tables ...string) error {
	if column == "*" {
		return nil
	}

	if dot := strings.LastIndex(column, "."); dot != -1 {
		table, name := column[:dot], column[dot+1:]
		if err := s.ValidateTable(table); err != nil {
			return err
		}
		if name == "*" {
			return nil
		}
		if _, ok := s.fields[table][name]; !ok {
			return fmt.Errorf("%w: column '%s' not found in table '%s'", ErrSchemaViolation, name, table)
		}
		return nil
	}

	if len(tables) == 0 {
		tables = s.Tables()
	}
	for _, table := range tables {
		if _, ok := s.fields[table][column]; ok {
			return nil
		}
	}
	return fmt.Errorf("%w: column '%s' not found in %s", ErrSchemaViolation, column, strings.Join(tables, ", "))
}

// TryTable returns name if the table exists in the schema.
func (s *Schema) TryTable(name string) (string, error) {
	if err := s.ValidateTable(name); err != nil {
		return "", fmt.Errorf("invalid table: %w", err)
	}
	return name, nil
}

// Table returns name, panicking if the table does not exist.
func (s *Schema) Table(name string) string {
	t, err := s.TryTable(name)
	if err != nil {
		panic(err)
	}
	return t
}

// TryColumn returns column if it exists in the schema.
func (s *Schema) TryColumn(column string) (string, error) {
	if err := s.ValidateColumn(column); err != nil {
		return "", fmt.Errorf("invalid column: %w", err)
	}
	return column, nil
}

// Column returns column, panicking if it does not exist.
func (s *Schema) Column(column string) string {
	c, err := s.TryColumn(column)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks every table and column stmt references, including those
// of nested sub-selects and sub-groups.
func (s *Schema) Validate(stmt *Statement) error {
	if stmt == nil {
		return nil
	}
	if err := s.ValidateTable(stmt.Table); err != nil {
		return err
	}

	tables := []string{stmt.Table}
	for _, join := range stmt.Joins {
		if err := s.ValidateTable(join.Table); err != nil {
			return err
		}
		tables = append(tables, join.Table)
	}

	var columns []string
	columns = append(columns, stmt.Columns...)
	columns = append(columns, stmt.GroupBy...)
	for _, join := range stmt.Joins {
		columns = append(columns, join.Left, join.Right)
	}
	for _, order := range stmt.Ordering {
		columns = append(columns, order.Column)
	}
	for _, agg := range stmt.Aggregates {
		columns = append(columns, agg.Column)
	}
	for column := range stmt.Inserts {
		columns = append(columns, column)
	}
	for _, update := range stmt.Updates {
		if update.Kind == types.UpdateSet {
			for column := range update.Values {
				columns = append(columns, column)
			}
			continue
		}
		columns = append(columns, update.Column)
	}

	for _, column := range columns {
		if err := s.ValidateColumn(column, tables...); err != nil {
			return err
		}
	}

	return s.validatePredicates(stmt.Wheres, tables)
}

func (s *Schema) validatePredicates(predicates []types.Predicate, tables []string) error {
	for _, p := range predicates {
		if p.Column != "" {
			if err := s.ValidateColumn(p.Column, tables...); err != nil {
				return err
			}
		}
		switch p.Kind {
		case types.ValueColumn:
			if right, ok := p.Value.(string); ok {
				if err := s.ValidateColumn(right, tables...); err != nil {
					return err
				}
			}
		case types.ValueSubSelect:
			if err := s.Validate(p.Nested); err != nil {
				return err
			}
		case types.ValueSubGroup:
			if p.Nested != nil {
				if err := s.validatePredicates(p.Nested.Wheres, tables); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
