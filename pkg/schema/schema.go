package schema

import "slices"

// PrimaryKey is the attribute marking a column as (part of) the primary key.
const PrimaryKey = "pk"

// Relation is the cardinality operator of a relationship, read left to right.
type Relation string

const (
	OneToOne   Relation = "-"
	OneToMany  Relation = ">"
	ManyToOne  Relation = "<"
	ManyToMany Relation = "<>"
)

// Valid reports whether r is one of the four known operators.
func (r Relation) Valid() bool {
	switch r {
	case OneToOne, OneToMany, ManyToOne, ManyToMany:
		return true
	}
	return false
}

// Column is a single column definition inside a table block.
type Column struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Attributes []string `json:"attributes"`
}

// HasAttribute reports whether the column carries attr verbatim.
func (c Column) HasAttribute(attr string) bool {
	return slices.Contains(c.Attributes, attr)
}

// IsPrimaryKey reports whether the column is part of the primary key.
func (c Column) IsPrimaryKey() bool { return c.HasAttribute(PrimaryKey) }

// Table is a named, ordered list of columns.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Column returns the column with the given name and true, or a zero Column
// and false if the table has no such column.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Ref is a relationship between two columns. Table and column names are weak
// references: they may name things that were never declared.
type Ref struct {
	FromTable  string   `json:"from_table"`
	FromColumn string   `json:"from_column"`
	ToTable    string   `json:"to_table"`
	ToColumn   string   `json:"to_column"`
	Relation   Relation `json:"relation"`
}

// Schema is the structured result of parsing schema text.
//
// Tables are keyed by name and keep the order in which each name first
// appeared. A Schema returned by [Parse] is never modified afterwards; a new
// parse produces a new value.
type Schema struct {
	tables []Table
	index  map[string]int

	// Refs holds relationships in text order.
	Refs []Ref
}

// New creates an empty schema.
func New() *Schema {
	return &Schema{index: make(map[string]int)}
}

// Tables returns the tables in insertion order. The returned slice is a copy.
func (s *Schema) Tables() []Table {
	if s == nil {
		return nil
	}
	return slices.Clone(s.tables)
}

// Table returns the table with the given name.
func (s *Schema) Table(name string) (Table, bool) {
	if s == nil {
		return Table{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Table{}, false
	}
	return s.tables[i], true
}

// TableCount returns the number of distinct table names.
func (s *Schema) TableCount() int {
	if s == nil {
		return 0
	}
	return len(s.tables)
}

// IsEmpty reports whether the schema has neither tables nor refs.
func (s *Schema) IsEmpty() bool {
	return s.TableCount() == 0 && (s == nil || len(s.Refs) == 0)
}

// putTable stores t. A later table with an existing name replaces the
// earlier columns but keeps the earlier position.
func (s *Schema) putTable(t Table) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[t.Name]; ok {
		s.tables[i] = t
		return
	}
	s.index[t.Name] = len(s.tables)
	s.tables = append(s.tables, t)
}

// Equal reports whether two schemas have the same tables (in order) and refs.
func (s *Schema) Equal(o *Schema) bool {
	if s.TableCount() != o.TableCount() {
		return false
	}
	for i, t := range s.Tables() {
		ot := o.tables[i]
		if t.Name != ot.Name || !slices.EqualFunc(t.Columns, ot.Columns, columnsEqual) {
			return false
		}
	}
	var a, b []Ref
	if s != nil {
		a = s.Refs
	}
	if o != nil {
		b = o.Refs
	}
	return slices.Equal(a, b)
}

func columnsEqual(a, b Column) bool {
	return a.Name == b.Name && a.Type == b.Type && slices.Equal(a.Attributes, b.Attributes)
}
