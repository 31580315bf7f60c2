package sqlgraph

import (
	"fmt"

	"golang.org/x/text/cases"

	"github.com/syssam/explorer/entity"
	"github.com/syssam/explorer/filter"
)

// DefaultPrimaryKey is the primary key column of tables that do not name one.
const DefaultPrimaryKey = "id"

// Schema describes the tables an exploration can walk and the relations
// between them.
type Schema struct {
	Tables []*Table `yaml:"tables"`
}

// Table is a table whose rows are entities of one class.
type Table struct {
	// Name of the table, e.g. "book_reviews".
	Name string `yaml:"name"`
	// Class of the rows. Derived from Name when empty, e.g. "BookReview".
	Class string `yaml:"class,omitempty"`
	// PrimaryKey column. Defaults to "id".
	PrimaryKey string `yaml:"primary_key,omitempty"`
	// Columns to report, in order. All columns when empty.
	Columns []string `yaml:"columns,omitempty"`
	// Edges are the relations of the rows, in declaration order.
	Edges []*Edge `yaml:"edges,omitempty"`
}

// Edge is a relation from the rows of one table to the rows of another.
//
// A to-one edge reads Column on the owner row and matches it against
// RefColumn of the target table (its primary key by default). A to-many
// edge matches Column of the target table against RefColumn of the owner
// (its primary key by default). A to-many edge with Through goes over a
// join table instead.
type Edge struct {
	Name      string      `yaml:"name"`
	Kind      entity.Kind `yaml:"kind"`
	Table     string      `yaml:"table"`
	Column    string      `yaml:"column,omitempty"`
	RefColumn string      `yaml:"ref_column,omitempty"`
	Through   *Through    `yaml:"through,omitempty"`
}

// Through is the join table of a many-to-many edge. Column references the
// owner and RefColumn references the target.
type Through struct {
	Table     string `yaml:"table"`
	Column    string `yaml:"column"`
	RefColumn string `yaml:"ref_column"`
}

var fold = cases.Fold()

// Table returns the table named name. The class name and any spelling that
// normalizes to it (plural, snake case) are accepted too.
func (s *Schema) Table(name string) (*Table, bool) {
	if s == nil {
		return nil, false
	}
	want := fold.String(name)
	for _, t := range s.Tables {
		if fold.String(t.Name) == want {
			return t, true
		}
	}
	class := filter.ClassName(name)
	for _, t := range s.Tables {
		if t.ClassName() == class {
			return t, true
		}
	}
	return nil, false
}

// AddTable adds a table. It fails when a table of the same name exists.
func (s *Schema) AddTable(t *Table) error {
	if t.Name == "" {
		return fmt.Errorf("sqlgraph: table without a name")
	}
	for _, e := range s.Tables {
		if fold.String(e.Name) == fold.String(t.Name) {
			return fmt.Errorf("sqlgraph: table %q already exists", t.Name)
		}
	}
	s.Tables = append(s.Tables, t)
	return nil
}

// AddE adds an edge to the table from. Both tables must exist.
func (s *Schema) AddE(from string, e *Edge) error {
	t, ok := s.Table(from)
	if !ok {
		return fmt.Errorf("sqlgraph: table %q for edge %q was not found", from, e.Name)
	}
	if _, ok := s.Table(e.Table); !ok {
		return fmt.Errorf("sqlgraph: table %q for edge %q was not found", e.Table, e.Name)
	}
	if t.Edge(e.Name) != nil {
		return fmt.Errorf("sqlgraph: edge %s.%s already exists", t.Name, e.Name)
	}
	t.Edges = append(t.Edges, e)
	return nil
}

// ClassName returns the class of the rows.
func (t *Table) ClassName() string {
	if t.Class != "" {
		return t.Class
	}
	return filter.ClassName(t.Name)
}

// PK returns the primary key column.
func (t *Table) PK() string {
	if t.PrimaryKey != "" {
		return t.PrimaryKey
	}
	return DefaultPrimaryKey
}

// Edge returns the edge named name, or nil.
func (t *Table) Edge(name string) *Edge {
	for _, e := range t.Edges {
		if e.Name == name {
			return e
		}
	}
	return nil
}
