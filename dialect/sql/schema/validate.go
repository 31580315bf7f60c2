package schema

import (
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/schema"

	"github.com/syssam/explorer/dialect/sql/sqlgraph"
	"github.com/syssam/explorer/entity"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking marks problems that make explorations fail at query time.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	if e.Table == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if any problem makes queries fail.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			if w.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}


// ValidateSchema checks that the tables and edges of s are consistent with
// each other.
//
// Example:
//
//	result := schema.ValidateSchema(s)
//	if result.HasErrors() {
//	    log.Fatal("invalid schema:\n", result)
//	}
func ValidateSchema(s *sqlgraph.Schema) *ValidationResult {
	result := &ValidationResult{}
	names := make(map[string]bool)
	classes := make(map[string]string)
	for _, t := range s.Tables {
		if t.Name == "" {
			result.Errors = append(result.Errors, &ValidationError{Message: "table without a name"})
			continue
		}
		key := strings.ToLower(t.Name)
		if names[key] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: "duplicate table name",
			})
		}
		names[key] = true
		class := t.ClassName()
		if other, ok := classes[class]; ok && !strings.EqualFold(other, t.Name) {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("class %s is also used by table %q", class, other),
			})
		}
		classes[class] = t.Name
	}
	for _, t := range s.Tables {
		validateEdges(s, t, result)
	}
	return result
}

func validateEdges(s *sqlgraph.Schema, t *sqlgraph.Table, result *ValidationResult) {
	seen := make(map[string]bool)
	for _, e := range t.Edges {
		if seen[e.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("duplicate edge name: %s", e.Name),
			})
		}
		seen[e.Name] = true
		if !e.Kind.Valid() {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("edge %q has unsupported kind %s and is never followed", e.Name, e.Kind),
			})
		}
		if _, ok := s.Table(e.Table); !ok {
			result.Errors = append(result.Errors, &ValidationError{
				Table:    t.Name,
				Message:  fmt.Sprintf("edge %q references non-existent table %q", e.Name, e.Table),
				Breaking: true,
			})
		}
		switch {
		case e.Through != nil:
			if e.Through.Table == "" || e.Through.Column == "" || e.Through.RefColumn == "" {
				result.Errors = append(result.Errors, &ValidationError{
					Table:    t.Name,
					Message:  fmt.Sprintf("edge %q has an incomplete join table", e.Name),
					Breaking: true,
				})
			}
		case e.Column == "":
			result.Errors = append(result.Errors, &ValidationError{
				Table:    t.Name,
				Message:  fmt.Sprintf("edge %q has no column", e.Name),
				Breaking: true,
			})
		}
	}
}

// ValidateLive checks s against the inspected database schema: every table
// and column an exploration queries must exist.
func ValidateLive(s *sqlgraph.Schema, live *schema.Schema) *ValidationResult {
	result := ValidateSchema(s)
	tables := make(map[string]*schema.Table, len(live.Tables))
	for _, t := range live.Tables {
		tables[strings.ToLower(t.Name)] = t
	}
	for _, t := range s.Tables {
		lt, ok := tables[strings.ToLower(t.Name)]
		if !ok {
			result.Errors = append(result.Errors, &ValidationError{
				Table:    t.Name,
				Message:  "table does not exist",
				Breaking: true,
			})
			continue
		}
		if lt.PrimaryKey == nil {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   t.Name,
				Message: "table has no primary key",
			})
		}
		requireColumn(result, lt, t.Name, t.PK())
		for _, c := range t.Columns {
			requireColumn(result, lt, t.Name, c)
		}
		for _, e := range t.Edges {
			validateLiveEdge(result, tables, s, t, e)
		}
	}
	return result
}

func validateLiveEdge(result *ValidationResult, tables map[string]*schema.Table, s *sqlgraph.Schema, t *sqlgraph.Table, e *sqlgraph.Edge) {
	target, ok := s.Table(e.Table)
	if !ok {
		return
	}
	owner, targetLive := tables[strings.ToLower(t.Name)], tables[strings.ToLower(target.Name)]
	if targetLive == nil {
		return
	}
	ref := func(col, pk string) string {
		if col != "" {
			return col
		}
		return pk
	}
	switch {
	case e.Through != nil:
		join, ok := tables[strings.ToLower(e.Through.Table)]
		if !ok {
			result.Errors = append(result.Errors, &ValidationError{
				Table:    t.Name,
				Message:  fmt.Sprintf("edge %q joins through non-existent table %q", e.Name, e.Through.Table),
				Breaking: true,
			})
			return
		}
		requireColumn(result, join, e.Through.Table, e.Through.Column)
		requireColumn(result, join, e.Through.Table, e.Through.RefColumn)
	case e.Column == "":
		// Reported by ValidateSchema.
	case e.Kind == entity.ToOne:
		requireColumn(result, owner, t.Name, e.Column)
		requireColumn(result, targetLive, target.Name, ref(e.RefColumn, target.PK()))
	default:
		requireColumn(result, targetLive, target.Name, e.Column)
		requireColumn(result, owner, t.Name, ref(e.RefColumn, t.PK()))
	}
}

func requireColumn(result *ValidationResult, t *schema.Table, table, column string) {
	if column == "" {
		return
	}
	if _, ok := t.Column(column); ok {
		return
	}
	result.Errors = append(result.Errors, &ValidationError{
		Table:    table,
		Column:   column,
		Message:  "column does not exist",
		Breaking: true,
	})
}

// Check inspects the database and validates s against it.
func Check(ctx context.Context, db schema.ExecQuerier, dialectName string, s *sqlgraph.Schema, opts ...InspectOption) (*ValidationResult, error) {
	live, err := InspectRaw(ctx, db, dialectName, opts...)
	if err != nil {
		return nil, err
	}
	return ValidateLive(s, live), nil
}
