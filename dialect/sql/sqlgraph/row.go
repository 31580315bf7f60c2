package sqlgraph

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/syssam/explorer/entity"
)

// Row is a table row seen as an entity.
type Row struct {
	graph *Graph
	table *Table
	attrs entity.Attributes
	raw   map[string]any
}

var (
	_ entity.Entity = (*Row)(nil)
	_ entity.IDer   = (*Row)(nil)
)

// Class implements entity.Entity.
func (r *Row) Class() string { return r.table.ClassName() }

// Table returns the table of the row.
func (r *Row) Table() *Table { return r.table }

// Attributes implements entity.Entity. Columns keep the order of the table.
func (r *Row) Attributes() entity.Attributes { return r.attrs.Clone() }

// ID returns the primary key value.
func (r *Row) ID() any {
	v, _ := r.attrs.Get(r.table.PK())
	return v
}

// Value returns the value of column as the driver returned it. Join
// values are matched in this form.
func (r *Row) Value(column string) (any, bool) {
	v, ok := r.raw[column]
	return v, ok
}

// Relations implements entity.Entity.
func (r *Row) Relations(ctx context.Context) ([]entity.Relation, error) {
	return r.graph.registry.Relations(ctx, r)
}

// convert turns driver values into printable attribute values. Text read as
// bytes becomes a string and 16-byte binary values are shown as UUIDs.
func convert(v any) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	if len(b) == 16 && !utf8.Valid(b) {
		if id, err := uuid.FromBytes(b); err == nil {
			return id.String()
		}
	}
	return string(b)
}
