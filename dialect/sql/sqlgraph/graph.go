package sqlgraph

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/syssam/explorer"
	"github.com/syssam/explorer/dialect"
	"github.com/syssam/explorer/dialect/sql"
	"github.com/syssam/explorer/entity"
)

// Graph exposes the rows of a database as entities. Relations are
// registered per class from the schema edges.
type Graph struct {
	drv      dialect.Driver
	schema   *Schema
	registry *entity.Registry
	logger   *slog.Logger
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// NewGraph returns a graph reading from drv. It fails when two tables
// declare the same relation for one class.
func NewGraph(drv dialect.Driver, schema *Schema, opts ...Option) (*Graph, error) {
	if schema == nil {
		schema = &Schema{}
	}
	g := &Graph{
		drv:      drv,
		schema:   schema,
		registry: entity.NewRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	for _, t := range schema.Tables {
		descs := make([]entity.Descriptor, 0, len(t.Edges))
		for _, e := range t.Edges {
			descs = append(descs, g.descriptor(t, e))
		}
		if err := g.registry.Register(t.ClassName(), descs...); err != nil {
			return nil, fmt.Errorf("sqlgraph: %w", err)
		}
	}
	return g, nil
}

// Schema returns the schema of the graph.
func (g *Graph) Schema() *Schema { return g.schema }

// Registry returns the relation registry built from the schema.
func (g *Graph) Registry() *entity.Registry { return g.registry }

// Find returns the row of table with the given primary key. The table may
// be given by its name or its class.
func (g *Graph) Find(ctx context.Context, table string, id any) (*Row, error) {
	t, ok := g.schema.Table(table)
	if !ok {
		return nil, explorer.NewNotFoundError(table)
	}
	b := g.builder()
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s", b.columns(t, ""), b.ident(t.Name), b.ident(t.PK()), b.arg(1))
	rows, err := g.query(ctx, t, query, id, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, explorer.NewNotFoundErrorWithID(t.ClassName(), id)
	}
	return rows[0], nil
}

// descriptor returns the relation descriptor of edge e of table t.
// An edge without a join column cannot be fetched and is reported on the
// node of its owner.
func (g *Graph) descriptor(t *Table, e *Edge) entity.Descriptor {
	d := entity.Descriptor{Name: e.Name, Kind: e.Kind, Target: g.targetClass(e)}
	var fetch entity.FetchFunc
	switch {
	case e.Through != nil:
		if e.Through.Table != "" && e.Through.Column != "" && e.Through.RefColumn != "" {
			fetch = func(ctx context.Context, owner entity.Entity) ([]entity.Entity, error) {
				return g.fetchThrough(ctx, t, e, owner)
			}
		}
	case e.Column != "":
		fetch = func(ctx context.Context, owner entity.Entity) ([]entity.Entity, error) {
			return g.fetch(ctx, t, e, owner)
		}
	}
	if fetch == nil {
		return d
	}
	d.Fetch = func(ctx context.Context, owner entity.Entity) ([]entity.Entity, error) {
		related, err := fetch(ctx, owner)
		if IsUndefinedError(err) {
			return nil, &entity.MisdeclaredError{Class: t.ClassName(), Relation: e.Name, Reason: err.Error()}
		}
		return related, err
	}
	return d
}

func (g *Graph) targetClass(e *Edge) string {
	if t, ok := g.schema.Table(e.Table); ok {
		return t.ClassName()
	}
	return ""
}

// target returns the target table of e. Tables missing from the schema
// are still queried so that the database reports them.
func (g *Graph) target(e *Edge) *Table {
	if t, ok := g.schema.Table(e.Table); ok {
		return t
	}
	return &Table{Name: e.Table}
}

func (g *Graph) fetch(ctx context.Context, owner *Table, e *Edge, ent entity.Entity) ([]entity.Entity, error) {
	target := g.target(e)
	b := g.builder()
	var (
		query string
		value any
		limit int
	)
	switch e.Kind {
	case entity.ToOne:
		ref := e.RefColumn
		if ref == "" {
			ref = target.PK()
		}
		value = columnValue(ent, e.Column)
		query = fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s LIMIT 1",
			b.columns(target, ""), b.ident(target.Name), b.ident(ref), b.arg(1))
		limit = 1
	default:
		value = refValue(owner, e, ent)
		query = fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s ORDER BY %s",
			b.columns(target, ""), b.ident(target.Name), b.ident(e.Column), b.arg(1), b.ident(target.PK()))
	}
	if value == nil {
		return nil, nil
	}
	rows, err := g.query(ctx, target, query, value, limit)
	if err != nil {
		return nil, err
	}
	return entities(rows), nil
}

func (g *Graph) fetchThrough(ctx context.Context, owner *Table, e *Edge, ent entity.Entity) ([]entity.Entity, error) {
	target := g.target(e)
	b := g.builder()
	value := refValue(owner, e, ent)
	if value == nil {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s AS t JOIN %s AS j ON j.%s = t.%s WHERE j.%s = %s ORDER BY t.%s",
		b.columns(target, "t"), b.ident(target.Name), b.ident(e.Through.Table),
		b.ident(e.Through.RefColumn), b.ident(target.PK()),
		b.ident(e.Through.Column), b.arg(1), b.ident(target.PK()))
	rows, err := g.query(ctx, target, query, value, 0)
	if err != nil {
		return nil, err
	}
	return entities(rows), nil
}

// refValue returns the owner value a to-many edge is matched against.
func refValue(owner *Table, e *Edge, ent entity.Entity) any {
	if e.RefColumn == "" {
		return columnValue(ent, owner.PK())
	}
	return columnValue(ent, e.RefColumn)
}

// columnValue returns the raw value of column, falling back to the
// attribute of entities that are not rows.
func columnValue(ent entity.Entity, column string) any {
	if r, ok := ent.(*Row); ok {
		v, _ := r.Value(column)
		return v
	}
	v, _ := ent.Attributes().Get(column)
	return v
}

func (g *Graph) query(ctx context.Context, t *Table, query string, arg any, limit int) ([]*Row, error) {
	g.logger.DebugContext(ctx, "sqlgraph: query", "table", t.Name, "query", query)
	rows := &sql.Rows{}
	if err := g.drv.Query(ctx, query, []any{arg}, rows); err != nil {
		return nil, err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []*Row
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		attrs := make(entity.Attributes, len(columns))
		raw := make(map[string]any, len(columns))
		for i, c := range columns {
			attrs[i] = entity.Attribute{Name: c, Value: convert(values[i])}
			raw[c] = values[i]
		}
		out = append(out, &Row{graph: g, table: t, attrs: attrs, raw: raw})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, rows.Err()
}

func entities(rows []*Row) []entity.Entity {
	out := make([]entity.Entity, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// builder quotes identifiers and numbers placeholders for the dialect.
type builder struct{ dialect string }

func (g *Graph) builder() builder { return builder{dialect.Normalize(g.drv.Dialect())} }

func (b builder) ident(s string) string {
	if b.dialect == dialect.MySQL {
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func (b builder) arg(i int) string {
	if b.dialect == dialect.Postgres {
		return "$" + strconv.Itoa(i)
	}
	return "?"
}

func (b builder) columns(t *Table, alias string) string {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	if len(t.Columns) == 0 {
		return prefix + "*"
	}
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = prefix + b.ident(c)
	}
	return strings.Join(cols, ", ")
}
