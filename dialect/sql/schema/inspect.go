package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"
	"github.com/go-openapi/inflect"

	"github.com/syssam/explorer/dialect"
	"github.com/syssam/explorer/dialect/sql/sqlgraph"
	"github.com/syssam/explorer/entity"
)

// InspectOption configures an inspection.
type InspectOption func(*inspectConfig)

type inspectConfig struct {
	schemaName string
	tables     []string
	logger     *slog.Logger
}

// WithSchemaName sets the database schema to inspect. The connection's
// current schema is used by default.
func WithSchemaName(name string) InspectOption {
	return func(c *inspectConfig) { c.schemaName = name }
}

// WithTables limits the inspection to the named tables.
func WithTables(names ...string) InspectOption {
	return func(c *inspectConfig) { c.tables = append(c.tables, names...) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) InspectOption {
	return func(c *inspectConfig) { c.logger = l }
}

func newInspectConfig(opts []InspectOption) *inspectConfig {
	c := &inspectConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open returns the atlas driver of the dialect over db.
func Open(db schema.ExecQuerier, name string) (migrate.Driver, error) {
	switch dialect.Normalize(name) {
	case dialect.SQLite:
		return sqlite.Open(db)
	case dialect.MySQL:
		return mysql.Open(db)
	case dialect.Postgres:
		return postgres.Open(db)
	default:
		return nil, fmt.Errorf("schema: unsupported dialect %q", name)
	}
}

// InspectRaw returns the atlas description of the database schema.
func InspectRaw(ctx context.Context, db schema.ExecQuerier, dialectName string, opts ...InspectOption) (*schema.Schema, error) {
	cfg := newInspectConfig(opts)
	drv, err := Open(db, dialectName)
	if err != nil {
		return nil, err
	}
	var iopts *schema.InspectOptions
	if len(cfg.tables) > 0 {
		iopts = &schema.InspectOptions{Tables: cfg.tables}
	}
	s, err := drv.InspectSchema(ctx, cfg.schemaName, iopts)
	if err != nil {
		return nil, fmt.Errorf("schema: inspect: %w", err)
	}
	return s, nil
}

// Inspect reads the tables of the database and derives their relations from
// the foreign keys. Every single-column foreign key yields a to-one edge on
// the owning table and a to-many edge on the referenced table.
func Inspect(ctx context.Context, db schema.ExecQuerier, dialectName string, opts ...InspectOption) (*sqlgraph.Schema, error) {
	raw, err := InspectRaw(ctx, db, dialectName, opts...)
	if err != nil {
		return nil, err
	}
	return Convert(raw, opts...), nil
}

// Convert builds the graph schema of an atlas schema.
func Convert(raw *schema.Schema, opts ...InspectOption) *sqlgraph.Schema {
	cfg := newInspectConfig(opts)
	out := &sqlgraph.Schema{}
	for _, t := range raw.Tables {
		out.Tables = append(out.Tables, &sqlgraph.Table{
			Name:       t.Name,
			PrimaryKey: primaryKey(t),
		})
	}
	for _, t := range raw.Tables {
		for _, fk := range t.ForeignKeys {
			if len(fk.Columns) != 1 || len(fk.RefColumns) != 1 || fk.RefTable == nil {
				cfg.logger.Debug("schema: composite foreign key skipped", "table", t.Name, "constraint", fk.Symbol)
				continue
			}
			owner, _ := out.Table(t.Name)
			ref, ok := out.Table(fk.RefTable.Name)
			if !ok {
				cfg.logger.Debug("schema: foreign key to an uninspected table skipped", "table", t.Name, "references", fk.RefTable.Name)
				continue
			}
			col, refCol := fk.Columns[0].Name, fk.RefColumns[0].Name
			owner.Edges = append(owner.Edges, &sqlgraph.Edge{
				Name:      uniqueName(owner, toOneName(col, ref.Name), col),
				Kind:      entity.ToOne,
				Table:     ref.Name,
				Column:    col,
				RefColumn: refCol,
			})
			ref.Edges = append(ref.Edges, &sqlgraph.Edge{
				Name:      uniqueName(ref, owner.Name, col),
				Kind:      entity.ToMany,
				Table:     owner.Name,
				Column:    col,
				RefColumn: refCol,
			})
		}
	}
	return out
}

// Merge returns the tables of static followed by the inspected tables that
// static does not declare. Declared tables keep their edges first and gain
// the inspected edges whose names are free.
func Merge(static, inspected *sqlgraph.Schema) *sqlgraph.Schema {
	out := &sqlgraph.Schema{}
	if static != nil {
		for _, t := range static.Tables {
			c := *t
			c.Edges = append([]*sqlgraph.Edge(nil), t.Edges...)
			out.Tables = append(out.Tables, &c)
		}
	}
	if inspected == nil {
		return out
	}
	for _, t := range inspected.Tables {
		declared, ok := out.Table(t.Name)
		if !ok {
			c := *t
			c.Edges = append([]*sqlgraph.Edge(nil), t.Edges...)
			out.Tables = append(out.Tables, &c)
			continue
		}
		if declared.PrimaryKey == "" {
			declared.PrimaryKey = t.PrimaryKey
		}
		for _, e := range t.Edges {
			if declared.Edge(e.Name) == nil {
				declared.Edges = append(declared.Edges, e)
			}
		}
	}
	return out
}

// primaryKey returns the column identifying the rows of t: its primary key,
// or the first column of a composite or missing key.
func primaryKey(t *schema.Table) string {
	if t.PrimaryKey != nil && len(t.PrimaryKey.Parts) > 0 && t.PrimaryKey.Parts[0].C != nil {
		return t.PrimaryKey.Parts[0].C.Name
	}
	if len(t.Columns) > 0 {
		return t.Columns[0].Name
	}
	return ""
}

// toOneName names a to-one edge after its column ("author_id" is "author"),
// or after the singular of the referenced table.
func toOneName(column, refTable string) string {
	for _, suffix := range []string{"_id", "_uuid", "Id", "ID"} {
		if name := strings.TrimSuffix(column, suffix); name != column && name != "" {
			return name
		}
	}
	return inflect.Singularize(refTable)
}

func uniqueName(t *sqlgraph.Table, name, column string) string {
	if t.Edge(name) == nil {
		return name
	}
	return name + "_" + column
}
