package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/explorer"
	"github.com/syssam/explorer/config"
	"github.com/syssam/explorer/dialect"
	"github.com/syssam/explorer/dialect/sql"
	"github.com/syssam/explorer/dialect/sql/schema"
	"github.com/syssam/explorer/dialect/sql/sqlgraph"
	"github.com/syssam/explorer/filter"
	"github.com/syssam/explorer/render/diagram"
)

// flags are the command line options shared by every command.
type flags struct {
	config       string
	dialect      string
	dsn          string
	searchPath   string
	slowQuery    time.Duration
	inspect      bool
	class        []string
	hide         []string
	assoc        []string
	attrs        []string
	limit        int
	depth        int
	originAsRoot bool
	logLevel     string
	logFormat    string
}

func (f *flags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.config, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&f.dialect, "dialect", "", "Database dialect (sqlite, postgres, mysql)")
	pf.StringVar(&f.dsn, "dsn", "", "Data source name")
	pf.StringVar(&f.searchPath, "search-path", "", "Postgres schema to query")
	pf.DurationVar(&f.slowQuery, "slow-query", 0, "Log queries slower than this duration (0 = disabled)")
	pf.BoolVar(&f.inspect, "inspect", true, "Derive relations from foreign keys")
	pf.StringSliceVar(&f.class, "class", nil, "Only show these classes")
	pf.StringSliceVar(&f.hide, "hide", nil, "Hide these classes")
	pf.StringSliceVar(&f.assoc, "assoc", nil, "Associations to follow (to_one, to_many, all, direct)")
	pf.StringArrayVar(&f.attrs, "attrs", nil, "Attributes of a class, e.g. Book=title,year")
	pf.IntVar(&f.limit, "limit", 0, "Maximum number of attributes per entity")
	pf.IntVar(&f.depth, "depth", 0, "Maximum traversal depth")
	pf.BoolVar(&f.originAsRoot, "origin-as-root", false, "Point every edge away from the explored entity")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&f.logFormat, "log-format", "", "Log format (text, json)")
}

// overrides returns the filters given on the command line.
func (f *flags) overrides(cmd *cobra.Command) (filter.Set, error) {
	var s filter.Set
	if len(f.class) > 0 && len(f.hide) > 0 {
		return s, fmt.Errorf("--class and --hide are mutually exclusive")
	}
	switch {
	case len(f.class) > 0:
		s.Class = filter.Allow(f.class...)
	case len(f.hide) > 0:
		s.Class = filter.Deny(f.hide...)
	}
	if cmd.Flags().Changed("assoc") {
		a, err := filter.ParseAssociations(f.assoc...)
		if err != nil {
			return s, err
		}
		s.Associations = &a
	}
	if len(f.attrs) > 0 {
		attrs, err := parseAttributes(f.attrs)
		if err != nil {
			return s, err
		}
		s.Attributes = attrs
	}
	if cmd.Flags().Changed("limit") {
		s.AttributeLimit = filter.Int(f.limit)
	}
	if cmd.Flags().Changed("depth") {
		s.Depth = filter.Int(f.depth)
	}
	return s, nil
}

// file returns the loaded configuration with the command line applied.
func (f *flags) file(cmd *cobra.Command) (*config.File, error) {
	boot := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	file, err := config.NewLoader(boot).Load(f.config)
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("dialect") {
		file.Database.Dialect = f.dialect
	}
	if changed("dsn") {
		file.Database.DSN = f.dsn
	}
	if changed("search-path") {
		file.Database.SearchPath = f.searchPath
	}
	if changed("slow-query") {
		file.Database.SlowQuery = f.slowQuery
	}
	if changed("inspect") {
		v := f.inspect
		file.Schema.Inspect = &v
	}
	if changed("origin-as-root") {
		file.Output.OriginAsRoot = f.originAsRoot
	}
	if changed("log-level") {
		file.Log.Level = f.logLevel
	}
	if changed("log-format") {
		file.Log.Format = f.logFormat
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return file, nil
}

// parseAttributes parses "Class=a,b" pairs.
func parseAttributes(pairs []string) (filter.Attributes, error) {
	attrs := make(filter.Attributes, len(pairs))
	for _, p := range pairs {
		class, names, ok := strings.Cut(p, "=")
		class = strings.TrimSpace(class)
		if !ok || class == "" {
			return nil, fmt.Errorf("invalid --attrs %q: want Class=attr,attr", p)
		}
		var list []string
		for _, n := range strings.Split(names, ",") {
			if n = strings.TrimSpace(n); n != "" {
				list = append(list, n)
			}
		}
		attrs[class] = append(attrs[class], list...)
	}
	return attrs, nil
}

// parseID returns id as an integer when it is one.
func parseID(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

// app holds what a command needs to explore the database.
type app struct {
	file      *config.File
	logger    *slog.Logger
	config    *explorer.Config
	overrides filter.Set
	drv       *sql.Driver
	stats     *sql.StatsDriver
	graph     *sqlgraph.Graph
}

// newApp loads the configuration. It does not connect.
func newApp(cmd *cobra.Command, f *flags) (*app, error) {
	file, err := f.file(cmd)
	if err != nil {
		return nil, err
	}
	overrides, err := f.overrides(cmd)
	if err != nil {
		return nil, err
	}
	a := &app{
		file:      file,
		logger:    file.Logger(cmd.ErrOrStderr()),
		config:    explorer.NewConfig(),
		overrides: overrides,
	}
	if err := file.Apply(a.config, nil); err != nil {
		return nil, err
	}
	a.config.SetLogger(a.logger)
	return a, nil
}

// connect opens the database and builds the graph of its tables.
func (a *app) connect(ctx context.Context) error {
	db := a.file.Database
	if db.DSN == "" {
		return fmt.Errorf("no data source: set --dsn or database.dsn")
	}
	drv, err := sql.Open(db.Dialect, db.DSN)
	if err != nil {
		return fmt.Errorf("open %s: %w", db.Dialect, err)
	}
	a.drv = drv
	if err := drv.DB().PingContext(ctx); err != nil {
		return fmt.Errorf("connect %s: %w", db.Dialect, err)
	}
	var opts []sql.StatsOption
	if db.SlowQuery > 0 {
		opts = append(opts, sql.WithSlowThreshold(db.SlowQuery), sql.WithSlowQueryLog(a.logger))
	}
	a.stats = sql.NewStatsDriver(drv, opts...)
	var queries dialect.Driver = a.stats
	if db.Debug {
		queries = sql.NewDebugDriver(a.stats, sql.DebugWithLogger(a.logger))
	}

	s, err := a.schema(ctx)
	if err != nil {
		return err
	}
	g, err := sqlgraph.NewGraph(queries, s, sqlgraph.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.graph = g
	return nil
}

// schema returns the declared tables merged with the inspected ones.
func (a *app) schema(ctx context.Context) (*sqlgraph.Schema, error) {
	declared := a.file.GraphSchema()
	if !a.file.Inspect() {
		return declared, nil
	}
	inspected, err := schema.Inspect(ctx, a.drv.DB(), a.drv.Dialect(), a.inspectOptions()...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("schema inspected", "tables", len(inspected.Tables))
	return schema.Merge(declared, inspected), nil
}

func (a *app) inspectOptions() []schema.InspectOption {
	opts := []schema.InspectOption{schema.WithLogger(a.logger)}
	name := a.file.Schema.Name
	if name == "" && a.drv.Dialect() == dialect.Postgres {
		name = a.file.Database.SearchPath
	}
	if name != "" {
		opts = append(opts, schema.WithSchemaName(name))
	}
	return opts
}

// context returns ctx carrying the session variables of the database.
func (a *app) context(ctx context.Context) context.Context {
	if p := a.file.Database.SearchPath; p != "" && a.drv != nil && a.drv.Dialect() == dialect.Postgres {
		ctx = sql.WithVar(ctx, "search_path", p)
	}
	return ctx
}

// explore finds the row and returns its exploration. ctx must carry the
// session variables of context.
func (a *app) explore(ctx context.Context, table, id string) (*explorer.Exploration, error) {
	root, err := a.graph.Find(ctx, table, parseID(id))
	if err != nil {
		return nil, err
	}
	return explorer.New(root, explorer.WithConfig(a.config), explorer.WithFilters(a.overrides)), nil
}

// target resolves an image path against the output directory.
func (a *app) target(path string) string {
	if filepath.IsAbs(path) || a.file.Output.Directory == "" {
		return path
	}
	return filepath.Join(a.file.Output.Directory, path)
}

// diagramOptions returns the options of every diagram.
func (a *app) diagramOptions(target string) []diagram.Option {
	opts := []diagram.Option{
		diagram.OriginAsRoot(a.file.Output.OriginAsRoot),
		diagram.WithLogger(a.logger),
	}
	if _, ok := diagram.SinkFor(target).(diagram.CommandSink); ok {
		opts = append(opts, diagram.WithSink(diagram.CommandSink{Path: a.file.Output.Dot}))
	}
	return opts
}

// Close logs the query statistics and closes the database.
func (a *app) Close() error {
	if a.stats != nil {
		a.logger.Debug("queries", "stats", a.stats.QueryStats().Stats().String(), "slow_threshold", a.stats.SlowThreshold())
	}
	if a.drv == nil {
		return nil
	}
	return a.drv.Close()
}
