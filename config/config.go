// Package config loads explorer settings from YAML files.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/explorer"
	"github.com/syssam/explorer/dialect"
	"github.com/syssam/explorer/dialect/sql/sqlgraph"
	"github.com/syssam/explorer/filter"
)

// File is the content of a configuration file.
type File struct {
	Database DatabaseConfig `yaml:"database"`
	Schema   SchemaConfig   `yaml:"schema"`
	Filters  FiltersConfig  `yaml:"filters"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig configures the data source.
type DatabaseConfig struct {
	// Dialect is one of sqlite, postgres or mysql (default: sqlite)
	Dialect string `yaml:"dialect"`
	// DSN is the data source name passed to the driver
	DSN string `yaml:"dsn"`
	// SearchPath selects the Postgres schema of every query
	SearchPath string `yaml:"search_path"`
	// SlowQuery logs queries slower than this duration (0 = disabled)
	SlowQuery time.Duration `yaml:"slow_query"`
	// Debug logs every query
	Debug bool `yaml:"debug"`
}

// SchemaConfig configures the tables and relations to explore.
type SchemaConfig struct {
	// Inspect derives relations from the foreign keys of the database (default: true)
	Inspect *bool `yaml:"inspect"`
	// Name is the database schema to inspect (empty = current)
	Name string `yaml:"name"`
	// Tables are declared explicitly and take precedence over inspected ones
	Tables []*sqlgraph.Table `yaml:"tables"`
}

// FiltersConfig holds the default filters of explorations.
type FiltersConfig struct {
	// Allow lists the only classes to show (empty = all)
	Allow []string `yaml:"allow"`
	// Deny lists classes to hide
	Deny []string `yaml:"deny"`
	// Associations to follow: to_one, to_many, all, direct (empty = none)
	Associations []string `yaml:"associations"`
	// Attributes maps a class to the attributes to show
	Attributes map[string][]string `yaml:"attributes"`
	// AttributeLimit caps the number of attributes per entity
	AttributeLimit *int `yaml:"attribute_limit"`
	// Depth limits the traversal depth
	Depth *int `yaml:"depth"`
}

// OutputConfig configures diagrams.
type OutputConfig struct {
	// Directory is prepended to relative image targets
	Directory string `yaml:"directory"`
	// OriginAsRoot selects the centralized edge style
	OriginAsRoot bool `yaml:"origin_as_root"`
	// Dot is the Graphviz binary (default: dot)
	Dot string `yaml:"dot"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `yaml:"level"`
	// Format is text or json (default: text)
	Format string `yaml:"format"`
}

// DefaultFile returns a File with sensible defaults.
func DefaultFile() *File {
	inspect := true
	return &File{
		Database: DatabaseConfig{
			Dialect: dialect.SQLite,
		},
		Schema: SchemaConfig{
			Inspect: &inspect,
		},
		Output: OutputConfig{
			Directory: ".",
			Dot:       "dot",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is valid.
func (f *File) Validate() error {
	switch dialect.Normalize(f.Database.Dialect) {
	case dialect.SQLite, dialect.Postgres, dialect.MySQL:
	default:
		return fmt.Errorf("database.dialect %q is not supported", f.Database.Dialect)
	}
	if f.Database.SlowQuery < 0 {
		return fmt.Errorf("database.slow_query must not be negative")
	}
	if len(f.Filters.Allow) > 0 && len(f.Filters.Deny) > 0 {
		return fmt.Errorf("filters.allow and filters.deny are mutually exclusive")
	}
	if _, err := filter.ParseAssociations(f.Filters.Associations...); err != nil {
		return fmt.Errorf("filters.associations: %w", err)
	}
	if _, ok := levels[strings.ToLower(f.Log.Level)]; !ok {
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", f.Log.Level)
	}
	if format := strings.ToLower(f.Log.Format); format != "text" && format != "json" {
		return fmt.Errorf("log.format %q must be text or json", f.Log.Format)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (*File, error) {
	return decodeFile(path, DefaultFile())
}

// readFile loads a YAML file without defaults, for merging.
func readFile(path string) (*File, error) {
	return decodeFile(path, &File{})
}

func decodeFile(path string, f *File) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return f, nil
}

// SaveToFile saves configuration to a YAML file.
func (f *File) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge merges another file into this one. Non-zero values of other win,
// except for tables which are appended unless already declared.
func (f *File) Merge(other *File) {
	if other == nil {
		return
	}

	// Database
	if other.Database.Dialect != "" {
		f.Database.Dialect = other.Database.Dialect
	}
	if other.Database.DSN != "" {
		f.Database.DSN = other.Database.DSN
	}
	if other.Database.SearchPath != "" {
		f.Database.SearchPath = other.Database.SearchPath
	}
	if other.Database.SlowQuery != 0 {
		f.Database.SlowQuery = other.Database.SlowQuery
	}
	if other.Database.Debug {
		f.Database.Debug = true
	}

	// Schema
	if other.Schema.Inspect != nil {
		v := *other.Schema.Inspect
		f.Schema.Inspect = &v
	}
	if other.Schema.Name != "" {
		f.Schema.Name = other.Schema.Name
	}
	if len(other.Schema.Tables) > 0 {
		s := f.Schema.schema()
		for _, t := range other.Schema.Tables {
			if existing, ok := s.Table(t.Name); ok {
				*existing = *t
				continue
			}
			s.Tables = append(s.Tables, t)
		}
		f.Schema.Tables = s.Tables
	}

	// Filters
	if len(other.Filters.Allow) > 0 {
		f.Filters.Allow, f.Filters.Deny = other.Filters.Allow, nil
	}
	if len(other.Filters.Deny) > 0 {
		f.Filters.Deny, f.Filters.Allow = other.Filters.Deny, nil
	}
	if len(other.Filters.Associations) > 0 {
		f.Filters.Associations = other.Filters.Associations
	}
	if len(other.Filters.Attributes) > 0 {
		if f.Filters.Attributes == nil {
			f.Filters.Attributes = make(map[string][]string, len(other.Filters.Attributes))
		}
		for class, names := range other.Filters.Attributes {
			f.Filters.Attributes[class] = names
		}
	}
	if other.Filters.AttributeLimit != nil {
		f.Filters.AttributeLimit = filter.Int(*other.Filters.AttributeLimit)
	}
	if other.Filters.Depth != nil {
		f.Filters.Depth = filter.Int(*other.Filters.Depth)
	}

	// Output
	if other.Output.Directory != "" {
		f.Output.Directory = other.Output.Directory
	}
	if other.Output.OriginAsRoot {
		f.Output.OriginAsRoot = true
	}
	if other.Output.Dot != "" {
		f.Output.Dot = other.Output.Dot
	}

	// Log
	if other.Log.Level != "" {
		f.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		f.Log.Format = other.Log.Format
	}
}

// FilterSet returns the filters of the file.
func (f *File) FilterSet() (filter.Set, error) {
	var s filter.Set
	switch {
	case len(f.Filters.Allow) > 0:
		s.Class = filter.Allow(f.Filters.Allow...)
	case len(f.Filters.Deny) > 0:
		s.Class = filter.Deny(f.Filters.Deny...)
	}
	if len(f.Filters.Associations) > 0 {
		a, err := filter.ParseAssociations(f.Filters.Associations...)
		if err != nil {
			return filter.Set{}, fmt.Errorf("filters.associations: %w", err)
		}
		s.Associations = &a
	}
	if len(f.Filters.Attributes) > 0 {
		s.Attributes = filter.Attributes(f.Filters.Attributes).Clone()
	}
	if f.Filters.AttributeLimit != nil {
		s.AttributeLimit = filter.Int(*f.Filters.AttributeLimit)
	}
	if f.Filters.Depth != nil {
		s.Depth = filter.Int(*f.Filters.Depth)
	}
	return s, nil
}

// Apply sets the filters and the logger of the file as the defaults of c.
// Filters the file leaves unset keep their current value.
func (f *File) Apply(c *explorer.Config, w io.Writer) error {
	s, err := f.FilterSet()
	if err != nil {
		return err
	}
	if s.Class != nil {
		c.SetClassFilter(s.Class)
	}
	if s.Associations != nil {
		c.SetAssociationFilter(s.Associations)
	}
	if s.Attributes != nil {
		c.SetAttributeFilter(s.Attributes)
	}
	if s.AttributeLimit != nil {
		c.SetAttributeLimit(s.AttributeLimit)
	}
	if s.Depth != nil {
		c.SetDepth(s.Depth)
	}
	if w != nil {
		c.SetLogger(f.Logger(w))
	}
	return nil
}

// GraphSchema returns the declared tables as a graph schema.
func (f *File) GraphSchema() *sqlgraph.Schema {
	return f.Schema.schema()
}

// Inspect reports whether relations are derived from the database.
func (f *File) Inspect() bool {
	return f.Schema.Inspect == nil || *f.Schema.Inspect
}

func (s SchemaConfig) schema() *sqlgraph.Schema {
	return &sqlgraph.Schema{Tables: append([]*sqlgraph.Table(nil), s.Tables...)}
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Logger returns a logger writing to w at the configured level and format.
func (f *File) Logger(w io.Writer) *slog.Logger {
	level, ok := levels[strings.ToLower(f.Log.Level)]
	if !ok {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(f.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
