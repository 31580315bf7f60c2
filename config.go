package explorer

import (
	"log/slog"
	"sync"

	"github.com/syssam/explorer/filter"
)

// Config holds the default filters of explorations. Explorations read a
// snapshot of the defaults when they start, so changing a Config does not
// affect a traversal in flight. A Config is safe for concurrent use.
//
// Every getter returns nil when the filter is not set. Setting a filter
// to nil removes the default.
type Config struct {
	mu       sync.RWMutex
	defaults filter.Set
	logger   *slog.Logger
}

// ConfigOption configures a Config.
type ConfigOption func(*Config)

// WithDefaults sets the initial default filters.
func WithDefaults(s filter.Set) ConfigOption {
	return func(c *Config) { c.defaults = s.Clone() }
}

// WithConfigLogger sets the logger used by explorations of the Config.
func WithConfigLogger(l *slog.Logger) ConfigOption {
	return func(c *Config) { c.logger = l }
}

// NewConfig returns a Config without defaults.
func NewConfig(opts ...ConfigOption) *Config {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Logger returns the logger.
func (c *Config) Logger() *slog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// SetLogger sets the logger. A nil logger restores slog.Default.
func (c *Config) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	c.mu.Lock()
	c.logger = l
	c.mu.Unlock()
}

// ClassFilter returns the default class filter.
func (c *Config) ClassFilter() *filter.Class {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaults.Class
}

// SetClassFilter sets the default class filter.
func (c *Config) SetClassFilter(f *filter.Class) {
	c.mu.Lock()
	c.defaults.Class = f
	c.mu.Unlock()
}

// AssociationFilter returns the default association filter.
func (c *Config) AssociationFilter() *filter.Associations {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.defaults.Associations == nil {
		return nil
	}
	a := *c.defaults.Associations
	return &a
}

// SetAssociationFilter sets the default association filter.
func (c *Config) SetAssociationFilter(a *filter.Associations) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a == nil {
		c.defaults.Associations = nil
		return
	}
	v := *a
	c.defaults.Associations = &v
}

// AttributeFilter returns the default attribute filter.
func (c *Config) AttributeFilter() filter.Attributes {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaults.Attributes.Clone()
}

// SetAttributeFilter sets the default attribute filter.
func (c *Config) SetAttributeFilter(f filter.Attributes) {
	c.mu.Lock()
	c.defaults.Attributes = f.Clone()
	c.mu.Unlock()
}

// AttributeLimit returns the default attribute limit.
func (c *Config) AttributeLimit() *int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyInt(c.defaults.AttributeLimit)
}

// SetAttributeLimit sets the default attribute limit.
func (c *Config) SetAttributeLimit(n *int) {
	c.mu.Lock()
	c.defaults.AttributeLimit = copyInt(n)
	c.mu.Unlock()
}

// Depth returns the default depth limit.
func (c *Config) Depth() *int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyInt(c.defaults.Depth)
}

// SetDepth sets the default depth limit.
func (c *Config) SetDepth(n *int) {
	c.mu.Lock()
	c.defaults.Depth = copyInt(n)
	c.mu.Unlock()
}

// Reset removes every default filter.
func (c *Config) Reset() {
	c.mu.Lock()
	c.defaults = filter.Set{}
	c.mu.Unlock()
}

// Snapshot returns a copy of the defaults.
func (c *Config) Snapshot() filter.Set {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaults.Clone()
}

func copyInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}
