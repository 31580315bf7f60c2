package explorer

import (
	"context"
	"io"
	"log/slog"

	"github.com/syssam/explorer/entity"
	"github.com/syssam/explorer/filter"
	"github.com/syssam/explorer/node"
	"github.com/syssam/explorer/render/console"
	"github.com/syssam/explorer/render/diagram"
)

// Exploration is a request to explore one root entity. Every call that
// produces output runs a full traversal from scratch.
type Exploration struct {
	root      entity.Entity
	config    *Config
	overrides filter.Set
	logger    *slog.Logger
}

// Option configures an Exploration.
type Option func(*Exploration)

// WithConfig sets the Config whose defaults apply when a filter is not
// given to the exploration itself.
func WithConfig(c *Config) Option {
	return func(x *Exploration) { x.config = c }
}

// WithClassFilter sets the class filter.
func WithClassFilter(f *filter.Class) Option {
	return func(x *Exploration) { x.overrides.Class = f }
}

// WithAssociations sets the associations to follow.
func WithAssociations(a filter.Associations) Option {
	return func(x *Exploration) { x.overrides.Associations = &a }
}

// WithAttributeFilter sets the attribute allow-lists.
func WithAttributeFilter(f filter.Attributes) Option {
	return func(x *Exploration) { x.overrides.Attributes = f.Clone() }
}

// WithAttributeLimit caps the number of attributes reported per entity.
func WithAttributeLimit(n int) Option {
	return func(x *Exploration) { x.overrides.AttributeLimit = &n }
}

// WithDepth limits how many relations deep the traversal goes.
func WithDepth(n int) Option {
	return func(x *Exploration) { x.overrides.Depth = &n }
}

// WithFilters sets every filter that is set in s.
func WithFilters(s filter.Set) Option {
	return func(x *Exploration) { x.overrides = s.Over(x.overrides) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(x *Exploration) { x.logger = l }
}

// New returns an exploration of root.
func New(root entity.Entity, opts ...Option) *Exploration {
	x := &Exploration{root: root}
	for _, opt := range opts {
		opt(x)
	}
	if x.config == nil {
		x.config = NewConfig()
	}
	if x.logger == nil {
		x.logger = x.config.Logger()
	}
	return x
}

// Filters returns the filters a traversal would use now: the exploration's
// own filters over the defaults of its Config.
func (x *Exploration) Filters() filter.Set {
	return x.overrides.Over(x.config.Snapshot())
}

// Node explores the root entity and returns its node tree. Failures of
// individual entities are recorded on their nodes.
func (x *Exploration) Node(ctx context.Context) *node.Node {
	filters := x.Filters()
	x.logger.Debug("explore: start",
		"root", entity.Identity(x.root),
		"associations", filters.Follow().String(),
	)
	n := newWalker(filters, x.logger).explore(ctx, x.root)
	x.logger.Debug("explore: done", "root", n.Key(), "nodes", n.Count())
	return n
}

// Console writes the indented report of the root entity to w.
func (x *Exploration) Console(ctx context.Context, w io.Writer) error {
	return console.Print(w, x.Node(ctx))
}

// Text returns the indented report of the root entity.
func (x *Exploration) Text(ctx context.Context) string {
	return console.Render(x.Node(ctx))
}

// Image draws the root entity's graph to target. Options select the edge
// style and the sink.
func (x *Exploration) Image(ctx context.Context, target string, opts ...diagram.Option) (*diagram.Graph, error) {
	opts = append([]diagram.Option{diagram.WithLogger(x.logger)}, opts...)
	return diagram.Paint(ctx, x.Node(ctx), target, opts...)
}

// String returns a one line description of the exploration.
func (x *Exploration) String() string {
	return "Exploration(" + entity.Identity(x.root) + ")"
}
