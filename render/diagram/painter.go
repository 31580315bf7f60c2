package diagram

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/syssam/explorer/entity"
	"github.com/syssam/explorer/node"
)

// Edge labels of the centralized style.
const (
	LabelBelongsTo = " belongs to"
	LabelHas       = " has"
)

// options configures a Paint call.
type options struct {
	originAsRoot bool
	sink         Sink
	mkdir        func(string) error
	logger       *slog.Logger
}

// Option configures a Paint call.
type Option func(*options)

// OriginAsRoot selects the centralized style: every edge points from parent
// to child so the explored entity stays in the middle of the diagram. The
// default directional style points a to-one child at its parent.
func OriginAsRoot(v bool) Option {
	return func(o *options) { o.originAsRoot = v }
}

// WithSink sets the sink that materializes the target. The default is
// chosen by the target extension with SinkFor.
func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithDirMaker replaces the directory provisioning function.
func WithDirMaker(fn func(dir string) error) Option {
	return func(o *options) { o.mkdir = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Build walks n and returns the diagram graph without writing anything.
func Build(n *node.Node, opts ...Option) *Graph {
	o := newOptions(opts)
	p := &painter{graph: NewGraph("G"), centralized: o.originAsRoot}
	p.paint(n, "")
	return p.graph
}

// Paint builds the graph of n and hands it to the sink to write target.
// The directory of target is created when missing.
func Paint(ctx context.Context, n *node.Node, target string, opts ...Option) (*Graph, error) {
	o := newOptions(opts)
	g := Build(n, opts...)
	if dir := filepath.Dir(target); dir != "" && dir != "." {
		if err := o.mkdir(dir); err != nil {
			return g, fmt.Errorf("diagram: create directory %s: %w", dir, err)
		}
	}
	sink := o.sink
	if sink == nil {
		sink = SinkFor(target)
	}
	if err := sink.Write(ctx, g, target); err != nil {
		return g, fmt.Errorf("diagram: write %s: %w", target, err)
	}
	o.logger.Debug("diagram written", "target", target, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

func newOptions(opts []Option) *options {
	o := &options{mkdir: EnsureDir, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type painter struct {
	graph       *Graph
	centralized bool
}

func (p *painter) paint(n *node.Node, parent string) {
	key := p.addNode(n, parent == "")
	if parent != "" {
		p.addEdge(parent, key, n.Kind)
	}
	// Failed nodes have no children, like depth-exhausted ones.
	for _, c := range n.Children {
		p.paint(c, key)
	}
}

func (p *painter) addNode(n *node.Node, origin bool) string {
	key := Sanitize(n.Class) + "_" + entity.FormatID(n.ID())
	attrs := map[string]string{
		"shape":    "record",
		"label":    RecordLabel(n.Class, n.Attributes),
		"labelloc": "t",
	}
	if origin {
		attrs["style"] = "filled"
		attrs["fillcolor"] = "yellow"
	}
	p.graph.AddNode(key, attrs)
	return key
}

func (p *painter) addEdge(parent, child string, kind entity.Kind) {
	switch {
	case p.centralized:
		label := LabelHas
		if kind == entity.ToOne {
			label = LabelBelongsTo
		}
		p.graph.AddEdge(parent, child, label)
	case kind == entity.ToOne:
		p.graph.AddEdge(child, parent, "")
	default:
		p.graph.AddEdge(parent, child, "")
	}
}
