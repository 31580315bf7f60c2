package explorer

import (
	"context"
	"log/slog"

	"github.com/syssam/explorer/entity"
	"github.com/syssam/explorer/filter"
	"github.com/syssam/explorer/node"
)

// pair is an unordered pair of entity identities.
type pair struct{ a, b string }

func newPair(x, y string) pair {
	if y < x {
		x, y = y, x
	}
	return pair{x, y}
}

// walker performs one traversal. It is not reused across traversals.
type walker struct {
	filters filter.Set
	follow  filter.Associations
	visited map[pair]struct{}
	logger  *slog.Logger
}

func newWalker(filters filter.Set, logger *slog.Logger) *walker {
	return &walker{
		filters: filters,
		follow:  filters.Follow(),
		visited: make(map[pair]struct{}),
		logger:  logger,
	}
}

// candidate is a related entity that survived the filters.
type candidate struct {
	kind entity.Kind
	e    entity.Entity
}

// explore returns the node of the root entity.
func (w *walker) explore(ctx context.Context, root entity.Entity) *node.Node {
	depth, limited := w.filters.Budget()
	return w.visit(ctx, root, entity.None, depth, limited)
}

func (w *walker) visit(ctx context.Context, e entity.Entity, via entity.Kind, depth int, limited bool) *node.Node {
	n := w.build(e, via)
	if (limited && depth <= 0) || w.follow.Empty() {
		return n
	}
	related, err := w.related(ctx, e, via)
	if err != nil {
		n.Err = nodeError(n.Class, err)
		w.logger.Warn("explore: relation failed", "entity", entity.Identity(e), "error", err)
		return n
	}

	// Claim every sibling pair first so that a child does not walk back to
	// an entity its parent is about to visit.
	self := entity.Identity(e)
	claimed := related[:0]
	for _, c := range related {
		p := newPair(self, entity.Identity(c.e))
		if _, ok := w.visited[p]; ok {
			continue
		}
		w.visited[p] = struct{}{}
		claimed = append(claimed, c)
	}

	n.Expanded = true
	n.Children = make([]*node.Node, 0, len(claimed))
	for _, c := range claimed {
		n.Children = append(n.Children, w.visit(ctx, c.e, c.kind, depth-1, limited))
	}
	return n
}

// build returns the unexpanded node of e with its attributes filtered.
func (w *walker) build(e entity.Entity, via entity.Kind) *node.Node {
	class := e.Class()
	attrs := w.filters.Attributes.Select(class, e.Attributes())
	if limit, ok := w.filters.Limit(); ok {
		attrs = filter.Limit(attrs, limit)
	}
	return &node.Node{Class: class, Identity: entity.ID(e), Kind: via, Attributes: attrs}
}

// related loads the entities related to e that pass the association and
// class filters, in declaration order.
func (w *walker) related(ctx context.Context, e entity.Entity, via entity.Kind) ([]candidate, error) {
	class := e.Class()
	if err := ctx.Err(); err != nil {
		return nil, NewLookupError(class, "", err)
	}
	rels, err := e.Relations(ctx)
	if err != nil {
		return nil, classify(class, "", err)
	}
	var out []candidate
	for _, rel := range rels {
		if !rel.Kind.Valid() {
			w.logger.Debug("explore: unsupported relation skipped", "class", class, "relation", rel.Name, "kind", rel.Kind)
			continue
		}
		if !w.follow.Follows(via, rel.Kind) {
			continue
		}
		if rel.Target != "" && !w.filters.Class.Permits(rel.Target) {
			continue
		}
		entities, err := rel.Load(ctx)
		if err != nil {
			return nil, classify(class, rel.Name, err)
		}
		for _, re := range entities {
			if re == nil || !w.filters.Class.Permits(re.Class()) {
				continue
			}
			out = append(out, candidate{kind: rel.Kind, e: re})
		}
	}
	return out, nil
}
