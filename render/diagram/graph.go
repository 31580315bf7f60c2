package diagram

// Node is a vertex of the diagram.
type Node struct {
	Key   string
	Attrs map[string]string
}

// Label returns the label attribute.
func (n *Node) Label() string { return n.Attrs["label"] }

// Edge is a directed edge between two node keys.
type Edge struct {
	From  string
	To    string
	Label string
}

type edgeKey struct{ from, to string }

// Graph is a directed graph built while painting. Nodes and edges keep
// their insertion order so the encoded output is deterministic.
type Graph struct {
	Name  string
	nodes map[string]*Node
	order []string
	edges []Edge
	seen  map[edgeKey]struct{}
}

// NewGraph returns an empty graph.
func NewGraph(name string) *Graph {
	return &Graph{
		Name:  name,
		nodes: make(map[string]*Node),
		seen:  make(map[edgeKey]struct{}),
	}
}

// AddNode adds a node unless key is already present. The first registration
// wins, so the origin keeps its highlight when it is reached again.
func (g *Graph) AddNode(key string, attrs map[string]string) *Node {
	if n, ok := g.nodes[key]; ok {
		return n
	}
	n := &Node{Key: key, Attrs: attrs}
	g.nodes[key] = n
	g.order = append(g.order, key)
	return n
}

// Node returns the node of key.
func (g *Graph) Node(key string) (*Node, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// HasEdge reports whether the directed edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.seen[edgeKey{from, to}]
	return ok
}

// AddEdge adds the directed edge from -> to unless it already exists.
// The reverse edge is a different edge. It reports whether an edge was added.
func (g *Graph) AddEdge(from, to, label string) bool {
	k := edgeKey{from, to}
	if _, ok := g.seen[k]; ok {
		return false
	}
	g.seen[k] = struct{}{}
	g.edges = append(g.edges, Edge{From: from, To: to, Label: label})
	return true
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, key := range g.order {
		out[i] = g.nodes[key]
	}
	return out
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
