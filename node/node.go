// Package node holds the tree produced by exploring one entity.
package node

import (
	"github.com/syssam/explorer/entity"
)

// Node is the explored form of one entity.
type Node struct {
	// Class is the class name of the entity.
	Class string `msgpack:"class"`
	// Identity is the id of the entity, kept even when the attribute
	// filter drops the id attribute.
	Identity any `msgpack:"id,omitempty"`
	// Kind is the association kind of the edge from the parent.
	// It is entity.None for the root.
	Kind entity.Kind `msgpack:"kind"`
	// Attributes are the filtered, ordered attributes.
	Attributes entity.Attributes `msgpack:"attributes"`
	// Children are the explored related entities. Only meaningful when
	// Expanded is set.
	Children []*Node `msgpack:"children,omitempty"`
	// Expanded reports whether the traversal requested the relations of
	// this entity. An unexpanded node has no children key at all, which is
	// different from an expanded node without relations.
	Expanded bool `msgpack:"expanded"`
	// Err is set when the relations of this entity could not be read.
	Err string `msgpack:"error,omitempty"`
}

// ID returns the entity id, falling back to the id attribute.
func (n *Node) ID() any {
	if n.Identity != nil {
		return n.Identity
	}
	id, _ := n.Attributes.Get(entity.IDAttribute)
	return id
}

// Key returns "<class>_<id>".
func (n *Node) Key() string {
	return entity.Key(n.Class, n.ID())
}

// IsRoot reports whether n has no incoming edge.
func (n *Node) IsRoot() bool { return n.Kind == entity.None }

// Failed reports whether n carries an error marker.
func (n *Node) Failed() bool { return n.Err != "" }

// Subnodes returns the children and whether the children key is present.
func (n *Node) Subnodes() ([]*Node, bool) {
	if !n.Expanded {
		return nil, false
	}
	return n.Children, true
}

// Walk calls fn for n and every descendant in pre-order with the depth of the
// node below n. Walking stops at a node for which fn returns false.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}
