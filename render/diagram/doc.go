// Package diagram draws an explored node tree as a Graphviz graph.
//
// Every entity becomes a record node labeled with its class, attribute names
// and attribute values. The explored entity is filled yellow. Two edge styles
// are supported:
//
//   - directional (default): a to-one child points at its parent and a parent
//     points at its to-many children, so arrows follow foreign keys.
//   - centralized (OriginAsRoot): every edge goes from parent to child and is
//     labeled " belongs to" or " has".
//
// A node reached twice is drawn once and an edge is never drawn twice in the
// same direction.
package diagram
