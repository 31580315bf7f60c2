// Package console prints an explored node tree as an indented report.
//
// Each entity is one line:
//
//	Author(1) {first_name: "Ursula", last_name: "Le Guin"}
//	  -> has Book(10) {title: "The Dispossessed", year: 1974}
//	      -> has Review(100) {stars: 5}
//	          -> Author(2) {first_name: "John", last_name: "Doe"}
//
// The id is shown inline and left out of the attribute list. Children reached
// through a to-many relation are labeled "has". A node that failed prints its
// error in place of its children.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/syssam/explorer/entity"
	"github.com/syssam/explorer/node"
)

const indentUnit = "    "

// Render returns the report for n.
func Render(n *node.Node) string {
	var sb strings.Builder
	writeNode(&sb, n, 0)
	return sb.String()
}

// Write writes the report for n to w.
func Write(w io.Writer, n *node.Node) error {
	_, err := io.WriteString(w, Render(n))
	return err
}

// Print writes the report for n surrounded by blank lines.
func Print(w io.Writer, n *node.Node) error {
	_, err := io.WriteString(w, "\n"+Render(n)+"\n")
	return err
}

func writeNode(sb *strings.Builder, n *node.Node, level int) {
	sb.WriteString(margin(level))
	if level > 0 && n.Kind == entity.ToMany {
		sb.WriteString("has ")
	}
	fmt.Fprintf(sb, "%s(%s) %s\n", n.Class, entity.FormatID(n.ID()), formatAttributes(n.Attributes.Without(entity.IDAttribute)))
	if n.Failed() {
		// The error is not a step to a child, so it has no arrow.
		sb.WriteString(strings.Repeat(indentUnit, level+1))
		sb.WriteString(n.Err)
		sb.WriteString("\n")
		return
	}
	for _, c := range n.Children {
		writeNode(sb, c, level+1)
	}
}

// margin returns the indent of level. Below the root the last indent
// unit ends in an arrow: "  -> ".
func margin(level int) string {
	if level == 0 {
		return ""
	}
	m := strings.Repeat(indentUnit, level)
	return m[:len(m)-2] + "->" + m[len(m)-1:]
}

func formatAttributes(attrs entity.Attributes) string {
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = a.Name + ": " + formatValue(a.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", v)
	case []byte:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}
