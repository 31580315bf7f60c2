package diagram

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// attrOrder fixes the position of the well known node attributes.
var attrOrder = map[string]int{
	"shape":     0,
	"label":     1,
	"labelloc":  2,
	"style":     3,
	"fillcolor": 4,
}

// Encode writes g in the DOT language.
func Encode(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %s {\n", quote(g.Name))
	for _, n := range g.Nodes() {
		fmt.Fprintf(bw, "\t%s [%s];\n", quote(n.Key), formatAttrs(n.Attrs))
	}
	for _, e := range g.Edges() {
		if e.Label == "" {
			fmt.Fprintf(bw, "\t%s -> %s;\n", quote(e.From), quote(e.To))
			continue
		}
		fmt.Fprintf(bw, "\t%s -> %s [label=%s];\n", quote(e.From), quote(e.To), quote(e.Label))
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// String returns the DOT text of g.
func String(g *Graph) string {
	var sb strings.Builder
	_ = Encode(&sb, g)
	return sb.String()
}

func formatAttrs(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, iok := attrOrder[keys[i]]
		oj, jok := attrOrder[keys[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + quote(attrs[k])
	}
	return strings.Join(parts, ", ")
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func quote(s string) string {
	return `"` + escaper.Replace(s) + `"`
}
