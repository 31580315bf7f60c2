package diagram

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/explorer/entity"
	"github.com/syssam/explorer/node"
)

// author(1) -> has book(10) -> author(1) again and book(10) -> has review(100).
func tree() *node.Node {
	return &node.Node{
		Class:      "Author",
		Attributes: entity.Attributes{entity.Attr("id", 1), entity.Attr("name", "Ursula")},
		Expanded:   true,
		Children: []*node.Node{
			{
				Class:      "Book",
				Kind:       entity.ToMany,
				Attributes: entity.Attributes{entity.Attr("id", 10), entity.Attr("author_id", 1)},
				Expanded:   true,
				Children: []*node.Node{
					{Class: "Author", Kind: entity.ToOne, Attributes: entity.Attributes{entity.Attr("id", 1), entity.Attr("name", "Ursula")}},
					{Class: "Review", Kind: entity.ToMany, Attributes: entity.Attributes{entity.Attr("id", 100)}},
				},
			},
		},
	}
}

func TestBuildDirectional(t *testing.T) {
	t.Parallel()

	g := Build(tree())
	require.Equal(t, 3, g.NodeCount())
	// The to-one child Author_1 points at its parent Book_10, which is the
	// has-many edge already drawn from the root, so the two fold into one.
	assert.True(t, g.HasEdge("Author_1", "Book_10"))
	assert.False(t, g.HasEdge("Book_10", "Author_1"))
	assert.True(t, g.HasEdge("Book_10", "Review_100"))
	assert.Equal(t, 2, g.EdgeCount())
	for _, e := range g.Edges() {
		assert.Empty(t, e.Label)
	}

	origin, ok := g.Node("Author_1")
	require.True(t, ok)
	assert.Equal(t, "yellow", origin.Attrs["fillcolor"], "origin keeps its highlight")
	book, _ := g.Node("Book_10")
	assert.NotContains(t, book.Attrs, "fillcolor")
	assert.Equal(t, "record", book.Attrs["shape"])
	assert.Equal(t, "t", book.Attrs["labelloc"])
}

func TestBuildCentralized(t *testing.T) {
	t.Parallel()

	g := Build(tree(), OriginAsRoot(true))
	edges := g.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, Edge{From: "Author_1", To: "Book_10", Label: LabelHas}, edges[0])
	assert.Equal(t, Edge{From: "Book_10", To: "Author_1", Label: LabelBelongsTo}, edges[1])
	assert.Equal(t, Edge{From: "Book_10", To: "Review_100", Label: LabelHas}, edges[2])
}

func TestBuildDeduplicatesEdges(t *testing.T) {
	t.Parallel()

	review := func() *node.Node {
		return &node.Node{Class: "Review", Kind: entity.ToMany, Attributes: entity.Attributes{entity.Attr("id", 100)}}
	}
	n := &node.Node{
		Class:      "Book",
		Attributes: entity.Attributes{entity.Attr("id", 10)},
		Children:   []*node.Node{review(), review()},
	}
	g := Build(n)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
}

func TestBuildFailedNode(t *testing.T) {
	t.Parallel()

	n := &node.Node{
		Class:      "Author",
		Attributes: entity.Attributes{entity.Attr("id", 1)},
		Children: []*node.Node{
			{Class: "BadGuy", Kind: entity.ToMany, Attributes: entity.Attributes{entity.Attr("id", 7)}, Err: "Error in BadGuy: boom"},
		},
	}
	g := Build(n)
	assert.Equal(t, 2, g.NodeCount())
	assert.True(t, g.HasEdge("Author_1", "BadGuy_7"))
}

func TestGraphAddNodeFirstWins(t *testing.T) {
	t.Parallel()

	g := NewGraph("G")
	g.AddNode("a", map[string]string{"label": "first"})
	g.AddNode("a", map[string]string{"label": "second"})
	n, ok := g.Node("a")
	require.True(t, ok)
	assert.Equal(t, "first", n.Label())
	assert.True(t, g.AddEdge("a", "b", ""))
	assert.False(t, g.AddEdge("a", "b", "x"))
	assert.True(t, g.AddEdge("b", "a", ""), "opposite direction is a distinct edge")
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab", Sanitize("{a}"+"<|>"+`\`+"b"))
	assert.Equal(t, "plain text", Sanitize("plain text"))
}

func TestShorten(t *testing.T) {
	t.Parallel()

	short := strings.Repeat("x", MaxValueLength)
	assert.Equal(t, short, Shorten(short))
	long := strings.Repeat("y", MaxValueLength+5)
	assert.Equal(t, strings.Repeat("y", MaxValueLength)+" (...)", Shorten(long))
	multi := strings.Repeat("é", MaxValueLength+1)
	assert.Equal(t, strings.Repeat("é", MaxValueLength)+" (...)", Shorten(multi))
}

func TestRecordLabel(t *testing.T) {
	t.Parallel()

	attrs := entity.Attributes{
		entity.Attr("id", 1),
		entity.Attr("title", "A {weird} <title>"),
		entity.Attr("note", nil),
	}
	assert.Equal(t, "{Book|{id\ntitle\nnote|1\n\"A weird title\"\nnil}}", RecordLabel("Book", attrs))

	// One name and one value per line: n attributes give n-1 newlines per column.
	label := RecordLabel("Book", attrs[:2])
	assert.Equal(t, 2, strings.Count(label, "\n"))
	assert.Equal(t, "{Tag|{|}}", RecordLabel("Tag", nil))
}

func TestEncode(t *testing.T) {
	t.Parallel()

	g := NewGraph("G")
	g.AddNode("Author_1", map[string]string{
		"shape": "record", "label": "{Author|{id|1}}", "labelloc": "t", "style": "filled", "fillcolor": "yellow",
	})
	g.AddNode("Book_10", map[string]string{"shape": "record", "label": "{Book|{id\ntitle|10\n\"Q\"}}", "labelloc": "t"})
	g.AddEdge("Author_1", "Book_10", LabelHas)
	g.AddEdge("Book_10", "Author_1", "")

	want := `digraph "G" {
	"Author_1" [shape="record", label="{Author|{id|1}}", labelloc="t", style="filled", fillcolor="yellow"];
	"Book_10" [shape="record", label="{Book|{id\ntitle|10\n\"Q\"}}", labelloc="t"];
	"Author_1" -> "Book_10" [label=" has"];
	"Book_10" -> "Author_1";
}
`
	assert.Equal(t, want, String(g))
}

func TestEncodeEscapesIdentifiers(t *testing.T) {
	t.Parallel()

	n := &node.Node{
		Class:    "Book",
		Identity: `a\`,
		Expanded: true,
		Children: []*node.Node{
			{Class: "Review", Kind: entity.ToMany, Identity: `say "hi"`},
		},
	}
	g := Build(n)
	require.True(t, g.HasEdge(`Book_a\`, `Review_say "hi"`))

	dot := String(g)
	assert.Contains(t, dot, `"Book_a\\" [shape="record"`)
	assert.Contains(t, dot, `"Review_say \"hi\"" [shape="record"`)
	assert.Contains(t, dot, `"Book_a\\" -> "Review_say \"hi\"";`)
}

func TestPaintFileSink(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "nested", "deeper", "author.dot")
	g, err := Paint(context.Background(), tree(), target)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NodeCount())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, String(g), string(data))

	// A second paint into the existing directory succeeds.
	_, err = Paint(context.Background(), tree(), target)
	require.NoError(t, err)
}

type recordingSink struct {
	targets []string
	err     error
}

func (s *recordingSink) Write(_ context.Context, _ *Graph, target string) error {
	s.targets = append(s.targets, target)
	return s.err
}

func TestPaintCustomSink(t *testing.T) {
	t.Parallel()

	var dirs []string
	sink := &recordingSink{}
	_, err := Paint(context.Background(), tree(), "out/author.png",
		WithSink(sink),
		WithDirMaker(func(dir string) error {
			dirs = append(dirs, dir)
			return nil
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"out"}, dirs)
	assert.Equal(t, []string{"out/author.png"}, sink.targets)

	dirs = nil
	_, err = Paint(context.Background(), tree(), "author.png", WithSink(sink), WithDirMaker(func(dir string) error {
		dirs = append(dirs, dir)
		return nil
	}))
	require.NoError(t, err)
	assert.Empty(t, dirs, "current directory is not provisioned")
}

func TestPaintErrors(t *testing.T) {
	t.Parallel()

	_, err := Paint(context.Background(), tree(), "out/a.png",
		WithSink(&recordingSink{}),
		WithDirMaker(func(string) error { return errors.New("read-only") }),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")

	_, err = Paint(context.Background(), tree(), "a.png", WithSink(&recordingSink{err: errors.New("no dot")}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dot")
}

func TestSinkFor(t *testing.T) {
	t.Parallel()

	assert.IsType(t, FileSink{}, SinkFor("a.dot"))
	assert.IsType(t, FileSink{}, SinkFor("a.GV"))
	assert.IsType(t, CommandSink{}, SinkFor("a.png"))
	assert.IsType(t, CommandSink{}, SinkFor("a"))
}
