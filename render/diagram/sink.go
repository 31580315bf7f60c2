package diagram

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Sink materializes a graph at a target path.
type Sink interface {
	Write(ctx context.Context, g *Graph, target string) error
}

// FileSink writes the DOT text of the graph.
type FileSink struct{}

// Write implements Sink.
func (FileSink) Write(_ context.Context, g *Graph, target string) error {
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	if err := Encode(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CommandSink renders the graph with the Graphviz dot command. The output
// format is taken from the target extension.
type CommandSink struct {
	// Path of the dot binary. Defaults to "dot" looked up in PATH.
	Path string
}

// Write implements Sink.
func (s CommandSink) Write(ctx context.Context, g *Graph, target string) error {
	format := strings.TrimPrefix(filepath.Ext(target), ".")
	if format == "" {
		format = "png"
	}
	bin := s.Path
	if bin == "" {
		bin = "dot"
	}
	var in, stderr bytes.Buffer
	if err := Encode(&in, g); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, bin, "-T"+format, "-o", target)
	cmd.Stdin = &in
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", bin, err, msg)
		}
		return fmt.Errorf("%s: %w", bin, err)
	}
	return nil
}

// SinkFor returns the sink matching the target extension: DOT text for
// .dot and .gv, the dot command otherwise.
func SinkFor(target string) Sink {
	switch strings.ToLower(filepath.Ext(target)) {
	case ".dot", ".gv":
		return FileSink{}
	default:
		return CommandSink{}
	}
}

// EnsureDir creates dir and its parents. An existing directory is not an error.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
