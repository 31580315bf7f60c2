package node

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion is bumped whenever the encoded layout changes.
const snapshotVersion = 1

type snapshot struct {
	Version int   `msgpack:"version"`
	Root    *Node `msgpack:"root"`
}

// Encode writes n to w as a msgpack snapshot.
func Encode(w io.Writer, n *Node) error {
	if err := msgpack.NewEncoder(w).Encode(snapshot{Version: snapshotVersion, Root: n}); err != nil {
		return fmt.Errorf("node: encode snapshot: %w", err)
	}
	return nil
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*Node, error) {
	var s snapshot
	dec := msgpack.NewDecoder(r)
	dec.UseLooseInterfaceDecoding(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("node: decode snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("node: unsupported snapshot version %d", s.Version)
	}
	if s.Root == nil {
		return nil, fmt.Errorf("node: snapshot has no root")
	}
	return s.Root, nil
}
