package repository

import (
	"fmt"
	"io"
	"strings"

	"github.com/PolarWolf314/securevault/internal/record"
)

// Node is a folder or a record leaf in the vault tree.
type Node struct {
	Name     string
	Record   *record.Record
	Children []*Node
}

// IsFolder reports whether n groups other nodes.
func (n *Node) IsFolder() bool { return n.Record == nil }

// Add appends child to a folder node.
func (n *Node) Add(child *Node) {
	n.Children = append(n.Children, child)
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning an error from fn stops the walk.
func (n *Node) Walk(fn func(node *Node, depth int) error) error {
	return n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) error, depth int) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := child.walk(fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Leaves returns the records under n in walk order.
func (n *Node) Leaves() []record.Record {
	var out []record.Record
	_ = n.Walk(func(node *Node, _ int) error {
		if !node.IsFolder() {
			out = append(out, *node.Record)
		}
		return nil
	})
	return out
}

// Render writes an indented outline of n. Folders are prefixed with "+",
// records with "-". Secrets are never written.
func (n *Node) Render(w io.Writer) error {
	return n.Walk(func(node *Node, depth int) error {
		indent := strings.Repeat("  ", depth)
		if node.IsFolder() {
			_, err := fmt.Fprintf(w, "%s+ %s\n", indent, node.Name)
			return err
		}
		_, err := fmt.Fprintf(w, "%s- %s\n", indent, node.Name)
		return err
	})
}

// Tree returns a root folder with one child folder per category.
func (r *Repository) Tree() *Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	root := &Node{Name: "Vault"}
	for _, c := range r.order {
		folder := &Node{Name: c}
		for _, rec := range r.categories[c] {
			rec := rec
			folder.Add(&Node{Name: rec.String(), Record: &rec})
		}
		root.Add(folder)
	}
	return root
}
