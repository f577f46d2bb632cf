package syntax

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Walk visits node and all of its descendants in document (preorder) order.
// Returning false from fn prunes the subtree below the current node.
func Walk(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		Walk(node.Child(i), fn)
	}
}

// NamedChildren returns the named children of node in order.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	count := node.NamedChildCount()
	children := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		children = append(children, node.NamedChild(i))
	}
	return children
}

// ChildOfKind returns the first named child of the given kind, or nil.
func ChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// NodeAt finds the smallest named node that covers the byte range
// [start, end). Returns nil when the range falls outside the tree, which
// callers treat as "no action available" rather than an error.
func NodeAt(root *sitter.Node, start, end int) *sitter.Node {
	if root == nil || start < int(root.StartByte()) || end > int(root.EndByte()) {
		return nil
	}

	best := root
	for {
		descended := false
		for i := uint(0); i < best.NamedChildCount(); i++ {
			child := best.NamedChild(i)
			if int(child.StartByte()) <= start && end <= int(child.EndByte()) {
				best = child
				descended = true
				break
			}
		}
		if !descended {
			return best
		}
	}
}
