package pathfind

import "github.com/milk9111/gridchase/grid"

// NoParent marks the root of a search tree.
const NoParent = -1

// Node is a search-tree node. Parent is an index into the owning Tree.
type Node struct {
	Cell   grid.Cell
	Cost   int
	Depth  int
	Parent int
}

// IsRoot reports whether the node has no predecessor.
func (n Node) IsRoot() bool {
	return n.Parent == NoParent
}

// Tree is an arena of nodes owned by a single search invocation. Nodes
// reference their predecessor by index, so chains are acyclic by
// construction: a parent is always added before its children.
type Tree struct {
	nodes []Node
}

// NewTree creates an empty arena.
func NewTree(capacity int) *Tree {
	if capacity < 0 {
		capacity = 0
	}
	return &Tree{nodes: make([]Node, 0, capacity)}
}

// Add appends a node and returns its index.
func (t *Tree) Add(cell grid.Cell, cost, parent int) int {
	depth := 0
	if parent != NoParent {
		depth = t.nodes[parent].Depth + 1
	}
	t.nodes = append(t.nodes, Node{Cell: cell, Cost: cost, Depth: depth, Parent: parent})
	return len(t.nodes) - 1
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Node returns the node at index i.
func (t *Tree) Node(i int) Node {
	return t.nodes[i]
}

// reparent moves an open node under a cheaper predecessor.
func (t *Tree) reparent(i, parent, cost int) {
	t.nodes[i].Parent = parent
	t.nodes[i].Depth = t.nodes[parent].Depth + 1
	t.nodes[i].Cost = cost
}

// Chain returns the nodes from the root's child down to i, excluding the
// root. A root index yields an empty chain.
func (t *Tree) Chain(i int) []Node {
	if t == nil || i < 0 || i >= len(t.nodes) {
		return nil
	}
	out := make([]Node, 0, t.nodes[i].Depth)
	for cur := i; cur != NoParent && t.nodes[cur].Parent != NoParent; cur = t.nodes[cur].Parent {
		out = append(out, t.nodes[cur])
	}
	for a, b := 0, len(out)-1; a < b; a, b = a+1, b-1 {
		out[a], out[b] = out[b], out[a]
	}
	return out
}

// Ancestor walks from i toward the root and returns the index of the node at
// the given depth. It returns NoParent when depth is deeper than i.
func (t *Tree) Ancestor(i, depth int) int {
	if t == nil || i < 0 || i >= len(t.nodes) || depth < 0 {
		return NoParent
	}
	cur := i
	for cur != NoParent && t.nodes[cur].Depth > depth {
		cur = t.nodes[cur].Parent
	}
	if cur == NoParent || t.nodes[cur].Depth != depth {
		return NoParent
	}
	return cur
}
