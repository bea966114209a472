package mvndepgraph

import (
	"iter"
)

// ManagedInfo records what a node looked like before dependency management rewrote it.  The
// zero value means the node was not touched by management.  The field set is closed on
// purpose: these three annotations are the only metadata the normalization passes produce.
type ManagedInfo struct {
	// PreManagedVersion is the version the node carried before a management entry
	// overwrote [Node.Artifact]'s version.  Empty if the version was not overridden.
	PreManagedVersion string

	// PreManagedScope is the node's scope at the time a management entry declared a
	// different scope.  The scope itself is never rewritten (see [Normalizer]); only this
	// annotation and [ManagedInfo.ManagedScope] record the difference.
	PreManagedScope string

	// ManagedScope is the scope the management entry declared.  Empty if the scopes agreed
	// or no entry matched.
	ManagedScope string
}

// IsZero reports whether no management annotation has been recorded.
func (m ManagedInfo) IsZero() bool {
	return m == ManagedInfo{}
}

// A Node is a node in a dependency graph.  Before cycle breaking the structure reachable
// from a root may contain cycles and subtrees shared between parents; after [BreakCycles]
// and [Normalizer.Normalize] it is a rooted, ordered tree in which every parent exclusively
// owns its children.
//
// The parent reference is non-owning and exists only for root detection; see [Node.IsRoot].
type Node struct {
	// Artifact is the coordinate this node resolves to.  Its Version field is the only
	// part of the coordinate the normalization passes ever rewrite.
	Artifact Coordinate

	// Scope is the scope of the edge from this node's parent.  It can differ from
	// Artifact.Scope only transiently while a graph is being assembled from external
	// input; the constructors keep the two in sync.
	Scope string

	// Managed carries the pre-management annotations, if any.
	Managed ManagedInfo

	children []*Node
	parent   *Node
}

// NewNode constructs a parentless [Node] for the given coordinate.  The node's edge scope is
// taken from the coordinate.
func NewNode(c Coordinate) *Node {
	return &Node{Artifact: c, Scope: c.Scope}
}

// AddChild appends child to n's ordered child sequence and records n as the child's parent.
// If the child already has a parent the previous back-reference is overwritten; this is
// expected for raw pre-normalization graphs, where a node can be reachable from several
// parents.
func (n *Node) AddChild(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// Children yields n's children in order.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, c := range n.children {
			if !yield(c) {
				return
			}
		}
	}
}

// NumChildren returns the number of children of n.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Parent returns the node this node was attached to, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsRoot reports whether n is the root of its graph.  A root has either no parent or a
// self-referential parent (the latter is tolerated as a sentinel in externally supplied
// graphs).
func (n *Node) IsRoot() bool {
	return n.parent == nil || n.parent == n
}

// Walk visits n and its descendants depth-first in pre-order.  The visit callback receives
// each node together with its depth relative to n (n itself is depth 0) and returns whether
// the walk should descend into the node's children.  Only meaningful on acyclic structures;
// use [BreakCycles] first if the graph may contain cycles.
func (n *Node) Walk(visit func(n *Node, depth int) bool) {
	n.walk(0, visit)
}

func (n *Node) walk(depth int, visit func(n *Node, depth int) bool) {
	if !visit(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(depth+1, visit)
	}
}

// Descendants yields every node below n (n excluded) depth-first in pre-order.  Only
// meaningful on acyclic structures.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		ok := true
		for _, c := range n.children {
			c.walk(1, func(d *Node, _ int) bool {
				if ok {
					ok = yield(d)
				}
				return ok
			})
			if !ok {
				return
			}
		}
	}
}

// Size returns the number of nodes in the tree rooted at n, n included.  Only meaningful on
// acyclic structures.
func (n *Node) Size() int {
	size := 0
	n.Walk(func(*Node, int) bool { size++; return true })
	return size
}

// detached returns a parentless, childless copy of n.  The normalization passes use it to
// materialize fresh owned trees instead of mutating input structures in place.
func (n *Node) detached() *Node {
	return &Node{Artifact: n.Artifact, Scope: n.Scope, Managed: n.Managed}
}

// clone returns a deep copy of the tree rooted at n, with a nil parent at the top.  Only
// meaningful on acyclic structures.
func (n *Node) clone() *Node {
	cp := n.detached()
	for _, c := range n.children {
		cp.AddChild(c.clone())
	}
	return cp
}
