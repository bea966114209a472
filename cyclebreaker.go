package mvndepgraph

import (
	"errors"
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
)

// ErrMalformedGraph is reported (wrapped) when graph construction encounters a node without
// the artifact data required to establish its identity.  There is no silent-degradation path
// for this condition: the analysis of the current project is aborted.
var ErrMalformedGraph = errors.New("malformed dependency graph")

// BreakCycles returns a copy of the graph reachable from root with every cycle removed.  The
// input graph is not modified.
//
// The traversal is depth-first and keeps the set of dependency identities currently on the
// traversal stack.  When an edge leads to a node whose identity is already on the stack, the
// edge is removed (the revisited node is simply absent at that position); the node itself
// survives everywhere a true cycle is not involved.  A node reached again on a different
// path reuses the already-broken result when doing so cannot place an identity on a path
// twice, so the ancestor-stack check prevents the re-traversal blowup an unguarded
// depth-first walk over a cyclic graph would cause, and the output's depth is bounded by the
// number of distinct identities in the input.
//
// Running BreakCycles on its own output returns an identical graph.
//
// Returns an error wrapping [ErrMalformedGraph] if any reachable node lacks an artifact
// identity.
func BreakCycles(root *Node) (*Node, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrMalformedGraph)
	}
	b := &cycleBreaker{
		ancestors: mapset.NewThreadUnsafeSet[Key](),
		done:      map[*Node]*Node{},
		ids:       map[*Node]mapset.Set[Key]{},
	}
	out, _, err := b.visit(root)
	if err != nil {
		return nil, err
	}
	slog.Debug("BreakCycles done", "nodes", len(b.done), "removedEdges", b.removed)
	return out, nil
}

type cycleBreaker struct {
	ancestors mapset.Set[Key]
	done      map[*Node]*Node
	ids       map[*Node]mapset.Set[Key] // Identities present in the broken subtree done[n].
	removed   int
}

func (b *cycleBreaker) visit(n *Node) (*Node, mapset.Set[Key], error) {
	if err := n.Artifact.Check(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedGraph, err)
	}
	// Reuse an already-broken subtree unless it contains an identity currently on the
	// traversal stack; reusing it then would make that identity repeat along a path.
	if out, ok := b.done[n]; ok && b.ids[n].Intersect(b.ancestors).IsEmpty() {
		return out, b.ids[n], nil
	}
	key := n.Artifact.Key()
	b.ancestors.Add(key)
	defer b.ancestors.Remove(key)
	// The output child sequence is built fresh rather than filtered in place, so the input
	// graph is never mutated mid-iteration.
	out := n.detached()
	ids := mapset.NewThreadUnsafeSet(key)
	for _, child := range n.children {
		if err := child.Artifact.Check(); err != nil {
			return nil, nil, fmt.Errorf("%w: child of %v: %w", ErrMalformedGraph, n.Artifact, err)
		}
		if b.ancestors.Contains(child.Artifact.Key()) {
			b.removed++
			slog.Debug("BreakCycles: removing cyclic edge", "from", n.Artifact, "to", child.Artifact)
			continue
		}
		cc, cids, err := b.visit(child)
		if err != nil {
			return nil, nil, err
		}
		out.AddChild(cc)
		ids = ids.Union(cids)
	}
	b.done[n] = out
	b.ids[n] = ids
	return out, ids, nil
}
