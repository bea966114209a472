package mvndepgraph

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// A Normalizer refines an acyclic raw dependency graph (see [BreakCycles]) into the
// canonical analysis tree: transitive test-scoped subtrees are pruned, then the project's
// dependency-management overrides are applied.  The two passes are independent but their
// order matters; [Normalizer.Normalize] runs them in the required order.
type Normalizer struct {
	// Management is the project's dependency-management index.  An empty index means no
	// overrides are ever applied.
	Management ManagementIndex
}

// Normalize prunes transitive test-scoped dependencies from the graph reachable from root
// and applies dependency management to the result.  The returned tree is rooted at a fresh
// synthetic node representing the project itself; root and everything reachable from it are
// left untouched.  The input must be acyclic (run [BreakCycles] first).
func (nz Normalizer) Normalize(ctx context.Context, project Coordinate, root *Node) (*Node, error) {
	pruned := nz.PruneTransitiveTestDependencies(project, root)
	if err := nz.ApplyManagement(ctx, pruned); err != nil {
		return nil, err
	}
	return pruned, nil
}

// PruneTransitiveTestDependencies returns a fresh tree without the transitive test-scoped
// subtrees of the graph reachable from root.  Direct (depth 1) dependencies are retained
// unconditionally, whatever their scope; below that, any edge labeled [ScopeTest] is removed
// together with its entire subtree.  Test-scoped dependencies are not inherited transitively
// by consumers, so such subtrees would only pollute the analysis.
//
// The returned tree is rooted at a synthetic node for the project coordinate (with no edge
// scope).  The input may contain subtrees shared between parents; the output is an owned
// tree, with shared subtrees copied per parent so that later passes can mutate one parent's
// view without corrupting another's.
func (nz Normalizer) PruneTransitiveTestDependencies(project Coordinate, root *Node) *Node {
	project.Scope = ""
	newRoot := NewNode(project)
	p := &testPruner{pruned: map[Key]*Node{}}
	for _, child := range root.children {
		newRoot.AddChild(p.prune(child))
	}
	slog.Debug("PruneTransitiveTestDependencies done",
		"project", project, "dropped", p.dropped, "kept", len(p.pruned))
	return newRoot
}

type testPruner struct {
	pruned  map[Key]*Node // Keyed by dependency identity, not object identity.
	dropped int
}

func (p *testPruner) prune(n *Node) *Node {
	if seen, ok := p.pruned[n.Artifact.Key()]; ok {
		// Reached again through another parent.  The subtree is already pruned; hand the
		// new parent its own copy so both parents exclusively own their children.
		return seen.clone()
	}
	out := n.detached()
	for _, child := range n.children {
		if child.Scope == ScopeTest {
			p.dropped++
			continue
		}
		out.AddChild(p.prune(child))
	}
	p.pruned[n.Artifact.Key()] = out
	return out
}

// ApplyManagement overwrites, in place, the version of every transitive node whose identity
// matches a management entry, and annotates the node with its pre-management state (see
// [ManagedInfo]).  The traversal is depth-first pre-order and starts below the direct
// dependencies: root's children are depth 1 and are never overridden; management applies
// from their own children down.
//
// Version and scope are handled asymmetrically: a differing managed version replaces the
// node's version (recording the old one), while a differing managed scope is only recorded,
// never written to the node's scope.  Scope changes affect selection logic elsewhere and are
// surfaced here purely as information.
//
// Annotations are written only for the mismatching fields, so re-running the pass on an
// already-annotated tree does not stack duplicate annotations.
//
// The tree must be owned (no subtree shared between parents, as guaranteed by
// [Normalizer.PruneTransitiveTestDependencies]); each top-level subtree is an independent
// region and they are processed in parallel.
func (nz Normalizer) ApplyManagement(ctx context.Context, root *Node) error {
	if len(nz.Management) == 0 {
		return nil
	}
	gr, ctx := errgroup.WithContext(ctx)
	for _, direct := range root.children {
		gr.Go(func() error {
			if err := context.Cause(ctx); err != nil {
				return err
			}
			for _, n := range direct.children {
				nz.applyManagement(n)
			}
			return nil
		})
	}
	return gr.Wait()
}

func (nz Normalizer) applyManagement(n *Node) {
	if e, ok := nz.Management.Lookup(n.Artifact.Key()); ok {
		if e.Version != "" && e.Version != n.Artifact.Version {
			n.Managed.PreManagedVersion = n.Artifact.Version
			n.Artifact.Version = e.Version
		}
		if e.Scope != "" && e.Scope != n.Scope {
			n.Managed.PreManagedScope = n.Scope
			// The node's own scope is deliberately left untouched.
			n.Managed.ManagedScope = e.Scope
		}
	}
	for _, child := range n.children {
		nz.applyManagement(child)
	}
}
