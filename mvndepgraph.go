// Package mvndepgraph builds and classifies the dependency graph of a Maven-style project:
// it answers "which declared dependencies are actually needed?" and "what does the
// fully-resolved, de-duplicated, scope-and-version-managed dependency tree look like?".
//
// # Quick Start
//
// (The following is also available as a package-level example.)
//
// Obtain a [Project] model and a raw dependency graph.  The raw graph comes from a
// [Resolver]; the [Descriptor] type is a file-backed resolver useful for tooling and tests:
//
//	desc, err := mvndepgraph.LoadDescriptor("project.yaml")
//	if err != nil {
//		return err
//	}
//	project := desc.ToProject()
//
// Run the whole pipeline with [Analyze]:
//
//	result, err := mvndepgraph.Analyze(ctx, project, desc, desc, mvndepgraph.ClassifyOptions{})
//	if err != nil {
//		return err
//	}
//
// Or run the stages yourself.  [BreakCycles] makes the raw graph safe to walk:
//
//	raw, err := desc.Resolve(ctx, project)
//	if err != nil {
//		return err
//	}
//	acyclic, err := mvndepgraph.BreakCycles(raw)
//	if err != nil {
//		return err
//	}
//
// [Normalizer.Normalize] prunes transitive test-scoped subtrees and applies the project's
// dependency management:
//
//	nz := mvndepgraph.Normalizer{Management: project.ManagementIndex()}
//	tree, err := nz.Normalize(ctx, project.Coordinate, acyclic)
//	if err != nil {
//		return err
//	}
//
// [Classify] merges usage evidence with the declared dependencies:
//
//	cl := mvndepgraph.Classify(evidence, mvndepgraph.ClassifyOptions{})
//	for _, c := range mvndepgraph.SortedCoordinates(cl.UnusedDeclared) {
//		fmt.Printf("unused: %v\n", c)
//	}
//
// # Terminology
//
// This package's documentation uses the following terminology, intended to align with
// Maven's own usage:
//
//   - An artifact coordinate is the {group, artifact, version, type, classifier} identity of
//     a dependency, plus the scope of the edge that pulled it in.  See [Coordinate].
//   - A scope is a label on a dependency edge (compile, test, runtime, provided, system)
//     controlling whether the dependency propagates to dependents and when it is needed.
//   - A direct dependency is declared by the project itself and sits at depth 1 of the
//     normalized tree; a transitive dependency is pulled in indirectly through another
//     dependency.
//   - Dependency management is a project-level declaration that overrides the version or
//     scope of a dependency wherever it appears transitively, without itself adding the
//     dependency.  See [ManagementIndex].
//
// # Pipeline
//
// The stages are sequenced, never interleaved:
//
//  1. A [Resolver] produces the raw graph.  Version-conflict resolution (nearest-wins and
//     friends) is the resolver's business; this package only refines its output.
//  2. [BreakCycles] removes cycles, which malformed or adversarial dependency metadata can
//     produce, so that the downstream tree walks terminate.
//  3. [Normalizer.PruneTransitiveTestDependencies] drops test-scoped subtrees below depth 1;
//     test-scoped dependencies are not inherited transitively by consumers, so keeping them
//     would pollute the analysis.
//  4. [Normalizer.ApplyManagement] rewrites the versions of managed transitive nodes and
//     annotates them with their pre-management state (see [ManagedInfo]).  Managed scopes
//     are recorded but never applied; the asymmetry is deliberate and load-bearing for the
//     classification downstream.
//  5. [Classify] buckets artifacts into used-declared, used-undeclared, unused-declared and
//     non-test-scoped-but-test-only categories, then computes the informational
//     include/ignore subsets.
//
// The core is single-threaded and synchronous, with one exception: once pruning has
// produced an owned tree, [Normalizer.ApplyManagement] processes independent top-level
// subtrees in parallel.
//
// Classification findings are data, not errors: a [Classification] with
// [Classification.Warning] set is still a successful analysis, and escalating it to a
// build failure is the caller's policy decision.
package mvndepgraph
