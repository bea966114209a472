package mvndepgraph

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rlehane/mvndepgraph/internal/itertools"
)

// A Resolver produces the raw, pre-normalization dependency graph for a project.  The graph
// may contain cycles and subtrees shared between parents; [BreakCycles] and [Normalizer]
// refine it.  How the graph is obtained (repository access, version-conflict resolution,
// caching) is entirely the resolver's concern.
type Resolver interface {
	Resolve(ctx context.Context, project *Project) (*Node, error)
}

// A UsageAnalyzer reports which artifacts the project's build actually exercises, typically
// by inspecting compiled code.  See [Evidence].
type UsageAnalyzer interface {
	Analyze(ctx context.Context, project *Project) (Evidence, error)
}

// A ResolutionError reports that the [Resolver] could not produce a raw graph for the
// project.  It is fatal for the current analysis; retrying, if sensible at all, is the
// resolver's business.
type ResolutionError struct {
	Project Coordinate
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving dependencies of %v: %v", e.Project, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// An AnalysisError reports that the [UsageAnalyzer] could not produce usage evidence for the
// project.  Fatal for the current analysis.
type AnalysisError struct {
	Project Coordinate
	Err     error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyzing usage of %v: %v", e.Project, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// A Result carries the outputs of [Analyze] as plain data for a reporting layer to render:
// the normalized dependency tree (coordinates, scopes and management metadata) and the
// usage classification sets.  No formatting is performed here.
type Result struct {
	Tree           *Node
	Classification *Classification
}

// Analyze runs the full pipeline on one project: resolve the raw graph, break cycles,
// normalize (transitive-test pruning, then dependency management), obtain usage evidence,
// and classify.  The passes are sequenced, never interleaved; the management index and the
// classification options are read-only throughout.
func Analyze(ctx context.Context, project *Project, resolver Resolver, analyzer UsageAnalyzer, opts ClassifyOptions) (*Result, error) {
	raw, err := resolver.Resolve(ctx, project)
	if err != nil {
		return nil, &ResolutionError{Project: project.Coordinate, Err: err}
	}
	acyclic, err := BreakCycles(raw)
	if err != nil {
		return nil, err
	}
	nz := Normalizer{Management: project.ManagementIndex()}
	tree, err := nz.Normalize(ctx, project.Coordinate, acyclic)
	if err != nil {
		return nil, err
	}
	ev, err := analyzer.Analyze(ctx, project)
	if err != nil {
		return nil, &AnalysisError{Project: project.Coordinate, Err: err}
	}
	cl := Classify(ev, opts)
	slog.Debug("Analyze done", "project", project.Coordinate,
		"treeSize", tree.Size(), "warning", cl.Warning,
		"unusedDeclared", slices.Collect(itertools.Stringify(mapset.Elements(cl.UnusedDeclared))),
		"usedUndeclared", slices.Collect(itertools.Stringify(mapset.Elements(cl.UsedUndeclared))))
	return &Result{Tree: tree, Classification: cl}, nil
}
