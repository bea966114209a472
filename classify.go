package mvndepgraph

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rlehane/mvndepgraph/internal/artifilter"
	"github.com/rlehane/mvndepgraph/internal/itertools"
)

// Evidence is what the external usage analyzer reports about which artifacts the build
// actually exercises.  See [UsageAnalyzer].
type Evidence struct {
	// UsedDeclared are the artifacts the project's code references and also declares.
	UsedDeclared []Coordinate

	// UsedUndeclared maps each artifact the code references without declaring it to the
	// class names that triggered the "used" verdict.
	UsedUndeclared map[Coordinate][]string

	// UnusedDeclared are the declared artifacts the code never references.
	UnusedDeclared []Coordinate

	// NonTestScoped are artifacts that are not test-scoped but are referenced only from
	// test code.  An artifact here can also appear in UsedDeclared: it was used and
	// declared, just at the wrong scope.
	NonTestScoped []Coordinate
}

// ClassifyOptions controls [Classify].  The zero value performs the plain four-way
// classification with no filtering.
type ClassifyOptions struct {
	// ForceUsed lists "group:artifact" pairs treated as used regardless of the evidence,
	// to override incomplete results from the external analyzer.  Matching artifacts move
	// from the unused-declared set to the used-declared set.  A pair matching nothing is a
	// no-op.
	ForceUsed []string

	// IgnoreNonCompile drops every artifact whose scope is not [ScopeCompile] from the
	// unused-declared set.
	IgnoreNonCompile bool

	// IgnoreUnusedRuntime drops runtime-scoped artifacts from the unused-declared set
	// before any other filtering.
	IgnoreUnusedRuntime bool

	// IgnoreAllNonTestScoped treats the entire non-test-scoped category as ignored,
	// regardless of the configured pattern lists.  Equivalent to an ignore-all wildcard
	// for that category.
	IgnoreAllNonTestScoped bool

	// Include restricts the artifacts considered interesting.  When non-empty, artifacts
	// failing the include patterns are collected in the NotIncluded sets of the
	// [Classification]; when empty, nothing is excluded by this step.
	Include []string

	// Ignored patterns apply to the used-undeclared, unused-declared and non-test-scoped
	// categories alike; the per-category lists below extend it for one category only.
	Ignored []string

	IgnoredUsedUndeclared []string
	IgnoredUnusedDeclared []string
	IgnoredNonTestScoped  []string
}

// A Classification buckets the analyzed artifacts into the four usage categories plus the
// informational not-included and ignored subsets produced by the configured filters.  The
// primary category sets are exactly the analyzer's evidence (after the scope-based removals
// of [ClassifyOptions]); the filter subsets never remove anything from them and exist for
// reporting.
type Classification struct {
	UsedDeclared   mapset.Set[Coordinate]
	UsedUndeclared mapset.Set[Coordinate]
	UnusedDeclared mapset.Set[Coordinate]
	NonTestScoped  mapset.Set[Coordinate]

	// UsedUndeclaredClasses maps each used-undeclared artifact to the sorted class names
	// that triggered the verdict.
	UsedUndeclaredClasses map[Coordinate][]string

	// Artifacts failing the include patterns, per category.  Empty when no include
	// patterns are configured.
	NotIncludedUsedDeclared   mapset.Set[Coordinate]
	NotIncludedUsedUndeclared mapset.Set[Coordinate]
	NotIncludedUnusedDeclared mapset.Set[Coordinate]
	NotIncludedNonTestScoped  mapset.Set[Coordinate]

	// Artifacts matching the ignore patterns, per category.
	IgnoredUsedUndeclared mapset.Set[Coordinate]
	IgnoredUnusedDeclared mapset.Set[Coordinate]
	IgnoredNonTestScoped  mapset.Set[Coordinate]

	// FilterErrors collects pattern-compilation failures.  A failure in one filter pass is
	// isolated to that pass's informational output; it never aborts the classification or
	// another category's filtering.
	FilterErrors []error

	// Warning reports whether the used-undeclared, unused-declared or non-test-scoped set
	// was non-empty after the scope-based removals but before any pattern filtering.
	Warning bool
}

// Classify merges the analyzer's evidence with the configured options into a
// [Classification].  It is a pure, single-pass transformation: the same inputs always
// produce the same result, and nothing in the inputs is mutated.
func Classify(ev Evidence, opts ClassifyOptions) *Classification {
	cl := &Classification{
		UsedDeclared:          mapset.NewThreadUnsafeSet(ev.UsedDeclared...),
		UsedUndeclared:        mapset.NewThreadUnsafeSet[Coordinate](),
		UnusedDeclared:        mapset.NewThreadUnsafeSet(ev.UnusedDeclared...),
		NonTestScoped:         mapset.NewThreadUnsafeSet(ev.NonTestScoped...),
		UsedUndeclaredClasses: map[Coordinate][]string{},

		NotIncludedUsedDeclared:   mapset.NewThreadUnsafeSet[Coordinate](),
		NotIncludedUsedUndeclared: mapset.NewThreadUnsafeSet[Coordinate](),
		NotIncludedUnusedDeclared: mapset.NewThreadUnsafeSet[Coordinate](),
		NotIncludedNonTestScoped:  mapset.NewThreadUnsafeSet[Coordinate](),
		IgnoredUsedUndeclared:     mapset.NewThreadUnsafeSet[Coordinate](),
		IgnoredUnusedDeclared:     mapset.NewThreadUnsafeSet[Coordinate](),
		IgnoredNonTestScoped:      mapset.NewThreadUnsafeSet[Coordinate](),
	}
	for c, classes := range ev.UsedUndeclared {
		cl.UsedUndeclared.Add(c)
		cl.UsedUndeclaredClasses[c] = slices.Sorted(slices.Values(classes))
	}

	forceUsage(cl, opts.ForceUsed)
	if opts.IgnoreNonCompile {
		removeByScope(cl.UnusedDeclared, func(scope string) bool { return scope != ScopeCompile })
	}
	if opts.IgnoreUnusedRuntime {
		removeByScope(cl.UnusedDeclared, func(scope string) bool { return scope == ScopeRuntime })
	}

	// The verdict is decided by the base classification only; the pattern passes below are
	// informational.
	cl.Warning = !cl.UsedUndeclared.IsEmpty() || !cl.UnusedDeclared.IsEmpty() || !cl.NonTestScoped.IsEmpty()

	if len(opts.Include) > 0 {
		if include, err := compileIsolated(cl, "include", opts.Include); err == nil {
			cl.NotIncludedUsedDeclared = notMatching(cl.UsedDeclared, include)
			cl.NotIncludedUsedUndeclared = notMatching(cl.UsedUndeclared, include)
			cl.NotIncludedUnusedDeclared = notMatching(cl.UnusedDeclared, include)
			cl.NotIncludedNonTestScoped = notMatching(cl.NonTestScoped, include)
		}
	}

	if f, err := compileIsolated(cl, "ignored used undeclared", opts.Ignored, opts.IgnoredUsedUndeclared); err == nil {
		cl.IgnoredUsedUndeclared = matching(cl.UsedUndeclared, f)
	}
	if f, err := compileIsolated(cl, "ignored unused declared", opts.Ignored, opts.IgnoredUnusedDeclared); err == nil {
		cl.IgnoredUnusedDeclared = matching(cl.UnusedDeclared, f)
	}
	if opts.IgnoreAllNonTestScoped {
		cl.IgnoredNonTestScoped = cl.NonTestScoped.Clone()
	} else if f, err := compileIsolated(cl, "ignored non-test scoped", opts.Ignored, opts.IgnoredNonTestScoped); err == nil {
		cl.IgnoredNonTestScoped = matching(cl.NonTestScoped, f)
	}

	return cl
}

// forceUsage moves every unused-declared artifact matching one of the "group:artifact" pairs
// into the used-declared set.  A pair matching no artifact is silently a no-op.
func forceUsage(cl *Classification, forceUsed []string) {
	for _, ga := range forceUsed {
		group, artifact, ok := strings.Cut(ga, ":")
		if !ok {
			slog.Warn("Classify: malformed forced-used dependency, want group:artifact", "got", ga)
			continue
		}
		forced := mapset.NewThreadUnsafeSet(slices.Collect(itertools.Filter(
			mapset.Elements(cl.UnusedDeclared),
			func(c Coordinate) bool { return c.GroupID == group && c.ArtifactID == artifact },
		))...)
		if forced.IsEmpty() {
			slog.Debug("Classify: forced-used dependency matched nothing", "dependency", ga)
			continue
		}
		cl.UnusedDeclared = cl.UnusedDeclared.Difference(forced)
		cl.UsedDeclared = cl.UsedDeclared.Union(forced)
	}
}

func removeByScope(set mapset.Set[Coordinate], drop func(scope string) bool) {
	for _, c := range slices.Collect(itertools.Filter(
		mapset.Elements(set),
		func(c Coordinate) bool { return drop(c.Scope) },
	)) {
		set.Remove(c)
	}
}

// compileIsolated compiles the concatenation of the given pattern lists, recording (rather
// than propagating) any failure so one bad pattern cannot take down another category's pass.
func compileIsolated(cl *Classification, pass string, patternLists ...[]string) (*artifilter.Filter, error) {
	f, err := artifilter.Compile(slices.Concat(patternLists...))
	if err != nil {
		err = fmt.Errorf("%v patterns: %w", pass, err)
		slog.Warn("Classify: skipping filter pass", "error", err)
		cl.FilterErrors = append(cl.FilterErrors, err)
		return nil, err
	}
	return f, nil
}

func matching(set mapset.Set[Coordinate], f *artifilter.Filter) mapset.Set[Coordinate] {
	return mapset.NewThreadUnsafeSet(slices.Collect(itertools.Filter(
		mapset.Elements(set),
		func(c Coordinate) bool { return f.Matches(c.GroupID, c.ArtifactID, c.Type, c.Version) },
	))...)
}

func notMatching(set mapset.Set[Coordinate], f *artifilter.Filter) mapset.Set[Coordinate] {
	return mapset.NewThreadUnsafeSet(slices.Collect(itertools.Filter(
		mapset.Elements(set),
		func(c Coordinate) bool { return !f.Matches(c.GroupID, c.ArtifactID, c.Type, c.Version) },
	))...)
}

// SortedCoordinates returns the elements of a classification set in [CoordinateCompare]
// order, for deterministic reporting.
func SortedCoordinates(set mapset.Set[Coordinate]) []Coordinate {
	return slices.SortedFunc(mapset.Elements(set), CoordinateCompare)
}
