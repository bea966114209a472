package mvndepgraph

import (
	"errors"
	"fmt"
	"strings"
)

// Well-known dependency scopes.  A scope is a label on a dependency edge that controls
// whether the dependency propagates to dependents and when it is needed.
const (
	ScopeCompile  = "compile"
	ScopeTest     = "test"
	ScopeRuntime  = "runtime"
	ScopeProvided = "provided"
	ScopeSystem   = "system"
)

// A Coordinate identifies a Maven-style artifact: a specific version of a specific
// dependency, plus the [scope] of the edge that pulled it in.  Two [Coordinate] values with
// the same [Coordinate.Key] but different Version or Scope are the same dependency, possibly
// managed; see [ManagementIndex].
//
// [scope]: https://maven.apache.org/guides/introduction/introduction-to-dependency-mechanism.html#dependency-scope
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
	Type       string // Also known as extension; "jar" if unspecified.
	Classifier string
	Scope      string
}

// NewCoordinate constructs a [Coordinate] from its group, artifact and version components,
// with the type defaulted to "jar" and the scope defaulted to [ScopeCompile].
func NewCoordinate(group, artifact, version string) Coordinate {
	return Coordinate{
		GroupID:    group,
		ArtifactID: artifact,
		Version:    version,
		Type:       "jar",
		Scope:      ScopeCompile,
	}
}

// ParseCoordinate breaks a "group:artifact:version[:type[:classifier[:scope]]]" string into
// a [Coordinate].  Omitted segments take the [NewCoordinate] defaults; an empty type or
// scope segment also takes the default.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 6 {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: want 3 to 6 colon-separated segments, got %v", s, len(parts))
	}
	c := NewCoordinate(parts[0], parts[1], parts[2])
	if len(parts) > 3 && parts[3] != "" {
		c.Type = parts[3]
	}
	if len(parts) > 4 {
		c.Classifier = parts[4]
	}
	if len(parts) > 5 && parts[5] != "" {
		c.Scope = parts[5]
	}
	return c, c.Check()
}

// Check asserts that the coordinate carries an identity (non-empty group and artifact
// identifiers).  A [Coordinate] that fails this check cannot be used for management lookups
// or deduplication, and encountering one during graph construction is a fatal
// [ErrMalformedGraph] condition.
func (c Coordinate) Check() error {
	if c.GroupID == "" {
		return errors.New("group identifier is the empty string")
	}
	if c.ArtifactID == "" {
		return errors.New("artifact identifier is the empty string")
	}
	return nil
}

// Key returns the identity of the dependency this coordinate refers to.  Version and Scope
// are deliberately excluded; see [Key].
func (c Coordinate) Key() Key {
	return Key{
		GroupID:    c.GroupID,
		ArtifactID: c.ArtifactID,
		Type:       c.Type,
		Classifier: c.Classifier,
	}
}

// String renders the coordinate as "group:artifact:type[:classifier]:version[:scope]",
// matching the conventional Maven artifact rendering.
func (c Coordinate) String() string {
	var b strings.Builder
	b.WriteString(c.GroupID)
	b.WriteString(":")
	b.WriteString(c.ArtifactID)
	b.WriteString(":")
	b.WriteString(c.Type)
	if c.Classifier != "" {
		b.WriteString(":")
		b.WriteString(c.Classifier)
	}
	b.WriteString(":")
	b.WriteString(c.Version)
	if c.Scope != "" {
		b.WriteString(":")
		b.WriteString(c.Scope)
	}
	return b.String()
}

// CoordinateCompare is used to sort a collection of [Coordinate] values.  It compares
// field-wise in identity order (group, artifact, type, classifier) and then by version and
// scope, so coordinates sharing a [Key] sort together.
func CoordinateCompare(a, b Coordinate) int {
	for _, cmp := range []int{
		strings.Compare(a.GroupID, b.GroupID),
		strings.Compare(a.ArtifactID, b.ArtifactID),
		strings.Compare(a.Type, b.Type),
		strings.Compare(a.Classifier, b.Classifier),
		strings.Compare(a.Version, b.Version),
	} {
		if cmp != 0 {
			return cmp
		}
	}
	return strings.Compare(a.Scope, b.Scope)
}

// A Key is the normalized identity of a dependency: the [Coordinate] fields minus version
// and scope.  It is the map key for management lookups and for deduplication during graph
// traversal.  [Key] is comparable and can be used directly as a Go map key or set element.
type Key struct {
	GroupID    string
	ArtifactID string
	Type       string
	Classifier string
}

// String renders the key as "group:artifact:type[:classifier]", the form used by the
// dependency-management section of a project model.
func (k Key) String() string {
	s := k.GroupID + ":" + k.ArtifactID + ":" + k.Type
	if k.Classifier != "" {
		s += ":" + k.Classifier
	}
	return s
}
