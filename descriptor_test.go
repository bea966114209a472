package mvndepgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescriptor(t *testing.T) {
	t.Parallel()
	d, err := ParseDescriptor([]byte(`
project:
  group: com.example
  artifact: app
  version: "1.0"
dependencies:
  - org.example:a:1.0
  - group: org.example
    artifact: b
    version: "2.0"
    scope: runtime
management:
  - org.example:c:3.0
evidence:
  used-declared:
    - org.example:a:1.0
  used-undeclared:
    - coordinate: org.example:hidden:1.0
      classes: [com.example.A]
`))
	require.NoError(t, err)

	p := d.ToProject()
	assert.Equal(t, NewCoordinate("com.example", "app", "1.0").Key(), p.Coordinate.Key())
	assert.Empty(t, p.Coordinate.Scope, "a project is not a dependency edge")
	assert.Equal(t, "jar", p.Packaging())
	wantB := NewCoordinate("org.example", "b", "2.0")
	wantB.Scope = ScopeRuntime
	assert.Equal(t, []Coordinate{mustCoord(t, "org.example:a:1.0"), wantB}, p.Dependencies)
	assert.Equal(t, []Coordinate{mustCoord(t, "org.example:c:3.0")}, p.Management)

	ev, err := d.Analyze(t.Context(), p)
	require.NoError(t, err)
	assert.Equal(t, coords(t, "org.example:a:1.0"), ev.UsedDeclared)
	assert.Equal(t, []string{"com.example.A"}, ev.UsedUndeclared[mustCoord(t, "org.example:hidden:1.0")])
}

func TestParseDescriptor_Errors(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		desc string
		in   string
	}{
		{
			desc: "missing project identity",
			in:   "project:\n  version: \"1.0\"\n",
		},
		{
			desc: "unknown field",
			in:   "project:\n  group: g\n  artifact: a\nbogus: true\n",
		},
		{
			desc: "malformed coordinate",
			in:   "project:\n  group: g\n  artifact: a\ndependencies:\n  - not-a-coordinate\n",
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseDescriptor([]byte(tc.in)); err == nil {
				t.Error("ParseDescriptor succeeded, want error")
			}
		})
	}
}

func TestDescriptorResolve_SynthesizedGraph(t *testing.T) {
	t.Parallel()
	d, err := ParseDescriptor([]byte(`
project:
  group: com.example
  artifact: app
  version: "1.0"
dependencies:
  - org.example:a:1.0
  - org.example:b:2.0:jar::test
`))
	require.NoError(t, err)
	root, err := d.Resolve(t.Context(), d.ToProject())
	require.NoError(t, err)
	want := tTree{
		Artifact: "com.example:app:jar:1.0",
		Children: []tTree{
			{Artifact: "org.example:a:jar:1.0:compile"},
			{Artifact: "org.example:b:jar:2.0:test"},
		},
	}
	if diff := cmp.Diff(want, snapshot(root)); diff != "" {
		t.Errorf("synthesized graph differs (-want +got):\n%s", diff)
	}
}

func TestDescriptorResolve_DeclaredGraph(t *testing.T) {
	t.Parallel()
	d, err := ParseDescriptor([]byte(`
project:
  group: com.example
  artifact: app
  version: "1.0"
graph:
  root: app
  nodes:
    - id: app
      coordinate: com.example:app:1.0
      children: [a, b]
    - id: a
      coordinate: org.example:a:1.0
      children: [shared]
    - id: b
      coordinate: org.example:b:1.0
      scope: test
      children: [shared]
    - id: shared
      coordinate: org.example:shared:1.0
`))
	require.NoError(t, err)
	root, err := d.Resolve(t.Context(), d.ToProject())
	require.NoError(t, err)
	require.Equal(t, 2, root.NumChildren())
	var kids []*Node
	for c := range root.Children() {
		kids = append(kids, c)
	}
	assert.Equal(t, ScopeTest, kids[1].Scope, "the node-level scope overrides the coordinate's")
	var aShared, bShared *Node
	for c := range kids[0].Children() {
		aShared = c
	}
	for c := range kids[1].Children() {
		bShared = c
	}
	assert.Same(t, aShared, bShared, "a declared shared child must be one object, not copies")
}

func TestDescriptorResolve_CyclicGraph(t *testing.T) {
	t.Parallel()
	d, err := ParseDescriptor([]byte(`
project:
  group: com.example
  artifact: app
  version: "1.0"
graph:
  root: app
  nodes:
    - id: app
      coordinate: com.example:app:1.0
      children: [a]
    - id: a
      coordinate: org.example:a:1.0
      children: [b]
    - id: b
      coordinate: org.example:b:1.0
      children: [a]
`))
	require.NoError(t, err)
	raw, err := d.Resolve(t.Context(), d.ToProject())
	require.NoError(t, err)
	got, err := BreakCycles(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Size())
}

func TestDescriptorResolve_GraphErrors(t *testing.T) {
	t.Parallel()
	header := "project:\n  group: com.example\n  artifact: app\n  version: \"1.0\"\n"
	for _, tc := range []struct {
		desc    string
		graph   string
		wantErr string
	}{
		{
			desc:    "missing root",
			graph:   "graph:\n  nodes:\n    - id: a\n      coordinate: org.example:a:1.0\n",
			wantErr: "root is required",
		},
		{
			desc:    "unknown root",
			graph:   "graph:\n  root: nope\n  nodes:\n    - id: a\n      coordinate: org.example:a:1.0\n",
			wantErr: "unknown root",
		},
		{
			desc: "duplicate id",
			graph: "graph:\n  root: a\n  nodes:\n" +
				"    - id: a\n      coordinate: org.example:a:1.0\n" +
				"    - id: a\n      coordinate: org.example:a:2.0\n",
			wantErr: "duplicate node id",
		},
		{
			desc: "unknown child",
			graph: "graph:\n  root: a\n  nodes:\n" +
				"    - id: a\n      coordinate: org.example:a:1.0\n      children: [ghost]\n",
			wantErr: "unknown child",
		},
		{
			desc:    "node without id",
			graph:   "graph:\n  root: a\n  nodes:\n    - coordinate: org.example:a:1.0\n",
			wantErr: "node without id",
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			d, err := ParseDescriptor([]byte(header + tc.graph))
			require.NoError(t, err)
			_, err = d.Resolve(t.Context(), d.ToProject())
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
