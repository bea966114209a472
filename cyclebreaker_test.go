package mvndepgraph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rlehane/mvndepgraph/internal/itertools"
)

func TestBreakCycles_AcyclicPassthrough(t *testing.T) {
	t.Parallel()
	root := tnode(t, "com.example:app:1.0",
		tnode(t, "org.example:a:1.0",
			tnode(t, "org.example:c:1.0")),
		tnode(t, "org.example:b:1.0"))
	want := snapshot(root)
	got, err := BreakCycles(root)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, snapshot(got)); diff != "" {
		t.Errorf("graph differs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, snapshot(root)); diff != "" {
		t.Errorf("input was mutated (-want +got):\n%s", diff)
	}
}

func TestBreakCycles_SelfCycle(t *testing.T) {
	t.Parallel()
	a := tnode(t, "org.example:a:1.0")
	a.AddChild(a)
	root := tnode(t, "com.example:app:1.0", a)
	got, err := BreakCycles(root)
	if err != nil {
		t.Fatal(err)
	}
	want := tTree{
		Artifact: "com.example:app:jar:1.0:compile",
		Children: []tTree{{Artifact: "org.example:a:jar:1.0:compile"}},
	}
	if diff := cmp.Diff(want, snapshot(got)); diff != "" {
		t.Errorf("graph differs (-want +got):\n%s", diff)
	}
}

func TestBreakCycles_TwoNodeCycle(t *testing.T) {
	t.Parallel()
	a := tnode(t, "org.example:a:1.0")
	b := tnode(t, "org.example:b:1.0")
	a.AddChild(b)
	b.AddChild(a)
	root := tnode(t, "com.example:app:1.0", a)
	got, err := BreakCycles(root)
	if err != nil {
		t.Fatal(err)
	}
	want := tTree{
		Artifact: "com.example:app:jar:1.0:compile",
		Children: []tTree{{
			Artifact: "org.example:a:jar:1.0:compile",
			Children: []tTree{{Artifact: "org.example:b:jar:1.0:compile"}},
		}},
	}
	if diff := cmp.Diff(want, snapshot(got)); diff != "" {
		t.Errorf("graph differs (-want +got):\n%s", diff)
	}
}

func TestBreakCycles_SharedDiamondSurvives(t *testing.T) {
	t.Parallel()
	d := tnode(t, "org.example:d:1.0")
	root := tnode(t, "com.example:app:1.0",
		tnode(t, "org.example:b:1.0", d),
		tnode(t, "org.example:c:1.0", d))
	got, err := BreakCycles(root)
	if err != nil {
		t.Fatal(err)
	}
	leaf := []tTree{{Artifact: "org.example:d:jar:1.0:compile"}}
	want := tTree{
		Artifact: "com.example:app:jar:1.0:compile",
		Children: []tTree{
			{Artifact: "org.example:b:jar:1.0:compile", Children: leaf},
			{Artifact: "org.example:c:jar:1.0:compile", Children: leaf},
		},
	}
	if diff := cmp.Diff(want, snapshot(got)); diff != "" {
		t.Errorf("graph differs (-want +got):\n%s", diff)
	}
}

func TestBreakCycles_Idempotent(t *testing.T) {
	t.Parallel()
	a := tnode(t, "org.example:a:1.0")
	b := tnode(t, "org.example:b:1.0")
	a.AddChild(b)
	b.AddChild(a)
	root := tnode(t, "com.example:app:1.0", a, b)
	once, err := BreakCycles(root)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := BreakCycles(once)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(snapshot(once), snapshot(twice)); diff != "" {
		t.Errorf("second run changed the graph (-once +twice):\n%s", diff)
	}
}

func TestBreakCycles_DeepChain(t *testing.T) {
	t.Parallel()
	const depth = 1000
	root := tnode(t, "com.example:app:1.0")
	tip := root
	for i := range itertools.Range(uint(0), uint(depth)) {
		n := tnode(t, fmt.Sprintf("org.example:dep-%v:1.0", i))
		tip.AddChild(n)
		tip = n
	}
	tip.AddChild(root) // wrap around to the top
	got, err := BreakCycles(root)
	if err != nil {
		t.Fatal(err)
	}
	if gotSize, want := got.Size(), depth+1; gotSize != want {
		t.Errorf("got %v nodes, want %v", gotSize, want)
	}
}

func TestBreakCycles_MalformedGraph(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		desc string
		root *Node
	}{
		{desc: "nil root", root: nil},
		{desc: "root without identity", root: NewNode(Coordinate{Version: "1.0"})},
		{
			desc: "child without identity",
			root: tnode(t, "com.example:app:1.0", NewNode(Coordinate{GroupID: "org.example", Version: "1.0"})),
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			if _, err := BreakCycles(tc.root); !errors.Is(err, ErrMalformedGraph) {
				t.Errorf("got error %v, want %v", err, ErrMalformedGraph)
			}
		})
	}
}
