package dependency

import "testing"

func TestGraph_AddNodeAndHasNode(t *testing.T) {
	g := NewGraph()
	if g.HasNode("a") {
		t.Error("empty graph should not have node a")
	}
	g.AddNode("a", "1.0.0")
	if !g.HasNode("a") {
		t.Error("graph should have node a after AddNode")
	}
	n, ok := g.Node("a")
	if !ok || n.Version != "1.0.0" {
		t.Errorf("Node(a) = %+v, %v, want version 1.0.0", n, ok)
	}
}

func TestGraph_AddEdge(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", "1.0.0")
	g.AddNode("b", "1.0.0")
	g.AddEdge("a", "b", "^1.0.0", false)
	if len(g.edges) != 1 {
		t.Fatalf("len(edges) = %d, want 1", len(g.edges))
	}
	e := g.edges[0]
	if e.From != "a" || e.To != "b" || e.VersionRange != "^1.0.0" || e.Optional {
		t.Errorf("edge = %+v, unexpected", e)
	}
}

func TestSatisfies_InvalidConstraint(t *testing.T) {
	if _, err := Satisfies("not-a-range!!", "1.0.0"); err == nil {
		t.Error("expected an error for an invalid constraint")
	}
}

func TestSatisfies_InvalidVersion(t *testing.T) {
	if _, err := Satisfies("^1.0.0", "not-a-version"); err == nil {
		t.Error("expected an error for an invalid version")
	}
}
