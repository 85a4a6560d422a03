package dependency

import (
	"reflect"
	"testing"
)

func TestResolve_LinearInit(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", "1.0.0")
	g.AddNode("b", "1.0.0")
	g.AddNode("c", "1.0.0")
	g.AddEdge("b", "a", "^1.0.0", false)
	g.AddEdge("c", "b", "^1.0.0", false)

	order, warnings, err := Resolve(g, Options{StrictVersioning: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Errorf("order = %v, want [a b c]", order)
	}
}

func TestResolve_VersionConflict(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", "1.2.0")
	g.AddNode("b", "1.0.0")
	g.AddEdge("b", "a", "^2.0.0", false)

	_, _, err := Resolve(g, Options{StrictVersioning: true})
	if err == nil {
		t.Fatal("expected a resolution error")
	}
	if len(err.Problems) != 1 || err.Problems[0].Kind != ProblemVersionConflict {
		t.Fatalf("problems = %+v, want one version_conflict", err.Problems)
	}
	want := "a (required ^2.0.0, found 1.2.0, required by b)"
	if got := err.Problems[0].String(); got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestResolve_CircularDependency_Fails(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", "1.0.0")
	g.AddNode("b", "1.0.0")
	g.AddEdge("a", "b", "", false)
	g.AddEdge("b", "a", "", false)

	_, _, err := Resolve(g, Options{StrictVersioning: true, CircularDependencies: false})
	if err == nil {
		t.Fatal("expected a cyclic resolution error")
	}
	if err.Problems[0].Kind != ProblemCyclic {
		t.Fatalf("kind = %v, want cyclic", err.Problems[0].Kind)
	}
	cyc := err.Problems[0].Cycle
	if len(cyc) != 3 || cyc[0] != cyc[2] {
		t.Fatalf("cycle = %v, want a 3-element closed walk", cyc)
	}
}

func TestResolve_CircularDependency_Tolerated(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", "1.0.0")
	g.AddNode("b", "1.0.0")
	g.AddEdge("a", "b", "", false)
	g.AddEdge("b", "a", "", false)

	order, warnings, err := Resolve(g, Options{StrictVersioning: true, CircularDependencies: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("order = %v, want 2 plugins", order)
	}
	if len(warnings) == 0 || warnings[0].Kind != WarningCircularTolerated {
		t.Fatalf("warnings = %v, want a circular_tolerated warning", warnings)
	}
}

func TestResolve_MissingRequiredDependency(t *testing.T) {
	g := NewGraph()
	g.AddNode("b", "1.0.0")
	g.AddEdge("b", "a", "^1.0.0", false)

	_, _, err := Resolve(g, Options{StrictVersioning: true})
	if err == nil || err.Problems[0].Kind != ProblemMissing {
		t.Fatalf("expected missing dependency problem, got %v", err)
	}
}

func TestResolve_MissingOptionalDependency_ExcludedNotFailed(t *testing.T) {
	g := NewGraph()
	g.AddNode("b", "1.0.0")
	g.AddEdge("b", "a", "^1.0.0", true)

	order, warnings, err := Resolve(g, Options{StrictVersioning: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"b"}) {
		t.Errorf("order = %v, want [b]", order)
	}
	if len(warnings) != 1 || warnings[0].Kind != WarningOptionalMissing {
		t.Errorf("warnings = %v, want one optional_missing", warnings)
	}
}

func TestResolve_OptionalVersionMismatch_DegradesWhenNotStrict(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", "1.0.0")
	g.AddNode("b", "1.0.0")
	g.AddEdge("b", "a", "^2.0.0", true)

	order, warnings, err := Resolve(g, Options{StrictVersioning: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("order = %v, want both plugins present", order)
	}
	if len(warnings) != 1 || warnings[0].Kind != WarningOptionalMismatch {
		t.Errorf("warnings = %v, want one optional_version_mismatch", warnings)
	}
}

func TestResolve_DeterministicTieBreak(t *testing.T) {
	g := NewGraph()
	g.AddNode("z", "1.0.0")
	g.AddNode("a", "1.0.0")
	g.AddNode("m", "1.0.0")

	order, _, err := Resolve(g, Options{StrictVersioning: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"a", "m", "z"}) {
		t.Errorf("order = %v, want lexicographic [a m z]", order)
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		rng, version string
		want         bool
	}{
		{"^1.0.0", "1.2.3", true},
		{"^1.0.0", "2.0.0", false},
		{"~1.2.0", "1.2.9", true},
		{"~1.2.0", "1.3.0", false},
		{"", "1.2.3", true},
	}
	for _, tt := range tests {
		got, err := Satisfies(tt.rng, tt.version)
		if err != nil {
			t.Fatalf("Satisfies(%q, %q) error: %v", tt.rng, tt.version, err)
		}
		if got != tt.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.rng, tt.version, got, tt.want)
		}
	}
}
