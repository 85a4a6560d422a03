package plugin

import "testing"

func TestBuilder_BuildSuccess(t *testing.T) {
	d, err := New("Audit Log", "1.0.0").
		Depends("logger", "^1.0.0").
		Setup(func(ctx *Context) (any, error) { return map[string]any{}, nil }).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID() != "audit-log" {
		t.Errorf("ID() = %q, want audit-log", d.ID())
	}
	if d.Version != "1.0.0" {
		t.Errorf("Version = %q, want 1.0.0", d.Version)
	}
	if len(d.Dependencies) != 1 || d.Dependencies[0].Target != "logger" {
		t.Errorf("Dependencies = %+v, unexpected", d.Dependencies)
	}
}

func TestBuilder_EmptyName(t *testing.T) {
	_, err := New("", "1.0.0").
		Setup(func(ctx *Context) (any, error) { return nil, nil }).
		Build()
	if err == nil {
		t.Fatal("expected an error for an empty name")
	}
}

func TestBuilder_InvalidVersion(t *testing.T) {
	_, err := New("p", "not-a-version").
		Setup(func(ctx *Context) (any, error) { return nil, nil }).
		Build()
	if err == nil {
		t.Fatal("expected an error for an invalid version")
	}
}

func TestBuilder_NoSetup(t *testing.T) {
	_, err := New("p", "1.0.0").Build()
	if err == nil {
		t.Fatal("expected an error when setup is missing")
	}
}

func TestBuilder_DuplicateDependency(t *testing.T) {
	_, err := New("p", "1.0.0").
		Depends("a", "^1.0.0").
		Depends("a", "^2.0.0").
		Setup(func(ctx *Context) (any, error) { return nil, nil }).
		Build()
	if err == nil {
		t.Fatal("expected an error for a duplicate dependency")
	}
}

func TestBuilder_OptionalDependency(t *testing.T) {
	d, err := New("p", "1.0.0").
		Depends("a", "^1.0.0", Optional()).
		Setup(func(ctx *Context) (any, error) { return nil, nil }).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Dependencies[0].Optional {
		t.Error("dependency should be marked optional")
	}
}
