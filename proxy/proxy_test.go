package proxy

import (
	"errors"
	"testing"
)

func echoMethod() Method {
	return func(args ...any) (any, error) {
		if len(args) == 0 {
			return nil, nil
		}
		return args[0], nil
	}
}

func TestExpandTarget(t *testing.T) {
	deps := []string{"a", "b"}
	all := []string{"a", "b", "c"}

	if got := ExpandTarget("self", "p", deps, all); len(got) != 1 || got[0] != "p" {
		t.Errorf("self = %v, want [p]", got)
	}
	if got := ExpandTarget("*", "p", deps, all); len(got) != 2 {
		t.Errorf("* = %v, want deps", got)
	}
	if got := ExpandTarget("**", "p", deps, all); len(got) != 3 {
		t.Errorf("** = %v, want all", got)
	}
	if got := ExpandTarget("concrete-id", "p", deps, all); len(got) != 1 || got[0] != "concrete-id" {
		t.Errorf("concrete = %v, want [concrete-id]", got)
	}
}

func TestMergeExtensions(t *testing.T) {
	base := API{"a": 1}
	exts := []ExtensionFunc{
		func(API) (any, error) { return API{"b": 2}, nil },
		func(API) (any, error) { return API{"a": 99}, nil },
	}
	merged, err := MergeExtensions(base, exts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged["a"] != 99 || merged["b"] != 2 {
		t.Errorf("merged = %+v, unexpected", merged)
	}
}

func TestMergeExtensions_NonObjectSkipped(t *testing.T) {
	base := API{"a": 1}
	exts := []ExtensionFunc{
		func(API) (any, error) { return 42, nil },
	}
	merged, err := MergeExtensions(base, exts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged["a"] != 1 || len(merged) != 1 {
		t.Errorf("merged = %+v, want unchanged", merged)
	}
}

func TestCompiler_SelectsByGlob(t *testing.T) {
	api := API{"getUser": echoMethod(), "getOrder": echoMethod(), "deleteUser": echoMethod()}
	called := false
	regs := []Registration{
		{
			PluginID: "p",
			Config: Config{
				Include: []string{"get*"},
				Before:  []BeforeFunc{func(ctx *Context) error { called = true; return nil }},
			},
		},
	}
	c := NewCompiler()
	compiled, err := c.Compile("p", api, regs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	getUser := compiled["getUser"].(Method)
	if _, err := getUser("x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("before handler should have run for getUser")
	}

	called = false
	deleteUser := compiled["deleteUser"].(Method)
	if _, err := deleteUser("x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("before handler should not run for deleteUser (not matched by get*)")
	}
}

func TestCompiler_PriorityOrder(t *testing.T) {
	api := API{"m": echoMethod()}
	var order []string
	regs := []Registration{
		{PluginID: "p", Config: Config{Include: []string{"m"}, Priority: 1,
			Before: []BeforeFunc{func(ctx *Context) error { order = append(order, "low"); return nil }}}},
		{PluginID: "p", Config: Config{Include: []string{"m"}, Priority: 10,
			Before: []BeforeFunc{func(ctx *Context) error { order = append(order, "high"); return nil }}}},
	}
	c := NewCompiler()
	compiled, _ := c.Compile("p", api, regs)
	m := compiled["m"].(Method)
	_, _ = m("x")
	if len(order) != 2 || order[0] != "high" || order[1] != "low" {
		t.Errorf("order = %v, want [high low]", order)
	}
}

func TestInvoke_SkipAndReplace(t *testing.T) {
	api := API{"get": echoMethod()}
	regs := []Registration{
		{PluginID: "p", Config: Config{
			Include: []string{"get"},
			Before: []BeforeFunc{func(ctx *Context) error {
				if ctx.Args[0] == "k" {
					ctx.Replace("cached")
				}
				return nil
			}},
		}},
	}
	c := NewCompiler()
	compiled, _ := c.Compile("p", api, regs)
	get := compiled["get"].(Method)

	v, err := get("k")
	if err != nil || v != "cached" {
		t.Errorf("get(k) = %v, %v, want cached, nil", v, err)
	}
	v, err = get("x")
	if err != nil || v != "x" {
		t.Errorf("get(x) = %v, %v, want x, nil", v, err)
	}
}

func TestInvoke_AfterChain(t *testing.T) {
	api := API{"m": echoMethod()}
	regs := []Registration{
		{PluginID: "p", Config: Config{
			Include: []string{"m"},
			After: []AfterFunc{func(ctx *Context, result any) (any, error) {
				return result.(string) + "!", nil
			}},
		}},
	}
	c := NewCompiler()
	compiled, _ := c.Compile("p", api, regs)
	m := compiled["m"].(Method)
	v, err := m("hi")
	if err != nil || v != "hi!" {
		t.Errorf("m(hi) = %v, %v, want hi!, nil", v, err)
	}
}

func TestInvoke_OnErrorRecovers(t *testing.T) {
	failing := func() Method {
		return func(args ...any) (any, error) { return nil, errors.New("boom") }
	}
	api := API{"m": failing()}
	regs := []Registration{
		{PluginID: "p", Config: Config{
			Include: []string{"m"},
			OnError: []OnErrorFunc{func(ctx *Context, err error) (any, error) {
				return "recovered", nil
			}},
		}},
	}
	c := NewCompiler()
	compiled, _ := c.Compile("p", api, regs)
	m := compiled["m"].(Method)
	v, err := m()
	if err != nil || v != "recovered" {
		t.Errorf("m() = %v, %v, want recovered, nil", v, err)
	}
}

func TestInvoke_AroundWrapsCall(t *testing.T) {
	api := API{"m": echoMethod()}
	regs := []Registration{
		{PluginID: "p", Config: Config{
			Include: []string{"m"},
			Around: []AroundFunc{func(ctx *Context, next func() (any, error)) (any, error) {
				v, err := next()
				if err != nil {
					return nil, err
				}
				return "[" + v.(string) + "]", nil
			}},
		}},
	}
	c := NewCompiler()
	compiled, _ := c.Compile("p", api, regs)
	m := compiled["m"].(Method)
	v, err := m("x")
	if err != nil || v != "[x]" {
		t.Errorf("m(x) = %v, %v, want [x], nil", v, err)
	}
}

func TestCompiler_PatternTooLong(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	api := API{"m": echoMethod()}
	regs := []Registration{
		{PluginID: "p", Config: Config{Include: []string{string(long)}}},
	}
	c := NewCompiler()
	if _, err := c.Compile("p", api, regs); err == nil {
		t.Fatal("expected a pattern-too-long error")
	}
}
