package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/zernjs/kernel/plugin"
	"github.com/zernjs/kernel/proxy"
)

func mustBuild(t *testing.T, b *plugin.Builder) *plugin.Descriptor {
	t.Helper()
	d, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return d
}

func TestManager_LinearInit(t *testing.T) {
	var initOrder []string

	a := mustBuild(t, plugin.New("a", "1.0.0").
		Setup(func(ctx *plugin.Context) (any, error) {
			initOrder = append(initOrder, "a")
			return proxy.API{"name": "a"}, nil
		}))
	b := mustBuild(t, plugin.New("b", "1.0.0").
		Depends("a", "^1.0.0").
		Setup(func(ctx *plugin.Context) (any, error) {
			initOrder = append(initOrder, "b")
			dep, ok := ctx.Get("a")
			if !ok {
				t.Fatal("expected dependency a to be visible")
			}
			if dep.API["name"] != "a" {
				t.Fatalf("dependency api = %+v, unexpected", dep.API)
			}
			return proxy.API{"name": "b"}, nil
		}))

	m := New(Config{})
	if err := m.Register(a); err != nil {
		t.Fatal(err)
	}
	if err := m.Register(b); err != nil {
		t.Fatal(err)
	}

	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if len(initOrder) != 2 || initOrder[0] != "a" || initOrder[1] != "b" {
		t.Errorf("initOrder = %v, want [a b]", initOrder)
	}
	for _, id := range []string{"a", "b"} {
		st, _ := m.State(id)
		if st != plugin.StateLoaded {
			t.Errorf("State(%s) = %v, want loaded", id, st)
		}
	}
}

func TestManager_MissingDependencyFails(t *testing.T) {
	b := mustBuild(t, plugin.New("b", "1.0.0").
		Depends("a", "^1.0.0").
		Setup(func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil }))

	m := New(Config{})
	_ = m.Register(b)
	if err := m.Init(context.Background()); err == nil {
		t.Fatal("expected an error for a missing dependency")
	}
}

func TestManager_SetupErrorMarksErrorAndCallsOnError(t *testing.T) {
	onErrorCalled := false
	a := mustBuild(t, plugin.New("a", "1.0.0").
		Setup(func(ctx *plugin.Context) (any, error) { return nil, errors.New("boom") }).
		OnError(func(ctx *plugin.Context, cause error) error {
			onErrorCalled = true
			return nil
		}))

	m := New(Config{})
	_ = m.Register(a)
	if err := m.Init(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	if !onErrorCalled {
		t.Error("onError hook should have been invoked")
	}
	st, _ := m.State("a")
	if st != plugin.StateError {
		t.Errorf("State(a) = %v, want error", st)
	}
}

func TestManager_DuplicateRegistration(t *testing.T) {
	a1 := mustBuild(t, plugin.New("a", "1.0.0").Setup(func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil }))
	a2 := mustBuild(t, plugin.New("a", "2.0.0").Setup(func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil }))

	m := New(Config{})
	if err := m.Register(a1); err != nil {
		t.Fatal(err)
	}
	if err := m.Register(a2); err == nil {
		t.Fatal("expected a duplicate registration error")
	}
}

func TestManager_ShutdownReverseOrder(t *testing.T) {
	var shutdownOrder []string

	a := mustBuild(t, plugin.New("a", "1.0.0").
		Setup(func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil }).
		OnShutdown(func(ctx *plugin.Context) error { shutdownOrder = append(shutdownOrder, "a"); return nil }))
	b := mustBuild(t, plugin.New("b", "1.0.0").
		Depends("a", "^1.0.0").
		Setup(func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil }).
		OnShutdown(func(ctx *plugin.Context) error { shutdownOrder = append(shutdownOrder, "b"); return nil }))

	m := New(Config{})
	_ = m.Register(a)
	_ = m.Register(b)
	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	m.Shutdown(context.Background())

	if len(shutdownOrder) != 2 || shutdownOrder[0] != "b" || shutdownOrder[1] != "a" {
		t.Errorf("shutdownOrder = %v, want [b a]", shutdownOrder)
	}
}

func TestManager_ShutdownHookPanicDoesNotAbortWalk(t *testing.T) {
	var shutdownOrder []string
	a := mustBuild(t, plugin.New("a", "1.0.0").
		Setup(func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil }).
		OnShutdown(func(ctx *plugin.Context) error { shutdownOrder = append(shutdownOrder, "a"); return nil }))
	b := mustBuild(t, plugin.New("b", "1.0.0").
		Depends("a", "^1.0.0").
		Setup(func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil }).
		OnShutdown(func(ctx *plugin.Context) error { panic("boom") }))

	m := New(Config{})
	_ = m.Register(a)
	_ = m.Register(b)
	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	m.Shutdown(context.Background())

	if len(shutdownOrder) != 1 || shutdownOrder[0] != "a" {
		t.Errorf("shutdownOrder = %v, want [a] despite b panicking", shutdownOrder)
	}
}

func TestManager_ExtensionMergeApplied(t *testing.T) {
	a := mustBuild(t, plugin.New("a", "1.0.0").
		Setup(func(ctx *plugin.Context) (any, error) { return proxy.API{"greet": "hi"}, nil }))
	ext := mustBuild(t, plugin.New("ext", "1.0.0").
		Depends("a", "^1.0.0").
		Extend("a", func(api proxy.API) (any, error) {
			return proxy.API{"extra": "added"}, nil
		}).
		Setup(func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil }))

	m := New(Config{})
	_ = m.Register(a)
	_ = m.Register(ext)
	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	apiAny, _ := m.API("a")
	api := apiAny.(proxy.API)
	if api["extra"] != "added" || api["greet"] != "hi" {
		t.Errorf("api = %+v, expected extension merged in", api)
	}
}

func TestManager_CircularDependencyFailsByDefault(t *testing.T) {
	a := mustBuild(t, plugin.New("a", "1.0.0").
		Depends("b", "").
		Setup(func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil }))
	b := mustBuild(t, plugin.New("b", "1.0.0").
		Depends("a", "").
		Setup(func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil }))

	m := New(Config{})
	_ = m.Register(a)
	_ = m.Register(b)
	if err := m.Init(context.Background()); err == nil {
		t.Fatal("expected a circular dependency error")
	}
}
