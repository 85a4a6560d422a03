package kernel

import (
	"context"
	"testing"

	"github.com/zernjs/kernel/plugin"
	"github.com/zernjs/kernel/proxy"
)

func buildPlugin(t *testing.T, name, version string, fn func(*plugin.Context) (any, error)) *plugin.Descriptor {
	t.Helper()
	d, err := plugin.New(name, version).Setup(fn).Build()
	if err != nil {
		t.Fatalf("building %s: %v", name, err)
	}
	return d
}

func TestKernel_BuildStartGet(t *testing.T) {
	greeter := buildPlugin(t, "greeter", "1.0.0", func(ctx *plugin.Context) (any, error) {
		return proxy.API{"hello": "world"}, nil
	})

	k, err := CreateKernel().
		WithConfig(Options{AutoGlobal: false, StrictVersioning: true, ExtensionsEnabled: true}).
		Use(greeter).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if err := k.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	api, err := Get[proxy.API](k, "greeter")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if api["hello"] != "world" {
		t.Errorf("api = %+v, unexpected", api)
	}
}

func TestKernel_GetUnknownPlugin(t *testing.T) {
	k, err := CreateKernel().Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if err := k.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if _, err := Get[proxy.API](k, "missing"); err == nil {
		t.Fatal("expected an error for an unknown plugin")
	}
}

func TestKernel_AutoGlobal(t *testing.T) {
	a := buildPlugin(t, "a", "1.0.0", func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil })

	k, err := CreateKernel().WithConfig(Options{AutoGlobal: true, StrictVersioning: true}).Use(a).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if err := k.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	got, ok := Active()
	if !ok || got != k {
		t.Fatal("expected Active() to return the started kernel")
	}

	if err := k.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if _, ok := Active(); ok {
		t.Error("expected Active() to be cleared after Shutdown")
	}
}

func TestKernel_NotAutoGlobalDoesNotPublish(t *testing.T) {
	active.Store(nil)
	a := buildPlugin(t, "solo", "1.0.0", func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil })

	k, err := CreateKernel().WithConfig(Options{AutoGlobal: false}).Use(a).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if err := k.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if _, ok := Active(); ok {
		t.Error("expected Active() to remain unset when AutoGlobal is false")
	}
}

func TestKernel_KernelLevelProxy(t *testing.T) {
	a := buildPlugin(t, "svc", "1.0.0", func(ctx *plugin.Context) (any, error) {
		return proxy.API{"greet": proxy.Method(func(args ...any) (any, error) { return "hi", nil })}, nil
	})

	var called bool
	k, err := CreateKernel().
		Use(a).
		Proxy("**", proxy.Config{
			Include: []string{"*"},
			Before: []proxy.BeforeFunc{func(ctx *proxy.Context) error {
				called = true
				return nil
			}},
		}).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if err := k.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	api, err := Get[proxy.API](k, "svc")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	greet := api["greet"].(proxy.Method)
	if _, err := greet(); err != nil {
		t.Fatalf("greet() error: %v", err)
	}
	if !called {
		t.Error("expected the kernel-level proxy's before hook to run")
	}
}

func TestKernel_MissingDependencyFails(t *testing.T) {
	b := buildPlugin(t, "needsA", "1.0.0", func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil })
	b.Dependencies = append(b.Dependencies, plugin.Dependency{Target: "a", VersionRange: "^1.0.0"})

	k, err := CreateKernel().Use(b).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if err := k.Start(context.Background()); err == nil {
		t.Fatal("expected Start() to fail for a missing dependency")
	}
}
