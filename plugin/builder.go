package plugin

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/zernjs/kernel/kernelerrors"
	"github.com/zernjs/kernel/proxy"
	"github.com/zernjs/kernel/store"
)

// Builder accumulates a plugin's declaration fluently, per spec.md §6
// "Builder surface": plugin(name, version).depends(...).store(...)...build().
type Builder struct {
	name    string
	version string

	deps       []Dependency
	setup      SetupFunc
	hooks      Hooks
	extensions []ExtensionDecl
	proxies    []ProxyDecl

	storeInitial map[string]any
	storeOptions []store.Option

	metadata map[string]any
}

// New starts building a plugin declaration.
func New(name, version string) *Builder {
	return &Builder{name: name, version: version, metadata: make(map[string]any)}
}

// Depends declares a dependency on target, gated by the semver range
// rangeExpr (empty means "any version").
func (b *Builder) Depends(target, rangeExpr string, opts ...DependencyOption) *Builder {
	d := Dependency{Target: target, VersionRange: rangeExpr}
	for _, opt := range opts {
		opt(&d)
	}
	b.deps = append(b.deps, d)
	return b
}

// Store seeds this plugin's reactive store.
func (b *Builder) Store(initial map[string]any, opts ...store.Option) *Builder {
	b.storeInitial = initial
	b.storeOptions = opts
	return b
}

// Extend registers an extension targeting another plugin's API.
func (b *Builder) Extend(target string, fn proxy.ExtensionFunc) *Builder {
	b.extensions = append(b.extensions, ExtensionDecl{Target: target, Fn: fn})
	return b
}

// Proxy registers an interceptor bundle targeting target ('self', '*',
// '**', or a concrete plugin id).
func (b *Builder) Proxy(target string, cfg proxy.Config) *Builder {
	b.proxies = append(b.proxies, ProxyDecl{Target: target, Config: cfg})
	return b
}

// ProxyFactory registers a factory-style proxy, resolved lazily per call.
func (b *Builder) ProxyFactory(target string, factory proxy.Factory) *Builder {
	b.proxies = append(b.proxies, ProxyDecl{Target: target, Factory: factory})
	return b
}

func (b *Builder) OnInit(h Hook) *Builder  { b.hooks.OnInit = h; return b }
func (b *Builder) OnReady(h Hook) *Builder { b.hooks.OnReady = h; return b }
func (b *Builder) OnError(h func(ctx *Context, cause error) error) *Builder {
	b.hooks.OnError = h
	return b
}
func (b *Builder) OnShutdown(h Hook) *Builder { b.hooks.OnShutdown = h; return b }

// Setup registers the function that constructs this plugin's API.
func (b *Builder) Setup(fn SetupFunc) *Builder {
	b.setup = fn
	return b
}

// Meta attaches a metadata entry, surfaced to dependents via $meta.
func (b *Builder) Meta(key string, value any) *Builder {
	b.metadata[key] = value
	return b
}

// Build validates the accumulated declaration and produces a Descriptor.
func (b *Builder) Build() (*Descriptor, error) {
	if b.name == "" {
		return nil, kernelerrors.NewInvalidDescriptor("plugin name must not be empty")
	}
	if _, err := semver.NewVersion(b.version); err != nil {
		return nil, kernelerrors.NewInvalidDescriptor(fmt.Sprintf("plugin %q has an invalid version %q: %v", b.name, b.version, err))
	}
	seen := make(map[string]bool, len(b.deps))
	for _, d := range b.deps {
		if seen[d.Target] {
			return nil, kernelerrors.NewInvalidDescriptor(fmt.Sprintf("plugin %q declares duplicate dependency %q", b.name, d.Target))
		}
		seen[d.Target] = true
	}
	if b.setup == nil {
		return nil, kernelerrors.NewInvalidDescriptor(fmt.Sprintf("plugin %q has no setup function", b.name))
	}

	return &Descriptor{
		id:           slugify(b.name),
		Name:         b.name,
		Version:      b.version,
		Dependencies: b.deps,
		Setup:        b.setup,
		Hooks:        b.hooks,
		Extensions:   b.extensions,
		Proxies:      b.proxies,
		StoreInitial: b.storeInitial,
		StoreOptions: b.storeOptions,
		Metadata:     b.metadata,
	}, nil
}
