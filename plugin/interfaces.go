package plugin

import (
	"github.com/zernjs/kernel/proxy"
	"github.com/zernjs/kernel/store"
)

// SetupFunc constructs a plugin's API given its fully resolved Context.
// It must be pure in the sense of spec.md §3: no side effects beyond
// reading ctx and returning the API.
type SetupFunc func(ctx *Context) (any, error)

// Hook is a lifecycle callback: onInit, onReady, onError, onShutdown.
type Hook func(ctx *Context) error

// Hooks bundles the four lifecycle callbacks a plugin may declare.
type Hooks struct {
	OnInit     Hook
	OnReady    Hook
	OnError    func(ctx *Context, cause error) error
	OnShutdown Hook
}

// Dependency declares that a plugin requires another, optionally gated by
// a semver range (spec.md §3 "{ pluginId, versionRange, optional? }").
type Dependency struct {
	Target       string
	VersionRange string
	Optional     bool
}

// DependencyOption mutates a Dependency during Builder.Depends.
type DependencyOption func(*Dependency)

// Optional marks a dependency as optional: its absence degrades to a
// warning instead of failing resolution, and so does a version mismatch
// when StrictVersioning is off.
func Optional() DependencyOption {
	return func(d *Dependency) { d.Optional = true }
}

// ExtensionDecl pairs a target plugin id with the function that extends
// its API (spec.md §4.3).
type ExtensionDecl struct {
	Target string
	Fn     proxy.ExtensionFunc
}

// ProxyDecl pairs a target selector ('self', '*', '**' or a concrete id)
// with the interceptor bundle to compile against it (spec.md §4.4).
type ProxyDecl struct {
	Target  string
	Config  proxy.Config
	Factory proxy.Factory
}
