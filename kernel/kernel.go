package kernel

import (
	"context"

	"github.com/zernjs/kernel/dependency"
	"github.com/zernjs/kernel/kernelerrors"
	"github.com/zernjs/kernel/lifecycle"
	"github.com/zernjs/kernel/plugin"
)

// Kernel is the running orchestrator produced by Builder.Build. It wraps
// a lifecycle.Manager the way the teacher's runtime.Runtime wraps its
// service registry, adding the global-singleton convenience of spec.md
// §6 "autoGlobal".
type Kernel struct {
	manager *lifecycle.Manager
	opts    Options
}

// Start runs dependency resolution and initializes every registered
// plugin in order. If opts.AutoGlobal is set, a successful Start also
// publishes this Kernel as the process-wide Active() instance.
func (k *Kernel) Start(ctx context.Context) error {
	if err := k.manager.Init(ctx); err != nil {
		return err
	}
	if k.opts.AutoGlobal {
		setActive(k)
	}
	return nil
}

// Get returns a plugin's compiled API by id.
func (k *Kernel) Get(pluginID string) (any, bool) {
	return k.manager.API(pluginID)
}

// State returns a plugin's current lifecycle state.
func (k *Kernel) State(pluginID string) (plugin.State, bool) {
	return k.manager.State(pluginID)
}

// Order returns the dependency-resolved initialization order.
func (k *Kernel) Order() []string {
	return k.manager.Order()
}

// Warnings returns every non-fatal resolution warning from the last Start,
// such as a missing optional dependency, an optional dependency version
// mismatch, or a tolerated cycle.
func (k *Kernel) Warnings() []dependency.Warning {
	return k.manager.Warnings()
}

// Shutdown tears down every loaded plugin in reverse init order. If this
// Kernel is the current global instance, it is cleared.
func (k *Kernel) Shutdown(ctx context.Context) error {
	k.manager.Shutdown(ctx)
	clearActiveIfCurrent(k)
	return nil
}

// Get resolves a plugin's API as the requested type T, adapted from the
// teacher's service_registry.go Resolve[T] pattern.
func Get[T any](k *Kernel, pluginID string) (T, error) {
	var zero T
	if k == nil {
		return zero, kernelerrors.NewUnknownPlugin(pluginID)
	}
	raw, ok := k.Get(pluginID)
	if !ok {
		return zero, kernelerrors.NewUnknownPlugin(pluginID)
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, kernelerrors.NewInvalidDescriptor("plugin " + pluginID + " API does not implement the requested type")
	}
	return typed, nil
}

// MustGet panics if Get fails. Intended for wiring code at startup where
// a missing plugin is a programming error, not a runtime condition.
func MustGet[T any](k *Kernel, pluginID string) T {
	v, err := Get[T](k, pluginID)
	if err != nil {
		panic(err)
	}
	return v
}
