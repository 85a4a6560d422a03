package lifecycle

import (
	"context"
	"fmt"

	"github.com/zernjs/kernel/kernelerrors"
	"github.com/zernjs/kernel/plugin"
	"github.com/zernjs/kernel/proxy"
	"github.com/zernjs/kernel/store"
)

func depTargets(d *plugin.Descriptor) []string {
	out := make([]string, len(d.Dependencies))
	for i, dep := range d.Dependencies {
		out[i] = dep.Target
	}
	return out
}

// expandProxies resolves every descriptor's proxy targets ('self', '*',
// '**', or a concrete id) into concrete Registrations, in resolver order
// so that priority ties break by declaration order (spec.md §4.4 step 1).
func (m *Manager) expandProxies(descs map[string]*plugin.Descriptor, order []string) ([]proxy.Registration, []string) {
	ids := allIDs(descs)
	var regs []proxy.Registration
	for _, id := range order {
		d := descs[id]
		deps := depTargets(d)
		for _, decl := range d.Proxies {
			targets := proxy.ExpandTarget(decl.Target, id, deps, ids)
			for _, t := range targets {
				regs = append(regs, proxy.Registration{
					PluginID:       t,
					SourcePluginID: id,
					Config:         decl.Config,
					Factory:        decl.Factory,
					FullRegistry:   decl.Target == "**",
				})
			}
		}
	}
	return regs, ids
}

// expandExtensions resolves every descriptor's extension targets into a
// map of plugin id to the extension functions targeting it, in resolver
// order (spec.md §4.3 "in registration order").
func (m *Manager) expandExtensions(descs map[string]*plugin.Descriptor, order []string) map[string][]proxy.ExtensionFunc {
	out := make(map[string][]proxy.ExtensionFunc)
	for _, id := range order {
		d := descs[id]
		for _, decl := range d.Extensions {
			target := decl.Target
			if target == "self" {
				target = id
			}
			out[target] = append(out[target], decl.Fn)
		}
	}
	return out
}

func (m *Manager) setState(id string, s plugin.State) {
	m.mu.Lock()
	m.states[id] = s
	m.mu.Unlock()
}

// buildDepHandles assembles the $store/$meta-decorated handles visible to
// d's setup/hooks: the APIs of its dependencies that have already loaded
// (spec.md §4.6 step 2 "deps map").
func (m *Manager) buildDepHandles(d *plugin.Descriptor) map[string]proxy.PluginHandle {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]proxy.PluginHandle, len(d.Dependencies))
	for _, dep := range d.Dependencies {
		api, ok := m.apis[dep.Target]
		if !ok {
			continue
		}
		apiMap, _ := api.(proxy.API)
		out[dep.Target] = proxy.PluginHandle{
			API:   apiMap,
			Store: m.stores[dep.Target],
			Meta:  m.descriptors[dep.Target].Metadata,
		}
	}
	return out
}

// buildAllHandles exposes every plugin loaded so far, for '**'-scoped
// proxies (spec.md §4.4 "the full registry"). A plugin later in resolver
// order is not yet visible, matching strictly sequential init.
func (m *Manager) buildAllHandles(ids []string) map[string]proxy.PluginHandle {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]proxy.PluginHandle, len(ids))
	for _, id := range ids {
		api, ok := m.apis[id]
		if !ok {
			continue
		}
		apiMap, _ := api.(proxy.API)
		out[id] = proxy.PluginHandle{
			API:   apiMap,
			Store: m.stores[id],
			Meta:  m.descriptors[id].Metadata,
		}
	}
	return out
}

func toAPI(v any) (proxy.API, bool) {
	if v == nil {
		return proxy.API{}, true
	}
	api, ok := v.(proxy.API)
	if ok {
		return api, true
	}
	m, ok := v.(map[string]any)
	if ok {
		return m, true
	}
	return nil, false
}

func safeHook(h plugin.Hook, ctx *plugin.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panicked: %v", r)
		}
	}()
	return h(ctx)
}

// resolveRegistrationPlugins fills in each registration's Plugins field:
// the full registry snapshot for a '**' target, otherwise the source
// plugin's own dependency handles (spec.md §4.4 "plugins carries... the
// source plugin's dependencies for '*'/concrete targets; the full
// registry for '**'").
func (m *Manager) resolveRegistrationPlugins(descs map[string]*plugin.Descriptor, registrations []proxy.Registration, allHandles map[string]proxy.PluginHandle) []proxy.Registration {
	out := make([]proxy.Registration, len(registrations))
	for i, r := range registrations {
		if r.FullRegistry {
			r.Plugins = allHandles
		} else if src, ok := descs[r.SourcePluginID]; ok {
			r.Plugins = m.buildDepHandles(src)
		}
		out[i] = r
	}
	return out
}

// loadOne runs the per-plugin sequence of spec.md §4.6 step 2: onInit,
// setup, extension merge, proxy compile, onReady.
func (m *Manager) loadOne(_ context.Context, d *plugin.Descriptor, descs map[string]*plugin.Descriptor, registrations []proxy.Registration, extensions []proxy.ExtensionFunc, registryIDs []string) error {
	id := d.ID()
	m.setState(id, plugin.StateLoading)

	st := store.New(d.StoreInitial, d.StoreOptions...)
	m.mu.Lock()
	m.stores[id] = st
	m.mu.Unlock()

	deps := m.buildDepHandles(d)
	pctx := plugin.NewContext(id, m.cfg.KernelConfig, st, deps)

	if d.Hooks.OnInit != nil {
		if err := safeHook(d.Hooks.OnInit, pctx); err != nil {
			return fmt.Errorf("onInit failed: %w", err)
		}
	}

	rawAPI, err := d.Setup(pctx)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	originalAPI, ok := toAPI(rawAPI)
	if !ok {
		return kernelerrors.NewInvalidDescriptor(fmt.Sprintf("plugin %q setup must return an object-shaped API", id))
	}

	extendedAPI := originalAPI
	if m.cfg.ExtensionsEnabled && len(extensions) > 0 {
		merged, err := proxy.MergeExtensions(originalAPI, extensions)
		if err != nil {
			return fmt.Errorf("extension merge failed: %w", err)
		}
		extendedAPI = merged
	}

	compiler := proxy.NewCompiler()
	allHandles := m.buildAllHandles(registryIDs)
	resolvedRegs := m.resolveRegistrationPlugins(descs, registrations, allHandles)
	compiledAPI, err := compiler.Compile(id, extendedAPI, resolvedRegs)
	if err != nil {
		return fmt.Errorf("proxy compile failed: %w", err)
	}

	m.mu.Lock()
	m.apis[id] = compiledAPI
	m.states[id] = plugin.StateLoaded
	m.mu.Unlock()

	if d.Hooks.OnReady != nil {
		readyCtx := pctx.WithAPI(compiledAPI)
		if err := safeHook(d.Hooks.OnReady, readyCtx); err != nil {
			return fmt.Errorf("onReady failed: %w", err)
		}
	}
	return nil
}
