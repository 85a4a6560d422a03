package plugin

import (
	"github.com/zernjs/kernel/proxy"
	"github.com/zernjs/kernel/store"
)

// Context is the kernelContext of spec.md §4.6 step 2: what setup() and
// every lifecycle hook receives. It is assembled fresh by the lifecycle
// manager for each plugin; nothing here is shared across plugins.
type Context struct {
	ID     ID
	Config map[string]any
	Store  *store.Store

	// API is only populated when invoking onReady, holding the plugin's
	// own currentApi (spec.md §4.6 step 2: "onReady(ctx + {api:
	// currentApi})").
	API any

	deps map[string]proxy.PluginHandle
}

// NewContext builds the context passed to a plugin's setup/hooks.
func NewContext(id ID, config map[string]any, st *store.Store, deps map[string]proxy.PluginHandle) *Context {
	return &Context{ID: id, Config: config, Store: st, deps: deps}
}

// Get resolves a dependency's decorated handle by plugin id, the
// kernelContext.get(name) of spec.md §4.6.
func (c *Context) Get(name string) (proxy.PluginHandle, bool) {
	h, ok := c.deps[name]
	return h, ok
}

// WithAPI returns a copy of c carrying api, used when invoking onReady.
func (c *Context) WithAPI(api any) *Context {
	cp := *c
	cp.API = api
	return &cp
}
