// Package proxy implements the extension merger and proxy compiler of
// spec.md §4.3/§4.4: shallow API merging and a layered before/around/
// after/onError interceptor pipeline. Grounded on the teacher's
// middleware/gateway.go (priority-ordered middleware wrapping a handler),
// generalized from HTTP requests to arbitrary method calls. Glob matching
// uses github.com/gobwas/glob (pulled in from the open-policy-agent-opa
// example's dependency set); pattern length is capped before any match is
// attempted to defuse pathological regex cost.
package proxy

import "github.com/zernjs/kernel/store"

// API is the shape of a plugin's public surface: a map from method name to
// function value, plus whatever data fields a plugin chooses to expose.
// Extensions and proxies operate on this shape.
type API = map[string]any

// PluginHandle is how a dependency (or, under '**', any registered
// plugin) is exposed inside a Context: its merged API plus the reactive
// metadata spec.md §4.4 calls '$store'/'$meta'.
type PluginHandle struct {
	API   API
	Store *store.Store
	Meta  map[string]any
}

// Context is the shared object threaded through a single invocation of a
// wrapped method (spec.md §4.4 step 1). A fresh Context is built for
// every call; nothing is shared across concurrent invocations.
type Context struct {
	PluginName string
	Method     string
	Args       []any
	Plugins    map[string]PluginHandle
	Store      *store.Store
	Data       map[string]any

	skip           bool
	overrideResult any
	modifiedArgs   []any
	haveModified   bool
}

// NewContext builds the per-call context for pluginName.method(args...).
func NewContext(pluginName, method string, args []any, plugins map[string]PluginHandle, st *store.Store) *Context {
	return &Context{
		PluginName: pluginName,
		Method:     method,
		Args:       args,
		Plugins:    plugins,
		Store:      st,
		Data:       make(map[string]any),
	}
}

// Skip aborts remaining 'before' handlers and causes the call to proceed
// straight to 'after' using the override result (nil unless Replace set one).
func (c *Context) Skip() { c.skip = true }

// Replace is Skip plus a value to use as the call's result.
func (c *Context) Replace(value any) {
	c.skip = true
	c.overrideResult = value
}

// ModifyArgs overrides the arguments passed to the underlying method or
// 'around' handler (spec.md §4.4 step 4: "effective arguments become
// ctx._modifiedArgs ?? ctx.args").
func (c *Context) ModifyArgs(args ...any) {
	c.modifiedArgs = args
	c.haveModified = true
}

// EffectiveArgs returns the arguments that should reach the underlying
// call: the last ModifyArgs value if any, else the original Args.
func (c *Context) EffectiveArgs() []any {
	if c.haveModified {
		return c.modifiedArgs
	}
	return c.Args
}

func (c *Context) skipped() (any, bool) { return c.overrideResult, c.skip }
