package proxy

// BeforeFunc may inspect/mutate the call via ctx before it executes.
type BeforeFunc func(ctx *Context) error

// AroundFunc wraps the underlying call entirely; next invokes it (or the
// next around, in a single-around model there is exactly one) with the
// effective arguments.
type AroundFunc func(ctx *Context, next func() (any, error)) (any, error)

// AfterFunc threads the result through, optionally replacing it.
type AfterFunc func(ctx *Context, result any) (any, error)

// OnErrorFunc may recover from an error and supply a replacement result.
type OnErrorFunc func(ctx *Context, err error) (any, error)

// Config is a single proxy registration's interceptor bundle.
type Config struct {
	Include []string
	Exclude []string

	Before  []BeforeFunc
	Around  []AroundFunc
	After   []AfterFunc
	OnError []OnErrorFunc

	Priority  int
	Condition func(*Context) bool
	Group     string

	// UseRegex selects regular-expression matching for Include/Exclude
	// instead of the default glob semantics.
	UseRegex bool
}

// Factory resolves a Config lazily, once per matching call, so that
// per-invocation data may be injected (spec.md §4.4 "Compilation").
type Factory func(ctx *Context) Config

// Registration pairs a Config (or Factory) with the plugin id it targets
// and the plugin that declared it, after target expansion.
type Registration struct {
	PluginID       string
	SourcePluginID string
	Config         Config
	Factory        Factory

	// FullRegistry marks a registration whose declared target was '**':
	// its ctx.Plugins should see every registered plugin rather than
	// only the source plugin's own dependencies (spec.md §4.4).
	FullRegistry bool

	// Plugins is the set of plugins visible to this registration's
	// interceptors: the source plugin's own dependency handles for a
	// concrete/'*'/'self' target, or the full registry when
	// FullRegistry is set. Resolved by the caller before Compile, since
	// it depends on load-order state Compile itself has no access to.
	Plugins map[string]PluginHandle

	order int
}

func (r Registration) resolve(ctx *Context) Config {
	if r.Factory != nil {
		return r.Factory(ctx)
	}
	return r.Config
}
