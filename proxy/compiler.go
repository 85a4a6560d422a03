package proxy

import (
	"regexp"
	"sort"

	"github.com/gobwas/glob"

	"github.com/zernjs/kernel/kernelerrors"
)

// Method is the uniform shape every proxyable API method takes: Go has no
// fully dynamic call signature, so a plugin API method is represented as
// a variadic function returning a single value and an error.
type Method func(args ...any) (any, error)

// DefaultMaxPatternLength is the cap spec.md §4.4 applies to both glob and
// regex include/exclude patterns before any match is attempted.
const DefaultMaxPatternLength = 200

// Compiler compiles proxy registrations into wrapped methods.
type Compiler struct {
	MaxPatternLength int
}

// NewCompiler returns a Compiler using DefaultMaxPatternLength.
func NewCompiler() *Compiler {
	return &Compiler{MaxPatternLength: DefaultMaxPatternLength}
}

func (c *Compiler) maxLen() int {
	if c.MaxPatternLength > 0 {
		return c.MaxPatternLength
	}
	return DefaultMaxPatternLength
}

func (c *Compiler) matches(pattern, method string, useRegex bool) (bool, error) {
	if len(pattern) > c.maxLen() {
		return false, kernelerrors.NewPatternTooLong(pattern, c.maxLen())
	}
	if useRegex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, err
		}
		return re.MatchString(method), nil
	}
	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return false, err
	}
	return g.Match(method), nil
}

func (c *Compiler) selected(method string, cfg Config) (bool, error) {
	included := len(cfg.Include) == 0
	for _, p := range cfg.Include {
		ok, err := c.matches(p, method, cfg.UseRegex)
		if err != nil {
			return false, err
		}
		if ok {
			included = true
			break
		}
	}
	if !included {
		return false, nil
	}
	for _, p := range cfg.Exclude {
		ok, err := c.matches(p, method, cfg.UseRegex)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}

// methodProxy is the compiled wrapper list for one (pluginID, method) pair.
type methodProxy struct {
	method string
	regs   []Registration
	orig   Method
}

// CompiledAPI is a plugin's API after proxy wrapping: method names that
// matched at least one registration are replaced with wrapped Methods,
// everything else passes through untouched.
type CompiledAPI = API

// Compile enumerates api's function-valued entries, selects the ones
// matched by each registration's include/exclude patterns, and builds
// the wrapper list described by spec.md §4.4 "Compilation": sorted by
// priority descending, then registration order.
func (c *Compiler) Compile(pluginID string, api API, registrations []Registration) (CompiledAPI, error) {
	out := make(CompiledAPI, len(api))
	for k, v := range api {
		out[k] = v
	}

	ordered := make([]Registration, len(registrations))
	copy(ordered, registrations)
	for i := range ordered {
		ordered[i].order = i
	}

	for name, value := range api {
		fn, ok := value.(Method)
		if !ok {
			continue
		}
		var applicable []Registration
		for _, r := range ordered {
			if r.PluginID != pluginID {
				continue
			}
			cfg := r.Config
			ok, err := c.selected(name, cfg)
			if err != nil {
				return nil, err
			}
			if ok {
				applicable = append(applicable, r)
			}
		}
		if len(applicable) == 0 {
			continue
		}
		sort.SliceStable(applicable, func(i, j int) bool {
			pi, pj := configPriority(applicable[i]), configPriority(applicable[j])
			if pi != pj {
				return pi > pj
			}
			return applicable[i].order < applicable[j].order
		})
		mp := &methodProxy{method: name, regs: applicable, orig: fn}
		out[name] = c.wrap(pluginID, mp)
	}
	return out, nil
}

func configPriority(r Registration) int {
	if r.Factory != nil {
		return 0
	}
	return r.Config.Priority
}

func (c *Compiler) wrap(pluginID string, mp *methodProxy) Method {
	return func(args ...any) (any, error) {
		ctx := NewContext(pluginID, mp.method, args, nil, nil)
		return Invoke(ctx, mp)
	}
}

// boundHandler pairs an interceptor with the Plugins visibility of the
// registration that declared it, so ctx.Plugins reflects that
// registration's source plugin (spec.md §4.4) even when several
// registrations with different sources apply to the same call.
type boundHandler[F any] struct {
	fn      F
	plugins map[string]PluginHandle
}

// Invoke runs the seven-step interceptor pipeline of spec.md §4.4 against
// a precompiled methodProxy for a single call.
func Invoke(ctx *Context, mp *methodProxy) (any, error) {
	regs := make([]Registration, len(mp.regs))
	copy(regs, mp.regs)

	var befores []boundHandler[BeforeFunc]
	var arounds []boundHandler[AroundFunc]
	var afters []boundHandler[AfterFunc]
	var onErrors []boundHandler[OnErrorFunc]

	for _, r := range regs {
		cfg := r.resolve(ctx)
		if cfg.Condition != nil && !cfg.Condition(ctx) {
			continue
		}
		for _, b := range cfg.Before {
			befores = append(befores, boundHandler[BeforeFunc]{fn: b, plugins: r.Plugins})
		}
		for _, a := range cfg.Around {
			arounds = append(arounds, boundHandler[AroundFunc]{fn: a, plugins: r.Plugins})
		}
		for _, a := range cfg.After {
			afters = append(afters, boundHandler[AfterFunc]{fn: a, plugins: r.Plugins})
		}
		for _, e := range cfg.OnError {
			onErrors = append(onErrors, boundHandler[OnErrorFunc]{fn: e, plugins: r.Plugins})
		}
	}

	for _, b := range befores {
		ctx.Plugins = b.plugins
		if err := b.fn(ctx); err != nil {
			return runOnError(ctx, onErrors, err)
		}
		if _, skipped := ctx.skipped(); skipped {
			break
		}
	}

	result, resultErr := runCore(ctx, arounds, mp.orig)
	if resultErr != nil {
		result, resultErr = runOnError(ctx, onErrors, resultErr)
		if resultErr != nil {
			return nil, resultErr
		}
	}

	for _, a := range afters {
		ctx.Plugins = a.plugins
		var err error
		result, err = a.fn(ctx, result)
		if err != nil {
			return runOnError(ctx, onErrors, err)
		}
	}
	return result, nil
}

func runCore(ctx *Context, arounds []boundHandler[AroundFunc], orig Method) (any, error) {
	if override, skipped := ctx.skipped(); skipped {
		return override, nil
	}
	next := func() (any, error) { return orig(ctx.EffectiveArgs()...) }
	if len(arounds) > 0 {
		ctx.Plugins = arounds[0].plugins
		return arounds[0].fn(ctx, next)
	}
	return next()
}

func runOnError(ctx *Context, handlers []boundHandler[OnErrorFunc], err error) (any, error) {
	for _, h := range handlers {
		ctx.Plugins = h.plugins
		result, herr := h.fn(ctx, err)
		if herr == nil {
			return result, nil
		}
		err = herr
	}
	return nil, err
}
