package kernel

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zernjs/kernel/config"
	"github.com/zernjs/kernel/lifecycle"
	"github.com/zernjs/kernel/plugin"
	"github.com/zernjs/kernel/proxy"
)

// kernelProxyDecl is a proxy registered directly on the builder rather
// than through a plugin descriptor (spec.md §4.4 "kernel-level proxies").
// It is declared by a synthetic, dependency-less source plugin, and its
// target is expanded as given ('**' for the full registry).
type kernelProxyDecl struct {
	target string
	config proxy.Config
}

// Builder assembles a Kernel. Obtain one with CreateKernel.
type Builder struct {
	opts        Options
	descriptors []*plugin.Descriptor
	proxies     []kernelProxyDecl
	buildErr    error
}

// CreateKernel starts a new Builder with DefaultOptions, mirroring the
// teacher's runtime.NewRuntime entry point.
func CreateKernel() *Builder {
	return &Builder{opts: DefaultOptions()}
}

// Use registers a plugin descriptor to be loaded on Build/Start.
func (b *Builder) Use(d *plugin.Descriptor) *Builder {
	if d == nil {
		b.buildErr = fmt.Errorf("kernel: Use called with a nil descriptor")
		return b
	}
	b.descriptors = append(b.descriptors, d)
	return b
}

// WithConfig replaces the builder's Options wholesale. Start from
// DefaultOptions() and override the fields you need.
func (b *Builder) WithConfig(o Options) *Builder {
	b.opts = o
	return b
}

// WithConfigFile loads kernel Options through the teacher's viper-backed
// config.Config (config.NewConfig + Config.BindWithDefaults), keyed off of path's
// directory, base name and extension. Fields absent from the file keep
// whatever the builder already had via BindWithDefaults.
func (b *Builder) WithConfigFile(path string) *Builder {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	cfg, err := config.NewConfig(config.ConfigOptions{
		BasePath: filepath.Dir(path),
		FileName: base,
		FileType: ext,
	})
	if err != nil {
		b.buildErr = fmt.Errorf("kernel: loading config file %q: %w", path, err)
		return b
	}

	merged := b.opts
	if err := cfg.BindWithDefaults(&merged); err != nil {
		b.buildErr = fmt.Errorf("kernel: binding config file %q: %w", path, err)
		return b
	}
	b.opts = merged
	return b
}

// Proxy registers a kernel-level interceptor. target is expanded as given:
// '**' covers the full plugin registry, a concrete id covers that plugin
// only.
func (b *Builder) Proxy(target string, cfg proxy.Config) *Builder {
	b.proxies = append(b.proxies, kernelProxyDecl{target: target, config: cfg})
	return b
}

// Build validates the accumulated descriptors and options and returns a
// Kernel ready for Start. It does not run any plugin's setup.
func (b *Builder) Build() (*Kernel, error) {
	if b.buildErr != nil {
		return nil, b.buildErr
	}

	manager := lifecycle.New(lifecycle.Config{
		StrictVersioning:      b.opts.StrictVersioning,
		CircularDependencies:  b.opts.CircularDependencies,
		ExtensionsEnabled:     b.opts.ExtensionsEnabled,
		InitializationTimeout: b.opts.InitializationTimeout,
	})

	for _, d := range b.descriptors {
		if err := manager.Register(d); err != nil {
			return nil, err
		}
	}

	if len(b.proxies) > 0 {
		kb := plugin.New("__kernel__", "0.0.0").
			Setup(func(ctx *plugin.Context) (any, error) { return proxy.API{}, nil })
		for _, p := range b.proxies {
			kb = kb.Proxy(p.target, p.config)
		}
		kd, err := kb.Build()
		if err != nil {
			return nil, fmt.Errorf("kernel: building kernel-level proxy descriptor: %w", err)
		}
		if err := manager.Register(kd); err != nil {
			return nil, err
		}
	}

	k := &Kernel{
		manager: manager,
		opts:    b.opts,
	}
	return k, nil
}
