// Package lifecycle implements the init/shutdown sequencing of spec.md
// §4.6, directly adapted from the teacher's runtime.Runtime.Bootstrap/
// Shutdown: dependency resolution, then a strictly sequential walk in
// resolver order building each plugin's API, then reverse-order shutdown.
package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/zernjs/kernel/dependency"
	"github.com/zernjs/kernel/kernelerrors"
	"github.com/zernjs/kernel/logging"
	"github.com/zernjs/kernel/plugin"
	"github.com/zernjs/kernel/store"

	"go.uber.org/zap"
)

// Config controls resolver and timeout behavior, per spec.md §6 "Kernel
// configuration".
type Config struct {
	StrictVersioning      bool
	CircularDependencies  bool
	ExtensionsEnabled     bool
	InitializationTimeout time.Duration
	KernelConfig          map[string]any
	Logger                logging.Logger
}

// Manager sequences plugin initialization and shutdown.
type Manager struct {
	cfg Config
	log logging.Logger

	mu          sync.RWMutex
	descriptors map[string]*plugin.Descriptor
	order       []string

	states  map[string]plugin.State
	apis    map[string]any
	stores  map[string]*store.Store
	errs    map[string]error
	warnings []dependency.Warning
}

// New creates a Manager. cfg's bool fields are taken as-is: the default-
// to-true behavior for StrictVersioning/ExtensionsEnabled lives one layer
// up, in kernel.Options/DefaultOptions, so an explicit false reaches here
// and is honored rather than silently promoted back to true.
func New(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = logging.Global()
	}
	return &Manager{
		cfg:         cfg,
		log:         cfg.Logger,
		descriptors: make(map[string]*plugin.Descriptor),
		states:      make(map[string]plugin.State),
		apis:        make(map[string]any),
		stores:      make(map[string]*store.Store),
		errs:        make(map[string]error),
	}
}

// Register adds a plugin descriptor. Must be called before Init.
func (m *Manager) Register(d *plugin.Descriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.descriptors[d.ID()]; exists {
		return kernelerrors.NewDuplicateRegistration(d.ID())
	}
	m.descriptors[d.ID()] = d
	m.states[d.ID()] = plugin.StateUnloaded
	m.log.Info("plugin registered", zap.String("id", d.ID()), zap.String("version", d.Version))
	return nil
}

// State returns a plugin's current lifecycle state.
func (m *Manager) State(id string) (plugin.State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[id]
	return s, ok
}

// API returns a loaded plugin's currentApi.
func (m *Manager) API(id string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.apis[id]
	return a, ok
}

// Order returns the resolver order used by the last Init call.
func (m *Manager) Order() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// Warnings returns every non-fatal resolution warning from the last Init.
func (m *Manager) Warnings() []dependency.Warning {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]dependency.Warning(nil), m.warnings...)
}

func allIDs(descs map[string]*plugin.Descriptor) []string {
	ids := make([]string, 0, len(descs))
	for id := range descs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Init runs the full lifecycle sequence of spec.md §4.6:
//  1. resolve dependency order,
//  2. expand and register every descriptor's proxies,
//  3. walk the order building each plugin's API (onInit, setup, extend,
//     proxy-compile, onReady),
//  4. on any failure, mark the plugin ERROR, invoke its onError hook, and
//     abort with a KernelInitializationError.
func (m *Manager) Init(parent context.Context) error {
	m.mu.Lock()
	descs := make(map[string]*plugin.Descriptor, len(m.descriptors))
	for k, v := range m.descriptors {
		descs[k] = v
	}
	m.mu.Unlock()

	ctx := parent
	var cancel context.CancelFunc
	if m.cfg.InitializationTimeout > 0 {
		ctx, cancel = context.WithTimeout(parent, m.cfg.InitializationTimeout)
		defer cancel()
	}

	order, warnings, err := m.resolve(descs)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.order = order
	m.warnings = warnings
	m.mu.Unlock()

	registrations, regIDs := m.expandProxies(descs, order)
	extensionsByTarget := m.expandExtensions(descs, order)

	for _, id := range order {
		d := descs[id]
		if err := ctx.Err(); err != nil {
			m.runOnError(d, kernelerrors.NewInitializationTimeout(id))
			return &kernelerrors.KernelInitializationError{PluginID: id, Cause: err}
		}

		if ierr := m.loadOne(ctx, d, descs, registrations, extensionsByTarget[id], regIDs); ierr != nil {
			m.runOnError(d, ierr)
			return &kernelerrors.KernelInitializationError{PluginID: id, Cause: ierr}
		}
		if err := ctx.Err(); err != nil {
			m.runOnError(d, kernelerrors.NewInitializationTimeout(id))
			return &kernelerrors.KernelInitializationError{PluginID: id, Cause: err}
		}
	}

	m.log.Info("lifecycle init completed", zap.Strings("order", order))
	return nil
}

func (m *Manager) resolve(descs map[string]*plugin.Descriptor) ([]string, []dependency.Warning, error) {
	g := dependency.NewGraph()
	for id, d := range descs {
		g.AddNode(id, d.Version)
	}
	for id, d := range descs {
		for _, dep := range d.Dependencies {
			g.AddEdge(id, dep.Target, dep.VersionRange, dep.Optional)
		}
	}
	order, warnings, resErr := dependency.Resolve(g, dependency.Options{
		StrictVersioning:     m.cfg.StrictVersioning,
		CircularDependencies: m.cfg.CircularDependencies,
	})
	if resErr != nil {
		return nil, warnings, translateResolutionError(resErr)
	}
	return order, warnings, nil
}

func translateResolutionError(resErr *dependency.ResolutionError) error {
	p := resErr.Problems[0]
	switch p.Kind {
	case dependency.ProblemMissing:
		return kernelerrors.NewMissingDependency(p.PluginID, p.DependencyID)
	case dependency.ProblemVersionConflict:
		return kernelerrors.NewVersionConflict(p.PluginID, p.DependencyID, p.Required, p.Found)
	case dependency.ProblemCyclic:
		return kernelerrors.NewCircularDependency(p.Cycle)
	default:
		return fmt.Errorf("dependency resolution failed: %s", resErr.Error())
	}
}

func (m *Manager) fail(id string, err error) {
	m.mu.Lock()
	m.states[id] = plugin.StateError
	m.errs[id] = err
	m.mu.Unlock()
}

func (m *Manager) runOnError(d *plugin.Descriptor, cause error) {
	m.mu.Lock()
	m.states[d.ID()] = plugin.StateError
	m.errs[d.ID()] = cause
	st := m.stores[d.ID()]
	m.mu.Unlock()

	if d.Hooks.OnError == nil {
		return
	}
	ctx := plugin.NewContext(d.ID(), m.cfg.KernelConfig, st, nil)
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("onError hook panicked", zap.String("plugin", d.ID()), zap.Any("panic", r))
		}
	}()
	if herr := d.Hooks.OnError(ctx, cause); herr != nil {
		m.log.Error("onError hook failed", zap.String("plugin", d.ID()), zap.Error(herr))
	}
}

// Shutdown walks the init order in reverse, invoking onShutdown hooks.
// Exceptions are logged and do not stop the walk (spec.md §4.6).
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.RLock()
	order := append([]string(nil), m.order...)
	m.mu.RUnlock()

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		m.mu.RLock()
		d := m.descriptors[id]
		state := m.states[id]
		st := m.stores[id]
		m.mu.RUnlock()

		if state != plugin.StateLoaded || d.Hooks.OnShutdown == nil {
			continue
		}
		m.invokeShutdown(d, st)
	}

	m.mu.Lock()
	for id := range m.states {
		if m.states[id] == plugin.StateLoaded {
			m.states[id] = plugin.StateDestroyed
		}
	}
	m.mu.Unlock()

	m.log.Info("lifecycle shutdown completed")
}

func (m *Manager) invokeShutdown(d *plugin.Descriptor, st *store.Store) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("onShutdown hook panicked", zap.String("plugin", d.ID()), zap.Any("panic", r))
		}
	}()
	ctx := plugin.NewContext(d.ID(), m.cfg.KernelConfig, st, nil)
	if err := d.Hooks.OnShutdown(ctx); err != nil {
		m.log.Error("onShutdown hook failed", zap.String("plugin", d.ID()), zap.Error(err))
	}
}
