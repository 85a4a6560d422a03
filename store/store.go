// Package store implements the per-plugin reactive store of spec.md §4.5:
// keyed state with watchers, computed values, batches, transactions and
// bounded undo/redo history. Grounded on the teacher's cache/strategy.go
// (a keyed mapping governed by policy knobs) and metrics/collector.go (the
// optional counter backend); transaction snapshots reuse the kernel's
// json package (jsoniter) for structured cloning.
package store

import (
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/zernjs/kernel/kernelerrors"
	"github.com/zernjs/kernel/logging"
	"github.com/zernjs/kernel/metrics"
)

// CloneStrategy selects how a transaction snapshots pre-state.
type CloneStrategy string

const (
	// CloneStructured round-trips values through JSON to obtain an
	// independent copy. Values must be JSON-representable.
	CloneStructured CloneStrategy = "structured"
	// CloneManual requires stored values to implement Cloner themselves.
	CloneManual CloneStrategy = "manual"
)

// Cloner is implemented by values that know how to copy themselves, used
// when CloneStrategy is CloneManual.
type Cloner interface {
	Clone() any
}

// Change describes a single accepted write.
type Change struct {
	Key       string
	Old       any
	New       any
	Timestamp time.Time
}

// WatchFunc observes a single change.
type WatchFunc func(Change)

// BatchWatchFunc observes a group of changes delivered together.
type BatchWatchFunc func([]Change)

// Unsubscribe detaches a previously registered watcher.
type Unsubscribe func()

// Options configures a Store, per spec.md §6 "Store options".
type Options struct {
	History                bool
	MaxHistory             int
	Deep                   bool
	MaxWatchers            int
	MaxWatchersPerKey      int
	EnableMetrics          bool
	CloneStrategy          CloneStrategy
	WarnOnHighWatcherCount bool
	WarnThreshold          int
	// MaxNestedNotifyDepth guards against observer cycles (spec.md §5
	// "Shared-resource policy"). Zero means the default of 100.
	MaxNestedNotifyDepth int
	Metrics              *metrics.Collector
}

// Option mutates Options during New.
type Option func(*Options)

func WithHistory(enabled bool) Option   { return func(o *Options) { o.History = enabled } }
func WithMaxHistory(n int) Option       { return func(o *Options) { o.MaxHistory = n } }
func WithDeep(enabled bool) Option      { return func(o *Options) { o.Deep = enabled } }
func WithMaxWatchers(n int) Option      { return func(o *Options) { o.MaxWatchers = n } }
func WithMaxWatchersPerKey(n int) Option {
	return func(o *Options) { o.MaxWatchersPerKey = n }
}
func WithMetrics(c *metrics.Collector) Option {
	return func(o *Options) { o.EnableMetrics = true; o.Metrics = c }
}
func WithCloneStrategy(s CloneStrategy) Option {
	return func(o *Options) { o.CloneStrategy = s }
}
func WithWarnThreshold(n int) Option {
	return func(o *Options) { o.WarnOnHighWatcherCount = true; o.WarnThreshold = n }
}

func defaultOptions() Options {
	return Options{
		History:              true,
		MaxHistory:           50,
		Deep:                 false,
		MaxWatchers:          1000,
		MaxWatchersPerKey:    100,
		CloneStrategy:        CloneStructured,
		WarnThreshold:        50,
		MaxNestedNotifyDepth: 100,
	}
}

type watcher struct {
	id int
	fn WatchFunc
}

type batchWatcher struct {
	id int
	fn BatchWatchFunc
}

// Store is a keyed reactive state container owned by a single plugin.
type Store struct {
	mu   sync.Mutex
	data map[string]any
	opts Options

	initial map[string]any

	history []Change
	redo    []Change

	keyWatchers map[string][]watcher
	allWatchers []watcher
	batchWatch  []batchWatcher
	nextWatchID int

	inBatch      int
	batchChanges []Change

	txnDepth int
	notifyDepth int

	computeds []*Computed
}

// New creates a Store seeded with initial, applying any Options.
func New(initial map[string]any, opts ...Option) *Store {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	data := make(map[string]any, len(initial))
	snapshot := make(map[string]any, len(initial))
	for k, v := range initial {
		data[k] = v
		snapshot[k] = v
	}
	return &Store{
		data:        data,
		initial:     snapshot,
		opts:        o,
		keyWatchers: make(map[string][]watcher),
	}
}

// Get returns the current value for key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Snapshot returns a shallow copy of every key/value pair currently held.
func (s *Store) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

func (s *Store) equal(a, b any) bool {
	if s.opts.Deep {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

// Set writes value at key if it differs from the current value, per
// spec.md §4.5 "Property access".
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	old, existed := s.data[key]
	if existed && s.equal(old, value) {
		s.mu.Unlock()
		return nil
	}
	s.data[key] = value
	ch := Change{Key: key, Old: old, New: value, Timestamp: time.Now()}

	if s.inBatch > 0 {
		s.batchChanges = append(s.batchChanges, ch)
		s.pushHistoryLocked(ch)
		s.mu.Unlock()
		s.invalidateComputeds(key)
		return nil
	}

	s.pushHistoryLocked(ch)
	s.mu.Unlock()

	s.invalidateComputeds(key)
	s.notify([]Change{ch})
	return nil
}

func (s *Store) pushHistoryLocked(ch Change) {
	if !s.opts.History {
		return
	}
	s.history = append(s.history, ch)
	if len(s.history) > s.opts.MaxHistory {
		s.history = s.history[len(s.history)-s.opts.MaxHistory:]
	}
	s.redo = nil
}

// Watch registers fn to observe every change to key.
func (s *Store) Watch(key string, fn WatchFunc) (Unsubscribe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkWatcherLimitLocked(key); err != nil {
		return nil, err
	}
	id := s.nextWatchID
	s.nextWatchID++
	s.keyWatchers[key] = append(s.keyWatchers[key], watcher{id: id, fn: fn})
	s.warnIfHighLocked(key)
	return func() { s.unwatch(key, id) }, nil
}

// WatchAll registers fn to observe every change to any key.
func (s *Store) WatchAll(fn WatchFunc) (Unsubscribe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkWatcherLimitLocked("*"); err != nil {
		return nil, err
	}
	id := s.nextWatchID
	s.nextWatchID++
	s.allWatchers = append(s.allWatchers, watcher{id: id, fn: fn})
	return func() { s.unwatchAll(id) }, nil
}

// WatchBatch registers fn to receive every batch/transaction as a group.
func (s *Store) WatchBatch(fn BatchWatchFunc) (Unsubscribe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkWatcherLimitLocked("batch"); err != nil {
		return nil, err
	}
	id := s.nextWatchID
	s.nextWatchID++
	s.batchWatch = append(s.batchWatch, batchWatcher{id: id, fn: fn})
	return func() { s.unwatchBatch(id) }, nil
}

func (s *Store) totalWatchersLocked() int {
	n := len(s.allWatchers) + len(s.batchWatch)
	for _, ws := range s.keyWatchers {
		n += len(ws)
	}
	return n
}

func (s *Store) checkWatcherLimitLocked(key string) error {
	if s.opts.MaxWatchers > 0 && s.totalWatchersLocked() >= s.opts.MaxWatchers {
		return kernelerrors.NewWatcherLimit(key, s.opts.MaxWatchers)
	}
	if key != "*" && key != "batch" && s.opts.MaxWatchersPerKey > 0 &&
		len(s.keyWatchers[key]) >= s.opts.MaxWatchersPerKey {
		return kernelerrors.NewWatcherLimit(key, s.opts.MaxWatchersPerKey)
	}
	return nil
}

func (s *Store) warnIfHighLocked(key string) {
	if !s.opts.WarnOnHighWatcherCount {
		return
	}
	if len(s.keyWatchers[key]) > s.opts.WarnThreshold {
		logging.Global().Warnf("store: watcher count for key %q exceeds threshold %d", key, s.opts.WarnThreshold)
	}
}

func (s *Store) unwatch(key string, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.keyWatchers[key]
	for i, w := range ws {
		if w.id == id {
			s.keyWatchers[key] = append(ws[:i], ws[i+1:]...)
			return
		}
	}
}

func (s *Store) unwatchAll(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.allWatchers {
		if w.id == id {
			s.allWatchers = append(s.allWatchers[:i], s.allWatchers[i+1:]...)
			return
		}
	}
}

func (s *Store) unwatchBatch(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.batchWatch {
		if w.id == id {
			s.batchWatch = append(s.batchWatch[:i], s.batchWatch[i+1:]...)
			return
		}
	}
}

// notify dispatches changes to the appropriate watchers: key/all watchers
// fire once per change, batch watchers receive the whole group in one
// call, per spec.md §4.5 "Notification policy".
func (s *Store) notify(changes []Change) {
	s.mu.Lock()
	s.notifyDepth++
	depth := s.notifyDepth
	if depth > s.guardLimit() {
		s.notifyDepth--
		s.mu.Unlock()
		s.reportError(kernelerrors.NewStoreCycle(s.guardLimit()))
		return
	}
	keyWatchersSnapshot := make(map[string][]watcher, len(s.keyWatchers))
	for k, ws := range s.keyWatchers {
		keyWatchersSnapshot[k] = append([]watcher(nil), ws...)
	}
	allSnapshot := append([]watcher(nil), s.allWatchers...)
	batchSnapshot := append([]batchWatcher(nil), s.batchWatch...)
	s.mu.Unlock()

	for _, ch := range changes {
		for _, w := range keyWatchersSnapshot[ch.Key] {
			s.dispatch(w.fn, ch)
		}
		for _, w := range allSnapshot {
			s.dispatch(w.fn, ch)
		}
	}
	for _, w := range batchSnapshot {
		s.dispatchBatch(w.fn, changes)
	}

	s.mu.Lock()
	s.notifyDepth--
	s.mu.Unlock()
}

func (s *Store) guardLimit() int {
	if s.opts.MaxNestedNotifyDepth > 0 {
		return s.opts.MaxNestedNotifyDepth
	}
	return 100
}

func (s *Store) dispatch(fn WatchFunc, ch Change) {
	defer func() {
		if r := recover(); r != nil {
			s.countError()
			logging.Global().Errorf("store: watcher panicked: %v", r)
		}
	}()
	fn(ch)
}

func (s *Store) dispatchBatch(fn BatchWatchFunc, changes []Change) {
	defer func() {
		if r := recover(); r != nil {
			s.countError()
			logging.Global().Errorf("store: batch watcher panicked: %v", r)
		}
	}()
	fn(changes)
}

func (s *Store) countError() {
	if s.opts.EnableMetrics && s.opts.Metrics != nil {
		s.opts.Metrics.IncCounter("store_watcher_errors", nil)
	}
}

func (s *Store) reportError(err error) {
	logging.Global().WithError(err).Error("store: notification failed")
	if s.opts.EnableMetrics && s.opts.Metrics != nil {
		s.opts.Metrics.IncCounter("store_errors", nil)
	}
}

// Keys returns every key currently set, sorted for deterministic iteration.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
