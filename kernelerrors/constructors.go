package kernelerrors

import "fmt"

// --- (a) Resolution errors ---

func NewMissingDependency(pluginID, dependencyID string) *KernelError {
	return New(CategoryDependency, SeverityCritical, CodeMissingDependency,
		fmt.Sprintf("plugin %q depends on %q which is not registered", pluginID, dependencyID)).
		WithPluginID(pluginID).
		WithContext("dependencyId", dependencyID).
		WithRecoverable(false)
}

func NewVersionConflict(pluginID, dependencyID, required, found string) *KernelError {
	return New(CategoryDependency, SeverityCritical, CodeVersionConflict,
		fmt.Sprintf("%s (required %s, found %s, required by %s)", dependencyID, required, found, pluginID)).
		WithPluginID(pluginID).
		WithContext("dependencyId", dependencyID).
		WithContext("required", required).
		WithContext("found", found).
		WithRecoverable(false)
}

func NewCircularDependency(cycle []string) *KernelError {
	return New(CategoryDependency, SeverityCritical, CodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %v", cycle)).
		WithContext("cycle", cycle).
		WithRecoverable(false)
}

// --- (b) Registration errors ---

func NewDuplicateRegistration(pluginID string) *KernelError {
	return New(CategoryKernel, SeverityHigh, CodeDuplicateRegistration,
		fmt.Sprintf("plugin %q already registered", pluginID)).
		WithPluginID(pluginID).
		WithRecoverable(false)
}

func NewInvalidDescriptor(reason string) *KernelError {
	return New(CategoryValidation, SeverityHigh, CodeInvalidDescriptor, reason).
		WithRecoverable(false)
}

// --- (c) Lifecycle errors ---

func NewLifecycleError(pluginID, phase string, optional bool, cause error) *KernelError {
	return New(CategoryPlugin, SeverityCritical, CodeLifecycleFailed,
		fmt.Sprintf("plugin %q failed during %s", pluginID, phase)).
		WithPluginID(pluginID).
		WithCause(cause).
		WithRecoverable(optional)
}

func NewInitializationTimeout(pluginID string) *KernelError {
	return New(CategoryKernel, SeverityCritical, CodeInitializationTimeout,
		fmt.Sprintf("initialization timed out while loading %q", pluginID)).
		WithPluginID(pluginID).
		WithRecoverable(false)
}

// KernelInitializationError wraps the cause of a fatal bootstrap failure,
// per spec.md §4.6/§7: "the kernel rethrows a wrapping
// KernelInitializationError whose cause is the original."
type KernelInitializationError struct {
	PluginID string
	Cause    error
}

func (e *KernelInitializationError) Error() string {
	if e.PluginID != "" {
		return fmt.Sprintf("kernel initialization failed at plugin %q: %v", e.PluginID, e.Cause)
	}
	return fmt.Sprintf("kernel initialization failed: %v", e.Cause)
}

func (e *KernelInitializationError) Unwrap() error { return e.Cause }

// --- (d) Interception errors ---

func NewInterceptionError(pluginID, method string, cause error) *KernelError {
	return New(CategoryPlugin, SeverityMedium, CodeInterceptionFailed,
		fmt.Sprintf("interceptor chain for %s.%s failed", pluginID, method)).
		WithPluginID(pluginID).
		WithContext("method", method).
		WithCause(cause).
		WithRecoverable(true)
}

// --- (e) Store errors ---

func NewWatcherLimit(key string, limit int) *KernelError {
	return New(CategoryMemory, SeverityMedium, CodeWatcherLimit,
		fmt.Sprintf("watcher limit (%d) exceeded for key %q", limit, key)).
		WithContext("key", key).
		WithContext("limit", limit).
		WithRecoverable(true)
}

func NewStoreCycle(depth int) *KernelError {
	return New(CategoryPerformance, SeverityHigh, CodeStoreCycle,
		fmt.Sprintf("nested store notification depth exceeded %d", depth)).
		WithContext("depth", depth).
		WithRecoverable(true)
}

func NewTransactionFailed(cause error) *KernelError {
	return New(CategoryKernel, SeverityHigh, CodeTransactionFailed,
		"transaction rollback failed").
		WithCause(cause).
		WithRecoverable(false)
}

func NewInvalidKey(key string) *KernelError {
	return New(CategoryValidation, SeverityLow, CodeInvalidKey,
		fmt.Sprintf("invalid store key %q", key)).
		WithContext("key", key).
		WithRecoverable(true)
}

func NewPatternTooLong(pattern string, max int) *KernelError {
	return New(CategoryValidation, SeverityLow, CodePatternTooLong,
		fmt.Sprintf("pattern exceeds maximum length of %d characters", max)).
		WithContext("length", len(pattern)).
		WithRecoverable(true)
}

// --- (f) Usage errors ---

func NewUnknownPlugin(pluginID string) *KernelError {
	return New(CategoryKernel, SeverityMedium, CodeUnknownPlugin,
		fmt.Sprintf("no plugin registered under id %q", pluginID)).
		WithPluginID(pluginID).
		WithRecoverable(true)
}
