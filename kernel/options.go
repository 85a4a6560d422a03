package kernel

import "time"

// Options are the kernel configuration knobs of spec.md §6 "Kernel
// configuration". WithConfig replaces the builder's current Options
// wholesale (Go has no ergonomic partial-struct merge without pointer-
// typed optional fields); callers should start from DefaultOptions and
// mutate the result.
type Options struct {
	AutoGlobal            bool
	StrictVersioning      bool
	CircularDependencies  bool
	InitializationTimeout time.Duration
	ExtensionsEnabled     bool
	LogLevel              string
}

// DefaultOptions mirrors spec.md §6's stated defaults: autoGlobal and
// strictVersioning true, circularDependencies false, extensions enabled.
func DefaultOptions() Options {
	return Options{
		AutoGlobal:        true,
		StrictVersioning:  true,
		ExtensionsEnabled: true,
		LogLevel:          "info",
	}
}
