package kernel

import "sync/atomic"

// active holds the process-wide Kernel published by a Start call whose
// Options.AutoGlobal is true. Spec.md §6 calls this "the one sanctioned
// global": everything else in this module is instance-based.
var active atomic.Pointer[Kernel]

// Active returns the current global Kernel, if one has been published.
func Active() (*Kernel, bool) {
	k := active.Load()
	if k == nil {
		return nil, false
	}
	return k, true
}

func setActive(k *Kernel) {
	active.Store(k)
}

// clearActiveIfCurrent unpublishes k if it is still the active global
// instance, so a shut-down Kernel does not linger as Active().
func clearActiveIfCurrent(k *Kernel) {
	active.CompareAndSwap(k, nil)
}
