package registry

import "sync/atomic"

// Handle publishes the current registry to concurrent readers. Hot reload
// builds a complete replacement off to the side and swaps it in with one
// atomic store, so a reader never observes a half-updated mapping; the old
// registry stays valid for readers still holding it.
type Handle struct {
	current atomic.Pointer[Registry]
}

// NewHandle creates a handle publishing the given registry.
func NewHandle(reg *Registry) *Handle {
	h := &Handle{}
	h.current.Store(reg)
	return h
}

// Current returns the registry snapshot at the time of the call.
func (h *Handle) Current() *Registry {
	return h.current.Load()
}

// Swap atomically replaces the published registry.
func (h *Handle) Swap(reg *Registry) {
	h.current.Store(reg)
}
