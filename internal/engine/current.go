package engine

import "sync/atomic"

// CurrentContext resolves the CURRENT_CONTEXT thread-local design note
// for Go: Go has no portable thread-local storage and goroutines aren't
// OS threads, so a true per-OS-thread implicit binding isn't
// expressible. Instead, CurrentContext is a single atomic binding
// shared process-wide; callers that rely on the implicit-current-
// context entry points must serialize their use of it (one logical
// renderer goroutine calling SetContext before using the implicit
// entry points), since a second goroutine calling Bind overwrites the
// first's binding rather than getting one of its own.
type CurrentContext[C any] struct {
	ptr atomic.Pointer[C]
}

// Bind sets the calling binding's current context.
func (c *CurrentContext[C]) Bind(ctx *C) { c.ptr.Store(ctx) }

// Current returns the bound context, or nil if none has been bound.
func (c *CurrentContext[C]) Current() *C { return c.ptr.Load() }

// Unbind clears the binding.
func (c *CurrentContext[C]) Unbind() { c.ptr.Store(nil) }
