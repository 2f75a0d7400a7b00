// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ngfx

import (
	"fmt"

	"github.com/gogpu/ngfx/hal"
	"github.com/gogpu/ngfx/internal/alloc"
	"github.com/gogpu/ngfx/types"
)

// Context wraps a hal.Context with the ID bookkeeping and current-
// context binding spec §6.1's Context group describes.
type Context struct {
	engine *Engine
	halCtx hal.Context
	id     types.ContextID

	// scratch is the per-frame transient-memory arena (spec §4.C2's
	// frame_store): staging payloads built up while recording a frame
	// (e.g. CopyBufferToImage source data assembled on the fly) can be
	// allocated from it instead of the GC heap; BeginFrame resets it.
	scratch *alloc.Stack
}

// CreateContext creates a context bound to this engine's device.
func (e *Engine) CreateContext(info hal.ContextInfo) (*Context, error) {
	if err := e.requireActive(); err != nil {
		return nil, err
	}
	hc, err := e.device.NewContext(info)
	if err != nil {
		return nil, fmt.Errorf("ngfx: create context: %w", err)
	}
	c := &Context{engine: e, halCtx: hc, scratch: alloc.NewStack(0)}
	e.mu.Lock()
	c.id = e.contexts.Insert(c)
	e.mu.Unlock()
	return c, nil
}

// DestroyContext releases ctx. Any cmd buffers or render targets it
// owns must have already been destroyed; ctx must not be used again
// after this call.
func (e *Engine) DestroyContext(ctx *Context) {
	e.mu.Lock()
	e.contexts.Remove(ctx.id)
	e.mu.Unlock()
	ctx.halCtx.Destroy()
}

// SetContext binds ctx as the current context (spec §9
// CURRENT_CONTEXT), letting code further down the call stack recover
// it via CurrentContext without threading a *Context parameter. The
// binding is a single process-wide value, not one per goroutine or OS
// thread: a SetContext call on any goroutine replaces it for all.
func SetContext(ctx *Context) { current.Bind(ctx) }

// CurrentContext returns the context bound by the most recent
// SetContext call on any goroutine, or nil if none has been bound.
func CurrentContext() *Context { return current.Current() }

// ResizeContext reconfigures ctx's default render target (and
// swapchain, for backends that own one) to a new extent.
func (ctx *Context) ResizeContext(width, height uint32) error {
	return ctx.halCtx.Resize(width, height)
}

// DefaultRenderTarget returns the render target ctx created
// implicitly for its swapchain or offscreen default surface.
func (ctx *Context) DefaultRenderTarget() types.RenderTargetID {
	return ctx.halCtx.DefaultRenderTarget()
}

// BeginFrame advances ctx's frame cycle, discarding any frame-scratch
// allocations left over from the previous frame.
func (ctx *Context) BeginFrame() (hal.FrameInfo, error) {
	ctx.scratch.Reset()
	return ctx.halCtx.BeginFrame()
}

// FrameScratch returns the context's per-frame transient-memory arena.
// Allocations from it are valid until the next BeginFrame call.
func (ctx *Context) FrameScratch() *alloc.Stack { return ctx.scratch }

// EndFrame finalizes ctx's current frame, presenting if the backend
// owns a swapchain.
func (ctx *Context) EndFrame() error {
	return ctx.halCtx.EndFrame()
}

// CreateCmdBuffer allocates a command buffer in the NEW state.
func (ctx *Context) CreateCmdBuffer() (hal.CmdBuffer, error) {
	return ctx.halCtx.NewCmdBuffer()
}

// SubmitCmdBuffers submits buffers for execution, running the
// submit-time patch-barrier pass against each.
func (ctx *Context) SubmitCmdBuffers(buffers ...hal.CmdBuffer) error {
	return ctx.halCtx.Submit(buffers...)
}
