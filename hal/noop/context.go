package noop

import (
	"fmt"

	"github.com/gogpu/ngfx/hal"
	"github.com/gogpu/ngfx/internal/engine"
	isync "github.com/gogpu/ngfx/internal/sync"
	"github.com/gogpu/ngfx/types"
)

// Context implements hal.Context over the in-memory Device.
type Context struct {
	dev    *Device
	info   hal.ContextInfo
	id     uint16
	queue  *engine.RetireQueue
	token  engine.FrameToken
	width  uint32
	height uint32
}

func (c *Context) Info() hal.ContextInfo { return c.info }

func (c *Context) BeginFrame() (hal.FrameInfo, error) {
	slot := int(c.token.FrameID())
	c.queue.Flush(slot)
	c.dev.beginFrameSlot(slot)
	return hal.FrameInfo{Token: uint32(c.token)}, nil
}

func (c *Context) EndFrame() error {
	c.token = engine.EncodeFrameToken(c.token.ContextID(), c.token.MaxInflight(), c.token.NextFrameID())
	return nil
}

func (c *Context) NewCmdBuffer() (hal.CmdBuffer, error) {
	return newCmdBuffer(c), nil
}

// Submit runs the submit-time patch-barrier pass (C10) for every
// command buffer against the device's real global sync state, then
// transitions each buffer through AWAITING_SUBMIT/PENDING/SUBMITTED.
func (c *Context) Submit(buffers ...hal.CmdBuffer) error {
	for _, hb := range buffers {
		b, ok := hb.(*CmdBuffer)
		if !ok {
			return fmt.Errorf("noop: Submit: command buffer not created by this backend")
		}
		if b.state != hal.CmdBufferReady {
			return fmt.Errorf("noop: Submit: %w (in %s)", hal.ErrInvalidCmdBufferState, b.state)
		}
		b.state = hal.CmdBufferAwaitingSubmit
		b.state = hal.CmdBufferPending

		b.local.PatchSubmit(func(key isync.ResourceKey) *isync.State {
			return c.dev.ResourceSyncState(rawIDFromKey(key))
		}, func(key isync.ResourceKey, isImage bool, barrier isync.Barrier) {
			b.barriers = append(b.barriers, recordedBarrier{key: key, isImage: isImage, barrier: barrier})
		})

		b.state = hal.CmdBufferSubmitted
		b.state = hal.CmdBufferReady

		slot := int(c.token.FrameID())
		cb := b
		c.queue.Defer(slot, func() { cb.renderCmds = nil; cb.barriers = nil })
	}
	return nil
}

// Resize just records the new extent: the noop backend has no real
// swapchain to recreate.
func (c *Context) Resize(width, height uint32) error {
	c.width, c.height = width, height
	return nil
}

func (c *Context) DefaultRenderTarget() types.RenderTargetID {
	return c.info.RenderTarget
}

func (c *Context) Destroy() {}
