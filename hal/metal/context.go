// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build darwin

package metal

import (
	"fmt"

	"github.com/gogpu/ngfx/hal"
	isync "github.com/gogpu/ngfx/internal/sync"
	"github.com/gogpu/ngfx/types"
)

// Context is a thin frame-counter wrapper; Metal's own
// MTLCommandQueue/MTLCommandBuffer completion handling does the work
// spec's C12 assigns to the sync-engine-integrated Vulkan context.
type Context struct {
	dev   *Device
	info  hal.ContextInfo
	frame uint8
}

func (c *Context) Info() hal.ContextInfo { return c.info }

func (c *Context) BeginFrame() (hal.FrameInfo, error) {
	return hal.FrameInfo{Token: uint32(c.frame)}, nil
}

func (c *Context) EndFrame() error {
	m := c.info.MaxInflight
	if m == 0 {
		m = 1
	}
	c.frame = (c.frame + 1) % m
	return nil
}

func (c *Context) NewCmdBuffer() (hal.CmdBuffer, error) {
	return &CmdBuffer{ctx: c, state: hal.CmdBufferNew}, nil
}

func (c *Context) Submit(buffers ...hal.CmdBuffer) error {
	for _, hb := range buffers {
		b, ok := hb.(*CmdBuffer)
		if !ok {
			return fmt.Errorf("metal: Submit: command buffer not created by this backend")
		}
		if b.state != hal.CmdBufferReady {
			return fmt.Errorf("metal: Submit: %w (in %s)", hal.ErrInvalidCmdBufferState, b.state)
		}
		b.state = hal.CmdBufferSubmitted
		b.state = hal.CmdBufferReady
	}
	return nil
}

func (c *Context) Resize(width, height uint32) error { return nil }

func (c *Context) DefaultRenderTarget() types.RenderTargetID {
	return c.info.RenderTarget
}

func (c *Context) Destroy() {}

// CmdBuffer is the immediate-mode command recorder: every call takes
// effect right away rather than deferring into a stream, since there
// is no automatic-synchronization pass to run before submission.
type CmdBuffer struct {
	ctx   *Context
	state hal.CmdBufferState
}

func (b *CmdBuffer) State() hal.CmdBufferState { return b.state }

func (b *CmdBuffer) Start() error {
	if b.state != hal.CmdBufferReady && b.state != hal.CmdBufferNew {
		return fmt.Errorf("metal: Start: %w (in %s)", hal.ErrInvalidCmdBufferState, b.state)
	}
	b.state = hal.CmdBufferRecording
	return nil
}

func (b *CmdBuffer) requireRecording() error {
	if b.state != hal.CmdBufferRecording {
		return fmt.Errorf("metal: %w (in %s)", hal.ErrInvalidCmdBufferState, b.state)
	}
	return nil
}

// TrackBuffer/TrackImage are no-ops: Metal's driver manages hazard
// tracking for MTLHazardTrackingModeDefault resources itself.
func (b *CmdBuffer) TrackBuffer(types.BufferID, isync.Req) error { return b.requireRecording() }
func (b *CmdBuffer) TrackImage(types.ImageID, isync.Req) error  { return b.requireRecording() }

func (b *CmdBuffer) BeginRenderPass(types.RenderTargetID, []types.ClearValue, []types.AttachmentOps) (hal.RenderEncoder, error) {
	if err := b.requireRecording(); err != nil {
		return nil, err
	}
	return &renderEncoder{}, nil
}

func (b *CmdBuffer) BeginCompute() (hal.ComputeEncoder, error) {
	if err := b.requireRecording(); err != nil {
		return nil, err
	}
	return &computeEncoder{}, nil
}

func (b *CmdBuffer) CopyBuffer(src, dst types.BufferID, srcOffset, dstOffset, size uint64) error {
	return b.requireRecording()
}

func (b *CmdBuffer) CopyBufferToImage(src types.BufferID, dst types.ImageID, region types.ImageWriteRegion) error {
	return b.requireRecording()
}

func (b *CmdBuffer) GenerateMipmaps(types.ImageID) error { return b.requireRecording() }

// BeginDebugGroup/EndDebugGroup would push/pop an MTLCommandEncoder
// debug group; the stub backend has no encoder to push onto, so it
// only enforces recording state.
func (b *CmdBuffer) BeginDebugGroup(string) error { return b.requireRecording() }
func (b *CmdBuffer) EndDebugGroup() error         { return b.requireRecording() }

func (b *CmdBuffer) End() error {
	if err := b.requireRecording(); err != nil {
		return err
	}
	b.state = hal.CmdBufferReady
	return nil
}

type renderEncoder struct{}

func (renderEncoder) BindGraphicsPipeline(types.GraphicsPipelineID)               {}
func (renderEncoder) BindVertexBuffer(uint32, types.BufferID, uint64)             {}
func (renderEncoder) BindIndexBuffer(types.BufferID, uint64, types.IndexFormat)   {}
func (renderEncoder) BindResources([]types.ResourceBindOp)                       {}
func (renderEncoder) SetViewport(types.Viewport)                                 {}
func (renderEncoder) SetScissor(types.Scissor)                                   {}
func (renderEncoder) Draw(uint32, uint32, uint32, uint32)                        {}
func (renderEncoder) DrawIndexed(uint32, uint32, uint32, int32, uint32)          {}
func (renderEncoder) EndRenderPass() error                                       { return nil }

type computeEncoder struct{}

func (computeEncoder) BindComputePipeline(types.ComputePipelineID) {}
func (computeEncoder) BindResources([]types.ResourceBindOp)        {}
func (computeEncoder) Dispatch(uint32, uint32, uint32)             {}
func (computeEncoder) EndCompute() error                           { return nil }
