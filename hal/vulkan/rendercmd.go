// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	isync "github.com/gogpu/ngfx/internal/sync"
	"github.com/gogpu/ngfx/types"
)

// renderEncoder implements hal.RenderEncoder with the deferred
// recording algorithm of spec §4.C9: bind-resource calls only append
// to a pending VirtBindOps accumulator, which is flushed into a
// sync-req batch — deriving barriers and allocating a virtual
// descriptor-set slot from this frame's superpool — on pipeline
// switch, on every Draw/DrawIndexed, and at EndRenderPass, which also
// resolves this pass against the render-pass/framebuffer cache (C8).
type renderEncoder struct {
	buf    *CmdBuffer
	target types.RenderTargetID
	ops    []types.AttachmentOps

	bound    types.GraphicsPipelineID
	hasBound bool
	pending  VirtBindOps
}

func (e *renderEncoder) append(kind string, args ...any) {
	e.buf.renderCmds = append(e.buf.renderCmds, renderCmd{kind: kind, args: args})
}

// flush scans the pending bind-op range, derives the batch's barriers
// against the command buffer's local state, and allocates the virtual
// descriptor set those binds would be written into.
func (e *renderEncoder) flush() {
	ops := e.pending.Drain()
	if len(ops) == 0 {
		return
	}
	batch := isync.NewBatch(nil)
	for _, op := range ops {
		if key, req, isImage, ok := e.buf.bindOpSyncReq(op, isync.StageVertexShader|isync.StageFragmentShader); ok {
			batch.Add(key, req, isImage)
		}
	}
	e.buf.local.RecordBatch(batch, func(key isync.ResourceKey, isImage bool, br isync.Barrier) {
		e.buf.barriers = append(e.buf.barriers, recordedBarrier{key: key, isImage: isImage, barrier: br})
	})
	slot := int(e.buf.ctx.token.FrameID())
	idx := e.buf.ctx.descPools[slot].Alloc()
	e.append("executePendingBinds", idx, batch.Len())
}

func (e *renderEncoder) BindGraphicsPipeline(id types.GraphicsPipelineID) {
	if e.hasBound && e.bound != id {
		e.flush()
	}
	e.bound, e.hasBound = id, true
	e.append("bindGraphicsPipeline", id)
}

func (e *renderEncoder) BindVertexBuffer(slot uint32, buffer types.BufferID, offset uint64) {
	_ = e.buf.TrackBuffer(buffer, isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessVertexAttributeRead, StageMask: isync.StageVertexInput}})
	e.append("bindVertexBuffer", slot, buffer, offset)
}

func (e *renderEncoder) BindIndexBuffer(buffer types.BufferID, offset uint64, format types.IndexFormat) {
	_ = e.buf.TrackBuffer(buffer, isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessIndexRead, StageMask: isync.StageVertexInput}})
	e.append("bindIndexBuffer", buffer, offset, format)
}

func (e *renderEncoder) BindResources(ops []types.ResourceBindOp) {
	for _, op := range ops {
		e.pending.Add(op)
	}
	e.append("bindResources", ops)
}

func (e *renderEncoder) SetViewport(vp types.Viewport) { e.append("setViewport", vp) }
func (e *renderEncoder) SetScissor(sc types.Scissor)   { e.append("setScissor", sc) }

func (e *renderEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	e.flush()
	e.append("draw", vertexCount, instanceCount, firstVertex, firstInstance)
}

func (e *renderEncoder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	e.flush()
	e.append("drawIndexed", indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}

// EndRenderPass flushes any remaining pending binds, then looks up or
// creates this pass's render-pass/framebuffer cache entry (C8) keyed
// on the target's compat key and this call's ops key.
func (e *renderEncoder) EndRenderPass() error {
	e.flush()
	info, _ := e.buf.ctx.dev.renderTargets.Get(e.target)
	compat := compatKeyFor(info.Attachments)
	ops := opsKeyFor(e.ops)
	handle, created := e.buf.ctx.dev.passCache.LookupOrCreate(compat, ops)
	e.buf.lastPass, e.buf.lastPassCreated = handle, created
	e.append("endRenderPass")
	return nil
}

// computeEncoder implements hal.ComputeEncoder. Compute dispatches
// have no framebuffer to coalesce binds against, so resource binds are
// tracked immediately rather than deferred through a VirtBindOps range.
type computeEncoder struct {
	buf   *CmdBuffer
	bound types.ComputePipelineID
}

func (e *computeEncoder) BindComputePipeline(id types.ComputePipelineID) { e.bound = id }

func (e *computeEncoder) BindResources(ops []types.ResourceBindOp) {
	for _, op := range ops {
		if key, req, isImage, ok := e.buf.bindOpSyncReq(op, isync.StageComputeShader); ok {
			_ = e.buf.track(key, isImage, req)
		}
	}
}

func (e *computeEncoder) Dispatch(groupsX, groupsY, groupsZ uint32) {}

func (e *computeEncoder) EndCompute() error { return nil }
