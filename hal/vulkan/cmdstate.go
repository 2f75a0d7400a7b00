// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"

	"github.com/gogpu/ngfx/hal"
	isync "github.com/gogpu/ngfx/internal/sync"
	"github.com/gogpu/ngfx/types"
)

// recordedBarrier is one barrier the local tracker decided to emit.
type recordedBarrier struct {
	key     isync.ResourceKey
	isImage bool
	barrier isync.Barrier
}

// renderCmd is one entry of the deferred render-command stream. A
// real implementation would instead encode into a VkCommandBuffer
// here; see the package doc for why this one only records.
type renderCmd struct {
	kind string
	args []any
}

// CmdBuffer implements hal.CmdBuffer and enforces the C11 recording
// state machine (CmdBufferState). It runs the real internal/sync
// barrier-derivation and patch-submit logic against its recorded
// resource accesses, without emitting any vkCmd* calls.
type CmdBuffer struct {
	ctx   *Context
	state hal.CmdBufferState
	local *isync.Local

	renderCmds []renderCmd
	barriers   []recordedBarrier
	debugDepth int

	lastPass        *renderPassHandle
	lastPassCreated bool
}

func newCmdBuffer(ctx *Context) *CmdBuffer {
	return &CmdBuffer{ctx: ctx, state: hal.CmdBufferNew, local: isync.NewLocal()}
}

func (b *CmdBuffer) State() hal.CmdBufferState { return b.state }

func (b *CmdBuffer) Start() error {
	if b.state != hal.CmdBufferReady && b.state != hal.CmdBufferNew {
		return fmt.Errorf("vulkan: Start: %w (in %s)", hal.ErrInvalidCmdBufferState, b.state)
	}
	b.state = hal.CmdBufferRecording
	return nil
}

func (b *CmdBuffer) requireRecording() error {
	if b.state != hal.CmdBufferRecording {
		return fmt.Errorf("vulkan: %w (in %s)", hal.ErrInvalidCmdBufferState, b.state)
	}
	return nil
}

// track is the single choke point every render/compute/transfer op
// routes a resource access through: it applies req to the command
// buffer's local sync state (spec §4.C10) and records any barrier the
// local tracker decides is needed against the recording so far.
func (b *CmdBuffer) track(key isync.ResourceKey, isImage bool, req isync.Req) error {
	if err := b.requireRecording(); err != nil {
		return err
	}
	if barrier, needed := b.local.Record(key, req, isImage); needed {
		b.barriers = append(b.barriers, recordedBarrier{key: key, isImage: isImage, barrier: barrier})
	}
	return nil
}

func (b *CmdBuffer) TrackBuffer(id types.BufferID, req isync.Req) error {
	return b.track(isync.ResourceKey(id.Raw()), false, req)
}

func (b *CmdBuffer) TrackImage(id types.ImageID, req isync.Req) error {
	return b.track(isync.ResourceKey(id.Raw()), true, req)
}

func (b *CmdBuffer) End() error {
	if err := b.requireRecording(); err != nil {
		return err
	}
	if b.debugDepth != 0 {
		return fmt.Errorf("vulkan: End: %d debug group(s) still open", b.debugDepth)
	}
	b.state = hal.CmdBufferReady
	return nil
}

// BeginDebugGroup/EndDebugGroup would bracket the recorded span with a
// vkCmdBeginDebugUtilsLabelEXT/vkCmdEndDebugUtilsLabelEXT pair; this
// backend only enforces the nesting discipline and records the label.
func (b *CmdBuffer) BeginDebugGroup(label string) error {
	if err := b.requireRecording(); err != nil {
		return err
	}
	b.debugDepth++
	b.renderCmds = append(b.renderCmds, renderCmd{kind: "beginDebugGroup", args: []any{label}})
	return nil
}

func (b *CmdBuffer) EndDebugGroup() error {
	if err := b.requireRecording(); err != nil {
		return err
	}
	if b.debugDepth == 0 {
		return fmt.Errorf("vulkan: EndDebugGroup: no open debug group")
	}
	b.debugDepth--
	b.renderCmds = append(b.renderCmds, renderCmd{kind: "endDebugGroup"})
	return nil
}

// BarrierCount reports how many barriers this command buffer's local
// tracker has emitted so far, for tests asserting on sync-engine
// behavior reached through the public record/submit API.
func (b *CmdBuffer) BarrierCount() int { return len(b.barriers) }

// LastRenderPass reports the render-pass cache entry the most recent
// EndRenderPass call resolved, and whether that call created it (a
// cache miss) or reused one (a cache hit).
func (b *CmdBuffer) LastRenderPass() (id uint64, created bool) {
	if b.lastPass == nil {
		return 0, false
	}
	return b.lastPass.id, b.lastPassCreated
}

// resolveImage follows an ImageSamplerPayload back to the ImageID it
// ultimately names: directly, or via the image view it was bound
// through, since a view's sync state is its underlying image's.
func (b *CmdBuffer) resolveImage(p types.ImageSamplerPayload) types.ImageID {
	if p.IsView {
		if info, ok := b.ctx.dev.imageViews.Get(p.View); ok {
			return info.Image
		}
	}
	return p.Image
}

// bindOpSyncReq derives the sync requirement a single resource bind op
// implies, plus the resource key it applies to. ok is false for bind
// ops this engine does not hold a sync state for (a bare sampler
// carries no memory hazard; a texel buffer view has no backing
// resource table in this device — see DESIGN.md).
//
// Per-binding readonly/stage information comes from a shader module's
// reflection table, which isn't reachable from the encoder at bind
// time, so storage buffers and storage images conservatively assume
// both read and write access and render binds conservatively assume
// both vertex and fragment stages; this only ever widens the barriers
// derived, never narrows them, so it cannot miss a required one.
func (b *CmdBuffer) bindOpSyncReq(op types.ResourceBindOp, stage isync.StageMask) (key isync.ResourceKey, req isync.Req, isImage, ok bool) {
	switch op.Type {
	case types.BindOpUniformBuffer:
		return isync.ResourceKey(op.Buffer.Buffer.Raw()),
			isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessUniformRead, StageMask: stage}},
			false, true
	case types.BindOpStorageBuffer:
		return isync.ResourceKey(op.Buffer.Buffer.Raw()),
			isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessShaderRead | isync.AccessShaderWrite, StageMask: stage}},
			false, true
	case types.BindOpImage, types.BindOpImageAndSampler:
		img := b.resolveImage(op.ImageSampler)
		return isync.ResourceKey(img.Raw()),
			isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessShaderRead, StageMask: stage}, Layout: isync.LayoutShaderReadOnlyOptimal},
			true, true
	case types.BindOpStorageImage:
		img := b.resolveImage(op.ImageSampler)
		return isync.ResourceKey(img.Raw()),
			isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessShaderRead | isync.AccessShaderWrite, StageMask: stage}, Layout: isync.LayoutGeneral},
			true, true
	default:
		// BindOpSampler: a bare sampler has no memory to synchronize.
		// BindOpTexelBuffer: no texel-buffer-view resource table exists
		// in this device (CreateTexelBufferView isn't part of hal.Device).
		return 0, isync.Req{}, false, false
	}
}
