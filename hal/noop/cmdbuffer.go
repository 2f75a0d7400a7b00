package noop

import (
	"fmt"

	"github.com/gogpu/ngfx/hal"
	isync "github.com/gogpu/ngfx/internal/sync"
	"github.com/gogpu/ngfx/types"
)

// recordedBarrier is one barrier the local tracker decided to emit,
// kept around so tests can assert on exactly what the sync engine
// produced for a given recording.
type recordedBarrier struct {
	key     isync.ResourceKey
	isImage bool
	barrier isync.Barrier
}

// renderCmd is one entry of the deferred render-command stream (C9).
type renderCmd struct {
	kind string
	args []any
}

// CmdBuffer implements hal.CmdBuffer without touching any GPU: it
// records into plain Go slices and runs the real internal/sync logic
// against them, so tests exercise the production barrier-derivation
// and patch-submit code paths end to end.
type CmdBuffer struct {
	ctx   *Context
	state hal.CmdBufferState
	local *isync.Local

	renderCmds []renderCmd
	barriers   []recordedBarrier
	debugDepth int
}

func newCmdBuffer(ctx *Context) *CmdBuffer {
	return &CmdBuffer{ctx: ctx, state: hal.CmdBufferNew, local: isync.NewLocal()}
}

func (b *CmdBuffer) State() hal.CmdBufferState { return b.state }

func (b *CmdBuffer) Start() error {
	if b.state != hal.CmdBufferReady && b.state != hal.CmdBufferNew {
		return fmt.Errorf("noop: Start: %w (in %s)", hal.ErrInvalidCmdBufferState, b.state)
	}
	b.state = hal.CmdBufferRecording
	return nil
}

func (b *CmdBuffer) requireRecording() error {
	if b.state != hal.CmdBufferRecording {
		return fmt.Errorf("noop: %w (in %s)", hal.ErrInvalidCmdBufferState, b.state)
	}
	return nil
}

// track is the single choke point every render/compute/transfer op
// routes a resource access through.
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

// BarrierCount reports how many barriers this command buffer's local
// tracker has emitted so far, for tests driving the sync engine
// through the public record/submit API.
func (b *CmdBuffer) BarrierCount() int { return len(b.barriers) }

// resolveImage follows an ImageSamplerPayload back to the ImageID it
// names, directly or via the image view it was bound through.
func (b *CmdBuffer) resolveImage(p types.ImageSamplerPayload) types.ImageID {
	if p.IsView {
		if info, ok := b.ctx.dev.imageViews.Get(p.View); ok {
			return info.Image
		}
	}
	return p.Image
}

// trackBindOp derives and applies the sync requirement a single
// resource bind op implies (spec §4.C10's "implicit tracking from
// binding ... calls"). A bare sampler bind (BindOpSampler) carries no
// memory hazard and a texel buffer view has no backing resource table
// in this device, so both are left untracked.
//
// Per-binding readonly/stage information lives in a shader module's
// reflection table, not reachable from the encoder at bind time, so
// storage buffers/images conservatively assume read+write access and
// render binds conservatively assume both vertex and fragment stages —
// this only ever widens the barriers derived, never narrows them.
func (b *CmdBuffer) trackBindOp(op types.ResourceBindOp, stage isync.StageMask) {
	switch op.Type {
	case types.BindOpUniformBuffer:
		_ = b.TrackBuffer(op.Buffer.Buffer, isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessUniformRead, StageMask: stage}})
	case types.BindOpStorageBuffer:
		_ = b.TrackBuffer(op.Buffer.Buffer, isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessShaderRead | isync.AccessShaderWrite, StageMask: stage}})
	case types.BindOpImage, types.BindOpImageAndSampler:
		img := b.resolveImage(op.ImageSampler)
		_ = b.TrackImage(img, isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessShaderRead, StageMask: stage}, Layout: isync.LayoutShaderReadOnlyOptimal})
	case types.BindOpStorageImage:
		img := b.resolveImage(op.ImageSampler)
		_ = b.TrackImage(img, isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessShaderRead | isync.AccessShaderWrite, StageMask: stage}, Layout: isync.LayoutGeneral})
	}
}

func (b *CmdBuffer) BeginRenderPass(target types.RenderTargetID, clear []types.ClearValue, ops []types.AttachmentOps) (hal.RenderEncoder, error) {
	if err := b.requireRecording(); err != nil {
		return nil, err
	}
	return &renderEncoder{buf: b, target: target}, nil
}

func (b *CmdBuffer) BeginCompute() (hal.ComputeEncoder, error) {
	if err := b.requireRecording(); err != nil {
		return nil, err
	}
	return &computeEncoder{buf: b}, nil
}

// CopyBuffer tracks src as a transfer read and dst as a transfer
// write, deriving a barrier whenever either conflicts with its prior
// recorded access.
func (b *CmdBuffer) CopyBuffer(src, dst types.BufferID, srcOffset, dstOffset, size uint64) error {
	if err := b.requireRecording(); err != nil {
		return err
	}
	if err := b.TrackBuffer(src, isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessTransferRead, StageMask: isync.StageTransfer}}); err != nil {
		return err
	}
	if err := b.TrackBuffer(dst, isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessTransferWrite, StageMask: isync.StageTransfer}}); err != nil {
		return err
	}
	b.renderCmds = append(b.renderCmds, renderCmd{kind: "copyBuffer", args: []any{src, dst, srcOffset, dstOffset, size}})
	return nil
}

func (b *CmdBuffer) CopyBufferToImage(src types.BufferID, dst types.ImageID, region types.ImageWriteRegion) error {
	if err := b.requireRecording(); err != nil {
		return err
	}
	if err := b.TrackBuffer(src, isync.Req{Masks: isync.BarrierMasks{AccessMask: isync.AccessTransferRead, StageMask: isync.StageTransfer}}); err != nil {
		return err
	}
	if err := b.TrackImage(dst, isync.Req{
		Masks:  isync.BarrierMasks{AccessMask: isync.AccessTransferWrite, StageMask: isync.StageTransfer},
		Layout: isync.LayoutTransferDstOptimal,
	}); err != nil {
		return err
	}
	b.renderCmds = append(b.renderCmds, renderCmd{kind: "copyBufferToImage", args: []any{src, dst, region}})
	return nil
}

// GenerateMipmaps tracks the whole-resource read-then-write transition
// a mip-chain blit loop puts an image through (see vulkan's
// CmdBuffer.GenerateMipmaps for why this collapses the per-level
// chain to two transitions).
func (b *CmdBuffer) GenerateMipmaps(id types.ImageID) error {
	if err := b.requireRecording(); err != nil {
		return err
	}
	if err := b.TrackImage(id, isync.Req{
		Masks:  isync.BarrierMasks{AccessMask: isync.AccessTransferRead, StageMask: isync.StageTransfer},
		Layout: isync.LayoutTransferSrcOptimal,
	}); err != nil {
		return err
	}
	if err := b.TrackImage(id, isync.Req{
		Masks:  isync.BarrierMasks{AccessMask: isync.AccessTransferWrite, StageMask: isync.StageTransfer},
		Layout: isync.LayoutTransferDstOptimal,
	}); err != nil {
		return err
	}
	b.renderCmds = append(b.renderCmds, renderCmd{kind: "generateMipmaps", args: []any{id}})
	return nil
}

func (b *CmdBuffer) End() error {
	if err := b.requireRecording(); err != nil {
		return err
	}
	if b.debugDepth != 0 {
		return fmt.Errorf("noop: End: %d debug group(s) still open", b.debugDepth)
	}
	b.state = hal.CmdBufferReady
	return nil
}

// BeginDebugGroup/EndDebugGroup record matching labeling commands into
// the deferred stream; the noop backend has no debugger to show them
// to, but the nesting discipline is still enforced.
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
		return fmt.Errorf("noop: EndDebugGroup: no open debug group")
	}
	b.debugDepth--
	b.renderCmds = append(b.renderCmds, renderCmd{kind: "endDebugGroup"})
	return nil
}

type renderEncoder struct {
	buf    *CmdBuffer
	target types.RenderTargetID
	bound  types.GraphicsPipelineID
}

func (e *renderEncoder) append(kind string, args ...any) {
	e.buf.renderCmds = append(e.buf.renderCmds, renderCmd{kind: kind, args: args})
}

func (e *renderEncoder) BindGraphicsPipeline(id types.GraphicsPipelineID) {
	e.bound = id
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
		e.buf.trackBindOp(op, isync.StageVertexShader|isync.StageFragmentShader)
	}
	e.append("bindResources", ops)
}
func (e *renderEncoder) SetViewport(vp types.Viewport) { e.append("setViewport", vp) }
func (e *renderEncoder) SetScissor(sc types.Scissor)   { e.append("setScissor", sc) }
func (e *renderEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	e.append("draw", vertexCount, instanceCount, firstVertex, firstInstance)
}
func (e *renderEncoder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	e.append("drawIndexed", indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}
func (e *renderEncoder) EndRenderPass() error {
	e.append("endRenderPass")
	return nil
}

type computeEncoder struct {
	buf   *CmdBuffer
	bound types.ComputePipelineID
}

func (e *computeEncoder) BindComputePipeline(id types.ComputePipelineID) { e.bound = id }
func (e *computeEncoder) BindResources(ops []types.ResourceBindOp) {
	for _, op := range ops {
		e.buf.trackBindOp(op, isync.StageComputeShader)
	}
}
func (e *computeEncoder) Dispatch(groupsX, groupsY, groupsZ uint32) {}
func (e *computeEncoder) EndCompute() error                         { return nil }
