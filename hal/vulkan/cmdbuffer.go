// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"github.com/gogpu/ngfx/hal"
	isync "github.com/gogpu/ngfx/internal/sync"
	"github.com/gogpu/ngfx/types"
)

func (b *CmdBuffer) BeginRenderPass(target types.RenderTargetID, clear []types.ClearValue, ops []types.AttachmentOps) (hal.RenderEncoder, error) {
	if err := b.requireRecording(); err != nil {
		return nil, err
	}
	return &renderEncoder{buf: b, target: target, ops: ops}, nil
}

func (b *CmdBuffer) BeginCompute() (hal.ComputeEncoder, error) {
	if err := b.requireRecording(); err != nil {
		return nil, err
	}
	return &computeEncoder{buf: b}, nil
}

// CopyBuffer tracks src as a transfer read and dst as a transfer write
// (spec §4.C10's "implicit tracking from ... copy calls"), so a
// barrier is derived whenever either buffer's prior access conflicts.
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

// CopyBufferToImage tracks src as a transfer-read buffer and dst as a
// transfer-write image transitioning into LayoutTransferDstOptimal.
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

// GenerateMipmaps tracks the whole-resource transitions a mip-chain
// blit loop puts an image through. This engine tracks one sync state
// per image, not per mip level, so the real per-level chain (each
// level blits from the one below it, becoming a transfer source for
// the next level once written) collapses to the two transitions the
// image as a whole passes through: a transfer read of the base level,
// then a transfer write of the levels generated from it.
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
