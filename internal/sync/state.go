// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package sync implements the automatic hazard-tracking engine for the
// Vulkan-class backend: per-resource synchronization state, sync-request
// batching, and pipeline-barrier derivation. It has no dependency on any
// particular graphics API; hal/vulkan maps AccessMask/StageMask/Layout
// values onto VkAccessFlags/VkPipelineStageFlags/VkImageLayout at the
// point a Barrier is turned into a real vkCmdPipelineBarrier call.
package sync

// AccessMask is a bitset of GPU memory-access classes.
type AccessMask uint32

// Access classes. The bit assignment is arbitrary but must stay stable:
// perStageAccessMask below hard-codes which classes are legal for which
// stage, and that table is part of the engine's correctness contract.
const (
	AccessVertexAttributeRead AccessMask = 1 << iota
	AccessIndexRead
	AccessShaderRead
	AccessUniformRead
	AccessShaderWrite
	AccessColorAttachmentRead
	AccessColorAttachmentWrite
	AccessDepthStencilRead
	AccessDepthStencilWrite
	AccessTransferRead
	AccessTransferWrite
)

// AllWrites is the mask of access classes that mutate resource contents.
// A request touching any of these bits always needs a write-barrier,
// never a read-only one.
const AllWrites = AccessShaderWrite | AccessTransferWrite | AccessColorAttachmentWrite | AccessDepthStencilWrite

// StageMask is a bitset of pipeline stages.
type StageMask uint32

// Pipeline stages. Only the first eight participate in the
// per-stage-readers encoding (see stageIndex); BottomOfPipe and
// TopOfPipe are used only as barrier src/dst fill values.
const (
	StageVertexInput StageMask = 1 << iota
	StageVertexShader
	StageFragmentShader
	StageComputeShader
	StageEarlyFragmentTests
	StageLateFragmentTests
	StageColorAttachmentOutput
	StageTransfer
	StageBottomOfPipe
	StageTopOfPipe
)

// Layout is an abstract image layout, mirroring the subset of
// VkImageLayout values the sync engine reasons about.
type Layout uint8

const (
	LayoutUndefined Layout = iota
	LayoutGeneral
	LayoutColorAttachmentOptimal
	LayoutDepthStencilAttachmentOptimal
	LayoutDepthStencilReadOnlyOptimal
	LayoutShaderReadOnlyOptimal
	LayoutTransferSrcOptimal
	LayoutTransferDstOptimal
	LayoutPresentSrc
)

// BarrierMasks pairs an access mask with the stage mask that performs it.
type BarrierMasks struct {
	AccessMask AccessMask
	StageMask  StageMask
}

// Req describes how an upcoming command intends to use a resource.
// Produced at recording time by render-pass begin, draw, dispatch and
// transfer ops (spec §4.C10 "Sync request").
type Req struct {
	Masks  BarrierMasks
	Layout Layout // ignored for buffers
}

// State is the per-resource synchronization state described in spec §3
// ("Sync state per resource") and §4.C10.
type State struct {
	LastWriter          BarrierMasks
	ActiveReaders       BarrierMasks
	PerStageReadersMask uint32
	Layout              Layout // images only; buffers leave this at LayoutUndefined
}

// Barrier is the result of deriving a hazard transition between a
// resource's prior State and a new Req.
type Barrier struct {
	SrcStageMask  StageMask
	SrcAccessMask AccessMask
	DstStageMask  StageMask
	DstAccessMask AccessMask
	SrcLayout     Layout
	DstLayout     Layout
}
