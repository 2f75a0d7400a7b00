// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

// ImageType enumerates the dimensionality of an image resource.
type ImageType uint8

const (
	ImageType2D ImageType = iota
	ImageType3D
	ImageTypeCube
)

// ImageUsage is a bitmask of the ways an image may be bound, sampled or
// transferred (spec §3 "Image").
type ImageUsage uint16

const (
	ImageUsageSampleFrom ImageUsage = 1 << iota
	ImageUsageStorage
	ImageUsageAttachment
	ImageUsageTransferSrc
	ImageUsageTransferDst
	ImageUsageMipmapGen
	ImageUsageTransientAttachment
)

// Format enumerates the pixel/depth formats the engine understands. The
// set is deliberately small: format translation to backend-native enums
// lives in the thin per-backend enum-translation tables named out of
// scope by spec §1.
type Format uint16

const (
	FormatUndefined Format = iota
	FormatR8Unorm
	FormatRG8Unorm
	FormatRGBA8Unorm
	FormatRGBA8Srgb
	FormatBGRA8Unorm
	FormatBGRA8Srgb
	FormatR32Float
	FormatRGBA32Float
	FormatRGBA16Float
	FormatDepth32Float
	FormatDepth24Stencil8
)

// Extent3D is an image's width/height/depth, in texels.
type Extent3D struct{ Width, Height, Depth uint32 }

// ImageInfo describes an image to be created.
type ImageInfo struct {
	Label       string
	Extent      Extent3D
	Layers      uint32
	MipLevels   uint32
	Format      Format
	SampleCount uint32
	Type        ImageType
	Usage       ImageUsage
}

// ImageLayout mirrors internal/sync.Layout at the public-API surface so
// callers of debug/introspection entry points don't need to import the
// sync package. The two enumerations are distinct types with matching
// ordinals — this is a presentation-layer copy, not the engine's own
// hazard-tracking state.
type ImageLayout uint8

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutGeneral
	ImageLayoutColorAttachmentOptimal
	ImageLayoutDepthStencilAttachmentOptimal
	ImageLayoutDepthStencilReadOnlyOptimal
	ImageLayoutShaderReadOnlyOptimal
	ImageLayoutTransferSrcOptimal
	ImageLayoutTransferDstOptimal
	ImageLayoutPresentSrc
)

// ImageViewInfo describes an image view to be created.
type ImageViewInfo struct {
	Label          string
	Image          ImageID
	BaseMipLevel   uint32
	MipLevelCount  uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

// TexelBufferViewInfo describes a texel buffer view to be created.
type TexelBufferViewInfo struct {
	Label  string
	Buffer BufferID
	Format Format
	Offset uint64
	Range  uint64
}

// ImageWriteRegion is one write within a single write_image call.
type ImageWriteRegion struct {
	MipLevel    uint32
	BaseLayer   uint32
	LayerCount  uint32
	Offset      Extent3D
	Extent      Extent3D
	SrcRowPitch uint32
}
