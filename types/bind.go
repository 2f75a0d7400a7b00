// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

// BindOpType enumerates the kind of descriptor a ResourceBindOp targets
// (spec §6.3).
type BindOpType uint8

const (
	BindOpUniformBuffer BindOpType = iota
	BindOpStorageBuffer
	BindOpImage
	BindOpSampler
	BindOpImageAndSampler
	BindOpStorageImage
	BindOpTexelBuffer
)

// ImageSamplerPayload is the payload of an image/sampler/combined bind
// op. IsView indicates View, rather than Image, names the bound
// image.
type ImageSamplerPayload struct {
	Image   ImageID
	View    ImageViewID
	IsView  bool
	Sampler SamplerID
	HasSampler bool
}

// ResourceBindOp is a single deferred descriptor write (spec §6.3),
// recorded by bind_resources/bind_compute_resources and not applied
// until the deferred render-command stream is replayed (spec §4.C9).
type ResourceBindOp struct {
	TargetSet     uint32
	TargetBinding uint32
	ArrayIndex    uint32
	Type          BindOpType

	Buffer       BufferSlice          // BindOpUniformBuffer, BindOpStorageBuffer
	ImageSampler ImageSamplerPayload  // BindOpImage, BindOpSampler, BindOpImageAndSampler, BindOpStorageImage
	TexelBuffer  TexelBufferViewID    // BindOpTexelBuffer
}
