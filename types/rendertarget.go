// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

// AttachmentType classifies a render-target attachment.
type AttachmentType uint8

const (
	AttachmentColor AttachmentType = iota
	AttachmentDepth
	AttachmentDepthStencil
)

// AttachmentDescription is the portion of an attachment's identity that
// render-pass compatibility is judged on (spec §3, §4.C8 "Compat key"):
// two render targets are compatible iff their attachment description
// lists match in format, sample count, type, and resolve flag.
type AttachmentDescription struct {
	Format      Format
	SampleCount uint32
	Type        AttachmentType
	IsResolve   bool
}

// LoadOp selects how an attachment's prior contents are treated at the
// start of a render pass.
type LoadOp uint8

const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
	LoadOpDontCare
)

// StoreOp selects whether an attachment's contents are preserved after a
// render pass.
type StoreOp uint8

const (
	StoreOpStore StoreOp = iota
	StoreOpDontCare
)

// AttachmentOps is the per-attachment (load, store) pair used to key the
// render-pass cache's ops key (spec §4.C8).
type AttachmentOps struct {
	Load  LoadOp
	Store StoreOp
}

// RenderTargetInfo describes a non-default render target to be created.
// The default render target (the swapchain's) is constructed internally
// by the context and is never built from this struct directly.
type RenderTargetInfo struct {
	Label       string
	Attachments []AttachmentDescription
	Images      []ImageID // one per non-resolve attachment, in order
	Width       uint32
	Height      uint32
}

// ClearValue is the clear color/depth/stencil supplied at
// begin-render-pass time; which fields apply depends on the
// corresponding attachment's AttachmentType.
type ClearValue struct {
	Color        [4]float32
	Depth        float32
	Stencil      uint32
}
