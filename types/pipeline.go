// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

// SpecializationEntry overrides one shader specialization constant at
// pipeline-creation time.
type SpecializationEntry struct {
	ConstantID uint32
	Value      uint32 // reinterpreted as the constant's declared type
}

// SpecializationInfo is the full set of specialization overrides applied
// to a pipeline's shader stages.
type SpecializationInfo struct {
	Entries []SpecializationEntry
}

// DepthStencilState configures the fixed-function depth/stencil tests.
type DepthStencilState struct {
	DepthTestEnable  bool
	DepthWriteEnable bool
	DepthCompare     CompareFunction
	StencilEnable    bool
	StencilReadMask  uint8
	StencilWriteMask uint8
}

// BlendFactor and BlendOp are the standard fixed-function blend terms.
type BlendFactor uint8

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
)

type BlendOp uint8

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

// ColorBlendState configures a color attachment's blend function.
type ColorBlendState struct {
	Enable         bool
	SrcColorFactor BlendFactor
	DstColorFactor BlendFactor
	ColorOp        BlendOp
	SrcAlphaFactor BlendFactor
	DstAlphaFactor BlendFactor
	AlphaOp        BlendOp
}

// PrimitiveTopology selects how vertices assemble into primitives.
type PrimitiveTopology uint8

const (
	PrimitiveTriangleList PrimitiveTopology = iota
	PrimitiveTriangleStrip
	PrimitiveLineList
	PrimitivePointList
)

// GraphicsPipelineInfo describes a graphics pipeline to be created. Its
// descriptor-set layouts and pipeline layout are not supplied here —
// they're derived from VertexModule/FragmentModule's reflection metadata
// by internal/reflect.Build (spec §4.C7), the same as for compute.
type GraphicsPipelineInfo struct {
	Label              string
	VertexModule       ShaderModuleID
	VertexEntryPoint   string
	FragmentModule     ShaderModuleID
	FragmentEntryPoint string
	VertexBuffers      []VertexBufferLayout
	Topology           PrimitiveTopology
	CompatibleTarget   RenderTargetID
	DepthStencil       *DepthStencilState
	ColorBlend         []ColorBlendState
	Specialization     SpecializationInfo
}

// ComputePipelineInfo describes a compute pipeline to be created.
type ComputePipelineInfo struct {
	Label          string
	Module         ShaderModuleID
	EntryPoint     string
	Specialization SpecializationInfo
}

// Viewport is a rasterization viewport.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// Scissor is a rasterization scissor rectangle.
type Scissor struct {
	X, Y          int32
	Width, Height uint32
}
