// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

// Filter selects nearest or linear sampling.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
)

// AddressMode selects a texture coordinate wrap mode.
type AddressMode uint8

const (
	AddressModeRepeat AddressMode = iota
	AddressModeMirroredRepeat
	AddressModeClampToEdge
	AddressModeClampToBorder
)

// CompareFunction is used for depth/stencil comparisons and for
// comparison samplers.
type CompareFunction uint8

const (
	CompareNever CompareFunction = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

// SamplerInfo describes a sampler to be created.
type SamplerInfo struct {
	Label        string
	MinFilter    Filter
	MagFilter    Filter
	MipFilter    Filter
	AddressModeU AddressMode
	AddressModeV AddressMode
	AddressModeW AddressMode
	LODMinClamp  float32
	LODMaxClamp  float32
	MaxAnisotropy uint8
	Compare      *CompareFunction
}
